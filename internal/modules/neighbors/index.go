// Package neighbors answers "who are this client's most similar peers" over
// the standardized vectors. The metric is fixed: Euclidean distance.
package neighbors

import (
	"sort"

	"github.com/aselbek/recommender/internal/modules/vectorize"
	"github.com/aselbek/recommender/pkg/formulas"
)

// NeighborhoodSize is the raw k of the lookup: the point itself plus its
// five nearest peers. Queries drop the self entry.
const NeighborhoodSize = 6

// Index answers nearest-neighbor queries, read-only after construction.
// Query returns the nearest other clients ordered closest first; a client
// not present in the index yields nil, not an error.
type Index interface {
	Query(code string) []string
}

// BruteForce precomputes every client's neighbor list at build time with a
// full pairwise distance scan. The populations this runs over are small
// enough that a spatial index would not pay for itself.
type BruteForce struct {
	neighbors map[string][]string
}

// Build constructs the index over all vectorized clients
func Build(v *vectorize.Vectors) *BruteForce {
	idx := &BruteForce{neighbors: make(map[string][]string, v.Len())}

	type candidate struct {
		pos  int
		dist float64
	}
	for i, code := range v.Codes {
		candidates := make([]candidate, 0, v.Len()-1)
		for j := range v.Codes {
			if j == i {
				continue
			}
			candidates = append(candidates, candidate{
				pos:  j,
				dist: formulas.EuclideanDistance(v.Data[i], v.Data[j]),
			})
		}
		// Ties break on insertion order to keep the build deterministic.
		sort.SliceStable(candidates, func(a, b int) bool {
			return candidates[a].dist < candidates[b].dist
		})

		limit := NeighborhoodSize - 1
		if len(candidates) < limit {
			limit = len(candidates)
		}
		codes := make([]string, limit)
		for n := 0; n < limit; n++ {
			codes[n] = v.Codes[candidates[n].pos]
		}
		idx.neighbors[code] = codes
	}
	return idx
}

// Query returns the client's nearest peers, closest first. Unknown clients
// get nil; downstream consumers fall back to the client's own values.
func (b *BruteForce) Query(code string) []string {
	return b.neighbors[code]
}
