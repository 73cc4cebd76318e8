// Package vectorize turns aggregated spend plus demographic attributes into
// standardized numeric vectors, one per client with observed spend.
package vectorize

import (
	"sort"

	"github.com/aselbek/recommender/internal/domain"
	"github.com/aselbek/recommender/internal/modules/features"
	"github.com/aselbek/recommender/pkg/formulas"
)

// topCategoryCount is how many global spending categories become vector
// dimensions, beyond age and average balance.
const topCategoryCount = 20

// Vectors holds the standardized client vectors for one run. Clients with no
// aggregated spend are excluded rather than zero-filled, so the index only
// ever compares clients with real signal.
type Vectors struct {
	Dims  []string
	Codes []string
	Data  [][]float64
	index map[string]int
}

// Build vectorizes every client that appears in the aggregated spend table.
// Dimensions are the top categories by global volume, then age and balance.
// Each dimension is standardized to zero mean and unit variance over the
// population of this run; the parameters are not persisted.
func Build(clients []domain.Client, agg *features.Aggregates) *Vectors {
	dims := topCategories(agg.CategoryTotals(), topCategoryCount)
	dims = append(dims, "age", "avg_monthly_balance")

	v := &Vectors{Dims: dims, index: make(map[string]int)}
	for _, c := range clients {
		// Transfer-only clients have a feature entry but no spend; they
		// carry no category signal and stay out of the neighbor space.
		cf, ok := agg.Lookup(c.Code)
		if !ok || cf.TotalSpend == 0 {
			continue
		}
		row := make([]float64, len(dims))
		for i := 0; i < len(dims)-2; i++ {
			row[i] = agg.CategorySpend(c.Code, dims[i])
		}
		row[len(dims)-2] = float64(c.Age)
		row[len(dims)-1] = c.AvgMonthlyBalance

		v.index[c.Code] = len(v.Codes)
		v.Codes = append(v.Codes, c.Code)
		v.Data = append(v.Data, row)
	}

	v.standardize()
	return v
}

// Lookup returns a client's standardized vector, false when the client was
// excluded from vectorization.
func (v *Vectors) Lookup(code string) ([]float64, bool) {
	i, ok := v.index[code]
	if !ok {
		return nil, false
	}
	return v.Data[i], true
}

// Len is the number of vectorized clients
func (v *Vectors) Len() int {
	return len(v.Codes)
}

func (v *Vectors) standardize() {
	if len(v.Data) == 0 {
		return
	}
	col := make([]float64, len(v.Data))
	for d := range v.Dims {
		for i, row := range v.Data {
			col[i] = row[d]
		}
		mean := formulas.Mean(col)
		std := formulas.PopStdDev(col)
		if std == 0 {
			// Constant column: every value maps to 0.
			std = 1
		}
		for _, row := range v.Data {
			row[d] = (row[d] - mean) / std
		}
	}
}

// topCategories orders categories by descending global volume, ties broken
// by name, and keeps the first n.
func topCategories(totals map[string]float64, n int) []string {
	names := make([]string, 0, len(totals))
	for name := range totals {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if totals[names[i]] != totals[names[j]] {
			return totals[names[i]] > totals[names[j]]
		}
		return names[i] < names[j]
	})
	if len(names) > n {
		names = names[:n]
	}
	return names
}
