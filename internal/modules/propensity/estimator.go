// Package propensity estimates a client's affinity for a product: a fixed
// heuristic base score smoothed with the mean base score of the client's
// nearest peers for the same product.
package propensity

import (
	"github.com/aselbek/recommender/internal/domain"
	"github.com/aselbek/recommender/internal/modules/neighbors"
	"github.com/aselbek/recommender/pkg/formulas"
)

const (
	baseScore = 0.5
	minScore  = 0.1
	maxScore  = 1.0

	// Blend weights for the final propensity
	ownWeight      = 0.7
	neighborWeight = 0.3
)

// Base computes the heuristic base propensity from client status and age
// against the product's segment, clamped to [0.1, 1.0].
func Base(c domain.Client, p domain.Product) float64 {
	score := baseScore
	segment := p.Segment()

	if c.Status == domain.StatusPremium {
		switch segment {
		case domain.SegmentPremium:
			score += 0.4
		case domain.SegmentCredit:
			score -= 0.2
		}
	}

	if c.Status == domain.StatusStudent && segment == domain.SegmentCredit {
		score += 0.3
	}

	if c.Age < 30 && (segment == domain.SegmentInvestment || segment == domain.SegmentCredit) {
		score += 0.2
	}

	if c.Age > 55 && segment == domain.SegmentDeposit {
		score += 0.2
	}

	return formulas.Clamp(score, minScore, maxScore)
}

// Estimator smooths base propensities across the neighbor graph
type Estimator struct {
	idx neighbors.Index
}

// NewEstimator creates an estimator over a built neighbor index
func NewEstimator(idx neighbors.Index) *Estimator {
	return &Estimator{idx: idx}
}

// Smooth fills NeighborPropensity and FinalPropensity on every offer.
// The neighbor term is the mean base propensity of the client's peers for
// the same product; with no peer data it degrades to the client's own base,
// so the final value equals the base value.
func (e *Estimator) Smooth(offers []*domain.Offer) {
	// base propensity by product, then client
	byProduct := make(map[string]map[string]float64)
	for _, o := range offers {
		m, ok := byProduct[o.ProductName]
		if !ok {
			m = make(map[string]float64)
			byProduct[o.ProductName] = m
		}
		m[o.ClientCode] = o.BasePropensity
	}

	for _, o := range offers {
		o.NeighborPropensity = e.neighborMean(o, byProduct[o.ProductName])
		o.FinalPropensity = ownWeight*o.BasePropensity + neighborWeight*o.NeighborPropensity
	}
}

func (e *Estimator) neighborMean(o *domain.Offer, byClient map[string]float64) float64 {
	var sum float64
	var n int
	for _, peer := range e.idx.Query(o.ClientCode) {
		if base, ok := byClient[peer]; ok {
			sum += base
			n++
		}
	}
	if n == 0 {
		return o.BasePropensity
	}
	return sum / float64(n)
}
