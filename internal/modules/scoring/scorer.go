// Package scoring turns raw offers into final ranked scores: the
// neighbor-derived counterfactual signal, global min-max normalization, the
// weighted blend, and top-1 selection per client.
package scoring

import (
	"github.com/aselbek/recommender/internal/config"
	"github.com/aselbek/recommender/internal/domain"
	"github.com/aselbek/recommender/internal/modules/features"
	"github.com/aselbek/recommender/internal/modules/neighbors"
	"github.com/aselbek/recommender/pkg/formulas"
)

// Scorer holds the read-only inputs of the scoring pass
type Scorer struct {
	weights config.ScoringWeights
	idx     neighbors.Index
	agg     *features.Aggregates
}

// New creates a scorer over the built neighbor index and feature table
func New(weights config.ScoringWeights, idx neighbors.Index, agg *features.Aggregates) *Scorer {
	return &Scorer{weights: weights, idx: idx, agg: agg}
}

// Counterfactual is the mean share-of-wallet of the client's peers in the
// product's target categories: how much similar clients already spend there.
// Products without a category set score zero, as do clients without peers.
func (s *Scorer) Counterfactual(clientCode string, p domain.Product) float64 {
	if len(p.Categories) == 0 {
		return 0
	}
	peers := s.idx.Query(clientCode)
	if len(peers) == 0 {
		return 0
	}

	var sum float64
	for _, peer := range peers {
		var inCategories float64
		for _, cat := range p.Categories {
			inCategories += s.agg.CategorySpend(peer, cat)
		}
		sum += formulas.ShareOrZero(inCategories, s.agg.TotalSpend(peer))
	}
	return sum / float64(len(peers))
}

// Finalize normalizes benefit and counterfactual over the entire offer set,
// then computes every final score. This is the global barrier of the run:
// it needs the complete offer population before any score is valid.
func (s *Scorer) Finalize(offers []*domain.Offer) {
	if len(offers) == 0 {
		return
	}

	benefits := make([]float64, len(offers))
	counterfactuals := make([]float64, len(offers))
	for i, o := range offers {
		benefits[i] = o.UncappedBenefit
		counterfactuals[i] = o.Counterfactual
	}
	bMin, bMax := formulas.MinMax(benefits)
	cMin, cMax := formulas.MinMax(counterfactuals)

	for _, o := range offers {
		o.NormBenefit = formulas.MinMaxScale(o.UncappedBenefit, bMin, bMax)
		o.NormCounterfactual = formulas.MinMaxScale(o.Counterfactual, cMin, cMax)
		o.FinalScore = (s.weights.Benefit*o.NormBenefit +
			s.weights.Propensity*o.FinalPropensity +
			s.weights.Counterfactual*o.NormCounterfactual) * o.CategoryWeight
	}
}

// SelectTop picks each client's highest-scoring offer. Ties keep the offer
// that appears first in enumeration order, so selection is deterministic for
// a fixed client and product iteration order.
func SelectTop(offers []*domain.Offer) map[string]*domain.Offer {
	winners := make(map[string]*domain.Offer)
	for _, o := range offers {
		best, ok := winners[o.ClientCode]
		if !ok || o.FinalScore > best.FinalScore {
			winners[o.ClientCode] = o
		}
	}
	return winners
}
