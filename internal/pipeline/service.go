// Package pipeline wires the recommendation stages into one batch pass:
// aggregate, vectorize, index, offer computation fanned out across clients,
// then the global scoring barrier and top-1 selection.
package pipeline

import (
	"fmt"
	"sort"
	"sync"

	"github.com/rs/zerolog"

	"github.com/aselbek/recommender/internal/config"
	"github.com/aselbek/recommender/internal/dataload"
	"github.com/aselbek/recommender/internal/domain"
	"github.com/aselbek/recommender/internal/modules/benefit"
	"github.com/aselbek/recommender/internal/modules/features"
	"github.com/aselbek/recommender/internal/modules/neighbors"
	"github.com/aselbek/recommender/internal/modules/propensity"
	"github.com/aselbek/recommender/internal/modules/push"
	"github.com/aselbek/recommender/internal/modules/scoring"
	"github.com/aselbek/recommender/internal/modules/vectorize"
)

// defaultOfferPropensity is the fixed base propensity of the fallback
// savings offer for zero-spend clients.
const defaultOfferPropensity = 0.7

// Config holds everything a pipeline run needs beyond the input tables
type Config struct {
	Catalog   *config.Catalog
	Weights   config.ScoringWeights
	Templates config.Templates
	PushSeed  int64
	Workers   int
	Log       zerolog.Logger
}

// Service runs the recommendation pipeline
type Service struct {
	catalog   *config.Catalog
	weights   config.ScoringWeights
	generator *push.Generator
	registry  *benefit.Registry
	workers   int
	log       zerolog.Logger
}

// Result is the output of one batch run: the winning recommendation per
// client plus every generated offer for the analysis table.
type Result struct {
	Recommendations []domain.Recommendation
	Offers          []*domain.Offer
}

// NewService creates a pipeline service
func NewService(cfg Config) *Service {
	workers := cfg.Workers
	if workers < 1 {
		workers = 1
	}
	return &Service{
		catalog:   cfg.Catalog,
		weights:   cfg.Weights,
		generator: push.New(cfg.Templates, cfg.PushSeed, cfg.Log),
		registry:  benefit.NewRegistry(cfg.Log),
		workers:   workers,
		log:       cfg.Log.With().Str("module", "pipeline").Logger(),
	}
}

// Run executes the full pipeline over the loaded tables
func (s *Service) Run(tables *dataload.Tables) (*Result, error) {
	if len(tables.Clients) == 0 {
		return nil, fmt.Errorf("client table is empty")
	}
	if len(s.catalog.Products) == 0 {
		s.log.Warn().Msg("Empty product catalog, no recommendations will be generated")
		return &Result{}, nil
	}

	// Clients iterate in sorted code order so runs are reproducible.
	clients := make([]domain.Client, len(tables.Clients))
	copy(clients, tables.Clients)
	sort.Slice(clients, func(i, j int) bool { return clients[i].Code < clients[j].Code })

	agg := features.Aggregate(tables.Transactions, tables.Transfers)
	vectors := vectorize.Build(clients, agg)
	idx := neighbors.Build(vectors)
	scorer := scoring.New(s.weights, idx, agg)

	offers := s.computeOffers(clients, agg, scorer)
	if len(offers) == 0 {
		s.log.Warn().Msg("No positive-benefit offers were generated")
		return &Result{Offers: offers}, nil
	}

	propensity.NewEstimator(idx).Smooth(offers)
	scorer.Finalize(offers)
	winners := scoring.SelectTop(offers)

	recs := s.render(clients, winners, agg)
	s.log.Info().
		Int("offers", len(offers)).
		Int("recommendations", len(recs)).
		Msg("Recommendations generated")

	return &Result{Recommendations: recs, Offers: offers}, nil
}

// computeOffers fans offer computation out across clients. The neighbor
// index, feature table and scorer are all read-only here; results come back
// slotted by client position so the flattened order stays deterministic.
func (s *Service) computeOffers(clients []domain.Client, agg *features.Aggregates, scorer *scoring.Scorer) []*domain.Offer {
	perClient := make([][]*domain.Offer, len(clients))

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < s.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				perClient[i] = s.safeClientOffers(clients[i], agg, scorer)
			}
		}()
	}
	for i := range clients {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	var offers []*domain.Offer
	for _, clientOffers := range perClient {
		offers = append(offers, clientOffers...)
	}
	return offers
}

// safeClientOffers isolates one client's computation: a panic is logged and
// the client skipped, never aborting the run.
func (s *Service) safeClientOffers(client domain.Client, agg *features.Aggregates, scorer *scoring.Scorer) (offers []*domain.Offer) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error().
				Str("client_code", client.Code).
				Interface("panic", r).
				Msg("Client offer computation failed, skipping client")
			offers = nil
		}
	}()
	return s.clientOffers(client, agg, scorer)
}

func (s *Service) clientOffers(client domain.Client, agg *features.Aggregates, scorer *scoring.Scorer) []*domain.Offer {
	cf, ok := agg.Lookup(client.Code)
	if !ok || cf.TotalSpend == 0 {
		return s.fallbackOffer(client)
	}

	in := benefit.Inputs{Client: client, Features: cf}
	var offers []*domain.Offer
	for _, product := range s.catalog.Products {
		res := s.registry.Calculate(in, product)
		if res.Benefit <= 0 {
			continue
		}
		offers = append(offers, &domain.Offer{
			ClientCode:      client.Code,
			ProductName:     product.Name,
			Benefit:         res.Benefit,
			UncappedBenefit: res.Uncapped,
			BasePropensity:  propensity.Base(client, product),
			Counterfactual:  scorer.Counterfactual(client.Code, product),
			CategoryWeight:  product.CategoryWeight,
		})
	}
	return offers
}

// fallbackOffer offers the default savings product to a client with no
// observed spend but a positive balance. Zero balance and zero spend means
// no recommendation at all.
func (s *Service) fallbackOffer(client domain.Client) []*domain.Offer {
	product, ok := s.catalog.DefaultProduct()
	if !ok || client.AvgMonthlyBalance <= 0 {
		s.log.Warn().
			Str("client_code", client.Code).
			Str("stage", "offers").
			Msg("Client has no spend and no balance, no offers generated")
		return nil
	}

	monthly := client.AvgMonthlyBalance * product.InterestRate / 12
	return []*domain.Offer{{
		ClientCode:      client.Code,
		ProductName:     product.Name,
		Benefit:         monthly,
		UncappedBenefit: monthly,
		BasePropensity:  defaultOfferPropensity,
		Counterfactual:  0,
		CategoryWeight:  product.CategoryWeight,
	}}
}

// render produces the final recommendation rows in client order
func (s *Service) render(clients []domain.Client, winners map[string]*domain.Offer, agg *features.Aggregates) []domain.Recommendation {
	var recs []domain.Recommendation
	for _, client := range clients {
		offer, ok := winners[client.Code]
		if !ok {
			continue
		}

		extra := map[string]string{}
		for i, cat := range agg.TopCommercialCategories(client.Code, 3) {
			extra[fmt.Sprintf("cat%d", i+1)] = cat
		}
		if cf, ok := agg.Lookup(client.Code); ok {
			if cf.TopTravelMonth != "" {
				extra["month"] = cf.TopTravelMonth
			}
			if cf.TopFXCurrency != "" {
				extra["fx_curr"] = cf.TopFXCurrency
			}
		}

		recs = append(recs, domain.Recommendation{
			ClientCode:  client.Code,
			ProductName: offer.ProductName,
			Benefit:     offer.Benefit,
			PushText:    s.generator.Render(client.Name, offer.ProductName, offer.Benefit, extra),
		})
	}
	return recs
}
