// Package benefit computes the monetary benefit of every (client, product)
// pair. Each product kind has its own calculator; a registry dispatches on
// the kind tag assigned at config-load time.
package benefit

import (
	"math"

	"github.com/rs/zerolog"

	"github.com/aselbek/recommender/internal/domain"
	"github.com/aselbek/recommender/internal/modules/features"
)

// balanceFloor is the minimum average balance for interest-bearing and
// investment products to yield anything.
const balanceFloor = 50000.0

// Inputs is everything a calculator may read. Features is the zero-signal
// struct for clients with no observed activity, never nil.
type Inputs struct {
	Client   domain.Client
	Features *features.ClientFeatures
}

// Result carries both the raw and the capped benefit of one offer
type Result struct {
	Benefit  float64
	Uncapped float64
}

// Calculator computes the benefit for one product kind. Implementations are
// stateless: pure functions of the inputs and the product's parameters.
type Calculator interface {
	Kind() domain.ProductKind
	Calculate(in Inputs, p domain.Product) Result
}

// Registry dispatches benefit calculation to the calculator registered for
// the product's kind.
type Registry struct {
	calcs map[domain.ProductKind]Calculator
	log   zerolog.Logger
}

// NewRegistry creates a registry with every policy registered
func NewRegistry(log zerolog.Logger) *Registry {
	r := &Registry{
		calcs: make(map[domain.ProductKind]Calculator),
		log:   log.With().Str("module", "benefit").Logger(),
	}
	r.register(
		CategoryCashbackCalculator{},
		TieredCashbackCalculator{},
		TopNCashbackCalculator{},
		InterestCalculator{},
		FXSavingsCalculator{},
		InvestmentCalculator{},
		FlatBonusCalculator{},
	)
	return r
}

func (r *Registry) register(calcs ...Calculator) {
	for _, c := range calcs {
		r.calcs[c.Kind()] = c
	}
}

// Calculate runs the calculator for the product's kind. Unknown kinds yield
// a zero result, which downstream filtering discards.
func (r *Registry) Calculate(in Inputs, p domain.Product) Result {
	calc, ok := r.calcs[p.Kind]
	if !ok {
		r.log.Warn().Str("product", p.Name).Str("kind", string(p.Kind)).Msg("No calculator for product kind")
		return Result{}
	}
	return calc.Calculate(in, p)
}

// capped applies the product's monthly cap when one is configured
func capped(uncapped float64, p domain.Product) Result {
	benefit := uncapped
	if p.MonthlyCap > 0 {
		benefit = math.Min(uncapped, p.MonthlyCap)
	}
	return Result{Benefit: benefit, Uncapped: uncapped}
}

// sumCategories adds up the client's monthly spend across the given
// categories, treating unused categories as zero.
func sumCategories(cf *features.ClientFeatures, categories []string) float64 {
	var sum float64
	for _, cat := range categories {
		sum += cf.SpendByCategory[cat]
	}
	return sum
}
