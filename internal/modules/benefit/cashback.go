package benefit

import (
	"sort"

	"github.com/aselbek/recommender/internal/domain"
)

// CategoryCashbackCalculator pays a single rate on spend in the product's
// target categories, capped monthly. Used by the travel card.
type CategoryCashbackCalculator struct{}

func (CategoryCashbackCalculator) Kind() domain.ProductKind { return domain.KindCategoryCashback }

func (CategoryCashbackCalculator) Calculate(in Inputs, p domain.Product) Result {
	spend := sumCategories(in.Features, p.Categories)
	return capped(spend*p.Rate, p)
}

// TieredCashbackCalculator pays a base rate chosen by the highest balance
// tier the client qualifies for, plus an incremental rate on a special
// category subset. Used by the premium card.
type TieredCashbackCalculator struct{}

func (TieredCashbackCalculator) Kind() domain.ProductKind { return domain.KindTieredCashback }

func (TieredCashbackCalculator) Calculate(in Inputs, p domain.Product) Result {
	baseRate := tierRate(p.TieredRates, in.Client.AvgMonthlyBalance)
	baseCashback := in.Features.TotalSpend * baseRate

	// Special categories earn the special rate in total: they already got
	// the base rate above, so only the increment is added here.
	specialSpend := sumCategories(in.Features, p.SpecialCategories)
	specialCashback := specialSpend * (p.SpecialRate - baseRate)

	return capped(baseCashback+specialCashback, p)
}

// tierRate picks the rate of the highest threshold the balance clears
func tierRate(tiers []domain.Tier, balance float64) float64 {
	sorted := make([]domain.Tier, len(tiers))
	copy(sorted, tiers)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Threshold > sorted[j].Threshold })
	for _, tier := range sorted {
		if balance >= tier.Threshold {
			return tier.Rate
		}
	}
	return 0
}

// TopNCashbackCalculator pays one rate on the client's N largest commercial
// categories and a second rate on an online subset. A category in both
// groups is paid for both. Used by the credit card.
type TopNCashbackCalculator struct{}

func (TopNCashbackCalculator) Kind() domain.ProductKind { return domain.KindTopNCashback }

func (TopNCashbackCalculator) Calculate(in Inputs, p domain.Product) Result {
	type catSpend struct {
		name  string
		spend float64
	}
	commercial := make([]catSpend, 0, len(in.Features.SpendByCategory))
	for name, spend := range in.Features.SpendByCategory {
		if domain.NonCommercialCategories[name] {
			continue
		}
		commercial = append(commercial, catSpend{name: name, spend: spend})
	}
	sort.Slice(commercial, func(i, j int) bool {
		if commercial[i].spend != commercial[j].spend {
			return commercial[i].spend > commercial[j].spend
		}
		return commercial[i].name < commercial[j].name
	})

	var topSpend float64
	for i := 0; i < p.TopN && i < len(commercial); i++ {
		topSpend += commercial[i].spend
	}
	onlineSpend := sumCategories(in.Features, p.OnlineCategories)

	return capped(topSpend*p.TopCategoryRate+onlineSpend*p.OnlineRate, p)
}
