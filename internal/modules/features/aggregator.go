// Package features derives per-client aggregate signals from the raw
// transaction and transfer tables. All aggregates amortize a three-month
// history window into monthly averages.
package features

import (
	"sort"
	"strings"
	"time"

	"github.com/aselbek/recommender/internal/domain"
)

// monthsInWindow is the length of the observed history window
const monthsInWindow = 3.0

// largePurchaseFactor flags transactions exceeding this multiple of the
// client's own mean transaction amount.
const largePurchaseFactor = 5.0

// travelMarkers match travel-related categories by substring
var travelMarkers = []string{"путешеств", "такси", "отели", "авиа"}

// monthGenitive renders a month number as the Russian genitive month name
// used inside push texts ("в июле" style phrases).
var monthGenitive = map[time.Month]string{
	time.January: "января", time.February: "февраля", time.March: "марта",
	time.April: "апреля", time.May: "мая", time.June: "июня",
	time.July: "июля", time.August: "августа", time.September: "сентября",
	time.October: "октября", time.November: "ноября", time.December: "декабря",
}

// ClientFeatures holds the derived signals for one client
type ClientFeatures struct {
	SpendByCategory  map[string]float64 // average monthly spend per category
	TotalSpend       float64            // sum of SpendByCategory
	MeanTxAmount     float64
	HasLargePurchase bool
	HasDepositInflow bool
	FXOpsPerMonth    float64
	TopFXCurrency    string // modal FX currency, "" when no FX operations
	TopTravelMonth   string // genitive month of the largest travel purchase, "" when none
}

// Aggregates is the read-only feature table shared by the whole pipeline
type Aggregates struct {
	byClient       map[string]*ClientFeatures
	categoryTotals map[string]float64
}

// Aggregate folds the transaction and transfer tables into per-client
// features. Clients absent from both tables simply have no entry; callers
// treat that as zero signals, not as an error.
func Aggregate(transactions []domain.Transaction, transfers []domain.Transfer) *Aggregates {
	agg := &Aggregates{
		byClient:       make(map[string]*ClientFeatures),
		categoryTotals: make(map[string]float64),
	}

	type travelMax struct {
		amount float64
		month  time.Month
	}
	txSums := make(map[string]float64)
	txCounts := make(map[string]int)
	travelBest := make(map[string]travelMax)

	for _, tx := range transactions {
		cf := agg.ensure(tx.ClientCode)
		monthly := tx.Amount / monthsInWindow
		cf.SpendByCategory[tx.Category] += monthly
		cf.TotalSpend += monthly
		agg.categoryTotals[tx.Category] += monthly

		txSums[tx.ClientCode] += tx.Amount
		txCounts[tx.ClientCode]++

		if isTravelCategory(tx.Category) {
			best, ok := travelBest[tx.ClientCode]
			if !ok || tx.Amount > best.amount {
				travelBest[tx.ClientCode] = travelMax{amount: tx.Amount, month: tx.Date.Month()}
			}
		}
	}

	for code, count := range txCounts {
		agg.byClient[code].MeanTxAmount = txSums[code] / float64(count)
	}

	// Large-purchase signal needs the mean, so it is a second pass.
	for _, tx := range transactions {
		cf := agg.byClient[tx.ClientCode]
		if cf.MeanTxAmount > 0 && tx.Amount > cf.MeanTxAmount*largePurchaseFactor {
			cf.HasLargePurchase = true
		}
	}

	for code, best := range travelBest {
		agg.byClient[code].TopTravelMonth = monthGenitive[best.month]
	}

	fxCurrencies := make(map[string]map[string]int)
	for _, tr := range transfers {
		switch tr.Type {
		case domain.TransferDepositIn:
			agg.ensure(tr.ClientCode).HasDepositInflow = true
		case domain.TransferFXBuy, domain.TransferFXSell:
			cf := agg.ensure(tr.ClientCode)
			cf.FXOpsPerMonth += 1.0 / monthsInWindow
			if fxCurrencies[tr.ClientCode] == nil {
				fxCurrencies[tr.ClientCode] = make(map[string]int)
			}
			fxCurrencies[tr.ClientCode][tr.Currency]++
		}
	}
	for code, counts := range fxCurrencies {
		agg.byClient[code].TopFXCurrency = modalCurrency(counts)
	}

	return agg
}

// Lookup returns the features for a client, false when the client has no
// observed activity.
func (a *Aggregates) Lookup(code string) (*ClientFeatures, bool) {
	cf, ok := a.byClient[code]
	return cf, ok
}

// CategoryTotals is the global average monthly spend per category, used by
// the vectorizer to pick its dimensions.
func (a *Aggregates) CategoryTotals() map[string]float64 {
	return a.categoryTotals
}

// CategorySpend is a client's average monthly spend in one category, zero
// when the client or category is absent.
func (a *Aggregates) CategorySpend(code, category string) float64 {
	cf, ok := a.byClient[code]
	if !ok {
		return 0
	}
	return cf.SpendByCategory[category]
}

// TotalSpend is a client's total average monthly spend, zero when absent
func (a *Aggregates) TotalSpend(code string) float64 {
	cf, ok := a.byClient[code]
	if !ok {
		return 0
	}
	return cf.TotalSpend
}

// TopCommercialCategories returns up to n of the client's commercial
// categories ordered by descending spend (ties by name for determinism).
func (a *Aggregates) TopCommercialCategories(code string, n int) []string {
	cf, ok := a.byClient[code]
	if !ok {
		return nil
	}

	type catSpend struct {
		name  string
		spend float64
	}
	cats := make([]catSpend, 0, len(cf.SpendByCategory))
	for name, spend := range cf.SpendByCategory {
		if domain.NonCommercialCategories[name] {
			continue
		}
		cats = append(cats, catSpend{name: name, spend: spend})
	}
	sort.Slice(cats, func(i, j int) bool {
		if cats[i].spend != cats[j].spend {
			return cats[i].spend > cats[j].spend
		}
		return cats[i].name < cats[j].name
	})

	if len(cats) > n {
		cats = cats[:n]
	}
	names := make([]string, len(cats))
	for i, c := range cats {
		names[i] = c.name
	}
	return names
}

func (a *Aggregates) ensure(code string) *ClientFeatures {
	cf, ok := a.byClient[code]
	if !ok {
		cf = &ClientFeatures{SpendByCategory: make(map[string]float64)}
		a.byClient[code] = cf
	}
	return cf
}

func isTravelCategory(category string) bool {
	lower := strings.ToLower(category)
	for _, marker := range travelMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

// modalCurrency picks the most frequent currency, ties broken toward the
// lexicographically smallest code so the reduction is deterministic.
func modalCurrency(counts map[string]int) string {
	best, bestCount := "USD", 0
	for currency, count := range counts {
		if count > bestCount || (count == bestCount && currency < best) {
			best, bestCount = currency, count
		}
	}
	return best
}
