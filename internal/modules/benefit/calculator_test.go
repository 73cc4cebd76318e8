package benefit

import (
	"testing"

	"github.com/rs/zerolog"

	"github.com/aselbek/recommender/internal/domain"
	"github.com/aselbek/recommender/internal/modules/features"
)

func inputs(client domain.Client, spend map[string]float64) Inputs {
	cf := &features.ClientFeatures{SpendByCategory: map[string]float64{}}
	for cat, v := range spend {
		cf.SpendByCategory[cat] = v
		cf.TotalSpend += v
	}
	return Inputs{Client: client, Features: cf}
}

func TestCategoryCashback(t *testing.T) {
	p := domain.Product{
		Name: "Карта для путешествий", Kind: domain.KindCategoryCashback,
		Rate: 0.04, Categories: []string{"Путешествия", "Такси"},
		MonthlyCap: 10000,
	}
	in := inputs(domain.Client{}, map[string]float64{
		"Путешествия": 80000,
		"Такси":       20000,
		"Кино":        50000, // not a target category
	})

	res := CategoryCashbackCalculator{}.Calculate(in, p)
	if res.Uncapped != 4000 {
		t.Errorf("uncapped = %v, want 4000", res.Uncapped)
	}
	if res.Benefit != 4000 {
		t.Errorf("benefit = %v, want 4000", res.Benefit)
	}
}

func TestCashbackCapApplies(t *testing.T) {
	p := domain.Product{
		Kind: domain.KindCategoryCashback,
		Rate: 0.04, Categories: []string{"Путешествия"},
		MonthlyCap: 1000,
	}
	in := inputs(domain.Client{}, map[string]float64{"Путешествия": 100000})

	res := CategoryCashbackCalculator{}.Calculate(in, p)
	if res.Uncapped != 4000 {
		t.Errorf("uncapped = %v, want 4000", res.Uncapped)
	}
	if res.Benefit != 1000 {
		t.Errorf("capped benefit = %v, want 1000", res.Benefit)
	}
	if res.Benefit > res.Uncapped {
		t.Error("capped benefit must never exceed uncapped")
	}
}

func TestTieredCashback(t *testing.T) {
	p := domain.Product{
		Kind: domain.KindTieredCashback,
		TieredRates: []domain.Tier{
			{Threshold: 0, Rate: 0.02},
			{Threshold: 1000000, Rate: 0.03},
			{Threshold: 6000000, Rate: 0.04},
		},
		SpecialRate:       0.04,
		SpecialCategories: []string{"Ювелирные украшения"},
		MonthlyCap:        100000,
	}

	tests := []struct {
		name    string
		balance float64
		want    float64
	}{
		// total spend 200000 of which 50000 special
		{"mid tier", 1500000, 200000*0.03 + 50000*(0.04-0.03)},
		{"exact threshold picks higher tier", 1000000, 200000*0.03 + 50000*0.01},
		{"bottom tier", 500000, 200000*0.02 + 50000*0.02},
		{"top tier special increment is zero", 7000000, 200000 * 0.04},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := inputs(domain.Client{AvgMonthlyBalance: tt.balance}, map[string]float64{
				"Ювелирные украшения": 50000,
				"Продукты питания":    150000,
			})
			res := TieredCashbackCalculator{}.Calculate(in, p)
			if diff := res.Uncapped - tt.want; diff > 1e-9 || diff < -1e-9 {
				t.Errorf("uncapped = %v, want %v", res.Uncapped, tt.want)
			}
		})
	}
}

func TestTopNCashback(t *testing.T) {
	p := domain.Product{
		Kind: domain.KindTopNCashback,
		TopN: 2, TopCategoryRate: 0.10,
		OnlineRate: 0.10, OnlineCategories: []string{"Едим дома"},
		MonthlyCap: 50000,
	}
	in := inputs(domain.Client{}, map[string]float64{
		"Продукты питания": 90000,
		"Едим дома":        60000,
		"Кино":             10000,
		"Налоги":           500000, // non-commercial, excluded from top-N
	})

	res := TopNCashbackCalculator{}.Calculate(in, p)
	// Top-2 commercial: groceries and dining-at-home. The online category
	// is counted in both groups and paid for both.
	want := (90000+60000)*0.10 + 60000*0.10
	if res.Uncapped != want {
		t.Errorf("uncapped = %v, want %v", res.Uncapped, want)
	}
	if res.Benefit != 21000 { // capped at 50000, below it here
		t.Errorf("benefit = %v, want 21000", res.Benefit)
	}
}

func TestInterest(t *testing.T) {
	p := domain.Product{Kind: domain.KindInterest, InterestRate: 0.165}

	tests := []struct {
		name    string
		balance float64
		want    float64
	}{
		{"below floor", 40000, 0},
		{"at floor", 50000, 0},
		{"above floor", 120000, 120000 * 0.165 / 12},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := inputs(domain.Client{AvgMonthlyBalance: tt.balance}, nil)
			res := InterestCalculator{}.Calculate(in, p)
			if res.Benefit != tt.want {
				t.Errorf("benefit = %v, want %v", res.Benefit, tt.want)
			}
		})
	}
}

func TestFXSavings(t *testing.T) {
	p := domain.Product{Kind: domain.KindFXSavings, MinFXOpsMonthly: 2, SavedFeePerOp: 500}

	in := inputs(domain.Client{}, nil)
	in.Features.FXOpsPerMonth = 3
	if got := (FXSavingsCalculator{}).Calculate(in, p).Benefit; got != 1500 {
		t.Errorf("benefit = %v, want 1500", got)
	}

	in.Features.FXOpsPerMonth = 1
	if got := (FXSavingsCalculator{}).Calculate(in, p).Benefit; got != 0 {
		t.Errorf("below minimum should yield 0, got %v", got)
	}

	unconfigured := domain.Product{Kind: domain.KindFXSavings, SavedFeePerOp: 500}
	in.Features.FXOpsPerMonth = 10
	if got := (FXSavingsCalculator{}).Calculate(in, unconfigured).Benefit; got != 0 {
		t.Errorf("unset minimum should yield 0, got %v", got)
	}
}

func TestInvestment(t *testing.T) {
	p := domain.Product{Kind: domain.KindInvestment, Rate: 0.05}

	in := inputs(domain.Client{AvgMonthlyBalance: 150000}, nil)
	if got := (InvestmentCalculator{}).Calculate(in, p).Benefit; got != 5000 {
		t.Errorf("benefit = %v, want 5000", got)
	}

	in.Features.HasDepositInflow = true
	if got := (InvestmentCalculator{}).Calculate(in, p).Benefit; got != 0 {
		t.Errorf("existing deposit should gate investment, got %v", got)
	}

	in = inputs(domain.Client{AvgMonthlyBalance: 30000}, nil)
	if got := (InvestmentCalculator{}).Calculate(in, p).Benefit; got != 0 {
		t.Errorf("balance below floor should yield 0, got %v", got)
	}
}

func TestFlatBonus(t *testing.T) {
	large := domain.Product{
		Kind: domain.KindFlatBonus, BonusTrigger: domain.TriggerLargePurchase, BonusAmount: 5000,
	}
	gold := domain.Product{
		Kind: domain.KindFlatBonus, BonusTrigger: domain.TriggerPremiumBalance,
		BonusAmount: 6000, BonusThreshold: 5000000,
	}

	in := inputs(domain.Client{}, nil)
	in.Features.HasLargePurchase = true
	if got := (FlatBonusCalculator{}).Calculate(in, large).Benefit; got != 5000 {
		t.Errorf("large purchase bonus = %v, want 5000", got)
	}

	premium := inputs(domain.Client{Status: domain.StatusPremium, AvgMonthlyBalance: 6000000}, nil)
	if got := (FlatBonusCalculator{}).Calculate(premium, gold).Benefit; got != 6000 {
		t.Errorf("premium balance bonus = %v, want 6000", got)
	}

	standard := inputs(domain.Client{Status: domain.StatusStandard, AvgMonthlyBalance: 6000000}, nil)
	if got := (FlatBonusCalculator{}).Calculate(standard, gold).Benefit; got != 0 {
		t.Errorf("non-premium client should not get the gold bonus, got %v", got)
	}
}

func TestRegistryDispatch(t *testing.T) {
	r := NewRegistry(zerolog.Nop())

	in := inputs(domain.Client{AvgMonthlyBalance: 120000}, nil)
	p := domain.Product{Name: "Депозит", Kind: domain.KindInterest, InterestRate: 0.12}
	if got := r.Calculate(in, p).Benefit; got != 1200 {
		t.Errorf("registry benefit = %v, want 1200", got)
	}

	unknown := domain.Product{Name: "???", Kind: domain.ProductKind("bogus")}
	if got := r.Calculate(in, unknown); got.Benefit != 0 || got.Uncapped != 0 {
		t.Errorf("unknown kind should yield zero result, got %+v", got)
	}
}
