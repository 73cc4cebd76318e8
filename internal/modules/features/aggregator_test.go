package features

import (
	"testing"
	"time"

	"github.com/aselbek/recommender/internal/domain"
)

func date(month time.Month, day int) time.Time {
	return time.Date(2025, month, day, 0, 0, 0, 0, time.UTC)
}

func tx(code, category string, amount float64, d time.Time) domain.Transaction {
	return domain.Transaction{ClientCode: code, Date: d, Category: category, Amount: amount, Currency: "KZT"}
}

func TestAggregateMonthlySpend(t *testing.T) {
	agg := Aggregate([]domain.Transaction{
		tx("1", "Продукты питания", 300, date(time.June, 1)),
		tx("1", "Продукты питания", 600, date(time.July, 1)),
		tx("1", "Такси", 150, date(time.July, 2)),
	}, nil)

	cf, ok := agg.Lookup("1")
	if !ok {
		t.Fatal("client 1 should have features")
	}

	// Three-month window: sums divided by 3.
	if got := cf.SpendByCategory["Продукты питания"]; got != 300 {
		t.Errorf("monthly grocery spend = %v, want 300", got)
	}
	if got := cf.SpendByCategory["Такси"]; got != 50 {
		t.Errorf("monthly taxi spend = %v, want 50", got)
	}
	if got := cf.TotalSpend; got != 350 {
		t.Errorf("total spend = %v, want 350", got)
	}
}

func TestAggregateLargePurchaseSignal(t *testing.T) {
	// Nine small transactions and one big one: mean is 1090, the
	// threshold 5450, so 10000 trips the signal.
	var txs []domain.Transaction
	for i := 0; i < 9; i++ {
		txs = append(txs, tx("1", "Авто", 100, date(time.June, i+1)))
	}
	txs = append(txs, tx("1", "Мебель", 10000, date(time.July, 1)))

	// Client 2 spends evenly: no signal.
	txs = append(txs,
		tx("2", "Авто", 100, date(time.June, 1)),
		tx("2", "Авто", 120, date(time.June, 2)),
	)

	agg := Aggregate(txs, nil)

	cf1, _ := agg.Lookup("1")
	if !cf1.HasLargePurchase {
		t.Error("client 1 should have a large purchase signal")
	}
	cf2, _ := agg.Lookup("2")
	if cf2.HasLargePurchase {
		t.Error("client 2 should not have a large purchase signal")
	}
}

func TestAggregateTransferSignals(t *testing.T) {
	transfers := []domain.Transfer{
		{ClientCode: "1", Type: domain.TransferDepositIn, Amount: 1000, Currency: "KZT"},
		{ClientCode: "2", Type: domain.TransferFXBuy, Amount: 100, Currency: "USD"},
		{ClientCode: "2", Type: domain.TransferFXSell, Amount: 100, Currency: "USD"},
		{ClientCode: "2", Type: domain.TransferFXBuy, Amount: 100, Currency: "EUR"},
	}

	agg := Aggregate(nil, transfers)

	cf1, _ := agg.Lookup("1")
	if !cf1.HasDepositInflow {
		t.Error("client 1 should have a deposit inflow signal")
	}
	if cf1.FXOpsPerMonth != 0 {
		t.Errorf("client 1 FX ops = %v, want 0", cf1.FXOpsPerMonth)
	}

	cf2, _ := agg.Lookup("2")
	if got, want := cf2.FXOpsPerMonth, 1.0; got != want {
		t.Errorf("client 2 FX ops per month = %v, want %v", got, want)
	}
	if cf2.TopFXCurrency != "USD" {
		t.Errorf("modal FX currency = %q, want USD", cf2.TopFXCurrency)
	}
}

func TestModalCurrencyTieBreak(t *testing.T) {
	transfers := []domain.Transfer{
		{ClientCode: "1", Type: domain.TransferFXBuy, Currency: "USD"},
		{ClientCode: "1", Type: domain.TransferFXBuy, Currency: "EUR"},
	}
	agg := Aggregate(nil, transfers)
	cf, _ := agg.Lookup("1")
	if cf.TopFXCurrency != "EUR" {
		t.Errorf("tie should break lexicographically, got %q", cf.TopFXCurrency)
	}
}

func TestTopTravelMonth(t *testing.T) {
	txs := []domain.Transaction{
		tx("1", "Такси", 500, date(time.June, 10)),
		tx("1", "Путешествия", 90000, date(time.August, 3)),
		tx("1", "Отели", 40000, date(time.July, 20)),
		tx("1", "Продукты питания", 200000, date(time.June, 1)), // not travel
	}
	agg := Aggregate(txs, nil)
	cf, _ := agg.Lookup("1")
	if cf.TopTravelMonth != "августа" {
		t.Errorf("top travel month = %q, want августа", cf.TopTravelMonth)
	}
}

func TestLookupAbsentClient(t *testing.T) {
	agg := Aggregate(nil, nil)
	if _, ok := agg.Lookup("missing"); ok {
		t.Error("absent client should have no features")
	}
	if agg.TotalSpend("missing") != 0 {
		t.Error("absent client total spend should be 0")
	}
	if agg.CategorySpend("missing", "Такси") != 0 {
		t.Error("absent client category spend should be 0")
	}
}

func TestTopCommercialCategories(t *testing.T) {
	txs := []domain.Transaction{
		tx("1", "Продукты питания", 900, date(time.June, 1)),
		tx("1", "Такси", 600, date(time.June, 2)),
		tx("1", "Налоги", 9000, date(time.June, 3)),
		tx("1", "Кино", 300, date(time.June, 4)),
	}
	agg := Aggregate(txs, nil)

	got := agg.TopCommercialCategories("1", 2)
	want := []string{"Продукты питания", "Такси"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("category %d = %q, want %q", i, got[i], want[i])
		}
	}
}
