package benefit

import "github.com/aselbek/recommender/internal/domain"

// InterestCalculator pays one month of interest on the average balance,
// only when the balance clears the floor. Used by deposit products.
type InterestCalculator struct{}

func (InterestCalculator) Kind() domain.ProductKind { return domain.KindInterest }

func (InterestCalculator) Calculate(in Inputs, p domain.Product) Result {
	if in.Client.AvgMonthlyBalance <= balanceFloor {
		return Result{}
	}
	monthly := in.Client.AvgMonthlyBalance * p.InterestRate / 12
	return Result{Benefit: monthly, Uncapped: monthly}
}

// InvestmentCalculator estimates the return on the idle part of the balance
// for clients without an existing deposit inflow.
type InvestmentCalculator struct{}

func (InvestmentCalculator) Kind() domain.ProductKind { return domain.KindInvestment }

func (InvestmentCalculator) Calculate(in Inputs, p domain.Product) Result {
	idle := in.Client.AvgMonthlyBalance - balanceFloor
	if idle <= 0 || in.Features.HasDepositInflow {
		return Result{}
	}
	v := idle * p.Rate
	return Result{Benefit: v, Uncapped: v}
}

// FXSavingsCalculator values saved exchange fees for clients whose monthly
// FX operation count meets the product's configured minimum.
type FXSavingsCalculator struct{}

func (FXSavingsCalculator) Kind() domain.ProductKind { return domain.KindFXSavings }

func (FXSavingsCalculator) Calculate(in Inputs, p domain.Product) Result {
	// An unset minimum means the product is not configured for anyone.
	if p.MinFXOpsMonthly <= 0 || in.Features.FXOpsPerMonth < p.MinFXOpsMonthly {
		return Result{}
	}
	v := in.Features.FXOpsPerMonth * p.SavedFeePerOp
	return Result{Benefit: v, Uncapped: v}
}

// FlatBonusCalculator pays a fixed amount when the product's trigger signal
// is present.
type FlatBonusCalculator struct{}

func (FlatBonusCalculator) Kind() domain.ProductKind { return domain.KindFlatBonus }

func (FlatBonusCalculator) Calculate(in Inputs, p domain.Product) Result {
	triggered := false
	switch p.BonusTrigger {
	case domain.TriggerLargePurchase:
		triggered = in.Features.HasLargePurchase
	case domain.TriggerPremiumBalance:
		triggered = in.Client.Status == domain.StatusPremium &&
			in.Client.AvgMonthlyBalance > p.BonusThreshold
	}
	if !triggered {
		return Result{}
	}
	return Result{Benefit: p.BonusAmount, Uncapped: p.BonusAmount}
}
