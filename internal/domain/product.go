package domain

// ProductKind selects the benefit policy for a product. Kinds are assigned
// once at config-load time; nothing downstream branches on product names.
type ProductKind string

const (
	KindCategoryCashback ProductKind = "category_cashback"
	KindTieredCashback   ProductKind = "tiered_cashback"
	KindTopNCashback     ProductKind = "top_n_cashback"
	KindInterest         ProductKind = "interest"
	KindFXSavings        ProductKind = "fx_savings"
	KindInvestment       ProductKind = "investment"
	KindFlatBonus        ProductKind = "flat_bonus"
)

// BonusTrigger names the boolean signal that releases a flat bonus
type BonusTrigger string

const (
	TriggerLargePurchase  BonusTrigger = "large_purchase"
	TriggerPremiumBalance BonusTrigger = "premium_balance"
)

// Segment groups products for the propensity heuristics
type Segment string

const (
	SegmentTravel     Segment = "travel"
	SegmentPremium    Segment = "premium"
	SegmentCredit     Segment = "credit"
	SegmentDeposit    Segment = "deposit"
	SegmentFX         Segment = "fx"
	SegmentInvestment Segment = "investment"
)

// Tier is one balance tier of a tiered cashback product
type Tier struct {
	Threshold float64 `yaml:"threshold"`
	Rate      float64 `yaml:"rate"`
}

// Product is one catalog entry. The parameter fields are sparse: each kind
// reads only the ones its policy needs.
type Product struct {
	Name string
	Kind ProductKind

	// Category cashback
	Rate       float64
	Categories []string

	// Tiered cashback
	TieredRates       []Tier
	SpecialRate       float64
	SpecialCategories []string

	// Top-N cashback
	TopN             int
	TopCategoryRate  float64
	OnlineRate       float64
	OnlineCategories []string

	// Cashback cap, 0 means uncapped
	MonthlyCap float64

	// Interest / default savings
	InterestRate float64

	// FX savings
	MinFXOpsMonthly float64
	SavedFeePerOp   float64

	// Flat bonus
	BonusTrigger   BonusTrigger
	BonusAmount    float64
	BonusThreshold float64

	CategoryWeight float64

	// Default marks the fallback savings product offered to clients
	// with no observed spend but a positive balance.
	Default bool
}

// Segment maps the product's kind (and bonus trigger) onto the audience
// segment the propensity heuristics reason about.
func (p Product) Segment() Segment {
	switch p.Kind {
	case KindCategoryCashback:
		return SegmentTravel
	case KindTieredCashback:
		return SegmentPremium
	case KindTopNCashback:
		return SegmentCredit
	case KindInterest:
		return SegmentDeposit
	case KindFXSavings:
		return SegmentFX
	case KindInvestment:
		return SegmentInvestment
	case KindFlatBonus:
		if p.BonusTrigger == TriggerPremiumBalance {
			return SegmentPremium
		}
		return SegmentCredit
	}
	return ""
}
