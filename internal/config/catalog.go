package config

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/aselbek/recommender/internal/domain"
)

// productYAML mirrors one entry of products.yml. The kind field is optional:
// when absent it is inferred from benefit_type and the parameters present.
type productYAML struct {
	Name              string        `yaml:"name"`
	BenefitType       string        `yaml:"benefit_type"`
	Kind              string        `yaml:"kind"`
	Rate              float64       `yaml:"rate"`
	Categories        []string      `yaml:"categories"`
	TieredRates       []domain.Tier `yaml:"tiered_rates"`
	SpecialRate       float64       `yaml:"special_rate"`
	SpecialCategories []string      `yaml:"special_categories"`
	TopNCategories    int           `yaml:"top_n_categories"`
	TopCategoryRate   float64       `yaml:"top_category_rate"`
	OnlineRate        float64       `yaml:"online_rate"`
	OnlineCategories  []string      `yaml:"online_categories"`
	CashbackLimit     float64       `yaml:"cashback_limit_monthly"`
	InterestRate      float64       `yaml:"interest_rate"`
	MinFXOpsMonthly   float64       `yaml:"min_fx_ops_monthly"`
	SavedFeePerOp     float64       `yaml:"saved_fee_per_op"`
	BonusTrigger      string        `yaml:"bonus_trigger"`
	BonusAmount       float64       `yaml:"bonus_amount"`
	BonusThreshold    float64       `yaml:"bonus_threshold"`
	CategoryWeight    float64       `yaml:"category_weight"`
	Default           bool          `yaml:"default"`
}

type productsFile struct {
	Products []productYAML `yaml:"products"`
}

type templatesFile struct {
	Templates map[string][]string `yaml:"templates"`
}

type weightsFile struct {
	BenefitWeight        *float64 `yaml:"benefit_weight"`
	PropensityWeight     *float64 `yaml:"propensity_weight"`
	CounterfactualWeight *float64 `yaml:"counterfactual_weight"`
}

// Catalog is the immutable product catalog for one run
type Catalog struct {
	Products []domain.Product
}

// DefaultProduct returns the fallback savings product, or false when the
// catalog does not configure one.
func (c *Catalog) DefaultProduct() (domain.Product, bool) {
	for _, p := range c.Products {
		if p.Default {
			return p, true
		}
	}
	return domain.Product{}, false
}

// ScoringWeights are the three blend weights of the final score
type ScoringWeights struct {
	Benefit        float64
	Propensity     float64
	Counterfactual float64
}

// DefaultScoringWeights matches the shipped scoring_weights.yml defaults
func DefaultScoringWeights() ScoringWeights {
	return ScoringWeights{Benefit: 0.5, Propensity: 0.3, Counterfactual: 0.2}
}

// Templates maps product name to its ordered push template list.
// The "Generic" key holds the fallback set.
type Templates map[string][]string

// GenericTemplateKey is the fallback template set's map key
const GenericTemplateKey = "Generic"

// LoadCatalog reads products.yml. A missing or malformed file degrades to an
// empty catalog (the run then produces zero recommendations) rather than
// failing the process.
func LoadCatalog(path string, log zerolog.Logger) *Catalog {
	var f productsFile
	if err := readYAML(path, &f); err != nil {
		log.Warn().Err(err).Str("path", path).Msg("Product catalog unavailable, using empty catalog")
		return &Catalog{}
	}

	cat := &Catalog{Products: make([]domain.Product, 0, len(f.Products))}
	for _, py := range f.Products {
		p, err := py.toProduct()
		if err != nil {
			log.Warn().Err(err).Str("product", py.Name).Msg("Skipping malformed product entry")
			continue
		}
		cat.Products = append(cat.Products, p)
	}
	return cat
}

// LoadTemplates reads pushes.yml, degrading to an empty template set
func LoadTemplates(path string, log zerolog.Logger) Templates {
	var f templatesFile
	if err := readYAML(path, &f); err != nil {
		log.Warn().Err(err).Str("path", path).Msg("Push templates unavailable, using empty set")
		return Templates{}
	}
	if f.Templates == nil {
		return Templates{}
	}
	return Templates(f.Templates)
}

// LoadScoringWeights reads scoring_weights.yml, degrading to the defaults
func LoadScoringWeights(path string, log zerolog.Logger) ScoringWeights {
	w := DefaultScoringWeights()
	var f weightsFile
	if err := readYAML(path, &f); err != nil {
		log.Warn().Err(err).Str("path", path).Msg("Scoring weights unavailable, using defaults")
		return w
	}
	if f.BenefitWeight != nil {
		w.Benefit = *f.BenefitWeight
	}
	if f.PropensityWeight != nil {
		w.Propensity = *f.PropensityWeight
	}
	if f.CounterfactualWeight != nil {
		w.Counterfactual = *f.CounterfactualWeight
	}
	return w
}

func readYAML(path string, out interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}
	return nil
}

func (py productYAML) toProduct() (domain.Product, error) {
	if py.Name == "" {
		return domain.Product{}, fmt.Errorf("product without a name")
	}

	kind, err := py.resolveKind()
	if err != nil {
		return domain.Product{}, err
	}

	weight := py.CategoryWeight
	if weight == 0 {
		weight = 1.0
	}

	p := domain.Product{
		Name:              py.Name,
		Kind:              kind,
		Rate:              py.Rate,
		Categories:        py.Categories,
		TieredRates:       py.TieredRates,
		SpecialRate:       py.SpecialRate,
		SpecialCategories: py.SpecialCategories,
		TopN:              py.TopNCategories,
		TopCategoryRate:   py.TopCategoryRate,
		OnlineRate:        py.OnlineRate,
		OnlineCategories:  py.OnlineCategories,
		MonthlyCap:        py.CashbackLimit,
		InterestRate:      py.InterestRate,
		MinFXOpsMonthly:   py.MinFXOpsMonthly,
		SavedFeePerOp:     py.SavedFeePerOp,
		BonusTrigger:      domain.BonusTrigger(py.BonusTrigger),
		BonusAmount:       py.BonusAmount,
		BonusThreshold:    py.BonusThreshold,
		CategoryWeight:    weight,
		Default:           py.Default,
	}

	if p.Kind == domain.KindFlatBonus && p.BonusTrigger == "" {
		return domain.Product{}, fmt.Errorf("flat_bonus product %q needs bonus_trigger", py.Name)
	}
	return p, nil
}

// resolveKind honors an explicit kind tag and otherwise infers one from the
// benefit type and which parameters the entry carries.
func (py productYAML) resolveKind() (domain.ProductKind, error) {
	if py.Kind != "" {
		switch k := domain.ProductKind(py.Kind); k {
		case domain.KindCategoryCashback, domain.KindTieredCashback, domain.KindTopNCashback,
			domain.KindInterest, domain.KindFXSavings, domain.KindInvestment, domain.KindFlatBonus:
			return k, nil
		default:
			return "", fmt.Errorf("unknown product kind %q", py.Kind)
		}
	}

	switch py.BenefitType {
	case "cashback":
		if len(py.TieredRates) > 0 {
			return domain.KindTieredCashback, nil
		}
		if py.TopNCategories > 0 {
			return domain.KindTopNCashback, nil
		}
		return domain.KindCategoryCashback, nil
	case "interest":
		return domain.KindInterest, nil
	case "custom-rule":
		if py.SavedFeePerOp > 0 || py.MinFXOpsMonthly > 0 {
			return domain.KindFXSavings, nil
		}
		if py.BonusTrigger != "" {
			return domain.KindFlatBonus, nil
		}
		return domain.KindInvestment, nil
	}
	return "", fmt.Errorf("cannot infer kind for product %q (benefit_type %q)", py.Name, py.BenefitType)
}
