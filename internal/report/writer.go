// Package report writes the two tabular artifacts of a run: the final
// recommendation table and the full offer analysis table.
package report

import (
	"encoding/csv"
	"fmt"
	"os"

	"github.com/shopspring/decimal"

	"github.com/aselbek/recommender/internal/domain"
)

// analysisPrecision is the fixed decimal precision of the analysis table
const analysisPrecision = 4

// WriteRecommendations writes the final top-1 table: one row per client
// with the winning product and the rendered push text.
func WriteRecommendations(path string, recs []domain.Recommendation) error {
	return writeCSV(path, []string{"client_code", "product", "push_notification"}, func(w *csv.Writer) error {
		for _, rec := range recs {
			if err := w.Write([]string{rec.ClientCode, rec.ProductName, rec.PushText}); err != nil {
				return err
			}
		}
		return nil
	})
}

// WriteAnalysis writes every generated offer with all intermediate scoring
// columns, numeric values rounded to a fixed precision.
func WriteAnalysis(path string, offers []*domain.Offer) error {
	header := []string{
		"client_code", "product_name", "benefit", "uncapped_benefit",
		"base_propensity", "counterfactual_signal", "neighbor_propensity",
		"final_propensity", "norm_benefit", "norm_counterfactual",
		"category_weight", "final_score",
	}
	return writeCSV(path, header, func(w *csv.Writer) error {
		for _, o := range offers {
			row := []string{
				o.ClientCode,
				o.ProductName,
				round(o.Benefit),
				round(o.UncappedBenefit),
				round(o.BasePropensity),
				round(o.Counterfactual),
				round(o.NeighborPropensity),
				round(o.FinalPropensity),
				round(o.NormBenefit),
				round(o.NormCounterfactual),
				round(o.CategoryWeight),
				round(o.FinalScore),
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
		return nil
	})
}

func writeCSV(path string, header []string, body func(*csv.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	if err := body(w); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	w.Flush()
	return w.Error()
}

func round(v float64) string {
	return decimal.NewFromFloat(v).Round(analysisPrecision).String()
}
