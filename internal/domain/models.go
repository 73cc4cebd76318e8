package domain

import "time"

// Status is a client's normalized status category
type Status string

const (
	StatusStandard Status = "standard"
	StatusPayroll  Status = "payroll"
	StatusPremium  Status = "premium"
	StatusStudent  Status = "student"
)

// Client is one row of the client table, immutable after load
type Client struct {
	Code              string  `json:"client_code"`
	Name              string  `json:"name"`
	Status            Status  `json:"status"`
	Age               int     `json:"age"`
	City              string  `json:"city"`
	AvgMonthlyBalance float64 `json:"avg_monthly_balance"`
}

// Transaction is one card transaction, category already normalized
type Transaction struct {
	ClientCode string    `json:"client_code"`
	Date       time.Time `json:"date"`
	Category   string    `json:"category"`
	Amount     float64   `json:"amount"`
	Currency   string    `json:"currency"`
}

// Transfer type tags as they appear in the transfer table
const (
	TransferDepositIn = "deposit_in"
	TransferFXBuy     = "fx_buy"
	TransferFXSell    = "fx_sell"
)

// Transfer is one money movement (deposits, FX operations, etc.)
type Transfer struct {
	ClientCode string    `json:"client_code"`
	Date       time.Time `json:"date"`
	Type       string    `json:"type"`
	Direction  string    `json:"direction"`
	Amount     float64   `json:"amount"`
	Currency   string    `json:"currency"`
}

// NonCommercialCategories are excluded from top-N spend rankings:
// utilities, government services and taxes are not discretionary spend.
var NonCommercialCategories = map[string]bool{
	"Коммунальные платежи": true,
	"Гос. услуги":          true,
	"Налоги":               true,
}

// Offer is one scored (client, product) candidate prior to top-1 selection.
// Benefit is the capped value; UncappedBenefit feeds normalization.
type Offer struct {
	ClientCode         string  `json:"client_code"`
	ProductName        string  `json:"product_name"`
	Benefit            float64 `json:"benefit"`
	UncappedBenefit    float64 `json:"uncapped_benefit"`
	BasePropensity     float64 `json:"base_propensity"`
	NeighborPropensity float64 `json:"neighbor_propensity"`
	FinalPropensity    float64 `json:"final_propensity"`
	Counterfactual     float64 `json:"counterfactual_signal"`
	CategoryWeight     float64 `json:"category_weight"`
	NormBenefit        float64 `json:"norm_benefit"`
	NormCounterfactual float64 `json:"norm_counterfactual"`
	FinalScore         float64 `json:"final_score"`
}

// Recommendation is the winning offer for one client plus rendered push text
type Recommendation struct {
	ClientCode  string  `json:"client_code"`
	ProductName string  `json:"product_name"`
	Benefit     float64 `json:"benefit"`
	PushText    string  `json:"push_notification_text"`
}
