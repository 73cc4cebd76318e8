package push

import (
	"strings"

	"github.com/shopspring/decimal"
)

// FormatCurrency renders an amount the way push texts show money: the
// rounded integer part grouped by spaces with the tenge sign, "10 000 ₸".
func FormatCurrency(value float64) string {
	rounded := decimal.NewFromFloat(value).Round(0)
	digits := rounded.String()

	negative := strings.HasPrefix(digits, "-")
	if negative {
		digits = digits[1:]
	}

	var groups []string
	for len(digits) > 3 {
		groups = append([]string{digits[len(digits)-3:]}, groups...)
		digits = digits[:len(digits)-3]
	}
	groups = append([]string{digits}, groups...)

	out := strings.Join(groups, " ")
	if negative {
		out = "-" + out
	}
	return out + " ₸"
}
