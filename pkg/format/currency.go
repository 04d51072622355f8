// Package format renders amounts and ratios for people.
package format

import (
	"fmt"
	"strings"

	"github.com/iwvelando/capex-viability/pkg/constants"
	"github.com/iwvelando/capex-viability/pkg/currency"
	"github.com/iwvelando/capex-viability/pkg/finance"
	"github.com/shopspring/decimal"
)

// NotApplicable is shown in place of an undefined value.
const NotApplicable = "N/A"

// Currency returns amount with the symbol and separators of cur, e.g.
// "R$ 1.234,56" or "-$1,234.56".
func Currency(amount float64, cur currency.Currency) string {
	d := decimal.NewFromFloat(amount).Round(constants.DecimalPlaces)
	sign := ""
	if d.IsNegative() {
		sign = "-"
	}
	intPart, decPart := splitFixed(d.Abs())

	switch cur {
	case currency.BRL:
		return sign + "R$ " + group(intPart, '.') + "," + decPart
	default:
		return sign + "$" + group(intPart, ',') + "." + decPart
	}
}

// Percent renders a percentage with two decimals, or N/A when undefined.
func Percent(p finance.NullFloat) string {
	if !p.Valid {
		return NotApplicable
	}
	return decimal.NewFromFloat(p.Float64).StringFixed(constants.DecimalPlaces) + "%"
}

// Rate renders a fractional rate such as 0.12 as a percentage with one decimal,
// or N/A when undefined.
func Rate(r finance.NullFloat) string {
	if !r.Valid {
		return NotApplicable
	}
	return decimal.NewFromFloat(r.Float64*constants.PercentageMultiplier).StringFixed(1) + "%"
}

// FineRate renders a small fractional rate, such as a monthly discount rate,
// as a percentage with four decimals, or N/A when undefined.
func FineRate(r finance.NullFloat) string {
	if !r.Valid {
		return NotApplicable
	}
	return decimal.NewFromFloat(r.Float64*constants.PercentageMultiplier).StringFixed(4) + "%"
}

// Months renders a month count.
func Months(n int) string {
	if n == 1 {
		return "1 month"
	}
	return fmt.Sprintf("%d months", n)
}

func splitFixed(d decimal.Decimal) (string, string) {
	fixed := d.StringFixed(constants.DecimalPlaces)
	parts := strings.SplitN(fixed, ".", 2)
	if len(parts) == 2 {
		return parts[0], parts[1]
	}
	return parts[0], "00"
}

func group(intPart string, sep byte) string {
	if len(intPart) <= 3 {
		return intPart
	}
	var builder strings.Builder
	for i, digit := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			builder.WriteByte(sep)
		}
		builder.WriteRune(digit)
	}
	return builder.String()
}
