// Package format renders mortgage figures for human-readable summaries.
package format

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Currency renders a dollar amount with thousands separators, e.g. "-$1,234.56".
func Currency(amount float64) string {
	d := decimal.NewFromFloat(amount).Round(2)
	if d.IsNegative() {
		return "-$" + grouped(d.Neg())
	}
	return "$" + grouped(d)
}

// Percent renders a percentage with up to three decimals and no trailing zeros,
// e.g. 4.125 as "4.125%" and 5 as "5%".
func Percent(pct float64) string {
	return decimal.NewFromFloat(pct).Round(3).String() + "%"
}

// Duration renders a month count as years and months, e.g. 340 as
// "28 years 4 months".
func Duration(months int) string {
	if months < 0 {
		months = 0
	}
	years, rest := months/12, months%12
	switch {
	case years == 0:
		return plural(rest, "month")
	case rest == 0:
		return plural(years, "year")
	default:
		return plural(years, "year") + " " + plural(rest, "month")
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}

// grouped expects a non-negative value.
func grouped(d decimal.Decimal) string {
	parts := strings.SplitN(d.StringFixed(2), ".", 2)
	intPart := parts[0]

	if len(intPart) > 3 {
		var builder strings.Builder
		for i, digit := range intPart {
			if i > 0 && (len(intPart)-i)%3 == 0 {
				builder.WriteByte(',')
			}
			builder.WriteRune(digit)
		}
		intPart = builder.String()
	}

	return intPart + "." + parts[1]
}
