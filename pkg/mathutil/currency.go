// Package mathutil provides common mathematical utility functions.
package mathutil

import (
	"math"

	"github.com/iwvelando/mortgage-planner/pkg/constants"
	"github.com/shopspring/decimal"
)

// Round rounds a value to two decimals, i.e. to represent real currency.
// Halves round away from zero, which is what math.Round does.
func Round(val float64) float64 {
	rounded := math.Round(val*constants.DecimalPrecision) / constants.DecimalPrecision
	if rounded == 0 {
		// drop the sign of -0
		return 0
	}
	return rounded
}

// WithinTolerance checks if two values are within a specified tolerance
func WithinTolerance(val1, val2, tolerance float64) bool {
	return math.Abs(val1-val2) <= tolerance
}

// ApplyPercentage applies a percentage to a value
func ApplyPercentage(value, percentage float64) float64 {
	return value * (percentage / constants.PercentageMultiplier)
}

// MonthlyRate converts an annual nominal percentage into a monthly fraction.
func MonthlyRate(annualRatePercent float64) float64 {
	return annualRatePercent / constants.PercentageMultiplier / constants.MonthsPerYear
}

// CentSum accumulates already-rounded currency values without binary
// floating point drift.
type CentSum struct {
	total decimal.Decimal
}

// Add adds a value to the running sum.
func (s *CentSum) Add(val float64) {
	s.total = s.total.Add(decimal.NewFromFloat(val))
}

// Float64 returns the sum rounded to cents.
func (s CentSum) Float64() float64 {
	return s.total.Round(constants.CurrencyPlaces).InexactFloat64()
}

// Literal renders a value in its shortest exact decimal form, e.g. for
// embedding in a spreadsheet formula.
func Literal(val float64) string {
	return decimal.NewFromFloat(val).String()
}
