// Package validation provides configuration validation utilities.
package validation

import (
	"fmt"

	"github.com/iwvelando/mortgage-planner/pkg/constants"
)

// ScenarioConfig carries the fields of a scenario that warnings look at.
type ScenarioConfig struct {
	Name                string
	DownPaymentPercent  float64
	TermYears           int
	ExtraMonthlyPayment float64
	ExtraPaymentMonths  int
}

// ValidateDownPayment warns when the down payment exceeds the property price,
// which leaves a negative loan amount.
func ValidateDownPayment(name string, downPaymentPercent float64) string {
	if downPaymentPercent > constants.PercentageMultiplier {
		return fmt.Sprintf("Scenario '%s' has a down payment of %.2f%% - loan amount will be negative",
			name, downPaymentPercent)
	}
	return ""
}

// ValidateExtraPayments checks that extra payments and their month count are
// configured together and fit inside the loan term.
func ValidateExtraPayments(name string, extraMonthlyPayment float64, extraPaymentMonths, termYears int) []string {
	var warnings []string

	if extraMonthlyPayment > 0 && extraPaymentMonths == 0 {
		warnings = append(warnings, fmt.Sprintf("Scenario '%s' sets an extra payment of %.2f but no months to apply it",
			name, extraMonthlyPayment))
	}
	if extraMonthlyPayment == 0 && extraPaymentMonths > 0 {
		warnings = append(warnings, fmt.Sprintf("Scenario '%s' applies extra payments for %d months but the amount is 0",
			name, extraPaymentMonths))
	}

	termMonths := termYears * constants.MonthsPerYear
	if termYears > 0 && extraPaymentMonths > termMonths {
		warnings = append(warnings, fmt.Sprintf("Scenario '%s' applies extra payments for %d months, beyond the %d month term",
			name, extraPaymentMonths, termMonths))
	}

	return warnings
}

// ScenarioValidator collects warnings across every configured scenario.
type ScenarioValidator struct {
	Scenarios []ScenarioConfig
}

// ValidateAll validates all scenarios and returns warnings
func (sv *ScenarioValidator) ValidateAll() []string {
	var warnings []string

	if len(sv.Scenarios) == 0 {
		return append(warnings, "No scenarios configured")
	}

	seen := make(map[string]bool)
	for _, scenario := range sv.Scenarios {
		if seen[scenario.Name] {
			warnings = append(warnings, fmt.Sprintf("Scenario name '%s' is used more than once", scenario.Name))
		}
		seen[scenario.Name] = true

		if warning := ValidateDownPayment(scenario.Name, scenario.DownPaymentPercent); warning != "" {
			warnings = append(warnings, warning)
		}
		warnings = append(warnings, ValidateExtraPayments(scenario.Name, scenario.ExtraMonthlyPayment,
			scenario.ExtraPaymentMonths, scenario.TermYears)...)
	}

	return warnings
}
