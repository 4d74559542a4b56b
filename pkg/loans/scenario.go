package loans

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/iwvelando/mortgage-planner/pkg/constants"
	"github.com/iwvelando/mortgage-planner/pkg/mathutil"
)

// ErrInvalidScenario is returned when a scenario cannot be amortized.
var ErrInvalidScenario = errors.New("invalid scenario")

// Scenario holds the financial parameters of one mortgage option. The down
// payment amount and loan amount are derived from the price and percentage
// when the scenario is built and never change afterwards.
type Scenario struct {
	Name                string  `json:"name"`
	PropertyPrice       float64 `json:"propertyPrice"`
	DownPaymentPercent  float64 `json:"downPaymentPercent"`
	DownPaymentAmount   float64 `json:"downPaymentAmount"`
	LoanAmount          float64 `json:"loanAmount"`
	AnnualRatePercent   float64 `json:"annualRatePercent"`
	TermYears           int     `json:"termYears"`
	ExtraMonthlyPayment float64 `json:"extraMonthlyPayment"`
	ExtraPaymentMonths  int     `json:"extraPaymentMonths"`
}

// NewScenario builds a Scenario and derives its down payment and loan amounts.
// A down payment above 100% is accepted and yields a negative loan amount.
func NewScenario(name string, propertyPrice, downPaymentPercent, annualRatePercent float64, termYears int,
	extraMonthlyPayment float64, extraPaymentMonths int) Scenario {
	downPaymentAmount := mathutil.ApplyPercentage(propertyPrice, downPaymentPercent)
	return Scenario{
		Name:                name,
		PropertyPrice:       propertyPrice,
		DownPaymentPercent:  downPaymentPercent,
		DownPaymentAmount:   downPaymentAmount,
		LoanAmount:          propertyPrice - downPaymentAmount,
		AnnualRatePercent:   annualRatePercent,
		TermYears:           termYears,
		ExtraMonthlyPayment: extraMonthlyPayment,
		ExtraPaymentMonths:  extraPaymentMonths,
	}
}

// Validate checks the constraints the calculator relies on. The down payment
// percentage is not bounded above.
func (s Scenario) Validate() error {
	switch {
	case strings.TrimSpace(s.Name) == "":
		return fmt.Errorf("%w: name is required", ErrInvalidScenario)
	case s.PropertyPrice < 0:
		return fmt.Errorf("%w: property price must not be negative, got %.2f", ErrInvalidScenario, s.PropertyPrice)
	case s.DownPaymentPercent < 0:
		return fmt.Errorf("%w: down payment percent must not be negative, got %.2f", ErrInvalidScenario, s.DownPaymentPercent)
	case s.AnnualRatePercent < 0:
		return fmt.Errorf("%w: annual rate must not be negative, got %.2f", ErrInvalidScenario, s.AnnualRatePercent)
	case s.TermYears < 1:
		return fmt.Errorf("%w: term must be at least 1 year, got %d", ErrInvalidScenario, s.TermYears)
	case s.TermYears > constants.MaxTermYears:
		return fmt.Errorf("%w: term must not exceed %d years, got %d", ErrInvalidScenario, constants.MaxTermYears, s.TermYears)
	case s.ExtraMonthlyPayment < 0:
		return fmt.Errorf("%w: extra monthly payment must not be negative, got %.2f", ErrInvalidScenario, s.ExtraMonthlyPayment)
	case s.ExtraPaymentMonths < 0:
		return fmt.Errorf("%w: extra payment months must not be negative, got %d", ErrInvalidScenario, s.ExtraPaymentMonths)
	}

	payment := CalculateMonthlyPayment(s.LoanAmount, s.AnnualRatePercent, s.TermMonths())
	if math.IsInf(payment, 0) || math.IsNaN(payment) {
		return fmt.Errorf("%w: monthly payment is not finite at %.2f%% over %d years",
			ErrInvalidScenario, s.AnnualRatePercent, s.TermYears)
	}
	return nil
}

// TermMonths returns the number of scheduled monthly payments.
func (s Scenario) TermMonths() int {
	return s.TermYears * constants.MonthsPerYear
}

// MonthlyRate returns the periodic rate as a fraction.
func (s Scenario) MonthlyRate() float64 {
	return mathutil.MonthlyRate(s.AnnualRatePercent)
}

// Schedule computes the amortization schedule for the scenario.
func (s Scenario) Schedule() Schedule {
	return ComputeSchedule(s.LoanAmount, s.AnnualRatePercent, s.TermYears, s.ExtraMonthlyPayment, s.ExtraPaymentMonths)
}

var filenameReplacer = strings.NewReplacer(" ", "_", "/", "_", "\\", "_")

// Filename is the suggested download name for the scenario's spreadsheet.
// Spaces and path separators become underscores.
func (s Scenario) Filename() string {
	return filenameReplacer.Replace(s.Name) + constants.SpreadsheetExtension
}
