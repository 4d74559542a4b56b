// Package loans provides mortgage scenarios and their amortization schedules.
package loans

import (
	"fmt"
	"math"

	"github.com/iwvelando/mortgage-planner/pkg/constants"
	"github.com/iwvelando/mortgage-planner/pkg/mathutil"
	"go.uber.org/zap"
)

// Row holds the values for a given scheduled month. Monetary fields are
// rounded to cents.
type Row struct {
	Month            int     `json:"month"`
	Interest         float64 `json:"interest"`
	Principal        float64 `json:"principal"`
	ExtraPayment     float64 `json:"extraPayment"`
	TotalPayment     float64 `json:"totalPayment"`
	RemainingBalance float64 `json:"remainingBalance"`
}

// Totals aggregates every row of a schedule. The sums are taken over the
// rounded row values so they reconcile with a spreadsheet recomputation.
type Totals struct {
	Interest       float64 `json:"interest"`
	Principal      float64 `json:"principal"`
	ExtraPayments  float64 `json:"extraPayments"`
	TotalPayments  float64 `json:"totalPayments"`
	MonthsToPayoff int     `json:"monthsToPayoff"`
}

// Schedule is a complete amortization schedule.
type Schedule struct {
	Rows        []Row   `json:"rows"`
	Totals      Totals  `json:"totals"`
	BasePayment float64 `json:"basePayment"`
}

// CalculateMonthlyPayment calculates the monthly payment for a loan using the standard amortization formula.
// termMonths must be positive.
func CalculateMonthlyPayment(loanAmount, annualInterestRate float64, termMonths int) float64 {
	periodicInterestRate := mathutil.MonthlyRate(annualInterestRate)
	if periodicInterestRate == 0 {
		// For zero interest, simply divide the principal by term
		return loanAmount / float64(termMonths)
	}

	power := math.Pow(1.00+periodicInterestRate, float64(termMonths))
	return loanAmount * periodicInterestRate * power / (power - 1.00)
}

// CalculateInterestPayment calculates the interest portion of a payment.
func CalculateInterestPayment(remainingBalance, annualInterestRate float64) float64 {
	return remainingBalance * mathutil.MonthlyRate(annualInterestRate)
}

// ComputeSchedule amortizes loanAmount month by month. The extra payment is
// added to principal during the first extraPaymentMonths months, the final
// payment is capped at the outstanding balance, and the schedule ends as soon
// as the balance is gone. termYears must be at least 1.
func ComputeSchedule(loanAmount, annualRatePercent float64, termYears int, extraMonthlyPayment float64,
	extraPaymentMonths int) Schedule {
	totalMonths := termYears * constants.MonthsPerYear
	basePayment := CalculateMonthlyPayment(loanAmount, annualRatePercent, totalMonths)

	rows := make([]Row, 0, min(max(totalMonths, 0), constants.MaxTermYears*constants.MonthsPerYear))
	var interestSum, principalSum, extraSum, paymentSum mathutil.CentSum

	balance := loanAmount
	for month := 1; month <= totalMonths; month++ {
		appliedExtra := 0.0
		if month <= extraPaymentMonths {
			appliedExtra = extraMonthlyPayment
		}

		interest := CalculateInterestPayment(balance, annualRatePercent)
		principal := basePayment - interest + appliedExtra

		var totalPayment float64
		if principal > balance {
			// Final partial payment.
			principal = balance
			totalPayment = interest + principal
		} else {
			totalPayment = basePayment + appliedExtra
		}
		balance -= principal

		row := Row{
			Month:            month,
			Interest:         mathutil.Round(interest),
			Principal:        mathutil.Round(principal - appliedExtra),
			ExtraPayment:     mathutil.Round(appliedExtra),
			TotalPayment:     mathutil.Round(totalPayment),
			RemainingBalance: mathutil.Round(balance),
		}
		rows = append(rows, row)

		interestSum.Add(row.Interest)
		principalSum.Add(row.Principal)
		extraSum.Add(row.ExtraPayment)
		paymentSum.Add(row.TotalPayment)

		if balance <= 0 {
			break
		}
	}

	return Schedule{
		Rows: rows,
		Totals: Totals{
			Interest:       interestSum.Float64(),
			Principal:      principalSum.Float64(),
			ExtraPayments:  extraSum.Float64(),
			TotalPayments:  paymentSum.Float64(),
			MonthsToPayoff: len(rows),
		},
		BasePayment: basePayment,
	}
}

// ScheduleGenerator produces schedules for validated scenarios and logs
// notable events along the way.
type ScheduleGenerator struct {
	logger *zap.Logger
}

// NewScheduleGenerator creates a new generator instance
func NewScheduleGenerator(logger *zap.Logger) *ScheduleGenerator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScheduleGenerator{logger: logger}
}

// Generate validates the scenario and computes its schedule.
func (g *ScheduleGenerator) Generate(s Scenario) (Schedule, error) {
	if err := s.Validate(); err != nil {
		return Schedule{}, err
	}

	schedule := s.Schedule()

	g.logger.Debug(fmt.Sprintf("computed schedule for scenario %s with base payment %.2f",
		s.Name, schedule.BasePayment),
		zap.String("op", "loans.Generate"),
		zap.Int("months", schedule.Totals.MonthsToPayoff),
	)

	if schedule.Totals.MonthsToPayoff < s.TermMonths() {
		g.logger.Debug(fmt.Sprintf("scenario %s pays off after %d of %d months",
			s.Name, schedule.Totals.MonthsToPayoff, s.TermMonths()),
			zap.String("op", "loans.Generate"),
			zap.Float64("extra_payment", s.ExtraMonthlyPayment),
			zap.Int("extra_payment_months", s.ExtraPaymentMonths),
		)
	}

	return schedule, nil
}
