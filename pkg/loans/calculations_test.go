package loans

import (
	"errors"
	"math"
	"reflect"
	"strings"
	"testing"

	"github.com/iwvelando/mortgage-planner/pkg/constants"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestCalculateMonthlyPayment(t *testing.T) {
	tests := []struct {
		name               string
		loanAmount         float64
		annualInterestRate float64
		termMonths         int
		expectedRange      []float64 // [min, max] expected range
	}{
		{
			name:               "Standard 30-year mortgage",
			loanAmount:         240000,
			annualInterestRate: 6.0,
			termMonths:         360,
			expectedRange:      []float64{1438, 1440}, // Around $1438.92
		},
		{
			name:               "5-year car loan",
			loanAmount:         20000,
			annualInterestRate: 4.0,
			termMonths:         60,
			expectedRange:      []float64{360, 380}, // Around $368
		},
		{
			name:               "Zero interest loan",
			loanAmount:         10000,
			annualInterestRate: 0.0,
			termMonths:         60,
			expectedRange:      []float64{166, 167}, // Exactly $166.67
		},
		{
			name:               "Nothing borrowed",
			loanAmount:         0,
			annualInterestRate: 5.0,
			termMonths:         60,
			expectedRange:      []float64{0, 0},
		},
		{
			name:               "High interest loan",
			loanAmount:         10000,
			annualInterestRate: 18.0,
			termMonths:         36,
			expectedRange:      []float64{360, 380}, // Around $372
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CalculateMonthlyPayment(tt.loanAmount, tt.annualInterestRate, tt.termMonths)

			if result < tt.expectedRange[0] || result > tt.expectedRange[1] {
				t.Errorf("CalculateMonthlyPayment() = %.2f, expected range [%.2f, %.2f]",
					result, tt.expectedRange[0], tt.expectedRange[1])
			}
		})
	}
}

func TestCalculateInterestPayment(t *testing.T) {
	tests := []struct {
		name             string
		remainingBalance float64
		annualRate       float64
		expected         float64
	}{
		{"Standard mortgage interest", 200000, 6.0, 1000.0},
		{"Car loan interest", 15000, 4.5, 56.25},
		{"Zero interest", 10000, 0.0, 0.0},
		{"Very small balance", 100, 6.0, 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CalculateInterestPayment(tt.remainingBalance, tt.annualRate)

			if math.Abs(result-tt.expected) > 0.01 {
				t.Errorf("CalculateInterestPayment() = %.2f, expected %.2f", result, tt.expected)
			}
		})
	}
}

func TestComputeScheduleConcreteScenario(t *testing.T) {
	schedule := ComputeSchedule(320000, 5.0, 30, 0, 0)

	if math.Abs(schedule.BasePayment-1717.82) > 0.01 {
		t.Errorf("BasePayment = %.4f, expected about 1717.82", schedule.BasePayment)
	}
	if schedule.Totals.MonthsToPayoff != 360 {
		t.Fatalf("MonthsToPayoff = %d, expected 360", schedule.Totals.MonthsToPayoff)
	}

	first := schedule.Rows[0]
	expected := Row{
		Month:            1,
		Interest:         1333.33,
		Principal:        384.49,
		ExtraPayment:     0,
		TotalPayment:     1717.82,
		RemainingBalance: 319615.51,
	}
	if first != expected {
		t.Errorf("first row = %+v, expected %+v", first, expected)
	}

	last := schedule.Rows[len(schedule.Rows)-1]
	if last.Month != 360 {
		t.Errorf("last row month = %d, expected 360", last.Month)
	}
	if last.RemainingBalance != 0 {
		t.Errorf("last row balance = %.2f, expected 0", last.RemainingBalance)
	}
}

func TestComputeScheduleWithExtraPayments(t *testing.T) {
	base := ComputeSchedule(320000, 5.0, 30, 0, 0)
	extra := ComputeSchedule(320000, 5.0, 30, 500, 360)

	if extra.Totals.MonthsToPayoff >= 360 {
		t.Errorf("MonthsToPayoff = %d, expected fewer than 360 months", extra.Totals.MonthsToPayoff)
	}
	if extra.Totals.Interest >= base.Totals.Interest {
		t.Errorf("total interest with extra payments %.2f should be less than %.2f",
			extra.Totals.Interest, base.Totals.Interest)
	}
	if extra.BasePayment != base.BasePayment {
		t.Errorf("extra payments must not change the base payment: %.4f vs %.4f",
			extra.BasePayment, base.BasePayment)
	}

	first := extra.Rows[0]
	if first.ExtraPayment != 500 {
		t.Errorf("first row extra payment = %.2f, expected 500", first.ExtraPayment)
	}
	if first.Principal != 384.49 {
		t.Errorf("first row principal should exclude the extra payment, got %.2f", first.Principal)
	}
	if first.TotalPayment != 2217.82 {
		t.Errorf("first row total payment = %.2f, expected 2217.82", first.TotalPayment)
	}
	if first.RemainingBalance != 319115.51 {
		t.Errorf("first row balance = %.2f, expected 319115.51", first.RemainingBalance)
	}

	last := extra.Rows[len(extra.Rows)-1]
	if last.RemainingBalance != 0 {
		t.Errorf("final balance = %.2f, expected exactly 0", last.RemainingBalance)
	}
}

func TestComputeScheduleExtraPaymentWindow(t *testing.T) {
	schedule := ComputeSchedule(200000, 6.0, 30, 250, 12)

	for _, row := range schedule.Rows {
		if row.Month <= 12 && row.ExtraPayment != 250 {
			t.Errorf("month %d extra payment = %.2f, expected 250", row.Month, row.ExtraPayment)
		}
		if row.Month > 12 && row.ExtraPayment != 0 {
			t.Errorf("month %d extra payment = %.2f, expected 0", row.Month, row.ExtraPayment)
		}
	}
	if schedule.Totals.ExtraPayments != 3000 {
		t.Errorf("total extra payments = %.2f, expected 3000", schedule.Totals.ExtraPayments)
	}
	if schedule.Totals.MonthsToPayoff >= 360 {
		t.Errorf("MonthsToPayoff = %d, expected early payoff", schedule.Totals.MonthsToPayoff)
	}
}

func TestComputeScheduleClampOnPayoff(t *testing.T) {
	// 1000 over a year with no interest and 500 extra: the second month owes
	// only 416.67, less than the 583.33 that would otherwise be applied.
	schedule := ComputeSchedule(1000, 0, 1, 500, 12)

	if schedule.Totals.MonthsToPayoff != 2 {
		t.Fatalf("MonthsToPayoff = %d, expected 2", schedule.Totals.MonthsToPayoff)
	}

	final := schedule.Rows[1]
	expected := Row{
		Month:            2,
		Interest:         0,
		Principal:        -83.33,
		ExtraPayment:     500,
		TotalPayment:     416.67,
		RemainingBalance: 0,
	}
	if final != expected {
		t.Errorf("final row = %+v, expected %+v", final, expected)
	}
	if schedule.Totals.TotalPayments != 1000 {
		t.Errorf("total payments = %.2f, expected 1000", schedule.Totals.TotalPayments)
	}
}

func TestComputeScheduleZeroRate(t *testing.T) {
	schedule := ComputeSchedule(10000, 0, 1, 0, 0)

	if schedule.Totals.MonthsToPayoff != 12 {
		t.Fatalf("MonthsToPayoff = %d, expected 12", schedule.Totals.MonthsToPayoff)
	}
	for i, row := range schedule.Rows {
		if row.Interest != 0 {
			t.Errorf("month %d interest = %.2f, expected 0", row.Month, row.Interest)
		}
		if i < len(schedule.Rows)-1 && row.Principal != 833.33 {
			t.Errorf("month %d principal = %.2f, expected 833.33", row.Month, row.Principal)
		}
	}
	if schedule.Totals.Interest != 0 {
		t.Errorf("total interest = %.2f, expected 0", schedule.Totals.Interest)
	}
	if last := schedule.Rows[len(schedule.Rows)-1]; last.RemainingBalance != 0 {
		t.Errorf("final balance = %.2f, expected 0", last.RemainingBalance)
	}
}

func TestComputeScheduleTotals(t *testing.T) {
	tests := []struct {
		name       string
		loanAmount float64
		rate       float64
		years      int
	}{
		{"30-year at 5%", 320000, 5.0, 30},
		{"15-year at 3.25%", 250000, 3.25, 15},
		{"5-year at 9.9%", 18000, 9.9, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			schedule := ComputeSchedule(tt.loanAmount, tt.rate, tt.years, 0, 0)
			months := schedule.Totals.MonthsToPayoff

			if months != tt.years*12 {
				t.Errorf("MonthsToPayoff = %d, expected %d", months, tt.years*12)
			}

			expectedTotal := schedule.BasePayment * float64(months)
			if math.Abs(schedule.Totals.TotalPayments-expectedTotal) > 0.01*float64(months) {
				t.Errorf("TotalPayments = %.2f, expected about %.2f", schedule.Totals.TotalPayments, expectedTotal)
			}

			var interest, principal float64
			for _, row := range schedule.Rows {
				interest += row.Interest
				principal += row.Principal
			}
			if math.Abs(schedule.Totals.Interest-interest) > 0.005 {
				t.Errorf("Totals.Interest = %.2f, rows sum to %.2f", schedule.Totals.Interest, interest)
			}
			if math.Abs(schedule.Totals.Principal-principal) > 0.005 {
				t.Errorf("Totals.Principal = %.2f, rows sum to %.2f", schedule.Totals.Principal, principal)
			}
		})
	}
}

func TestComputeScheduleIsDeterministic(t *testing.T) {
	first := ComputeSchedule(320000, 5.0, 30, 500, 60)
	second := ComputeSchedule(320000, 5.0, 30, 500, 60)

	if !reflect.DeepEqual(first, second) {
		t.Error("ComputeSchedule() returned different results for identical inputs")
	}
}

func TestComputeScheduleNegativeLoan(t *testing.T) {
	// A 120% down payment leaves a negative loan amount which is amortized
	// as-is.
	s := NewScenario("over funded", 100000, 120, 5.0, 30, 0, 0)
	schedule := s.Schedule()

	if schedule.BasePayment >= 0 {
		t.Errorf("BasePayment = %.2f, expected a negative payment", schedule.BasePayment)
	}
	if len(schedule.Rows) == 0 {
		t.Fatal("expected at least one row")
	}
	first := schedule.Rows[0]
	if first.Interest >= 0 || first.Principal >= 0 {
		t.Errorf("expected negative interest and principal, got %+v", first)
	}
	if schedule.Totals.MonthsToPayoff > 360 {
		t.Errorf("MonthsToPayoff = %d exceeds the term", schedule.Totals.MonthsToPayoff)
	}
}

func TestScheduleGeneratorGenerate(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	generator := NewScheduleGenerator(zap.New(core))

	s := NewScenario("Extra principal", 400000, 20, 5.0, 30, 500, 360)
	schedule, err := generator.Generate(s)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	if !reflect.DeepEqual(schedule, s.Schedule()) {
		t.Error("Generate() should match the scenario's computed schedule")
	}

	found := false
	for _, entry := range logs.All() {
		if strings.Contains(entry.Message, "pays off after") {
			found = true
		}
	}
	if !found {
		t.Error("expected an early payoff debug log")
	}
}

func TestScheduleGeneratorRejectsInvalidScenario(t *testing.T) {
	generator := NewScheduleGenerator(nil)

	_, err := generator.Generate(NewScenario("No term", 400000, 20, 5.0, 0, 0, 0))
	if !errors.Is(err, ErrInvalidScenario) {
		t.Errorf("Generate() error = %v, expected ErrInvalidScenario", err)
	}
}

func TestScheduleGeneratorRejectsUnboundedInputs(t *testing.T) {
	generator := NewScheduleGenerator(nil)

	tests := []struct {
		name     string
		scenario Scenario
	}{
		{"Enormous term", NewScenario("huge", 400000, 20, 5.0, 1<<40, 0, 0)},
		{"Overflowing rate", NewScenario("usury", 400000, 20, 1e6, 30, 0, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := generator.Generate(tt.scenario)
			if !errors.Is(err, ErrInvalidScenario) {
				t.Errorf("Generate() error = %v, expected ErrInvalidScenario", err)
			}
		})
	}
}

func TestComputeScheduleLongTermDoesNotOverAllocate(t *testing.T) {
	schedule := ComputeSchedule(1000, 0, 1<<20, 1000, 1)
	if schedule.Totals.MonthsToPayoff != 1 {
		t.Errorf("MonthsToPayoff = %d, expected 1", schedule.Totals.MonthsToPayoff)
	}
	if cap(schedule.Rows) > constants.MaxTermYears*constants.MonthsPerYear {
		t.Errorf("cap(Rows) = %d, expected at most %d", cap(schedule.Rows), constants.MaxTermYears*constants.MonthsPerYear)
	}
}
