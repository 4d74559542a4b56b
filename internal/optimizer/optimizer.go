// Package optimizer searches for the extra monthly payment that pays a loan
// off by a target month.
package optimizer

import (
	"errors"
	"fmt"
	"math"

	"github.com/iwvelando/mortgage-planner/pkg/format"
	"github.com/iwvelando/mortgage-planner/pkg/loans"
	"github.com/iwvelando/mortgage-planner/pkg/mathutil"
	"github.com/iwvelando/mortgage-planner/pkg/optimization"
	"go.uber.org/zap"
)

const (
	// DefaultTolerance is the bisection stopping width in dollars.
	DefaultTolerance = 0.005
	// DefaultMaxIterations bounds the bisection.
	DefaultMaxIterations = 100
)

// ErrInvalidTarget is returned for target months outside 1..term.
var ErrInvalidTarget = errors.New("invalid payoff target")

// Config tunes the search.
type Config struct {
	Tolerance     float64
	MaxIterations int
}

// Runner solves payoff targets for scenarios.
type Runner struct {
	logger *zap.Logger
	cfg    Config
}

// NewRunner creates a Runner. Zero config values take the defaults.
func NewRunner(logger *zap.Logger, cfg Config) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Tolerance <= 0 {
		cfg.Tolerance = DefaultTolerance
	}
	if cfg.MaxIterations <= 0 {
		cfg.MaxIterations = DefaultMaxIterations
	}
	return &Runner{logger: logger, cfg: cfg}
}

type evaluation struct {
	value    float64
	schedule loans.Schedule
}

// Solve finds the smallest extra monthly payment, in whole cents, that brings
// the scenario's payoff to targetMonths or sooner when applied every month of
// the term. The scenario's own extra payment settings are replaced, not added to.
func (r *Runner) Solve(s loans.Scenario, targetMonths int) (optimization.Summary, error) {
	if err := s.Validate(); err != nil {
		return optimization.Summary{}, err
	}
	if targetMonths < 1 || targetMonths > s.TermMonths() {
		return optimization.Summary{}, fmt.Errorf("%w: %d months is outside 1..%d", ErrInvalidTarget, targetMonths, s.TermMonths())
	}

	baseline := r.evaluate(s, 0)
	summary := optimization.Summary{
		ScenarioName: s.Name,
		TargetMonths: targetMonths,
		Original:     s.ExtraMonthlyPayment,
	}

	if feasible(baseline, targetMonths) {
		return r.finish(summary, baseline, baseline, 0, true), nil
	}

	lower := 0.0
	upper := math.Max(s.LoanAmount, 0)
	best := r.evaluate(s, upper)
	if !feasible(best, targetMonths) {
		summary.Notes = []string{fmt.Sprintf("no extra payment up to %s reaches %d months", format.Currency(upper), targetMonths)}
		return r.finish(summary, baseline, best, 0, false), nil
	}

	iterations := 0
	for iterations < r.cfg.MaxIterations && upper-lower > r.cfg.Tolerance {
		mid := lower + (upper-lower)/2
		evalMid := r.evaluate(s, mid)
		iterations++
		if feasible(evalMid, targetMonths) {
			best = evalMid
			upper = mid
		} else {
			lower = mid
		}
	}

	// Payments are made in cents, so settle on the first cent at or above
	// the bound that still meets the target.
	cents := mathutil.Round(math.Ceil(upper*100) / 100)
	if evalCents := r.evaluate(s, cents); feasible(evalCents, targetMonths) {
		best = evalCents
		for cents >= 0.01 {
			lowerCents := r.evaluate(s, mathutil.Round(cents-0.01))
			if !feasible(lowerCents, targetMonths) {
				break
			}
			best = lowerCents
			cents = lowerCents.value
		}
	}

	return r.finish(summary, baseline, best, iterations, true), nil
}

func (r *Runner) evaluate(s loans.Scenario, extra float64) evaluation {
	return evaluation{
		value:    extra,
		schedule: loans.ComputeSchedule(s.LoanAmount, s.AnnualRatePercent, s.TermYears, extra, s.TermMonths()),
	}
}

func feasible(e evaluation, targetMonths int) bool {
	return e.schedule.Totals.MonthsToPayoff <= targetMonths
}

func (r *Runner) finish(summary optimization.Summary, baseline, best evaluation, iterations int, converged bool) optimization.Summary {
	summary.Value = best.value
	summary.ValueDisplay = format.Currency(best.value)
	summary.MonthsToPayoff = best.schedule.Totals.MonthsToPayoff
	summary.InterestSaved = baseline.schedule.Totals.Interest - best.schedule.Totals.Interest
	summary.Iterations = iterations
	summary.Converged = converged

	r.logger.Debug(fmt.Sprintf("solved extra payment for scenario %s", summary.ScenarioName),
		zap.String("op", "optimizer.Solve"),
		zap.Int("targetMonths", summary.TargetMonths),
		zap.Float64("value", summary.Value),
		zap.Int("iterations", iterations),
		zap.Bool("converged", converged),
	)
	return summary
}
