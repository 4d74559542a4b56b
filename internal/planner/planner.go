// Package planner computes amortization schedules for every configured
// scenario.
package planner

import (
	"fmt"

	"github.com/iwvelando/mortgage-planner/pkg/loans"
	"go.uber.org/zap"
)

// Result pairs a scenario with its computed schedule.
type Result struct {
	Scenario loans.Scenario
	Schedule loans.Schedule
}

// Run computes the schedule of each scenario in order. Scenarios are
// independent of one another.
func Run(logger *zap.Logger, scenarios []loans.Scenario) ([]Result, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	generator := loans.NewScheduleGenerator(logger)
	results := make([]Result, 0, len(scenarios))
	for _, scenario := range scenarios {
		schedule, err := generator.Generate(scenario)
		if err != nil {
			return results, fmt.Errorf("failed to compute schedule for scenario %s: %w", scenario.Name, err)
		}
		results = append(results, Result{Scenario: scenario, Schedule: schedule})
	}

	logger.Debug(fmt.Sprintf("computed %d schedules", len(results)),
		zap.String("op", "planner.Run"),
	)
	return results, nil
}

// Compare returns how much the candidate saves in interest and months against
// the baseline. Negative values mean the candidate costs more.
func Compare(baseline, candidate Result) (interestSaved float64, monthsSaved int) {
	interestSaved = baseline.Schedule.Totals.Interest - candidate.Schedule.Totals.Interest
	monthsSaved = baseline.Schedule.Totals.MonthsToPayoff - candidate.Schedule.Totals.MonthsToPayoff
	return interestSaved, monthsSaved
}
