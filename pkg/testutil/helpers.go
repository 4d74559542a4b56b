// Package testutil provides common utility functions for testing.
package testutil

import (
	"github.com/iwvelando/mortgage-planner/internal/planner"
)

// FindScenario finds a scenario by name in the results slice.
// Returns a pointer to the result if found, nil otherwise.
func FindScenario(results []planner.Result, name string) *planner.Result {
	for i := range results {
		if results[i].Scenario.Name == name {
			return &results[i]
		}
	}
	return nil
}
