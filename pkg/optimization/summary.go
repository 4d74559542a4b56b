// Package optimization provides shared data structures for optimization results.
package optimization

// Summary captures the result of solving for the extra monthly payment that
// retires a scenario's loan by a target month.
type Summary struct {
	ScenarioName   string   `json:"scenarioName"`
	TargetMonths   int      `json:"targetMonths"`
	Original       float64  `json:"original"`
	Value          float64  `json:"value"`
	ValueDisplay   string   `json:"valueDisplay,omitempty"`
	MonthsToPayoff int      `json:"monthsToPayoff"`
	InterestSaved  float64  `json:"interestSaved"`
	Iterations     int      `json:"iterations"`
	Converged      bool     `json:"converged"`
	Notes          []string `json:"notes,omitempty"`
}
