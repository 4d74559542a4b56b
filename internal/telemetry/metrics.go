// Package telemetry holds the server's Prometheus collectors and OpenTelemetry
// tracer setup.
package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequests counts handled API requests by route and status code.
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mortgage_planner_http_requests_total",
			Help: "Total API requests handled, by route and status code",
		},
		[]string{"route", "code"},
	)

	// SchedulesComputed counts amortization schedules computed on demand.
	SchedulesComputed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "mortgage_planner_schedules_computed_total",
			Help: "Total amortization schedules computed",
		},
	)

	// Exports counts spreadsheet exports by outcome.
	Exports = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mortgage_planner_exports_total",
			Help: "Spreadsheet exports, by status",
		},
		[]string{"status"},
	)

	// StoredScenarios tracks how many scenarios the in-memory store holds.
	StoredScenarios = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "mortgage_planner_stored_scenarios",
			Help: "Scenarios currently held in memory",
		},
	)
)
