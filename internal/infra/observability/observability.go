// Package observability exposes Prometheus metrics for the time bank.
// Counters and gauges are registered via promauto; the API server mounts
// /metrics when enabled in config.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ─── Ledger Operation Metrics ───────────────────────────────────────────────

// Operations counts ledger operations by name and outcome.
var Operations = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "hourbank",
	Subsystem: "ledger",
	Name:      "operations_total",
	Help:      "Total ledger operations by operation and result.",
}, []string{"op", "result"})

// HoursTransferred counts hours moved through completed services.
var HoursTransferred = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "hourbank",
	Subsystem: "ledger",
	Name:      "hours_transferred_total",
	Help:      "Total hours transferred through completed services.",
})

// HoursContributed counts hours pooled into projects.
var HoursContributed = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "hourbank",
	Subsystem: "ledger",
	Name:      "hours_contributed_total",
	Help:      "Total hours contributed to projects.",
})

// ─── Table Gauges ───────────────────────────────────────────────────────────

// RegisteredUsers tracks the size of the user table.
var RegisteredUsers = promauto.NewGauge(prometheus.GaugeOpts{
	Namespace: "hourbank",
	Subsystem: "registry",
	Name:      "users",
	Help:      "Number of registered users.",
})

// Services tracks the size of the service table.
var Services = promauto.NewGauge(prometheus.GaugeOpts{
	Namespace: "hourbank",
	Subsystem: "exchange",
	Name:      "services",
	Help:      "Number of services ever offered.",
})

// Projects tracks the size of the project table.
var Projects = promauto.NewGauge(prometheus.GaugeOpts{
	Namespace: "hourbank",
	Subsystem: "pool",
	Name:      "projects",
	Help:      "Number of projects ever created.",
})

// ProjectsCompleted counts projects that reached their target.
var ProjectsCompleted = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "hourbank",
	Subsystem: "pool",
	Name:      "projects_completed_total",
	Help:      "Total projects that reached their required-hours target.",
})

// ─── Helpers ────────────────────────────────────────────────────────────────

// ResultLabel maps an operation error to the metric result label.
func ResultLabel(err error) string {
	if err != nil {
		return "rejected"
	}
	return "ok"
}
