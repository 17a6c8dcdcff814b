// Package metrics holds Prometheus metrics for workflow observability.
package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds Prometheus metrics for the workflow coordinator.
type Metrics struct {
	WorkflowsTotal   *prometheus.CounterVec   // Total workflow runs by outcome
	WorkflowDuration prometheus.Histogram     // End-to-end workflow duration
	AgentRunsTotal   *prometheus.CounterVec   // Agent invocations by agent and status
	AgentDuration    *prometheus.HistogramVec // Per-agent execution duration
}

// NewMetrics creates workflow metrics. The registerer parameter allows
// flexible registration (e.g., global registry, test registry).
func NewMetrics(reg prometheus.Registerer) *Metrics {
	workflowsTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "plantquery_workflows_total",
		Help: "Total number of workflow runs by outcome",
	}, []string{"outcome"})

	workflowDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "plantquery_workflow_duration_seconds",
		Help:    "End-to-end workflow run duration",
		Buckets: prometheus.ExponentialBuckets(0.05, 2, 12),
	})

	agentRunsTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "plantquery_agent_runs_total",
		Help: "Total number of agent invocations by agent and status",
	}, []string{"agent", "status"})

	agentDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "plantquery_agent_duration_seconds",
		Help:    "Per-agent execution duration",
		Buckets: prometheus.ExponentialBuckets(0.01, 2, 12),
	}, []string{"agent"})

	reg.MustRegister(workflowsTotal)
	reg.MustRegister(workflowDuration)
	reg.MustRegister(agentRunsTotal)
	reg.MustRegister(agentDuration)

	return &Metrics{
		WorkflowsTotal:   workflowsTotal,
		WorkflowDuration: workflowDuration,
		AgentRunsTotal:   agentRunsTotal,
		AgentDuration:    agentDuration,
	}
}

// ObserveWorkflow records one completed workflow run.
func (m *Metrics) ObserveWorkflow(outcome string, duration time.Duration) {
	m.WorkflowsTotal.WithLabelValues(outcome).Inc()
	m.WorkflowDuration.Observe(duration.Seconds())
}

// ObserveAgentRun records one agent invocation.
func (m *Metrics) ObserveAgentRun(agent, status string, duration time.Duration) {
	m.AgentRunsTotal.WithLabelValues(agent, status).Inc()
	m.AgentDuration.WithLabelValues(agent).Observe(duration.Seconds())
}

var (
	defaultMetrics *Metrics
	defaultOnce    sync.Once
)

// Default returns the process-wide metrics instance registered with the
// default Prometheus registry.
func Default() *Metrics {
	defaultOnce.Do(func() {
		defaultMetrics = NewMetrics(prometheus.DefaultRegisterer)
	})
	return defaultMetrics
}

// ObserveWorkflow records a workflow run on the default instance.
func ObserveWorkflow(outcome string, duration time.Duration) {
	Default().ObserveWorkflow(outcome, duration)
}

// ObserveAgentRun records an agent invocation on the default instance.
func ObserveAgentRun(agent, status string, duration time.Duration) {
	Default().ObserveAgentRun(agent, status, duration)
}
