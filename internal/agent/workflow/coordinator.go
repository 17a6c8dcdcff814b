package workflow

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/plantops/plantquery/internal/agent/provider"
	"github.com/plantops/plantquery/internal/agent/state"
	"github.com/plantops/plantquery/internal/logging"
	"github.com/plantops/plantquery/internal/metrics"
)

// NoResponseSentinel is returned when no agent produced an answer.
const NoResponseSentinel = "No response generated"

// Routing targets after the graph node.
const (
	routeMaintenance = "maintenance"
	routeSensor      = "sensor"
	routeBoth        = "both"
	routeSynthesizer = "synthesizer"
)

// RunResult is the complete outcome of one workflow run. It is always
// well-formed, even when every agent failed.
type RunResult struct {
	Query          string               `json:"query"`
	Response       string               `json:"response"`
	ExecutionTrace state.ExecutionTrace `json:"execution_trace"`
	Errors         []string             `json:"errors"`
}

// Coordinator routes one query through the agents. It is long-lived: one
// set of agent instances is reused across requests, so agents must hold no
// per-request state beyond the collaborator handles established at
// construction.
type Coordinator struct {
	provider    provider.Provider
	graph       Agent
	maintenance Agent
	sensor      Agent
	synthesizer Agent
	logger      *logging.Logger
	tracer      trace.Tracer
}

// NewCoordinator wires the coordinator with its agents and the classifier
// provider.
func NewCoordinator(p provider.Provider, graph, maintenance, sensor, synthesizer Agent) (*Coordinator, error) {
	if p == nil {
		return nil, fmt.Errorf("model provider is required")
	}
	if graph == nil || maintenance == nil || sensor == nil || synthesizer == nil {
		return nil, fmt.Errorf("all four agents are required")
	}
	return &Coordinator{
		provider:    p,
		graph:       graph,
		maintenance: maintenance,
		sensor:      sensor,
		synthesizer: synthesizer,
		logger:      logging.GetLogger("workflow"),
		tracer:      otel.Tracer("workflow"),
	}, nil
}

// Run executes the workflow for one query and returns the final response,
// the full trace, and all accumulated errors. Agents run strictly
// sequentially; no node is ever revisited.
func (c *Coordinator) Run(ctx context.Context, query string) *RunResult {
	ctx, span := c.tracer.Start(ctx, "workflow.run",
		trace.WithAttributes(attribute.String("query", query)))
	defer span.End()

	st := state.New(query)

	c.analyzeIntent(ctx, st)
	span.SetAttributes(attribute.StringSlice("capabilities", st.CapabilitiesToInvoke))

	c.runNode(ctx, c.graph, st)

	switch routeAfterGraph(st) {
	case routeBoth:
		c.runNode(ctx, c.maintenance, st)
		c.runNode(ctx, c.sensor, st)
	case routeMaintenance:
		c.runNode(ctx, c.maintenance, st)
	case routeSensor:
		c.runNode(ctx, c.sensor, st)
	}

	c.runNode(ctx, c.synthesizer, st)

	response := st.SynthesizedResponse
	if response == "" {
		response = NoResponseSentinel
	}

	executionTrace := st.BuildTrace()
	c.observeRun(st)

	return &RunResult{
		Query:          query,
		Response:       response,
		ExecutionTrace: executionTrace,
		Errors:         st.Errors,
	}
}

func (c *Coordinator) runNode(ctx context.Context, a Agent, st *state.State) {
	ctx, span := c.tracer.Start(ctx, "agent."+a.Name())
	defer span.End()

	runAgent(ctx, a, st)

	last := st.ExecutionTrace[len(st.ExecutionTrace)-1]
	span.SetAttributes(
		attribute.String("status", last.Status),
		attribute.Int64("duration_ms", last.DurationMS),
	)
	c.logger.Info("%s finished: status=%s duration=%dms summary=%q",
		a.Name(), last.Status, last.DurationMS, last.Summary)
}

// routeAfterGraph selects the next node from the scheduled capabilities.
// Maintenance always precedes sensor when both are required.
func routeAfterGraph(st *state.State) string {
	needsMaintenance := st.RequiresCapability(state.CapabilityMaintenance)
	needsSensor := st.RequiresCapability(state.CapabilitySensor)

	switch {
	case needsMaintenance && needsSensor:
		return routeBoth
	case needsMaintenance:
		return routeMaintenance
	case needsSensor:
		return routeSensor
	default:
		return routeSynthesizer
	}
}

func (c *Coordinator) observeRun(st *state.State) {
	outcome := "success"
	if len(st.Errors) > 0 {
		outcome = "degraded"
	}
	metrics.ObserveWorkflow(outcome, time.Since(st.StartTime))
}
