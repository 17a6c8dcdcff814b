// Package workflow orchestrates the agents for one query: intent
// analysis, conditional routing, uniform per-agent execution semantics,
// and trace assembly.
package workflow

import (
	"context"
	"time"

	"github.com/plantops/plantquery/internal/agent/state"
	"github.com/plantops/plantquery/internal/metrics"
)

// Agent is one unit of capability-specific logic invoked by the
// coordinator.
type Agent interface {
	// Name identifies the agent in traces and error entries
	Name() string

	// Execute runs the agent's own logic against the shared state. A
	// returned error marks the invocation as failed but never aborts the
	// overall run.
	Execute(ctx context.Context, st *state.State) (map[string]interface{}, error)
}

// Summarizer is implemented by agents that produce a custom one-line
// summary of their output.
type Summarizer interface {
	Summarize(output map[string]interface{}) string
}

// OutputStorer is implemented by agents that write their output into a
// slot of the shared state on success.
type OutputStorer interface {
	StoreOutput(st *state.State, output map[string]interface{})
}

// runAgent executes one agent with uniform timing, error capture, and
// trace recording. Errors from Execute are swallowed here: they become a
// status=error trace entry and an entry in state.Errors, and control
// returns to the coordinator for the next scheduled node. The trace entry
// is appended on every path, success or failure.
func runAgent(ctx context.Context, a Agent, st *state.State) {
	start := time.Now()
	status := state.StatusSuccess
	var summary, errMsg string

	output, err := a.Execute(ctx, st)
	if err != nil {
		status = state.StatusError
		errMsg = err.Error()
		summary = "Failed: " + errMsg
		output = nil
		st.AppendError(a.Name(), errMsg)
	} else {
		summary = summarize(a, output)
	}

	duration := time.Since(start)
	st.AppendResult(state.AgentResult{
		AgentName:  a.Name(),
		Status:     status,
		DurationMS: duration.Milliseconds(),
		Summary:    summary,
		Output:     output,
		Error:      errMsg,
		Timestamp:  time.Now(),
	})
	metrics.ObserveAgentRun(a.Name(), status, duration)

	if status == state.StatusSuccess && output != nil {
		if storer, ok := a.(OutputStorer); ok {
			storer.StoreOutput(st, output)
		}
	}
}

func summarize(a Agent, output map[string]interface{}) string {
	if s, ok := a.(Summarizer); ok {
		return s.Summarize(output)
	}
	return a.Name() + " completed successfully"
}
