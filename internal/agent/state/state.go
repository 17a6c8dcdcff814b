// Package state defines the shared workflow state threaded through every
// agent invocation, plus the trace model returned to callers.
package state

import (
	"time"
)

// Agent invocation status values.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// WorkflowVersion identifies the trace format.
const WorkflowVersion = "1.0"

// Capability tags an agent can be scheduled for.
const (
	CapabilityGraph       = "graph"
	CapabilityMaintenance = "maintenance"
	CapabilitySensor      = "sensor"
)

// AgentResult records the outcome of a single agent invocation. Values are
// never mutated after construction.
type AgentResult struct {
	AgentName  string                 `json:"agent_name"`
	Status     string                 `json:"status"`
	DurationMS int64                  `json:"duration_ms"`
	Summary    string                 `json:"summary"`
	Output     map[string]interface{} `json:"output,omitempty"`
	Error      string                 `json:"error,omitempty"`
	Timestamp  time.Time              `json:"timestamp"`
}

// ExecutionTrace is the complete record of one workflow run, assembled
// once at the end.
type ExecutionTrace struct {
	TotalDurationMS int64         `json:"total_duration_ms"`
	AgentsInvoked   []AgentResult `json:"agents_invoked"`
	WorkflowVersion string        `json:"workflow_version"`
}

// State is the single mutable record threaded through one workflow run.
// Each result field is written at most once, by its owning agent; the
// trace and error slices are append-only. State is never shared across
// requests.
type State struct {
	// Query is the original natural-language request, immutable after
	// creation
	Query string

	// CapabilitiesToInvoke is set once by intent analysis and read-only
	// afterward; it always begins with "graph"
	CapabilitiesToInvoke []string

	// Per-agent output slots, written only on success
	GraphResult       map[string]interface{}
	MaintenanceResult map[string]interface{}
	SensorResult      map[string]interface{}

	// SynthesizedResponse is written once by the synthesizer
	SynthesizedResponse string

	// ExecutionTrace holds one entry per invoked agent, in call order
	ExecutionTrace []AgentResult

	// Errors holds one "{agent_name}: {message}" entry per failing agent
	Errors []string

	// StartTime is used only to compute the total run duration
	StartTime time.Time
}

// New creates a fresh state for one incoming query.
func New(query string) *State {
	return &State{
		Query:          query,
		ExecutionTrace: []AgentResult{},
		Errors:         []string{},
		StartTime:      time.Now(),
	}
}

// AppendResult appends one invocation record to the trace.
func (s *State) AppendResult(result AgentResult) {
	s.ExecutionTrace = append(s.ExecutionTrace, result)
}

// AppendError records one agent failure as "{agent_name}: {message}".
func (s *State) AppendError(agentName, message string) {
	s.Errors = append(s.Errors, agentName+": "+message)
}

// RequiresCapability reports whether the given capability was scheduled
// for this run.
func (s *State) RequiresCapability(capability string) bool {
	for _, c := range s.CapabilitiesToInvoke {
		if c == capability {
			return true
		}
	}
	return false
}

// BuildTrace assembles the final execution trace from the accumulated
// per-agent results and the elapsed wall time.
func (s *State) BuildTrace() ExecutionTrace {
	return ExecutionTrace{
		TotalDurationMS: time.Since(s.StartTime).Milliseconds(),
		AgentsInvoked:   s.ExecutionTrace,
		WorkflowVersion: WorkflowVersion,
	}
}
