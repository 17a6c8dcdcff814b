// Package synthesizer assembles the partial results of the other agents
// into a final natural-language answer.
//
// The agent must never fail merely because upstream agents did: absent or
// erroring results are expected input. A bounded context string is built
// deterministically from whatever is present, and if the generation call
// itself fails, the context is returned verbatim with a note.
package synthesizer

import (
	"context"
	"fmt"

	"github.com/plantops/plantquery/internal/agent/provider"
	"github.com/plantops/plantquery/internal/agent/state"
	"github.com/plantops/plantquery/internal/logging"
)

// Name identifies this agent in traces and error entries.
const Name = "synthesizer"

const synthesisSystemPrompt = "You are an expert industrial data analyst providing insights for plant operations."

const synthesisPromptTemplate = `You are an industrial data analyst. Synthesize a clear, actionable response to the user's query based on the data provided by our specialized systems.

User Query: "%s"

Available Data:
%s%s

Instructions:
1. Provide a direct answer to the user's question
2. Cite specific data points from the context
3. Highlight any important findings (anomalies, work orders, patterns)
4. If data is incomplete, acknowledge it briefly but focus on what IS available
5. Use clear, professional language suitable for plant operations
6. Keep the response concise (2-4 paragraphs max)

Your response:`

// Agent combines upstream agent outputs into the final answer.
type Agent struct {
	provider provider.Provider
	logger   *logging.Logger
}

// New creates the synthesizer agent.
func New(p provider.Provider) *Agent {
	return &Agent{
		provider: p,
		logger:   logging.GetLogger("agent.synthesizer"),
	}
}

// Name returns the agent identifier.
func (a *Agent) Name() string { return Name }

// Execute builds the context, generates the answer, and writes it into
// the shared state directly. Generation failure falls back to the raw
// context rather than propagating.
func (a *Agent) Execute(ctx context.Context, st *state.State) (map[string]interface{}, error) {
	builtContext := buildContext(st.GraphResult, st.MaintenanceResult, st.SensorResult)
	response := a.synthesize(ctx, st.Query, builtContext, st.Errors)

	st.SynthesizedResponse = response

	return map[string]interface{}{
		"response":    response,
		"agents_used": agentsUsed(st),
	}, nil
}

func (a *Agent) synthesize(ctx context.Context, query, builtContext string, errors []string) string {
	errorNote := ""
	if len(errors) > 0 {
		errorNote = "\n\nNote: Some agents encountered errors:"
		for _, e := range errors {
			errorNote += "\n- " + e
		}
	}

	prompt := fmt.Sprintf(synthesisPromptTemplate, query, builtContext, errorNote)

	response, err := a.provider.Complete(ctx, synthesisSystemPrompt, prompt)
	if err != nil {
		a.logger.Warn("Response synthesis failed, falling back to raw context: %v", err)
		return fmt.Sprintf("Query: %s\n\n%s\n\n(Note: Response synthesis failed: %v)", query, builtContext, err)
	}
	return response
}

// agentsUsed lists the agents that completed successfully before this one,
// derived from the execution trace.
func agentsUsed(st *state.State) []string {
	used := []string{}
	for _, result := range st.ExecutionTrace {
		if result.Status == state.StatusSuccess && result.AgentName != Name {
			used = append(used, result.AgentName)
		}
	}
	return used
}

// Summarize produces the one-line trace summary for a successful run.
func (a *Agent) Summarize(output map[string]interface{}) string {
	count := 0
	if used, ok := output["agents_used"].([]string); ok {
		count = len(used)
	}
	return fmt.Sprintf("Synthesized response from %d agent(s)", count)
}

// StoreOutput is a no-op: Execute writes the response into the state
// itself.
func (a *Agent) StoreOutput(st *state.State, output map[string]interface{}) {}
