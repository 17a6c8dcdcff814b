// Package graphagent translates natural-language queries into Cypher and
// executes them against the plant hierarchy graph.
package graphagent

import (
	"context"
	"fmt"
	"strings"

	"github.com/plantops/plantquery/internal/agent/provider"
	"github.com/plantops/plantquery/internal/agent/state"
	"github.com/plantops/plantquery/internal/graph"
	"github.com/plantops/plantquery/internal/logging"
)

// Name identifies this agent in traces and error entries.
const Name = "graph_agent"

// MaxResults caps the number of rows returned to bound downstream prompt
// and payload size.
const MaxResults = 50

// Agent generates Cypher from the user query via the model provider and
// runs it against the graph backend.
type Agent struct {
	provider provider.Provider
	graph    graph.Client
	logger   *logging.Logger
}

// New creates the graph agent. The graph backend must already be
// connected; every workflow run depends on this agent, so a missing
// connection is a configuration defect surfaced at construction time.
func New(p provider.Provider, g graph.Client) (*Agent, error) {
	if p == nil {
		return nil, fmt.Errorf("model provider is required")
	}
	if g == nil || !g.IsConnected() {
		return nil, fmt.Errorf("graph backend not connected, cannot initialize %s", Name)
	}
	return &Agent{
		provider: p,
		graph:    g,
		logger:   logging.GetLogger("agent.graph"),
	}, nil
}

// Name returns the agent identifier.
func (a *Agent) Name() string { return Name }

// Execute translates the query to Cypher, runs it, and returns the rows
// truncated to MaxResults.
func (a *Agent) Execute(ctx context.Context, st *state.State) (map[string]interface{}, error) {
	if st.Query == "" {
		return nil, fmt.Errorf("query is empty")
	}

	cypher, err := a.generateCypher(ctx, st.Query)
	if err != nil {
		return nil, fmt.Errorf("query translation failed: %w", err)
	}
	a.logger.Debug("Generated Cypher: %s", cypher)

	rows, err := a.executeCypher(ctx, cypher)
	if err != nil {
		return nil, err
	}

	return map[string]interface{}{
		"cypher_query": cypher,
		"results":      rows,
		"result_count": len(rows),
	}, nil
}

func (a *Agent) generateCypher(ctx context.Context, query string) (string, error) {
	prompt := fmt.Sprintf(translationPromptTemplate, schemaContext, query)

	raw, err := a.provider.Complete(ctx, translationSystemPrompt, prompt)
	if err != nil {
		return "", err
	}

	cypher := stripCodeFences(raw)
	if cypher == "" {
		return "", fmt.Errorf("model returned an empty query")
	}
	return cypher, nil
}

func (a *Agent) executeCypher(ctx context.Context, cypher string) ([]map[string]interface{}, error) {
	result, err := a.graph.ExecuteQuery(ctx, graph.GraphQuery{Query: cypher})
	if err != nil {
		return nil, fmt.Errorf("cypher execution failed: %w", err)
	}

	rows := result.RowMaps()
	if len(rows) > MaxResults {
		rows = rows[:MaxResults]
	}
	return rows, nil
}

// stripCodeFences removes markdown fences the model may emit despite
// instructions.
func stripCodeFences(s string) string {
	s = strings.ReplaceAll(s, "```cypher", "")
	s = strings.ReplaceAll(s, "```", "")
	return strings.TrimSpace(s)
}

// Summarize produces the one-line trace summary for a successful run.
func (a *Agent) Summarize(output map[string]interface{}) string {
	count, _ := output["result_count"].(int)

	switch {
	case count == 0:
		return "No results found in graph database"
	case count == 1:
		return "Found 1 result in graph database"
	case count == MaxResults:
		return fmt.Sprintf("Found %d results in graph database (limited to %d)", count, MaxResults)
	default:
		return fmt.Sprintf("Found %d results in graph database", count)
	}
}

// StoreOutput writes the result into the graph slot of the shared state.
func (a *Agent) StoreOutput(st *state.State, output map[string]interface{}) {
	st.GraphResult = output
}
