package workflow

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/plantops/plantquery/internal/agent/state"
)

const intentSystemPrompt = "You are an intent classification expert. Respond only with valid JSON."

const intentPromptTemplate = `Analyze this industrial data query and determine which data sources are needed.

Query: "%s"

Available data sources:
- GRAPH: graph database with plants, areas, equipment, and sensors
- MAINTENANCE: work orders, maintenance schedules, and asset status
- SENSOR: real-time sensor measurements, time-series data, and anomalies

Respond with a JSON object containing:
{
  "needs_graph": true/false,
  "needs_maintenance": true/false,
  "needs_sensor": true/false,
  "reasoning": "brief explanation"
}

Examples:
- "What sensors are in area 40-10?" → {"needs_graph": true, "needs_maintenance": false, "needs_sensor": false}
- "Do we have work orders for pump P-101?" → {"needs_graph": true, "needs_maintenance": true, "needs_sensor": false}
- "Show me abnormal temperature readings" → {"needs_graph": true, "needs_maintenance": false, "needs_sensor": true}
- "Equipment status with maintenance and sensor data" → {"needs_graph": true, "needs_maintenance": true, "needs_sensor": true}

Your analysis (JSON only):`

// intentAnalysis is the classifier's verdict. The graph capability is
// always scheduled regardless of needs_graph; the reasoning field is
// informational only.
type intentAnalysis struct {
	NeedsGraph       bool   `json:"needs_graph"`
	NeedsMaintenance bool   `json:"needs_maintenance"`
	NeedsSensor      bool   `json:"needs_sensor"`
	Reasoning        string `json:"reasoning"`
}

// analyzeIntent classifies the query and writes the ordered capability
// list into the state. On any classifier failure (transport error,
// malformed output) it falls back to scheduling all capabilities.
func (c *Coordinator) analyzeIntent(ctx context.Context, st *state.State) {
	intent, err := c.classify(ctx, st.Query)
	if err != nil {
		c.logger.Warn("Intent classification failed, invoking all agents: %v", err)
		st.CapabilitiesToInvoke = []string{
			state.CapabilityGraph,
			state.CapabilityMaintenance,
			state.CapabilitySensor,
		}
		return
	}

	capabilities := []string{state.CapabilityGraph}
	if intent.NeedsMaintenance {
		capabilities = append(capabilities, state.CapabilityMaintenance)
	}
	if intent.NeedsSensor {
		capabilities = append(capabilities, state.CapabilitySensor)
	}
	st.CapabilitiesToInvoke = capabilities

	c.logger.Debug("Intent: maintenance=%v sensor=%v (%s)",
		intent.NeedsMaintenance, intent.NeedsSensor, intent.Reasoning)
}

func (c *Coordinator) classify(ctx context.Context, query string) (*intentAnalysis, error) {
	raw, err := c.provider.Complete(ctx, intentSystemPrompt, fmt.Sprintf(intentPromptTemplate, query))
	if err != nil {
		return nil, err
	}

	var intent intentAnalysis
	if err := json.Unmarshal([]byte(stripJSONFences(raw)), &intent); err != nil {
		return nil, fmt.Errorf("malformed classifier output: %w", err)
	}
	return &intent, nil
}

func stripJSONFences(s string) string {
	s = strings.ReplaceAll(s, "```json", "")
	s = strings.ReplaceAll(s, "```", "")
	return strings.TrimSpace(s)
}
