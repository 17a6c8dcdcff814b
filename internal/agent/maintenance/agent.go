// Package maintenance fetches work orders for sensors surfaced by the
// graph agent, over the maintenance service's MCP endpoint.
package maintenance

import (
	"context"
	"fmt"

	"github.com/plantops/plantquery/internal/agent/state"
	"github.com/plantops/plantquery/internal/logging"
)

// Name identifies this agent in traces and error entries.
const Name = "maintenance_agent"

// ProtocolClient is the slice of the MCP client this agent needs.
type ProtocolClient interface {
	// HealthCheck reports service reachability and never returns an error
	HealthCheck(ctx context.Context) bool

	// CallTool invokes one tool; each call is independently timeout-bounded
	CallTool(ctx context.Context, toolName string, arguments map[string]interface{}) (map[string]interface{}, error)
}

// Agent retrieves work orders for sensor tags extracted from the graph
// result.
type Agent struct {
	client ProtocolClient
	logger *logging.Logger
}

// New creates the maintenance agent.
func New(client ProtocolClient) *Agent {
	return &Agent{
		client: client,
		logger: logging.GetLogger("agent.maintenance"),
	}
}

// Name returns the agent identifier.
func (a *Agent) Name() string { return Name }

// Execute fetches work orders for each extracted sensor tag. Service
// unavailability is reported in the output rather than raised, so the run
// still records success for this degraded path.
func (a *Agent) Execute(ctx context.Context, st *state.State) (map[string]interface{}, error) {
	if !a.client.HealthCheck(ctx) {
		return map[string]interface{}{
			"work_orders":     []map[string]interface{}{},
			"sensors_checked": []string{},
			"error":           "Maintenance MCP server unavailable",
		}, nil
	}

	tags := state.ExtractSensorTags(st.GraphResult)
	if len(tags) == 0 {
		return map[string]interface{}{
			"work_orders":     []map[string]interface{}{},
			"sensors_checked": []string{},
			"message":         "No sensors found to check for work orders",
		}, nil
	}

	workOrders := a.fetchWorkOrders(ctx, tags)

	return map[string]interface{}{
		"work_orders":      workOrders,
		"sensors_checked":  tags,
		"work_order_count": len(workOrders),
	}, nil
}

// fetchWorkOrders issues one call per tag. A failure for one tag is logged
// and skipped; the remaining tags are still queried.
func (a *Agent) fetchWorkOrders(ctx context.Context, tags []string) []map[string]interface{} {
	all := []map[string]interface{}{}

	for _, tag := range tags {
		result, err := a.client.CallTool(ctx, "get_work_orders_by_sensor", map[string]interface{}{
			"sensor_name": tag,
		})
		if err != nil {
			a.logger.Warn("Failed to fetch work orders for %s: %v", tag, err)
			continue
		}

		for _, wo := range extractWorkOrders(result) {
			wo["sensor_name"] = tag
			all = append(all, wo)
		}
	}

	return all
}

func extractWorkOrders(result map[string]interface{}) []map[string]interface{} {
	switch orders := result["work_orders"].(type) {
	case []map[string]interface{}:
		return orders
	case []interface{}:
		out := make([]map[string]interface{}, 0, len(orders))
		for _, item := range orders {
			if m, ok := item.(map[string]interface{}); ok {
				out = append(out, m)
			}
		}
		return out
	default:
		return nil
	}
}

// Summarize produces the one-line trace summary for a successful run.
func (a *Agent) Summarize(output map[string]interface{}) string {
	if errMsg, ok := output["error"].(string); ok {
		return fmt.Sprintf("Maintenance check failed: %s", errMsg)
	}
	if msg, ok := output["message"].(string); ok {
		return msg
	}

	woCount, _ := output["work_order_count"].(int)
	sensorCount := 0
	if checked, ok := output["sensors_checked"].([]string); ok {
		sensorCount = len(checked)
	}

	switch woCount {
	case 0:
		return fmt.Sprintf("No work orders found for %d sensors", sensorCount)
	case 1:
		return fmt.Sprintf("Found 1 work order across %d sensors", sensorCount)
	default:
		return fmt.Sprintf("Found %d work orders across %d sensors", woCount, sensorCount)
	}
}

// StoreOutput writes the result into the maintenance slot of the shared
// state.
func (a *Agent) StoreOutput(st *state.State, output map[string]interface{}) {
	st.MaintenanceResult = output
}
