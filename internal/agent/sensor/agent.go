// Package sensor retrieves recent time-series measurements and anomaly
// flags for sensors surfaced by the graph agent.
//
// When the sensor-data service is not configured, the agent runs in mock
// mode: it synthesizes plausible measurements locally and marks the output
// with mock_data so downstream consumers can surface the substitution.
package sensor

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/plantops/plantquery/internal/agent/state"
	"github.com/plantops/plantquery/internal/logging"
)

// Name identifies this agent in traces and error entries.
const Name = "sensor_agent"

// measurementsPerSensor is how many hourly mock readings are synthesized
// per sensor.
const measurementsPerSensor = 5

// anomalyProbability is the per-sensor chance of a synthesized anomaly.
const anomalyProbability = 0.2

// ProtocolClient is the slice of the MCP client this agent needs.
type ProtocolClient interface {
	HealthCheck(ctx context.Context) bool
	CallTool(ctx context.Context, toolName string, arguments map[string]interface{}) (map[string]interface{}, error)
}

// Agent fetches sensor measurements either from the live service or from
// the local mock generator.
type Agent struct {
	client ProtocolClient
	live   bool
	logger *logging.Logger

	// rngMu guards rng: the agent is a long-lived singleton and *rand.Rand
	// is not safe for concurrent use across requests.
	rngMu sync.Mutex
	rng   *rand.Rand
	now   func() time.Time
}

func (a *Agent) randFloat64() float64 {
	a.rngMu.Lock()
	defer a.rngMu.Unlock()
	return a.rng.Float64()
}

func (a *Agent) randIntn(n int) int {
	a.rngMu.Lock()
	defer a.rngMu.Unlock()
	return a.rng.Intn(n)
}

// New creates the sensor agent. When client is nil the agent runs in mock
// mode.
func New(client ProtocolClient) *Agent {
	return &Agent{
		client: client,
		live:   client != nil,
		logger: logging.GetLogger("agent.sensor"),
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
		now:    time.Now,
	}
}

// Name returns the agent identifier.
func (a *Agent) Name() string { return Name }

// Execute fetches measurements and anomalies for the extracted sensor
// tags.
func (a *Agent) Execute(ctx context.Context, st *state.State) (map[string]interface{}, error) {
	if a.live {
		return a.executeLive(ctx, st)
	}
	return a.executeMock(st), nil
}

func (a *Agent) executeLive(ctx context.Context, st *state.State) (map[string]interface{}, error) {
	if !a.client.HealthCheck(ctx) {
		return map[string]interface{}{
			"measurements": []map[string]interface{}{},
			"anomalies":    []map[string]interface{}{},
			"error":        "Sensor data MCP server unavailable",
		}, nil
	}

	tags := state.ExtractSensorTags(st.GraphResult)
	if len(tags) == 0 {
		return map[string]interface{}{
			"measurements": []map[string]interface{}{},
			"anomalies":    []map[string]interface{}{},
			"message":      "No sensors found to query",
		}, nil
	}

	result, err := a.client.CallTool(ctx, "get_sensor_data", map[string]interface{}{
		"sensor_names": tags,
		"time_range":   "24h",
	})
	if err != nil {
		return nil, fmt.Errorf("sensor data retrieval failed: %w", err)
	}

	return map[string]interface{}{
		"measurements":    valueOrEmpty(result, "measurements"),
		"anomalies":       valueOrEmpty(result, "anomalies"),
		"sensors_queried": tags,
	}, nil
}

func (a *Agent) executeMock(st *state.State) map[string]interface{} {
	tags := state.ExtractSensorTags(st.GraphResult)
	if len(tags) == 0 {
		return map[string]interface{}{
			"measurements": []map[string]interface{}{},
			"anomalies":    []map[string]interface{}{},
			"message":      "No sensors found to query",
			"mock_data":    true,
		}
	}

	measurements := a.mockMeasurements(tags)
	anomalies := a.mockAnomalies(measurements)

	return map[string]interface{}{
		"measurements":    measurements,
		"anomalies":       anomalies,
		"sensors_queried": tags,
		"mock_data":       true,
	}
}

func valueOrEmpty(result map[string]interface{}, key string) interface{} {
	if v, ok := result[key]; ok && v != nil {
		return v
	}
	return []map[string]interface{}{}
}

// Summarize produces the one-line trace summary for a successful run.
func (a *Agent) Summarize(output map[string]interface{}) string {
	if errMsg, ok := output["error"].(string); ok {
		return fmt.Sprintf("Sensor data query failed: %s", errMsg)
	}
	if msg, ok := output["message"].(string); ok {
		return msg
	}

	measurementCount := lengthOf(output["measurements"])
	anomalyCount := lengthOf(output["anomalies"])

	mockNote := ""
	if mock, _ := output["mock_data"].(bool); mock {
		mockNote = " (mock data)"
	}

	if anomalyCount > 0 {
		return fmt.Sprintf("Retrieved %d measurements, found %d anomalies%s",
			measurementCount, anomalyCount, mockNote)
	}
	return fmt.Sprintf("Retrieved %d measurements, no anomalies detected%s",
		measurementCount, mockNote)
}

func lengthOf(v interface{}) int {
	switch items := v.(type) {
	case []map[string]interface{}:
		return len(items)
	case []interface{}:
		return len(items)
	default:
		return 0
	}
}

// StoreOutput writes the result into the sensor slot of the shared state.
func (a *Agent) StoreOutput(st *state.State, output map[string]interface{}) {
	st.SensorResult = output
}
