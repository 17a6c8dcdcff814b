package workflow

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plantops/plantquery/internal/agent/state"
)

type summarizingAgent struct {
	stubAgent
	summary string
	stored  map[string]interface{}
}

func (s *summarizingAgent) Summarize(output map[string]interface{}) string { return s.summary }

func (s *summarizingAgent) StoreOutput(st *state.State, output map[string]interface{}) {
	s.stored = output
}

func TestRunAgentSuccess(t *testing.T) {
	output := map[string]interface{}{"result_count": 3}
	a := &summarizingAgent{
		stubAgent: stubAgent{name: "graph_agent", out: output},
		summary:   "Found 3 results",
	}
	st := state.New("test")

	runAgent(context.Background(), a, st)

	require.Len(t, st.ExecutionTrace, 1)
	result := st.ExecutionTrace[0]
	assert.Equal(t, "graph_agent", result.AgentName)
	assert.Equal(t, state.StatusSuccess, result.Status)
	assert.Equal(t, "Found 3 results", result.Summary)
	assert.Equal(t, output, result.Output)
	assert.Empty(t, result.Error)
	assert.GreaterOrEqual(t, result.DurationMS, int64(0))
	assert.WithinDuration(t, time.Now(), result.Timestamp, time.Second)

	assert.Equal(t, output, a.stored, "store hook runs on success")
	assert.Empty(t, st.Errors)
}

func TestRunAgentError(t *testing.T) {
	a := &stubAgent{name: "sensor_agent", err: fmt.Errorf("boom")}
	st := state.New("test")

	runAgent(context.Background(), a, st)

	require.Len(t, st.ExecutionTrace, 1)
	result := st.ExecutionTrace[0]
	assert.Equal(t, state.StatusError, result.Status)
	assert.Equal(t, "boom", result.Error)
	assert.Contains(t, result.Summary, "Failed")
	assert.Nil(t, result.Output)

	require.Len(t, st.Errors, 1)
	assert.Contains(t, st.Errors[0], "sensor_agent")
	assert.Contains(t, st.Errors[0], "boom")
}

func TestRunAgentErrorSkipsStoreHook(t *testing.T) {
	a := &summarizingAgent{
		stubAgent: stubAgent{name: "graph_agent", err: fmt.Errorf("down")},
	}
	st := state.New("test")

	runAgent(context.Background(), a, st)

	assert.Nil(t, a.stored)
	assert.Nil(t, st.GraphResult)
}

func TestRunAgentDefaultSummary(t *testing.T) {
	a := &stubAgent{name: "maintenance_agent", out: map[string]interface{}{}}
	st := state.New("test")

	runAgent(context.Background(), a, st)

	assert.Equal(t, "maintenance_agent completed successfully", st.ExecutionTrace[0].Summary)
}
