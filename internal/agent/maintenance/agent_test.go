package maintenance

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plantops/plantquery/internal/agent/state"
)

type fakeClient struct {
	healthy   bool
	responses map[string]map[string]interface{}
	failTags  map[string]bool
	calls     []string
}

func (f *fakeClient) HealthCheck(ctx context.Context) bool { return f.healthy }

func (f *fakeClient) CallTool(ctx context.Context, toolName string, arguments map[string]interface{}) (map[string]interface{}, error) {
	tag := arguments["sensor_name"].(string)
	f.calls = append(f.calls, tag)
	if f.failTags[tag] {
		return nil, fmt.Errorf("lookup failed for %s", tag)
	}
	if resp, ok := f.responses[tag]; ok {
		return resp, nil
	}
	return map[string]interface{}{"work_orders": []interface{}{}}, nil
}

func graphResultWithTags(tags ...string) map[string]interface{} {
	rows := make([]map[string]interface{}, len(tags))
	for i, tag := range tags {
		rows[i] = map[string]interface{}{"s.tag": tag}
	}
	return map[string]interface{}{"results": rows, "result_count": len(rows)}
}

func TestExecuteUnavailable(t *testing.T) {
	agent := New(&fakeClient{healthy: false})
	st := state.New("work orders in area 40-10?")
	st.GraphResult = graphResultWithTags("40TI0101")

	output, err := agent.Execute(context.Background(), st)
	require.NoError(t, err, "unavailability is reported, not raised")

	assert.Equal(t, "Maintenance MCP server unavailable", output["error"])
	assert.Empty(t, output["work_orders"])
	assert.Empty(t, output["sensors_checked"])
}

func TestExecuteNoSensors(t *testing.T) {
	agent := New(&fakeClient{healthy: true})
	st := state.New("work orders?")

	output, err := agent.Execute(context.Background(), st)
	require.NoError(t, err)

	assert.Equal(t, "No sensors found to check for work orders", output["message"])
}

func TestExecuteFetchesWorkOrders(t *testing.T) {
	client := &fakeClient{
		healthy: true,
		responses: map[string]map[string]interface{}{
			"40TI0101": {"work_orders": []interface{}{
				map[string]interface{}{"nr": "WO-1", "short_description": "Replace probe"},
				map[string]interface{}{"nr": "WO-2", "short_description": "Calibrate"},
			}},
		},
	}
	agent := New(client)
	st := state.New("work orders in area 40-10?")
	st.GraphResult = graphResultWithTags("40TI0101", "40PI0202")

	output, err := agent.Execute(context.Background(), st)
	require.NoError(t, err)

	assert.Equal(t, 2, output["work_order_count"])
	assert.Equal(t, []string{"40TI0101", "40PI0202"}, output["sensors_checked"])

	orders := output["work_orders"].([]map[string]interface{})
	require.Len(t, orders, 2)
	assert.Equal(t, "40TI0101", orders[0]["sensor_name"])
	assert.Equal(t, "WO-1", orders[0]["nr"])
}

func TestExecutePartialFailure(t *testing.T) {
	client := &fakeClient{
		healthy:  true,
		failTags: map[string]bool{"40PI0202": true},
		responses: map[string]map[string]interface{}{
			"40LI0303": {"work_orders": []interface{}{
				map[string]interface{}{"nr": "WO-9"},
			}},
		},
	}
	agent := New(client)
	st := state.New("work orders?")
	st.GraphResult = graphResultWithTags("40TI0101", "40PI0202", "40LI0303")

	output, err := agent.Execute(context.Background(), st)
	require.NoError(t, err, "a failing tag is skipped, not fatal")

	assert.Equal(t, []string{"40TI0101", "40PI0202", "40LI0303"}, client.calls,
		"all tags are attempted despite the middle one failing")
	assert.Equal(t, 1, output["work_order_count"])
}

func TestExecuteCapsFanout(t *testing.T) {
	client := &fakeClient{healthy: true}
	agent := New(client)

	tags := make([]string, 20)
	for i := range tags {
		tags[i] = fmt.Sprintf("40TI%04d", i)
	}
	st := state.New("work orders?")
	st.GraphResult = graphResultWithTags(tags...)

	_, err := agent.Execute(context.Background(), st)
	require.NoError(t, err)

	assert.Len(t, client.calls, state.MaxSensorFanout)
}

func TestSummarize(t *testing.T) {
	agent := New(&fakeClient{})

	assert.Equal(t, "Maintenance check failed: down",
		agent.Summarize(map[string]interface{}{"error": "down"}))
	assert.Equal(t, "No sensors found to check for work orders",
		agent.Summarize(map[string]interface{}{"message": "No sensors found to check for work orders"}))
	assert.Equal(t, "No work orders found for 3 sensors",
		agent.Summarize(map[string]interface{}{
			"work_order_count": 0,
			"sensors_checked":  []string{"a", "b", "c"},
		}))
	assert.Equal(t, "Found 1 work order across 2 sensors",
		agent.Summarize(map[string]interface{}{
			"work_order_count": 1,
			"sensors_checked":  []string{"a", "b"},
		}))
	assert.Equal(t, "Found 4 work orders across 2 sensors",
		agent.Summarize(map[string]interface{}{
			"work_order_count": 4,
			"sensors_checked":  []string{"a", "b"},
		}))
}

func TestStoreOutput(t *testing.T) {
	agent := New(&fakeClient{})
	st := state.New("test")
	output := map[string]interface{}{"work_order_count": 0}

	agent.StoreOutput(st, output)

	assert.Equal(t, output, st.MaintenanceResult)
}
