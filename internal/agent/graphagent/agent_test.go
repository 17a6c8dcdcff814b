package graphagent

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plantops/plantquery/internal/agent/state"
	"github.com/plantops/plantquery/internal/graph"
)

type fakeProvider struct {
	response string
	err      error
}

func (f *fakeProvider) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	return f.response, f.err
}

func (f *fakeProvider) Name() string  { return "fake" }
func (f *fakeProvider) Model() string { return "fake-model" }

type fakeGraph struct {
	connected bool
	result    *graph.QueryResult
	err       error
	lastQuery string
}

func (f *fakeGraph) Connect(ctx context.Context) error { return nil }
func (f *fakeGraph) Close() error                      { return nil }
func (f *fakeGraph) Ping(ctx context.Context) error    { return nil }
func (f *fakeGraph) IsConnected() bool                 { return f.connected }

func (f *fakeGraph) ExecuteQuery(ctx context.Context, q graph.GraphQuery) (*graph.QueryResult, error) {
	f.lastQuery = q.Query
	return f.result, f.err
}

func (f *fakeGraph) InitializeSchema(ctx context.Context) error { return nil }

func sensorRows(n int) *graph.QueryResult {
	result := &graph.QueryResult{Columns: []string{"s.tag"}}
	for i := 0; i < n; i++ {
		result.Rows = append(result.Rows, []interface{}{fmt.Sprintf("40TI%04d", i)})
	}
	return result
}

func TestNewRequiresConnectedGraph(t *testing.T) {
	_, err := New(&fakeProvider{}, &fakeGraph{connected: false})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not connected")

	_, err = New(nil, &fakeGraph{connected: true})
	require.Error(t, err)
}

func TestExecute(t *testing.T) {
	g := &fakeGraph{connected: true, result: sensorRows(2)}
	agent, err := New(&fakeProvider{response: "MATCH (s:Sensor) RETURN s.tag LIMIT 50"}, g)
	require.NoError(t, err)

	output, err := agent.Execute(context.Background(), state.New("What sensors are in area 40-10?"))
	require.NoError(t, err)

	assert.Equal(t, "MATCH (s:Sensor) RETURN s.tag LIMIT 50", output["cypher_query"])
	assert.Equal(t, 2, output["result_count"])
	rows := output["results"].([]map[string]interface{})
	require.Len(t, rows, 2)
	assert.Equal(t, "40TI0000", rows[0]["s.tag"])
}

func TestExecuteEmptyQuery(t *testing.T) {
	agent, err := New(&fakeProvider{response: "MATCH (n) RETURN n"}, &fakeGraph{connected: true})
	require.NoError(t, err)

	_, err = agent.Execute(context.Background(), state.New(""))
	require.Error(t, err)
}

func TestExecuteStripsCodeFences(t *testing.T) {
	g := &fakeGraph{connected: true, result: sensorRows(1)}
	agent, err := New(&fakeProvider{response: "```cypher\nMATCH (s:Sensor) RETURN s.tag\n```"}, g)
	require.NoError(t, err)

	output, err := agent.Execute(context.Background(), state.New("show sensors"))
	require.NoError(t, err)

	assert.Equal(t, "MATCH (s:Sensor) RETURN s.tag", output["cypher_query"])
	assert.Equal(t, "MATCH (s:Sensor) RETURN s.tag", g.lastQuery)
}

func TestExecuteTruncatesResults(t *testing.T) {
	g := &fakeGraph{connected: true, result: sensorRows(100)}
	agent, err := New(&fakeProvider{response: "MATCH (s:Sensor) RETURN s.tag"}, g)
	require.NoError(t, err)

	output, err := agent.Execute(context.Background(), state.New("show all sensors"))
	require.NoError(t, err)

	assert.Equal(t, MaxResults, output["result_count"])
	assert.Len(t, output["results"], MaxResults)
}

func TestExecuteTranslationFailure(t *testing.T) {
	agent, err := New(&fakeProvider{err: fmt.Errorf("model overloaded")}, &fakeGraph{connected: true})
	require.NoError(t, err)

	_, err = agent.Execute(context.Background(), state.New("show sensors"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "translation failed")
}

func TestExecuteQueryFailure(t *testing.T) {
	g := &fakeGraph{connected: true, err: fmt.Errorf("syntax error")}
	agent, err := New(&fakeProvider{response: "MATCH bogus"}, g)
	require.NoError(t, err)

	_, err = agent.Execute(context.Background(), state.New("show sensors"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cypher execution failed")
}

func TestSummarize(t *testing.T) {
	agent := &Agent{}

	assert.Equal(t, "No results found in graph database",
		agent.Summarize(map[string]interface{}{"result_count": 0}))
	assert.Equal(t, "Found 1 result in graph database",
		agent.Summarize(map[string]interface{}{"result_count": 1}))
	assert.Equal(t, "Found 7 results in graph database",
		agent.Summarize(map[string]interface{}{"result_count": 7}))
	assert.Equal(t, "Found 50 results in graph database (limited to 50)",
		agent.Summarize(map[string]interface{}{"result_count": 50}))
}

func TestStoreOutput(t *testing.T) {
	agent := &Agent{}
	st := state.New("test")
	output := map[string]interface{}{"result_count": 1}

	agent.StoreOutput(st, output)

	assert.Equal(t, output, st.GraphResult)
}
