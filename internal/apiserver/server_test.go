package apiserver

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/plantops/plantquery/internal/agent/state"
	"github.com/plantops/plantquery/internal/agent/workflow"
	"github.com/plantops/plantquery/internal/graph"
)

type fakeRunner struct {
	lastQuery string
}

func (f *fakeRunner) Run(ctx context.Context, query string) *workflow.RunResult {
	f.lastQuery = query
	return &workflow.RunResult{
		Query:    query,
		Response: "There are 12 sensors in area 40-10.",
		ExecutionTrace: state.ExecutionTrace{
			TotalDurationMS: 1234,
			AgentsInvoked: []state.AgentResult{
				{AgentName: "graph_agent", Status: state.StatusSuccess},
				{AgentName: "synthesizer", Status: state.StatusSuccess},
			},
			WorkflowVersion: state.WorkflowVersion,
		},
		Errors: []string{},
	}
}

type fakeGraph struct {
	connected bool
	pingErr   error
}

func (f *fakeGraph) Connect(ctx context.Context) error { return nil }
func (f *fakeGraph) Close() error                      { return nil }
func (f *fakeGraph) Ping(ctx context.Context) error    { return f.pingErr }
func (f *fakeGraph) IsConnected() bool                 { return f.connected }
func (f *fakeGraph) ExecuteQuery(ctx context.Context, q graph.GraphQuery) (*graph.QueryResult, error) {
	return nil, nil
}
func (f *fakeGraph) InitializeSchema(ctx context.Context) error { return nil }

func newTestServer(runner QueryRunner, g graph.Client) *Server {
	return New(0, runner, g)
}

func TestHandleQuery(t *testing.T) {
	runner := &fakeRunner{}
	server := newTestServer(runner, &fakeGraph{connected: true})

	req := httptest.NewRequest(http.MethodPost, "/v1/query",
		strings.NewReader(`{"query": "What sensors are in area 40-10?"}`))
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "What sensors are in area 40-10?", runner.lastQuery)

	var result workflow.RunResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, "There are 12 sensors in area 40-10.", result.Response)
	assert.Len(t, result.ExecutionTrace.AgentsInvoked, 2)
	assert.Equal(t, state.WorkflowVersion, result.ExecutionTrace.WorkflowVersion)

	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestHandleQueryEmptyQuery(t *testing.T) {
	server := newTestServer(&fakeRunner{}, &fakeGraph{connected: true})

	req := httptest.NewRequest(http.MethodPost, "/v1/query", strings.NewReader(`{"query": "  "}`))
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleQueryInvalidBody(t *testing.T) {
	server := newTestServer(&fakeRunner{}, &fakeGraph{connected: true})

	req := httptest.NewRequest(http.MethodPost, "/v1/query", strings.NewReader("not json"))
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleQueryMethodNotAllowed(t *testing.T) {
	server := newTestServer(&fakeRunner{}, &fakeGraph{connected: true})

	req := httptest.NewRequest(http.MethodGet, "/v1/query", nil)
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestHandleHealth(t *testing.T) {
	server := newTestServer(&fakeRunner{}, &fakeGraph{connected: true})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "healthy")
}

func TestHandleReady(t *testing.T) {
	tests := []struct {
		name     string
		graph    *fakeGraph
		expected int
	}{
		{"connected", &fakeGraph{connected: true}, http.StatusOK},
		{"disconnected", &fakeGraph{connected: false}, http.StatusServiceUnavailable},
		{"ping fails", &fakeGraph{connected: true, pingErr: assert.AnError}, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := newTestServer(&fakeRunner{}, tt.graph)

			req := httptest.NewRequest(http.MethodGet, "/ready", nil)
			rec := httptest.NewRecorder()
			server.Handler().ServeHTTP(rec, req)

			assert.Equal(t, tt.expected, rec.Code)
		})
	}
}

func TestCORSPreflight(t *testing.T) {
	server := newTestServer(&fakeRunner{}, &fakeGraph{connected: true})

	req := httptest.NewRequest(http.MethodOptions, "/v1/query", nil)
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestRequestIDHonorsCaller(t *testing.T) {
	server := newTestServer(&fakeRunner{}, &fakeGraph{connected: true})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "caller-supplied-id")
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)

	assert.Equal(t, "caller-supplied-id", rec.Header().Get("X-Request-ID"))
}
