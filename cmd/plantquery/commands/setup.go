package commands

import (
	"context"
	"fmt"

	"github.com/plantops/plantquery/internal/agent/graphagent"
	"github.com/plantops/plantquery/internal/agent/maintenance"
	"github.com/plantops/plantquery/internal/agent/provider"
	"github.com/plantops/plantquery/internal/agent/sensor"
	"github.com/plantops/plantquery/internal/agent/synthesizer"
	"github.com/plantops/plantquery/internal/agent/workflow"
	"github.com/plantops/plantquery/internal/config"
	"github.com/plantops/plantquery/internal/graph"
	"github.com/plantops/plantquery/internal/logging"
	mcpclient "github.com/plantops/plantquery/internal/mcp/client"
)

// runtime holds the fully wired workflow and the handles that need
// explicit shutdown.
type runtime struct {
	coordinator *workflow.Coordinator
	graphClient graph.Client
	mcpClients  []interface{ Close() error }
}

// buildRuntime connects the collaborators and wires the coordinator. The
// graph backend is foundational: a failed connection aborts startup
// instead of degrading silently.
func buildRuntime(ctx context.Context, cfg *config.Config) (*runtime, error) {
	logger := logging.GetLogger("setup")

	graphClient := graph.NewClient(graph.ClientConfig{
		Host:               cfg.Graph.Host,
		Port:               cfg.Graph.Port,
		Password:           cfg.Graph.Password,
		GraphName:          cfg.Graph.GraphName,
		QueryCacheEnabled:  cfg.Graph.CacheEnabled,
		QueryCacheMemoryMB: cfg.Graph.CacheMemoryMB,
		QueryCacheTTL:      cfg.Graph.CacheTTL,
	})
	if err := graphClient.Connect(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to graph backend: %w", err)
	}
	if err := graphClient.InitializeSchema(ctx); err != nil {
		logger.Warn("Schema initialization incomplete: %v", err)
	}

	llmProvider, err := provider.NewAnthropicProvider(provider.Config{
		APIKey:      cfg.LLM.APIKey,
		Model:       cfg.LLM.Model,
		MaxTokens:   cfg.LLM.MaxTokens,
		Temperature: cfg.LLM.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create model provider: %w", err)
	}

	rt := &runtime{graphClient: graphClient}

	graphAgent, err := graphagent.New(llmProvider, graphClient)
	if err != nil {
		return nil, err
	}

	maintenanceClient := mcpclient.New(mcpclient.Config{
		ServiceName: "maintenance",
		BaseURL:     cfg.Maintenance.URL,
		CallTimeout: cfg.Maintenance.CallTimeout,
	})
	rt.mcpClients = append(rt.mcpClients, maintenanceClient)
	maintenanceAgent := maintenance.New(maintenanceClient)

	var sensorAgent *sensor.Agent
	if cfg.Sensor.Enabled {
		sensorClient := mcpclient.New(mcpclient.Config{
			ServiceName: "sensor",
			BaseURL:     cfg.Sensor.URL,
			CallTimeout: cfg.Sensor.CallTimeout,
		})
		rt.mcpClients = append(rt.mcpClients, sensorClient)
		sensorAgent = sensor.New(sensorClient)
	} else {
		logger.Info("Sensor service disabled, sensor agent will return mock data")
		sensorAgent = sensor.New(nil)
	}

	synthesizerAgent := synthesizer.New(llmProvider)

	coordinator, err := workflow.NewCoordinator(
		llmProvider, graphAgent, maintenanceAgent, sensorAgent, synthesizerAgent)
	if err != nil {
		return nil, err
	}
	rt.coordinator = coordinator

	return rt, nil
}

// close releases all collaborator handles.
func (rt *runtime) close() {
	logger := logging.GetLogger("setup")
	for _, c := range rt.mcpClients {
		if err := c.Close(); err != nil {
			logger.Warn("Failed to close MCP client: %v", err)
		}
	}
	if rt.graphClient != nil {
		if err := rt.graphClient.Close(); err != nil {
			logger.Warn("Failed to close graph client: %v", err)
		}
	}
}
