package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 8080, cfg.APIPort)
	assert.Equal(t, "plant", cfg.Graph.GraphName)
	assert.True(t, cfg.Maintenance.Enabled)
	assert.False(t, cfg.Sensor.Enabled)
	assert.Equal(t, 30*time.Second, cfg.Maintenance.CallTimeout)
}

func TestValidateErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad port", func(c *Config) { c.APIPort = 0 }},
		{"empty graph host", func(c *Config) { c.Graph.Host = "" }},
		{"empty graph name", func(c *Config) { c.Graph.GraphName = "" }},
		{"cache without memory", func(c *Config) { c.Graph.CacheEnabled = true; c.Graph.CacheMemoryMB = 0 }},
		{"empty model", func(c *Config) { c.LLM.Model = "" }},
		{"maintenance enabled without url", func(c *Config) { c.Maintenance.URL = "" }},
		{"tracing enabled without endpoint", func(c *Config) { c.Tracing.Enabled = true }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
apiPort: 9090
logLevel: debug
graph:
  host: falkordb.internal
  port: 6380
  graphName: plant-test
llm:
  model: claude-3-5-haiku-20241022
  maxTokens: 512
sensor:
  url: http://sensor-mcp:8002
  enabled: true
  callTimeout: 10s
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.APIPort)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "falkordb.internal", cfg.Graph.Host)
	assert.Equal(t, 6380, cfg.Graph.Port)
	assert.Equal(t, "plant-test", cfg.Graph.GraphName)
	assert.Equal(t, "claude-3-5-haiku-20241022", cfg.LLM.Model)
	assert.True(t, cfg.Sensor.Enabled)
	assert.Equal(t, 10*time.Second, cfg.Sensor.CallTimeout)

	// Unset keys keep their defaults.
	assert.Equal(t, "http://localhost:8001", cfg.Maintenance.URL)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load("/nonexistent/config.yaml")
	assert.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("GRAPH_HOST", "override-host")
	t.Setenv("PLANTQUERY_API_PORT", "7070")
	t.Setenv("SENSOR_MCP_URL", "http://sensors:9000")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "override-host", cfg.Graph.Host)
	assert.Equal(t, 7070, cfg.APIPort)
	assert.Equal(t, "http://sensors:9000", cfg.Sensor.URL)
	assert.True(t, cfg.Sensor.Enabled)
}
