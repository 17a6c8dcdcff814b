// Package config holds runtime configuration for plantquery.
package config

import "time"

// Config holds all configuration for the application
type Config struct {
	// APIPort is the port the HTTP API server listens on
	APIPort int `yaml:"apiPort"`

	// LogLevel is the default logging level (debug, info, warn, error)
	LogLevel string `yaml:"logLevel"`

	// Graph holds the FalkorDB connection settings
	Graph GraphConfig `yaml:"graph"`

	// LLM holds the text-generation provider settings
	LLM LLMConfig `yaml:"llm"`

	// Maintenance holds the maintenance MCP service settings
	Maintenance MCPServiceConfig `yaml:"maintenance"`

	// Sensor holds the sensor-data MCP service settings
	Sensor MCPServiceConfig `yaml:"sensor"`

	// Tracing holds the OpenTelemetry export settings
	Tracing TracingConfig `yaml:"tracing"`
}

// GraphConfig holds FalkorDB connection settings.
type GraphConfig struct {
	Host      string `yaml:"host"`
	Port      int    `yaml:"port"`
	Password  string `yaml:"password"`
	GraphName string `yaml:"graphName"`

	// Query cache settings. The plant topology is read-mostly, so cached
	// query results stay valid for the TTL window.
	CacheEnabled  bool          `yaml:"cacheEnabled"`
	CacheMemoryMB int64         `yaml:"cacheMemoryMB"`
	CacheTTL      time.Duration `yaml:"cacheTTL"`
}

// LLMConfig holds text-generation provider settings.
type LLMConfig struct {
	// APIKey is the Anthropic API key. Falls back to ANTHROPIC_API_KEY.
	APIKey string `yaml:"apiKey"`

	// Model is the model identifier
	Model string `yaml:"model"`

	// MaxTokens caps generated output per call
	MaxTokens int `yaml:"maxTokens"`

	// Temperature controls sampling randomness
	Temperature float64 `yaml:"temperature"`
}

// MCPServiceConfig holds settings for one MCP-backed collaborator.
type MCPServiceConfig struct {
	// URL is the base URL of the MCP service (the /mcp endpoint is appended)
	URL string `yaml:"url"`

	// Enabled controls whether live calls are made. When the sensor
	// service is disabled the SensorAgent runs in mock-data mode.
	Enabled bool `yaml:"enabled"`

	// CallTimeout bounds each individual tool call
	CallTimeout time.Duration `yaml:"callTimeout"`
}

// TracingConfig holds OpenTelemetry settings.
type TracingConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Endpoint  string `yaml:"endpoint"`
	TLSCAPath string `yaml:"tlsCAPath"`
}

// DefaultConfig returns the defaults used when no config file is given.
func DefaultConfig() *Config {
	return &Config{
		APIPort:  8080,
		LogLevel: "info",
		Graph: GraphConfig{
			Host:          "localhost",
			Port:          6379,
			GraphName:     "plant",
			CacheEnabled:  false,
			CacheMemoryMB: 64,
			CacheTTL:      2 * time.Minute,
		},
		LLM: LLMConfig{
			Model:       "claude-sonnet-4-5-20250929",
			MaxTokens:   1024,
			Temperature: 0.1,
		},
		Maintenance: MCPServiceConfig{
			URL:         "http://localhost:8001",
			Enabled:     true,
			CallTimeout: 30 * time.Second,
		},
		Sensor: MCPServiceConfig{
			URL:         "http://localhost:8002",
			Enabled:     false,
			CallTimeout: 30 * time.Second,
		},
	}
}

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if c.APIPort < 1 || c.APIPort > 65535 {
		return NewConfigError("APIPort must be between 1 and 65535")
	}
	if c.Graph.Host == "" {
		return NewConfigError("Graph.Host must not be empty")
	}
	if c.Graph.Port < 1 || c.Graph.Port > 65535 {
		return NewConfigError("Graph.Port must be between 1 and 65535")
	}
	if c.Graph.GraphName == "" {
		return NewConfigError("Graph.GraphName must not be empty")
	}
	if c.Graph.CacheEnabled && c.Graph.CacheMemoryMB < 1 {
		return NewConfigError("Graph.CacheMemoryMB must be at least 1 when cache is enabled")
	}
	if c.LLM.Model == "" {
		return NewConfigError("LLM.Model must not be empty")
	}
	if c.LLM.MaxTokens < 1 {
		return NewConfigError("LLM.MaxTokens must be at least 1")
	}
	if c.Maintenance.Enabled && c.Maintenance.URL == "" {
		return NewConfigError("Maintenance.URL must be set when the maintenance service is enabled")
	}
	if c.Sensor.Enabled && c.Sensor.URL == "" {
		return NewConfigError("Sensor.URL must be set when the sensor service is enabled")
	}
	if c.Tracing.Enabled && c.Tracing.Endpoint == "" {
		return NewConfigError("Tracing.Endpoint must be set when tracing is enabled")
	}
	return nil
}

// ConfigError represents a configuration error
type ConfigError struct {
	message string
}

// NewConfigError creates a new configuration error
func NewConfigError(message string) *ConfigError {
	return &ConfigError{message: message}
}

// Error returns the error message
func (e *ConfigError) Error() string {
	return e.message
}
