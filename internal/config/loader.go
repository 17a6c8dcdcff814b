package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load reads configuration with the following precedence (highest wins):
// environment variables > config file > defaults. An empty path skips the
// file layer entirely.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		k := koanf.New(".")
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config from %q: %w", path, err)
		}
		if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{Tag: "yaml"}); err != nil {
			return nil, fmt.Errorf("failed to parse config from %q: %w", path, err)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// applyEnvOverrides overlays environment variables on top of the loaded
// config. Only the deployment-sensitive knobs are exposed this way.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("PLANTQUERY_API_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.APIPort = port
		}
	}
	if v := os.Getenv("PLANTQUERY_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("GRAPH_HOST"); v != "" {
		cfg.Graph.Host = v
	}
	if v := os.Getenv("GRAPH_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Graph.Port = port
		}
	}
	if v := os.Getenv("GRAPH_PASSWORD"); v != "" {
		cfg.Graph.Password = v
	}
	if v := os.Getenv("GRAPH_NAME"); v != "" {
		cfg.Graph.GraphName = v
	}
	if v := os.Getenv("ANTHROPIC_API_KEY"); v != "" && cfg.LLM.APIKey == "" {
		cfg.LLM.APIKey = v
	}
	if v := os.Getenv("MAINTENANCE_MCP_URL"); v != "" {
		cfg.Maintenance.URL = v
	}
	if v := os.Getenv("SENSOR_MCP_URL"); v != "" {
		cfg.Sensor.URL = v
		cfg.Sensor.Enabled = true
	}
}
