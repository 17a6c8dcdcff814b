// Package provider implements the text-generation collaborator used for
// intent classification, Cypher generation and answer synthesis.
package provider

import "context"

// Provider defines the interface for LLM providers.
type Provider interface {
	// Complete sends a system prompt and user prompt to the model and
	// returns the text of the response.
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)

	// Name returns the provider name for logging and display.
	Name() string

	// Model returns the model identifier being used.
	Model() string
}

// Config contains common configuration for providers.
type Config struct {
	// APIKey is the provider API key. Empty means use the provider's
	// ambient credential (e.g. the ANTHROPIC_API_KEY env var).
	APIKey string

	// Model is the model identifier (e.g., "claude-sonnet-4-5-20250929")
	Model string

	// MaxTokens is the maximum number of tokens to generate
	MaxTokens int

	// Temperature controls randomness (0.0 = deterministic)
	Temperature float64
}

// DefaultConfig returns sensible defaults for plant QA. Low temperature
// keeps classification and query generation repeatable.
func DefaultConfig() Config {
	return Config{
		Model:       "claude-sonnet-4-5-20250929",
		MaxTokens:   1024,
		Temperature: 0.1,
	}
}
