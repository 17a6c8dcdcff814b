package provider

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAnthropicProviderDefaults(t *testing.T) {
	p, err := NewAnthropicProvider(Config{APIKey: "test-key"})
	require.NoError(t, err)

	assert.Equal(t, "anthropic", p.Name())
	assert.Equal(t, DefaultConfig().Model, p.Model())
}

func TestNewAnthropicProviderExplicitModel(t *testing.T) {
	p, err := NewAnthropicProvider(Config{APIKey: "test-key", Model: "claude-haiku-4-5"})
	require.NoError(t, err)

	assert.Equal(t, "claude-haiku-4-5", p.Model())
}
