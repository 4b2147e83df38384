package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDefaultAIConfig(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("LLM_MODEL", "")
	t.Setenv("MAX_TOKENS", "512")
	t.Setenv("TEMPERATURE", "not-a-number")

	config := DefaultAIConfig()

	assert.Equal(t, "gpt-4o-mini", config.OpenAIModel)
	assert.Equal(t, 512, config.MaxTokens)
	assert.Equal(t, 0.2, config.Temperature)
	assert.False(t, config.HasCredentials())
}

func TestHasCredentials(t *testing.T) {
	var nilConfig *AIConfig
	assert.False(t, nilConfig.HasCredentials())
	assert.True(t, (&AIConfig{OpenAIKey: "sk"}).HasCredentials())
}

func TestNewLLMUsage(t *testing.T) {
	usage := NewLLMUsage("a-1", "openai", "gpt-4o-mini", 100, 50, 0, time.Second)

	assert.Equal(t, 150, usage.TotalTokens)
	assert.Equal(t, "a-1", usage.AnalysisID)
	assert.False(t, usage.CreatedAt.IsZero())
	assert.NotEqual(t, usage.ID.String(), NewLLMUsage("a-1", "openai", "m", 1, 1, 2, 0).ID.String())
}
