package models

import (
	"os"
	"strconv"
	"time"
)

// AIConfig holds the settings the forensic reporter needs from the LLM layer
type AIConfig struct {
	OpenAIKey     string
	OpenAIModel   string
	BaseURL       string
	SystemContext string
	MaxTokens     int
	Temperature   float64
	ReportTimeout time.Duration
	// ReportsPerMinute caps provider calls; 0 means unlimited
	ReportsPerMinute int
}

// DefaultAIConfig returns sensible defaults for AI configuration
func DefaultAIConfig() *AIConfig {
	config := &AIConfig{
		OpenAIKey:     os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:   os.Getenv("LLM_MODEL"),
		SystemContext: "You are a professional forensic ballistics expert acting as a witness for the court.",
		MaxTokens:     1024, // default
		Temperature:   0.2,  // default
	}
	if config.OpenAIModel == "" {
		config.OpenAIModel = "gpt-4o-mini"
	}

	// Parse MaxTokens from environment
	if maxTokensStr := os.Getenv("MAX_TOKENS"); maxTokensStr != "" {
		if maxTokens, err := strconv.Atoi(maxTokensStr); err == nil {
			config.MaxTokens = maxTokens
		}
	}

	// Parse Temperature from environment
	if tempStr := os.Getenv("TEMPERATURE"); tempStr != "" {
		if temp, err := strconv.ParseFloat(tempStr, 64); err == nil {
			config.Temperature = temp
		}
	}

	return config
}

// HasCredentials reports whether a provider key is configured
func (c *AIConfig) HasCredentials() bool {
	return c != nil && c.OpenAIKey != ""
}
