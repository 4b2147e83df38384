package models

import (
	"time"

	"github.com/google/uuid"
)

// LLMUsage records the token usage of one report generation call
type LLMUsage struct {
	ID               uuid.UUID     `json:"id"`
	AnalysisID       string        `json:"analysis_id"`
	Provider         string        `json:"provider"` // 'openai', 'mock', etc.
	Model            string        `json:"model"`
	PromptTokens     int           `json:"prompt_tokens"`
	CompletionTokens int           `json:"completion_tokens"`
	TotalTokens      int           `json:"total_tokens"`
	Duration         time.Duration `json:"duration_ns"`
	CreatedAt        time.Time     `json:"created_at"`
}

// NewLLMUsage stamps a usage record for the given analysis
func NewLLMUsage(analysisID, provider, model string, prompt, completion, total int, elapsed time.Duration) *LLMUsage {
	if total == 0 {
		total = prompt + completion
	}
	return &LLMUsage{
		ID:               uuid.New(),
		AnalysisID:       analysisID,
		Provider:         provider,
		Model:            model,
		PromptTokens:     prompt,
		CompletionTokens: completion,
		TotalTokens:      total,
		Duration:         elapsed,
		CreatedAt:        time.Now().UTC(),
	}
}
