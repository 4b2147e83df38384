package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"ballistix/internal"
	"ballistix/models"
	"ballistix/ports"

	"github.com/sashabaranov/go-openai"
)

// Config holds the provider settings for an LLM client
type Config struct {
	APIKey        string
	BaseURL       string // optional override (default: https://api.openai.com/v1)
	SystemContext string
	Temperature   float64
	Timeout       time.Duration // 0 disables the client-side timeout
}

// ConfigFromAI derives client settings from the application's AI configuration
func ConfigFromAI(ai *models.AIConfig) Config {
	return Config{
		APIKey:        ai.OpenAIKey,
		BaseURL:       ai.BaseURL,
		SystemContext: ai.SystemContext,
		Temperature:   ai.Temperature,
		Timeout:       ai.ReportTimeout,
	}
}

// NewClient creates an OpenAI-compatible client. A missing API key is an error;
// callers treat it as "reports unavailable" rather than a fatal condition.
func NewClient(config Config) (*OpenAIClient, error) {
	if strings.TrimSpace(config.APIKey) == "" {
		return nil, fmt.Errorf("missing OpenAI API key")
	}

	clientConfig := openai.DefaultConfig(config.APIKey)
	if baseURL := strings.TrimSpace(config.BaseURL); baseURL != "" {
		clientConfig.BaseURL = strings.TrimRight(baseURL, "/")
	}

	systemContext := config.SystemContext
	if systemContext == "" {
		systemContext = "You are a careful assistant. Output exactly what the user asks for."
	}

	return &OpenAIClient{
		client:        openai.NewClientWithConfig(clientConfig),
		systemContext: systemContext,
		temperature:   config.Temperature,
		timeout:       config.Timeout,
		logger:        internal.DefaultLogger.WithComponent("LLM"),
	}, nil
}

// OpenAIClient implements ports.LLMClient over the OpenAI chat completions API
type OpenAIClient struct {
	client        *openai.Client
	systemContext string
	temperature   float64
	timeout       time.Duration
	logger        *internal.Logger
}

var _ ports.LLMClient = (*OpenAIClient)(nil)

// ChatCompletion returns only the text of the first choice
func (c *OpenAIClient) ChatCompletion(ctx context.Context, model string, prompt string, maxTokens int) (string, error) {
	resp, err := c.ChatCompletionWithUsage(ctx, model, prompt, maxTokens)
	if err != nil {
		return "", err
	}
	return resp.Content, nil
}

// ChatCompletionWithUsage sends one system and one user message and reports token usage
func (c *OpenAIClient) ChatCompletionWithUsage(ctx context.Context, model string, prompt string, maxTokens int) (*ports.LLMResponse, error) {
	if strings.TrimSpace(model) == "" {
		return nil, fmt.Errorf("missing model")
	}
	if maxTokens <= 0 {
		maxTokens = 1024
	}
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req := openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: c.systemContext},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: float32(c.temperature),
		MaxTokens:   maxTokens,
	}

	c.logger.Debug("requesting completion model=%s prompt_chars=%d", model, len(prompt))
	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("openai request failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("openai response missing choices")
	}
	c.logger.Debug("completion finished reason=%s tokens=%d", resp.Choices[0].FinishReason, resp.Usage.TotalTokens)

	return &ports.LLMResponse{
		Content: resp.Choices[0].Message.Content,
		Usage: &ports.UsageData{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
			Model:            resp.Model,
			Provider:         "openai",
		},
	}, nil
}

// MockLLMClient is a mock LLM client for testing
type MockLLMClient struct {
	Response   string // Set this for testing
	Error      error  // Set this to simulate errors
	LastPrompt string
	Calls      int
}

var _ ports.LLMClient = (*MockLLMClient)(nil)

func (m *MockLLMClient) ChatCompletion(ctx context.Context, model string, prompt string, maxTokens int) (string, error) {
	resp, err := m.ChatCompletionWithUsage(ctx, model, prompt, maxTokens)
	if err != nil {
		return "", err
	}
	return resp.Content, nil
}

func (m *MockLLMClient) ChatCompletionWithUsage(ctx context.Context, model string, prompt string, maxTokens int) (*ports.LLMResponse, error) {
	m.Calls++
	m.LastPrompt = prompt
	if m.Error != nil {
		return nil, m.Error
	}
	content := m.Response
	if content == "" {
		content = "## Conclusion of Appraisal\n\nThe tested air gun is **not** capable of inflicting injury."
	}
	return &ports.LLMResponse{
		Content: content,
		Usage:   &ports.UsageData{Model: model, Provider: "mock"},
	}, nil
}
