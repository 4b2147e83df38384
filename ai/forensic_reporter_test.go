package ai

import (
	"context"
	stdErrors "errors"
	"strings"
	"testing"
	"time"

	"ballistix/domain/ballistics"
	"ballistix/internal/errors"
	"ballistix/models"
	"ballistix/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

type mockLLMClient struct {
	mock.Mock
}

func (m *mockLLMClient) ChatCompletion(ctx context.Context, model string, prompt string, maxTokens int) (string, error) {
	args := m.Called(ctx, model, prompt, maxTokens)
	return args.String(0), args.Error(1)
}

func (m *mockLLMClient) ChatCompletionWithUsage(ctx context.Context, model string, prompt string, maxTokens int) (*ports.LLMResponse, error) {
	args := m.Called(ctx, model, prompt, maxTokens)
	resp, _ := args.Get(0).(*ports.LLMResponse)
	return resp, args.Error(1)
}

func testAIConfig() *models.AIConfig {
	return &models.AIConfig{OpenAIKey: "sk-test", OpenAIModel: "gpt-4o-mini", MaxTokens: 512, Temperature: 0.2}
}

func TestForensicReporter_SummarizeFindings(t *testing.T) {
	client := &mockLLMClient{}
	client.On("ChatCompletionWithUsage", mock.Anything, "gpt-4o-mini", mock.MatchedBy(func(p string) bool {
		return strings.Contains(p, "Conclusion of Appraisal") && strings.Contains(p, "- Sample Size: 2")
	}), 512).Return(&ports.LLMResponse{
		Content: "  ## Conclusion of Appraisal\n\nPotentially Lethal.  ",
		Usage:   &ports.UsageData{PromptTokens: 300, CompletionTokens: 80, TotalTokens: 380, Model: "gpt-4o-mini", Provider: "openai"},
	}, nil)

	reporter := NewForensicReporter(client, testAIConfig(), "")
	records := ballistics.BuildRecords(ballistics.FromVelocities([]float64{125.4, 170}, ballistics.DefaultProjectile))

	ctx := WithAnalysisID(context.Background(), "analysis-1")
	text, err := reporter.SummarizeFindings(ctx, sampleVerdict(), ballistics.DefaultProjectile, records)
	require.NoError(t, err)

	assert.Equal(t, "## Conclusion of Appraisal\n\nPotentially Lethal.", text)
	usage := reporter.Usage()
	require.Len(t, usage, 1)
	assert.Equal(t, 380, usage[0].TotalTokens)
	assert.Equal(t, "analysis-1", usage[0].AnalysisID)
	client.AssertExpectations(t)
}

func TestForensicReporter_EmptyReply(t *testing.T) {
	client := &mockLLMClient{}
	client.On("ChatCompletionWithUsage", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(&ports.LLMResponse{Content: "   "}, nil)

	text, err := NewForensicReporter(client, testAIConfig(), "").
		SummarizeFindings(context.Background(), sampleVerdict(), ballistics.DefaultProjectile, nil)

	require.NoError(t, err)
	assert.Equal(t, EmptyReportText, text)
}

func TestForensicReporter_ProviderFailure(t *testing.T) {
	client := &mockLLMClient{}
	client.On("ChatCompletionWithUsage", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, stdErrors.New("503 service unavailable"))

	_, err := NewForensicReporter(client, testAIConfig(), "").
		SummarizeFindings(context.Background(), sampleVerdict(), ballistics.DefaultProjectile, nil)

	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.CodeExternalService))
	assert.Contains(t, err.Error(), "503")
}

func TestForensicReporter_MissingClient(t *testing.T) {
	_, err := NewForensicReporter(nil, nil, "").
		SummarizeFindings(context.Background(), sampleVerdict(), ballistics.DefaultProjectile, nil)

	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.CodeExternalService))
	assert.Contains(t, err.Error(), "API key is missing")
}

func TestForensicReporter_RateLimited(t *testing.T) {
	client := &mockLLMClient{}
	client.On("ChatCompletionWithUsage", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(&ports.LLMResponse{Content: "ok"}, nil).Once()

	cfg := testAIConfig()
	cfg.ReportsPerMinute = 1
	reporter := NewForensicReporter(client, cfg, "")

	_, err := reporter.SummarizeFindings(context.Background(), sampleVerdict(), ballistics.DefaultProjectile, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = reporter.SummarizeFindings(ctx, sampleVerdict(), ballistics.DefaultProjectile, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.CodeRateLimited))
	client.AssertNumberOfCalls(t, "ChatCompletionWithUsage", 1)
}

func TestForensicReporter_RecordsSpan(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder)))
	defer otel.SetTracerProvider(prev)

	client := &mockLLMClient{}
	client.On("ChatCompletionWithUsage", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(&ports.LLMResponse{Content: "ok", Usage: &ports.UsageData{TotalTokens: 42}}, nil)

	_, err := NewForensicReporter(client, testAIConfig(), "").
		SummarizeFindings(context.Background(), sampleVerdict(), ballistics.DefaultProjectile, nil)
	require.NoError(t, err)

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "ForensicReporter.SummarizeFindings", spans[0].Name())
	assert.Contains(t, spans[0].Attributes(), attribute.Int("llm.total_tokens", 42))
}
