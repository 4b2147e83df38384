package ai

import (
	"context"
	stdErrors "errors"
	"strings"
	"sync"
	"time"

	"ballistix/domain/ballistics"
	"ballistix/domain/verdict"
	"ballistix/internal"
	"ballistix/internal/errors"
	"ballistix/internal/telemetry"
	"ballistix/models"
	"ballistix/ports"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/time/rate"
)

// EmptyReportText is returned when the provider answers with no content
const EmptyReportText = "Unable to generate report."

const maxUsageRecords = 100

type analysisIDKey struct{}

// WithAnalysisID tags ctx so usage records can be traced back to an appraisal
func WithAnalysisID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, analysisIDKey{}, id)
}

func analysisIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(analysisIDKey{}).(string)
	return id
}

// ForensicReporter narrates a verdict as a formal "Conclusion of Appraisal"
type ForensicReporter struct {
	client  ports.LLMClient // nil when no API key is configured
	config  *models.AIConfig
	prompts *PromptManager
	limiter *rate.Limiter // nil when unlimited
	logger  *internal.Logger

	mu    sync.Mutex
	usage []*models.LLMUsage
}

var _ ports.ReportGenerator = (*ForensicReporter)(nil)

// NewForensicReporter creates a reporter. A nil client is allowed and makes every
// call fail with an external service error.
func NewForensicReporter(client ports.LLMClient, config *models.AIConfig, promptsDir string) *ForensicReporter {
	if config == nil {
		config = models.DefaultAIConfig()
	}
	return &ForensicReporter{
		client:  client,
		config:  config,
		prompts: NewPromptManager(promptsDir),
		limiter: newReportLimiter(config.ReportsPerMinute),
		logger:  internal.DefaultLogger.WithComponent("ForensicReporter"),
	}
}

// newReportLimiter spreads n calls per minute, allowing a burst of n
func newReportLimiter(perMinute int) *rate.Limiter {
	if perMinute <= 0 {
		return nil
	}
	return rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), perMinute)
}

// SummarizeFindings renders the appraisal prompt and asks the LLM for the narrative
func (r *ForensicReporter) SummarizeFindings(ctx context.Context, v verdict.Verdict, params ballistics.ProjectileParams, records []ballistics.ShotRecord) (string, error) {
	ctx, span := telemetry.Tracer().Start(ctx, "ForensicReporter.SummarizeFindings")
	defer span.End()
	span.SetAttributes(attribute.String("llm.model", r.config.OpenAIModel))

	if r.client == nil {
		err := errors.ExternalServiceError("llm", stdErrors.New("API key is missing"))
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}

	prompt, err := r.prompts.RenderPrompt(AppraisalPromptName, CompileAppraisalFragments(v, params, records))
	if err != nil {
		return "", errors.Wrap(err, "failed to render appraisal prompt")
	}

	if r.limiter != nil {
		if err := r.limiter.Wait(ctx); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "rate limited")
			return "", errors.RateLimited("llm", err)
		}
	}

	start := time.Now()
	resp, err := r.client.ChatCompletionWithUsage(ctx, r.config.OpenAIModel, prompt, r.config.MaxTokens)
	if err != nil {
		r.logger.Warn("report generation failed after %s: %v", time.Since(start).Round(time.Millisecond), err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "provider error")
		return "", errors.ExternalServiceError("llm", err)
	}

	if resp.Usage != nil {
		r.recordUsage(analysisIDFrom(ctx), resp.Usage, time.Since(start))
		span.SetAttributes(attribute.Int("llm.total_tokens", resp.Usage.TotalTokens))
	}

	text := strings.TrimSpace(resp.Content)
	if text == "" {
		return EmptyReportText, nil
	}
	return text, nil
}

// Usage returns the token usage of the most recent successful calls
func (r *ForensicReporter) Usage() []*models.LLMUsage {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*models.LLMUsage, len(r.usage))
	copy(out, r.usage)
	return out
}

func (r *ForensicReporter) recordUsage(analysisID string, u *ports.UsageData, elapsed time.Duration) {
	record := models.NewLLMUsage(analysisID, u.Provider, u.Model, u.PromptTokens, u.CompletionTokens, u.TotalTokens, elapsed)
	r.logger.Info("report generated model=%s tokens=%d in %s", record.Model, record.TotalTokens, elapsed.Round(time.Millisecond))

	r.mu.Lock()
	r.usage = append(r.usage, record)
	if len(r.usage) > maxUsageRecords {
		r.usage = r.usage[len(r.usage)-maxUsageRecords:]
	}
	r.mu.Unlock()
}
