package container

import (
	"fmt"

	"ballistix/adapters/llm"
	"ballistix/ai"
	"ballistix/app"
	"ballistix/internal"
	"ballistix/internal/analysis"
	"ballistix/internal/config"
	"ballistix/internal/metrics"
	"ballistix/models"
	"ballistix/ports"
)

// Container holds all application dependencies
type Container struct {
	Config *config.Config
	Logger *internal.Logger

	// Infrastructure
	Metrics   *metrics.Recorder // nil when metrics are disabled
	Presets   *config.PresetStore
	LLMClient ports.LLMClient // nil when no API key is configured

	// Services
	Reporter *ai.ForensicReporter
	Service  *app.AppraisalService
}

// Option customises container construction, mainly for tests
type Option func(*Container)

// WithLLMClient replaces the provider client
func WithLLMClient(client ports.LLMClient) Option {
	return func(c *Container) { c.LLMClient = client }
}

// New creates a new dependency injection container
func New(cfg *config.Config, opts ...Option) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	c := &Container{
		Config: cfg,
		Logger: internal.NewLogger(internal.ParseLogLevel(cfg.Logging.Level)),
	}
	internal.DefaultLogger = c.Logger

	presets, err := config.NewPresetStore(cfg.Analysis.PresetsFile)
	if err != nil {
		return nil, err
	}
	c.Presets = presets

	if cfg.Metrics.Enabled {
		c.Metrics = metrics.NewRecorder()
	}

	aiConfig := c.aiConfig()
	if cfg.ReportsEnabled() {
		client, err := llm.NewClient(llm.ConfigFromAI(aiConfig))
		if err != nil {
			return nil, fmt.Errorf("failed to create LLM client: %w", err)
		}
		c.LLMClient = client
	} else {
		c.Logger.Warn("OPENAI_API_KEY not set: forensic reports will be unavailable")
	}

	for _, opt := range opts {
		opt(c)
	}

	c.Reporter = ai.NewForensicReporter(c.LLMClient, aiConfig, cfg.AI.PromptsDir)
	c.Service = app.NewAppraisalService(
		analysis.NewStatisticalEngine(),
		app.WithReporter(c.Reporter),
		app.WithMetrics(c.Metrics),
		app.WithReportTimeout(cfg.AI.ReportTimeout),
		app.WithLogger(c.Logger),
	)

	return c, nil
}

func (c *Container) aiConfig() *models.AIConfig {
	ai := c.Config.AI
	return &models.AIConfig{
		OpenAIKey:     ai.OpenAIKey,
		OpenAIModel:   ai.OpenAIModel,
		BaseURL:       ai.BaseURL,
		SystemContext: ai.SystemContext,
		MaxTokens:     ai.MaxTokens,
		Temperature:   ai.Temperature,
		ReportTimeout: ai.ReportTimeout,

		ReportsPerMinute: ai.ReportsPerMinute,
	}
}
