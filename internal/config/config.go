package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"ballistix/domain/stats"
	"ballistix/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	AI       AIConfig
	Server   ServerConfig
	Analysis AnalysisConfig
	Metrics  MetricsConfig
	Logging  LoggingConfig
	Tracing  TracingConfig
}

// AIConfig holds settings for the report generator's LLM provider.
// An empty OpenAIKey is allowed: reports then degrade to a placeholder.
type AIConfig struct {
	OpenAIKey     string
	OpenAIModel   string
	BaseURL       string
	SystemContext string
	MaxTokens     int
	Temperature   float64
	ReportTimeout time.Duration // 0 means no caller-imposed timeout
	PromptsDir    string        // optional override for the built-in prompt templates
	// ReportsPerMinute caps outbound report requests; 0 disables the limit.
	ReportsPerMinute int
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port    string
	GinMode string
}

// AnalysisConfig holds settings for the appraisal itself
type AnalysisConfig struct {
	Threshold   float64
	PresetsFile string
}

// MetricsConfig holds Prometheus exposition settings
type MetricsConfig struct {
	Enabled bool
}

// TracingConfig selects the OpenTelemetry span exporter
type TracingConfig struct {
	Exporter     string // none, stdout or otlp
	OTLPEndpoint string
	OTLPInsecure bool
}

// LoggingConfig holds log verbosity
type LoggingConfig struct {
	Level string
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		AI:       *loadAIConfig(),
		Server:   *loadServerConfig(),
		Analysis: *loadAnalysisConfig(),
		Metrics:  *loadMetricsConfig(),
		Logging:  LoggingConfig{Level: getEnvOrDefault("LOG_LEVEL", "INFO")},
		Tracing:  *loadTracingConfig(),
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func loadAIConfig() *AIConfig {
	return &AIConfig{
		OpenAIKey:     strings.TrimSpace(os.Getenv("OPENAI_API_KEY")),
		OpenAIModel:   getEnvOrDefault("LLM_MODEL", "gpt-4o-mini"),
		BaseURL:       getEnvOrDefault("LLM_BASE_URL", ""),
		SystemContext: "You are a professional forensic ballistics expert acting as a witness for the court.",
		MaxTokens:     getEnvIntOrDefault("MAX_TOKENS", 1024),
		Temperature:   getEnvFloatOrDefault("TEMPERATURE", 0.2),
		ReportTimeout: getEnvDurationOrDefault("REPORT_TIMEOUT", 0),
		PromptsDir:    getEnvOrDefault("PROMPTS_DIR", ""),

		ReportsPerMinute: getEnvIntOrDefault("REPORT_RATE_PER_MIN", 30),
	}
}

func loadServerConfig() *ServerConfig {
	return &ServerConfig{
		Port:    getEnvOrDefault("PORT", "8080"),
		GinMode: getEnvOrDefault("GIN_MODE", "release"),
	}
}

func loadAnalysisConfig() *AnalysisConfig {
	return &AnalysisConfig{
		Threshold:   getEnvFloatOrDefault("LETHALITY_THRESHOLD", stats.LethalityThreshold),
		PresetsFile: getEnvOrDefault("PRESETS_FILE", ""),
	}
}

func loadMetricsConfig() *MetricsConfig {
	return &MetricsConfig{
		Enabled: getEnvBoolOrDefault("METRICS_ENABLED", true),
	}
}

func loadTracingConfig() *TracingConfig {
	return &TracingConfig{
		Exporter:     strings.ToLower(getEnvOrDefault("TRACES_EXPORTER", "none")),
		OTLPEndpoint: getEnvOrDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
		OTLPInsecure: getEnvBoolOrDefault("OTEL_EXPORTER_OTLP_INSECURE", true),
	}
}

func validateConfig(config *Config) error {
	if config.Analysis.Threshold != stats.LethalityThreshold {
		return errors.ConfigInvalid("LETHALITY_THRESHOLD is statutory and fixed at 20 J/cm²")
	}
	if config.Server.Port == "" {
		return errors.ConfigInvalid("server port is required")
	}
	if config.AI.MaxTokens <= 0 {
		return errors.ConfigInvalid("MAX_TOKENS must be positive")
	}
	if config.AI.Temperature < 0 || config.AI.Temperature > 2 {
		return errors.ConfigInvalid("TEMPERATURE must be within [0, 2]")
	}
	if config.AI.ReportsPerMinute < 0 {
		return errors.ConfigInvalid("REPORT_RATE_PER_MIN cannot be negative")
	}
	switch config.Tracing.Exporter {
	case "none", "stdout", "otlp":
	default:
		return errors.ConfigInvalid("TRACES_EXPORTER must be one of none, stdout, otlp")
	}
	if config.AI.ReportTimeout < 0 {
		return errors.ConfigInvalid("REPORT_TIMEOUT cannot be negative")
	}
	return nil
}

// ReportsEnabled reports whether an LLM credential is configured
func (c *Config) ReportsEnabled() bool {
	return c.AI.OpenAIKey != ""
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
