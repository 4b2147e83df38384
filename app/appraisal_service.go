package app

import (
	"context"
	"time"

	"ballistix/ai"
	"ballistix/domain/ballistics"
	"ballistix/domain/core"
	"ballistix/domain/stats"
	"ballistix/domain/verdict"
	"ballistix/internal"
	"ballistix/internal/analysis"
	"ballistix/internal/errors"
	"ballistix/internal/metrics"
	"ballistix/internal/policy"
	"ballistix/internal/telemetry"
	"ballistix/ports"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// ReportFailureText replaces the narrative when the report generator fails
const ReportFailureText = "Error generating forensic report. Please check API configuration."

// AppraisalService orchestrates calculator, statistics, determination and report
type AppraisalService struct {
	engine        *analysis.StatisticalEngine
	reporter      ports.ReportGenerator // optional
	metrics       *metrics.Recorder     // optional
	threshold     float64
	reportTimeout time.Duration
	logger        *internal.Logger
}

// AppraisalOption configures an AppraisalService
type AppraisalOption func(*AppraisalService)

// WithReporter attaches a report generator
func WithReporter(r ports.ReportGenerator) AppraisalOption {
	return func(s *AppraisalService) { s.reporter = r }
}

// WithMetrics attaches a metrics recorder
func WithMetrics(m *metrics.Recorder) AppraisalOption {
	return func(s *AppraisalService) { s.metrics = m }
}

// WithReportTimeout bounds report generation; 0 means no bound
func WithReportTimeout(d time.Duration) AppraisalOption {
	return func(s *AppraisalService) { s.reportTimeout = d }
}

// WithLogger overrides the service logger
func WithLogger(l *internal.Logger) AppraisalOption {
	return func(s *AppraisalService) { s.logger = l.WithComponent("AppraisalService") }
}

// NewAppraisalService creates an appraisal service using the statutory threshold
func NewAppraisalService(engine *analysis.StatisticalEngine, opts ...AppraisalOption) *AppraisalService {
	if engine == nil {
		engine = analysis.NewStatisticalEngine()
	}
	s := &AppraisalService{
		engine:    engine,
		threshold: stats.LethalityThreshold,
		logger:    internal.DefaultLogger.WithComponent("AppraisalService"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AppraisalRequest is one batch of shots to appraise
type AppraisalRequest struct {
	Shots []ballistics.ShotInput
	// Params fills in shots that carry no diameter or weight of their own.
	// The zero value means ballistics.DefaultProjectile.
	Params     ballistics.ProjectileParams
	SkipReport bool
}

// AppraisalResult is the full outcome of an appraisal
type AppraisalResult struct {
	AnalysisID       core.AnalysisID             `json:"analysis_id"`
	Projectile       ballistics.ProjectileParams `json:"projectile"`
	MixedAmmunition  bool                        `json:"mixed_ammunition"`
	SectionalAreaCm2 float64                     `json:"sectional_area_cm2,omitempty"` // omitted for mixed ammunition
	InputFingerprint core.Hash                   `json:"input_fingerprint"`
	Records          []ballistics.ShotRecord     `json:"records"`
	Verdict          verdict.Verdict             `json:"verdict"`
	Report           string                      `json:"report,omitempty"`
	ReportFailed     bool                        `json:"report_failed"`
	CreatedAt        time.Time                   `json:"created_at"`
}

// Analyze appraises a batch. Invalid input fails the whole batch with an INVALID_INPUT
// error and nothing is computed. An empty batch succeeds with an insufficient-data
// verdict and no report. Report failures never fail the appraisal.
func (s *AppraisalService) Analyze(ctx context.Context, req AppraisalRequest) (*AppraisalResult, error) {
	ctx, span := telemetry.Tracer().Start(ctx, "AppraisalService.Analyze")
	defer span.End()

	params := req.Params
	if params == (ballistics.ProjectileParams{}) {
		params = ballistics.DefaultProjectile
	}
	if err := ballistics.ValidateParams(params); err != nil {
		s.rejectInput(span, err)
		return nil, err
	}

	inputs := req.Shots
	if err := ballistics.ValidateInputs(inputs); err != nil {
		s.rejectInput(span, err)
		s.logger.Debug("rejected batch of %d shots: %v", len(inputs), err)
		return nil, err
	}

	records := ballistics.BuildRecords(inputs)
	result := &AppraisalResult{
		AnalysisID:       core.NewAnalysisID(),
		Projectile:       params,
		MixedAmmunition:  ballistics.IsMixedAmmunition(records),
		InputFingerprint: ballistics.Fingerprint(records),
		Records:          records,
		CreatedAt:        time.Now().UTC(),
	}
	if !result.MixedAmmunition {
		diameter := params.DiameterMm
		if len(records) > 0 {
			diameter = records[0].DiameterMm
		}
		result.SectionalAreaCm2 = ballistics.SectionalAreaCm2(diameter)
	}

	a := s.engine.Analyze(records, s.threshold)
	result.Verdict = policy.Determine(a.Stats, a.Interval, a.Test, s.threshold)
	s.metrics.ObserveAnalysis(string(result.Verdict.Status), len(records), result.Verdict.Stats.MaxUnitEnergy)
	span.SetAttributes(
		attribute.String("ballistix.analysis_id", result.AnalysisID.String()),
		attribute.Int("ballistix.shots", len(records)),
		attribute.String("ballistix.status", string(result.Verdict.Status)),
		attribute.Bool("ballistix.is_lethal", result.Verdict.IsLethal),
		attribute.Float64("ballistix.max_unit_energy", result.Verdict.Stats.MaxUnitEnergy),
		attribute.Float64("ballistix.p_value", result.Verdict.Test.PValue),
	)

	s.logger.Info("analysis %s: %d shots, max %.2f J/cm², status=%s",
		result.AnalysisID, len(records), result.Verdict.Stats.MaxUnitEnergy, result.Verdict.Status)
	if result.Verdict.SignalsDisagree() {
		s.logger.Info("analysis %s: strict rule (%s) and t-test (%s) disagree",
			result.AnalysisID, result.Verdict.Status.Label(), result.Verdict.Test.Interpretation)
	}

	if !req.SkipReport && s.reporter != nil && result.Verdict.Determined() {
		result.Report, result.ReportFailed = s.generateReport(ctx, result)
		span.SetAttributes(attribute.Bool("ballistix.report_failed", result.ReportFailed))
	}

	return result, nil
}

// AnalyzeVelocities appraises single-ammo readings that share one projectile
func (s *AppraisalService) AnalyzeVelocities(ctx context.Context, velocities []float64, params ballistics.ProjectileParams, skipReport bool) (*AppraisalResult, error) {
	if params == (ballistics.ProjectileParams{}) {
		params = ballistics.DefaultProjectile
	}
	return s.Analyze(ctx, AppraisalRequest{
		Shots:      ballistics.FromVelocities(velocities, params),
		Params:     params,
		SkipReport: skipReport,
	})
}

// Threshold returns the lethality threshold in force
func (s *AppraisalService) Threshold() float64 {
	return s.threshold
}

func (s *AppraisalService) generateReport(ctx context.Context, result *AppraisalResult) (string, bool) {
	if s.reportTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.reportTimeout)
		defer cancel()
	}
	ctx = ai.WithAnalysisID(ctx, result.AnalysisID.String())

	start := time.Now()
	report, err := s.reporter.SummarizeFindings(ctx, result.Verdict, result.Projectile, result.Records)
	s.metrics.ObserveReport(err == nil, time.Since(start))
	if err != nil {
		s.logger.Warn("analysis %s: report unavailable (%s): %v", result.AnalysisID, errors.GetCode(err), err)
		return ReportFailureText, true
	}
	return report, false
}

func (s *AppraisalService) rejectInput(span trace.Span, err error) {
	s.metrics.ObserveInvalidInput()
	span.RecordError(err)
	span.SetStatus(codes.Error, "invalid input")
}
