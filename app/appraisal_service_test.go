package app

import (
	"context"
	stdErrors "errors"
	"math"
	"testing"
	"time"

	"ballistix/domain/ballistics"
	"ballistix/domain/stats"
	"ballistix/domain/verdict"
	"ballistix/internal/errors"
	"ballistix/internal/metrics"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

type stubReporter struct {
	text  string
	err   error
	delay time.Duration
	calls int
	seen  verdict.Verdict
}

func (r *stubReporter) SummarizeFindings(ctx context.Context, v verdict.Verdict, params ballistics.ProjectileParams, records []ballistics.ShotRecord) (string, error) {
	r.calls++
	r.seen = v
	if r.delay > 0 {
		select {
		case <-time.After(r.delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return r.text, r.err
}

func velocityFor(unitEnergy float64) float64 {
	p := ballistics.DefaultProjectile
	area := ballistics.SectionalAreaCm2(p.DiameterMm)
	return math.Sqrt(2 * unitEnergy * area / (p.WeightGrams / 1000))
}

func velocitiesAt(energies ...float64) []float64 {
	out := make([]float64, len(energies))
	for i, e := range energies {
		out[i] = velocityFor(e)
	}
	return out
}

func TestAnalyzeVelocities_SampleDataIsNonLethal(t *testing.T) {
	reporter := &stubReporter{text: "## Conclusion of Appraisal"}
	svc := NewAppraisalService(nil, WithReporter(reporter))

	sample := []float64{125.4, 126.1, 124.8, 125.9, 127.2, 126.5, 125.0, 124.5, 126.8, 125.5}
	result, err := svc.AnalyzeVelocities(context.Background(), sample, ballistics.ProjectileParams{}, false)
	require.NoError(t, err)

	assert.Len(t, result.Records, 10)
	assert.Equal(t, ballistics.DefaultProjectile, result.Projectile)
	assert.False(t, result.MixedAmmunition)
	assert.InDelta(t, 0.2827, result.SectionalAreaCm2, 1e-4)
	assert.False(t, result.Verdict.IsLethal)
	assert.Equal(t, verdict.StatusNonLethal, result.Verdict.Status)
	assert.Equal(t, stats.InterpretationSafe, result.Verdict.Test.Interpretation)
	assert.Equal(t, "## Conclusion of Appraisal", result.Report)
	assert.False(t, result.ReportFailed)
	assert.Equal(t, 1, reporter.calls)
	assert.False(t, result.AnalysisID.String() == "")

	again, err := svc.AnalyzeVelocities(context.Background(), sample, ballistics.DefaultProjectile, true)
	require.NoError(t, err)
	assert.Equal(t, result.InputFingerprint, again.InputFingerprint)
	assert.NotEqual(t, result.AnalysisID, again.AnalysisID)
}

func TestAnalyze_StrictRuleWinsOverSafeStatistics(t *testing.T) {
	svc := NewAppraisalService(nil)

	energies := []float64{5, 5.1, 4.9, 5, 5.2, 4.8, 5, 5.1, 4.9, 21}
	result, err := svc.AnalyzeVelocities(context.Background(), velocitiesAt(energies...), ballistics.DefaultProjectile, true)
	require.NoError(t, err)

	assert.True(t, result.Verdict.IsLethal)
	assert.Equal(t, verdict.StatusLethal, result.Verdict.Status)
	assert.Equal(t, stats.InterpretationSafe, result.Verdict.Test.Interpretation)
	assert.True(t, result.Verdict.SignalsDisagree())
}

func TestAnalyze_ThresholdIsInclusive(t *testing.T) {
	svc := NewAppraisalService(nil)

	result, err := svc.AnalyzeVelocities(context.Background(), velocitiesAt(15, 20.0000001), ballistics.DefaultProjectile, true)
	require.NoError(t, err)
	assert.True(t, result.Verdict.IsLethal)
}

func TestAnalyze_EmptyBatch(t *testing.T) {
	reporter := &stubReporter{text: "should not be called"}
	svc := NewAppraisalService(nil, WithReporter(reporter))

	result, err := svc.Analyze(context.Background(), AppraisalRequest{})
	require.NoError(t, err)

	assert.Empty(t, result.Records)
	assert.Equal(t, verdict.StatusInsufficientData, result.Verdict.Status)
	assert.False(t, result.Verdict.IsLethal)
	assert.Equal(t, stats.InconclusivePValue, result.Verdict.Test.PValue)
	assert.Equal(t, "", result.Report)
	assert.Equal(t, 0, reporter.calls)
}

func TestAnalyze_InvalidInputRejectsWholeBatch(t *testing.T) {
	recorder := metrics.NewRecorder()
	reporter := &stubReporter{}
	svc := NewAppraisalService(nil, WithReporter(reporter), WithMetrics(recorder))

	_, err := svc.Analyze(context.Background(), AppraisalRequest{Shots: []ballistics.ShotInput{
		{Velocity: 120, DiameterMm: 6, WeightGrams: 0.2},
		{Velocity: -3, DiameterMm: 6, WeightGrams: 0.2},
	}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.CodeInvalidInput))
	assert.Contains(t, err.Error(), "shot 2")
	assert.Equal(t, 0, reporter.calls)

	_, err = svc.Analyze(context.Background(), AppraisalRequest{Shots: []ballistics.ShotInput{{Velocity: math.NaN(), DiameterMm: 6, WeightGrams: 0.2}}})
	assert.True(t, errors.Is(err, errors.CodeInvalidInput))

	_, err = svc.Analyze(context.Background(), AppraisalRequest{Shots: []ballistics.ShotInput{{Velocity: 1e200, DiameterMm: 6, WeightGrams: 0.2}}})
	assert.True(t, errors.Is(err, errors.CodeInvalidInput))
	assert.Contains(t, err.Error(), "Velocity must be at most")

	_, err = svc.AnalyzeVelocities(context.Background(), []float64{120}, ballistics.ProjectileParams{DiameterMm: -6, WeightGrams: 0.2}, true)
	assert.True(t, errors.Is(err, errors.CodeInvalidInput))
}

func TestAnalyze_MixedAmmunition(t *testing.T) {
	svc := NewAppraisalService(nil)

	heavy, small, pellet := 0.28, 4.5, 0.53
	shots := ballistics.ResolveEntries([]ballistics.ShotEntry{
		{Velocity: 120, WeightGrams: &heavy},
		{Velocity: 121},
		{Velocity: 110, DiameterMm: &small, WeightGrams: &pellet},
	}, ballistics.DefaultProjectile)

	result, err := svc.Analyze(context.Background(), AppraisalRequest{Shots: shots, SkipReport: true})
	require.NoError(t, err)

	assert.True(t, result.MixedAmmunition)
	assert.Zero(t, result.SectionalAreaCm2)
	assert.Equal(t, 0.28, result.Records[0].WeightGrams)
	assert.Equal(t, 6.0, result.Records[1].DiameterMm)
	assert.Equal(t, 4.5, result.Records[2].DiameterMm)
	assert.Equal(t, 3, result.Records[2].SequenceIndex)
}

func TestAnalyze_ExplicitZeroDiameterIsInvalid(t *testing.T) {
	svc := NewAppraisalService(nil)
	zero := 0.0
	shots := ballistics.ResolveEntries([]ballistics.ShotEntry{
		{Velocity: 120},
		{Velocity: 121, DiameterMm: &zero},
	}, ballistics.DefaultProjectile)

	_, err := svc.Analyze(context.Background(), AppraisalRequest{Shots: shots, SkipReport: true})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.CodeInvalidInput))
	assert.Contains(t, err.Error(), "shot 2")
}

func TestAnalyze_LargeBatchStaysFinite(t *testing.T) {
	energies := make([]float64, 2000)
	for i := range energies {
		energies[i] = 24 + float64(i%7)
	}
	result, err := NewAppraisalService(nil).AnalyzeVelocities(context.Background(), velocitiesAt(energies...), ballistics.DefaultProjectile, true)
	require.NoError(t, err)

	assert.False(t, math.IsNaN(result.Verdict.Test.PValue))
	assert.True(t, result.Verdict.Test.RejectNull)
	assert.Equal(t, stats.InterpretationLethal, result.Verdict.Test.Interpretation)
}

func TestAnalyze_ReportFailureKeepsVerdict(t *testing.T) {
	recorder := metrics.NewRecorder()
	reporter := &stubReporter{err: stdErrors.New("provider down")}
	svc := NewAppraisalService(nil, WithReporter(reporter), WithMetrics(recorder))

	result, err := svc.AnalyzeVelocities(context.Background(), velocitiesAt(25, 26, 27), ballistics.DefaultProjectile, false)
	require.NoError(t, err)

	assert.True(t, result.Verdict.IsLethal)
	assert.True(t, result.ReportFailed)
	assert.Equal(t, ReportFailureText, result.Report)
	count, err := testutil.GatherAndCount(recorder.Registry(), "ballistix_reports_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestAnalyze_ReportTimeout(t *testing.T) {
	reporter := &stubReporter{text: "late", delay: time.Second}
	svc := NewAppraisalService(nil, WithReporter(reporter), WithReportTimeout(10*time.Millisecond))

	result, err := svc.AnalyzeVelocities(context.Background(), velocitiesAt(10, 11), ballistics.DefaultProjectile, false)
	require.NoError(t, err)

	assert.True(t, result.ReportFailed)
	assert.Equal(t, ReportFailureText, result.Report)
}

func TestAnalyze_ReporterSeesFinalVerdict(t *testing.T) {
	reporter := &stubReporter{text: "ok"}
	svc := NewAppraisalService(nil, WithReporter(reporter))

	result, err := svc.AnalyzeVelocities(context.Background(), velocitiesAt(19, 19.5, 21), ballistics.DefaultProjectile, false)
	require.NoError(t, err)
	assert.Equal(t, result.Verdict, reporter.seen)
}

func TestAnalyze_RecordsSpan(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder)))
	defer otel.SetTracerProvider(prev)

	svc := NewAppraisalService(nil)
	_, err := svc.AnalyzeVelocities(context.Background(), velocitiesAt(25), ballistics.DefaultProjectile, true)
	require.NoError(t, err)

	_, err = svc.AnalyzeVelocities(context.Background(), []float64{-5}, ballistics.DefaultProjectile, true)
	require.Error(t, err)

	spans := recorder.Ended()
	require.Len(t, spans, 2)
	assert.Equal(t, "AppraisalService.Analyze", spans[0].Name())
	assert.Contains(t, spans[0].Attributes(), attribute.String("ballistix.status", string(verdict.StatusLethal)))
	assert.Contains(t, spans[0].Attributes(), attribute.Bool("ballistix.is_lethal", true))
	assert.Equal(t, codes.Error, spans[1].Status().Code)
}
