package analysis

import (
	"math"

	"ballistix/domain/ballistics"
	domainStats "ballistix/domain/stats"
	"ballistix/internal/policy"

	"github.com/montanaflynn/stats"
)

// StatisticalEngine computes descriptive statistics, the 95% confidence interval
// and the one-sample t-test for a batch of shot records. It holds no state.
type StatisticalEngine struct{}

// NewStatisticalEngine creates a new statistical engine
func NewStatisticalEngine() *StatisticalEngine {
	return &StatisticalEngine{}
}

// Analysis bundles everything the engine derives from one batch
type Analysis struct {
	Stats    domainStats.DescriptiveStats     `json:"stats"`
	Interval domainStats.ConfidenceInterval   `json:"confidence_interval_95"`
	Test     domainStats.HypothesisTestResult `json:"statistical_test"`
}

// Analyze runs describe, interval and test over a complete snapshot of records
func (e *StatisticalEngine) Analyze(records []ballistics.ShotRecord, threshold float64) Analysis {
	d := e.Describe(records)
	if d.IsEmpty() {
		return Analysis{Stats: d, Test: domainStats.NoTest()}
	}
	return Analysis{
		Stats:    d,
		Interval: e.ConfidenceInterval95(d.MeanUnitEnergy, d.StdDevUnitEnergy, d.Count),
		Test:     e.OneSampleTTest(d.MeanUnitEnergy, d.StdDevUnitEnergy, d.Count, threshold),
	}
}

// Describe computes descriptive statistics over unit-area energy and velocity
func (e *StatisticalEngine) Describe(records []ballistics.ShotRecord) domainStats.DescriptiveStats {
	n := len(records)
	if n == 0 {
		return domainStats.DescriptiveStats{}
	}

	energies := ballistics.UnitAreaEnergies(records)
	velocities := ballistics.Velocities(records)

	meanVelocity, _ := stats.Mean(velocities)
	meanEnergy, _ := stats.Mean(energies)
	minEnergy, _ := stats.Min(energies)
	maxEnergy, _ := stats.Max(energies)

	stdDev := 0.0
	switch {
	case minEnergy == maxEnergy:
		// identical shots: pin the mean so summation rounding cannot fake a spread
		meanEnergy = minEnergy
	case n > 1:
		stdDev, _ = stats.StandardDeviationSample(energies)
	}

	return domainStats.DescriptiveStats{
		Count:            n,
		MeanVelocity:     meanVelocity,
		MeanUnitEnergy:   meanEnergy,
		StdDevUnitEnergy: stdDev,
		MinUnitEnergy:    minEnergy,
		MaxUnitEnergy:    maxEnergy,
	}
}

// ConfidenceInterval95 bounds the population mean at 95% confidence.
// The lower bound is clamped to 0 since unit-area energy cannot be negative.
func (e *StatisticalEngine) ConfidenceInterval95(mean, stdDev float64, n int) domainStats.ConfidenceInterval {
	if n <= 0 {
		return domainStats.ConfidenceInterval{}
	}
	tCritical := CriticalValue95(n - 1)
	standardError := stdDev / math.Sqrt(float64(n))
	margin := tCritical * standardError

	return domainStats.ConfidenceInterval{
		Lower: math.Max(0, mean-margin),
		Upper: mean + margin,
	}
}

// OneSampleTTest tests H0: mean <= threshold against H1: mean > threshold.
//
// A zero standard error yields t = 0, and df <= 0 yields the inconclusive p-value 0.5.
// See OneTailedPValue for the direction-insensitive tail.
func (e *StatisticalEngine) OneSampleTTest(mean, stdDev float64, n int, threshold float64) domainStats.HypothesisTestResult {
	if n <= 0 {
		return domainStats.NoTest()
	}

	standardError := stdDev / math.Sqrt(float64(n))
	tStatistic := 0.0
	if standardError > 0 {
		tStatistic = (mean - threshold) / standardError
	}

	df := n - 1
	pValue := domainStats.InconclusivePValue
	if df > 0 {
		pValue = OneTailedPValue(tStatistic, df)
	}

	return domainStats.HypothesisTestResult{
		TStatistic:       tStatistic,
		PValue:           pValue,
		DegreesOfFreedom: df,
		CriticalValue:    CriticalValue95(df),
		RejectNull:       pValue < domainStats.SignificanceLevel,
		Interpretation:   policy.Interpret(mean, threshold, pValue),
	}
}
