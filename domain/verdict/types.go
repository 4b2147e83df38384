package verdict

import (
	"math"

	"ballistix/domain/stats"
)

// Status is the headline a display layer should show for a verdict
type Status string

const (
	StatusLethal           Status = "lethal"
	StatusNonLethal        Status = "non_lethal"
	StatusInsufficientData Status = "insufficient_data"
)

// Label returns the banner text for the status
func (s Status) Label() string {
	switch s {
	case StatusLethal:
		return "POTENTIALLY LETHAL"
	case StatusNonLethal:
		return "NON-LETHAL"
	default:
		return "INSUFFICIENT DATA"
	}
}

// Verdict combines the strict lethality rule with the statistical evidence.
// IsLethal follows the strongest single shot and is deliberately independent of Test:
// the two signals may disagree and both are kept.
type Verdict struct {
	IsLethal  bool                       `json:"is_lethal"`
	Status    Status                     `json:"status"`
	Threshold float64                    `json:"threshold"`
	Stats     stats.DescriptiveStats     `json:"stats"`
	Interval  stats.ConfidenceInterval   `json:"confidence_interval_95"`
	Test      stats.HypothesisTestResult `json:"statistical_test"`
}

// Determined reports whether a verdict may be presented at all
func (v Verdict) Determined() bool {
	return v.Status != StatusInsufficientData
}

// SignalsDisagree reports whether the strict rule and the t-test point in different directions
func (v Verdict) SignalsDisagree() bool {
	if !v.Determined() {
		return false
	}
	statisticallyLethal := v.Test.Interpretation == stats.InterpretationLethal
	return v.IsLethal != statisticallyLethal
}

// Finite reports whether every number in the verdict can be presented (no NaN or ±Inf)
func (v Verdict) Finite() bool {
	for _, x := range []float64{
		v.Stats.MeanVelocity, v.Stats.MeanUnitEnergy, v.Stats.StdDevUnitEnergy,
		v.Stats.MinUnitEnergy, v.Stats.MaxUnitEnergy,
		v.Interval.Lower, v.Interval.Upper,
		v.Test.TStatistic, v.Test.PValue, v.Test.CriticalValue,
	} {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}
	return true
}
