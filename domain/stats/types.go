package stats

// LethalityThreshold is the statutory kinetic energy per unit area (J/cm²)
// at or above which a projectile weapon is deemed capable of inflicting injury.
const LethalityThreshold = 20.0

// SignificanceLevel is the alpha used for the one-sample t-test
const SignificanceLevel = 0.05

// InconclusivePValue is reported whenever no test can be carried out
const InconclusivePValue = 0.5

// DescriptiveStats summarizes a batch of shot records.
// INVARIANT: Count equals the number of records; Count == 0 implies every other field is zero.
type DescriptiveStats struct {
	Count            int     `json:"count"`
	MeanVelocity     float64 `json:"mean_velocity"`
	MeanUnitEnergy   float64 `json:"mean_unit_energy"`
	StdDevUnitEnergy float64 `json:"std_dev_unit_energy"` // sample (Bessel-corrected)
	MinUnitEnergy    float64 `json:"min_unit_energy"`
	MaxUnitEnergy    float64 `json:"max_unit_energy"`
}

// IsEmpty reports whether the batch had no shots
func (d DescriptiveStats) IsEmpty() bool {
	return d.Count == 0
}

// ConfidenceInterval bounds the population mean unit energy at 95% confidence
type ConfidenceInterval struct {
	Lower float64 `json:"lower"` // clamped to 0
	Upper float64 `json:"upper"`
}

// Width returns Upper - Lower
func (ci ConfidenceInterval) Width() float64 {
	return ci.Upper - ci.Lower
}

// Interpretation is the categorical reading of the t-test against the threshold
type Interpretation string

const (
	InterpretationLethal              Interpretation = "Statistically Significant: Lethal (Reject H₀)"
	InterpretationAboveNotSignificant Interpretation = "Above Threshold but Not Statistically Significant"
	InterpretationSafe                Interpretation = "Statistically Significant: Safe/Non-Lethal"
	InterpretationWithinMargin        Interpretation = "Below Threshold (Within Margin of Error)"
	InterpretationInsufficientData    Interpretation = "Insufficient data"
)

// HypothesisTestResult is the outcome of the one-sample t-test
// H0: population mean <= threshold, H1: population mean > threshold.
type HypothesisTestResult struct {
	TStatistic       float64        `json:"t_statistic"`
	PValue           float64        `json:"p_value"` // one-tailed, in [0, 0.5]
	DegreesOfFreedom int            `json:"degrees_of_freedom"`
	CriticalValue    float64        `json:"critical_value"`
	RejectNull       bool           `json:"reject_null"`
	Interpretation   Interpretation `json:"interpretation"`
}

// NoTest is the result reported when the batch is empty
func NoTest() HypothesisTestResult {
	return HypothesisTestResult{
		PValue:         InconclusivePValue,
		Interpretation: InterpretationInsufficientData,
	}
}
