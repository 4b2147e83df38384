package policy

import (
	"ballistix/domain/stats"
	"ballistix/domain/verdict"
)

// Interpret assigns the categorical reading of a t-test. First match wins:
//
//	mean >  threshold, p <  alpha  -> lethal (reject H0)
//	mean >  threshold, p >= alpha  -> above threshold, not significant
//	mean <= threshold, p <  alpha  -> safe/non-lethal
//	mean <= threshold, p >= alpha  -> below threshold, within margin of error
func Interpret(mean, threshold, pValue float64) stats.Interpretation {
	significant := pValue < stats.SignificanceLevel
	if mean > threshold {
		if significant {
			return stats.InterpretationLethal
		}
		return stats.InterpretationAboveNotSignificant
	}
	if significant {
		return stats.InterpretationSafe
	}
	return stats.InterpretationWithinMargin
}

// IsLethal is the strict forensic rule: one shot at or above the threshold is enough.
// The boundary is inclusive.
func IsLethal(maxUnitEnergy, threshold float64) bool {
	return maxUnitEnergy >= threshold
}

// Determine assembles the verdict for a batch. An empty batch yields
// StatusInsufficientData and IsLethal false; callers must not present it as non-lethal.
func Determine(d stats.DescriptiveStats, ci stats.ConfidenceInterval, test stats.HypothesisTestResult, threshold float64) verdict.Verdict {
	v := verdict.Verdict{
		Threshold: threshold,
		Stats:     d,
		Interval:  ci,
		Test:      test,
	}

	if d.IsEmpty() {
		v.Status = verdict.StatusInsufficientData
		v.Test = stats.NoTest()
		return v
	}

	v.IsLethal = IsLethal(d.MaxUnitEnergy, threshold)
	if v.IsLethal {
		v.Status = verdict.StatusLethal
	} else {
		v.Status = verdict.StatusNonLethal
	}
	return v
}
