package ai

import (
	"strings"
	"testing"

	"ballistix/domain/ballistics"
	"ballistix/domain/stats"
	"ballistix/domain/verdict"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleVerdict() verdict.Verdict {
	return verdict.Verdict{
		IsLethal:  true,
		Status:    verdict.StatusLethal,
		Threshold: stats.LethalityThreshold,
		Stats: stats.DescriptiveStats{
			Count:            2,
			MeanUnitEnergy:   19.456,
			MaxUnitEnergy:    21.004,
			StdDevUnitEnergy: 2.18921,
		},
		Interval: stats.ConfidenceInterval{Lower: 0, Upper: 41.2},
		Test: stats.HypothesisTestResult{
			TStatistic:       -0.3512,
			PValue:           0.39281,
			DegreesOfFreedom: 1,
			Interpretation:   stats.InterpretationWithinMargin,
		},
	}
}

func TestBuildAppraisalPrompt_SingleAmmunition(t *testing.T) {
	params := ballistics.ProjectileParams{DiameterMm: 6, WeightGrams: 0.2}
	records := ballistics.BuildRecords(ballistics.FromVelocities([]float64{125.4, 170}, params))

	prompt := BuildAppraisalPrompt(sampleVerdict(), params, records)

	for _, want := range []string{
		`"Conclusion of Appraisal"`,
		"reaches 20 J/cm²",
		"- Projectile Diameter: 6 mm",
		"- Projectile Weight: 0.2 g",
		"Shot 1 (0.2g, 6mm): " + strings.TrimSpace(formatFixed2(records[0].UnitAreaEnergy)) + " J/cm²",
		"- Sample Size: 2",
		"- Mean: 19.46 J/cm²",
		"- Max: 21.00 J/cm²",
		"- Standard Deviation: 2.189",
		"- T-Statistic: -0.351",
		"- P-Value: 0.3928",
		"- Conclusion: " + string(stats.InterpretationWithinMargin),
		"(H0: <= 20): NO",
		"under 200 words",
	} {
		assert.Contains(t, prompt, want)
	}
	assert.NotContains(t, prompt, "Mixed Ammunition")
	assert.NotContains(t, prompt, "{", "every placeholder must be filled")
}

func TestBuildAppraisalPrompt_MixedAmmunition(t *testing.T) {
	records := ballistics.BuildRecords([]ballistics.ShotInput{
		{Velocity: 120, DiameterMm: 6, WeightGrams: 0.28},
		{Velocity: 121, DiameterMm: 6, WeightGrams: 0.2},
		{Velocity: 119, DiameterMm: 4.5, WeightGrams: 0.2},
	})

	prompt := BuildAppraisalPrompt(sampleVerdict(), ballistics.DefaultProjectile, records)

	assert.Contains(t, prompt, "Test Parameters: Mixed Ammunition Used")
	assert.Contains(t, prompt, "- Projectile Weights: 0.2, 0.28 g")
	assert.Contains(t, prompt, "- Projectile Diameters: 4.5, 6 mm")
	assert.Contains(t, prompt, "Shot 3 (0.2g, 4.5mm)")
}

func TestCompileAppraisalFragments_RejectNull(t *testing.T) {
	v := sampleVerdict()
	v.Test.RejectNull = true

	fragments := CompileAppraisalFragments(v, ballistics.DefaultProjectile, nil)

	assert.Equal(t, "YES", fragments["REJECT_NULL"])
	assert.Equal(t, "", fragments["SHOT_LINES"])
	assert.Equal(t, "20", fragments["THRESHOLD"])
}

func TestPromptManager_DirectoryOverride(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, writeFile(dir, AppraisalPromptName+".txt", "count={COUNT}"))

	out, err := NewPromptManager(dir).RenderPrompt(AppraisalPromptName, map[string]string{"COUNT": "7"})
	require.NoError(t, err)
	assert.Equal(t, "count=7", out)

	// names missing from the directory fall back to the built-in set
	_, err = NewPromptManager(dir).LoadPrompt("does_not_exist")
	assert.ErrorContains(t, err, "prompt template not found")
}
