package ai

import (
	"fmt"
	"strconv"
	"strings"

	"ballistix/domain/ballistics"
	"ballistix/domain/verdict"
)

// AppraisalPromptName is the template used for forensic reports
const AppraisalPromptName = "forensic_appraisal"

// CompileAppraisalFragments converts a verdict and its shots into the placeholder
// values of the appraisal template. Numbers use fixed precision so the narrative
// quotes the same figures the verdict shows.
func CompileAppraisalFragments(v verdict.Verdict, params ballistics.ProjectileParams, records []ballistics.ShotRecord) map[string]string {
	rejectNull := "NO"
	if v.Test.RejectNull {
		rejectNull = "YES"
	}

	return map[string]string{
		"THRESHOLD":      formatNumber(v.Threshold),
		"PARAMETERS":     parameterSection(params, records),
		"SHOT_LINES":     shotLines(records),
		"COUNT":          strconv.Itoa(v.Stats.Count),
		"MEAN":           fmt.Sprintf("%.2f", v.Stats.MeanUnitEnergy),
		"MAX":            fmt.Sprintf("%.2f", v.Stats.MaxUnitEnergy),
		"STD_DEV":        fmt.Sprintf("%.3f", v.Stats.StdDevUnitEnergy),
		"CI_LOWER":       fmt.Sprintf("%.2f", v.Interval.Lower),
		"CI_UPPER":       fmt.Sprintf("%.2f", v.Interval.Upper),
		"T_STATISTIC":    fmt.Sprintf("%.3f", v.Test.TStatistic),
		"P_VALUE":        fmt.Sprintf("%.4f", v.Test.PValue),
		"INTERPRETATION": string(v.Test.Interpretation),
		"REJECT_NULL":    rejectNull,
	}
}

// BuildAppraisalPrompt renders the appraisal prompt with the built-in template
func BuildAppraisalPrompt(v verdict.Verdict, params ballistics.ProjectileParams, records []ballistics.ShotRecord) string {
	prompt, err := NewPromptManager("").RenderPrompt(AppraisalPromptName, CompileAppraisalFragments(v, params, records))
	if err != nil {
		// built-in template is embedded; reaching here means the binary is broken
		panic(err)
	}
	return prompt
}

func parameterSection(params ballistics.ProjectileParams, records []ballistics.ShotRecord) string {
	if ballistics.IsMixedAmmunition(records) {
		return fmt.Sprintf("Test Parameters: Mixed Ammunition Used\n- Projectile Weights: %s g\n- Projectile Diameters: %s mm",
			joinNumbers(ballistics.DistinctWeights(records)),
			joinNumbers(ballistics.DistinctDiameters(records)))
	}

	diameter, weight := params.DiameterMm, params.WeightGrams
	if len(records) > 0 {
		diameter, weight = records[0].DiameterMm, records[0].WeightGrams
	}
	return fmt.Sprintf("Test Parameters:\n- Projectile Diameter: %s mm\n- Projectile Weight: %s g",
		formatNumber(diameter), formatNumber(weight))
}

func shotLines(records []ballistics.ShotRecord) string {
	lines := make([]string, 0, len(records))
	for i, r := range records {
		lines = append(lines, fmt.Sprintf("Shot %d (%sg, %smm): %.2f J/cm²",
			i+1, formatNumber(r.WeightGrams), formatNumber(r.DiameterMm), r.UnitAreaEnergy))
	}
	return strings.Join(lines, "\n")
}

func joinNumbers(values []float64) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = formatNumber(v)
	}
	return strings.Join(parts, ", ")
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
