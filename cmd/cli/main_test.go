package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"ballistix/adapters/llm"
	"ballistix/app"
	"ballistix/domain/verdict"
	"ballistix/internal/config"
	"ballistix/internal/container"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLoader(t *testing.T, client *llm.MockLLMClient) containerLoader {
	t.Helper()
	cfg := &config.Config{
		AI:       config.AIConfig{OpenAIModel: "gpt-4o-mini", MaxTokens: 256, Temperature: 0.2},
		Server:   config.ServerConfig{Port: "0"},
		Analysis: config.AnalysisConfig{Threshold: 20},
		Logging:  config.LoggingConfig{Level: "ERROR"},
	}
	return func() (*container.Container, error) {
		if client == nil {
			return container.New(cfg)
		}
		return container.New(cfg, container.WithLLMClient(client))
	}
}

func run(t *testing.T, load containerLoader, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd(load)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestVelocities_Demo(t *testing.T) {
	out, err := run(t, testLoader(t, nil), "velocities", "--demo")
	require.NoError(t, err)

	assert.Contains(t, out, "Verdict: NON-LETHAL")
	assert.Contains(t, out, "Shots: 10")
	assert.Contains(t, out, "Statistically Significant: Safe/Non-Lethal")
}

func TestVelocities_JSONWithFlags(t *testing.T) {
	out, err := run(t, testLoader(t, nil), "velocities", "300", "310", "--diameter", "4.5", "--weight", "0.53", "--json")
	require.NoError(t, err)

	var result app.AppraisalResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.Equal(t, 4.5, result.Projectile.DiameterMm)
	assert.Equal(t, verdict.StatusLethal, result.Verdict.Status)
	assert.True(t, result.Verdict.IsLethal)
}

func TestVelocities_Report(t *testing.T) {
	mock := &llm.MockLLMClient{Response: "## Conclusion of Appraisal\n\nNon-lethal."}
	out, err := run(t, testLoader(t, mock), "velocities", "125.4", "126.1", "--report")
	require.NoError(t, err)

	assert.Contains(t, out, "## Conclusion of Appraisal")
	assert.Equal(t, 1, mock.Calls)
}

func TestVelocities_Errors(t *testing.T) {
	_, err := run(t, testLoader(t, nil), "velocities")
	assert.ErrorContains(t, err, "at least one velocity")

	_, err = run(t, testLoader(t, nil), "velocities", "125", "abc")
	assert.ErrorContains(t, err, `"abc" is not a number`)

	_, err = run(t, testLoader(t, nil), "velocities", "125", "--preset", "cannon")
	assert.ErrorContains(t, err, "unknown preset")

	_, err = run(t, testLoader(t, nil), "velocities", "125", "-1")
	assert.Error(t, err)
}

func TestAnalyze_FilesKeepOrder(t *testing.T) {
	dir := t.TempDir()
	low := filepath.Join(dir, "low.csv")
	high := filepath.Join(dir, "high.csv")
	require.NoError(t, os.WriteFile(low, []byte("velocity\n125.4\n126.1\n"), 0o644))
	require.NoError(t, os.WriteFile(high, []byte("velocity,diameter_mm,weight_grams\n300,4.5,0.53\n"), 0o644))

	out, err := run(t, testLoader(t, nil), "analyze", low, high, "--json")
	require.NoError(t, err)

	var results map[string]app.AppraisalResult
	require.NoError(t, json.Unmarshal([]byte(out), &results))
	assert.Equal(t, verdict.StatusNonLethal, results[low].Verdict.Status)
	assert.Equal(t, verdict.StatusLethal, results[high].Verdict.Status)
}

func TestAnalyze_TextFlagsIdenticalReadings(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "first.csv")
	second := filepath.Join(dir, "second.csv")
	for _, path := range []string{first, second} {
		require.NoError(t, os.WriteFile(path, []byte("velocity\n125.4\n126.1\n"), 0o644))
	}

	out, err := run(t, testLoader(t, nil), "analyze", first, second)
	require.NoError(t, err)

	assert.Contains(t, out, "Note: identical readings to "+first)
	assert.Contains(t, out, "(width ")
	assert.Contains(t, out, "Velocity")
	assert.Contains(t, out, "125.4")
}

func TestAnalyze_BadFileFails(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.csv")
	require.NoError(t, os.WriteFile(bad, []byte("speed\n125\n"), 0o644))

	_, err := run(t, testLoader(t, nil), "analyze", bad)
	assert.ErrorContains(t, err, "no velocity column")
}

func TestPresets_YAML(t *testing.T) {
	out, err := run(t, testLoader(t, nil), "presets")
	require.NoError(t, err)

	assert.Contains(t, out, "name: 6mm BB 0.20g")
	assert.Contains(t, out, "diameter_mm: 6")
}

func TestVerdictLine(t *testing.T) {
	assert.Equal(t, "Verdict: "+verdict.StatusLethal.Label(), verdictLine(verdict.StatusLethal, false))
	assert.Contains(t, verdictLine(verdict.StatusNonLethal, true), verdict.StatusNonLethal.Label())
	assert.False(t, isTerminal(&bytes.Buffer{}))
}

func TestShotTable(t *testing.T) {
	out, err := run(t, testLoader(t, nil), "velocities", "125.4", "300", "--json")
	require.NoError(t, err)
	var result app.AppraisalResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))

	rendered := shotTable(&result)
	for _, want := range []string{"#", "Dia mm", "J/cm²", "125.4", "300.0", "0.2"} {
		assert.Contains(t, rendered, want)
	}
	assert.Equal(t, -1, sameReadingsAs([]*app.AppraisalResult{&result}, 0))
}
