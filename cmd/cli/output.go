package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"ballistix/app"
	"ballistix/domain/verdict"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/mattn/go-isatty"
)

var (
	verdictStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	statusColors = map[verdict.Status]lipgloss.Color{
		verdict.StatusLethal:           lipgloss.Color("196"),
		verdict.StatusNonLethal:        lipgloss.Color("42"),
		verdict.StatusInsufficientData: lipgloss.Color("214"),
	}
)

// isTerminal reports whether w is an interactive terminal
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// verdictLine renders the headline, coloured by status on a terminal
func verdictLine(status verdict.Status, styled bool) string {
	line := "Verdict: " + status.Label()
	if !styled {
		return line
	}
	return verdictStyle.Foreground(statusColors[status]).Render(line)
}

// printResults writes each labelled result as text or as one JSON document
func printResults(w io.Writer, labels []string, results []*app.AppraisalResult, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if len(results) == 1 {
			return enc.Encode(results[0])
		}
		byLabel := make(map[string]*app.AppraisalResult, len(results))
		for i, r := range results {
			byLabel[labels[i]] = r
		}
		return enc.Encode(byLabel)
	}

	for i, r := range results {
		if len(results) > 1 {
			fmt.Fprintf(w, "== %s ==\n", labels[i])
			if j := sameReadingsAs(results, i); j >= 0 {
				fmt.Fprintf(w, "Note: identical readings to %s\n", labels[j])
			}
		}
		printResult(w, r, isTerminal(w))
		if i < len(results)-1 {
			fmt.Fprintln(w)
		}
	}
	return nil
}

func printResult(w io.Writer, r *app.AppraisalResult, styled bool) {
	v := r.Verdict
	fmt.Fprintln(w, verdictLine(v.Status, styled))
	fmt.Fprintf(w, "Analysis: %s   Input fingerprint: %s\n", r.AnalysisID, r.InputFingerprint.Short())
	if !v.Determined() {
		fmt.Fprintln(w, "No shots to analyze.")
		return
	}

	fmt.Fprintf(w, "Shots: %d   Max: %.2f J/cm²   Mean: %.2f J/cm²   SD: %.3f\n",
		v.Stats.Count, v.Stats.MaxUnitEnergy, v.Stats.MeanUnitEnergy, v.Stats.StdDevUnitEnergy)
	fmt.Fprintf(w, "95%% CI: %.2f to %.2f J/cm² (width %.2f)\n", v.Interval.Lower, v.Interval.Upper, v.Interval.Width())
	fmt.Fprintf(w, "t-test vs %.0f J/cm²: t=%.3f df=%d p=%.4f -> %s\n",
		v.Threshold, v.Test.TStatistic, v.Test.DegreesOfFreedom, v.Test.PValue, v.Test.Interpretation)
	if v.SignalsDisagree() {
		fmt.Fprintln(w, "Note: strongest shot and t-test disagree; the verdict follows the strongest shot.")
	}

	fmt.Fprintln(w, shotTable(r))

	if r.Report != "" {
		fmt.Fprintln(w)
		fmt.Fprintln(w, r.Report)
	}
}

// shotTable renders the per-shot records with numeric columns right-aligned
func shotTable(r *app.AppraisalResult) string {
	rows := make([][]string, 0, len(r.Records))
	for _, rec := range r.Records {
		rows = append(rows, []string{
			strconv.Itoa(rec.SequenceIndex),
			fmt.Sprintf("%.1f", rec.Velocity),
			strconv.FormatFloat(rec.DiameterMm, 'g', -1, 64),
			strconv.FormatFloat(rec.WeightGrams, 'g', -1, 64),
			fmt.Sprintf("%.3f", rec.EnergyJoules),
			fmt.Sprintf("%.2f", rec.UnitAreaEnergy),
		})
	}

	cell := lipgloss.NewStyle().Padding(0, 1).Align(lipgloss.Right)
	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers("#", "Velocity", "Dia mm", "Weight g", "Energy J", "J/cm²").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style { return cell }).
		String()
}

// sameReadingsAs returns the index of an earlier result with the same input fingerprint, or -1
func sameReadingsAs(results []*app.AppraisalResult, i int) int {
	for j := 0; j < i; j++ {
		if results[j].InputFingerprint.Equals(results[i].InputFingerprint) {
			return j
		}
	}
	return -1
}
