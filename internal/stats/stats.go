// Package stats contains statistics calculations and reporting.
package stats

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/verte-zerg/gazecal/internal/model"
)

const sparkChars = " .:-=+*#%@"

// AvgError returns the mean per-sample error of a target aggregate.
func AvgError(agg model.TargetAggregate) float64 {
	if agg.Samples == 0 {
		return 0
	}
	return agg.ErrorSum / float64(agg.Samples)
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	if window <= 1 || len(values) == 0 {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, len(values))
	var sum float64
	for i := 0; i < len(values); i++ {
		sum += values[i]
		if i >= window {
			sum -= values[i-window]
		}
		den := float64(i + 1)
		if i >= window {
			den = float64(window)
		}
		out[i] = sum / den
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal := values[0]
	maxVal := values[0]
	for _, v := range values[1:] {
		if v < minVal {
			minVal = v
		}
		if v > maxVal {
			maxVal = v
		}
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		if idx < 0 {
			idx = 0
		}
		if idx >= len(sparkChars) {
			idx = len(sparkChars) - 1
		}
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// RenderSummary prints a summary for stored calibration runs.
func RenderSummary(w io.Writer, sessions []model.SessionAggregate) error {
	if len(sessions) == 0 {
		_, err := fmt.Fprintln(w, "No sessions found.")
		return err
	}
	var totalErr, totalScore float64
	bestScore := 0.0
	for _, s := range sessions {
		totalErr += s.AverageError
		totalScore += s.AccuracyScore
		if s.AccuracyScore > bestScore {
			bestScore = s.AccuracyScore
		}
	}
	count := float64(len(sessions))
	if _, err := fmt.Fprintln(w, "Summary"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Sessions: %d\n", len(sessions)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Avg Error: %.2f%%\n", totalErr/count); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Avg Score: %.1f/100\n", totalScore/count); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Best Score: %.1f/100\n", bestScore); err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, ""); err != nil {
		return err
	}
	return nil
}

// RenderCurves prints error and score curves across stored runs.
func RenderCurves(w io.Writer, sessions []model.SessionAggregate, window int) error {
	return RenderCurvesWithSize(w, sessions, window, 0, 10, false)
}

// RenderCurvesWithSize prints run curves sized to a given total width.
func RenderCurvesWithSize(w io.Writer, sessions []model.SessionAggregate, window, totalWidth, height int, useColor bool) error {
	if len(sessions) == 0 {
		return nil
	}
	errs := make([]float64, len(sessions))
	scores := make([]float64, len(sessions))
	for i, s := range sessions {
		errs[i] = s.AverageError
		scores[i] = s.AccuracyScore
	}
	errs = MovingAverage(errs, window)
	scores = MovingAverage(scores, window)

	width := 0
	if totalWidth > 0 {
		width = PlotWidthFor(totalWidth)
	}
	return PlotSeriesWithColor(w, "Calibration Curves", []Series{
		{Name: "Avg Error", Values: errs},
		{Name: "Score", Values: scores},
	}, width, height, useColor)
}

// RenderTargetTable prints per-target aggregates, worst first.
func RenderTargetTable(w io.Writer, aggs []model.TargetAggregate) error {
	if len(aggs) == 0 {
		_, err := fmt.Fprintln(w, "No target stats found.")
		return err
	}
	sorted := WorstTargetsByError(aggs, len(aggs))

	if _, err := fmt.Fprintln(w, "Per-Target (Windowed)"); err != nil {
		return err
	}

	headers := []string{"Target", "Name", "Avg Error", "Samples"}
	tableRows := make([][]string, 0, len(sorted))
	for _, agg := range sorted {
		tableRows = append(tableRows, []string{
			fmt.Sprintf("P%d", agg.TargetID),
			agg.TargetName,
			fmt.Sprintf("%.2f%%", AvgError(agg)),
			fmt.Sprintf("%d", agg.Samples),
		})
	}
	rightAlign := map[int]bool{2: true, 3: true}
	lines := formatTable(headers, tableRows, rightAlign)
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintln(w, ""); err != nil {
		return err
	}
	return nil
}

// RenderTargetCurves prints per-target error curves across stored runs.
func RenderTargetCurves(w io.Writer, sessions []model.SessionAggregate, perSession map[int64]map[int]model.TargetAggregate, targetIDs []int, window int) error {
	return RenderTargetCurvesWithSize(w, sessions, perSession, targetIDs, window, 0, 10, false)
}

// RenderTargetCurvesWithSize prints per-target error curves sized to a
// given total width.
func RenderTargetCurvesWithSize(w io.Writer, sessions []model.SessionAggregate, perSession map[int64]map[int]model.TargetAggregate, targetIDs []int, window, totalWidth, height int, useColor bool) error {
	if len(targetIDs) == 0 || len(sessions) == 0 {
		return nil
	}
	if _, err := fmt.Fprintln(w, "Per-Target Curves"); err != nil {
		return err
	}
	for _, id := range targetIDs {
		series := make([]float64, len(sessions))
		name := fmt.Sprintf("P%d", id)
		for i, s := range sessions {
			if data, ok := perSession[s.SessionID]; ok {
				if agg, ok := data[id]; ok {
					series[i] = AvgError(agg)
					if agg.TargetName != "" {
						name = fmt.Sprintf("P%d %s", id, agg.TargetName)
					}
				}
			}
		}
		series = MovingAverage(series, window)
		width := 0
		if totalWidth > 0 {
			width = PlotWidthFor(totalWidth)
		}
		if err := PlotSeriesWithColor(w, name, []Series{
			{Name: "Error", Values: series},
		}, width, height, useColor); err != nil {
			return err
		}
	}
	return nil
}
