package stats

import (
	"bytes"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestPlotSeries(t *testing.T) {
	var buf bytes.Buffer
	series := []Series{
		{Name: "Avg Error", Values: []float64{1, 2, 3, 2, 1}},
		{Name: "Score", Values: []float64{90, 80, 70, 80, 90}},
	}
	if err := PlotSeries(&buf, "Calibration Curves", series, 20, 5); err != nil {
		t.Fatalf("plot: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "Calibration Curves") {
		t.Fatalf("missing title:\n%s", out)
	}
	if !strings.Contains(out, "Avg Error: min=1.00 max=3.00") {
		t.Fatalf("missing series range:\n%s", out)
	}
	if !strings.Contains(out, "Legend: ") {
		t.Fatalf("missing legend:\n%s", out)
	}
	var braille int
	for _, r := range out {
		if r >= 0x2800 && r <= 0x28FF {
			braille++
		}
	}
	if braille == 0 {
		t.Fatalf("plot rendered no braille cells:\n%s", out)
	}
}

func TestPlotSeriesFlat(t *testing.T) {
	var buf bytes.Buffer
	series := []Series{{Name: "Score", Values: []float64{50, 50, 50}}}
	if err := PlotSeries(&buf, "", series, 12, 4); err != nil {
		t.Fatalf("flat series must not fail: %v", err)
	}
	if buf.Len() == 0 {
		t.Fatalf("flat series must still render")
	}
}

func TestPlotSeriesEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := PlotSeries(&buf, "T", nil, 10, 4); err != nil {
		t.Fatalf("empty input: %v", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("empty input must render nothing, got %q", buf.String())
	}
}

func TestPlotWidthFor(t *testing.T) {
	axis := utf8.RuneCountInString(axisLabelTop) + utf8.RuneCountInString(axisSeparator)
	if got := PlotWidthFor(80); got != 80-axis {
		t.Fatalf("expected %d, got %d", 80-axis, got)
	}
	if got := PlotWidthFor(5); got != minPlotWidth {
		t.Fatalf("narrow terminals must clamp to %d, got %d", minPlotWidth, got)
	}
	if got := PlotWidthFor(0); got != minPlotWidth {
		t.Fatalf("zero width must clamp to %d, got %d", minPlotWidth, got)
	}
}
