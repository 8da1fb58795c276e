package stats

import (
	"bytes"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/verte-zerg/gazecal/internal/model"
)

func TestMovingAverage(t *testing.T) {
	values := []float64{1, 2, 3, 4, 5}
	out := MovingAverage(values, 2)
	want := []float64{1, 1.5, 2.5, 3.5, 4.5}
	for i := range want {
		if math.Abs(out[i]-want[i]) > 1e-9 {
			t.Fatalf("index %d: expected %v, got %v", i, want[i], out[i])
		}
	}
}

func TestMovingAverageWindowOne(t *testing.T) {
	values := []float64{3, 1, 4}
	out := MovingAverage(values, 1)
	for i := range values {
		if out[i] != values[i] {
			t.Fatalf("window 1 must be identity, index %d: %v", i, out[i])
		}
	}
}

func TestSparkline(t *testing.T) {
	line := Sparkline([]float64{0, 5, 10})
	if len(line) != 3 {
		t.Fatalf("expected 3 chars, got %q", line)
	}
	if line[0] != ' ' || line[2] != '@' {
		t.Fatalf("expected low-to-high ramp, got %q", line)
	}
	flat := Sparkline([]float64{2, 2, 2})
	if len(flat) != 3 || flat[0] != flat[2] {
		t.Fatalf("flat series must render uniformly, got %q", flat)
	}
	if Sparkline(nil) != "" {
		t.Fatalf("empty input must render empty")
	}
}

func TestAvgError(t *testing.T) {
	agg := model.TargetAggregate{TargetID: 1, Samples: 4, ErrorSum: 10}
	if got := AvgError(agg); got != 2.5 {
		t.Fatalf("expected 2.5, got %v", got)
	}
	if got := AvgError(model.TargetAggregate{}); got != 0 {
		t.Fatalf("zero samples must not divide, got %v", got)
	}
}

func TestRenderSummary(t *testing.T) {
	sessions := []model.SessionAggregate{
		{SessionID: 1, EndedAt: time.Unix(10, 0), SampleCount: 17, AverageError: 2, AccuracyScore: 80},
		{SessionID: 2, EndedAt: time.Unix(20, 0), SampleCount: 17, AverageError: 4, AccuracyScore: 60},
	}
	var buf bytes.Buffer
	if err := RenderSummary(&buf, sessions); err != nil {
		t.Fatalf("render summary: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "Sessions: 2") {
		t.Fatalf("missing session count:\n%s", out)
	}
	if !strings.Contains(out, "Avg Error: 3.00%") {
		t.Fatalf("missing average error:\n%s", out)
	}
	if !strings.Contains(out, "Best Score: 80.0/100") {
		t.Fatalf("missing best score:\n%s", out)
	}
}

func TestRenderSummaryEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderSummary(&buf, nil); err != nil {
		t.Fatalf("render summary: %v", err)
	}
	if !strings.Contains(buf.String(), "No sessions found.") {
		t.Fatalf("unexpected output: %q", buf.String())
	}
}
