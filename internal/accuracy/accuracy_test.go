package accuracy

import (
	"math"
	"testing"

	"github.com/verte-zerg/gazecal/internal/model"
)

func TestPerSample(t *testing.T) {
	s := model.Sample{TargetX: 50, TargetY: 50, GazeX: 53, GazeY: 46}
	e := PerSample(s)
	if e.X != 3 || e.Y != 4 {
		t.Fatalf("expected axis errors (3, 4), got (%v, %v)", e.X, e.Y)
	}
	if e.Total != 5 {
		t.Fatalf("expected total error 5, got %v", e.Total)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	sum := Summarize(nil)
	if sum.SampleCount != 0 {
		t.Fatalf("expected 0 samples, got %d", sum.SampleCount)
	}
	if math.IsNaN(sum.AverageError) || math.IsNaN(sum.Score) {
		t.Fatalf("empty summary must not contain NaN: %+v", sum)
	}
	if sum.AverageError != 0 || sum.Score != 0 {
		t.Fatalf("expected zero values for empty input, got %+v", sum)
	}
}

func TestSummarizeSingleSample(t *testing.T) {
	sum := Summarize([]model.Sample{
		{TargetX: 10, TargetY: 10, GazeX: 10, GazeY: 10},
	})
	if sum.SampleCount != 1 || sum.AverageError != 0 || sum.Score != 100 {
		t.Fatalf("unexpected summary: %+v", sum)
	}
}

func TestSummarizeConstantOffset(t *testing.T) {
	// A (3, 4) offset on every sample is a 3-4-5 triangle per sample.
	samples := make([]model.Sample, 17)
	for i := range samples {
		samples[i] = model.Sample{TargetX: 50, TargetY: 50, GazeX: 53, GazeY: 54}
	}
	sum := Summarize(samples)
	if sum.SampleCount != 17 {
		t.Fatalf("expected 17 samples, got %d", sum.SampleCount)
	}
	if math.Abs(sum.AverageError-5) > 1e-9 {
		t.Fatalf("expected average error 5, got %v", sum.AverageError)
	}
	if math.Abs(sum.Score-50) > 1e-9 {
		t.Fatalf("expected score 50, got %v", sum.Score)
	}
}

func TestScoreFloor(t *testing.T) {
	if got := Score(12); got != 0 {
		t.Fatalf("score must floor at 0, got %v", got)
	}
	if got := Score(0); got != 100 {
		t.Fatalf("zero error must score 100, got %v", got)
	}
}
