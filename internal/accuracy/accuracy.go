// Package accuracy computes calibration error metrics.
package accuracy

import (
	"math"

	"github.com/verte-zerg/gazecal/internal/model"
)

// scorePenalty converts average error (percent units) into a 0-100 score.
// The linear penalty is a legacy constant kept for compatibility with the
// downstream analysis scripts, not a validated psychophysical model.
const scorePenalty = 10.0

// SampleError holds per-axis and Euclidean error for one sample.
type SampleError struct {
	X     float64
	Y     float64
	Total float64
}

// PerSample returns the absolute per-axis errors and their Euclidean
// distance in percentage-coordinate space.
func PerSample(s model.Sample) SampleError {
	ex := math.Abs(s.TargetX - s.GazeX)
	ey := math.Abs(s.TargetY - s.GazeY)
	return SampleError{X: ex, Y: ey, Total: math.Hypot(ex, ey)}
}

// Summary aggregates error metrics over a sample sequence.
type Summary struct {
	AverageError float64
	SampleCount  int
	Score        float64
}

// Summarize computes aggregate metrics over the samples. With no samples it
// returns zero values; callers should treat SampleCount == 0 as "no data"
// rather than as a perfect or failed run.
func Summarize(samples []model.Sample) Summary {
	if len(samples) == 0 {
		return Summary{}
	}
	var sum float64
	for _, s := range samples {
		sum += PerSample(s).Total
	}
	avg := sum / float64(len(samples))
	return Summary{
		AverageError: avg,
		SampleCount:  len(samples),
		Score:        Score(avg),
	}
}

// Score maps an average error to the 0-100 accuracy score, floored at 0.
func Score(averageError float64) float64 {
	score := 100 - averageError*scorePenalty
	if score < 0 {
		return 0
	}
	return score
}
