// Package sampler simulates gaze readings in place of tracking hardware.
package sampler

import (
	"math/rand"
	"time"

	"github.com/verte-zerg/gazecal/internal/model"
)

// DefaultSigma is the standard deviation of the simulated measurement
// noise, in screen-percentage units.
const DefaultSigma = 2.0

// Confidence bounds for synthetic gaze-stream points.
const (
	minConfidence = 0.7
	maxConfidence = 1.0
)

// Source provides the random draws the sampler consumes. *rand.Rand
// satisfies it; tests substitute deterministic implementations.
type Source interface {
	NormFloat64() float64
	Float64() float64
}

// Sampler produces simulated gaze readings.
type Sampler struct {
	src   Source
	sigma float64
}

// New returns a Sampler with the given noise deviation. A seed of 0 seeds
// from the current time.
func New(sigma float64, seed int64) *Sampler {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return NewWithSource(rand.New(rand.NewSource(seed)), sigma)
}

// NewWithSource returns a Sampler drawing from the provided source.
func NewWithSource(src Source, sigma float64) *Sampler {
	return &Sampler{src: src, sigma: sigma}
}

// Sample returns a noisy gaze reading for a target position. Readings are
// deliberately not clamped to [0,100]: overshoot near screen edges is part
// of the measurement model.
func (s *Sampler) Sample(targetX, targetY float64) (gazeX, gazeY float64) {
	gazeX = targetX + s.src.NormFloat64()*s.sigma
	gazeY = targetY + s.src.NormFloat64()*s.sigma
	return gazeX, gazeY
}

// StreamPoint returns one synthetic raw gaze point with uniform screen
// coordinates and a confidence in [0.7, 1.0).
func (s *Sampler) StreamPoint(at time.Time) model.GazePoint {
	return model.GazePoint{
		X:          s.src.Float64() * 100,
		Y:          s.src.Float64() * 100,
		RecordedAt: at,
		Confidence: minConfidence + s.src.Float64()*(maxConfidence-minConfidence),
	}
}

// Sigma returns the configured noise deviation.
func (s *Sampler) Sigma() float64 {
	return s.sigma
}
