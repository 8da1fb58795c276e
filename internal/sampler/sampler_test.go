package sampler

import (
	"math"
	"math/rand"
	"testing"
	"time"
)

// seqSource replays fixed values for both normal and uniform draws.
type seqSource struct {
	norm []float64
	uni  []float64
	ni   int
	ui   int
}

func (s *seqSource) NormFloat64() float64 {
	v := s.norm[s.ni%len(s.norm)]
	s.ni++
	return v
}

func (s *seqSource) Float64() float64 {
	v := s.uni[s.ui%len(s.uni)]
	s.ui++
	return v
}

func TestSampleZeroNoise(t *testing.T) {
	src := &seqSource{norm: []float64{0}, uni: []float64{0}}
	smp := NewWithSource(src, DefaultSigma)
	x, y := smp.Sample(50, 10)
	if x != 50 || y != 10 {
		t.Fatalf("expected exact reading, got (%v, %v)", x, y)
	}
}

func TestSampleScalesBySigma(t *testing.T) {
	src := &seqSource{norm: []float64{1.5, -2}, uni: []float64{0}}
	smp := NewWithSource(src, 2.0)
	x, y := smp.Sample(90, 10)
	if x != 93 {
		t.Fatalf("expected x=93, got %v", x)
	}
	if y != 6 {
		t.Fatalf("expected y=6, got %v", y)
	}
}

func TestSampleDoesNotClamp(t *testing.T) {
	src := &seqSource{norm: []float64{3, -3}, uni: []float64{0}}
	smp := NewWithSource(src, 5.0)
	x, y := smp.Sample(95, 5)
	if x <= 100 {
		t.Fatalf("expected overshoot past the right edge, got %v", x)
	}
	if y >= 0 {
		t.Fatalf("expected overshoot past the top edge, got %v", y)
	}
}

func TestStreamPointRanges(t *testing.T) {
	smp := NewWithSource(rand.New(rand.NewSource(42)), DefaultSigma)
	at := time.Unix(100, 0)
	for i := 0; i < 1000; i++ {
		p := smp.StreamPoint(at)
		if p.X < 0 || p.X >= 100 || p.Y < 0 || p.Y >= 100 {
			t.Fatalf("point outside screen: (%v, %v)", p.X, p.Y)
		}
		if p.Confidence < 0.7 || p.Confidence >= 1.0 {
			t.Fatalf("confidence outside [0.7, 1.0): %v", p.Confidence)
		}
		if !p.RecordedAt.Equal(at) {
			t.Fatalf("unexpected timestamp: %v", p.RecordedAt)
		}
	}
}

func TestSeededSamplerIsReproducible(t *testing.T) {
	a := New(DefaultSigma, 7)
	b := New(DefaultSigma, 7)
	for i := 0; i < 20; i++ {
		ax, ay := a.Sample(50, 50)
		bx, by := b.Sample(50, 50)
		if math.Abs(ax-bx) > 0 || math.Abs(ay-by) > 0 {
			t.Fatalf("same seed diverged at draw %d: (%v,%v) vs (%v,%v)", i, ax, ay, bx, by)
		}
	}
}
