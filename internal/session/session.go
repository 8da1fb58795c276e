// Package session implements the calibration state machine.
package session

import (
	"errors"
	"time"

	"github.com/verte-zerg/gazecal/internal/catalog"
	"github.com/verte-zerg/gazecal/internal/model"
	"github.com/verte-zerg/gazecal/internal/sampler"
)

// DefaultSubject is the placeholder subject name before the operator sets one.
const DefaultSubject = "Test Subject"

// ErrNotActive reports an operation that requires an active calibration run.
// The caller should prompt the operator to start (or finish) calibration and
// must not treat it as a silent no-op.
var ErrNotActive = errors.New("calibration is not active")

// State tags calibration progress.
type State int

// Session states. A state is only re-entered via an explicit restart.
const (
	Idle State = iota
	Active
	Completed
)

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Active:
		return "active"
	case Completed:
		return "completed"
	default:
		return "unknown"
	}
}

// Session walks the subject through the calibration targets in catalog
// order, one sample per target, exactly once each. Skipping or re-recording
// a past target would invalidate the accuracy model, so the only movement
// is forward by one or a full restart.
//
// A Session is not safe for concurrent use; each subject owns its own
// instance driven from a single control goroutine.
type Session struct {
	subject    string
	cursor     int // 0 = not started, otherwise the 1-based awaited target
	calibrated bool
	samples    []model.Sample
	stream     []model.GazePoint
	smp        *sampler.Sampler
	startedAt  time.Time

	now func() time.Time
}

// New returns an idle session drawing readings from the given sampler.
func New(smp *sampler.Sampler) *Session {
	return &Session{
		subject: DefaultSubject,
		smp:     smp,
		now:     time.Now,
	}
}

// State derives the current state tag.
func (s *Session) State() State {
	switch {
	case s.calibrated:
		return Completed
	case s.cursor > 0:
		return Active
	default:
		return Idle
	}
}

// SetSubject updates the subject name for samples recorded from now on.
// Already-recorded samples keep the name they were recorded under.
func (s *Session) SetSubject(name string) {
	s.subject = name
}

// Subject returns the current subject name.
func (s *Session) Subject() string {
	return s.subject
}

// Start begins a calibration run at the first target. Valid from any state;
// prior samples are discarded. The auxiliary gaze stream is kept.
func (s *Session) Start() {
	s.samples = nil
	s.cursor = 1
	s.calibrated = false
	s.startedAt = s.now()
}

// Restart returns the session to Idle, discarding recorded samples and the
// auxiliary gaze stream.
func (s *Session) Restart() {
	s.samples = nil
	s.stream = nil
	s.cursor = 0
	s.calibrated = false
	s.startedAt = time.Time{}
}

// CurrentTarget returns the target awaiting calibration. Fails with
// ErrNotActive outside an active run.
func (s *Session) CurrentTarget() (model.Target, error) {
	if s.State() != Active {
		return model.Target{}, ErrNotActive
	}
	return catalog.Get(s.cursor)
}

// RecordCurrentPoint samples the gaze for the current target, appends the
// sample, and advances the cursor. It returns the appended sample and the
// resulting state: Active at the next target, or Completed after the last
// one. Fails with ErrNotActive outside an active run, leaving all state
// untouched.
func (s *Session) RecordCurrentPoint() (model.Sample, State, error) {
	target, err := s.CurrentTarget()
	if err != nil {
		return model.Sample{}, s.State(), err
	}
	gazeX, gazeY := s.smp.Sample(target.X, target.Y)
	sample := model.Sample{
		TargetID:   target.ID,
		TargetName: target.Name,
		TargetX:    target.X,
		TargetY:    target.Y,
		GazeX:      gazeX,
		GazeY:      gazeY,
		RecordedAt: s.now(),
		Subject:    s.subject,
	}
	s.samples = append(s.samples, sample)
	s.cursor++
	if s.cursor > catalog.Count() {
		s.calibrated = true
	}
	return sample, s.State(), nil
}

// GenerateGazeStream appends count synthetic raw gaze points to the
// auxiliary stream. The stream is independent of calibration targets and
// only feeds volume statistics.
func (s *Session) GenerateGazeStream(count int) {
	for i := 0; i < count; i++ {
		s.stream = append(s.stream, s.smp.StreamPoint(s.now()))
	}
}

// Calibrated reports whether all targets were recorded in the current run.
func (s *Session) Calibrated() bool {
	return s.calibrated
}

// Progress returns the number of recorded samples and the target count.
func (s *Session) Progress() (recorded, total int) {
	return len(s.samples), catalog.Count()
}

// StartedAt returns the start time of the current run, or the zero time
// when Idle.
func (s *Session) StartedAt() time.Time {
	return s.startedAt
}

// Samples returns a copy of the recorded samples in calibration order.
func (s *Session) Samples() []model.Sample {
	out := make([]model.Sample, len(s.samples))
	copy(out, s.samples)
	return out
}

// GazeStream returns a copy of the auxiliary gaze stream.
func (s *Session) GazeStream() []model.GazePoint {
	out := make([]model.GazePoint, len(s.stream))
	copy(out, s.stream)
	return out
}
