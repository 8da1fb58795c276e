// Package model defines shared data structures.
package model

import "time"

// Target is a fixed on-screen calibration reference point.
type Target struct {
	ID   int
	X    float64
	Y    float64
	Name string
}

// Sample pairs a calibration target with the gaze reading recorded for it.
// Coordinates are screen percentages; gaze values may fall outside [0,100].
type Sample struct {
	TargetID   int
	TargetName string
	TargetX    float64
	TargetY    float64
	GazeX      float64
	GazeY      float64
	RecordedAt time.Time
	Subject    string
}

// GazePoint is one raw gaze reading, not tied to a calibration target.
type GazePoint struct {
	X          float64
	Y          float64
	RecordedAt time.Time
	Confidence float64
}

// Config defines calibration run settings.
type Config struct {
	Subject    string
	Sigma      float64
	GazePoints int
	Seed       int64
	DBPath     string
}

// StatsConfig defines filters and options for stats output.
type StatsConfig struct {
	Subject     string
	Since       *time.Time
	Last        int
	CurveWindow int
	Targets     string
}

// SessionRecord captures a completed calibration run.
type SessionRecord struct {
	UID           string
	Subject       string
	StartedAt     time.Time
	EndedAt       time.Time
	Calibrated    bool
	Sigma         float64
	SampleCount   int
	GazePoints    int
	AverageError  float64
	AccuracyScore float64
}

// SessionAggregate summarizes a stored run for reporting.
type SessionAggregate struct {
	SessionID     int64
	EndedAt       time.Time
	SampleCount   int
	AverageError  float64
	AccuracyScore float64
}

// TargetAggregate aggregates per-target error across runs.
type TargetAggregate struct {
	TargetID   int
	TargetName string
	Samples    int
	ErrorSum   float64
}
