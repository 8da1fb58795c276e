// Package export serializes calibration sessions into portable snapshots.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/verte-zerg/gazecal/internal/model"
	"github.com/verte-zerg/gazecal/internal/session"
)

// Record is one calibration sample in the snapshot. Field names and order
// must match the downstream analysis scripts exactly.
type Record struct {
	PointID   int     `json:"point_id"`
	PointName string  `json:"point_name"`
	TargetX   float64 `json:"target_x"`
	TargetY   float64 `json:"target_y"`
	GazeX     float64 `json:"gaze_x"`
	GazeY     float64 `json:"gaze_y"`
	Timestamp string  `json:"timestamp"`
	Subject   string  `json:"subject"`
}

// GazeRecord is one raw gaze point in the snapshot.
type GazeRecord struct {
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Timestamp  string  `json:"timestamp"`
	Confidence float64 `json:"confidence"`
}

// Snapshot is the exported session document.
type Snapshot struct {
	SubjectName            string       `json:"subject_name"`
	ExportTimestamp        string       `json:"export_timestamp"`
	CalibrationData        []Record     `json:"calibration_data"`
	GazeData               []GazeRecord `json:"gaze_data"`
	IsCalibrated           bool         `json:"is_calibrated"`
	TotalCalibrationPoints int          `json:"total_calibration_points"`
	TotalGazePoints        int          `json:"total_gaze_points"`
}

// New builds a snapshot from raw session data. Zero samples is not an
// error: the document carries empty arrays and zero counts.
func New(subject string, at time.Time, samples []model.Sample, stream []model.GazePoint, calibrated bool) Snapshot {
	records := make([]Record, 0, len(samples))
	for _, s := range samples {
		records = append(records, Record{
			PointID:   s.TargetID,
			PointName: s.TargetName,
			TargetX:   s.TargetX,
			TargetY:   s.TargetY,
			GazeX:     s.GazeX,
			GazeY:     s.GazeY,
			Timestamp: s.RecordedAt.Format(time.RFC3339Nano),
			Subject:   s.Subject,
		})
	}
	gaze := make([]GazeRecord, 0, len(stream))
	for _, p := range stream {
		gaze = append(gaze, GazeRecord{
			X:          p.X,
			Y:          p.Y,
			Timestamp:  p.RecordedAt.Format(time.RFC3339Nano),
			Confidence: p.Confidence,
		})
	}
	return Snapshot{
		SubjectName:            subject,
		ExportTimestamp:        at.Format(time.RFC3339Nano),
		CalibrationData:        records,
		GazeData:               gaze,
		IsCalibrated:           calibrated,
		TotalCalibrationPoints: len(records),
		TotalGazePoints:        len(gaze),
	}
}

// Build snapshots a live session without mutating it.
func Build(s *session.Session, at time.Time) Snapshot {
	return New(s.Subject(), at, s.Samples(), s.GazeStream(), s.Calibrated())
}

// Encode writes the snapshot as indented JSON. Struct tags fix the field
// order, so identical input yields identical bytes.
func (snap Snapshot) Encode(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(snap); err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return nil
}

// WriteFile writes the snapshot to path atomically.
func WriteFile(path string, snap Snapshot) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create export dir: %w", err)
	}
	tmpFile, err := os.CreateTemp(dir, "snapshot-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp snapshot: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()

	if err := snap.Encode(tmpFile); err != nil {
		return err
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close snapshot: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	return nil
}

// Filename builds the download-style snapshot name used by the original
// tool, e.g. "gaze_study_data_Test Subject_20250301_120000.json".
func Filename(subject string, at time.Time) string {
	return fmt.Sprintf("gaze_study_data_%s_%s.json", subject, at.Format("20060102_150405"))
}
