package export

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/verte-zerg/gazecal/internal/model"
)

func sampleFixtures(t *testing.T) ([]model.Sample, []model.GazePoint, time.Time) {
	t.Helper()
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	samples := []model.Sample{
		{
			TargetID: 1, TargetName: "Top-Left",
			TargetX: 10, TargetY: 10,
			GazeX: 11.5, GazeY: 8.25,
			RecordedAt: base.Add(time.Second),
			Subject:    "Test Subject",
		},
		{
			TargetID: 2, TargetName: "Top-Center",
			TargetX: 50, TargetY: 10,
			GazeX: 49, GazeY: 12,
			RecordedAt: base.Add(2 * time.Second),
			Subject:    "Test Subject",
		},
	}
	stream := []model.GazePoint{
		{X: 30, Y: 40, RecordedAt: base.Add(3 * time.Second), Confidence: 0.85},
	}
	return samples, stream, base.Add(time.Minute)
}

func TestRoundTrip(t *testing.T) {
	samples, stream, at := sampleFixtures(t)
	snap := New("Test Subject", at, samples, stream, true)

	var buf bytes.Buffer
	if err := snap.Encode(&buf); err != nil {
		t.Fatalf("encode: %v", err)
	}
	var decoded Snapshot
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded.TotalCalibrationPoints != len(samples) || !decoded.IsCalibrated {
		t.Fatalf("unexpected header fields: %+v", decoded)
	}
	if len(decoded.CalibrationData) != len(samples) {
		t.Fatalf("expected %d records, got %d", len(samples), len(decoded.CalibrationData))
	}
	for i, rec := range decoded.CalibrationData {
		s := samples[i]
		if rec.TargetX != s.TargetX || rec.TargetY != s.TargetY ||
			rec.GazeX != s.GazeX || rec.GazeY != s.GazeY {
			t.Fatalf("record %d lost precision: %+v vs %+v", i, rec, s)
		}
		if _, err := time.Parse(time.RFC3339Nano, rec.Timestamp); err != nil {
			t.Fatalf("record %d timestamp not ISO-8601: %v", i, err)
		}
	}
	if len(decoded.GazeData) != 1 || decoded.GazeData[0].Confidence != 0.85 {
		t.Fatalf("unexpected gaze data: %+v", decoded.GazeData)
	}
}

func TestEncodeIsDeterministic(t *testing.T) {
	samples, stream, at := sampleFixtures(t)
	snap := New("Test Subject", at, samples, stream, true)

	var a, b bytes.Buffer
	if err := snap.Encode(&a); err != nil {
		t.Fatalf("encode: %v", err)
	}
	if err := snap.Encode(&b); err != nil {
		t.Fatalf("encode: %v", err)
	}
	if !bytes.Equal(a.Bytes(), b.Bytes()) {
		t.Fatalf("snapshot encoding is not byte-stable")
	}

	// Downstream parsers rely on this exact field order.
	order := []string{
		`"subject_name"`,
		`"export_timestamp"`,
		`"calibration_data"`,
		`"gaze_data"`,
		`"is_calibrated"`,
		`"total_calibration_points"`,
		`"total_gaze_points"`,
	}
	out := a.String()
	last := -1
	for _, field := range order {
		idx := strings.Index(out, field)
		if idx < 0 {
			t.Fatalf("missing field %s", field)
		}
		if idx < last {
			t.Fatalf("field %s out of order", field)
		}
		last = idx
	}
}

func TestEmptyExport(t *testing.T) {
	at := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	snap := New("Test Subject", at, nil, nil, false)
	var buf bytes.Buffer
	if err := snap.Encode(&buf); err != nil {
		t.Fatalf("encode: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, `"calibration_data": []`) {
		t.Fatalf("empty export must contain an empty array, got:\n%s", out)
	}
	if !strings.Contains(out, `"total_calibration_points": 0`) {
		t.Fatalf("empty export must report zero points, got:\n%s", out)
	}
	if strings.Contains(out, "null") {
		t.Fatalf("empty export must not serialize null arrays:\n%s", out)
	}
}

func TestWriteFile(t *testing.T) {
	samples, stream, at := sampleFixtures(t)
	snap := New("Test Subject", at, samples, stream, true)
	path := filepath.Join(t.TempDir(), "exports", "snapshot.json")
	if err := WriteFile(path, snap); err != nil {
		t.Fatalf("write file: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	var decoded Snapshot
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded.SubjectName != "Test Subject" {
		t.Fatalf("unexpected subject: %q", decoded.SubjectName)
	}
}

func TestFilename(t *testing.T) {
	at := time.Date(2025, 3, 1, 9, 5, 7, 0, time.UTC)
	got := Filename("Test Subject", at)
	want := "gaze_study_data_Test Subject_20250301_090507.json"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}
