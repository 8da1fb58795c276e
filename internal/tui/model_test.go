package tui

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/verte-zerg/gazecal/internal/accuracy"
	"github.com/verte-zerg/gazecal/internal/catalog"
	"github.com/verte-zerg/gazecal/internal/model"
	"github.com/verte-zerg/gazecal/internal/sampler"
	"github.com/verte-zerg/gazecal/internal/session"
	"github.com/verte-zerg/gazecal/internal/store"
)

func newTestModel(t *testing.T) *Model {
	t.Helper()
	dir := t.TempDir()
	st, err := store.Open(filepath.Join(dir, "gazecal.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	cfg := model.Config{Subject: "Alice", Sigma: 2.0, GazePoints: 25, Seed: 7}
	sess := session.New(sampler.New(cfg.Sigma, cfg.Seed))
	sess.SetSubject(cfg.Subject)
	m := NewModel(cfg, st, sess, filepath.Join(dir, "exports"))
	m.width = 80
	m.height = 24
	return m
}

func TestRenderFooterFormats(t *testing.T) {
	m := newTestModel(t)
	m.handleStart()
	for i := 0; i < catalog.Count(); i++ {
		m.handleRecord()
	}
	out := m.renderFooter()
	if out == "" {
		t.Fatalf("expected footer output")
	}
	if !containsAll(out, []string{"Avg Error", "Score", "e: export"}) {
		t.Fatalf("footer missing expected segments: %s", out)
	}
}

func TestFinishRunSavesOnce(t *testing.T) {
	m := newTestModel(t)
	m.handleStart()
	for i := 0; i < catalog.Count(); i++ {
		m.handleRecord()
	}
	if !m.saved {
		t.Fatalf("completed run must be saved")
	}
	if m.errMsg != "" {
		t.Fatalf("unexpected error message: %s", m.errMsg)
	}
	samples := m.sess.Samples()
	want := accuracy.Summarize(samples)
	if m.summary != want {
		t.Fatalf("summary mismatch: got %+v, want %+v", m.summary, want)
	}
	m.finishRun()
	if m.errMsg != "" {
		t.Fatalf("second finish must not re-insert: %s", m.errMsg)
	}
}

func TestRecordBeforeStart(t *testing.T) {
	m := newTestModel(t)
	m.handleRecord()
	if m.statusMsg == "" {
		t.Fatalf("expected a hint when recording before start")
	}
	if got, _ := m.sess.Progress(); got != 0 {
		t.Fatalf("no sample must be recorded, got %d", got)
	}
}

func TestRenderHeaderStates(t *testing.T) {
	m := newTestModel(t)
	if out := m.renderHeader(); !strings.Contains(out, "Not Calibrated") {
		t.Fatalf("idle header: %s", out)
	}
	m.handleStart()
	if out := m.renderHeader(); !strings.Contains(out, "Calibrating 1/17") {
		t.Fatalf("active header: %s", out)
	}
	for i := 0; i < catalog.Count(); i++ {
		m.handleRecord()
	}
	if out := m.renderHeader(); !strings.Contains(out, "Calibrated") {
		t.Fatalf("completed header: %s", out)
	}
}

func containsAll(haystack string, needles []string) bool {
	for _, needle := range needles {
		if !strings.Contains(haystack, needle) {
			return false
		}
	}
	return true
}
