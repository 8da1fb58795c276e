// Package tui provides the Bubble Tea calibration interface.
package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/verte-zerg/gazecal/internal/accuracy"
	"github.com/verte-zerg/gazecal/internal/catalog"
	"github.com/verte-zerg/gazecal/internal/export"
	"github.com/verte-zerg/gazecal/internal/model"
	"github.com/verte-zerg/gazecal/internal/session"
	statsPkg "github.com/verte-zerg/gazecal/internal/stats"
	"github.com/verte-zerg/gazecal/internal/store"
)

var (
	titleStyle          = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	statusIdleStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	statusActiveStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	statusDoneStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#7FBF7F"))
	pendingTargetStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	recordedTargetStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#7FBF7F"))
	currentTargetStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	footerStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle          = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
)

// Model implements the Bubble Tea calibration UI.
type Model struct {
	config    model.Config
	store     *store.Store
	sess      *session.Session
	exportDir string

	width  int
	height int

	statusMsg string
	errMsg    string

	summary    accuracy.Summary
	hasSummary bool
	spark      string
	saved      bool
}

// NewModel constructs a calibration TUI model.
func NewModel(cfg model.Config, st *store.Store, sess *session.Session, exportDir string) *Model {
	return &Model{
		config:    cfg,
		store:     st,
		sess:      sess,
		exportDir: exportDir,
	}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "s":
			m.handleStart()
			return m, nil
		case " ", "enter":
			m.handleRecord()
			return m, nil
		case "r":
			m.handleRestart()
			return m, nil
		case "g":
			m.handleGazeStream()
			return m, nil
		case "e":
			m.handleExport()
			return m, nil
		default:
			return m, nil
		}
	default:
		return m, nil
	}
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	header := m.renderHeader()
	footer := m.renderFooter()
	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	bodyHeight := m.height - headerHeight - footerHeight
	if bodyHeight < 1 {
		bodyHeight = 1
	}
	body := lipgloss.Place(m.width, bodyHeight, lipgloss.Center, lipgloss.Center, m.renderBody(bodyHeight))
	return header + "\n" + body + "\n" + footer
}

func (m *Model) handleStart() {
	m.sess.Start()
	m.hasSummary = false
	m.spark = ""
	m.saved = false
	m.statusMsg = ""
	m.errMsg = ""
}

func (m *Model) handleRecord() {
	_, state, err := m.sess.RecordCurrentPoint()
	if err != nil {
		m.statusMsg = "Press s to start calibration."
		return
	}
	m.statusMsg = ""
	if state == session.Completed {
		m.finishRun()
	}
}

func (m *Model) handleRestart() {
	m.sess.Restart()
	m.hasSummary = false
	m.spark = ""
	m.saved = false
	m.statusMsg = ""
	m.errMsg = ""
}

func (m *Model) handleGazeStream() {
	m.sess.GenerateGazeStream(m.config.GazePoints)
	m.statusMsg = fmt.Sprintf("Gaze stream: %d points.", len(m.sess.GazeStream()))
}

func (m *Model) handleExport() {
	at := time.Now()
	snap := export.Build(m.sess, at)
	path := filepath.Join(m.exportDir, export.Filename(m.sess.Subject(), at))
	if err := export.WriteFile(path, snap); err != nil {
		logErrf("failed to export snapshot: %v\n", err)
		m.errMsg = err.Error()
		return
	}
	m.errMsg = ""
	m.statusMsg = fmt.Sprintf("Exported %s", path)
}

func (m *Model) finishRun() {
	samples := m.sess.Samples()
	m.summary = accuracy.Summarize(samples)
	m.hasSummary = true

	errs := make([]float64, len(samples))
	for i, s := range samples {
		errs[i] = accuracy.PerSample(s).Total
	}
	m.spark = statsPkg.Sparkline(errs)

	if m.saved {
		return
	}
	rec := model.SessionRecord{
		UID:           uuid.NewString(),
		Subject:       m.sess.Subject(),
		StartedAt:     m.sess.StartedAt(),
		EndedAt:       time.Now(),
		Calibrated:    m.sess.Calibrated(),
		Sigma:         m.config.Sigma,
		SampleCount:   m.summary.SampleCount,
		GazePoints:    len(m.sess.GazeStream()),
		AverageError:  m.summary.AverageError,
		AccuracyScore: m.summary.Score,
	}
	if _, err := m.store.InsertSession(context.Background(), rec, samples); err != nil {
		logErrf("failed to save session: %v\n", err)
		m.errMsg = err.Error()
		return
	}
	m.saved = true
	m.errMsg = ""
}

func (m *Model) renderHeader() string {
	title := titleStyle.Render(fmt.Sprintf("Gaze Calibration · %s", m.sess.Subject()))
	var status string
	switch m.sess.State() {
	case session.Active:
		recorded, total := m.sess.Progress()
		status = statusActiveStyle.Render(fmt.Sprintf("Calibrating %d/%d", recorded+1, total))
	case session.Completed:
		status = statusDoneStyle.Render("Calibrated ✓")
	default:
		status = statusIdleStyle.Render("Not Calibrated")
	}
	line := title + "  " + status
	return lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, line)
}

func (m *Model) renderBody(bodyHeight int) string {
	gridWidth := int(float64(m.width) * 0.60)
	if gridWidth < 21 {
		gridWidth = 21
	}
	gridHeight := bodyHeight - 1
	if gridHeight < 9 {
		gridHeight = 9
	}

	recorded := map[int]bool{}
	for _, s := range m.sess.Samples() {
		recorded[s.TargetID] = true
	}
	currentID := 0
	if target, err := m.sess.CurrentTarget(); err == nil {
		currentID = target.ID
	}
	return renderGrid(buildGrid(catalog.All(), recorded, currentID, gridWidth, gridHeight))
}

func (m *Model) renderFooter() string {
	segments := []string{}
	switch m.sess.State() {
	case session.Active:
		segments = append(segments, "space: record", "r: restart", "q: quit")
	case session.Completed:
		if m.hasSummary {
			segments = append(segments, fmt.Sprintf("Avg Error %.2f%%", m.summary.AverageError))
			segments = append(segments, fmt.Sprintf("Score %.1f/100", m.summary.Score))
			if m.spark != "" {
				segments = append(segments, m.spark)
			}
		}
		segments = append(segments, "s: recalibrate", "g: gaze", "e: export", "r: reset", "q: quit")
	default:
		segments = append(segments, "s: start", "g: gaze", "e: export", "q: quit")
	}
	footer := footerStyle.Render(strings.Join(segments, "  "))
	if m.statusMsg != "" {
		footer += "\n" + footerStyle.Render(m.statusMsg)
	}
	if m.errMsg != "" {
		footer += "\n" + errorStyle.Render(m.errMsg)
	}
	lines := strings.Split(footer, "\n")
	for i, line := range lines {
		lines[i] = lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, line)
	}
	return strings.Join(lines, "\n")
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
