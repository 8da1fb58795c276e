// Package main provides the CLI entrypoint for gazecal.
package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/gazecal/internal/config"
	"github.com/verte-zerg/gazecal/internal/export"
	"github.com/verte-zerg/gazecal/internal/model"
	"github.com/verte-zerg/gazecal/internal/sampler"
	"github.com/verte-zerg/gazecal/internal/session"
	"github.com/verte-zerg/gazecal/internal/statsui"
	"github.com/verte-zerg/gazecal/internal/store"
	"github.com/verte-zerg/gazecal/internal/tui"
)

const (
	defaultGazePoints  = 50
	defaultCurveWindow = 20
)

var (
	calibrateSubject    string
	calibrateSigma      float64
	calibrateGazePoints int
	calibrateSeed       int64
	calibrateDB         string

	statsSubject     string
	statsSince       string
	statsLast        int
	statsCurveWindow int
	statsTargets     string
	statsDB          string

	exportSession int64
	exportOut     string
	exportDB      string
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "gazecal",
		Short:         "TUI gaze calibration for eye-tracking studies",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runCalibrateCmd,
	}

	rootCmd.Flags().StringVar(&calibrateSubject, "subject", session.DefaultSubject, "subject name")
	rootCmd.Flags().Float64Var(&calibrateSigma, "sigma", sampler.DefaultSigma, "gaze noise standard deviation")
	rootCmd.Flags().IntVar(&calibrateGazePoints, "gaze-points", defaultGazePoints, "points per gaze stream generation")
	rootCmd.Flags().Int64Var(&calibrateSeed, "seed", 0, "random seed (0 = time-based)")
	rootCmd.Flags().StringVar(&calibrateDB, "db", "", "database path")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newExportCmd())

	return rootCmd
}

func runCalibrateCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "subject", &calibrateSubject, fileCfg.Calibration.Subject)
	applyFloatConfig(cmd, "sigma", &calibrateSigma, fileCfg.Calibration.Sigma)
	applyIntConfig(cmd, "gaze-points", &calibrateGazePoints, fileCfg.Calibration.GazePoints)
	applyInt64Config(cmd, "seed", &calibrateSeed, fileCfg.Calibration.Seed)

	cfg := model.Config{
		Subject:    calibrateSubject,
		Sigma:      calibrateSigma,
		GazePoints: calibrateGazePoints,
		Seed:       calibrateSeed,
		DBPath:     resolveDBPath(calibrateDB),
	}

	if err := validateConfig(cfg); err != nil {
		return err
	}

	st, err := store.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	sess := session.New(sampler.New(cfg.Sigma, cfg.Seed))
	sess.SetSubject(cfg.Subject)

	model := tui.NewModel(cfg, st, sess, config.DefaultExportDir())
	program := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show calibration stats",
		RunE:  runStatsCmd,
	}
	cmd.Flags().StringVar(&statsSubject, "subject", "", "subject filter")
	cmd.Flags().StringVar(&statsSince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&statsLast, "last", 0, "limit to last N sessions")
	cmd.Flags().IntVar(&statsCurveWindow, "curve-window", defaultCurveWindow, "moving average window")
	cmd.Flags().StringVar(&statsTargets, "target", "", "target ids for per-target curves (e.g. 1,5,17)")
	cmd.Flags().StringVar(&statsDB, "db", "", "database path")
	return cmd
}

func runStatsCmd(_ *cobra.Command, _ []string) error {
	var sinceTime *time.Time
	if statsSince != "" {
		parsed, err := time.ParseInLocation("2006-01-02", statsSince, time.Local)
		if err != nil {
			return fmt.Errorf("invalid --since value: %w", err)
		}
		sinceTime = &parsed
	}

	cfg := model.StatsConfig{
		Subject:     statsSubject,
		Since:       sinceTime,
		Last:        statsLast,
		CurveWindow: statsCurveWindow,
		Targets:     statsTargets,
	}

	st, err := store.Open(resolveDBPath(statsDB))
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	model := statsui.NewModel(st, cfg)
	program := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run stats TUI: %w", err)
	}
	return nil
}

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a stored session as JSON",
		Args:  cobra.NoArgs,
		RunE:  runExportCmd,
	}
	cmd.Flags().Int64Var(&exportSession, "session", 0, "session id (0 = most recent)")
	cmd.Flags().StringVar(&exportOut, "out", "", "output path (default: export dir)")
	cmd.Flags().StringVar(&exportDB, "db", "", "database path")
	return cmd
}

func runExportCmd(cmd *cobra.Command, _ []string) error {
	st, err := store.Open(resolveDBPath(exportDB))
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	rec, samples, err := st.GetSessionRecord(context.Background(), exportSession)
	if err != nil {
		return fmt.Errorf("failed to load session: %w", err)
	}

	// The raw gaze stream is not persisted, only its size; a re-export
	// carries the calibration samples with an empty gaze_data array.
	snap := export.New(rec.Subject, time.Now(), samples, nil, rec.Calibrated)

	outPath := exportOut
	if outPath == "" {
		outPath = filepath.Join(config.DefaultExportDir(), export.Filename(rec.Subject, rec.EndedAt))
	}
	if err := export.WriteFile(outPath, snap); err != nil {
		return fmt.Errorf("failed to export session: %w", err)
	}
	if _, err := fmt.Fprintln(cmd.OutOrStdout(), outPath); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func resolveDBPath(flag string) string {
	if flag != "" {
		return flag
	}
	return config.DefaultDBPath()
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyInt64Config(cmd *cobra.Command, name string, target, value *int64) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyFloatConfig(cmd *cobra.Command, name string, target, value *float64) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# gazecal configuration
# Uncomment a value to enable it. CLI flags override config values.

[calibration]
# subject = %q      # Subject name
# sigma = %.1f              # Gaze noise standard deviation
# gaze-points = %d          # Points per gaze stream generation
# seed = 0                  # Random seed (0 = time-based)
`,
		session.DefaultSubject,
		sampler.DefaultSigma,
		defaultGazePoints,
	)
}

func validateConfig(cfg model.Config) error {
	if strings.TrimSpace(cfg.Subject) == "" {
		return fmt.Errorf("--subject must not be empty")
	}
	if cfg.Sigma < 0 {
		return fmt.Errorf("--sigma must be >= 0")
	}
	if cfg.GazePoints <= 0 {
		return fmt.Errorf("--gaze-points must be > 0")
	}
	return nil
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
