// Package store handles SQLite persistence of completed calibration runs.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/verte-zerg/gazecal/internal/accuracy"
	"github.com/verte-zerg/gazecal/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// Store wraps SQLite access for session history.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS sessions (
			id INTEGER PRIMARY KEY,
			uid TEXT NOT NULL UNIQUE,
			subject TEXT NOT NULL,
			started_at TEXT NOT NULL,
			ended_at TEXT NOT NULL,
			calibrated INTEGER NOT NULL,
			sigma REAL NOT NULL,
			sample_count INTEGER NOT NULL,
			gaze_points INTEGER NOT NULL,
			avg_error REAL NOT NULL,
			accuracy_score REAL NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS session_samples (
			session_id INTEGER NOT NULL,
			point_id INTEGER NOT NULL,
			point_name TEXT NOT NULL,
			target_x REAL NOT NULL,
			target_y REAL NOT NULL,
			gaze_x REAL NOT NULL,
			gaze_y REAL NOT NULL,
			total_error REAL NOT NULL,
			recorded_at TEXT NOT NULL,
			PRIMARY KEY (session_id, point_id)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_ended_at ON sessions(ended_at);`,
		`CREATE INDEX IF NOT EXISTS idx_session_samples_point ON session_samples(point_id);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// InsertSession stores a completed run and its per-target samples.
func (s *Store) InsertSession(ctx context.Context, rec model.SessionRecord, samples []model.Sample) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO sessions (uid, subject, started_at, ended_at, calibrated, sigma, sample_count, gaze_points, avg_error, accuracy_score)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.UID,
		rec.Subject,
		rec.StartedAt.Format(time.RFC3339Nano),
		rec.EndedAt.Format(time.RFC3339Nano),
		rec.Calibrated,
		rec.Sigma,
		rec.SampleCount,
		rec.GazePoints,
		rec.AverageError,
		rec.AccuracyScore,
	)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	if len(samples) > 0 {
		stmt, err := tx.PrepareContext(ctx,
			`INSERT INTO session_samples (session_id, point_id, point_name, target_x, target_y, gaze_x, gaze_y, total_error, recorded_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return 0, err
		}
		defer func() {
			if cerr := stmt.Close(); cerr != nil {
				// Best-effort statement close.
				_ = cerr
			}
		}()
		for _, sample := range samples {
			if _, err := stmt.ExecContext(ctx,
				id,
				sample.TargetID,
				sample.TargetName,
				sample.TargetX,
				sample.TargetY,
				sample.GazeX,
				sample.GazeY,
				accuracy.PerSample(sample).Total,
				sample.RecordedAt.Format(time.RFC3339Nano),
			); err != nil {
				return 0, err
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return id, nil
}

// ListSessions returns session aggregates filtered by stats config.
func (s *Store) ListSessions(ctx context.Context, cfg model.StatsConfig) ([]model.SessionAggregate, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if cfg.Subject != "" {
		clauses = append(clauses, "subject = ?")
		args = append(args, cfg.Subject)
	}
	if cfg.Since != nil {
		clauses = append(clauses, "ended_at >= ?")
		args = append(args, cfg.Since.Format(time.RFC3339Nano))
	}
	query := fmt.Sprintf(`SELECT id, ended_at, sample_count, avg_error, accuracy_score
		FROM sessions
		WHERE %s
		ORDER BY ended_at ASC`, strings.Join(clauses, " AND "))
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var sessions []model.SessionAggregate
	for rows.Next() {
		var agg model.SessionAggregate
		var endedAt string
		if err := rows.Scan(&agg.SessionID, &endedAt, &agg.SampleCount, &agg.AverageError, &agg.AccuracyScore); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(time.RFC3339Nano, endedAt)
		if err != nil {
			return nil, err
		}
		agg.EndedAt = parsed
		sessions = append(sessions, agg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return sessions, nil
}

// GetSessionRecord loads the full stored record for a session, or the most
// recent one when id is 0.
func (s *Store) GetSessionRecord(ctx context.Context, id int64) (model.SessionRecord, []model.Sample, error) {
	query := `SELECT id, uid, subject, started_at, ended_at, calibrated, sigma, sample_count, gaze_points, avg_error, accuracy_score
		FROM sessions`
	args := []any{}
	if id > 0 {
		query += ` WHERE id = ?`
		args = append(args, id)
	} else {
		query += ` ORDER BY ended_at DESC LIMIT 1`
	}

	var rec model.SessionRecord
	var rowID int64
	var startedAt, endedAt string
	err := s.db.QueryRowContext(ctx, query, args...).Scan(
		&rowID, &rec.UID, &rec.Subject, &startedAt, &endedAt,
		&rec.Calibrated, &rec.Sigma, &rec.SampleCount, &rec.GazePoints,
		&rec.AverageError, &rec.AccuracyScore,
	)
	if err != nil {
		return model.SessionRecord{}, nil, err
	}
	if rec.StartedAt, err = time.Parse(time.RFC3339Nano, startedAt); err != nil {
		return model.SessionRecord{}, nil, err
	}
	if rec.EndedAt, err = time.Parse(time.RFC3339Nano, endedAt); err != nil {
		return model.SessionRecord{}, nil, err
	}

	samples, err := s.listSamples(ctx, rowID, rec.Subject)
	if err != nil {
		return model.SessionRecord{}, nil, err
	}
	return rec, samples, nil
}

func (s *Store) listSamples(ctx context.Context, sessionID int64, subject string) ([]model.Sample, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT point_id, point_name, target_x, target_y, gaze_x, gaze_y, recorded_at
		 FROM session_samples
		 WHERE session_id = ?
		 ORDER BY point_id ASC`, sessionID)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var samples []model.Sample
	for rows.Next() {
		var sample model.Sample
		var recordedAt string
		if err := rows.Scan(&sample.TargetID, &sample.TargetName, &sample.TargetX, &sample.TargetY,
			&sample.GazeX, &sample.GazeY, &recordedAt); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(time.RFC3339Nano, recordedAt)
		if err != nil {
			return nil, err
		}
		sample.RecordedAt = parsed
		sample.Subject = subject
		samples = append(samples, sample)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return samples, nil
}

// ListTargetAggregatesForSessions aggregates per-target error across sessions.
func (s *Store) ListTargetAggregatesForSessions(ctx context.Context, sessionIDs []int64) ([]model.TargetAggregate, error) {
	if len(sessionIDs) == 0 {
		return nil, nil
	}
	placeholders := make([]string, len(sessionIDs))
	args := make([]any, len(sessionIDs))
	for i, id := range sessionIDs {
		placeholders[i] = "?"
		args[i] = id
	}
	query := fmt.Sprintf(`SELECT point_id, point_name, COUNT(*) AS samples, SUM(total_error) AS error_sum
		FROM session_samples
		WHERE session_id IN (%s)
		GROUP BY point_id, point_name
		ORDER BY point_id ASC`, strings.Join(placeholders, ","))
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var result []model.TargetAggregate
	for rows.Next() {
		var agg model.TargetAggregate
		if err := rows.Scan(&agg.TargetID, &agg.TargetName, &agg.Samples, &agg.ErrorSum); err != nil {
			return nil, err
		}
		result = append(result, agg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// ListTargetErrorsForSessions returns per-session errors for selected targets.
func (s *Store) ListTargetErrorsForSessions(ctx context.Context, sessionIDs []int64, targetIDs []int) (map[int64]map[int]model.TargetAggregate, error) {
	if len(sessionIDs) == 0 || len(targetIDs) == 0 {
		return map[int64]map[int]model.TargetAggregate{}, nil
	}
	idPlaceholders := make([]string, len(sessionIDs))
	args := make([]any, 0, len(sessionIDs)+len(targetIDs))
	for i, id := range sessionIDs {
		idPlaceholders[i] = "?"
		args = append(args, id)
	}
	targetPlaceholders := make([]string, len(targetIDs))
	for i, id := range targetIDs {
		targetPlaceholders[i] = "?"
		args = append(args, id)
	}

	query := fmt.Sprintf(`SELECT session_id, point_id, point_name, total_error
		FROM session_samples
		WHERE session_id IN (%s) AND point_id IN (%s)`,
		strings.Join(idPlaceholders, ","), strings.Join(targetPlaceholders, ","))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	result := map[int64]map[int]model.TargetAggregate{}
	for rows.Next() {
		var sessionID int64
		var agg model.TargetAggregate
		if err := rows.Scan(&sessionID, &agg.TargetID, &agg.TargetName, &agg.ErrorSum); err != nil {
			return nil, err
		}
		agg.Samples = 1
		if _, ok := result[sessionID]; !ok {
			result[sessionID] = map[int]model.TargetAggregate{}
		}
		result[sessionID][agg.TargetID] = agg
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
