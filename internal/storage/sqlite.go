// Package storage provides SQLite-based persistence for the hall of fame and
// the unlock sets that outlive a run.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// HallSize is the number of entries the hall of fame keeps.
const HallSize = 10

// ErrNotFound is returned when a key has never been saved.
var ErrNotFound = errors.New("storage: not found")

// Store manages the SQLite database connection.
type Store struct {
	db *sql.DB
}

// ScoreEntry represents a single hall of fame record.
type ScoreEntry struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Score     int       `json:"score"`
	Ending    string    `json:"endingTitle,omitempty"` // empty when the player died
	Staff     string    `json:"staff,omitempty"`
	RunID     string    `json:"runId,omitempty"`
	CreatedAt time.Time `json:"date"`
}

// Stats summarize the recorded hall of fame.
type Stats struct {
	Entries    int
	Best       int
	Average    float64
	WithEnding int
}

// Open creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}
	// SQLite allows a single writer.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS scores (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			score INTEGER NOT NULL,
			ending TEXT NOT NULL DEFAULT '',
			staff TEXT NOT NULL DEFAULT '',
			run_id TEXT NOT NULL DEFAULT '',
			created_at TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_scores_top ON scores(score DESC);

		CREATE TABLE IF NOT EXISTS kv (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// RecordScore adds e to the hall of fame and drops whatever falls out of the
// top HallSize. Ties keep the earlier entry.
func (s *Store) RecordScore(e ScoreEntry) error {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("storage: cannot begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(
		`INSERT INTO scores (name, score, ending, staff, run_id, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		e.Name, e.Score, e.Ending, e.Staff, e.RunID, e.CreatedAt.Format(time.RFC3339Nano),
	); err != nil {
		return fmt.Errorf("storage: cannot save score: %w", err)
	}

	if _, err := tx.Exec(
		`DELETE FROM scores WHERE id NOT IN (
			SELECT id FROM scores ORDER BY score DESC, id ASC LIMIT ?
		)`,
		HallSize,
	); err != nil {
		return fmt.Errorf("storage: cannot trim scores: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage: cannot commit: %w", err)
	}
	return nil
}

// TopScores retrieves the top N scores, best first.
func (s *Store) TopScores(limit int) ([]ScoreEntry, error) {
	if limit <= 0 {
		limit = HallSize
	}

	rows, err := s.db.Query(
		`SELECT id, name, score, ending, staff, run_id, created_at
		 FROM scores
		 ORDER BY score DESC, id ASC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query scores: %w", err)
	}
	defer rows.Close()

	var entries []ScoreEntry
	for rows.Next() {
		var e ScoreEntry
		var createdAt string
		if err := rows.Scan(&e.ID, &e.Name, &e.Score, &e.Ending, &e.Staff, &e.RunID, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		if parsed, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
			e.CreatedAt = parsed
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return entries, nil
}

// HighScore returns the best recorded score, or 0 when the hall is empty.
func (s *Store) HighScore() (int, error) {
	var score sql.NullInt64
	if err := s.db.QueryRow("SELECT MAX(score) FROM scores").Scan(&score); err != nil {
		return 0, fmt.Errorf("storage: cannot query high score: %w", err)
	}
	if !score.Valid {
		return 0, nil
	}
	return int(score.Int64), nil
}

// ClearScores empties the hall of fame.
func (s *Store) ClearScores() error {
	if _, err := s.db.Exec("DELETE FROM scores"); err != nil {
		return fmt.Errorf("storage: cannot clear scores: %w", err)
	}
	return nil
}

// Stats summarizes the hall of fame.
func (s *Store) Stats() (Stats, error) {
	var st Stats
	var best sql.NullInt64
	var avg sql.NullFloat64
	err := s.db.QueryRow(
		`SELECT COUNT(*), MAX(score), AVG(score), COALESCE(SUM(ending != ''), 0) FROM scores`,
	).Scan(&st.Entries, &best, &avg, &st.WithEnding)
	if err != nil {
		return Stats{}, fmt.Errorf("storage: cannot query stats: %w", err)
	}
	st.Best = int(best.Int64)
	st.Average = avg.Float64
	return st, nil
}

// Load decodes the JSON value saved under key into v.
func (s *Store) Load(key string, v any) error {
	var raw string
	err := s.db.QueryRow("SELECT value FROM kv WHERE key = ?", key).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("storage: cannot load %s: %w", key, err)
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return fmt.Errorf("storage: cannot decode %s: %w", key, err)
	}
	return nil
}

// Save stores v as JSON under key, replacing any previous value.
func (s *Store) Save(key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("storage: cannot encode %s: %w", key, err)
	}
	_, err = s.db.Exec(
		`INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, string(raw), time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("storage: cannot save %s: %w", key, err)
	}
	return nil
}

// Strings returns the string set saved under key. A missing key is an empty
// set.
func (s *Store) Strings(key string) ([]string, error) {
	var vals []string
	if err := s.Load(key, &vals); err != nil && !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	return vals, nil
}

// SaveStrings replaces the string set saved under key.
func (s *Store) SaveStrings(key string, values []string) error {
	if values == nil {
		values = []string{}
	}
	return s.Save(key, values)
}
