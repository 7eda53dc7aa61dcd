// Package store persists completed design bundles to a write-once SQLite
// record store. Records are insert-only: saving a bundle with an ID that
// already exists is an error, and nothing is ever updated in place.
package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/Ruhal-Doshi/hld-bench/internal/design"
	"github.com/Ruhal-Doshi/hld-bench/internal/grade"
)

// ErrNotFound is returned by Get when no record has the requested ID.
var ErrNotFound = errors.New("store: record not found")

// Store handles SQLite operations for the benchmark record log.
type Store struct {
	db *sql.DB
}

// Open opens (creating if necessary) the record store at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", "file:"+path+"?_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)")
	if err != nil {
		return nil, fmt.Errorf("store: open database: %w", err)
	}
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: migrate: %w", err)
	}
	return s, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS bundles (
		id TEXT PRIMARY KEY,
		problem_id TEXT NOT NULL,
		provider TEXT NOT NULL,
		model TEXT NOT NULL,
		outcome TEXT NOT NULL,
		score INTEGER NOT NULL,
		attempts INTEGER NOT NULL,
		constrained INTEGER NOT NULL DEFAULT 0,
		diagrams_repaired INTEGER NOT NULL DEFAULT 0,
		elapsed_ms INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME NOT NULL,
		bundle_json TEXT NOT NULL,
		markdown TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_bundles_problem ON bundles(problem_id);
	CREATE INDEX IF NOT EXISTS idx_bundles_model ON bundles(provider, model);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Save inserts a bundle and its rendered markdown. The store is write-once:
// a duplicate ID is rejected by the primary key, not overwritten.
func (s *Store) Save(b *design.Bundle, markdown string) error {
	if b == nil {
		return fmt.Errorf("store: nil bundle")
	}
	bundleJSON, err := json.Marshal(b)
	if err != nil {
		return fmt.Errorf("store: encode bundle: %w", err)
	}
	_, err = s.db.Exec(`
		INSERT INTO bundles (
			id, problem_id, provider, model, outcome, score, attempts,
			constrained, diagrams_repaired, elapsed_ms, created_at,
			bundle_json, markdown
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		b.ID, b.ProblemID, b.Provider, b.Model, string(b.Outcome), b.Score,
		b.Attempts, boolToInt(b.Constrained), b.DiagramsRepaired,
		b.Elapsed.Milliseconds(), b.CreatedAt, string(bundleJSON), markdown,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return fmt.Errorf("store: record %s already exists (records are write-once): %w", b.ID, err)
		}
		return fmt.Errorf("store: insert %s: %w", b.ID, err)
	}
	return nil
}

// Get returns the bundle and rendered markdown for id.
func (s *Store) Get(id string) (*design.Bundle, string, error) {
	var bundleJSON, markdown string
	err := s.db.QueryRow(
		`SELECT bundle_json, markdown FROM bundles WHERE id = ?`, id,
	).Scan(&bundleJSON, &markdown)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, "", fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, "", fmt.Errorf("store: get %s: %w", id, err)
	}
	var b design.Bundle
	if err := json.Unmarshal([]byte(bundleJSON), &b); err != nil {
		return nil, "", fmt.Errorf("store: decode %s: %w", id, err)
	}
	return &b, markdown, nil
}

// Summary is one row of the benchmark log listing.
type Summary struct {
	ID        string
	ProblemID string
	Provider  string
	Model     string
	Outcome   grade.Outcome
	Score     int
	CreatedAt time.Time
}

// List returns summaries of all stored bundles, newest first.
func (s *Store) List() ([]Summary, error) {
	rows, err := s.db.Query(`
		SELECT id, problem_id, provider, model, outcome, score, created_at
		FROM bundles ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("store: list: %w", err)
	}
	defer rows.Close()

	var out []Summary
	for rows.Next() {
		var sum Summary
		var outcome string
		if err := rows.Scan(&sum.ID, &sum.ProblemID, &sum.Provider, &sum.Model,
			&outcome, &sum.Score, &sum.CreatedAt); err != nil {
			return nil, fmt.Errorf("store: scan: %w", err)
		}
		sum.Outcome = grade.Outcome(outcome)
		out = append(out, sum)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: list rows: %w", err)
	}
	return out, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
