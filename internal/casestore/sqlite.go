package casestore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/iei-diagnostic-server/internal/domain"
)

// SQLiteStore implements the Store interface using SQLite.
type SQLiteStore struct {
	db     *sql.DB
	dbPath string
}

// NewSQLiteStore creates a new SQLite case store.
// It creates the database file and schema if they don't exist.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	// Ensure directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	// Open database
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set WAL mode: %w", err)
	}

	// Create schema
	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return &SQLiteStore{
		db:     db,
		dbPath: dbPath,
	}, nil
}

// createSchema creates the database tables and indexes. The full belief state
// is stored as a JSON document; the indexed columns are denormalized for
// listing and filtering without decoding every row.
func createSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS cases (
		case_id TEXT PRIMARY KEY,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL,
		steps INTEGER NOT NULL DEFAULT 0,
		concluded INTEGER NOT NULL DEFAULT 0,
		category TEXT DEFAULT '',
		criterion TEXT DEFAULT '',
		state TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_cases_created_at ON cases(created_at);
	CREATE INDEX IF NOT EXISTS idx_cases_concluded ON cases(concluded);
	`

	_, err := db.Exec(schema)
	return err
}

// Save stores or updates a case by its case ID.
func (s *SQLiteStore) Save(ctx context.Context, state *domain.BeliefState) error {
	doc, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to encode case %s: %w", state.CaseID, err)
	}

	var category domain.CategoryID
	var criterion domain.StopCriterion
	if state.Conclusion != nil {
		category = state.Conclusion.Category
		criterion = state.Conclusion.Criterion
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO cases (case_id, created_at, updated_at, steps, concluded, category, criterion, state)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(case_id) DO UPDATE SET
			updated_at = excluded.updated_at,
			steps = excluded.steps,
			concluded = excluded.concluded,
			category = excluded.category,
			criterion = excluded.criterion,
			state = excluded.state
	`,
		state.CaseID,
		state.CreatedAt,
		time.Now().UTC(),
		len(state.Steps),
		state.Concluded(),
		string(category),
		string(criterion),
		string(doc),
	)
	if err != nil {
		return fmt.Errorf("failed to save case %s: %w", state.CaseID, err)
	}
	return nil
}

// Get retrieves a stored case by ID.
func (s *SQLiteStore) Get(ctx context.Context, caseID string) (*domain.BeliefState, error) {
	var doc string
	err := s.db.QueryRowContext(ctx,
		"SELECT state FROM cases WHERE case_id = ?", caseID,
	).Scan(&doc)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("case %s: %w", caseID, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query case %s: %w", caseID, err)
	}

	state := &domain.BeliefState{}
	if err := json.Unmarshal([]byte(doc), state); err != nil {
		return nil, fmt.Errorf("failed to decode case %s: %w", caseID, err)
	}
	return state, nil
}

// List returns case summaries, newest first, with pagination.
func (s *SQLiteStore) List(ctx context.Context, limit, offset int) ([]*Summary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT case_id, created_at, updated_at, steps, concluded, category, criterion
		FROM cases
		ORDER BY created_at DESC
		LIMIT ? OFFSET ?
	`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query: %w", err)
	}
	defer rows.Close()

	var result []*Summary
	for rows.Next() {
		sum := &Summary{}
		var category, criterion string
		if err := rows.Scan(
			&sum.CaseID, &sum.CreatedAt, &sum.UpdatedAt,
			&sum.Steps, &sum.Concluded, &category, &criterion,
		); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		sum.Category = domain.CategoryID(category)
		sum.Criterion = domain.StopCriterion(criterion)
		result = append(result, sum)
	}
	return result, rows.Err()
}

// Count returns the total number of stored cases.
func (s *SQLiteStore) Count(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM cases").Scan(&count)
	return count, err
}

// Delete removes a case by ID.
func (s *SQLiteStore) Delete(ctx context.Context, caseID string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM cases WHERE case_id = ?", caseID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("case %s: %w", caseID, domain.ErrNotFound)
	}
	return nil
}

// maxExportLimit is the maximum number of cases to export at once.
const maxExportLimit = 1000000

// ExportJSON exports all stored cases to a JSON writer.
func (s *SQLiteStore) ExportJSON(ctx context.Context, writer io.Writer) error {
	summaries, err := s.List(ctx, maxExportLimit, 0)
	if err != nil {
		return fmt.Errorf("failed to list cases: %w", err)
	}

	cases := make([]*domain.BeliefState, 0, len(summaries))
	for _, sum := range summaries {
		state, err := s.Get(ctx, sum.CaseID)
		if err != nil {
			return fmt.Errorf("failed to load case %s: %w", sum.CaseID, err)
		}
		cases = append(cases, state)
	}

	export := &Export{
		Version:    "1.0",
		ExportedAt: time.Now().UTC(),
		Count:      len(cases),
		Cases:      cases,
	}

	encoder := json.NewEncoder(writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(export)
}

// Close closes the store and releases resources.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
