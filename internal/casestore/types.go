// Package casestore persists diagnostic cases so sessions survive restarts
// and concluded cases remain auditable.
package casestore

import (
	"context"
	"io"
	"time"

	"github.com/iei-diagnostic-server/internal/domain"
)

// Summary is the lightweight listing view of a stored case.
type Summary struct {
	CaseID    string    `json:"case_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Steps     int       `json:"steps"`
	Concluded bool      `json:"concluded"`
	// Category and Criterion are set once the case concluded.
	Category  domain.CategoryID    `json:"category,omitempty"`
	Criterion domain.StopCriterion `json:"criterion,omitempty"`
}

// Store defines the interface for case persistence.
type Store interface {
	// Save stores or updates a case by its case ID.
	Save(ctx context.Context, state *domain.BeliefState) error

	// Get retrieves a stored case. Returns domain.ErrNotFound when the case
	// does not exist.
	Get(ctx context.Context, caseID string) (*domain.BeliefState, error)

	// List returns case summaries, newest first, with pagination.
	List(ctx context.Context, limit, offset int) ([]*Summary, error)

	// Count returns the total number of stored cases.
	Count(ctx context.Context) (int64, error)

	// Delete removes a case by ID.
	Delete(ctx context.Context, caseID string) error

	// ExportJSON exports all stored cases to a JSON writer.
	ExportJSON(ctx context.Context, writer io.Writer) error

	// Close closes the store and releases resources.
	Close() error
}

// Export represents the JSON export format.
type Export struct {
	Version    string                `json:"version"`
	ExportedAt time.Time             `json:"exported_at"`
	Count      int                   `json:"count"`
	Cases      []*domain.BeliefState `json:"cases"`
}
