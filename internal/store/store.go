// Package store persists aggregation batches for reporting and serving.
package store

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/ssot-cli/internal/model"
)

// ErrNotFound is returned when a requested batch does not exist.
var ErrNotFound = eris.New("store: not found")

// ConflictFilter specifies criteria for listing conflicts.
type ConflictFilter struct {
	BatchID string `json:"batch_id,omitempty"`
	Slug    string `json:"slug,omitempty"`
	Field   string `json:"field,omitempty"`
	Limit   int    `json:"limit,omitempty"`
}

// Store defines the persistence interface for aggregation results.
type Store interface {
	// SaveBatch persists one batch with its canonical rows and conflicts.
	SaveBatch(ctx context.Context, result *model.BatchResult) error

	// LatestBatchID returns the most recently generated batch id, or
	// ErrNotFound when nothing has been saved.
	LatestBatchID(ctx context.Context) (string, error)

	// ListCanonical returns a batch's canonical rows in saved order.
	ListCanonical(ctx context.Context, batchID string) ([]model.CanonicalRecord, error)

	// ListConflicts returns conflicts matching the filter.
	ListConflicts(ctx context.Context, filter ConflictFilter) ([]model.ConflictRecord, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}
