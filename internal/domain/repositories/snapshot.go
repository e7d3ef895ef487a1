package repositories

import (
	"context"

	"inkwell/internal/domain/models"
)

// SnapshotRepository is the append-only version store. No update or delete
// of individual snapshots is exposed.
type SnapshotRepository interface {
	// Append inserts one immutable snapshot
	Append(ctx context.Context, snap *models.Snapshot) error

	// ListByDocument returns a document's snapshots, newest first
	ListByDocument(ctx context.Context, documentID string) ([]models.Snapshot, error)

	// GetLatest returns the most recent snapshot, or ErrNotFound when the
	// document has none yet
	GetLatest(ctx context.Context, documentID string) (*models.Snapshot, error)
}
