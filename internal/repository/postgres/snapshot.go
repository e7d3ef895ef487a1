package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"inkwell/internal/domain"
	"inkwell/internal/domain/models"
	"inkwell/internal/domain/repositories"
)

// PostgresSnapshotRepository implements the SnapshotRepository interface.
// The table is append-only: no update or per-row delete statements exist.
type PostgresSnapshotRepository struct {
	db     repositories.Querier
	logger *slog.Logger
}

// NewSnapshotRepository creates a new snapshot repository
func NewSnapshotRepository(config *RepositoryConfig) repositories.SnapshotRepository {
	return &PostgresSnapshotRepository{
		db:     config.DB,
		logger: config.Logger,
	}
}

// Append inserts one immutable snapshot
func (r *PostgresSnapshotRepository) Append(ctx context.Context, snap *models.Snapshot) error {
	query := `
		INSERT INTO snapshots (id, document_id, content, word_count, stage, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	exec := GetExecutor(ctx, r.db)
	_, err := exec.Exec(ctx, query,
		snap.ID,
		snap.DocumentID,
		snap.Content,
		snap.WordCount,
		snap.Stage,
		snap.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("append snapshot: %w", classifyTransient(err))
	}

	return nil
}

// ListByDocument returns a document's snapshots, newest first
func (r *PostgresSnapshotRepository) ListByDocument(ctx context.Context, documentID string) ([]models.Snapshot, error) {
	query := `
		SELECT id, document_id, content, word_count, stage, created_at
		FROM snapshots
		WHERE document_id = $1
		ORDER BY created_at DESC
	`

	exec := GetExecutor(ctx, r.db)
	rows, err := exec.Query(ctx, query, documentID)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", classifyTransient(err))
	}
	defer rows.Close()

	var snapshots []models.Snapshot
	for rows.Next() {
		var snap models.Snapshot
		err := rows.Scan(
			&snap.ID,
			&snap.DocumentID,
			&snap.Content,
			&snap.WordCount,
			&snap.Stage,
			&snap.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		snapshots = append(snapshots, snap)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate snapshots: %w", classifyTransient(err))
	}

	return snapshots, nil
}

// GetLatest returns the most recent snapshot, or ErrNotFound when the
// document has none yet
func (r *PostgresSnapshotRepository) GetLatest(ctx context.Context, documentID string) (*models.Snapshot, error) {
	query := `
		SELECT id, document_id, content, word_count, stage, created_at
		FROM snapshots
		WHERE document_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`

	exec := GetExecutor(ctx, r.db)
	var snap models.Snapshot
	err := exec.QueryRow(ctx, query, documentID).Scan(
		&snap.ID,
		&snap.DocumentID,
		&snap.Content,
		&snap.WordCount,
		&snap.Stage,
		&snap.CreatedAt,
	)
	if err != nil {
		if isPgNoRowsError(err) {
			return nil, fmt.Errorf("latest snapshot for document %s: %w", documentID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get latest snapshot: %w", classifyTransient(err))
	}

	return &snap, nil
}
