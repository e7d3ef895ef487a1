package repositories

import (
	"context"

	"inkwell/internal/domain/models"
)

// DocumentRepository defines document storage operations
type DocumentRepository interface {
	// Create inserts a new document
	Create(ctx context.Context, doc *models.Document) error

	// GetByID retrieves a document by ID
	GetByID(ctx context.Context, id string) (*models.Document, error)

	// GetByIDForUpdate retrieves a document and holds its row lock for the
	// remainder of the surrounding transaction. Save and finish take this
	// lock so a document can only transition to FINAL once.
	GetByIDForUpdate(ctx context.Context, id string) (*models.Document, error)

	// Update persists new content, word count, status and reflection
	Update(ctx context.Context, doc *models.Document) error

	// ListByAccount lists document metadata for an account, newest first
	ListByAccount(ctx context.Context, accountID string) ([]models.Document, error)

	// Delete removes a document; snapshots cascade
	Delete(ctx context.Context, id string) error
}
