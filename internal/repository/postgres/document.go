package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"inkwell/internal/domain"
	"inkwell/internal/domain/models"
	"inkwell/internal/domain/repositories"
)

// PostgresDocumentRepository implements the DocumentRepository interface
type PostgresDocumentRepository struct {
	db     repositories.Querier
	logger *slog.Logger
}

// NewDocumentRepository creates a new document repository
func NewDocumentRepository(config *RepositoryConfig) repositories.DocumentRepository {
	return &PostgresDocumentRepository{
		db:     config.DB,
		logger: config.Logger,
	}
}

// Create inserts a new document
func (r *PostgresDocumentRepository) Create(ctx context.Context, doc *models.Document) error {
	query := `
		INSERT INTO documents (id, account_id, title, content, word_count, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	exec := GetExecutor(ctx, r.db)
	_, err := exec.Exec(ctx, query,
		doc.ID,
		doc.AccountID,
		doc.Title,
		doc.Content,
		doc.WordCount,
		doc.Status,
		doc.CreatedAt,
		doc.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create document: %w", classifyTransient(err))
	}

	return nil
}

// GetByID retrieves a document by ID
func (r *PostgresDocumentRepository) GetByID(ctx context.Context, id string) (*models.Document, error) {
	query := `
		SELECT id, account_id, title, content, word_count, status, reflection, created_at, updated_at
		FROM documents
		WHERE id = $1
	`
	return r.scanDocument(ctx, query, id)
}

// GetByIDForUpdate retrieves a document holding its row lock until the
// surrounding transaction ends. Only meaningful inside ExecTx.
func (r *PostgresDocumentRepository) GetByIDForUpdate(ctx context.Context, id string) (*models.Document, error) {
	query := `
		SELECT id, account_id, title, content, word_count, status, reflection, created_at, updated_at
		FROM documents
		WHERE id = $1
		FOR UPDATE
	`
	return r.scanDocument(ctx, query, id)
}

func (r *PostgresDocumentRepository) scanDocument(ctx context.Context, query, id string) (*models.Document, error) {
	exec := GetExecutor(ctx, r.db)
	var doc models.Document
	err := exec.QueryRow(ctx, query, id).Scan(
		&doc.ID,
		&doc.AccountID,
		&doc.Title,
		&doc.Content,
		&doc.WordCount,
		&doc.Status,
		&doc.Reflection,
		&doc.CreatedAt,
		&doc.UpdatedAt,
	)
	if err != nil {
		if isPgNoRowsError(err) {
			return nil, fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get document: %w", classifyTransient(err))
	}

	return &doc, nil
}

// Update persists content, word count, status and reflection
func (r *PostgresDocumentRepository) Update(ctx context.Context, doc *models.Document) error {
	query := `
		UPDATE documents
		SET title = $1, content = $2, word_count = $3, status = $4, reflection = $5, updated_at = $6
		WHERE id = $7
	`

	exec := GetExecutor(ctx, r.db)
	result, err := exec.Exec(ctx, query,
		doc.Title,
		doc.Content,
		doc.WordCount,
		doc.Status,
		doc.Reflection,
		doc.UpdatedAt,
		doc.ID,
	)
	if err != nil {
		return fmt.Errorf("update document: %w", classifyTransient(err))
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("document %s: %w", doc.ID, domain.ErrNotFound)
	}

	return nil
}

// ListByAccount lists document metadata for an account, newest first.
// Content is omitted to keep listings light.
func (r *PostgresDocumentRepository) ListByAccount(ctx context.Context, accountID string) ([]models.Document, error) {
	query := `
		SELECT id, account_id, title, word_count, status, created_at, updated_at
		FROM documents
		WHERE account_id = $1
		ORDER BY updated_at DESC
	`

	exec := GetExecutor(ctx, r.db)
	rows, err := exec.Query(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", classifyTransient(err))
	}
	defer rows.Close()

	var documents []models.Document
	for rows.Next() {
		var doc models.Document
		err := rows.Scan(
			&doc.ID,
			&doc.AccountID,
			&doc.Title,
			&doc.WordCount,
			&doc.Status,
			&doc.CreatedAt,
			&doc.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		documents = append(documents, doc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate documents: %w", classifyTransient(err))
	}

	return documents, nil
}

// Delete removes a document; snapshots cascade at the schema level
func (r *PostgresDocumentRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM documents WHERE id = $1`

	exec := GetExecutor(ctx, r.db)
	result, err := exec.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete document: %w", classifyTransient(err))
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
	}

	return nil
}
