package services

import (
	"context"

	"inkwell/internal/domain/models"
)

// CreateDocumentRequest is the request for creating a document
type CreateDocumentRequest struct {
	AccountID string `json:"-"`
	Title     string `json:"title"`
	Content   string `json:"content"`
}

// SaveDocumentRequest is the request for saving new content
type SaveDocumentRequest struct {
	AccountID  string `json:"-"`
	DocumentID string `json:"-"`
	Content    string `json:"content"`
}

// FinishDocumentRequest is the request for the terminal finish operation
type FinishDocumentRequest struct {
	AccountID  string  `json:"-"`
	DocumentID string  `json:"-"`
	Reflection *string `json:"reflection,omitempty"`
}

// SaveResult reports the derived state after a save
type SaveResult struct {
	WordCount       int                   `json:"word_count"`
	IsUnlocked      bool                  `json:"is_unlocked"`
	WordsToUnlock   int                   `json:"words_to_unlock"`
	SnapshotCreated bool                  `json:"snapshot_created"`
	SnapshotStage   *models.SnapshotStage `json:"snapshot_stage,omitempty"`
}

// ProgressService tracks writing progress: word counts, the AI unlock gate,
// and the snapshot history of every document.
type ProgressService interface {
	CreateDocument(ctx context.Context, req *CreateDocumentRequest) (*models.Document, error)
	GetDocument(ctx context.Context, accountID, documentID string) (*models.Document, error)
	ListDocuments(ctx context.Context, accountID string) ([]models.Document, error)
	SaveDocument(ctx context.Context, req *SaveDocumentRequest) (*SaveResult, error)
	FinishDocument(ctx context.Context, req *FinishDocumentRequest) (*models.Document, error)
	GetSnapshots(ctx context.Context, accountID, documentID string) ([]models.Snapshot, error)
	DeleteDocument(ctx context.Context, accountID, documentID string) error
}
