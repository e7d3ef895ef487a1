package models

import (
	"time"
)

// DocumentStatus is the lifecycle state of a document.
type DocumentStatus string

const (
	StatusDraft DocumentStatus = "DRAFT"
	StatusFinal DocumentStatus = "FINAL"
)

// SnapshotStage classifies why a snapshot was taken.
type SnapshotStage string

const (
	StageInitialDraft   SnapshotStage = "INITIAL_DRAFT"
	StagePostAIFeedback SnapshotStage = "POST_AI_FEEDBACK"
	StageFinalVersion   SnapshotStage = "FINAL_VERSION"
)

// Document holds the raw text and its derived word count. The word count is
// recomputed from content on every save, never edited independently.
type Document struct {
	ID         string         `json:"id" db:"id"`
	AccountID  string         `json:"account_id" db:"account_id"`
	Title      string         `json:"title" db:"title"`
	Content    string         `json:"content" db:"content"`
	WordCount  int            `json:"word_count" db:"word_count"`
	Status     DocumentStatus `json:"status" db:"status"`
	Reflection *string        `json:"reflection,omitempty" db:"reflection"` // set once by the finish operation
	CreatedAt  time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at" db:"updated_at"`
}

// Snapshot is an immutable copy of a document's content at a point in time.
// Snapshots are append-only and are removed only by whole-document deletion.
type Snapshot struct {
	ID         string        `json:"id" db:"id"`
	DocumentID string        `json:"document_id" db:"document_id"`
	Content    string        `json:"content" db:"content"`
	WordCount  int           `json:"word_count" db:"word_count"`
	Stage      SnapshotStage `json:"stage" db:"stage"`
	CreatedAt  time.Time     `json:"created_at" db:"created_at"`
}
