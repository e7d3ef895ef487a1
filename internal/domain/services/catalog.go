package services

import (
	"time"

	"inkwell/internal/domain/models"
)

// ChallengeCatalog is the external content provider consulted for daily
// challenges. Implementations own question wording and rewards; the core
// only grades answers against the returned answer key.
type ChallengeCatalog interface {
	// PickDaily returns the challenge assigned to the given day
	PickDaily(day time.Time) *models.Challenge

	// GetByID returns a challenge by ID, or ErrNotFound
	GetByID(id string) (*models.Challenge, error)
}
