package repositories

import (
	"context"

	"inkwell/internal/domain/models"
)

// UsageLogRepository is the append-only audit trail of ledger mutations
type UsageLogRepository interface {
	// Append inserts one usage record
	Append(ctx context.Context, entry *models.UsageLog) error

	// ListByAccount returns recent entries for an account, newest first
	ListByAccount(ctx context.Context, accountID string, limit int) ([]models.UsageLog, error)
}
