package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"inkwell/internal/domain/models"
	"inkwell/internal/domain/repositories"
)

// PostgresUsageLogRepository implements the UsageLogRepository interface
type PostgresUsageLogRepository struct {
	db     repositories.Querier
	logger *slog.Logger
}

// NewUsageLogRepository creates a new usage log repository
func NewUsageLogRepository(config *RepositoryConfig) repositories.UsageLogRepository {
	return &PostgresUsageLogRepository{
		db:     config.DB,
		logger: config.Logger,
	}
}

// Append inserts one usage record
func (r *PostgresUsageLogRepository) Append(ctx context.Context, entry *models.UsageLog) error {
	query := `
		INSERT INTO usage_logs (id, account_id, action, amount, detail, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	exec := GetExecutor(ctx, r.db)
	_, err := exec.Exec(ctx, query,
		entry.ID,
		entry.AccountID,
		entry.Action,
		entry.Amount,
		entry.Detail,
		entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("append usage log: %w", classifyTransient(err))
	}

	return nil
}

// ListByAccount returns recent entries for an account, newest first
func (r *PostgresUsageLogRepository) ListByAccount(ctx context.Context, accountID string, limit int) ([]models.UsageLog, error) {
	query := `
		SELECT id, account_id, action, amount, detail, created_at
		FROM usage_logs
		WHERE account_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	exec := GetExecutor(ctx, r.db)
	rows, err := exec.Query(ctx, query, accountID, limit)
	if err != nil {
		return nil, fmt.Errorf("list usage logs: %w", classifyTransient(err))
	}
	defer rows.Close()

	var entries []models.UsageLog
	for rows.Next() {
		var entry models.UsageLog
		err := rows.Scan(
			&entry.ID,
			&entry.AccountID,
			&entry.Action,
			&entry.Amount,
			&entry.Detail,
			&entry.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan usage log: %w", err)
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate usage logs: %w", classifyTransient(err))
	}

	return entries, nil
}
