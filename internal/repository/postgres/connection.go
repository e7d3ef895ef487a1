package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"inkwell/internal/domain/repositories"
)

// RepositoryConfig holds configuration for repository implementations
type RepositoryConfig struct {
	DB     repositories.Querier
	Logger *slog.Logger
}

// CreateConnectionPool creates a new pgx connection pool and verifies the
// connection with a ping.
func CreateConnectionPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse connection string: %w", err)
	}

	config.MaxConns = 25
	config.MinConns = 5

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	slog.Debug("connection pool created", "max_conns", config.MaxConns, "min_conns", config.MinConns)

	return pool, nil
}

// GetExecutor returns the querier for the context: the transaction when one
// is present, the pooled handle otherwise. This lets repositories join a
// surrounding transaction without knowing about it.
func GetExecutor(ctx context.Context, db repositories.Querier) repositories.Querier {
	if tx := repositories.TxFrom(ctx); tx != nil {
		return tx
	}
	return db
}
