// Seed provisions a demo account with the starting balance and one draft
// document, for local development against a fresh database.
package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"inkwell/internal/config"
	"inkwell/internal/domain/models"
	"inkwell/internal/migrate"
	"inkwell/internal/repository/postgres"
	"inkwell/internal/wordcount"
)

const seedContent = "The lighthouse keeper counted storms the way other people counted birthdays."

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	ctx := context.Background()
	if err := migrate.Up(ctx, cfg.DatabaseURL); err != nil {
		log.Fatalf("Failed to apply migrations: %v", err)
	}

	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to create connection pool: %v", err)
	}
	defer pool.Close()

	repoConfig := &postgres.RepositoryConfig{DB: pool, Logger: logger}
	accounts := postgres.NewAccountRepository(repoConfig)
	documents := postgres.NewDocumentRepository(repoConfig)

	now := time.Now()
	account := &models.Account{
		ID:             cfg.DevAccountID,
		Tokens:         cfg.StartingTokens,
		CurrentStreak:  0,
		LastActivityAt: now,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := accounts.Create(ctx, account); err != nil {
		log.Fatalf("Failed to create demo account: %v", err)
	}

	doc := &models.Document{
		ID:        uuid.NewString(),
		AccountID: account.ID,
		Title:     "First draft",
		Content:   seedContent,
		WordCount: wordcount.Count(seedContent),
		Status:    models.StatusDraft,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := documents.Create(ctx, doc); err != nil {
		log.Fatalf("Failed to create demo document: %v", err)
	}

	logger.Info("seed complete",
		"account_id", account.ID,
		"tokens", account.Tokens,
		"document_id", doc.ID,
	)
}
