package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"inkwell/internal/auth"
	"inkwell/internal/catalog"
	"inkwell/internal/clock"
	"inkwell/internal/config"
	"inkwell/internal/handler"
	"inkwell/internal/middleware"
	"inkwell/internal/migrate"
	"inkwell/internal/repository/postgres"
	"inkwell/internal/service/gamification"
	"inkwell/internal/service/progress"

	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	cfg := config.Load()

	// Setup structured logging
	logLevel := slog.LevelInfo
	if cfg.Environment == "dev" {
		logLevel = slog.LevelDebug
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"unlock_threshold", cfg.UnlockThreshold,
		"snapshot_cooldown", cfg.SnapshotCooldown.String(),
	)

	// Apply migrations before opening the pool
	ctx := context.Background()
	if err := migrate.Up(ctx, cfg.DatabaseURL); err != nil {
		log.Fatalf("Failed to apply migrations: %v", err)
	}

	// Create pgx connection pool
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to create connection pool: %v", err)
	}
	defer pool.Close()

	logger.Info("database connected")

	// Token verifier: JWKS in production, static account in dev
	var verifier auth.Verifier
	if cfg.JWKSURL != "" {
		verifier, err = auth.NewJWTVerifier(cfg.JWKSURL, logger)
	} else if cfg.Environment != "prod" {
		verifier, err = auth.NewStaticVerifier(cfg.DevAccountID)
		logger.Warn("DEV MODE: static verifier in use, every request acts as the dev account")
	} else {
		log.Fatal("JWKS_URL is required in production")
	}
	if err != nil {
		log.Fatalf("Failed to create verifier: %v", err)
	}
	defer verifier.Close()

	// Create repositories
	repoConfig := &postgres.RepositoryConfig{
		DB:     pool,
		Logger: logger,
	}
	accountRepo := postgres.NewAccountRepository(repoConfig)
	docRepo := postgres.NewDocumentRepository(repoConfig)
	snapshotRepo := postgres.NewSnapshotRepository(repoConfig)
	usageLogRepo := postgres.NewUsageLogRepository(repoConfig)
	txManager := postgres.NewTransactionManager(pool, logger)

	// Challenge catalog (embedded content); rotates on the same calendar-day
	// boundary the gamification service uses
	challengeCatalog, err := catalog.New(cfg.Location())
	if err != nil {
		log.Fatalf("Failed to load challenge catalog: %v", err)
	}
	logger.Info("challenge catalog loaded")

	// Create services
	clk := clock.System()
	gamificationService := gamification.NewService(
		accountRepo,
		usageLogRepo,
		txManager,
		challengeCatalog,
		clk,
		cfg.Location(),
		cfg.WordsPerToken,
		cfg.ConsolationReward,
		logger,
	)
	progressService := progress.NewService(
		docRepo,
		snapshotRepo,
		txManager,
		gamificationService,
		clk,
		cfg.UnlockThreshold,
		cfg.SnapshotCooldown,
		logger,
	)

	// Create handlers
	docHandler := handler.NewDocumentHandler(progressService, logger)
	gamificationHandler := handler.NewGamificationHandler(gamificationService, logger)

	logger.Info("services initialized")

	// Create HTTP router (Go 1.22+ enhanced patterns)
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("GET /health", docHandler.HealthCheck)

	// Document routes
	mux.HandleFunc("POST /api/documents", docHandler.CreateDocument)
	mux.HandleFunc("GET /api/documents", docHandler.ListDocuments)
	mux.HandleFunc("GET /api/documents/{id}", docHandler.GetDocument)
	mux.HandleFunc("PUT /api/documents/{id}/content", docHandler.SaveDocument)
	mux.HandleFunc("POST /api/documents/{id}/finish", docHandler.FinishDocument)
	mux.HandleFunc("GET /api/documents/{id}/snapshots", docHandler.GetSnapshots)
	mux.HandleFunc("DELETE /api/documents/{id}", docHandler.DeleteDocument)

	// Account stats
	mux.HandleFunc("GET /api/accounts/me/stats", gamificationHandler.GetStats)

	// Daily challenge routes
	mux.HandleFunc("GET /api/challenges/daily", gamificationHandler.GetDailyChallenge)
	mux.HandleFunc("POST /api/challenges/daily/submit", gamificationHandler.SubmitChallenge)

	// Token ledger routes
	mux.HandleFunc("POST /api/tokens/spend", gamificationHandler.SpendTokens)
	mux.HandleFunc("POST /api/tokens/reward-writing", gamificationHandler.RewardWriting)
	mux.HandleFunc("GET /api/tokens/history", gamificationHandler.GetUsageHistory)

	// Build middleware chain
	var httpHandler http.Handler = mux

	// Apply middleware in reverse order (they wrap each other)
	// Order: CORS -> Recovery -> Auth -> Routes
	httpHandler = middleware.Auth(verifier)(httpHandler)
	httpHandler = middleware.Recovery(logger)(httpHandler)

	// CORS - must be before auth to handle OPTIONS pre-flight requests
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
	})
	httpHandler = corsHandler.Handler(httpHandler)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      httpHandler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.Info("listening", "port", cfg.Port)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Failed to start server: %v", err)
	}
}
