package progress

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"inkwell/internal/clock"
	"inkwell/internal/domain"
	"inkwell/internal/domain/models"
	"inkwell/internal/domain/repositories"
	"inkwell/internal/domain/services"
	"inkwell/internal/wordcount"
)

const maxTitleLength = 200

// TokenRewarder credits tokens for finished writing. Implemented by the
// gamification service; accepted as an interface so the progress service
// never depends on the ledger's internals.
type TokenRewarder interface {
	RewardWriting(ctx context.Context, accountID string, wordCount int) (int, error)
}

// progressService implements the ProgressService interface
type progressService struct {
	docs      repositories.DocumentRepository
	snapshots repositories.SnapshotRepository
	txManager repositories.TransactionManager
	rewards   TokenRewarder
	clk       clock.Clock
	threshold int
	cooldown  time.Duration
	logger    *slog.Logger
}

// NewService creates a new progress service
func NewService(
	docs repositories.DocumentRepository,
	snapshots repositories.SnapshotRepository,
	txManager repositories.TransactionManager,
	rewards TokenRewarder,
	clk clock.Clock,
	threshold int,
	cooldown time.Duration,
	logger *slog.Logger,
) services.ProgressService {
	return &progressService{
		docs:      docs,
		snapshots: snapshots,
		txManager: txManager,
		rewards:   rewards,
		clk:       clk,
		threshold: threshold,
		cooldown:  cooldown,
		logger:    logger,
	}
}

// CreateDocument creates a new draft document
func (s *progressService) CreateDocument(ctx context.Context, req *services.CreateDocumentRequest) (*models.Document, error) {
	if err := validation.ValidateStruct(req,
		validation.Field(&req.Title, validation.Required, validation.Length(1, maxTitleLength)),
	); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	now := s.clk.Now()
	doc := &models.Document{
		ID:        uuid.NewString(),
		AccountID: req.AccountID,
		Title:     req.Title,
		Content:   req.Content,
		WordCount: wordcount.Count(req.Content),
		Status:    models.StatusDraft,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.docs.Create(ctx, doc); err != nil {
		return nil, err
	}

	s.logger.Info("document created",
		"id", doc.ID,
		"account_id", doc.AccountID,
		"word_count", doc.WordCount,
	)

	return doc, nil
}

// GetDocument retrieves a document owned by the account
func (s *progressService) GetDocument(ctx context.Context, accountID, documentID string) (*models.Document, error) {
	return s.getOwned(ctx, accountID, documentID)
}

// ListDocuments lists the account's documents, newest first
func (s *progressService) ListDocuments(ctx context.Context, accountID string) ([]models.Document, error) {
	return s.docs.ListByAccount(ctx, accountID)
}

// SaveDocument replaces a document's content, recomputes the derived word
// count and unlock state, and applies the snapshot policy. Exactly one
// snapshot row is appended when the policy fires. The whole operation runs
// under the document's row lock so a save cannot race a concurrent finish
// past the terminal snapshot.
func (s *progressService) SaveDocument(ctx context.Context, req *services.SaveDocumentRequest) (*services.SaveResult, error) {
	now := s.clk.Now()
	newWords := wordcount.Count(req.Content)

	var result *services.SaveResult
	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		doc, err := s.getOwnedForUpdate(txCtx, req.AccountID, req.DocumentID)
		if err != nil {
			return err
		}
		if doc.Status == models.StatusFinal {
			return fmt.Errorf("%w: document is final and cannot be saved", domain.ErrValidation)
		}

		prevWords := doc.WordCount

		var lastSnapshotAt *time.Time
		latest, err := s.snapshots.GetLatest(txCtx, doc.ID)
		switch {
		case err == nil:
			lastSnapshotAt = &latest.CreatedAt
		case errors.Is(err, domain.ErrNotFound):
			// first save, no snapshot yet
		default:
			return err
		}

		decision := DecideSnapshot(prevWords, newWords, s.threshold, lastSnapshotAt, s.cooldown, now)

		doc.Content = req.Content
		doc.WordCount = newWords
		doc.UpdatedAt = now

		if err := s.docs.Update(txCtx, doc); err != nil {
			return err
		}
		if decision.Create {
			err := s.snapshots.Append(txCtx, &models.Snapshot{
				ID:         uuid.NewString(),
				DocumentID: doc.ID,
				Content:    doc.Content,
				WordCount:  doc.WordCount,
				Stage:      decision.Stage,
				CreatedAt:  now,
			})
			if err != nil {
				return err
			}
		}

		result = &services.SaveResult{
			WordCount:       newWords,
			IsUnlocked:      IsUnlocked(newWords, s.threshold),
			WordsToUnlock:   WordsToUnlock(newWords, s.threshold),
			SnapshotCreated: decision.Create,
		}
		if decision.Create {
			stage := decision.Stage
			result.SnapshotStage = &stage
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("document saved",
		"id", req.DocumentID,
		"word_count", newWords,
		"unlocked", result.IsUnlocked,
		"snapshot_created", result.SnapshotCreated,
	)

	return result, nil
}

// FinishDocument transitions a draft to FINAL exactly once, force-appending
// the terminal snapshot regardless of the cooldown, then credits the
// writing reward for the finished word count. The status check runs under
// the document's row lock: of two concurrent finishes, the second observes
// FINAL and is rejected, so the terminal snapshot and the reward happen
// once.
func (s *progressService) FinishDocument(ctx context.Context, req *services.FinishDocumentRequest) (*models.Document, error) {
	now := s.clk.Now()

	var doc *models.Document
	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		locked, err := s.getOwnedForUpdate(txCtx, req.AccountID, req.DocumentID)
		if err != nil {
			return err
		}
		if locked.Status == models.StatusFinal {
			return fmt.Errorf("%w: document is already final", domain.ErrValidation)
		}

		locked.Status = models.StatusFinal
		locked.Reflection = req.Reflection
		locked.UpdatedAt = now

		if err := s.docs.Update(txCtx, locked); err != nil {
			return err
		}
		if err := s.snapshots.Append(txCtx, &models.Snapshot{
			ID:         uuid.NewString(),
			DocumentID: locked.ID,
			Content:    locked.Content,
			WordCount:  locked.WordCount,
			Stage:      models.StageFinalVersion,
			CreatedAt:  now,
		}); err != nil {
			return err
		}

		doc = locked
		return nil
	})
	if err != nil {
		return nil, err
	}

	tokens, err := s.rewards.RewardWriting(ctx, doc.AccountID, doc.WordCount)
	if err != nil {
		// The finish itself is committed; a failed reward must not undo it.
		s.logger.Warn("writing reward failed after finish",
			"doc_id", doc.ID,
			"account_id", doc.AccountID,
			"error", err,
		)
	}

	s.logger.Info("document finished",
		"id", doc.ID,
		"word_count", doc.WordCount,
		"tokens_earned", tokens,
	)

	return doc, nil
}

// GetSnapshots returns the document's snapshot history, newest first
func (s *progressService) GetSnapshots(ctx context.Context, accountID, documentID string) ([]models.Snapshot, error) {
	if _, err := s.getOwned(ctx, accountID, documentID); err != nil {
		return nil, err
	}
	return s.snapshots.ListByDocument(ctx, documentID)
}

// DeleteDocument removes a document and, by cascade, its snapshots
func (s *progressService) DeleteDocument(ctx context.Context, accountID, documentID string) error {
	if _, err := s.getOwned(ctx, accountID, documentID); err != nil {
		return err
	}

	if err := s.docs.Delete(ctx, documentID); err != nil {
		return err
	}

	s.logger.Info("document deleted", "id", documentID, "account_id", accountID)
	return nil
}

// getOwned fetches a document and enforces ownership
func (s *progressService) getOwned(ctx context.Context, accountID, documentID string) (*models.Document, error) {
	doc, err := s.docs.GetByID(ctx, documentID)
	if err != nil {
		return nil, err
	}
	if doc.AccountID != accountID {
		return nil, fmt.Errorf("document %s: %w", documentID, domain.ErrForbidden)
	}
	return doc, nil
}

// getOwnedForUpdate is getOwned under the document's row lock, for use
// inside ExecTx
func (s *progressService) getOwnedForUpdate(ctx context.Context, accountID, documentID string) (*models.Document, error) {
	doc, err := s.docs.GetByIDForUpdate(ctx, documentID)
	if err != nil {
		return nil, err
	}
	if doc.AccountID != accountID {
		return nil, fmt.Errorf("document %s: %w", documentID, domain.ErrForbidden)
	}
	return doc, nil
}
