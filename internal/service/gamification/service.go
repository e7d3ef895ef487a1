package gamification

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
)

const (
	maxFeatureTagLength = 100
	rewardWritingDetail = "writing"
)

// gamificationService implements the GamificationService interface
type gamificationService struct {
	accounts    repositories.AccountRepository
	logs        repositories.UsageLogRepository
	txManager   repositories.TransactionManager
	catalog     services.ChallengeCatalog
	clk         clock.Clock
	loc         *time.Location
	wordsPer    int // words per earned token in RewardWriting
	consolation int // tokens granted for an incorrect answer
	logger      *slog.Logger
}

// NewService creates a new gamification service
func NewService(
	accounts repositories.AccountRepository,
	logs repositories.UsageLogRepository,
	txManager repositories.TransactionManager,
	catalog services.ChallengeCatalog,
	clk clock.Clock,
	loc *time.Location,
	wordsPerToken int,
	consolationReward int,
	logger *slog.Logger,
) services.GamificationService {
	return &gamificationService{
		accounts:    accounts,
		logs:        logs,
		txManager:   txManager,
		catalog:     catalog,
		clk:         clk,
		loc:         loc,
		wordsPer:    wordsPerToken,
		consolation: consolationReward,
		logger:      logger,
	}
}

// GetStats returns the account's balance, streak, and challenge availability
func (s *gamificationService) GetStats(ctx context.Context, accountID string) (*services.AccountStats, error) {
	account, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	return &services.AccountStats{
		Tokens:                  account.Tokens,
		Streak:                  account.CurrentStreak,
		ChallengeAvailableToday: !CompletedToday(account.LastChallengeAt, s.clk.Now(), s.loc),
	}, nil
}

// GetDailyChallenge returns today's challenge unless the account already
// submitted one today.
func (s *gamificationService) GetDailyChallenge(ctx context.Context, accountID string) (*services.DailyChallenge, error) {
	account, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	now := s.clk.Now()
	if CompletedToday(account.LastChallengeAt, now, s.loc) {
		return &services.DailyChallenge{Available: false}, nil
	}

	challenge := s.catalog.PickDaily(now)
	return &services.DailyChallenge{
		Available: true,
		Challenge: challenge,
		Reward:    challenge.Reward,
	}, nil
}

// SubmitChallenge grades one answer against the catalog's answer key and
// applies the streak transition and reward in a single transaction. The
// catalog is consulted before the transaction begins so no row lock is held
// across the external call.
func (s *gamificationService) SubmitChallenge(ctx context.Context, req *services.SubmitChallengeRequest) (*services.SubmitResult, error) {
	if err := validation.ValidateStruct(req,
		validation.Field(&req.ChallengeID, validation.Required),
		validation.Field(&req.AnswerIndex, validation.Min(0)),
	); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	challenge, err := s.catalog.GetByID(req.ChallengeID)
	if err != nil {
		return nil, err
	}
	if req.AnswerIndex >= len(challenge.Options) {
		return nil, fmt.Errorf("%w: answer index %d out of range", domain.ErrValidation, req.AnswerIndex)
	}

	now := s.clk.Now()
	correct := req.AnswerIndex == challenge.CorrectIndex

	var result *services.SubmitResult
	err = s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		account, err := s.accounts.GetByIDForUpdate(txCtx, req.AccountID)
		if err != nil {
			return err
		}

		if CompletedToday(account.LastChallengeAt, now, s.loc) {
			return domain.ErrChallengeDone
		}

		newStreak := NextStreak(account.CurrentStreak, account.LastChallengeAt, now, s.loc, correct)
		reward := s.consolation
		if correct {
			reward = challenge.Reward
		}

		if _, err := s.accounts.RecordChallenge(txCtx, account.ID, newStreak, reward, now); err != nil {
			return err
		}

		if err := s.logs.Append(txCtx, &models.UsageLog{
			ID:        uuid.NewString(),
			AccountID: account.ID,
			Action:    models.ActionChallenge,
			Amount:    reward,
			Detail:    challenge.ID,
			CreatedAt: now,
		}); err != nil {
			return err
		}

		result = &services.SubmitResult{
			IsCorrect:    correct,
			Explanation:  challenge.Explanation,
			TokensEarned: reward,
			NewStreak:    newStreak,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("challenge submitted",
		"account_id", req.AccountID,
		"challenge_id", challenge.ID,
		"correct", correct,
		"new_streak", result.NewStreak,
		"tokens_earned", result.TokensEarned,
	)

	return result, nil
}

// SpendTokens spends tokens on a gated feature. The decrement is a single
// guarded statement at the store, so concurrent spends on the same account
// can never jointly overdraw. An insufficient balance is a benign result,
// not an error.
func (s *gamificationService) SpendTokens(ctx context.Context, req *services.SpendRequest) (*services.SpendResult, error) {
	if err := validation.ValidateStruct(req,
		validation.Field(&req.Amount, validation.Required, validation.Min(1)),
		validation.Field(&req.FeatureTag, validation.Required, validation.Length(1, maxFeatureTagLength)),
	); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	now := s.clk.Now()

	var result *services.SpendResult
	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		balance, err := s.accounts.SpendTokens(txCtx, req.AccountID, req.Amount, now)
		if err != nil {
			var insufficient *domain.InsufficientBalanceError
			if errors.As(err, &insufficient) {
				result = &services.SpendResult{
					Success:    false,
					NewBalance: insufficient.Balance,
					Message:    insufficient.Error(),
				}
				return nil
			}
			return err
		}

		if err := s.logs.Append(txCtx, &models.UsageLog{
			ID:        uuid.NewString(),
			AccountID: req.AccountID,
			Action:    models.ActionSpend,
			Amount:    req.Amount,
			Detail:    req.FeatureTag,
			CreatedAt: now,
		}); err != nil {
			return err
		}

		result = &services.SpendResult{Success: true, NewBalance: balance}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("tokens spent",
		"account_id", req.AccountID,
		"amount", req.Amount,
		"feature", req.FeatureTag,
		"success", result.Success,
	)

	return result, nil
}

// RewardWriting grants one token per full block of words written. The
// caller owns baseline tracking and passes only the word count it wants
// rewarded.
func (s *gamificationService) RewardWriting(ctx context.Context, accountID string, wordCount int) (int, error) {
	if wordCount < 0 {
		return 0, fmt.Errorf("%w: word count cannot be negative", domain.ErrValidation)
	}

	tokens := wordCount / s.wordsPer
	if tokens == 0 {
		return 0, nil
	}

	now := s.clk.Now()
	err := s.txManager.ExecTx(ctx, func(txCtx context.Context) error {
		if _, err := s.accounts.EarnTokens(txCtx, accountID, tokens, now); err != nil {
			return err
		}
		return s.logs.Append(txCtx, &models.UsageLog{
			ID:        uuid.NewString(),
			AccountID: accountID,
			Action:    models.ActionEarn,
			Amount:    tokens,
			Detail:    rewardWritingDetail,
			CreatedAt: now,
		})
	})
	if err != nil {
		return 0, err
	}

	s.logger.Info("writing rewarded",
		"account_id", accountID,
		"word_count", wordCount,
		"tokens_earned", tokens,
	)

	return tokens, nil
}

// GetUsageHistory returns the account's recent ledger audit trail
func (s *gamificationService) GetUsageHistory(ctx context.Context, accountID string, limit int) ([]models.UsageLog, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.logs.ListByAccount(ctx, accountID, limit)
}
