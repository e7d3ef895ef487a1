package services

import (
	"context"

	"inkwell/internal/domain/models"
)

// AccountStats is the summary surfaced to the stats endpoint
type AccountStats struct {
	Tokens                  int  `json:"tokens"`
	Streak                  int  `json:"streak"`
	ChallengeAvailableToday bool `json:"challenge_available_today"`
}

// DailyChallenge wraps today's challenge, if one is still available.
// The challenge is presented without its answer key.
type DailyChallenge struct {
	Available bool              `json:"available"`
	Challenge *models.Challenge `json:"-"`
	Reward    int               `json:"reward,omitempty"`
}

// SubmitChallengeRequest grades one answer to today's challenge
type SubmitChallengeRequest struct {
	AccountID   string `json:"-"`
	ChallengeID string `json:"challenge_id"`
	AnswerIndex int    `json:"answer_index"`
}

// SubmitResult reports the graded outcome
type SubmitResult struct {
	IsCorrect    bool   `json:"is_correct"`
	Explanation  string `json:"explanation"`
	TokensEarned int    `json:"tokens_earned"`
	NewStreak    int    `json:"new_streak"`
}

// SpendRequest spends tokens on a gated feature
type SpendRequest struct {
	AccountID  string `json:"-"`
	Amount     int    `json:"amount"`
	FeatureTag string `json:"feature_tag"`
}

// SpendResult reports the spend outcome. Success is false when the balance
// could not cover the amount; NewBalance then holds the untouched balance.
type SpendResult struct {
	Success    bool   `json:"success"`
	NewBalance int    `json:"new_balance"`
	Message    string `json:"message,omitempty"`
}

// GamificationService runs the token economy and the daily-challenge streak
type GamificationService interface {
	GetStats(ctx context.Context, accountID string) (*AccountStats, error)
	GetDailyChallenge(ctx context.Context, accountID string) (*DailyChallenge, error)
	SubmitChallenge(ctx context.Context, req *SubmitChallengeRequest) (*SubmitResult, error)
	SpendTokens(ctx context.Context, req *SpendRequest) (*SpendResult, error)
	RewardWriting(ctx context.Context, accountID string, wordCount int) (int, error)
	GetUsageHistory(ctx context.Context, accountID string, limit int) ([]models.UsageLog, error)
}
