package handler

import (
	"inkwell/internal/domain/models"
)

// challengeView is a challenge as presented to the client: the answer key
// and explanation stay server-side until the submission is graded.
type challengeView struct {
	ID       string   `json:"id"`
	Question string   `json:"question"`
	Options  []string `json:"options"`
	Reward   int      `json:"reward"`
}

func newChallengeView(ch *models.Challenge) *challengeView {
	return &challengeView{
		ID:       ch.ID,
		Question: ch.Question,
		Options:  ch.Options,
		Reward:   ch.Reward,
	}
}

// dailyChallengeResponse is the payload of GET /api/challenges/daily
type dailyChallengeResponse struct {
	Available bool           `json:"available"`
	Challenge *challengeView `json:"challenge,omitempty"`
	Reward    int            `json:"reward,omitempty"`
}

// submitChallengeResponse is the payload of POST /api/challenges/daily/submit.
// AlreadyCompleted marks the benign duplicate-submission outcome.
type submitChallengeResponse struct {
	AlreadyCompleted bool   `json:"already_completed,omitempty"`
	IsCorrect        bool   `json:"is_correct"`
	Explanation      string `json:"explanation,omitempty"`
	TokensEarned     int    `json:"tokens_earned"`
	NewStreak        int    `json:"new_streak"`
}

// rewardWritingRequest is the payload of POST /api/tokens/reward-writing
type rewardWritingRequest struct {
	WordCount int `json:"word_count"`
}

// rewardWritingResponse reports the granted writing reward
type rewardWritingResponse struct {
	TokensEarned int `json:"tokens_earned"`
}

// usageHistoryResponse is the payload of GET /api/tokens/history
type usageHistoryResponse struct {
	Entries []models.UsageLog `json:"entries"`
	Total   int               `json:"total"`
}

// documentListResponse is the payload of GET /api/documents
type documentListResponse struct {
	Documents []models.Document `json:"documents"`
	Total     int               `json:"total"`
}

// snapshotListResponse is the payload of GET /api/documents/{id}/snapshots
type snapshotListResponse struct {
	Snapshots []models.Snapshot `json:"snapshots"`
	Total     int               `json:"total"`
}
