package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"inkwell/internal/domain"
	"inkwell/internal/domain/models"
	"inkwell/internal/domain/services"
	"inkwell/internal/httputil"
)

// GamificationHandler handles token-economy and challenge HTTP requests
type GamificationHandler struct {
	gamification services.GamificationService
	logger       *slog.Logger
}

// NewGamificationHandler creates a new gamification handler
func NewGamificationHandler(gamification services.GamificationService, logger *slog.Logger) *GamificationHandler {
	return &GamificationHandler{
		gamification: gamification,
		logger:       logger,
	}
}

// GetStats returns the account's tokens, streak, and challenge availability
// GET /api/accounts/me/stats
func (h *GamificationHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.gamification.GetStats(r.Context(), httputil.GetAccountID(r))
	if err != nil {
		respondDomainError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, stats)
}

// GetDailyChallenge returns today's challenge if still available
// GET /api/challenges/daily
func (h *GamificationHandler) GetDailyChallenge(w http.ResponseWriter, r *http.Request) {
	daily, err := h.gamification.GetDailyChallenge(r.Context(), httputil.GetAccountID(r))
	if err != nil {
		respondDomainError(w, h.logger, err)
		return
	}

	resp := dailyChallengeResponse{Available: daily.Available}
	if daily.Available {
		resp.Challenge = newChallengeView(daily.Challenge)
		resp.Reward = daily.Reward
	}

	httputil.RespondJSON(w, http.StatusOK, resp)
}

// SubmitChallenge grades an answer to today's challenge. A duplicate
// same-day submission is a benign no-op response, not an error.
// POST /api/challenges/daily/submit
func (h *GamificationHandler) SubmitChallenge(w http.ResponseWriter, r *http.Request) {
	var req services.SubmitChallengeRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.AccountID = httputil.GetAccountID(r)

	result, err := h.gamification.SubmitChallenge(r.Context(), &req)
	if err != nil {
		if errors.Is(err, domain.ErrChallengeDone) {
			httputil.RespondJSON(w, http.StatusOK, submitChallengeResponse{AlreadyCompleted: true})
			return
		}
		respondDomainError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, submitChallengeResponse{
		IsCorrect:    result.IsCorrect,
		Explanation:  result.Explanation,
		TokensEarned: result.TokensEarned,
		NewStreak:    result.NewStreak,
	})
}

// SpendTokens spends tokens on a gated feature
// POST /api/tokens/spend
func (h *GamificationHandler) SpendTokens(w http.ResponseWriter, r *http.Request) {
	var req services.SpendRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.AccountID = httputil.GetAccountID(r)

	result, err := h.gamification.SpendTokens(r.Context(), &req)
	if err != nil {
		respondDomainError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, result)
}

// RewardWriting credits tokens for a caller-tracked word count delta
// POST /api/tokens/reward-writing
func (h *GamificationHandler) RewardWriting(w http.ResponseWriter, r *http.Request) {
	var req rewardWritingRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	tokens, err := h.gamification.RewardWriting(r.Context(), httputil.GetAccountID(r), req.WordCount)
	if err != nil {
		respondDomainError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, rewardWritingResponse{TokensEarned: tokens})
}

// GetUsageHistory returns the account's recent ledger entries
// GET /api/tokens/history
func (h *GamificationHandler) GetUsageHistory(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	entries, err := h.gamification.GetUsageHistory(r.Context(), httputil.GetAccountID(r), limit)
	if err != nil {
		respondDomainError(w, h.logger, err)
		return
	}

	if entries == nil {
		entries = []models.UsageLog{}
	}

	httputil.RespondJSON(w, http.StatusOK, usageHistoryResponse{
		Entries: entries,
		Total:   len(entries),
	})
}
