package gamification

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"inkwell/internal/clock"
	"inkwell/internal/domain"
	"inkwell/internal/domain/models"
	"inkwell/internal/domain/repositories"
	"inkwell/internal/domain/services"
)

// fakeAccountRepo mirrors the store's guarantee that balance mutations are
// single guarded operations: every method holds the lock for its whole
// read-check-write sequence.
type fakeAccountRepo struct {
	mu       sync.Mutex
	accounts map[string]models.Account
}

func newFakeAccountRepo(accounts ...models.Account) *fakeAccountRepo {
	r := &fakeAccountRepo{accounts: make(map[string]models.Account)}
	for _, a := range accounts {
		r.accounts[a.ID] = a
	}
	return r
}

func (r *fakeAccountRepo) Create(_ context.Context, account *models.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.accounts[account.ID]; ok {
		return fmt.Errorf("account %s already exists: %w", account.ID, domain.ErrValidation)
	}
	r.accounts[account.ID] = *account
	return nil
}

func (r *fakeAccountRepo) GetByID(_ context.Context, id string) (*models.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.get(id)
}

func (r *fakeAccountRepo) GetByIDForUpdate(_ context.Context, id string) (*models.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.get(id)
}

func (r *fakeAccountRepo) get(id string) (*models.Account, error) {
	account, ok := r.accounts[id]
	if !ok {
		return nil, fmt.Errorf("account %s: %w", id, domain.ErrNotFound)
	}
	return &account, nil
}

func (r *fakeAccountRepo) EarnTokens(_ context.Context, id string, amount int, now time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	account, ok := r.accounts[id]
	if !ok {
		return 0, fmt.Errorf("account %s: %w", id, domain.ErrNotFound)
	}
	account.Tokens += amount
	account.LastActivityAt = now
	account.UpdatedAt = now
	r.accounts[id] = account
	return account.Tokens, nil
}

func (r *fakeAccountRepo) SpendTokens(_ context.Context, id string, amount int, now time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	account, ok := r.accounts[id]
	if !ok {
		return 0, fmt.Errorf("account %s: %w", id, domain.ErrNotFound)
	}
	if account.Tokens < amount {
		return 0, &domain.InsufficientBalanceError{Required: amount, Balance: account.Tokens}
	}
	account.Tokens -= amount
	account.LastActivityAt = now
	account.UpdatedAt = now
	r.accounts[id] = account
	return account.Tokens, nil
}

func (r *fakeAccountRepo) RecordChallenge(_ context.Context, id string, streak, reward int, now time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	account, ok := r.accounts[id]
	if !ok {
		return 0, fmt.Errorf("account %s: %w", id, domain.ErrNotFound)
	}
	account.Tokens += reward
	account.CurrentStreak = streak
	ts := now
	account.LastChallengeAt = &ts
	account.LastActivityAt = now
	account.UpdatedAt = now
	r.accounts[id] = account
	return account.Tokens, nil
}

func (r *fakeAccountRepo) snapshot(id string) models.Account {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.accounts[id]
}

type fakeLogRepo struct {
	mu      sync.Mutex
	entries []models.UsageLog
}

func (r *fakeLogRepo) Append(_ context.Context, entry *models.UsageLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, *entry)
	return nil
}

func (r *fakeLogRepo) ListByAccount(_ context.Context, accountID string, limit int) ([]models.UsageLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.UsageLog{}
	for i := len(r.entries) - 1; i >= 0 && len(out) < limit; i-- {
		if r.entries[i].AccountID == accountID {
			out = append(out, r.entries[i])
		}
	}
	return out, nil
}

func (r *fakeLogRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

type fakeTxManager struct{}

func (fakeTxManager) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	return fn(ctx)
}

type fakeCatalog struct {
	challenge models.Challenge
}

func (c *fakeCatalog) PickDaily(time.Time) *models.Challenge {
	return &c.challenge
}

func (c *fakeCatalog) GetByID(id string) (*models.Challenge, error) {
	if id != c.challenge.ID {
		return nil, fmt.Errorf("challenge %s: %w", id, domain.ErrNotFound)
	}
	return &c.challenge, nil
}

type testEnv struct {
	svc      services.GamificationService
	accounts *fakeAccountRepo
	logs     *fakeLogRepo
	clk      *clock.Fixed
}

func newTestEnv(t *testing.T, accounts ...models.Account) *testEnv {
	t.Helper()
	env := &testEnv{
		accounts: newFakeAccountRepo(accounts...),
		logs:     &fakeLogRepo{},
		clk:      &clock.Fixed{Time: time.Date(2025, 6, 10, 9, 30, 0, 0, time.UTC)},
	}
	env.svc = NewService(
		env.accounts,
		env.logs,
		fakeTxManager{},
		&fakeCatalog{challenge: models.Challenge{
			ID:           "test-question",
			Question:     "Which sentence uses the active voice?",
			Options:      []string{"A", "B", "C"},
			CorrectIndex: 1,
			Explanation:  "B names the actor before the verb.",
			Reward:       3,
		}},
		env.clk,
		time.UTC,
		50, // words per token
		1,  // consolation reward
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)
	return env
}

func account(id string, tokens, streak int, lastChallengeAt *time.Time) models.Account {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	return models.Account{
		ID:              id,
		Tokens:          tokens,
		CurrentStreak:   streak,
		LastChallengeAt: lastChallengeAt,
		LastActivityAt:  now,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

func TestGetStats(t *testing.T) {
	env := newTestEnv(t, account("acc-1", 42, 3, nil))

	stats, err := env.svc.GetStats(context.Background(), "acc-1")
	if err != nil {
		t.Fatalf("GetStats failed: %v", err)
	}
	if stats.Tokens != 42 || stats.Streak != 3 {
		t.Errorf("stats = %+v, want tokens 42 streak 3", stats)
	}
	if !stats.ChallengeAvailableToday {
		t.Error("challenge should be available with no prior submission")
	}
}

func TestGetDailyChallenge_UnavailableAfterSubmission(t *testing.T) {
	env := newTestEnv(t, account("acc-1", 10, 0, nil))

	daily, err := env.svc.GetDailyChallenge(context.Background(), "acc-1")
	if err != nil {
		t.Fatalf("GetDailyChallenge failed: %v", err)
	}
	if !daily.Available || daily.Challenge == nil {
		t.Fatal("expected an available challenge")
	}

	mustSubmit(t, env, daily.Challenge.CorrectIndex)

	daily, err = env.svc.GetDailyChallenge(context.Background(), "acc-1")
	if err != nil {
		t.Fatalf("GetDailyChallenge failed: %v", err)
	}
	if daily.Available {
		t.Error("challenge should be unavailable after today's submission")
	}
}

func TestSubmitChallenge_CorrectExtendsStreak(t *testing.T) {
	yesterday := time.Date(2025, 6, 9, 20, 0, 0, 0, time.UTC)
	env := newTestEnv(t, account("acc-1", 10, 4, &yesterday))

	result := mustSubmit(t, env, 1)

	if !result.IsCorrect {
		t.Error("answer 1 should be correct")
	}
	if result.NewStreak != 5 {
		t.Errorf("NewStreak = %d, want 5", result.NewStreak)
	}
	if result.TokensEarned != 3 {
		t.Errorf("TokensEarned = %d, want 3", result.TokensEarned)
	}

	acct := env.accounts.snapshot("acc-1")
	if acct.Tokens != 13 {
		t.Errorf("balance = %d, want 13", acct.Tokens)
	}
	if acct.CurrentStreak != 5 {
		t.Errorf("streak = %d, want 5", acct.CurrentStreak)
	}
	if env.logs.count() != 1 {
		t.Errorf("log entries = %d, want 1", env.logs.count())
	}
}

func TestSubmitChallenge_GapRestartsStreak(t *testing.T) {
	threeDaysAgo := time.Date(2025, 6, 7, 20, 0, 0, 0, time.UTC)
	env := newTestEnv(t, account("acc-1", 10, 4, &threeDaysAgo))

	result := mustSubmit(t, env, 1)
	if result.NewStreak != 1 {
		t.Errorf("NewStreak = %d, want 1", result.NewStreak)
	}
}

func TestSubmitChallenge_IncorrectResetsStreakAndConsoles(t *testing.T) {
	yesterday := time.Date(2025, 6, 9, 20, 0, 0, 0, time.UTC)
	env := newTestEnv(t, account("acc-1", 10, 5, &yesterday))

	result := mustSubmit(t, env, 0)

	if result.IsCorrect {
		t.Error("answer 0 should be incorrect")
	}
	if result.NewStreak != 0 {
		t.Errorf("NewStreak = %d, want 0", result.NewStreak)
	}
	if result.TokensEarned != 1 {
		t.Errorf("TokensEarned = %d, want consolation 1", result.TokensEarned)
	}
	if result.Explanation == "" {
		t.Error("incorrect answer should still return the explanation")
	}

	acct := env.accounts.snapshot("acc-1")
	if acct.Tokens != 11 {
		t.Errorf("balance = %d, want 11", acct.Tokens)
	}
}

func TestSubmitChallenge_OncePerDay(t *testing.T) {
	env := newTestEnv(t, account("acc-1", 10, 0, nil))

	mustSubmit(t, env, 1)
	before := env.accounts.snapshot("acc-1")

	_, err := env.svc.SubmitChallenge(context.Background(), &services.SubmitChallengeRequest{
		AccountID:   "acc-1",
		ChallengeID: "test-question",
		AnswerIndex: 1,
	})
	if !errors.Is(err, domain.ErrChallengeDone) {
		t.Fatalf("got %v, want ErrChallengeDone", err)
	}

	after := env.accounts.snapshot("acc-1")
	if after.Tokens != before.Tokens || after.CurrentStreak != before.CurrentStreak {
		t.Error("rejected submission must leave the account unchanged")
	}
	if env.logs.count() != 1 {
		t.Errorf("log entries = %d, want 1", env.logs.count())
	}
}

func TestSubmitChallenge_NextDayAllowedAgain(t *testing.T) {
	env := newTestEnv(t, account("acc-1", 10, 0, nil))

	first := mustSubmit(t, env, 1)
	env.clk.Advance(24 * time.Hour)
	second := mustSubmit(t, env, 1)

	if second.NewStreak != first.NewStreak+1 {
		t.Errorf("next-day streak = %d, want %d", second.NewStreak, first.NewStreak+1)
	}
}

func TestSubmitChallenge_Validation(t *testing.T) {
	env := newTestEnv(t, account("acc-1", 10, 0, nil))

	_, err := env.svc.SubmitChallenge(context.Background(), &services.SubmitChallengeRequest{
		AccountID:   "acc-1",
		ChallengeID: "unknown",
		AnswerIndex: 0,
	})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("unknown challenge: got %v, want ErrNotFound", err)
	}

	_, err = env.svc.SubmitChallenge(context.Background(), &services.SubmitChallengeRequest{
		AccountID:   "acc-1",
		ChallengeID: "test-question",
		AnswerIndex: 7,
	})
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("out-of-range answer: got %v, want ErrValidation", err)
	}
}

func TestSpendTokens(t *testing.T) {
	env := newTestEnv(t, account("acc-1", 10, 0, nil))

	result, err := env.svc.SpendTokens(context.Background(), &services.SpendRequest{
		AccountID:  "acc-1",
		Amount:     6,
		FeatureTag: "ai_feedback",
	})
	if err != nil {
		t.Fatalf("SpendTokens failed: %v", err)
	}
	if !result.Success {
		t.Fatal("spend of 6 from 10 should succeed")
	}
	if result.NewBalance != 4 {
		t.Errorf("NewBalance = %d, want 4", result.NewBalance)
	}
	if env.logs.count() != 1 {
		t.Errorf("log entries = %d, want 1", env.logs.count())
	}
}

func TestSpendTokens_InsufficientBalance(t *testing.T) {
	env := newTestEnv(t, account("acc-1", 4, 0, nil))

	result, err := env.svc.SpendTokens(context.Background(), &services.SpendRequest{
		AccountID:  "acc-1",
		Amount:     6,
		FeatureTag: "ai_feedback",
	})
	if err != nil {
		t.Fatalf("insufficient balance must be a benign result, got error: %v", err)
	}
	if result.Success {
		t.Fatal("spend of 6 from 4 should not succeed")
	}
	if result.NewBalance != 4 {
		t.Errorf("NewBalance = %d, want untouched 4", result.NewBalance)
	}
	if result.Message == "" {
		t.Error("failed spend should carry a message")
	}
	if env.logs.count() != 0 {
		t.Errorf("log entries = %d, want 0 for a failed spend", env.logs.count())
	}
}

func TestSpendTokens_ConcurrentNeverOverdraws(t *testing.T) {
	env := newTestEnv(t, account("acc-1", 10, 0, nil))

	results := make([]*services.SpendResult, 2)
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			result, err := env.svc.SpendTokens(context.Background(), &services.SpendRequest{
				AccountID:  "acc-1",
				Amount:     6,
				FeatureTag: "ai_feedback",
			})
			if err != nil {
				t.Errorf("SpendTokens failed: %v", err)
				return
			}
			results[i] = result
		}(i)
	}
	wg.Wait()

	successes := 0
	for _, result := range results {
		if result != nil && result.Success {
			successes++
		}
	}
	if successes != 1 {
		t.Errorf("successes = %d, want exactly 1", successes)
	}
	if balance := env.accounts.snapshot("acc-1").Tokens; balance != 4 {
		t.Errorf("final balance = %d, want 4", balance)
	}
}

func TestRewardWriting(t *testing.T) {
	env := newTestEnv(t, account("acc-1", 10, 0, nil))

	tokens, err := env.svc.RewardWriting(context.Background(), "acc-1", 120)
	if err != nil {
		t.Fatalf("RewardWriting failed: %v", err)
	}
	if tokens != 2 {
		t.Errorf("tokens = %d, want 2 for 120 words", tokens)
	}
	if balance := env.accounts.snapshot("acc-1").Tokens; balance != 12 {
		t.Errorf("balance = %d, want 12", balance)
	}
	if env.logs.count() != 1 {
		t.Errorf("log entries = %d, want 1", env.logs.count())
	}
}

func TestRewardWriting_BelowOneBlock(t *testing.T) {
	env := newTestEnv(t, account("acc-1", 10, 0, nil))

	tokens, err := env.svc.RewardWriting(context.Background(), "acc-1", 30)
	if err != nil {
		t.Fatalf("RewardWriting failed: %v", err)
	}
	if tokens != 0 {
		t.Errorf("tokens = %d, want 0 for 30 words", tokens)
	}
	if balance := env.accounts.snapshot("acc-1").Tokens; balance != 10 {
		t.Errorf("balance = %d, want untouched 10", balance)
	}
	if env.logs.count() != 0 {
		t.Errorf("log entries = %d, want 0", env.logs.count())
	}
}

func TestGetUsageHistory(t *testing.T) {
	env := newTestEnv(t, account("acc-1", 100, 0, nil))

	for i := 0; i < 3; i++ {
		if _, err := env.svc.RewardWriting(context.Background(), "acc-1", 50); err != nil {
			t.Fatalf("RewardWriting failed: %v", err)
		}
	}

	history, err := env.svc.GetUsageHistory(context.Background(), "acc-1", 2)
	if err != nil {
		t.Fatalf("GetUsageHistory failed: %v", err)
	}
	if len(history) != 2 {
		t.Errorf("history length = %d, want 2", len(history))
	}
	for _, entry := range history {
		if entry.Action != models.ActionEarn {
			t.Errorf("action = %q, want earn", entry.Action)
		}
	}
}

func mustSubmit(t *testing.T, env *testEnv, answer int) *services.SubmitResult {
	t.Helper()
	result, err := env.svc.SubmitChallenge(context.Background(), &services.SubmitChallengeRequest{
		AccountID:   "acc-1",
		ChallengeID: "test-question",
		AnswerIndex: answer,
	})
	if err != nil {
		t.Fatalf("SubmitChallenge failed: %v", err)
	}
	return result
}
