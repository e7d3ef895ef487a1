package postgres

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inkwell/internal/domain"
	"inkwell/internal/domain/repositories"
)

func newAccountRepoMock(t *testing.T) (repositories.AccountRepository, pgxmock.PgxPoolIface) {
	t.Helper()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	repo := NewAccountRepository(&RepositoryConfig{
		DB:     mock,
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	return repo, mock
}

func TestSpendTokens_Success(t *testing.T) {
	repo, mock := newAccountRepoMock(t)
	now := time.Now()

	mock.ExpectQuery(`UPDATE accounts\s+SET tokens = tokens - \$2`).
		WithArgs("acc-1", 6, now).
		WillReturnRows(pgxmock.NewRows([]string{"tokens"}).AddRow(4))

	balance, err := repo.SpendTokens(context.Background(), "acc-1", 6, now)
	require.NoError(t, err)
	assert.Equal(t, 4, balance)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSpendTokens_InsufficientBalance(t *testing.T) {
	repo, mock := newAccountRepoMock(t)
	now := time.Now()

	// The guard fails, so the UPDATE touches zero rows and the repo re-reads
	// the account to report the untouched balance.
	mock.ExpectQuery(`UPDATE accounts\s+SET tokens = tokens - \$2`).
		WithArgs("acc-1", 6, now).
		WillReturnError(pgx.ErrNoRows)
	mock.ExpectQuery(`SELECT .+ FROM accounts WHERE id = \$1`).
		WithArgs("acc-1").
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "tokens", "current_streak", "last_challenge_at", "last_activity_at", "created_at", "updated_at",
		}).AddRow("acc-1", 4, 0, nil, now, now, now))

	_, err := repo.SpendTokens(context.Background(), "acc-1", 6, now)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInsufficient)

	var insufficient *domain.InsufficientBalanceError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, 6, insufficient.Required)
	assert.Equal(t, 4, insufficient.Balance)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSpendTokens_AccountNotFound(t *testing.T) {
	repo, mock := newAccountRepoMock(t)
	now := time.Now()

	mock.ExpectQuery(`UPDATE accounts\s+SET tokens = tokens - \$2`).
		WithArgs("missing", 6, now).
		WillReturnError(pgx.ErrNoRows)
	mock.ExpectQuery(`SELECT .+ FROM accounts WHERE id = \$1`).
		WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.SpendTokens(context.Background(), "missing", 6, now)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEarnTokens(t *testing.T) {
	repo, mock := newAccountRepoMock(t)
	now := time.Now()

	mock.ExpectQuery(`UPDATE accounts\s+SET tokens = tokens \+ \$2`).
		WithArgs("acc-1", 2, now).
		WillReturnRows(pgxmock.NewRows([]string{"tokens"}).AddRow(12))

	balance, err := repo.EarnTokens(context.Background(), "acc-1", 2, now)
	require.NoError(t, err)
	assert.Equal(t, 12, balance)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordChallenge(t *testing.T) {
	repo, mock := newAccountRepoMock(t)
	now := time.Now()

	mock.ExpectQuery(`UPDATE accounts\s+SET tokens = tokens \+ \$2, current_streak = \$3, last_challenge_at = \$4`).
		WithArgs("acc-1", 3, 5, now).
		WillReturnRows(pgxmock.NewRows([]string{"tokens"}).AddRow(13))

	balance, err := repo.RecordChallenge(context.Background(), "acc-1", 5, 3, now)
	require.NoError(t, err)
	assert.Equal(t, 13, balance)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByID_NotFound(t *testing.T) {
	repo, mock := newAccountRepoMock(t)

	mock.ExpectQuery(`SELECT .+ FROM accounts WHERE id = \$1`).
		WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
