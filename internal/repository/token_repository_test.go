package repository_test

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	repo "task-service/internal/repository"
)

func TestPostgresTokenRepository_Create(t *testing.T) {
	sqlxDB, mock := newMockDB(t)
	r := repo.NewPostgresTokenRepository(sqlxDB)

	userID := uuid.New()
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO user_tokens (user_id, token_hash) VALUES ($1, $2)`)).
		WithArgs(userID, "abc123").
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := r.Create(context.Background(), userID, "abc123")
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresTokenRepository_Exists(t *testing.T) {
	sqlxDB, mock := newMockDB(t)
	r := repo.NewPostgresTokenRepository(sqlxDB)

	userID := uuid.New()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM user_tokens WHERE user_id = $1 AND token_hash = $2`)).
		WithArgs(userID, "abc123").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	ok, err := r.Exists(context.Background(), userID, "abc123")
	require.NoError(t, err)
	require.True(t, ok)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresTokenRepository_Exists_Revoked(t *testing.T) {
	sqlxDB, mock := newMockDB(t)
	r := repo.NewPostgresTokenRepository(sqlxDB)

	userID := uuid.New()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM user_tokens WHERE user_id = $1 AND token_hash = $2`)).
		WithArgs(userID, "gone").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	ok, err := r.Exists(context.Background(), userID, "gone")
	require.NoError(t, err)
	require.False(t, ok)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresTokenRepository_Delete(t *testing.T) {
	sqlxDB, mock := newMockDB(t)
	r := repo.NewPostgresTokenRepository(sqlxDB)

	userID := uuid.New()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM user_tokens WHERE user_id = $1 AND token_hash = $2`)).
		WithArgs(userID, "abc123").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := r.Delete(context.Background(), userID, "abc123")
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresTokenRepository_DeleteAllForUser(t *testing.T) {
	sqlxDB, mock := newMockDB(t)
	r := repo.NewPostgresTokenRepository(sqlxDB)

	userID := uuid.New()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM user_tokens WHERE user_id = $1`)).
		WithArgs(userID).
		WillReturnResult(sqlmock.NewResult(0, 3))

	err := r.DeleteAllForUser(context.Background(), userID)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}
