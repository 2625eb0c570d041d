package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// TokenRepository is the per-user allow-list of active session tokens,
// keyed by the SHA-256 hash of the issued JWT.
type TokenRepository interface {
	Create(ctx context.Context, userID uuid.UUID, tokenHash string) error
	Exists(ctx context.Context, userID uuid.UUID, tokenHash string) (bool, error)
	Delete(ctx context.Context, userID uuid.UUID, tokenHash string) error
	DeleteAllForUser(ctx context.Context, userID uuid.UUID) error
}

type postgresTokenRepository struct {
	db *sqlx.DB
}

func NewPostgresTokenRepository(db *sqlx.DB) TokenRepository {
	return &postgresTokenRepository{db: db}
}

func (r *postgresTokenRepository) Create(ctx context.Context, userID uuid.UUID, tokenHash string) error {
	query := `INSERT INTO user_tokens (user_id, token_hash) VALUES ($1, $2)`
	_, err := r.db.ExecContext(ctx, query, userID, tokenHash)
	return err
}

func (r *postgresTokenRepository) Exists(ctx context.Context, userID uuid.UUID, tokenHash string) (bool, error) {
	var count int
	query := `SELECT COUNT(*) FROM user_tokens WHERE user_id = $1 AND token_hash = $2`
	err := r.db.GetContext(ctx, &count, query, userID, tokenHash)

	if err != nil {
		return false, err
	}

	return count > 0, nil
}

func (r *postgresTokenRepository) Delete(ctx context.Context, userID uuid.UUID, tokenHash string) error {
	query := `DELETE FROM user_tokens WHERE user_id = $1 AND token_hash = $2`
	_, err := r.db.ExecContext(ctx, query, userID, tokenHash)
	return err
}

func (r *postgresTokenRepository) DeleteAllForUser(ctx context.Context, userID uuid.UUID) error {
	query := `DELETE FROM user_tokens WHERE user_id = $1`
	_, err := r.db.ExecContext(ctx, query, userID)
	return err
}
