package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"

	"task-service/internal/model"
)

// ErrDuplicateEmail reports a unique-constraint violation on users.email.
var ErrDuplicateEmail = errors.New("email is already registered")

// UserUpdate carries the fields a profile update may change. Nil means
// "leave unchanged". Password is already hashed by the caller.
type UserUpdate struct {
	Name         *string
	Email        *string
	PasswordHash *string
	Age          *int
}

type UserRepository interface {
	Create(ctx context.Context, user *model.User) (uuid.UUID, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	Update(ctx context.Context, id uuid.UUID, update UserUpdate) error
	Delete(ctx context.Context, id uuid.UUID) error
	SetAvatar(ctx context.Context, id uuid.UUID, avatar []byte) error
	ClearAvatar(ctx context.Context, id uuid.UUID) error
	FindAvatar(ctx context.Context, id uuid.UUID) ([]byte, error)
}

type postgresUserRepository struct {
	db *sqlx.DB
}

func NewPostgresUserRepository(db *sqlx.DB) UserRepository {
	return &postgresUserRepository{db: db}
}

func (r *postgresUserRepository) Create(ctx context.Context, user *model.User) (uuid.UUID, error) {
	query := `INSERT INTO users (name, email, password_hash, age) VALUES ($1, $2, $3, $4) RETURNING id`
	var newID uuid.UUID
	err := r.db.QueryRowxContext(ctx, query, user.Name, user.Email, user.PasswordHash, user.Age).Scan(&newID)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return uuid.Nil, ErrDuplicateEmail
		}
		return uuid.Nil, err
	}

	return newID, nil
}

func (r *postgresUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	query := `SELECT id, name, email, password_hash, age, created_at, updated_at FROM users WHERE email = $1`
	err := r.db.GetContext(ctx, &user, query, email)

	if err != nil {
		return nil, err
	}

	return &user, nil
}

func (r *postgresUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	var user model.User
	// avatar is excluded; FindAvatar fetches the blob on its own.
	query := `SELECT id, name, email, password_hash, age, created_at, updated_at FROM users WHERE id = $1`
	err := r.db.GetContext(ctx, &user, query, id)

	if err != nil {
		return nil, err
	}

	return &user, nil
}

func (r *postgresUserRepository) Update(ctx context.Context, id uuid.UUID, update UserUpdate) error {
	var setClauses []string
	var args []interface{}
	argId := 1

	if update.Name != nil {
		setClauses = append(setClauses, fmt.Sprintf("name = $%d", argId))
		args = append(args, *update.Name)
		argId++
	}
	if update.Email != nil {
		setClauses = append(setClauses, fmt.Sprintf("email = $%d", argId))
		args = append(args, *update.Email)
		argId++
	}
	if update.PasswordHash != nil {
		setClauses = append(setClauses, fmt.Sprintf("password_hash = $%d", argId))
		args = append(args, *update.PasswordHash)
		argId++
	}
	if update.Age != nil {
		setClauses = append(setClauses, fmt.Sprintf("age = $%d", argId))
		args = append(args, *update.Age)
		argId++
	}

	if len(setClauses) == 0 {
		return nil
	}

	setClauses = append(setClauses, "updated_at = now()")

	query := fmt.Sprintf("UPDATE users SET %s WHERE id = $%d", strings.Join(setClauses, ", "), argId)
	args = append(args, id)

	_, err := r.db.ExecContext(ctx, query, args...)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrDuplicateEmail
		}
		return err
	}

	return nil
}

func (r *postgresUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM users WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id)
	return err
}

func (r *postgresUserRepository) SetAvatar(ctx context.Context, id uuid.UUID, avatar []byte) error {
	query := `UPDATE users SET avatar = $1, updated_at = now() WHERE id = $2`
	_, err := r.db.ExecContext(ctx, query, avatar, id)
	return err
}

func (r *postgresUserRepository) ClearAvatar(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE users SET avatar = NULL, updated_at = now() WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id)
	return err
}

func (r *postgresUserRepository) FindAvatar(ctx context.Context, id uuid.UUID) ([]byte, error) {
	var avatar []byte
	query := `SELECT avatar FROM users WHERE id = $1`
	err := r.db.GetContext(ctx, &avatar, query, id)

	if err != nil {
		return nil, err
	}

	return avatar, nil
}
