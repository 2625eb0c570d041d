package model

import (
	"time"

	"github.com/google/uuid"
)

// User is an account record. PasswordHash and Avatar are never serialized
// to clients; active session tokens live in user_tokens, not on the struct.
type User struct {
	ID           uuid.UUID `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Age          int       `db:"age" json:"age"`
	Avatar       []byte    `db:"avatar" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time `db:"updated_at" json:"updatedAt"`
}

// UserToken is one entry in a user's active-session allow-list. TokenHash is
// the hex SHA-256 of an issued JWT; the raw token is never persisted.
type UserToken struct {
	ID        uuid.UUID `db:"id"`
	UserID    uuid.UUID `db:"user_id"`
	TokenHash string    `db:"token_hash"`
	CreatedAt time.Time `db:"created_at"`
}
