package migrations

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upCreateUserTokensTable, downCreateUserTokensTable)
}

func upCreateUserTokensTable(ctx context.Context, tx *sql.Tx) error {
	query := `
	CREATE TABLE user_tokens (
	  id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	  user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	  token_hash TEXT NOT NULL,
	  created_at TIMESTAMP WITH TIME ZONE DEFAULT now(),
	  UNIQUE (user_id, token_hash)
	);
	`

	_, err := tx.ExecContext(ctx, query)

	if err != nil {
		return err
	}

	return nil
}

func downCreateUserTokensTable(ctx context.Context, tx *sql.Tx) error {
	query := `DROP TABLE IF EXISTS user_tokens;`
	_, err := tx.ExecContext(ctx, query)
	if err != nil {
		return err
	}
	return nil
}
