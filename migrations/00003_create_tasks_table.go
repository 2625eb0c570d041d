package migrations

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upCreateTasksTable, downCreateTasksTable)
}

func upCreateTasksTable(ctx context.Context, tx *sql.Tx) error {
	query := `
	CREATE TABLE tasks (
	  id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	  description TEXT NOT NULL,
	  completed BOOLEAN NOT NULL DEFAULT false,
	  owner_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	  created_at TIMESTAMP WITH TIME ZONE DEFAULT now(),
	  updated_at TIMESTAMP WITH TIME ZONE DEFAULT now()
	);

	CREATE INDEX idx_tasks_owner_id ON tasks (owner_id);
	`

	_, err := tx.ExecContext(ctx, query)

	if err != nil {
		return err
	}

	return nil
}

func downCreateTasksTable(ctx context.Context, tx *sql.Tx) error {
	query := `DROP TABLE IF EXISTS tasks;`
	_, err := tx.ExecContext(ctx, query)
	if err != nil {
		return err
	}
	return nil
}
