package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"task-service/internal/model"
)

// sortColumns maps the public sortBy field names to table columns. Unknown
// fields fall back to the default order instead of reaching the query.
var sortColumns = map[string]string{
	"description": "description",
	"completed":   "completed",
	"createdAt":   "created_at",
	"updatedAt":   "updated_at",
}

// TaskFilter shapes a list query. Nil fields mean "unset": no completed
// filter, default order, no LIMIT/OFFSET.
type TaskFilter struct {
	Completed *bool
	SortBy    string
	SortDesc  bool
	Limit     *int
	Skip      *int
}

// TaskUpdate carries the fields a task update may change; nil leaves a
// field unchanged.
type TaskUpdate struct {
	Description *string
	Completed   *bool
}

type TaskRepository interface {
	Create(ctx context.Context, task *model.Task) (*model.Task, error)
	FindByIDAndOwner(ctx context.Context, id, ownerID uuid.UUID) (*model.Task, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID, filter TaskFilter) ([]model.Task, error)
	Update(ctx context.Context, id, ownerID uuid.UUID, update TaskUpdate) (*model.Task, error)
	DeleteByIDAndOwner(ctx context.Context, id, ownerID uuid.UUID) (*model.Task, error)
	DeleteAllByOwner(ctx context.Context, ownerID uuid.UUID) error
}

type postgresTaskRepository struct {
	db *sqlx.DB
}

func NewPostgresTaskRepository(db *sqlx.DB) TaskRepository {
	return &postgresTaskRepository{db: db}
}

func (r *postgresTaskRepository) Create(ctx context.Context, task *model.Task) (*model.Task, error) {
	query := `
		INSERT INTO tasks (description, completed, owner_id)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowxContext(ctx, query, task.Description, task.Completed, task.OwnerID).
		Scan(&task.ID, &task.CreatedAt, &task.UpdatedAt)

	if err != nil {
		return nil, err
	}

	return task, nil
}

func (r *postgresTaskRepository) FindByIDAndOwner(ctx context.Context, id, ownerID uuid.UUID) (*model.Task, error) {
	var task model.Task
	query := `SELECT id, description, completed, owner_id, created_at, updated_at FROM tasks WHERE id = $1 AND owner_id = $2`
	err := r.db.GetContext(ctx, &task, query, id, ownerID)

	if err != nil {
		return nil, err
	}

	return &task, nil
}

func (r *postgresTaskRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID, filter TaskFilter) ([]model.Task, error) {
	var sb strings.Builder
	sb.WriteString(`SELECT id, description, completed, owner_id, created_at, updated_at FROM tasks WHERE owner_id = $1`)

	args := []interface{}{ownerID}
	argId := 2

	if filter.Completed != nil {
		sb.WriteString(fmt.Sprintf(" AND completed = $%d", argId))
		args = append(args, *filter.Completed)
		argId++
	}

	if col, ok := sortColumns[filter.SortBy]; ok {
		direction := "ASC"
		if filter.SortDesc {
			direction = "DESC"
		}
		sb.WriteString(fmt.Sprintf(" ORDER BY %s %s", col, direction))
	} else {
		sb.WriteString(" ORDER BY created_at ASC")
	}

	if filter.Limit != nil {
		sb.WriteString(fmt.Sprintf(" LIMIT $%d", argId))
		args = append(args, *filter.Limit)
		argId++
	}
	if filter.Skip != nil {
		sb.WriteString(fmt.Sprintf(" OFFSET $%d", argId))
		args = append(args, *filter.Skip)
	}

	tasks := []model.Task{}
	err := r.db.SelectContext(ctx, &tasks, sb.String(), args...)

	if err != nil {
		return nil, err
	}

	return tasks, nil
}

func (r *postgresTaskRepository) Update(ctx context.Context, id, ownerID uuid.UUID, update TaskUpdate) (*model.Task, error) {
	var setClauses []string
	var args []interface{}
	argId := 1

	if update.Description != nil {
		setClauses = append(setClauses, fmt.Sprintf("description = $%d", argId))
		args = append(args, *update.Description)
		argId++
	}
	if update.Completed != nil {
		setClauses = append(setClauses, fmt.Sprintf("completed = $%d", argId))
		args = append(args, *update.Completed)
		argId++
	}

	if len(setClauses) == 0 {
		return r.FindByIDAndOwner(ctx, id, ownerID)
	}

	setClauses = append(setClauses, "updated_at = now()")

	query := fmt.Sprintf(`
		UPDATE tasks SET %s WHERE id = $%d AND owner_id = $%d
		RETURNING id, description, completed, owner_id, created_at, updated_at
	`, strings.Join(setClauses, ", "), argId, argId+1)
	args = append(args, id, ownerID)

	var task model.Task
	err := r.db.GetContext(ctx, &task, query, args...)

	if err != nil {
		return nil, err
	}

	return &task, nil
}

// DeleteByIDAndOwner removes the task and returns it in a single statement,
// so a concurrent delete cannot observe it half-gone.
func (r *postgresTaskRepository) DeleteByIDAndOwner(ctx context.Context, id, ownerID uuid.UUID) (*model.Task, error) {
	var task model.Task
	query := `
		DELETE FROM tasks WHERE id = $1 AND owner_id = $2
		RETURNING id, description, completed, owner_id, created_at, updated_at
	`
	err := r.db.GetContext(ctx, &task, query, id, ownerID)

	if err != nil {
		return nil, err
	}

	return &task, nil
}

func (r *postgresTaskRepository) DeleteAllByOwner(ctx context.Context, ownerID uuid.UUID) error {
	query := `DELETE FROM tasks WHERE owner_id = $1`
	_, err := r.db.ExecContext(ctx, query, ownerID)
	return err
}
