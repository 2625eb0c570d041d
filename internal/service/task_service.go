package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"task-service/internal/events"
	"task-service/internal/model"
	"task-service/internal/repository"
)

type CreateTaskInput struct {
	Description string
	Completed   bool
}

type TaskService interface {
	Create(ctx context.Context, ownerID uuid.UUID, input CreateTaskInput) (*model.Task, error)
	List(ctx context.Context, ownerID uuid.UUID, filter repository.TaskFilter) ([]model.Task, error)
	GetByID(ctx context.Context, id, ownerID uuid.UUID) (*model.Task, error)
	Update(ctx context.Context, id, ownerID uuid.UUID, update repository.TaskUpdate) (*model.Task, error)
	Delete(ctx context.Context, id, ownerID uuid.UUID) (*model.Task, error)
}

type taskService struct {
	taskRepo  repository.TaskRepository
	publisher events.EventPublisher
}

func NewTaskService(taskRepo repository.TaskRepository, publisher events.EventPublisher) TaskService {
	return &taskService{
		taskRepo:  taskRepo,
		publisher: publisher,
	}
}

func (s *taskService) Create(ctx context.Context, ownerID uuid.UUID, input CreateTaskInput) (*model.Task, error) {
	task := &model.Task{
		Description: input.Description,
		Completed:   input.Completed,
		OwnerID:     ownerID,
	}

	created, err := s.taskRepo.Create(ctx, task)
	if err != nil {
		return nil, err
	}

	go s.publisher.PublishTaskCreated(created)

	return created, nil
}

func (s *taskService) List(ctx context.Context, ownerID uuid.UUID, filter repository.TaskFilter) ([]model.Task, error) {
	return s.taskRepo.ListByOwner(ctx, ownerID, filter)
}

// GetByID scopes the lookup to the owner, so another user's task reads as
// absent rather than forbidden.
func (s *taskService) GetByID(ctx context.Context, id, ownerID uuid.UUID) (*model.Task, error) {
	task, err := s.taskRepo.FindByIDAndOwner(ctx, id, ownerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return task, nil
}

func (s *taskService) Update(ctx context.Context, id, ownerID uuid.UUID, update repository.TaskUpdate) (*model.Task, error) {
	task, err := s.taskRepo.Update(ctx, id, ownerID, update)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return task, nil
}

func (s *taskService) Delete(ctx context.Context, id, ownerID uuid.UUID) (*model.Task, error) {
	task, err := s.taskRepo.DeleteByIDAndOwner(ctx, id, ownerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return task, nil
}
