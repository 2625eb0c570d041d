package service_test

import (
	"context"
	"database/sql"
	"sync"

	"github.com/google/uuid"

	"task-service/internal/model"
	"task-service/internal/repository"
)

// in-memory fakes for the repository interfaces

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[uuid.UUID]*model.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[uuid.UUID]*model.User{}}
}

func (f *fakeUserRepo) Create(_ context.Context, user *model.User) (uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.users {
		if existing.Email == user.Email {
			return uuid.Nil, repository.ErrDuplicateEmail
		}
	}
	u := *user
	u.ID = uuid.New()
	f.users[u.ID] = &u
	return u.ID, nil
}

func (f *fakeUserRepo) FindByEmail(_ context.Context, email string) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeUserRepo) FindByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *u
	return &copied, nil
}

func (f *fakeUserRepo) Update(_ context.Context, id uuid.UUID, update repository.UserUpdate) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return sql.ErrNoRows
	}
	if update.Email != nil {
		for otherID, other := range f.users {
			if otherID != id && other.Email == *update.Email {
				return repository.ErrDuplicateEmail
			}
		}
		u.Email = *update.Email
	}
	if update.Name != nil {
		u.Name = *update.Name
	}
	if update.PasswordHash != nil {
		u.PasswordHash = *update.PasswordHash
	}
	if update.Age != nil {
		u.Age = *update.Age
	}
	return nil
}

func (f *fakeUserRepo) Delete(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.users, id)
	return nil
}

func (f *fakeUserRepo) SetAvatar(_ context.Context, id uuid.UUID, avatar []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return sql.ErrNoRows
	}
	u.Avatar = avatar
	return nil
}

func (f *fakeUserRepo) ClearAvatar(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return sql.ErrNoRows
	}
	u.Avatar = nil
	return nil
}

func (f *fakeUserRepo) FindAvatar(_ context.Context, id uuid.UUID) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return u.Avatar, nil
}

type fakeTokenRepo struct {
	mu     sync.Mutex
	tokens map[uuid.UUID][]string
}

func newFakeTokenRepo() *fakeTokenRepo {
	return &fakeTokenRepo{tokens: map[uuid.UUID][]string{}}
}

func (f *fakeTokenRepo) Create(_ context.Context, userID uuid.UUID, tokenHash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tokens[userID] = append(f.tokens[userID], tokenHash)
	return nil
}

func (f *fakeTokenRepo) Exists(_ context.Context, userID uuid.UUID, tokenHash string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, h := range f.tokens[userID] {
		if h == tokenHash {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeTokenRepo) Delete(_ context.Context, userID uuid.UUID, tokenHash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	kept := f.tokens[userID][:0]
	for _, h := range f.tokens[userID] {
		if h != tokenHash {
			kept = append(kept, h)
		}
	}
	f.tokens[userID] = kept
	return nil
}

func (f *fakeTokenRepo) DeleteAllForUser(_ context.Context, userID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.tokens, userID)
	return nil
}

func (f *fakeTokenRepo) count(userID uuid.UUID) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.tokens[userID])
}

type fakeTaskRepo struct {
	mu    sync.Mutex
	tasks map[uuid.UUID]*model.Task
}

func newFakeTaskRepo() *fakeTaskRepo {
	return &fakeTaskRepo{tasks: map[uuid.UUID]*model.Task{}}
}

func (f *fakeTaskRepo) Create(_ context.Context, task *model.Task) (*model.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	created := *task
	created.ID = uuid.New()
	f.tasks[created.ID] = &created
	result := created
	return &result, nil
}

func (f *fakeTaskRepo) FindByIDAndOwner(_ context.Context, id, ownerID uuid.UUID) (*model.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	task, ok := f.tasks[id]
	if !ok || task.OwnerID != ownerID {
		return nil, sql.ErrNoRows
	}
	copied := *task
	return &copied, nil
}

func (f *fakeTaskRepo) ListByOwner(_ context.Context, ownerID uuid.UUID, filter repository.TaskFilter) ([]model.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	result := []model.Task{}
	for _, task := range f.tasks {
		if task.OwnerID != ownerID {
			continue
		}
		if filter.Completed != nil && task.Completed != *filter.Completed {
			continue
		}
		result = append(result, *task)
	}
	return result, nil
}

func (f *fakeTaskRepo) Update(_ context.Context, id, ownerID uuid.UUID, update repository.TaskUpdate) (*model.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	task, ok := f.tasks[id]
	if !ok || task.OwnerID != ownerID {
		return nil, sql.ErrNoRows
	}
	if update.Description != nil {
		task.Description = *update.Description
	}
	if update.Completed != nil {
		task.Completed = *update.Completed
	}
	copied := *task
	return &copied, nil
}

func (f *fakeTaskRepo) DeleteByIDAndOwner(_ context.Context, id, ownerID uuid.UUID) (*model.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	task, ok := f.tasks[id]
	if !ok || task.OwnerID != ownerID {
		return nil, sql.ErrNoRows
	}
	delete(f.tasks, id)
	copied := *task
	return &copied, nil
}

func (f *fakeTaskRepo) DeleteAllByOwner(_ context.Context, ownerID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, task := range f.tasks {
		if task.OwnerID == ownerID {
			delete(f.tasks, id)
		}
	}
	return nil
}

func (f *fakeTaskRepo) countByOwner(ownerID uuid.UUID) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, task := range f.tasks {
		if task.OwnerID == ownerID {
			n++
		}
	}
	return n
}

type fakePublisher struct {
	mu       sync.Mutex
	subjects []string
}

func (f *fakePublisher) record(subject string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.subjects = append(f.subjects, subject)
	return nil
}

func (f *fakePublisher) PublishUserRegistered(*model.User) error { return f.record("user.registered") }
func (f *fakePublisher) PublishUserDeleted(uuid.UUID) error      { return f.record("user.deleted") }
func (f *fakePublisher) PublishTaskCreated(*model.Task) error    { return f.record("task.created") }
