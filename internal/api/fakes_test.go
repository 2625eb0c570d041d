package api_test

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"task-service/internal/model"
	"task-service/internal/repository"
	"task-service/internal/service"
)

// fake services with overridable behavior per test

type fakeAuthService struct {
	registerFn     func(ctx context.Context, input service.RegisterInput) (*model.User, string, error)
	loginFn        func(ctx context.Context, email, password string) (*model.User, string, error)
	authenticateFn func(ctx context.Context, tokenString string) (*model.User, error)
	logoutFn       func(ctx context.Context, userID uuid.UUID, tokenString string) error
	logoutAllFn    func(ctx context.Context, userID uuid.UUID) error
}

func (f *fakeAuthService) Register(ctx context.Context, input service.RegisterInput) (*model.User, string, error) {
	if f.registerFn == nil {
		return nil, "", errors.New("unexpected Register call")
	}
	return f.registerFn(ctx, input)
}

func (f *fakeAuthService) Login(ctx context.Context, email, password string) (*model.User, string, error) {
	if f.loginFn == nil {
		return nil, "", errors.New("unexpected Login call")
	}
	return f.loginFn(ctx, email, password)
}

func (f *fakeAuthService) Authenticate(ctx context.Context, tokenString string) (*model.User, error) {
	if f.authenticateFn == nil {
		return nil, errors.New("unexpected Authenticate call")
	}
	return f.authenticateFn(ctx, tokenString)
}

func (f *fakeAuthService) Logout(ctx context.Context, userID uuid.UUID, tokenString string) error {
	if f.logoutFn == nil {
		return errors.New("unexpected Logout call")
	}
	return f.logoutFn(ctx, userID, tokenString)
}

func (f *fakeAuthService) LogoutAll(ctx context.Context, userID uuid.UUID) error {
	if f.logoutAllFn == nil {
		return errors.New("unexpected LogoutAll call")
	}
	return f.logoutAllFn(ctx, userID)
}

type fakeUserService struct {
	updateProfileFn func(ctx context.Context, userID uuid.UUID, dto service.UpdateUserDTO) (*model.User, error)
	deleteAccountFn func(ctx context.Context, userID uuid.UUID) error
	setAvatarFn     func(ctx context.Context, userID uuid.UUID, avatar []byte) error
	clearAvatarFn   func(ctx context.Context, userID uuid.UUID) error
	getAvatarFn     func(ctx context.Context, userID uuid.UUID) ([]byte, error)
}

func (f *fakeUserService) UpdateProfile(ctx context.Context, userID uuid.UUID, dto service.UpdateUserDTO) (*model.User, error) {
	if f.updateProfileFn == nil {
		return nil, errors.New("unexpected UpdateProfile call")
	}
	return f.updateProfileFn(ctx, userID, dto)
}

func (f *fakeUserService) DeleteAccount(ctx context.Context, userID uuid.UUID) error {
	if f.deleteAccountFn == nil {
		return errors.New("unexpected DeleteAccount call")
	}
	return f.deleteAccountFn(ctx, userID)
}

func (f *fakeUserService) SetAvatar(ctx context.Context, userID uuid.UUID, avatar []byte) error {
	if f.setAvatarFn == nil {
		return errors.New("unexpected SetAvatar call")
	}
	return f.setAvatarFn(ctx, userID, avatar)
}

func (f *fakeUserService) ClearAvatar(ctx context.Context, userID uuid.UUID) error {
	if f.clearAvatarFn == nil {
		return errors.New("unexpected ClearAvatar call")
	}
	return f.clearAvatarFn(ctx, userID)
}

func (f *fakeUserService) GetAvatar(ctx context.Context, userID uuid.UUID) ([]byte, error) {
	if f.getAvatarFn == nil {
		return nil, errors.New("unexpected GetAvatar call")
	}
	return f.getAvatarFn(ctx, userID)
}

type fakeTaskService struct {
	createFn func(ctx context.Context, ownerID uuid.UUID, input service.CreateTaskInput) (*model.Task, error)
	listFn   func(ctx context.Context, ownerID uuid.UUID, filter repository.TaskFilter) ([]model.Task, error)
	getFn    func(ctx context.Context, id, ownerID uuid.UUID) (*model.Task, error)
	updateFn func(ctx context.Context, id, ownerID uuid.UUID, update repository.TaskUpdate) (*model.Task, error)
	deleteFn func(ctx context.Context, id, ownerID uuid.UUID) (*model.Task, error)
}

func (f *fakeTaskService) Create(ctx context.Context, ownerID uuid.UUID, input service.CreateTaskInput) (*model.Task, error) {
	if f.createFn == nil {
		return nil, errors.New("unexpected Create call")
	}
	return f.createFn(ctx, ownerID, input)
}

func (f *fakeTaskService) List(ctx context.Context, ownerID uuid.UUID, filter repository.TaskFilter) ([]model.Task, error) {
	if f.listFn == nil {
		return nil, errors.New("unexpected List call")
	}
	return f.listFn(ctx, ownerID, filter)
}

func (f *fakeTaskService) GetByID(ctx context.Context, id, ownerID uuid.UUID) (*model.Task, error) {
	if f.getFn == nil {
		return nil, errors.New("unexpected GetByID call")
	}
	return f.getFn(ctx, id, ownerID)
}

func (f *fakeTaskService) Update(ctx context.Context, id, ownerID uuid.UUID, update repository.TaskUpdate) (*model.Task, error) {
	if f.updateFn == nil {
		return nil, errors.New("unexpected Update call")
	}
	return f.updateFn(ctx, id, ownerID, update)
}

func (f *fakeTaskService) Delete(ctx context.Context, id, ownerID uuid.UUID) (*model.Task, error) {
	if f.deleteFn == nil {
		return nil, errors.New("unexpected Delete call")
	}
	return f.deleteFn(ctx, id, ownerID)
}
