package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"task-service/internal/events"
	"task-service/internal/model"
	"task-service/internal/repository"
)

var (
	ErrNotFound   = errors.New("not found")
	ErrEmptyName  = errors.New("Name cannot be empty!")
	ErrEmptyEmail = errors.New("Email cannot be empty!")
)

// UpdateUserDTO carries the allow-listed profile fields. Password is the
// plaintext; the service re-hashes before it reaches the repository.
type UpdateUserDTO struct {
	Name     *string
	Email    *string
	Password *string
	Age      *int
}

type UserService interface {
	UpdateProfile(ctx context.Context, userID uuid.UUID, dto UpdateUserDTO) (*model.User, error)
	DeleteAccount(ctx context.Context, userID uuid.UUID) error
	SetAvatar(ctx context.Context, userID uuid.UUID, avatar []byte) error
	ClearAvatar(ctx context.Context, userID uuid.UUID) error
	GetAvatar(ctx context.Context, userID uuid.UUID) ([]byte, error)
}

type userService struct {
	userRepo  repository.UserRepository
	tokenRepo repository.TokenRepository
	taskRepo  repository.TaskRepository
	publisher events.EventPublisher
}

func NewUserService(userRepo repository.UserRepository, tokenRepo repository.TokenRepository, taskRepo repository.TaskRepository, publisher events.EventPublisher) UserService {
	return &userService{
		userRepo:  userRepo,
		tokenRepo: tokenRepo,
		taskRepo:  taskRepo,
		publisher: publisher,
	}
}

func (s *userService) UpdateProfile(ctx context.Context, userID uuid.UUID, dto UpdateUserDTO) (*model.User, error) {
	update := repository.UserUpdate{Age: dto.Age}

	if dto.Name != nil {
		name := strings.TrimSpace(*dto.Name)
		if name == "" {
			return nil, ErrEmptyName
		}
		update.Name = &name
	}
	if dto.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*dto.Email))
		if email == "" {
			return nil, ErrEmptyEmail
		}
		update.Email = &email
	}
	if dto.Password != nil {
		if strings.Contains(strings.ToLower(*dto.Password), "password") {
			return nil, ErrWeakPassword
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(*dto.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		hash := string(hashed)
		update.PasswordHash = &hash
	}

	if err := s.userRepo.Update(ctx, userID, update); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	return s.userRepo.FindByID(ctx, userID)
}

// DeleteAccount removes the user's tasks and session tokens before the user
// row itself, so the cascade is explicit rather than hidden in the schema.
func (s *userService) DeleteAccount(ctx context.Context, userID uuid.UUID) error {
	if err := s.taskRepo.DeleteAllByOwner(ctx, userID); err != nil {
		return err
	}

	if err := s.tokenRepo.DeleteAllForUser(ctx, userID); err != nil {
		return err
	}

	if err := s.userRepo.Delete(ctx, userID); err != nil {
		return err
	}

	go s.publisher.PublishUserDeleted(userID)

	return nil
}

func (s *userService) SetAvatar(ctx context.Context, userID uuid.UUID, avatar []byte) error {
	return s.userRepo.SetAvatar(ctx, userID, avatar)
}

func (s *userService) ClearAvatar(ctx context.Context, userID uuid.UUID) error {
	return s.userRepo.ClearAvatar(ctx, userID)
}

func (s *userService) GetAvatar(ctx context.Context, userID uuid.UUID) ([]byte, error) {
	avatar, err := s.userRepo.FindAvatar(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if len(avatar) == 0 {
		return nil, ErrNotFound
	}

	return avatar, nil
}
