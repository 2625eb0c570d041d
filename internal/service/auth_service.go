package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"task-service/internal/events"
	"task-service/internal/jwt"
	"task-service/internal/model"
	"task-service/internal/repository"
)

var (
	// ErrInvalidCredentials is deliberately the same for an unknown email
	// and a wrong password.
	ErrInvalidCredentials = errors.New("Unable to login!")
	ErrTokenRevoked       = errors.New("token is not in the active session list")
	ErrEmailTaken         = errors.New("e-mail is already registered")
	ErrWeakPassword       = errors.New(`Password cannot contain "password"!`)
)

type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Age      int
}

type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*model.User, string, error)
	Login(ctx context.Context, email, password string) (*model.User, string, error)
	Authenticate(ctx context.Context, tokenString string) (*model.User, error)
	Logout(ctx context.Context, userID uuid.UUID, tokenString string) error
	LogoutAll(ctx context.Context, userID uuid.UUID) error
}

type authService struct {
	userRepo  repository.UserRepository
	tokenRepo repository.TokenRepository
	publisher events.EventPublisher
}

func NewAuthService(userRepo repository.UserRepository, tokenRepo repository.TokenRepository, publisher events.EventPublisher) AuthService {
	return &authService{
		userRepo:  userRepo,
		tokenRepo: tokenRepo,
		publisher: publisher,
	}
}

// hashToken reduces a signed token to the value kept in the allow-list.
func hashToken(tokenString string) string {
	hash := sha256.Sum256([]byte(tokenString))
	return hex.EncodeToString(hash[:])
}

func (s *authService) Register(ctx context.Context, input RegisterInput) (*model.User, string, error) {
	if strings.Contains(strings.ToLower(input.Password), "password") {
		return nil, "", ErrWeakPassword
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}

	user := &model.User{
		Name:         strings.TrimSpace(input.Name),
		Email:        strings.ToLower(strings.TrimSpace(input.Email)),
		PasswordHash: string(hashedPassword),
		Age:          input.Age,
	}

	newID, err := s.userRepo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, "", ErrEmailTaken
		}
		return nil, "", err
	}

	created, err := s.userRepo.FindByID(ctx, newID)
	if err != nil {
		return nil, "", err
	}

	token, err := s.issueToken(ctx, created.ID)
	if err != nil {
		return nil, "", err
	}

	go s.publisher.PublishUserRegistered(created)

	return created, token, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (*model.User, string, error) {
	user, err := s.userRepo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, "", ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.issueToken(ctx, user.ID)
	if err != nil {
		return nil, "", err
	}

	return user, token, nil
}

// issueToken signs a new session token and appends it to the user's
// allow-list.
func (s *authService) issueToken(ctx context.Context, userID uuid.UUID) (string, error) {
	token, err := jwt.GenerateToken(userID)
	if err != nil {
		return "", err
	}

	if err := s.tokenRepo.Create(ctx, userID, hashToken(token)); err != nil {
		return "", err
	}

	return token, nil
}

// Authenticate verifies the token signature, then confirms the token is
// still on the user's allow-list. Both checks fail identically so a revoked
// token is indistinguishable from a forged one.
func (s *authService) Authenticate(ctx context.Context, tokenString string) (*model.User, error) {
	userID, err := jwt.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}

	active, err := s.tokenRepo.Exists(ctx, userID, hashToken(tokenString))
	if err != nil {
		return nil, err
	}
	if !active {
		return nil, ErrTokenRevoked
	}

	return s.userRepo.FindByID(ctx, userID)
}

func (s *authService) Logout(ctx context.Context, userID uuid.UUID, tokenString string) error {
	return s.tokenRepo.Delete(ctx, userID, hashToken(tokenString))
}

func (s *authService) LogoutAll(ctx context.Context, userID uuid.UUID) error {
	return s.tokenRepo.DeleteAllForUser(ctx, userID)
}
