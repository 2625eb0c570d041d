package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"task-service/internal/avatar"
	"task-service/internal/service"
)

type UserHandler struct {
	authService service.AuthService
	userService service.UserService
	validate    *validator.Validate
}

func NewUserHandler(authService service.AuthService, userService service.UserService) *UserHandler {
	return &UserHandler{
		authService: authService,
		userService: userService,
		validate:    validator.New(),
	}
}

type RegisterRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=7"`
	Age      int    `json:"age" validate:"gte=0"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UpdateProfileRequest covers the allow-listed profile fields; the key-set
// check against extra fields happens on the raw body before this is parsed.
type UpdateProfileRequest struct {
	Name     *string `json:"name" validate:"omitempty,min=1"`
	Email    *string `json:"email" validate:"omitempty,email"`
	Password *string `json:"password" validate:"omitempty,min=7"`
	Age      *int    `json:"age" validate:"omitempty,gte=0"`
}

var userUpdateFields = map[string]bool{
	"name":     true,
	"email":    true,
	"password": true,
	"age":      true,
}

func (h *UserHandler) Register(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	if err := h.validate.Struct(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid input", "details": err.Error()})
	}

	user, token, err := h.authService.Register(c.Context(), service.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Age:      req.Age,
	})
	if err != nil {
		if errors.Is(err, service.ErrWeakPassword) || errors.Is(err, service.ErrEmailTaken) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		slog.ErrorContext(c.UserContext(), "Error registering user", slog.String("error", err.Error()))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not register user"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"user": user, "token": token})
}

func (h *UserHandler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}

	user, token, err := h.authService.Login(c.Context(), req.Email, req.Password)
	if err != nil {
		// same response for unknown email and wrong password
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Unable to login!"})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"user": user, "token": token})
}

func (h *UserHandler) GetProfile(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(CurrentUser(c))
}

func (h *UserHandler) Logout(c *fiber.Ctx) error {
	user := CurrentUser(c)

	if err := h.authService.Logout(c.Context(), user.ID, CurrentToken(c)); err != nil {
		return c.SendStatus(fiber.StatusInternalServerError)
	}

	return c.SendStatus(fiber.StatusOK)
}

func (h *UserHandler) LogoutAll(c *fiber.Ctx) error {
	user := CurrentUser(c)

	if err := h.authService.LogoutAll(c.Context(), user.ID); err != nil {
		return c.SendStatus(fiber.StatusInternalServerError)
	}

	return c.SendStatus(fiber.StatusOK)
}

func (h *UserHandler) UpdateProfile(c *fiber.Ctx) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(c.Body(), &raw); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}

	// all-or-nothing: one disallowed key rejects the whole request
	for key := range raw {
		if !userUpdateFields[key] {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid updates!"})
		}
	}

	var req UpdateProfileRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}

	if err := h.validate.Struct(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid input", "details": err.Error()})
	}

	user := CurrentUser(c)

	updated, err := h.userService.UpdateProfile(c.Context(), user.ID, service.UpdateUserDTO{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Age:      req.Age,
	})
	if err != nil {
		if errors.Is(err, service.ErrWeakPassword) || errors.Is(err, service.ErrEmailTaken) ||
			errors.Is(err, service.ErrEmptyName) || errors.Is(err, service.ErrEmptyEmail) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		slog.ErrorContext(c.UserContext(), "Error updating profile", slog.String("error", err.Error()))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not update user profile"})
	}

	return c.Status(fiber.StatusOK).JSON(updated)
}

func (h *UserHandler) DeleteProfile(c *fiber.Ctx) error {
	user := CurrentUser(c)

	if err := h.userService.DeleteAccount(c.Context(), user.ID); err != nil {
		slog.ErrorContext(c.UserContext(), "Error deleting account", slog.String("error", err.Error()))
		return c.SendStatus(fiber.StatusInternalServerError)
	}

	return c.Status(fiber.StatusOK).JSON(user)
}

// UploadAvatar is the one route whose failures are returned up to the
// app-level ErrorHandler rather than written inline.
func (h *UserHandler) UploadAvatar(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("avatar")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Please upload an image file!")
	}

	if !avatar.AllowedFilename(fileHeader.Filename) {
		return fiber.NewError(fiber.StatusBadRequest, "Please upload an image file!")
	}

	if fileHeader.Size > avatar.MaxUploadBytes {
		return fiber.NewError(fiber.StatusBadRequest, "Image file is too large!")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Please upload an image file!")
	}
	defer file.Close()

	normalized, err := avatar.Normalize(file)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	user := CurrentUser(c)

	if err := h.userService.SetAvatar(c.Context(), user.ID, normalized); err != nil {
		slog.ErrorContext(c.UserContext(), "Error storing avatar", slog.String("error", err.Error()))
		return fiber.NewError(fiber.StatusInternalServerError, "Could not store avatar")
	}

	return c.SendStatus(fiber.StatusOK)
}

func (h *UserHandler) DeleteAvatar(c *fiber.Ctx) error {
	user := CurrentUser(c)

	if err := h.userService.ClearAvatar(c.Context(), user.ID); err != nil {
		return c.SendStatus(fiber.StatusBadRequest)
	}

	return c.SendStatus(fiber.StatusOK)
}

func (h *UserHandler) GetAvatarByID(c *fiber.Ctx) error {
	userID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "No user or avatar found!"})
	}

	data, err := h.userService.GetAvatar(c.Context(), userID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "No user or avatar found!"})
	}

	c.Set(fiber.HeaderContentType, "image/png")
	return c.Status(fiber.StatusOK).Send(data)
}
