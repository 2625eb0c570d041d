package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"task-service/internal/repository"
	"task-service/internal/service"
)

type TaskHandler struct {
	taskService service.TaskService
	validate    *validator.Validate
}

func NewTaskHandler(taskService service.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
		validate:    validator.New(),
	}
}

type CreateTaskRequest struct {
	Description string `json:"description" validate:"required"`
	Completed   bool   `json:"completed"`
}

type UpdateTaskRequest struct {
	Description *string `json:"description" validate:"omitempty,min=1"`
	Completed   *bool   `json:"completed"`
}

var taskUpdateFields = map[string]bool{
	"description": true,
	"completed":   true,
}

func (h *TaskHandler) CreateTask(c *fiber.Ctx) error {
	var req CreateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}

	if err := h.validate.Struct(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid input", "details": err.Error()})
	}

	user := CurrentUser(c)

	task, err := h.taskService.Create(c.Context(), user.ID, service.CreateTaskInput{
		Description: req.Description,
		Completed:   req.Completed,
	})
	if err != nil {
		slog.ErrorContext(c.UserContext(), "Error creating task", slog.String("error", err.Error()))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Could not create task"})
	}

	return c.Status(fiber.StatusCreated).JSON(task)
}

// ListTasks supports GET /tasks?completed=true&sortBy=createdAt:desc&limit=10&skip=10.
func (h *TaskHandler) ListTasks(c *fiber.Ctx) error {
	filter := parseTaskFilter(c)

	user := CurrentUser(c)

	tasks, err := h.taskService.List(c.Context(), user.ID, filter)
	if err != nil {
		slog.ErrorContext(c.UserContext(), "Error listing tasks", slog.String("error", err.Error()))
		return c.SendStatus(fiber.StatusInternalServerError)
	}

	return c.Status(fiber.StatusOK).JSON(tasks)
}

// parseTaskFilter maps query parameters onto a repository filter. Anything
// unparseable is treated as unset rather than rejected.
func parseTaskFilter(c *fiber.Ctx) repository.TaskFilter {
	var filter repository.TaskFilter

	if completed := c.Query("completed"); completed != "" {
		value := completed == "true"
		filter.Completed = &value
	}

	if sortBy := c.Query("sortBy"); sortBy != "" {
		field, direction, _ := strings.Cut(sortBy, ":")
		filter.SortBy = field
		filter.SortDesc = direction != "asc"
	}

	// limit=0 means unlimited, same as leaving it off
	if limit, err := strconv.Atoi(c.Query("limit")); err == nil && limit > 0 {
		filter.Limit = &limit
	}
	if skip, err := strconv.Atoi(c.Query("skip")); err == nil && skip >= 0 {
		filter.Skip = &skip
	}

	return filter
}

func (h *TaskHandler) GetTask(c *fiber.Ctx) error {
	taskID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.SendStatus(fiber.StatusNotFound)
	}

	user := CurrentUser(c)

	task, err := h.taskService.GetByID(c.Context(), taskID, user.ID)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return c.SendStatus(fiber.StatusNotFound)
		}
		return c.SendStatus(fiber.StatusInternalServerError)
	}

	return c.Status(fiber.StatusOK).JSON(task)
}

func (h *TaskHandler) UpdateTask(c *fiber.Ctx) error {
	taskID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.SendStatus(fiber.StatusNotFound)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(c.Body(), &raw); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}

	for key := range raw {
		if !taskUpdateFields[key] {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid updates!"})
		}
	}

	var req UpdateTaskRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}

	if err := h.validate.Struct(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid input", "details": err.Error()})
	}

	user := CurrentUser(c)

	task, err := h.taskService.Update(c.Context(), taskID, user.ID, repository.TaskUpdate{
		Description: req.Description,
		Completed:   req.Completed,
	})
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return c.SendStatus(fiber.StatusNotFound)
		}
		slog.ErrorContext(c.UserContext(), "Error updating task", slog.String("error", err.Error()))
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Could not update task"})
	}

	return c.Status(fiber.StatusOK).JSON(task)
}

func (h *TaskHandler) DeleteTask(c *fiber.Ctx) error {
	taskID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.SendStatus(fiber.StatusNotFound)
	}

	user := CurrentUser(c)

	task, err := h.taskService.Delete(c.Context(), taskID, user.ID)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			return c.SendStatus(fiber.StatusNotFound)
		}
		return c.SendStatus(fiber.StatusInternalServerError)
	}

	return c.Status(fiber.StatusOK).JSON(task)
}
