package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandler is the app-level error sink. Route handlers write their own
// responses; only errors returned up the chain land here, which in practice
// is the avatar-upload rejection path.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
		message = e.Message
	}

	return c.Status(code).JSON(fiber.Map{"error": message})
}
