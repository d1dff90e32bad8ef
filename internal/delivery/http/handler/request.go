package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/shuttle-booking/internal/pkg/errors"
	"github.com/shuttle-booking/internal/pkg/validator"
)

// parseBody - разбор JSON тела и валидация по тегам
func parseBody(c *fiber.Ctx, req interface{}) error {
	if err := c.BodyParser(req); err != nil {
		return errors.ErrValidation.WithMessage("Invalid request body")
	}
	return validator.Validate(req)
}
