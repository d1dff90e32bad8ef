package utils

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/shuttle-booking/internal/pkg/errors"
)

type SuccessResponse struct {
	Data interface{} `json:"data"`
	Meta *Meta       `json:"meta,omitempty"`
}

type ErrorResponse struct {
	Error *errors.AppError `json:"error"`
}

type Meta struct {
	Total int `json:"total,omitempty"`
	// Degraded - хранилище недоступно, данные неполные (пустой список вместо ошибки)
	Degraded bool   `json:"degraded,omitempty"`
	Date     string `json:"date,omitempty"`
}

func SendSuccess(c *fiber.Ctx, data interface{}, meta *Meta) error {
	return c.JSON(SuccessResponse{
		Data: data,
		Meta: meta,
	})
}

func SendCreated(c *fiber.Ctx, data interface{}, meta *Meta) error {
	c.Status(http.StatusCreated)
	return SendSuccess(c, data, meta)
}

func SendError(c *fiber.Ctx, err error) error {
	if appErr, ok := errors.As(err); ok {
		return c.Status(appErr.StatusCode).JSON(ErrorResponse{
			Error: appErr,
		})
	}

	if fiberErr, ok := err.(*fiber.Error); ok {
		return c.Status(fiberErr.Code).JSON(ErrorResponse{
			Error: errors.New("HTTP_ERROR", fiberErr.Message, fiberErr.Code),
		})
	}

	// Неизвестная ошибка - 500
	return c.Status(http.StatusInternalServerError).JSON(ErrorResponse{
		Error: errors.ErrInternalServer,
	})
}
