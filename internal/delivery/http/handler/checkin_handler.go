package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/shuttle-booking/internal/delivery/http/middleware"
	"github.com/shuttle-booking/internal/pkg/utils"
	"github.com/shuttle-booking/internal/usecase/dto"
	"go.uber.org/zap"
)

// CheckInHandler - посадка по отсканированному QR
type CheckInHandler struct {
	checkInUC CheckInService
	logger    *zap.Logger
}

func NewCheckInHandler(checkInUC CheckInService, logger *zap.Logger) *CheckInHandler {
	return &CheckInHandler{
		checkInUC: checkInUC,
		logger:    logger,
	}
}

// Scan godoc
// @Summary Посадка по коду брони
// @Description Водитель сканирует в рамках маршрута и дня, администратор - по всем броням.
// @Description Неизвестный код и закрытая бронь - информационный результат, не ошибка
// @Tags CheckIn
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CheckInRequest true "Код и маршрут"
// @Success 200 {object} utils.SuccessResponse{data=domain.CheckInResult}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 503 {object} utils.ErrorResponse
// @Router /api/v1/checkin/scan [post]
func (h *CheckInHandler) Scan(c *fiber.Ctx) error {
	var req dto.CheckInRequest
	if err := parseBody(c, &req); err != nil {
		return utils.SendError(c, err)
	}

	scope, err := h.checkInUC.Scope(middleware.SessionFrom(c), req.RouteID, req.Date)
	if err != nil {
		return utils.SendError(c, err)
	}

	result, err := h.checkInUC.CheckIn(c.Context(), req.Code, scope)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, result, nil)
}
