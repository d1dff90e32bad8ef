package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/shuttle-booking/internal/pkg/utils"
	"github.com/shuttle-booking/internal/usecase/dto"
	"go.uber.org/zap"
)

// NewsHandler - объявление для пассажиров
type NewsHandler struct {
	newsUC NewsService
	logger *zap.Logger
}

func NewNewsHandler(newsUC NewsService, logger *zap.Logger) *NewsHandler {
	return &NewsHandler{
		newsUC: newsUC,
		logger: logger,
	}
}

// Get godoc
// @Summary Текущее объявление
// @Tags News
// @Produce json
// @Success 200 {object} utils.SuccessResponse{data=domain.News}
// @Router /api/v1/news [get]
func (h *NewsHandler) Get(c *fiber.Ctx) error {
	news, err := h.newsUC.Get(c.Context())
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, news, nil)
}

// Save godoc
// @Summary Изменение объявления
// @Tags News
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.SaveNewsRequest true "Текст"
// @Success 200 {object} utils.SuccessResponse{data=domain.News}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 503 {object} utils.ErrorResponse
// @Router /api/v1/news [put]
func (h *NewsHandler) Save(c *fiber.Ctx) error {
	var req dto.SaveNewsRequest
	if err := parseBody(c, &req); err != nil {
		return utils.SendError(c, err)
	}

	news, err := h.newsUC.Save(c.Context(), req.Text)
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, news, nil)
}
