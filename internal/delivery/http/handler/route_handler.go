package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/shuttle-booking/internal/pkg/errors"
	"github.com/shuttle-booking/internal/pkg/utils"
	"github.com/shuttle-booking/internal/pkg/validator"
	"github.com/shuttle-booking/internal/usecase/dto"
	"go.uber.org/zap"
)

// RouteHandler - расписание маршрутов, остановки и свободные места
type RouteHandler struct {
	catalogUC CatalogService
	bookingUC BookingService
	logger    *zap.Logger
}

func NewRouteHandler(catalogUC CatalogService, bookingUC BookingService, logger *zap.Logger) *RouteHandler {
	return &RouteHandler{
		catalogUC: catalogUC,
		bookingUC: bookingUC,
		logger:    logger,
	}
}

// ListRoutes godoc
// @Summary Все маршруты
// @Description Расписание с номером машины и телефоном водителя. meta.degraded=true, если данные транспорта недоступны
// @Tags Routes
// @Produce json
// @Success 200 {object} utils.SuccessResponse{data=[]domain.Route}
// @Router /api/v1/routes [get]
func (h *RouteHandler) ListRoutes(c *fiber.Ctx) error {
	routes, degraded := h.catalogUC.ListRoutes(c.Context())
	return utils.SendSuccess(c, routes, &utils.Meta{
		Total:    len(routes),
		Degraded: degraded,
	})
}

// ListPartitions godoc
// @Summary Маршруты по группам
// @Description Четыре группы: утро туда, вечер обратно, ночь туда, ночь обратно
// @Tags Routes
// @Produce json
// @Success 200 {object} utils.SuccessResponse{data=[]dto.PartitionGroup}
// @Router /api/v1/routes/partitions [get]
func (h *RouteHandler) ListPartitions(c *fiber.Ctx) error {
	groups, degraded := h.catalogUC.ListPartitioned(c.Context())
	return utils.SendSuccess(c, groups, &utils.Meta{Degraded: degraded})
}

// Availability godoc
// @Summary Свободные места на дату
// @Tags Routes
// @Produce json
// @Param date query string true "Дата YYYY-MM-DD"
// @Success 200 {object} utils.SuccessResponse{data=[]domain.RouteAvailability}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 503 {object} utils.ErrorResponse
// @Router /api/v1/routes/availability [get]
func (h *RouteHandler) Availability(c *fiber.Ctx) error {
	date := c.Query("date")
	if date == "" {
		return utils.SendError(c, errors.ErrValidation.WithDetails(map[string]interface{}{"date": "required"}))
	}

	items, err := h.bookingUC.Availability(c.Context(), date)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, items, &utils.Meta{Total: len(items), Date: date})
}

// SeatCount godoc
// @Summary Занятые места маршрута
// @Description Без date - активные брони за все даты
// @Tags Routes
// @Produce json
// @Param id path string true "ID маршрута"
// @Param date query string false "Дата YYYY-MM-DD"
// @Success 200 {object} utils.SuccessResponse{data=dto.SeatCount}
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/routes/{id}/seats [get]
func (h *RouteHandler) SeatCount(c *fiber.Ctx) error {
	result, err := h.bookingUC.SeatCount(c.Context(), c.Params("id"), c.Query("date"))
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, result, nil)
}

// SaveDetails godoc
// @Summary Номера машин и телефоны водителей
// @Tags Routes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.SaveRouteDetailsRequest true "Данные транспорта"
// @Success 200 {object} utils.SuccessResponse{data=[]domain.Route}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 503 {object} utils.ErrorResponse
// @Router /api/v1/routes/details [put]
func (h *RouteHandler) SaveDetails(c *fiber.Ctx) error {
	var req dto.SaveRouteDetailsRequest
	if err := parseBody(c, &req); err != nil {
		return utils.SendError(c, err)
	}

	if err := h.catalogUC.SaveRouteDetails(c.Context(), req); err != nil {
		return utils.SendError(c, err)
	}

	routes, degraded := h.catalogUC.ListRoutes(c.Context())
	return utils.SendSuccess(c, routes, &utils.Meta{Total: len(routes), Degraded: degraded})
}

// ListStations godoc
// @Summary Все остановки
// @Tags Stations
// @Produce json
// @Success 200 {object} utils.SuccessResponse{data=[]domain.Station}
// @Router /api/v1/stations [get]
func (h *RouteHandler) ListStations(c *fiber.Ctx) error {
	stations := h.catalogUC.ListStations()
	return utils.SendSuccess(c, stations, &utils.Meta{Total: len(stations)})
}

// NearestStations godoc
// @Summary Ближайшие остановки
// @Tags Stations
// @Produce json
// @Param lat query number true "Широта"
// @Param lon query number true "Долгота"
// @Param limit query int false "Количество" default(5)
// @Success 200 {object} utils.SuccessResponse{data=[]domain.NearbyStation}
// @Failure 400 {object} utils.ErrorResponse
// @Router /api/v1/stations/nearest [get]
func (h *RouteHandler) NearestStations(c *fiber.Ctx) error {
	var req dto.NearestStationsRequest
	if err := c.QueryParser(&req); err != nil {
		return utils.SendError(c, errors.ErrValidation.WithMessage("Invalid query parameters"))
	}
	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, err)
	}

	stations, err := h.catalogUC.NearestStations(req)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, stations, &utils.Meta{Total: len(stations)})
}
