package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/shuttle-booking/internal/delivery/http/middleware"
	"github.com/shuttle-booking/internal/pkg/utils"
	"github.com/shuttle-booking/internal/usecase/dto"
	"go.uber.org/zap"
)

// BookingHandler - бронирование, история и смена статусов
type BookingHandler struct {
	bookingUC BookingService
	checkInUC CheckInService
	logger    *zap.Logger
}

func NewBookingHandler(bookingUC BookingService, checkInUC CheckInService, logger *zap.Logger) *BookingHandler {
	return &BookingHandler{
		bookingUC: bookingUC,
		checkInUC: checkInUC,
		logger:    logger,
	}
}

// Create godoc
// @Summary Бронирование на одну или несколько дат
// @Description Каждая дата обрабатывается отдельно: дубликаты и заполненные даты пропускаются, принятые не откатываются
// @Tags Bookings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateBookingRequest true "Маршрут, остановка и даты"
// @Success 201 {object} utils.SuccessResponse{data=dto.BatchBookingResult}
// @Success 200 {object} utils.SuccessResponse{data=dto.BatchBookingResult} "Ни одна дата не принята"
// @Failure 400 {object} utils.ErrorResponse
// @Failure 503 {object} utils.ErrorResponse
// @Router /api/v1/bookings [post]
func (h *BookingHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateBookingRequest
	if err := parseBody(c, &req); err != nil {
		return utils.SendError(c, err)
	}

	result, err := h.bookingUC.AttemptBatch(c.Context(), middleware.SessionFrom(c), req)
	if err != nil {
		return utils.SendError(c, err)
	}

	meta := &utils.Meta{Total: len(result.Created)}
	if len(result.Created) == 0 {
		return utils.SendSuccess(c, result, meta)
	}
	return utils.SendCreated(c, result, meta)
}

// CreateOne godoc
// @Summary Бронирование на одну дату
// @Description В отличие от пакетного запроса дубликат и заполненный маршрут возвращаются ошибкой 409
// @Tags Bookings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateBookingRequest true "Маршрут, остановка и ровно одна дата"
// @Success 201 {object} utils.SuccessResponse{data=domain.Booking}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 409 {object} utils.ErrorResponse "DUPLICATE_BOOKING или ROUTE_FULL"
// @Failure 503 {object} utils.ErrorResponse
// @Router /api/v1/bookings/single [post]
func (h *BookingHandler) CreateOne(c *fiber.Ctx) error {
	var req dto.CreateBookingRequest
	if err := parseBody(c, &req); err != nil {
		return utils.SendError(c, err)
	}

	booking, err := h.bookingUC.AttemptBooking(c.Context(), middleware.SessionFrom(c), req)
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendCreated(c, booking, nil)
}

// ListMine godoc
// @Summary История своих броней
// @Tags Bookings
// @Produce json
// @Security BearerAuth
// @Success 200 {object} utils.SuccessResponse{data=[]domain.Booking}
// @Router /api/v1/bookings/me [get]
func (h *BookingHandler) ListMine(c *fiber.Ctx) error {
	list := h.bookingUC.ListMine(c.Context(), middleware.SessionFrom(c))
	return utils.SendSuccess(c, list.Bookings, &utils.Meta{
		Total:    len(list.Bookings),
		Degraded: list.Degraded,
	})
}

// Active godoc
// @Summary Ближайшая активная бронь
// @Description data=null, если активной брони нет
// @Tags Bookings
// @Produce json
// @Security BearerAuth
// @Success 200 {object} utils.SuccessResponse{data=domain.Booking}
// @Router /api/v1/bookings/me/active [get]
func (h *BookingHandler) Active(c *fiber.Ctx) error {
	b, degraded := h.bookingUC.ActiveForUser(c.Context(), middleware.SessionFrom(c))
	var meta *utils.Meta
	if degraded {
		meta = &utils.Meta{Degraded: true}
	}
	return utils.SendSuccess(c, b, meta)
}

// ListAll godoc
// @Summary Все брони
// @Tags Bookings
// @Produce json
// @Security BearerAuth
// @Success 200 {object} utils.SuccessResponse{data=[]domain.Booking}
// @Router /api/v1/bookings [get]
func (h *BookingHandler) ListAll(c *fiber.Ctx) error {
	list := h.bookingUC.ListAll(c.Context())
	return utils.SendSuccess(c, list.Bookings, &utils.Meta{
		Total:    len(list.Bookings),
		Degraded: list.Degraded,
	})
}

// GetByID godoc
// @Summary Бронь по идентификатору
// @Tags Bookings
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID брони"
// @Success 200 {object} utils.SuccessResponse{data=domain.Booking}
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/bookings/{id} [get]
func (h *BookingHandler) GetByID(c *fiber.Ctx) error {
	b, err := h.bookingUC.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, b, nil)
}

// Cancel godoc
// @Summary Отмена своей брони
// @Tags Bookings
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID брони"
// @Success 200 {object} utils.SuccessResponse{data=domain.Booking}
// @Failure 403 {object} utils.ErrorResponse
// @Failure 409 {object} utils.ErrorResponse
// @Router /api/v1/bookings/{id}/cancel [post]
func (h *BookingHandler) Cancel(c *fiber.Ctx) error {
	b, err := h.checkInUC.Cancel(c.Context(), middleware.SessionFrom(c), c.Params("id"))
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, b, nil)
}

// UpdateStatus godoc
// @Summary Ручная смена статуса
// @Description Повтор текущего статуса ничего не меняет; переход в COMPLETED ставит время посадки один раз
// @Tags Bookings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID брони"
// @Param request body dto.UpdateStatusRequest true "Новый статус"
// @Success 200 {object} utils.SuccessResponse{data=domain.Booking}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 409 {object} utils.ErrorResponse
// @Router /api/v1/bookings/{id}/status [put]
func (h *BookingHandler) UpdateStatus(c *fiber.Ctx) error {
	var req dto.UpdateStatusRequest
	if err := parseBody(c, &req); err != nil {
		return utils.SendError(c, err)
	}

	b, err := h.checkInUC.UpdateBookingStatus(c.Context(), c.Params("id"), req.Status)
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, b, nil)
}

// NoShow godoc
// @Summary Отметка неявки
// @Description Только для броней в статусе WAITING
// @Tags Bookings
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID брони"
// @Success 200 {object} utils.SuccessResponse{data=domain.Booking}
// @Failure 409 {object} utils.ErrorResponse
// @Router /api/v1/bookings/{id}/no-show [post]
func (h *BookingHandler) NoShow(c *fiber.Ctx) error {
	b, err := h.checkInUC.MarkNoShow(c.Context(), c.Params("id"))
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, b, nil)
}
