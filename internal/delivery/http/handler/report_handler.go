package handler

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/shuttle-booking/internal/domain"
	"github.com/shuttle-booking/internal/pkg/errors"
	"github.com/shuttle-booking/internal/pkg/utils"
	"go.uber.org/zap"
)

// ReportHandler - список водителя, дневной отчёт и выгрузки
type ReportHandler struct {
	reportUC ReportService
	logger   *zap.Logger
}

func NewReportHandler(reportUC ReportService, logger *zap.Logger) *ReportHandler {
	return &ReportHandler{
		reportUC: reportUC,
		logger:   logger,
	}
}

// Roster godoc
// @Summary Список пассажиров маршрута по остановкам
// @Tags Reports
// @Produce json
// @Security BearerAuth
// @Param route_id query string true "ID маршрута"
// @Param date query string false "Дата YYYY-MM-DD, по умолчанию сегодня"
// @Success 200 {object} utils.SuccessResponse{data=domain.Roster}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 404 {object} utils.ErrorResponse
// @Router /api/v1/reports/roster [get]
func (h *ReportHandler) Roster(c *fiber.Ctx) error {
	routeID := c.Query("route_id")
	if routeID == "" {
		return utils.SendError(c, errors.ErrValidation.WithDetails(map[string]interface{}{"route_id": "required"}))
	}

	roster, err := h.reportUC.Roster(c.Context(), routeID, c.Query("date"))
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, roster, &utils.Meta{Total: roster.Total, Date: roster.Date})
}

// RosterPDF godoc
// @Summary Печатный список пассажиров
// @Tags Reports
// @Produce application/pdf
// @Security BearerAuth
// @Param route_id query string true "ID маршрута"
// @Param date query string false "Дата YYYY-MM-DD, по умолчанию сегодня"
// @Success 200 {file} file
// @Failure 400 {object} utils.ErrorResponse
// @Router /api/v1/reports/roster.pdf [get]
func (h *ReportHandler) RosterPDF(c *fiber.Ctx) error {
	routeID := c.Query("route_id")
	if routeID == "" {
		return utils.SendError(c, errors.ErrValidation.WithDetails(map[string]interface{}{"route_id": "required"}))
	}

	data, err := h.reportUC.RosterPDF(c.Context(), routeID, c.Query("date"))
	if err != nil {
		return utils.SendError(c, err)
	}

	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="roster-%s-%s.pdf"`, routeID, fileDate(c.Query("date"))))
	return c.Send(data)
}

// Daily godoc
// @Summary Дневной отчёт
// @Description Брони по сменам, статусам и маршрутам
// @Tags Reports
// @Produce json
// @Security BearerAuth
// @Param date query string false "Дата YYYY-MM-DD, по умолчанию сегодня"
// @Success 200 {object} utils.SuccessResponse{data=domain.DailyReport}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 503 {object} utils.ErrorResponse
// @Router /api/v1/reports/daily [get]
func (h *ReportHandler) Daily(c *fiber.Ctx) error {
	report, err := h.reportUC.DailyReport(c.Context(), c.Query("date"))
	if err != nil {
		return utils.SendError(c, err)
	}
	return utils.SendSuccess(c, report, &utils.Meta{Total: report.Total, Date: report.Date})
}

// ExportCSV godoc
// @Summary Выгрузка броней в CSV
// @Description UTF-8 с BOM, заголовок ID,Name,Route,Station,Status,Timestamp. Без date - все брони
// @Tags Reports
// @Produce text/csv
// @Security BearerAuth
// @Param date query string false "Дата YYYY-MM-DD"
// @Param lang query string false "Язык меток (en, th)" default(en)
// @Success 200 {file} file
// @Failure 503 {object} utils.ErrorResponse
// @Router /api/v1/reports/export.csv [get]
func (h *ReportHandler) ExportCSV(c *fiber.Ctx) error {
	date := c.Query("date")
	data, err := h.reportUC.ExportCSV(c.Context(), date, domain.ParseLanguage(c.Query("lang")))
	if err != nil {
		return utils.SendError(c, err)
	}

	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="bookings-%s.csv"`, fileDate(date)))
	return c.Send(data)
}

func fileDate(date string) string {
	if date == "" {
		return "all"
	}
	return date
}
