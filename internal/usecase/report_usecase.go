package usecase

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"sort"
	"time"

	"github.com/phpdave11/gofpdf"
	"github.com/shuttle-booking/internal/domain"
	"github.com/shuttle-booking/internal/domain/repository"
	"github.com/shuttle-booking/internal/pkg/errors"
	"github.com/shuttle-booking/internal/pkg/utils"
	"go.uber.org/zap"
)

const utf8BOM = "\xEF\xBB\xBF"

var csvHeader = []string{"ID", "Name", "Route", "Station", "Status", "Timestamp"}

var statusLabels = map[domain.Language]map[domain.BookingStatus]string{
	domain.LanguageEN: {
		domain.StatusWaiting:   "Waiting",
		domain.StatusBooked:    "Booked",
		domain.StatusCompleted: "Completed",
		domain.StatusCancelled: "Cancelled",
		domain.StatusNoShow:    "No-show",
	},
	domain.LanguageTH: {
		domain.StatusWaiting:   "รอขึ้นรถ",
		domain.StatusBooked:    "จองแล้ว",
		domain.StatusCompleted: "ขึ้นรถแล้ว",
		domain.StatusCancelled: "ยกเลิก",
		domain.StatusNoShow:    "ไม่มาขึ้นรถ",
	},
}

// ReportUseCase - дневной отчёт, список пассажиров для водителя, экспорт
type ReportUseCase struct {
	bookings  repository.BookingRepository
	catalog   repository.CatalogRepository
	cache     repository.CacheRepository
	loc       *time.Location
	reportTTL time.Duration
	now       func() time.Time
	logger    *zap.Logger
}

func NewReportUseCase(
	bookings repository.BookingRepository,
	catalog repository.CatalogRepository,
	cache repository.CacheRepository,
	loc *time.Location,
	reportTTL time.Duration,
	logger *zap.Logger,
) *ReportUseCase {
	if loc == nil {
		loc = time.UTC
	}
	return &ReportUseCase{
		bookings:  bookings,
		catalog:   catalog,
		cache:     cache,
		loc:       loc,
		reportTTL: reportTTL,
		now:       time.Now,
		logger:    logger,
	}
}

// DailyReport группирует брони дня по сменам и считает не отменённые брони по маршрутам
func (uc *ReportUseCase) DailyReport(ctx context.Context, date string) (*domain.DailyReport, error) {
	day, err := uc.day(date)
	if err != nil {
		return nil, err
	}
	key := utils.FormatDay(day, uc.loc)

	// 1. Проверяем кеш
	cached, err := uc.cache.GetDailyReport(ctx, key)
	if err != nil {
		uc.logger.Warn("Failed to get daily report from cache", zap.Error(err))
	}
	if cached != nil {
		uc.logger.Debug("Daily report fetched from cache", zap.String("date", key))
		return cached, nil
	}

	// 2. Брони дня из БД
	from, to := utils.DayBounds(day, uc.loc)
	bookings, err := uc.bookings.ListByRange(ctx, from, to)
	if err != nil {
		uc.logger.Error("Failed to load bookings for report", zap.String("date", key), zap.Error(err))
		return nil, errors.ErrPersistence.Wrap(err)
	}

	report := uc.buildDailyReport(key, day, bookings)

	// 3. Кешируем на короткое время, воркер сбрасывает кеш при изменениях
	if err := uc.cache.SetDailyReport(ctx, key, report, uc.reportTTL); err != nil {
		uc.logger.Warn("Failed to cache daily report", zap.Error(err))
	}

	return report, nil
}

func (uc *ReportUseCase) buildDailyReport(key string, day time.Time, bookings []domain.Booking) *domain.DailyReport {
	report := &domain.DailyReport{
		Date:        key,
		ByStatus:    make(map[string]int),
		Shifts:      make([]domain.ShiftGroup, len(domain.Shifts)),
		RouteCounts: []domain.RouteCount{},
	}

	shiftIndex := make(map[domain.Shift]int, len(domain.Shifts))
	for i, s := range domain.Shifts {
		report.Shifts[i] = domain.ShiftGroup{Shift: s, Bookings: []domain.Booking{}}
		shiftIndex[s] = i
	}

	routeCounts := make(map[string]int)
	routeNames := make(map[string]string)
	var extraRoutes []string

	for _, b := range bookings {
		if !utils.SameDay(b.Timestamp, day, uc.loc) {
			continue
		}
		report.Total++
		report.ByStatus[string(b.Status)]++

		shift := b.Shift
		if r, ok := uc.catalog.Route(b.RouteID); ok {
			shift = r.Shift
		}
		if i, ok := shiftIndex[shift]; ok {
			report.Shifts[i].Bookings = append(report.Shifts[i].Bookings, b)
		}

		if b.Status == domain.StatusCancelled {
			continue
		}
		if _, seen := routeNames[b.RouteID]; !seen {
			routeNames[b.RouteID] = b.RouteName
			if _, known := uc.catalog.Route(b.RouteID); !known {
				extraRoutes = append(extraRoutes, b.RouteID)
			}
		}
		routeCounts[b.RouteID]++
	}

	for _, r := range uc.catalog.Routes() {
		report.RouteCounts = append(report.RouteCounts, domain.RouteCount{
			RouteID:   r.ID,
			RouteName: r.Name,
			Count:     routeCounts[r.ID],
		})
	}
	// маршруты, удалённые из расписания, но с бронями на этот день
	for _, id := range extraRoutes {
		report.RouteCounts = append(report.RouteCounts, domain.RouteCount{
			RouteID:   id,
			RouteName: routeNames[id],
			Count:     routeCounts[id],
		})
	}

	return report
}

// Roster - пассажиры маршрута на день, сгруппированные по остановкам. Отменённые не показываются
func (uc *ReportUseCase) Roster(ctx context.Context, routeID, date string) (*domain.Roster, error) {
	route, ok := uc.catalog.Route(routeID)
	if !ok {
		return nil, errors.ErrRouteNotFound
	}
	day, err := uc.day(date)
	if err != nil {
		return nil, err
	}

	from, to := utils.DayBounds(day, uc.loc)
	bookings, err := uc.bookings.ListByRouteRange(ctx, routeID, from, to)
	if err != nil {
		uc.logger.Error("Failed to load roster", zap.String("route_id", routeID), zap.Error(err))
		return nil, errors.ErrPersistence.Wrap(err)
	}

	roster := &domain.Roster{
		Date:     utils.FormatDay(day, uc.loc),
		Route:    route,
		Stations: []domain.StationGroup{},
	}

	// порядок остановок - как в каталоге, неизвестные в конце
	order := make(map[string]int)
	for i, s := range uc.catalog.Stations() {
		order[s.ID] = i
	}

	groups := make(map[string]*domain.StationGroup)
	var ids []string
	for _, b := range bookings {
		if b.Status == domain.StatusCancelled {
			continue
		}
		g, ok := groups[b.StationID]
		if !ok {
			g = &domain.StationGroup{StationID: b.StationID, StationName: b.StationName}
			groups[b.StationID] = g
			ids = append(ids, b.StationID)
		}
		g.Bookings = append(g.Bookings, b)
		roster.Total++
	}

	sort.SliceStable(ids, func(i, j int) bool {
		oi, iKnown := order[ids[i]]
		oj, jKnown := order[ids[j]]
		if iKnown != jKnown {
			return iKnown
		}
		return oi < oj
	})
	for _, id := range ids {
		roster.Stations = append(roster.Stations, *groups[id])
	}

	return roster, nil
}

// ExportCSV выгружает брони дня (или все при пустой дате) в CSV с BOM для Excel
func (uc *ReportUseCase) ExportCSV(ctx context.Context, date string, lang domain.Language) ([]byte, error) {
	var (
		bookings []domain.Booking
		err      error
	)
	if date == "" {
		bookings, err = uc.bookings.List(ctx)
	} else {
		day, perr := uc.day(date)
		if perr != nil {
			return nil, perr
		}
		from, to := utils.DayBounds(day, uc.loc)
		bookings, err = uc.bookings.ListByRange(ctx, from, to)
	}
	if err != nil {
		uc.logger.Error("Failed to load bookings for export", zap.Error(err))
		return nil, errors.ErrPersistence.Wrap(err)
	}

	sort.SliceStable(bookings, func(i, j int) bool {
		return bookings[i].Timestamp.Before(bookings[j].Timestamp)
	})

	var buf bytes.Buffer
	buf.WriteString(utf8BOM)

	w := csv.NewWriter(&buf)
	if err := w.Write(csvHeader); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}
	for _, b := range bookings {
		row := []string{
			b.ID,
			b.UserName,
			b.RouteName,
			b.StationName,
			StatusLabel(b.Status, lang),
			FormatTimestamp(b.Timestamp, uc.loc, lang),
		}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("write csv row %s: %w", b.ID, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}

	uc.logger.Info("Bookings exported",
		zap.String("date", date),
		zap.String("lang", string(lang)),
		zap.Int("rows", len(bookings)))
	return buf.Bytes(), nil
}

// RosterPDF - печатный список пассажиров для водителя
func (uc *ReportUseCase) RosterPDF(ctx context.Context, routeID, date string) ([]byte, error) {
	roster, err := uc.Roster(ctx, routeID, date)
	if err != nil {
		return nil, err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Passenger roster", false)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, tr(fmt.Sprintf("%s - %s", roster.Route.Name, roster.Route.Time)))
	pdf.Ln(9)

	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 6, fmt.Sprintf("Date: %s   Passengers: %d / %d", roster.Date, roster.Total, roster.Route.MaxSeats))
	pdf.Ln(10)

	for _, g := range roster.Stations {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.Cell(0, 7, tr(fmt.Sprintf("%s (%d)", g.StationName, len(g.Bookings))))
		pdf.Ln(8)

		pdf.SetFont("Helvetica", "", 10)
		for i, b := range g.Bookings {
			pdf.CellFormat(10, 6, fmt.Sprintf("%d", i+1), "1", 0, "C", false, 0, "")
			pdf.CellFormat(30, 6, b.ID, "1", 0, "", false, 0, "")
			pdf.CellFormat(100, 6, tr(b.UserName), "1", 0, "", false, 0, "")
			pdf.CellFormat(40, 6, StatusLabel(b.Status, domain.LanguageEN), "1", 1, "", false, 0, "")
		}
		pdf.Ln(4)
	}

	if len(roster.Stations) == 0 {
		pdf.SetFont("Helvetica", "I", 11)
		pdf.Cell(0, 7, "No passengers booked.")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render roster pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// day разбирает дату отчёта; пустая строка - сегодня
func (uc *ReportUseCase) day(date string) (time.Time, error) {
	if date == "" {
		return uc.now().In(uc.loc), nil
	}
	d, err := utils.ParseDate(date, uc.loc)
	if err != nil {
		return time.Time{}, errors.ErrValidation.WithDetails(map[string]interface{}{"date": date})
	}
	return d, nil
}

// StatusLabel - название статуса на языке отчёта
func StatusLabel(s domain.BookingStatus, lang domain.Language) string {
	if label, ok := statusLabels[lang][s]; ok {
		return label
	}
	return string(s)
}

// FormatTimestamp - время поездки в поясе сервиса; для тайского - буддийский год
func FormatTimestamp(t time.Time, loc *time.Location, lang domain.Language) string {
	t = t.In(loc)
	if lang == domain.LanguageTH {
		return fmt.Sprintf("%02d/%02d/%04d %02d:%02d", t.Day(), int(t.Month()), t.Year()+543, t.Hour(), t.Minute())
	}
	return t.Format("2006-01-02 15:04")
}
