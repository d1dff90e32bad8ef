package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/shuttle-booking/internal/domain"
	"github.com/shuttle-booking/internal/domain/repository"
	"github.com/shuttle-booking/internal/pkg/errors"
	"github.com/shuttle-booking/internal/pkg/metrics"
	"github.com/shuttle-booking/internal/pkg/utils"
	"github.com/shuttle-booking/internal/usecase/dto"
	"go.uber.org/zap"
)

// BookingOptions - параметры распределения мест
type BookingOptions struct {
	Location        *time.Location
	DuplicateWindow time.Duration
	MaxBatchDates   int
	IDRetries       int
	SeatCountTTL    time.Duration
}

// BookingUseCase - распределение мест и чтение броней
type BookingUseCase struct {
	bookings repository.BookingRepository
	catalog  repository.CatalogRepository
	cache    repository.CacheRepository
	events   eventPublisher
	metrics  *metrics.Metrics
	opts     BookingOptions
	now      func() time.Time
	logger   *zap.Logger
}

func NewBookingUseCase(
	bookings repository.BookingRepository,
	catalog repository.CatalogRepository,
	cache repository.CacheRepository,
	streams repository.StreamRepository,
	m *metrics.Metrics,
	opts BookingOptions,
	logger *zap.Logger,
) *BookingUseCase {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.DuplicateWindow <= 0 {
		opts.DuplicateWindow = domain.DuplicateWindow
	}
	if opts.IDRetries < 0 {
		opts.IDRetries = 0
	}

	return &BookingUseCase{
		bookings: bookings,
		catalog:  catalog,
		cache:    cache,
		events:   eventPublisher{streams: streams, loc: opts.Location, logger: logger},
		metrics:  m,
		opts:     opts,
		now:      time.Now,
		logger:   logger,
	}
}

// AttemptBooking бронирует одно место на одну дату
func (uc *BookingUseCase) AttemptBooking(
	ctx context.Context,
	s *domain.Session,
	req dto.CreateBookingRequest,
) (*domain.Booking, error) {
	if s == nil {
		return nil, errors.ErrUnauthorized
	}
	if len(req.Dates) != 1 {
		return nil, errors.ErrValidation.WithDetails(map[string]interface{}{"dates": "len=1"})
	}

	route, station, err := uc.resolve(req)
	if err != nil {
		return nil, err
	}

	existing, err := uc.bookings.ListByUser(ctx, s.UserID)
	if err != nil {
		uc.logger.Error("Failed to load user bookings", zap.Error(err))
		return nil, errors.ErrPersistence.Wrap(err)
	}

	return uc.attempt(ctx, s, route, station, req.Dates[0], existing)
}

// AttemptBatch обрабатывает каждую дату независимо: принятые даты не откатываются
// при ошибке на следующей, дубликаты и переполненные даты пропускаются
func (uc *BookingUseCase) AttemptBatch(
	ctx context.Context,
	s *domain.Session,
	req dto.CreateBookingRequest,
) (*dto.BatchBookingResult, error) {
	if s == nil {
		return nil, errors.ErrUnauthorized
	}
	if len(req.Dates) == 0 {
		return nil, errors.ErrValidation.WithDetails(map[string]interface{}{"dates": "required"})
	}
	if uc.opts.MaxBatchDates > 0 && len(req.Dates) > uc.opts.MaxBatchDates {
		return nil, errors.ErrValidation.WithDetails(map[string]interface{}{
			"dates": fmt.Sprintf("max=%d", uc.opts.MaxBatchDates),
		})
	}

	// 1. Маршрут и остановка общие для всех дат
	route, station, err := uc.resolve(req)
	if err != nil {
		return nil, err
	}

	// 2. Брони пользователя читаются один раз, новые добавляются по ходу пакета
	existing, err := uc.bookings.ListByUser(ctx, s.UserID)
	if err != nil {
		uc.logger.Error("Failed to load user bookings", zap.Error(err))
		return nil, errors.ErrPersistence.Wrap(err)
	}

	result := &dto.BatchBookingResult{
		Created:    []domain.Booking{},
		Duplicates: []string{},
		Full:       []string{},
		Failed:     []dto.FailedDate{},
	}

	seen := make(map[string]struct{}, len(req.Dates))
	for _, date := range req.Dates {
		if _, dup := seen[date]; dup {
			result.Duplicates = append(result.Duplicates, date)
			continue
		}
		seen[date] = struct{}{}

		b, err := uc.attempt(ctx, s, route, station, date, existing)
		switch {
		case err == nil:
			result.Created = append(result.Created, *b)
			existing = append(existing, *b)
		case errors.Is(err, errors.ErrDuplicateBooking):
			result.Duplicates = append(result.Duplicates, date)
		case errors.Is(err, errors.ErrRouteFull):
			result.Full = append(result.Full, date)
		default:
			failed := dto.FailedDate{Date: date, Code: errors.ErrInternalServer.Code, Error: err.Error()}
			if appErr, ok := errors.As(err); ok {
				failed.Code = appErr.Code
				failed.Error = appErr.Message
			}
			result.Failed = append(result.Failed, failed)
		}
	}

	uc.logger.Info("Batch booking processed",
		zap.String("user_id", s.UserID.String()),
		zap.String("route_id", route.ID),
		zap.Int("created", len(result.Created)),
		zap.Int("duplicates", len(result.Duplicates)),
		zap.Int("full", len(result.Full)),
		zap.Int("failed", len(result.Failed)))

	return result, nil
}

// resolve проверяет маршрут, остановку и явно указанные смену и направление
func (uc *BookingUseCase) resolve(req dto.CreateBookingRequest) (domain.Route, domain.Station, error) {
	route, ok := uc.catalog.Route(req.RouteID)
	if !ok {
		return domain.Route{}, domain.Station{}, errors.ErrValidation.WithDetails(map[string]interface{}{
			"route_id": "unknown route",
		})
	}
	station, ok := uc.catalog.Station(req.StationID)
	if !ok {
		return domain.Route{}, domain.Station{}, errors.ErrValidation.WithDetails(map[string]interface{}{
			"station_id": "unknown station",
		})
	}
	if req.Shift != "" && req.Shift != route.Shift {
		return domain.Route{}, domain.Station{}, errors.ErrValidation.WithDetails(map[string]interface{}{
			"shift": fmt.Sprintf("route %s runs on the %s shift", route.ID, route.Shift),
		})
	}
	if req.Direction != "" && req.Direction != route.Direction {
		return domain.Route{}, domain.Station{}, errors.ErrValidation.WithDetails(map[string]interface{}{
			"direction": fmt.Sprintf("route %s is %s", route.ID, route.Direction),
		})
	}
	return route, station, nil
}

func (uc *BookingUseCase) attempt(
	ctx context.Context,
	s *domain.Session,
	route domain.Route,
	station domain.Station,
	date string,
	existing []domain.Booking,
) (*domain.Booking, error) {
	loc := uc.opts.Location

	// 1. Время поездки = дата + время отправления маршрута
	day, err := utils.ParseDate(date, loc)
	if err != nil {
		return nil, errors.ErrValidation.WithDetails(map[string]interface{}{"date": date})
	}
	travelAt, err := route.DepartureOn(day, loc)
	if err != nil {
		return nil, errors.ErrValidation.Wrap(err)
	}

	// 2. Быстрая проверка дубликата по уже известным броням
	candidate := domain.Booking{UserID: s.UserID, Timestamp: travelAt, Status: domain.StatusWaiting}
	for _, e := range existing {
		if candidate.ConflictsWith(e, uc.opts.DuplicateWindow) {
			uc.metrics.BookingAttempt("duplicate")
			return nil, errors.ErrDuplicateBooking.WithDetails(map[string]interface{}{
				"date":       date,
				"booking_id": e.ID,
			})
		}
	}

	// 3. Сохранение: хранилище повторяет обе проверки атомарно со вставкой
	dayStart, dayEnd := utils.DayBounds(travelAt, loc)
	limits := domain.ReservationLimits{
		MaxSeats:        route.MaxSeats,
		DayStart:        dayStart,
		DayEnd:          dayEnd,
		DuplicateWindow: uc.opts.DuplicateWindow,
	}

	b := &domain.Booking{
		UserID:      s.UserID,
		UserName:    s.Name,
		RouteID:     route.ID,
		RouteName:   route.Name,
		StationID:   station.ID,
		StationName: station.Name,
		Timestamp:   travelAt,
		Status:      domain.StatusWaiting,
		Shift:       route.Shift,
		Direction:   route.Direction,
		CreatedAt:   uc.now().UTC(),
	}

	for try := 0; ; try++ {
		b.ID = utils.NewBookingID()
		err = uc.bookings.Create(ctx, b, limits)
		if !errors.Is(err, errors.ErrBookingIDTaken) || try >= uc.opts.IDRetries {
			break
		}
		uc.logger.Warn("Booking id collision, regenerating", zap.String("id", b.ID))
	}

	switch {
	case err == nil:
	case errors.Is(err, errors.ErrDuplicateBooking):
		uc.metrics.BookingAttempt("duplicate")
		return nil, errors.ErrDuplicateBooking.WithDetails(map[string]interface{}{"date": date})
	case errors.Is(err, errors.ErrRouteFull):
		uc.metrics.BookingAttempt("full")
		return nil, errors.ErrRouteFull.WithDetails(map[string]interface{}{
			"date":      date,
			"route_id":  route.ID,
			"max_seats": route.MaxSeats,
		})
	default:
		uc.metrics.BookingAttempt("error")
		uc.logger.Error("Failed to store booking",
			zap.String("route_id", route.ID),
			zap.String("date", date),
			zap.Error(err))
		return nil, errors.ErrPersistence.Wrap(err)
	}

	uc.metrics.BookingAttempt("accepted")
	uc.invalidate(ctx, b)
	uc.events.publish(ctx, domain.EventBookingCreated, b)

	uc.logger.Info("Booking created",
		zap.String("id", b.ID),
		zap.String("route_id", b.RouteID),
		zap.String("date", date))
	return b, nil
}

// invalidate сбрасывает кеш мест сразу; воркер событий делает то же для записей других процессов
func (uc *BookingUseCase) invalidate(ctx context.Context, b *domain.Booking) {
	if uc.cache == nil {
		return
	}
	day := utils.FormatDay(b.Timestamp, uc.opts.Location)
	if err := uc.cache.InvalidateDay(ctx, b.RouteID, day); err != nil {
		uc.logger.Warn("Failed to invalidate seat cache", zap.String("route_id", b.RouteID), zap.Error(err))
	}
}

// SeatCount - активные брони маршрута: за день если date задана, иначе за все даты
func (uc *BookingUseCase) SeatCount(ctx context.Context, routeID, date string) (*dto.SeatCount, error) {
	route, ok := uc.catalog.Route(routeID)
	if !ok {
		return nil, errors.ErrRouteNotFound
	}

	key := repository.AllDays
	var from, to time.Time
	if date != "" {
		day, err := utils.ParseDate(date, uc.opts.Location)
		if err != nil {
			return nil, errors.ErrValidation.WithDetails(map[string]interface{}{"date": date})
		}
		from, to = utils.DayBounds(day, uc.opts.Location)
		key = utils.FormatDay(day, uc.opts.Location)
	}

	result := &dto.SeatCount{RouteID: routeID, Date: date, MaxSeats: route.MaxSeats}

	// 1. Кеш
	count, hit, err := uc.cache.GetSeatCount(ctx, routeID, key)
	if err != nil {
		uc.logger.Warn("Failed to get seat count from cache", zap.Error(err))
	}
	if hit {
		result.Count = count
		return result, nil
	}

	// 2. БД
	if date == "" {
		count, err = uc.bookings.CountActiveByRoute(ctx, routeID)
	} else {
		count, err = uc.bookings.CountActiveByRouteInRange(ctx, routeID, from, to)
	}
	if err != nil {
		uc.logger.Error("Failed to count seats", zap.String("route_id", routeID), zap.Error(err))
		return nil, errors.ErrPersistence.Wrap(err)
	}

	// 3. Кешируем
	if err := uc.cache.SetSeatCount(ctx, routeID, key, count, uc.opts.SeatCountTTL); err != nil {
		uc.logger.Warn("Failed to cache seat count", zap.Error(err))
	}

	result.Count = count
	return result, nil
}

// Availability - остаток мест по всем маршрутам на день, в порядке каталога
func (uc *BookingUseCase) Availability(ctx context.Context, date string) ([]domain.RouteAvailability, error) {
	day, err := utils.ParseDate(date, uc.opts.Location)
	if err != nil {
		return nil, errors.ErrValidation.WithDetails(map[string]interface{}{"date": date})
	}
	key := utils.FormatDay(day, uc.opts.Location)

	cached, err := uc.cache.GetAvailability(ctx, key)
	if err != nil {
		uc.logger.Warn("Failed to get availability from cache", zap.Error(err))
	}
	if cached != nil {
		return cached, nil
	}

	from, to := utils.DayBounds(day, uc.opts.Location)
	counts, err := uc.bookings.CountActiveInRange(ctx, from, to)
	if err != nil {
		uc.logger.Error("Failed to count seats for day", zap.String("date", key), zap.Error(err))
		return nil, errors.ErrPersistence.Wrap(err)
	}

	routes := uc.catalog.Routes()
	items := make([]domain.RouteAvailability, 0, len(routes))
	for _, r := range routes {
		items = append(items, domain.NewRouteAvailability(r, counts[r.ID]))
	}

	if err := uc.cache.SetAvailability(ctx, key, items, uc.opts.SeatCountTTL); err != nil {
		uc.logger.Warn("Failed to cache availability", zap.Error(err))
	}

	return items, nil
}

// ListAll - все брони; при недоступной БД пустой список с Degraded
func (uc *BookingUseCase) ListAll(ctx context.Context) dto.BookingList {
	bookings, err := uc.bookings.List(ctx)
	return uc.degrade("list_bookings", bookings, err)
}

// ListMine - история броней пользователя
func (uc *BookingUseCase) ListMine(ctx context.Context, s *domain.Session) dto.BookingList {
	bookings, err := uc.bookings.ListByUser(ctx, s.UserID)
	return uc.degrade("list_user_bookings", bookings, err)
}

// ActiveForUser - ближайшая активная бронь начиная с сегодняшнего дня, nil если нет
func (uc *BookingUseCase) ActiveForUser(ctx context.Context, s *domain.Session) (*domain.Booking, bool) {
	today, _ := utils.DayBounds(uc.now(), uc.opts.Location)

	b, err := uc.bookings.FindNextActiveByUser(ctx, s.UserID, today)
	if err != nil {
		uc.logger.Warn("Active booking unavailable", zap.Error(err))
		uc.metrics.DegradedRead("user_active_booking")
		return nil, true
	}
	return b, false
}

func (uc *BookingUseCase) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	b, err := uc.bookings.GetByID(ctx, utils.NormalizeBookingID(id))
	if err != nil {
		if errors.Is(err, errors.ErrBookingNotFound) {
			return nil, err
		}
		return nil, errors.ErrPersistence.Wrap(err)
	}
	return b, nil
}

func (uc *BookingUseCase) degrade(op string, bookings []domain.Booking, err error) dto.BookingList {
	if err != nil {
		uc.logger.Warn("Booking read degraded to empty list", zap.String("operation", op), zap.Error(err))
		uc.metrics.DegradedRead(op)
		return dto.BookingList{Bookings: []domain.Booking{}, Degraded: true}
	}
	return dto.BookingList{Bookings: bookings}
}
