package handler

import (
	"context"

	"github.com/shuttle-booking/internal/domain"
	"github.com/shuttle-booking/internal/usecase/dto"
)

// Контракты use case, которые нужны обработчикам. Реализации - в internal/usecase

type AuthService interface {
	Register(ctx context.Context, req dto.RegisterRequest) (*domain.User, error)
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
	Logout(ctx context.Context, s *domain.Session) error
	UpdateProfile(ctx context.Context, s *domain.Session, req dto.UpdateProfileRequest) (*domain.User, error)
}

type CatalogService interface {
	ListRoutes(ctx context.Context) ([]domain.Route, bool)
	ListPartitioned(ctx context.Context) ([]dto.PartitionGroup, bool)
	SaveRouteDetails(ctx context.Context, req dto.SaveRouteDetailsRequest) error
	ListStations() []domain.Station
	NearestStations(req dto.NearestStationsRequest) ([]domain.NearbyStation, error)
}

type BookingService interface {
	AttemptBooking(ctx context.Context, s *domain.Session, req dto.CreateBookingRequest) (*domain.Booking, error)
	AttemptBatch(ctx context.Context, s *domain.Session, req dto.CreateBookingRequest) (*dto.BatchBookingResult, error)
	SeatCount(ctx context.Context, routeID, date string) (*dto.SeatCount, error)
	Availability(ctx context.Context, date string) ([]domain.RouteAvailability, error)
	ListAll(ctx context.Context) dto.BookingList
	ListMine(ctx context.Context, s *domain.Session) dto.BookingList
	ActiveForUser(ctx context.Context, s *domain.Session) (*domain.Booking, bool)
	GetByID(ctx context.Context, id string) (*domain.Booking, error)
}

type CheckInService interface {
	Scope(s *domain.Session, routeID, date string) (domain.CheckInScope, error)
	CheckIn(ctx context.Context, code string, scope domain.CheckInScope) (*domain.CheckInResult, error)
	Cancel(ctx context.Context, s *domain.Session, id string) (*domain.Booking, error)
	MarkNoShow(ctx context.Context, id string) (*domain.Booking, error)
	UpdateBookingStatus(ctx context.Context, id string, status domain.BookingStatus) (*domain.Booking, error)
}

type ReportService interface {
	DailyReport(ctx context.Context, date string) (*domain.DailyReport, error)
	Roster(ctx context.Context, routeID, date string) (*domain.Roster, error)
	RosterPDF(ctx context.Context, routeID, date string) ([]byte, error)
	ExportCSV(ctx context.Context, date string, lang domain.Language) ([]byte, error)
}

type NewsService interface {
	Get(ctx context.Context) (*domain.News, error)
	Save(ctx context.Context, text string) (*domain.News, error)
}
