package http_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/shuttle-booking/internal/domain"
	"github.com/shuttle-booking/internal/usecase/dto"
)

// MockAuthService is a mock of handler.AuthService
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, req dto.RegisterRequest) (*domain.User, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.LoginResponse), args.Error(1)
}

func (m *MockAuthService) Logout(ctx context.Context, s *domain.Session) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockAuthService) UpdateProfile(ctx context.Context, s *domain.Session, req dto.UpdateProfileRequest) (*domain.User, error) {
	args := m.Called(ctx, s, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

// MockCatalogService is a mock of handler.CatalogService
type MockCatalogService struct {
	mock.Mock
}

func (m *MockCatalogService) ListRoutes(ctx context.Context) ([]domain.Route, bool) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Route), args.Bool(1)
}

func (m *MockCatalogService) ListPartitioned(ctx context.Context) ([]dto.PartitionGroup, bool) {
	args := m.Called(ctx)
	return args.Get(0).([]dto.PartitionGroup), args.Bool(1)
}

func (m *MockCatalogService) SaveRouteDetails(ctx context.Context, req dto.SaveRouteDetailsRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

func (m *MockCatalogService) ListStations() []domain.Station {
	args := m.Called()
	return args.Get(0).([]domain.Station)
}

func (m *MockCatalogService) NearestStations(req dto.NearestStationsRequest) ([]domain.NearbyStation, error) {
	args := m.Called(req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.NearbyStation), args.Error(1)
}

// MockBookingService is a mock of handler.BookingService
type MockBookingService struct {
	mock.Mock
}

func (m *MockBookingService) AttemptBooking(ctx context.Context, s *domain.Session, req dto.CreateBookingRequest) (*domain.Booking, error) {
	args := m.Called(ctx, s, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingService) AttemptBatch(ctx context.Context, s *domain.Session, req dto.CreateBookingRequest) (*dto.BatchBookingResult, error) {
	args := m.Called(ctx, s, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.BatchBookingResult), args.Error(1)
}

func (m *MockBookingService) SeatCount(ctx context.Context, routeID, date string) (*dto.SeatCount, error) {
	args := m.Called(ctx, routeID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.SeatCount), args.Error(1)
}

func (m *MockBookingService) Availability(ctx context.Context, date string) ([]domain.RouteAvailability, error) {
	args := m.Called(ctx, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RouteAvailability), args.Error(1)
}

func (m *MockBookingService) ListAll(ctx context.Context) dto.BookingList {
	args := m.Called(ctx)
	return args.Get(0).(dto.BookingList)
}

func (m *MockBookingService) ListMine(ctx context.Context, s *domain.Session) dto.BookingList {
	args := m.Called(ctx, s)
	return args.Get(0).(dto.BookingList)
}

func (m *MockBookingService) ActiveForUser(ctx context.Context, s *domain.Session) (*domain.Booking, bool) {
	args := m.Called(ctx, s)
	if args.Get(0) == nil {
		return nil, args.Bool(1)
	}
	return args.Get(0).(*domain.Booking), args.Bool(1)
}

func (m *MockBookingService) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

// MockCheckInService is a mock of handler.CheckInService
type MockCheckInService struct {
	mock.Mock
}

func (m *MockCheckInService) Scope(s *domain.Session, routeID, date string) (domain.CheckInScope, error) {
	args := m.Called(s, routeID, date)
	return args.Get(0).(domain.CheckInScope), args.Error(1)
}

func (m *MockCheckInService) CheckIn(ctx context.Context, code string, scope domain.CheckInScope) (*domain.CheckInResult, error) {
	args := m.Called(ctx, code, scope)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CheckInResult), args.Error(1)
}

func (m *MockCheckInService) Cancel(ctx context.Context, s *domain.Session, id string) (*domain.Booking, error) {
	args := m.Called(ctx, s, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockCheckInService) MarkNoShow(ctx context.Context, id string) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockCheckInService) UpdateBookingStatus(ctx context.Context, id string, status domain.BookingStatus) (*domain.Booking, error) {
	args := m.Called(ctx, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

// MockReportService is a mock of handler.ReportService
type MockReportService struct {
	mock.Mock
}

func (m *MockReportService) DailyReport(ctx context.Context, date string) (*domain.DailyReport, error) {
	args := m.Called(ctx, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DailyReport), args.Error(1)
}

func (m *MockReportService) Roster(ctx context.Context, routeID, date string) (*domain.Roster, error) {
	args := m.Called(ctx, routeID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Roster), args.Error(1)
}

func (m *MockReportService) RosterPDF(ctx context.Context, routeID, date string) ([]byte, error) {
	args := m.Called(ctx, routeID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockReportService) ExportCSV(ctx context.Context, date string, lang domain.Language) ([]byte, error) {
	args := m.Called(ctx, date, lang)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

// MockNewsService is a mock of handler.NewsService
type MockNewsService struct {
	mock.Mock
}

func (m *MockNewsService) Get(ctx context.Context) (*domain.News, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.News), args.Error(1)
}

func (m *MockNewsService) Save(ctx context.Context, text string) (*domain.News, error) {
	args := m.Called(ctx, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.News), args.Error(1)
}
