package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/shuttle-booking/internal/domain"
	"github.com/shuttle-booking/internal/repository/catalog"
)

var bangkok = time.FixedZone("ICT", 7*3600)

// testCatalog - маршруты и остановки для тестов use case
func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()

	c, err := catalog.New(
		[]domain.Route{
			{ID: "m1", Name: "Morning Inbound", Time: "07:30", Shift: domain.ShiftMorning, Direction: domain.DirectionInbound, MaxSeats: 40},
			{ID: "e1", Name: "Evening Outbound", Time: "17:15", Shift: domain.ShiftEvening, Direction: domain.DirectionOutbound, MaxSeats: 40},
			{ID: "n1", Name: "Night Inbound", Time: "19:15", Shift: domain.ShiftNight, Direction: domain.DirectionInbound, MaxSeats: 2},
			{ID: "n2", Name: "Night Outbound", Time: "05:15", Shift: domain.ShiftNight, Direction: domain.DirectionOutbound, MaxSeats: 24},
		},
		[]domain.Station{
			{ID: "s1", Name: "Main Gate", Lat: 13.7563, Lon: 100.5018},
			{ID: "s2", Name: "Central Market", Lat: 13.7466, Lon: 100.5347},
			{ID: "s3", Name: "Pattaya Depot", Lat: 12.9236, Lon: 100.8825},
		},
	)
	require.NoError(t, err)
	return c
}

func riderSession() *domain.Session {
	return &domain.Session{
		UserID:       uuid.New(),
		EmployeeCode: "E1001",
		Name:         "Malee",
		Role:         domain.RoleRider,
		TokenID:      uuid.NewString(),
		ExpiresAt:    time.Now().Add(time.Hour),
	}
}

// MockBookingRepository is a mock of BookingRepository
type MockBookingRepository struct {
	mock.Mock
}

func (m *MockBookingRepository) Create(ctx context.Context, b *domain.Booking, limits domain.ReservationLimits) error {
	args := m.Called(ctx, b, limits)
	return args.Error(0)
}

func (m *MockBookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) List(ctx context.Context) ([]domain.Booking, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Booking, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) ListByRange(ctx context.Context, from, to time.Time) ([]domain.Booking, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) ListByRouteRange(ctx context.Context, routeID string, from, to time.Time) ([]domain.Booking, error) {
	args := m.Called(ctx, routeID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) UpdateStatus(
	ctx context.Context,
	id string,
	from []domain.BookingStatus,
	to domain.BookingStatus,
	checkInAt *time.Time,
) (*domain.Booking, error) {
	args := m.Called(ctx, id, from, to, checkInAt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) CountActiveByRoute(ctx context.Context, routeID string) (int, error) {
	args := m.Called(ctx, routeID)
	return args.Int(0), args.Error(1)
}

func (m *MockBookingRepository) CountActiveByRouteInRange(ctx context.Context, routeID string, from, to time.Time) (int, error) {
	args := m.Called(ctx, routeID, from, to)
	return args.Int(0), args.Error(1)
}

func (m *MockBookingRepository) CountActiveInRange(ctx context.Context, from, to time.Time) (map[string]int, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]int), args.Error(1)
}

func (m *MockBookingRepository) FindNextActiveByUser(ctx context.Context, userID uuid.UUID, after time.Time) (*domain.Booking, error) {
	args := m.Called(ctx, userID, after)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

// MockCacheRepository is a mock of CacheRepository
type MockCacheRepository struct {
	mock.Mock
}

func (m *MockCacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockCacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return m.Called(ctx, key, value, ttl).Error(0)
}

func (m *MockCacheRepository) Delete(ctx context.Context, keys ...string) error {
	return m.Called(ctx, keys).Error(0)
}

func (m *MockCacheRepository) Exists(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

func (m *MockCacheRepository) GetSeatCount(ctx context.Context, routeID, day string) (int, bool, error) {
	args := m.Called(ctx, routeID, day)
	return args.Int(0), args.Bool(1), args.Error(2)
}

func (m *MockCacheRepository) SetSeatCount(ctx context.Context, routeID, day string, count int, ttl time.Duration) error {
	return m.Called(ctx, routeID, day, count, ttl).Error(0)
}

func (m *MockCacheRepository) GetAvailability(ctx context.Context, day string) ([]domain.RouteAvailability, error) {
	args := m.Called(ctx, day)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RouteAvailability), args.Error(1)
}

func (m *MockCacheRepository) SetAvailability(ctx context.Context, day string, items []domain.RouteAvailability, ttl time.Duration) error {
	return m.Called(ctx, day, items, ttl).Error(0)
}

func (m *MockCacheRepository) GetDailyReport(ctx context.Context, day string) (*domain.DailyReport, error) {
	args := m.Called(ctx, day)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DailyReport), args.Error(1)
}

func (m *MockCacheRepository) SetDailyReport(ctx context.Context, day string, report *domain.DailyReport, ttl time.Duration) error {
	return m.Called(ctx, day, report, ttl).Error(0)
}

func (m *MockCacheRepository) InvalidateDay(ctx context.Context, routeID, day string) error {
	return m.Called(ctx, routeID, day).Error(0)
}

func (m *MockCacheRepository) RevokeToken(ctx context.Context, tokenID string, ttl time.Duration) error {
	return m.Called(ctx, tokenID, ttl).Error(0)
}

func (m *MockCacheRepository) IsTokenRevoked(ctx context.Context, tokenID string) (bool, error) {
	args := m.Called(ctx, tokenID)
	return args.Bool(0), args.Error(1)
}

func (m *MockCacheRepository) GetNews(ctx context.Context) (*domain.News, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.News), args.Error(1)
}

func (m *MockCacheRepository) SetNews(ctx context.Context, news *domain.News, ttl time.Duration) error {
	return m.Called(ctx, news, ttl).Error(0)
}

// MockStreamRepository is a mock of StreamRepository
type MockStreamRepository struct {
	mock.Mock
}

func (m *MockStreamRepository) ConsumeStream(ctx context.Context, stream, group, consumer string) (<-chan domain.StreamMessage, error) {
	args := m.Called(ctx, stream, group, consumer)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(<-chan domain.StreamMessage), args.Error(1)
}

func (m *MockStreamRepository) ConsumeBatch(ctx context.Context, stream, group, consumer string, count int64, block time.Duration) ([]domain.StreamMessage, error) {
	args := m.Called(ctx, stream, group, consumer, count, block)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.StreamMessage), args.Error(1)
}

func (m *MockStreamRepository) AckMessage(ctx context.Context, stream, group, messageID string) error {
	return m.Called(ctx, stream, group, messageID).Error(0)
}

func (m *MockStreamRepository) AckMessages(ctx context.Context, stream, group string, messageIDs ...string) error {
	return m.Called(ctx, stream, group, messageIDs).Error(0)
}

func (m *MockStreamRepository) CreateConsumerGroup(ctx context.Context, stream, group string) error {
	return m.Called(ctx, stream, group).Error(0)
}

func (m *MockStreamRepository) PublishToStream(ctx context.Context, stream string, data interface{}) error {
	return m.Called(ctx, stream, data).Error(0)
}

// MockUserRepository is a mock of UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmployeeCode(ctx context.Context, code string) (*domain.User, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserRepository) UpdateProfile(ctx context.Context, id uuid.UUID, update domain.ProfileUpdate) (*domain.User, error) {
	args := m.Called(ctx, id, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

// MockRouteDetailsRepository is a mock of RouteDetailsRepository
type MockRouteDetailsRepository struct {
	mock.Mock
}

func (m *MockRouteDetailsRepository) List(ctx context.Context) ([]domain.RouteDetails, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RouteDetails), args.Error(1)
}

func (m *MockRouteDetailsRepository) Upsert(ctx context.Context, details []domain.RouteDetails) error {
	return m.Called(ctx, details).Error(0)
}

// MockNewsRepository is a mock of NewsRepository
type MockNewsRepository struct {
	mock.Mock
}

func (m *MockNewsRepository) Get(ctx context.Context) (*domain.News, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.News), args.Error(1)
}

func (m *MockNewsRepository) Save(ctx context.Context, text string) (*domain.News, error) {
	args := m.Called(ctx, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.News), args.Error(1)
}
