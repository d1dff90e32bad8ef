package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/shuttle-booking/internal/domain"
	"github.com/shuttle-booking/internal/domain/repository"
	apperrors "github.com/shuttle-booking/internal/pkg/errors"
	"github.com/shuttle-booking/internal/usecase"
	"github.com/shuttle-booking/internal/usecase/dto"
)

type bookingFixture struct {
	bookings *MockBookingRepository
	cache    *MockCacheRepository
	streams  *MockStreamRepository
	uc       *usecase.BookingUseCase
}

func newBookingFixture(t *testing.T) *bookingFixture {
	f := &bookingFixture{
		bookings: &MockBookingRepository{},
		cache:    &MockCacheRepository{},
		streams:  &MockStreamRepository{},
	}
	f.uc = usecase.NewBookingUseCase(f.bookings, testCatalog(t), f.cache, f.streams, nil,
		usecase.BookingOptions{
			Location:        bangkok,
			DuplicateWindow: domain.DuplicateWindow,
			MaxBatchDates:   5,
			IDRetries:       3,
			SeatCountTTL:    30 * time.Second,
		}, zap.NewNop())
	return f
}

func (f *bookingFixture) expectSideEffects() {
	f.cache.On("InvalidateDay", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	f.streams.On("PublishToStream", mock.Anything, domain.StreamBookingEvents, mock.Anything).Return(nil)
}

func TestBookingUseCase_AttemptBooking(t *testing.T) {
	ctx := context.Background()

	t.Run("last seat is accepted and the day shows full", func(t *testing.T) {
		f := newBookingFixture(t)
		s := riderSession()
		f.expectSideEffects()

		wantAt := time.Date(2024, 3, 15, 7, 30, 0, 0, bangkok)
		dayStart := time.Date(2024, 3, 15, 0, 0, 0, 0, bangkok)

		f.bookings.On("ListByUser", ctx, s.UserID).Return([]domain.Booking{}, nil)
		f.bookings.On("Create", ctx, mock.AnythingOfType("*domain.Booking"),
			mock.MatchedBy(func(l domain.ReservationLimits) bool {
				return l.MaxSeats == 40 && l.DayStart.Equal(dayStart) &&
					l.DayEnd.Equal(dayStart.AddDate(0, 0, 1)) && l.DuplicateWindow == domain.DuplicateWindow
			})).Return(nil)

		b, err := f.uc.AttemptBooking(ctx, s, dto.CreateBookingRequest{
			RouteID: "m1", StationID: "s1", Dates: []string{"2024-03-15"},
		})
		require.NoError(t, err)

		assert.Len(t, b.ID, 9)
		assert.True(t, b.Timestamp.Equal(wantAt))
		assert.Equal(t, domain.StatusWaiting, b.Status)
		assert.Equal(t, "Malee", b.UserName)
		assert.Equal(t, "Morning Inbound", b.RouteName)
		assert.Equal(t, "Main Gate", b.StationName)
		assert.Equal(t, domain.ShiftMorning, b.Shift)
		assert.Equal(t, domain.DirectionInbound, b.Direction)
		f.cache.AssertCalled(t, "InvalidateDay", mock.Anything, "m1", "2024-03-15")

		// следующий пользователь видит 0 мест
		f.cache.On("GetAvailability", ctx, "2024-03-15").Return(nil, nil)
		f.bookings.On("CountActiveInRange", ctx, mock.Anything, mock.Anything).
			Return(map[string]int{"m1": 40}, nil)
		f.cache.On("SetAvailability", ctx, "2024-03-15", mock.Anything, 30*time.Second).Return(nil)

		items, err := f.uc.Availability(ctx, "2024-03-15")
		require.NoError(t, err)
		require.NotEmpty(t, items)
		assert.Equal(t, "m1", items[0].RouteID)
		assert.Equal(t, 0, items[0].Remaining)
		assert.True(t, items[0].Full)
		assert.False(t, items[1].Full)
	})

	t.Run("duplicate within one minute is rejected before storage", func(t *testing.T) {
		f := newBookingFixture(t)
		s := riderSession()

		existing := domain.Booking{
			ID: "AAAAAAAAA", UserID: s.UserID, RouteID: "e1",
			Timestamp: time.Date(2024, 3, 15, 7, 30, 30, 0, bangkok),
			Status:    domain.StatusWaiting,
		}
		f.bookings.On("ListByUser", ctx, s.UserID).Return([]domain.Booking{existing}, nil)

		_, err := f.uc.AttemptBooking(ctx, s, dto.CreateBookingRequest{
			RouteID: "m1", StationID: "s1", Dates: []string{"2024-03-15"},
		})
		assert.ErrorIs(t, err, apperrors.ErrDuplicateBooking)
		f.bookings.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("cancelled booking does not block", func(t *testing.T) {
		f := newBookingFixture(t)
		s := riderSession()
		f.expectSideEffects()

		cancelled := domain.Booking{
			ID: "AAAAAAAAA", UserID: s.UserID, RouteID: "m1",
			Timestamp: time.Date(2024, 3, 15, 7, 30, 0, 0, bangkok),
			Status:    domain.StatusCancelled,
		}
		f.bookings.On("ListByUser", ctx, s.UserID).Return([]domain.Booking{cancelled}, nil)
		f.bookings.On("Create", ctx, mock.Anything, mock.Anything).Return(nil)

		_, err := f.uc.AttemptBooking(ctx, s, dto.CreateBookingRequest{
			RouteID: "m1", StationID: "s1", Dates: []string{"2024-03-15"},
		})
		assert.NoError(t, err)
	})

	t.Run("store reports route full", func(t *testing.T) {
		f := newBookingFixture(t)
		s := riderSession()

		f.bookings.On("ListByUser", ctx, s.UserID).Return([]domain.Booking{}, nil)
		f.bookings.On("Create", ctx, mock.Anything, mock.Anything).Return(apperrors.ErrRouteFull)

		_, err := f.uc.AttemptBooking(ctx, s, dto.CreateBookingRequest{
			RouteID: "n1", StationID: "s1", Dates: []string{"2024-03-15"},
		})
		assert.ErrorIs(t, err, apperrors.ErrRouteFull)
		f.streams.AssertNotCalled(t, "PublishToStream", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("id collision is retried with a new id", func(t *testing.T) {
		f := newBookingFixture(t)
		s := riderSession()
		f.expectSideEffects()

		var ids []string
		capture := func(args mock.Arguments) {
			ids = append(ids, args.Get(1).(*domain.Booking).ID)
		}
		f.bookings.On("ListByUser", ctx, s.UserID).Return([]domain.Booking{}, nil)
		f.bookings.On("Create", ctx, mock.Anything, mock.Anything).Run(capture).Return(apperrors.ErrBookingIDTaken).Once()
		f.bookings.On("Create", ctx, mock.Anything, mock.Anything).Run(capture).Return(nil).Once()

		b, err := f.uc.AttemptBooking(ctx, s, dto.CreateBookingRequest{
			RouteID: "m1", StationID: "s1", Dates: []string{"2024-03-15"},
		})
		require.NoError(t, err)
		require.Len(t, ids, 2)
		assert.NotEqual(t, ids[0], ids[1])
		assert.Equal(t, ids[1], b.ID)
	})

	t.Run("storage failure", func(t *testing.T) {
		f := newBookingFixture(t)
		s := riderSession()

		f.bookings.On("ListByUser", ctx, s.UserID).Return(nil, errors.New("connection refused"))

		_, err := f.uc.AttemptBooking(ctx, s, dto.CreateBookingRequest{
			RouteID: "m1", StationID: "s1", Dates: []string{"2024-03-15"},
		})
		assert.ErrorIs(t, err, apperrors.ErrPersistence)
	})

	t.Run("unknown route and mismatched shift are validation errors", func(t *testing.T) {
		f := newBookingFixture(t)
		s := riderSession()

		_, err := f.uc.AttemptBooking(ctx, s, dto.CreateBookingRequest{
			RouteID: "zz", StationID: "s1", Dates: []string{"2024-03-15"},
		})
		assert.ErrorIs(t, err, apperrors.ErrValidation)

		_, err = f.uc.AttemptBooking(ctx, s, dto.CreateBookingRequest{
			RouteID: "m1", StationID: "s1", Dates: []string{"2024-03-15"}, Shift: domain.ShiftNight,
		})
		assert.ErrorIs(t, err, apperrors.ErrValidation)
		f.bookings.AssertNotCalled(t, "ListByUser", mock.Anything, mock.Anything)
	})
}

func TestBookingUseCase_AttemptBatch(t *testing.T) {
	ctx := context.Background()

	t.Run("existing booking at the same time is skipped", func(t *testing.T) {
		f := newBookingFixture(t)
		s := riderSession()

		existing := domain.Booking{
			ID: "AAAAAAAAA", UserID: s.UserID, RouteID: "m1",
			Timestamp: time.Date(2024, 3, 15, 7, 30, 0, 0, bangkok),
			Status:    domain.StatusWaiting,
		}
		f.bookings.On("ListByUser", ctx, s.UserID).Return([]domain.Booking{existing}, nil)

		res, err := f.uc.AttemptBatch(ctx, s, dto.CreateBookingRequest{
			RouteID: "m1", StationID: "s1", Dates: []string{"2024-03-15"},
		})
		require.NoError(t, err)
		assert.Empty(t, res.Created)
		assert.Equal(t, []string{"2024-03-15"}, res.Duplicates)
		f.bookings.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("dates are independent", func(t *testing.T) {
		f := newBookingFixture(t)
		s := riderSession()
		f.expectSideEffects()

		onDay := func(day int) interface{} {
			return mock.MatchedBy(func(b *domain.Booking) bool {
				return b.Timestamp.Day() == day
			})
		}

		f.bookings.On("ListByUser", ctx, s.UserID).Return([]domain.Booking{}, nil)
		f.bookings.On("Create", ctx, onDay(15), mock.Anything).Return(nil)
		f.bookings.On("Create", ctx, onDay(16), mock.Anything).Return(apperrors.ErrRouteFull)
		f.bookings.On("Create", ctx, onDay(17), mock.Anything).Return(errors.New("connection reset"))
		f.bookings.On("Create", ctx, onDay(18), mock.Anything).Return(apperrors.ErrDuplicateBooking)

		res, err := f.uc.AttemptBatch(ctx, s, dto.CreateBookingRequest{
			RouteID: "m1", StationID: "s1",
			Dates: []string{"2024-03-15", "2024-03-16", "2024-03-17", "2024-03-18", "2024-03-15"},
		})
		require.NoError(t, err)

		require.Len(t, res.Created, 1)
		assert.Equal(t, 15, res.Created[0].Timestamp.Day())
		assert.Equal(t, []string{"2024-03-16"}, res.Full)
		assert.Equal(t, []string{"2024-03-18", "2024-03-15"}, res.Duplicates)
		require.Len(t, res.Failed, 1)
		assert.Equal(t, "2024-03-17", res.Failed[0].Date)
		assert.Equal(t, "PERSISTENCE_FAILURE", res.Failed[0].Code)
	})

	t.Run("bad date fails alone", func(t *testing.T) {
		f := newBookingFixture(t)
		s := riderSession()
		f.expectSideEffects()

		f.bookings.On("ListByUser", ctx, s.UserID).Return([]domain.Booking{}, nil)
		f.bookings.On("Create", ctx, mock.Anything, mock.Anything).Return(nil)

		res, err := f.uc.AttemptBatch(ctx, s, dto.CreateBookingRequest{
			RouteID: "m1", StationID: "s1", Dates: []string{"2024-02-30", "2024-03-15"},
		})
		require.NoError(t, err)
		assert.Len(t, res.Created, 1)
		require.Len(t, res.Failed, 1)
		assert.Equal(t, "VALIDATION_ERROR", res.Failed[0].Code)
	})

	t.Run("too many dates", func(t *testing.T) {
		f := newBookingFixture(t)
		_, err := f.uc.AttemptBatch(ctx, riderSession(), dto.CreateBookingRequest{
			RouteID: "m1", StationID: "s1",
			Dates: []string{"2024-03-11", "2024-03-12", "2024-03-13", "2024-03-14", "2024-03-15", "2024-03-16"},
		})
		assert.ErrorIs(t, err, apperrors.ErrValidation)
	})
}

func TestBookingUseCase_SeatCount(t *testing.T) {
	ctx := context.Background()

	t.Run("cache hit", func(t *testing.T) {
		f := newBookingFixture(t)
		f.cache.On("GetSeatCount", ctx, "m1", repository.AllDays).Return(12, true, nil)

		res, err := f.uc.SeatCount(ctx, "m1", "")
		require.NoError(t, err)
		assert.Equal(t, 12, res.Count)
		assert.Equal(t, 40, res.MaxSeats)
		f.bookings.AssertNotCalled(t, "CountActiveByRoute", mock.Anything, mock.Anything)
	})

	t.Run("day count from storage is cached", func(t *testing.T) {
		f := newBookingFixture(t)
		from := time.Date(2024, 3, 15, 0, 0, 0, 0, bangkok)

		f.cache.On("GetSeatCount", ctx, "m1", "2024-03-15").Return(0, false, nil)
		f.bookings.On("CountActiveByRouteInRange", ctx, "m1",
			mock.MatchedBy(from.Equal), mock.MatchedBy(from.AddDate(0, 0, 1).Equal)).Return(7, nil)
		f.cache.On("SetSeatCount", ctx, "m1", "2024-03-15", 7, 30*time.Second).Return(nil)

		res, err := f.uc.SeatCount(ctx, "m1", "2024-03-15")
		require.NoError(t, err)
		assert.Equal(t, 7, res.Count)
		f.cache.AssertExpectations(t)
	})

	t.Run("unknown route", func(t *testing.T) {
		f := newBookingFixture(t)
		_, err := f.uc.SeatCount(ctx, "zz", "")
		assert.ErrorIs(t, err, apperrors.ErrRouteNotFound)
	})
}

func TestBookingUseCase_ReadsDegrade(t *testing.T) {
	ctx := context.Background()
	f := newBookingFixture(t)
	s := riderSession()

	f.bookings.On("List", ctx).Return(nil, errors.New("timeout"))
	f.bookings.On("ListByUser", ctx, s.UserID).Return([]domain.Booking{{ID: "AAAAAAAAA"}}, nil)

	all := f.uc.ListAll(ctx)
	assert.True(t, all.Degraded)
	assert.NotNil(t, all.Bookings)
	assert.Empty(t, all.Bookings)

	mine := f.uc.ListMine(ctx, s)
	assert.False(t, mine.Degraded)
	assert.Len(t, mine.Bookings, 1)
}
