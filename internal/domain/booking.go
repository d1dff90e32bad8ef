package domain

import (
	"time"

	"github.com/google/uuid"
)

type BookingStatus string

const (
	StatusWaiting   BookingStatus = "WAITING"
	StatusBooked    BookingStatus = "BOOKED"
	StatusCompleted BookingStatus = "COMPLETED"
	StatusCancelled BookingStatus = "CANCELLED"
	StatusNoShow    BookingStatus = "NOSHOW"
)

// ActiveStatuses occupy a seat.
var ActiveStatuses = []BookingStatus{StatusWaiting, StatusBooked}

func (s BookingStatus) Valid() bool {
	switch s {
	case StatusWaiting, StatusBooked, StatusCompleted, StatusCancelled, StatusNoShow:
		return true
	}
	return false
}

func (s BookingStatus) IsActive() bool {
	return s == StatusWaiting || s == StatusBooked
}

func (s BookingStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled || s == StatusNoShow
}

// CanTransitionTo reports whether the lifecycle allows moving from s to next.
// Transitions only go forward; terminal states accept nothing.
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	switch s {
	case StatusWaiting:
		return next == StatusBooked || next == StatusCompleted ||
			next == StatusCancelled || next == StatusNoShow
	case StatusBooked:
		return next == StatusCompleted || next == StatusCancelled
	}
	return false
}

// SourcesFor lists the states from which next can be reached.
func SourcesFor(next BookingStatus) []BookingStatus {
	var from []BookingStatus
	for _, s := range ActiveStatuses {
		if s.CanTransitionTo(next) {
			from = append(from, s)
		}
	}
	return from
}

// DuplicateWindow is the default minimum distance between two bookings of one user.
const DuplicateWindow = 60 * time.Second

// Booking is one seat reservation. Names are copied at creation and never
// change afterwards.
type Booking struct {
	ID          string        `json:"id" db:"id"`
	UserID      uuid.UUID     `json:"user_id" db:"user_id"`
	UserName    string        `json:"user_name" db:"user_name"`
	RouteID     string        `json:"route_id" db:"route_id"`
	RouteName   string        `json:"route_name" db:"route_name"`
	StationID   string        `json:"station_id" db:"station_id"`
	StationName string        `json:"station_name" db:"station_name"`
	Timestamp   time.Time     `json:"timestamp" db:"travel_at"`
	Status      BookingStatus `json:"status" db:"status"`
	CheckInTime *time.Time    `json:"check_in_time,omitempty" db:"check_in_at"`
	Shift       Shift         `json:"shift,omitempty" db:"shift"`
	Direction   Direction     `json:"direction,omitempty" db:"direction"`
	CreatedAt   time.Time     `json:"created_at" db:"created_at"`
}

// ConflictsWith reports whether b and other would be duplicates: same user,
// neither cancelled, timestamps closer than window.
func (b Booking) ConflictsWith(other Booking, window time.Duration) bool {
	if b.UserID != other.UserID {
		return false
	}
	if b.Status == StatusCancelled || other.Status == StatusCancelled {
		return false
	}
	diff := b.Timestamp.Sub(other.Timestamp)
	if diff < 0 {
		diff = -diff
	}
	return diff < window
}

// ReservationLimits are enforced by the store in the same transaction that
// inserts a booking.
type ReservationLimits struct {
	MaxSeats        int
	DayStart        time.Time
	DayEnd          time.Time
	DuplicateWindow time.Duration
}
