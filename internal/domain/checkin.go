package domain

import "time"

// CheckInScope limits which bookings a scanned code may match.
// A driver scans against one route on one day; an admin scans against everything.
type CheckInScope struct {
	RouteID string
	Day     time.Time
	All     bool
}

func (s CheckInScope) Contains(b Booking, loc *time.Location) bool {
	if s.All {
		return true
	}
	if s.RouteID != "" && b.RouteID != s.RouteID {
		return false
	}
	by, bm, bd := b.Timestamp.In(loc).Date()
	sy, sm, sd := s.Day.In(loc).Date()
	return by == sy && bm == sm && bd == sd
}

type CheckInOutcome string

const (
	OutcomeCheckedIn       CheckInOutcome = "checked_in"
	OutcomeAlreadyTerminal CheckInOutcome = "already_terminal"
	OutcomeNotFound        CheckInOutcome = "not_found"

	// Kiosk feed only: a repeat inside the debounce window, or a scan that could not be applied.
	OutcomeSuppressed CheckInOutcome = "suppressed"
	OutcomeFailed     CheckInOutcome = "failed"
)

// CheckInResult is the informational answer to a scan. Not-found and
// already-closed bookings are results, not errors.
type CheckInResult struct {
	Outcome CheckInOutcome `json:"outcome"`
	Code    string         `json:"code"`
	Booking *Booking       `json:"booking,omitempty"`
	Status  BookingStatus  `json:"status,omitempty"`
	Message string         `json:"message"`
}
