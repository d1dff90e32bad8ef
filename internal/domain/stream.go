package domain

import (
	"time"

	"github.com/google/uuid"
)

// Stream names
const (
	StreamBookingEvents  = "stream:booking:events"
	StreamCheckInScans   = "stream:checkin:scans"
	StreamCheckInResults = "stream:checkin:results"
)

type BookingEventType string

const (
	EventBookingCreated BookingEventType = "booking.created"
	EventStatusChanged  BookingEventType = "booking.status_changed"
)

// BookingEvent is published after every accepted write to the booking store.
type BookingEvent struct {
	Type       BookingEventType `json:"type"`
	BookingID  string           `json:"booking_id"`
	UserID     uuid.UUID        `json:"user_id"`
	RouteID    string           `json:"route_id"`
	Day        string           `json:"day"`
	Status     BookingStatus    `json:"status"`
	OccurredAt time.Time        `json:"occurred_at"`
}

// ScanFeedEvent is a decoded code pushed by a kiosk scanner.
type ScanFeedEvent struct {
	RouteID  string    `json:"route_id"`
	Code     string    `json:"code"`
	DeviceID string    `json:"device_id,omitempty"`
	Scanned  time.Time `json:"scanned_at"`
}

// ScanResultEvent reports the outcome of a kiosk scan back to the device.
type ScanResultEvent struct {
	DeviceID string        `json:"device_id,omitempty"`
	Result   CheckInResult `json:"result"`
}

// StreamMessage - сообщение из Redis Stream
type StreamMessage struct {
	ID   string
	Data string
}
