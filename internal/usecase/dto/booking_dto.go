package dto

import "github.com/shuttle-booking/internal/domain"

// CreateBookingRequest - бронь одного маршрута на одну или несколько дат
type CreateBookingRequest struct {
	RouteID   string           `json:"route_id" validate:"required"`
	StationID string           `json:"station_id" validate:"required"`
	Dates     []string         `json:"dates" validate:"required,min=1,dive,datetime=2006-01-02"`
	Shift     domain.Shift     `json:"shift,omitempty" validate:"omitempty,oneof=morning evening night"`
	Direction domain.Direction `json:"direction,omitempty" validate:"omitempty,oneof=inbound outbound"`
}

// FailedDate - дата пакета, которую не удалось сохранить
type FailedDate struct {
	Date  string `json:"date"`
	Code  string `json:"code"`
	Error string `json:"error"`
}

// BatchBookingResult - итог пакетной брони; принятые даты не откатываются
type BatchBookingResult struct {
	Created    []domain.Booking `json:"created"`
	Duplicates []string         `json:"duplicates"`
	Full       []string         `json:"full"`
	Failed     []FailedDate     `json:"failed"`
}

// UpdateStatusRequest - ручная смена статуса брони
type UpdateStatusRequest struct {
	Status domain.BookingStatus `json:"status" validate:"required,oneof=WAITING BOOKED COMPLETED CANCELLED NOSHOW"`
}

// CheckInRequest - отсканированный QR. Для водителя route_id обязателен, дата по умолчанию сегодня
type CheckInRequest struct {
	Code    string `json:"code" validate:"required"`
	RouteID string `json:"route_id,omitempty"`
	Date    string `json:"date,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

// SeatCount - занятые места маршрута за день или за все даты
type SeatCount struct {
	RouteID  string `json:"route_id"`
	Date     string `json:"date,omitempty"`
	Count    int    `json:"count"`
	MaxSeats int    `json:"max_seats"`
}

// BookingList - результат чтения; Degraded=true если хранилище недоступно
type BookingList struct {
	Bookings []domain.Booking
	Degraded bool
}
