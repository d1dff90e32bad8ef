package errors

import (
	stderrors "errors"
	"net/http"
)

var (
	ErrValidation = New(
		"VALIDATION_ERROR",
		"Invalid request parameters",
		http.StatusBadRequest,
	)

	ErrDuplicateBooking = New(
		"DUPLICATE_BOOKING",
		"A booking already exists within one minute of this time",
		http.StatusConflict,
	)

	ErrRouteFull = New(
		"ROUTE_FULL",
		"No seats left on this route for the selected date",
		http.StatusConflict,
	)

	ErrNotFound = New(
		"NOT_FOUND",
		"Resource not found",
		http.StatusNotFound,
	)

	ErrBookingNotFound = New(
		"NOT_FOUND",
		"Booking not found",
		http.StatusNotFound,
	)

	ErrPassengerNotFound = New(
		"NOT_FOUND",
		"Passenger not found",
		http.StatusNotFound,
	)

	ErrUserNotFound = New(
		"NOT_FOUND",
		"User not found",
		http.StatusNotFound,
	)

	ErrRouteNotFound = New(
		"NOT_FOUND",
		"Route not found",
		http.StatusNotFound,
	)

	ErrAlreadyTerminal = New(
		"ALREADY_TERMINAL",
		"Booking is already closed",
		http.StatusConflict,
	)

	ErrInvalidTransition = New(
		"INVALID_TRANSITION",
		"Status change is not allowed",
		http.StatusConflict,
	)

	ErrForbidden = New(
		"FORBIDDEN",
		"Action is not allowed for this role",
		http.StatusForbidden,
	)

	ErrUnauthorized = New(
		"UNAUTHORIZED",
		"Missing or invalid session",
		http.StatusUnauthorized,
	)

	ErrConflict = New(
		"CONFLICT",
		"Employee code is already registered",
		http.StatusConflict,
	)

	ErrPersistence = New(
		"PERSISTENCE_FAILURE",
		"Storage is temporarily unavailable",
		http.StatusServiceUnavailable,
	)

	ErrCameraUnavailable = New(
		"CAMERA_UNAVAILABLE",
		"Code source could not be opened",
		http.StatusServiceUnavailable,
	)

	ErrCacheError = New(
		"CACHE_ERROR",
		"Cache operation failed",
		http.StatusInternalServerError,
	)

	ErrInternalServer = New(
		"INTERNAL_SERVER_ERROR",
		"Internal server error",
		http.StatusInternalServerError,
	)
)

// ErrBookingIDTaken - коллизия сгенерированного идентификатора брони, вызывающий повторяет с новым id
var ErrBookingIDTaken = stderrors.New("booking id already taken")

// As извлекает *AppError из цепочки ошибок
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// Is - обёртка над errors.Is стандартной библиотеки
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}
