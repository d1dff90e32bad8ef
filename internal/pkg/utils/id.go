package utils

import (
	"encoding/binary"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

const (
	// BookingIDLength - длина кода брони, он же содержимое QR
	BookingIDLength = 9

	bookingIDSpace = 101559956668416 // 36^9
)

// NewBookingID генерирует 9-символьный код [0-9A-Z] из случайных байт UUIDv4
func NewBookingID() string {
	id := uuid.New()
	n := binary.BigEndian.Uint64(id[:8]) % bookingIDSpace

	code := strings.ToUpper(strconv.FormatUint(n, 36))
	if len(code) < BookingIDLength {
		code = strings.Repeat("0", BookingIDLength-len(code)) + code
	}
	return code
}

// IsBookingID - код уже нормализован и похож на код брони
func IsBookingID(code string) bool {
	if len(code) != BookingIDLength {
		return false
	}
	for _, r := range code {
		if (r < '0' || r > '9') && (r < 'A' || r > 'Z') {
			return false
		}
	}
	return true
}

// NormalizeBookingID приводит отсканированный код к каноническому виду
func NormalizeBookingID(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
