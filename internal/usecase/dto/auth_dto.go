package dto

import (
	"time"

	"github.com/shuttle-booking/internal/domain"
)

// LoginRequest - вход по табельному номеру
type LoginRequest struct {
	EmployeeCode string `json:"employee_code" validate:"required,max=64"`
}

// LoginResponse - сессионный токен и профиль
type LoginResponse struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expires_at"`
	User      domain.User `json:"user"`
}

// RegisterRequest - регистрация сотрудника; роль всегда rider
type RegisterRequest struct {
	EmployeeCode string `json:"employee_code" validate:"required,max=64"`
	Name         string `json:"name" validate:"required,max=200"`
	Department   string `json:"department" validate:"max=200"`
	Phone        string `json:"phone" validate:"max=32"`
}

// UpdateProfileRequest - изменяемые поля профиля; отсутствующее поле не меняется
type UpdateProfileRequest struct {
	Name       *string `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Department *string `json:"department,omitempty" validate:"omitempty,max=200"`
	Phone      *string `json:"phone,omitempty" validate:"omitempty,max=32"`
}

func (r UpdateProfileRequest) ToDomain() domain.ProfileUpdate {
	return domain.ProfileUpdate{
		Name:       r.Name,
		Department: r.Department,
		Phone:      r.Phone,
	}
}
