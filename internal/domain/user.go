package domain

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleRider  Role = "rider"
	RoleAdmin  Role = "admin"
	RoleDriver Role = "driver"
)

func (r Role) Valid() bool {
	switch r {
	case RoleRider, RoleAdmin, RoleDriver:
		return true
	}
	return false
}

// User is an employee known to the service. Role is fixed at creation.
type User struct {
	ID           uuid.UUID `json:"id" db:"id"`
	EmployeeCode string    `json:"employee_code" db:"employee_code"`
	Name         string    `json:"name" db:"name"`
	Department   string    `json:"department" db:"department"`
	Phone        string    `json:"phone" db:"phone"`
	Role         Role      `json:"role" db:"role"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// ProfileUpdate carries the fields a rider may change on their own profile.
// Nil means unchanged.
type ProfileUpdate struct {
	Name       *string
	Department *string
	Phone      *string
}

func (p ProfileUpdate) Empty() bool {
	return p.Name == nil && p.Department == nil && p.Phone == nil
}

// Apply returns a copy of u with the update applied.
func (p ProfileUpdate) Apply(u User) User {
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.Department != nil {
		u.Department = *p.Department
	}
	if p.Phone != nil {
		u.Phone = *p.Phone
	}
	return u
}
