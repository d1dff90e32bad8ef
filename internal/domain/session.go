package domain

import (
	"time"

	"github.com/google/uuid"
)

// Capability is an action guarded at the routing layer.
type Capability string

const (
	CapBook            Capability = "book"
	CapCancelOwn       Capability = "cancel_own"
	CapViewOwnHistory  Capability = "view_own_history"
	CapEditProfile     Capability = "edit_profile"
	CapCheckIn         Capability = "check_in"
	CapMarkNoShow      Capability = "mark_no_show"
	CapViewRoster      Capability = "view_roster"
	CapViewAllBookings Capability = "view_all_bookings"
	CapManageRoutes    Capability = "manage_routes"
	CapManageNews      Capability = "manage_news"
	CapExportReports   Capability = "export_reports"
)

var roleCapabilities = map[Role]map[Capability]struct{}{
	RoleRider: capSet(
		CapBook, CapCancelOwn, CapViewOwnHistory, CapEditProfile,
	),
	RoleDriver: capSet(
		CapCheckIn, CapMarkNoShow, CapViewRoster,
	),
	RoleAdmin: capSet(
		CapCheckIn, CapMarkNoShow, CapViewRoster, CapViewAllBookings,
		CapManageRoutes, CapManageNews, CapExportReports,
	),
}

func capSet(caps ...Capability) map[Capability]struct{} {
	m := make(map[Capability]struct{}, len(caps))
	for _, c := range caps {
		m[c] = struct{}{}
	}
	return m
}

// Can reports whether the role is granted the capability.
func (r Role) Can(c Capability) bool {
	_, ok := roleCapabilities[r][c]
	return ok
}

// Session is the authenticated caller, built once per request.
type Session struct {
	UserID       uuid.UUID `json:"user_id"`
	EmployeeCode string    `json:"employee_code"`
	Name         string    `json:"name"`
	Role         Role      `json:"role"`
	TokenID      string    `json:"-"`
	ExpiresAt    time.Time `json:"expires_at"`
}

func (s *Session) Can(c Capability) bool {
	return s != nil && s.Role.Can(c)
}
