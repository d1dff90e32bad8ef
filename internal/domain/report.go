package domain

// ShiftGroup holds the bookings of one shift on a report day.
type ShiftGroup struct {
	Shift    Shift     `json:"shift"`
	Bookings []Booking `json:"bookings"`
}

// RouteCount feeds the per-route bar chart. It counts every non-cancelled booking.
type RouteCount struct {
	RouteID   string `json:"route_id"`
	RouteName string `json:"route_name"`
	Count     int    `json:"count"`
}

type DailyReport struct {
	Date        string         `json:"date"`
	Total       int            `json:"total"`
	ByStatus    map[string]int `json:"by_status"`
	Shifts      []ShiftGroup   `json:"shifts"`
	RouteCounts []RouteCount   `json:"route_counts"`
}

// StationGroup is one stop on a driver roster.
type StationGroup struct {
	StationID   string    `json:"station_id"`
	StationName string    `json:"station_name"`
	Bookings    []Booking `json:"bookings"`
}

type Roster struct {
	Date     string         `json:"date"`
	Route    Route          `json:"route"`
	Total    int            `json:"total"`
	Stations []StationGroup `json:"stations"`
}
