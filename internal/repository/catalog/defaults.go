package catalog

import "github.com/shuttle-booking/internal/domain"

// DefaultRoutes - расписание по умолчанию, используется без CATALOG_FILE
func DefaultRoutes() []domain.Route {
	return []domain.Route{
		{ID: "m1", Name: "Morning Inbound 1", Time: "06:45", Shift: domain.ShiftMorning, Direction: domain.DirectionInbound, MaxSeats: 40},
		{ID: "m2", Name: "Morning Inbound 2", Time: "07:30", Shift: domain.ShiftMorning, Direction: domain.DirectionInbound, MaxSeats: 40},
		{ID: "e1", Name: "Evening Outbound", Time: "17:15", Shift: domain.ShiftEvening, Direction: domain.DirectionOutbound, MaxSeats: 40},
		{ID: "e2", Name: "Evening Overtime", Time: "19:30", Shift: domain.ShiftEvening, Direction: domain.DirectionOutbound, Overtime: true, MaxSeats: 24,
			Description: "Runs only for approved overtime"},
		{ID: "n1", Name: "Night Inbound", Time: "19:15", Shift: domain.ShiftNight, Direction: domain.DirectionInbound, MaxSeats: 24},
		{ID: "n2", Name: "Night Outbound", Time: "05:15", Shift: domain.ShiftNight, Direction: domain.DirectionOutbound, MaxSeats: 24},
		{ID: "n3", Name: "Night Overtime Outbound", Time: "07:15", Shift: domain.ShiftNight, Direction: domain.DirectionOutbound, Overtime: true, MaxSeats: 12},
	}
}

// DefaultStations - остановки по умолчанию
func DefaultStations() []domain.Station {
	return []domain.Station{
		{ID: "s1", Name: "Main Gate", Lat: 13.7563, Lon: 100.5018, Description: "Factory main entrance"},
		{ID: "s2", Name: "Central Market", Lat: 13.7466, Lon: 100.5347},
		{ID: "s3", Name: "North Terminal", Lat: 13.8140, Lon: 100.5486, Description: "Bus terminal, platform 4"},
		{ID: "s4", Name: "Riverside Pier", Lat: 13.7248, Lon: 100.5130},
		{ID: "s5", Name: "East Housing", Lat: 13.7330, Lon: 100.5830, Description: "In front of building C"},
	}
}
