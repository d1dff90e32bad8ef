package domain

import (
	"fmt"
	"time"
)

type Shift string

const (
	ShiftMorning Shift = "morning"
	ShiftEvening Shift = "evening"
	ShiftNight   Shift = "night"
)

// Shifts in display order.
var Shifts = []Shift{ShiftMorning, ShiftEvening, ShiftNight}

func (s Shift) Valid() bool {
	switch s {
	case ShiftMorning, ShiftEvening, ShiftNight:
		return true
	}
	return false
}

type Direction string

const (
	DirectionInbound  Direction = "inbound"
	DirectionOutbound Direction = "outbound"
)

func (d Direction) Valid() bool {
	return d == DirectionInbound || d == DirectionOutbound
}

// Partition is the rider-facing group a route belongs to.
type Partition string

const (
	PartitionMorningInbound  Partition = "morning_inbound"
	PartitionEveningOutbound Partition = "evening_outbound"
	PartitionNightInbound    Partition = "night_inbound"
	PartitionNightOutbound   Partition = "night_outbound"
)

// Partitions in display order.
var Partitions = []Partition{
	PartitionMorningInbound,
	PartitionEveningOutbound,
	PartitionNightInbound,
	PartitionNightOutbound,
}

// PartitionOf maps an explicit (shift, direction) pair to its partition.
// Morning outbound and evening inbound runs are not offered.
func PartitionOf(shift Shift, dir Direction) (Partition, bool) {
	switch {
	case shift == ShiftMorning && dir == DirectionInbound:
		return PartitionMorningInbound, true
	case shift == ShiftEvening && dir == DirectionOutbound:
		return PartitionEveningOutbound, true
	case shift == ShiftNight && dir == DirectionInbound:
		return PartitionNightInbound, true
	case shift == ShiftNight && dir == DirectionOutbound:
		return PartitionNightOutbound, true
	}
	return "", false
}

const RouteTimeLayout = "15:04"

// Route is a scheduled shuttle run. Vehicle details come from persisted
// overrides and are nil when unset.
type Route struct {
	ID           string    `json:"id" mapstructure:"id"`
	Name         string    `json:"name" mapstructure:"name"`
	Time         string    `json:"time" mapstructure:"time"`
	Shift        Shift     `json:"shift" mapstructure:"shift"`
	Direction    Direction `json:"direction" mapstructure:"direction"`
	Overtime     bool      `json:"overtime" mapstructure:"overtime"`
	MaxSeats     int       `json:"max_seats" mapstructure:"max_seats"`
	Description  string    `json:"description,omitempty" mapstructure:"description"`
	LicensePlate *string   `json:"license_plate,omitempty" mapstructure:"-"`
	DriverPhone  *string   `json:"driver_phone,omitempty" mapstructure:"-"`
}

// Validate checks a schedule entry before it enters the catalog.
func (r Route) Validate() error {
	if r.ID == "" {
		return fmt.Errorf("route without id")
	}
	if r.MaxSeats <= 0 {
		return fmt.Errorf("route %s: max seats must be positive, got %d", r.ID, r.MaxSeats)
	}
	if _, err := time.Parse(RouteTimeLayout, r.Time); err != nil {
		return fmt.Errorf("route %s: invalid time %q", r.ID, r.Time)
	}
	if !r.Shift.Valid() {
		return fmt.Errorf("route %s: unknown shift %q", r.ID, r.Shift)
	}
	if !r.Direction.Valid() {
		return fmt.Errorf("route %s: unknown direction %q", r.ID, r.Direction)
	}
	if _, ok := r.Partition(); !ok {
		return fmt.Errorf("route %s: %s %s maps to no partition", r.ID, r.Shift, r.Direction)
	}
	return nil
}

func (r Route) Partition() (Partition, bool) {
	return PartitionOf(r.Shift, r.Direction)
}

// DepartureOn combines the calendar date of day with the route time in loc.
func (r Route) DepartureOn(day time.Time, loc *time.Location) (time.Time, error) {
	hm, err := time.Parse(RouteTimeLayout, r.Time)
	if err != nil {
		return time.Time{}, fmt.Errorf("route %s: invalid time %q: %w", r.ID, r.Time, err)
	}
	y, m, d := day.In(loc).Date()
	return time.Date(y, m, d, hm.Hour(), hm.Minute(), 0, 0, loc), nil
}

// WithDetails overlays persisted vehicle details. Missing fields stay unset.
func (r Route) WithDetails(d *RouteDetails) Route {
	r.LicensePlate = nil
	r.DriverPhone = nil
	if d == nil {
		return r
	}
	r.LicensePlate = nonEmpty(d.LicensePlate)
	r.DriverPhone = nonEmpty(d.DriverPhone)
	return r
}

// RouteDetails is the persisted vehicle-detail override of one route.
type RouteDetails struct {
	RouteID      string    `json:"route_id" db:"route_id"`
	LicensePlate *string   `json:"license_plate,omitempty" db:"license_plate"`
	DriverPhone  *string   `json:"driver_phone,omitempty" db:"driver_phone"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// RouteAvailability is the remaining capacity of a route on one day.
type RouteAvailability struct {
	RouteID   string    `json:"route_id"`
	RouteName string    `json:"route_name"`
	Partition Partition `json:"partition"`
	MaxSeats  int       `json:"max_seats"`
	Booked    int       `json:"booked"`
	Remaining int       `json:"remaining"`
	Full      bool      `json:"full"`
}

// NewRouteAvailability derives remaining seats from the active count.
func NewRouteAvailability(r Route, active int) RouteAvailability {
	p, _ := r.Partition()
	remaining := r.MaxSeats - active
	if remaining < 0 {
		remaining = 0
	}
	return RouteAvailability{
		RouteID:   r.ID,
		RouteName: r.Name,
		Partition: p,
		MaxSeats:  r.MaxSeats,
		Booked:    active,
		Remaining: remaining,
		Full:      active >= r.MaxSeats,
	}
}

func nonEmpty(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	v := *s
	return &v
}
