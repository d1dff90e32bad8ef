package repository

import "github.com/shuttle-booking/internal/domain"

// CatalogRepository - статическое расписание маршрутов и список остановок.
// Загружается один раз при старте, поэтому без context
type CatalogRepository interface {
	Routes() []domain.Route
	Route(id string) (domain.Route, bool)
	Stations() []domain.Station
	Station(id string) (domain.Station, bool)
}
