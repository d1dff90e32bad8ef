package dto

import "github.com/shuttle-booking/internal/domain"

// RouteDetailsItem - номер машины и телефон водителя; пустая строка очищает поле
type RouteDetailsItem struct {
	RouteID      string  `json:"route_id" validate:"required"`
	LicensePlate *string `json:"license_plate,omitempty" validate:"omitempty,max=32"`
	DriverPhone  *string `json:"driver_phone,omitempty" validate:"omitempty,max=32"`
}

type SaveRouteDetailsRequest struct {
	Routes []RouteDetailsItem `json:"routes" validate:"required,min=1,dive"`
}

// PartitionGroup - маршруты одной группы (смена + направление)
type PartitionGroup struct {
	Partition domain.Partition `json:"partition"`
	Routes    []domain.Route   `json:"routes"`
}

// NearestStationsRequest - поиск ближайших остановок
type NearestStationsRequest struct {
	Lat   float64 `query:"lat" validate:"min=-90,max=90"`
	Lon   float64 `query:"lon" validate:"min=-180,max=180"`
	Limit int     `query:"limit" validate:"omitempty,min=1,max=50"`
}

// SaveNewsRequest - текст объявления для пассажиров
type SaveNewsRequest struct {
	Text string `json:"text" validate:"max=4000"`
}
