package domain

// Station is a pickup/drop-off point.
type Station struct {
	ID          string  `json:"id" mapstructure:"id"`
	Name        string  `json:"name" mapstructure:"name"`
	Lat         float64 `json:"lat" mapstructure:"lat"`
	Lon         float64 `json:"lon" mapstructure:"lon"`
	Description string  `json:"description,omitempty" mapstructure:"description"`
	Geohash     string  `json:"geohash" mapstructure:"-"`
}

// NearbyStation is a station with its distance from a query point.
type NearbyStation struct {
	Station
	DistanceKm float64 `json:"distance_km"`
}
