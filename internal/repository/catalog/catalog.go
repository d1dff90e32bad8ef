package catalog

import (
	"fmt"

	"github.com/shuttle-booking/internal/domain"
	"github.com/shuttle-booking/internal/domain/repository"
	"github.com/shuttle-booking/internal/pkg/utils"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Catalog - неизменяемое расписание маршрутов и список остановок
type Catalog struct {
	routes       []domain.Route
	stations     []domain.Station
	routeIndex   map[string]int
	stationIndex map[string]int
}

type fileLayout struct {
	Routes   []domain.Route   `mapstructure:"routes"`
	Stations []domain.Station `mapstructure:"stations"`
}

// Load читает каталог из YAML файла; пустой путь - встроенный каталог
func Load(path string, logger *zap.Logger) (repository.CatalogRepository, error) {
	if path == "" {
		c, err := New(DefaultRoutes(), DefaultStations())
		if err != nil {
			return nil, fmt.Errorf("built-in catalog: %w", err)
		}
		logger.Info("Using built-in route catalog", zap.Int("routes", len(c.routes)))
		return c, nil
	}

	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}

	var layout fileLayout
	if err := v.Unmarshal(&layout); err != nil {
		return nil, fmt.Errorf("decode catalog %s: %w", path, err)
	}

	c, err := New(layout.Routes, layout.Stations)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}

	logger.Info("Route catalog loaded",
		zap.String("file", path),
		zap.Int("routes", len(layout.Routes)),
		zap.Int("stations", len(layout.Stations)))
	return c, nil
}

// New проверяет маршруты и остановки: у каждого маршрута ровно одна группа,
// идентификаторы уникальны
func New(routes []domain.Route, stations []domain.Station) (*Catalog, error) {
	if len(routes) == 0 {
		return nil, fmt.Errorf("catalog has no routes")
	}

	c := &Catalog{
		routes:       make([]domain.Route, 0, len(routes)),
		stations:     make([]domain.Station, 0, len(stations)),
		routeIndex:   make(map[string]int, len(routes)),
		stationIndex: make(map[string]int, len(stations)),
	}

	for _, r := range routes {
		if err := r.Validate(); err != nil {
			return nil, err
		}
		if _, dup := c.routeIndex[r.ID]; dup {
			return nil, fmt.Errorf("duplicate route id %q", r.ID)
		}
		r.LicensePlate = nil
		r.DriverPhone = nil
		c.routeIndex[r.ID] = len(c.routes)
		c.routes = append(c.routes, r)
	}

	for _, s := range stations {
		if s.ID == "" {
			return nil, fmt.Errorf("station without id")
		}
		if !utils.ValidateCoordinates(s.Lat, s.Lon) {
			return nil, fmt.Errorf("station %s: invalid coordinates %f,%f", s.ID, s.Lat, s.Lon)
		}
		if _, dup := c.stationIndex[s.ID]; dup {
			return nil, fmt.Errorf("duplicate station id %q", s.ID)
		}
		s.Geohash = utils.StationGeohash(s.Lat, s.Lon)
		c.stationIndex[s.ID] = len(c.stations)
		c.stations = append(c.stations, s)
	}

	return c, nil
}

// Routes возвращает копию, вызывающий может её менять
func (c *Catalog) Routes() []domain.Route {
	out := make([]domain.Route, len(c.routes))
	copy(out, c.routes)
	return out
}

func (c *Catalog) Route(id string) (domain.Route, bool) {
	i, ok := c.routeIndex[id]
	if !ok {
		return domain.Route{}, false
	}
	return c.routes[i], true
}

func (c *Catalog) Stations() []domain.Station {
	out := make([]domain.Station, len(c.stations))
	copy(out, c.stations)
	return out
}

func (c *Catalog) Station(id string) (domain.Station, bool) {
	i, ok := c.stationIndex[id]
	if !ok {
		return domain.Station{}, false
	}
	return c.stations[i], true
}
