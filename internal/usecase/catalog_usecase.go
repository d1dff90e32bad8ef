package usecase

import (
	"context"
	"sort"
	"strings"

	"github.com/shuttle-booking/internal/domain"
	"github.com/shuttle-booking/internal/domain/repository"
	"github.com/shuttle-booking/internal/pkg/errors"
	"github.com/shuttle-booking/internal/pkg/metrics"
	"github.com/shuttle-booking/internal/pkg/utils"
	"github.com/shuttle-booking/internal/usecase/dto"
	"go.uber.org/zap"
)

const (
	defaultNearestLimit = 5

	// 5 символов geohash - ячейка ~5 км, соседние ячейки покрывают окрестность запроса
	nearestCellPrecision = 5
)

// CatalogUseCase - маршруты и остановки с сохранёнными данными транспорта
type CatalogUseCase struct {
	catalog     repository.CatalogRepository
	detailsRepo repository.RouteDetailsRepository
	metrics     *metrics.Metrics
	logger      *zap.Logger
}

func NewCatalogUseCase(
	catalog repository.CatalogRepository,
	detailsRepo repository.RouteDetailsRepository,
	m *metrics.Metrics,
	logger *zap.Logger,
) *CatalogUseCase {
	return &CatalogUseCase{
		catalog:     catalog,
		detailsRepo: detailsRepo,
		metrics:     m,
		logger:      logger,
	}
}

// ListRoutes возвращает расписание с данными транспорта. Данные читаются из БД на каждый вызов;
// если БД недоступна, маршруты отдаются без них и degraded=true
func (uc *CatalogUseCase) ListRoutes(ctx context.Context) ([]domain.Route, bool) {
	routes := uc.catalog.Routes()

	details, err := uc.detailsRepo.List(ctx)
	if err != nil {
		uc.logger.Warn("Route details unavailable, serving schedule only", zap.Error(err))
		uc.metrics.DegradedRead("list_route_details")
		for i := range routes {
			routes[i] = routes[i].WithDetails(nil)
		}
		return routes, true
	}

	byRoute := make(map[string]*domain.RouteDetails, len(details))
	for i := range details {
		byRoute[details[i].RouteID] = &details[i]
	}
	for i := range routes {
		routes[i] = routes[i].WithDetails(byRoute[routes[i].ID])
	}

	return routes, false
}

// ListPartitioned группирует маршруты по четырём группам в порядке показа
func (uc *CatalogUseCase) ListPartitioned(ctx context.Context) ([]dto.PartitionGroup, bool) {
	routes, degraded := uc.ListRoutes(ctx)

	groups := make([]dto.PartitionGroup, len(domain.Partitions))
	index := make(map[domain.Partition]int, len(domain.Partitions))
	for i, p := range domain.Partitions {
		groups[i] = dto.PartitionGroup{Partition: p, Routes: []domain.Route{}}
		index[p] = i
	}

	for _, r := range routes {
		p, ok := r.Partition()
		if !ok {
			continue
		}
		groups[index[p]].Routes = append(groups[index[p]].Routes, r)
	}

	return groups, degraded
}

// Route - маршрут по id или ErrRouteNotFound
func (uc *CatalogUseCase) Route(id string) (domain.Route, error) {
	r, ok := uc.catalog.Route(id)
	if !ok {
		return domain.Route{}, errors.ErrRouteNotFound
	}
	return r, nil
}

// SaveRouteDetails сохраняет номер машины и телефон водителя
func (uc *CatalogUseCase) SaveRouteDetails(ctx context.Context, req dto.SaveRouteDetailsRequest) error {
	details := make([]domain.RouteDetails, 0, len(req.Routes))
	unknown := make(map[string]interface{})

	for _, item := range req.Routes {
		id := strings.TrimSpace(item.RouteID)
		if _, ok := uc.catalog.Route(id); !ok {
			unknown[id] = "unknown route"
			continue
		}
		details = append(details, domain.RouteDetails{
			RouteID:      id,
			LicensePlate: trimmed(item.LicensePlate),
			DriverPhone:  trimmed(item.DriverPhone),
		})
	}

	if len(unknown) > 0 {
		return errors.ErrValidation.WithDetails(unknown)
	}

	if err := uc.detailsRepo.Upsert(ctx, details); err != nil {
		uc.logger.Error("Failed to save route details", zap.Error(err))
		return errors.ErrPersistence.Wrap(err)
	}
	return nil
}

func (uc *CatalogUseCase) ListStations() []domain.Station {
	return uc.catalog.Stations()
}

// NearestStations - ближайшие остановки к точке. Сначала проверяются станции
// из соседних geohash-ячеек, при нехватке - все остановки
func (uc *CatalogUseCase) NearestStations(req dto.NearestStationsRequest) ([]domain.NearbyStation, error) {
	if !utils.ValidateCoordinates(req.Lat, req.Lon) {
		return nil, errors.ErrValidation.WithMessage("Invalid coordinates")
	}

	limit := req.Limit
	if limit <= 0 {
		limit = defaultNearestLimit
	}

	stations := uc.catalog.Stations()

	cells := make(map[string]struct{}, 9)
	queryHash := utils.StationGeohash(req.Lat, req.Lon)
	for _, cell := range utils.GeohashNeighbors(queryHash[:nearestCellPrecision]) {
		cells[cell] = struct{}{}
	}

	candidates := make([]domain.Station, 0, len(stations))
	for _, s := range stations {
		if len(s.Geohash) < nearestCellPrecision {
			continue
		}
		if _, ok := cells[s.Geohash[:nearestCellPrecision]]; ok {
			candidates = append(candidates, s)
		}
	}
	if len(candidates) < limit {
		candidates = stations
	}

	result := make([]domain.NearbyStation, 0, len(candidates))
	for _, s := range candidates {
		result = append(result, domain.NearbyStation{
			Station:    s,
			DistanceKm: utils.HaversineDistance(req.Lat, req.Lon, s.Lat, s.Lon),
		})
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].DistanceKm < result[j].DistanceKm
	})
	if len(result) > limit {
		result = result[:limit]
	}

	return result, nil
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}
