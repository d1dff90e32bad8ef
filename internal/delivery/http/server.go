package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/shuttle-booking/internal/config"
	"github.com/shuttle-booking/internal/delivery/http/handler"
	"github.com/shuttle-booking/internal/delivery/http/middleware"
	"github.com/shuttle-booking/internal/domain"
	"github.com/shuttle-booking/internal/pkg/errors"
	"github.com/shuttle-booking/internal/pkg/metrics"
	"github.com/shuttle-booking/internal/pkg/utils"
	fiberSwagger "github.com/swaggo/fiber-swagger"
	"go.uber.org/zap"
)

// Handlers - обработчики всех групп API
type Handlers struct {
	Auth    *handler.AuthHandler
	Route   *handler.RouteHandler
	Booking *handler.BookingHandler
	CheckIn *handler.CheckInHandler
	Report  *handler.ReportHandler
	News    *handler.NewsHandler
	Health  *handler.HealthHandler
}

// Server - HTTP сервер на основе Fiber
type Server struct {
	app      *fiber.App
	config   *config.Config
	auth     middleware.Authenticator
	metrics  *metrics.Metrics
	handlers Handlers
	logger   *zap.Logger
}

// NewServer - создание нового HTTP сервера
func NewServer(
	cfg *config.Config,
	auth middleware.Authenticator,
	m *metrics.Metrics,
	handlers Handlers,
	logger *zap.Logger,
) *Server {
	app := fiber.New(fiber.Config{
		AppName:      "Shuttle Booking",
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
		ErrorHandler: customErrorHandler(logger),
	})

	s := &Server{
		app:      app,
		config:   cfg,
		auth:     auth,
		metrics:  m,
		handlers: handlers,
		logger:   logger,
	}

	s.setupMiddlewares()
	s.setupRoutes()

	return s
}

// setupMiddlewares - настройка middleware
func (s *Server) setupMiddlewares() {
	s.app.Use(middleware.Recovery(s.logger))
	s.app.Use(middleware.RequestID())
	s.app.Use(middleware.Logger(s.logger))
	s.app.Use(middleware.CORS(s.config.Server.CORSOrigins))
	s.app.Use(middleware.Metrics(s.metrics))
	s.app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))
	s.app.Use(middleware.Session(s.auth))
}

// setupRoutes - настройка маршрутов. Право доступа объявляется на маршруте
func (s *Server) setupRoutes() {
	h := s.handlers
	require := middleware.Require

	// Swagger documentation route
	s.app.Get("/swagger/*", fiberSwagger.WrapHandler)

	if s.metrics != nil {
		s.app.Get("/metrics", adaptor.HTTPHandler(s.metrics.Handler()))
	}

	api := s.app.Group("/api/v1")

	api.Get("/health", h.Health.Health)

	// Auth
	api.Post("/auth/login", h.Auth.Login)
	api.Post("/auth/register", h.Auth.Register)
	api.Post("/auth/logout", middleware.RequireSession(), h.Auth.Logout)
	api.Put("/users/me", require(domain.CapEditProfile), h.Auth.UpdateProfile)

	// Routes & stations
	api.Get("/routes", h.Route.ListRoutes)
	api.Get("/routes/partitions", h.Route.ListPartitions)
	api.Get("/routes/availability", h.Route.Availability)
	api.Put("/routes/details", require(domain.CapManageRoutes), h.Route.SaveDetails)
	api.Get("/routes/:id/seats", h.Route.SeatCount)
	api.Get("/stations", h.Route.ListStations)
	api.Get("/stations/nearest", h.Route.NearestStations)

	// Bookings
	api.Post("/bookings", require(domain.CapBook), h.Booking.Create)
	api.Post("/bookings/single", require(domain.CapBook), h.Booking.CreateOne)
	api.Get("/bookings", require(domain.CapViewAllBookings), h.Booking.ListAll)
	api.Get("/bookings/me", require(domain.CapViewOwnHistory), h.Booking.ListMine)
	api.Get("/bookings/me/active", require(domain.CapViewOwnHistory), h.Booking.Active)
	api.Get("/bookings/:id", require(domain.CapViewAllBookings), h.Booking.GetByID)
	api.Post("/bookings/:id/cancel", require(domain.CapCancelOwn), h.Booking.Cancel)
	api.Put("/bookings/:id/status", require(domain.CapCheckIn), h.Booking.UpdateStatus)
	api.Post("/bookings/:id/no-show", require(domain.CapMarkNoShow), h.Booking.NoShow)

	// Check-in
	api.Post("/checkin/scan", require(domain.CapCheckIn), h.CheckIn.Scan)

	// Reports
	api.Get("/reports/roster", require(domain.CapViewRoster), h.Report.Roster)
	api.Get("/reports/roster.pdf", require(domain.CapViewRoster), h.Report.RosterPDF)
	api.Get("/reports/daily", require(domain.CapExportReports), h.Report.Daily)
	api.Get("/reports/export.csv", require(domain.CapExportReports), h.Report.ExportCSV)

	// News
	api.Get("/news", h.News.Get)
	api.Put("/news", require(domain.CapManageNews), h.News.Save)
}

// App - fiber приложение, используется в тестах через app.Test
func (s *Server) App() *fiber.App {
	return s.app
}

// Start - запуск HTTP сервера
func (s *Server) Start() error {
	addr := s.config.GetServerAddr()
	s.logger.Info("Starting HTTP server", zap.String("address", addr))
	return s.app.Listen(addr)
}

// Shutdown - graceful shutdown HTTP сервера
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	return s.app.ShutdownWithContext(ctx)
}

// customErrorHandler - ошибки, не обработанные в хендлерах (404 маршрута, паника), в общем формате
func customErrorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		if fe, ok := err.(*fiber.Error); ok {
			if fe.Code >= fiber.StatusInternalServerError {
				logger.Error("HTTP Error", zap.String("path", c.Path()), zap.Error(err))
			}
			return utils.SendError(c, fe)
		}

		if _, ok := errors.As(err); ok {
			return utils.SendError(c, err)
		}

		logger.Error("HTTP Error",
			zap.String("path", c.Path()),
			zap.Error(err),
		)
		return utils.SendError(c, errors.ErrInternalServer)
	}
}
