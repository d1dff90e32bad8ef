package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/shuttle-booking/internal/config"
	httpDelivery "github.com/shuttle-booking/internal/delivery/http"
	"github.com/shuttle-booking/internal/delivery/http/handler"
	"github.com/shuttle-booking/internal/domain"
	apperrors "github.com/shuttle-booking/internal/pkg/errors"
	"github.com/shuttle-booking/internal/pkg/metrics"
	"github.com/shuttle-booking/internal/usecase/dto"
)

type fakeAuthenticator map[string]*domain.Session

func (f fakeAuthenticator) Authenticate(_ context.Context, token string) (*domain.Session, error) {
	if s, ok := f[token]; ok {
		return s, nil
	}
	return nil, apperrors.ErrUnauthorized
}

type fakeHealth struct{ err error }

func (f fakeHealth) Health(context.Context) error { return f.err }

type testEnv struct {
	server   *httpDelivery.Server
	bookings *MockBookingService
	checkIns *MockCheckInService
	reports  *MockReportService
	rider    *domain.Session
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		bookings: &MockBookingService{},
		checkIns: &MockCheckInService{},
		reports:  &MockReportService{},
		rider:    &domain.Session{UserID: uuid.New(), Name: "Malee", Role: domain.RoleRider},
	}

	auth := fakeAuthenticator{
		"rider":  env.rider,
		"driver": {UserID: uuid.New(), Name: "Driver", Role: domain.RoleDriver},
		"admin":  {UserID: uuid.New(), Name: "Administrator", Role: domain.RoleAdmin},
	}

	log := zap.NewNop()
	cfg := &config.Config{Server: config.ServerConfig{CORSOrigins: "*"}}

	env.server = httpDelivery.NewServer(cfg, auth, metrics.New(), httpDelivery.Handlers{
		Auth:    handler.NewAuthHandler(&MockAuthService{}, log),
		Route:   handler.NewRouteHandler(&MockCatalogService{}, env.bookings, log),
		Booking: handler.NewBookingHandler(env.bookings, env.checkIns, log),
		CheckIn: handler.NewCheckInHandler(env.checkIns, log),
		Report:  handler.NewReportHandler(env.reports, log),
		News:    handler.NewNewsHandler(&MockNewsService{}, log),
		Health: handler.NewHealthHandler(map[string]handler.HealthChecker{
			"postgres": fakeHealth{},
			"redis":    fakeHealth{},
		}, log),
	}, log)

	return env
}

func (env *testEnv) do(t *testing.T, method, path, token string, body interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := env.server.App().Test(req, -1)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var out map[string]interface{}
	if len(raw) > 0 && strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(raw, &out))
	}
	return resp, out
}

func errorCode(body map[string]interface{}) string {
	e, _ := body["error"].(map[string]interface{})
	code, _ := e["code"].(string)
	return code
}

func TestServer_Health(t *testing.T) {
	env := newTestEnv(t)

	resp, body := env.do(t, http.MethodGet, "/api/v1/health", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "healthy", body["status"])
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
}

func TestServer_CapabilityTable(t *testing.T) {
	env := newTestEnv(t)

	t.Run("rider cannot check in", func(t *testing.T) {
		resp, body := env.do(t, http.MethodPost, "/api/v1/checkin/scan", "rider", dto.CheckInRequest{Code: "AB12CD34E"})
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
		assert.Equal(t, "FORBIDDEN", errorCode(body))
	})

	t.Run("driver cannot book", func(t *testing.T) {
		resp, body := env.do(t, http.MethodPost, "/api/v1/bookings", "driver", dto.CreateBookingRequest{
			RouteID: "m1", StationID: "s1", Dates: []string{"2024-03-15"},
		})
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
		assert.Equal(t, "FORBIDDEN", errorCode(body))
	})

	t.Run("anonymous history", func(t *testing.T) {
		resp, body := env.do(t, http.MethodGet, "/api/v1/bookings/me", "", nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		assert.Equal(t, "UNAUTHORIZED", errorCode(body))
	})

	t.Run("unknown token", func(t *testing.T) {
		resp, _ := env.do(t, http.MethodGet, "/api/v1/bookings/me", "stolen", nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	env.bookings.AssertNotCalled(t, "AttemptBatch", mock.Anything, mock.Anything, mock.Anything)
	env.checkIns.AssertNotCalled(t, "CheckIn", mock.Anything, mock.Anything, mock.Anything)
}

func TestServer_CreateBooking(t *testing.T) {
	t.Run("created dates answer 201", func(t *testing.T) {
		env := newTestEnv(t)
		req := dto.CreateBookingRequest{RouteID: "m1", StationID: "s1", Dates: []string{"2024-03-15"}}

		env.bookings.On("AttemptBatch", mock.Anything, env.rider, req).Return(&dto.BatchBookingResult{
			Created:    []domain.Booking{{ID: "AB12CD34E", RouteID: "m1", Status: domain.StatusWaiting}},
			Duplicates: []string{},
			Full:       []string{},
			Failed:     []dto.FailedDate{},
		}, nil)

		resp, body := env.do(t, http.MethodPost, "/api/v1/bookings", "rider", req)
		assert.Equal(t, http.StatusCreated, resp.StatusCode)

		data := body["data"].(map[string]interface{})
		assert.Len(t, data["created"], 1)
	})

	t.Run("only duplicates answer 200", func(t *testing.T) {
		env := newTestEnv(t)
		req := dto.CreateBookingRequest{RouteID: "m1", StationID: "s1", Dates: []string{"2024-03-15"}}

		env.bookings.On("AttemptBatch", mock.Anything, env.rider, req).Return(&dto.BatchBookingResult{
			Created:    []domain.Booking{},
			Duplicates: []string{"2024-03-15"},
			Full:       []string{},
			Failed:     []dto.FailedDate{},
		}, nil)

		resp, body := env.do(t, http.MethodPost, "/api/v1/bookings", "rider", req)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		data := body["data"].(map[string]interface{})
		assert.Empty(t, data["created"])
		assert.Equal(t, []interface{}{"2024-03-15"}, data["duplicates"])
	})

	t.Run("bad date is rejected before the use case", func(t *testing.T) {
		env := newTestEnv(t)

		resp, body := env.do(t, http.MethodPost, "/api/v1/bookings", "rider", dto.CreateBookingRequest{
			RouteID: "m1", StationID: "s1", Dates: []string{"15/03/2024"},
		})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "VALIDATION_ERROR", errorCode(body))
		env.bookings.AssertNotCalled(t, "AttemptBatch", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestServer_CreateSingleBooking(t *testing.T) {
	req := dto.CreateBookingRequest{RouteID: "m1", StationID: "s1", Dates: []string{"2024-03-15"}}

	t.Run("booked seat answers 201", func(t *testing.T) {
		env := newTestEnv(t)
		env.bookings.On("AttemptBooking", mock.Anything, env.rider, req).
			Return(&domain.Booking{ID: "AB12CD34E", RouteID: "m1", Status: domain.StatusWaiting}, nil)

		resp, body := env.do(t, http.MethodPost, "/api/v1/bookings/single", "rider", req)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		assert.Equal(t, "AB12CD34E", body["data"].(map[string]interface{})["id"])
	})

	t.Run("full route is a conflict", func(t *testing.T) {
		env := newTestEnv(t)
		env.bookings.On("AttemptBooking", mock.Anything, env.rider, req).Return(nil, apperrors.ErrRouteFull)

		resp, body := env.do(t, http.MethodPost, "/api/v1/bookings/single", "rider", req)
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
		assert.Equal(t, "ROUTE_FULL", errorCode(body))
	})

	t.Run("driver cannot book", func(t *testing.T) {
		env := newTestEnv(t)
		resp, _ := env.do(t, http.MethodPost, "/api/v1/bookings/single", "driver", req)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})
}

func TestServer_DegradedHistory(t *testing.T) {
	env := newTestEnv(t)
	env.bookings.On("ListMine", mock.Anything, env.rider).Return(dto.BookingList{Bookings: []domain.Booking{}, Degraded: true})

	resp, body := env.do(t, http.MethodGet, "/api/v1/bookings/me", "rider", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, body["data"])
	assert.Equal(t, true, body["meta"].(map[string]interface{})["degraded"])
}

func TestServer_Scan(t *testing.T) {
	env := newTestEnv(t)
	scope := domain.CheckInScope{RouteID: "e1", Day: time.Now()}

	env.checkIns.On("Scope", mock.Anything, "e1", "").Return(scope, nil)
	env.checkIns.On("CheckIn", mock.Anything, "AB12CD34E", scope).Return(&domain.CheckInResult{
		Outcome: domain.OutcomeNotFound,
		Code:    "AB12CD34E",
		Message: "Passenger not found",
	}, nil)

	resp, body := env.do(t, http.MethodPost, "/api/v1/checkin/scan", "driver", dto.CheckInRequest{Code: "AB12CD34E", RouteID: "e1"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	data := body["data"].(map[string]interface{})
	assert.Equal(t, "not_found", data["outcome"])
	assert.Equal(t, "Passenger not found", data["message"])
}

func TestServer_ScanAnyPayloadReachesCheckIn(t *testing.T) {
	for _, code := range []string{"HELLO-WORLD", "ab12cd34e"} {
		t.Run(code, func(t *testing.T) {
			env := newTestEnv(t)
			scope := domain.CheckInScope{RouteID: "m1", Day: time.Now()}

			env.checkIns.On("Scope", mock.Anything, "m1", "").Return(scope, nil)
			env.checkIns.On("CheckIn", mock.Anything, code, scope).Return(&domain.CheckInResult{
				Outcome: domain.OutcomeNotFound,
				Code:    strings.ToUpper(code),
				Message: "Passenger not found",
			}, nil)

			resp, body := env.do(t, http.MethodPost, "/api/v1/checkin/scan", "driver", dto.CheckInRequest{Code: code, RouteID: "m1"})
			require.Equal(t, http.StatusOK, resp.StatusCode)
			assert.Equal(t, "not_found", body["data"].(map[string]interface{})["outcome"])
			env.checkIns.AssertCalled(t, "CheckIn", mock.Anything, code, scope)
		})
	}

	env := newTestEnv(t)
	resp, body := env.do(t, http.MethodPost, "/api/v1/checkin/scan", "driver", dto.CheckInRequest{RouteID: "m1"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION_ERROR", errorCode(body))
}

func TestServer_ExportCSV(t *testing.T) {
	env := newTestEnv(t)
	csv := []byte("\xEF\xBB\xBFID,Name,Route,Station,Status,Timestamp\n")
	env.reports.On("ExportCSV", mock.Anything, "2024-03-15", domain.LanguageTH).Return(csv, nil)

	resp, _ := env.do(t, http.MethodGet, "/api/v1/reports/export.csv?date=2024-03-15&lang=th", "admin", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/csv")
	assert.Equal(t, `attachment; filename="bookings-2024-03-15.csv"`, resp.Header.Get("Content-Disposition"))

	resp, _ = env.do(t, http.MethodGet, "/api/v1/reports/export.csv", "driver", nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestServer_Metrics(t *testing.T) {
	env := newTestEnv(t)
	env.do(t, http.MethodGet, "/api/v1/health", "", nil)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	resp, err := env.server.App().Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `shuttle_http_requests_total{method="GET",route="/api/v1/health",status="200"}`)
}

func TestServer_UnknownRoute(t *testing.T) {
	env := newTestEnv(t)

	resp, body := env.do(t, http.MethodGet, "/api/v1/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "HTTP_ERROR", errorCode(body))
}
