package routes

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"tourdesk/internal/bookings"
	"tourdesk/internal/shared/config"
	"tourdesk/internal/shared/database"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine(t *testing.T) (*gin.Engine, *Router) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := config.Load()
	router := NewRouter(cfg, &database.DB{}, nil)
	engine := gin.New()
	router.SetupRoutes(engine)
	return engine, router
}

func TestSetupRoutesRegistersEveryGroup(t *testing.T) {
	engine, router := newTestEngine(t)
	require.NotNil(t, router.BookingService())

	registered := make(map[string]bool)
	for _, r := range engine.Routes() {
		registered[r.Method+" "+r.Path] = true
	}

	for _, route := range []string{
		"GET /health",
		"GET /swagger/*any",
		"POST /api/v1/auth/login",
		"GET /api/v1/categories",
		"GET /api/v1/tours",
		"GET /api/v1/tours/:slug",
		"PUT /api/v1/admin/tours/:id/option-order",
		"POST /api/v1/bookings",
		"POST /api/v1/bookings/quote",
		"GET /api/v1/bookings/lookup",
		"PATCH /api/v1/admin/bookings/:id/status",
		"POST /api/v1/admin/bookings/:id/refund",
		"GET /api/v1/admin/dashboard/overview",
		"GET /api/v1/admin/dashboard/calendar",
		"POST /api/v1/admin/email-templates/:id/preview",
	} {
		assert.True(t, registered[route], "missing route %s", route)
	}
}

func TestPingAndAdminGuard(t *testing.T) {
	engine, _ := newTestEngine(t)

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "pong")

	w = httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/admin/bookings", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestStatusReportsBookingJobs(t *testing.T) {
	engine, router := newTestEngine(t)

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/status", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "booking_completion")

	jobs := bookings.NewJobProcessor(router.BookingService(), &bookings.JobConfig{CompletionInterval: 30 * time.Minute})
	router.SetJobs(jobs)

	var body struct {
		Jobs struct {
			BookingCompletion map[string]interface{} `json:"booking_completion"`
		} `json:"jobs"`
	}

	w = httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/status", nil))
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "running", body.Jobs.BookingCompletion["status"])
	assert.Equal(t, "30m0s", body.Jobs.BookingCompletion["completion_interval"])

	jobs.Stop()
	w = httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/status", nil))
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "stopped", body.Jobs.BookingCompletion["status"])
}
