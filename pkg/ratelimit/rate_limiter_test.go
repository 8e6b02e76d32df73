package ratelimit

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(enabled bool) *Config {
	return &Config{
		Enabled:           enabled,
		WindowDuration:    time.Minute,
		DefaultRequests:   60,
		PublicRequests:    100,
		AuthRequests:      10,
		BookingRequests:   20,
		CheckoutRequests:  5,
		AdminRequests:     200,
		DashboardRequests: 30,
		HealthRequests:    300,
		WhitelistedIPs:    []string{"10.0.0.1"},
	}
}

func TestGetRateLimitType(t *testing.T) {
	tests := []struct {
		method string
		path   string
		want   RateLimitType
	}{
		{http.MethodGet, "/health", RateLimitTypeHealth},
		{http.MethodGet, "/api/v1/admin/dashboard/overview", RateLimitTypeDashboard},
		{http.MethodPost, "/api/v1/admin/bookings/:id/confirm", RateLimitTypeAdmin},
		{http.MethodPost, "/api/v1/auth/login", RateLimitTypeAuth},
		{http.MethodPost, "/api/v1/bookings", RateLimitTypeCheckout},
		{http.MethodPost, "/api/v1/bookings/quote", RateLimitTypeBooking},
		{http.MethodGet, "/api/v1/bookings/lookup", RateLimitTypeBooking},
		{http.MethodGet, "/api/v1/tours/:slug", RateLimitTypePublic},
		{http.MethodGet, "/api/v1/categories", RateLimitTypePublic},
		{http.MethodGet, "/swagger/*any", RateLimitTypeDefault},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, getRateLimitType(tt.method, tt.path))
		})
	}
}

func TestIsAllowedBypass(t *testing.T) {
	// Disabled limiter never touches Redis
	limiter := NewRateLimiter(nil, testConfig(false))
	result, err := limiter.IsAllowed(context.Background(), "192.0.2.10", RateLimitTypeCheckout)
	require.NoError(t, err)
	assert.True(t, result.Allowed)
	assert.Equal(t, 5, result.Limit)

	limiter = NewRateLimiter(nil, testConfig(true))
	assert.True(t, limiter.isWhitelisted("10.0.0.1"))
	assert.False(t, limiter.isWhitelisted("10.0.0.2"))

	result, err = limiter.IsAllowed(context.Background(), "10.0.0.1", RateLimitTypeAuth)
	require.NoError(t, err)
	assert.True(t, result.Allowed)
	assert.Equal(t, 10, result.Remaining)
}

func TestMiddlewareSetsHeaders(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(Middleware(NewRateLimiter(nil, testConfig(false))))
	router.GET("/api/v1/tours", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/tours", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "100", w.Header().Get("X-RateLimit-Limit"))
	assert.NotEmpty(t, w.Header().Get("X-RateLimit-Reset"))
}

func TestGetClientIP(t *testing.T) {
	gin.SetMode(gin.TestMode)

	newCtx := func(headers map[string]string) *gin.Context {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
		c.Request.RemoteAddr = "198.51.100.7:5555"
		for k, v := range headers {
			c.Request.Header.Set(k, v)
		}
		return c
	}

	assert.Equal(t, "203.0.113.5", getClientIP(newCtx(map[string]string{"X-Forwarded-For": "203.0.113.5, 10.0.0.1"})))
	assert.Equal(t, "203.0.113.9", getClientIP(newCtx(map[string]string{"X-Real-IP": "203.0.113.9"})))
	assert.Equal(t, "198.51.100.7", getClientIP(newCtx(nil)))
}
