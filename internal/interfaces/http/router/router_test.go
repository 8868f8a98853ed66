package router

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storefront/backend/internal/infrastructure/auth"
	"github.com/storefront/backend/internal/infrastructure/cache"
	"github.com/storefront/backend/internal/infrastructure/config"
	"github.com/storefront/backend/internal/interfaces/http/handler"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testJWTService(t *testing.T) *auth.JWTService {
	t.Helper()
	return auth.NewJWTService(config.JWTConfig{
		Secret:          "router-test-secret-key-0123456789",
		TokenExpiration: time.Hour,
		Issuer:          "storefront-test",
	})
}

// testRouter builds a fully routed engine. Handlers get nil services;
// the routes under test are rejected by middleware or request binding
// before any service is touched.
func testRouter(t *testing.T, jwtService *auth.JWTService, opts ...RouterOption) *gin.Engine {
	t.Helper()
	engine := gin.New()
	handlers := Handlers{
		System:   handler.NewSystemHandler(nil, nil),
		Auth:     handler.NewAuthHandler(nil),
		Account:  handler.NewAccountHandler(nil),
		Product:  handler.NewProductHandler(nil),
		Category: handler.NewCategoryHandler(nil),
		Cart:     handler.NewCartHandler(nil),
		Order:    handler.NewOrderHandler(nil, nil),
		Admin:    handler.NewAdminHandler(nil),
	}
	NewRouter(engine, jwtService, handlers, opts...).Setup()
	return engine
}

func TestRouter_CustomerRoutesRequireToken(t *testing.T) {
	engine := testRouter(t, testJWTService(t))

	for _, path := range []string{"/api/v1/account/me", "/api/v1/cart", "/api/v1/orders"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
		assert.Contains(t, w.Body.String(), "UNAUTHORIZED", path)
	}
}

func TestRouter_AdminRoutesRejectCustomerToken(t *testing.T) {
	jwtService := testJWTService(t)
	engine := testRouter(t, jwtService)

	token, err := jwtService.Generate(uuid.New(), "shopper@example.com", "customer")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/dashboard", nil)
	req.Header.Set("Authorization", "Bearer "+token.Value)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "FORBIDDEN")
}

func TestRouter_AuthEndpointsReachableAnonymously(t *testing.T) {
	engine := testRouter(t, testJWTService(t))

	// An empty body fails binding, proving the route is mounted and
	// not gated by the auth middleware.
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader("{}"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRouter_AuthRateLimitApplies(t *testing.T) {
	limiter := middleware.RateLimit(middleware.RateLimitConfig{
		Store:  cache.NewMemoryRateLimitStore(),
		Limit:  2,
		Window: time.Minute,
	})
	engine := testRouter(t, testJWTService(t), WithAuthRateLimit(limiter))

	var last *httptest.ResponseRecorder
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader("{}"))
		req.Header.Set("Content-Type", "application/json")
		req.RemoteAddr = "10.1.2.3:4567"
		last = httptest.NewRecorder()
		engine.ServeHTTP(last, req)
	}

	assert.Equal(t, http.StatusTooManyRequests, last.Code)
	assert.Contains(t, last.Body.String(), "RATE_LIMIT_EXCEEDED")
}

func TestRouter_APIVersionPrefix(t *testing.T) {
	engine := testRouter(t, testJWTService(t), WithAPIVersion("v2"))

	req := httptest.NewRequest(http.MethodGet, "/api/v2/account/me", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/account/me", nil)
	w = httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
