package router

import (
	"github.com/gin-gonic/gin"

	"github.com/storefront/backend/internal/infrastructure/auth"
	"github.com/storefront/backend/internal/interfaces/http/handler"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
)

// Handlers bundles every HTTP handler the API mounts
type Handlers struct {
	System   *handler.SystemHandler
	Auth     *handler.AuthHandler
	Account  *handler.AccountHandler
	Product  *handler.ProductHandler
	Category *handler.CategoryHandler
	Cart     *handler.CartHandler
	Order    *handler.OrderHandler
	Admin    *handler.AdminHandler
}

// Router wires handlers and middleware onto a gin engine
type Router struct {
	engine        *gin.Engine
	apiVersion    string
	jwtService    *auth.JWTService
	handlers      Handlers
	authRateLimit gin.HandlerFunc
}

// RouterOption is a functional option for Router configuration
type RouterOption func(*Router)

// WithAPIVersion sets the API version prefix (e.g. "v1", "v2")
func WithAPIVersion(version string) RouterOption {
	return func(r *Router) {
		r.apiVersion = version
	}
}

// WithAuthRateLimit throttles the anonymous auth endpoints
func WithAuthRateLimit(limiter gin.HandlerFunc) RouterOption {
	return func(r *Router) {
		r.authRateLimit = limiter
	}
}

// NewRouter creates a new Router instance
func NewRouter(engine *gin.Engine, jwtService *auth.JWTService, handlers Handlers, opts ...RouterOption) *Router {
	r := &Router{
		engine:     engine,
		apiVersion: "v1",
		jwtService: jwtService,
		handlers:   handlers,
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Setup mounts all routes onto the engine.
//
// The API splits into three surfaces: anonymous routes (auth, catalog
// browsing, health), customer routes behind a bearer token, and admin
// routes behind the token plus a role check under /admin.
func (r *Router) Setup() {
	api := r.engine.Group("/api/" + r.apiVersion)

	r.handlers.System.RegisterRoutes(api)

	public := api.Group("")
	if r.authRateLimit != nil {
		public.Use(r.authRateLimit)
	}
	r.handlers.Auth.RegisterRoutes(public)

	r.handlers.Product.RegisterPublicRoutes(api)
	r.handlers.Category.RegisterPublicRoutes(api)

	authed := api.Group("")
	authed.Use(middleware.RequireAuth(r.jwtService))
	r.handlers.Account.RegisterRoutes(authed)
	r.handlers.Cart.RegisterRoutes(authed)
	r.handlers.Order.RegisterRoutes(authed)

	admin := api.Group("/admin")
	admin.Use(middleware.RequireAuth(r.jwtService), middleware.RequireAdmin())
	r.handlers.Product.RegisterAdminRoutes(admin)
	r.handlers.Category.RegisterAdminRoutes(admin)
	r.handlers.Order.RegisterAdminRoutes(admin)
	r.handlers.Admin.RegisterRoutes(admin)
}
