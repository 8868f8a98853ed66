package handler

import (
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/storefront/backend/internal/interfaces/http/dto"
)

// SystemHandler handles health and system information endpoints
type SystemHandler struct {
	BaseHandler
	startTime time.Time
	db        *gorm.DB
	redis     *redis.Client
}

// NewSystemHandler creates a new SystemHandler; redis may be nil when
// caching is disabled
func NewSystemHandler(db *gorm.DB, redisClient *redis.Client) *SystemHandler {
	return &SystemHandler{
		startTime: time.Now(),
		db:        db,
		redis:     redisClient,
	}
}

// RegisterRoutes registers the system routes
func (h *SystemHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/health", h.Health)
	rg.GET("/system/info", h.Info)
}

// HealthResponse reports the status of the service and its dependencies
type HealthResponse struct {
	Status     string            `json:"status"`
	Components map[string]string `json:"components"`
	Timestamp  string            `json:"timestamp"`
}

// Health reports whether the service and its backing stores are reachable
func (h *SystemHandler) Health(c *gin.Context) {
	components := map[string]string{}
	healthy := true

	if sqlDB, err := h.db.DB(); err != nil {
		components["database"] = "error: " + err.Error()
		healthy = false
	} else if err := sqlDB.PingContext(c.Request.Context()); err != nil {
		components["database"] = "error: " + err.Error()
		healthy = false
	} else {
		components["database"] = "ok"
	}

	if h.redis != nil {
		if err := h.redis.Ping(c.Request.Context()).Err(); err != nil {
			components["redis"] = "error: " + err.Error()
			healthy = false
		} else {
			components["redis"] = "ok"
		}
	}

	response := HealthResponse{
		Status:     "ok",
		Components: components,
		Timestamp:  time.Now().Format(time.RFC3339),
	}

	status := http.StatusOK
	if !healthy {
		response.Status = "degraded"
		status = http.StatusServiceUnavailable
	}

	c.JSON(status, dto.NewSuccessResponse(response))
}

// InfoResponse carries basic build and runtime information
type InfoResponse struct {
	Name      string `json:"name"`
	Version   string `json:"version"`
	GoVersion string `json:"go_version"`
	Uptime    string `json:"uptime"`
}

// Info returns basic service information
func (h *SystemHandler) Info(c *gin.Context) {
	info := InfoResponse{
		Name:      "Storefront API",
		Version:   "1.0.0",
		GoVersion: runtime.Version(),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
	}

	c.JSON(http.StatusOK, dto.NewSuccessResponse(info))
}
