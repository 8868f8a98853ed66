package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	adminapp "github.com/storefront/backend/internal/application/admin"
	identityapp "github.com/storefront/backend/internal/application/identity"
)

// AdminHandler handles reporting and user management endpoints
type AdminHandler struct {
	BaseHandler
	adminService *adminapp.Service
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(adminService *adminapp.Service) *AdminHandler {
	return &AdminHandler{adminService: adminService}
}

// RegisterRoutes registers the admin reporting and user routes; the
// group must already require an admin token
func (h *AdminHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/dashboard", h.Dashboard)
	rg.GET("/reports/revenue", h.RevenueByDay)
	rg.GET("/reports/restock", h.RestockReport)

	users := rg.Group("/users")
	users.GET("", h.ListUsers)
	users.POST("/:id/deactivate", h.DeactivateUser)
	users.POST("/:id/activate", h.ActivateUser)
}

// Dashboard returns aggregate store statistics
func (h *AdminHandler) Dashboard(c *gin.Context) {
	result, err := h.adminService.Dashboard(c.Request.Context())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

// RevenueByDay returns daily revenue for the trailing window
func (h *AdminHandler) RevenueByDay(c *gin.Context) {
	days, err := strconv.Atoi(c.DefaultQuery("days", "30"))
	if err != nil || days < 1 || days > 365 {
		h.BadRequest(c, "days must be between 1 and 365")
		return
	}

	result, err := h.adminService.RevenueByDay(c.Request.Context(), days)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

// RestockReport lists products below their minimum stock level
func (h *AdminHandler) RestockReport(c *gin.Context) {
	result, err := h.adminService.RestockReport(c.Request.Context())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

// ListUsers lists accounts with filtering
func (h *AdminHandler) ListUsers(c *gin.Context) {
	var filter identityapp.UserListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	page, err := h.adminService.ListUsers(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// DeactivateUser disables an account
func (h *AdminHandler) DeactivateUser(c *gin.Context) {
	userID, err := h.pathID(c)
	if err != nil {
		h.BadRequest(c, "invalid user id")
		return
	}

	user, err := h.adminService.DeactivateUser(c.Request.Context(), userID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, user)
}

// ActivateUser restores a disabled account
func (h *AdminHandler) ActivateUser(c *gin.Context) {
	userID, err := h.pathID(c)
	if err != nil {
		h.BadRequest(c, "invalid user id")
		return
	}

	user, err := h.adminService.ActivateUser(c.Request.Context(), userID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, user)
}
