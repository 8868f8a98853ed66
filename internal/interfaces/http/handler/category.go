package handler

import (
	"github.com/gin-gonic/gin"

	catalogapp "github.com/storefront/backend/internal/application/catalog"
	"github.com/storefront/backend/internal/domain/shared"
)

// CategoryHandler handles category browsing and administration
type CategoryHandler struct {
	BaseHandler
	categoryService *catalogapp.CategoryService
}

// NewCategoryHandler creates a new CategoryHandler
func NewCategoryHandler(categoryService *catalogapp.CategoryService) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService}
}

// RegisterPublicRoutes registers the shopper-facing category routes
func (h *CategoryHandler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	categories := rg.Group("/categories")
	categories.GET("", h.ListActive)
}

// RegisterAdminRoutes registers the category management routes
func (h *CategoryHandler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	categories := rg.Group("/categories")
	categories.GET("", h.List)
	categories.POST("", h.Create)
	categories.GET("/:id", h.Get)
	categories.PUT("/:id", h.Update)
	categories.POST("/:id/activate", h.Activate)
	categories.POST("/:id/deactivate", h.Deactivate)
	categories.DELETE("/:id", h.Delete)
}

// ListActive lists the categories visible to shoppers
func (h *CategoryHandler) ListActive(c *gin.Context) {
	categories, err := h.categoryService.ListActive(c.Request.Context())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, categories)
}

// List lists all categories including inactive ones
func (h *CategoryHandler) List(c *gin.Context) {
	var query struct {
		Search   string `form:"search"`
		Page     int    `form:"page" binding:"omitempty,min=1"`
		PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	filter := shared.DefaultFilter()
	filter.Search = query.Search
	if query.Page > 0 {
		filter.Page = query.Page
	}
	if query.PageSize > 0 {
		filter.PageSize = query.PageSize
	}

	categories, err := h.categoryService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, categories)
}

// Get returns a single category
func (h *CategoryHandler) Get(c *gin.Context) {
	categoryID, err := h.pathID(c)
	if err != nil {
		h.BadRequest(c, "invalid category id")
		return
	}

	category, err := h.categoryService.GetByID(c.Request.Context(), categoryID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, category)
}

// Create adds a new category
func (h *CategoryHandler) Create(c *gin.Context) {
	var req catalogapp.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	category, err := h.categoryService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, category)
}

// Update modifies a category
func (h *CategoryHandler) Update(c *gin.Context) {
	categoryID, err := h.pathID(c)
	if err != nil {
		h.BadRequest(c, "invalid category id")
		return
	}

	var req catalogapp.UpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	category, err := h.categoryService.Update(c.Request.Context(), categoryID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, category)
}

// Activate makes a category visible to shoppers
func (h *CategoryHandler) Activate(c *gin.Context) {
	categoryID, err := h.pathID(c)
	if err != nil {
		h.BadRequest(c, "invalid category id")
		return
	}

	category, err := h.categoryService.Activate(c.Request.Context(), categoryID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, category)
}

// Deactivate hides a category from shoppers
func (h *CategoryHandler) Deactivate(c *gin.Context) {
	categoryID, err := h.pathID(c)
	if err != nil {
		h.BadRequest(c, "invalid category id")
		return
	}

	category, err := h.categoryService.Deactivate(c.Request.Context(), categoryID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, category)
}

// Delete removes a category that has no products
func (h *CategoryHandler) Delete(c *gin.Context) {
	categoryID, err := h.pathID(c)
	if err != nil {
		h.BadRequest(c, "invalid category id")
		return
	}

	if err := h.categoryService.Delete(c.Request.Context(), categoryID); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}
