package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	catalogapp "github.com/storefront/backend/internal/application/catalog"
)

// ProductHandler handles product browsing and administration
type ProductHandler struct {
	BaseHandler
	productService *catalogapp.ProductService
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(productService *catalogapp.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

// RegisterPublicRoutes registers the shopper-facing product routes
func (h *ProductHandler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	products := rg.Group("/products")
	products.GET("", h.Browse)
	products.GET("/new-arrivals", h.NewArrivals)
	products.GET("/deals", h.Deals)
	products.GET("/category/:id", h.ByCategory)
	products.GET("/:id", h.Get)
}

// RegisterAdminRoutes registers the moderation routes; the group must
// already require an admin token
func (h *ProductHandler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	products := rg.Group("/products")
	products.GET("", h.AdminList)
	products.POST("", h.Create)
	products.GET("/:id", h.AdminGet)
	products.PUT("/:id", h.Update)
	products.POST("/:id/activate", h.Activate)
	products.POST("/:id/suspend", h.Suspend)
	products.POST("/:id/reactivate", h.Reactivate)
	products.POST("/:id/revoke", h.Revoke)
	products.POST("/:id/image-upload", h.RequestImageUpload)
	products.POST("/:id/image-confirm", h.ConfirmImage)
}

// Browse lists active products with filtering and pagination
func (h *ProductHandler) Browse(c *gin.Context) {
	var filter catalogapp.ProductListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	products, total, err := h.productService.Browse(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, products, total, filter.Page, filter.PageSize)
}

// NewArrivals lists the most recently activated products
func (h *ProductHandler) NewArrivals(c *gin.Context) {
	var filter catalogapp.ProductListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	products, err := h.productService.NewArrivals(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, products)
}

// Deals lists discounted products ordered by discount depth
func (h *ProductHandler) Deals(c *gin.Context) {
	var filter catalogapp.ProductListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	products, err := h.productService.Deals(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, products)
}

// Get returns a single active product
func (h *ProductHandler) Get(c *gin.Context) {
	productID, err := h.pathID(c)
	if err != nil {
		h.BadRequest(c, "invalid product id")
		return
	}

	product, err := h.productService.GetForShopper(c.Request.Context(), productID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, product)
}

// ByCategory lists active products within one category
func (h *ProductHandler) ByCategory(c *gin.Context) {
	categoryID, err := h.pathID(c)
	if err != nil {
		h.BadRequest(c, "invalid category id")
		return
	}

	var filter catalogapp.ProductListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	products, total, err := h.productService.BrowseByCategory(c.Request.Context(), categoryID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, products, total, filter.Page, filter.PageSize)
}

// AdminList lists products in any status
func (h *ProductHandler) AdminList(c *gin.Context) {
	var filter catalogapp.ProductListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	products, total, err := h.productService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, products, total, filter.Page, filter.PageSize)
}

// AdminGet returns a product regardless of status
func (h *ProductHandler) AdminGet(c *gin.Context) {
	productID, err := h.pathID(c)
	if err != nil {
		h.BadRequest(c, "invalid product id")
		return
	}

	product, err := h.productService.GetByID(c.Request.Context(), productID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, product)
}

// Create adds a new product in draft status
func (h *ProductHandler) Create(c *gin.Context) {
	var req catalogapp.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	product, err := h.productService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, product)
}

// Update modifies a product's details
func (h *ProductHandler) Update(c *gin.Context) {
	productID, err := h.pathID(c)
	if err != nil {
		h.BadRequest(c, "invalid product id")
		return
	}

	var req catalogapp.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	product, err := h.productService.Update(c.Request.Context(), productID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, product)
}

// Activate publishes a product to the storefront
func (h *ProductHandler) Activate(c *gin.Context) {
	h.transition(c, h.productService.Activate)
}

// Suspend temporarily hides a product
func (h *ProductHandler) Suspend(c *gin.Context) {
	h.transition(c, h.productService.Suspend)
}

// Reactivate restores a suspended product
func (h *ProductHandler) Reactivate(c *gin.Context) {
	h.transition(c, h.productService.Reactivate)
}

// Revoke permanently withdraws a product
func (h *ProductHandler) Revoke(c *gin.Context) {
	h.transition(c, h.productService.Revoke)
}

// RequestImageUpload returns a presigned URL for a product image
func (h *ProductHandler) RequestImageUpload(c *gin.Context) {
	productID, err := h.pathID(c)
	if err != nil {
		h.BadRequest(c, "invalid product id")
		return
	}

	var req catalogapp.ImageUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.productService.RequestImageUpload(c.Request.Context(), productID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

// ConfirmImage attaches an uploaded image to the product
func (h *ProductHandler) ConfirmImage(c *gin.Context) {
	productID, err := h.pathID(c)
	if err != nil {
		h.BadRequest(c, "invalid product id")
		return
	}

	var req struct {
		StorageKey string `json:"storage_key" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	product, err := h.productService.ConfirmImage(c.Request.Context(), productID, req.StorageKey)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, product)
}

func (h *ProductHandler) transition(c *gin.Context, fn func(ctx context.Context, id uuid.UUID) (*catalogapp.ProductResponse, error)) {
	productID, err := h.pathID(c)
	if err != nil {
		h.BadRequest(c, "invalid product id")
		return
	}

	product, err := fn(c.Request.Context(), productID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, product)
}
