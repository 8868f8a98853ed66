package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	cartapp "github.com/storefront/backend/internal/application/cart"
)

// CartHandler handles the authenticated user's shopping cart
type CartHandler struct {
	BaseHandler
	cartService *cartapp.Service
}

// NewCartHandler creates a new CartHandler
func NewCartHandler(cartService *cartapp.Service) *CartHandler {
	return &CartHandler{cartService: cartService}
}

// RegisterRoutes registers the cart routes; the group must already
// require authentication
func (h *CartHandler) RegisterRoutes(rg *gin.RouterGroup) {
	cart := rg.Group("/cart")
	cart.GET("", h.Get)
	cart.POST("/items", h.AddItem)
	cart.PUT("/items/:productId", h.UpdateItem)
	cart.DELETE("/items/:productId", h.RemoveItem)
	cart.DELETE("", h.Clear)
}

// Get returns the current cart with live prices
func (h *CartHandler) Get(c *gin.Context) {
	userID, err := h.getUserID(c)
	if err != nil {
		h.Unauthorized(c, err.Error())
		return
	}

	result, err := h.cartService.Get(c.Request.Context(), userID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

// AddItem adds a product to the cart, merging with any existing line
func (h *CartHandler) AddItem(c *gin.Context) {
	userID, err := h.getUserID(c)
	if err != nil {
		h.Unauthorized(c, err.Error())
		return
	}

	var req cartapp.AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.cartService.AddItem(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

// UpdateItem sets a line's quantity; zero removes the line
func (h *CartHandler) UpdateItem(c *gin.Context) {
	userID, err := h.getUserID(c)
	if err != nil {
		h.Unauthorized(c, err.Error())
		return
	}

	productID, err := uuid.Parse(c.Param("productId"))
	if err != nil {
		h.BadRequest(c, "invalid product id")
		return
	}

	var req cartapp.UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.cartService.UpdateItem(c.Request.Context(), userID, productID, req.Quantity)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

// RemoveItem deletes a line from the cart
func (h *CartHandler) RemoveItem(c *gin.Context) {
	userID, err := h.getUserID(c)
	if err != nil {
		h.Unauthorized(c, err.Error())
		return
	}

	productID, err := uuid.Parse(c.Param("productId"))
	if err != nil {
		h.BadRequest(c, "invalid product id")
		return
	}

	result, err := h.cartService.RemoveItem(c.Request.Context(), userID, productID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

// Clear empties the cart
func (h *CartHandler) Clear(c *gin.Context) {
	userID, err := h.getUserID(c)
	if err != nil {
		h.Unauthorized(c, err.Error())
		return
	}

	result, err := h.cartService.Clear(c.Request.Context(), userID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}
