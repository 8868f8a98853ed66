package handler

import (
	"github.com/gin-gonic/gin"

	orderapp "github.com/storefront/backend/internal/application/order"
	paymentapp "github.com/storefront/backend/internal/application/payment"
)

// OrderHandler handles checkout and order lifecycle endpoints
type OrderHandler struct {
	BaseHandler
	orderService   *orderapp.Service
	paymentService *paymentapp.Service
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orderService *orderapp.Service, paymentService *paymentapp.Service) *OrderHandler {
	return &OrderHandler{orderService: orderService, paymentService: paymentService}
}

// RegisterRoutes registers the customer order routes; the group must
// already require authentication
func (h *OrderHandler) RegisterRoutes(rg *gin.RouterGroup) {
	orders := rg.Group("/orders")
	orders.POST("/checkout", h.Checkout)
	orders.GET("", h.ListMine)
	orders.GET("/:id", h.Get)
	orders.GET("/number/:number", h.GetByNumber)
	orders.POST("/:id/pay", h.Pay)
	orders.GET("/:id/payment", h.PaymentStatus)
	orders.POST("/:id/cancel", h.Cancel)
	orders.POST("/:id/refund", h.Refund)
}

// RegisterAdminRoutes registers the order management routes
func (h *OrderHandler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	orders := rg.Group("/orders")
	orders.GET("", h.AdminList)
	orders.GET("/:id", h.AdminGet)
	orders.PUT("/:id/status", h.UpdateStatus)
}

// Checkout converts the cart into a pending order
func (h *OrderHandler) Checkout(c *gin.Context) {
	userID, err := h.getUserID(c)
	if err != nil {
		h.Unauthorized(c, err.Error())
		return
	}

	var req orderapp.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.orderService.Checkout(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, result)
}

// ListMine lists the current user's orders
func (h *OrderHandler) ListMine(c *gin.Context) {
	userID, err := h.getUserID(c)
	if err != nil {
		h.Unauthorized(c, err.Error())
		return
	}

	var filter orderapp.ListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	page, err := h.orderService.ListMine(c.Request.Context(), userID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// Get returns one of the current user's orders
func (h *OrderHandler) Get(c *gin.Context) {
	userID, err := h.getUserID(c)
	if err != nil {
		h.Unauthorized(c, err.Error())
		return
	}

	orderID, err := h.pathID(c)
	if err != nil {
		h.BadRequest(c, "invalid order id")
		return
	}

	result, err := h.orderService.Get(c.Request.Context(), userID, orderID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

// GetByNumber looks up one of the current user's orders by its number
func (h *OrderHandler) GetByNumber(c *gin.Context) {
	userID, err := h.getUserID(c)
	if err != nil {
		h.Unauthorized(c, err.Error())
		return
	}

	result, err := h.orderService.GetByNumber(c.Request.Context(), userID, c.Param("number"))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

// Pay charges a pending order through the configured gateway
func (h *OrderHandler) Pay(c *gin.Context) {
	userID, err := h.getUserID(c)
	if err != nil {
		h.Unauthorized(c, err.Error())
		return
	}

	orderID, err := h.pathID(c)
	if err != nil {
		h.BadRequest(c, "invalid order id")
		return
	}

	var req paymentapp.PayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.paymentService.Pay(c.Request.Context(), userID, orderID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

// PaymentStatus returns the payment state of one of the user's orders
func (h *OrderHandler) PaymentStatus(c *gin.Context) {
	userID, err := h.getUserID(c)
	if err != nil {
		h.Unauthorized(c, err.Error())
		return
	}

	orderID, err := h.pathID(c)
	if err != nil {
		h.BadRequest(c, "invalid order id")
		return
	}

	result, err := h.orderService.Get(c.Request.Context(), userID, orderID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, gin.H{
		"order_id":       result.ID,
		"order_number":   result.OrderNumber,
		"status":         result.Status,
		"payment_status": result.PaymentStatus,
		"payment_method": result.PaymentMethod,
		"transaction_id": result.TransactionID,
		"total":          result.Total,
	})
}

// Cancel cancels a pending or confirmed order and restores stock
func (h *OrderHandler) Cancel(c *gin.Context) {
	userID, err := h.getUserID(c)
	if err != nil {
		h.Unauthorized(c, err.Error())
		return
	}

	orderID, err := h.pathID(c)
	if err != nil {
		h.BadRequest(c, "invalid order id")
		return
	}

	var req orderapp.CancelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.orderService.Cancel(c.Request.Context(), userID, orderID, req.Reason)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

// Refund requests a refund on a delivered order
func (h *OrderHandler) Refund(c *gin.Context) {
	userID, err := h.getUserID(c)
	if err != nil {
		h.Unauthorized(c, err.Error())
		return
	}

	orderID, err := h.pathID(c)
	if err != nil {
		h.BadRequest(c, "invalid order id")
		return
	}

	var req orderapp.RefundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.orderService.Refund(c.Request.Context(), userID, orderID, req.Reason)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

// AdminList lists all orders with filtering
func (h *OrderHandler) AdminList(c *gin.Context) {
	var filter orderapp.ListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	page, err := h.orderService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// AdminGet returns any order by id
func (h *OrderHandler) AdminGet(c *gin.Context) {
	orderID, err := h.pathID(c)
	if err != nil {
		h.BadRequest(c, "invalid order id")
		return
	}

	result, err := h.orderService.GetAny(c.Request.Context(), orderID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

// UpdateStatus advances an order through its fulfilment lifecycle
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	orderID, err := h.pathID(c)
	if err != nil {
		h.BadRequest(c, "invalid order id")
		return
	}

	var req orderapp.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.orderService.UpdateStatus(c.Request.Context(), orderID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}
