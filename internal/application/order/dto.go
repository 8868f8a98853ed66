package order

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
)

// AddressRequest represents a shipping address in requests
type AddressRequest struct {
	Street     string `json:"street" binding:"required,min=1,max=200"`
	City       string `json:"city" binding:"required,min=1,max=100"`
	State      string `json:"state" binding:"max=100"`
	PostalCode string `json:"postal_code" binding:"required,min=1,max=20"`
	Country    string `json:"country" binding:"required,min=2,max=100"`
	Phone      string `json:"phone" binding:"max=50"`
}

// ToAddress converts the request into an Address value object
func (r AddressRequest) ToAddress() (valueobject.Address, error) {
	return valueobject.NewAddress(r.Street, r.City, r.State, r.PostalCode, r.Country, valueobject.WithPhone(r.Phone))
}

// CheckoutRequest represents a request to place an order from the cart
type CheckoutRequest struct {
	ShippingAddress AddressRequest `json:"shipping_address" binding:"required"`
	PaymentMethod   string         `json:"payment_method" binding:"required,oneof=cash_on_delivery credit_card bank_transfer wallet"`
	Notes           string         `json:"notes" binding:"max=2000"`
}

// CancelRequest represents a request to cancel an order
type CancelRequest struct {
	Reason string `json:"reason" binding:"max=500"`
}

// RefundRequest represents a request to refund a paid order
type RefundRequest struct {
	Reason string `json:"reason" binding:"required,min=1,max=500"`
}

// UpdateStatusRequest represents an admin request to move an order
// through fulfillment
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=pending confirmed processing shipped delivered cancelled refunded"`
	Notes  string `json:"notes" binding:"max=2000"`
}

// ListFilter represents filter options for order lists
type ListFilter struct {
	Search        string `form:"search"`
	Status        string `form:"status" binding:"omitempty,oneof=pending confirmed processing shipped delivered cancelled refunded"`
	PaymentStatus string `form:"payment_status" binding:"omitempty,oneof=pending paid failed refunded"`
	StartDate     string `form:"start_date" binding:"omitempty,datetime=2006-01-02"`
	EndDate       string `form:"end_date" binding:"omitempty,datetime=2006-01-02"`
	Page          int    `form:"page" binding:"omitempty,min=1"`
	PageSize      int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// AddressResponse represents a shipping address in responses
type AddressResponse struct {
	Street     string `json:"street"`
	City       string `json:"city"`
	State      string `json:"state,omitempty"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
	Phone      string `json:"phone,omitempty"`
}

// ItemResponse represents an order line in responses
type ItemResponse struct {
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int64           `json:"quantity"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

// OrderResponse represents an order in API responses
type OrderResponse struct {
	ID              uuid.UUID       `json:"id"`
	OrderNumber     string          `json:"order_number"`
	UserID          uuid.UUID       `json:"user_id"`
	Items           []ItemResponse  `json:"items"`
	ShippingAddress AddressResponse `json:"shipping_address"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	ShippingCost    decimal.Decimal `json:"shipping_cost"`
	Tax             decimal.Decimal `json:"tax"`
	Total           decimal.Decimal `json:"total"`
	Status          string          `json:"status"`
	PaymentStatus   string          `json:"payment_status"`
	PaymentMethod   string          `json:"payment_method"`
	TransactionID   string          `json:"transaction_id,omitempty"`
	Notes           string          `json:"notes,omitempty"`
	DeliveredAt     *time.Time      `json:"delivered_at,omitempty"`
	CancelledAt     *time.Time      `json:"cancelled_at,omitempty"`
	CancelReason    string          `json:"cancel_reason,omitempty"`
	RefundedAt      *time.Time      `json:"refunded_at,omitempty"`
	RefundReason    string          `json:"refund_reason,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// ToOrderResponse converts a domain Order to OrderResponse
func ToOrderResponse(o *order.Order) OrderResponse {
	items := make([]ItemResponse, len(o.Items))
	for i, item := range o.Items {
		items[i] = ItemResponse{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Price:       item.Price,
			Quantity:    item.Quantity,
			LineTotal:   item.LineTotal,
		}
	}

	return OrderResponse{
		ID:          o.ID,
		OrderNumber: o.OrderNumber,
		UserID:      o.UserID,
		Items:       items,
		ShippingAddress: AddressResponse{
			Street:     o.ShippingAddress.Street(),
			City:       o.ShippingAddress.City(),
			State:      o.ShippingAddress.State(),
			PostalCode: o.ShippingAddress.PostalCode(),
			Country:    o.ShippingAddress.Country(),
			Phone:      o.ShippingAddress.Phone(),
		},
		Subtotal:      o.Subtotal,
		ShippingCost:  o.ShippingCost,
		Tax:           o.Tax,
		Total:         o.Total,
		Status:        string(o.Status),
		PaymentStatus: string(o.PaymentStatus),
		PaymentMethod: string(o.PaymentMethod),
		TransactionID: o.TransactionID,
		Notes:         o.Notes,
		DeliveredAt:   o.DeliveredAt,
		CancelledAt:   o.CancelledAt,
		CancelReason:  o.CancelReason,
		RefundedAt:    o.RefundedAt,
		RefundReason:  o.RefundReason,
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
	}
}

// ToOrderResponses converts a slice of domain Orders
func ToOrderResponses(orders []order.Order) []OrderResponse {
	responses := make([]OrderResponse, len(orders))
	for i := range orders {
		responses[i] = ToOrderResponse(&orders[i])
	}
	return responses
}
