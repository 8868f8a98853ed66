package payment

import (
	"github.com/google/uuid"

	"github.com/storefront/backend/internal/domain/order"
)

// PayRequest represents a payment attempt for an order
type PayRequest struct {
	Method     string `json:"method" binding:"required,oneof=cash_on_delivery credit_card bank_transfer wallet"`
	CardNumber string `json:"card_number" binding:"omitempty,max=30"`
	CardCVV    string `json:"card_cvv" binding:"omitempty,max=4"`
}

// PaymentResponse reports the outcome of a payment attempt
type PaymentResponse struct {
	OrderID       uuid.UUID `json:"order_id"`
	OrderNumber   string    `json:"order_number"`
	Method        string    `json:"method"`
	Approved      bool      `json:"approved"`
	TransactionID string    `json:"transaction_id,omitempty"`
	FailureReason string    `json:"failure_reason,omitempty"`
	PaymentStatus string    `json:"payment_status"`
	OrderStatus   string    `json:"order_status"`
}

func toPaymentResponse(o *order.Order, result ChargeResult) *PaymentResponse {
	return &PaymentResponse{
		OrderID:       o.ID,
		OrderNumber:   o.OrderNumber,
		Method:        string(o.PaymentMethod),
		Approved:      result.Approved,
		TransactionID: result.TransactionID,
		FailureReason: result.Reason,
		PaymentStatus: string(o.PaymentStatus),
		OrderStatus:   string(o.Status),
	}
}
