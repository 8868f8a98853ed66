package order

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
)

// TotalsTolerance is the maximum deviation allowed when re-validating that
// subtotal + shipping + tax equals the stored total
var TotalsTolerance = decimal.NewFromFloat(0.01)

// OrderStatus represents the fulfillment status of an order
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusConfirmed  OrderStatus = "confirmed"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
	OrderStatusRefunded   OrderStatus = "refunded"
)

// IsValid checks if the status is a valid OrderStatus
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusProcessing,
		OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled, OrderStatusRefunded:
		return true
	}
	return false
}

// String returns the string representation of OrderStatus
func (s OrderStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	switch s {
	case OrderStatusPending:
		return target == OrderStatusConfirmed || target == OrderStatusCancelled
	case OrderStatusConfirmed:
		return target == OrderStatusProcessing || target == OrderStatusCancelled
	case OrderStatusProcessing:
		return target == OrderStatusShipped
	case OrderStatusShipped:
		return target == OrderStatusDelivered
	case OrderStatusDelivered:
		return target == OrderStatusRefunded
	case OrderStatusCancelled, OrderStatusRefunded:
		return false // Terminal states
	}
	return false
}

// PaymentStatus represents the payment state of an order
type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusFailed   PaymentStatus = "failed"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

// IsValid checks if the status is a valid PaymentStatus
func (s PaymentStatus) IsValid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusPaid, PaymentStatusFailed, PaymentStatusRefunded:
		return true
	}
	return false
}

// PaymentMethod represents how an order is paid
type PaymentMethod string

const (
	PaymentMethodCashOnDelivery PaymentMethod = "cash_on_delivery"
	PaymentMethodCreditCard     PaymentMethod = "credit_card"
	PaymentMethodBankTransfer   PaymentMethod = "bank_transfer"
	PaymentMethodWallet         PaymentMethod = "wallet"
)

// IsValid checks if the method is a supported PaymentMethod
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCashOnDelivery, PaymentMethodCreditCard, PaymentMethodBankTransfer, PaymentMethodWallet:
		return true
	}
	return false
}

// OrderItem is an immutable snapshot of one ordered line. Price and name are
// captured at checkout time and never follow later catalog changes.
type OrderItem struct {
	ID          uuid.UUID
	OrderID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null"`
	ProductName string          `gorm:"type:varchar(200);not null"`
	Price       decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Quantity    int64           `gorm:"not null"`
	LineTotal   decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	CreatedAt   time.Time
}

// TableName returns the table name for GORM
func (OrderItem) TableName() string {
	return "order_items"
}

// PricingPolicy holds the checkout pricing rules
type PricingPolicy struct {
	FreeShippingThreshold decimal.Decimal
	ShippingFlatFee       decimal.Decimal
	TaxRate               decimal.Decimal
}

// Order represents an order aggregate root. The line items, address and
// totals are a snapshot frozen at creation; only the lifecycle fields
// (status, payment state, timestamps) mutate afterwards.
type Order struct {
	shared.BaseAggregateRoot
	OrderNumber     string              `gorm:"type:varchar(50);not null;uniqueIndex"`
	UserID          uuid.UUID           `gorm:"type:uuid;not null;index"`
	Items           []OrderItem         `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	ShippingAddress valueobject.Address `gorm:"type:jsonb"`
	Subtotal        decimal.Decimal     `gorm:"type:decimal(18,4);not null"`
	ShippingCost    decimal.Decimal     `gorm:"type:decimal(18,4);not null"`
	Tax             decimal.Decimal     `gorm:"type:decimal(18,4);not null"`
	Total           decimal.Decimal     `gorm:"type:decimal(18,4);not null"`
	Status          OrderStatus         `gorm:"type:varchar(20);not null;default:'pending';index"`
	PaymentStatus   PaymentStatus       `gorm:"type:varchar(20);not null;default:'pending'"`
	PaymentMethod   PaymentMethod       `gorm:"type:varchar(30);not null"`
	TransactionID   string              `gorm:"type:varchar(100)"`
	Notes           string              `gorm:"type:text"`
	DeliveredAt     *time.Time
	CancelledAt     *time.Time
	CancelReason    string `gorm:"type:varchar(500)"`
	RefundedAt      *time.Time
	RefundReason    string `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (Order) TableName() string {
	return "orders"
}

// NewOrder creates a new order in pending/pending state
func NewOrder(userID uuid.UUID, orderNumber string, address valueobject.Address, method PaymentMethod, notes string) (*Order, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "User ID cannot be empty")
	}
	if orderNumber == "" {
		return nil, shared.NewDomainError("INVALID_ORDER_NUMBER", "Order number cannot be empty")
	}
	if address.IsZero() {
		return nil, shared.NewDomainError("INVALID_ADDRESS", "Shipping address is required")
	}
	if !method.IsValid() {
		return nil, shared.NewDomainError("INVALID_PAYMENT_METHOD", fmt.Sprintf("Unsupported payment method %q", method))
	}

	return &Order{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		OrderNumber:       orderNumber,
		UserID:            userID,
		Items:             make([]OrderItem, 0),
		ShippingAddress:   address,
		Subtotal:          decimal.Zero,
		ShippingCost:      decimal.Zero,
		Tax:               decimal.Zero,
		Total:             decimal.Zero,
		Status:            OrderStatusPending,
		PaymentStatus:     PaymentStatusPending,
		PaymentMethod:     method,
		Notes:             notes,
	}, nil
}

// AddLine captures a snapshot line. Only valid before Finalize.
func (o *Order) AddLine(productID uuid.UUID, productName string, price decimal.Decimal, quantity int64) error {
	if productID == uuid.Nil {
		return shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if productName == "" {
		return shared.NewDomainError("INVALID_PRODUCT_NAME", "Product name cannot be empty")
	}
	if price.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}
	if quantity < 1 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be at least 1")
	}

	o.Items = append(o.Items, OrderItem{
		ID:          uuid.New(),
		OrderID:     o.ID,
		ProductID:   productID,
		ProductName: productName,
		Price:       price,
		Quantity:    quantity,
		LineTotal:   price.Mul(decimal.NewFromInt(quantity)),
		CreatedAt:   time.Now(),
	})

	return nil
}

// Finalize computes subtotal, shipping, tax and total from the captured lines
// under the given pricing policy. An order without lines cannot be finalized.
func (o *Order) Finalize(policy PricingPolicy) error {
	if len(o.Items) == 0 {
		return shared.ErrEmptyCart
	}

	subtotal := decimal.Zero
	for _, item := range o.Items {
		subtotal = subtotal.Add(item.LineTotal)
	}

	shipping := policy.ShippingFlatFee
	if subtotal.GreaterThan(policy.FreeShippingThreshold) {
		shipping = decimal.Zero
	}
	tax := subtotal.Mul(policy.TaxRate).Round(2)

	o.Subtotal = subtotal
	o.ShippingCost = shipping
	o.Tax = tax
	o.Total = subtotal.Add(shipping).Add(tax)
	o.UpdatedAt = time.Now()

	return o.ValidateTotals()
}

// ValidateTotals re-checks the totals invariant. It must hold at creation and
// before every persistence; a violation is fatal and never silently patched.
func (o *Order) ValidateTotals() error {
	for _, item := range o.Items {
		expected := item.Price.Mul(decimal.NewFromInt(item.Quantity))
		if !item.LineTotal.Sub(expected).Abs().LessThanOrEqual(TotalsTolerance) {
			return shared.ErrInvariantViolation
		}
	}

	expected := o.Subtotal.Add(o.ShippingCost).Add(o.Tax)
	if !o.Total.Sub(expected).Abs().LessThanOrEqual(TotalsTolerance) {
		return shared.ErrInvariantViolation
	}

	return nil
}

// UpdateStatus transitions the order to a new fulfillment status.
// Delivered additionally forces the payment status to paid and stamps the
// delivery time; cancelled stamps the cancellation time and reason.
func (o *Order) UpdateStatus(target OrderStatus, notes string) error {
	if !target.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", fmt.Sprintf("Unknown order status %q", target))
	}
	if !o.Status.CanTransitionTo(target) {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot transition order from %s to %s", o.Status, target))
	}

	now := time.Now()
	switch target {
	case OrderStatusDelivered:
		o.PaymentStatus = PaymentStatusPaid
		o.DeliveredAt = &now
	case OrderStatusCancelled:
		o.CancelledAt = &now
		o.CancelReason = notes
	}

	o.Status = target
	if notes != "" && target != OrderStatusCancelled {
		o.Notes = notes
	}
	o.UpdatedAt = now

	return nil
}

// Cancel cancels the order. Allowed only in pending or confirmed status; the
// caller is responsible for restoring catalog stock exactly once.
func (o *Order) Cancel(reason string) error {
	if o.Status != OrderStatusPending && o.Status != OrderStatusConfirmed {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot cancel order in %s status", o.Status))
	}

	now := time.Now()
	o.Status = OrderStatusCancelled
	o.PaymentStatus = PaymentStatusRefunded
	o.CancelledAt = &now
	o.CancelReason = reason
	o.UpdatedAt = now

	return nil
}

// MarkPaid records a successful payment. A pending order advances to
// confirmed; later statuses keep their fulfillment progress.
func (o *Order) MarkPaid(method PaymentMethod, transactionID string) error {
	if o.PaymentStatus == PaymentStatusPaid {
		return shared.NewDomainError("ALREADY_PAID", "Order has already been paid")
	}
	if o.Status == OrderStatusCancelled {
		return shared.NewDomainError("ORDER_CANCELLED", "Cannot pay a cancelled order")
	}

	o.PaymentStatus = PaymentStatusPaid
	o.PaymentMethod = method
	o.TransactionID = transactionID
	if o.Status == OrderStatusPending {
		o.Status = OrderStatusConfirmed
	}
	o.UpdatedAt = time.Now()

	return nil
}

// MarkPaymentFailed records a declined payment attempt. The order stays
// open so the customer can retry with another method.
func (o *Order) MarkPaymentFailed(method PaymentMethod) error {
	if o.PaymentStatus == PaymentStatusPaid {
		return shared.NewDomainError("ALREADY_PAID", "Order has already been paid")
	}
	if o.Status == OrderStatusCancelled {
		return shared.NewDomainError("ORDER_CANCELLED", "Cannot pay a cancelled order")
	}

	o.PaymentStatus = PaymentStatusFailed
	o.PaymentMethod = method
	o.UpdatedAt = time.Now()

	return nil
}

// Refund refunds a paid order. For delivered orders the refund must be
// requested within the given window after delivery.
func (o *Order) Refund(reason string, window time.Duration) error {
	if o.PaymentStatus != PaymentStatusPaid {
		return shared.NewDomainError("INVALID_STATE", "Only paid orders can be refunded")
	}
	if o.Status == OrderStatusDelivered && o.DeliveredAt != nil {
		if time.Since(*o.DeliveredAt) > window {
			return shared.NewDomainError("REFUND_WINDOW_EXPIRED",
				fmt.Sprintf("Refunds must be requested within %d days of delivery", int(window.Hours()/24)))
		}
	}

	now := time.Now()
	o.PaymentStatus = PaymentStatusRefunded
	o.Status = OrderStatusRefunded
	o.RefundedAt = &now
	o.RefundReason = reason
	o.UpdatedAt = now

	return nil
}

// IsCancelled returns true if the order is cancelled
func (o *Order) IsCancelled() bool {
	return o.Status == OrderStatusCancelled
}

// IsPaid returns true if the order has been paid
func (o *Order) IsPaid() bool {
	return o.PaymentStatus == PaymentStatusPaid
}

// IsTerminal returns true for delivered, cancelled and refunded orders
func (o *Order) IsTerminal() bool {
	return o.Status == OrderStatusDelivered || o.Status == OrderStatusCancelled || o.Status == OrderStatusRefunded
}

// ItemCount returns the number of lines in the order
func (o *Order) ItemCount() int {
	return len(o.Items)
}

// TotalQuantity returns the sum of all line quantities
func (o *Order) TotalQuantity() int64 {
	var total int64
	for _, item := range o.Items {
		total += item.Quantity
	}
	return total
}

// TotalMoney returns the order total as a Money value object
func (o *Order) TotalMoney() valueobject.Money {
	return valueobject.NewMoneyUSD(o.Total)
}
