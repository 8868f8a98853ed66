package order

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
)

// Test helpers

func testPolicy() PricingPolicy {
	return PricingPolicy{
		FreeShippingThreshold: decimal.NewFromInt(5000),
		ShippingFlatFee:       decimal.NewFromInt(200),
		TaxRate:               decimal.NewFromFloat(0.05),
	}
}

func testAddress(t *testing.T) valueobject.Address {
	addr, err := valueobject.NewAddress("1 Main St", "Springfield", "IL", "62701", "US")
	require.NoError(t, err)
	return addr
}

func createTestOrder(t *testing.T) *Order {
	o, err := NewOrder(uuid.New(), "ORD-20260830-0001", testAddress(t), PaymentMethodCashOnDelivery, "")
	require.NoError(t, err)
	return o
}

func createFinalizedOrder(t *testing.T, lines ...float64) *Order {
	o := createTestOrder(t)
	for _, price := range lines {
		require.NoError(t, o.AddLine(uuid.New(), "Widget", decimal.NewFromFloat(price), 1))
	}
	require.NoError(t, o.Finalize(testPolicy()))
	return o
}

// ============================================
// OrderStatus Tests
// ============================================

func TestOrderStatus_IsValid(t *testing.T) {
	tests := []struct {
		status  OrderStatus
		isValid bool
	}{
		{OrderStatusPending, true},
		{OrderStatusConfirmed, true},
		{OrderStatusProcessing, true},
		{OrderStatusShipped, true},
		{OrderStatusDelivered, true},
		{OrderStatusCancelled, true},
		{OrderStatusRefunded, true},
		{OrderStatus("invalid"), false},
		{OrderStatus(""), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.isValid, tt.status.IsValid())
		})
	}
}

func TestOrderStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from     OrderStatus
		to       OrderStatus
		canTrans bool
	}{
		// From pending
		{OrderStatusPending, OrderStatusConfirmed, true},
		{OrderStatusPending, OrderStatusCancelled, true},
		{OrderStatusPending, OrderStatusProcessing, false},
		{OrderStatusPending, OrderStatusDelivered, false},
		// From confirmed
		{OrderStatusConfirmed, OrderStatusProcessing, true},
		{OrderStatusConfirmed, OrderStatusCancelled, true},
		{OrderStatusConfirmed, OrderStatusShipped, false},
		// From processing
		{OrderStatusProcessing, OrderStatusShipped, true},
		{OrderStatusProcessing, OrderStatusCancelled, false},
		// From shipped
		{OrderStatusShipped, OrderStatusDelivered, true},
		{OrderStatusShipped, OrderStatusCancelled, false},
		// From delivered
		{OrderStatusDelivered, OrderStatusRefunded, true},
		{OrderStatusDelivered, OrderStatusPending, false},
		// Terminal states
		{OrderStatusCancelled, OrderStatusPending, false},
		{OrderStatusCancelled, OrderStatusConfirmed, false},
		{OrderStatusRefunded, OrderStatusPending, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.canTrans, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestPaymentMethod_IsValid(t *testing.T) {
	assert.True(t, PaymentMethodCashOnDelivery.IsValid())
	assert.True(t, PaymentMethodCreditCard.IsValid())
	assert.True(t, PaymentMethodBankTransfer.IsValid())
	assert.True(t, PaymentMethodWallet.IsValid())
	assert.False(t, PaymentMethod("paypal").IsValid())
}

// ============================================
// NewOrder Tests
// ============================================

func TestNewOrder(t *testing.T) {
	t.Run("creates order with valid inputs", func(t *testing.T) {
		userID := uuid.New()
		o, err := NewOrder(userID, "ORD-20260830-0001", testAddress(t), PaymentMethodCreditCard, "leave at door")
		require.NoError(t, err)
		require.NotNil(t, o)

		assert.Equal(t, userID, o.UserID)
		assert.Equal(t, "ORD-20260830-0001", o.OrderNumber)
		assert.Equal(t, OrderStatusPending, o.Status)
		assert.Equal(t, PaymentStatusPending, o.PaymentStatus)
		assert.Equal(t, PaymentMethodCreditCard, o.PaymentMethod)
		assert.Equal(t, "leave at door", o.Notes)
		assert.Empty(t, o.Items)
		assert.True(t, o.Total.IsZero())
	})

	t.Run("rejects nil user", func(t *testing.T) {
		_, err := NewOrder(uuid.Nil, "ORD-20260830-0001", testAddress(t), PaymentMethodCashOnDelivery, "")
		assert.Error(t, err)
	})

	t.Run("rejects empty order number", func(t *testing.T) {
		_, err := NewOrder(uuid.New(), "", testAddress(t), PaymentMethodCashOnDelivery, "")
		assert.Error(t, err)
	})

	t.Run("rejects zero address", func(t *testing.T) {
		_, err := NewOrder(uuid.New(), "ORD-20260830-0001", valueobject.Address{}, PaymentMethodCashOnDelivery, "")
		assert.Error(t, err)
	})

	t.Run("rejects unknown payment method", func(t *testing.T) {
		_, err := NewOrder(uuid.New(), "ORD-20260830-0001", testAddress(t), PaymentMethod("barter"), "")
		assert.Error(t, err)
	})
}

// ============================================
// AddLine / Finalize Tests
// ============================================

func TestOrder_AddLine(t *testing.T) {
	o := createTestOrder(t)

	t.Run("captures snapshot with line total", func(t *testing.T) {
		productID := uuid.New()
		err := o.AddLine(productID, "Widget", decimal.NewFromFloat(12.50), 3)
		require.NoError(t, err)

		require.Len(t, o.Items, 1)
		item := o.Items[0]
		assert.Equal(t, productID, item.ProductID)
		assert.Equal(t, "Widget", item.ProductName)
		assert.True(t, item.LineTotal.Equal(decimal.NewFromFloat(37.50)))
	})

	t.Run("rejects zero quantity", func(t *testing.T) {
		assert.Error(t, o.AddLine(uuid.New(), "Widget", decimal.NewFromInt(10), 0))
	})

	t.Run("rejects negative price", func(t *testing.T) {
		assert.Error(t, o.AddLine(uuid.New(), "Widget", decimal.NewFromInt(-10), 1))
	})

	t.Run("rejects empty name", func(t *testing.T) {
		assert.Error(t, o.AddLine(uuid.New(), "", decimal.NewFromInt(10), 1))
	})
}

func TestOrder_Finalize(t *testing.T) {
	t.Run("subtotal 1000 pays flat shipping and 5 percent tax", func(t *testing.T) {
		o := createTestOrder(t)
		require.NoError(t, o.AddLine(uuid.New(), "Widget", decimal.NewFromInt(500), 2))
		require.NoError(t, o.Finalize(testPolicy()))

		assert.True(t, o.Subtotal.Equal(decimal.NewFromInt(1000)), "subtotal = %s", o.Subtotal)
		assert.True(t, o.ShippingCost.Equal(decimal.NewFromInt(200)), "shipping = %s", o.ShippingCost)
		assert.True(t, o.Tax.Equal(decimal.NewFromInt(50)), "tax = %s", o.Tax)
		assert.True(t, o.Total.Equal(decimal.NewFromInt(1250)), "total = %s", o.Total)
	})

	t.Run("subtotal above threshold ships free", func(t *testing.T) {
		o := createTestOrder(t)
		require.NoError(t, o.AddLine(uuid.New(), "Widget", decimal.NewFromInt(6000), 1))
		require.NoError(t, o.Finalize(testPolicy()))

		assert.True(t, o.ShippingCost.IsZero())
		assert.True(t, o.Tax.Equal(decimal.NewFromInt(300)))
		assert.True(t, o.Total.Equal(decimal.NewFromInt(6300)))
	})

	t.Run("subtotal exactly at threshold still pays shipping", func(t *testing.T) {
		o := createTestOrder(t)
		require.NoError(t, o.AddLine(uuid.New(), "Widget", decimal.NewFromInt(5000), 1))
		require.NoError(t, o.Finalize(testPolicy()))

		assert.True(t, o.ShippingCost.Equal(decimal.NewFromInt(200)))
	})

	t.Run("tax is rounded to cents", func(t *testing.T) {
		o := createTestOrder(t)
		require.NoError(t, o.AddLine(uuid.New(), "Widget", decimal.NewFromFloat(10.11), 1))
		require.NoError(t, o.Finalize(testPolicy()))

		// 10.11 * 0.05 = 0.5055 -> 0.51
		assert.True(t, o.Tax.Equal(decimal.NewFromFloat(0.51)), "tax = %s", o.Tax)
	})

	t.Run("fails on empty order", func(t *testing.T) {
		o := createTestOrder(t)
		err := o.Finalize(testPolicy())
		assert.ErrorIs(t, err, shared.ErrEmptyCart)
	})
}

func TestOrder_ValidateTotals(t *testing.T) {
	t.Run("holds after finalize", func(t *testing.T) {
		o := createFinalizedOrder(t, 100, 250.75)
		assert.NoError(t, o.ValidateTotals())
	})

	t.Run("detects tampered total", func(t *testing.T) {
		o := createFinalizedOrder(t, 100)
		o.Total = o.Total.Add(decimal.NewFromInt(1))

		err := o.ValidateTotals()
		require.Error(t, err)

		var domainErr *shared.DomainError
		require.True(t, errors.As(err, &domainErr))
		assert.Equal(t, "INVARIANT_VIOLATION", domainErr.Code)
	})

	t.Run("detects tampered line total", func(t *testing.T) {
		o := createFinalizedOrder(t, 100)
		o.Items[0].LineTotal = o.Items[0].LineTotal.Add(decimal.NewFromInt(5))
		assert.Error(t, o.ValidateTotals())
	})

	t.Run("tolerates sub-cent drift", func(t *testing.T) {
		o := createFinalizedOrder(t, 100)
		o.Total = o.Total.Add(decimal.NewFromFloat(0.009))
		assert.NoError(t, o.ValidateTotals())
	})
}

// ============================================
// Lifecycle Tests
// ============================================

func TestOrder_UpdateStatus(t *testing.T) {
	t.Run("walks the happy path", func(t *testing.T) {
		o := createFinalizedOrder(t, 100)

		require.NoError(t, o.UpdateStatus(OrderStatusConfirmed, ""))
		require.NoError(t, o.UpdateStatus(OrderStatusProcessing, ""))
		require.NoError(t, o.UpdateStatus(OrderStatusShipped, ""))
		require.NoError(t, o.UpdateStatus(OrderStatusDelivered, ""))

		assert.Equal(t, OrderStatusDelivered, o.Status)
	})

	t.Run("delivered forces paid and stamps delivery time", func(t *testing.T) {
		o := createFinalizedOrder(t, 100)
		o.Status = OrderStatusShipped

		require.NoError(t, o.UpdateStatus(OrderStatusDelivered, ""))

		assert.Equal(t, PaymentStatusPaid, o.PaymentStatus)
		require.NotNil(t, o.DeliveredAt)
		assert.WithinDuration(t, time.Now(), *o.DeliveredAt, time.Second)
	})

	t.Run("rejects illegal transitions", func(t *testing.T) {
		o := createFinalizedOrder(t, 100)
		assert.Error(t, o.UpdateStatus(OrderStatusShipped, ""))
		assert.Error(t, o.UpdateStatus(OrderStatusRefunded, ""))
	})

	t.Run("rejects unknown status", func(t *testing.T) {
		o := createFinalizedOrder(t, 100)
		assert.Error(t, o.UpdateStatus(OrderStatus("lost"), ""))
	})
}

func TestOrder_Cancel(t *testing.T) {
	t.Run("cancels a pending order", func(t *testing.T) {
		o := createFinalizedOrder(t, 100)
		require.NoError(t, o.Cancel("changed my mind"))

		assert.Equal(t, OrderStatusCancelled, o.Status)
		assert.Equal(t, PaymentStatusRefunded, o.PaymentStatus)
		assert.Equal(t, "changed my mind", o.CancelReason)
		assert.NotNil(t, o.CancelledAt)
	})

	t.Run("cancels a confirmed order", func(t *testing.T) {
		o := createFinalizedOrder(t, 100)
		o.Status = OrderStatusConfirmed
		assert.NoError(t, o.Cancel(""))
	})

	t.Run("rejects cancel once shipped", func(t *testing.T) {
		o := createFinalizedOrder(t, 100)
		o.Status = OrderStatusShipped
		assert.Error(t, o.Cancel(""))
	})

	t.Run("rejects double cancel", func(t *testing.T) {
		o := createFinalizedOrder(t, 100)
		require.NoError(t, o.Cancel(""))
		assert.Error(t, o.Cancel(""))
	})
}

func TestOrder_MarkPaid(t *testing.T) {
	t.Run("pending order advances to confirmed", func(t *testing.T) {
		o := createFinalizedOrder(t, 100)
		require.NoError(t, o.MarkPaid(PaymentMethodCreditCard, "TXN-123"))

		assert.Equal(t, PaymentStatusPaid, o.PaymentStatus)
		assert.Equal(t, OrderStatusConfirmed, o.Status)
		assert.Equal(t, "TXN-123", o.TransactionID)
	})

	t.Run("shipped order keeps its fulfillment status", func(t *testing.T) {
		o := createFinalizedOrder(t, 100)
		o.Status = OrderStatusShipped

		require.NoError(t, o.MarkPaid(PaymentMethodBankTransfer, "TXN-456"))
		assert.Equal(t, OrderStatusShipped, o.Status)
	})

	t.Run("rejects double payment", func(t *testing.T) {
		o := createFinalizedOrder(t, 100)
		require.NoError(t, o.MarkPaid(PaymentMethodCreditCard, "TXN-123"))
		assert.Error(t, o.MarkPaid(PaymentMethodCreditCard, "TXN-124"))
	})

	t.Run("rejects paying a cancelled order", func(t *testing.T) {
		o := createFinalizedOrder(t, 100)
		require.NoError(t, o.Cancel(""))
		assert.Error(t, o.MarkPaid(PaymentMethodCreditCard, "TXN-123"))
	})
}

func TestOrder_Refund(t *testing.T) {
	window := 7 * 24 * time.Hour

	t.Run("refunds a paid order", func(t *testing.T) {
		o := createFinalizedOrder(t, 100)
		require.NoError(t, o.MarkPaid(PaymentMethodCreditCard, "TXN-123"))

		require.NoError(t, o.Refund("damaged item", window))
		assert.Equal(t, PaymentStatusRefunded, o.PaymentStatus)
		assert.Equal(t, OrderStatusRefunded, o.Status)
		assert.NotNil(t, o.RefundedAt)
	})

	t.Run("rejects refund of unpaid order", func(t *testing.T) {
		o := createFinalizedOrder(t, 100)
		assert.Error(t, o.Refund("", window))
	})

	t.Run("rejects refund outside the delivery window", func(t *testing.T) {
		o := createFinalizedOrder(t, 100)
		require.NoError(t, o.MarkPaid(PaymentMethodCreditCard, "TXN-123"))
		o.Status = OrderStatusDelivered
		delivered := time.Now().Add(-8 * 24 * time.Hour)
		o.DeliveredAt = &delivered

		err := o.Refund("", window)
		require.Error(t, err)

		var domainErr *shared.DomainError
		require.True(t, errors.As(err, &domainErr))
		assert.Equal(t, "REFUND_WINDOW_EXPIRED", domainErr.Code)
	})

	t.Run("allows refund inside the delivery window", func(t *testing.T) {
		o := createFinalizedOrder(t, 100)
		require.NoError(t, o.MarkPaid(PaymentMethodCreditCard, "TXN-123"))
		o.Status = OrderStatusDelivered
		delivered := time.Now().Add(-3 * 24 * time.Hour)
		o.DeliveredAt = &delivered

		assert.NoError(t, o.Refund("", window))
	})
}

func TestOrder_Accessors(t *testing.T) {
	o := createTestOrder(t)
	require.NoError(t, o.AddLine(uuid.New(), "Widget", decimal.NewFromInt(10), 2))
	require.NoError(t, o.AddLine(uuid.New(), "Gadget", decimal.NewFromInt(20), 3))
	require.NoError(t, o.Finalize(testPolicy()))

	assert.Equal(t, 2, o.ItemCount())
	assert.Equal(t, int64(5), o.TotalQuantity())
	assert.False(t, o.IsPaid())
	assert.False(t, o.IsCancelled())
	assert.False(t, o.IsTerminal())
	assert.Equal(t, valueobject.USD, o.TotalMoney().Currency())
}
