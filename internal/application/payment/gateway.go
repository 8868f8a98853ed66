package payment

import (
	"context"
	"fmt"
	"math/rand"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/shared"
)

// ChargeRequest describes a payment attempt sent to the provider
type ChargeRequest struct {
	Method     order.PaymentMethod
	Amount     decimal.Decimal
	CardNumber string
	CardCVV    string
}

// ChargeResult is the provider's decision on a charge
type ChargeResult struct {
	Approved      bool
	TransactionID string
	Reason        string
}

// Gateway abstracts the payment provider
type Gateway interface {
	Charge(ctx context.Context, req ChargeRequest) (ChargeResult, error)
}

// SimulatedGateway approves or declines charges without contacting a
// real provider. Credit card charges are declined at a configurable
// rate; the other methods always succeed.
type SimulatedGateway struct {
	declineRate float64
	randFloat   func() float64
}

// GatewayOption configures a SimulatedGateway
type GatewayOption func(*SimulatedGateway)

// WithRandomSource overrides the randomness source, for tests
func WithRandomSource(f func() float64) GatewayOption {
	return func(g *SimulatedGateway) {
		g.randFloat = f
	}
}

// NewSimulatedGateway creates a gateway with the given card decline rate
func NewSimulatedGateway(declineRate float64, opts ...GatewayOption) *SimulatedGateway {
	g := &SimulatedGateway{
		declineRate: declineRate,
		randFloat:   rand.Float64,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Charge simulates a charge against the provider
func (g *SimulatedGateway) Charge(ctx context.Context, req ChargeRequest) (ChargeResult, error) {
	switch req.Method {
	case order.PaymentMethodCashOnDelivery:
		// Collected by the courier, nothing to authorize
		return ChargeResult{Approved: true}, nil

	case order.PaymentMethodCreditCard:
		if err := validateCard(req.CardNumber, req.CardCVV); err != nil {
			return ChargeResult{}, err
		}
		// Decide the outcome before assigning a transaction id, so a
		// declined charge never carries one
		approved := g.randFloat() >= g.declineRate
		if !approved {
			return ChargeResult{Reason: "Card was declined by the issuer"}, nil
		}
		return ChargeResult{Approved: true, TransactionID: newTransactionID("cc")}, nil

	case order.PaymentMethodBankTransfer:
		return ChargeResult{Approved: true, TransactionID: newTransactionID("bt")}, nil

	case order.PaymentMethodWallet:
		// Balance is checked by the caller; the gateway only issues
		// the transaction id
		return ChargeResult{Approved: true, TransactionID: newTransactionID("wl")}, nil

	default:
		return ChargeResult{}, shared.NewDomainError("INVALID_PAYMENT_METHOD",
			fmt.Sprintf("Unsupported payment method %q", req.Method))
	}
}

func validateCard(number, cvv string) error {
	number = strings.ReplaceAll(strings.ReplaceAll(number, " ", ""), "-", "")
	if len(number) < 12 || len(number) > 19 || !allDigits(number) {
		return shared.NewDomainError("INVALID_CARD", "Card number must be 12 to 19 digits")
	}
	if len(cvv) < 3 || len(cvv) > 4 || !allDigits(cvv) {
		return shared.NewDomainError("INVALID_CARD", "CVV must be 3 or 4 digits")
	}
	return nil
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

func newTransactionID(prefix string) string {
	return fmt.Sprintf("%s_%s", prefix, strings.ReplaceAll(uuid.New().String(), "-", ""))
}
