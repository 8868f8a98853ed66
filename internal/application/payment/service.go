package payment

import (
	"context"

	"github.com/google/uuid"

	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/shared"
)

// Service handles order payments
type Service struct {
	orderRepo order.OrderRepository
	userRepo  identity.UserRepository
	gateway   Gateway
	tx        shared.Transactor
}

// NewService creates a new payment Service
func NewService(
	orderRepo order.OrderRepository,
	userRepo identity.UserRepository,
	gateway Gateway,
	tx shared.Transactor,
) *Service {
	return &Service{
		orderRepo: orderRepo,
		userRepo:  userRepo,
		gateway:   gateway,
		tx:        tx,
	}
}

// Pay attempts to pay for an order. A successful payment marks the
// order paid and advances a pending order to confirmed. A declined
// charge leaves the order open for another attempt.
func (s *Service) Pay(ctx context.Context, userID, orderID uuid.UUID, req PayRequest) (*PaymentResponse, error) {
	method := order.PaymentMethod(req.Method)
	if !method.IsValid() {
		return nil, shared.NewDomainError("INVALID_PAYMENT_METHOD", "Unsupported payment method")
	}

	var response *PaymentResponse
	err := s.tx.InTransaction(ctx, func(ctx context.Context) error {
		o, err := s.orderRepo.FindByID(ctx, orderID)
		if err != nil {
			return err
		}
		if o.UserID != userID {
			return shared.ErrNotFound
		}
		if o.IsPaid() {
			return shared.NewDomainError("ALREADY_PAID", "Order has already been paid")
		}
		if o.IsCancelled() {
			return shared.NewDomainError("ORDER_CANCELLED", "Cannot pay a cancelled order")
		}

		if method == order.PaymentMethodWallet {
			response, err = s.payFromWallet(ctx, o)
			return err
		}

		result, err := s.gateway.Charge(ctx, ChargeRequest{
			Method:     method,
			Amount:     o.Total,
			CardNumber: req.CardNumber,
			CardCVV:    req.CardCVV,
		})
		if err != nil {
			return err
		}

		if result.Approved {
			if err := o.MarkPaid(method, result.TransactionID); err != nil {
				return err
			}
		} else {
			if err := o.MarkPaymentFailed(method); err != nil {
				return err
			}
		}

		if err := s.orderRepo.Save(ctx, o); err != nil {
			return err
		}

		response = toPaymentResponse(o, result)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return response, nil
}

// payFromWallet debits the customer's wallet and marks the order paid.
// Runs inside the caller's transaction so a failed save restores the
// balance.
func (s *Service) payFromWallet(ctx context.Context, o *order.Order) (*PaymentResponse, error) {
	user, err := s.userRepo.FindByID(ctx, o.UserID)
	if err != nil {
		return nil, err
	}

	// Wallet balances are kept in cents
	amount := o.Total.Shift(2).IntPart()
	if err := user.DebitWallet(amount); err != nil {
		return nil, err
	}

	result, err := s.gateway.Charge(ctx, ChargeRequest{
		Method: order.PaymentMethodWallet,
		Amount: o.Total,
	})
	if err != nil {
		return nil, err
	}

	if err := o.MarkPaid(order.PaymentMethodWallet, result.TransactionID); err != nil {
		return nil, err
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}
	if err := s.orderRepo.Save(ctx, o); err != nil {
		return nil, err
	}

	return toPaymentResponse(o, result), nil
}
