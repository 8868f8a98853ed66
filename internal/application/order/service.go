package order

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/email"
)

// Service handles order placement and lifecycle
type Service struct {
	orderRepo    order.OrderRepository
	cartRepo     cart.CartRepository
	productRepo  catalog.ProductRepository
	userRepo     identity.UserRepository
	tx           shared.Transactor
	policy       order.PricingPolicy
	refundWindow time.Duration
	mailer       email.Mailer
	logger       *zap.Logger
}

// NewService creates a new order Service
func NewService(
	orderRepo order.OrderRepository,
	cartRepo cart.CartRepository,
	productRepo catalog.ProductRepository,
	userRepo identity.UserRepository,
	tx shared.Transactor,
	policy order.PricingPolicy,
	refundWindow time.Duration,
	mailer email.Mailer,
	logger *zap.Logger,
) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		orderRepo:    orderRepo,
		cartRepo:     cartRepo,
		productRepo:  productRepo,
		userRepo:     userRepo,
		tx:           tx,
		policy:       policy,
		refundWindow: refundWindow,
		mailer:       mailer,
		logger:       logger,
	}
}

// Checkout turns the user's cart into an order. Stock is decremented
// atomically per line inside one transaction, so a sold-out line rolls
// the whole order back.
func (s *Service) Checkout(ctx context.Context, userID uuid.UUID, req CheckoutRequest) (*OrderResponse, error) {
	address, err := req.ShippingAddress.ToAddress()
	if err != nil {
		return nil, err
	}
	method := order.PaymentMethod(req.PaymentMethod)

	var placed *order.Order
	err = s.tx.InTransaction(ctx, func(ctx context.Context) error {
		c, err := s.cartRepo.FindByUser(ctx, userID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return shared.ErrEmptyCart
			}
			return err
		}
		if c.IsEmpty() {
			return shared.ErrEmptyCart
		}

		products, err := s.loadProducts(ctx, c)
		if err != nil {
			return err
		}
		if err := s.checkAvailability(c, products); err != nil {
			return err
		}

		orderNumber, err := s.orderRepo.GenerateOrderNumber(ctx, time.Now())
		if err != nil {
			return err
		}

		o, err := order.NewOrder(userID, orderNumber, address, method, req.Notes)
		if err != nil {
			return err
		}
		for _, line := range c.Items {
			product := products[line.ProductID]
			if err := o.AddLine(product.ID, product.Name, product.Price, line.Quantity); err != nil {
				return err
			}
		}
		if err := o.Finalize(s.policy); err != nil {
			return err
		}

		if err := s.orderRepo.Save(ctx, o); err != nil {
			return err
		}

		// Conditional decrements: a concurrent checkout that drained a
		// line fails here and rolls everything back
		for _, line := range c.Items {
			if err := s.productRepo.DecrementStock(ctx, line.ProductID, line.Quantity); err != nil {
				if errors.Is(err, shared.ErrInsufficientStock) || errors.Is(err, shared.ErrNotFound) {
					product := products[line.ProductID]
					return shared.NewDomainError("INSUFFICIENT_STOCK",
						fmt.Sprintf("Insufficient stock for %s (requested %d)", product.Name, line.Quantity))
				}
				return err
			}
		}

		c.Clear()
		if err := s.cartRepo.Save(ctx, c); err != nil {
			return err
		}

		placed = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.sendOrderEmail(userID, placed, "Order confirmation",
		fmt.Sprintf("Your order %s has been placed. Total: %s.", placed.OrderNumber, placed.Total.StringFixed(2)))

	response := ToOrderResponse(placed)
	return &response, nil
}

// Get retrieves one of the user's orders
func (s *Service) Get(ctx context.Context, userID, orderID uuid.UUID) (*OrderResponse, error) {
	o, err := s.ownedOrder(ctx, userID, orderID)
	if err != nil {
		return nil, err
	}

	response := ToOrderResponse(o)
	return &response, nil
}

// GetByNumber retrieves one of the user's orders by its number
func (s *Service) GetByNumber(ctx context.Context, userID uuid.UUID, orderNumber string) (*OrderResponse, error) {
	o, err := s.orderRepo.FindByOrderNumber(ctx, orderNumber)
	if err != nil {
		return nil, err
	}
	if o.UserID != userID {
		return nil, shared.ErrNotFound
	}

	response := ToOrderResponse(o)
	return &response, nil
}

// ListMine lists the user's orders, newest first
func (s *Service) ListMine(ctx context.Context, userID uuid.UUID, filter ListFilter) (*shared.Paginated[OrderResponse], error) {
	page, err := s.orderRepo.FindByUser(ctx, userID, s.toDomainFilter(filter))
	if err != nil {
		return nil, err
	}
	return mapPage(page), nil
}

// List lists all orders (admin view)
func (s *Service) List(ctx context.Context, filter ListFilter) (*shared.Paginated[OrderResponse], error) {
	page, err := s.orderRepo.FindAll(ctx, s.toDomainFilter(filter))
	if err != nil {
		return nil, err
	}
	return mapPage(page), nil
}

// GetAny retrieves any order (admin view)
func (s *Service) GetAny(ctx context.Context, orderID uuid.UUID) (*OrderResponse, error) {
	o, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	response := ToOrderResponse(o)
	return &response, nil
}

// Cancel cancels a pending or confirmed order and restores the
// reserved stock. Cancelling twice fails, so stock is restored once.
func (s *Service) Cancel(ctx context.Context, userID, orderID uuid.UUID, reason string) (*OrderResponse, error) {
	var cancelled *order.Order
	err := s.tx.InTransaction(ctx, func(ctx context.Context) error {
		o, err := s.ownedOrder(ctx, userID, orderID)
		if err != nil {
			return err
		}

		if err := s.cancelAndRestock(ctx, o, reason); err != nil {
			return err
		}

		cancelled = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.sendOrderEmail(userID, cancelled, "Order cancelled",
		fmt.Sprintf("Your order %s has been cancelled.", cancelled.OrderNumber))

	response := ToOrderResponse(cancelled)
	return &response, nil
}

// Refund refunds one of the user's paid orders. Delivered orders can
// only be refunded within the refund window.
func (s *Service) Refund(ctx context.Context, userID, orderID uuid.UUID, reason string) (*OrderResponse, error) {
	o, err := s.ownedOrder(ctx, userID, orderID)
	if err != nil {
		return nil, err
	}

	if err := o.Refund(reason, s.refundWindow); err != nil {
		return nil, err
	}
	if err := s.orderRepo.Save(ctx, o); err != nil {
		return nil, err
	}

	s.sendOrderEmail(userID, o, "Refund processed",
		fmt.Sprintf("Your order %s has been refunded.", o.OrderNumber))

	response := ToOrderResponse(o)
	return &response, nil
}

// UpdateStatus moves an order through fulfillment (admin only).
// Cancelling through this path restores stock like a customer
// cancellation.
func (s *Service) UpdateStatus(ctx context.Context, orderID uuid.UUID, req UpdateStatusRequest) (*OrderResponse, error) {
	target := order.OrderStatus(req.Status)
	if !target.IsValid() {
		return nil, shared.NewDomainError("INVALID_STATUS", fmt.Sprintf("Unknown order status %q", req.Status))
	}

	var updated *order.Order
	err := s.tx.InTransaction(ctx, func(ctx context.Context) error {
		o, err := s.orderRepo.FindByID(ctx, orderID)
		if err != nil {
			return err
		}

		if target == order.OrderStatusCancelled {
			if err := s.cancelAndRestock(ctx, o, req.Notes); err != nil {
				return err
			}
		} else {
			if err := o.UpdateStatus(target, req.Notes); err != nil {
				return err
			}
			if err := s.orderRepo.Save(ctx, o); err != nil {
				return err
			}
		}

		updated = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	response := ToOrderResponse(updated)
	return &response, nil
}

func (s *Service) cancelAndRestock(ctx context.Context, o *order.Order, reason string) error {
	if err := o.Cancel(reason); err != nil {
		return err
	}
	if err := s.orderRepo.Save(ctx, o); err != nil {
		return err
	}
	for _, item := range o.Items {
		if err := s.productRepo.RestoreStock(ctx, item.ProductID, item.Quantity); err != nil {
			// Products removed from the catalog since the order was
			// placed have nothing to restore
			if errors.Is(err, shared.ErrNotFound) {
				continue
			}
			return err
		}
	}
	return nil
}

func (s *Service) ownedOrder(ctx context.Context, userID, orderID uuid.UUID) (*order.Order, error) {
	o, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.UserID != userID {
		return nil, shared.ErrNotFound
	}
	return o, nil
}

func (s *Service) loadProducts(ctx context.Context, c *cart.Cart) (map[uuid.UUID]*catalog.Product, error) {
	ids := make([]uuid.UUID, 0, len(c.Items))
	for _, line := range c.Items {
		ids = append(ids, line.ProductID)
	}

	products, err := s.productRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	byID := make(map[uuid.UUID]*catalog.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}
	return byID, nil
}

// checkAvailability verifies every cart line against live stock and
// reports all failing lines at once
func (s *Service) checkAvailability(c *cart.Cart, products map[uuid.UUID]*catalog.Product) error {
	var problems []string
	for _, line := range c.Items {
		product, ok := products[line.ProductID]
		switch {
		case !ok || !product.IsSellable():
			name := line.ProductID.String()
			if ok {
				name = product.Name
			}
			problems = append(problems, fmt.Sprintf("%s is no longer available", name))
		case !product.InStock(line.Quantity):
			problems = append(problems, fmt.Sprintf("%s (requested %d, available %d)",
				product.Name, line.Quantity, product.Quantity))
		}
	}
	if len(problems) > 0 {
		return shared.NewDomainError("INSUFFICIENT_STOCK",
			"Insufficient stock: "+strings.Join(problems, "; "))
	}
	return nil
}

// sendOrderEmail delivers a notification without blocking or failing
// the operation that triggered it
func (s *Service) sendOrderEmail(userID uuid.UUID, o *order.Order, subject, body string) {
	if s.mailer == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		user, err := s.userRepo.FindByID(ctx, userID)
		if err != nil {
			s.logger.Warn("Order email skipped, user lookup failed",
				zap.String("order_number", o.OrderNumber), zap.Error(err))
			return
		}
		if err := s.mailer.Send(ctx, email.Message{To: user.Email, Subject: subject, Body: body}); err != nil {
			s.logger.Warn("Order email delivery failed",
				zap.String("order_number", o.OrderNumber), zap.Error(err))
		}
	}()
}

func (s *Service) toDomainFilter(filter ListFilter) shared.Filter {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		Search:   filter.Search,
		Filters:  make(map[string]interface{}),
	}

	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}
	if filter.PaymentStatus != "" {
		domainFilter.Filters["payment_status"] = filter.PaymentStatus
	}
	if filter.StartDate != "" {
		if t, err := time.Parse("2006-01-02", filter.StartDate); err == nil {
			domainFilter.Filters["start_date"] = t
		}
	}
	if filter.EndDate != "" {
		if t, err := time.Parse("2006-01-02", filter.EndDate); err == nil {
			domainFilter.Filters["end_date"] = t.Add(24 * time.Hour)
		}
	}

	return domainFilter
}

func mapPage(page *shared.Paginated[order.Order]) *shared.Paginated[OrderResponse] {
	return &shared.Paginated[OrderResponse]{
		Items:      ToOrderResponses(page.Items),
		Total:      page.Total,
		Page:       page.Page,
		PageSize:   page.PageSize,
		TotalPages: page.TotalPages,
	}
}
