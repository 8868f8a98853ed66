package cart

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
)

// Service handles shopping cart operations
type Service struct {
	cartRepo    cart.CartRepository
	productRepo catalog.ProductRepository
}

// NewService creates a new cart Service
func NewService(cartRepo cart.CartRepository, productRepo catalog.ProductRepository) *Service {
	return &Service{
		cartRepo:    cartRepo,
		productRepo: productRepo,
	}
}

// Get returns the user's cart priced at current catalog prices.
// Lines whose product left the catalog are dropped and reported.
func (s *Service) Get(ctx context.Context, userID uuid.UUID) (*CartResponse, error) {
	c, err := s.loadOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	return s.summarize(ctx, c)
}

// AddItem adds a product to the cart, merging into an existing line
func (s *Service) AddItem(ctx context.Context, userID uuid.UUID, req AddItemRequest) (*CartResponse, error) {
	product, err := s.sellableProduct(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}

	c, err := s.loadOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := c.AddItem(product.ID, req.Quantity, product.Quantity); err != nil {
		return nil, err
	}

	if err := s.cartRepo.Save(ctx, c); err != nil {
		return nil, err
	}

	return s.summarize(ctx, c)
}

// UpdateItem sets a line to an absolute quantity; zero removes the line
func (s *Service) UpdateItem(ctx context.Context, userID, productID uuid.UUID, quantity int64) (*CartResponse, error) {
	c, err := s.cartRepo.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	available := int64(0)
	if quantity > 0 {
		product, err := s.sellableProduct(ctx, productID)
		if err != nil {
			return nil, err
		}
		available = product.Quantity
	}

	if err := c.SetItemQuantity(productID, quantity, available); err != nil {
		return nil, err
	}

	if err := s.cartRepo.Save(ctx, c); err != nil {
		return nil, err
	}

	return s.summarize(ctx, c)
}

// RemoveItem removes a line from the cart. Removing an absent product
// is a no-op.
func (s *Service) RemoveItem(ctx context.Context, userID, productID uuid.UUID) (*CartResponse, error) {
	c, err := s.cartRepo.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	c.RemoveItem(productID)

	if err := s.cartRepo.Save(ctx, c); err != nil {
		return nil, err
	}

	return s.summarize(ctx, c)
}

// Clear removes every line from the cart
func (s *Service) Clear(ctx context.Context, userID uuid.UUID) (*CartResponse, error) {
	c, err := s.cartRepo.FindByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			c, err = s.loadOrCreate(ctx, userID)
			if err != nil {
				return nil, err
			}
			return s.summarize(ctx, c)
		}
		return nil, err
	}

	c.Clear()

	if err := s.cartRepo.Save(ctx, c); err != nil {
		return nil, err
	}

	return s.summarize(ctx, c)
}

func (s *Service) loadOrCreate(ctx context.Context, userID uuid.UUID) (*cart.Cart, error) {
	c, err := s.cartRepo.FindByUser(ctx, userID)
	if err == nil {
		return c, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	c, err = cart.NewCart(userID)
	if err != nil {
		return nil, err
	}
	if err := s.cartRepo.Save(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Service) sellableProduct(ctx context.Context, productID uuid.UUID) (*catalog.Product, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if !product.IsSellable() {
		return nil, shared.NewDomainError("PRODUCT_UNAVAILABLE", "Product is not available for sale")
	}
	return product, nil
}

// summarize prices the cart against the current catalog, pruning lines
// whose product is gone or withdrawn from sale
func (s *Service) summarize(ctx context.Context, c *cart.Cart) (*CartResponse, error) {
	response := &CartResponse{
		ID:        c.ID,
		Items:     make([]ItemResponse, 0, len(c.Items)),
		Subtotal:  decimal.Zero,
		UpdatedAt: c.UpdatedAt,
	}

	if c.IsEmpty() {
		return response, nil
	}

	ids := make([]uuid.UUID, 0, len(c.Items))
	for _, item := range c.Items {
		ids = append(ids, item.ProductID)
	}

	products, err := s.productRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	byID := make(map[uuid.UUID]*catalog.Product, len(products))
	keep := make(map[uuid.UUID]bool, len(products))
	for i := range products {
		p := &products[i]
		byID[p.ID] = p
		keep[p.ID] = p.IsSellable()
	}

	var removed []uuid.UUID
	for _, item := range c.Items {
		if !keep[item.ProductID] {
			removed = append(removed, item.ProductID)
		}
	}

	if c.Prune(keep) {
		if err := s.cartRepo.Save(ctx, c); err != nil {
			return nil, err
		}
	}

	for _, item := range c.Items {
		product := byID[item.ProductID]
		lineTotal := product.Price.Mul(decimal.NewFromInt(item.Quantity))
		response.Items = append(response.Items, ItemResponse{
			ProductID:   item.ProductID,
			ProductName: product.Name,
			Price:       product.Price,
			Quantity:    item.Quantity,
			LineTotal:   lineTotal,
			ImageURL:    product.ImageURL,
			Available:   product.Quantity,
		})
		response.Subtotal = response.Subtotal.Add(lineTotal)
	}

	response.TotalItems = c.TotalItems()
	response.RemovedProducts = removed
	return response, nil
}
