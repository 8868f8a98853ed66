package cart

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/storefront/backend/internal/domain/cart"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
)

func activeProduct(t *testing.T, code string, price float64, quantity int64) *catalog.Product {
	t.Helper()
	product, err := catalog.NewProduct(code, "Product "+code, valueobject.NewMoneyUSDFromFloat(price))
	assert.NoError(t, err)
	assert.NoError(t, product.SetQuantity(quantity))
	assert.NoError(t, product.Activate())
	return product
}

func cartWith(t *testing.T, userID uuid.UUID, product *catalog.Product, quantity int64) *cart.Cart {
	t.Helper()
	c, err := cart.NewCart(userID)
	assert.NoError(t, err)
	assert.NoError(t, c.AddItem(product.ID, quantity, product.Quantity))
	return c
}

func TestCartService_AddItem_CreatesCartOnFirstAdd(t *testing.T) {
	mockCartRepo := new(MockCartRepository)
	mockProductRepo := new(MockProductRepository)
	service := NewService(mockCartRepo, mockProductRepo)

	ctx := context.Background()
	userID := uuid.New()
	product := activeProduct(t, "A-1", 25.00, 10)

	mockProductRepo.On("FindByID", ctx, product.ID).Return(product, nil)
	mockCartRepo.On("FindByUser", ctx, userID).Return(nil, shared.ErrNotFound).Once()
	mockCartRepo.On("Save", ctx, mock.AnythingOfType("*cart.Cart")).Return(nil)
	mockProductRepo.On("FindByIDs", ctx, mock.Anything).Return([]catalog.Product{*product}, nil)

	result, err := service.AddItem(ctx, userID, AddItemRequest{ProductID: product.ID, Quantity: 2})

	assert.NoError(t, err)
	assert.Len(t, result.Items, 1)
	assert.Equal(t, int64(2), result.Items[0].Quantity)
	assert.True(t, result.Subtotal.Equal(decimal.NewFromInt(50)))
	mockCartRepo.AssertExpectations(t)
}

func TestCartService_AddItem_MergesExistingLine(t *testing.T) {
	mockCartRepo := new(MockCartRepository)
	mockProductRepo := new(MockProductRepository)
	service := NewService(mockCartRepo, mockProductRepo)

	ctx := context.Background()
	userID := uuid.New()
	product := activeProduct(t, "A-1", 10.00, 10)
	existing := cartWith(t, userID, product, 3)

	mockProductRepo.On("FindByID", ctx, product.ID).Return(product, nil)
	mockCartRepo.On("FindByUser", ctx, userID).Return(existing, nil)
	mockCartRepo.On("Save", ctx, existing).Return(nil)
	mockProductRepo.On("FindByIDs", ctx, mock.Anything).Return([]catalog.Product{*product}, nil)

	result, err := service.AddItem(ctx, userID, AddItemRequest{ProductID: product.ID, Quantity: 4})

	assert.NoError(t, err)
	assert.Len(t, result.Items, 1)
	assert.Equal(t, int64(7), result.Items[0].Quantity)
}

func TestCartService_AddItem_InsufficientStock(t *testing.T) {
	mockCartRepo := new(MockCartRepository)
	mockProductRepo := new(MockProductRepository)
	service := NewService(mockCartRepo, mockProductRepo)

	ctx := context.Background()
	userID := uuid.New()
	product := activeProduct(t, "A-1", 10.00, 3)
	existing := cartWith(t, userID, product, 2)

	mockProductRepo.On("FindByID", ctx, product.ID).Return(product, nil)
	mockCartRepo.On("FindByUser", ctx, userID).Return(existing, nil)

	result, err := service.AddItem(ctx, userID, AddItemRequest{ProductID: product.ID, Quantity: 2})

	assert.ErrorIs(t, err, shared.ErrInsufficientStock)
	assert.Nil(t, result)
	mockCartRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestCartService_AddItem_UnavailableProduct(t *testing.T) {
	mockCartRepo := new(MockCartRepository)
	mockProductRepo := new(MockProductRepository)
	service := NewService(mockCartRepo, mockProductRepo)

	ctx := context.Background()
	product, err := catalog.NewProduct("D-1", "Draft product", valueobject.NewMoneyUSDFromFloat(5))
	assert.NoError(t, err)

	mockProductRepo.On("FindByID", ctx, product.ID).Return(product, nil)

	result, err := service.AddItem(ctx, uuid.New(), AddItemRequest{ProductID: product.ID, Quantity: 1})

	assert.Error(t, err)
	assert.Nil(t, result)
	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "PRODUCT_UNAVAILABLE", domainErr.Code)
}

func TestCartService_Get_PrunesWithdrawnProducts(t *testing.T) {
	mockCartRepo := new(MockCartRepository)
	mockProductRepo := new(MockProductRepository)
	service := NewService(mockCartRepo, mockProductRepo)

	ctx := context.Background()
	userID := uuid.New()
	kept := activeProduct(t, "A-1", 10.00, 10)
	withdrawn := activeProduct(t, "B-1", 20.00, 10)

	c, err := cart.NewCart(userID)
	assert.NoError(t, err)
	assert.NoError(t, c.AddItem(kept.ID, 1, kept.Quantity))
	assert.NoError(t, c.AddItem(withdrawn.ID, 2, withdrawn.Quantity))
	assert.NoError(t, withdrawn.Revoke())

	mockCartRepo.On("FindByUser", ctx, userID).Return(c, nil)
	mockCartRepo.On("Save", ctx, c).Return(nil)
	mockProductRepo.On("FindByIDs", ctx, mock.Anything).Return([]catalog.Product{*kept, *withdrawn}, nil)

	result, err := service.Get(ctx, userID)

	assert.NoError(t, err)
	assert.Len(t, result.Items, 1)
	assert.Equal(t, kept.ID, result.Items[0].ProductID)
	assert.Equal(t, []uuid.UUID{withdrawn.ID}, result.RemovedProducts)
	mockCartRepo.AssertExpectations(t)
}

func TestCartService_UpdateItem_ZeroRemovesLine(t *testing.T) {
	mockCartRepo := new(MockCartRepository)
	mockProductRepo := new(MockProductRepository)
	service := NewService(mockCartRepo, mockProductRepo)

	ctx := context.Background()
	userID := uuid.New()
	product := activeProduct(t, "A-1", 10.00, 10)
	existing := cartWith(t, userID, product, 3)

	mockCartRepo.On("FindByUser", ctx, userID).Return(existing, nil)
	mockCartRepo.On("Save", ctx, existing).Return(nil)

	result, err := service.UpdateItem(ctx, userID, product.ID, 0)

	assert.NoError(t, err)
	assert.Empty(t, result.Items)
	assert.True(t, result.Subtotal.IsZero())
	mockProductRepo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}

func TestCartService_Get_EmptyCartForNewUser(t *testing.T) {
	mockCartRepo := new(MockCartRepository)
	mockProductRepo := new(MockProductRepository)
	service := NewService(mockCartRepo, mockProductRepo)

	ctx := context.Background()
	userID := uuid.New()

	mockCartRepo.On("FindByUser", ctx, userID).Return(nil, shared.ErrNotFound).Once()
	mockCartRepo.On("Save", ctx, mock.AnythingOfType("*cart.Cart")).Return(nil)

	result, err := service.Get(ctx, userID)

	assert.NoError(t, err)
	assert.Empty(t, result.Items)
	assert.Equal(t, int64(0), result.TotalItems)
}
