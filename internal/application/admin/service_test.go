package admin

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	identityapp "github.com/storefront/backend/internal/application/identity"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
)

func newTestService(t *testing.T) (*Service, *MockOrderRepository, *MockProductRepository, *MockUserRepository) {
	t.Helper()
	mockOrderRepo := new(MockOrderRepository)
	mockProductRepo := new(MockProductRepository)
	mockUserRepo := new(MockUserRepository)
	return NewService(mockOrderRepo, mockProductRepo, mockUserRepo), mockOrderRepo, mockProductRepo, mockUserRepo
}

func lowStockProduct(t *testing.T, code, name string, quantity, minStock int64) catalog.Product {
	t.Helper()
	product, err := catalog.NewProduct(code, name, valueobject.NewMoneyUSDFromFloat(9.99))
	assert.NoError(t, err)
	assert.NoError(t, product.SetQuantity(quantity))
	assert.NoError(t, product.SetMinStock(minStock))
	return *product
}

func TestAdminService_Dashboard_AggregatesAllSources(t *testing.T) {
	service, mockOrderRepo, mockProductRepo, mockUserRepo := newTestService(t)
	ctx := context.Background()

	mockOrderRepo.On("Count", ctx).Return(int64(42), nil)
	mockOrderRepo.On("CountByStatus", ctx).Return([]order.StatusCount{
		{Status: order.OrderStatusPending, Count: 5},
		{Status: order.OrderStatusDelivered, Count: 30},
		{Status: order.OrderStatusCancelled, Count: 7},
	}, nil)
	mockOrderRepo.On("RevenueSince", ctx, mock.Anything).Return(decimal.NewFromInt(1250), nil).Times(3)
	mockUserRepo.On("Count", ctx).Return(int64(100), nil)
	mockProductRepo.On("Count", ctx, mock.Anything).Return(int64(20), nil)
	mockProductRepo.On("CountByStatus", ctx, catalog.ProductStatusActive).Return(int64(15), nil)
	mockProductRepo.On("FindBelowMinStock", ctx).Return([]catalog.Product{
		lowStockProduct(t, "WIDGET-001", "Widget", 2, 10),
	}, nil)

	response, err := service.Dashboard(ctx)

	assert.NoError(t, err)
	assert.Equal(t, int64(42), response.Orders.Total)
	assert.Equal(t, int64(5), response.Orders.ByStatus["pending"])
	assert.Equal(t, int64(30), response.Orders.ByStatus["delivered"])
	assert.True(t, response.Revenue.Today.Equal(decimal.NewFromInt(1250)))
	assert.Equal(t, int64(100), response.Users.Total)
	assert.Equal(t, int64(20), response.Products.Total)
	assert.Equal(t, int64(15), response.Products.Active)
	assert.Equal(t, int64(1), response.Products.BelowMinStock)
	mockOrderRepo.AssertExpectations(t)
}

func TestAdminService_RestockReport_ComputesShortfall(t *testing.T) {
	service, _, mockProductRepo, _ := newTestService(t)
	ctx := context.Background()

	mockProductRepo.On("FindBelowMinStock", ctx).Return([]catalog.Product{
		lowStockProduct(t, "WIDGET-001", "Widget", 2, 10),
		lowStockProduct(t, "GADGET-001", "Gadget", 0, 5),
	}, nil)

	report, err := service.RestockReport(ctx)

	assert.NoError(t, err)
	assert.Len(t, report, 2)
	assert.Equal(t, "WIDGET-001", report[0].Code)
	assert.Equal(t, int64(8), report[0].Shortfall)
	assert.Equal(t, int64(5), report[1].Shortfall)
}

func TestAdminService_ListUsers_AppliesRoleFilter(t *testing.T) {
	service, _, _, mockUserRepo := newTestService(t)
	ctx := context.Background()

	user, err := identity.NewUser("shopper@example.com", "s3cretpass", "Test Shopper")
	assert.NoError(t, err)

	page := shared.NewPaginated([]identity.User{*user}, 1, 1, 20)
	mockUserRepo.On("FindAll", ctx, mock.MatchedBy(func(filter shared.Filter) bool {
		return filter.Filters["role"] == "customer" && filter.Page == 1 && filter.PageSize == 20
	})).Return(&page, nil)

	result, err := service.ListUsers(ctx, identityapp.UserListFilter{Role: "customer"})

	assert.NoError(t, err)
	assert.Equal(t, int64(1), result.Total)
	assert.Equal(t, "shopper@example.com", result.Items[0].Email)
	mockUserRepo.AssertExpectations(t)
}

func TestAdminService_DeactivateUser_Success(t *testing.T) {
	service, _, _, mockUserRepo := newTestService(t)
	ctx := context.Background()

	user, err := identity.NewUser("shopper@example.com", "s3cretpass", "Test Shopper")
	assert.NoError(t, err)

	mockUserRepo.On("FindByID", ctx, user.ID).Return(user, nil)
	mockUserRepo.On("Save", ctx, user).Return(nil)

	response, err := service.DeactivateUser(ctx, user.ID)

	assert.NoError(t, err)
	assert.Equal(t, "deactivated", response.Status)
}

func TestAdminService_ActivateUser_RestoresAccess(t *testing.T) {
	service, _, _, mockUserRepo := newTestService(t)
	ctx := context.Background()

	user, err := identity.NewUser("shopper@example.com", "s3cretpass", "Test Shopper")
	assert.NoError(t, err)
	assert.NoError(t, user.Deactivate())

	mockUserRepo.On("FindByID", ctx, user.ID).Return(user, nil)
	mockUserRepo.On("Save", ctx, user).Return(nil)

	response, err := service.ActivateUser(ctx, user.ID)

	assert.NoError(t, err)
	assert.Equal(t, "active", response.Status)
}
