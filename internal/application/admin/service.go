package admin

import (
	"context"
	"time"

	"github.com/google/uuid"

	identityapp "github.com/storefront/backend/internal/application/identity"
	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/domain/order"
	"github.com/storefront/backend/internal/domain/shared"
)

// Service aggregates reporting and user administration
type Service struct {
	orderRepo   order.OrderRepository
	productRepo catalog.ProductRepository
	userRepo    identity.UserRepository
}

// NewService creates a new admin Service
func NewService(orderRepo order.OrderRepository, productRepo catalog.ProductRepository, userRepo identity.UserRepository) *Service {
	return &Service{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		userRepo:    userRepo,
	}
}

// Dashboard builds the admin overview
func (s *Service) Dashboard(ctx context.Context) (*DashboardResponse, error) {
	now := time.Now()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	totalOrders, err := s.orderRepo.Count(ctx)
	if err != nil {
		return nil, err
	}

	statusCounts, err := s.orderRepo.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	byStatus := make(map[string]int64, len(statusCounts))
	for _, sc := range statusCounts {
		byStatus[string(sc.Status)] = sc.Count
	}

	today, err := s.orderRepo.RevenueSince(ctx, startOfDay)
	if err != nil {
		return nil, err
	}
	week, err := s.orderRepo.RevenueSince(ctx, now.AddDate(0, 0, -7))
	if err != nil {
		return nil, err
	}
	month, err := s.orderRepo.RevenueSince(ctx, now.AddDate(0, 0, -30))
	if err != nil {
		return nil, err
	}

	userTotal, err := s.userRepo.Count(ctx)
	if err != nil {
		return nil, err
	}

	productTotal, err := s.productRepo.Count(ctx, shared.DefaultFilter())
	if err != nil {
		return nil, err
	}
	activeProducts, err := s.productRepo.CountByStatus(ctx, catalog.ProductStatusActive)
	if err != nil {
		return nil, err
	}
	lowStock, err := s.productRepo.FindBelowMinStock(ctx)
	if err != nil {
		return nil, err
	}

	return &DashboardResponse{
		Orders: OrderStats{
			Total:    totalOrders,
			ByStatus: byStatus,
		},
		Revenue: RevenueStats{
			Today:      today,
			Last7Days:  week,
			Last30Days: month,
		},
		Users: UserStats{Total: userTotal},
		Products: ProductStats{
			Total:         productTotal,
			Active:        activeProducts,
			BelowMinStock: int64(len(lowStock)),
		},
	}, nil
}

// RevenueByDay returns paid revenue per calendar day for the last n days
func (s *Service) RevenueByDay(ctx context.Context, days int) ([]DailyRevenueResponse, error) {
	if days <= 0 {
		days = 30
	}

	rows, err := s.orderRepo.RevenueByDay(ctx, time.Now().AddDate(0, 0, -days))
	if err != nil {
		return nil, err
	}

	responses := make([]DailyRevenueResponse, len(rows))
	for i, row := range rows {
		responses[i] = DailyRevenueResponse{
			Day:     row.Day,
			Orders:  row.Orders,
			Revenue: row.Revenue,
		}
	}
	return responses, nil
}

// RestockReport lists products at or below their reorder threshold
func (s *Service) RestockReport(ctx context.Context) ([]RestockItemResponse, error) {
	products, err := s.productRepo.FindBelowMinStock(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]RestockItemResponse, len(products))
	for i := range products {
		p := &products[i]
		responses[i] = RestockItemResponse{
			ProductID: p.ID,
			Code:      p.Code,
			Name:      p.Name,
			Quantity:  p.Quantity,
			MinStock:  p.MinStock,
			Shortfall: p.MinStock - p.Quantity,
		}
	}
	return responses, nil
}

// ListUsers lists accounts for moderation
func (s *Service) ListUsers(ctx context.Context, filter identityapp.UserListFilter) (*shared.Paginated[identityapp.UserResponse], error) {
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
	if filter.Role != "" {
		domainFilter.Filters["role"] = filter.Role
	}
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}

	page, err := s.userRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, err
	}

	return &shared.Paginated[identityapp.UserResponse]{
		Items:      identityapp.ToUserResponses(page.Items),
		Total:      page.Total,
		Page:       page.Page,
		PageSize:   page.PageSize,
		TotalPages: page.TotalPages,
	}, nil
}

// DeactivateUser disables an account
func (s *Service) DeactivateUser(ctx context.Context, userID uuid.UUID) (*identityapp.UserResponse, error) {
	return s.setUserState(ctx, userID, (*identity.User).Deactivate)
}

// ActivateUser re-enables a deactivated account
func (s *Service) ActivateUser(ctx context.Context, userID uuid.UUID) (*identityapp.UserResponse, error) {
	return s.setUserState(ctx, userID, (*identity.User).Activate)
}

func (s *Service) setUserState(ctx context.Context, userID uuid.UUID, fn func(*identity.User) error) (*identityapp.UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := fn(user); err != nil {
		return nil, err
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}

	response := identityapp.ToUserResponse(user)
	return &response, nil
}
