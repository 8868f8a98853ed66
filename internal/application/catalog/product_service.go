package catalog

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/storefront/backend/internal/domain/catalog"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/domain/shared/valueobject"
)

// allowed content types for product images
var imageContentTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

const imageUploadExpiration = 15 * time.Minute

// ProductService handles product browsing and administration
type ProductService struct {
	productRepo       catalog.ProductRepository
	categoryRepo      catalog.CategoryRepository
	images            ImageStorage
	newArrivalsWindow time.Duration
}

// NewProductService creates a new ProductService
func NewProductService(
	productRepo catalog.ProductRepository,
	categoryRepo catalog.CategoryRepository,
	images ImageStorage,
	newArrivalsWindow time.Duration,
) *ProductService {
	if newArrivalsWindow <= 0 {
		newArrivalsWindow = 30 * 24 * time.Hour
	}
	return &ProductService{
		productRepo:       productRepo,
		categoryRepo:      categoryRepo,
		images:            images,
		newArrivalsWindow: newArrivalsWindow,
	}
}

// ============================================================================
// Storefront browsing
// ============================================================================

// Browse lists active products for shoppers
func (s *ProductService) Browse(ctx context.Context, filter ProductListFilter) ([]ProductResponse, int64, error) {
	domainFilter := s.toDomainFilter(filter)

	products, err := s.productRepo.FindActive(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	countFilter := domainFilter
	countFilter.Filters["status"] = string(catalog.ProductStatusActive)
	total, err := s.productRepo.Count(ctx, countFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToProductResponses(products), total, nil
}

// GetForShopper retrieves a single product visible to shoppers.
// Non-active products are reported as not found.
func (s *ProductService) GetForShopper(ctx context.Context, productID uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product.Status != catalog.ProductStatusActive {
		return nil, shared.ErrNotFound
	}

	response := ToProductResponse(product)
	return &response, nil
}

// BrowseByCategory lists active products in a category
func (s *ProductService) BrowseByCategory(ctx context.Context, categoryID uuid.UUID, filter ProductListFilter) ([]ProductResponse, int64, error) {
	category, err := s.categoryRepo.FindByID(ctx, categoryID)
	if err != nil {
		return nil, 0, err
	}
	if !category.IsActive() {
		return nil, 0, shared.ErrNotFound
	}

	domainFilter := s.toDomainFilter(filter)
	products, err := s.productRepo.FindByCategory(ctx, categoryID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	countFilter := domainFilter
	countFilter.Filters["status"] = string(catalog.ProductStatusActive)
	countFilter.Filters["category_id"] = categoryID
	total, err := s.productRepo.Count(ctx, countFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToProductResponses(products), total, nil
}

// NewArrivals lists recently added active products
func (s *ProductService) NewArrivals(ctx context.Context, filter ProductListFilter) ([]ProductResponse, error) {
	domainFilter := s.toDomainFilter(filter)
	domainFilter.Filters["created_after"] = time.Now().Add(-s.newArrivalsWindow)
	domainFilter.OrderBy = "created_at"
	domainFilter.OrderDir = "desc"

	products, err := s.productRepo.FindActive(ctx, domainFilter)
	if err != nil {
		return nil, err
	}
	return ToProductResponses(products), nil
}

// Deals lists active products with a markdown from their compare-at price
func (s *ProductService) Deals(ctx context.Context, filter ProductListFilter) ([]ProductResponse, error) {
	products, err := s.productRepo.FindDiscounted(ctx, s.toDomainFilter(filter))
	if err != nil {
		return nil, err
	}
	return ToProductResponses(products), nil
}

// ============================================================================
// Administration
// ============================================================================

// Create creates a new product in draft status
func (s *ProductService) Create(ctx context.Context, req CreateProductRequest) (*ProductResponse, error) {
	exists, err := s.productRepo.ExistsByCode(ctx, req.Code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Product with this code already exists")
	}

	if req.CategoryID != nil {
		if _, err := s.categoryRepo.FindByID(ctx, *req.CategoryID); err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return nil, shared.NewDomainError("INVALID_CATEGORY", "Category not found")
			}
			return nil, err
		}
	}

	price, err := valueobject.NewMoney(req.Price, valueobject.USD)
	if err != nil {
		return nil, err
	}

	product, err := catalog.NewProduct(req.Code, req.Name, price)
	if err != nil {
		return nil, err
	}

	if req.Description != "" {
		if err := product.Update(req.Name, req.Description); err != nil {
			return nil, err
		}
	}
	if req.CategoryID != nil {
		product.SetCategory(req.CategoryID)
	}
	if req.CompareAtPrice != nil {
		compareAt, err := valueobject.NewMoney(*req.CompareAtPrice, valueobject.USD)
		if err != nil {
			return nil, err
		}
		if err := product.SetCompareAtPrice(&compareAt); err != nil {
			return nil, err
		}
	}
	if req.Quantity != nil {
		if err := product.SetQuantity(*req.Quantity); err != nil {
			return nil, err
		}
	}
	if req.MinStock != nil {
		if err := product.SetMinStock(*req.MinStock); err != nil {
			return nil, err
		}
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	response := ToProductResponse(product)
	return &response, nil
}

// GetByID retrieves a product regardless of status (admin view)
func (s *ProductService) GetByID(ctx context.Context, productID uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	response := ToProductResponse(product)
	return &response, nil
}

// List retrieves products with filtering and pagination (admin view)
func (s *ProductService) List(ctx context.Context, filter ProductListFilter) ([]ProductResponse, int64, error) {
	domainFilter := s.toDomainFilter(filter)

	products, err := s.productRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.productRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToProductResponses(products), total, nil
}

// Update updates a product
func (s *ProductService) Update(ctx context.Context, productID uuid.UUID, req UpdateProductRequest) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil || req.Description != nil {
		name := product.Name
		description := product.Description
		if req.Name != nil {
			name = *req.Name
		}
		if req.Description != nil {
			description = *req.Description
		}
		if err := product.Update(name, description); err != nil {
			return nil, err
		}
	}

	if req.CategoryID != nil {
		if _, err := s.categoryRepo.FindByID(ctx, *req.CategoryID); err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return nil, shared.NewDomainError("INVALID_CATEGORY", "Category not found")
			}
			return nil, err
		}
		product.SetCategory(req.CategoryID)
	}

	if req.Price != nil {
		price, err := valueobject.NewMoney(*req.Price, valueobject.USD)
		if err != nil {
			return nil, err
		}
		if err := product.SetPrice(price); err != nil {
			return nil, err
		}
	}

	if req.ClearCompareAt {
		if err := product.SetCompareAtPrice(nil); err != nil {
			return nil, err
		}
	} else if req.CompareAtPrice != nil {
		compareAt, err := valueobject.NewMoney(*req.CompareAtPrice, valueobject.USD)
		if err != nil {
			return nil, err
		}
		if err := product.SetCompareAtPrice(&compareAt); err != nil {
			return nil, err
		}
	}

	if req.Quantity != nil {
		if err := product.SetQuantity(*req.Quantity); err != nil {
			return nil, err
		}
	}
	if req.MinStock != nil {
		if err := product.SetMinStock(*req.MinStock); err != nil {
			return nil, err
		}
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	response := ToProductResponse(product)
	return &response, nil
}

// Activate makes a product visible and sellable
func (s *ProductService) Activate(ctx context.Context, productID uuid.UUID) (*ProductResponse, error) {
	return s.transition(ctx, productID, (*catalog.Product).Activate)
}

// Suspend temporarily removes a product from sale
func (s *ProductService) Suspend(ctx context.Context, productID uuid.UUID) (*ProductResponse, error) {
	return s.transition(ctx, productID, (*catalog.Product).Suspend)
}

// Reactivate restores a suspended product
func (s *ProductService) Reactivate(ctx context.Context, productID uuid.UUID) (*ProductResponse, error) {
	return s.transition(ctx, productID, (*catalog.Product).Reactivate)
}

// Revoke permanently removes a product from sale
func (s *ProductService) Revoke(ctx context.Context, productID uuid.UUID) (*ProductResponse, error) {
	return s.transition(ctx, productID, (*catalog.Product).Revoke)
}

func (s *ProductService) transition(ctx context.Context, productID uuid.UUID, fn func(*catalog.Product) error) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	if err := fn(product); err != nil {
		return nil, err
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	response := ToProductResponse(product)
	return &response, nil
}

// RequestImageUpload issues a presigned upload URL for a product image
func (s *ProductService) RequestImageUpload(ctx context.Context, productID uuid.UUID, req ImageUploadRequest) (*ImageUploadResponse, error) {
	if s.images == nil {
		return nil, shared.NewDomainError("STORAGE_DISABLED", "Image storage is not configured")
	}

	ext, ok := imageContentTypes[strings.ToLower(req.ContentType)]
	if !ok {
		return nil, shared.NewDomainError("UNSUPPORTED_MEDIA_TYPE", fmt.Sprintf("Content type %q is not allowed for product images", req.ContentType))
	}

	if _, err := s.productRepo.FindByID(ctx, productID); err != nil {
		return nil, err
	}

	if e := path.Ext(req.FileName); e != "" {
		ext = strings.ToLower(e)
	}
	storageKey := fmt.Sprintf("products/%s/%s%s", productID, uuid.New(), ext)

	uploadURL, expiresAt, err := s.images.GenerateUploadURL(ctx, storageKey, req.ContentType, imageUploadExpiration)
	if err != nil {
		return nil, err
	}

	return &ImageUploadResponse{
		UploadURL:  uploadURL,
		StorageKey: storageKey,
		PublicURL:  s.images.PublicURL(storageKey),
		ExpiresAt:  expiresAt,
	}, nil
}

// ConfirmImage records an uploaded image on the product
func (s *ProductService) ConfirmImage(ctx context.Context, productID uuid.UUID, storageKey string) (*ProductResponse, error) {
	if s.images == nil {
		return nil, shared.NewDomainError("STORAGE_DISABLED", "Image storage is not configured")
	}
	if !strings.HasPrefix(storageKey, fmt.Sprintf("products/%s/", productID)) {
		return nil, shared.NewDomainError("INVALID_STORAGE_KEY", "Storage key does not belong to this product")
	}

	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	exists, err := s.images.ObjectExists(ctx, storageKey)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, shared.NewDomainError("IMAGE_NOT_UPLOADED", "No uploaded image found for this key")
	}

	if err := product.SetImageURL(s.images.PublicURL(storageKey)); err != nil {
		return nil, err
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	response := ToProductResponse(product)
	return &response, nil
}

func (s *ProductService) toDomainFilter(filter ProductListFilter) shared.Filter {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
		Filters:  make(map[string]interface{}),
	}

	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}
	if filter.CategoryID != nil {
		domainFilter.Filters["category_id"] = *filter.CategoryID
	}
	if filter.InStock != nil {
		domainFilter.Filters["in_stock"] = *filter.InStock
	}
	if filter.MinPrice != nil {
		domainFilter.Filters["min_price"] = *filter.MinPrice
	}
	if filter.MaxPrice != nil {
		domainFilter.Filters["max_price"] = *filter.MaxPrice
	}

	return domainFilter
}
