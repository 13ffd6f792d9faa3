package services

import (
	"context"

	"storefront/internal/models"
	"storefront/internal/repositories"
)

// DefaultPageSize is the number of products per catalog page.
const DefaultPageSize = 1

// ProductPage is one page of the catalog plus navigation metadata.
type ProductPage struct {
	Products        []models.Product `json:"products"`
	CurrentPage     int              `json:"current_page"`
	HasNextPage     bool             `json:"has_next_page"`
	HasPreviousPage bool             `json:"has_previous_page"`
	NextPage        int              `json:"next_page"`
	PreviousPage    int              `json:"previous_page"`
	LastPage        int              `json:"last_page"`
	TotalItems      int64            `json:"total_items"`
}

// ProductService handles business logic related to products.
type ProductService struct {
	repo     repositories.ProductRepository
	pageSize int
}

// NewProductService creates a new ProductService. A non-positive pageSize
// falls back to DefaultPageSize.
func NewProductService(repo repositories.ProductRepository, pageSize int) *ProductService {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &ProductService{
		repo:     repo,
		pageSize: pageSize,
	}
}

// PageSize returns the configured number of products per page.
func (s *ProductService) PageSize() int {
	return s.pageSize
}

// ListProducts returns the given 1-based page of the catalog. Pages below 1
// are treated as 1.
func (s *ProductService) ListProducts(ctx context.Context, page int) (*ProductPage, error) {
	if page < 1 {
		page = 1
	}

	total, err := s.repo.Count(ctx)
	if err != nil {
		return nil, storeError("count products", err)
	}
	products, err := s.repo.GetPage(ctx, (page-1)*s.pageSize, s.pageSize)
	if err != nil {
		return nil, storeError("list products", err)
	}

	size := int64(s.pageSize)
	return &ProductPage{
		Products:        products,
		CurrentPage:     page,
		HasNextPage:     int64(page)*size < total,
		HasPreviousPage: page > 1,
		NextPage:        page + 1,
		PreviousPage:    page - 1,
		LastPage:        int((total + size - 1) / size),
		TotalItems:      total,
	}, nil
}

// GetAllProducts retrieves all products.
func (s *ProductService) GetAllProducts(ctx context.Context) ([]models.Product, error) {
	products, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, storeError("list products", err)
	}
	return products, nil
}

// GetProductByID retrieves a single product by its ID.
func (s *ProductService) GetProductByID(ctx context.Context, id string) (*models.Product, error) {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, storeError("get product "+id, err)
	}
	return product, nil
}

// CreateProduct adds a product to the catalog.
func (s *ProductService) CreateProduct(ctx context.Context, product *models.Product) error {
	if err := s.repo.Create(ctx, product); err != nil {
		return storeError("create product", err)
	}
	return nil
}

// UpdateProduct updates an existing product. Orders already placed keep the
// values they were created with.
func (s *ProductService) UpdateProduct(ctx context.Context, product *models.Product) error {
	if err := s.repo.Update(ctx, product); err != nil {
		return storeError("update product "+product.ID, err)
	}
	return nil
}

// DeleteProduct deletes a product by its ID.
func (s *ProductService) DeleteProduct(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return storeError("delete product "+id, err)
	}
	return nil
}
