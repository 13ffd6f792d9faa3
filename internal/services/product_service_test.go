package services_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"storefront/internal/models"
	"storefront/internal/repositories"
	"storefront/internal/services"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockProductRepository is a mock implementation of repositories.ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) GetAll(ctx context.Context) ([]models.Product, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Product), args.Error(1)
}

func (m *MockProductRepository) GetPage(ctx context.Context, offset, limit int) ([]models.Product, error) {
	args := m.Called(offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Product), args.Error(1)
}

func (m *MockProductRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called()
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockProductRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockProductRepository) Create(ctx context.Context, product *models.Product) error {
	args := m.Called(product)
	return args.Error(0)
}

func (m *MockProductRepository) Update(ctx context.Context, product *models.Product) error {
	args := m.Called(product)
	return args.Error(0)
}

func (m *MockProductRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(id)
	return args.Error(0)
}

func TestProductService_ListProducts(t *testing.T) {
	ctx := context.Background()
	repo := repositories.NewMemoryProductRepository()
	for _, title := range []string{"A", "B", "C"} {
		require.NoError(t, repo.Create(ctx, &models.Product{Title: title, Price: decimal.NewFromInt(1)}))
	}
	service := services.NewProductService(repo, 1)

	page, err := service.ListProducts(ctx, 2)
	require.NoError(t, err)
	require.Len(t, page.Products, 1)
	assert.Equal(t, "B", page.Products[0].Title)
	assert.Equal(t, 2, page.CurrentPage)
	assert.True(t, page.HasNextPage)
	assert.True(t, page.HasPreviousPage)
	assert.Equal(t, 3, page.NextPage)
	assert.Equal(t, 1, page.PreviousPage)
	assert.Equal(t, 3, page.LastPage)
	assert.Equal(t, int64(3), page.TotalItems)

	last, err := service.ListProducts(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, "C", last.Products[0].Title)
	assert.False(t, last.HasNextPage)

	first, err := service.ListProducts(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, first.CurrentPage)
	assert.False(t, first.HasPreviousPage)
	assert.Equal(t, "A", first.Products[0].Title)

	beyond, err := service.ListProducts(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, beyond.Products)
	assert.False(t, beyond.HasNextPage)
}

func TestProductService_ListProductsPageSize(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo, 2)

	mockRepo.On("Count").Return(int64(5), nil).Once()
	mockRepo.On("GetPage", 2, 2).Return([]models.Product{{ID: "3"}, {ID: "4"}}, nil).Once()

	page, err := service.ListProducts(context.Background(), 2)
	require.NoError(t, err)
	assert.Len(t, page.Products, 2)
	assert.Equal(t, 3, page.LastPage)
	assert.True(t, page.HasNextPage)
	mockRepo.AssertExpectations(t)

	assert.Equal(t, services.DefaultPageSize, services.NewProductService(mockRepo, 0).PageSize())
}

func TestProductService_ListProductsEmptyCatalog(t *testing.T) {
	service := services.NewProductService(repositories.NewMemoryProductRepository(), 1)

	page, err := service.ListProducts(context.Background(), 1)
	require.NoError(t, err)
	assert.Empty(t, page.Products)
	assert.Equal(t, 0, page.LastPage)
	assert.False(t, page.HasNextPage)
}

func TestProductService_ListProductsStoreFailure(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo, 1)

	mockRepo.On("Count").Return(int64(0), errors.New("connection refused")).Once()

	_, err := service.ListProducts(context.Background(), 1)
	var storeErr *services.BackingStoreError
	require.ErrorAs(t, err, &storeErr)
	assert.Contains(t, err.Error(), "connection refused")
	mockRepo.AssertExpectations(t)
}

func TestProductService_GetAllProducts(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo, 1)

	expectedProducts := []models.Product{
		{ID: "1", Title: "Product A", Price: decimal.NewFromInt(10)},
		{ID: "2", Title: "Product B", Price: decimal.NewFromInt(20)},
	}

	mockRepo.On("GetAll").Return(expectedProducts, nil).Once()

	products, err := service.GetAllProducts(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, expectedProducts, products)
	mockRepo.AssertExpectations(t)
}

func TestProductService_GetProductByID(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo, 1)
	ctx := context.Background()

	expectedProduct := &models.Product{ID: "1", Title: "Product A", Price: decimal.NewFromInt(10)}

	mockRepo.On("GetByID", "1").Return(expectedProduct, nil).Once()
	product, err := service.GetProductByID(ctx, "1")
	assert.NoError(t, err)
	assert.Equal(t, expectedProduct, product)

	mockRepo.On("GetByID", "99").Return(nil, fmt.Errorf("product with ID 99 %w", repositories.ErrNotFound)).Once()
	product, err = service.GetProductByID(ctx, "99")
	assert.ErrorIs(t, err, services.ErrNotFound)
	assert.Nil(t, product)
	mockRepo.AssertExpectations(t)
}

func TestProductService_CreateProduct(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo, 1)
	ctx := context.Background()

	newProduct := &models.Product{Title: "New Product", Price: decimal.NewFromInt(50)}

	mockRepo.On("Create", newProduct).Return(nil).Once()
	assert.NoError(t, service.CreateProduct(ctx, newProduct))

	mockRepo.On("Create", newProduct).Return(fmt.Errorf("database error")).Once()
	err := service.CreateProduct(ctx, newProduct)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "database error")
	mockRepo.AssertExpectations(t)
}

func TestProductService_UpdateProduct(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo, 1)
	ctx := context.Background()

	updatedProduct := &models.Product{ID: "1", Title: "Product A Updated", Price: decimal.NewFromInt(12)}
	mockRepo.On("Update", updatedProduct).Return(nil).Once()
	assert.NoError(t, service.UpdateProduct(ctx, updatedProduct))

	missing := &models.Product{ID: "99", Title: "NonExistent"}
	mockRepo.On("Update", missing).Return(fmt.Errorf("product with ID 99 %w", repositories.ErrNotFound)).Once()
	assert.ErrorIs(t, service.UpdateProduct(ctx, missing), services.ErrNotFound)
	mockRepo.AssertExpectations(t)
}

func TestProductService_DeleteProduct(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo, 1)
	ctx := context.Background()

	mockRepo.On("Delete", "1").Return(nil).Once()
	assert.NoError(t, service.DeleteProduct(ctx, "1"))

	mockRepo.On("Delete", "99").Return(fmt.Errorf("product with ID 99 %w", repositories.ErrNotFound)).Once()
	assert.ErrorIs(t, service.DeleteProduct(ctx, "99"), services.ErrNotFound)
	mockRepo.AssertExpectations(t)
}
