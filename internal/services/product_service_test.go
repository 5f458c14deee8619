package services_test

import (
	"context"
	"testing"

	"github.com/tech-jay13/PMS/internal/models"
	"github.com/tech-jay13/PMS/internal/repositories"
	"github.com/tech-jay13/PMS/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockProductRepository is a mock implementation of repositories.ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockProductRepository) Create(ctx context.Context, product *models.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) Update(ctx context.Context, id string, update models.ProductUpdate) (*models.Product, error) {
	args := m.Called(ctx, id, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockProductRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockProductRepository) List(ctx context.Context, filter repositories.ProductFilter, offset, limit int64) ([]models.Product, int64, error) {
	args := m.Called(ctx, filter, offset, limit)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]models.Product), args.Get(1).(int64), args.Error(2)
}

func floatPtr(v float64) *float64 {
	return &v
}

// MockEventPublisher is a mock implementation of services.EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(exchange, routingKey string, body []byte) error {
	args := m.Called(exchange, routingKey, body)
	return args.Error(0)
}

func TestProductService_CreateProduct(t *testing.T) {
	mockRepo := new(MockProductRepository)
	mockEvents := new(MockEventPublisher)
	service := services.NewProductService(mockRepo, mockEvents)

	newProduct := &models.Product{
		ID:                 "p1",
		ProductName:        "Widget",
		ProductDescription: "A widget",
		Price:              floatPtr(9.99),
		Category:           "tools",
		StockQuantity:      5,
	}

	// Test successful creation: timestamps are stamped before the store call
	mockRepo.On("Create", mock.Anything, newProduct).Return(nil).Once()
	mockEvents.On("Publish", "product", "product.created", mock.Anything).Return(nil).Once()

	created, err := service.CreateProduct(context.Background(), newProduct)
	assert.NoError(t, err)
	assert.False(t, created.CreatedAt.IsZero())
	assert.Equal(t, created.CreatedAt, created.UpdatedAt)
	mockRepo.AssertExpectations(t)
	mockEvents.AssertExpectations(t)

	// Test duplicate ID: the store error passes through and no event is published
	mockRepo.On("Create", mock.Anything, newProduct).Return(repositories.ErrProductExists).Once()
	created, err = service.CreateProduct(context.Background(), newProduct)
	assert.Nil(t, created)
	assert.ErrorIs(t, err, repositories.ErrProductExists)
	mockRepo.AssertExpectations(t)
	mockEvents.AssertExpectations(t)
}

func TestProductService_GetProductByID(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo, nil)

	expectedProduct := &models.Product{ID: "p1", ProductName: "Widget", Price: floatPtr(9.99)}

	// Test successful retrieval
	mockRepo.On("GetByID", mock.Anything, "p1").Return(expectedProduct, nil).Once()
	product, err := service.GetProductByID(context.Background(), "p1")
	assert.NoError(t, err)
	assert.Equal(t, expectedProduct, product)
	mockRepo.AssertExpectations(t)

	// Test product not found
	mockRepo.On("GetByID", mock.Anything, "missing").Return(nil, repositories.ErrProductNotFound).Once()
	product, err = service.GetProductByID(context.Background(), "missing")
	assert.Nil(t, product)
	assert.ErrorIs(t, err, repositories.ErrProductNotFound)
	mockRepo.AssertExpectations(t)
}

func TestProductService_UpdateProduct(t *testing.T) {
	mockRepo := new(MockProductRepository)
	mockEvents := new(MockEventPublisher)
	service := services.NewProductService(mockRepo, mockEvents)

	newPrice := 12.5
	update := models.ProductUpdate{Price: &newPrice}
	updatedProduct := &models.Product{ID: "p1", ProductName: "Widget", Price: floatPtr(12.5)}

	// Test successful update
	mockRepo.On("Update", mock.Anything, "p1", update).Return(updatedProduct, nil).Once()
	mockEvents.On("Publish", "product", "product.updated", mock.Anything).Return(nil).Once()

	product, err := service.UpdateProduct(context.Background(), "p1", update)
	assert.NoError(t, err)
	assert.Equal(t, updatedProduct, product)
	mockRepo.AssertExpectations(t)
	mockEvents.AssertExpectations(t)

	// Test update of a missing product: no event is published
	mockRepo.On("Update", mock.Anything, "missing", update).Return(nil, repositories.ErrProductNotFound).Once()
	product, err = service.UpdateProduct(context.Background(), "missing", update)
	assert.Nil(t, product)
	assert.ErrorIs(t, err, repositories.ErrProductNotFound)
	mockRepo.AssertExpectations(t)
	mockEvents.AssertExpectations(t)
}

func TestProductService_DeleteProduct(t *testing.T) {
	mockRepo := new(MockProductRepository)
	mockEvents := new(MockEventPublisher)
	service := services.NewProductService(mockRepo, mockEvents)

	// Test successful deletion
	mockRepo.On("Delete", mock.Anything, "p1").Return(nil).Once()
	mockEvents.On("Publish", "product", "product.deleted", mock.Anything).Return(nil).Once()
	err := service.DeleteProduct(context.Background(), "p1")
	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
	mockEvents.AssertExpectations(t)

	// Test deletion of a missing product
	mockRepo.On("Delete", mock.Anything, "missing").Return(repositories.ErrProductNotFound).Once()
	err = service.DeleteProduct(context.Background(), "missing")
	assert.ErrorIs(t, err, repositories.ErrProductNotFound)
	mockRepo.AssertExpectations(t)
	mockEvents.AssertExpectations(t)
}

func TestProductService_ListProducts(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo, nil)

	category := "tools"
	filter := repositories.ProductFilter{Category: &category}
	products := []models.Product{
		{ID: "p1", ProductName: "Widget", Category: "tools"},
		{ID: "p2", ProductName: "Gadget", Category: "tools"},
	}

	// Page 2 with limit 10 translates to offset 10
	mockRepo.On("List", mock.Anything, filter, int64(10), int64(10)).Return(products, int64(12), nil).Once()

	page, err := service.ListProducts(context.Background(), filter, 2, 10)
	assert.NoError(t, err)
	assert.Equal(t, int64(12), page.Total)
	assert.Equal(t, 2, page.Page)
	assert.Equal(t, 10, page.Limit)
	assert.Len(t, page.Products, 2)
	mockRepo.AssertExpectations(t)
}

func TestProductService_ListProducts_ClampsPageWindow(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo, nil)

	filter := repositories.ProductFilter{}

	// page and limit below 1 fall back to page 1 / default limit 10
	mockRepo.On("List", mock.Anything, filter, int64(0), int64(10)).Return([]models.Product{}, int64(0), nil).Once()
	page, err := service.ListProducts(context.Background(), filter, 0, -5)
	assert.NoError(t, err)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 10, page.Limit)
	mockRepo.AssertExpectations(t)

	// oversized limit is clamped to 100
	mockRepo.On("List", mock.Anything, filter, int64(0), int64(100)).Return([]models.Product{}, int64(0), nil).Once()
	page, err = service.ListProducts(context.Background(), filter, 1, 5000)
	assert.NoError(t, err)
	assert.Equal(t, 100, page.Limit)
	mockRepo.AssertExpectations(t)
}

func TestProductService_PublishFailureDoesNotFailOperation(t *testing.T) {
	mockRepo := new(MockProductRepository)
	mockEvents := new(MockEventPublisher)
	service := services.NewProductService(mockRepo, mockEvents)

	mockRepo.On("Delete", mock.Anything, "p1").Return(nil).Once()
	mockEvents.On("Publish", "product", "product.deleted", mock.Anything).Return(assert.AnError).Once()

	err := service.DeleteProduct(context.Background(), "p1")
	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
	mockEvents.AssertExpectations(t)
}
