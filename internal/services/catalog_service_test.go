package services_test

import (
	"testing"

	"pizzeria/internal/models"
	"pizzeria/internal/repositories"
	"pizzeria/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockProductRepository is a mock implementation of repositories.ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) GetAll() ([]models.Product, error) {
	args := m.Called()
	return args.Get(0).([]models.Product), args.Error(1)
}

func (m *MockProductRepository) GetByID(id string) (*models.Product, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockProductRepository) Create(product *models.Product) error {
	args := m.Called(product)
	return args.Error(0)
}

func (m *MockProductRepository) Update(product *models.Product) error {
	args := m.Called(product)
	return args.Error(0)
}

func (m *MockProductRepository) Delete(id string) error {
	args := m.Called(id)
	return args.Error(0)
}

func TestCatalogService_GetAllProducts(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewCatalogService(mockRepo)

	expectedProducts := []models.Product{
		{ID: "1", Name: "Margherita", PriceCents: 850, Category: models.CategoryPizza},
		{ID: "2", Name: "Tiramisu", PriceCents: 550, Category: models.CategoryDessert},
	}

	mockRepo.On("GetAll").Return(expectedProducts, nil).Once()

	products, err := service.GetAllProducts()

	assert.NoError(t, err)
	assert.Len(t, products, 2)
	assert.Equal(t, expectedProducts, products)
	mockRepo.AssertExpectations(t)
}

func TestCatalogService_GetProductByID(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewCatalogService(mockRepo)

	expectedProduct := &models.Product{ID: "1", Name: "Margherita", PriceCents: 850, Category: models.CategoryPizza}

	// Test successful retrieval
	mockRepo.On("GetByID", "1").Return(expectedProduct, nil).Once()
	product, err := service.GetProductByID("1")
	assert.NoError(t, err)
	assert.Equal(t, expectedProduct, product)
	mockRepo.AssertExpectations(t)

	// Test product not found
	mockRepo.On("GetByID", "99").Return(nil, repositories.ErrNotFound).Once()
	product, err = service.GetProductByID("99")
	assert.ErrorIs(t, err, repositories.ErrNotFound)
	assert.Nil(t, product)
	mockRepo.AssertExpectations(t)
}

func TestCatalogService_CreateProduct(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewCatalogService(mockRepo)

	newProduct := &models.Product{Name: "Quattro Formaggi", PriceCents: 1150, Category: models.CategoryPizza}

	// Customers cannot write to the catalog
	err := service.CreateProduct(customerIdentity, newProduct)
	assert.ErrorIs(t, err, services.ErrForbidden)
	mockRepo.AssertNotCalled(t, "Create")

	// Unknown categories are rejected
	err = service.CreateProduct(adminIdentity, &models.Product{Name: "Mystery", PriceCents: 100, Category: "sushi"})
	assert.ErrorIs(t, err, services.ErrInvalidRequest)
	assert.Contains(t, err.Error(), "invalid product category")

	// Test successful creation
	mockRepo.On("Create", newProduct).Return(nil).Once()
	err = service.CreateProduct(adminIdentity, newProduct)
	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

func TestCatalogService_UpdateProduct(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewCatalogService(mockRepo)

	updatedProduct := &models.Product{ID: "1", Name: "Margherita", PriceCents: 900, Category: models.CategoryPizza}

	err := service.UpdateProduct(customerIdentity, updatedProduct)
	assert.ErrorIs(t, err, services.ErrForbidden)

	mockRepo.On("Update", updatedProduct).Return(nil).Once()
	err = service.UpdateProduct(adminIdentity, updatedProduct)
	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)

	// Test update failure (product not found in repo)
	mockRepo.On("Update", mock.AnythingOfType("*models.Product")).Return(repositories.ErrNotFound).Once()
	err = service.UpdateProduct(adminIdentity, &models.Product{ID: "99", Name: "Ghost", PriceCents: 100, Category: models.CategoryPizza})
	assert.ErrorIs(t, err, repositories.ErrNotFound)
	mockRepo.AssertExpectations(t)
}

func TestCatalogService_DeleteProduct(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewCatalogService(mockRepo)

	err := service.DeleteProduct(customerIdentity, "1")
	assert.ErrorIs(t, err, services.ErrForbidden)
	mockRepo.AssertNotCalled(t, "Delete")

	mockRepo.On("Delete", "1").Return(nil).Once()
	err = service.DeleteProduct(adminIdentity, "1")
	assert.NoError(t, err)

	mockRepo.On("Delete", "99").Return(repositories.ErrNotFound).Once()
	err = service.DeleteProduct(adminIdentity, "99")
	assert.ErrorIs(t, err, repositories.ErrNotFound)
	mockRepo.AssertExpectations(t)
}
