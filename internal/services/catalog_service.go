package services

import (
	"fmt"

	"pizzeria/internal/models"
	"pizzeria/internal/repositories"
)

// CatalogService handles business logic for the product catalog.
// Reads are open; writes require an admin identity.
type CatalogService struct {
	repo repositories.ProductRepository
}

// NewCatalogService creates a new CatalogService.
func NewCatalogService(repo repositories.ProductRepository) *CatalogService {
	return &CatalogService{
		repo: repo,
	}
}

// GetAllProducts retrieves all products.
func (s *CatalogService) GetAllProducts() ([]models.Product, error) {
	return s.repo.GetAll()
}

// GetProductByID retrieves a single product by its ID.
func (s *CatalogService) GetProductByID(id string) (*models.Product, error) {
	return s.repo.GetByID(id)
}

// CreateProduct creates a new catalog entry. Admin only.
func (s *CatalogService) CreateProduct(identity models.Identity, product *models.Product) error {
	if !identity.IsAdmin() {
		return ErrForbidden
	}
	if !models.ValidCategory(product.Category) {
		return fmt.Errorf("%w: invalid product category: %s", ErrInvalidRequest, product.Category)
	}
	return s.repo.Create(product)
}

// UpdateProduct updates an existing catalog entry. Admin only.
func (s *CatalogService) UpdateProduct(identity models.Identity, product *models.Product) error {
	if !identity.IsAdmin() {
		return ErrForbidden
	}
	if product.Category != "" && !models.ValidCategory(product.Category) {
		return fmt.Errorf("%w: invalid product category: %s", ErrInvalidRequest, product.Category)
	}
	return s.repo.Update(product)
}

// DeleteProduct deletes a catalog entry by its ID. Admin only.
func (s *CatalogService) DeleteProduct(identity models.Identity, id string) error {
	if !identity.IsAdmin() {
		return ErrForbidden
	}
	return s.repo.Delete(id)
}
