package services

import (
	"context"
	"fmt"
	"net/http"

	"tokostore/internal/apperrors"
	"tokostore/internal/models"
	"tokostore/internal/repositories"
	"tokostore/pkg/logger"
)

// ProductService handles business logic related to products.
type ProductService struct {
	repo repositories.ProductRepository
	log  *logger.Logger
}

// NewProductService creates a new ProductService.
func NewProductService(repo repositories.ProductRepository, log *logger.Logger) *ProductService {
	return &ProductService{
		repo: repo,
		log:  log.Named("product_service"),
	}
}

// CreateProduct creates a new product unless one with the same name exists.
func (s *ProductService) CreateProduct(ctx context.Context, req models.CreateProductRequest) (*models.Product, error) {
	existing, err := s.repo.FindByName(ctx, req.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to check product name: %w", err)
	}
	if existing != nil {
		return nil, apperrors.New("This product already exists", http.StatusBadRequest)
	}

	product, err := s.repo.Create(ctx, req)
	if err != nil {
		return nil, err
	}
	s.log.Info("product created", "product_id", product.ID, "name", product.Name)
	return product, nil
}

// GetProductByName retrieves a product by its exact name.
func (s *ProductService) GetProductByName(ctx context.Context, name string) (*models.Product, error) {
	product, err := s.repo.FindByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperrors.NotFound(fmt.Sprintf("product with name %s not found", name))
	}
	return product, nil
}

// GetProductsByIDs retrieves the known products among ids.
func (s *ProductService) GetProductsByIDs(ctx context.Context, ids []string) ([]models.Product, error) {
	refs := make([]models.ProductRef, len(ids))
	for i, id := range ids {
		refs[i] = models.ProductRef{ID: id}
	}
	return s.repo.FindAllByID(ctx, refs)
}

// UpdateStock subtracts the given quantities from stock.
func (s *ProductService) UpdateStock(ctx context.Context, adjustments []models.QuantityAdjustment) ([]models.Product, error) {
	products, err := s.repo.UpdateQuantity(ctx, adjustments)
	if err != nil {
		s.log.Warn("stock update failed", "adjustments", len(adjustments), "error", err)
		return nil, err
	}
	return products, nil
}
