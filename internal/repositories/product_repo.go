package repositories

import (
	"context"

	"tokostore/internal/models"
)

// ProductRepository defines the product record operations used by the services.
type ProductRepository interface {
	Create(ctx context.Context, req models.CreateProductRequest) (*models.Product, error)
	FindByName(ctx context.Context, name string) (*models.Product, error)
	FindAllByID(ctx context.Context, refs []models.ProductRef) ([]models.Product, error)
	UpdateQuantity(ctx context.Context, adjustments []models.QuantityAdjustment) ([]models.Product, error)
}

var _ ProductRepository = (*ProductsRepository)(nil)
