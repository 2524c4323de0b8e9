package repositories

import (
	"context"

	"tokostore/internal/models"
)

// ProductField is a product column usable in single-record lookups.
type ProductField string

const (
	FieldID   ProductField = "id"
	FieldName ProductField = "name"
)

// ProductStore is the persistence port behind ProductsRepository.
// Lookups return (nil, nil) when no record matches.
type ProductStore interface {
	// Save inserts new products or updates existing ones. Products without
	// an ID get one assigned.
	Save(ctx context.Context, products ...*models.Product) error

	FindOneBy(ctx context.Context, field ProductField, value string) (*models.Product, error)
	FindByID(ctx context.Context, id string) (*models.Product, error)

	// FindByIDs returns the products whose id is in ids. Unknown ids are
	// skipped and the order of the result is store-defined.
	FindByIDs(ctx context.Context, ids []string) ([]models.Product, error)

	// DecrementQuantity subtracts amount from the product's quantity only if
	// the result stays non-negative. It reports false when no row matched.
	DecrementQuantity(ctx context.Context, id string, amount int) (bool, error)

	// Transaction runs fn against a store bound to a single transaction.
	// Returning an error from fn rolls back everything fn did.
	Transaction(ctx context.Context, fn func(store ProductStore) error) error
}
