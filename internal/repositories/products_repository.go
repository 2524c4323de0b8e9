package repositories

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"tokostore/internal/apperrors"
	"tokostore/internal/models"
	"tokostore/pkg/logger"
)

// ProductsRepository is the product record facade used by the services.
// It adds the domain rules for stock decrements on top of a ProductStore.
type ProductsRepository struct {
	store ProductStore
	log   *logger.Logger
}

// NewProductsRepository creates a ProductsRepository backed by store.
func NewProductsRepository(store ProductStore, log *logger.Logger) *ProductsRepository {
	return &ProductsRepository{
		store: store,
		log:   log.Named("products_repository"),
	}
}

// Create persists a new product built from req. Price and quantity are
// stored as given.
func (r *ProductsRepository) Create(ctx context.Context, req models.CreateProductRequest) (*models.Product, error) {
	product := &models.Product{
		Name:     req.Name,
		Price:    req.Price,
		Quantity: req.Quantity,
	}
	if err := r.store.Save(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	r.log.Debug("product created", "product_id", product.ID, "name", product.Name)
	return product, nil
}

// FindByName returns the product with exactly this name, or nil.
func (r *ProductsRepository) FindByName(ctx context.Context, name string) (*models.Product, error) {
	return r.store.FindOneBy(ctx, FieldName, name)
}

// FindAllByID fetches the referenced products in one lookup. Unknown ids are
// omitted and the result order is not tied to the order of refs.
func (r *ProductsRepository) FindAllByID(ctx context.Context, refs []models.ProductRef) ([]models.Product, error) {
	if len(refs) == 0 {
		return []models.Product{}, nil
	}
	ids := make([]string, len(refs))
	for i, ref := range refs {
		ids[i] = ref.ID
	}
	return r.store.FindByIDs(ctx, ids)
}

// UpdateQuantity subtracts each adjustment from its product's stock and
// returns the updated products in adjustment order.
//
// Every product is looked up concurrently first; a missing product yields a
// 404 AppError and a decrement below zero a 400 AppError. Only when all of
// them pass are the decrements applied, together, in one transaction with
// a quantity guard per row. Nothing is written when any adjustment fails.
func (r *ProductsRepository) UpdateQuantity(ctx context.Context, adjustments []models.QuantityAdjustment) ([]models.Product, error) {
	if len(adjustments) == 0 {
		return []models.Product{}, nil
	}

	names := make([]string, len(adjustments))
	g, gctx := errgroup.WithContext(ctx)
	for i, adj := range adjustments {
		g.Go(func() error {
			existing, err := r.store.FindByID(gctx, adj.ID)
			if err != nil {
				return err
			}
			if existing == nil {
				return productNotFound(adj.ID)
			}
			if existing.Quantity-adj.Quantity < 0 {
				return insufficientStock(existing.Name)
			}
			names[i] = existing.Name
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		r.log.Debug("quantity update rejected", "error", err)
		return nil, err
	}

	updated := make([]models.Product, len(adjustments))
	err := r.store.Transaction(ctx, func(tx ProductStore) error {
		for i, adj := range adjustments {
			ok, err := tx.DecrementQuantity(ctx, adj.ID, adj.Quantity)
			if err != nil {
				return err
			}
			if ok {
				continue
			}
			// The row changed after validation.
			current, err := tx.FindByID(ctx, adj.ID)
			if err != nil {
				return err
			}
			if current == nil {
				return productNotFound(adj.ID)
			}
			return insufficientStock(names[i])
		}

		for i, adj := range adjustments {
			product, err := tx.FindByID(ctx, adj.ID)
			if err != nil {
				return err
			}
			if product == nil {
				return productNotFound(adj.ID)
			}
			updated[i] = *product
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	r.log.Debug("product quantities updated", "count", len(updated))
	return updated, nil
}

func productNotFound(id string) error {
	return apperrors.NotFound(fmt.Sprintf("The product with id %s does not exist", id))
}

func insufficientStock(name string) error {
	return apperrors.InsufficientStock(fmt.Sprintf("Not enough of the product %q in stock", name))
}
