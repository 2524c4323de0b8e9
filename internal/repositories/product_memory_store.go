package repositories

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"tokostore/internal/models"
)

// MemoryProductStore is an in-memory implementation of ProductStore.
type MemoryProductStore struct {
	products map[string]models.Product
	mu       sync.RWMutex
	now      func() time.Time
}

// NewMemoryProductStore creates a new instance of MemoryProductStore.
func NewMemoryProductStore() *MemoryProductStore {
	return &MemoryProductStore{
		products: make(map[string]models.Product),
		now:      time.Now,
	}
}

// Save adds new products and replaces existing ones.
func (s *MemoryProductStore) Save(ctx context.Context, products ...*models.Product) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for _, product := range products {
		if product.ID == "" {
			product.ID = uuid.New().String()
		}
		if existing, ok := s.products[product.ID]; ok {
			product.CreatedAt = existing.CreatedAt
		} else if product.CreatedAt.IsZero() {
			product.CreatedAt = now
		}
		product.UpdatedAt = now
		s.products[product.ID] = *product
	}
	return nil
}

// FindOneBy returns the first product whose field equals value.
func (s *MemoryProductStore) FindOneBy(ctx context.Context, field ProductField, value string) (*models.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	switch field {
	case FieldID:
		product, ok := s.products[value]
		if !ok {
			return nil, nil
		}
		return &product, nil
	case FieldName:
		for _, product := range s.products {
			if product.Name == value {
				return &product, nil
			}
		}
		return nil, nil
	default:
		return nil, fmt.Errorf("unsupported product field %q", field)
	}
}

// FindByID returns a product by its ID.
func (s *MemoryProductStore) FindByID(ctx context.Context, id string) (*models.Product, error) {
	return s.FindOneBy(ctx, FieldID, id)
}

// FindByIDs returns the known products among ids, in first-seen order.
func (s *MemoryProductStore) FindByIDs(ctx context.Context, ids []string) ([]models.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]struct{}, len(ids))
	products := make([]models.Product, 0, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if product, ok := s.products[id]; ok {
			products = append(products, product)
		}
	}
	return products, nil
}

// DecrementQuantity subtracts amount when enough stock is left.
func (s *MemoryProductStore) DecrementQuantity(ctx context.Context, id string, amount int) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	product, ok := s.products[id]
	if !ok || product.Quantity < amount {
		return false, nil
	}
	product.Quantity -= amount
	product.UpdatedAt = s.now()
	s.products[id] = product
	return true, nil
}

// Transaction runs fn on a private copy of the data and publishes the copy
// only if fn succeeds. Other callers block until fn returns.
func (s *MemoryProductStore) Transaction(ctx context.Context, fn func(store ProductStore) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	staged := make(map[string]models.Product, len(s.products))
	for id, product := range s.products {
		staged[id] = product
	}
	tx := &MemoryProductStore{products: staged, now: s.now}

	if err := fn(tx); err != nil {
		return err
	}
	s.products = tx.products
	return nil
}
