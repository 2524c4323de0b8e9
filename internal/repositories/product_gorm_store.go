package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"tokostore/internal/models"
)

// GORMProductStore is a GORM implementation of ProductStore.
type GORMProductStore struct {
	db *gorm.DB
}

// NewGORMProductStore creates a new instance of GORMProductStore.
func NewGORMProductStore(db *gorm.DB) *GORMProductStore {
	return &GORMProductStore{
		db: db,
	}
}

// Save creates or updates the given products.
func (s *GORMProductStore) Save(ctx context.Context, products ...*models.Product) error {
	if len(products) == 0 {
		return nil
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, product := range products {
			if err := tx.Save(product).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save products: %w", err)
	}
	return nil
}

// FindOneBy retrieves the first product whose field equals value.
func (s *GORMProductStore) FindOneBy(ctx context.Context, field ProductField, value string) (*models.Product, error) {
	switch field {
	case FieldID, FieldName:
	default:
		return nil, fmt.Errorf("unsupported product field %q", field)
	}

	var product models.Product
	err := s.db.WithContext(ctx).Where(fmt.Sprintf("%s = ?", field), value).First(&product).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get product by %s %s: %w", field, value, err)
	}
	return &product, nil
}

// FindByID retrieves a single product by its ID.
func (s *GORMProductStore) FindByID(ctx context.Context, id string) (*models.Product, error) {
	return s.FindOneBy(ctx, FieldID, id)
}

// FindByIDs retrieves every product whose ID is in ids with a single IN query.
func (s *GORMProductStore) FindByIDs(ctx context.Context, ids []string) ([]models.Product, error) {
	products := []models.Product{}
	if len(ids) == 0 {
		return products, nil
	}
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to get products by IDs: %w", err)
	}
	return products, nil
}

// DecrementQuantity runs a conditional UPDATE guarded by the current quantity.
func (s *GORMProductStore) DecrementQuantity(ctx context.Context, id string, amount int) (bool, error) {
	res := s.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ? AND quantity >= ?", id, amount).
		Update("quantity", gorm.Expr("quantity - ?", amount))
	if res.Error != nil {
		return false, fmt.Errorf("failed to decrement quantity of product %s: %w", id, res.Error)
	}
	return res.RowsAffected == 1, nil
}

// Transaction runs fn in a serializable transaction.
func (s *GORMProductStore) Transaction(ctx context.Context, fn func(store ProductStore) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GORMProductStore{db: tx})
	}, &sql.TxOptions{Isolation: sql.LevelSerializable})
}
