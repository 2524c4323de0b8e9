package repositories_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tokostore/internal/models"
	"tokostore/internal/repositories"
)

func TestProductStore_SaveAndFind(t *testing.T) {
	for _, f := range storeFactories() {
		t.Run(f.name, func(t *testing.T) {
			ctx := context.Background()
			store := f.new(t)

			product := &models.Product{Name: "Keyboard", Price: decimal.RequireFromString("75.50"), Quantity: 25}
			require.NoError(t, store.Save(ctx, product))
			assert.NotEmpty(t, product.ID)

			byID, err := store.FindByID(ctx, product.ID)
			require.NoError(t, err)
			require.NotNil(t, byID)
			assert.Equal(t, "Keyboard", byID.Name)
			assert.True(t, byID.Price.Equal(decimal.RequireFromString("75.5")))
			assert.Equal(t, 25, byID.Quantity)

			byName, err := store.FindOneBy(ctx, repositories.FieldName, "Keyboard")
			require.NoError(t, err)
			require.NotNil(t, byName)
			assert.Equal(t, product.ID, byName.ID)

			missing, err := store.FindOneBy(ctx, repositories.FieldName, "Trackpad")
			assert.NoError(t, err)
			assert.Nil(t, missing)

			_, err = store.FindOneBy(ctx, repositories.ProductField("price"), "1")
			assert.ErrorContains(t, err, "unsupported product field")
		})
	}
}

func TestProductStore_SaveUpdatesExisting(t *testing.T) {
	for _, f := range storeFactories() {
		t.Run(f.name, func(t *testing.T) {
			ctx := context.Background()
			store := f.new(t)

			product := &models.Product{Name: "Mouse", Price: decimal.NewFromInt(25), Quantity: 50}
			require.NoError(t, store.Save(ctx, product))

			product.Quantity = 49
			require.NoError(t, store.Save(ctx, product))

			got, err := store.FindByID(ctx, product.ID)
			require.NoError(t, err)
			assert.Equal(t, 49, got.Quantity)
		})
	}
}

func TestProductStore_FindByIDs(t *testing.T) {
	for _, f := range storeFactories() {
		t.Run(f.name, func(t *testing.T) {
			ctx := context.Background()
			store := f.new(t)

			a := &models.Product{Name: "A", Price: decimal.NewFromInt(1), Quantity: 1}
			b := &models.Product{Name: "B", Price: decimal.NewFromInt(2), Quantity: 2}
			require.NoError(t, store.Save(ctx, a, b))

			products, err := store.FindByIDs(ctx, []string{b.ID, "unknown", a.ID})
			require.NoError(t, err)
			assert.ElementsMatch(t, []string{a.ID, b.ID}, productIDs(products))

			empty, err := store.FindByIDs(ctx, nil)
			require.NoError(t, err)
			assert.Empty(t, empty)
		})
	}
}

func TestProductStore_DecrementQuantityGuard(t *testing.T) {
	for _, f := range storeFactories() {
		t.Run(f.name, func(t *testing.T) {
			ctx := context.Background()
			store := f.new(t)

			product := &models.Product{Name: "Laptop", Price: decimal.NewFromInt(1200), Quantity: 3}
			require.NoError(t, store.Save(ctx, product))

			ok, err := store.DecrementQuantity(ctx, product.ID, 3)
			require.NoError(t, err)
			assert.True(t, ok)

			ok, err = store.DecrementQuantity(ctx, product.ID, 1)
			require.NoError(t, err)
			assert.False(t, ok)

			ok, err = store.DecrementQuantity(ctx, "unknown", 1)
			require.NoError(t, err)
			assert.False(t, ok)

			got, err := store.FindByID(ctx, product.ID)
			require.NoError(t, err)
			assert.Equal(t, 0, got.Quantity)
		})
	}
}

func TestProductStore_TransactionRollback(t *testing.T) {
	for _, f := range storeFactories() {
		t.Run(f.name, func(t *testing.T) {
			ctx := context.Background()
			store := f.new(t)

			product := &models.Product{Name: "Monitor", Price: decimal.NewFromInt(200), Quantity: 10}
			require.NoError(t, store.Save(ctx, product))

			boom := errors.New("boom")
			err := store.Transaction(ctx, func(tx repositories.ProductStore) error {
				ok, err := tx.DecrementQuantity(ctx, product.ID, 4)
				require.NoError(t, err)
				require.True(t, ok)
				return boom
			})
			assert.ErrorIs(t, err, boom)

			got, err := store.FindByID(ctx, product.ID)
			require.NoError(t, err)
			assert.Equal(t, 10, got.Quantity)

			err = store.Transaction(ctx, func(tx repositories.ProductStore) error {
				_, err := tx.DecrementQuantity(ctx, product.ID, 4)
				return err
			})
			require.NoError(t, err)

			got, err = store.FindByID(ctx, product.ID)
			require.NoError(t, err)
			assert.Equal(t, 6, got.Quantity)
		})
	}
}

func TestMemoryProductStore_HonorsCanceledContext(t *testing.T) {
	store := repositories.NewMemoryProductStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := store.FindByID(ctx, "any")
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, store.Save(ctx, &models.Product{Name: "x"}), context.Canceled)
}

func productIDs(products []models.Product) []string {
	ids := make([]string, len(products))
	for i, p := range products {
		ids[i] = p.ID
	}
	return ids
}
