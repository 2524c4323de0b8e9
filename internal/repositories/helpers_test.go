package repositories_test

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"tokostore/internal/config"
	"tokostore/internal/database"
	"tokostore/internal/repositories"
)

// openTestDB returns a migrated, private in-memory SQLite database.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := database.Open(config.DatabaseConfig{Driver: "sqlite", DSN: dsn, LogLevel: "silent"})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() { _ = database.Close(db) })
	return db
}

type storeFactory struct {
	name string
	new  func(t *testing.T) repositories.ProductStore
}

func storeFactories() []storeFactory {
	return []storeFactory{
		{name: "gorm", new: func(t *testing.T) repositories.ProductStore {
			return repositories.NewGORMProductStore(openTestDB(t))
		}},
		{name: "memory", new: func(t *testing.T) repositories.ProductStore {
			return repositories.NewMemoryProductStore()
		}},
	}
}
