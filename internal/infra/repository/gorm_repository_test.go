package repository_test

import (
	"context"
	"os"
	"testing"

	"storefront/internal/config"
	"storefront/internal/domain/model"
	"storefront/internal/infra/db"
	infraRepo "storefront/internal/infra/repository"
	repo "storefront/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// テスト用DBに接続し、テストごとのトランザクションを返す（最後にロールバック）。
// TEST_DATABASE_DSN が無ければスキップ。
func testTx(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_DSN")
	if dsn == "" {
		t.Skip("TEST_DATABASE_DSN is not set")
	}

	ctx := context.Background()
	gormDB, err := db.Connect(ctx, config.DBConfig{DatabaseURL: dsn})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gormDB))

	sqlDB, err := gormDB.DB()
	require.NoError(t, err)

	tx := gormDB.Begin()
	require.NoError(t, tx.Error)
	t.Cleanup(func() {
		tx.Rollback()
		_ = sqlDB.Close()
	})
	return tx
}

func testProduct(id int64, name string, price int64) model.Product {
	return model.Product{
		ID:          id,
		Name:        name,
		Description: name + " description",
		Price:       decimal.NewFromInt(price),
		Rating:      4,
		Images:      []string{"/img/" + name + ".jpg", "/img/" + name + "-2.jpg"},
	}
}

func TestStorageGormRepository_GetSet(t *testing.T) {
	ctx := context.Background()
	r := infraRepo.NewStorageGormRepository(testTx(t))

	_, ok, err := r.Get(ctx, "cart:missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, r.Set(ctx, "cart:s1", `[{"id":1,"quantity":1}]`))
	v, ok, err := r.Get(ctx, "cart:s1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, `[{"id":1,"quantity":1}]`, v)

	// 同じキーは上書き（ON CONFLICT）
	require.NoError(t, r.Set(ctx, "cart:s1", `[]`))
	v, ok, err = r.Get(ctx, "cart:s1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, `[]`, v)
}

func TestProductGormRepository_SeedListFind(t *testing.T) {
	ctx := context.Background()
	tx := testTx(t)
	require.NoError(t, tx.Exec("DELETE FROM products").Error)

	r := infraRepo.NewProductGormRepository(tx)
	seed := []model.Product{
		testProduct(2, "Keyboard", 8490),
		testProduct(1, "Headphones", 12990),
	}

	n, err := r.SeedIfEmpty(ctx, seed)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	// 2回目は何もしない
	n, err = r.SeedIfEmpty(ctx, []model.Product{testProduct(3, "Watch", 15990)})
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	items, err := r.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, int64(1), items[0].ID)
	assert.Equal(t, int64(2), items[1].ID)

	p, err := r.FindByID(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, "Keyboard", p.Name)
	assert.True(t, decimal.NewFromInt(8490).Equal(p.Price))
	assert.Equal(t, []string{"/img/Keyboard.jpg", "/img/Keyboard-2.jpg"}, p.Images)

	_, err = r.FindByID(ctx, 999)
	assert.ErrorIs(t, err, repo.ErrNotFound)
}
