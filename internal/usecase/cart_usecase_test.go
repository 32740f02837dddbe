package usecase_test

import (
	"context"
	"errors"
	"testing"

	"storefront/internal/domain/model"
	"storefront/internal/infra/storage"
	"storefront/internal/logger"
	repo "storefront/internal/repository"
	"storefront/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newCartUsecase(t *testing.T) (*usecase.CartUsecase, *CatalogRepoMock, *storage.MemoryStorage) {
	t.Helper()
	mem := storage.NewMemoryStorage()
	cRepo := new(CatalogRepoMock)
	cRepo.On("FindByID", mock.Anything, int64(1)).Return(product(1, "A", 500, 4), nil).Maybe()
	cRepo.On("FindByID", mock.Anything, int64(2)).Return(product(2, "B", 250, 4), nil).Maybe()
	cRepo.On("FindByID", mock.Anything, int64(404)).Return(model.Product{}, repo.ErrNotFound).Maybe()
	cRepo.On("FindByID", mock.Anything, int64(500)).Return(model.Product{}, errors.New("db down")).Maybe()

	sessions := usecase.NewCartSessions(mem, logger.Discard(), usecase.CartSessionsConfig{})
	return usecase.NewCartUsecase(sessions, cRepo), cRepo, mem
}

func TestCartUsecase_AddUpdateDelete(t *testing.T) {
	ctx := context.Background()
	uc, _, _ := newCartUsecase(t)

	out, err := uc.AddToCart(ctx, "s1", usecase.AddCartInput{ProductID: 1})
	require.NoError(t, err)
	out, err = uc.AddToCart(ctx, "s1", usecase.AddCartInput{ProductID: 1})
	require.NoError(t, err)
	require.Len(t, out.Items, 1)
	assert.Equal(t, int64(2), out.Items[0].Quantity)

	out, err = uc.AddToCart(ctx, "s1", usecase.AddCartInput{ProductID: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), out.TotalItems)
	assert.Equal(t, "1250", out.Subtotal.String())

	out, err = uc.UpdateCartItem(ctx, "s1", 1, usecase.UpdateCartItemInput{Delta: -10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), out.Items[0].Quantity)

	out, err = uc.DeleteCartItem(ctx, "s1", 2)
	require.NoError(t, err)
	require.Len(t, out.Items, 1)

	// 無いIDは何もしない
	out, err = uc.DeleteCartItem(ctx, "s1", 2)
	require.NoError(t, err)
	assert.Len(t, out.Items, 1)

	count, err := uc.CountItems(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), count.Count)
}

func TestCartUsecase_SessionsAreIsolated(t *testing.T) {
	ctx := context.Background()
	uc, _, mem := newCartUsecase(t)

	_, err := uc.AddToCart(ctx, "s1", usecase.AddCartInput{ProductID: 1})
	require.NoError(t, err)

	other, err := uc.GetCart(ctx, "s2")
	require.NoError(t, err)
	assert.Empty(t, other.Items)

	_, ok, err := mem.Get(ctx, usecase.CartKey("s1"))
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestCartUsecase_HydratesSavedSession(t *testing.T) {
	ctx := context.Background()
	mem := storage.NewMemoryStorage()

	raw, err := usecase.EncodeCart(model.Cart{{Product: product(2, "B", 250, 4), Quantity: 3}})
	require.NoError(t, err)
	require.NoError(t, mem.Set(ctx, usecase.CartKey("s1"), raw))

	uc := usecase.NewCartUsecase(usecase.NewCartSessions(mem, logger.Discard(), usecase.CartSessionsConfig{}), new(CatalogRepoMock))
	out, err := uc.GetCart(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, out.Items, 1)
	assert.Equal(t, int64(3), out.TotalItems)
}

func TestCartUsecase_AddToCart_Errors(t *testing.T) {
	ctx := context.Background()
	uc, _, _ := newCartUsecase(t)

	_, err := uc.AddToCart(ctx, "s1", usecase.AddCartInput{ProductID: 0})
	assertHTTPError(t, err, 400, "invalid product_id")

	_, err = uc.AddToCart(ctx, "s1", usecase.AddCartInput{ProductID: 404})
	assertHTTPError(t, err, 404, "product not found")

	_, err = uc.AddToCart(ctx, "s1", usecase.AddCartInput{ProductID: 500})
	assertHTTPError(t, err, 500, "catalog error")

	_, err = uc.AddToCart(ctx, " ", usecase.AddCartInput{ProductID: 1})
	assertHTTPError(t, err, 400, "missing cart session")
}

func TestCartUsecase_StorageError(t *testing.T) {
	ctx := context.Background()

	st := new(StorageMock)
	st.On("Get", mock.Anything, usecase.CartKey("s1")).Return("", false, nil)
	st.On("Set", mock.Anything, usecase.CartKey("s1"), mock.Anything).Return(errors.New("full"))

	cRepo := new(CatalogRepoMock)
	cRepo.On("FindByID", mock.Anything, int64(1)).Return(product(1, "A", 500, 4), nil)

	uc := usecase.NewCartUsecase(usecase.NewCartSessions(st, logger.Discard(), usecase.CartSessionsConfig{}), cRepo)
	_, err := uc.AddToCart(ctx, "s1", usecase.AddCartInput{ProductID: 1})
	assertHTTPError(t, err, 500, "storage error")
}

func TestCartUsecase_ApplyPromo(t *testing.T) {
	ctx := context.Background()
	uc, _, _ := newCartUsecase(t)

	_, err := uc.AddToCart(ctx, "s1", usecase.AddCartInput{ProductID: 1})
	require.NoError(t, err)
	_, err = uc.UpdateCartItem(ctx, "s1", 1, usecase.UpdateCartItemInput{Delta: 1})
	require.NoError(t, err)

	out, err := uc.ApplyPromo(ctx, "s1", "save10")
	require.NoError(t, err)
	assert.Equal(t, "100", out.Discount.String())
	assert.Equal(t, "900", out.Total.String())
	assert.Equal(t, "SAVE10", out.PromoCode)

	// プロモはカート変更後も残る
	out, err = uc.GetCart(ctx, "s1")
	require.NoError(t, err)
	assert.True(t, out.PromoApplied)

	out, err = uc.ApplyPromo(ctx, "s1", "")
	require.NoError(t, err)
	assert.True(t, out.PromoApplied)

	out, err = uc.ApplyPromo(ctx, "s1", "WRONG")
	require.NoError(t, err)
	assert.False(t, out.PromoApplied)
	assert.Equal(t, usecase.InvalidPromoMessage, out.PromoMessage)
	assert.Equal(t, int64(2), out.TotalItems)

	// 他のセッションには影響しない
	other, err := uc.GetCart(ctx, "s2")
	require.NoError(t, err)
	assert.False(t, other.PromoApplied)
	assert.Empty(t, other.PromoMessage)
}

func TestCartUsecase_Snapshot(t *testing.T) {
	ctx := context.Background()
	uc, _, _ := newCartUsecase(t)

	_, err := uc.AddToCart(ctx, "s1", usecase.AddCartInput{ProductID: 2})
	require.NoError(t, err)

	snap := uc.Snapshot(ctx, "s1")
	assert.Equal(t, int64(1), snap.TotalItems)

	assert.Empty(t, uc.Snapshot(ctx, "").Items)
}
