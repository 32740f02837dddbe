package usecase_test

import (
	"context"

	"storefront/internal/domain/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// =====================
// Mocks
// =====================

type StorageMock struct{ mock.Mock }

func (m *StorageMock) Get(ctx context.Context, key string) (string, bool, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Bool(1), args.Error(2)
}

func (m *StorageMock) Set(ctx context.Context, key string, value string) error {
	args := m.Called(ctx, key, value)
	return args.Error(0)
}

type CatalogRepoMock struct{ mock.Mock }

func (m *CatalogRepoMock) ListAll(ctx context.Context) ([]model.Product, error) {
	args := m.Called(ctx)
	items, _ := args.Get(0).([]model.Product)
	return items, args.Error(1)
}

func (m *CatalogRepoMock) FindByID(ctx context.Context, id int64) (model.Product, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(model.Product)
	return p, args.Error(1)
}

func product(id int64, name string, price int64, rating float64) model.Product {
	return model.Product{
		ID:                  id,
		Name:                name,
		Description:         name + " description",
		ExtendedDescription: name + " extended",
		Price:               decimal.NewFromInt(price),
		Rating:              rating,
		Images:              []string{"/img/" + name + ".jpg"},
	}
}

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func names(products []model.Product) []string {
	out := make([]string, len(products))
	for i, p := range products {
		out[i] = p.Name
	}
	return out
}

func quantities(cart model.Cart) map[int64]int64 {
	out := make(map[int64]int64, len(cart))
	for _, it := range cart {
		out[it.ID] = it.Quantity
	}
	return out
}
