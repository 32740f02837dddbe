package usecase

import (
	"context"
	"net/http"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
)

type CatalogUsecase struct {
	catalogRepo repo.CatalogRepository
	locale      language.Tag
}

// DI
func NewCatalogUsecase(catalogRepo repo.CatalogRepository, locale language.Tag) *CatalogUsecase {
	return &CatalogUsecase{
		catalogRepo: catalogRepo,
		locale:      locale,
	}
}

// GET /productsの入力DTO
type ListProductsInput struct {
	MinPrice  *decimal.Decimal
	MaxPrice  *decimal.Decimal
	MinRating float64
	Sort      string
}

type ProductListItem struct {
	model.Product
	InCart bool `json:"in_cart"`
}

type ProductListOutput struct {
	Items []ProductListItem `json:"items"`
	Total int               `json:"total"`
}

// ListProducts は絞り込み・並び替えた一覧を返す。
// cartがあれば各商品に in_cart を付ける。結果0件もエラーではない。
func (u *CatalogUsecase) ListProducts(ctx context.Context, in ListProductsInput, cart model.Cart) (ProductListOutput, error) {
	if in.MinPrice != nil && in.MinPrice.IsNegative() {
		return ProductListOutput{}, NewHTTPError(http.StatusBadRequest, "min_price must be >= 0")
	}
	if in.MaxPrice != nil && in.MaxPrice.IsNegative() {
		return ProductListOutput{}, NewHTTPError(http.StatusBadRequest, "max_price must be >= 0")
	}
	if in.MinRating < 0 || in.MinRating > 5 {
		return ProductListOutput{}, NewHTTPError(http.StatusBadRequest, "min_rating must be between 0 and 5")
	}

	products, err := u.catalogRepo.ListAll(ctx)
	if err != nil {
		return ProductListOutput{}, NewHTTPError(http.StatusInternalServerError, "catalog error")
	}

	filtered := QueryCatalog(products, model.FilterSpec{
		MinPrice:  in.MinPrice,
		MaxPrice:  in.MaxPrice,
		MinRating: in.MinRating,
	}, model.SortKey(in.Sort), u.locale)

	items := make([]ProductListItem, 0, len(filtered))
	for _, p := range filtered {
		items = append(items, ProductListItem{
			Product: p,
			InCart:  cart.IndexOf(p.ID) >= 0,
		})
	}

	return ProductListOutput{Items: items, Total: len(items)}, nil
}

// GetProductDetail は詳細ページ用。無ければ404。
func (u *CatalogUsecase) GetProductDetail(ctx context.Context, productID int64) (model.Product, error) {
	if productID <= 0 {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	p, err := u.catalogRepo.FindByID(ctx, productID)
	if err == repo.ErrNotFound {
		return model.Product{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return model.Product{}, NewHTTPError(http.StatusInternalServerError, "catalog error")
	}
	return p, nil
}
