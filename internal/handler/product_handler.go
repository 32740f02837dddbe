package handler

import (
	"net/http"
	"strconv"

	"storefront/internal/middleware"
	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// /products の公開API
type ProductHandler struct {
	uc     *usecase.CatalogUsecase
	cartUC *usecase.CartUsecase
}

// DI
func NewProductHandler(uc *usecase.CatalogUsecase, cartUC *usecase.CartUsecase) *ProductHandler {
	return &ProductHandler{uc: uc, cartUC: cartUC}
}

// 商品のルートを登録
func (h *ProductHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/products", h.list)
	g.GET("/products/:id", h.detail)
}

func (h *ProductHandler) list(c echo.Context) error {
	minPrice, err := parseDecimalParam(c, "min_price")
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid min_price"})
	}
	maxPrice, err := parseDecimalParam(c, "max_price")
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid max_price"})
	}

	// min_rating（default 0）
	minRating := 0.0
	if v := c.QueryParam("min_rating"); v != "" {
		r, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid min_rating"})
		}
		minRating = r
	}

	ctx := c.Request().Context()
	sessionID, _ := middleware.CartSessionID(c)
	cart := h.cartUC.Snapshot(ctx, sessionID).Items

	out, err := h.uc.ListProducts(ctx, usecase.ListProductsInput{
		MinPrice:  minPrice,
		MaxPrice:  maxPrice,
		MinRating: minRating,
		Sort:      c.QueryParam("sort"),
	}, cart)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *ProductHandler) detail(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	p, err := h.uc.GetProductDetail(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, p)
}

// 空なら未指定（nil）
func parseDecimalParam(c echo.Context, name string) (*decimal.Decimal, error) {
	v := c.QueryParam(name)
	if v == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
