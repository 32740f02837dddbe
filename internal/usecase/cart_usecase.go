package usecase

import (
	"context"
	"net/http"
	"strings"

	repo "storefront/internal/repository"
)

// CartUsecase は /cart の業務ロジックです。
// カートの状態はCartSessionsのCartStoreが持ち、商品はカタログから引きます。
type CartUsecase struct {
	sessions    *CartSessions
	catalogRepo repo.CatalogRepository
}

func NewCartUsecase(
	sessions *CartSessions,
	catalogRepo repo.CatalogRepository,
) *CartUsecase {
	return &CartUsecase{
		sessions:    sessions,
		catalogRepo: catalogRepo,
	}
}

type AddCartInput struct {
	ProductID int64
}

type UpdateCartItemInput struct {
	Delta int64
}

type CartCountOutput struct {
	Count int64 `json:"count"`
}

// GetCart はカートと合計（プロモ込み）を返す。
func (u *CartUsecase) GetCart(ctx context.Context, sessionID string) (CartSummary, error) {
	if err := checkSession(sessionID); err != nil {
		return CartSummary{}, err
	}
	return u.buildSummary(ctx, sessionID), nil
}

// CountItems はヘッダーのバッジ用の合計点数。
func (u *CartUsecase) CountItems(ctx context.Context, sessionID string) (CartCountOutput, error) {
	if err := checkSession(sessionID); err != nil {
		return CartCountOutput{}, err
	}
	items, _ := u.sessions.View(ctx, sessionID)
	return CartCountOutput{Count: items.TotalItemCount()}, nil
}

// AddToCart はカタログの商品をカートに追加（同一商品は数量+1）。
func (u *CartUsecase) AddToCart(ctx context.Context, sessionID string, in AddCartInput) (CartSummary, error) {
	if err := checkSession(sessionID); err != nil {
		return CartSummary{}, err
	}
	if in.ProductID <= 0 {
		return CartSummary{}, NewHTTPError(http.StatusBadRequest, "invalid product_id")
	}

	p, err := u.catalogRepo.FindByID(ctx, in.ProductID)
	if err == repo.ErrNotFound {
		return CartSummary{}, NewHTTPError(http.StatusNotFound, "product not found")
	}
	if err != nil {
		return CartSummary{}, NewHTTPError(http.StatusInternalServerError, "catalog error")
	}

	if err := u.sessions.Store(ctx, sessionID).AddToCart(ctx, p); err != nil {
		return CartSummary{}, NewHTTPError(http.StatusInternalServerError, "storage error")
	}
	return u.buildSummary(ctx, sessionID), nil
}

// 数量変更（+/-）。カートに無い商品は何もしない。
func (u *CartUsecase) UpdateCartItem(ctx context.Context, sessionID string, productID int64, in UpdateCartItemInput) (CartSummary, error) {
	if err := checkSession(sessionID); err != nil {
		return CartSummary{}, err
	}
	if productID <= 0 {
		return CartSummary{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	if err := u.sessions.Store(ctx, sessionID).UpdateQuantity(ctx, productID, in.Delta); err != nil {
		return CartSummary{}, NewHTTPError(http.StatusInternalServerError, "storage error")
	}
	return u.buildSummary(ctx, sessionID), nil
}

// 明細削除。カートに無い商品は何もしない。
func (u *CartUsecase) DeleteCartItem(ctx context.Context, sessionID string, productID int64) (CartSummary, error) {
	if err := checkSession(sessionID); err != nil {
		return CartSummary{}, err
	}
	if productID <= 0 {
		return CartSummary{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	if err := u.sessions.Store(ctx, sessionID).RemoveFromCart(ctx, productID); err != nil {
		return CartSummary{}, NewHTTPError(http.StatusInternalServerError, "storage error")
	}
	return u.buildSummary(ctx, sessionID), nil
}

// ApplyPromo はセッションのプロモ状態を更新して合計を返す。
// 不正なコードはエラーではなく promo_message で返す。
func (u *CartUsecase) ApplyPromo(ctx context.Context, sessionID string, code string) (CartSummary, error) {
	if err := checkSession(sessionID); err != nil {
		return CartSummary{}, err
	}

	u.sessions.UpdatePromo(ctx, sessionID, func(cur PromoState) PromoState {
		return ApplyPromoCode(cur, code)
	})

	return u.buildSummary(ctx, sessionID), nil
}

// 一覧のin_cart用
func (u *CartUsecase) Snapshot(ctx context.Context, sessionID string) CartSummary {
	if checkSession(sessionID) != nil {
		return Summarize(nil, PromoState{})
	}
	return u.buildSummary(ctx, sessionID)
}

func (u *CartUsecase) buildSummary(ctx context.Context, sessionID string) CartSummary {
	items, promo := u.sessions.View(ctx, sessionID)
	return Summarize(items, promo)
}

func checkSession(sessionID string) error {
	if strings.TrimSpace(sessionID) == "" {
		return NewHTTPError(http.StatusBadRequest, "missing cart session")
	}
	return nil
}
