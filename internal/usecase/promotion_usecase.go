package usecase

import (
	"errors"
	"strings"

	"storefront/internal/domain/model"

	"github.com/shopspring/decimal"
)

var ErrPromotionNotFound = errors.New("promotion not found")

const InvalidPromoMessage = "invalid promo code"

// 有効なプロモコードは1つだけ
var promotions = map[string]decimal.Decimal{
	"SAVE10": decimal.RequireFromString("0.10"),
}

// 入力は前後の空白を除いて大文字にしてから引く
func LookupPromotion(code string) (model.Promotion, error) {
	code = normalizePromoCode(code)
	rate, ok := promotions[code]
	if !ok {
		return model.Promotion{}, ErrPromotionNotFound
	}
	return model.Promotion{Code: code, DiscountRate: rate}, nil
}

// カート画面のプロモ入力の状態（保存はしない）
type PromoState struct {
	Code         string          `json:"code,omitempty"`
	DiscountRate decimal.Decimal `json:"discount_rate"`
	Message      string          `json:"message,omitempty"`
}

func (s PromoState) Applied() bool {
	return s.DiscountRate.IsPositive()
}

// ApplyPromoCode は次の状態を返す。
// 空入力は何も変えない。不明なコードは割引0とメッセージ。
func ApplyPromoCode(current PromoState, code string) PromoState {
	if normalizePromoCode(code) == "" {
		return current
	}

	p, err := LookupPromotion(code)
	if err != nil {
		return PromoState{DiscountRate: decimal.Zero, Message: InvalidPromoMessage}
	}
	return PromoState{Code: p.Code, DiscountRate: p.DiscountRate}
}

type CartSummary struct {
	Items        model.Cart      `json:"items"`
	TotalItems   int64           `json:"total_items"`
	Subtotal     decimal.Decimal `json:"subtotal"`
	DiscountRate decimal.Decimal `json:"discount_rate"`
	Discount     decimal.Decimal `json:"discount"`
	Total        decimal.Decimal `json:"total"`
	PromoCode    string          `json:"promo_code,omitempty"`
	PromoApplied bool            `json:"promo_applied"`
	PromoMessage string          `json:"promo_message,omitempty"`
}

// Summarize はカート画面の合計欄（小計・割引・支払額）を計算する。
func Summarize(cart model.Cart, promo PromoState) CartSummary {
	if cart == nil {
		cart = model.Cart{}
	}
	subtotal := cart.Subtotal()
	discount := subtotal.Mul(promo.DiscountRate).Round(2)

	return CartSummary{
		Items:        cart,
		TotalItems:   cart.TotalItemCount(),
		Subtotal:     subtotal,
		DiscountRate: promo.DiscountRate,
		Discount:     discount,
		Total:        subtotal.Sub(discount),
		PromoCode:    promo.Code,
		PromoApplied: promo.Applied(),
		PromoMessage: promo.Message,
	}
}

func normalizePromoCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
