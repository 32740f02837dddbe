package model

import (
	"math"

	"github.com/shopspring/decimal"
)

// カートの明細
// 商品の項目をそのまま持ち、quantityは常に1以上。
type CartItem struct {
	Product
	Quantity int64 `json:"quantity"`
}

// 明細の小計（price * quantity）
func (i CartItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(i.Quantity))
}

// AddQuantity は数量の足し算。int64の範囲を超える場合は上限/下限で止める。
func AddQuantity(q, delta int64) int64 {
	if delta > 0 && q > math.MaxInt64-delta {
		return math.MaxInt64
	}
	if delta < 0 && q < math.MinInt64-delta {
		return math.MinInt64
	}
	return q + delta
}
