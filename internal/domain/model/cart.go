package model

import "github.com/shopspring/decimal"

// 追加順を保つ明細の並び。同じ商品IDは1行だけ。
type Cart []CartItem

// 合計点数（ヘッダーのバッジ用）
func (c Cart) TotalItemCount() int64 {
	var n int64
	for _, it := range c {
		n = AddQuantity(n, it.Quantity)
	}
	return n
}

// 割引前の合計
func (c Cart) Subtotal() decimal.Decimal {
	total := decimal.Zero
	for _, it := range c {
		total = total.Add(it.LineTotal())
	}
	return total
}

// 商品IDの位置。無ければ-1
func (c Cart) IndexOf(productID int64) int {
	for i, it := range c {
		if it.ID == productID {
			return i
		}
	}
	return -1
}

func (c Cart) Clone() Cart {
	out := make(Cart, len(c))
	for i, it := range c {
		out[i] = it
		out[i].Images = append([]string(nil), it.Images...)
	}
	return out
}
