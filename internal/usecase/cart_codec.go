package usecase

import (
	"encoding/json"

	"storefront/internal/domain/model"

	"github.com/pkg/errors"
)

// カート全体をJSON配列にする（保存用）
func EncodeCart(cart model.Cart) (string, error) {
	if cart == nil {
		cart = model.Cart{}
	}
	b, err := json.Marshal(cart)
	if err != nil {
		return "", errors.Wrap(err, "encode cart")
	}
	return string(b), nil
}

// 保存済みJSONを読む。形はゆるく検証し、壊れた明細は直すか捨てる。
//   - id <= 0 は捨てる
//   - quantity < 1 は1にする
//   - 同じidは先頭の位置にまとめて数量を足す
func DecodeCart(raw string) (model.Cart, error) {
	var items []model.CartItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, errors.Wrap(err, "decode cart")
	}

	cart := make(model.Cart, 0, len(items))
	for _, it := range items {
		if it.ID <= 0 {
			continue
		}
		if it.Quantity < 1 {
			it.Quantity = 1
		}
		if i := cart.IndexOf(it.ID); i >= 0 {
			cart[i].Quantity = model.AddQuantity(cart[i].Quantity, it.Quantity)
			continue
		}
		cart = append(cart, it)
	}
	return cart, nil
}
