package model

import "github.com/shopspring/decimal"

type Promotion struct {
	Code         string          `json:"code"`
	DiscountRate decimal.Decimal `json:"discount_rate"`
}
