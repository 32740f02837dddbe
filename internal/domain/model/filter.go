package model

import "github.com/shopspring/decimal"

// 一覧の絞り込み条件（nilは未指定）
type FilterSpec struct {
	MinPrice  *decimal.Decimal
	MaxPrice  *decimal.Decimal
	MinRating float64
}

// 商品が条件をすべて満たすか
func (f FilterSpec) Match(p Product) bool {
	if f.MinPrice != nil && p.Price.LessThan(*f.MinPrice) {
		return false
	}
	if f.MaxPrice != nil && p.Price.GreaterThan(*f.MaxPrice) {
		return false
	}
	return p.Rating >= f.MinRating
}

type SortKey string

const (
	SortNameAsc   SortKey = "name-asc"
	SortNameDesc  SortKey = "name-desc"
	SortPriceAsc  SortKey = "price-asc"
	SortPriceDesc SortKey = "price-desc"
)

// 未知のキーは並び替えなし
func (k SortKey) Valid() bool {
	switch k {
	case SortNameAsc, SortNameDesc, SortPriceAsc, SortPriceDesc:
		return true
	}
	return false
}
