package usecase

import (
	"slices"

	"storefront/internal/domain/model"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// QueryCatalog は絞り込み→並び替えした新しいスライスを返す（入力は変更しない）。
// 並び替えは安定ソート。未知のSortKeyは元の順序のまま。
func QueryCatalog(products []model.Product, f model.FilterSpec, sortKey model.SortKey, locale language.Tag) []model.Product {
	out := make([]model.Product, 0, len(products))
	for _, p := range products {
		if f.Match(p) {
			out = append(out, p)
		}
	}

	switch sortKey {
	case model.SortNameAsc, model.SortNameDesc:
		// Collatorはgoroutine安全ではないので呼び出しごとに作る
		col := collate.New(locale)
		desc := sortKey == model.SortNameDesc
		slices.SortStableFunc(out, func(a, b model.Product) int {
			if desc {
				return col.CompareString(b.Name, a.Name)
			}
			return col.CompareString(a.Name, b.Name)
		})
	case model.SortPriceAsc:
		slices.SortStableFunc(out, func(a, b model.Product) int {
			return a.Price.Cmp(b.Price)
		})
	case model.SortPriceDesc:
		slices.SortStableFunc(out, func(a, b model.Product) int {
			return b.Price.Cmp(a.Price)
		})
	}

	return out
}

// 不正なロケールは英語にする
func ParseLocale(s string) language.Tag {
	tag, err := language.Parse(s)
	if err != nil {
		return language.English
	}
	return tag
}
