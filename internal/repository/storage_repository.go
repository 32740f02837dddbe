package repository

import "context"

// ブラウザのlocalStorage相当。1キーに文字列を丸ごと保存する。
type KeyValueStorage interface {
	// 無い場合は ok=false（エラーではない）
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key string, value string) error
}
