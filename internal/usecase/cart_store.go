package usecase

import (
	"context"
	"sync"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// ローカル（単一ユーザー）モードで使う固定キー
const DefaultCartKey = "cart"

// CartStore はカートの唯一の状態です。
// 変更操作のたびにカート全体を保存してから戻ります。
type CartStore struct {
	mu      sync.Mutex
	storage repo.KeyValueStorage
	key     string
	log     *logrus.Entry
	items   model.Cart
}

// DI
func NewCartStore(storage repo.KeyValueStorage, key string, log *logrus.Entry) *CartStore {
	if key == "" {
		key = DefaultCartKey
	}
	return &CartStore{
		storage: storage,
		key:     key,
		log:     log.WithField("cart_key", key),
		items:   model.Cart{},
	}
}

// Hydrate は保存済みカートを読み込む。
// 無い・読めない・壊れている場合は空カートで始める（エラーは返さない）。
func (s *CartStore) Hydrate(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = model.Cart{}

	raw, ok, err := s.storage.Get(ctx, s.key)
	if err != nil {
		s.log.WithError(err).Warn("cart storage read failed, starting empty")
		return
	}
	if !ok {
		return
	}

	cart, err := DecodeCart(raw)
	if err != nil {
		s.log.WithError(err).Warn("saved cart is malformed, starting empty")
		return
	}
	s.items = cart
	s.log.WithField("lines", len(cart)).Debug("cart hydrated")
}

// AddToCart は同じ商品なら数量+1（位置はそのまま）、無ければ末尾に数量1で追加。
func (s *CartStore) AddToCart(ctx context.Context, p model.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.items.IndexOf(p.ID); i >= 0 {
		s.items[i].Quantity = model.AddQuantity(s.items[i].Quantity, 1)
	} else {
		p.Images = append([]string(nil), p.Images...)
		s.items = append(s.items, model.CartItem{Product: p, Quantity: 1})
	}
	return s.persistLocked(ctx)
}

// RemoveFromCart は明細を削除。無いIDは何もしない。
func (s *CartStore) RemoveFromCart(ctx context.Context, productID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.items.IndexOf(productID); i >= 0 {
		s.items = append(s.items[:i:i], s.items[i+1:]...)
	}
	return s.persistLocked(ctx)
}

// UpdateQuantity は数量にdeltaを足す。1未満にはならない（削除はRemoveFromCartのみ）。
func (s *CartStore) UpdateQuantity(ctx context.Context, productID int64, delta int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := s.items.IndexOf(productID); i >= 0 {
		s.items[i].Quantity = max(model.AddQuantity(s.items[i].Quantity, delta), 1)
	}
	return s.persistLocked(ctx)
}

func (s *CartStore) TotalItemCount() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.items.TotalItemCount()
}

func (s *CartStore) Subtotal() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.items.Subtotal()
}

// 現在のカートのコピー
func (s *CartStore) Items() model.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.items.Clone()
}

func (s *CartStore) Contains(productID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.items.IndexOf(productID) >= 0
}

// 書き込みに失敗してもメモリ上の変更は残る
func (s *CartStore) persistLocked(ctx context.Context) error {
	raw, err := EncodeCart(s.items)
	if err != nil {
		return err
	}
	if err := s.storage.Set(ctx, s.key, raw); err != nil {
		s.log.WithError(err).Error("cart persist failed")
		return errors.Wrap(err, "persist cart")
	}
	return nil
}
