package usecase

import (
	"context"
	"sync"
	"time"

	"storefront/internal/domain/model"
	repo "storefront/internal/repository"

	"github.com/sirupsen/logrus"
)

// 期限切れセッションを掃除する最短間隔
const maxSweepInterval = time.Minute

// セッションごとの保存キー
func CartKey(sessionID string) string {
	return DefaultCartKey + ":" + sessionID
}

type cartSession struct {
	store    *CartStore
	promo    PromoState
	lastSeen time.Time
}

type CartSessionsConfig struct {
	// IdleTTL を超えてアクセスの無いセッションはmapから外す。0なら外さない。
	IdleTTL time.Duration
	Now     func() time.Time
}

func (c CartSessionsConfig) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}

// CartSessions はHTTP用。cart_sessionごとにCartStoreを1つ持つ。
// 登録は変更操作のときだけ。読み取りだけのセッションは保持しない。
type CartSessions struct {
	mu        sync.Mutex
	storage   repo.KeyValueStorage
	log       *logrus.Entry
	cfg       CartSessionsConfig
	lastSweep time.Time
	sessions  map[string]*cartSession
}

// DI
func NewCartSessions(storage repo.KeyValueStorage, log *logrus.Entry, cfg CartSessionsConfig) *CartSessions {
	return &CartSessions{
		storage:  storage,
		log:      log,
		cfg:      cfg,
		sessions: make(map[string]*cartSession),
	}
}

// Store は変更操作用。無ければ作ってHydrateし、登録する。
func (s *CartSessions) Store(ctx context.Context, sessionID string) *CartStore {
	return s.get(ctx, sessionID).store
}

// View は読み取り用。未登録のセッションは登録せず、保存済みのカートをその場で読む。
func (s *CartSessions) View(ctx context.Context, sessionID string) (model.Cart, PromoState) {
	s.mu.Lock()
	sess, ok := s.sessions[sessionID]
	var promo PromoState
	if ok {
		sess.lastSeen = s.cfg.now()
		promo = sess.promo
	}
	s.mu.Unlock()

	if ok {
		return sess.store.Items(), promo
	}
	return s.load(ctx, sessionID).Items(), PromoState{}
}

// UpdatePromo はプロモ状態の読み取りと書き込みを1回のロックで行う。
func (s *CartSessions) UpdatePromo(ctx context.Context, sessionID string, fn func(PromoState) PromoState) PromoState {
	sess := s.get(ctx, sessionID)

	s.mu.Lock()
	defer s.mu.Unlock()

	// get の後に掃除で外れていたら戻す
	if cur, ok := s.sessions[sessionID]; ok {
		sess = cur
	} else {
		s.sessions[sessionID] = sess
	}
	sess.promo = fn(sess.promo)
	sess.lastSeen = s.cfg.now()
	return sess.promo
}

// EvictIdle は IdleTTL を超えたセッションをすぐに外す。外した数を返す。
func (s *CartSessions) EvictIdle() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.evictLocked(s.cfg.now())
}

// 登録済みセッション数
func (s *CartSessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.sessions)
}

func (s *CartSessions) get(ctx context.Context, sessionID string) *cartSession {
	s.mu.Lock()
	if sess, ok := s.sessions[sessionID]; ok {
		sess.lastSeen = s.cfg.now()
		s.mu.Unlock()
		return sess
	}
	s.mu.Unlock()

	// ストレージの読み込みはロックの外
	store := s.load(ctx, sessionID)

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.cfg.now()
	if sess, ok := s.sessions[sessionID]; ok {
		// 先に登録された方を使う
		sess.lastSeen = now
		return sess
	}

	if s.cfg.IdleTTL > 0 && now.Sub(s.lastSweep) >= min(s.cfg.IdleTTL, maxSweepInterval) {
		s.evictLocked(now)
	}

	sess := &cartSession{store: store, lastSeen: now}
	s.sessions[sessionID] = sess
	return sess
}

func (s *CartSessions) load(ctx context.Context, sessionID string) *CartStore {
	store := NewCartStore(s.storage, CartKey(sessionID), s.log)
	store.Hydrate(ctx)
	return store
}

func (s *CartSessions) evictLocked(now time.Time) int {
	s.lastSweep = now
	if s.cfg.IdleTTL <= 0 {
		return 0
	}

	n := 0
	for id, sess := range s.sessions {
		if now.Sub(sess.lastSeen) > s.cfg.IdleTTL {
			delete(s.sessions, id)
			n++
		}
	}
	if n > 0 {
		s.log.WithField("evicted", n).Debug("idle cart sessions evicted")
	}
	return n
}
