// Package lists keeps per-user cart and wishlist membership in the cache.
// The whole list is rewritten on every mutation; entries are unique by game ID.
package lists

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"getunitycodes/internal/cache"
	"getunitycodes/internal/model"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

type Kind string

const (
	Cart     Kind = "cart"
	Wishlist Kind = "wishlist"
)

// DefaultTTL 每次寫入都會刷新
const DefaultTTL = 30 * 24 * time.Hour

var (
	jsonMarshal   = json.Marshal
	jsonUnmarshal = json.Unmarshal
)

// Contains 以 game ID 判斷是否已在清單中
func Contains(entries []model.ListEntry, gameID int) bool {
	for _, e := range entries {
		if e.Game.ID == gameID {
			return true
		}
	}
	return false
}

// Add appends e unless its game is already present. The bool reports whether the list changed.
func Add(entries []model.ListEntry, e model.ListEntry) ([]model.ListEntry, bool) {
	if Contains(entries, e.Game.ID) {
		return entries, false
	}
	out := make([]model.ListEntry, 0, len(entries)+1)
	out = append(out, entries...)
	return append(out, e), true
}

// Remove drops the entry for gameID; removing an absent ID is a no-op.
func Remove(entries []model.ListEntry, gameID int) ([]model.ListEntry, bool) {
	out := make([]model.ListEntry, 0, len(entries))
	for _, e := range entries {
		if e.Game.ID != gameID {
			out = append(out, e)
		}
	}
	return out, len(out) != len(entries)
}

// Total 加總所有項目的價格
func Total(entries []model.ListEntry) decimal.Decimal {
	sum := decimal.Zero
	for _, e := range entries {
		sum = sum.Add(e.Price)
	}
	return sum
}

type Store struct {
	cache cache.Cache
	kind  Kind
	ttl   time.Duration
}

func NewStore(c cache.Cache, kind Kind) *Store {
	return &Store{cache: c, kind: kind, ttl: DefaultTTL}
}

func (s *Store) Kind() Kind { return s.kind }

func (s *Store) key(owner int) string {
	return fmt.Sprintf("%s:%d", s.kind, owner)
}

// Items 讀回整份清單；不存在時回傳空清單，內容損毀時記錄後視為空清單
func (s *Store) Items(ctx context.Context, owner int) ([]model.ListEntry, error) {
	raw, err := s.cache.Get(ctx, s.key(owner)).Bytes()
	if errors.Is(err, redis.Nil) {
		return []model.ListEntry{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s Items: %w", s.kind, err)
	}
	entries := []model.ListEntry{}
	if err := jsonUnmarshal(raw, &entries); err != nil {
		log.Printf("%s: discarding unreadable list for owner %d: %v", s.kind, owner, err)
		return []model.ListEntry{}, nil
	}
	return entries, nil
}

func (s *Store) save(ctx context.Context, owner int, entries []model.ListEntry) error {
	data, err := jsonMarshal(entries)
	if err != nil {
		return fmt.Errorf("%s save: %w", s.kind, err)
	}
	if err := s.cache.Set(ctx, s.key(owner), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("%s save: %w", s.kind, err)
	}
	return nil
}

// Add 加入商品；已存在時不寫入並回傳 false
func (s *Store) Add(ctx context.Context, owner int, e model.ListEntry) ([]model.ListEntry, bool, error) {
	entries, err := s.Items(ctx, owner)
	if err != nil {
		return nil, false, err
	}
	entries, added := Add(entries, e)
	if !added {
		return entries, false, nil
	}
	if err := s.save(ctx, owner, entries); err != nil {
		return nil, false, err
	}
	return entries, true, nil
}

// Remove 移除商品；不存在時不寫入並回傳 false
func (s *Store) Remove(ctx context.Context, owner int, gameID int) ([]model.ListEntry, bool, error) {
	entries, err := s.Items(ctx, owner)
	if err != nil {
		return nil, false, err
	}
	entries, removed := Remove(entries, gameID)
	if !removed {
		return entries, false, nil
	}
	if err := s.save(ctx, owner, entries); err != nil {
		return nil, false, err
	}
	return entries, true, nil
}

func (s *Store) Clear(ctx context.Context, owner int) error {
	if err := s.cache.Del(ctx, s.key(owner)).Err(); err != nil {
		return fmt.Errorf("%s Clear: %w", s.kind, err)
	}
	return nil
}
