package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/matzehuels/infinicanvas/pkg/cache"
	"github.com/matzehuels/infinicanvas/pkg/observability"
)

// CacheStore keeps sessions as JSON entries in a cache.Cache. Entry TTLs
// follow the session's ExpiresAt, so Redis expires them on its own.
type CacheStore struct {
	cache cache.Cache
	keyer cache.Keyer
}

// NewCacheStore creates a store on c. A nil keyer uses the default keyer.
func NewCacheStore(c cache.Cache, keyer cache.Keyer) *CacheStore {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	return &CacheStore{cache: c, keyer: keyer}
}

func (s *CacheStore) Get(ctx context.Context, id string) (*Session, error) {
	data, hit, err := s.cache.Get(ctx, s.keyer.SessionKey(id))
	if err != nil {
		return nil, fmt.Errorf("read session: %w", err)
	}
	if !hit {
		observability.Cache().OnCacheMiss(ctx, "session")
		return nil, nil
	}
	observability.Cache().OnCacheHit(ctx, "session")

	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("parse session: %w", err)
	}
	if sess.IsExpired() {
		_ = s.cache.Delete(ctx, s.keyer.SessionKey(id))
		return nil, nil
	}
	return &sess, nil
}

func (s *CacheStore) Set(ctx context.Context, sess *Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	ttl := time.Until(sess.ExpiresAt)
	if ttl <= 0 {
		return s.Delete(ctx, sess.ID)
	}
	if err := s.cache.Set(ctx, s.keyer.SessionKey(sess.ID), data, ttl); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	observability.Cache().OnCacheSet(ctx, "session", len(data))
	return nil
}

func (s *CacheStore) Delete(ctx context.Context, id string) error {
	return s.cache.Delete(ctx, s.keyer.SessionKey(id))
}

// Cleanup is a no-op: expired entries are dropped by the cache on read.
func (s *CacheStore) Cleanup(ctx context.Context) error { return nil }

// Close closes the underlying cache.
func (s *CacheStore) Close() error { return s.cache.Close() }

var _ Store = (*CacheStore)(nil)
