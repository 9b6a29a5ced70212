package session

import (
	"context"
	"sync"
	"time"

	"github.com/matzehuels/infinicanvas/pkg/errors"
	"github.com/matzehuels/infinicanvas/pkg/view"
)

// Manager serialises session reads and mutations on a store.
type Manager struct {
	store Store
	ttl   time.Duration
	mu    sync.Mutex
}

// NewManager creates a manager. A ttl <= 0 uses DefaultTTL.
func NewManager(store Store, ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Manager{store: store, ttl: ttl}
}

// TTL returns the session lifetime.
func (m *Manager) TTL() time.Duration { return m.ttl }

// Create stores a new session holding snap.
func (m *Manager) Create(ctx context.Context, snap view.Snapshot) (*Session, error) {
	sess := New(snap, m.ttl)
	if err := m.store.Set(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

// Get returns the session with id, or a SESSION_NOT_FOUND error.
func (m *Manager) Get(ctx context.Context, id string) (*Session, error) {
	if err := errors.ValidateSessionID(id); err != nil {
		return nil, err
	}
	sess, err := m.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, errors.New(errors.ErrCodeSessionNotFound, "session not found: %s", id)
	}
	return sess, nil
}

// Update applies fn to the session's view holder and stores the result. The
// whole read-modify-write runs under the manager's lock, and a successful
// update extends the session's lifetime. If fn fails nothing is stored.
func (m *Manager) Update(ctx context.Context, id string, fn func(h *view.Holder) error) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	sess, err := m.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	h := sess.Holder()
	if err := fn(h); err != nil {
		return nil, err
	}
	sess.View = h.Snapshot()
	sess.touch(m.ttl)
	if err := m.store.Set(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

// Delete ends a session. Deleting an unknown session is a SESSION_NOT_FOUND
// error.
func (m *Manager) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, err := m.Get(ctx, id); err != nil {
		return err
	}
	return m.store.Delete(ctx, id)
}

// Cleanup removes expired sessions.
func (m *Manager) Cleanup(ctx context.Context) error {
	return m.store.Cleanup(ctx)
}

// Close closes the store.
func (m *Manager) Close() error {
	return m.store.Close()
}
