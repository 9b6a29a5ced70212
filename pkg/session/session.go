// Package session keeps server-side canvas views.
//
// A [Session] is one mounted canvas: the view snapshot a client mutates with
// wheel and pointer events, plus its lifetime. Sessions live in a [Store]:
//
//   - [MemoryStore]: in-process map, for a single server and tests
//   - [CacheStore]: JSON entries in any cache.Cache, so the file cache or
//     Redis; several servers can share a Redis-backed store
//
// [Manager] wraps a store with the read-modify-write cycle the HTTP host
// needs, serialising mutations so concurrent events on one session are
// applied one after another.
//
// # Usage
//
//	m := session.NewManager(session.NewMemoryStore(), session.DefaultTTL)
//	sess, _ := m.Create(ctx, view.DefaultSnapshot())
//	sess, err := m.Update(ctx, sess.ID, func(h *view.Holder) error {
//	    h.Zoom(view.WheelEvent{X: 400, Y: 300, DeltaY: -1})
//	    return nil
//	})
package session

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/infinicanvas/pkg/view"
)

// DefaultTTL is how long an untouched session lives.
const DefaultTTL = time.Hour

// Session stores one client's view.
type Session struct {
	ID        string        `json:"id"`
	View      view.Snapshot `json:"view"`
	Initial   view.State    `json:"initial"` // reset target
	CreatedAt time.Time     `json:"created_at"`
	ExpiresAt time.Time     `json:"expires_at"`
}

// IsExpired returns true if the session has expired.
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// Holder returns a view holder restored from the session.
func (s *Session) Holder() *view.Holder {
	return view.RestoreAt(s.Initial, s.View)
}

// touch extends the session's lifetime by ttl from now.
func (s *Session) touch(ttl time.Duration) {
	s.ExpiresAt = time.Now().Add(ttl)
}

// Store is the interface for session storage backends.
type Store interface {
	// Get retrieves a session by ID.
	// Returns nil, nil if the session doesn't exist or has expired.
	Get(ctx context.Context, id string) (*Session, error)

	// Set stores a session until its ExpiresAt.
	Set(ctx context.Context, s *Session) error

	// Delete removes a session. Deleting a missing session is not an error.
	Delete(ctx context.Context, id string) error

	// Cleanup removes expired sessions (may be a no-op where the backend
	// expires entries itself).
	Cleanup(ctx context.Context) error

	// Close releases the store's resources.
	Close() error
}

// GenerateID returns a random session ID.
func GenerateID() string {
	return uuid.NewString()
}

// New creates a session holding snap.
func New(snap view.Snapshot, ttl time.Duration) *Session {
	now := time.Now()
	snap = snap.Normalized()
	return &Session{
		ID:        GenerateID(),
		View:      snap,
		Initial:   snap.State,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
}
