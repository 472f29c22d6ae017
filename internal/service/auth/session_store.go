package auth

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Flash categories.
const (
	FlashSuccess = "success"
	FlashError   = "error"
	FlashInfo    = "info"
)

// Flash is a one-shot message shown on the next rendered page.
type Flash struct {
	Category string
	Message  string
}

// Session is the server-side record a session cookie points to.
type Session struct {
	ID        uuid.UUID
	UserID    int64
	Username  string
	ExpiresAt time.Time
	Flashes   []Flash
}

// Expired reports whether the session has lapsed at now.
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// SessionStore holds live sessions.
type SessionStore interface {
	// Save inserts or replaces a session.
	Save(ctx context.Context, session *Session) error

	// Get returns a copy of the session, or ErrSessionNotFound.
	Get(ctx context.Context, id uuid.UUID) (*Session, error)

	// Delete removes a session. Deleting an unknown session is not an error.
	Delete(ctx context.Context, id uuid.UUID) error

	// AddFlash appends a flash message to a session.
	AddFlash(ctx context.Context, id uuid.UUID, flash Flash) error

	// PopFlashes returns and clears a session's flash messages.
	PopFlashes(ctx context.Context, id uuid.UUID) ([]Flash, error)

	// DeleteExpired removes every session expired at now and reports how many.
	DeleteExpired(ctx context.Context, now time.Time) int

	// Close drops every session.
	Close() error
}

// MemorySessionStore is a SessionStore that lives for the process lifetime.
type MemorySessionStore struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session
}

var _ SessionStore = (*MemorySessionStore)(nil)

// NewMemorySessionStore creates an empty MemorySessionStore.
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{sessions: make(map[uuid.UUID]*Session)}
}

// Save implements SessionStore.
func (m *MemorySessionStore) Save(_ context.Context, session *Session) error {
	s := copySession(session)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = s
	return nil
}

// Get implements SessionStore.
func (m *MemorySessionStore) Get(_ context.Context, id uuid.UUID) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return copySession(s), nil
}

// Delete implements SessionStore.
func (m *MemorySessionStore) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

// AddFlash implements SessionStore.
func (m *MemorySessionStore) AddFlash(_ context.Context, id uuid.UUID, flash Flash) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok {
		return ErrSessionNotFound
	}
	s.Flashes = append(s.Flashes, flash)
	return nil
}

// PopFlashes implements SessionStore.
func (m *MemorySessionStore) PopFlashes(_ context.Context, id uuid.UUID) ([]Flash, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	flashes := s.Flashes
	s.Flashes = nil
	return flashes, nil
}

// DeleteExpired implements SessionStore.
func (m *MemorySessionStore) DeleteExpired(_ context.Context, now time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0
	for id, s := range m.sessions {
		if s.Expired(now) {
			delete(m.sessions, id)
			n++
		}
	}
	return n
}

// Len returns the number of stored sessions.
func (m *MemorySessionStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Close implements SessionStore.
func (m *MemorySessionStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	clear(m.sessions)
	return nil
}

func copySession(s *Session) *Session {
	c := *s
	if s.Flashes != nil {
		c.Flashes = append([]Flash(nil), s.Flashes...)
	}
	return &c
}
