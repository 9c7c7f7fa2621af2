package session

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/wricardo/sentry-grid/game/engine"
	"github.com/wricardo/sentry-grid/game/service"
)

var (
	ErrSessionNotFound      = service.ErrSessionNotFound
	ErrSessionAlreadyExists = errors.New("session already exists")
)

// maxIDAttempts bounds the retries when a generated ID collides
const maxIDAttempts = 16

// Manager holds the live worlds, keyed by lower-cased session ID.
// Sessions live in memory only.
type Manager struct {
	mu     sync.RWMutex
	worlds map[string]*service.Session
	now    func() time.Time
}

// NewManager creates an empty session manager
func NewManager() *Manager {
	return &Manager{
		worlds: make(map[string]*service.Session),
		now:    time.Now,
	}
}

func key(id string) string {
	return strings.ToLower(id)
}

// Create builds a fresh engine from config and registers it under id.
// An empty id is replaced by a generated 4-character hex one.
func (m *Manager) Create(id string, config *engine.WorldConfig) (*service.Session, error) {
	eng, err := engine.NewEngine(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create engine: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	switch {
	case id == "":
		if id, err = m.unusedID(); err != nil {
			return nil, err
		}
	case m.worlds[key(id)] != nil:
		return nil, fmt.Errorf("%w: %s", ErrSessionAlreadyExists, id)
	}

	now := m.now()
	sess := &service.Session{
		ID:             id,
		Engine:         eng,
		Config:         config,
		CreatedAt:      now,
		LastAccessedAt: now,
	}
	m.worlds[key(id)] = sess
	return sess, nil
}

// Get looks a session up without marking it as accessed
func (m *Manager) Get(id string) (*service.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	sess, ok := m.worlds[key(id)]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

// Touch looks a session up and refreshes its last access time, which keeps
// it clear of CleanupExpiredSessions
func (m *Manager) Touch(id string) (*service.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	sess, ok := m.worlds[key(id)]
	if !ok {
		return nil, ErrSessionNotFound
	}
	sess.LastAccessedAt = m.now()
	return sess, nil
}

// Exists reports whether a session is held under id
func (m *Manager) Exists(id string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.worlds[key(id)]
	return ok
}

// List returns the live sessions in no particular order
func (m *Manager) List() []*service.Session {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*service.Session, 0, len(m.worlds))
	for _, sess := range m.worlds {
		out = append(out, sess)
	}
	return out
}

// Delete forgets a session and its world
func (m *Manager) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.worlds[key(id)]; !ok {
		return ErrSessionNotFound
	}
	delete(m.worlds, key(id))
	return nil
}

// CleanupExpiredSessions drops sessions idle for longer than maxAge and
// returns how many were removed
func (m *Manager) CleanupExpiredSessions(maxAge time.Duration) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := m.now().Add(-maxAge)
	removed := 0
	for k, sess := range m.worlds {
		if sess.LastAccessedAt.Before(cutoff) {
			delete(m.worlds, k)
			removed++
		}
	}
	return removed
}

// Count returns the number of live sessions
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.worlds)
}

// unusedID draws random 4-character hex IDs until one is free.
// Caller holds the write lock.
func (m *Manager) unusedID() (string, error) {
	buf := make([]byte, 2)
	for range maxIDAttempts {
		if _, err := rand.Read(buf); err != nil {
			return "", fmt.Errorf("failed to generate session ID: %w", err)
		}
		if id := hex.EncodeToString(buf); m.worlds[id] == nil {
			return id, nil
		}
	}
	return "", fmt.Errorf("failed to generate a unique session ID after %d attempts", maxIDAttempts)
}
