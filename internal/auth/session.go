package auth

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// SessionManager maps opaque tokens to user ids. Tokens are held server side
// only; the HTTP layer stores nothing but the token in the cookie.
type SessionManager struct {
	mu           sync.Mutex
	sessions     map[string]sessionEntry
	ttl          time.Duration
	stopCleanup  chan struct{}
	shutdownOnce sync.Once
}

type sessionEntry struct {
	userID    int64
	expiresAt time.Time
}

func NewSessionManager(ttl time.Duration) *SessionManager {
	m := &SessionManager{
		sessions:    make(map[string]sessionEntry),
		ttl:         ttl,
		stopCleanup: make(chan struct{}),
	}
	go m.startCleanup()
	return m
}

// Establish binds a fresh token to the user and returns it.
func (m *SessionManager) Establish(userID int64) string {
	token := uuid.NewString()

	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[token] = sessionEntry{
		userID:    userID,
		expiresAt: time.Now().Add(m.ttl),
	}
	return token
}

// Resolve returns the user id bound to the token, if the session is live.
func (m *SessionManager) Resolve(token string) (int64, bool) {
	if token == "" {
		return 0, false
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.sessions[token]
	if !ok {
		return 0, false
	}
	if time.Now().After(entry.expiresAt) {
		delete(m.sessions, token)
		return 0, false
	}
	return entry.userID, true
}

// Clear unbinds the token.
func (m *SessionManager) Clear(token string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, token)
}

// startCleanup periodically drops expired sessions.
func (m *SessionManager) startCleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.cleanupExpired()
		case <-m.stopCleanup:
			return
		}
	}
}

func (m *SessionManager) cleanupExpired() {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	for token, entry := range m.sessions {
		if now.After(entry.expiresAt) {
			delete(m.sessions, token)
		}
	}
}

// Stop shuts down the cleanup goroutine.
func (m *SessionManager) Stop() {
	m.shutdownOnce.Do(func() {
		close(m.stopCleanup)
	})
}
