package auth

import (
	"testing"
	"time"
)

func TestSessionEstablishResolveClear(t *testing.T) {
	m := NewSessionManager(time.Hour)
	defer m.Stop()

	token := m.Establish(42)
	if token == "" {
		t.Fatalf("empty token")
	}

	id, ok := m.Resolve(token)
	if !ok || id != 42 {
		t.Fatalf("resolve = (%d, %v), want (42, true)", id, ok)
	}

	m.Clear(token)
	if _, ok := m.Resolve(token); ok {
		t.Fatalf("cleared session still resolves")
	}
}

func TestSessionUnknownToken(t *testing.T) {
	m := NewSessionManager(time.Hour)
	defer m.Stop()

	if _, ok := m.Resolve(""); ok {
		t.Fatalf("empty token resolved")
	}
	if _, ok := m.Resolve("not-a-token"); ok {
		t.Fatalf("unknown token resolved")
	}
}

func TestSessionExpiry(t *testing.T) {
	m := NewSessionManager(10 * time.Millisecond)
	defer m.Stop()

	token := m.Establish(7)
	time.Sleep(25 * time.Millisecond)
	if _, ok := m.Resolve(token); ok {
		t.Fatalf("expired session still resolves")
	}
}

func TestSessionTokensAreUnique(t *testing.T) {
	m := NewSessionManager(time.Hour)
	defer m.Stop()

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		tok := m.Establish(int64(i))
		if seen[tok] {
			t.Fatalf("duplicate token issued")
		}
		seen[tok] = true
	}
}
