// Package auth owns user credentials and server-side sessions.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"fintrack/internal/ledger"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrMissingCredentials = errors.New("email and password are required")
)

// Credentials verifies and creates user identities on top of a UserStore.
// Password digests are bcrypt; callers never see them.
type Credentials struct {
	users ledger.UserStore
}

func NewCredentials(users ledger.UserStore) *Credentials {
	return &Credentials{users: users}
}

// Register creates a new account and returns its user id.
// Emails are compared exactly (case-sensitive), matching the login key.
func (c *Credentials) Register(ctx context.Context, email, password string) (int64, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return 0, ErrMissingCredentials
	}

	if _, err := c.users.GetUserByEmail(ctx, email); err == nil {
		return 0, ErrEmailTaken
	} else if !errors.Is(err, ledger.ErrNotFound) {
		return 0, fmt.Errorf("lookup existing user: %w", err)
	}

	digest, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return 0, fmt.Errorf("hash password: %w", err)
	}

	id, err := c.users.CreateUser(ctx, email, string(digest))
	if errors.Is(err, ledger.ErrDuplicateEmail) {
		// Lost the race against a concurrent registration with the same email.
		return 0, ErrEmailTaken
	}
	if err != nil {
		return 0, fmt.Errorf("create user: %w", err)
	}

	slog.InfoContext(ctx, "User registered", "user_id", id)
	return id, nil
}

// Verify checks an email/password pair. Unknown email and wrong password are
// deliberately indistinguishable: both return (0, false).
func (c *Credentials) Verify(ctx context.Context, email, password string) (int64, bool) {
	u, err := c.users.GetUserByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		return 0, false
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return 0, false
	}
	return u.ID, true
}

// UserExists reports whether the user id still resolves to an account.
// Sessions for deleted or unknown users are treated as unauthenticated.
func (c *Credentials) UserExists(ctx context.Context, id int64) bool {
	_, err := c.users.GetUserByID(ctx, id)
	return err == nil
}
