package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"fintrack/internal/auth"
)

const sessionCookie = "fintrack_session"

// requireAuth guards any handler that needs an identity. It resolves the
// session cookie, confirms the user still exists, and passes the user id
// through the request context. Anything else redirects to the login page.
func (s *Server) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := s.currentUser(r)
		if !ok {
			redirectWithNotice(w, r, "/login", "warning", "Please log in to access this page.")
			return
		}
		ctx := context.WithValue(r.Context(), userIDKey, userID)
		next(w, r.WithContext(ctx))
	}
}

// currentUser resolves the session cookie against the session manager and
// the credential store. A token bound to a vanished user does not count.
func (s *Server) currentUser(r *http.Request) (int64, bool) {
	c, err := r.Cookie(sessionCookie)
	if err != nil || c.Value == "" {
		return 0, false
	}
	userID, ok := s.sessions.Resolve(c.Value)
	if !ok {
		return 0, false
	}
	if !s.creds.UserExists(r.Context(), userID) {
		s.sessions.Clear(c.Value)
		return 0, false
	}
	return userID, true
}

// userIDFrom returns the authenticated user id placed by requireAuth.
func userIDFrom(ctx context.Context) int64 {
	id, _ := ctx.Value(userIDKey).(int64)
	return id
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	s.render(w, r, "home.html", struct {
		Notice *Notice
	}{Notice: popNotice(w, r)})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		s.render(w, r, "register.html", struct {
			Notice *Notice
		}{Notice: popNotice(w, r)})
		return
	}
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "GET, POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	if err := r.ParseForm(); err != nil {
		redirectWithNotice(w, r, "/register", "danger", "Invalid request format.")
		return
	}

	email := strings.TrimSpace(r.Form.Get("email"))
	password := r.Form.Get("password")

	_, err := s.creds.Register(r.Context(), email, password)
	switch {
	case errors.Is(err, auth.ErrEmailTaken):
		// Historical behavior: a taken email sends you to the login page.
		redirectWithNotice(w, r, "/login", "danger", "Email already registered. Please log in.")
		return
	case errors.Is(err, auth.ErrMissingCredentials):
		redirectWithNotice(w, r, "/register", "danger", "Email and password are required.")
		return
	case err != nil:
		slog.ErrorContext(r.Context(), "Registration failed", "error", err)
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}

	redirectWithNotice(w, r, "/login", "success", "Registration successful! You can now log in.")
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodGet {
		s.render(w, r, "login.html", struct {
			Notice *Notice
		}{Notice: popNotice(w, r)})
		return
	}
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "GET, POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	if err := r.ParseForm(); err != nil {
		redirectWithNotice(w, r, "/login", "danger", "Invalid request format.")
		return
	}

	userID, ok := s.creds.Verify(r.Context(), r.Form.Get("email"), r.Form.Get("password"))
	if !ok {
		// Unknown email and wrong password read the same on purpose.
		redirectWithNotice(w, r, "/login", "danger", "Invalid credentials.")
		return
	}

	token := s.sessions.Establish(userID)
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(24 * time.Hour),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	slog.InfoContext(r.Context(), "User logged in", "user_id", userID)
	redirectWithNotice(w, r, "/dashboard", "success", "Logged in successfully!")
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(sessionCookie); err == nil {
		s.sessions.Clear(c.Value)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	redirectWithNotice(w, r, "/login", "info", "Logged out.")
}
