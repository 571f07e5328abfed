package http

import (
	"context"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"fintrack/internal/auth"
	"fintrack/internal/ledger/memory"
)

func newTestServer(t *testing.T) (*Server, *memory.Store) {
	t.Helper()
	store := memory.New()
	sessions := auth.NewSessionManager(time.Hour)
	t.Cleanup(sessions.Stop)
	creds := auth.NewCredentials(store)
	srv := NewServer(":0", creds, sessions, store, store)
	t.Cleanup(func() { _ = srv.Shutdown(context.Background()) })
	return srv, store
}

func doRequest(t *testing.T, srv *Server, method, path string, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, path, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rr := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rr, req)
	return rr
}

// notice decodes the one-shot notice cookie set on the response.
func notice(t *testing.T, rr *httptest.ResponseRecorder) (level, message string) {
	t.Helper()
	for _, c := range rr.Result().Cookies() {
		if c.Name == noticeCookie && c.Value != "" {
			decoded, err := base64.URLEncoding.DecodeString(c.Value)
			if err != nil {
				t.Fatalf("decode notice cookie: %v", err)
			}
			level, message, _ = strings.Cut(string(decoded), "|")
			return level, message
		}
	}
	t.Fatalf("no notice cookie on response")
	return "", ""
}

func sessionCookieFrom(t *testing.T, rr *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rr.Result().Cookies() {
		if c.Name == sessionCookie && c.Value != "" {
			return c
		}
	}
	t.Fatalf("no session cookie on response")
	return nil
}

// registerAndLogin creates an account and returns its session cookie.
func registerAndLogin(t *testing.T, srv *Server, email string) *http.Cookie {
	t.Helper()
	form := url.Values{"email": {email}, "password": {"s3cret"}}
	rr := doRequest(t, srv, http.MethodPost, "/register", form)
	if rr.Code != http.StatusSeeOther {
		t.Fatalf("register status = %d", rr.Code)
	}
	rr = doRequest(t, srv, http.MethodPost, "/login", form)
	if rr.Code != http.StatusSeeOther || rr.Header().Get("Location") != "/dashboard" {
		t.Fatalf("login status = %d, location = %q", rr.Code, rr.Header().Get("Location"))
	}
	return sessionCookieFrom(t, rr)
}

func TestHealthEndpoints(t *testing.T) {
	srv, _ := newTestServer(t)
	for _, path := range []string{"/healthz", "/readyz"} {
		rr := doRequest(t, srv, http.MethodGet, path, nil)
		if rr.Code != http.StatusOK {
			t.Fatalf("%s status = %d", path, rr.Code)
		}
	}
}

func TestUnauthenticatedDashboardRedirects(t *testing.T) {
	srv, _ := newTestServer(t)

	rr := doRequest(t, srv, http.MethodGet, "/dashboard", nil)
	if rr.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rr.Code)
	}
	if loc := rr.Header().Get("Location"); loc != "/login" {
		t.Fatalf("location = %q, want /login", loc)
	}
	level, msg := notice(t, rr)
	if level != "warning" || !strings.Contains(msg, "log in") {
		t.Fatalf("notice = (%q, %q)", level, msg)
	}
}

func TestRegisterThenLoginFlow(t *testing.T) {
	srv, _ := newTestServer(t)

	form := url.Values{"email": {"a@example.com"}, "password": {"s3cret"}}
	rr := doRequest(t, srv, http.MethodPost, "/register", form)
	if rr.Code != http.StatusSeeOther || rr.Header().Get("Location") != "/login" {
		t.Fatalf("register: status %d location %q", rr.Code, rr.Header().Get("Location"))
	}
	if level, _ := notice(t, rr); level != "success" {
		t.Fatalf("register notice level = %q", level)
	}

	rr = doRequest(t, srv, http.MethodPost, "/login", form)
	cookie := sessionCookieFrom(t, rr)

	rr = doRequest(t, srv, http.MethodGet, "/dashboard", nil, cookie)
	if rr.Code != http.StatusOK {
		t.Fatalf("dashboard status = %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "Dashboard") {
		t.Fatalf("dashboard body missing heading")
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	srv, _ := newTestServer(t)

	form := url.Values{"email": {"dup@example.com"}, "password": {"pw"}}
	doRequest(t, srv, http.MethodPost, "/register", form)

	rr := doRequest(t, srv, http.MethodPost, "/register", form)
	if rr.Code != http.StatusSeeOther {
		t.Fatalf("status = %d", rr.Code)
	}
	// Duplicate goes to the login page, not back to the form
	if loc := rr.Header().Get("Location"); loc != "/login" {
		t.Fatalf("location = %q, want /login", loc)
	}
	if level, _ := notice(t, rr); level != "danger" {
		t.Fatalf("notice level = %q, want danger", level)
	}
}

func TestLoginInvalidCredentials(t *testing.T) {
	srv, _ := newTestServer(t)
	doRequest(t, srv, http.MethodPost, "/register", url.Values{"email": {"a@example.com"}, "password": {"right"}})

	for name, form := range map[string]url.Values{
		"wrong password": {"email": {"a@example.com"}, "password": {"wrong"}},
		"unknown email":  {"email": {"nobody@example.com"}, "password": {"right"}},
	} {
		rr := doRequest(t, srv, http.MethodPost, "/login", form)
		if rr.Code != http.StatusSeeOther || rr.Header().Get("Location") != "/login" {
			t.Fatalf("%s: status %d location %q", name, rr.Code, rr.Header().Get("Location"))
		}
		level, msg := notice(t, rr)
		if level != "danger" || msg != "Invalid credentials." {
			t.Fatalf("%s: notice = (%q, %q) — failure modes must be indistinguishable", name, level, msg)
		}
	}
}

func TestLogoutClearsSession(t *testing.T) {
	srv, _ := newTestServer(t)
	cookie := registerAndLogin(t, srv, "a@example.com")

	rr := doRequest(t, srv, http.MethodGet, "/logout", nil, cookie)
	if rr.Code != http.StatusSeeOther || rr.Header().Get("Location") != "/login" {
		t.Fatalf("logout: status %d location %q", rr.Code, rr.Header().Get("Location"))
	}
	if level, _ := notice(t, rr); level != "info" {
		t.Fatalf("notice level = %q, want info", level)
	}

	// Old cookie no longer grants access
	rr = doRequest(t, srv, http.MethodGet, "/dashboard", nil, cookie)
	if rr.Code != http.StatusSeeOther {
		t.Fatalf("expected redirect after logout, got %d", rr.Code)
	}
}

func TestAddTransactionAndAggregates(t *testing.T) {
	srv, store := newTestServer(t)
	cookie := registerAndLogin(t, srv, "a@example.com")

	adds := []url.Values{
		{"amount": {"1000"}, "category": {"income"}, "description": {"salary"}},
		{"amount": {"300"}, "category": {"expense"}, "description": {"rent"}},
		{"amount": {"200"}, "category": {"expense"}, "description": {"food"}},
	}
	for _, form := range adds {
		rr := doRequest(t, srv, http.MethodPost, "/add_transaction", form, cookie)
		if rr.Code != http.StatusSeeOther || rr.Header().Get("Location") != "/dashboard" {
			t.Fatalf("add: status %d location %q", rr.Code, rr.Header().Get("Location"))
		}
		if level, _ := notice(t, rr); level != "success" {
			t.Fatalf("add notice level = %q", level)
		}
	}

	list, err := store.ListTransactionsByUser(context.Background(), 1)
	if err != nil || len(list) != 3 {
		t.Fatalf("stored transactions: %v %d", err, len(list))
	}

	rr := doRequest(t, srv, http.MethodGet, "/dashboard", nil, cookie)
	body := rr.Body.String()
	for _, want := range []string{"1000.00", "500.00", "salary", "rent"} {
		if !strings.Contains(body, want) {
			t.Fatalf("dashboard missing %q:\n%s", want, body)
		}
	}
	// All transactions are dated today, so the prediction equals total expense
	if !strings.Contains(body, "500.00") {
		t.Fatalf("dashboard missing predicted expense")
	}
}

func TestAddTransactionRejectsMalformedAmount(t *testing.T) {
	srv, store := newTestServer(t)
	cookie := registerAndLogin(t, srv, "a@example.com")

	rr := doRequest(t, srv, http.MethodPost, "/add_transaction",
		url.Values{"amount": {"abc"}, "category": {"expense"}, "description": {"x"}}, cookie)
	if rr.Code != http.StatusSeeOther {
		t.Fatalf("status = %d", rr.Code)
	}
	if level, msg := notice(t, rr); level != "danger" || msg != "Invalid amount." {
		t.Fatalf("notice = (%q, %q)", level, msg)
	}

	// Nothing stored — malformed input must not become a zero amount
	list, err := store.ListTransactionsByUser(context.Background(), 1)
	if err != nil || len(list) != 0 {
		t.Fatalf("malformed amount was stored: %v %d", err, len(list))
	}
}

func TestUnknownCategoryStoredButExcluded(t *testing.T) {
	srv, _ := newTestServer(t)
	cookie := registerAndLogin(t, srv, "a@example.com")

	rr := doRequest(t, srv, http.MethodPost, "/add_transaction",
		url.Values{"amount": {"50"}, "category": {"savings"}, "description": {"vault"}}, cookie)
	if rr.Code != http.StatusSeeOther {
		t.Fatalf("add status = %d", rr.Code)
	}

	rr = doRequest(t, srv, http.MethodGet, "/dashboard", nil, cookie)
	body := rr.Body.String()
	if !strings.Contains(body, "savings") {
		t.Fatalf("transaction row missing from dashboard")
	}
	// Totals stay at zero: the category contributes to neither sum
	if !strings.Contains(body, "0.00") {
		t.Fatalf("expected zero totals, body:\n%s", body)
	}
}

func TestNegativeNetShowsWarning(t *testing.T) {
	srv, _ := newTestServer(t)
	cookie := registerAndLogin(t, srv, "a@example.com")

	doRequest(t, srv, http.MethodPost, "/add_transaction",
		url.Values{"amount": {"100"}, "category": {"expense"}, "description": {"overspend"}}, cookie)

	rr := doRequest(t, srv, http.MethodGet, "/dashboard", nil, cookie)
	if !strings.Contains(rr.Body.String(), "negative net balance") {
		t.Fatalf("expected negative net warning, body:\n%s", rr.Body.String())
	}
}

func TestSummaryCacheInvalidatedOnAdd(t *testing.T) {
	srv, _ := newTestServer(t)
	cookie := registerAndLogin(t, srv, "a@example.com")

	// Prime the cache with an empty ledger
	doRequest(t, srv, http.MethodGet, "/dashboard", nil, cookie)

	doRequest(t, srv, http.MethodPost, "/add_transaction",
		url.Values{"amount": {"75"}, "category": {"income"}, "description": {"gift"}}, cookie)

	rr := doRequest(t, srv, http.MethodGet, "/dashboard", nil, cookie)
	if !strings.Contains(rr.Body.String(), "75.00") {
		t.Fatalf("stale summary served after add")
	}
}

func TestSessionForDeletedUserRejected(t *testing.T) {
	srv, _ := newTestServer(t)

	// Token bound to a user id that never existed
	token := srv.sessions.Establish(999)
	cookie := &http.Cookie{Name: sessionCookie, Value: token}

	rr := doRequest(t, srv, http.MethodGet, "/dashboard", nil, cookie)
	if rr.Code != http.StatusSeeOther || rr.Header().Get("Location") != "/login" {
		t.Fatalf("expected redirect for vanished user, got %d %q", rr.Code, rr.Header().Get("Location"))
	}
}

func TestAddTransactionMethodNotAllowed(t *testing.T) {
	srv, _ := newTestServer(t)
	cookie := registerAndLogin(t, srv, "a@example.com")

	rr := doRequest(t, srv, http.MethodGet, "/add_transaction", nil, cookie)
	if rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want 405", rr.Code)
	}
}
