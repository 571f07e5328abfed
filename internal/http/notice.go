package http

import (
	"encoding/base64"
	"net/http"
	"strings"
)

// Notice is a short classified message shown once after a redirect.
type Notice struct {
	Level   string // success, info, warning, danger
	Message string
}

const noticeCookie = "fintrack_notice"

// setNotice attaches a one-shot notice to the response, carried in a cookie
// across the redirect and cleared on the next render.
func setNotice(w http.ResponseWriter, level, message string) {
	value := base64.URLEncoding.EncodeToString([]byte(level + "|" + message))
	http.SetCookie(w, &http.Cookie{
		Name:     noticeCookie,
		Value:    value,
		Path:     "/",
		MaxAge:   60,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// popNotice reads the pending notice, if any, and clears the cookie.
func popNotice(w http.ResponseWriter, r *http.Request) *Notice {
	c, err := r.Cookie(noticeCookie)
	if err != nil || c.Value == "" {
		return nil
	}

	http.SetCookie(w, &http.Cookie{
		Name:     noticeCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	decoded, err := base64.URLEncoding.DecodeString(c.Value)
	if err != nil {
		return nil
	}
	level, message, ok := strings.Cut(string(decoded), "|")
	if !ok {
		return nil
	}
	return &Notice{Level: level, Message: message}
}

// redirectWithNotice sets the notice and issues a See Other redirect.
func redirectWithNotice(w http.ResponseWriter, r *http.Request, target, level, message string) {
	setNotice(w, level, message)
	http.Redirect(w, r, target, http.StatusSeeOther)
}
