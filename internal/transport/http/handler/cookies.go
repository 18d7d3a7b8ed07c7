package handler

import (
	"net/http"

	"github.com/bloodlink-api/internal/domain"
	"github.com/bloodlink-api/internal/transport/http/middleware"
)

// Cookies sets and clears the token pair cookies. Both are cross-site
// session cookies, so Secure must be on anywhere but plain-http development.
type Cookies struct {
	Secure bool
}

func (c Cookies) cookie(name, value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteNoneMode,
	}
}

func (c Cookies) set(w http.ResponseWriter, pair domain.TokenPair) {
	http.SetCookie(w, c.cookie(middleware.AccessCookie, pair.Access, 0))
	http.SetCookie(w, c.cookie(middleware.RefreshCookie, pair.Refresh, 0))
}

func (c Cookies) clear(w http.ResponseWriter) {
	http.SetCookie(w, c.cookie(middleware.AccessCookie, "", -1))
	http.SetCookie(w, c.cookie(middleware.RefreshCookie, "", -1))
}
