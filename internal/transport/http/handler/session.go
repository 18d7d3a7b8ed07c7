package handler

import (
	"net/http"

	"github.com/bloodlink-api/internal/application/session"
	"github.com/bloodlink-api/internal/domain"
	"github.com/bloodlink-api/internal/transport/http/middleware"
	"go.uber.org/zap"
)

// SessionHandler signs accounts of one kind in and out.
type SessionHandler struct {
	svc     session.Service
	kind    domain.AccountKind
	cookies Cookies
	log     *zap.Logger
}

func NewSessionHandler(svc session.Service, kind domain.AccountKind, cookies Cookies, log *zap.Logger) *SessionHandler {
	return &SessionHandler{svc: svc, kind: kind, cookies: cookies, log: log}
}

func (h *SessionHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req session.LoginRequest
	if !decode(w, r, &req) {
		return
	}
	res, err := h.svc.Login(r.Context(), h.kind, req)
	if err != nil {
		httpError(w, h.log, err)
		return
	}
	h.cookies.set(w, res.Tokens)
	writeData(w, http.StatusOK, res.Account, "User logged in successfully")
}

// Logout always succeeds; tokens stay valid until they expire.
func (h *SessionHandler) Logout(w http.ResponseWriter, _ *http.Request) {
	h.cookies.clear(w)
	writeData(w, http.StatusOK, nil, "User logged out successfully")
}

func (h *SessionHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	acct, ok := middleware.AccountFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized request")
		return
	}
	writeData(w, http.StatusOK, acct, "User profile fetched")
}

// Refresh reads the refresh token from its cookie, falling back to the body.
func (h *SessionHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	token := ""
	if c, err := r.Cookie(middleware.RefreshCookie); err == nil {
		token = c.Value
	}
	if token == "" && r.ContentLength != 0 {
		var body struct {
			RefreshToken string `json:"refreshToken"`
		}
		if !decode(w, r, &body) {
			return
		}
		token = body.RefreshToken
	}
	res, err := h.svc.Refresh(r.Context(), token)
	if err != nil {
		httpError(w, h.log, err)
		return
	}
	if res.Account.Kind() != h.kind {
		writeError(w, http.StatusUnauthorized, "Invalid refresh token")
		return
	}
	h.cookies.set(w, res.Tokens)
	writeData(w, http.StatusOK, res.Account, "Access token refreshed")
}
