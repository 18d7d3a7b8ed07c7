package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/bloodlink-api/internal/domain"
	"go.uber.org/zap"
)

type contextKey string

const accountKey contextKey = "account"

// AccessCookie and RefreshCookie name the cookies carrying the token pair.
const (
	AccessCookie  = "accessToken"
	RefreshCookie = "refreshToken"
)

type authenticator interface {
	Authenticate(ctx context.Context, accessToken string) (domain.Account, error)
}

// Auth resolves the access token from the accessToken cookie or a Bearer
// header and stores the account profile in the request context.
func Auth(svc authenticator, log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			acct, err := svc.Authenticate(r.Context(), accessToken(r))
			if err != nil {
				if !errors.Is(err, domain.ErrUnauthorized) {
					log.Error("authenticate request", zap.Error(err))
					writeJSONError(w, http.StatusInternalServerError, "Something went wrong")
					return
				}
				writeJSONError(w, http.StatusUnauthorized, domain.Message(err))
				return
			}
			ctx := context.WithValue(r.Context(), accountKey, acct)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireKind rejects authenticated accounts of any other kind.
func RequireKind(kind domain.AccountKind) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			acct, ok := AccountFromContext(r.Context())
			if !ok || acct.Kind() != kind {
				writeJSONError(w, http.StatusUnauthorized, "Invalid access token")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// AccountFromContext returns the profile stored by Auth.
func AccountFromContext(ctx context.Context) (domain.Account, bool) {
	a, ok := ctx.Value(accountKey).(domain.Account)
	return a, ok
}

func accessToken(r *http.Request) string {
	if c, err := r.Cookie(AccessCookie); err == nil && c.Value != "" {
		return c.Value
	}
	return strings.TrimSpace(strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer "))
}
