package auth

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Session resolution is DB-backed: the cookie carries an opaque raw token and
// the store keeps only its digest. We take a resolver callback instead of
// importing gorm here to keep the package lightweight.

type ctxKey string

const (
	sessionCookieName = "jt_session"
	userIDCtxKey      = ctxKey("userID")
)

// SessionTTL is the absolute lifetime of a session, fixed at issuance.
// Sessions are never extended by use.
const SessionTTL = 7 * 24 * time.Hour

// SessionResolver maps a raw session token to a user id. It must return
// ok=false for unknown or expired tokens. Set it during app bootstrap via
// SetSessionResolver. If nil, every request is anonymous.
type SessionResolver func(ctx context.Context, rawToken string) (uint, bool)

var resolver SessionResolver

// SetSessionResolver configures the global resolver used by Middleware.
func SetSessionResolver(r SessionResolver) { resolver = r }

// SetSessionCookie delivers the raw token to the browser. The cookie expiry
// matches the session row's expiry.
func SetSessionCookie(w http.ResponseWriter, rawToken string, expiresAt time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    rawToken,
		Path:     "/",
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
		Expires:  expiresAt,
	})
}

// ClearSessionCookie deletes the session cookie.
func ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{Name: sessionCookieName, Value: "", Path: "/", Expires: time.Unix(0, 0), HttpOnly: true, Secure: true, SameSite: http.SameSiteLaxMode})
}

// TokenFromRequest extracts the raw session token from the cookie.
func TokenFromRequest(r *http.Request) (string, bool) {
	c, err := r.Cookie(sessionCookieName)
	if err != nil || c.Value == "" {
		return "", false
	}
	return c.Value, true
}

// WithUserID stores user id in context.
func WithUserID(ctx context.Context, userID uint) context.Context {
	return context.WithValue(ctx, userIDCtxKey, userID)
}

// UserIDFromContext extracts user id.
func UserIDFromContext(ctx context.Context) (uint, bool) {
	v := ctx.Value(userIDCtxKey)
	if v == nil {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}

// Middleware attaches the resolved user id to the request context if the
// cookie carries a live session. It never blocks a request on its own.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if token, ok := TokenFromRequest(r); ok && resolver != nil {
			if uid, ok := resolver(r.Context(), token); ok {
				r = r.WithContext(WithUserID(r.Context(), uid))
			}
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAuth redirects to /login if not authenticated (HTML) or returns 401 JSON.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := UserIDFromContext(r.Context()); !ok {
			accept := r.Header.Get("Accept")
			if strings.Contains(accept, "application/json") && !strings.Contains(accept, "text/html") {
				w.WriteHeader(http.StatusUnauthorized)
				fmt.Fprint(w, `{"error":"unauthorized"}`)
				return
			}
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}
