package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestSessionCookieRoundTrip(t *testing.T) {
	rec := httptest.NewRecorder()
	SetSessionCookie(rec, "rawtoken", time.Now().Add(SessionTTL))
	res := rec.Result()
	cookies := res.Cookies()
	if len(cookies) != 1 {
		t.Fatalf("expected 1 cookie, got %d", len(cookies))
	}
	c := cookies[0]
	if c.Name != sessionCookieName || c.Value != "rawtoken" {
		t.Fatalf("unexpected cookie %s=%s", c.Name, c.Value)
	}
	if !c.HttpOnly || !c.Secure || c.SameSite != http.SameSiteLaxMode || c.Path != "/" {
		t.Fatalf("cookie attributes wrong: %+v", c)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(c)
	token, ok := TokenFromRequest(req)
	if !ok || token != "rawtoken" {
		t.Fatalf("expected token back, got %q %v", token, ok)
	}
}

func TestClearSessionCookieExpires(t *testing.T) {
	rec := httptest.NewRecorder()
	ClearSessionCookie(rec)
	c := rec.Result().Cookies()[0]
	if c.Value != "" || c.Expires.After(time.Now()) {
		t.Fatalf("expected expired empty cookie, got %+v", c)
	}
}

func TestMiddlewareResolvesUser(t *testing.T) {
	SetSessionResolver(func(_ context.Context, raw string) (uint, bool) {
		if raw == "good" {
			return 42, true
		}
		return 0, false
	})
	defer SetSessionResolver(nil)

	var got uint
	var ok bool
	h := Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, ok = UserIDFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: "good"})
	h.ServeHTTP(httptest.NewRecorder(), req)
	if !ok || got != 42 {
		t.Fatalf("expected user 42 in context, got %d %v", got, ok)
	}

	ok = false
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: "bad"})
	h.ServeHTTP(httptest.NewRecorder(), req)
	if ok {
		t.Fatal("unresolvable token must stay anonymous")
	}
}

func TestRequireAuthRedirectsAnonymous(t *testing.T) {
	h := RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/postings", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected redirect, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/login" {
		t.Fatalf("expected /login redirect, got %s", loc)
	}

	req = httptest.NewRequest(http.MethodGet, "/postings", nil)
	req.Header.Set("Accept", "application/json")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for JSON clients, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/postings", nil)
	req = req.WithContext(WithUserID(req.Context(), 7))
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected pass-through for authenticated request, got %d", rec.Code)
	}
}
