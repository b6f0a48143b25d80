package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/diewo77/jobtrack/auth"
	"github.com/diewo77/jobtrack/httpx"
	"github.com/diewo77/jobtrack/internal/services"
	"go.uber.org/zap"
)

// Signup/login failures use a fixed tag set so the caller can map them to
// field-adjacent messages: needEmailPass, shortPassword, needUsername,
// usernameTaken, alreadyExists, invalid, unknown.

type AuthHandler struct {
	accounts *services.AccountService
	sessions *services.SessionService
	logger   *zap.Logger
}

func NewAuthHandler(accounts *services.AccountService, sessions *services.SessionService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{accounts: accounts, sessions: sessions, logger: logger}
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	email := strings.ToLower(strings.TrimSpace(r.FormValue("email")))
	username := strings.TrimSpace(r.FormValue("username"))
	password := r.FormValue("password")

	// Short password outranks missing email; missing username is only
	// reported once email and password are fine.
	if email == "" || username == "" || len(password) < 6 {
		if email == "" || len(password) < 6 {
			if len(password) < 6 {
				httpx.JSONError(w, http.StatusBadRequest, "shortPassword", nil)
				return
			}
			httpx.JSONError(w, http.StatusBadRequest, "needEmailPass", nil)
			return
		}
		httpx.JSONError(w, http.StatusBadRequest, "needUsername", nil)
		return
	}

	user, err := h.accounts.Register(email, username, password)
	switch {
	case errors.Is(err, services.ErrDuplicateUsername):
		httpx.JSONError(w, http.StatusConflict, "usernameTaken", nil)
		return
	case errors.Is(err, services.ErrDuplicateEmail):
		httpx.JSONError(w, http.StatusConflict, "alreadyExists", nil)
		return
	case err != nil:
		h.logger.Error("signup failed", zap.Error(err))
		httpx.JSONError(w, http.StatusInternalServerError, "unknown", nil)
		return
	}

	h.startSession(w, r, user.ID, "/")
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	email := strings.ToLower(strings.TrimSpace(r.FormValue("email")))
	password := r.FormValue("password")

	if email == "" || password == "" {
		httpx.JSONError(w, http.StatusBadRequest, "needEmailPass", nil)
		return
	}

	user, err := h.accounts.Authenticate(email, password)
	if errors.Is(err, services.ErrInvalidCredentials) {
		httpx.JSONError(w, http.StatusUnauthorized, "invalid", nil)
		return
	}
	if err != nil {
		h.logger.Error("login failed", zap.Error(err))
		httpx.JSONError(w, http.StatusInternalServerError, "unknown", nil)
		return
	}

	h.startSession(w, r, user.ID, "/")
}

// Logout unconditionally revokes the presented session and sends the caller
// back to the login entry point.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if token, ok := auth.TokenFromRequest(r); ok {
		if err := h.sessions.Revoke(token); err != nil {
			h.logger.Error("revoke failed", zap.Error(err))
		}
	}
	auth.ClearSessionCookie(w)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// Me returns the resolved account for the authenticated landing view.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	uid, _ := auth.UserIDFromContext(r.Context())
	user, err := h.accounts.ByID(r.Context(), uid)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "unknown", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, user)
}

func (h *AuthHandler) startSession(w http.ResponseWriter, r *http.Request, userID uint, target string) {
	token, expiresAt, err := h.sessions.Issue(userID)
	if err != nil {
		h.logger.Error("issue session failed", zap.Error(err))
		httpx.JSONError(w, http.StatusInternalServerError, "unknown", nil)
		return
	}
	auth.SetSessionCookie(w, token, expiresAt)
	http.Redirect(w, r, target, http.StatusSeeOther)
}
