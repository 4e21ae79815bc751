package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/nossamoto/backend/internal/service"
	"github.com/nossamoto/backend/pkg/auth"
)

// AdminSessions is the session store behind the admin gate.
type AdminSessions interface {
	Login(w http.ResponseWriter, r *http.Request) (string, error)
	Logout(w http.ResponseWriter, r *http.Request) error
	AdminSession(r *http.Request) (string, error)
}

type AdminAuthHandler struct {
	svc      service.AdminAuthService
	sessions AdminSessions
}

func NewAdminAuthHandler(svc service.AdminAuthService, sessions AdminSessions) *AdminAuthHandler {
	return &AdminAuthHandler{svc: svc, sessions: sessions}
}

// Login handles POST /api/admin/login.
func (h *AdminAuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "credentials_required")
		return
	}

	if err := h.svc.Authenticate(req.Email, req.Password); err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			slog.WarnContext(r.Context(), "admin login rejected", "remote_addr", r.RemoteAddr)
			writeError(w, http.StatusUnauthorized, "invalid_credentials")
			return
		}
		writeServiceError(w, r, "login", err)
		return
	}

	if _, err := h.sessions.Login(w, r); err != nil {
		slog.ErrorContext(r.Context(), "admin session save failed", "error", err)
		writeError(w, http.StatusInternalServerError, "login_failed")
		return
	}
	slog.InfoContext(r.Context(), "admin logged in")
	writeJSON(w, http.StatusOK, map[string]bool{"is_admin": true})
}

// Logout handles POST /api/admin/logout.
func (h *AdminAuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Logout(w, r); err != nil {
		slog.ErrorContext(r.Context(), "admin session clear failed", "error", err)
		writeError(w, http.StatusInternalServerError, "logout_failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"is_admin": false})
}

// Session handles GET /api/admin/session.
func (h *AdminAuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	if _, ok := auth.AdminSessionFromContext(r.Context()); ok {
		writeJSON(w, http.StatusOK, map[string]bool{"is_admin": true})
		return
	}
	_, err := h.sessions.AdminSession(r)
	writeJSON(w, http.StatusOK, map[string]bool{"is_admin": err == nil})
}
