package auth

import (
	"context"
	"encoding/json"
	"net/http"
)

type contextKey string

const adminSessionKey contextKey = "admin_session"

// AdminSessionFromContext returns the admin session id stored in ctx.
func AdminSessionFromContext(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(adminSessionKey).(string)
	return v, ok && v != ""
}

// WithAdminSession returns ctx carrying the admin session id.
func WithAdminSession(ctx context.Context, sessionID string) context.Context {
	return context.WithValue(ctx, adminSessionKey, sessionID)
}

// RequireAdmin rejects requests without an admin session with 401 and
// puts the session id in the request context.
func RequireAdmin(sm *SessionManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sid, err := sm.AdminSession(r)
			if err != nil {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_ = json.NewEncoder(w).Encode(map[string]string{"error": "unauthorized"})
				return
			}
			next.ServeHTTP(w, r.WithContext(WithAdminSession(r.Context(), sid)))
		})
	}
}

// DevAdminSessionID is the session id used when AUTH_REQUIRED=false.
const DevAdminSessionID = "dev-admin-session"

// DevAdmin treats every request as the dev admin session.
func DevAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r.WithContext(WithAdminSession(r.Context(), DevAdminSessionID)))
	})
}
