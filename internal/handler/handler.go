package handler

import (
	"net/http"

	"github.com/nossamoto/backend/internal/repository"
)

// dependency is a collaborator whose liveness is reported by Health.
type dependency struct {
	name string
	db   repository.DB
}

type Handler struct {
	deps        []dependency
	frontendURL string
}

// New creates the shared handler. db is the primary store.
func New(db repository.DB, frontendURL string) *Handler {
	return &Handler{
		deps:        []dependency{{name: "database", db: db}},
		frontendURL: frontendURL,
	}
}

// AddDependency adds a collaborator to the health report.
func (h *Handler) AddDependency(name string, db repository.DB) {
	h.deps = append(h.deps, dependency{name: name, db: db})
}

// CORS lets the configured frontend call the API with the admin cookie.
// Other origins get no CORS headers, so browsers refuse their responses.
func (h *Handler) CORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Add("Vary", "Origin")
		origin := r.Header.Get("Origin")
		allowed := origin != "" && origin == h.frontendURL
		if allowed {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			// The export download name and request ids are read by the admin UI.
			w.Header().Set("Access-Control-Expose-Headers", "Content-Disposition, X-Request-ID, Retry-After")
		}

		if r.Method == http.MethodOptions {
			if allowed {
				w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
				w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-Request-ID")
				w.Header().Set("Access-Control-Max-Age", "600")
			}
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}
