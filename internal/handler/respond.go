package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/nossamoto/backend/internal/repository"
	"github.com/nossamoto/backend/internal/service"
)

type errorResponse struct {
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string) {
	writeJSON(w, status, errorResponse{Error: code})
}

// writeServiceError maps the shared service and repository sentinels to a
// response. Anything unrecognised is logged and reported as <op>_failed.
func writeServiceError(w http.ResponseWriter, r *http.Request, op string, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found")
	case errors.Is(err, service.ErrInvalidRecord):
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: "invalid_record", Detail: err.Error()})
	case errors.Is(err, service.ErrNameTaken):
		writeError(w, http.StatusConflict, "name_taken")
	case errors.Is(err, repository.ErrConflict):
		writeError(w, http.StatusConflict, "conflict")
	default:
		slog.ErrorContext(r.Context(), op+" failed", "error", err)
		writeError(w, http.StatusInternalServerError, op+"_failed")
	}
}

const maxJSONBody = 1 << 20

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return false
	}
	return true
}
