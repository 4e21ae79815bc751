package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/nossamoto/backend/internal/service"
	"github.com/nossamoto/backend/pkg/postal"
)

// AddressHandler resolves postal codes for the form's address section.
type AddressHandler struct {
	svc service.AddressService
}

func NewAddressHandler(svc service.AddressService) *AddressHandler {
	return &AddressHandler{svc: svc}
}

// Lookup handles GET /api/address/{postalCode}. A failed lookup leaves the
// address fields to the applicant, so every error here is recoverable.
func (h *AddressHandler) Lookup(w http.ResponseWriter, r *http.Request) {
	addr, err := h.svc.Lookup(r.Context(), r.PathValue("postalCode"))
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, addr)
	case errors.Is(err, postal.ErrInvalidCode):
		writeError(w, http.StatusBadRequest, "invalid_postal_code")
	case errors.Is(err, postal.ErrNotFound):
		writeError(w, http.StatusNotFound, "postal_code_not_found")
	default:
		slog.WarnContext(r.Context(), "postal lookup failed", "error", err)
		writeError(w, http.StatusBadGateway, "postal_lookup_failed")
	}
}
