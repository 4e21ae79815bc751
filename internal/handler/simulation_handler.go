package handler

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"

	"github.com/nossamoto/backend/internal/export"
	"github.com/nossamoto/backend/internal/model"
	"github.com/nossamoto/backend/internal/pricing"
	"github.com/nossamoto/backend/internal/service"
	"github.com/nossamoto/backend/internal/validation"
)

// SimulationHandler serves the applicant form and the submissions back office.
type SimulationHandler struct {
	svc service.SimulationService
}

func NewSimulationHandler(svc service.SimulationService) *SimulationHandler {
	return &SimulationHandler{svc: svc}
}

type quoteResponse struct {
	pricing.Quote
	InstallmentFormatted string `json:"installment_formatted,omitempty"`
}

type validationResponse struct {
	Error          string                 `json:"error"`
	Fields         validation.FieldErrors `json:"fields"`
	Focus          string                 `json:"focus"`
	ExpandOptional bool                   `json:"expand_optional"`
}

// Quote handles POST /api/simulations/quote. An application outside the
// pricing domain gets a quote with available=false, not an error.
func (h *SimulationHandler) Quote(w http.ResponseWriter, r *http.Request) {
	var app model.Application
	if !decodeJSON(w, r, &app) {
		return
	}

	q, err := h.svc.Quote(r.Context(), app)
	if err != nil {
		writeServiceError(w, r, "quote", err)
		return
	}
	resp := quoteResponse{Quote: q}
	if q.Available {
		resp.InstallmentFormatted = export.FormatBRL(q.Installment)
	}
	writeJSON(w, http.StatusOK, resp)
}

// Submit handles POST /api/simulations.
func (h *SimulationHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var app model.Application
	if !decodeJSON(w, r, &app) {
		return
	}

	sub, err := h.svc.Submit(r.Context(), app)
	if err != nil {
		var verr *service.ValidationError
		if errors.As(err, &verr) {
			writeJSON(w, http.StatusUnprocessableEntity, validationResponse{
				Error:          "validation_failed",
				Fields:         verr.Fields,
				Focus:          verr.Focus,
				ExpandOptional: verr.ExpandOptional,
			})
			return
		}
		writeServiceError(w, r, "submit", err)
		return
	}
	writeJSON(w, http.StatusCreated, sub)
}

// List handles GET /api/admin/submissions, newest first.
func (h *SimulationHandler) List(w http.ResponseWriter, r *http.Request) {
	subs, err := h.svc.List(r.Context())
	if err != nil {
		writeServiceError(w, r, "list", err)
		return
	}
	if subs == nil {
		subs = []*model.Submission{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"submissions": subs})
}

// Export handles GET /api/admin/submissions/export. The CSV is buffered so
// that a failure can still be reported as JSON.
func (h *SimulationHandler) Export(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := h.svc.Export(r.Context(), &buf); err != nil {
		if errors.Is(err, service.ErrNoSubmissions) {
			writeError(w, http.StatusNotFound, "no_submissions")
			return
		}
		writeServiceError(w, r, "export", err)
		return
	}

	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+export.FileName+`"`)
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		slog.WarnContext(r.Context(), "export write interrupted", "error", err)
	}
}
