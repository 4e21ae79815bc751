package handler

import (
	"net/http"

	"github.com/nossamoto/backend/internal/model"
	"github.com/nossamoto/backend/internal/service"
)

// CoefficientHandler serves the coefficient table. Lists are always sorted
// by term, then by the lower down-payment bound.
type CoefficientHandler struct {
	svc service.CoefficientService
}

func NewCoefficientHandler(svc service.CoefficientService) *CoefficientHandler {
	return &CoefficientHandler{svc: svc}
}

type coefficientRequest struct {
	Term           *int     `json:"term"`
	DownPaymentMin *float64 `json:"down_payment_min"`
	DownPaymentMax *float64 `json:"down_payment_max"`
	Value          *float64 `json:"value"`
	Motorcycle     *string  `json:"motorcycle"`
	Bank           *string  `json:"bank"`
}

func (req coefficientRequest) complete() bool {
	return req.Term != nil && req.DownPaymentMin != nil && req.DownPaymentMax != nil &&
		req.Value != nil && req.Motorcycle != nil && req.Bank != nil
}

func (req coefficientRequest) empty() bool {
	return req.Term == nil && req.DownPaymentMin == nil && req.DownPaymentMax == nil &&
		req.Value == nil && req.Motorcycle == nil && req.Bank == nil
}

func (req coefficientRequest) patch() model.CoefficientRulePatch {
	return model.CoefficientRulePatch{
		Term:           req.Term,
		DownPaymentMin: req.DownPaymentMin,
		DownPaymentMax: req.DownPaymentMax,
		Value:          req.Value,
		Motorcycle:     req.Motorcycle,
		Bank:           req.Bank,
	}
}

// List handles GET /api/admin/coefficients.
func (h *CoefficientHandler) List(w http.ResponseWriter, r *http.Request) {
	rules, err := h.svc.List(r.Context())
	if err != nil {
		writeServiceError(w, r, "list", err)
		return
	}
	if rules == nil {
		rules = []*model.CoefficientRule{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"coefficients": rules})
}

// Create handles POST /api/admin/coefficients.
func (h *CoefficientHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req coefficientRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if !req.complete() {
		writeError(w, http.StatusBadRequest, "missing_fields")
		return
	}

	created, err := h.svc.Create(r.Context(), model.CoefficientRule{
		Term:           *req.Term,
		DownPaymentMin: *req.DownPaymentMin,
		DownPaymentMax: *req.DownPaymentMax,
		Value:          *req.Value,
		Motorcycle:     *req.Motorcycle,
		Bank:           *req.Bank,
	})
	if err != nil {
		writeServiceError(w, r, "create", err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// Replace handles PUT /api/admin/coefficients/{id}.
func (h *CoefficientHandler) Replace(w http.ResponseWriter, r *http.Request) {
	var req coefficientRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if !req.complete() {
		writeError(w, http.StatusBadRequest, "missing_fields")
		return
	}
	h.update(w, r, req.patch())
}

// Patch handles PATCH /api/admin/coefficients/{id}.
func (h *CoefficientHandler) Patch(w http.ResponseWriter, r *http.Request) {
	var req coefficientRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.empty() {
		writeError(w, http.StatusBadRequest, "empty_patch")
		return
	}
	h.update(w, r, req.patch())
}

func (h *CoefficientHandler) update(w http.ResponseWriter, r *http.Request, patch model.CoefficientRulePatch) {
	rule, err := h.svc.Update(r.Context(), r.PathValue("id"), patch)
	if err != nil {
		writeServiceError(w, r, "update", err)
		return
	}
	writeJSON(w, http.StatusOK, rule)
}

// Delete handles DELETE /api/admin/coefficients/{id}.
func (h *CoefficientHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeServiceError(w, r, "delete", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
