package handler

import (
	"net/http"

	"github.com/nossamoto/backend/internal/model"
	"github.com/nossamoto/backend/internal/service"
)

// MotorcycleHandler serves the motorcycle catalog.
type MotorcycleHandler struct {
	svc service.MotorcycleService
}

func NewMotorcycleHandler(svc service.MotorcycleService) *MotorcycleHandler {
	return &MotorcycleHandler{svc: svc}
}

type motorcycleRequest struct {
	Name  *string `json:"name"`
	Price *int64  `json:"price"`
}

// List handles GET /api/motorcycles and GET /api/admin/motorcycles.
func (h *MotorcycleHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.List(r.Context())
	if err != nil {
		writeServiceError(w, r, "list", err)
		return
	}
	if list == nil {
		list = []*model.Motorcycle{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"motorcycles": list})
}

// Create handles POST /api/admin/motorcycles.
func (h *MotorcycleHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req motorcycleRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Name == nil || req.Price == nil {
		writeError(w, http.StatusBadRequest, "name_and_price_required")
		return
	}

	m, err := h.svc.Create(r.Context(), *req.Name, *req.Price)
	if err != nil {
		writeServiceError(w, r, "create", err)
		return
	}
	writeJSON(w, http.StatusCreated, m)
}

// Replace handles PUT /api/admin/motorcycles/{id}.
func (h *MotorcycleHandler) Replace(w http.ResponseWriter, r *http.Request) {
	var req motorcycleRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Name == nil || req.Price == nil {
		writeError(w, http.StatusBadRequest, "name_and_price_required")
		return
	}
	h.update(w, r, model.MotorcyclePatch{Name: req.Name, Price: req.Price})
}

// Patch handles PATCH /api/admin/motorcycles/{id}.
func (h *MotorcycleHandler) Patch(w http.ResponseWriter, r *http.Request) {
	var req motorcycleRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Name == nil && req.Price == nil {
		writeError(w, http.StatusBadRequest, "empty_patch")
		return
	}
	h.update(w, r, model.MotorcyclePatch{Name: req.Name, Price: req.Price})
}

func (h *MotorcycleHandler) update(w http.ResponseWriter, r *http.Request, patch model.MotorcyclePatch) {
	m, err := h.svc.Update(r.Context(), r.PathValue("id"), patch)
	if err != nil {
		writeServiceError(w, r, "update", err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

// Delete handles DELETE /api/admin/motorcycles/{id}.
func (h *MotorcycleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), r.PathValue("id")); err != nil {
		writeServiceError(w, r, "delete", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
