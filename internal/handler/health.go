package handler

import (
	"encoding/json"
	"net/http"
)

type healthResponse struct {
	Status  string            `json:"status"`
	Message string            `json:"message"`
	Checks  map[string]string `json:"checks,omitempty"`
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{Status: "ok", Message: "NossaMoto API", Checks: map[string]string{}}
	code := http.StatusOK
	for _, d := range h.deps {
		if err := d.db.Ping(r.Context()); err != nil {
			resp.Checks[d.name] = err.Error()
			resp.Status = "unhealthy"
			resp.Message = err.Error()
			code = http.StatusServiceUnavailable
			continue
		}
		resp.Checks[d.name] = "ok"
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(resp)
}
