package handler

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/nossamoto/backend/internal/service"
	"github.com/nossamoto/backend/pkg/auth"
	"github.com/nossamoto/backend/pkg/extractor"
)

// ImportHandler runs the two-step bulk import of reference data.
type ImportHandler struct {
	svc       service.ImportService
	maxUpload int64
}

func NewImportHandler(svc service.ImportService, maxUploadBytes int64) *ImportHandler {
	return &ImportHandler{svc: svc, maxUpload: maxUploadBytes}
}

// Extract handles POST /api/admin/import/extract (multipart field "file").
func (h *ImportHandler) Extract(w http.ResponseWriter, r *http.Request) {
	owner, ok := auth.AdminSessionFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)
	file, header, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "file_too_large")
			return
		}
		writeError(w, http.StatusBadRequest, "file_required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "file_unreadable")
		return
	}
	mimeType := header.Header.Get("Content-Type")
	if mimeType == "" || mimeType == "application/octet-stream" {
		mimeType = http.DetectContentType(data)
	}

	batch, err := h.svc.Extract(r.Context(), owner, extractor.Document{
		Name:     header.Filename,
		MIMEType: mimeType,
		Data:     data,
	})
	if err != nil {
		writeImportError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, batch)
}

// Confirm handles POST /api/admin/import/{batchID}/confirm.
func (h *ImportHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	owner, ok := auth.AdminSessionFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	res, err := h.svc.Confirm(r.Context(), owner, r.PathValue("batchID"))
	if err != nil {
		if errors.Is(err, service.ErrStaleBatch) || errors.Is(err, extractor.ErrEmptyExtraction) {
			writeImportError(w, r, err)
		} else {
			writeServiceError(w, r, "import", err)
		}
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func writeImportError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrImportNotConfigured), errors.Is(err, extractor.ErrNotConfigured):
		writeError(w, http.StatusServiceUnavailable, "import_not_configured")
	case errors.Is(err, extractor.ErrEmptyExtraction):
		writeError(w, http.StatusUnprocessableEntity, "empty_extraction")
	case errors.Is(err, extractor.ErrMalformedExtraction):
		writeError(w, http.StatusUnprocessableEntity, "malformed_extraction")
	case errors.Is(err, extractor.ErrUnsupportedDocument):
		writeError(w, http.StatusUnsupportedMediaType, "unsupported_document")
	case errors.Is(err, service.ErrStaleBatch):
		writeError(w, http.StatusConflict, "stale_batch")
	default:
		slog.ErrorContext(r.Context(), "import failed", "error", err)
		writeError(w, http.StatusBadGateway, "extraction_failed")
	}
}
