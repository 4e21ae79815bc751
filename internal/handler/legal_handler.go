package handler

import (
	"bytes"
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/yuin/goldmark"
)

// legalDocs lists the documents served by GET /api/legal/{type}.
var legalDocs = map[string]bool{
	"terms":      true,
	"privacy":    true,
	"disclaimer": true,
}

type LegalConfig struct {
	// DocsDir holds <type>.md files (LEGAL_DOCS_DIR).
	DocsDir string
}

type LegalHandler struct {
	cfg LegalConfig
	md  goldmark.Markdown
}

func NewLegalHandler(cfg LegalConfig) *LegalHandler {
	return &LegalHandler{cfg: cfg, md: goldmark.New()}
}

// Legal serves a legal document as Markdown, or as HTML with ?format=html.
func (h *LegalHandler) Legal(w http.ResponseWriter, r *http.Request) {
	docType := r.PathValue("type")
	if strings.ContainsAny(docType, `/\`) || strings.Contains(docType, "..") {
		writeError(w, http.StatusBadRequest, "invalid_document")
		return
	}
	if !legalDocs[docType] {
		writeError(w, http.StatusNotFound, "not_found")
		return
	}

	format := r.URL.Query().Get("format")
	if format != "" && format != "markdown" && format != "html" {
		writeError(w, http.StatusBadRequest, "invalid_format")
		return
	}

	absDir, err := filepath.Abs(h.cfg.DocsDir)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "legal_failed")
		return
	}
	path := filepath.Join(absDir, docType+".md")
	if !strings.HasPrefix(path, absDir+string(filepath.Separator)) {
		writeError(w, http.StatusBadRequest, "invalid_document")
		return
	}

	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			writeError(w, http.StatusNotFound, "not_found")
			return
		}
		slog.ErrorContext(r.Context(), "read legal document", "type", docType, "error", err)
		writeError(w, http.StatusInternalServerError, "legal_failed")
		return
	}

	if format == "html" {
		var buf bytes.Buffer
		if err := h.md.Convert(content, &buf); err != nil {
			slog.ErrorContext(r.Context(), "render legal document", "type", docType, "error", err)
			writeError(w, http.StatusInternalServerError, "legal_failed")
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(buf.Bytes())
		return
	}

	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(content)
}
