package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/quadpde/quadpde/internal/registry"
)

// Error details returned in the "detail" field.
const (
	DetailNotFound    = "Example not found."
	DetailUnavailable = "Examples registry unavailable."
	DetailInternal    = "Internal server error."
)

type errorResponse struct {
	Detail string `json:"detail"`
}

type handlers struct {
	catalog Catalog
	logger  *slog.Logger
}

func (h *handlers) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (h *handlers) listExamples(w http.ResponseWriter, r *http.Request) {
	examples, err := h.catalog.List()
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, registry.Summaries(examples))
}

func (h *handlers) getExample(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	example, ok, err := h.catalog.Get(id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if !ok {
		writeJSON(w, http.StatusNotFound, errorResponse{Detail: DetailNotFound})
		return
	}
	writeJSON(w, http.StatusOK, example)
}

// fail maps a registry error to a response. Only a missing examples directory is a 503.
func (h *handlers) fail(w http.ResponseWriter, r *http.Request, err error) {
	h.logger.Error("registry lookup failed",
		"path", r.URL.Path,
		"request_id", middleware.GetReqID(r.Context()),
		"error", err)
	if errors.Is(err, registry.ErrDirectoryNotFound) {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Detail: DetailUnavailable})
		return
	}
	writeJSON(w, http.StatusInternalServerError, errorResponse{Detail: DetailInternal})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
