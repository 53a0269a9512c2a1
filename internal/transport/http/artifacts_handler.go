package http

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "reportkit/internal/errors"
	"reportkit/internal/files"
)

// ArtifactsHandler serves the saved artifacts in the downloads directory
type ArtifactsHandler struct {
	store        *files.Store
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewArtifactsHandler creates a new artifacts handler
func NewArtifactsHandler(store *files.Store, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *ArtifactsHandler {
	return &ArtifactsHandler{
		store:        store,
		logger:       logger.With(slog.String("handler", "artifacts")),
		errorHandler: errorHandler,
	}
}

// Routes returns the artifact routes
func (h *ArtifactsHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.List)
	r.Get("/{name}", h.Download)
	r.Delete("/{name}", h.Delete)
	return r
}

// List handles GET /api/artifacts
func (h *ArtifactsHandler) List(w http.ResponseWriter, r *http.Request) {
	artifacts, err := h.store.List()
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}
	if artifacts == nil {
		artifacts = []files.ArtifactInfo{}
	}
	render.JSON(w, r, map[string]any{"artifacts": artifacts})
}

// Download handles GET /api/artifacts/{name}
func (h *ArtifactsHandler) Download(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	content, mime, err := h.store.Read(name)
	if err != nil {
		// bad names and missing files look the same from outside
		h.errorHandler.HandleError(w, r, apierrors.NotFoundError("artifact"))
		return
	}

	w.Header().Set("Content-Type", mime)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.Header().Set("Content-Length", strconv.Itoa(len(content)))
	w.WriteHeader(http.StatusOK)
	w.Write(content)
}

// Delete handles DELETE /api/artifacts/{name}
func (h *ArtifactsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	if err := h.store.Delete(name); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.NotFoundError("artifact"))
		return
	}

	h.logger.InfoContext(r.Context(), "artifact deleted", slog.String("name", name))
	w.WriteHeader(http.StatusNoContent)
}
