package http

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	apierrors "reportkit/internal/errors"
	"reportkit/internal/exporter"
	"reportkit/internal/infrastructure"
	"reportkit/pkg/contracts/domain"
)

// maxRequestBody bounds the export request payload
const maxRequestBody = 8 << 20 // 8 MiB

// ExportRequest is the body of POST /api/export
type ExportRequest struct {
	Report  *domain.ReportData     `json:"report"`
	Options exporter.ExportOptions `json:"options"`
}

// FormatInfo describes one available export format
type FormatInfo struct {
	Format string `json:"format"`
	MIME   string `json:"mime"`
}

// ExportHandler handles report export HTTP requests
type ExportHandler struct {
	exporter     *exporter.Exporter
	metrics      *infrastructure.ServiceMetrics
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewExportHandler creates a new export handler
func NewExportHandler(exp *exporter.Exporter, metrics *infrastructure.ServiceMetrics, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *ExportHandler {
	return &ExportHandler{
		exporter:     exp,
		metrics:      metrics,
		logger:       logger.With(slog.String("component", "export_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the export routes
func (h *ExportHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.Export)
	r.Post("/validate", h.Validate)
	r.Get("/formats", h.Formats)

	return r
}

// Export handles POST /api/export: it converts the posted report into an
// artifact in the requested format and streams it back as an attachment.
func (h *ExportHandler) Export(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	start := time.Now()

	req, err := h.decodeRequest(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	artifact, err := h.exporter.Export(ctx, req.Report, req.Options)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	fallback := artifact.Kind == exporter.KindHTMLFallback
	infrastructure.RecordExportMetrics(ctx, h.metrics, string(req.Options.Format), time.Since(start), len(artifact.Content), fallback)

	w.Header().Set("Content-Type", artifact.MIME)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", artifact.Filename))
	w.Header().Set("Content-Length", fmt.Sprintf("%d", len(artifact.Content)))
	w.Header().Set("X-Artifact-Kind", string(artifact.Kind))
	w.WriteHeader(http.StatusOK)
	w.Write(artifact.Content)
}

// Validate handles POST /api/export/validate: it runs the JSON round-trip
// check over a posted export payload and reports the findings without failing
// the request.
func (h *ExportHandler) Validate(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBody))
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.InvalidRequestWithError(err))
		return
	}
	if len(payload) == 0 {
		h.errorHandler.HandleError(w, r, apierrors.ErrInvalidRequest)
		return
	}

	result := exporter.ValidateJSONExport(payload)
	render.Status(r, http.StatusOK)
	render.JSON(w, r, result)
}

// Formats handles GET /api/export/formats
func (h *ExportHandler) Formats(w http.ResponseWriter, r *http.Request) {
	formats := []domain.ExportFormat{
		domain.FormatCSV,
		domain.FormatExcel,
		domain.FormatPDF,
		domain.FormatMarkdown,
		domain.FormatJSON,
		domain.FormatPNG,
	}

	infos := make([]FormatInfo, 0, len(formats))
	for _, format := range formats {
		mime, ok := exporter.MIMEForFormat(format)
		if !ok {
			continue
		}
		infos = append(infos, FormatInfo{Format: string(format), MIME: mime})
	}

	render.JSON(w, r, map[string]any{"formats": infos})
}

func (h *ExportHandler) decodeRequest(r *http.Request) (*ExportRequest, error) {
	var req ExportRequest

	decoder := json.NewDecoder(io.LimitReader(r.Body, maxRequestBody))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		return nil, apierrors.InvalidRequestWithError(err)
	}

	if req.Report == nil {
		return nil, apierrors.InvalidReportDataError("report", "missing report payload")
	}
	if req.Options.Format == "" {
		return nil, apierrors.InvalidReportDataError("options.format", "missing export format")
	}

	return &req, nil
}
