package exporter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"reportkit/internal/capture"
	"reportkit/internal/validation"
	"reportkit/pkg/contracts/domain"
)

// ExportOptions selects the target format and tunes the artifact
type ExportOptions struct {
	Format        domain.ExportFormat `json:"format" validate:"required,oneof=csv excel pdf markdown json png"`
	IncludeCharts bool                `json:"includeCharts"`
	DateRange     *domain.DateRange   `json:"dateRange,omitempty"`
	Filename      string              `json:"filename,omitempty"`
	Element       *capture.ElementRef `json:"element,omitempty"`
}

// ArtifactKind tags what an artifact actually contains, so callers can react
// deliberately to degraded renders instead of inferring from the extension
type ArtifactKind string

const (
	KindDocument     ArtifactKind = "document"
	KindPDF          ArtifactKind = "pdf"
	KindHTMLFallback ArtifactKind = "html-fallback"
	KindImage        ArtifactKind = "image"
)

// Artifact is one named export result
type Artifact struct {
	Content  []byte
	Filename string
	MIME     string
	Kind     ArtifactKind
}

type formatInfo struct {
	mime string
	ext  string
}

// formatTable is the authoritative format to MIME/extension mapping. The
// excel payload is SpreadsheetML XML served under the classic Excel MIME
// type; PDF swaps to text/html when the render degrades.
var formatTable = map[domain.ExportFormat]formatInfo{
	domain.FormatCSV:      {mime: "text/csv", ext: ".csv"},
	domain.FormatExcel:    {mime: "application/vnd.ms-excel", ext: ".xlsx"},
	domain.FormatPDF:      {mime: "application/pdf", ext: ".pdf"},
	domain.FormatMarkdown: {mime: "text/markdown", ext: ".md"},
	domain.FormatJSON:     {mime: "application/json", ext: ".json"},
	domain.FormatPNG:      {mime: "image/png", ext: ".png"},
}

var slugPattern = regexp.MustCompile(`[^a-z0-9]+`)

// Exporter dispatches a ReportData value to the serializer matching the
// requested format and wraps the result into a named artifact. Every call is
// a stateless single-pass transform; nothing survives between calls.
type Exporter struct {
	catalog   domain.Catalog
	capture   *capture.Service
	validator *validation.ReportValidator
	logger    *slog.Logger
	tracer    trace.Tracer
	exports   metric.Int64Counter

	csv      *CSVSerializer
	excel    *ExcelSerializer
	markdown *MarkdownSerializer
	json     *JSONSerializer
	pdf      *PDFSerializer
}

// New creates an exporter over the given metric catalog and capture service
func New(catalog domain.Catalog, captureSvc *capture.Service, logger *slog.Logger) *Exporter {
	if logger == nil {
		logger = slog.Default()
	}
	if captureSvc == nil {
		captureSvc = capture.NewService(nil, logger)
	}

	exports, err := otel.Meter("reportkit/exporter").Int64Counter("reportkit_exports_total",
		metric.WithDescription("Completed report exports by format"))
	if err != nil {
		logger.Warn("export counter unavailable", slog.String("error", err.Error()))
	}

	return &Exporter{
		catalog:   catalog,
		capture:   captureSvc,
		validator: validation.NewReportValidator(logger),
		logger:    logger,
		tracer:    otel.Tracer("reportkit/exporter"),
		exports:   exports,
		csv:       NewCSVSerializer(catalog),
		excel:     NewExcelSerializer(catalog),
		markdown:  NewMarkdownSerializer(catalog),
		json:      NewJSONSerializer(),
		pdf:       NewPDFSerializer(catalog),
	}
}

// Export converts data into a named artifact in the requested format.
// Malformed input aborts before any serializer runs; no partial artifact is
// ever produced.
func (e *Exporter) Export(ctx context.Context, data *domain.ReportData, opts ExportOptions) (*Artifact, error) {
	ctx, span := e.tracer.Start(ctx, "exporter.Export",
		trace.WithAttributes(attribute.String("export.format", string(opts.Format))))
	defer span.End()

	if err := e.validator.ValidateReportData(data); err != nil {
		span.RecordError(err)
		return nil, err
	}

	info, ok := formatTable[opts.Format]
	if !ok {
		return nil, NewUnsupportedOperationError(opts.Format, "export")
	}

	content, kind, err := e.buildContent(ctx, data, opts)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	mime, ext := info.mime, info.ext
	if kind == KindHTMLFallback {
		mime, ext = "text/html", ".html"
	}

	artifact := &Artifact{
		Content:  content,
		Filename: e.filename(data, opts, ext),
		MIME:     mime,
		Kind:     kind,
	}

	if e.exports != nil {
		e.exports.Add(ctx, 1, metric.WithAttributes(attribute.String("format", string(opts.Format))))
	}
	e.logger.InfoContext(ctx, "report exported",
		slog.String("template_id", data.TemplateID),
		slog.String("format", string(opts.Format)),
		slog.String("filename", artifact.Filename),
		slog.Int("bytes", len(artifact.Content)))

	return artifact, nil
}

// ExportRawString returns the artifact body as a string for the text-native
// formats. Binary formats refuse with UnsupportedOperationError.
func (e *Exporter) ExportRawString(ctx context.Context, data *domain.ReportData, opts ExportOptions) (string, error) {
	switch opts.Format {
	case domain.FormatCSV, domain.FormatMarkdown:
		artifact, err := e.Export(ctx, data, opts)
		if err != nil {
			return "", err
		}
		return string(artifact.Content), nil
	case domain.FormatJSON:
		if err := e.validator.ValidateReportData(data); err != nil {
			return "", err
		}
		return e.json.SerializeRaw(data)
	default:
		return "", NewUnsupportedOperationError(opts.Format, "raw string export")
	}
}

func (e *Exporter) buildContent(ctx context.Context, data *domain.ReportData, opts ExportOptions) ([]byte, ArtifactKind, error) {
	switch opts.Format {
	case domain.FormatCSV:
		return []byte(e.csv.Serialize(data, opts.DateRange)), KindDocument, nil

	case domain.FormatExcel:
		return []byte(e.excel.Serialize(data, opts.DateRange)), KindDocument, nil

	case domain.FormatMarkdown:
		return []byte(e.markdown.Serialize(data, opts.DateRange)), KindDocument, nil

	case domain.FormatJSON:
		out, err := e.json.SerializeWrapped(data, opts.DateRange)
		if err != nil {
			return nil, "", err
		}
		return []byte(out), KindDocument, nil

	case domain.FormatPDF:
		return e.buildPDF(ctx, data, opts)

	case domain.FormatPNG:
		if opts.Element == nil {
			return nil, "", NewUnsupportedOperationError(domain.FormatPNG, "export without element reference")
		}
		img, err := e.capture.Capture(ctx, *opts.Element, capture.Options{})
		if err != nil {
			return nil, "", err
		}
		return img, KindImage, nil

	default:
		return nil, "", NewUnsupportedOperationError(opts.Format, "export")
	}
}

// buildPDF renders the print-styled HTML and, when a PDF engine exists,
// prints it. Without one the HTML itself ships as a tagged fallback artifact.
func (e *Exporter) buildPDF(ctx context.Context, data *domain.ReportData, opts ExportOptions) ([]byte, ArtifactKind, error) {
	html, err := e.pdf.SerializeHTML(data, opts.DateRange, opts.IncludeCharts)
	if err != nil {
		return nil, "", err
	}

	pdf, err := e.capture.RenderPDF(ctx, html)
	if errors.Is(err, capture.ErrRendererUnavailable) {
		e.logger.WarnContext(ctx, "PDF engine unavailable, exporting print-styled HTML",
			slog.String("template_id", data.TemplateID))
		return []byte(html), KindHTMLFallback, nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("render PDF: %w", err)
	}
	return pdf, KindPDF, nil
}

func (e *Exporter) filename(data *domain.ReportData, opts ExportOptions, ext string) string {
	if opts.Filename != "" {
		return opts.Filename
	}
	return fmt.Sprintf("%s-report-%s%s",
		Slug(data.Template.Name),
		data.GeneratedAt.Format("2006-01-02"),
		ext)
}

// Slug lowercases a name and collapses non-alphanumeric runs into single
// hyphens, trimming any leading or trailing hyphen
func Slug(name string) string {
	s := slugPattern.ReplaceAllString(strings.ToLower(name), "-")
	return strings.Trim(s, "-")
}

// MIMEForFormat returns the MIME type a format is served under
func MIMEForFormat(format domain.ExportFormat) (string, bool) {
	info, ok := formatTable[format]
	if !ok {
		return "", false
	}
	return info.mime, true
}
