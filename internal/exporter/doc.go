// Package exporter converts a normalized report data model into downloadable
// artifacts in six encodings.
//
// The package is organized as leaves-first layers:
//
// Value formatting: unit-aware scalar rendering (number, currency,
// percentage, duration) with "N/A" for anything missing or non-finite.
//
// Escaping: CSV-field quoting and XML entity substitution, applied to every
// computed or user string placed into generated output.
//
// Serializers: CSV, Excel SpreadsheetML XML, Markdown, JSON (raw and
// metadata-wrapped, with a companion round-trip validator) and print-styled
// HTML for PDF. Each is a pure transform of one immutable ReportData value
// and is total over well-formed input: missing optional fields render as
// "N/A" or drop their section, never a failure.
//
// Orchestration: the Exporter validates input shape, dispatches to the
// matching serializer, derives the artifact filename and MIME type, and tags
// degraded results (PDF falling back to HTML) explicitly.
//
// Example usage:
//
//	exp := exporter.New(domain.DefaultCatalog(), captureSvc, logger)
//	artifact, err := exp.Export(ctx, reportData, exporter.ExportOptions{
//		Format:        domain.FormatMarkdown,
//		IncludeCharts: true,
//	})
package exporter
