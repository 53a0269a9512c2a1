package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"reportkit/internal/capture"
	"reportkit/internal/config"
	"reportkit/internal/exporter"
	"reportkit/internal/infrastructure"
	"reportkit/pkg/contracts/domain"
)

func main() {
	inputPath := flag.String("in", "", "path to a report data JSON file (required)")
	format := flag.String("format", "csv", "export format: csv, excel, pdf, markdown, json, png")
	outputDir := flag.String("out", "", "output directory (defaults to the configured downloads dir)")
	selector := flag.String("selector", "", "CSS selector for png capture")
	pageURL := flag.String("url", "", "page URL for png capture")
	validateOnly := flag.Bool("validate", false, "validate a JSON export payload and exit")
	flag.Parse()

	if *inputPath == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Error("failed to initialize logger", "error", err)
		os.Exit(1)
	}
	defer infrastructure.CloseLogFile()

	raw, err := os.ReadFile(*inputPath)
	if err != nil {
		logger.Error("failed to read input", "path", *inputPath, "error", err)
		os.Exit(1)
	}

	if *validateOnly {
		os.Exit(runValidate(raw))
	}

	var report domain.ReportData
	if err := json.Unmarshal(raw, &report); err != nil {
		logger.Error("failed to parse report data", "path", *inputPath, "error", err)
		os.Exit(1)
	}

	captureSvc := capture.NewServiceWithOptions(capture.Probe(logger, cfg.Capture.ChromePath), logger, capture.Options{
		Width:      cfg.Capture.Width,
		Height:     cfg.Capture.Height,
		Scale:      cfg.Capture.Scale,
		Background: cfg.Capture.Background,
	})
	exp := exporter.New(domain.DefaultCatalog(), captureSvc, logger)

	opts := exporter.ExportOptions{Format: domain.ExportFormat(strings.ToLower(*format))}
	if *selector != "" || *pageURL != "" {
		opts.Element = &capture.ElementRef{URL: *pageURL, Selector: *selector}
	}

	ctx := context.Background()
	artifact, err := exp.Export(ctx, &report, opts)
	if err != nil {
		logger.Error("export failed", "format", *format, "error", err)
		os.Exit(1)
	}

	dir := *outputDir
	if dir == "" {
		dir = cfg.DownloadsDir()
	}

	sink := exporter.NewFileSink(dir, logger)
	path, err := sink.Save(ctx, artifact)
	if err != nil {
		logger.Error("failed to save artifact", "error", err)
		os.Exit(1)
	}

	if artifact.Kind == exporter.KindHTMLFallback {
		logger.Warn("no PDF renderer available, wrote print-styled HTML instead")
	}
	fmt.Println(path)
}

// runValidate checks a previously exported JSON payload and prints the result
func runValidate(raw []byte) int {
	result := exporter.ValidateJSONExport(raw)
	out, _ := json.MarshalIndent(result, "", "  ")
	fmt.Println(string(out))
	if result.Valid {
		return 0
	}
	return 1
}
