package capture

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"
)

// ErrRendererUnavailable signals that no headless renderer could be probed.
// PNG capture degrades to a placeholder on it; PDF rendering surfaces it so
// the orchestrator can fall back to the HTML artifact.
var ErrRendererUnavailable = errors.New("no headless renderer available")

// ElementRef points at a rendered visual element: either a selector inside a
// live page or a standalone HTML fragment.
type ElementRef struct {
	URL      string `json:"url,omitempty"`
	HTML     string `json:"html,omitempty"`
	Selector string `json:"selector,omitempty"`
}

// Options configures a capture
type Options struct {
	// Scale multiplies the device pixel ratio. Zero means 2.
	Scale float64
	// Background fills behind transparent regions, "#rrggbb". Zero means white.
	Background string
	// Viewport dimensions in CSS pixels. Zero means 1200x800.
	Width  int
	Height int
}

// orDefaults fills zero-value fields from d, leaving explicit values alone
func (o Options) orDefaults(d Options) Options {
	if o.Scale <= 0 {
		o.Scale = d.Scale
	}
	if o.Background == "" {
		o.Background = d.Background
	}
	if o.Width <= 0 {
		o.Width = d.Width
	}
	if o.Height <= 0 {
		o.Height = d.Height
	}
	return o
}

func (o Options) withDefaults() Options {
	if o.Scale <= 0 {
		o.Scale = 2
	}
	if o.Background == "" {
		o.Background = "#ffffff"
	}
	if o.Width <= 0 {
		o.Width = 1200
	}
	if o.Height <= 0 {
		o.Height = 800
	}
	return o
}

// Renderer is the capability interface over an optional external renderer.
// Probe discovers the real implementation once at startup; call sites never
// check availability themselves.
type Renderer interface {
	CaptureElement(ctx context.Context, ref ElementRef, opts Options) ([]byte, error)
	RenderHTMLToBlob(ctx context.Context, html string) ([]byte, error)
	Available() bool
}

// Service wraps a Renderer with graceful degradation: when no renderer
// exists, captures fall back to a same-dimension placeholder image and the
// downgrade is observable through the warn log, never an error.
type Service struct {
	renderer Renderer
	logger   *slog.Logger
	defaults Options
}

// NewService creates a capture service around the given renderer. A nil
// renderer means placeholder-only operation.
func NewService(renderer Renderer, logger *slog.Logger) *Service {
	return NewServiceWithOptions(renderer, logger, Options{})
}

// NewServiceWithOptions creates a capture service whose captures fall back to
// the given defaults for any option a caller leaves zero
func NewServiceWithOptions(renderer Renderer, logger *slog.Logger, defaults Options) *Service {
	if renderer == nil {
		renderer = noopRenderer{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{renderer: renderer, logger: logger, defaults: defaults}
}

// Available reports whether a real renderer backs this service
func (s *Service) Available() bool {
	return s.renderer.Available()
}

// Capture rasterizes one element. Unavailable renderers degrade to a
// placeholder of the requested dimensions.
func (s *Service) Capture(ctx context.Context, ref ElementRef, opts Options) ([]byte, error) {
	opts = opts.orDefaults(s.defaults).withDefaults()

	if !s.renderer.Available() {
		s.logger.WarnContext(ctx, "renderer unavailable, producing placeholder capture",
			slog.String("selector", ref.Selector))
		return placeholderPNG(opts)
	}

	img, err := s.renderer.CaptureElement(ctx, ref, opts)
	if err != nil {
		return nil, fmt.Errorf("capture element: %w", err)
	}
	return img, nil
}

// CaptureNatural rasterizes an element at its natural pixel dimensions,
// multiplied by scale
func (s *Service) CaptureNatural(ctx context.Context, ref ElementRef, scale float64) ([]byte, error) {
	return s.Capture(ctx, ref, Options{Scale: scale})
}

// CaptureDataURI returns a standalone data URI for one capture
func (s *Service) CaptureDataURI(ctx context.Context, ref ElementRef, opts Options) (string, error) {
	img, err := s.Capture(ctx, ref, opts)
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(img), nil
}

// CaptureAll rasterizes several elements concurrently, preserving input order
func (s *Service) CaptureAll(ctx context.Context, refs []ElementRef, opts Options) ([][]byte, error) {
	g, ctx := errgroup.WithContext(ctx)
	images := make([][]byte, len(refs))

	for i, ref := range refs {
		g.Go(func() error {
			img, err := s.Capture(ctx, ref, opts)
			if err != nil {
				return err
			}
			images[i] = img
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return images, nil
}

// RenderPDF renders an HTML document to PDF bytes. It does not degrade;
// callers decide how to react to ErrRendererUnavailable.
func (s *Service) RenderPDF(ctx context.Context, html string) ([]byte, error) {
	if !s.renderer.Available() {
		return nil, ErrRendererUnavailable
	}
	return s.renderer.RenderHTMLToBlob(ctx, html)
}

type noopRenderer struct{}

func (noopRenderer) Available() bool { return false }

func (noopRenderer) CaptureElement(context.Context, ElementRef, Options) ([]byte, error) {
	return nil, ErrRendererUnavailable
}

func (noopRenderer) RenderHTMLToBlob(context.Context, string) ([]byte, error) {
	return nil, ErrRendererUnavailable
}
