package capture

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"os/exec"
	"strconv"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// chromeCandidates are the browser binaries Probe looks for, in order
var chromeCandidates = []string{
	"google-chrome",
	"google-chrome-stable",
	"chromium",
	"chromium-browser",
	"headless-shell",
}

// Probe looks for a usable headless browser once at startup and returns a
// renderer backed by it, or nil when none exists. An explicit path wins over
// the candidate search.
func Probe(logger *slog.Logger, explicitPath string) Renderer {
	if logger == nil {
		logger = slog.Default()
	}
	if explicitPath != "" {
		if path, err := exec.LookPath(explicitPath); err == nil {
			logger.Info("headless renderer found",
				slog.String("binary", explicitPath),
				slog.String("path", path))
			return &chromeRenderer{execPath: path}
		}
		logger.Warn("configured browser binary not found, falling back to search",
			slog.String("binary", explicitPath))
	}
	for _, name := range chromeCandidates {
		path, err := exec.LookPath(name)
		if err != nil {
			continue
		}
		logger.Info("headless renderer found",
			slog.String("binary", name),
			slog.String("path", path))
		return &chromeRenderer{execPath: path}
	}
	logger.Warn("no headless renderer found, captures will degrade to placeholders")
	return nil
}

// chromeRenderer drives a headless Chrome instance through the DevTools
// protocol. Each call runs in a fresh browser context; no state survives
// between calls.
type chromeRenderer struct {
	execPath string
}

func (r *chromeRenderer) Available() bool { return true }

// CaptureElement rasterizes ref at opts.Scale. A selector captures that
// element's box; without one the full viewport is captured.
func (r *chromeRenderer) CaptureElement(ctx context.Context, ref ElementRef, opts Options) ([]byte, error) {
	opts = opts.withDefaults()

	tabCtx, cancel, err := r.newTab(ctx)
	if err != nil {
		return nil, err
	}
	defer cancel()

	target := ref.URL
	if ref.HTML != "" {
		target = "data:text/html;charset=utf-8," + url.PathEscape(ref.HTML)
	}
	if target == "" {
		return nil, fmt.Errorf("element reference has neither URL nor HTML")
	}

	var buf []byte
	tasks := chromedp.Tasks{
		chromedp.EmulateViewport(int64(opts.Width), int64(opts.Height), chromedp.EmulateScale(opts.Scale)),
		backgroundOverride(opts.Background),
		chromedp.Navigate(target),
	}
	if ref.Selector != "" {
		tasks = append(tasks,
			chromedp.WaitVisible(ref.Selector, chromedp.ByQuery),
			chromedp.Screenshot(ref.Selector, &buf, chromedp.ByQuery),
		)
	} else {
		tasks = append(tasks, chromedp.FullScreenshot(&buf, 100))
	}

	if err := chromedp.Run(tabCtx, tasks); err != nil {
		return nil, fmt.Errorf("chrome capture: %w", err)
	}
	return buf, nil
}

// RenderHTMLToBlob prints an HTML document to PDF bytes
func (r *chromeRenderer) RenderHTMLToBlob(ctx context.Context, html string) ([]byte, error) {
	tabCtx, cancel, err := r.newTab(ctx)
	if err != nil {
		return nil, err
	}
	defer cancel()

	var buf []byte
	tasks := chromedp.Tasks{
		chromedp.Navigate("data:text/html;charset=utf-8," + url.PathEscape(html)),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			buf, _, err = page.PrintToPDF().
				WithPrintBackground(true).
				WithPreferCSSPageSize(true).
				Do(ctx)
			return err
		}),
	}

	if err := chromedp.Run(tabCtx, tasks); err != nil {
		return nil, fmt.Errorf("chrome print to PDF: %w", err)
	}
	return buf, nil
}

// newTab allocates a fresh headless browser tab. The returned cancel releases
// the browser process; callers must invoke it promptly.
func (r *chromeRenderer) newTab(ctx context.Context) (context.Context, context.CancelFunc, error) {
	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.ExecPath(r.execPath),
		chromedp.Flag("headless", true),
	)

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, allocOpts...)
	tabCtx, cancelTab := chromedp.NewContext(allocCtx)

	cancel := func() {
		cancelTab()
		cancelAlloc()
	}
	return tabCtx, cancel, nil
}

// backgroundOverride paints the page background before capture so transparent
// regions come out filled
func backgroundOverride(hex string) chromedp.Action {
	r, g, b := parseHexColor(hex)
	alpha := 1.0
	return emulation.SetDefaultBackgroundColorOverride().WithColor(&cdp.RGBA{
		R: int64(r),
		G: int64(g),
		B: int64(b),
		A: alpha,
	})
}

func parseHexColor(hex string) (uint8, uint8, uint8) {
	if len(hex) == 7 && hex[0] == '#' {
		if v, err := strconv.ParseUint(hex[1:], 16, 32); err == nil {
			return uint8(v >> 16), uint8(v >> 8), uint8(v)
		}
	}
	return 255, 255, 255
}
