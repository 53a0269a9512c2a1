// Package capture rasterizes rendered visual elements to PNG.
//
// A Renderer is a capability probed once at startup: when a headless Chrome
// binary exists, captures and HTML-to-PDF rendering go through it; otherwise
// the Service degrades to same-dimension placeholder images and the downgrade
// is observable through the warn log. Degradation is never an error.
//
// The Service supports single-element capture, natural-dimension capture at a
// given scale, a standalone data-URI form, and combining several captures
// into one vertically stacked image.
package capture
