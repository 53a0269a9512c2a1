// Package app assembles the report export service: configuration, structured
// logging, OpenTelemetry, the renderer probe, the export engine and the chi
// router, plus lifecycle control (Start, Stop, Run).
//
// The package is the composition root. Nothing below it reaches for globals;
// every dependency flows down from NewApplication.
package app
