// Package http contains the HTTP transport layer: chi handlers that decode
// export requests, hand them to the exporter, and stream artifacts back with
// RFC 7807 error responses on failure.
package http
