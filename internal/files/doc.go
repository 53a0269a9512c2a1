// Package files manages saved export artifacts on disk. A Store wraps the
// downloads directory and exposes listing, retrieval, deletion and age-based
// pruning, restricted to the extensions the exporter can actually produce.
package files
