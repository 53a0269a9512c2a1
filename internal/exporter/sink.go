package exporter

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// ArtifactSink is the narrow "save this named content" mechanism exports are
// handed to in a hosted context
type ArtifactSink interface {
	Save(ctx context.Context, artifact *Artifact) (string, error)
}

// FileSink saves artifacts into a downloads directory. Content lands in a
// transient temp file first and is renamed into place; the temp file is
// removed on any failure so no partial artifact survives.
type FileSink struct {
	dir    string
	logger *slog.Logger
}

// NewFileSink creates a file sink rooted at dir
func NewFileSink(dir string, logger *slog.Logger) *FileSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileSink{dir: dir, logger: logger}
}

// Save writes the artifact and returns its full path
func (s *FileSink) Save(ctx context.Context, artifact *Artifact) (string, error) {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return "", fmt.Errorf("create downloads directory: %w", err)
	}

	tmp, err := os.CreateTemp(s.dir, ".export-*")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(artifact.Content); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return "", fmt.Errorf("write artifact: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("close artifact: %w", err)
	}

	finalPath := filepath.Join(s.dir, artifact.Filename)
	if err := os.Rename(tmpName, finalPath); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("finalize artifact: %w", err)
	}

	s.logger.InfoContext(ctx, "artifact saved",
		slog.String("path", finalPath),
		slog.String("mime", artifact.MIME),
		slog.Int("bytes", len(artifact.Content)))
	return finalPath, nil
}
