package files

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// artifactExtensions are the extensions a report export can produce. The
// store lists nothing else, so stray files in the downloads directory never
// leak through the API.
var artifactExtensions = map[string]string{
	".csv":  "text/csv",
	".xlsx": "application/vnd.ms-excel",
	".pdf":  "application/pdf",
	".md":   "text/markdown",
	".json": "application/json",
	".png":  "image/png",
	".html": "text/html",
}

// ArtifactInfo describes one saved export artifact
type ArtifactInfo struct {
	Name     string    `json:"name"`
	Size     int64     `json:"size"`
	MIME     string    `json:"mime"`
	Modified time.Time `json:"modified"`
}

// Store manages saved artifacts under a single downloads directory. Names
// are always resolved inside that directory; traversal attempts fail.
type Store struct {
	dir    string
	logger *slog.Logger
}

// NewStore creates an artifact store rooted at dir
func NewStore(dir string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{dir: dir, logger: logger}
}

// Dir returns the directory the store manages
func (s *Store) Dir() string {
	return s.dir
}

// List returns the saved artifacts, newest first. A missing downloads
// directory is an empty store, not an error.
func (s *Store) List() ([]ArtifactInfo, error) {
	entries, err := os.ReadDir(s.dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read downloads directory: %w", err)
	}

	var artifacts []ArtifactInfo
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		mime, ok := artifactExtensions[strings.ToLower(filepath.Ext(entry.Name()))]
		if !ok {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		artifacts = append(artifacts, ArtifactInfo{
			Name:     entry.Name(),
			Size:     info.Size(),
			MIME:     mime,
			Modified: info.ModTime(),
		})
	}

	sort.Slice(artifacts, func(i, j int) bool {
		return artifacts[i].Modified.After(artifacts[j].Modified)
	})
	return artifacts, nil
}

// Read returns the content and MIME type of one saved artifact
func (s *Store) Read(name string) ([]byte, string, error) {
	path, mime, err := s.resolve(name)
	if err != nil {
		return nil, "", err
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("read artifact %s: %w", name, err)
	}
	return content, mime, nil
}

// Delete removes one saved artifact
func (s *Store) Delete(name string) error {
	path, _, err := s.resolve(name)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("delete artifact %s: %w", name, err)
	}
	s.logger.Info("artifact deleted", slog.String("name", name))
	return nil
}

// Prune removes artifacts older than maxAge and returns how many went
func (s *Store) Prune(maxAge time.Duration) (int, error) {
	artifacts, err := s.List()
	if err != nil {
		return 0, err
	}

	cutoff := time.Now().Add(-maxAge)
	removed := 0
	for _, a := range artifacts {
		if a.Modified.After(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(s.dir, a.Name)); err != nil {
			s.logger.Warn("prune failed for artifact",
				slog.String("name", a.Name),
				slog.String("error", err.Error()))
			continue
		}
		removed++
	}

	if removed > 0 {
		s.logger.Info("pruned artifacts",
			slog.Int("removed", removed),
			slog.Duration("max_age", maxAge))
	}
	return removed, nil
}

// resolve maps an artifact name to its path inside the store directory.
// Anything that would escape the directory, or any unknown extension, is
// rejected.
func (s *Store) resolve(name string) (string, string, error) {
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return "", "", fmt.Errorf("invalid artifact name %q", name)
	}
	mime, ok := artifactExtensions[strings.ToLower(filepath.Ext(name))]
	if !ok {
		return "", "", fmt.Errorf("invalid artifact name %q", name)
	}
	return filepath.Join(s.dir, name), mime, nil
}
