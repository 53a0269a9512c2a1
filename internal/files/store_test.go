package files

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reportkit/internal/shared/testutil"
)

func newTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	dir := t.TempDir()
	logger, _ := testutil.NewTestLogger(t)
	return NewStore(dir, logger), dir
}

func writeArtifact(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
}

func TestStoreList(t *testing.T) {
	store, dir := newTestStore(t)

	writeArtifact(t, dir, "weekly-report-2026-03-15.csv", "a,b\n")
	writeArtifact(t, dir, "weekly-report-2026-03-15.md", "# Weekly\n")
	writeArtifact(t, dir, "notes.txt", "not an artifact")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0755))

	artifacts, err := store.List()
	require.NoError(t, err)
	require.Len(t, artifacts, 2)

	names := []string{artifacts[0].Name, artifacts[1].Name}
	assert.Contains(t, names, "weekly-report-2026-03-15.csv")
	assert.Contains(t, names, "weekly-report-2026-03-15.md")

	for _, a := range artifacts {
		assert.NotZero(t, a.Size)
		assert.NotEmpty(t, a.MIME)
	}
}

func TestStoreListNewestFirst(t *testing.T) {
	store, dir := newTestStore(t)

	writeArtifact(t, dir, "old.csv", "old")
	old := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(filepath.Join(dir, "old.csv"), old, old))
	writeArtifact(t, dir, "new.csv", "new")

	artifacts, err := store.List()
	require.NoError(t, err)
	require.Len(t, artifacts, 2)
	assert.Equal(t, "new.csv", artifacts[0].Name)
	assert.Equal(t, "old.csv", artifacts[1].Name)
}

func TestStoreListMissingDir(t *testing.T) {
	logger, _ := testutil.NewTestLogger(t)
	store := NewStore(filepath.Join(t.TempDir(), "nope"), logger)

	artifacts, err := store.List()
	require.NoError(t, err)
	assert.Empty(t, artifacts)
}

func TestStoreRead(t *testing.T) {
	store, dir := newTestStore(t)
	writeArtifact(t, dir, "report.json", `{"templateId":"t"}`)

	content, mime, err := store.Read("report.json")
	require.NoError(t, err)
	assert.Equal(t, "application/json", mime)
	assert.JSONEq(t, `{"templateId":"t"}`, string(content))
}

func TestStoreRejectsTraversal(t *testing.T) {
	store, _ := newTestStore(t)

	for _, name := range []string{"", "../secret.csv", "sub/report.csv", ".hidden.csv", "report.exe"} {
		t.Run(name, func(t *testing.T) {
			_, _, err := store.Read(name)
			assert.Error(t, err)
		})
	}
}

func TestStoreDelete(t *testing.T) {
	store, dir := newTestStore(t)
	writeArtifact(t, dir, "report.csv", "a,b\n")

	require.NoError(t, store.Delete("report.csv"))
	assert.NoFileExists(t, filepath.Join(dir, "report.csv"))

	assert.Error(t, store.Delete("report.csv"))
}

func TestStorePrune(t *testing.T) {
	store, dir := newTestStore(t)

	writeArtifact(t, dir, "stale.csv", "old")
	stale := time.Now().Add(-48 * time.Hour)
	require.NoError(t, os.Chtimes(filepath.Join(dir, "stale.csv"), stale, stale))
	writeArtifact(t, dir, "fresh.csv", "new")

	removed, err := store.Prune(24 * time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	artifacts, err := store.List()
	require.NoError(t, err)
	require.Len(t, artifacts, 1)
	assert.Equal(t, "fresh.csv", artifacts[0].Name)
}
