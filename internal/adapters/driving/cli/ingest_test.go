package cli

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/compass-embed/internal/connectors/filesystem"
	"github.com/custodia-labs/compass-embed/internal/core/domain"
)

func writeDataDir(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return dir
}

func TestIngestCmd_Use(t *testing.T) {
	assert.Equal(t, "ingest [dir]", ingestCmd.Use)
	assert.Equal(t, "Ingest documents from a directory", ingestCmd.Short)
}

func TestIngestCmd_Flags(t *testing.T) {
	for _, name := range []string{"include", "exclude", "watch", "no-progress"} {
		assert.NotNil(t, ingestCmd.Flags().Lookup(name), name)
	}
	assert.Equal(t, "w", ingestCmd.Flags().Lookup("watch").Shorthand)
}

func TestIngestCmd_IngestsDirectory(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	dir := writeDataDir(t, map[string]string{
		"handbook.txt":   repeatText("abcdefghij", 1200),
		"week1/faq.txt":  "Office hours are on Tuesdays.",
		"notes.md":       "# not ingested",
		".hidden/x.txt":  "hidden",
		"week1/skip.tmp": "skip",
	})

	out, err := executeCommand("ingest", dir, "--no-progress")

	require.NoError(t, err)
	assert.Contains(t, out, "Loaded documents:")
	assert.Contains(t, out, "- "+filepath.Join(dir, "handbook.txt")+"  (type: txt)")
	assert.Contains(t, out, "- "+filepath.Join(dir, "week1", "faq.txt")+"  (type: txt)")
	assert.NotContains(t, out, "notes.md")
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "Before ingestion, collection has: 0 embeddings")
	assert.Contains(t, out, "After ingestion, collection has: 4 embeddings")
	assert.Contains(t, out, "Ingestion complete! Vector store saved to ./chroma_db")
}

func TestIngestCmd_TwiceKeepsCount(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	dir := writeDataDir(t, map[string]string{"a.txt": "alpha", "b.txt": "beta"})

	_, err := executeCommand("ingest", dir, "--no-progress")
	require.NoError(t, err)
	out, err := executeCommand("ingest", dir, "--no-progress")

	require.NoError(t, err)
	assert.Contains(t, out, "Before ingestion, collection has: 2 embeddings")
	assert.Contains(t, out, "After ingestion, collection has: 2 embeddings")
}

func TestIngestCmd_IncludeExcludeFlags(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	dir := writeDataDir(t, map[string]string{"a.txt": "alpha", "b.txt": "beta", "c.txt": "gamma"})

	out, err := executeCommand("ingest", dir, "--no-progress", "--include", "*.txt", "--exclude", "b.txt,c.txt")

	require.NoError(t, err)
	assert.Contains(t, out, "a.txt")
	assert.NotContains(t, out, "b.txt")
	assert.Contains(t, out, "After ingestion, collection has: 1 embeddings")
}

func TestIngestCmd_DefaultDirFromSettings(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	dir := writeDataDir(t, map[string]string{"a.txt": "alpha"})
	require.NoError(t, settingsService.Set("ingest.input_dir", dir))

	out, err := executeCommand("ingest", "--no-progress")

	require.NoError(t, err)
	assert.Contains(t, out, filepath.Join(dir, "a.txt"))
}

func TestIngestCmd_Ephemeral(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	dir := writeDataDir(t, map[string]string{"a.txt": "alpha"})

	out, err := executeCommand("ingest", dir, "--no-progress", "--ephemeral")

	require.NoError(t, err)
	assert.Contains(t, out, "Vector store saved to memory (not persisted)")
}

func TestIngestCmd_MissingDirectory(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	_, err := executeCommand("ingest", "/non/existent/path")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "root path error")
}

func TestIngestCmd_UnsupportedFileAborts(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	dir := writeDataDir(t, map[string]string{"a.txt": "alpha", "b.md": "# beta"})

	_, err := executeCommand("ingest", dir, "--no-progress", "--include", "**/*")

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrUnsupportedFormat))
}

func TestIngestCmd_TooManyArgs(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	_, err := executeCommand("ingest", "a", "b")

	assert.Error(t, err)
}

func TestWatchAndIngest(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	dir := t.TempDir()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	buf := new(bytes.Buffer)
	cmd := &cobra.Command{}
	cmd.SetContext(ctx)
	cmd.SetOut(buf)

	conn := filesystem.New(dir, nil, nil)
	defer conn.Close()

	done := make(chan error, 1)
	go func() {
		done <- watchAndIngest(cmd, conn)
	}()

	// Give the watcher time to register before writing.
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "new.txt"), []byte("fresh notes"), 0o644))

	require.Eventually(t, func() bool {
		n, err := ingestService.Count(context.Background())
		return err == nil && n == 1
	}, 5*time.Second, 50*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watch did not stop after cancel")
	}
	assert.Contains(t, buf.String(), "Watching "+dir)
	assert.Contains(t, buf.String(), "new.txt  (created, 1 chunks)")
}
