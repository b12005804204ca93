package download

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirSaver_Present(t *testing.T) {
	dir := t.TempDir()
	s := NewDirSaver(dir)

	path, err := s.Present(context.Background(), []byte("processed"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "processed_statement.xlsx"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "processed", string(data))
}

func TestDirSaver_ReleasesTempFile(t *testing.T) {
	dir := t.TempDir()
	_, err := NewDirSaver(dir).Present(context.Background(), []byte("processed"))
	require.NoError(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "only the saved statement should remain")
	assert.Equal(t, Filename, entries[0].Name())
}

func TestDirSaver_Overwrites(t *testing.T) {
	dir := t.TempDir()
	s := NewDirSaver(dir)
	_, err := s.Present(context.Background(), []byte("first"))
	require.NoError(t, err)
	path, err := s.Present(context.Background(), []byte("second"))
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "second", string(data))
}

func TestDirSaver_CreatesDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out", "nested")
	path, err := NewDirSaver(dir).Present(context.Background(), []byte("x"))
	require.NoError(t, err)
	_, err = os.Stat(path)
	require.NoError(t, err)
}

func TestDirSaver_CanceledContext(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewDirSaver(dir).Present(ctx, []byte("x"))
	require.ErrorIs(t, err, context.Canceled)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestNewDirSaver_DefaultsToWorkingDir(t *testing.T) {
	assert.Equal(t, Filename, NewDirSaver("").Path())
}
