package selector

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatches(t *testing.T) {
	assert.True(t, Matches("statement.xlsx"))
	assert.True(t, Matches("statement.XLS"))
	assert.True(t, Matches("/tmp/dir.with.dots/statement.xls"))
	assert.False(t, Matches("statement.csv"))
	assert.False(t, Matches("statement.xlsx.pdf"))
	assert.False(t, Matches("xlsx"))
}

func TestFromPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "april.xlsx")
	require.NoError(t, os.WriteFile(path, []byte("workbook"), 0o644))

	f, err := FromPath(path)
	require.NoError(t, err)
	assert.Equal(t, "april.xlsx", f.Name)
	assert.Equal(t, int64(8), f.Size)

	rc, err := f.Open()
	require.NoError(t, err)
	defer rc.Close()
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "workbook", string(data))
}

func TestFromPath_NonMatchingExtensionStillSelected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	f, err := FromPath(path)
	require.NoError(t, err)
	assert.Equal(t, "notes.txt", f.Name)
}

func TestFromPath_Missing(t *testing.T) {
	_, err := FromPath(filepath.Join(t.TempDir(), "missing.xlsx"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestFromPath_Directory(t *testing.T) {
	_, err := FromPath(t.TempDir())
	require.Error(t, err)
}

func TestFromUpload(t *testing.T) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", "may.xls")
	require.NoError(t, err)
	_, err = fw.Write([]byte("legacy"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest("POST", "/", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))
	_, header, err := req.FormFile("file")
	require.NoError(t, err)

	f := FromUpload(header)
	assert.Equal(t, "may.xls", f.Name)
	assert.Equal(t, int64(6), f.Size)

	rc, err := f.Open()
	require.NoError(t, err)
	defer rc.Close()
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "legacy", string(data))
}

func TestScan(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.xlsx", "b.XLS", "c.csv", "d.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("data"), 0o644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.xlsx"), 0o755))

	files, err := Scan(dir)
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, "a.xlsx", files[0].Name)
	assert.Equal(t, "b.XLS", files[1].Name)
	assert.Equal(t, filepath.Join(dir, "a.xlsx"), files[0].Path)
	assert.Equal(t, int64(4), files[0].Size)
}

func TestScan_MissingDir(t *testing.T) {
	_, err := Scan(filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
}
