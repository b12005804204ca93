package download

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// Filename is the fixed name given to every processed statement.
const Filename = "processed_statement.xlsx"

// ContentType is the MIME type served with processed statements.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// DirSaver writes payloads to <Dir>/Filename, the way a browser's
// auto-download lands a file in the downloads folder.
type DirSaver struct {
	Dir string
}

// NewDirSaver returns a DirSaver for dir. An empty dir means the working directory.
func NewDirSaver(dir string) *DirSaver {
	if dir == "" {
		dir = "."
	}
	return &DirSaver{Dir: dir}
}

// Path returns where payloads are saved.
func (s *DirSaver) Path() string {
	return filepath.Join(s.Dir, Filename)
}

// Present saves payload and returns the saved path. The payload is staged in a
// temp file in the same directory, which is always gone when Present returns.
func (s *DirSaver) Present(ctx context.Context, payload []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return "", fmt.Errorf("creating output dir: %w", err)
	}

	tmp, err := os.CreateTemp(s.Dir, ".processed-*.tmp")
	if err != nil {
		return "", fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(payload); err != nil {
		tmp.Close()
		return "", fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("closing temp file: %w", err)
	}

	dst := s.Path()
	if err := os.Rename(tmp.Name(), dst); err != nil {
		return "", fmt.Errorf("saving %s: %w", Filename, err)
	}
	return dst, nil
}
