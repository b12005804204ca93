package selector

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"

	"github.com/cleared-dev/statementform/internal/model"
)

// Accept is the file-picker hint for spreadsheet statements.
const Accept = ".xls,.xlsx"

var extensions = []string{".xls", ".xlsx"}

// Matches reports whether name carries one of the accepted extensions.
// The hint is advisory; callers may still select a non-matching file.
func Matches(name string) bool {
	ext := model.SelectedFile{Name: name}.Ext()
	for _, e := range extensions {
		if ext == e {
			return true
		}
	}
	return false
}

// FromPath selects a file on the local filesystem.
func FromPath(path string) (*model.SelectedFile, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}
	return &model.SelectedFile{
		Name: filepath.Base(path),
		Size: info.Size(),
		Open: func() (io.ReadCloser, error) {
			return os.Open(path)
		},
	}, nil
}

// FromUpload selects a file received as a multipart part.
func FromUpload(header *multipart.FileHeader) *model.SelectedFile {
	return &model.SelectedFile{
		Name: filepath.Base(header.Filename),
		Size: header.Size,
		Open: func() (io.ReadCloser, error) {
			return header.Open()
		},
	}
}

// Candidate describes a spreadsheet found by Scan.
type Candidate struct {
	Name string
	Path string
	Size int64
}

// Scan returns the files in dir that match the extension hint.
func Scan(dir string) ([]Candidate, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", dir, err)
	}

	var files []Candidate
	for _, e := range entries {
		if e.IsDir() || !Matches(e.Name()) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", e.Name(), err)
		}
		files = append(files, Candidate{
			Name: e.Name(),
			Path: filepath.Join(dir, e.Name()),
			Size: info.Size(),
		})
	}
	return files, nil
}
