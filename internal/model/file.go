package model

import (
	"io"
	"path/filepath"
	"strings"
)

// SelectedFile is the user's chosen statement: a declared name plus a way to read its bytes.
type SelectedFile struct {
	Name string
	Size int64
	Open func() (io.ReadCloser, error)
}

// Ext returns the lowercased filename extension including the dot.
func (f SelectedFile) Ext() string {
	return strings.ToLower(filepath.Ext(f.Name))
}
