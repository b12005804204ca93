package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSelectedFileExt(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"statement.xlsx", ".xlsx"},
		{"STATEMENT.XLS", ".xls"},
		{"archive.tar.gz", ".gz"},
		{"noext", ""},
	}
	for _, tt := range tests {
		f := SelectedFile{Name: tt.name}
		assert.Equal(t, tt.want, f.Ext(), "Ext(%q)", tt.name)
	}
}

func TestParseNoticeKind(t *testing.T) {
	kind, ok := ParseNoticeKind("error")
	assert.True(t, ok)
	assert.Equal(t, NoticeError, kind)

	kind, ok = ParseNoticeKind("success")
	assert.True(t, ok)
	assert.Equal(t, NoticeSuccess, kind)

	_, ok = ParseNoticeKind("warning")
	assert.False(t, ok)
}
