package logging

import (
	"bytes"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
)

func TestNew_Levels(t *testing.T) {
	var buf bytes.Buffer
	quiet := New(&buf, false)
	assert.Equal(t, log.InfoLevel, quiet.GetLevel())
	quiet.Debug("hidden")
	assert.Empty(t, buf.String())

	verbose := New(&buf, true)
	assert.Equal(t, log.DebugLevel, verbose.GetLevel())
	verbose.Debug("shown", "file", "april.xlsx")
	assert.Contains(t, buf.String(), "shown")
	assert.Contains(t, buf.String(), "april.xlsx")
	assert.Contains(t, buf.String(), "statementform")
}
