package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Logger construction: levels, formats, file output
// =============================================================================

func TestParseLevel(t *testing.T) {
	for _, name := range []string{"", "info", "INFO", "debug", "warn", "warning", "error"} {
		_, err := ParseLevel(name)
		assert.NoError(t, err, name)
	}
	_, err := ParseLevel("loud")
	assert.Error(t, err)
}

func TestNew_TextFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: "warn", Output: &buf, Service: "test"})
	defer l.Close()

	l.Info("hidden")
	l.Warn("shown", "k", 1)

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown")
	assert.Contains(t, out, "service=test")
	assert.Contains(t, out, "k=1")
}

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{JSON: true, Output: &buf})
	l.Info("hello", "algorithm", "kmp")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "hello", rec["msg"])
	assert.Equal(t, "kmp", rec["algorithm"])
}

func TestNew_FileOutput(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "log")
	var buf bytes.Buffer
	l := New(Config{LogDir: dir, Service: "daemon", Output: &buf})

	l.Info("to both")
	require.NotEmpty(t, l.Path())
	assert.True(t, strings.HasPrefix(filepath.Base(l.Path()), "daemon_"))
	require.NoError(t, l.Close())

	data, err := os.ReadFile(l.Path())
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"to both"`)
	assert.Contains(t, buf.String(), "to both")
}

func TestNew_QuietFileOnly(t *testing.T) {
	dir := t.TempDir()
	var buf bytes.Buffer
	l := New(Config{LogDir: dir, Quiet: true, Output: &buf})
	l.Error("file only")
	require.NoError(t, l.Close())

	assert.Empty(t, buf.String())
	data, err := os.ReadFile(l.Path())
	require.NoError(t, err)
	assert.Contains(t, string(data), "file only")
}

func TestNop(t *testing.T) {
	l := Nop()
	l.Error("nothing")
	assert.Empty(t, l.Path())
	assert.NoError(t, l.Close())
}
