package tool

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	ai "github.com/xpand-io/bedrockai"
)

func callReadFile(t *testing.T, handler Handler, path string) (any, error) {
	t.Helper()
	input, err := json.Marshal(map[string]string{"path": path})
	require.NoError(t, err)
	return handler(context.Background(), ai.ToolUse{ID: "tu-1", Name: "read_file", Input: input})
}

func TestReadFileTool(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "note.txt"), []byte("remember this"), 0o644))

	tl, handler := NewReadFileTool(WithBasePath(dir))
	assert.Equal(t, "read_file", tl.Name)

	value, err := callReadFile(t, handler, "note.txt")
	require.NoError(t, err)
	assert.Equal(t, "remember this", value)
}

func TestReadFileToolRejectsEscape(t *testing.T) {
	dir := t.TempDir()
	_, handler := NewReadFileTool(WithBasePath(dir))

	_, err := callReadFile(t, handler, "../../etc/passwd")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "escapes")
}

func TestReadFileToolSizeCap(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "big.bin"), make([]byte, 2048), 0o644))

	_, handler := NewReadFileTool(WithBasePath(dir), WithMaxFileSize(1024))

	_, err := callReadFile(t, handler, "big.bin")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeds maximum file size")
}

func TestReadFileToolRejectsDirectory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0o755))

	_, handler := NewReadFileTool(WithBasePath(dir))

	_, err := callReadFile(t, handler, "sub")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "is a directory")
}
