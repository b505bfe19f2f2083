package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSource(t *testing.T, src string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "input.rue")
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))
	return path
}

func TestHandlerCompilesValidSource(t *testing.T) {
	path := writeSource(t, "fun main() -> Int { 41 + 1 }")
	status := Handler([]string{path}, map[string]string{})
	assert.Equal(t, 0, status)
}

func TestHandlerRunsAndReportsResult(t *testing.T) {
	path := writeSource(t, "fun add(a: Int, b: Int) -> Int { a + b }\nfun main() -> Int { add(2, 3) }")
	status := Handler([]string{path}, map[string]string{"run": "true"})
	assert.Equal(t, 0, status)
}

func TestHandlerFailsOnMissingMain(t *testing.T) {
	path := writeSource(t, "fun helper() -> Int { 1 }")
	status := Handler([]string{path}, map[string]string{})
	assert.NotEqual(t, 0, status)
}

func TestHandlerFailsOnUnreadableFile(t *testing.T) {
	status := Handler([]string{filepath.Join(t.TempDir(), "does-not-exist.rue")}, map[string]string{})
	assert.NotEqual(t, 0, status)
}

func TestHandlerFailsWithNoArguments(t *testing.T) {
	status := Handler(nil, map[string]string{})
	assert.NotEqual(t, 0, status)
}
