// Package testutil provides shared helpers for the integration test
// packages.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// WriteFile writes content at root/relative (slash-separated), creating
// parent directories as needed.
func WriteFile(t *testing.T, root, relative, content string) string {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(relative))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// ReadFile reads root/relative and fails the test on error.
func ReadFile(t *testing.T, root, relative string) string {
	t.Helper()
	content, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(relative)))
	require.NoError(t, err)
	return string(content)
}

// FileExists reports whether root/relative exists.
func FileExists(t *testing.T, root, relative string) bool {
	t.Helper()
	_, err := os.Stat(filepath.Join(root, filepath.FromSlash(relative)))
	if err != nil {
		require.True(t, os.IsNotExist(err))
		return false
	}
	return true
}
