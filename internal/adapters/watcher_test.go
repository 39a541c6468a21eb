package adapters

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcherRunsAfterChange(t *testing.T) {
	dir := t.TempDir()
	watcher := NewWatcher(20 * time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var runs atomic.Int32
	done := make(chan error, 1)
	go func() {
		done <- watcher.Run(ctx, []string{dir}, func(context.Context) error {
			runs.Add(1)
			return nil
		})
	}()

	// Give the watcher a moment to register before producing the event.
	time.Sleep(50 * time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "style.md"), []byte("v1"), 0644))

	assert.Eventually(t, func() bool { return runs.Load() >= 1 }, 3*time.Second, 10*time.Millisecond)

	cancel()
	err := <-done
	assert.ErrorIs(t, err, context.Canceled)
}

func TestWatcherSeesEditsInSubdirectories(t *testing.T) {
	dir := t.TempDir()
	policies := filepath.Join(dir, "policies")
	require.NoError(t, os.MkdirAll(policies, 0755))
	stylePath := filepath.Join(policies, "style.md")
	require.NoError(t, os.WriteFile(stylePath, []byte("v1"), 0644))

	watcher := NewWatcher(20 * time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var runs atomic.Int32
	done := make(chan error, 1)
	go func() {
		done <- watcher.Run(ctx, []string{dir}, func(context.Context) error {
			runs.Add(1)
			return nil
		})
	}()

	time.Sleep(50 * time.Millisecond)
	require.NoError(t, os.WriteFile(stylePath, []byte("v2"), 0644))

	assert.Eventually(t, func() bool { return runs.Load() >= 1 }, 3*time.Second, 10*time.Millisecond,
		"edit inside a subdirectory never triggered a run")

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}

func TestWatcherPicksUpNewSubdirectories(t *testing.T) {
	dir := t.TempDir()
	watcher := NewWatcher(20 * time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var runs atomic.Int32
	done := make(chan error, 1)
	go func() {
		done <- watcher.Run(ctx, []string{dir}, func(context.Context) error {
			runs.Add(1)
			return nil
		})
	}()

	// A skill folder created after the watch started must be watched
	// too, so later edits inside it keep triggering runs.
	time.Sleep(50 * time.Millisecond)
	skillDir := filepath.Join(dir, "skills", "release-notes")
	require.NoError(t, os.MkdirAll(skillDir, 0755))
	assert.Eventually(t, func() bool { return runs.Load() >= 1 }, 3*time.Second, 10*time.Millisecond)

	before := runs.Load()
	time.Sleep(50 * time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(skillDir, "SKILL.md"), []byte("v1"), 0644))
	assert.Eventually(t, func() bool { return runs.Load() > before }, 3*time.Second, 10*time.Millisecond,
		"edit inside a freshly created folder never triggered a run")

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}

func TestWatcherStopsOnContextCancel(t *testing.T) {
	watcher := NewWatcher(0)
	assert.Equal(t, 500*time.Millisecond, watcher.Debounce)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := watcher.Run(ctx, []string{t.TempDir()}, func(context.Context) error { return nil })
	assert.ErrorIs(t, err, context.Canceled)
}
