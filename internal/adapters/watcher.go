package adapters

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"
)

// Watcher re-runs a pipeline function when any of the watched layer
// directories change. Events within the debounce window coalesce into
// one run, and a change arriving while a run is in flight cancels that
// run and schedules a fresh one: last event wins, runs are never
// queued.
type Watcher struct {
	Debounce time.Duration
}

func NewWatcher(debounce time.Duration) Watcher {
	if debounce <= 0 {
		debounce = 500 * time.Millisecond
	}
	return Watcher{Debounce: debounce}
}

// Run blocks until ctx is cancelled. Errors from individual runs are
// logged and do not stop the watch loop.
func (w Watcher) Run(ctx context.Context, dirs []string, run func(ctx context.Context) error) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()
	for _, dir := range dirs {
		if _, statErr := os.Stat(dir); statErr != nil {
			log.Ctx(ctx).Warn().Str("dir", dir).Err(statErr).Msg("cannot watch directory")
			continue
		}
		watchTree(ctx, watcher, dir)
	}

	timer := time.NewTimer(w.Debounce)
	if !timer.Stop() {
		<-timer.C
	}
	var (
		runCancel context.CancelFunc
		runDone   chan struct{}
	)
	awaitInFlight := func() {
		if runCancel != nil {
			runCancel()
			<-runDone
			runCancel = nil
		}
	}
	defer awaitInFlight()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			log.Ctx(ctx).Debug().Str("path", event.Name).Str("op", event.Op.String()).Msg("change detected")
			if event.Op.Has(fsnotify.Create) {
				// A new skill folder (or any nested dir) must be
				// watched too.
				watchTree(ctx, watcher, event.Name)
			}
			// Cancel without waiting so a burst of events cannot back
			// up the fsnotify channel behind a slow run.
			if runCancel != nil {
				runCancel()
			}
			timer.Reset(w.Debounce)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Ctx(ctx).Warn().Err(err).Msg("watch error")
		case <-timer.C:
			awaitInFlight()
			runCtx, cancel := context.WithCancel(ctx)
			done := make(chan struct{})
			runCancel, runDone = cancel, done
			go func() {
				defer close(done)
				if err := run(runCtx); err != nil && runCtx.Err() == nil {
					log.Ctx(ctx).Warn().Err(err).Msg("deploy failed, watching for further changes")
				}
			}()
		}
	}
}

// watchTree registers dir and every directory below it. fsnotify
// watches are not recursive, and layer assets live in per-kind
// subdirectories and skill folders. A path that is not a directory
// registers nothing.
func watchTree(ctx context.Context, watcher *fsnotify.Watcher, dir string) {
	_ = filepath.WalkDir(dir, func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil || !entry.IsDir() {
			return nil
		}
		if addErr := watcher.Add(path); addErr != nil {
			log.Ctx(ctx).Warn().Str("dir", path).Err(addErr).Msg("cannot watch directory")
		}
		return nil
	})
}
