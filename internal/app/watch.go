package app

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"promptpack/internal/adapters"
)

// Watch runs the deploy pipeline once, then re-runs it whenever a
// layer directory changes. Change events are debounced, and an event
// arriving mid-run supersedes the run in flight instead of queueing.
// Deploy failures inside the loop are logged and watching continues.
func (s Service) Watch(ctx context.Context, req WatchRequest) error {
	deployReq, err := normalizeDeployRequest(req.Deploy)
	if err != nil {
		return err
	}
	// Watch mode never prompts: a blocked pipeline would stall the
	// loop, so conflicts fall back to skip-and-report.
	service := s
	service.Prompter = nil

	run := func(runCtx context.Context) error {
		result, err := service.Deploy(runCtx, deployReq)
		if err != nil {
			return err
		}
		log.Ctx(runCtx).Info().
			Int("written", result.Written).
			Int("unchanged", result.Unchanged).
			Int("conflicts", len(result.SkippedConflicts)).
			Msg("watch deploy finished")
		return nil
	}
	if err := run(ctx); err != nil {
		log.Ctx(ctx).Warn().Err(err).Msg("initial deploy failed, watching for changes")
	}

	dirs := []string{deployReq.UserLayerPath, deployReq.ProjectLayerPath}
	for _, custom := range deployReq.CustomLayers {
		dirs = append(dirs, custom.Path)
	}
	watcher := adapters.NewWatcher(time.Duration(req.Debounce) * time.Millisecond)
	return watcher.Run(ctx, dirs, run)
}
