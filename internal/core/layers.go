package core

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"promptpack/internal/types"
)

// LayerCandidate is one configured source directory before resolution.
type LayerCandidate struct {
	Name     string
	Kind     types.LayerKind
	Path     string
	Disabled bool
}

// LayerResolution is the outcome of resolving the configured candidate
// list: the surviving layers low to high priority, plus the warnings
// accumulated for the run report.
type LayerResolution struct {
	Layers   []types.Layer
	Warnings []string
}

// LayerResolver turns layer candidates into an ordered, validated
// layer list. The lstat/readlink hooks default to the os functions and
// exist for tests.
type LayerResolver struct {
	lstat    func(path string) (os.FileInfo, error)
	readlink func(path string) (string, error)
}

func NewLayerResolver() LayerResolver {
	return LayerResolver{
		lstat:    os.Lstat,
		readlink: os.Readlink,
	}
}

// Resolve processes candidates in configured order (lowest priority
// first). Disabled candidates are skipped silently. A missing user
// layer is silent; a missing custom or project layer is a warning. An
// empty result is fatal: there is nothing to compile.
func (r LayerResolver) Resolve(ctx context.Context, candidates []LayerCandidate) (LayerResolution, error) {
	resolution := LayerResolution{}
	for _, candidate := range candidates {
		if candidate.Disabled {
			continue
		}
		resolved, found, err := r.canonicalize(candidate.Path)
		if err != nil {
			return LayerResolution{}, err
		}
		if !found {
			switch candidate.Kind {
			case types.LayerKindUser:
				// Absent user layer is expected, not an error.
			case types.LayerKindCustom:
				resolution.Warnings = append(resolution.Warnings,
					fmt.Sprintf("custom layer %q not found at %s, skipping", candidate.Name, candidate.Path))
			case types.LayerKindProject:
				resolution.Warnings = append(resolution.Warnings,
					fmt.Sprintf("project layer not found at %s, skipping", candidate.Path))
			}
			continue
		}
		resolution.Layers = append(resolution.Layers, types.Layer{
			Name:         candidate.Name,
			Kind:         candidate.Kind,
			DeclaredPath: candidate.Path,
			ResolvedPath: resolved,
		})
	}
	if len(resolution.Layers) == 0 {
		return LayerResolution{}, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("no layers found: enable at least one layer or create a project prompt directory")
	}
	log.Ctx(ctx).Debug().Int("layers", len(resolution.Layers)).Msg("layers resolved")
	return resolution, nil
}

// canonicalize follows symlinks one link at a time, tracking visited
// paths. The first revisit signals a circular symlink and is fatal.
// Returns found=false when the path does not exist.
func (r LayerResolver) canonicalize(path string) (resolved string, found bool, err error) {
	current, err := filepath.Abs(path)
	if err != nil {
		return "", false, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("invalid layer path: %s", path)).
			WithCause(err)
	}
	visited := map[string]struct{}{}
	for {
		info, statErr := r.lstat(current)
		if statErr != nil {
			if os.IsNotExist(statErr) {
				return "", false, nil
			}
			if os.IsPermission(statErr) {
				return "", false, errbuilder.New().
					WithCode(errbuilder.CodePermissionDenied).
					WithMsg(fmt.Sprintf("permission denied reading layer path: %s", current)).
					WithCause(statErr)
			}
			return "", false, errbuilder.New().
				WithCode(errbuilder.CodeInternal).
				WithMsg(fmt.Sprintf("failed to stat layer path: %s", current)).
				WithCause(statErr)
		}
		if info.Mode()&os.ModeSymlink == 0 {
			return current, true, nil
		}
		if _, seen := visited[current]; seen {
			return "", false, errbuilder.New().
				WithCode(errbuilder.CodeFailedPrecondition).
				WithMsg(fmt.Sprintf("circular symlink detected at %s: remove the cycle or point the layer elsewhere", current))
		}
		visited[current] = struct{}{}
		target, linkErr := r.readlink(current)
		if linkErr != nil {
			return "", false, errbuilder.New().
				WithCode(errbuilder.CodeInternal).
				WithMsg(fmt.Sprintf("failed to read symlink: %s", current)).
				WithCause(linkErr)
		}
		if !filepath.IsAbs(target) {
			target = filepath.Join(filepath.Dir(current), target)
		}
		current = filepath.Clean(target)
	}
}
