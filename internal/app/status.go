package app

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
)

// Status reports where every tracked output came from: the "show me
// where this came from" view over the lockfile provenance fields.
func (s Service) Status(req StatusRequest) (StatusResult, error) {
	if strings.TrimSpace(req.ProjectDir) == "" {
		return StatusResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("project directory is required")
	}
	result := StatusResult{}
	roots := []string{req.ProjectDir}
	if req.UserRoot != "" {
		roots = append(roots, req.UserRoot)
	}
	for _, root := range roots {
		lockfile, err := s.Lockfiles.Load(filepath.Join(root, ".promptpack", "promptpack.lock"))
		if err != nil {
			return StatusResult{}, err
		}
		for key, entry := range lockfile.Entries {
			result.Rows = append(result.Rows, StatusRow{
				Key:         key,
				Hash:        entry.Hash,
				SourceLayer: entry.SourceLayer,
				SourceAsset: entry.SourceAsset,
				SourceFile:  entry.SourceFile,
				Overrides:   entry.Overrides,
			})
		}
	}
	sort.Slice(result.Rows, func(i, j int) bool {
		if result.Rows[i].Key.Scope != result.Rows[j].Key.Scope {
			return result.Rows[i].Key.Scope < result.Rows[j].Key.Scope
		}
		return result.Rows[i].Key.RelativePath < result.Rows[j].Key.RelativePath
	})
	return result, nil
}

// MigrateLockfile relocates a legacy lockfile to the current location.
func (s Service) MigrateLockfile(req MigrateLockfileRequest) error {
	if strings.TrimSpace(req.OldPath) == "" || strings.TrimSpace(req.NewPath) == "" {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("both old and new lockfile paths are required")
	}
	return s.Lockfiles.Migrate(req.OldPath, req.NewPath)
}
