package app

import (
	"context"
	"fmt"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"promptpack/internal/core"
	"promptpack/internal/policies"
	"promptpack/internal/ports"
	"promptpack/internal/shared"
	"promptpack/internal/types"
)

// writeUnit is the unit of change detection and deletion: one output
// file, or one whole skill folder with all its constituent files.
type writeUnit struct {
	key    types.OutputKey
	folder bool

	// files maps scope-root-relative paths to content.
	files    map[string][]byte
	binaries map[string]bool

	newHash string
	entry   types.LockfileEntry
}

// Deploy runs the full pipeline: resolve layers, load assets, merge,
// compile per enabled target, classify writes, resolve conflicts,
// write, update the lockfiles, remove orphans, and optionally register
// the project. Stages run strictly in that order; any fatal error
// aborts before destructive actions.
func (s Service) Deploy(ctx context.Context, req DeployRequest) (DeployResult, error) {
	req, err := normalizeDeployRequest(req)
	if err != nil {
		return DeployResult{}, err
	}
	result := DeployResult{DryRun: req.DryRun}
	// Watch mode cancels a superseded run; stop between stages rather
	// than running a doomed pipeline to completion.
	if err := ctx.Err(); err != nil {
		return DeployResult{}, err
	}

	layers, warnings, err := s.resolveAndLoad(ctx, layerConfig{
		ProjectDir:       req.ProjectDir,
		UserLayerPath:    req.UserLayerPath,
		CustomLayers:     req.CustomLayers,
		ProjectLayerPath: req.ProjectLayerPath,
		NoUserLayer:      req.NoUserLayer,
		NoProjectLayer:   req.NoProjectLayer,
	})
	if err != nil {
		return DeployResult{}, err
	}
	result.Warnings = append(result.Warnings, warnings...)

	merge := core.Merge(ctx, layers)
	if err := core.ValidateMerged(ctx, merge.Merged); err != nil {
		return DeployResult{}, err
	}
	result.AssetCount = len(merge.Merged)
	result.Overrides = merge.Overrides

	units, err := s.compileUnits(merge.Merged, req.Platforms)
	if err != nil {
		return DeployResult{}, err
	}
	if len(units) == 0 {
		return DeployResult{}, errbuilder.New().
			WithCode(errbuilder.CodeFailedPrecondition).
			WithMsg("run produced no writable outputs: check enabled platforms and asset targets")
	}

	previous := map[types.AssetScope]types.Lockfile{}
	next := map[types.AssetScope]types.Lockfile{}
	for _, scope := range []types.AssetScope{types.AssetScopeProject, types.AssetScopeUser} {
		lockfile, err := s.Lockfiles.Load(lockfilePath(req, scope))
		if err != nil {
			return DeployResult{}, err
		}
		previous[scope] = lockfile
		next[scope] = lockfile.Clone()
	}

	var (
		applyAll   bool
		allChoice  types.PromptChoice
		writeFail  error
		writtenSet = map[types.AssetScope]map[types.OutputKey]struct{}{
			types.AssetScopeProject: {},
			types.AssetScopeUser:    {},
		}
	)
	for _, unit := range units {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		scopeRootDir := scopeRoot(req, unit.key.Scope)
		diskExists, diskHash, diskFiles, err := s.diskState(unit, scopeRootDir)
		if err != nil {
			return DeployResult{}, err
		}
		var previousEntry *types.LockfileEntry
		if entry, found := previous[unit.key.Scope].Entries[unit.key]; found {
			previousEntry = &entry
		}
		class := core.ClassifyWrite(previousEntry, diskExists, diskHash, unit.newHash)

		switch class {
		case types.WriteClassUnchanged:
			result.Unchanged++
			// Re-record provenance: the asset may have migrated to a
			// different layer while producing identical output.
			next[unit.key.Scope].Entries[unit.key] = unit.entry
			writtenSet[unit.key.Scope][unit.key] = struct{}{}
			continue
		case types.WriteClassConflict:
			choice := allChoice
			if !applyAll {
				choice, applyAll, err = s.resolveConflict(req, unit, diskFiles)
				if err != nil {
					return DeployResult{}, err
				}
				if applyAll {
					allChoice = choice
				}
			}
			if choice != types.PromptChoiceOverwrite {
				result.SkippedConflicts = append(result.SkippedConflicts, string(unit.key.Scope)+":"+unit.key.RelativePath)
				writtenSet[unit.key.Scope][unit.key] = struct{}{}
				continue
			}
		}

		if !req.DryRun {
			if err := s.writeUnitFiles(unit, scopeRootDir, diskFiles); err != nil {
				writeFail = err
				result.Warnings = append(result.Warnings,
					fmt.Sprintf("failed to write %s: %v", unit.key.RelativePath, err))
				continue
			}
		}
		result.Written++
		next[unit.key.Scope].Entries[unit.key] = unit.entry
		writtenSet[unit.key.Scope][unit.key] = struct{}{}
	}

	if req.Cleanup {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		removed, skipped, err := s.removeOrphans(ctx, req, previous, next, writtenSet)
		if err != nil {
			return DeployResult{}, err
		}
		result.OrphansRemoved = removed
		result.OrphansSkipped = skipped
		for _, orphan := range skipped {
			result.Warnings = append(result.Warnings, fmt.Sprintf("orphan kept: %s", orphan))
		}
	}

	if !req.DryRun {
		for _, scope := range []types.AssetScope{types.AssetScopeProject, types.AssetScopeUser} {
			if len(next[scope].Entries) == 0 && len(previous[scope].Entries) == 0 {
				continue
			}
			if err := s.Lockfiles.Save(next[scope], lockfilePath(req, scope)); err != nil {
				return result, err
			}
		}
	}

	if req.Register && !req.DryRun {
		entry := types.RegistryEntry{
			ProjectPath:  req.ProjectDir,
			LockfilePath: lockfilePath(req, types.AssetScopeProject),
			LastDeployed: s.Clock().UTC().Format("2006-01-02T15:04:05Z07:00"),
			AssetCount:   result.AssetCount,
		}
		if err := s.Registry.Upsert(entry); err != nil {
			// Registry trouble never fails an otherwise-successful deploy.
			result.Warnings = append(result.Warnings, fmt.Sprintf("registry update failed: %v", err))
			log.Ctx(ctx).Warn().Err(err).Msg("registry update failed")
		}
	}

	if writeFail != nil {
		return result, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("some outputs could not be written; successfully written files are recorded in the lockfile").
			WithCause(writeFail)
	}
	log.Ctx(ctx).Info().
		Int("written", result.Written).
		Int("unchanged", result.Unchanged).
		Int("conflicts", len(result.SkippedConflicts)).
		Int("orphans_removed", len(result.OrphansRemoved)).
		Msg("deploy finished")
	return result, nil
}

func normalizeDeployRequest(req DeployRequest) (DeployRequest, error) {
	req.ProjectDir = strings.TrimSpace(req.ProjectDir)
	if req.ProjectDir == "" {
		return DeployRequest{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("project directory is required")
	}
	if req.UserRoot == "" {
		return DeployRequest{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("user root directory is required")
	}
	if req.UserLayerPath == "" {
		req.UserLayerPath = filepath.Join(req.UserRoot, ".promptpack", "prompts")
	}
	if req.ProjectLayerPath == "" {
		req.ProjectLayerPath = filepath.Join(req.ProjectDir, ".promptpack", "prompts")
	}
	return req, nil
}

type layerConfig struct {
	ProjectDir       string
	UserLayerPath    string
	CustomLayers     []CustomLayer
	ProjectLayerPath string
	NoUserLayer      bool
	NoProjectLayer   bool
}

// resolveAndLoad builds the candidate list (lowest to highest
// priority), resolves it, and loads each surviving layer's assets.
func (s Service) resolveAndLoad(ctx context.Context, cfg layerConfig) ([]types.Layer, []string, error) {
	candidates := []core.LayerCandidate{{
		Name:     "user",
		Kind:     types.LayerKindUser,
		Path:     cfg.UserLayerPath,
		Disabled: cfg.NoUserLayer,
	}}
	for _, custom := range cfg.CustomLayers {
		name := custom.Name
		if name == "" {
			name = filepath.Base(custom.Path)
		}
		candidates = append(candidates, core.LayerCandidate{
			Name: name,
			Kind: types.LayerKindCustom,
			Path: custom.Path,
		})
	}
	candidates = append(candidates, core.LayerCandidate{
		Name:     "project",
		Kind:     types.LayerKindProject,
		Path:     cfg.ProjectLayerPath,
		Disabled: cfg.NoProjectLayer,
	})

	resolution, err := core.NewLayerResolver().Resolve(ctx, candidates)
	if err != nil {
		return nil, nil, err
	}
	for i := range resolution.Layers {
		assets, err := s.Assets.LoadAssets(resolution.Layers[i].ResolvedPath, types.AssetScopeProject)
		if err != nil {
			return nil, nil, err
		}
		resolution.Layers[i].Assets = assets
	}
	return resolution.Layers, resolution.Warnings, nil
}

// compileUnits runs every merged asset through every enabled platform
// adapter and groups the outputs into write units. An asset that no
// enabled platform accepts is fatal; a single platform rejecting a
// kind is expected and silent.
func (s Service) compileUnits(merged []types.MergedAsset, enabled []types.Platform) ([]writeUnit, error) {
	adapters := s.enabledPlatforms(enabled)
	var units []writeUnit
	planned := map[types.OutputKey]string{}

	for _, item := range merged {
		var outputs []types.OutputFile
		for _, adapter := range adapters {
			if !item.Asset.TargetsPlatform(adapter.Platform()) {
				continue
			}
			compiled, err := adapter.Compile(item)
			if err != nil {
				return nil, err
			}
			outputs = append(outputs, compiled...)
			if binary, ok := adapter.(ports.PlatformBinaryPort); ok {
				compiledBinary, err := binary.CompileBinary(item)
				if err != nil {
					return nil, err
				}
				outputs = append(outputs, compiledBinary...)
			}
		}
		if len(outputs) == 0 {
			return nil, errbuilder.New().
				WithCode(errbuilder.CodeFailedPrecondition).
				WithMsg(fmt.Sprintf("asset %q (%s) has no compatible target among the enabled platforms",
					item.Asset.Identifier, item.Asset.Kind))
		}
		assetUnits := buildUnits(item, outputs)
		for _, unit := range assetUnits {
			if owner, clash := planned[unit.key]; clash {
				return nil, errbuilder.New().
					WithCode(errbuilder.CodeAlreadyExists).
					WithMsg(fmt.Sprintf("output path collision at %s between assets %q and %q",
						unit.key.RelativePath, owner, item.Asset.Identifier))
			}
			planned[unit.key] = item.Asset.Identifier
		}
		units = append(units, assetUnits...)
	}
	sort.Slice(units, func(i, j int) bool {
		if units[i].key.Scope != units[j].key.Scope {
			return units[i].key.Scope < units[j].key.Scope
		}
		return units[i].key.RelativePath < units[j].key.RelativePath
	})
	return units, nil
}

func (s Service) enabledPlatforms(enabled []types.Platform) []ports.PlatformPort {
	if len(enabled) == 0 {
		return s.Platforms
	}
	enabledSet := map[types.Platform]struct{}{}
	for _, platform := range enabled {
		enabledSet[platform] = struct{}{}
	}
	var filtered []ports.PlatformPort
	for _, adapter := range s.Platforms {
		if _, ok := enabledSet[adapter.Platform()]; ok {
			filtered = append(filtered, adapter)
		}
	}
	return filtered
}

// buildUnits groups one asset's outputs: skills become one folder unit
// per platform, everything else one unit per file.
func buildUnits(item types.MergedAsset, outputs []types.OutputFile) []writeUnit {
	entry := types.LockfileEntry{
		SourceLayer:     item.WinningLayerName,
		SourceLayerPath: item.WinningLayerPath,
		SourceAsset:     item.Asset.Identifier,
		SourceFile:      item.Asset.SourceFile,
		Overrides:       item.OverriddenLayerName,
	}
	scope := item.Asset.Scope

	if item.Asset.Kind != types.AssetKindSkill {
		units := make([]writeUnit, 0, len(outputs))
		for _, output := range outputs {
			unitEntry := entry
			unitEntry.Hash = shared.HashBytes(output.Content)
			unitEntry.IsBinary = output.IsBinary
			units = append(units, writeUnit{
				key:      types.OutputKey{Scope: scope, RelativePath: output.RelativePath},
				files:    map[string][]byte{output.RelativePath: output.Content},
				binaries: map[string]bool{output.RelativePath: output.IsBinary},
				newHash:  unitEntry.Hash,
				entry:    unitEntry,
			})
		}
		return units
	}

	byPlatform := map[types.Platform][]types.OutputFile{}
	for _, output := range outputs {
		byPlatform[output.Platform] = append(byPlatform[output.Platform], output)
	}
	var units []writeUnit
	for _, platform := range types.AllPlatforms() {
		group := byPlatform[platform]
		if len(group) == 0 {
			continue
		}
		folder := commonDir(group)
		files := map[string][]byte{}
		binaries := map[string]bool{}
		inFolder := map[string][]byte{}
		for _, output := range group {
			files[output.RelativePath] = output.Content
			binaries[output.RelativePath] = output.IsBinary
			inFolder[strings.TrimPrefix(output.RelativePath, folder+"/")] = output.Content
		}
		unitEntry := entry
		unitEntry.Hash = shared.CombineFolderHash(inFolder)
		unitEntry.IsSkillFolder = true
		units = append(units, writeUnit{
			key:      types.OutputKey{Scope: scope, RelativePath: folder},
			folder:   true,
			files:    files,
			binaries: binaries,
			newHash:  unitEntry.Hash,
			entry:    unitEntry,
		})
	}
	return units
}

// commonDir returns the deepest directory containing every output in
// the group.
func commonDir(outputs []types.OutputFile) string {
	dir := path.Dir(outputs[0].RelativePath)
	for _, output := range outputs[1:] {
		for dir != "." && !strings.HasPrefix(output.RelativePath, dir+"/") {
			dir = path.Dir(dir)
		}
	}
	return dir
}

// diskState reads the current destination content of one unit: the
// single file's hash, or the combined hash of every file currently in
// the skill folder.
func (s Service) diskState(unit writeUnit, scopeRootDir string) (exists bool, hash string, diskFiles map[string][]byte, err error) {
	absolute := filepath.Join(scopeRootDir, filepath.FromSlash(unit.key.RelativePath))
	if !unit.folder {
		found, err := s.FS.Exists(absolute)
		if err != nil || !found {
			return false, "", nil, err
		}
		content, err := s.FS.Read(absolute)
		if err != nil {
			return false, "", nil, err
		}
		return true, shared.HashBytes(content), map[string][]byte{unit.key.RelativePath: content}, nil
	}

	listed, err := s.FS.ListFiles(absolute)
	if err != nil {
		return false, "", nil, err
	}
	if len(listed) == 0 {
		return false, "", nil, nil
	}
	inFolder := map[string][]byte{}
	diskFiles = map[string][]byte{}
	for _, relative := range listed {
		content, err := s.FS.Read(filepath.Join(absolute, filepath.FromSlash(relative)))
		if err != nil {
			return false, "", nil, err
		}
		inFolder[relative] = content
		diskFiles[path.Join(unit.key.RelativePath, relative)] = content
	}
	return true, shared.CombineFolderHash(inFolder), diskFiles, nil
}

// resolveConflict picks the action for one conflicting unit. Force and
// auto-confirm overwrite without asking; otherwise the prompter
// decides, and with no prompter the default is to keep the user's
// file.
func (s Service) resolveConflict(req DeployRequest, unit writeUnit, diskFiles map[string][]byte) (types.PromptChoice, bool, error) {
	if req.Force || req.AutoConfirm {
		return types.PromptChoiceOverwrite, false, nil
	}
	if s.Prompter == nil {
		return policies.ResolveConflictDefault(req.Force), false, nil
	}
	conflictPath, newContent := firstTextFile(unit)
	return s.Prompter.Ask(ports.Conflict{
		Key:         types.OutputKey{Scope: unit.key.Scope, RelativePath: conflictPath},
		DiskContent: diskFiles[conflictPath],
		NewContent:  newContent,
	})
}

func firstTextFile(unit writeUnit) (string, []byte) {
	paths := make([]string, 0, len(unit.files))
	for relative := range unit.files {
		if !unit.binaries[relative] {
			paths = append(paths, relative)
		}
	}
	if len(paths) == 0 {
		return unit.key.RelativePath, nil
	}
	sort.Strings(paths)
	return paths[0], unit.files[paths[0]]
}

// writeUnitFiles writes every file of the unit. Overwriting a skill
// folder also removes files the folder no longer contains: the folder
// is one unit.
func (s Service) writeUnitFiles(unit writeUnit, scopeRootDir string, diskFiles map[string][]byte) error {
	for relative, content := range unit.files {
		absolute := filepath.Join(scopeRootDir, filepath.FromSlash(relative))
		var err error
		if unit.binaries[relative] {
			err = s.FS.WriteBinary(absolute, content)
		} else {
			err = s.FS.Write(absolute, content)
		}
		if err != nil {
			return err
		}
	}
	if unit.folder {
		for relative := range diskFiles {
			if _, kept := unit.files[relative]; kept {
				continue
			}
			if err := s.FS.Remove(filepath.Join(scopeRootDir, filepath.FromSlash(relative))); err != nil {
				return err
			}
		}
	}
	return nil
}

// removeOrphans deletes outputs whose source assets disappeared,
// guarded by the orphan policy: matching hash and intact ownership
// marker, or an explicit force.
func (s Service) removeOrphans(
	ctx context.Context,
	req DeployRequest,
	previous map[types.AssetScope]types.Lockfile,
	next map[types.AssetScope]types.Lockfile,
	writtenSet map[types.AssetScope]map[types.OutputKey]struct{},
) (removed []string, skipped []string, err error) {
	for _, scope := range []types.AssetScope{types.AssetScopeProject, types.AssetScopeUser} {
		scopeRootDir := scopeRoot(req, scope)
		for _, orphan := range core.FindOrphans(previous[scope], writtenSet[scope]) {
			unit := writeUnit{key: orphan.Key, folder: orphan.Entry.IsSkillFolder}
			diskExists, diskHash, diskFiles, stateErr := s.diskState(unit, scopeRootDir)
			if stateErr != nil {
				return nil, nil, stateErr
			}
			markerIntact := false
			if diskExists {
				markerIntact = anyFileHasMarker(diskFiles)
			}
			markerExempt := orphan.Entry.IsBinary || orphan.Entry.IsSkillFolder
			decision := policies.DecideOrphanRemoval(
				orphan.Entry.Hash, diskExists, diskHash, markerIntact, markerExempt, req.Force)

			label := string(orphan.Key.Scope) + ":" + orphan.Key.RelativePath
			if !decision.Remove {
				if diskExists {
					skipped = append(skipped, fmt.Sprintf("%s (%s)", label, decision.Reason))
				} else {
					// Already gone: just drop the stale entry.
					delete(next[scope].Entries, orphan.Key)
				}
				continue
			}
			if !req.DryRun {
				absolute := filepath.Join(scopeRootDir, filepath.FromSlash(orphan.Key.RelativePath))
				if orphan.Entry.IsSkillFolder {
					err = s.FS.RemoveAll(absolute)
				} else {
					err = s.FS.Remove(absolute)
				}
				if err != nil {
					return nil, nil, err
				}
				delete(next[scope].Entries, orphan.Key)
			}
			removed = append(removed, label)
			log.Ctx(ctx).Debug().Str("path", label).Msg("orphan removed")
		}
	}
	return removed, skipped, nil
}

func anyFileHasMarker(files map[string][]byte) bool {
	for _, content := range files {
		if policies.HasOwnershipMarker(content) {
			return true
		}
	}
	return false
}

func scopeRoot(req DeployRequest, scope types.AssetScope) string {
	if scope == types.AssetScopeUser {
		return req.UserRoot
	}
	return req.ProjectDir
}

func lockfilePath(req DeployRequest, scope types.AssetScope) string {
	return filepath.Join(scopeRoot(req, scope), ".promptpack", "promptpack.lock")
}
