package adapters

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"gopkg.in/yaml.v3"

	"promptpack/internal/ports"
	"promptpack/internal/types"
)

// Layer directory layout. Single-file kinds live as Markdown files in
// a per-kind subdirectory; skills are one folder per skill with a
// SKILL.md entry file plus any supplemental files.
const (
	policiesDir = "policies"
	actionsDir  = "actions"
	agentsDir   = "agents"
	skillsDir   = "skills"

	skillEntryFile = "SKILL.md"
)

// assetFrontMatter is the optional YAML front matter at the top of an
// asset file, delimited by "---" lines.
type assetFrontMatter struct {
	Name         string   `yaml:"name,omitempty"`
	Description  string   `yaml:"description,omitempty"`
	Targets      []string `yaml:"targets,omitempty"`
	Scope        string   `yaml:"scope,omitempty"`
	AllowedTools []string `yaml:"allowed-tools,omitempty"`
}

// AssetDirAdapter loads assets from one layer directory.
type AssetDirAdapter struct{}

func NewAssetDirAdapter() AssetDirAdapter {
	return AssetDirAdapter{}
}

// LoadAssets walks the per-kind subdirectories of layerPath. The
// identifier is the file name (without extension) or the skill folder
// name, unless the front matter carries an explicit name; two assets
// of the same kind sharing an identifier within this layer is a fatal
// error. Assets default to defaultScope unless their
// front matter says otherwise.
func (a AssetDirAdapter) LoadAssets(layerPath string, defaultScope types.AssetScope) ([]types.Asset, error) {
	var assets []types.Asset

	singleFileKinds := []struct {
		dir  string
		kind types.AssetKind
	}{
		{policiesDir, types.AssetKindPolicy},
		{actionsDir, types.AssetKindAction},
		{agentsDir, types.AssetKindAgent},
	}
	for _, entry := range singleFileKinds {
		loaded, err := a.loadSingleFileAssets(filepath.Join(layerPath, entry.dir), entry.kind, defaultScope)
		if err != nil {
			return nil, err
		}
		assets = append(assets, loaded...)
	}

	skills, err := a.loadSkillAssets(filepath.Join(layerPath, skillsDir), defaultScope)
	if err != nil {
		return nil, err
	}
	assets = append(assets, skills...)

	if err := checkDuplicates(assets); err != nil {
		return nil, err
	}
	return assets, nil
}

func (a AssetDirAdapter) loadSingleFileAssets(dir string, kind types.AssetKind, defaultScope types.AssetScope) ([]types.Asset, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, readDirError(dir, err)
	}
	var assets []types.Asset
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, readFileError(path, err)
		}
		asset, err := buildAsset(kind, strings.TrimSuffix(entry.Name(), ".md"), path, content, defaultScope)
		if err != nil {
			return nil, err
		}
		assets = append(assets, asset)
	}
	sort.Slice(assets, func(i, j int) bool { return assets[i].Identifier < assets[j].Identifier })
	return assets, nil
}

func (a AssetDirAdapter) loadSkillAssets(dir string, defaultScope types.AssetScope) ([]types.Asset, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, readDirError(dir, err)
	}
	var assets []types.Asset
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		skillDir := filepath.Join(dir, entry.Name())
		entryPath := filepath.Join(skillDir, skillEntryFile)
		body, err := os.ReadFile(entryPath)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, errbuilder.New().
					WithCode(errbuilder.CodeInvalidArgument).
					WithMsg(fmt.Sprintf("skill folder %s has no %s", skillDir, skillEntryFile))
			}
			return nil, readFileError(entryPath, err)
		}
		asset, err := buildAsset(types.AssetKindSkill, entry.Name(), entryPath, body, defaultScope)
		if err != nil {
			return nil, err
		}
		asset.Supplemental, err = loadSupplemental(skillDir)
		if err != nil {
			return nil, err
		}
		assets = append(assets, asset)
	}
	sort.Slice(assets, func(i, j int) bool { return assets[i].Identifier < assets[j].Identifier })
	return assets, nil
}

func loadSupplemental(skillDir string) (map[string][]byte, error) {
	supplemental := map[string][]byte{}
	err := filepath.WalkDir(skillDir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !entry.Type().IsRegular() {
			return nil
		}
		relative, relErr := filepath.Rel(skillDir, path)
		if relErr != nil {
			return relErr
		}
		relative = filepath.ToSlash(relative)
		if relative == skillEntryFile {
			return nil
		}
		if strings.ContainsAny(relative, "\n=") {
			return errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg(fmt.Sprintf("unsupported character in skill file name: %q", relative))
		}
		content, readErr := os.ReadFile(path)
		if readErr != nil {
			return readFileError(path, readErr)
		}
		supplemental[relative] = content
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(supplemental) == 0 {
		return nil, nil
	}
	return supplemental, nil
}

func buildAsset(kind types.AssetKind, identifier string, sourceFile string, content []byte, defaultScope types.AssetScope) (types.Asset, error) {
	meta, err := parseFrontMatter(content)
	if err != nil {
		return types.Asset{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("invalid front matter in %s", sourceFile)).
			WithCause(err)
	}
	if name := strings.TrimSpace(meta.Name); name != "" {
		identifier = name
	}
	asset := types.Asset{
		Identifier:   identifier,
		Kind:         kind,
		Scope:        defaultScope,
		Description:  meta.Description,
		Body:         content,
		AllowedTools: meta.AllowedTools,
		SourceFile:   sourceFile,
	}
	switch strings.ToLower(strings.TrimSpace(meta.Scope)) {
	case "":
	case string(types.AssetScopeProject):
		asset.Scope = types.AssetScopeProject
	case string(types.AssetScopeUser):
		asset.Scope = types.AssetScopeUser
	default:
		return types.Asset{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("unknown scope %q in %s", meta.Scope, sourceFile))
	}
	for _, target := range meta.Targets {
		platform, err := parsePlatform(target)
		if err != nil {
			return types.Asset{}, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg(fmt.Sprintf("unknown target %q in %s", target, sourceFile))
		}
		asset.Targets = append(asset.Targets, platform)
	}
	return asset, nil
}

func parsePlatform(value string) (types.Platform, error) {
	normalized := types.Platform(strings.ToLower(strings.TrimSpace(value)))
	for _, platform := range types.AllPlatforms() {
		if platform == normalized {
			return platform, nil
		}
	}
	return "", fmt.Errorf("unknown platform: %s", value)
}

// parseFrontMatter extracts the YAML block between leading "---"
// delimiters. Content without a front matter block is valid and
// yields zero metadata.
func parseFrontMatter(content []byte) (assetFrontMatter, error) {
	meta := assetFrontMatter{}
	trimmed := bytes.TrimPrefix(content, []byte{0xEF, 0xBB, 0xBF})
	if !bytes.HasPrefix(trimmed, []byte("---\n")) && !bytes.HasPrefix(trimmed, []byte("---\r\n")) {
		return meta, nil
	}
	rest := trimmed[bytes.IndexByte(trimmed, '\n')+1:]
	end := bytes.Index(rest, []byte("\n---"))
	if end < 0 {
		return meta, fmt.Errorf("unterminated front matter block")
	}
	if err := yaml.Unmarshal(rest[:end], &meta); err != nil {
		return meta, err
	}
	return meta, nil
}

func checkDuplicates(assets []types.Asset) error {
	seen := map[types.AssetRef]string{}
	for _, asset := range assets {
		ref := types.AssetRef{Kind: asset.Kind, Identifier: asset.Identifier}
		if previous, found := seen[ref]; found {
			return errbuilder.New().
				WithCode(errbuilder.CodeAlreadyExists).
				WithMsg(fmt.Sprintf("duplicate %s identifier %q (%s and %s): rename one of them",
					asset.Kind, asset.Identifier, previous, asset.SourceFile))
		}
		seen[ref] = asset.SourceFile
	}
	return nil
}

func readDirError(dir string, err error) error {
	code := errbuilder.CodeInternal
	if os.IsPermission(err) {
		code = errbuilder.CodePermissionDenied
	}
	return errbuilder.New().
		WithCode(code).
		WithMsg(fmt.Sprintf("failed to read layer directory %s", dir)).
		WithCause(err)
}

func readFileError(path string, err error) error {
	code := errbuilder.CodeInternal
	if os.IsPermission(err) {
		code = errbuilder.CodePermissionDenied
	}
	return errbuilder.New().
		WithCode(code).
		WithMsg(fmt.Sprintf("failed to read asset file %s", path)).
		WithCause(err)
}

var _ ports.AssetSourcePort = AssetDirAdapter{}
