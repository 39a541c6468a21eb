package adapters

import (
	"bytes"
	"fmt"
	"path"
	"sort"
	"strings"

	"promptpack/internal/policies"
	"promptpack/internal/ports"
	"promptpack/internal/types"
)

// markdownPlatform is the shared implementation behind the per-target
// adapters. Each target is a root directory plus a mapping from asset
// kind to output subdirectory; a kind absent from the mapping is
// unsupported on that target and compiles to nothing.
type markdownPlatform struct {
	platform types.Platform
	root     string
	kindDirs map[types.AssetKind]string
}

func (p markdownPlatform) Platform() types.Platform {
	return p.platform
}

// Compile emits the text outputs for one merged asset: a single
// Markdown file for policies, actions and agents, or the SKILL.md
// entry plus all text supplementals for a skill. Every text output
// carries the embedded ownership marker. Unsupported kinds yield an
// empty list, never an error.
func (p markdownPlatform) Compile(merged types.MergedAsset) ([]types.OutputFile, error) {
	asset := merged.Asset
	subdir, supported := p.kindDirs[asset.Kind]
	if !supported {
		return nil, nil
	}
	if asset.Kind != types.AssetKindSkill {
		return []types.OutputFile{{
			RelativePath: path.Join(p.root, subdir, asset.Identifier+".md"),
			Content:      withMarker(asset.Body, asset.Identifier),
			Platform:     p.platform,
			OwningAsset:  asset.Identifier,
		}}, nil
	}

	folder := path.Join(p.root, subdir, asset.Identifier)
	outputs := []types.OutputFile{{
		RelativePath: path.Join(folder, skillEntryFile),
		Content:      withMarker(asset.Body, asset.Identifier),
		Platform:     p.platform,
		OwningAsset:  asset.Identifier,
	}}
	for _, relative := range sortedPaths(asset.Supplemental) {
		content := asset.Supplemental[relative]
		if isBinaryContent(content) {
			continue
		}
		outputs = append(outputs, types.OutputFile{
			RelativePath: path.Join(folder, relative),
			Content:      content,
			Platform:     p.platform,
			OwningAsset:  asset.Identifier,
		})
	}
	return outputs, nil
}

// CompileBinary emits the opaque supplemental files of a skill.
// Binary outputs carry no marker and are guarded by hash alone.
func (p markdownPlatform) CompileBinary(merged types.MergedAsset) ([]types.OutputFile, error) {
	asset := merged.Asset
	subdir, supported := p.kindDirs[asset.Kind]
	if !supported || asset.Kind != types.AssetKindSkill {
		return nil, nil
	}
	folder := path.Join(p.root, subdir, asset.Identifier)
	var outputs []types.OutputFile
	for _, relative := range sortedPaths(asset.Supplemental) {
		content := asset.Supplemental[relative]
		if !isBinaryContent(content) {
			continue
		}
		outputs = append(outputs, types.OutputFile{
			RelativePath: path.Join(folder, relative),
			Content:      content,
			IsBinary:     true,
			Platform:     p.platform,
			OwningAsset:  asset.Identifier,
		})
	}
	return outputs, nil
}

// Validate lints an asset without compiling it.
func (p markdownPlatform) Validate(asset types.Asset) []types.Diagnostic {
	if _, supported := p.kindDirs[asset.Kind]; !supported {
		return nil
	}
	var diagnostics []types.Diagnostic
	if strings.TrimSpace(asset.Description) == "" {
		diagnostics = append(diagnostics, types.Diagnostic{
			Asset:    asset.Identifier,
			Platform: p.platform,
			Message:  "missing description in front matter",
		})
	}
	if asset.Kind != types.AssetKindSkill && len(asset.AllowedTools) > 0 {
		diagnostics = append(diagnostics, types.Diagnostic{
			Asset:    asset.Identifier,
			Platform: p.platform,
			Message:  fmt.Sprintf("allowed-tools has no effect on %s assets", asset.Kind),
		})
	}
	return diagnostics
}

// withMarker appends the ownership marker as an HTML comment, which
// every supported platform treats as inert Markdown.
func withMarker(body []byte, identifier string) []byte {
	marker := fmt.Sprintf("\n<!-- %s asset:%s -->\n", policies.OwnershipMarker, identifier)
	content := bytes.TrimRight(body, "\n")
	return append(append([]byte{}, content...), marker...)
}

func isBinaryContent(content []byte) bool {
	return bytes.IndexByte(content, 0) >= 0
}

func sortedPaths(files map[string][]byte) []string {
	paths := make([]string, 0, len(files))
	for relative := range files {
		paths = append(paths, relative)
	}
	sort.Strings(paths)
	return paths
}

var (
	_ ports.PlatformPort          = markdownPlatform{}
	_ ports.PlatformBinaryPort    = markdownPlatform{}
	_ ports.PlatformValidatorPort = markdownPlatform{}
)
