package adapters

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"promptpack/internal/types"
)

func writeLayerFile(t *testing.T, layer, relative, content string) {
	t.Helper()
	path := filepath.Join(layer, filepath.FromSlash(relative))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestLoadAssetsSingleFileKinds(t *testing.T) {
	layer := t.TempDir()
	writeLayerFile(t, layer, "policies/style.md", "---\ndescription: coding style\n---\nBe concise.\n")
	writeLayerFile(t, layer, "actions/release.md", "Cut a release.\n")
	writeLayerFile(t, layer, "agents/reviewer.md", "Review PRs.\n")
	writeLayerFile(t, layer, "policies/notes.txt", "ignored, not markdown")

	assets, err := NewAssetDirAdapter().LoadAssets(layer, types.AssetScopeProject)
	require.NoError(t, err)
	require.Len(t, assets, 3)

	byID := map[string]types.Asset{}
	for _, asset := range assets {
		byID[asset.Identifier] = asset
	}
	style := byID["style"]
	assert.Equal(t, types.AssetKindPolicy, style.Kind)
	assert.Equal(t, types.AssetScopeProject, style.Scope)
	assert.Equal(t, "coding style", style.Description)
	assert.Contains(t, string(style.Body), "Be concise.")
	assert.Equal(t, types.AssetKindAction, byID["release"].Kind)
	assert.Equal(t, types.AssetKindAgent, byID["reviewer"].Kind)
}

func TestLoadAssetsFrontMatterNameOverridesFilename(t *testing.T) {
	layer := t.TempDir()
	writeLayerFile(t, layer, "policies/001-style.md", "---\nname: style\n---\nbody\n")

	assets, err := NewAssetDirAdapter().LoadAssets(layer, types.AssetScopeProject)
	require.NoError(t, err)
	require.Len(t, assets, 1)
	assert.Equal(t, "style", assets[0].Identifier)
}

func TestLoadAssetsScopeAndTargets(t *testing.T) {
	layer := t.TempDir()
	writeLayerFile(t, layer, "policies/global.md", "---\nscope: user\ntargets:\n  - claude\n  - cursor\n---\nbody\n")

	assets, err := NewAssetDirAdapter().LoadAssets(layer, types.AssetScopeProject)
	require.NoError(t, err)
	require.Len(t, assets, 1)
	assert.Equal(t, types.AssetScopeUser, assets[0].Scope)
	assert.Equal(t, []types.Platform{types.PlatformClaude, types.PlatformCursor}, assets[0].Targets)
	assert.True(t, assets[0].TargetsPlatform(types.PlatformClaude))
	assert.False(t, assets[0].TargetsPlatform(types.PlatformGemini))
}

func TestLoadAssetsRejectsUnknownScope(t *testing.T) {
	layer := t.TempDir()
	writeLayerFile(t, layer, "policies/bad.md", "---\nscope: global\n---\nbody\n")

	_, err := NewAssetDirAdapter().LoadAssets(layer, types.AssetScopeProject)
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeInvalidArgument, errbuilder.CodeOf(err))
	assert.Contains(t, err.Error(), `unknown scope "global"`)
}

func TestLoadAssetsRejectsUnknownTarget(t *testing.T) {
	layer := t.TempDir()
	writeLayerFile(t, layer, "policies/bad.md", "---\ntargets: [emacs]\n---\nbody\n")

	_, err := NewAssetDirAdapter().LoadAssets(layer, types.AssetScopeProject)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown target "emacs"`)
}

func TestLoadAssetsSkillFolder(t *testing.T) {
	layer := t.TempDir()
	writeLayerFile(t, layer, "skills/code-review/SKILL.md", "---\ndescription: review code\nallowed-tools:\n  - Bash\n---\n# Review\n")
	writeLayerFile(t, layer, "skills/code-review/checklist.md", "- tests pass\n")
	writeLayerFile(t, layer, "skills/code-review/ref/guide.md", "deep file\n")

	assets, err := NewAssetDirAdapter().LoadAssets(layer, types.AssetScopeProject)
	require.NoError(t, err)
	require.Len(t, assets, 1)

	skill := assets[0]
	assert.Equal(t, "code-review", skill.Identifier)
	assert.Equal(t, types.AssetKindSkill, skill.Kind)
	assert.Equal(t, []string{"Bash"}, skill.AllowedTools)
	assert.Contains(t, string(skill.Body), "# Review")
	require.Len(t, skill.Supplemental, 2)
	assert.Equal(t, "- tests pass\n", string(skill.Supplemental["checklist.md"]))
	assert.Equal(t, "deep file\n", string(skill.Supplemental["ref/guide.md"]))
}

func TestLoadAssetsSkillWithoutEntryFileIsFatal(t *testing.T) {
	layer := t.TempDir()
	writeLayerFile(t, layer, "skills/broken/notes.md", "no entry file\n")

	_, err := NewAssetDirAdapter().LoadAssets(layer, types.AssetScopeProject)
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeInvalidArgument, errbuilder.CodeOf(err))
	assert.Contains(t, err.Error(), "has no SKILL.md")
}

func TestLoadAssetsDuplicateIdentifierIsFatal(t *testing.T) {
	layer := t.TempDir()
	writeLayerFile(t, layer, "policies/style.md", "body\n")
	writeLayerFile(t, layer, "policies/other.md", "---\nname: style\n---\nbody\n")

	_, err := NewAssetDirAdapter().LoadAssets(layer, types.AssetScopeProject)
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeAlreadyExists, errbuilder.CodeOf(err))
	assert.Contains(t, err.Error(), `duplicate policy identifier "style"`)
}

func TestLoadAssetsEmptyLayerYieldsNothing(t *testing.T) {
	assets, err := NewAssetDirAdapter().LoadAssets(t.TempDir(), types.AssetScopeProject)
	require.NoError(t, err)
	assert.Empty(t, assets)
}

func TestParseFrontMatter(t *testing.T) {
	t.Run("no front matter", func(t *testing.T) {
		meta, err := parseFrontMatter([]byte("plain body\n"))
		require.NoError(t, err)
		assert.Empty(t, meta.Description)
	})
	t.Run("bom before delimiter", func(t *testing.T) {
		content := append([]byte{0xEF, 0xBB, 0xBF}, []byte("---\ndescription: d\n---\nbody\n")...)
		meta, err := parseFrontMatter(content)
		require.NoError(t, err)
		assert.Equal(t, "d", meta.Description)
	})
	t.Run("unterminated block", func(t *testing.T) {
		_, err := parseFrontMatter([]byte("---\ndescription: d\nbody"))
		require.Error(t, err)
	})
	t.Run("invalid yaml", func(t *testing.T) {
		_, err := parseFrontMatter([]byte("---\n\t: bad\n---\nbody\n"))
		require.Error(t, err)
	})
}
