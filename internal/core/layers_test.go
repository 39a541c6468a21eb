package core

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"promptpack/internal/types"
)

func TestResolveOrdersLayersLowToHigh(t *testing.T) {
	root := t.TempDir()
	for _, name := range []string{"user", "team", "project"} {
		require.NoError(t, os.MkdirAll(filepath.Join(root, name), 0755))
	}

	resolution, err := NewLayerResolver().Resolve(context.Background(), []LayerCandidate{
		{Name: "user", Kind: types.LayerKindUser, Path: filepath.Join(root, "user")},
		{Name: "team", Kind: types.LayerKindCustom, Path: filepath.Join(root, "team")},
		{Name: "project", Kind: types.LayerKindProject, Path: filepath.Join(root, "project")},
	})
	require.NoError(t, err)
	require.Len(t, resolution.Layers, 3)
	assert.Equal(t, "user", resolution.Layers[0].Name)
	assert.Equal(t, "team", resolution.Layers[1].Name)
	assert.Equal(t, "project", resolution.Layers[2].Name)
	assert.Empty(t, resolution.Warnings)
}

func TestResolveMissingUserLayerIsSilent(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "project"), 0755))

	resolution, err := NewLayerResolver().Resolve(context.Background(), []LayerCandidate{
		{Name: "user", Kind: types.LayerKindUser, Path: filepath.Join(root, "does-not-exist")},
		{Name: "project", Kind: types.LayerKindProject, Path: filepath.Join(root, "project")},
	})
	require.NoError(t, err)
	require.Len(t, resolution.Layers, 1)
	assert.Equal(t, "project", resolution.Layers[0].Name)
	assert.Empty(t, resolution.Warnings)
}

func TestResolveMissingCustomLayerWarns(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "project"), 0755))

	resolution, err := NewLayerResolver().Resolve(context.Background(), []LayerCandidate{
		{Name: "team", Kind: types.LayerKindCustom, Path: filepath.Join(root, "gone")},
		{Name: "project", Kind: types.LayerKindProject, Path: filepath.Join(root, "project")},
	})
	require.NoError(t, err)
	require.Len(t, resolution.Layers, 1)
	require.Len(t, resolution.Warnings, 1)
	assert.Contains(t, resolution.Warnings[0], `custom layer "team" not found`)
}

func TestResolveDisabledCandidateSkippedSilently(t *testing.T) {
	root := t.TempDir()
	for _, name := range []string{"user", "project"} {
		require.NoError(t, os.MkdirAll(filepath.Join(root, name), 0755))
	}

	resolution, err := NewLayerResolver().Resolve(context.Background(), []LayerCandidate{
		{Name: "user", Kind: types.LayerKindUser, Path: filepath.Join(root, "user"), Disabled: true},
		{Name: "project", Kind: types.LayerKindProject, Path: filepath.Join(root, "project")},
	})
	require.NoError(t, err)
	require.Len(t, resolution.Layers, 1)
	assert.Equal(t, "project", resolution.Layers[0].Name)
	assert.Empty(t, resolution.Warnings)
}

func TestResolveNoLayersIsFatal(t *testing.T) {
	root := t.TempDir()

	_, err := NewLayerResolver().Resolve(context.Background(), []LayerCandidate{
		{Name: "user", Kind: types.LayerKindUser, Path: filepath.Join(root, "a")},
		{Name: "project", Kind: types.LayerKindProject, Path: filepath.Join(root, "b")},
	})
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeNotFound, errbuilder.CodeOf(err))
}

func TestResolveFollowsSymlinkChain(t *testing.T) {
	root := t.TempDir()
	target := filepath.Join(root, "real")
	require.NoError(t, os.MkdirAll(target, 0755))
	link := filepath.Join(root, "link")
	require.NoError(t, os.Symlink("real", link))

	resolution, err := NewLayerResolver().Resolve(context.Background(), []LayerCandidate{
		{Name: "project", Kind: types.LayerKindProject, Path: link},
	})
	require.NoError(t, err)
	require.Len(t, resolution.Layers, 1)
	assert.Equal(t, link, resolution.Layers[0].DeclaredPath)
	assert.Equal(t, target, resolution.Layers[0].ResolvedPath)
}

func TestResolveCircularSymlinkIsFatal(t *testing.T) {
	root := t.TempDir()
	linkA := filepath.Join(root, "a")
	linkB := filepath.Join(root, "b")
	require.NoError(t, os.Symlink(linkB, linkA))
	require.NoError(t, os.Symlink(linkA, linkB))

	_, err := NewLayerResolver().Resolve(context.Background(), []LayerCandidate{
		{Name: "project", Kind: types.LayerKindProject, Path: linkA},
	})
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeFailedPrecondition, errbuilder.CodeOf(err))
	assert.Contains(t, err.Error(), "circular symlink")
}

func TestResolveDanglingSymlinkTreatedAsMissing(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "project"), 0755))
	dangling := filepath.Join(root, "dangling")
	require.NoError(t, os.Symlink(filepath.Join(root, "nowhere"), dangling))

	resolution, err := NewLayerResolver().Resolve(context.Background(), []LayerCandidate{
		{Name: "team", Kind: types.LayerKindCustom, Path: dangling},
		{Name: "project", Kind: types.LayerKindProject, Path: filepath.Join(root, "project")},
	})
	require.NoError(t, err)
	require.Len(t, resolution.Layers, 1)
	require.Len(t, resolution.Warnings, 1)
}
