package app

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"promptpack/internal/types"
)

func TestValidateReportsDiagnosticsWithoutWriting(t *testing.T) {
	service := testService(t)
	projectDir, userRoot := t.TempDir(), t.TempDir()
	// No description, and allowed-tools on a policy: two findings per
	// enabled platform.
	writeSource(t, projectLayer(projectDir), "policies/style.md", "---\nallowed-tools: [Bash]\n---\nbody\n")

	result, err := service.Validate(context.Background(), ValidateRequest{
		ProjectDir: projectDir,
		UserRoot:   userRoot,
		Platforms:  []types.Platform{types.PlatformClaude},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, result.AssetCount)
	require.Len(t, result.Diagnostics, 2)

	assert.NoFileExists(t, filepath.Join(projectDir, ".claude", "policies", "style.md"))
	assert.NoFileExists(t, filepath.Join(projectDir, ".promptpack", "promptpack.lock"))
}

func TestValidateSurfacesMergeOverrides(t *testing.T) {
	service := testService(t)
	projectDir, userRoot := t.TempDir(), t.TempDir()
	writeSource(t, filepath.Join(userRoot, ".promptpack", "prompts"), "policies/style.md", "---\ndescription: d\n---\nuser\n")
	writeSource(t, projectLayer(projectDir), "policies/style.md", "---\ndescription: d\n---\nproject\n")

	result, err := service.Validate(context.Background(), ValidateRequest{
		ProjectDir: projectDir,
		UserRoot:   userRoot,
		Platforms:  []types.Platform{types.PlatformClaude},
	})
	require.NoError(t, err)
	require.Len(t, result.Overrides, 1)
	assert.Equal(t, "project", result.Overrides[0].NewLayer)
	assert.Empty(t, result.Diagnostics)
}

func TestValidateRequiresProjectDir(t *testing.T) {
	service := testService(t)
	_, err := service.Validate(context.Background(), ValidateRequest{UserRoot: t.TempDir()})
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeInvalidArgument, errbuilder.CodeOf(err))
}
