package app

import (
	"context"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"promptpack/internal/core"
	"promptpack/internal/ports"
)

// Validate resolves, loads, and merges the configured layers and runs
// every enabled adapter's lint pass, without writing anything.
func (s Service) Validate(ctx context.Context, req ValidateRequest) (ValidateResult, error) {
	if strings.TrimSpace(req.ProjectDir) == "" {
		return ValidateResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("project directory is required")
	}
	normalized, err := normalizeDeployRequest(DeployRequest{
		ProjectDir:       req.ProjectDir,
		UserRoot:         req.UserRoot,
		UserLayerPath:    req.UserLayerPath,
		CustomLayers:     req.CustomLayers,
		ProjectLayerPath: req.ProjectLayerPath,
	})
	if err != nil {
		return ValidateResult{}, err
	}

	layers, warnings, err := s.resolveAndLoad(ctx, layerConfig{
		ProjectDir:       normalized.ProjectDir,
		UserLayerPath:    normalized.UserLayerPath,
		CustomLayers:     normalized.CustomLayers,
		ProjectLayerPath: normalized.ProjectLayerPath,
		NoUserLayer:      req.NoUserLayer,
		NoProjectLayer:   req.NoProjectLayer,
	})
	if err != nil {
		return ValidateResult{}, err
	}

	merge := core.Merge(ctx, layers)
	if err := core.ValidateMerged(ctx, merge.Merged); err != nil {
		return ValidateResult{}, err
	}

	result := ValidateResult{
		AssetCount: len(merge.Merged),
		Overrides:  merge.Overrides,
		Warnings:   warnings,
	}
	for _, adapter := range s.enabledPlatforms(req.Platforms) {
		validator, ok := adapter.(ports.PlatformValidatorPort)
		if !ok {
			continue
		}
		for _, item := range merge.Merged {
			if !item.Asset.TargetsPlatform(adapter.Platform()) {
				continue
			}
			result.Diagnostics = append(result.Diagnostics, validator.Validate(item.Asset)...)
		}
	}
	return result, nil
}
