package ports

import "promptpack/internal/types"

// PlatformPort compiles merged assets into platform-specific output
// files. One implementation exists per supported target.
//
// An adapter that does not handle a given asset kind returns an empty
// slice, not an error: a platform/kind mismatch is expected. The
// orchestrator separately treats "every enabled platform rejected this
// asset" as fatal.
type PlatformPort interface {
	Platform() types.Platform
	Compile(merged types.MergedAsset) ([]types.OutputFile, error)
}

// PlatformValidatorPort is implemented by adapters that can lint an
// asset before compilation.
type PlatformValidatorPort interface {
	Validate(asset types.Asset) []types.Diagnostic
}

// PlatformBinaryPort is implemented by adapters that emit opaque
// binary outputs for skill supplemental files.
type PlatformBinaryPort interface {
	CompileBinary(merged types.MergedAsset) ([]types.OutputFile, error)
}
