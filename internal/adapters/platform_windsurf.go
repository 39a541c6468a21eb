package adapters

import (
	"promptpack/internal/ports"
	"promptpack/internal/types"
)

// NewWindsurfPlatform targets Windsurf: rules and workflows.
func NewWindsurfPlatform() ports.PlatformPort {
	return markdownPlatform{
		platform: types.PlatformWindsurf,
		root:     ".windsurf",
		kindDirs: map[types.AssetKind]string{
			types.AssetKindPolicy: "rules",
			types.AssetKindAction: "workflows",
		},
	}
}
