package adapters

import (
	"promptpack/internal/ports"
	"promptpack/internal/types"
)

// NewCursorPlatform targets Cursor: rules and commands only.
func NewCursorPlatform() ports.PlatformPort {
	return markdownPlatform{
		platform: types.PlatformCursor,
		root:     ".cursor",
		kindDirs: map[types.AssetKind]string{
			types.AssetKindPolicy: "rules",
			types.AssetKindAction: "commands",
		},
	}
}
