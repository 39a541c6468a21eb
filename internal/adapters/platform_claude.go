package adapters

import (
	"promptpack/internal/ports"
	"promptpack/internal/types"
)

// NewClaudePlatform targets Claude Code. The only platform supporting
// all four asset kinds, including directory-shaped skills.
func NewClaudePlatform() ports.PlatformPort {
	return markdownPlatform{
		platform: types.PlatformClaude,
		root:     ".claude",
		kindDirs: map[types.AssetKind]string{
			types.AssetKindPolicy: "policies",
			types.AssetKindAction: "commands",
			types.AssetKindAgent:  "agents",
			types.AssetKindSkill:  "skills",
		},
	}
}
