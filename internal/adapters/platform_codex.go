package adapters

import (
	"promptpack/internal/ports"
	"promptpack/internal/types"
)

// NewCodexPlatform targets Codex. Codex has no agent concept; agent
// assets compile to nothing here.
func NewCodexPlatform() ports.PlatformPort {
	return markdownPlatform{
		platform: types.PlatformCodex,
		root:     ".codex",
		kindDirs: map[types.AssetKind]string{
			types.AssetKindPolicy: "policies",
			types.AssetKindAction: "prompts",
			types.AssetKindSkill:  "skills",
		},
	}
}
