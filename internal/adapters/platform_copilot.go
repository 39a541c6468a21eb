package adapters

import (
	"promptpack/internal/ports"
	"promptpack/internal/types"
)

// NewCopilotPlatform targets GitHub Copilot: instruction files and
// prompt files under .github.
func NewCopilotPlatform() ports.PlatformPort {
	return markdownPlatform{
		platform: types.PlatformCopilot,
		root:     ".github",
		kindDirs: map[types.AssetKind]string{
			types.AssetKindPolicy: "instructions",
			types.AssetKindAction: "prompts",
		},
	}
}
