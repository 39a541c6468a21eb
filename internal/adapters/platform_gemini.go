package adapters

import (
	"promptpack/internal/ports"
	"promptpack/internal/types"
)

// NewGeminiPlatform targets Gemini: policies and agents.
func NewGeminiPlatform() ports.PlatformPort {
	return markdownPlatform{
		platform: types.PlatformGemini,
		root:     ".gemini",
		kindDirs: map[types.AssetKind]string{
			types.AssetKindPolicy: "policies",
			types.AssetKindAgent:  "agents",
		},
	}
}
