package adapters

import (
	"promptpack/internal/ports"
	"promptpack/internal/types"
)

// AllPlatformAdapters returns one adapter per supported target,
// ordered like types.AllPlatforms.
func AllPlatformAdapters() []ports.PlatformPort {
	return []ports.PlatformPort{
		NewClaudePlatform(),
		NewCodexPlatform(),
		NewCursorPlatform(),
		NewWindsurfPlatform(),
		NewGeminiPlatform(),
		NewCopilotPlatform(),
	}
}

// PlatformAdaptersFor filters the full adapter set down to the enabled
// targets, preserving order. Empty enabled means all.
func PlatformAdaptersFor(enabled []types.Platform) []ports.PlatformPort {
	all := AllPlatformAdapters()
	if len(enabled) == 0 {
		return all
	}
	enabledSet := map[types.Platform]struct{}{}
	for _, platform := range enabled {
		enabledSet[platform] = struct{}{}
	}
	var filtered []ports.PlatformPort
	for _, adapter := range all {
		if _, ok := enabledSet[adapter.Platform()]; ok {
			filtered = append(filtered, adapter)
		}
	}
	return filtered
}
