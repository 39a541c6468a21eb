package types

type AssetKind string

const (
	AssetKindPolicy AssetKind = "policy"
	AssetKindAction AssetKind = "action"
	AssetKindAgent  AssetKind = "agent"
	AssetKindSkill  AssetKind = "skill"
)

type AssetScope string

const (
	AssetScopeProject AssetScope = "project"
	AssetScopeUser    AssetScope = "user"
)

type LayerKind string

const (
	LayerKindUser    LayerKind = "user"
	LayerKindCustom  LayerKind = "custom"
	LayerKindProject LayerKind = "project"
)

type Platform string

const (
	PlatformClaude   Platform = "claude"
	PlatformCodex    Platform = "codex"
	PlatformCursor   Platform = "cursor"
	PlatformWindsurf Platform = "windsurf"
	PlatformGemini   Platform = "gemini"
	PlatformCopilot  Platform = "copilot"
)

// AllPlatforms lists every supported target in a fixed order.
func AllPlatforms() []Platform {
	return []Platform{
		PlatformClaude,
		PlatformCodex,
		PlatformCursor,
		PlatformWindsurf,
		PlatformGemini,
		PlatformCopilot,
	}
}

// WriteClass buckets a candidate output file against the previous
// lockfile entry and the current on-disk content.
type WriteClass string

const (
	// WriteClassNew has no prior lockfile entry.
	WriteClassNew WriteClass = "new"
	// WriteClassUnchanged matches both the lockfile hash and the new hash.
	WriteClassUnchanged WriteClass = "unchanged"
	// WriteClassCleanOverwrite has untouched disk content but new output.
	WriteClassCleanOverwrite WriteClass = "clean-overwrite"
	// WriteClassConflict has disk content that diverged from the
	// last hash this tool recorded.
	WriteClassConflict WriteClass = "conflict"
)

// PromptChoice is the answer returned by the conflict prompter.
type PromptChoice string

const (
	PromptChoiceOverwrite PromptChoice = "overwrite"
	PromptChoiceKeep      PromptChoice = "keep"
	PromptChoiceShowDiff  PromptChoice = "show-diff"
	PromptChoiceAll       PromptChoice = "apply-to-all"
)
