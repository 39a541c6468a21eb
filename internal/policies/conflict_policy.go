package policies

import "promptpack/internal/types"

// ResolveConflictDefault decides a conflicting write when no
// interactive prompter is available: force overwrites, everything else
// keeps the user's file and reports the skip. Overwriting hand-edited
// content silently is never the default.
func ResolveConflictDefault(force bool) types.PromptChoice {
	if force {
		return types.PromptChoiceOverwrite
	}
	return types.PromptChoiceKeep
}
