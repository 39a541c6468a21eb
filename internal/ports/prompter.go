package ports

import "promptpack/internal/types"

// Conflict describes one write whose on-disk content diverged from the
// last hash recorded in the lockfile.
type Conflict struct {
	Key         types.OutputKey
	DiskContent []byte
	NewContent  []byte
}

// PrompterPort asks the user how to resolve a conflicting write.
// ApplyToAll signals that the returned choice covers every remaining
// conflict in this run.
type PrompterPort interface {
	Ask(conflict Conflict) (choice types.PromptChoice, applyToAll bool, err error)
}
