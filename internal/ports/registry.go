package ports

import "promptpack/internal/types"

// RegistryPort mutates the shared cross-project registry. Every
// operation performs its own read-modify-write under an exclusive,
// time-bounded advisory lock.
type RegistryPort interface {
	Upsert(entry types.RegistryEntry) error
	Remove(projectPath string) error

	// Prune drops entries whose lockfile no longer exists and returns
	// the removed project paths.
	Prune() ([]string, error)

	List() ([]types.RegistryEntry, error)
}
