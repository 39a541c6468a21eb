package ports

import "promptpack/internal/types"

// LockfileStorePort loads and persists the per-project ledger.
//
// Load never fails on a missing file (empty lockfile) and fills
// provenance gaps in legacy data with types.UnknownProvenance. A
// schema version newer than the reader understands is an error.
type LockfileStorePort interface {
	Load(path string) (types.Lockfile, error)
	Save(lockfile types.Lockfile, path string) error

	// Migrate relocates a legacy lockfile. The old file is deleted
	// only after the new one is durably written.
	Migrate(oldPath, newPath string) error
}
