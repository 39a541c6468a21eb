package core

import (
	"sort"

	"promptpack/internal/types"
)

// OrphanCandidate is one previously-written output whose source asset
// disappeared from the current merge result.
type OrphanCandidate struct {
	Key   types.OutputKey
	Entry types.LockfileEntry
}

// FindOrphans diffs the previous lockfile against the write set of the
// current run: every key present before and absent now is an orphan
// candidate. Whether a candidate is actually removed is decided by the
// orphan policy, not here. The result is sorted by (scope, path) for
// deterministic reporting.
func FindOrphans(previous types.Lockfile, writeSet map[types.OutputKey]struct{}) []OrphanCandidate {
	var orphans []OrphanCandidate
	for key, entry := range previous.Entries {
		if _, kept := writeSet[key]; kept {
			continue
		}
		orphans = append(orphans, OrphanCandidate{Key: key, Entry: entry})
	}
	sort.Slice(orphans, func(i, j int) bool {
		if orphans[i].Key.Scope != orphans[j].Key.Scope {
			return orphans[i].Key.Scope < orphans[j].Key.Scope
		}
		return orphans[i].Key.RelativePath < orphans[j].Key.RelativePath
	})
	return orphans
}
