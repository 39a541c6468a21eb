package core

import "promptpack/internal/types"

// ClassifyWrite buckets one candidate output against the previous
// lockfile entry and the current on-disk hash.
//
// A nil previous entry is a new output. A missing destination file is
// also treated as new: the recorded file is gone and rewriting it is
// not destructive. Any disk content that no longer matches the last
// recorded hash is a conflict, even when it happens to equal the new
// content, because something other than this tool touched the file.
func ClassifyWrite(previous *types.LockfileEntry, diskExists bool, diskHash string, newHash string) types.WriteClass {
	if previous == nil || !diskExists {
		return types.WriteClassNew
	}
	if diskHash != previous.Hash {
		return types.WriteClassConflict
	}
	if newHash == previous.Hash {
		return types.WriteClassUnchanged
	}
	return types.WriteClassCleanOverwrite
}
