// Package shared provides common utility functions used across multiple
// packages in the promptpack codebase.
package shared

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"
)

// HashBytes returns the hex sha256 digest of content.
func HashBytes(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

// CombineFolderHash derives a single deterministic hash for a
// directory-shaped asset from its files. The combination is
// order-independent: each file contributes a "path=digest" line, the
// lines are sorted lexicographically, joined with newlines, and the
// result is hashed again. Hex digests cannot contain "=" or newlines,
// and paths with newlines are rejected at load time, so the encoding
// is unambiguous.
func CombineFolderHash(files map[string][]byte) string {
	lines := make([]string, 0, len(files))
	for path, content := range files {
		lines = append(lines, path+"="+HashBytes(content))
	}
	sort.Strings(lines)
	return HashBytes([]byte(strings.Join(lines, "\n")))
}
