package policies

import (
	"bytes"
	"fmt"
)

// OwnershipMarker is embedded in every generated text output. A file
// that lost its marker was taken over by the user and is no longer
// ours to delete.
const OwnershipMarker = "promptpack:managed"

// HasOwnershipMarker reports whether generated content still carries
// the embedded marker.
func HasOwnershipMarker(content []byte) bool {
	return bytes.Contains(content, []byte(OwnershipMarker))
}

// OrphanDecision is the outcome of applying the removal policy to one
// orphan candidate.
type OrphanDecision struct {
	Remove bool
	Reason string
}

// DecideOrphanRemoval applies the safety policy for deleting an
// orphaned output: the on-disk hash must still match the hash recorded
// at last write, and text files must still carry the ownership marker.
// Force overrides both guards. A missing file needs no removal.
//
// Binary outputs and skill folders are guarded by hash alone.
func DecideOrphanRemoval(recordedHash string, diskExists bool, diskHash string, markerIntact bool, markerExempt bool, force bool) OrphanDecision {
	if !diskExists {
		return OrphanDecision{Remove: false, Reason: "already absent"}
	}
	if force {
		return OrphanDecision{Remove: true, Reason: "forced"}
	}
	if diskHash != recordedHash {
		return OrphanDecision{
			Remove: false,
			Reason: fmt.Sprintf("content changed since last write (recorded %.12s, found %.12s)", recordedHash, diskHash),
		}
	}
	if !markerExempt && !markerIntact {
		return OrphanDecision{Remove: false, Reason: "ownership marker missing"}
	}
	return OrphanDecision{Remove: true, Reason: "unmodified"}
}
