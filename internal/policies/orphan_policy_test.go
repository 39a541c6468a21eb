package policies

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasOwnershipMarker(t *testing.T) {
	assert.True(t, HasOwnershipMarker([]byte("body\n<!-- promptpack:managed asset:style -->\n")))
	assert.False(t, HasOwnershipMarker([]byte("user took this file over")))
}

func TestDecideOrphanRemoval(t *testing.T) {
	tests := []struct {
		name         string
		recordedHash string
		diskExists   bool
		diskHash     string
		markerIntact bool
		markerExempt bool
		force        bool
		remove       bool
		reason       string
	}{
		{
			name:         "unmodified text file with marker",
			recordedHash: "aaa", diskExists: true, diskHash: "aaa", markerIntact: true,
			remove: true, reason: "unmodified",
		},
		{
			name:         "already gone",
			recordedHash: "aaa", diskExists: false,
			remove: false, reason: "already absent",
		},
		{
			name:         "content changed since last write",
			recordedHash: "aaa", diskExists: true, diskHash: "bbb", markerIntact: true,
			remove: false, reason: "content changed",
		},
		{
			name:         "marker stripped by the user",
			recordedHash: "aaa", diskExists: true, diskHash: "aaa", markerIntact: false,
			remove: false, reason: "ownership marker missing",
		},
		{
			name:         "binary output guarded by hash alone",
			recordedHash: "aaa", diskExists: true, diskHash: "aaa", markerIntact: false, markerExempt: true,
			remove: true, reason: "unmodified",
		},
		{
			name:         "force overrides a changed file",
			recordedHash: "aaa", diskExists: true, diskHash: "bbb", force: true,
			remove: true, reason: "forced",
		},
		{
			name:         "force never resurrects a missing file",
			recordedHash: "aaa", diskExists: false, force: true,
			remove: false, reason: "already absent",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decision := DecideOrphanRemoval(tt.recordedHash, tt.diskExists, tt.diskHash, tt.markerIntact, tt.markerExempt, tt.force)
			assert.Equal(t, tt.remove, decision.Remove)
			assert.Contains(t, decision.Reason, tt.reason)
		})
	}
}
