package core

import (
	"context"
	"testing"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"promptpack/internal/types"
)

func mergedItem(asset types.Asset) types.MergedAsset {
	return types.MergedAsset{Asset: asset, WinningLayerName: "project"}
}

func TestValidateMergedAcceptsWellFormedAssets(t *testing.T) {
	err := ValidateMerged(context.Background(), []types.MergedAsset{
		mergedItem(policyAsset("style", "be nice")),
		mergedItem(types.Asset{
			Identifier:   "review",
			Kind:         types.AssetKindSkill,
			Body:         []byte("# review"),
			Supplemental: map[string][]byte{"checklist.md": []byte("- item")},
		}),
	})
	assert.NoError(t, err)
}

func TestValidateMergedRejectsEmptyBody(t *testing.T) {
	err := ValidateMerged(context.Background(), []types.MergedAsset{
		mergedItem(policyAsset("style", "")),
	})
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeInvalidArgument, errbuilder.CodeOf(err))
	assert.Contains(t, err.Error(), "is empty")
}

func TestValidateMergedRejectsSupplementalsOnNonSkill(t *testing.T) {
	asset := policyAsset("style", "body")
	asset.Supplemental = map[string][]byte{"extra.md": []byte("x")}

	err := ValidateMerged(context.Background(), []types.MergedAsset{mergedItem(asset)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a skill")
}
