package core

import (
	"context"
	"fmt"

	assert "github.com/ZanzyTHEbar/assert-lib"
	"github.com/ZanzyTHEbar/errbuilder-go"

	"promptpack/internal/types"
)

// ValidateMerged checks structural invariants on the merge result
// before compilation.
func ValidateMerged(ctx context.Context, merged []types.MergedAsset) error {
	for _, item := range merged {
		assert.NotEmpty(ctx, item.Asset.Identifier, "asset identifier must be set")
		assert.NotEmpty(ctx, string(item.Asset.Kind), "asset kind must be set")
		assert.NotEmpty(ctx, item.WinningLayerName, "winning layer must be set")
		if len(item.Asset.Body) == 0 {
			return errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg(fmt.Sprintf("asset %q (%s) is empty", item.Asset.Identifier, item.Asset.SourceFile))
		}
		if item.Asset.Kind != types.AssetKindSkill && len(item.Asset.Supplemental) > 0 {
			return errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg(fmt.Sprintf("asset %q is not a skill but carries supplemental files", item.Asset.Identifier))
		}
	}
	return nil
}
