package core

import (
	"context"
	"sort"

	"github.com/rs/zerolog/log"

	"promptpack/internal/types"
)

// MergeResult is the collapsed asset set across the full layer stack.
// Merged is sorted by (kind, identifier) so downstream stages never
// depend on map iteration order.
type MergeResult struct {
	Merged    []types.MergedAsset
	Overrides []types.OverrideRecord
}

// Merge combines assets across layers with last-writer-wins semantics
// per (kind, identifier). Layers must be ordered lowest to highest
// priority. Losing contributions are discarded whole: no field-level
// blending, so the winner is byte-for-byte the highest-priority
// layer's asset.
func Merge(ctx context.Context, layers []types.Layer) MergeResult {
	accumulator := map[types.AssetRef]types.MergedAsset{}
	result := MergeResult{}
	for _, layer := range layers {
		for _, asset := range layer.Assets {
			ref := types.AssetRef{Kind: asset.Kind, Identifier: asset.Identifier}
			merged := types.MergedAsset{
				Asset:            asset,
				WinningLayerName: layer.Name,
				WinningLayerPath: layer.ResolvedPath,
			}
			if previous, exists := accumulator[ref]; exists {
				merged.OverriddenLayerName = previous.WinningLayerName
				result.Overrides = append(result.Overrides, types.OverrideRecord{
					Ref:           ref,
					PreviousLayer: previous.WinningLayerName,
					NewLayer:      layer.Name,
				})
			}
			accumulator[ref] = merged
		}
	}

	result.Merged = make([]types.MergedAsset, 0, len(accumulator))
	for _, merged := range accumulator {
		result.Merged = append(result.Merged, merged)
	}
	sort.Slice(result.Merged, func(i, j int) bool {
		left, right := result.Merged[i].Asset, result.Merged[j].Asset
		if left.Kind != right.Kind {
			return left.Kind < right.Kind
		}
		return left.Identifier < right.Identifier
	})
	log.Ctx(ctx).Debug().
		Int("assets", len(result.Merged)).
		Int("overrides", len(result.Overrides)).
		Msg("layers merged")
	return result
}
