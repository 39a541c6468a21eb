package ports

import "promptpack/internal/types"

// AssetSourcePort loads the assets contributed by one layer directory.
// Implementations enforce the per-layer uniqueness invariant: two
// assets of the same kind with the same identifier in one layer is an
// error, never silently resolved.
type AssetSourcePort interface {
	LoadAssets(layerPath string, scope types.AssetScope) ([]types.Asset, error)
}
