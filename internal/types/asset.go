package types

// Asset is one logical unit of prompt configuration loaded from a
// layer directory: a policy, action, agent, or skill.
//
// Single-file kinds carry their whole content in Body. Skills are
// directory-shaped: Body holds the entry file (SKILL.md) and
// Supplemental maps relative paths to the remaining files in the
// folder. Supplemental is empty for every other kind.
type Asset struct {
	// Identifier is unique within its kind namespace inside one layer.
	// A duplicate identifier in the same layer is a fatal load error.
	Identifier string

	Kind  AssetKind
	Scope AssetScope

	// Description is the front-matter description, used by adapters
	// that surface it and by validation diagnostics.
	Description string

	// Targets restricts which platforms this asset compiles for.
	// Empty means all enabled platforms.
	Targets []Platform

	// Body is the entry-file content (SKILL.md for skills).
	Body []byte

	// Supplemental maps relative path -> content for the extra files
	// of a skill folder. Nil for non-skill kinds.
	Supplemental map[string][]byte

	// AllowedTools is the skill front-matter tool allow-list.
	AllowedTools []string

	// SourceFile is the path the asset was loaded from, for diagnostics
	// and provenance.
	SourceFile string
}

// TargetsPlatform reports whether the asset opts into the given target.
func (a Asset) TargetsPlatform(platform Platform) bool {
	if len(a.Targets) == 0 {
		return true
	}
	for _, target := range a.Targets {
		if target == platform {
			return true
		}
	}
	return false
}

// Layer is one prioritized source directory and the assets it
// contributed. Layers are created once per run by the resolver and are
// immutable afterwards.
type Layer struct {
	Name string
	Kind LayerKind

	// DeclaredPath is the path as configured.
	DeclaredPath string

	// ResolvedPath is the symlink-canonicalized path actually read.
	ResolvedPath string

	Assets []Asset
}

// AssetRef names an asset within its layer for override bookkeeping.
type AssetRef struct {
	Kind       AssetKind
	Identifier string
}

// MergedAsset is the merge winner for one identifier across the full
// layer stack, with provenance of where it came from and what it
// displaced.
type MergedAsset struct {
	Asset Asset

	WinningLayerName string
	WinningLayerPath string

	// OverriddenLayerName is the layer whose same-identifier asset
	// lost to this one, empty when nothing was displaced.
	OverriddenLayerName string
}

// OverrideRecord is one merge displacement event.
type OverrideRecord struct {
	Ref           AssetRef
	PreviousLayer string
	NewLayer      string
}

// OutputFile is one file a platform adapter wants on disk. Ephemeral:
// produced per merged asset and target, consumed by the write step.
type OutputFile struct {
	// RelativePath is relative to the scope root for the asset's scope.
	RelativePath string

	Content  []byte
	IsBinary bool

	Platform Platform

	// OwningAsset is the identifier of the merged asset this file
	// belongs to.
	OwningAsset string
}

// Diagnostic is a non-fatal finding from an adapter's validate pass.
type Diagnostic struct {
	Asset    string
	Platform Platform
	Message  string
}
