package types

// LockfileSchemaVersion is the current on-disk schema. Readers accept
// any version up to and including this one; newer versions are a fatal
// load error.
const LockfileSchemaVersion = 2

// UnknownProvenance fills provenance fields that a legacy lockfile
// did not record. It is an explicit sentinel, never an error.
const UnknownProvenance = "unknown"

// OutputKey identifies one tracked output across runs.
type OutputKey struct {
	Scope        AssetScope
	RelativePath string
}

// LockfileEntry records the content hash and provenance of one written
// output. For skills the entry covers the whole folder: Hash combines
// every constituent file and IsSkillFolder marks the folder as the
// unit of change detection and deletion.
//
// Provenance fields (SourceLayer, SourceLayerPath, SourceAsset,
// SourceFile, Overrides) exist for auditability only and never
// influence merge or orphan decisions.
type LockfileEntry struct {
	Hash string `toml:"hash"`

	SourceLayer     string `toml:"source_layer"`
	SourceLayerPath string `toml:"source_layer_path"`
	SourceAsset     string `toml:"source_asset"`
	SourceFile      string `toml:"source_file"`

	// Overrides names the layer this asset displaced, if any.
	Overrides string `toml:"overrides,omitempty"`

	IsBinary      bool `toml:"is_binary,omitempty"`
	IsSkillFolder bool `toml:"is_skill_folder,omitempty"`
}

// Lockfile is the persisted ledger mapping output identity to content
// hash and provenance. A missing file loads as an empty lockfile.
type Lockfile struct {
	SchemaVersion int
	Entries       map[OutputKey]LockfileEntry
}

// NewLockfile returns an empty lockfile at the current schema version.
func NewLockfile() Lockfile {
	return Lockfile{
		SchemaVersion: LockfileSchemaVersion,
		Entries:       map[OutputKey]LockfileEntry{},
	}
}

// Clone returns a deep copy. The orchestrator mutates the copy and
// only persists it after all writes for the run have succeeded.
func (l Lockfile) Clone() Lockfile {
	entries := make(map[OutputKey]LockfileEntry, len(l.Entries))
	for key, entry := range l.Entries {
		entries[key] = entry
	}
	return Lockfile{SchemaVersion: l.SchemaVersion, Entries: entries}
}
