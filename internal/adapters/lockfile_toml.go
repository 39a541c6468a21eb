package adapters

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/pelletier/go-toml/v2"
	"github.com/rs/zerolog/log"

	"promptpack/internal/ports"
	"promptpack/internal/types"
)

// lockfileDoc is the on-disk shape of the lockfile: a versioned TOML
// document with one nested table per tracked output. Map keys encode
// the output key as "<scope>:<relative path>". Unknown keys in the
// document are ignored on load so newer writers stay readable.
type lockfileDoc struct {
	SchemaVersion int                            `toml:"schema_version"`
	Entries       map[string]types.LockfileEntry `toml:"entries"`
}

// LockfileTOMLAdapter persists the per-project ledger as TOML.
type LockfileTOMLAdapter struct{}

func NewLockfileTOMLAdapter() LockfileTOMLAdapter {
	return LockfileTOMLAdapter{}
}

// Load reads a lockfile. A missing file is an empty lockfile. Legacy
// documents (older schema versions, absent provenance keys) load with
// the explicit unknown-provenance sentinel instead of failing; only a
// schema version newer than this reader understands is an error.
func (a LockfileTOMLAdapter) Load(path string) (types.Lockfile, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return types.NewLockfile(), nil
		}
		return types.Lockfile{}, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg(fmt.Sprintf("failed to read lockfile %s", path)).
			WithCause(err)
	}
	doc := lockfileDoc{}
	if err := toml.Unmarshal(content, &doc); err != nil {
		return types.Lockfile{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("lockfile %s is not valid TOML", path)).
			WithCause(err)
	}
	if doc.SchemaVersion == 0 {
		// Pre-versioning lockfiles carried no schema_version key.
		doc.SchemaVersion = 1
	}
	if doc.SchemaVersion > types.LockfileSchemaVersion {
		return types.Lockfile{}, errbuilder.New().
			WithCode(errbuilder.CodeFailedPrecondition).
			WithMsg(fmt.Sprintf("lockfile %s has schema version %d, this build reads up to %d: upgrade promptpack",
				path, doc.SchemaVersion, types.LockfileSchemaVersion))
	}

	lockfile := types.NewLockfile()
	for rawKey, entry := range doc.Entries {
		key, err := decodeOutputKey(rawKey)
		if err != nil {
			return types.Lockfile{}, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg(fmt.Sprintf("lockfile %s has malformed entry key %q", path, rawKey)).
				WithCause(err)
		}
		lockfile.Entries[key] = fillProvenanceDefaults(entry)
	}
	return lockfile, nil
}

// Save writes the lockfile atomically with deterministically ordered
// tables.
func (a LockfileTOMLAdapter) Save(lockfile types.Lockfile, path string) error {
	doc := lockfileDoc{
		SchemaVersion: types.LockfileSchemaVersion,
		Entries:       make(map[string]types.LockfileEntry, len(lockfile.Entries)),
	}
	for key, entry := range lockfile.Entries {
		doc.Entries[encodeOutputKey(key)] = entry
	}
	content, err := toml.Marshal(doc)
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to encode lockfile").
			WithCause(err)
	}
	fs := NewLocalFSAdapter()
	return fs.Write(path, content)
}

// Migrate relocates a legacy lockfile, deleting the old file only
// after the new one is durably written. The relocation is logged so it
// never happens silently.
func (a LockfileTOMLAdapter) Migrate(oldPath, newPath string) error {
	lockfile, err := a.Load(oldPath)
	if err != nil {
		return err
	}
	if _, statErr := os.Stat(oldPath); statErr != nil {
		if os.IsNotExist(statErr) {
			return errbuilder.New().
				WithCode(errbuilder.CodeNotFound).
				WithMsg(fmt.Sprintf("no lockfile to migrate at %s", oldPath))
		}
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg(fmt.Sprintf("failed to stat %s", oldPath)).
			WithCause(statErr)
	}
	if err := a.Save(lockfile, newPath); err != nil {
		return err
	}
	if err := os.Remove(oldPath); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg(fmt.Sprintf("migrated lockfile written to %s but failed to remove %s", newPath, oldPath)).
			WithCause(err)
	}
	log.Info().Str("from", oldPath).Str("to", newPath).Msg("lockfile migrated")
	return nil
}

func encodeOutputKey(key types.OutputKey) string {
	return string(key.Scope) + ":" + filepath.ToSlash(key.RelativePath)
}

func decodeOutputKey(raw string) (types.OutputKey, error) {
	scope, path, found := strings.Cut(raw, ":")
	if !found || path == "" {
		return types.OutputKey{}, fmt.Errorf("want <scope>:<path>, got %q", raw)
	}
	switch types.AssetScope(scope) {
	case types.AssetScopeProject, types.AssetScopeUser:
	default:
		return types.OutputKey{}, fmt.Errorf("unknown scope %q", scope)
	}
	return types.OutputKey{Scope: types.AssetScope(scope), RelativePath: path}, nil
}

func fillProvenanceDefaults(entry types.LockfileEntry) types.LockfileEntry {
	if entry.SourceLayer == "" {
		entry.SourceLayer = types.UnknownProvenance
	}
	if entry.SourceLayerPath == "" {
		entry.SourceLayerPath = types.UnknownProvenance
	}
	if entry.SourceAsset == "" {
		entry.SourceAsset = types.UnknownProvenance
	}
	if entry.SourceFile == "" {
		entry.SourceFile = types.UnknownProvenance
	}
	return entry
}

var _ ports.LockfileStorePort = LockfileTOMLAdapter{}
