package types

// RegistryEntry is one deployed project recorded in the shared
// cross-project registry.
type RegistryEntry struct {
	ProjectPath  string `toml:"project_path"`
	LockfilePath string `toml:"lockfile_path"`
	LastDeployed string `toml:"last_deployed"`
	AssetCount   int    `toml:"asset_count"`
}

// Registry is the shared ledger of deployed projects. It lives in one
// file outside any project and is only ever mutated under an exclusive
// advisory lock.
type Registry struct {
	SchemaVersion int             `toml:"schema_version"`
	Projects      []RegistryEntry `toml:"projects"`
}

// RegistrySchemaVersion is the current registry file schema.
const RegistrySchemaVersion = 1
