package app

import "promptpack/internal/types"

// CustomLayer is one additional layer between the user and project
// layers, in configured order.
type CustomLayer struct {
	Name string
	Path string
}

// DeployRequest carries the fully-resolved configuration for one
// pipeline run. Flag and config-file mechanics live in the CLI; the
// pipeline only sees plain values.
type DeployRequest struct {
	ProjectDir string

	// UserRoot is the destination root for user-scope outputs and the
	// default location of the user layer. Empty means the home
	// directory.
	UserRoot string

	UserLayerPath    string
	CustomLayers     []CustomLayer
	ProjectLayerPath string

	NoUserLayer    bool
	NoProjectLayer bool

	// Platforms restricts the enabled targets. Empty means all.
	Platforms []types.Platform

	Force       bool
	AutoConfirm bool
	DryRun      bool
	Cleanup     bool
	Register    bool
}

// DeployResult is the run report. Counts are always populated, even on
// partial success.
type DeployResult struct {
	AssetCount int
	Overrides  []types.OverrideRecord

	Written   int
	Unchanged int

	SkippedConflicts []string
	OrphansRemoved   []string
	OrphansSkipped   []string
	Warnings         []string

	DryRun bool
}

type ValidateRequest struct {
	ProjectDir       string
	UserRoot         string
	UserLayerPath    string
	CustomLayers     []CustomLayer
	ProjectLayerPath string
	NoUserLayer      bool
	NoProjectLayer   bool
	Platforms        []types.Platform
}

type ValidateResult struct {
	AssetCount  int
	Overrides   []types.OverrideRecord
	Diagnostics []types.Diagnostic
	Warnings    []string
}

type StatusRequest struct {
	ProjectDir string
	UserRoot   string
}

// StatusRow reports the provenance of one tracked output.
type StatusRow struct {
	Key         types.OutputKey
	Hash        string
	SourceLayer string
	SourceAsset string
	SourceFile  string
	Overrides   string
}

type StatusResult struct {
	Rows []StatusRow
}

type MigrateLockfileRequest struct {
	OldPath string
	NewPath string
}

type RegistryListResult struct {
	Entries []types.RegistryEntry
}

type RegistryPruneResult struct {
	Removed []string
}

type WatchRequest struct {
	Deploy   DeployRequest
	Debounce int // milliseconds, 0 means default
}
