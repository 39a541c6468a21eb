package app

import (
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
)

// RegistryList returns every project recorded in the shared registry.
func (s Service) RegistryList() (RegistryListResult, error) {
	entries, err := s.Registry.List()
	if err != nil {
		return RegistryListResult{}, err
	}
	return RegistryListResult{Entries: entries}, nil
}

// RegistryRemove drops one project from the shared registry.
func (s Service) RegistryRemove(projectPath string) error {
	projectPath = strings.TrimSpace(projectPath)
	if projectPath == "" {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("project path is required")
	}
	return s.Registry.Remove(projectPath)
}

// RegistryPrune drops registry entries whose lockfile no longer exists
// on disk.
func (s Service) RegistryPrune() (RegistryPruneResult, error) {
	removed, err := s.Registry.Prune()
	if err != nil {
		return RegistryPruneResult{}, err
	}
	return RegistryPruneResult{Removed: removed}, nil
}
