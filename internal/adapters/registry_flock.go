package adapters

import (
	"context"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/gofrs/flock"
	"github.com/pelletier/go-toml/v2"

	"promptpack/internal/ports"
	"promptpack/internal/types"
)

// RegistryFlockAdapter stores the shared cross-project registry as a
// TOML file. Every operation is one read-modify-write performed under
// an exclusive advisory lock on a lock file beside the registry, so
// concurrent promptpack invocations from unrelated projects serialize
// instead of corrupting the shared file.
type RegistryFlockAdapter struct {
	Path        string
	LockTimeout time.Duration
}

func NewRegistryFlockAdapter(path string) RegistryFlockAdapter {
	return RegistryFlockAdapter{
		Path:        path,
		LockTimeout: 5 * time.Second,
	}
}

func (a RegistryFlockAdapter) Upsert(entry types.RegistryEntry) error {
	return a.withLock(func(registry *types.Registry) error {
		for i := range registry.Projects {
			if registry.Projects[i].ProjectPath == entry.ProjectPath {
				registry.Projects[i] = entry
				return nil
			}
		}
		registry.Projects = append(registry.Projects, entry)
		return nil
	})
}

func (a RegistryFlockAdapter) Remove(projectPath string) error {
	return a.withLock(func(registry *types.Registry) error {
		kept := registry.Projects[:0]
		for _, entry := range registry.Projects {
			if entry.ProjectPath != projectPath {
				kept = append(kept, entry)
			}
		}
		registry.Projects = kept
		return nil
	})
}

func (a RegistryFlockAdapter) Prune() ([]string, error) {
	var removed []string
	err := a.withLock(func(registry *types.Registry) error {
		kept := registry.Projects[:0]
		for _, entry := range registry.Projects {
			if _, statErr := os.Stat(entry.LockfilePath); os.IsNotExist(statErr) {
				removed = append(removed, entry.ProjectPath)
				continue
			}
			kept = append(kept, entry)
		}
		registry.Projects = kept
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(removed)
	return removed, nil
}

func (a RegistryFlockAdapter) List() ([]types.RegistryEntry, error) {
	var entries []types.RegistryEntry
	err := a.withLock(func(registry *types.Registry) error {
		entries = append(entries, registry.Projects...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (a RegistryFlockAdapter) withLock(mutate func(registry *types.Registry) error) error {
	lock := flock.New(a.Path + ".lock")
	ctx, cancel := context.WithTimeout(context.Background(), a.lockTimeout())
	defer cancel()
	locked, err := lock.TryLockContext(ctx, 100*time.Millisecond)
	if err != nil || !locked {
		return errbuilder.New().
			WithCode(errbuilder.CodeFailedPrecondition).
			WithMsg(fmt.Sprintf("could not acquire registry lock at %s.lock", a.Path)).
			WithCause(err)
	}
	defer lock.Unlock()

	registry, err := a.read()
	if err != nil {
		return err
	}
	if err := mutate(&registry); err != nil {
		return err
	}
	return a.write(registry)
}

func (a RegistryFlockAdapter) read() (types.Registry, error) {
	content, err := os.ReadFile(a.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return types.Registry{SchemaVersion: types.RegistrySchemaVersion}, nil
		}
		return types.Registry{}, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg(fmt.Sprintf("failed to read registry %s", a.Path)).
			WithCause(err)
	}
	registry := types.Registry{}
	if err := toml.Unmarshal(content, &registry); err != nil {
		return types.Registry{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("registry %s is not valid TOML", a.Path)).
			WithCause(err)
	}
	if registry.SchemaVersion == 0 {
		registry.SchemaVersion = types.RegistrySchemaVersion
	}
	return registry, nil
}

func (a RegistryFlockAdapter) write(registry types.Registry) error {
	sort.Slice(registry.Projects, func(i, j int) bool {
		return registry.Projects[i].ProjectPath < registry.Projects[j].ProjectPath
	})
	content, err := toml.Marshal(registry)
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to encode registry").
			WithCause(err)
	}
	fs := NewLocalFSAdapter()
	return fs.Write(a.Path, content)
}

func (a RegistryFlockAdapter) lockTimeout() time.Duration {
	if a.LockTimeout <= 0 {
		return 5 * time.Second
	}
	return a.LockTimeout
}

var _ ports.RegistryPort = RegistryFlockAdapter{}
