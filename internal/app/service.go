package app

import (
	"os"
	"path/filepath"
	"time"

	"promptpack/internal/adapters"
	"promptpack/internal/ports"
)

type Service struct {
	Assets    ports.AssetSourcePort
	Lockfiles ports.LockfileStorePort
	Registry  ports.RegistryPort
	FS        ports.FileSystemPort
	Prompter  ports.PrompterPort
	Platforms []ports.PlatformPort
	Clock     func() time.Time
}

func NewService() Service {
	home, _ := os.UserHomeDir()
	return Service{
		Assets:    adapters.NewAssetDirAdapter(),
		Lockfiles: adapters.NewLockfileTOMLAdapter(),
		Registry:  adapters.NewRegistryFlockAdapter(filepath.Join(home, ".promptpack", "registry.toml")),
		FS:        adapters.NewLocalFSAdapter(),
		Prompter:  adapters.NewTerminalPrompter(os.Stdin, os.Stdout),
		Platforms: adapters.AllPlatformAdapters(),
		Clock:     time.Now,
	}
}
