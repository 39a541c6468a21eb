package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newRegistryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "registry",
		Short: "Inspect and maintain the shared project registry",
	}
	cmd.AddCommand(newRegistryListCommand())
	cmd.AddCommand(newRegistryRemoveCommand())
	cmd.AddCommand(newRegistryPruneCommand())
	return cmd
}

func newRegistryListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List registered projects",
		RunE: func(_ *cobra.Command, _ []string) error {
			service := newAppService()
			result, err := service.RegistryList()
			if err != nil {
				return err
			}
			if len(result.Entries) == 0 {
				fmt.Println("no registered projects")
				return nil
			}
			for _, entry := range result.Entries {
				fmt.Printf("%s  assets=%d deployed=%s\n", entry.ProjectPath, entry.AssetCount, entry.LastDeployed)
			}
			return nil
		},
	}
}

func newRegistryRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <project-path>",
		Short: "Drop one project from the registry",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			service := newAppService()
			if err := service.RegistryRemove(args[0]); err != nil {
				return err
			}
			fmt.Printf("removed: %s\n", args[0])
			return nil
		},
	}
}

func newRegistryPruneCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "prune",
		Short: "Drop entries whose lockfile no longer exists",
		RunE: func(_ *cobra.Command, _ []string) error {
			service := newAppService()
			result, err := service.RegistryPrune()
			if err != nil {
				return err
			}
			fmt.Printf("pruned: %d entries\n", len(result.Removed))
			for _, removed := range result.Removed {
				fmt.Printf("  %s\n", removed)
			}
			return nil
		},
	}
}
