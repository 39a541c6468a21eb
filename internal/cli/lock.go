package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"promptpack/internal/app"
)

type lockMigrateOptions struct {
	ProjectDir string
	From       string
	To         string
}

func newLockCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lock",
		Short: "Lockfile maintenance",
	}
	cmd.AddCommand(newLockMigrateCommand())
	return cmd
}

func newLockMigrateCommand() *cobra.Command {
	opts := lockMigrateOptions{}
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Relocate a legacy lockfile to the current location",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runLockMigrate(cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.ProjectDir, "project", ".", "Project directory")
	cmd.Flags().StringVar(&opts.From, "from", "", "Legacy lockfile path (default: <project>/.promptpack.lock)")
	cmd.Flags().StringVar(&opts.To, "to", "", "New lockfile path (default: <project>/.promptpack/promptpack.lock)")
	_ = viper.BindPFlag("project", cmd.Flags().Lookup("project"))
	return cmd
}

func runLockMigrate(cmd *cobra.Command, opts lockMigrateOptions) error {
	service := newAppService()
	project := resolveString(cmd, opts.ProjectDir, "project", "project")
	from := opts.From
	if from == "" {
		from = filepath.Join(project, ".promptpack.lock")
	}
	to := opts.To
	if to == "" {
		to = filepath.Join(project, ".promptpack", "promptpack.lock")
	}
	if err := service.MigrateLockfile(app.MigrateLockfileRequest{OldPath: from, NewPath: to}); err != nil {
		return err
	}
	fmt.Printf("migrated: %s -> %s\n", from, to)
	return nil
}
