package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"promptpack/internal/app"
	"promptpack/internal/types"
)

type deployOptions struct {
	ProjectDir   string
	UserRoot     string
	UserLayer    string
	CustomLayers []string
	ProjectLayer string
	NoUser       bool
	NoProject    bool
	Platforms    []string
	Force        bool
	AutoConfirm  bool
	DryRun       bool
	NoCleanup    bool
	Register     bool
}

func newDeployCommand() *cobra.Command {
	opts := deployOptions{}
	cmd := &cobra.Command{
		Use:   "deploy",
		Short: "Compile and deploy prompt assets for the enabled platforms",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDeploy(cmd.Context(), cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.ProjectDir, "project", ".", "Project directory")
	cmd.Flags().StringVar(&opts.UserRoot, "user-root", "", "Root for user-scope outputs (default: home directory)")
	cmd.Flags().StringVar(&opts.UserLayer, "user-layer", "", "User layer directory")
	cmd.Flags().StringSliceVar(&opts.CustomLayers, "layer", nil, "Additional layer directories, in priority order")
	cmd.Flags().StringVar(&opts.ProjectLayer, "project-layer", "", "Project layer directory")
	cmd.Flags().BoolVar(&opts.NoUser, "no-user-layer", false, "Skip the user layer")
	cmd.Flags().BoolVar(&opts.NoProject, "no-project-layer", false, "Skip the project layer")
	cmd.Flags().StringSliceVar(&opts.Platforms, "platform", nil, "Enabled platforms (default: all)")
	cmd.Flags().BoolVar(&opts.Force, "force", false, "Overwrite conflicts and remove modified orphans")
	cmd.Flags().BoolVar(&opts.AutoConfirm, "yes", false, "Answer prompts with overwrite")
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "Report planned changes without writing")
	cmd.Flags().BoolVar(&opts.NoCleanup, "no-cleanup", false, "Keep orphaned outputs")
	cmd.Flags().BoolVar(&opts.Register, "register", false, "Record this project in the shared registry")

	_ = viper.BindPFlag("project", cmd.Flags().Lookup("project"))
	_ = viper.BindPFlag("user_root", cmd.Flags().Lookup("user-root"))
	_ = viper.BindPFlag("user_layer", cmd.Flags().Lookup("user-layer"))
	_ = viper.BindPFlag("layers", cmd.Flags().Lookup("layer"))
	_ = viper.BindPFlag("project_layer", cmd.Flags().Lookup("project-layer"))
	_ = viper.BindPFlag("no_user_layer", cmd.Flags().Lookup("no-user-layer"))
	_ = viper.BindPFlag("no_project_layer", cmd.Flags().Lookup("no-project-layer"))
	_ = viper.BindPFlag("platforms", cmd.Flags().Lookup("platform"))
	_ = viper.BindPFlag("force", cmd.Flags().Lookup("force"))
	_ = viper.BindPFlag("yes", cmd.Flags().Lookup("yes"))
	_ = viper.BindPFlag("dry_run", cmd.Flags().Lookup("dry-run"))
	_ = viper.BindPFlag("no_cleanup", cmd.Flags().Lookup("no-cleanup"))
	_ = viper.BindPFlag("register", cmd.Flags().Lookup("register"))

	return cmd
}

func runDeploy(ctx context.Context, cmd *cobra.Command, opts deployOptions) error {
	service := newAppService()
	req, err := buildDeployRequest(cmd, opts)
	if err != nil {
		return err
	}
	result, err := service.Deploy(ctx, req)
	printDeploySummary(result)
	return err
}

func buildDeployRequest(cmd *cobra.Command, opts deployOptions) (app.DeployRequest, error) {
	userRoot := resolveString(cmd, opts.UserRoot, "user_root", "user-root")
	if userRoot == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return app.DeployRequest{}, err
		}
		userRoot = home
	}
	platforms, err := parsePlatforms(resolveStrings(cmd, opts.Platforms, "platforms", "platform"))
	if err != nil {
		return app.DeployRequest{}, err
	}
	return app.DeployRequest{
		ProjectDir:       resolveString(cmd, opts.ProjectDir, "project", "project"),
		UserRoot:         userRoot,
		UserLayerPath:    resolveString(cmd, opts.UserLayer, "user_layer", "user-layer"),
		CustomLayers:     customLayers(resolveStrings(cmd, opts.CustomLayers, "layers", "layer")),
		ProjectLayerPath: resolveString(cmd, opts.ProjectLayer, "project_layer", "project-layer"),
		NoUserLayer:      resolveBool(cmd, opts.NoUser, "no_user_layer", "no-user-layer"),
		NoProjectLayer:   resolveBool(cmd, opts.NoProject, "no_project_layer", "no-project-layer"),
		Platforms:        platforms,
		Force:            resolveBool(cmd, opts.Force, "force", "force"),
		AutoConfirm:      resolveBool(cmd, opts.AutoConfirm, "yes", "yes"),
		DryRun:           resolveBool(cmd, opts.DryRun, "dry_run", "dry-run"),
		Cleanup:          !resolveBool(cmd, opts.NoCleanup, "no_cleanup", "no-cleanup"),
		Register:         resolveBool(cmd, opts.Register, "register", "register"),
	}, nil
}

func customLayers(paths []string) []app.CustomLayer {
	layers := make([]app.CustomLayer, 0, len(paths))
	for _, path := range paths {
		layers = append(layers, app.CustomLayer{Path: path})
	}
	return layers
}

func parsePlatforms(values []string) ([]types.Platform, error) {
	var platforms []types.Platform
	for _, value := range values {
		found := false
		for _, platform := range types.AllPlatforms() {
			if string(platform) == value {
				platforms = append(platforms, platform)
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("unknown platform: %s", value)
		}
	}
	return platforms, nil
}

func printDeploySummary(result app.DeployResult) {
	mode := ""
	if result.DryRun {
		mode = " (dry run)"
	}
	fmt.Printf("deployed%s: %d assets, %d written, %d unchanged, %d conflicts skipped, %d orphans removed\n",
		mode, result.AssetCount, result.Written, result.Unchanged,
		len(result.SkippedConflicts), len(result.OrphansRemoved))
	for _, override := range result.Overrides {
		fmt.Printf("  override: %s %q now from %s (was %s)\n",
			override.Ref.Kind, override.Ref.Identifier, override.NewLayer, override.PreviousLayer)
	}
	for _, skipped := range result.SkippedConflicts {
		fmt.Printf("  conflict skipped: %s\n", skipped)
	}
	for _, warning := range result.Warnings {
		fmt.Printf("  warning: %s\n", warning)
	}
}
