package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"promptpack/internal/app"
)

type validateOptions struct {
	ProjectDir   string
	UserLayer    string
	CustomLayers []string
	ProjectLayer string
	NoUser       bool
	NoProject    bool
	Platforms    []string
}

func newValidateCommand() *cobra.Command {
	opts := validateOptions{}
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Resolve, merge, and lint assets without writing",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runValidate(cmd.Context(), cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.ProjectDir, "project", ".", "Project directory")
	cmd.Flags().StringVar(&opts.UserLayer, "user-layer", "", "User layer directory")
	cmd.Flags().StringSliceVar(&opts.CustomLayers, "layer", nil, "Additional layer directories, in priority order")
	cmd.Flags().StringVar(&opts.ProjectLayer, "project-layer", "", "Project layer directory")
	cmd.Flags().BoolVar(&opts.NoUser, "no-user-layer", false, "Skip the user layer")
	cmd.Flags().BoolVar(&opts.NoProject, "no-project-layer", false, "Skip the project layer")
	cmd.Flags().StringSliceVar(&opts.Platforms, "platform", nil, "Enabled platforms (default: all)")
	_ = viper.BindPFlag("project", cmd.Flags().Lookup("project"))
	_ = viper.BindPFlag("user_layer", cmd.Flags().Lookup("user-layer"))
	_ = viper.BindPFlag("layers", cmd.Flags().Lookup("layer"))
	_ = viper.BindPFlag("project_layer", cmd.Flags().Lookup("project-layer"))
	_ = viper.BindPFlag("platforms", cmd.Flags().Lookup("platform"))
	return cmd
}

func runValidate(ctx context.Context, cmd *cobra.Command, opts validateOptions) error {
	service := newAppService()
	platforms, err := parsePlatforms(resolveStrings(cmd, opts.Platforms, "platforms", "platform"))
	if err != nil {
		return err
	}
	result, err := service.Validate(ctx, app.ValidateRequest{
		ProjectDir:       resolveString(cmd, opts.ProjectDir, "project", "project"),
		UserRoot:         userHome(),
		UserLayerPath:    resolveString(cmd, opts.UserLayer, "user_layer", "user-layer"),
		CustomLayers:     customLayers(resolveStrings(cmd, opts.CustomLayers, "layers", "layer")),
		ProjectLayerPath: resolveString(cmd, opts.ProjectLayer, "project_layer", "project-layer"),
		NoUserLayer:      resolveBool(cmd, opts.NoUser, "no_user_layer", "no-user-layer"),
		NoProjectLayer:   resolveBool(cmd, opts.NoProject, "no_project_layer", "no-project-layer"),
		Platforms:        platforms,
	})
	if err != nil {
		return err
	}
	fmt.Printf("validated: %d assets, %d overrides, %d diagnostics\n",
		result.AssetCount, len(result.Overrides), len(result.Diagnostics))
	for _, diagnostic := range result.Diagnostics {
		fmt.Printf("  %s/%s: %s\n", diagnostic.Platform, diagnostic.Asset, diagnostic.Message)
	}
	for _, warning := range result.Warnings {
		fmt.Printf("  warning: %s\n", warning)
	}
	return nil
}

func resolveString(cmd *cobra.Command, value string, key string, flagName string) string {
	if cmd == nil {
		if value != "" {
			return value
		}
		return viper.GetString(key)
	}
	if flagChanged(cmd, flagName) {
		return value
	}
	return viper.GetString(key)
}

func resolveStrings(cmd *cobra.Command, values []string, key string, flagName string) []string {
	if cmd == nil {
		if len(values) > 0 {
			return values
		}
		return viper.GetStringSlice(key)
	}
	if flagChanged(cmd, flagName) {
		return values
	}
	return viper.GetStringSlice(key)
}

func resolveBool(cmd *cobra.Command, value bool, key string, flagName string) bool {
	if cmd == nil {
		return value
	}
	if flagChanged(cmd, flagName) {
		return value
	}
	return viper.GetBool(key)
}

func flagChanged(cmd *cobra.Command, name string) bool {
	if cmd == nil || strings.TrimSpace(name) == "" {
		return false
	}
	if flag := cmd.Flags().Lookup(name); flag != nil {
		return flag.Changed
	}
	if flag := cmd.PersistentFlags().Lookup(name); flag != nil {
		return flag.Changed
	}
	return false
}
