package cli

import (
	"context"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"promptpack/internal/app"
)

type watchOptions struct {
	deployOptions
	DebounceMS int
}

func newWatchCommand() *cobra.Command {
	opts := watchOptions{}
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Deploy, then re-deploy on layer changes",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runWatch(cmd.Context(), cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.ProjectDir, "project", ".", "Project directory")
	cmd.Flags().StringVar(&opts.UserLayer, "user-layer", "", "User layer directory")
	cmd.Flags().StringSliceVar(&opts.CustomLayers, "layer", nil, "Additional layer directories, in priority order")
	cmd.Flags().StringVar(&opts.ProjectLayer, "project-layer", "", "Project layer directory")
	cmd.Flags().StringSliceVar(&opts.Platforms, "platform", nil, "Enabled platforms (default: all)")
	cmd.Flags().IntVar(&opts.DebounceMS, "debounce", 500, "Debounce window in milliseconds")
	_ = viper.BindPFlag("project", cmd.Flags().Lookup("project"))
	_ = viper.BindPFlag("user_layer", cmd.Flags().Lookup("user-layer"))
	_ = viper.BindPFlag("layers", cmd.Flags().Lookup("layer"))
	_ = viper.BindPFlag("project_layer", cmd.Flags().Lookup("project-layer"))
	_ = viper.BindPFlag("platforms", cmd.Flags().Lookup("platform"))
	_ = viper.BindPFlag("debounce", cmd.Flags().Lookup("debounce"))
	return cmd
}

func runWatch(ctx context.Context, cmd *cobra.Command, opts watchOptions) error {
	service := newAppService()
	deployReq, err := buildDeployRequest(cmd, opts.deployOptions)
	if err != nil {
		return err
	}
	return service.Watch(ctx, app.WatchRequest{
		Deploy:   deployReq,
		Debounce: resolveInt(cmd, opts.DebounceMS, "debounce", "debounce"),
	})
}

func resolveInt(cmd *cobra.Command, value int, key string, flagName string) int {
	if cmd == nil {
		return value
	}
	if flagChanged(cmd, flagName) {
		return value
	}
	return viper.GetInt(key)
}
