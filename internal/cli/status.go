package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"promptpack/internal/app"
)

type statusOptions struct {
	ProjectDir string
}

func newStatusCommand() *cobra.Command {
	opts := statusOptions{}
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show provenance of every tracked output",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runStatus(cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.ProjectDir, "project", ".", "Project directory")
	_ = viper.BindPFlag("project", cmd.Flags().Lookup("project"))
	return cmd
}

func runStatus(cmd *cobra.Command, opts statusOptions) error {
	service := newAppService()
	result, err := service.Status(app.StatusRequest{
		ProjectDir: resolveString(cmd, opts.ProjectDir, "project", "project"),
		UserRoot:   userHome(),
	})
	if err != nil {
		return err
	}
	if len(result.Rows) == 0 {
		fmt.Println("no tracked outputs")
		return nil
	}
	for _, row := range result.Rows {
		line := fmt.Sprintf("%s:%s  layer=%s asset=%s", row.Key.Scope, row.Key.RelativePath, row.SourceLayer, row.SourceAsset)
		if row.Overrides != "" {
			line += fmt.Sprintf(" overrides=%s", row.Overrides)
		}
		fmt.Println(line)
	}
	return nil
}
