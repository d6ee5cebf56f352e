package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/wdm0006/datasweeper/internal/app"
)

func newServeCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP service",
		Long:  "Serves the file pipeline over HTTP. Settings come from --config and DATASWEEPER_* environment variables.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := app.New(configPath)
			if err != nil {
				return err
			}

			<-a.Start()

			ctx, cancel := context.WithTimeout(context.Background(), a.ShutdownTimeout())
			defer cancel()
			a.Stop(ctx)
			return a.Err()
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "Path to a config file (yaml, json or toml)")

	return cmd
}
