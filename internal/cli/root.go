// Package cli implements the datasweeper command line.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/wdm0006/datasweeper/internal/pkg/pkglog"
	"github.com/wdm0006/datasweeper/internal/pkg/pkguid"
	"github.com/wdm0006/datasweeper/internal/session"
	"github.com/wdm0006/datasweeper/internal/sweeper/usecase"
)

var (
	version = "dev"
	commit  = "none"
)

// Execute runs the CLI and returns the process exit code.
func Execute() int {
	rootCmd := newRootCmd(afero.NewOsFs())
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// env is what every batch command shares.
type env struct {
	fs afero.Fs
}

// pipeline returns a use case backed by a private in-memory store, so each
// command invocation walks files through the same state machine the server
// uses.
func (e *env) pipeline() *usecase.Usecase {
	return usecase.New(usecase.Dependency{
		Store: session.NewStore(0),
		ID:    pkguid.NewUUID(),
		Parse: usecase.DefaultParseOptions(),
		TopK:  3,
	})
}

func newRootCmd(fs afero.Fs) *cobra.Command {
	var (
		logLevel string
		output   string
	)
	e := &env{fs: fs}

	rootCmd := &cobra.Command{
		Use:           "datasweeper",
		Short:         "Clean, chart and convert CSV and Excel files",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			pkglog.InitCLILogging(cmd.ErrOrStderr(), pkglog.ParseLevel(logLevel))
			return validateOutputFormat(output)
		},
	}

	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVarP(&output, "output", "o", "text", "Output format (text, json)")

	rootCmd.AddCommand(
		newServeCmd(),
		newConvertCmd(e),
		newInspectCmd(e),
		newPlotCmd(e),
		newBenchCmd(),
		newVersionCmd(),
	)
	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "datasweeper version %s (commit: %s)\n", version, commit)
			return nil
		},
	}
}
