package cli

import (
	"context"
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/wdm0006/datasweeper/internal/sweeper/usecase"
)

func newPlotCmd(e *env) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "plot FILE",
		Short: "Write a bar chart of the first two numeric columns as SVG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			uc := e.pipeline()
			rep := newFileReport(cmd, args[0])

			err := e.plot(cmd.Context(), rep, uc, out)
			if getOutputFormat(cmd) == "json" {
				if perr := printJSON(cmd.OutOrStdout(), rep); perr != nil {
					return perr
				}
			}
			return err
		},
	}

	cmd.Flags().StringVar(&out, "out", "chart.svg", "Output SVG path")

	return cmd
}

func (e *env) plot(ctx context.Context, rep *fileReport, uc *usecase.Usecase, out string) error {
	id, err := e.ingest(ctx, rep, uc)
	if err != nil {
		return err
	}
	svg, err := uc.ChartSVG(ctx, id)
	if err != nil {
		rep.add(message(usecase.LevelWarning, "%s", err))
		return rep.fail(err)
	}
	if err := afero.WriteFile(e.fs, out, svg, 0o644); err != nil {
		return rep.fail(fmt.Errorf("write chart: %w", err))
	}
	rep.Chart = out
	rep.add(message(usecase.LevelSuccess, "Chart saved to %s", out))
	return nil
}
