package cli

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/cobra"

	"github.com/wdm0006/datasweeper/internal/recipe"
	"github.com/wdm0006/datasweeper/internal/sweeper/usecase"
	"github.com/wdm0006/datasweeper/pkg/chart"
	"github.com/wdm0006/datasweeper/pkg/format"
	"github.com/wdm0006/datasweeper/pkg/table"
	"github.com/wdm0006/datasweeper/pkg/transform/dedupe"
	"github.com/wdm0006/datasweeper/pkg/transform/impute"
)

type convertOptions struct {
	to           string
	dedupe       bool
	fill         bool
	fillStrategy string
	fillValue    float64
	recipe       string
	out          string
	chart        bool
}

func newConvertCmd(e *env) *cobra.Command {
	var opts convertOptions

	cmd := &cobra.Command{
		Use:   "convert FILE...",
		Short: "Clean and convert files to another format",
		Long: "Processes each file in order: parse, optional cleaning, optional chart, " +
			"then conversion. A failing file does not stop the others; the command " +
			"fails if any file failed.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target, err := format.Parse(opts.to)
			if err != nil {
				return err
			}
			strategy, err := impute.ParseStrategy(opts.fillStrategy)
			if err != nil {
				return err
			}
			var rec *recipe.Recipe
			if opts.recipe != "" {
				r, err := recipe.Load(e.fs, opts.recipe)
				if err != nil {
					return err
				}
				rec = &r
			}

			uc := e.pipeline()
			w := cmd.OutOrStdout()
			combined := &multierror.Error{}
			reports := make([]*fileReport, 0, len(args))
			for _, path := range args {
				steps, err := cleaningSteps(opts, strategy, rec)
				if err != nil {
					return err
				}
				rep := newFileReport(cmd, path)
				reports = append(reports, rep)
				if err := e.convertOne(cmd.Context(), rep, uc, target, steps, opts); err != nil {
					combined = multierror.Append(combined, fmt.Errorf("%s: %w", path, rep.fail(err)))
				}
				if rep.w != nil {
					_, _ = fmt.Fprintln(w)
				}
			}
			if getOutputFormat(cmd) == "json" {
				if err := printJSON(w, reports); err != nil {
					return err
				}
			}
			return combined.ErrorOrNil()
		},
	}

	cmd.Flags().StringVar(&opts.to, "to", "", "Target format (csv, excel, parquet)")
	cmd.Flags().BoolVar(&opts.dedupe, "dedupe", false, "Remove duplicate rows")
	cmd.Flags().BoolVar(&opts.fill, "fill", false, "Fill missing numeric values")
	cmd.Flags().StringVar(&opts.fillStrategy, "fill-strategy", "mean", "Fill strategy (mean, median, constant)")
	cmd.Flags().Float64Var(&opts.fillValue, "fill-value", 0, "Value used by the constant fill strategy")
	cmd.Flags().StringVar(&opts.recipe, "recipe", "", "Cleaning recipe (.json, .yaml or .toml) applied after --dedupe and --fill")
	cmd.Flags().StringVar(&opts.out, "out", ".", "Output directory")
	cmd.Flags().BoolVar(&opts.chart, "chart", false, "Also write an SVG chart of the first two numeric columns")
	_ = cmd.MarkFlagRequired("to")

	return cmd
}

// cleaningSteps builds fresh transforms for one file: --dedupe, --fill,
// then the recipe steps.
func cleaningSteps(opts convertOptions, strategy impute.Strategy, rec *recipe.Recipe) ([]table.Transform, error) {
	var steps []table.Transform
	if opts.dedupe {
		steps = append(steps, &dedupe.RemoveDuplicates{})
	}
	if opts.fill {
		steps = append(steps, &impute.FillMissing{Strategy: strategy, Value: opts.fillValue})
	}
	if rec != nil {
		ts, err := rec.Transforms()
		if err != nil {
			return nil, err
		}
		steps = append(steps, ts...)
	}
	return steps, nil
}

func (e *env) convertOne(ctx context.Context, rep *fileReport, uc *usecase.Usecase, target format.Format, steps []table.Transform, opts convertOptions) error {
	path := rep.File
	id, err := e.ingest(ctx, rep, uc)
	if err != nil {
		return err
	}
	defer func() { _ = uc.Delete(ctx, id) }()

	if len(steps) > 0 {
		res, err := uc.Clean(ctx, id, steps...)
		if err != nil {
			rep.add(message(usecase.LevelError, "%s", err))
			return err
		}
		rep.add(res.Messages...)
	}

	if opts.chart {
		svg, err := uc.ChartSVG(ctx, id)
		switch {
		case errors.Is(err, chart.ErrInsufficientNumeric):
			rep.add(message(usecase.LevelWarning, "%s", err))
		case err != nil:
			return err
		default:
			name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)) + ".svg"
			out, err := e.writeOutput(path, opts.out, name, svg)
			if err != nil {
				return err
			}
			rep.Chart = out
			rep.add(message(usecase.LevelSuccess, "Chart saved to %s", out))
		}
	}

	conv, err := uc.Convert(ctx, id, target)
	if err != nil {
		rep.add(message(usecase.LevelError, "%s", err))
		return err
	}
	art, err := uc.Download(ctx, id)
	if err != nil {
		return err
	}
	out, err := e.writeOutput(path, opts.out, art.Filename, art.Data)
	if err != nil {
		rep.add(message(usecase.LevelError, "%s", err))
		return err
	}
	rep.Output = out
	rep.add(conv.Messages...)
	rep.add(message(usecase.LevelSuccess, "Saved %s (%d bytes)", out, art.Size()))
	return nil
}
