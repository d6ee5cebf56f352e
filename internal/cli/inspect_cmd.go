package cli

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/cobra"

	"github.com/wdm0006/datasweeper/internal/sweeper/usecase"
)

func newInspectCmd(e *env) *cobra.Command {
	var rows int

	cmd := &cobra.Command{
		Use:   "inspect FILE...",
		Short: "Show file info, a preview and a column profile",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			isJSON := getOutputFormat(cmd) == "json"
			uc := e.pipeline()
			w := cmd.OutOrStdout()

			var previews []usecase.Preview
			combined := &multierror.Error{}
			for _, path := range args {
				id, err := e.ingest(cmd.Context(), newFileReport(cmd, path), uc)
				if err != nil {
					combined = multierror.Append(combined, fmt.Errorf("%s: %w", path, err))
					continue
				}
				p, err := uc.Preview(cmd.Context(), id, rows)
				if err != nil {
					combined = multierror.Append(combined, fmt.Errorf("%s: %w", path, err))
					continue
				}
				if isJSON {
					previews = append(previews, p)
					continue
				}
				if err := printPreview(w, p); err != nil {
					return err
				}
				_, _ = fmt.Fprintln(w)
				_, _ = fmt.Fprint(w, p.Profile.Text())
				_, _ = fmt.Fprintln(w)
			}

			if isJSON {
				if err := printJSON(w, previews); err != nil {
					return err
				}
			}
			return combined.ErrorOrNil()
		},
	}

	cmd.Flags().IntVar(&rows, "rows", usecase.DefaultPreviewRows, "Number of rows to preview")

	return cmd
}
