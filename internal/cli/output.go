package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/wdm0006/datasweeper/internal/sweeper/usecase"
)

func getOutputFormat(cmd *cobra.Command) string {
	v, _ := cmd.Root().PersistentFlags().GetString("output")
	return v
}

func validateOutputFormat(output string) error {
	if output != "" && output != "text" && output != "json" {
		return fmt.Errorf("unsupported output format %q: use 'text' or 'json'", output)
	}
	return nil
}

// fileReport collects what happened to one input file. In text mode every
// message is also printed as it arrives; in json mode the reports are
// printed together at the end.
type fileReport struct {
	File     string            `json:"file"`
	Output   string            `json:"output,omitempty"`
	Chart    string            `json:"chart,omitempty"`
	Messages []usecase.Message `json:"messages"`
	Error    string            `json:"error,omitempty"`

	w io.Writer
}

func newFileReport(cmd *cobra.Command, path string) *fileReport {
	r := &fileReport{File: path, Messages: []usecase.Message{}}
	if getOutputFormat(cmd) != "json" {
		r.w = cmd.OutOrStdout()
	}
	return r
}

func (r *fileReport) add(msgs ...usecase.Message) {
	r.Messages = append(r.Messages, msgs...)
	if r.w != nil {
		printMessages(r.w, msgs)
	}
}

func (r *fileReport) fail(err error) error {
	r.Error = err.Error()
	return err
}

func message(level usecase.Level, format string, args ...any) usecase.Message {
	return usecase.Message{Level: level, Text: fmt.Sprintf(format, args...)}
}

func printMessages(w io.Writer, msgs []usecase.Message) {
	for _, m := range msgs {
		_, _ = fmt.Fprintf(w, "%-8s %s\n", strings.ToUpper(string(m.Level)), m.Text)
	}
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printPreview renders preview rows as a bordered table; missing cells
// show as an empty field.
func printPreview(w io.Writer, p usecase.Preview) error {
	tw := tablewriter.NewWriter(w)
	tw.SetAutoFormatHeaders(false)
	tw.SetAutoWrapText(false)
	names := make([]string, len(p.Columns))
	for i, c := range p.Columns {
		names[i] = fmt.Sprintf("%s (%s)", c.Name, c.Kind)
	}
	tw.SetHeader(names)
	for _, row := range p.Rows {
		cells := make([]string, len(row))
		for i, v := range row {
			if v != nil {
				cells[i] = fmt.Sprint(v)
			}
		}
		tw.Append(cells)
	}
	tw.Render()
	return nil
}
