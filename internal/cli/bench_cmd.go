package cli

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"math/rand"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/wdm0006/datasweeper/pkg/export"
	"github.com/wdm0006/datasweeper/pkg/format"
	"github.com/wdm0006/datasweeper/pkg/io/csvio"
	"github.com/wdm0006/datasweeper/pkg/table"
	"github.com/wdm0006/datasweeper/pkg/transform/dedupe"
	"github.com/wdm0006/datasweeper/pkg/transform/impute"
	"github.com/wdm0006/datasweeper/pkg/transform/standardize"
)

type benchOptions struct {
	rows      int
	numCols   int
	textCols  int
	missing   float64
	duplicate float64
	seed      int64
	to        []string
}

type benchStage struct {
	Name      string  `json:"name"`
	ElapsedMS float64 `json:"elapsed_ms"`
	Changes   int     `json:"changes,omitempty"`
	Bytes     int     `json:"bytes,omitempty"`
}

type benchSummary struct {
	Rows            int            `json:"rows"`
	Columns         map[string]int `json:"columns"`
	MissingProb     float64        `json:"missing_prob"`
	DuplicateProb   float64        `json:"duplicate_prob"`
	InputBytes      int            `json:"input_bytes"`
	ElapsedMS       float64        `json:"elapsed_ms"`
	RowsPerSec      float64        `json:"rows_per_sec"`
	MemAllocBytes   uint64         `json:"mem_alloc_bytes"`
	TotalAllocBytes uint64         `json:"mem_total_alloc_bytes"`
	GCCycles        uint32         `json:"gc_num"`
	Stages          []benchStage   `json:"stages"`
}

func newBenchCmd() *cobra.Command {
	opts := &benchOptions{}

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Time parse, clean and export on a synthetic CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			targets := make([]format.Format, 0, len(opts.to))
			for _, s := range opts.to {
				f, err := format.Parse(s)
				if err != nil {
					return err
				}
				targets = append(targets, f)
			}
			if opts.rows < 1 {
				return fmt.Errorf("--rows must be at least 1")
			}

			s, err := runBench(cmd.Context(), opts, targets)
			if err != nil {
				return err
			}
			if getOutputFormat(cmd) == "json" {
				return printJSON(cmd.OutOrStdout(), s)
			}
			printBench(cmd.OutOrStdout(), s)
			return nil
		},
	}

	cmd.Flags().IntVar(&opts.rows, "rows", 100_000, "Rows to generate")
	cmd.Flags().IntVar(&opts.numCols, "numeric-cols", 4, "Number of numeric columns")
	cmd.Flags().IntVar(&opts.textCols, "text-cols", 2, "Number of text columns")
	cmd.Flags().Float64Var(&opts.missing, "missing", 0.05, "Probability that a cell is empty")
	cmd.Flags().Float64Var(&opts.duplicate, "duplicates", 0.01, "Probability that a row repeats the previous one")
	cmd.Flags().Int64Var(&opts.seed, "seed", 42, "Random seed")
	cmd.Flags().StringSliceVar(&opts.to, "to", []string{"csv", "excel", "parquet"}, "Export targets to time")

	return cmd
}

func runBench(ctx context.Context, opts *benchOptions, targets []format.Format) (benchSummary, error) {
	input, err := synthesize(opts)
	if err != nil {
		return benchSummary{}, err
	}
	s := benchSummary{
		Rows:          opts.rows,
		Columns:       map[string]int{"numeric": opts.numCols, "text": opts.textCols},
		MissingProb:   opts.missing,
		DuplicateProb: opts.duplicate,
		InputBytes:    len(input),
	}

	runtime.GC()
	var before, after runtime.MemStats
	runtime.ReadMemStats(&before)
	start := time.Now()

	var t *table.Table
	err = timed(&s, "parse_csv", func(st *benchStage) error {
		var err error
		t, err = csvio.Read(bytes.NewReader(input), csvio.ReaderOptions{Delimiter: ','})
		return err
	})
	if err != nil {
		return s, err
	}

	steps := []table.Transform{
		&standardize.TrimSpace{},
		&dedupe.RemoveDuplicates{},
		&impute.FillMissing{Strategy: impute.StrategyMedian},
	}
	for _, step := range steps {
		err := timed(&s, step.Name(), func(st *benchStage) error {
			out, err := step.Apply(ctx, t)
			if err != nil {
				return err
			}
			t = out
			if r, ok := step.(table.Reporter); ok {
				st.Changes = r.Changes()
			}
			return nil
		})
		if err != nil {
			return s, err
		}
	}

	for _, f := range targets {
		err := timed(&s, "encode_"+strings.ToLower(f.String()), func(st *benchStage) error {
			a, err := export.Encode(t, "bench.csv", f)
			st.Bytes = a.Size()
			return err
		})
		if err != nil {
			return s, err
		}
	}

	elapsed := time.Since(start)
	runtime.ReadMemStats(&after)
	s.ElapsedMS = ms(elapsed)
	s.RowsPerSec = float64(opts.rows) / elapsed.Seconds()
	s.MemAllocBytes = after.Alloc
	s.TotalAllocBytes = after.TotalAlloc - before.TotalAlloc
	s.GCCycles = after.NumGC - before.NumGC
	return s, nil
}

func timed(s *benchSummary, name string, fn func(*benchStage) error) error {
	st := benchStage{Name: name}
	start := time.Now()
	err := fn(&st)
	st.ElapsedMS = ms(time.Since(start))
	s.Stages = append(s.Stages, st)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

func ms(d time.Duration) float64 { return float64(d.Microseconds()) / 1000 }

// synthesize renders a CSV document with numeric columns n0..nN and padded
// text columns t0..tN.
func synthesize(opts *benchOptions) ([]byte, error) {
	rnd := rand.New(rand.NewSource(opts.seed))
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := make([]string, 0, opts.numCols+opts.textCols)
	for i := 0; i < opts.numCols; i++ {
		header = append(header, fmt.Sprintf("n%d", i))
	}
	for i := 0; i < opts.textCols; i++ {
		header = append(header, fmt.Sprintf("t%d", i))
	}
	if len(header) == 0 {
		return nil, fmt.Errorf("need at least one column")
	}
	if err := w.Write(header); err != nil {
		return nil, err
	}

	prev := make([]string, len(header))
	rec := make([]string, len(header))
	for r := 0; r < opts.rows; r++ {
		if r > 0 && rnd.Float64() < opts.duplicate {
			if err := w.Write(prev); err != nil {
				return nil, err
			}
			continue
		}
		for i := range rec {
			switch {
			case rnd.Float64() < opts.missing:
				rec[i] = ""
			case i < opts.numCols:
				rec[i] = strconv.FormatFloat(rnd.Float64()*100, 'f', 2, 64)
			default:
				rec[i] = fmt.Sprintf(" item%d ", rnd.Intn(50))
			}
		}
		if err := w.Write(rec); err != nil {
			return nil, err
		}
		copy(prev, rec)
	}
	w.Flush()
	return buf.Bytes(), w.Error()
}

func printBench(w io.Writer, s benchSummary) {
	_, _ = fmt.Fprintf(w, "Rows: %d (%d numeric, %d text columns)\n", s.Rows, s.Columns["numeric"], s.Columns["text"])
	_, _ = fmt.Fprintf(w, "Input: %.2f KB\n", float64(s.InputBytes)/1024)
	for _, st := range s.Stages {
		_, _ = fmt.Fprintf(w, "  %-18s %10.2f ms", st.Name, st.ElapsedMS)
		if st.Changes > 0 {
			_, _ = fmt.Fprintf(w, "  changes=%d", st.Changes)
		}
		if st.Bytes > 0 {
			_, _ = fmt.Fprintf(w, "  bytes=%d", st.Bytes)
		}
		_, _ = fmt.Fprintln(w)
	}
	_, _ = fmt.Fprintf(w, "Elapsed: %.2f ms\n", s.ElapsedMS)
	_, _ = fmt.Fprintf(w, "Throughput: %.0f rows/s\n", s.RowsPerSec)
	_, _ = fmt.Fprintf(w, "Current Alloc: %d MB\n", s.MemAllocBytes/1024/1024)
	_, _ = fmt.Fprintf(w, "Total Alloc (delta): %d MB\n", s.TotalAllocBytes/1024/1024)
	_, _ = fmt.Fprintf(w, "GC cycles (delta): %d\n", s.GCCycles)
}
