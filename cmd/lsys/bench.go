package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/san-kum/lsys/internal/config"
	"github.com/san-kum/lsys/internal/raster"
	"github.com/san-kum/lsys/internal/render"
	"github.com/san-kum/lsys/internal/turtle"
)

// best runs fn repeats times and returns the fastest run.
func best(repeats int, fn func() error) (time.Duration, error) {
	var fastest time.Duration
	for i := 0; i < max(repeats, 1); i++ {
		start := time.Now()
		if err := fn(); err != nil {
			return 0, err
		}
		if d := time.Since(start); i == 0 || d < fastest {
			fastest = d
		}
	}
	return fastest, nil
}

// benchRow holds the fastest timings of one preset.
type benchRow struct {
	Name      string
	Iteration int
	Symbols   int
	Segments  int
	Expand    time.Duration
	Interpret time.Duration
	Raster    time.Duration
}

func (b benchRow) Total() time.Duration { return b.Expand + b.Interpret + b.Raster }

// benchPreset times each pipeline stage of p under the renderer's ceilings.
func benchPreset(r *render.Renderer, p config.Preset, repeats int) (benchRow, error) {
	row := benchRow{Name: p.Name, Iteration: p.Iterations}
	params := p.Params()

	var program string
	var err error
	row.Expand, err = best(repeats, func() error {
		program, err = r.Expand(p, p.Iterations)
		return err
	})
	if err != nil {
		return row, err
	}
	row.Symbols = len(program)

	var segs []turtle.Segment
	row.Interpret, err = best(repeats, func() error {
		segs, err = turtle.Interpret(program, params)
		return err
	})
	if err != nil {
		return row, fmt.Errorf("%s: %w", p.Name, err)
	}
	row.Segments = len(segs)

	opts := r.Options()
	row.Raster, _ = best(repeats, func() error {
		raster.Rasterize(segs, opts.Width, opts.Height, opts.Background, opts.Ink)
		return nil
	})
	return row, nil
}

func runBench(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	names := cfg.PresetNames()
	if len(args) > 0 {
		names = args
	}

	// No cache, so every repeat does the full rewrite.
	opts := render.OptionsFromConfig(cfg)
	opts.CacheSize = 0
	r := render.New(opts)

	fmt.Printf("benchmarking %d presets, best of %d\n\n", len(names), repeats)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PRESET\tITER\tSYMBOLS\tSEGMENTS\tEXPAND\tINTERPRET\tRASTER\tSYMBOLS/SEC")

	jobs := make([]render.Job, 0, len(names))
	var serial time.Duration
	for _, name := range names {
		p, err := resolvePreset(cfg, name)
		if err != nil {
			return err
		}
		row, err := benchPreset(r, p, repeats)
		if err != nil {
			return err
		}

		serial += row.Total()
		rate := float64(row.Symbols) / row.Expand.Seconds()
		fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%v\t%v\t%v\t%.2e\n",
			name, row.Iteration, row.Symbols, row.Segments,
			row.Expand.Round(time.Microsecond),
			row.Interpret.Round(time.Microsecond),
			row.Raster.Round(time.Microsecond),
			rate,
		)
		jobs = append(jobs, render.Job{Preset: p, Iterations: p.Iterations})
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if len(jobs) > 1 {
		concurrent, err := best(repeats, func() error {
			_, err := render.RenderAll(context.Background(), r, jobs)
			return err
		})
		if err != nil {
			return err
		}
		fmt.Printf("\nall presets: %v serial, %v concurrent\n",
			serial.Round(time.Microsecond), concurrent.Round(time.Microsecond))
	}
	return nil
}
