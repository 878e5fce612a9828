package main

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/lsys/internal/analysis"
	"github.com/san-kum/lsys/internal/automation"
	"github.com/san-kum/lsys/internal/config"
	"github.com/san-kum/lsys/internal/export"
	"github.com/san-kum/lsys/internal/raster"
	"github.com/san-kum/lsys/internal/render"
	"github.com/san-kum/lsys/internal/storage"
	"github.com/san-kum/lsys/internal/viz"
)

var (
	dataDir    string
	configFile string
	verbose    bool

	iterations int
	width      int
	height     int
	maxSymbols int
	format     string
	frames     bool
	gifOut     bool
	gifDelay   int

	outPath  string
	thumb    int
	caption  bool
	fit      bool
	stroke   string
	bgColor  string
	limit    int
	cols     int
	rows     int
	exportTo string
	repeats  int

	sweepFrom  float64
	sweepTo    float64
	sweepSteps int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "lsys [preset]",
		Short: "l-system fractal renderer",
		Args:  cobra.MaximumNArgs(1),
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				render.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
			}
		},
		RunE: runLive,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".lsys", "data directory")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log render progress to stderr")
	rootCmd.PersistentFlags().IntVar(&width, "width", config.DefaultWidth, "canvas width")
	rootCmd.PersistentFlags().IntVar(&height, "height", config.DefaultHeight, "canvas height")
	rootCmd.PersistentFlags().IntVar(&maxSymbols, "max-symbols", config.DefaultMaxSymbols, "abort expansions longer than this")

	renderCmd := &cobra.Command{
		Use:   "render [preset]",
		Short: "render a preset and save the run",
		Args:  cobra.ExactArgs(1),
		RunE:  runRender,
	}
	renderCmd.Flags().IntVarP(&iterations, "iterations", "n", -1, "iterations (default: preset value)")
	renderCmd.Flags().StringVarP(&format, "format", "f", config.DefaultFormat, "image format: png, bmp, tiff")
	renderCmd.Flags().BoolVar(&frames, "frames", false, "save every iteration")
	renderCmd.Flags().BoolVar(&gifOut, "gif", false, "save an animated gif of the iterations")
	renderCmd.Flags().IntVar(&gifDelay, "gif-delay", config.DefaultGIFDelay, "gif frame delay (1/100 s)")
	renderCmd.Flags().StringVarP(&outPath, "out", "o", "", "also write the final image here")
	renderCmd.Flags().IntVar(&thumb, "thumb", 0, "scale --out to fit this many pixels")
	renderCmd.Flags().BoolVar(&caption, "caption", false, "stamp preset and iteration on --out")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE:  listPresets,
	}
	presetsCmd.Flags().StringVar(&exportTo, "export", "", "write every preset as yaml into this directory")

	expandCmd := &cobra.Command{
		Use:   "expand [preset]",
		Short: "print the rewritten string",
		Args:  cobra.ExactArgs(1),
		RunE:  runExpand,
	}
	expandCmd.Flags().IntVarP(&iterations, "iterations", "n", -1, "iterations (default: preset value)")
	expandCmd.Flags().IntVar(&limit, "limit", 0, "print at most this many symbols")

	showCmd := &cobra.Command{
		Use:   "show [preset]",
		Short: "draw a preset in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE:  runShow,
	}
	showCmd.Flags().IntVarP(&iterations, "iterations", "n", -1, "iterations (default: preset value)")
	showCmd.Flags().IntVar(&cols, "cols", 80, "canvas columns")
	showCmd.Flags().IntVar(&rows, "rows", 32, "canvas rows")

	liveCmd := &cobra.Command{
		Use:   "live [preset]",
		Short: "interactive viewer",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}

	growthCmd := &cobra.Command{
		Use:   "growth [preset]",
		Short: "string length per iteration",
		Args:  cobra.ExactArgs(1),
		RunE:  runGrowth,
	}
	growthCmd.Flags().IntVarP(&iterations, "iterations", "n", -1, "iterations (default: preset value)")

	dimensionCmd := &cobra.Command{
		Use:   "dimension [preset]",
		Short: "box-counting dimension of a rendering",
		Args:  cobra.ExactArgs(1),
		RunE:  runDimension,
	}
	dimensionCmd.Flags().IntVarP(&iterations, "iterations", "n", -1, "iterations (default: preset value)")

	sweepCmd := &cobra.Command{
		Use:   "sweep [preset]",
		Short: "render a preset across a range of turn angles",
		Args:  cobra.ExactArgs(1),
		RunE:  runSweep,
	}
	sweepCmd.Flags().IntVarP(&iterations, "iterations", "n", -1, "iterations (default: preset value)")
	sweepCmd.Flags().Float64Var(&sweepFrom, "from", 10, "first angle in degrees")
	sweepCmd.Flags().Float64Var(&sweepTo, "to", 90, "last angle in degrees")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 9, "number of angles")

	svgCmd := &cobra.Command{
		Use:   "export-svg [preset] [file]",
		Short: "write a preset as svg",
		Args:  cobra.ExactArgs(2),
		RunE:  exportSVG,
	}
	svgCmd.Flags().IntVarP(&iterations, "iterations", "n", -1, "iterations (default: preset value)")
	svgCmd.Flags().BoolVar(&fit, "fit", false, "scale the drawing to fill the image")
	svgCmd.Flags().StringVar(&stroke, "stroke", "#000000", "line colour")
	svgCmd.Flags().StringVar(&bgColor, "background", "#ffffff", "background colour, empty for none")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	inspectCmd := &cobra.Command{
		Use:   "inspect [run_id]",
		Short: "show a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  inspectRun,
	}

	batchCmd := &cobra.Command{
		Use:   "batch [scenario.yaml]",
		Short: "render a yaml scenario",
		Args:  cobra.ExactArgs(1),
		RunE:  runBatch,
	}

	benchCmd := &cobra.Command{
		Use:   "bench [preset]",
		Short: "benchmark the pipeline stages",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runBench,
	}
	benchCmd.Flags().IntVar(&repeats, "repeats", 5, "renders per measurement")

	rootCmd.AddCommand(renderCmd, presetsCmd, expandCmd, showCmd, liveCmd, growthCmd, dimensionCmd,
		sweepCmd, svgCmd, listCmd, inspectCmd, batchCmd, benchCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig reads --config if given. Flags override file values only when
// they were set explicitly.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if configFile != "" {
		var err error
		if cfg, err = config.Load(configFile); err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}

	flags := cmd.Flags()
	if configFile == "" || flags.Changed("width") {
		cfg.Width = width
	}
	if configFile == "" || flags.Changed("height") {
		cfg.Height = height
	}
	if configFile == "" || flags.Changed("max-symbols") {
		cfg.MaxSymbols = maxSymbols
	}
	if flags.Lookup("format") != nil && (configFile == "" || flags.Changed("format")) {
		cfg.Format = format
	}
	if flags.Changed("frames") {
		cfg.Frames = frames
	}
	if flags.Changed("gif") {
		cfg.GIF = gifOut
	}
	if flags.Changed("gif-delay") {
		cfg.GIFDelay = gifDelay
	}
	return cfg, cfg.Validate()
}

// resolvePreset accepts a preset name or a path to a preset yaml file.
func resolvePreset(cfg *config.Config, arg string) (config.Preset, error) {
	if ext := filepath.Ext(arg); ext == ".yaml" || ext == ".yml" {
		return config.LoadPreset(arg)
	}
	p, ok := cfg.Preset(arg)
	if !ok {
		return p, fmt.Errorf("unknown preset: %s (available: %v)", arg, cfg.PresetNames())
	}
	return p, nil
}

func setup(cmd *cobra.Command, arg string) (*config.Config, config.Preset, *render.Renderer, int, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, config.Preset{}, nil, 0, err
	}
	p, err := resolvePreset(cfg, arg)
	if err != nil {
		return nil, config.Preset{}, nil, 0, err
	}
	n := p.Iterations
	if f := cmd.Flags().Lookup("iterations"); f != nil && f.Changed {
		n = iterations
	}
	return cfg, p, render.New(render.OptionsFromConfig(cfg)), n, nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func runRender(cmd *cobra.Command, args []string) error {
	cfg, p, r, n, err := setup(cmd, args[0])
	if err != nil {
		return err
	}
	imgFormat, err := raster.ParseFormat(cfg.Format)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	fmt.Printf("rendering %s to iteration %d...\n", p.Name, n)
	start := time.Now()

	var all []*render.Frame
	keep := cfg.Frames || cfg.GIF
	last, err := r.Progressive(ctx, p, n, func(f *render.Frame) error {
		if keep {
			all = append(all, f)
		}
		return nil
	})
	if err != nil {
		return err
	}
	if !keep {
		all = []*render.Frame{last}
	}
	elapsed := time.Since(start)

	st := storage.New(dataDir)
	runID, err := st.Save(p, all, storage.SaveOptions{
		Format:   imgFormat,
		Frames:   cfg.Frames,
		GIF:      cfg.GIF,
		GIFDelay: cfg.GIFDelay,
	})
	if err != nil {
		return err
	}

	if outPath != "" {
		if err := writeOut(outPath, last, p.Name); err != nil {
			return err
		}
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("symbols: %d\n", last.Symbols)
	fmt.Printf("segments: %d\n", len(last.Segments))
	if last.MaxDepth > 0 {
		fmt.Printf("max depth: %d\n", last.MaxDepth)
	}
	if b := analysis.Bounds(last.Segments); !b.Fits(cfg.Width, cfg.Height) {
		fmt.Printf("note: drawing spans %.0fx%.0f and was clipped to %dx%d\n", b.Width(), b.Height(), cfg.Width, cfg.Height)
	}
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	if exportTo != "" {
		if err := os.MkdirAll(exportTo, 0755); err != nil {
			return err
		}
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tITER\tANGLE\tAXIOM\tRULES\tDESCRIPTION")
	for _, name := range cfg.PresetNames() {
		p, _ := cfg.Preset(name)
		fmt.Fprintf(w, "%s\t%d\t%.2f°\t%s\t%s\t%s\n",
			p.Name,
			p.Iterations,
			p.Angle()*180/math.Pi,
			p.Axiom,
			ruleList(p),
			p.Description,
		)
		if exportTo != "" {
			if err := config.SavePreset(filepath.Join(exportTo, name+".yaml"), p); err != nil {
				return err
			}
		}
	}
	return w.Flush()
}

func ruleList(p config.Preset) string {
	g := p.Grammar().String()
	if i := strings.Index(g, "; "); i >= 0 {
		return g[i+2:]
	}
	return ""
}

func runExpand(cmd *cobra.Command, args []string) error {
	_, p, r, n, err := setup(cmd, args[0])
	if err != nil {
		return err
	}
	s, err := r.Expand(p, n)
	if err != nil {
		return err
	}
	out := s
	if limit > 0 && len(out) > limit {
		out = out[:limit] + "..."
	}
	fmt.Println(out)
	fmt.Fprintf(os.Stderr, "%s iteration %d: %d symbols\n", p.Name, n, len(s))
	return nil
}

func runShow(cmd *cobra.Command, args []string) error {
	_, p, r, n, err := setup(cmd, args[0])
	if err != nil {
		return err
	}
	segs, err := r.Segments(p, n)
	if err != nil {
		return err
	}
	c := viz.NewCanvas(cols, rows)
	c.Plot(segs)
	fmt.Print(c.String())
	fmt.Printf("%s  iteration %d  %d segments\n", p.Name, n, len(segs))
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	start := "binary-tree"
	if len(args) > 0 {
		start = args[0]
	}
	if _, err := resolvePreset(cfg, start); err != nil {
		return err
	}

	names := cfg.PresetNames()
	presets := make([]config.Preset, 0, len(names))
	for _, name := range names {
		p, _ := cfg.Preset(name)
		presets = append(presets, p)
	}

	st := storage.New(dataDir)
	m := viz.NewModel(render.New(render.OptionsFromConfig(cfg)), st, presets, start)
	return viz.Run(m)
}

func runGrowth(cmd *cobra.Command, args []string) error {
	_, p, _, n, err := setup(cmd, args[0])
	if err != nil {
		return err
	}
	series := analysis.GrowthSeries(p.Grammar(), n)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ITER\tLENGTH\tRATIO")
	for _, g := range series {
		fmt.Fprintf(w, "%d\t%d\t%.4f\n", g.Iteration, g.Length, g.Ratio)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if len(series) > 1 {
		data := analysis.Lengths(series)
		for i, v := range data {
			data[i] = math.Log10(math.Max(v, 1))
		}
		fmt.Println()
		fmt.Println(asciigraph.Plot(data, asciigraph.Height(10), asciigraph.Width(60), asciigraph.Caption("log10 length")))
	}
	return nil
}

func runDimension(cmd *cobra.Command, args []string) error {
	cfg, p, r, n, err := setup(cmd, args[0])
	if err != nil {
		return err
	}
	f, err := r.Render(p, n)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "BOX\tCOUNT")
	for _, bc := range analysis.BoxCounts(f.Canvas, cfg.Ink) {
		fmt.Fprintf(w, "%d\t%d\n", bc.Size, bc.Boxes)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	d, err := analysis.BoxDimension(f.Canvas, cfg.Ink)
	if err != nil {
		return err
	}
	fmt.Printf("\n%s iteration %d: dimension %.4f\n", p.Name, n, d)
	return nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	_, p, r, n, err := setup(cmd, args[0])
	if err != nil {
		return err
	}
	ctx, cancel := signalContext()
	defer cancel()

	results, err := automation.RunSweep(ctx, &automation.AngleSweep{
		Preset:     p,
		Iterations: n,
		MinDegrees: sweepFrom,
		MaxDegrees: sweepTo,
		NumSteps:   sweepSteps,
	}, r)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ANGLE\tSEGMENTS\tEXTENT\tDIMENSION")
	dims := make([]float64, len(results))
	for i, res := range results {
		fmt.Fprintf(w, "%.2f°\t%d\t%.0fx%.0f\t%.4f\n", res.Degrees, res.Segments, res.Extent.Width(), res.Extent.Height(), res.Dimension)
		dims[i] = res.Dimension
	}
	if err := w.Flush(); err != nil {
		return err
	}
	if len(dims) > 1 {
		fmt.Println()
		fmt.Println(asciigraph.Plot(dims, asciigraph.Height(8), asciigraph.Width(60), asciigraph.Caption("dimension by angle")))
	}
	return nil
}

func exportSVG(cmd *cobra.Command, args []string) error {
	cfg, p, r, n, err := setup(cmd, args[0])
	if err != nil {
		return err
	}
	segs, err := r.Segments(p, n)
	if err != nil {
		return err
	}

	var svg string
	if fit {
		svg = export.FitSegmentsToSVG(segs, cfg.Width, cfg.Height, stroke, bgColor)
	} else {
		svg = export.SegmentsToSVG(segs, cfg.Width, cfg.Height, stroke, bgColor)
	}
	if err := os.WriteFile(args[1], []byte(svg), 0644); err != nil {
		return err
	}
	fmt.Printf("wrote %s (%d segments)\n", args[1], len(segs))
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPRESET\tTIME\tITER\tSIZE\tSYMBOLS\tSEGMENTS\tFORMAT")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%dx%d\t%d\t%d\t%s\n",
			run.ID,
			run.Preset,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Iterations,
			run.Width, run.Height,
			run.Symbols,
			run.Segments,
			run.Format,
		)
	}
	return w.Flush()
}

func inspectRun(cmd *cobra.Command, args []string) error {
	runID := args[0]
	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("preset: %s\n", meta.Preset)
	fmt.Printf("axiom: %s\n", meta.Axiom)
	for k, v := range meta.Rules {
		fmt.Printf("rule: %s -> %s\n", k, v)
	}
	fmt.Printf("iterations: %d\n", meta.Iterations)
	fmt.Printf("canvas: %dx%d %s\n", meta.Width, meta.Height, meta.Format)
	fmt.Printf("elapsed: %v\n", meta.Elapsed)
	fmt.Printf("files: %s\n\n", strings.Join(meta.Files, ", "))

	growth, err := st.LoadGrowth(runID)
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ITER\tSYMBOLS\tSEGMENTS\tDEPTH\tTIME")
	symbols := make([]float64, 0, len(growth))
	for _, g := range growth {
		fmt.Fprintf(w, "%d\t%d\t%d\t%d\t%v\n", g.Iteration, g.Symbols, g.Segments, g.MaxDepth, g.Elapsed)
		symbols = append(symbols, math.Log10(math.Max(float64(g.Symbols), 1)))
	}
	if err := w.Flush(); err != nil {
		return err
	}
	if len(symbols) > 1 {
		fmt.Println()
		fmt.Println(asciigraph.Plot(symbols, asciigraph.Height(8), asciigraph.Width(50), asciigraph.Caption("log10 symbols")))
	}
	return nil
}

func runBatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	fmt.Printf("running scenario %s (%d steps)...\n", sc.Name, len(sc.Steps))
	start := time.Now()
	results, err := automation.RunScenario(ctx, sc, render.New(render.OptionsFromConfig(cfg)), storage.New(dataDir))
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tPRESET\tRUN\tFRAMES\tSYMBOLS\tSEGMENTS\tTIME")
	for _, res := range results {
		fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%d\t%d\t%v\n", res.Step, res.Preset, res.RunID, res.Frames, res.Symbols, res.Segments, res.Elapsed.Round(time.Millisecond))
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Printf("\ncompleted in %v\n", time.Since(start).Round(time.Millisecond))
	return nil
}
