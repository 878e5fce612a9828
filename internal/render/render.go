package render

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/san-kum/lsys/internal/config"
	"github.com/san-kum/lsys/internal/grammar"
	"github.com/san-kum/lsys/internal/raster"
	"github.com/san-kum/lsys/internal/turtle"
)

type Options struct {
	Width         int
	Height        int
	Background    uint8
	Ink           uint8
	MaxIterations int
	MaxSymbols    int
	CacheSize     int
}

func DefaultOptions() Options {
	return Options{
		Width:         config.DefaultWidth,
		Height:        config.DefaultHeight,
		Background:    config.DefaultBackground,
		Ink:           config.DefaultInk,
		MaxIterations: config.DefaultMaxIterations,
		MaxSymbols:    config.DefaultMaxSymbols,
		CacheSize:     config.DefaultCacheSize,
	}
}

// OptionsFromConfig copies the render settings out of a loaded config.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		Width:         cfg.Width,
		Height:        cfg.Height,
		Background:    cfg.Background,
		Ink:           cfg.Ink,
		MaxIterations: cfg.MaxIterations,
		MaxSymbols:    cfg.MaxSymbols,
		CacheSize:     cfg.CacheSize,
	}
}

// Frame is one rendered iteration.
type Frame struct {
	Preset    string
	Iteration int
	Symbols   int
	Segments  []turtle.Segment
	MaxDepth  int
	Canvas    *raster.Canvas
	Elapsed   time.Duration
}

// Observer is notified after every frame a Renderer produces.
type Observer interface {
	OnFrame(f *Frame)
}

type Renderer struct {
	opts      Options
	rewriter  *grammar.Rewriter
	observers []Observer
}

func New(opts Options) *Renderer {
	return &Renderer{
		opts: opts,
		rewriter: grammar.NewRewriter(
			grammar.WithMaxSymbols(opts.MaxSymbols),
			grammar.WithCache(opts.CacheSize),
		),
	}
}

func (r *Renderer) Options() Options { return r.opts }

func (r *Renderer) AddObserver(o Observer) { r.observers = append(r.observers, o) }

// Expand returns the expanded program of p at n iterations.
func (r *Renderer) Expand(p config.Preset, n int) (string, error) {
	if err := r.check(p, n); err != nil {
		return "", err
	}
	s, err := r.rewriter.Expand(p.Grammar(), n)
	if err != nil {
		return "", fmt.Errorf("%s: %w", p.Name, err)
	}
	return s, nil
}

// Segments expands and interprets p without rasterizing.
func (r *Renderer) Segments(p config.Preset, n int) ([]turtle.Segment, error) {
	program, err := r.Expand(p, n)
	if err != nil {
		return nil, err
	}
	segs, err := turtle.Interpret(program, p.Params())
	if err != nil {
		return nil, fmt.Errorf("%s iteration %d: %w", p.Name, n, err)
	}
	return segs, nil
}

// Render produces the canvas for iteration n of p.
func (r *Renderer) Render(p config.Preset, n int) (*Frame, error) {
	if r.opts.Width <= 0 || r.opts.Height <= 0 {
		return nil, fmt.Errorf("%w: canvas %dx%d", ErrInvalidOptions, r.opts.Width, r.opts.Height)
	}
	start := time.Now()

	program, err := r.Expand(p, n)
	if err != nil {
		return nil, err
	}

	params := p.Params()
	segs := make([]turtle.Segment, 0, params.CountDraws(program))
	t := turtle.New(params)
	if err := t.Run(program, func(s turtle.Segment) { segs = append(segs, s) }); err != nil {
		return nil, fmt.Errorf("%s iteration %d: %w", p.Name, n, err)
	}

	canvas := raster.Rasterize(segs, r.opts.Width, r.opts.Height, r.opts.Background, r.opts.Ink)

	f := &Frame{
		Preset:    p.Name,
		Iteration: n,
		Symbols:   len(program),
		Segments:  segs,
		MaxDepth:  t.MaxDepth(),
		Canvas:    canvas,
		Elapsed:   time.Since(start),
	}

	log := Logger()
	log.Debug("rendered iteration",
		slog.String("preset", p.Name),
		slog.Int("iteration", n),
		slog.Int("symbols", f.Symbols),
		slog.Int("segments", len(segs)),
		slog.Duration("elapsed", f.Elapsed),
	)
	if d := t.Depth(); d != 0 {
		log.Warn("unclosed branches", slog.String("preset", p.Name), slog.Int("depth", d))
	}
	if out := offCanvas(segs, r.opts.Width, r.opts.Height); out > 0 {
		log.Warn("segments leave the canvas",
			slog.String("preset", p.Name),
			slog.Int("iteration", n),
			slog.Int("clipped", out),
		)
	}

	for _, o := range r.observers {
		o.OnFrame(f)
	}
	return f, nil
}

// Progressive renders iterations 1..n in order, handing each frame to fn,
// and returns the last one. n = 0 renders the axiom alone. A nil fn only
// keeps the final frame.
func (r *Renderer) Progressive(ctx context.Context, p config.Preset, n int, fn func(*Frame) error) (*Frame, error) {
	if err := r.check(p, n); err != nil {
		return nil, err
	}
	first := 1
	if n == 0 {
		first = 0
	}

	var last *Frame
	for i := first; i <= n; i++ {
		select {
		case <-ctx.Done():
			return last, ctx.Err()
		default:
		}

		f, err := r.Render(p, i)
		if err != nil {
			return last, err
		}
		if fn != nil {
			if err := fn(f); err != nil {
				return f, err
			}
		}
		last = f
	}

	Logger().Info("render complete",
		slog.String("preset", p.Name),
		slog.Int("iterations", n),
		slog.Int("symbols", last.Symbols),
		slog.Int("segments", len(last.Segments)),
	)
	return last, nil
}

func (r *Renderer) check(p config.Preset, n int) error {
	if n < 0 {
		return fmt.Errorf("%s: %w", p.Name, grammar.ErrNegativeIterations)
	}
	if r.opts.MaxIterations > 0 && n > r.opts.MaxIterations {
		return fmt.Errorf("%s: %w: %d > %d", p.Name, ErrIterationLimit, n, r.opts.MaxIterations)
	}
	return nil
}

// offCanvas counts segments with an endpoint outside the canvas.
func offCanvas(segs []turtle.Segment, w, h int) int {
	fw, fh := float64(w), float64(h)
	out := 0
	for _, s := range segs {
		if s.End.X < -0.5 || s.End.Y < -0.5 || s.End.X >= fw-0.5 || s.End.Y >= fh-0.5 ||
			s.Start.X < -0.5 || s.Start.Y < -0.5 || s.Start.X >= fw-0.5 || s.Start.Y >= fh-0.5 {
			out++
		}
	}
	return out
}
