package automation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/lsys/internal/analysis"
	"github.com/san-kum/lsys/internal/config"
	"github.com/san-kum/lsys/internal/raster"
	"github.com/san-kum/lsys/internal/render"
	"github.com/san-kum/lsys/internal/storage"
)

var ErrInvalidScenario = errors.New("automation: invalid scenario")

// Scenario defines a scripted batch of renders
type Scenario struct {
	Name        string                   `yaml:"name"`
	Description string                   `yaml:"description"`
	Presets     map[string]config.Preset `yaml:"presets"`
	Steps       []ScenarioStep           `yaml:"steps"`

	dir string
}

// ScenarioStep renders one preset. Zero sizes and a missing iteration count
// fall back to the renderer options and the preset default.
type ScenarioStep struct {
	Preset      string  `yaml:"preset"`
	PresetFile  string  `yaml:"preset_file"`
	Iterations  *int    `yaml:"iterations"`
	TurnDegrees float64 `yaml:"turn_degrees"`
	Width       int     `yaml:"width"`
	Height      int     `yaml:"height"`
	Frames      bool    `yaml:"frames"`
	GIF         bool    `yaml:"gif"`
	Format      string  `yaml:"format"`
}

// StepResult summarises one saved run.
type StepResult struct {
	Step     int
	Preset   string
	RunID    string
	Frames   int
	Symbols  int
	Segments int
	Elapsed  time.Duration
}

// LoadScenario loads a scenario from a YAML file. Relative preset files
// resolve against the scenario's directory.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	scenario.dir = filepath.Dir(path)

	if err := scenario.Validate(); err != nil {
		return nil, err
	}
	return &scenario, nil
}

func (s *Scenario) Validate() error {
	if len(s.Steps) == 0 {
		return fmt.Errorf("%w: no steps", ErrInvalidScenario)
	}
	for name, p := range s.Presets {
		if p.Name == "" {
			p.Name = name
			s.Presets[name] = p
		}
		if err := p.Validate(); err != nil {
			return fmt.Errorf("%w: preset %s: %v", ErrInvalidScenario, name, err)
		}
	}
	for i, step := range s.Steps {
		if step.Preset == "" && step.PresetFile == "" {
			return fmt.Errorf("%w: step %d: no preset", ErrInvalidScenario, i+1)
		}
		if step.Iterations != nil && *step.Iterations < 0 {
			return fmt.Errorf("%w: step %d: negative iterations", ErrInvalidScenario, i+1)
		}
		if step.Width < 0 || step.Height < 0 {
			return fmt.Errorf("%w: step %d: negative size", ErrInvalidScenario, i+1)
		}
		if step.Format != "" {
			if _, err := raster.ParseFormat(step.Format); err != nil {
				return fmt.Errorf("%w: step %d: %v", ErrInvalidScenario, i+1, err)
			}
		}
	}
	return nil
}

func (s *Scenario) resolve(step ScenarioStep) (config.Preset, error) {
	var p config.Preset
	switch {
	case step.PresetFile != "":
		path := step.PresetFile
		if !filepath.IsAbs(path) && s.dir != "" {
			path = filepath.Join(s.dir, path)
		}
		loaded, err := config.LoadPreset(path)
		if err != nil {
			return p, err
		}
		p = loaded
		if p.Name == "" {
			p.Name = step.Preset
		}
	default:
		var ok bool
		if p, ok = s.Presets[step.Preset]; ok {
			p = p.Clone()
		} else if p, ok = config.GetPreset(step.Preset); !ok {
			return p, fmt.Errorf("unknown preset %q", step.Preset)
		}
	}
	if step.TurnDegrees != 0 {
		p.TurnDegrees = step.TurnDegrees
	}
	return p, nil
}

// RunScenario renders every step concurrently and saves each run to st.
// Results come back in step order.
func RunScenario(ctx context.Context, scenario *Scenario, r *render.Renderer, st *storage.Store) ([]StepResult, error) {
	results := make([]StepResult, len(scenario.Steps))
	log := render.Logger()

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, step := range scenario.Steps {
		i, step := i, step
		g.Go(func() error {
			res, err := scenario.runStep(ctx, step, r, st)
			if err != nil {
				return fmt.Errorf("step %d: %w", i+1, err)
			}
			res.Step = i + 1
			results[i] = res
			log.Info("scenario step done",
				slog.String("scenario", scenario.Name),
				slog.Int("step", i+1),
				slog.String("preset", res.Preset),
				slog.String("run", res.RunID),
			)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (s *Scenario) runStep(ctx context.Context, step ScenarioStep, r *render.Renderer, st *storage.Store) (StepResult, error) {
	p, err := s.resolve(step)
	if err != nil {
		return StepResult{}, err
	}

	n := p.Iterations
	if step.Iterations != nil {
		n = *step.Iterations
	}

	opts := r.Options()
	if step.Width > 0 || step.Height > 0 {
		if step.Width > 0 {
			opts.Width = step.Width
		}
		if step.Height > 0 {
			opts.Height = step.Height
		}
		r = render.New(opts)
	}

	format := raster.PNG
	if step.Format != "" {
		if format, err = raster.ParseFormat(step.Format); err != nil {
			return StepResult{}, err
		}
	}

	var frames []*render.Frame
	if step.Frames || step.GIF {
		_, err = r.Progressive(ctx, p, n, func(f *render.Frame) error {
			frames = append(frames, f)
			return nil
		})
	} else {
		var f *render.Frame
		if f, err = r.Render(p, n); err == nil {
			frames = append(frames, f)
		}
	}
	if err != nil {
		return StepResult{}, err
	}

	id, err := st.Save(p, frames, storage.SaveOptions{
		Format:   format,
		Frames:   step.Frames,
		GIF:      step.GIF,
		GIFDelay: config.DefaultGIFDelay,
	})
	if err != nil {
		return StepResult{}, err
	}

	last := frames[len(frames)-1]
	res := StepResult{
		Preset:   p.Name,
		RunID:    id,
		Frames:   len(frames),
		Symbols:  last.Symbols,
		Segments: len(last.Segments),
	}
	for _, f := range frames {
		res.Elapsed += f.Elapsed
	}
	return res, nil
}

// AngleSweep renders one preset across a range of turn angles.
type AngleSweep struct {
	Preset     config.Preset
	Iterations int
	MinDegrees float64
	MaxDegrees float64
	NumSteps   int
}

// SweepResult holds the measurements for one angle.
type SweepResult struct {
	Degrees   float64
	Segments  int
	Extent    analysis.Rect
	Dimension float64 // 0 when nothing landed on the canvas
}

// RunSweep renders each angle in turn and measures the drawing.
func RunSweep(ctx context.Context, sweep *AngleSweep, r *render.Renderer) ([]SweepResult, error) {
	if sweep.NumSteps < 1 {
		return nil, fmt.Errorf("%w: sweep needs at least one step", ErrInvalidScenario)
	}
	results := make([]SweepResult, 0, sweep.NumSteps)

	step := 0.0
	if sweep.NumSteps > 1 {
		step = (sweep.MaxDegrees - sweep.MinDegrees) / float64(sweep.NumSteps-1)
	}

	for i := 0; i < sweep.NumSteps; i++ {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		deg := sweep.MinDegrees + float64(i)*step
		p := sweep.Preset.Clone()
		p.TurnDegrees = deg

		f, err := r.Render(p, sweep.Iterations)
		if err != nil {
			return results, fmt.Errorf("%.2f degrees: %w", deg, err)
		}

		res := SweepResult{
			Degrees:  deg,
			Segments: len(f.Segments),
			Extent:   analysis.Bounds(f.Segments),
		}
		if d, err := analysis.BoxDimension(f.Canvas, r.Options().Ink); err == nil {
			res.Dimension = d
		}
		results = append(results, res)

		render.Logger().Debug("sweep step",
			slog.Int("step", i+1),
			slog.Float64("degrees", deg),
			slog.Float64("dimension", res.Dimension),
		)
	}

	return results, nil
}
