package automation

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/lsys/internal/config"
	"github.com/san-kum/lsys/internal/render"
	"github.com/san-kum/lsys/internal/storage"
)

const scenarioYAML = `
name: gallery
description: every preset at a small size
presets:
  square:
    axiom: F+F+F+F
    rules:
      F: F+F-F-FF+F+F-F
    iterations: 2
    step: 4
    turn_degrees: 90
    draw: F
    turn_left: "-"
    turn_right: "+"
    start: {x: 20, y: 100}
steps:
  - preset: dragon
    iterations: 6
    width: 128
    height: 128
  - preset: plant
    iterations: 3
    frames: true
    gif: true
    format: bmp
  - preset: square
  - preset_file: koch.yaml
    iterations: 1
`

const kochYAML = `
name: koch
axiom: F
rules:
  F: F+F-F-F+F
step: 5
turn_degrees: 90
draw: F
turn_left: "+"
turn_right: "-"
start: {x: 10, y: 200}
`

func writeScenario(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "koch.yaml"), []byte(kochYAML), 0644); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, "scenario.yaml")
	if err := os.WriteFile(path, []byte(scenarioYAML), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadScenario(t *testing.T) {
	sc, err := LoadScenario(writeScenario(t))
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if sc.Name != "gallery" || len(sc.Steps) != 4 {
		t.Fatalf("scenario = %+v", sc)
	}
	if sc.Presets["square"].Name != "square" {
		t.Error("inline preset name not filled from key")
	}
	if it := sc.Steps[0].Iterations; it == nil || *it != 6 {
		t.Errorf("step 1 iterations = %v", it)
	}
	if sc.Steps[2].Iterations != nil {
		t.Error("missing iterations should stay nil")
	}
}

func TestLoadScenario_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"no steps", "name: empty\n"},
		{"no preset", "steps:\n  - iterations: 2\n"},
		{"negative iterations", "steps:\n  - preset: dragon\n    iterations: -1\n"},
		{"bad format", "steps:\n  - preset: dragon\n    format: jpeg\n"},
		{"bad inline preset", "presets:\n  x:\n    axiom: F\n    step: 1\nsteps:\n  - preset: x\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "s.yaml")
			if err := os.WriteFile(path, []byte(tt.yaml), 0644); err != nil {
				t.Fatal(err)
			}
			if _, err := LoadScenario(path); !errors.Is(err, ErrInvalidScenario) {
				t.Errorf("err = %v, want ErrInvalidScenario", err)
			}
		})
	}
}

func TestRunScenario(t *testing.T) {
	sc, err := LoadScenario(writeScenario(t))
	if err != nil {
		t.Fatal(err)
	}

	opts := render.DefaultOptions()
	opts.Width, opts.Height = 256, 256
	st := storage.New(t.TempDir())

	results, err := RunScenario(context.Background(), sc, render.New(opts), st)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if len(results) != 4 {
		t.Fatalf("got %d results", len(results))
	}

	wantPresets := []string{"dragon", "plant", "square", "koch"}
	for i, res := range results {
		if res.Step != i+1 || res.Preset != wantPresets[i] {
			t.Errorf("result %d = %+v", i, res)
		}
	}
	if results[0].Segments != 64 {
		t.Errorf("dragon 6 segments = %d, want 64", results[0].Segments)
	}
	if results[1].Frames != 3 {
		t.Errorf("plant frames = %d, want 3", results[1].Frames)
	}
	if results[3].Segments != 5 {
		t.Errorf("koch 1 segments = %d, want 5", results[3].Segments)
	}

	dragon, err := st.Load(results[0].RunID)
	if err != nil {
		t.Fatal(err)
	}
	if dragon.Width != 128 || dragon.Height != 128 {
		t.Errorf("dragon size %dx%d, want step override", dragon.Width, dragon.Height)
	}

	plant, err := st.Load(results[1].RunID)
	if err != nil {
		t.Fatal(err)
	}
	if plant.Width != 256 || plant.Format != "bmp" {
		t.Errorf("plant run = %+v", plant)
	}
	for _, name := range []string{"final.bmp", "frame_03.bmp", "anim.gif"} {
		if _, err := os.Stat(st.Path(results[1].RunID, name)); err != nil {
			t.Errorf("plant missing %s", name)
		}
	}

	runs, err := st.List()
	if err != nil || len(runs) != 4 {
		t.Errorf("stored runs = %d, %v", len(runs), err)
	}
}

func TestRunScenario_UnknownPreset(t *testing.T) {
	sc := &Scenario{Steps: []ScenarioStep{{Preset: "nope"}}}
	_, err := RunScenario(context.Background(), sc, render.New(render.DefaultOptions()), storage.New(t.TempDir()))
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestRunSweep(t *testing.T) {
	p, _ := config.GetPreset("plant")
	p.Start = config.StartConfig{X: 128, Y: 255, Heading: p.Start.Heading}
	opts := render.DefaultOptions()
	opts.Width, opts.Height = 256, 256

	sweep := &AngleSweep{Preset: p, Iterations: 3, MinDegrees: 10, MaxDegrees: 40, NumSteps: 4}
	results, err := RunSweep(context.Background(), sweep, render.New(opts))
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 4 {
		t.Fatalf("got %d results", len(results))
	}
	for i, want := range []float64{10, 20, 30, 40} {
		if results[i].Degrees != want {
			t.Errorf("step %d degrees %v, want %v", i, results[i].Degrees, want)
		}
		if results[i].Segments != results[0].Segments {
			t.Errorf("angle changed segment count")
		}
		if results[i].Dimension <= 0 {
			t.Errorf("step %d: no dimension", i)
		}
	}
	if results[0].Extent.Width() >= results[3].Extent.Width() {
		t.Errorf("wider angle should spread the plant: %v vs %v", results[0].Extent.Width(), results[3].Extent.Width())
	}

	if _, err := RunSweep(context.Background(), &AngleSweep{Preset: p}, render.New(opts)); !errors.Is(err, ErrInvalidScenario) {
		t.Errorf("zero steps: %v", err)
	}
}
