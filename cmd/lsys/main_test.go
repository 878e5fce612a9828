package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/lsys/internal/config"
	"github.com/san-kum/lsys/internal/grammar"
	"github.com/san-kum/lsys/internal/render"
)

func TestResolvePreset(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Presets = map[string]config.Preset{
		"mine": {Name: "mine", Axiom: "F", Step: 1, Draw: "F"},
	}

	p, err := resolvePreset(cfg, "dragon")
	if err != nil || p.Name != "dragon" {
		t.Fatalf("dragon: %v %v", p.Name, err)
	}
	if p, err = resolvePreset(cfg, "mine"); err != nil || p.Axiom != "F" {
		t.Fatalf("user preset: %+v %v", p, err)
	}
	if _, err := resolvePreset(cfg, "nope"); err == nil {
		t.Error("expected unknown preset error")
	}

	path := filepath.Join(t.TempDir(), "koch.yml")
	koch := config.Preset{Name: "koch", Axiom: "F", Rules: map[string]string{"F": "F+F-F-F+F"}, Step: 2, TurnDegrees: 90, Draw: "F", TurnLeft: "+", TurnRight: "-"}
	if err := config.SavePreset(path, koch); err != nil {
		t.Fatal(err)
	}
	if p, err = resolvePreset(cfg, path); err != nil || p.Name != "koch" {
		t.Fatalf("file preset: %+v %v", p, err)
	}

	if err := os.WriteFile(path, []byte("axiom: ''\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := resolvePreset(cfg, path); err == nil {
		t.Error("invalid file should fail")
	}
}

func TestRuleList(t *testing.T) {
	p, _ := config.GetPreset("plant")
	if got := ruleList(p); got != "F->FF; X->F+[[X]-X]-F[-FX]+X" {
		t.Errorf("rules = %q", got)
	}
	if got := ruleList(config.Preset{Axiom: "F"}); got != "" {
		t.Errorf("no rules = %q", got)
	}
}

func TestBenchPreset_Limits(t *testing.T) {
	doubling := config.Preset{Name: "doubling", Axiom: "A", Rules: map[string]string{"A": "AA"}, Iterations: 33, Step: 1, Draw: "A"}

	cfg := config.DefaultConfig()
	cfg.CacheSize = 0
	_, err := benchPreset(render.New(render.OptionsFromConfig(cfg)), doubling, 1)
	if !errors.Is(err, render.ErrIterationLimit) {
		t.Errorf("default ceiling: err = %v, want ErrIterationLimit", err)
	}

	cfg.MaxIterations = 40
	cfg.MaxSymbols = 1000
	_, err = benchPreset(render.New(render.OptionsFromConfig(cfg)), doubling, 1)
	if !errors.Is(err, grammar.ErrResourceLimit) {
		t.Errorf("symbol ceiling: err = %v, want ErrResourceLimit", err)
	}

	doubling.Iterations = 5
	row, err := benchPreset(render.New(render.OptionsFromConfig(cfg)), doubling, 2)
	if err != nil {
		t.Fatal(err)
	}
	if row.Symbols != 32 || row.Segments != 32 {
		t.Errorf("row = %+v", row)
	}
}
