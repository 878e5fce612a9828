package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/lsys/internal/grammar"
	"github.com/san-kum/lsys/internal/turtle"
)

// ErrInvalidPreset indicates a preset that cannot be interpreted.
var ErrInvalidPreset = errors.New("config: invalid preset")

// Preset bundles a grammar with everything the turtle needs to draw it.
// Symbol roles are one-character strings so presets read naturally in YAML.
type Preset struct {
	Name        string            `yaml:"name"`
	Description string            `yaml:"description,omitempty"`
	Axiom       string            `yaml:"axiom"`
	Rules       map[string]string `yaml:"rules"`
	Iterations  int               `yaml:"iterations"`
	Step        float64           `yaml:"step"`
	TurnAngle   float64           `yaml:"turn_angle"`
	TurnDegrees float64           `yaml:"turn_degrees,omitempty"`
	Draw        string            `yaml:"draw"`
	TurnLeft    string            `yaml:"turn_left,omitempty"`
	TurnRight   string            `yaml:"turn_right,omitempty"`
	Push        string            `yaml:"push,omitempty"`
	Pop         string            `yaml:"pop,omitempty"`
	PushTurn    float64           `yaml:"push_turn,omitempty"`
	PopTurn     float64           `yaml:"pop_turn,omitempty"`
	Start       StartConfig       `yaml:"start"`
}

type StartConfig struct {
	X       float64 `yaml:"x"`
	Y       float64 `yaml:"y"`
	Heading float64 `yaml:"heading"`
}

// Built-in presets, laid out for a 1024x1024 canvas. Headings are radians
// with y pointing down, so -π/2 draws upward.
var Presets = map[string]Preset{
	"binary-tree": {
		Name:        "binary-tree",
		Description: "binary fractal tree",
		Axiom:       "0",
		Rules:       map[string]string{"1": "11", "0": "1[0]0"},
		Iterations:  6,
		Step:        10,
		TurnAngle:   math.Pi / 4,
		Draw:        "01",
		Push:        "[",
		Pop:         "]",
		// The tree leans left on every push and back right on every pop,
		// on top of the restored heading.
		PushTurn: -math.Pi / 4,
		PopTurn:  math.Pi / 4,
		Start:    StartConfig{X: 1024 / 2, Y: 1024 - 1, Heading: -math.Pi / 2},
	},
	"sierpinski": {
		Name:        "sierpinski",
		Description: "Sierpinski triangle",
		Axiom:       "F-G-G",
		Rules:       map[string]string{"F": "F-G+F+G-F", "G": "GG"},
		Iterations:  6,
		Step:        15,
		TurnAngle:   2 * math.Pi / 3,
		Draw:        "FG",
		TurnLeft:    "+",
		TurnRight:   "-",
		Start:       StartConfig{X: 0, Y: 1024 - 1, Heading: -math.Pi / 2},
	},
	"dragon": {
		Name:        "dragon",
		Description: "Heighway dragon curve",
		Axiom:       "FX",
		Rules:       map[string]string{"X": "X+YF+", "Y": "-FX-Y"},
		Iterations:  14,
		Step:        5,
		TurnAngle:   math.Pi / 2,
		Draw:        "F",
		TurnLeft:    "-",
		TurnRight:   "+",
		Start:       StartConfig{X: 1024 / 1.35, Y: 1024.0 / 3, Heading: -math.Pi / 2},
	},
	"plant": {
		Name:        "plant",
		Description: "fractal plant",
		Axiom:       "X",
		Rules:       map[string]string{"X": "F+[[X]-X]-F[-FX]+X", "F": "FF"},
		Iterations:  6,
		Step:        10,
		TurnAngle:   math.Pi / 7.2,
		Draw:        "F",
		TurnLeft:    "+",
		TurnRight:   "-",
		Push:        "[",
		Pop:         "]",
		Start:       StartConfig{X: 1024 / 2, Y: 1024 - 1, Heading: -math.Pi / 2},
	},
}

// GetPreset returns a copy of a built-in preset.
func GetPreset(name string) (Preset, bool) {
	p, ok := Presets[name]
	if !ok {
		return Preset{}, false
	}
	return p.Clone(), true
}

// ListPresets returns the built-in preset names in sorted order.
func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Clone returns a deep copy.
func (p Preset) Clone() Preset {
	rules := make(map[string]string, len(p.Rules))
	for k, v := range p.Rules {
		rules[k] = v
	}
	p.Rules = rules
	return p
}

// Angle returns the turn angle in radians, preferring TurnDegrees when set.
func (p Preset) Angle() float64 {
	if p.TurnDegrees != 0 {
		return p.TurnDegrees * math.Pi / 180
	}
	return p.TurnAngle
}

// Grammar builds the rewrite grammar.
func (p Preset) Grammar() grammar.Grammar {
	rules := make(map[byte]string, len(p.Rules))
	for k, v := range p.Rules {
		if len(k) == 1 {
			rules[k[0]] = v
		}
	}
	return grammar.New(p.Axiom, rules)
}

// Params builds the turtle parameters.
func (p Preset) Params() turtle.Params {
	return turtle.Params{
		Step:      p.Step,
		TurnAngle: p.Angle(),
		Draw:      p.Draw,
		TurnLeft:  symbol(p.TurnLeft),
		TurnRight: symbol(p.TurnRight),
		Push:      symbol(p.Push),
		Pop:       symbol(p.Pop),
		PushTurn:  p.PushTurn,
		PopTurn:   p.PopTurn,
		Start: turtle.State{
			Pos:     turtle.Point{X: p.Start.X, Y: p.Start.Y},
			Heading: p.Start.Heading,
		},
	}
}

// Validate reports the first structural problem with the preset.
func (p Preset) Validate() error {
	if p.Axiom == "" {
		return fmt.Errorf("%w: empty axiom", ErrInvalidPreset)
	}
	for k := range p.Rules {
		if len(k) != 1 {
			return fmt.Errorf("%w: rule key %q is not a single symbol", ErrInvalidPreset, k)
		}
	}
	if p.Draw == "" {
		return fmt.Errorf("%w: no draw symbols", ErrInvalidPreset)
	}
	if p.Iterations < 0 {
		return fmt.Errorf("%w: negative iterations", ErrInvalidPreset)
	}
	if p.Step <= 0 || math.IsNaN(p.Step) || math.IsInf(p.Step, 0) {
		return fmt.Errorf("%w: step must be a positive number", ErrInvalidPreset)
	}
	roles := [...]struct{ field, value string }{
		{"turn_left", p.TurnLeft},
		{"turn_right", p.TurnRight},
		{"push", p.Push},
		{"pop", p.Pop},
	}
	for _, r := range roles {
		if len(r.value) > 1 {
			return fmt.Errorf("%w: %s %q is not a single symbol", ErrInvalidPreset, r.field, r.value)
		}
	}
	if (p.Push == "") != (p.Pop == "") {
		return fmt.Errorf("%w: push and pop must be set together", ErrInvalidPreset)
	}
	seen := make(map[string]string, len(roles))
	for _, r := range roles {
		if r.value == "" {
			continue
		}
		if other, ok := seen[r.value]; ok {
			return fmt.Errorf("%w: %s and %s share symbol %q", ErrInvalidPreset, other, r.field, r.value)
		}
		seen[r.value] = r.field
		if strings.Contains(p.Draw, r.value) {
			return fmt.Errorf("%w: %s symbol %q is also a draw symbol", ErrInvalidPreset, r.field, r.value)
		}
	}
	return nil
}

// LoadPreset reads a single preset from YAML.
func LoadPreset(path string) (Preset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Preset{}, err
	}
	var p Preset
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Preset{}, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := p.Validate(); err != nil {
		return Preset{}, err
	}
	return p, nil
}

func SavePreset(path string, p Preset) error {
	data, err := yaml.Marshal(p)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func symbol(s string) byte {
	if s == "" {
		return 0
	}
	return s[0]
}
