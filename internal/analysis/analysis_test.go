package analysis

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/san-kum/lsys/internal/config"
	"github.com/san-kum/lsys/internal/grammar"
	"github.com/san-kum/lsys/internal/raster"
	"github.com/san-kum/lsys/internal/turtle"
)

func TestGrowthSeries(t *testing.T) {
	dragon, _ := config.GetPreset("dragon")
	series := GrowthSeries(dragon.Grammar(), 8)
	if len(series) != 9 {
		t.Fatalf("got %d entries, want 9", len(series))
	}
	for _, g := range series {
		want := len(grammar.Expand(dragon.Grammar(), g.Iteration))
		if g.Length != want {
			t.Errorf("iteration %d length %d, want %d", g.Iteration, g.Length, want)
		}
		if g.Histogram.Count('F') != 1<<g.Iteration {
			t.Errorf("iteration %d F count %d", g.Iteration, g.Histogram.Count('F'))
		}
	}
	if series[0].Ratio != 0 {
		t.Errorf("ratio at 0 = %v", series[0].Ratio)
	}
	if r := series[8].Ratio; r < 1.9 || r > 2.1 {
		t.Errorf("dragon ratio %v, want about 2", r)
	}
}

func TestGrowthSeries_Bounded(t *testing.T) {
	g := grammar.New("F", map[byte]string{'F': "FFFFFFFFFFFFFFFF"})
	series := GrowthSeries(g, 100)
	if len(series) >= 101 {
		t.Fatalf("series did not stop, %d entries", len(series))
	}
	// 16^15 = 2^60 is the last power of 16 that fits in an int.
	if len(series) != 16 {
		t.Fatalf("got %d entries, want 16", len(series))
	}
	if last := series[len(series)-1]; last.Length != 1<<60 {
		t.Errorf("stopped at %d, want %d", last.Length, 1<<60)
	}
	if got := Lengths(series)[1]; got != 16 {
		t.Errorf("Lengths[1] = %v", got)
	}
}

func TestGrowthSeries_LongRule(t *testing.T) {
	g := grammar.New("A", map[byte]string{'A': strings.Repeat("A", 5000)})
	series := GrowthSeries(g, 10)
	if len(series) != 6 {
		t.Fatalf("got %d entries, want 6", len(series))
	}
	for _, s := range series {
		if s.Length <= 0 {
			t.Fatalf("iteration %d has length %d", s.Iteration, s.Length)
		}
	}
	if last := series[5].Length; last != 3125000000000000000 {
		t.Errorf("iteration 5 length %d", last)
	}
}

func TestBounds(t *testing.T) {
	segs := []turtle.Segment{
		{Start: turtle.Point{X: 1, Y: 2}, End: turtle.Point{X: 5, Y: -3}},
		{Start: turtle.Point{X: -4, Y: 0}, End: turtle.Point{X: 0, Y: 7}},
	}
	r := Bounds(segs)
	if r != (Rect{MinX: -4, MinY: -3, MaxX: 5, MaxY: 7}) {
		t.Errorf("bounds = %+v", r)
	}
	if r.Width() != 9 || r.Height() != 10 {
		t.Errorf("size %vx%v", r.Width(), r.Height())
	}
	if r.Fits(100, 100) {
		t.Error("negative coordinates should not fit")
	}

	if !Bounds(nil).Empty() {
		t.Error("empty list should give empty rect")
	}
	if !Bounds(nil).Fits(1, 1) {
		t.Error("empty rect fits anywhere")
	}
}

func TestBounds_Presets(t *testing.T) {
	for _, name := range config.ListPresets() {
		p, _ := config.GetPreset(name)
		segs, err := turtle.Interpret(grammar.Expand(p.Grammar(), 3), p.Params())
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		r := Bounds(segs)
		if r.Empty() {
			t.Errorf("%s: empty bounds", name)
		}
	}
}

func TestTransform(t *testing.T) {
	r := Rect{MinX: 10, MinY: 10, MaxX: 30, MaxY: 20}
	scale, off := r.Transform(100, 100, 10)
	if scale != 4 {
		t.Fatalf("scale = %v, want 4", scale)
	}
	p := r.Map(turtle.Point{X: 10, Y: 10}, scale, off)
	q := r.Map(turtle.Point{X: 30, Y: 20}, scale, off)
	if p.X != 10 || q.X != 90 {
		t.Errorf("x range %v..%v", p.X, q.X)
	}
	if p.Y != 30 || q.Y != 70 {
		t.Errorf("y range %v..%v, want centred", p.Y, q.Y)
	}
}

func TestBoxDimension(t *testing.T) {
	tests := []struct {
		name string
		draw func(c *raster.Canvas)
		want float64
	}{
		{
			name: "filled square",
			draw: func(c *raster.Canvas) { c.Clear(0) },
			want: 2,
		},
		{
			name: "horizontal line",
			draw: func(c *raster.Canvas) {
				for x := 0; x < c.Width(); x++ {
					c.Set(x, 10, 0)
				}
			},
			want: 1,
		},
		{
			name: "diagonal",
			draw: func(c *raster.Canvas) {
				c.DrawLine(turtle.Segment{End: turtle.Point{X: 63, Y: 63}}, 0)
			},
			want: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := raster.NewCanvas(64, 64, 255)
			tt.draw(c)
			d, err := BoxDimension(c, 0)
			if err != nil {
				t.Fatal(err)
			}
			if math.Abs(d-tt.want) > 0.05 {
				t.Errorf("dimension = %v, want %v", d, tt.want)
			}
		})
	}
}

func TestBoxDimension_Errors(t *testing.T) {
	if _, err := BoxDimension(raster.NewCanvas(64, 64, 255), 0); !errors.Is(err, ErrNoInk) {
		t.Errorf("blank canvas: %v", err)
	}
	if _, err := BoxDimension(raster.NewCanvas(4, 4, 0), 0); !errors.Is(err, ErrCanvasSmall) {
		t.Errorf("tiny canvas: %v", err)
	}
}

func TestBoxDimension_Dragon(t *testing.T) {
	p, _ := config.GetPreset("dragon")
	p.Step = 2
	p.Start.X, p.Start.Y = 256, 256
	segs, err := turtle.Interpret(grammar.Expand(p.Grammar(), 12), p.Params())
	if err != nil {
		t.Fatal(err)
	}
	c := raster.Rasterize(segs, 512, 512, 255, 0)
	d, err := BoxDimension(c, 0)
	if err != nil {
		t.Fatal(err)
	}
	if d <= 1.2 || d > 2.05 {
		t.Errorf("dragon dimension %v outside (1.2, 2]", d)
	}
}
