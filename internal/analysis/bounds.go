package analysis

import (
	"math"

	"github.com/san-kum/lsys/internal/turtle"
)

type Rect struct {
	MinX, MinY float64
	MaxX, MaxY float64
}

// Bounds returns the box covering every segment endpoint. An empty list
// yields an empty Rect.
func Bounds(segs []turtle.Segment) Rect {
	r := Rect{
		MinX: math.Inf(1), MinY: math.Inf(1),
		MaxX: math.Inf(-1), MaxY: math.Inf(-1),
	}
	for _, s := range segs {
		r = r.add(s.Start).add(s.End)
	}
	return r
}

func (r Rect) add(p turtle.Point) Rect {
	r.MinX = math.Min(r.MinX, p.X)
	r.MinY = math.Min(r.MinY, p.Y)
	r.MaxX = math.Max(r.MaxX, p.X)
	r.MaxY = math.Max(r.MaxY, p.Y)
	return r
}

func (r Rect) Empty() bool { return r.MinX > r.MaxX || r.MinY > r.MaxY }

func (r Rect) Width() float64 {
	if r.Empty() {
		return 0
	}
	return r.MaxX - r.MinX
}

func (r Rect) Height() float64 {
	if r.Empty() {
		return 0
	}
	return r.MaxY - r.MinY
}

// Fits reports whether every point rounds onto a w x h pixel grid.
func (r Rect) Fits(w, h int) bool {
	if r.Empty() {
		return true
	}
	return r.MinX > -0.5 && r.MinY > -0.5 &&
		r.MaxX < float64(w)-0.5 && r.MaxY < float64(h)-0.5
}

// Transform returns the uniform scale and offset mapping r into a w x h box
// with margin units on every side, centred. A point p maps to
// (p - min) * scale + offset.
func (r Rect) Transform(w, h, margin float64) (scale float64, offset turtle.Point) {
	if r.Empty() {
		return 1, turtle.Point{X: w / 2, Y: h / 2}
	}
	aw, ah := w-2*margin, h-2*margin
	rw, rh := r.Width(), r.Height()
	switch {
	case rw == 0 && rh == 0:
		scale = 1
	case rw == 0:
		scale = ah / rh
	case rh == 0:
		scale = aw / rw
	default:
		scale = math.Min(aw/rw, ah/rh)
	}
	offset = turtle.Point{
		X: margin + (aw-rw*scale)/2,
		Y: margin + (ah-rh*scale)/2,
	}
	return scale, offset
}

// Map applies a Transform result to p.
func (r Rect) Map(p turtle.Point, scale float64, offset turtle.Point) turtle.Point {
	return turtle.Point{
		X: (p.X-r.MinX)*scale + offset.X,
		Y: (p.Y-r.MinY)*scale + offset.Y,
	}
}
