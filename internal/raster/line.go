package raster

import (
	"math"

	"github.com/san-kum/lsys/internal/turtle"
)

// DrawLine draws s with value v. Endpoints are rounded to the nearest pixel
// centre and the span between them is stepped with Bresenham's algorithm.
// Segments with non-finite coordinates are dropped.
func (c *Canvas) DrawLine(s turtle.Segment, v uint8) {
	if c.width == 0 || c.height == 0 {
		return
	}
	x0, y0, x1, y1 := s.Start.X, s.Start.Y, s.End.X, s.End.Y
	if !finite(x0) || !finite(y0) || !finite(x1) || !finite(y1) {
		return
	}

	if !c.inside(x0, y0) || !c.inside(x1, y1) {
		var ok bool
		x0, y0, x1, y1, ok = c.clip(x0, y0, x1, y1)
		if !ok {
			return
		}
	}

	c.bresenham(
		int(math.Round(x0)), int(math.Round(y0)),
		int(math.Round(x1)), int(math.Round(y1)),
		v,
	)
}

func (c *Canvas) bresenham(x0, y0, x1, y1 int, v uint8) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		c.Set(x0, y0, v)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

// inside reports whether a point rounds onto the canvas.
func (c *Canvas) inside(x, y float64) bool {
	return x > -0.5 && y > -0.5 && x < float64(c.width)-0.5 && y < float64(c.height)-0.5
}

// clip trims the segment to the pixel-centre rectangle using Liang-Barsky.
func (c *Canvas) clip(x0, y0, x1, y1 float64) (float64, float64, float64, float64, bool) {
	const margin = 0.49
	xmin, ymin := -margin, -margin
	xmax, ymax := float64(c.width-1)+margin, float64(c.height-1)+margin

	dx, dy := x1-x0, y1-y0
	if !finite(dx) || !finite(dy) {
		// Endpoints near the float64 limit; pull them into a finite band.
		x0, y0, x1, y1 = band(x0), band(y0), band(x1), band(y1)
		dx, dy = x1-x0, y1-y0
	}
	t0, t1 := 0.0, 1.0

	edges := [4][2]float64{
		{-dx, x0 - xmin},
		{dx, xmax - x0},
		{-dy, y0 - ymin},
		{dy, ymax - y0},
	}
	for _, e := range edges {
		p, q := e[0], e[1]
		if p == 0 {
			if q < 0 {
				return 0, 0, 0, 0, false
			}
			continue
		}
		r := q / p
		if p < 0 {
			if r > t1 {
				return 0, 0, 0, 0, false
			}
			if r > t0 {
				t0 = r
			}
		} else {
			if r < t0 {
				return 0, 0, 0, 0, false
			}
			if r < t1 {
				t1 = r
			}
		}
	}

	return x0 + t0*dx, y0 + t0*dy, x0 + t1*dx, y0 + t1*dy, true
}

const guardBand = 1e9

func band(f float64) float64 {
	return math.Max(-guardBand, math.Min(guardBand, f))
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
