package viz

import (
	"strings"

	"github.com/san-kum/lsys/internal/analysis"
	"github.com/san-kum/lsys/internal/turtle"
)

// Braille Patterns: 2x4 dots
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

const blank = 0x2800

// Canvas is a grid of braille cells, each holding 2x4 dots.
type Canvas struct {
	Width, Height int
	Grid          [][]rune
}

func NewCanvas(w, h int) *Canvas {
	w, h = max(w, 0), max(h, 0)
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
	}
	c.Clear()
	return c
}

// Dots returns the canvas size in dots.
func (c *Canvas) Dots() (int, int) { return c.Width * 2, c.Height * 4 }

// Set raises the dot at (x, y). The canvas is (Width*2) x (Height*4) dots.
func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 {
		return
	}
	col, row := x/2, y/4
	if col >= c.Width || row >= c.Height {
		return
	}
	c.Grid[row][col] |= rune(pixelMap[y%4][x%2])
}

func (c *Canvas) IsSet(x, y int) bool {
	if x < 0 || y < 0 {
		return false
	}
	col, row := x/2, y/4
	if col >= c.Width || row >= c.Height {
		return false
	}
	return c.Grid[row][col]&rune(pixelMap[y%4][x%2]) != 0
}

func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = blank
		}
	}
}

// Count returns the number of raised dots.
func (c *Canvas) Count() int {
	n := 0
	for _, row := range c.Grid {
		for _, r := range row {
			for bits := r - blank; bits != 0; bits &= bits - 1 {
				n++
			}
		}
	}
	return n
}

// DrawLine draws a line using Bresenham's algorithm
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
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
		c.Set(x0, y0)
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

// Plot clears the canvas and draws segs scaled to fit, keeping the aspect
// ratio and a one-dot margin.
func (c *Canvas) Plot(segs []turtle.Segment) {
	c.Clear()
	if len(segs) == 0 || c.Width == 0 || c.Height == 0 {
		return
	}
	w, h := c.Dots()
	r := analysis.Bounds(segs)
	scale, off := r.Transform(float64(w-1), float64(h-1), 1)

	for _, s := range segs {
		a := r.Map(s.Start, scale, off)
		b := r.Map(s.End, scale, off)
		c.DrawLine(round(a.X), round(a.Y), round(b.X), round(b.Y))
	}
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row) + "\n")
	}
	return b.String()
}

func round(f float64) int {
	if f < 0 {
		return int(f - 0.5)
	}
	return int(f + 0.5)
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
