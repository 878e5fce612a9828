package raster

import (
	"image"
	"image/color"

	"github.com/san-kum/lsys/internal/turtle"
)

// Canvas is a fixed-size 8-bit grayscale bitmap.
type Canvas struct {
	width  int
	height int
	pix    []uint8
}

// NewCanvas creates a canvas filled with background. Non-positive sizes
// yield an empty canvas that ignores every write.
func NewCanvas(width, height int, background uint8) *Canvas {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	c := &Canvas{
		width:  width,
		height: height,
		pix:    make([]uint8, width*height),
	}
	c.Clear(background)
	return c
}

// Width returns the width in pixels.
func (c *Canvas) Width() int { return c.width }

// Height returns the height in pixels.
func (c *Canvas) Height() int { return c.height }

// Pix returns the raw row-major pixel buffer.
func (c *Canvas) Pix() []uint8 { return c.pix }

// Clear fills the canvas with v.
func (c *Canvas) Clear(v uint8) {
	for i := range c.pix {
		c.pix[i] = v
	}
}

// Set writes one pixel. Out-of-range coordinates are ignored.
func (c *Canvas) Set(x, y int, v uint8) {
	if x < 0 || x >= c.width || y < 0 || y >= c.height {
		return
	}
	c.pix[y*c.width+x] = v
}

// Value reads one pixel. Out-of-range coordinates read as 0.
func (c *Canvas) Value(x, y int) uint8 {
	if x < 0 || x >= c.width || y < 0 || y >= c.height {
		return 0
	}
	return c.pix[y*c.width+x]
}

// Count returns the number of pixels equal to v.
func (c *Canvas) Count(v uint8) int {
	n := 0
	for _, p := range c.pix {
		if p == v {
			n++
		}
	}
	return n
}

// Equal reports whether both canvases have the same size and pixels.
func (c *Canvas) Equal(o *Canvas) bool {
	if c.width != o.width || c.height != o.height {
		return false
	}
	for i := range c.pix {
		if c.pix[i] != o.pix[i] {
			return false
		}
	}
	return true
}

// Clone returns an independent copy.
func (c *Canvas) Clone() *Canvas {
	pix := make([]uint8, len(c.pix))
	copy(pix, c.pix)
	return &Canvas{width: c.width, height: c.height, pix: pix}
}

// Gray returns the canvas as a new *image.Gray.
func (c *Canvas) Gray() *image.Gray {
	img := image.NewGray(image.Rect(0, 0, c.width, c.height))
	copy(img.Pix, c.pix)
	return img
}

// At implements the image.Image interface.
func (c *Canvas) At(x, y int) color.Color {
	return color.Gray{Y: c.Value(x, y)}
}

// Bounds implements the image.Image interface.
func (c *Canvas) Bounds() image.Rectangle {
	return image.Rect(0, 0, c.width, c.height)
}

// ColorModel implements the image.Image interface.
func (c *Canvas) ColorModel() color.Model {
	return color.GrayModel
}

// Rasterize draws segments in order onto a new canvas. Later segments
// overwrite earlier ones.
func Rasterize(segments []turtle.Segment, width, height int, background, ink uint8) *Canvas {
	c := NewCanvas(width, height, background)
	for _, s := range segments {
		c.DrawLine(s, ink)
	}
	return c
}
