package analysis

import (
	"errors"
	"math"

	"github.com/san-kum/lsys/internal/raster"
)

var (
	ErrNoInk       = errors.New("analysis: canvas has no ink")
	ErrCanvasSmall = errors.New("analysis: canvas too small for box counting")
)

// BoxCount is the number of occupied boxes at one box size.
type BoxCount struct {
	Size  int
	Boxes int
}

// BoxCounts covers c with boxes of side 1, 2, 4, ... up to a quarter of the
// shorter side and counts the boxes containing a pixel equal to ink.
func BoxCounts(c *raster.Canvas, ink uint8) []BoxCount {
	w, h := c.Width(), c.Height()
	limit := max(min(w, h)/4, 1)

	var out []BoxCount
	for size := 1; size <= limit; size *= 2 {
		cols := (w + size - 1) / size
		rows := (h + size - 1) / size
		seen := make([]bool, cols*rows)
		n := 0
		pix := c.Pix()
		for y := 0; y < h; y++ {
			row := pix[y*w : (y+1)*w]
			by := y / size
			for x, v := range row {
				if v != ink {
					continue
				}
				i := by*cols + x/size
				if !seen[i] {
					seen[i] = true
					n++
				}
			}
		}
		out = append(out, BoxCount{Size: size, Boxes: n})
	}
	return out
}

// BoxDimension estimates the box-counting dimension of the ink pixels in c
// as the least-squares slope of log N against log(1/size).
func BoxDimension(c *raster.Canvas, ink uint8) (float64, error) {
	counts := BoxCounts(c, ink)
	if len(counts) < 2 {
		return 0, ErrCanvasSmall
	}
	if counts[0].Boxes == 0 {
		return 0, ErrNoInk
	}

	xs := make([]float64, len(counts))
	ys := make([]float64, len(counts))
	for i, bc := range counts {
		xs[i] = -math.Log(float64(bc.Size))
		ys[i] = math.Log(float64(bc.Boxes))
	}
	return slope(xs, ys), nil
}

func slope(xs, ys []float64) float64 {
	n := float64(len(xs))
	var sx, sy, sxx, sxy float64
	for i := range xs {
		sx += xs[i]
		sy += ys[i]
		sxx += xs[i] * xs[i]
		sxy += xs[i] * ys[i]
	}
	den := n*sxx - sx*sx
	if den == 0 {
		return 0
	}
	return (n*sxy - sx*sy) / den
}
