package export

import (
	"fmt"
	"strings"

	"github.com/san-kum/lsys/internal/analysis"
	"github.com/san-kum/lsys/internal/turtle"
)

// SegmentsToSVG draws segments in canvas coordinates. Consecutive segments
// that share an endpoint become one polyline; a jump starts a new subpath.
func SegmentsToSVG(segs []turtle.Segment, width, height int, stroke, background string) string {
	return writeSVG(segs, width, height, stroke, background, func(p turtle.Point) turtle.Point { return p })
}

// FitSegmentsToSVG scales the drawing to fill the image with a 5% margin,
// whatever the turtle's start position and step were.
func FitSegmentsToSVG(segs []turtle.Segment, width, height int, stroke, background string) string {
	r := analysis.Bounds(segs)
	margin := 0.05 * float64(min(width, height))
	scale, off := r.Transform(float64(width), float64(height), margin)
	return writeSVG(segs, width, height, stroke, background, func(p turtle.Point) turtle.Point {
		return r.Map(p, scale, off)
	})
}

func writeSVG(segs []turtle.Segment, width, height int, stroke, background string, tr func(turtle.Point) turtle.Point) string {
	if stroke == "" {
		stroke = "#000000"
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
`, width, height, width, height))
	if background != "" {
		sb.WriteString(fmt.Sprintf(`<rect width="100%%" height="100%%" fill="%s"/>
`, background))
	}

	if len(segs) > 0 {
		sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="%s" stroke-width="1" stroke-linecap="round" d="`, stroke))
		var prev turtle.Point
		for i, s := range segs {
			if i == 0 || s.Start != prev {
				if i > 0 {
					sb.WriteByte(' ')
				}
				a := tr(s.Start)
				sb.WriteString(fmt.Sprintf("M%.2f,%.2f", a.X, a.Y))
			}
			b := tr(s.End)
			sb.WriteString(fmt.Sprintf(" L%.2f,%.2f", b.X, b.Y))
			prev = s.End
		}
		sb.WriteString(`"/>
`)
	}

	sb.WriteString("</svg>")
	return sb.String()
}
