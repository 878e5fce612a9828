// Package analysis measures L-system growth and the geometry of rendered
// drawings.
//
//   - [GrowthSeries]: string length per iteration, computed from symbol
//     histograms without expanding the string
//   - [Bounds]: bounding box of a segment list
//   - [BoxDimension]: box-counting estimate of the fractal dimension of a
//     rasterized drawing
//
// # Dimension
//
// Box counting covers the canvas with boxes of side 1, 2, 4, ... pixels,
// counts the boxes touching ink and fits log N against log(1/size):
//
//	d, err := analysis.BoxDimension(frame.Canvas, 0)
//	// dragon curve: d is close to 2
package analysis
