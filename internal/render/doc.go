// Package render drives the full L-system pipeline for a preset:
//
//	preset -> grammar.Rewriter -> turtle -> raster.Canvas
//
// A [Renderer] owns the rewrite cache and limits. Every call builds its own
// turtle state, segment list and canvas, so independent presets can be
// rendered concurrently with [RenderAll].
//
// # Example
//
//	r := render.New(render.DefaultOptions())
//	p, _ := config.GetPreset("dragon")
//	final, err := r.Progressive(ctx, p, p.Iterations, func(f *render.Frame) error {
//	    return save(f.Canvas)
//	})
//
// # Logging
//
// The package is silent until [SetLogger] installs a logger.
package render
