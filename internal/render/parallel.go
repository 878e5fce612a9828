package render

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/lsys/internal/config"
)

// Job selects a preset and the iteration to render.
type Job struct {
	Preset     config.Preset
	Iterations int
}

// RenderAll renders each job on its own goroutine and returns the final
// frames in job order. The first failure cancels jobs that have not started.
func RenderAll(ctx context.Context, r *Renderer, jobs []Job) ([]*Frame, error) {
	frames := make([]*Frame, len(jobs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, job := range jobs {
		i, job := i, job
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			f, err := r.Render(job.Preset, job.Iterations)
			if err != nil {
				return err
			}
			frames[i] = f
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return frames, nil
}
