package render_test

import (
	"context"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/lsys/internal/config"
	"github.com/san-kum/lsys/internal/render"
	"github.com/san-kum/lsys/internal/turtle"
)

var _ = Describe("RenderAll", func() {
	It("renders presets concurrently and keeps job order", func() {
		r := render.New(render.DefaultOptions())
		names := config.ListPresets()
		jobs := make([]render.Job, 0, len(names))
		for _, name := range names {
			jobs = append(jobs, render.Job{Preset: mustPreset(name), Iterations: 4})
		}

		frames, err := render.RenderAll(context.Background(), r, jobs)
		Expect(err).NotTo(HaveOccurred())
		Expect(frames).To(HaveLen(len(jobs)))

		for i, f := range frames {
			Expect(f.Preset).To(Equal(names[i]))
			serial, err := render.New(render.DefaultOptions()).Render(jobs[i].Preset, 4)
			Expect(err).NotTo(HaveOccurred())
			Expect(f.Canvas.Equal(serial.Canvas)).To(BeTrue())
		}
	})

	It("fails when any job fails", func() {
		r := render.New(render.DefaultOptions())
		bad := config.Preset{Name: "bad", Axiom: "]", Step: 1, Draw: "F", Push: "[", Pop: "]"}
		jobs := []render.Job{
			{Preset: mustPreset("dragon"), Iterations: 3},
			{Preset: bad, Iterations: 1},
		}
		_, err := render.RenderAll(context.Background(), r, jobs)
		Expect(err).To(MatchError(turtle.ErrStackUnderflow))
	})
})
