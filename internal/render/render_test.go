package render_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/lsys/internal/config"
	"github.com/san-kum/lsys/internal/grammar"
	"github.com/san-kum/lsys/internal/render"
	"github.com/san-kum/lsys/internal/turtle"
)

type frameRecorder struct {
	iterations []int
}

func (f *frameRecorder) OnFrame(fr *render.Frame) {
	f.iterations = append(f.iterations, fr.Iteration)
}

func mustPreset(name string) config.Preset {
	p, ok := config.GetPreset(name)
	Expect(ok).To(BeTrue(), "missing preset %s", name)
	return p
}

var _ = Describe("Renderer", func() {
	var r *render.Renderer

	BeforeEach(func() {
		r = render.New(render.DefaultOptions())
	})

	Describe("Render", func() {
		It("renders the first dragon iteration", func() {
			f, err := r.Render(mustPreset("dragon"), 1)
			Expect(err).NotTo(HaveOccurred())
			Expect(f.Preset).To(Equal("dragon"))
			Expect(f.Iteration).To(Equal(1))
			Expect(f.Symbols).To(Equal(len("FX+YF+")))
			Expect(f.Segments).To(HaveLen(2))
			Expect(f.Canvas.Width()).To(Equal(1024))
			Expect(f.Canvas.Count(0)).To(BeNumerically(">", 0))
		})

		It("draws every built-in preset at its default depth", func() {
			for _, name := range config.ListPresets() {
				p := mustPreset(name)
				f, err := r.Render(p, p.Iterations)
				Expect(err).NotTo(HaveOccurred(), name)
				Expect(f.Segments).NotTo(BeEmpty(), name)
				Expect(f.Canvas.Count(0)).To(BeNumerically(">", 100), name)
			}
		})

		It("records branch depth for bracketed grammars", func() {
			f, err := r.Render(mustPreset("plant"), 3)
			Expect(err).NotTo(HaveOccurred())
			Expect(f.MaxDepth).To(BeNumerically(">=", 3))

			f, err = r.Render(mustPreset("dragon"), 5)
			Expect(err).NotTo(HaveOccurred())
			Expect(f.MaxDepth).To(BeZero())
		})

		It("is idempotent", func() {
			for _, name := range config.ListPresets() {
				p := mustPreset(name)
				a, err := r.Render(p, 4)
				Expect(err).NotTo(HaveOccurred())
				b, err := render.New(render.DefaultOptions()).Render(p, 4)
				Expect(err).NotTo(HaveOccurred())

				Expect(a.Segments).To(Equal(b.Segments), name)
				Expect(a.Canvas.Equal(b.Canvas)).To(BeTrue(), name)
			}
		})

		It("renders the axiom at iteration zero", func() {
			f, err := r.Render(mustPreset("binary-tree"), 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(f.Symbols).To(Equal(1))
			Expect(f.Segments).To(HaveLen(1))
		})

		It("rejects iteration counts above the ceiling", func() {
			opts := render.DefaultOptions()
			opts.MaxIterations = 5
			_, err := render.New(opts).Render(mustPreset("dragon"), 6)
			Expect(err).To(MatchError(render.ErrIterationLimit))
		})

		It("rejects negative iteration counts", func() {
			_, err := r.Render(mustPreset("dragon"), -1)
			Expect(err).To(MatchError(grammar.ErrNegativeIterations))
		})

		It("surfaces symbol ceilings as resource-limit errors", func() {
			opts := render.DefaultOptions()
			opts.MaxSymbols = 100
			_, err := render.New(opts).Render(mustPreset("dragon"), 14)
			Expect(err).To(MatchError(grammar.ErrResourceLimit))
		})

		It("rejects an empty canvas", func() {
			opts := render.DefaultOptions()
			opts.Width = 0
			_, err := render.New(opts).Render(mustPreset("plant"), 1)
			Expect(err).To(MatchError(render.ErrInvalidOptions))
		})

		It("aborts on stack underflow and leaves the preset reusable", func() {
			bad := config.Preset{
				Name:  "bad",
				Axiom: "F]F",
				Rules: map[string]string{"F": "FF"},
				Step:  1,
				Draw:  "F",
				Push:  "[",
				Pop:   "]",
			}
			_, err := r.Render(bad, 2)
			Expect(err).To(MatchError(turtle.ErrStackUnderflow))

			var te *turtle.Error
			Expect(errors.As(err, &te)).To(BeTrue())
			Expect(te.Index).To(Equal(4))

			Expect(bad.Rules).To(Equal(map[string]string{"F": "FF"}))

			bad.Axiom = "F[F]F"
			_, err = r.Render(bad, 2)
			Expect(err).NotTo(HaveOccurred())
		})

		It("notifies observers", func() {
			rec := &frameRecorder{}
			r.AddObserver(rec)
			_, err := r.Progressive(context.Background(), mustPreset("sierpinski"), 3, nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(rec.iterations).To(Equal([]int{1, 2, 3}))
		})
	})

	Describe("Segments", func() {
		It("matches the rendered frame", func() {
			p := mustPreset("plant")
			segs, err := r.Segments(p, 3)
			Expect(err).NotTo(HaveOccurred())
			f, err := r.Render(p, 3)
			Expect(err).NotTo(HaveOccurred())
			Expect(segs).To(Equal(f.Segments))
		})
	})

	Describe("Progressive", func() {
		It("produces one frame per iteration equal to independent renders", func() {
			p := mustPreset("plant")
			var frames []*render.Frame
			last, err := r.Progressive(context.Background(), p, 4, func(f *render.Frame) error {
				frames = append(frames, f)
				return nil
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(frames).To(HaveLen(4))
			Expect(last).To(BeIdenticalTo(frames[3]))

			fresh := render.New(render.DefaultOptions())
			for i, f := range frames {
				Expect(f.Iteration).To(Equal(i + 1))
				want, err := fresh.Render(p, i+1)
				Expect(err).NotTo(HaveOccurred())
				Expect(f.Segments).To(Equal(want.Segments))
				Expect(f.Canvas.Equal(want.Canvas)).To(BeTrue())
			}
		})

		It("renders only the axiom for zero iterations", func() {
			last, err := r.Progressive(context.Background(), mustPreset("dragon"), 0, nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(last.Iteration).To(BeZero())
		})

		It("stops when the callback fails", func() {
			stop := errors.New("stop")
			calls := 0
			_, err := r.Progressive(context.Background(), mustPreset("dragon"), 6, func(f *render.Frame) error {
				calls++
				if f.Iteration == 2 {
					return stop
				}
				return nil
			})
			Expect(err).To(MatchError(stop))
			Expect(calls).To(Equal(2))
		})

		It("honours cancellation", func() {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			_, err := r.Progressive(ctx, mustPreset("dragon"), 3, nil)
			Expect(err).To(MatchError(context.Canceled))
		})
	})

	Describe("logging", func() {
		AfterEach(func() {
			render.SetLogger(nil)
		})

		It("is silent by default and reports clipped drawings when enabled", func() {
			Expect(render.Logger()).NotTo(BeNil())

			var buf bytes.Buffer
			render.SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))

			opts := render.DefaultOptions()
			opts.Width, opts.Height = 64, 64
			_, err := render.New(opts).Render(mustPreset("dragon"), 4)
			Expect(err).NotTo(HaveOccurred())
			Expect(buf.String()).To(ContainSubstring("rendered iteration"))
			Expect(buf.String()).To(ContainSubstring("segments leave the canvas"))
		})
	})
})
