package analysis

import (
	"github.com/san-kum/lsys/internal/grammar"
)

type Growth struct {
	Iteration int
	Length    int
	Ratio     float64 // Length over the previous length, 0 at iteration 0
	Histogram grammar.Histogram
}

// GrowthSeries returns the string length of g at iterations 0..n. The
// series ends early once the next length would overflow int.
func GrowthSeries(g grammar.Grammar, n int) []Growth {
	if n < 0 {
		n = 0
	}
	h := grammar.CountSymbols(g.Axiom())
	out := make([]Growth, 0, n+1)
	out = append(out, Growth{Iteration: 0, Length: h.Len(), Histogram: h})

	for i := 1; i <= n; i++ {
		prev := out[len(out)-1]
		if _, ok := g.NextLength(h); !ok {
			break
		}
		h = g.NextHistogram(h)
		l := h.Len()
		gr := Growth{Iteration: i, Length: l, Histogram: h}
		if prev.Length > 0 {
			gr.Ratio = float64(l) / float64(prev.Length)
		}
		out = append(out, gr)
	}
	return out
}

// Lengths extracts the length column of a series as float64, ready to plot.
func Lengths(series []Growth) []float64 {
	out := make([]float64, len(series))
	for i, g := range series {
		out[i] = float64(g.Length)
	}
	return out
}
