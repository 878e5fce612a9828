package grammar

import (
	"math"
	"strconv"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultMaxSymbols bounds a single expansion at 16M symbols.
const DefaultMaxSymbols = 1 << 24

// Expand rewrites the axiom of g the given number of times. Each pass
// replaces every symbol by its rule body, or keeps it when it has none.
// A non-positive iteration count returns the axiom unchanged.
func Expand(g Grammar, iterations int) string {
	t := g.table()
	s := g.axiom
	for i := 0; i < iterations; i++ {
		h := CountSymbols(s)
		size, _ := t.nextLength(&h)
		s = t.step(s, size)
	}
	return s
}

// step performs one rewrite pass into a buffer of exactly size bytes.
func (t *table) step(s string, size int) string {
	var b strings.Builder
	b.Grow(size)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if t.has[c] {
			b.WriteString(t.repl[c])
		} else {
			b.WriteByte(c)
		}
	}
	return b.String()
}

// Option configures a Rewriter.
type Option func(*Rewriter)

// WithMaxSymbols sets the longest string an expansion may produce. Values
// below one disable the ceiling.
func WithMaxSymbols(n int) Option {
	return func(r *Rewriter) { r.maxSymbols = n }
}

// WithCache memoizes up to size intermediate expansions.
func WithCache(size int) Option {
	return func(r *Rewriter) {
		if size <= 0 {
			r.cache = nil
			return
		}
		c, err := lru.New[string, string](size)
		if err == nil {
			r.cache = c
		}
	}
}

// Rewriter expands grammars under a symbol ceiling. With a cache, every
// intermediate iteration is kept so rendering 1..N costs one pass per level.
type Rewriter struct {
	maxSymbols int
	cache      *lru.Cache[string, string]
}

// NewRewriter returns a rewriter limited to DefaultMaxSymbols and without a
// cache unless options say otherwise.
func NewRewriter(opts ...Option) *Rewriter {
	r := &Rewriter{maxSymbols: DefaultMaxSymbols}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// MaxSymbols returns the configured ceiling, or 0 when unlimited.
func (r *Rewriter) MaxSymbols() int {
	if r.maxSymbols < 1 {
		return 0
	}
	return r.maxSymbols
}

// Expand rewrites g n times. The length of every pass is computed before the
// pass runs, so an oversized expansion fails without allocating it.
func (r *Rewriter) Expand(g Grammar, n int) (string, error) {
	if n < 0 {
		return "", ErrNegativeIterations
	}

	key := g.Key()
	start, s := 0, g.axiom
	if r.cache != nil {
		for k := n; k > 0; k-- {
			if cached, ok := r.cache.Get(cacheKey(key, k)); ok {
				start, s = k, cached
				break
			}
		}
	}
	if start == 0 {
		if err := r.check(0, len(s), true); err != nil {
			return "", err
		}
	}

	t := g.table()
	for i := start; i < n; i++ {
		h := CountSymbols(s)
		size, ok := t.nextLength(&h)
		if err := r.check(i+1, size, ok); err != nil {
			return "", err
		}
		s = t.step(s, size)
		if r.cache != nil {
			r.cache.Add(cacheKey(key, i+1), s)
		}
	}
	return s, nil
}

// Len returns the length Expand(g, n) would produce without building it.
// Lengths past the ceiling, or past math.MaxInt, return a LimitError.
func (r *Rewriter) Len(g Grammar, n int) (int, error) {
	if n < 0 {
		return 0, ErrNegativeIterations
	}
	t := g.table()
	h := CountSymbols(g.axiom)
	for i := 0; i < n; i++ {
		size, ok := t.nextLength(&h)
		if err := r.check(i+1, size, ok); err != nil {
			return 0, err
		}
		h = t.nextHistogram(&h)
	}
	return h.Len(), nil
}

// check rejects a pass whose length overflowed int even when unlimited.
func (r *Rewriter) check(iteration, size int, ok bool) error {
	limit := r.MaxSymbols()
	if !ok {
		if limit == 0 {
			limit = math.MaxInt
		}
		return &LimitError{Iteration: iteration, Length: size, Max: limit}
	}
	if limit > 0 && size > limit {
		return &LimitError{Iteration: iteration, Length: size, Max: limit}
	}
	return nil
}

// Purge drops all memoized expansions.
func (r *Rewriter) Purge() {
	if r.cache != nil {
		r.cache.Purge()
	}
}

func cacheKey(grammarKey string, n int) string {
	return grammarKey + "#" + strconv.Itoa(n)
}
