// Package grammar implements deterministic, context-free L-system rewriting.
//
// A [Grammar] is an axiom plus a set of single-symbol substitution rules.
// Symbols without a rule are terminal and pass through unchanged:
//
//   - [Expand]: plain iterative expansion with no limits
//   - [Rewriter]: expansion with a symbol ceiling and an optional LRU memo
//   - [Histogram]: symbol counts used to predict growth without expanding
//
// # Example
//
//	g := grammar.New("FX", map[byte]string{'X': "X+YF+", 'Y': "-FX-Y"})
//	s := grammar.Expand(g, 1) // "FX+YF+"
//
// # Thread Safety
//
// Grammar values are immutable once built and may be shared freely. A
// [Rewriter] is safe for concurrent use.
package grammar
