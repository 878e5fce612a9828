package grammar

import (
	"math"
	"sort"
	"strings"
)

// Grammar is an axiom together with its substitution rules.
type Grammar struct {
	axiom string
	rules map[byte]string
}

// New builds a grammar. The rule map is copied, so later changes by the
// caller do not leak into the grammar.
func New(axiom string, rules map[byte]string) Grammar {
	r := make(map[byte]string, len(rules))
	for k, v := range rules {
		r[k] = v
	}
	return Grammar{axiom: axiom, rules: r}
}

// Axiom returns the starting string.
func (g Grammar) Axiom() string { return g.axiom }

// Rule returns the replacement for c and whether one is defined.
func (g Grammar) Rule(c byte) (string, bool) {
	s, ok := g.rules[c]
	return s, ok
}

// Rules returns a copy of the rule set.
func (g Grammar) Rules() map[byte]string {
	r := make(map[byte]string, len(g.rules))
	for k, v := range g.rules {
		r[k] = v
	}
	return r
}

// Symbols returns the sorted alphabet used by the axiom and all rules.
func (g Grammar) Symbols() []byte {
	var seen [256]bool
	mark := func(s string) {
		for i := 0; i < len(s); i++ {
			seen[s[i]] = true
		}
	}
	mark(g.axiom)
	for k, v := range g.rules {
		seen[k] = true
		mark(v)
	}
	out := make([]byte, 0, 16)
	for c := 0; c < len(seen); c++ {
		if seen[c] {
			out = append(out, byte(c))
		}
	}
	return out
}

// Key returns a canonical encoding of the grammar. Two grammars with equal
// keys expand identically.
func (g Grammar) Key() string {
	keys := make([]int, 0, len(g.rules))
	for k := range g.rules {
		keys = append(keys, int(k))
	}
	sort.Ints(keys)

	var b strings.Builder
	b.WriteString(g.axiom)
	for _, k := range keys {
		b.WriteByte(0)
		b.WriteByte(byte(k))
		b.WriteByte(0)
		b.WriteString(g.rules[byte(k)])
	}
	return b.String()
}

// String renders the grammar in the conventional "axiom; a->b" notation.
func (g Grammar) String() string {
	keys := make([]int, 0, len(g.rules))
	for k := range g.rules {
		keys = append(keys, int(k))
	}
	sort.Ints(keys)

	var b strings.Builder
	b.WriteString(g.axiom)
	for _, k := range keys {
		b.WriteString("; ")
		b.WriteByte(byte(k))
		b.WriteString("->")
		b.WriteString(g.rules[byte(k)])
	}
	return b.String()
}

// table flattens the rules into a direct lookup indexed by symbol.
type table struct {
	repl [256]string
	has  [256]bool
}

func (g Grammar) table() *table {
	t := &table{}
	for k, v := range g.rules {
		t.repl[k] = v
		t.has[k] = true
	}
	return t
}

// Histogram counts occurrences of every symbol in a string.
type Histogram [256]int

// CountSymbols builds the histogram of s.
func CountSymbols(s string) Histogram {
	var h Histogram
	for i := 0; i < len(s); i++ {
		h[s[i]]++
	}
	return h
}

// Len returns the total number of symbols counted.
func (h *Histogram) Len() int {
	n := 0
	for _, c := range h {
		n += c
	}
	return n
}

// Count returns how many times c appears.
func (h *Histogram) Count(c byte) int { return h[c] }

// NextLength returns the length of the string after one more rewrite of a
// string with histogram h. ok is false when that length does not fit in an
// int.
func (g Grammar) NextLength(h Histogram) (n int, ok bool) {
	return g.table().nextLength(&h)
}

func (t *table) nextLength(h *Histogram) (int, bool) {
	n := 0
	for c, cnt := range h {
		if cnt == 0 {
			continue
		}
		w := 1
		if t.has[c] {
			w = len(t.repl[c])
		}
		if w > 0 && cnt > (math.MaxInt-n)/w {
			return math.MaxInt, false
		}
		n += cnt * w
	}
	return n, true
}

// NextHistogram returns the histogram after one more rewrite.
func (g Grammar) NextHistogram(h Histogram) Histogram {
	return g.table().nextHistogram(&h)
}

func (t *table) nextHistogram(h *Histogram) Histogram {
	var next Histogram
	for c, cnt := range h {
		if cnt == 0 {
			continue
		}
		if !t.has[c] {
			next[c] += cnt
			continue
		}
		r := t.repl[c]
		for i := 0; i < len(r); i++ {
			next[r[i]] += cnt
		}
	}
	return next
}
