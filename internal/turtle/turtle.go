package turtle

import "math"

// Turtle holds the mutable state of one interpretation pass.
type Turtle struct {
	params Params
	ops    *[256]uint8
	state  State
	stack  Stack
}

// New returns a turtle positioned at p.Start.
func New(p Params) *Turtle {
	return &Turtle{
		params: p,
		ops:    p.decode(),
		state:  p.Start,
	}
}

// State returns the current pose.
func (t *Turtle) State() State { return t.state }

// Depth returns the number of unmatched pushes so far.
func (t *Turtle) Depth() int { return t.stack.Len() }

// MaxDepth returns the deepest branch nesting reached.
func (t *Turtle) MaxDepth() int { return t.stack.Peak() }

// Reset returns the turtle to its start pose with an empty stack.
func (t *Turtle) Reset() {
	t.state = t.params.Start
	t.stack.Reset()
}

// Run interprets program from the current state, calling emit for every
// drawn segment in order. It stops at the first pop on an empty stack.
func (t *Turtle) Run(program string, emit func(Segment)) error {
	p := &t.params
	for i := 0; i < len(program); i++ {
		switch t.ops[program[i]] {
		case opDraw:
			next := Point{
				X: t.state.Pos.X + p.Step*math.Cos(t.state.Heading),
				Y: t.state.Pos.Y + p.Step*math.Sin(t.state.Heading),
			}
			if emit != nil {
				emit(Segment{Start: t.state.Pos, End: next})
			}
			t.state.Pos = next
		case opLeft:
			t.state.Heading -= p.TurnAngle
		case opRight:
			t.state.Heading += p.TurnAngle
		case opPush:
			t.stack.Push(t.state)
			t.state.Heading += p.PushTurn
		case opPop:
			s, err := t.stack.Pop()
			if err != nil {
				return &Error{Index: i, Symbol: program[i], Err: err}
			}
			t.state = s
			t.state.Heading += p.PopTurn
		}
	}
	return nil
}

// Interpret runs program with a fresh turtle and returns its segments.
func Interpret(program string, p Params) ([]Segment, error) {
	segs := make([]Segment, 0, p.CountDraws(program))
	t := New(p)
	if err := t.Run(program, func(s Segment) { segs = append(segs, s) }); err != nil {
		return nil, err
	}
	return segs, nil
}

// Trace runs program with a fresh turtle and streams its segments to emit.
func Trace(program string, p Params, emit func(Segment)) error {
	return New(p).Run(program, emit)
}
