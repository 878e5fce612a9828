package turtle

import "math"

// Point is a position in canvas coordinates.
type Point struct {
	X, Y float64
}

// Add returns p translated by q.
func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }

// Dist returns the Euclidean distance between p and q.
func (p Point) Dist(q Point) float64 { return math.Hypot(q.X-p.X, q.Y-p.Y) }

// State is the turtle's pose.
type State struct {
	Pos     Point
	Heading float64
}

// Segment is a line drawn by one draw symbol.
type Segment struct {
	Start, End Point
}

// Len returns the segment length.
func (s Segment) Len() float64 { return s.Start.Dist(s.End) }

// Params describes how a program is read.
type Params struct {
	Step      float64
	TurnAngle float64

	// Draw lists every symbol that moves forward while drawing.
	Draw string

	// TurnLeft subtracts TurnAngle from the heading, TurnRight adds it.
	// A zero byte disables the command.
	TurnLeft  byte
	TurnRight byte

	Push byte
	Pop  byte

	// PushTurn is added to the heading right after a push and PopTurn right
	// after a pop. Only the binary tree sets them.
	PushTurn float64
	PopTurn  float64

	Start State
}

// opcodes for the dispatch table.
const (
	opNone uint8 = iota
	opDraw
	opLeft
	opRight
	opPush
	opPop
)

// decode builds the symbol dispatch table. Later roles win when the same
// symbol is given two, with drawing taking precedence over everything.
func (p *Params) decode() *[256]uint8 {
	var ops [256]uint8
	set := func(c byte, op uint8) {
		if c != 0 {
			ops[c] = op
		}
	}
	set(p.Push, opPush)
	set(p.Pop, opPop)
	set(p.TurnLeft, opLeft)
	set(p.TurnRight, opRight)
	for i := 0; i < len(p.Draw); i++ {
		ops[p.Draw[i]] = opDraw
	}
	return &ops
}

// CountDraws returns how many segments program will emit.
func (p Params) CountDraws(program string) int {
	ops := p.decode()
	n := 0
	for i := 0; i < len(program); i++ {
		if ops[program[i]] == opDraw {
			n++
		}
	}
	return n
}
