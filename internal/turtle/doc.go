// Package turtle interprets expanded L-system strings as turtle-graphics
// commands and emits the resulting line segments.
//
// The turtle keeps a position, a heading in radians and an explicit branch
// stack. Which symbol draws, turns, or saves and restores state is described
// by [Params], so one interpreter serves every grammar:
//
//   - [Interpret]: collect all segments of a program
//   - [Trace]: stream segments to a callback
//   - [Turtle]: the per-render context object behind both
//
// Coordinates follow the canvas convention: x grows right, y grows down.
// A heading of 0 points along +x and -π/2 points up.
//
// # Thread Safety
//
// A Turtle is owned by a single render. Params are plain values and may be
// shared.
package turtle
