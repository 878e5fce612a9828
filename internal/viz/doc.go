// Package viz draws L-systems in the terminal.
//
// The package implements an interactive viewer using the Bubble Tea framework:
//
//   - [Model]: preset browser with live iteration control
//   - [Canvas]: Braille-based dot canvas, 2x4 dots per cell
//   - Theme selection with 5 built-in color schemes
//
// # Key Bindings
//
//	Tab   - Next preset (Shift+Tab for previous)
//	Up/K  - One more iteration
//	Down/J - One fewer iteration
//	Space - Toggle auto-advance, every 500ms, wrapping back to iteration 5
//	T     - Cycle color themes
//	S     - Save a full-size PNG of the current iteration
//	Q     - Quit
package viz
