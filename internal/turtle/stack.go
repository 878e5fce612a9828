package turtle

// Stack is a slice-backed stack of saved turtle states. Branch depth can grow
// with the iteration count, so it never relies on call-stack recursion.
type Stack struct {
	items []State
	peak  int
}

// Push saves s.
func (st *Stack) Push(s State) {
	st.items = append(st.items, s)
	if len(st.items) > st.peak {
		st.peak = len(st.items)
	}
}

// Pop removes and returns the most recent state.
func (st *Stack) Pop() (State, error) {
	n := len(st.items)
	if n == 0 {
		return State{}, ErrStackUnderflow
	}
	s := st.items[n-1]
	st.items = st.items[:n-1]
	return s, nil
}

// Len returns the current depth.
func (st *Stack) Len() int { return len(st.items) }

// Peak returns the deepest the stack has been since the last Reset.
func (st *Stack) Peak() int { return st.peak }

// Reset empties the stack, keeping its storage.
func (st *Stack) Reset() {
	st.items = st.items[:0]
	st.peak = 0
}
