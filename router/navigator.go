package router

// NavState tells whether a navigator's pending choice differs from the
// committed one
type NavState int

const (
	Committed NavState = iota
	Browsing
)

func (s NavState) String() string {
	if s == Browsing {
		return "browsing"
	}
	return "committed"
}

// Navigator is the two-phase selection over a list of n items. Dial moves the
// pending choice only; Select commits it. Step and Jump move both.
type Navigator struct {
	current int
	pending int
	count   int
	state   NavState
}

// Reset selects item 0 of a list of count items
func (n *Navigator) Reset(count int) {
	n.count = count
	n.current = 0
	n.pending = 0
	n.state = Committed
}

// Dial moves the pending choice by delta, wrapping
func (n *Navigator) Dial(delta int) {
	n.pending = n.wrap(n.pending + delta)
	n.state = Browsing
	if n.pending == n.current {
		n.state = Committed
	}
}

// Select commits the pending choice and returns it
func (n *Navigator) Select() int {
	n.current = n.pending
	n.state = Committed
	return n.current
}

// Step moves the committed choice by delta, wrapping, and syncs pending to it
func (n *Navigator) Step(delta int) int {
	n.current = n.wrap(n.current + delta)
	n.pending = n.current
	n.state = Committed
	return n.current
}

// Jump commits index directly, bypassing the pending stage
func (n *Navigator) Jump(index int) int {
	n.current = n.wrap(index)
	n.pending = n.current
	n.state = Committed
	return n.current
}

func (n *Navigator) Current() int    { return n.current }
func (n *Navigator) Pending() int    { return n.pending }
func (n *Navigator) Len() int        { return n.count }
func (n *Navigator) State() NavState { return n.state }

func (n *Navigator) wrap(i int) int {
	if n.count <= 0 {
		return 0
	}
	i %= n.count
	if i < 0 {
		i += n.count
	}
	return i
}
