package delta

import "fmt"

// State is the outcome of one comparison.
type State int

const (
	StateNoChange State = iota
	StateChanged
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateChanged:
		return "changed"
	case StateFailed:
		return "failed"
	default:
		return "no_change"
	}
}

// Result distinguishes "nothing changed" from "could not compare".
type Result struct {
	state State
	tree  *Delta
	err   error
}

// NoChange is a completed comparison with no differences.
func NoChange() Result { return Result{state: StateNoChange} }

// ChangedResult wraps a tree. An empty tree is NoChange.
func ChangedResult(d *Delta) Result {
	if d.IsEmpty() {
		return NoChange()
	}
	return Result{state: StateChanged, tree: d}
}

// Failed records why a comparison could not complete.
func Failed(err error) Result {
	if err == nil {
		err = fmt.Errorf("comparison failed")
	}
	return Result{state: StateFailed, err: err}
}

func (r Result) State() State { return r.state }
func (r Result) IsNoChange() bool { return r.state == StateNoChange }
func (r Result) IsChanged() bool { return r.state == StateChanged }
func (r Result) IsFailed() bool { return r.state == StateFailed }
func (r Result) Err() error { return r.err }
func (r Result) Tree() *Delta { return r.tree }

// Delta maps the result onto the tree/NoDelta/nil shape.
func (r Result) Delta() *Delta {
	switch r.state {
	case StateChanged:
		return r.tree
	case StateNoChange:
		return NoDelta
	default:
		return nil
	}
}

func (r Result) String() string {
	switch r.state {
	case StateChanged:
		return fmt.Sprintf("changed(%d leaves)", len(Leaves(r.tree)))
	case StateFailed:
		return fmt.Sprintf("failed: %v", r.err)
	default:
		return "no_change"
	}
}
