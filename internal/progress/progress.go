// Package progress reports weighted work across a recursive comparison.
//
// A Tracker owns a slice of the overall work. Begin divides it into units,
// Worked consumes them and Split hands some of them to a child tracker that
// subdivides further. Every method is safe on a nil Tracker, so callers that
// do not care about progress pass nil.
package progress

import (
	"math"
	"sync"
)

type root struct {
	mu       sync.Mutex
	value    float64
	last     int
	onUpdate func(percent int)
}

func (r *root) advance(delta float64) {
	if delta <= 0 {
		return
	}
	r.mu.Lock()
	r.value = math.Min(1, r.value+delta)
	pct := clamp(int(r.value * 100))
	changed := pct != r.last
	r.last = pct
	fn := r.onUpdate
	r.mu.Unlock()
	if changed && fn != nil {
		fn(pct)
	}
}

// Tracker is a cancellable-by-caller, weighted progress handle.
type Tracker struct {
	root   *root
	weight float64

	mu    sync.Mutex
	total int
	used  int
	done  bool
}

// New creates a root tracker. onUpdate, if set, is called whenever the
// integer percentage changes.
func New(onUpdate func(percent int)) *Tracker {
	return &Tracker{root: &root{onUpdate: onUpdate}, weight: 1}
}

// Begin declares how many units this tracker's share is divided into.
func (t *Tracker) Begin(units int) {
	if t == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if units < 0 {
		units = 0
	}
	t.total = units
	t.used = 0
}

// take reserves up to units and returns the weight they represent.
func (t *Tracker) take(units int) float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.done || t.total == 0 || units <= 0 {
		return 0
	}
	if remaining := t.total - t.used; units > remaining {
		units = remaining
	}
	t.used += units
	return t.weight * float64(units) / float64(t.total)
}

// Worked marks units as finished.
func (t *Tracker) Worked(units int) {
	if t == nil {
		return
	}
	t.root.advance(t.take(units))
}

// Split returns a child tracker that owns units of this tracker's share.
// The child reports its own progress; finishing it completes those units.
func (t *Tracker) Split(units int) *Tracker {
	if t == nil {
		return nil
	}
	return &Tracker{root: t.root, weight: t.take(units)}
}

// Done consumes whatever is left of this tracker's share.
func (t *Tracker) Done() {
	if t == nil {
		return
	}
	t.mu.Lock()
	if t.done {
		t.mu.Unlock()
		return
	}
	var rest float64
	switch {
	case t.total == 0:
		rest = t.weight
	default:
		rest = t.weight * float64(t.total-t.used) / float64(t.total)
	}
	t.used = t.total
	t.done = true
	t.mu.Unlock()
	t.root.advance(rest)
}

// Percent returns overall progress of the tree this tracker belongs to.
func (t *Tracker) Percent() int {
	if t == nil {
		return 0
	}
	t.root.mu.Lock()
	defer t.root.mu.Unlock()
	return clamp(int(math.Round(t.root.value * 100)))
}

func clamp(p int) int {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}
