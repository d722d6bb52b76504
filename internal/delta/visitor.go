package delta

// Visitor walks a tree depth-first. Visit returns false to skip children;
// EndVisit runs after the children regardless.
type Visitor interface {
	Visit(d *Delta) bool
	EndVisit(d *Delta)
}

// VisitorFuncs adapts plain functions to Visitor. Nil fields are no-ops and
// a nil VisitFn descends into every node.
type VisitorFuncs struct {
	VisitFn    func(d *Delta) bool
	EndVisitFn func(d *Delta)
}

func (f VisitorFuncs) Visit(d *Delta) bool {
	if f.VisitFn == nil {
		return true
	}
	return f.VisitFn(d)
}

func (f VisitorFuncs) EndVisit(d *Delta) {
	if f.EndVisitFn != nil {
		f.EndVisitFn(d)
	}
}

// Accept runs v over d. NoDelta is visited once like any other node.
func (d *Delta) Accept(v Visitor) {
	if d == nil {
		return
	}
	if v.Visit(d) {
		for _, c := range d.children {
			c.Accept(v)
		}
	}
	v.EndVisit(d)
}

// Walk calls fn on every node in pre-order. Returning false prunes the subtree.
func Walk(d *Delta, fn func(*Delta) bool) {
	d.Accept(VisitorFuncs{VisitFn: fn})
}

// Fold combines every leaf of d into acc.
func Fold[T any](d *Delta, acc T, fn func(T, *Delta) T) T {
	if d.IsEmpty() {
		return acc
	}
	if len(d.children) == 0 {
		return fn(acc, d)
	}
	for _, c := range d.children {
		acc = Fold(c, acc, fn)
	}
	return acc
}

// Leaves returns the actionable nodes of d in depth-first order.
func Leaves(d *Delta) []*Delta {
	return Fold(d, []*Delta(nil), func(out []*Delta, leaf *Delta) []*Delta {
		return append(out, leaf)
	})
}

// All reports whether pred holds for every leaf. An empty tree yields true.
func All(d *Delta, pred func(*Delta) bool) bool {
	ok := true
	Walk(d, func(n *Delta) bool {
		if !ok {
			return false
		}
		if n.IsLeaf() && !pred(n) {
			ok = false
		}
		return ok
	})
	return ok
}

// Find returns the leaves matching pred.
func Find(d *Delta, pred func(*Delta) bool) []*Delta {
	return Fold(d, []*Delta(nil), func(out []*Delta, leaf *Delta) []*Delta {
		if pred(leaf) {
			out = append(out, leaf)
		}
		return out
	})
}
