// Package delta holds the change tree produced by the comparator.
//
// A Delta is either a leaf, which carries one actionable change, or a
// composite, which only groups other deltas. Nodes are immutable once built.
package delta

import (
	"fmt"
	"strings"

	"apidelta/internal/modifiers"
)

// Fields describes a node to build.
type Fields struct {
	Key                  string
	ElementType          ElementType
	Kind                 Kind
	Flag                 Flag
	OldModifiers         modifiers.Access
	NewModifiers         modifiers.Access
	Restrictions         modifiers.Restriction
	PreviousRestrictions modifiers.Restriction
	ComponentID          string
	ComponentVersionID   string
	TypeName             string
	Arguments            []string
}

// Delta is one node of the change tree.
type Delta struct {
	key                  string
	elementType          ElementType
	kind                 Kind
	flag                 Flag
	oldModifiers         modifiers.Access
	newModifiers         modifiers.Access
	restrictions         modifiers.Restriction
	previousRestrictions modifiers.Restriction
	componentID          string
	componentVersionID   string
	typeName             string
	arguments            []string
	children             []*Delta
	empty                bool
}

// NoDelta means the comparison ran and found nothing. It is never a child.
var NoDelta = &Delta{key: "NO_DELTA", empty: true}

// New builds a leaf.
func New(s Fields) *Delta {
	return fromFields(s)
}

func fromFields(s Fields) *Delta {
	var args []string
	if len(s.Arguments) > 0 {
		args = append([]string(nil), s.Arguments...)
	}
	return &Delta{
		key:                  s.Key,
		elementType:          s.ElementType,
		kind:                 s.Kind,
		flag:                 s.Flag,
		oldModifiers:         s.OldModifiers,
		newModifiers:         s.NewModifiers,
		restrictions:         s.Restrictions,
		previousRestrictions: s.PreviousRestrictions,
		componentID:          s.ComponentID,
		componentVersionID:   s.ComponentVersionID,
		typeName:             s.TypeName,
		arguments:            args,
	}
}

// ComponentVersionID formats the identifier used on every non-baseline leaf.
func ComponentVersionID(id, version string) string {
	if version == "" {
		return id
	}
	return id + "(" + version + ")"
}

func (d *Delta) Key() string { return d.key }
func (d *Delta) ElementType() ElementType { return d.elementType }
func (d *Delta) Kind() Kind { return d.kind }
func (d *Delta) Flag() Flag { return d.flag }
func (d *Delta) OldModifiers() modifiers.Access { return d.oldModifiers }
func (d *Delta) NewModifiers() modifiers.Access { return d.newModifiers }
func (d *Delta) Restrictions() modifiers.Restriction { return d.restrictions }
func (d *Delta) PreviousRestrictions() modifiers.Restriction { return d.previousRestrictions }
func (d *Delta) ComponentID() string { return d.componentID }
func (d *Delta) ComponentVersionID() string { return d.componentVersionID }
func (d *Delta) TypeName() string { return d.typeName }

// Arguments returns a copy of the message arguments.
func (d *Delta) Arguments() []string { return append([]string(nil), d.arguments...) }

// Children returns a copy of the child list.
func (d *Delta) Children() []*Delta { return append([]*Delta(nil), d.children...) }

// Len is the number of direct children.
func (d *Delta) Len() int { return len(d.children) }

// IsEmpty reports whether d is NoDelta or a composite without children.
func (d *Delta) IsEmpty() bool {
	return d == nil || d.empty
}

// IsLeaf reports whether d is actionable.
func (d *Delta) IsLeaf() bool { return !d.IsEmpty() && len(d.children) == 0 }

// Message renders the flag template with the node's arguments.
func (d *Delta) Message() string {
	if d.IsEmpty() {
		return ""
	}
	return render(d.flag, d.arguments)
}

func (d *Delta) String() string {
	if d.IsEmpty() {
		return "NO_DELTA"
	}
	if len(d.children) > 0 {
		return fmt.Sprintf("%s[%d]", d.elementType, len(d.children))
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s %s", d.elementType, d.kind, d.flag)
	if d.typeName != "" {
		fmt.Fprintf(&b, " %s", d.typeName)
	}
	if d.key != "" && d.key != d.typeName {
		fmt.Fprintf(&b, "#%s", d.key)
	}
	return b.String()
}

// Group assembles a composite node bottom-up.
type Group struct {
	d     *Delta
	built bool
}

// NewGroup starts a composite with the given header. Kind and flag on a
// composite carry no meaning and are kept only for serialization.
func NewGroup(s Fields) *Group {
	return &Group{d: fromFields(s)}
}

// Add appends child. Nil and empty deltas are ignored.
func (g *Group) Add(child *Delta) {
	if g.built {
		panic("delta: Add after Build")
	}
	if child.IsEmpty() {
		return
	}
	g.d.children = append(g.d.children, child)
}

// AddAll appends each child in order.
func (g *Group) AddAll(children ...*Delta) {
	for _, c := range children {
		g.Add(c)
	}
}

// Len is the number of children added so far.
func (g *Group) Len() int { return len(g.d.children) }

// Build seals the group. An empty group builds to NoDelta.
func (g *Group) Build() *Delta {
	g.built = true
	if len(g.d.children) == 0 {
		return NoDelta
	}
	return g.d
}
