package report

import (
	"encoding/json"
	"io"

	"apidelta/internal/delta"
	"apidelta/internal/modifiers"
)

// Node is the JSON shape of one delta.
type Node struct {
	Kind                 delta.Kind            `json:"kind"`
	Flag                 delta.Flag            `json:"flags"`
	ElementType          delta.ElementType     `json:"elementType"`
	OldModifiers         modifiers.Access      `json:"oldModifiers"`
	NewModifiers         modifiers.Access      `json:"newModifiers"`
	Restrictions         modifiers.Restriction `json:"restrictions"`
	PreviousRestrictions modifiers.Restriction `json:"previousRestrictions"`
	TypeName             string                `json:"typeName,omitempty"`
	ComponentID          string                `json:"componentId,omitempty"`
	ComponentVersionID   string                `json:"componentVersionId,omitempty"`
	Key                  string                `json:"key,omitempty"`
	Message              string                `json:"message,omitempty"`
	Arguments            []string              `json:"messageArguments,omitempty"`
	Children             []*Node               `json:"children,omitempty"`
}

// Tree converts d into Nodes. NoDelta converts to nil.
func Tree(d *delta.Delta) *Node {
	if d.IsEmpty() {
		return nil
	}
	var stack []*Node
	var root *Node
	d.Accept(delta.VisitorFuncs{
		VisitFn: func(x *delta.Delta) bool {
			n := &Node{
				Kind:                 x.Kind(),
				Flag:                 x.Flag(),
				ElementType:          x.ElementType(),
				OldModifiers:         x.OldModifiers(),
				NewModifiers:         x.NewModifiers(),
				Restrictions:         x.Restrictions(),
				PreviousRestrictions: x.PreviousRestrictions(),
				TypeName:             x.TypeName(),
				ComponentID:          x.ComponentID(),
				ComponentVersionID:   x.ComponentVersionID(),
				Key:                  x.Key(),
				Message:              x.Message(),
				Arguments:            x.Arguments(),
			}
			if len(stack) == 0 {
				root = n
			} else {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, n)
			}
			stack = append(stack, n)
			return true
		},
		EndVisitFn: func(*delta.Delta) {
			stack = stack[:len(stack)-1]
		},
	})
	return root
}

// WriteJSON writes the tree of d as indented JSON. NoDelta is written as null.
func WriteJSON(w io.Writer, d *delta.Delta) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(Tree(d))
}
