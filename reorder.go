package overlay

import "errors"

// DropIntent says where a dragged node lands relative to the target.
type DropIntent uint8

const (
	DropBefore DropIntent = iota // above the target in the panel, in front of it
	DropAfter                    // below the target in the panel, behind it
	DropInto                     // as the front-most child of the target
)

// String returns the intent name.
func (d DropIntent) String() string {
	switch d {
	case DropBefore:
		return "before"
	case DropAfter:
		return "after"
	case DropInto:
		return "into"
	}
	return "unknown"
}

// ParseDropIntent maps an intent name back to a DropIntent.
func ParseDropIntent(s string) (DropIntent, bool) {
	switch s {
	case "before":
		return DropBefore, true
	case "after":
		return DropAfter, true
	case "into":
		return DropInto, true
	}
	return 0, false
}

// Drop describes a committed drag gesture.
type Drop struct {
	Source NodeID
	Target NodeID
	Intent DropIntent
}

// Reasons a drop is discarded. Callers treat all of them as a no-op.
var (
	ErrNoSource     = errors.New("overlay: dragged node does not exist")
	ErrNoTarget     = errors.New("overlay: drop target does not exist")
	ErrSelfDrop     = errors.New("overlay: node dropped onto itself")
	ErrCycle        = errors.New("overlay: drop would make a node its own ancestor")
	ErrNotContainer = errors.New("overlay: drop target cannot hold children")
)

// Change is the new hierarchy state of one node.
type Change struct {
	ParentID NodeID
	Layer    int
}

// Patch is the full set of changes a gesture commits. It is computed as a
// pure function of the node array before anything is applied.
type Patch map[NodeID]Change

// Apply returns a copy of nodes with the patch applied. The input is not
// modified.
func (p Patch) Apply(nodes []Node) []Node {
	out := make([]Node, len(nodes))
	copy(out, nodes)
	for i := range out {
		if c, ok := p[out[i].ID]; ok {
			out[i].ParentID = c.ParentID
			out[i].Layer = c.Layer
		}
	}
	return out
}

// CanContain reports whether nodes of kind k accept children from a drop.
func CanContain(k Kind) bool {
	return k == KindGroup
}

// PlanDrop computes the patch for d against t. It returns an error, and no
// patch, when the drop must be discarded.
func PlanDrop(t *Tree, d Drop) (Patch, error) {
	src, ok := t.Node(d.Source)
	if !ok {
		return nil, ErrNoSource
	}
	target, ok := t.Node(d.Target)
	if !ok {
		return nil, ErrNoTarget
	}
	if src.ID == target.ID {
		return nil, ErrSelfDrop
	}
	if t.IsDescendant(src.ID, target.ID) {
		return nil, ErrCycle
	}

	var parent NodeID
	var order []NodeID
	switch d.Intent {
	case DropInto:
		if !CanContain(target.Kind) {
			return nil, ErrNotContainer
		}
		parent = target.ID
		order = append(order, src.ID)
		order = append(order, without(t.Children(target.ID), src.ID)...)
	case DropBefore, DropAfter:
		if p, ok := t.Parent(target.ID); ok {
			parent = p.ID
		}
		siblings := without(t.Siblings(target.ID), src.ID)
		at := indexOf(siblings, target.ID)
		if d.Intent == DropAfter {
			at++
		}
		order = make([]NodeID, 0, len(siblings)+1)
		order = append(order, siblings[:at]...)
		order = append(order, src.ID)
		order = append(order, siblings[at:]...)
	default:
		return nil, ErrNoTarget
	}

	patch := renumber(t, order)
	c := patch[src.ID]
	c.ParentID = parent
	patch[src.ID] = c
	return patch, nil
}

// PlanRootDrop computes the patch for dropping id on the empty root area: the
// node becomes root-level and front-most. Other roots keep their layers.
func PlanRootDrop(t *Tree, id NodeID) (Patch, error) {
	if !t.Has(id) {
		return nil, ErrNoSource
	}
	top := -1
	for _, r := range t.Roots() {
		if r == id {
			continue
		}
		n, _ := t.Node(r)
		top = max(top, n.Layer)
	}
	return Patch{id: {ParentID: "", Layer: top + 1}}, nil
}

// renumber assigns descending layers by ascending list position: the first
// entry gets len-1, the last gets 0. Parents are left as they are.
func renumber(t *Tree, order []NodeID) Patch {
	p := make(Patch, len(order))
	for i, id := range order {
		n, _ := t.Node(id)
		p[id] = Change{ParentID: n.ParentID, Layer: len(order) - 1 - i}
	}
	return p
}

func without(ids []NodeID, drop NodeID) []NodeID {
	out := make([]NodeID, 0, len(ids))
	for _, id := range ids {
		if id != drop {
			out = append(out, id)
		}
	}
	return out
}

func indexOf(ids []NodeID, id NodeID) int {
	for i, x := range ids {
		if x == id {
			return i
		}
	}
	return len(ids)
}
