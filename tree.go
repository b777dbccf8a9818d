package overlay

import "slices"

// Tree is a parent/children index derived from a flat node array. Sibling
// lists are in editing order: highest Layer first, ties in array order.
//
// A Tree never mutates the nodes it was built from. Build a new one after any
// change to the array (Document memoizes this per version).
type Tree struct {
	nodes    []Node
	index    map[NodeID]int
	children map[NodeID][]NodeID
	roots    []NodeID
}

// NewTree indexes nodes in one pass. Nodes whose ParentID does not name a
// node in the array are treated as roots. Duplicate IDs keep the first
// occurrence.
func NewTree(nodes []Node) *Tree {
	t := &Tree{
		nodes:    nodes,
		index:    make(map[NodeID]int, len(nodes)),
		children: make(map[NodeID][]NodeID),
	}
	for i := range nodes {
		if _, dup := t.index[nodes[i].ID]; !dup {
			t.index[nodes[i].ID] = i
		}
	}
	for i := range nodes {
		n := &nodes[i]
		if t.index[n.ID] != i {
			continue
		}
		if _, ok := t.index[n.ParentID]; ok && n.ParentID != "" && n.ParentID != n.ID {
			t.children[n.ParentID] = append(t.children[n.ParentID], n.ID)
		} else {
			t.roots = append(t.roots, n.ID)
		}
	}
	for id, kids := range t.children {
		t.sortEditing(kids)
		t.children[id] = kids
	}
	t.sortEditing(t.roots)
	return t
}

// sortEditing orders ids by clamped Layer descending, stable on array order,
// so the panel agrees with paint order.
func (t *Tree) sortEditing(ids []NodeID) {
	slices.SortStableFunc(ids, func(a, b NodeID) int {
		la, lb := clampLayer(t.nodes[t.index[a]].Layer), clampLayer(t.nodes[t.index[b]].Layer)
		switch {
		case la > lb:
			return -1
		case la < lb:
			return 1
		}
		return 0
	})
}

// Len returns the number of indexed nodes.
func (t *Tree) Len() int {
	return len(t.index)
}

// Node returns the node with the given ID.
func (t *Tree) Node(id NodeID) (Node, bool) {
	i, ok := t.index[id]
	if !ok {
		return Node{}, false
	}
	return t.nodes[i], true
}

// Has reports whether id names a node in the tree.
func (t *Tree) Has(id NodeID) bool {
	_, ok := t.index[id]
	return ok
}

// Parent returns the parent of id. Roots and dangling references report false.
func (t *Tree) Parent(id NodeID) (Node, bool) {
	n, ok := t.Node(id)
	if !ok || n.ParentID == "" || n.ParentID == n.ID {
		return Node{}, false
	}
	return t.Node(n.ParentID)
}

// Roots returns root-level IDs in editing order. The returned slice MUST NOT
// be mutated by the caller.
func (t *Tree) Roots() []NodeID {
	return t.roots
}

// Children returns the child IDs of id in editing order. The returned slice
// MUST NOT be mutated by the caller.
func (t *Tree) Children(id NodeID) []NodeID {
	return t.children[id]
}

// Siblings returns the editing-order list id belongs to, including id.
func (t *Tree) Siblings(id NodeID) []NodeID {
	if p, ok := t.Parent(id); ok {
		return t.children[p.ID]
	}
	return t.roots
}

// Descendants returns every descendant of id in pre-order.
func (t *Tree) Descendants(id NodeID) []NodeID {
	var out []NodeID
	seen := map[NodeID]bool{id: true}
	var walk func(NodeID)
	walk = func(p NodeID) {
		for _, c := range t.children[p] {
			if seen[c] {
				continue
			}
			seen[c] = true
			out = append(out, c)
			walk(c)
		}
	}
	walk(id)
	return out
}

// IsDescendant reports whether candidate lies strictly below ancestor.
// A node is not its own descendant.
func (t *Tree) IsDescendant(ancestor, candidate NodeID) bool {
	if ancestor == candidate {
		return false
	}
	seen := make(map[NodeID]bool)
	for cur := candidate; ; {
		p, ok := t.Parent(cur)
		if !ok || seen[p.ID] {
			return false
		}
		if p.ID == ancestor {
			return true
		}
		seen[p.ID] = true
		cur = p.ID
	}
}

// Ancestors returns the parent chain of id, nearest first. The walk stops at
// a dangling reference.
func (t *Tree) Ancestors(id NodeID) []Node {
	var out []Node
	seen := map[NodeID]bool{id: true}
	for cur := id; ; {
		p, ok := t.Parent(cur)
		if !ok || seen[p.ID] {
			return out
		}
		seen[p.ID] = true
		out = append(out, p)
		cur = p.ID
	}
}

// Depth returns the number of ancestors of id.
func (t *Tree) Depth(id NodeID) int {
	return len(t.Ancestors(id))
}

// FlatEntry is one row of the flattened layer panel.
type FlatEntry struct {
	ID          NodeID
	Depth       int
	HasChildren bool
}

// FlattenedDisplayOrder walks the tree in pre-order, honoring sibling editing
// order, and does not descend into IDs in collapsed.
func (t *Tree) FlattenedDisplayOrder(collapsed map[NodeID]bool) []FlatEntry {
	out := make([]FlatEntry, 0, len(t.index))
	seen := make(map[NodeID]bool, len(t.index))
	var walk func(id NodeID, depth int)
	walk = func(id NodeID, depth int) {
		if seen[id] {
			return
		}
		seen[id] = true
		kids := t.children[id]
		out = append(out, FlatEntry{ID: id, Depth: depth, HasChildren: len(kids) > 0})
		if collapsed[id] {
			return
		}
		for _, c := range kids {
			walk(c, depth+1)
		}
	}
	for _, r := range t.roots {
		walk(r, 0)
	}
	return out
}

// SelectRange returns the IDs between from and to (inclusive) in the
// flattened display order, for shift-click selection. Either end missing
// from the visible rows yields just the other end.
func (t *Tree) SelectRange(from, to NodeID, collapsed map[NodeID]bool) []NodeID {
	rows := t.FlattenedDisplayOrder(collapsed)
	a, b := -1, -1
	for i, r := range rows {
		if r.ID == from {
			a = i
		}
		if r.ID == to {
			b = i
		}
	}
	switch {
	case a < 0 && b < 0:
		return nil
	case a < 0:
		return []NodeID{to}
	case b < 0:
		return []NodeID{from}
	}
	if a > b {
		a, b = b, a
	}
	out := make([]NodeID, 0, b-a+1)
	for _, r := range rows[a : b+1] {
		out = append(out, r.ID)
	}
	return out
}
