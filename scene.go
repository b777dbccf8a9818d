package overlay

import (
	"slices"
	"time"
)

// EventSink is the interface for optional change notification. When set on a
// Document, every committed edit is forwarded to it.
type EventSink interface {
	EmitEvent(event ChangeEvent)
}

// ChangeType identifies a kind of committed edit.
type ChangeType uint8

const (
	ChangeAdd      ChangeType = iota // nodes created
	ChangeUpdate                     // fields of one node edited
	ChangeDelete                     // nodes removed (cascaded)
	ChangeReorder                    // layers/parents changed by a drop
	ChangeInsert                     // a template instantiated into the scene
	ChangeReplace                    // whole array replaced (load, undo, redo)
)

// ChangeEvent carries a committed edit for the sink.
type ChangeEvent struct {
	Type    ChangeType
	Version uint64
	IDs     []NodeID
}

// DuplicateOffset is how far a duplicated subtree is shifted on both axes.
const DuplicateOffset = 10.0

const maxUndo = 100

// Document is the editor's single in-memory node array. It is copy-on-write:
// every edit builds a new array and bumps Version, so a slice obtained from
// Nodes is never modified afterwards and a render pass always sees a
// consistent tree.
//
// Document is not safe for concurrent use; edits run to completion on the
// caller's goroutine.
type Document struct {
	nodes   []Node
	version uint64

	tree        *Tree
	treeVersion uint64

	undo [][]Node
	redo [][]Node

	sink  EventSink
	debug bool
}

// NewDocument creates a document owning a copy of nodes.
func NewDocument(nodes []Node) *Document {
	return &Document{nodes: cloneNodes(nodes), version: 1}
}

// Nodes returns the current array. The returned slice MUST NOT be mutated.
func (d *Document) Nodes() []Node {
	return d.nodes
}

// Version increases on every committed edit.
func (d *Document) Version() uint64 {
	return d.version
}

// Tree returns the index of the current array, rebuilt only when the version
// changed.
func (d *Document) Tree() *Tree {
	if d.tree == nil || d.treeVersion != d.version {
		d.tree = NewTree(d.nodes)
		d.treeVersion = d.version
	}
	return d.tree
}

// Node returns the node with the given ID.
func (d *Document) Node(id NodeID) (Node, bool) {
	return d.Tree().Node(id)
}

// SetEventSink sets the optional change sink.
func (d *Document) SetEventSink(sink EventSink) {
	d.sink = sink
}

// SetDebugMode enables or disables debug mode. When enabled, degraded states
// (missing templates, dangling parents, discarded drops) and per-evaluate
// timing are logged to stderr.
func (d *Document) SetDebugMode(enabled bool) {
	d.debug = enabled
}

// commit installs next as the current array and notifies the sink.
func (d *Document) commit(next []Node, typ ChangeType, ids []NodeID) {
	d.undo = append(d.undo, d.nodes)
	if len(d.undo) > maxUndo {
		d.undo = d.undo[1:]
	}
	d.redo = nil
	d.install(next, typ, ids)
}

func (d *Document) install(next []Node, typ ChangeType, ids []NodeID) {
	d.nodes = next
	d.version++
	if d.debug {
		d.debugCheckTree()
	}
	if d.sink != nil {
		d.sink.EmitEvent(ChangeEvent{Type: typ, Version: d.version, IDs: ids})
	}
}

// Replace swaps in a whole new array, e.g. after loading a layout.
func (d *Document) Replace(nodes []Node) {
	d.commit(cloneNodes(nodes), ChangeReplace, nil)
}

// Undo restores the array before the last edit. It reports false when there
// is nothing to undo.
func (d *Document) Undo() bool {
	if len(d.undo) == 0 {
		return false
	}
	prev := d.undo[len(d.undo)-1]
	d.undo = d.undo[:len(d.undo)-1]
	d.redo = append(d.redo, d.nodes)
	d.install(prev, ChangeReplace, nil)
	return true
}

// Redo reapplies the last undone edit.
func (d *Document) Redo() bool {
	if len(d.redo) == 0 {
		return false
	}
	next := d.redo[len(d.redo)-1]
	d.redo = d.redo[:len(d.redo)-1]
	d.undo = append(d.undo, d.nodes)
	d.install(next, ChangeReplace, nil)
	return true
}

// frontLayer returns one more than the highest layer among parent's
// children, or 0 when there are none.
func (d *Document) frontLayer(parent NodeID) int {
	t := d.Tree()
	sibs := t.Roots()
	if parent != "" && t.Has(parent) {
		sibs = t.Children(parent)
	}
	top := -1
	for _, id := range sibs {
		n, _ := t.Node(id)
		top = max(top, n.Layer)
	}
	return top + 1
}

// Add inserts n under parent as its front-most child and returns its ID. An
// empty or already used ID is replaced with a fresh one. A parent that does
// not exist makes the node root-level.
func (d *Document) Add(n Node, parent NodeID) NodeID {
	t := d.Tree()
	if n.ID == "" || t.Has(n.ID) {
		n.ID = NewID(n.Kind)
	}
	if !t.Has(parent) {
		parent = ""
	}
	n.ParentID = parent
	n.Layer = d.frontLayer(parent)
	next := append(slices.Clip(d.nodes), n.Clone())
	d.commit(next, ChangeAdd, []NodeID{n.ID})
	return n.ID
}

// Duplicate clones the subtree rooted at id with fresh IDs, shifted by
// DuplicateOffset, and places the copy in front of its siblings. It returns
// the new IDs, root first, or nil if id does not exist.
func (d *Document) Duplicate(id NodeID) []NodeID {
	t := d.Tree()
	root, ok := t.Node(id)
	if !ok {
		return nil
	}
	ids := append([]NodeID{id}, t.Descendants(id)...)
	remap := make(map[NodeID]NodeID, len(ids))
	for _, old := range ids {
		n, _ := t.Node(old)
		remap[old] = NewID(n.Kind)
	}
	var parent NodeID
	if p, ok := t.Parent(id); ok {
		parent = p.ID
	}
	front := d.frontLayer(parent)

	next := slices.Clip(d.nodes)
	created := make([]NodeID, 0, len(ids))
	for _, old := range ids {
		n, _ := t.Node(old)
		c := n.Clone()
		c.ID = remap[old]
		if old == root.ID {
			c.ParentID = parent
			c.Layer = front
		} else {
			c.ParentID = remap[n.ParentID]
		}
		c.Position = c.Position.Add(Vec2{DuplicateOffset, DuplicateOffset})
		next = append(next, c)
		created = append(created, c.ID)
	}
	d.commit(next, ChangeAdd, created)
	return created
}

// ConfirmFunc is asked before deleting a group that still has children. It
// receives the group and the number of descendants that would go with it.
type ConfirmFunc func(group Node, descendants int) bool

// Delete removes id and all of its descendants. Deleting a group with
// children asks confirm first; a nil confirm allows it. It reports whether
// anything was removed.
func (d *Document) Delete(id NodeID, confirm ConfirmFunc) bool {
	t := d.Tree()
	n, ok := t.Node(id)
	if !ok {
		return false
	}
	desc := t.Descendants(id)
	if n.Kind == KindGroup && len(desc) > 0 && confirm != nil && !confirm(n, len(desc)) {
		return false
	}
	gone := make(map[NodeID]bool, len(desc)+1)
	gone[id] = true
	for _, x := range desc {
		gone[x] = true
	}
	next := make([]Node, 0, len(d.nodes)-len(gone))
	for _, x := range d.nodes {
		if !gone[x.ID] {
			next = append(next, x)
		}
	}
	d.commit(next, ChangeDelete, append([]NodeID{id}, desc...))
	return true
}

// Update applies fn to a copy of node id and commits it. Changes to ID are
// ignored; a ParentID change that would create a cycle discards the edit.
func (d *Document) Update(id NodeID, fn func(n *Node)) bool {
	t := d.Tree()
	i, ok := t.index[id]
	if !ok {
		return false
	}
	c := d.nodes[i].Clone()
	fn(&c)
	c.ID = id
	if c.ParentID != d.nodes[i].ParentID {
		if c.ParentID == id || t.IsDescendant(id, c.ParentID) {
			d.debugf("update of %s discarded: %v", id, ErrCycle)
			return false
		}
	}
	next := make([]Node, len(d.nodes))
	copy(next, d.nodes)
	next[i] = c
	d.commit(next, ChangeUpdate, []NodeID{id})
	return true
}

// FlipToggle switches a two-state node between its states.
func (d *Document) FlipToggle(id NodeID) bool {
	n, ok := d.Node(id)
	if !ok || n.Toggle == nil {
		return false
	}
	return d.Update(id, func(n *Node) { n.Toggle.Flip() })
}

// applyPatch commits a precomputed drop patch.
func (d *Document) applyPatch(p Patch) {
	ids := make([]NodeID, 0, len(p))
	for id := range p {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	d.commit(p.Apply(d.nodes), ChangeReorder, ids)
}

// Drop commits a reorder/reparent gesture. A drop that would create a cycle,
// or whose source or target no longer exists, is discarded and reported as
// false with nothing applied.
func (d *Document) Drop(drop Drop) bool {
	p, err := PlanDrop(d.Tree(), drop)
	if err != nil {
		d.debugf("drop %s %s %s discarded: %v", drop.Source, drop.Intent, drop.Target, err)
		return false
	}
	d.applyPatch(p)
	return true
}

// DropToRoot moves id to root level as the front-most root.
func (d *Document) DropToRoot(id NodeID) bool {
	p, err := PlanRootDrop(d.Tree(), id)
	if err != nil {
		d.debugf("root drop of %s discarded: %v", id, err)
		return false
	}
	d.applyPatch(p)
	return true
}

// DropGesture completes g against the document: the planned patch is
// committed and g ends committed, or nothing changes and g ends cancelled.
func (d *Document) DropGesture(g *Gesture) bool {
	p, err := g.Plan(d.Tree())
	g.Finish(err)
	if err != nil {
		d.debugf("gesture on %s cancelled: %v", g.Source(), err)
		return false
	}
	d.applyPatch(p)
	return true
}

// Capture snapshots the selection as a template. The document is unchanged.
func (d *Document) Capture(selection []NodeID, name string) Template {
	return Capture(d.Tree(), selection, name)
}

// InsertTemplate instantiates tm once with its origin at `at`, under parent,
// and returns the new IDs. Inserted roots go in front of existing siblings,
// keeping their relative template order.
func (d *Document) InsertTemplate(tm Template, at Vec2, parent NodeID) []NodeID {
	if len(tm.Nodes) == 0 {
		return nil
	}
	if !d.Tree().Has(parent) {
		parent = ""
	}
	front := d.frontLayer(parent)
	placed := tm.Instantiate(at, parent)
	ids := make([]NodeID, len(placed))
	for i := range placed {
		if placed[i].ParentID == parent {
			placed[i].Layer += front
		}
		ids[i] = placed[i].ID
	}
	next := append(slices.Clip(d.nodes), placed...)
	d.commit(next, ChangeInsert, ids)
	return ids
}

// Frame is one evaluated render pass.
type Frame struct {
	Version uint64
	Items   []RenderItem // paint order, hidden items included

	// Missing lists slot-list placeholders whose template was not found.
	// They render nothing; the editor shows them as degraded.
	Missing []NodeID
}

// Visible returns the items that render.
func (f Frame) Visible() []RenderItem {
	return VisibleItems(f.Items)
}

// Evaluate resolves two-state nodes, expands slot lists from src and orders
// the result against data. The document is unchanged.
func (d *Document) Evaluate(data any, src TemplateSource) Frame {
	var t0 time.Time
	if d.debug {
		t0 = time.Now()
	}
	resolved := make([]Node, len(d.nodes))
	for i, n := range d.nodes {
		resolved[i] = ResolveActive(n, data)
	}
	expanded, missing := ExpandAll(resolved, src, data)
	items := NewTree(expanded).Evaluate(data)
	if d.debug {
		for _, id := range missing {
			d.debugf("slot list %s: template not found, rendering nothing", id)
		}
		d.debugf("evaluate v%d: %d nodes, %d expanded, %d items in %v",
			d.version, len(d.nodes), len(expanded)-len(d.nodes), len(items), time.Since(t0))
	}
	return Frame{Version: d.version, Items: items, Missing: missing}
}
