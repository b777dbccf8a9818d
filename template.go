package overlay

import (
	"math"
	"slices"
	"strconv"
	"time"
)

// Template is a captured, position-normalized fragment of nodes. Node
// positions are relative to the fragment's bounding box origin, parent
// references only point inside the fragment, and data paths are relative.
type Template struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Nodes    []Node    `json:"nodes"`
	SlotSize Vec2      `json:"slotSize"`
	Created  time.Time `json:"created"`
}

// TemplateSource looks templates up by ID. store.Store implementations
// satisfy it.
type TemplateSource interface {
	Template(id string) (Template, bool)
}

// TemplateMap is an in-memory TemplateSource.
type TemplateMap map[string]Template

// Template implements TemplateSource.
func (m TemplateMap) Template(id string) (Template, bool) {
	t, ok := m[id]
	return t, ok
}

// Bounds returns the union of the nodes' rectangles. An empty slice yields a
// zero Rect.
func Bounds(nodes []Node) Rect {
	if len(nodes) == 0 {
		return Rect{}
	}
	r := nodes[0].Bounds()
	for _, n := range nodes[1:] {
		r = r.Union(n.Bounds())
	}
	return r
}

// Capture builds a template from the selected IDs. Every descendant of a
// selected group is included; groups themselves are discarded once their
// renderable descendants are collected. The retained nodes are translated so
// the bounding box starts at (0,0), given fresh IDs, and parent references
// are remapped inside the fragment or dropped.
//
// Selected IDs missing from t are ignored. An empty result yields a template
// with no nodes and zero slot size.
func Capture(t *Tree, selection []NodeID, name string) Template {
	var picked []NodeID
	seen := make(map[NodeID]bool)
	add := func(id NodeID) {
		if !seen[id] && t.Has(id) {
			seen[id] = true
			picked = append(picked, id)
		}
	}
	for _, id := range selection {
		n, ok := t.Node(id)
		if !ok {
			continue
		}
		add(id)
		if n.Kind == KindGroup {
			for _, d := range t.Descendants(id) {
				add(d)
			}
		}
	}

	var kept []Node
	for _, id := range picked {
		n, _ := t.Node(id)
		if n.Kind == KindGroup {
			continue
		}
		kept = append(kept, n.Clone())
	}

	box := Bounds(kept)
	remap := make(map[NodeID]NodeID, len(kept))
	for _, n := range kept {
		remap[n.ID] = NewID(n.Kind)
	}
	for i := range kept {
		n := &kept[i]
		n.ID = remap[n.ID]
		if p, ok := remap[n.ParentID]; ok {
			n.ParentID = p
		} else {
			n.ParentID = ""
		}
		n.Position = n.Position.Sub(box.Min())
		n.Slot, n.Slotted, n.ExpandedFrom = 0, false, ""
	}

	return Template{
		ID:       string(NewID(KindSlotList)),
		Name:     name,
		Nodes:    kept,
		SlotSize: box.Size(),
		Created:  time.Now(),
	}
}

// instantiate clones the template nodes with fresh IDs, remapping internal
// parent references. Nodes whose parent is outside the fragment get parent.
func (tm Template) instantiate(parent NodeID) []Node {
	return tm.instantiateAs(parent, func(n Node) NodeID { return NewID(n.Kind) })
}

// instantiateAs is instantiate with the new ID of each node chosen by id.
func (tm Template) instantiateAs(parent NodeID, id func(Node) NodeID) []Node {
	out := cloneNodes(tm.Nodes)
	remap := make(map[NodeID]NodeID, len(out))
	for _, n := range out {
		remap[n.ID] = id(n)
	}
	for i := range out {
		n := &out[i]
		n.ID = remap[n.ID]
		if p, ok := remap[n.ParentID]; ok {
			n.ParentID = p
		} else {
			n.ParentID = parent
		}
	}
	return out
}

// Instantiate places one copy of the template with its origin at `at`, under
// parent. This is the "load template into the scene" action; the result has
// no link back to the template.
func (tm Template) Instantiate(at Vec2, parent NodeID) []Node {
	out := tm.instantiate(parent)
	for i := range out {
		out[i].Position = out[i].Position.Add(at)
	}
	return out
}

// naturalExtent returns the size of count slots laid out along axis with
// spacing between them.
func naturalExtent(slot Vec2, count int, axis Axis, spacing float64) Vec2 {
	if count <= 0 {
		return Vec2{}
	}
	along := float64(count)*axis.along(slot) + float64(count-1)*spacing
	if axis == AxisRow {
		return Vec2{X: along, Y: slot.Y}
	}
	return Vec2{X: slot.X, Y: along}
}

// fitScale returns the uniform factor that fits natural inside target. A
// zero-size target or natural extent means no scaling.
func fitScale(target, natural Vec2) float64 {
	if target.X <= 0 || target.Y <= 0 || natural.X <= 0 || natural.Y <= 0 {
		return 1
	}
	return math.Min(target.X/natural.X, target.Y/natural.Y)
}

// ExpandSlotList instantiates tm once per slot of the placeholder. Slot i is
// offset by i*(slotSize+spacing) along the axis, translated by the
// placeholder position, and the whole run is uniformly scaled to fit the
// placeholder's size. Data paths and visibility bindings are rewritten to
// prefix.side.slot<i>.<relative>.
//
// With CompactInactive set, each node without its own binding gets
// prefix.side.slot<i>.active; slots whose active flag resolves to strict
// false in data are skipped and later slots move up to close the gap. The
// Slot tag always keeps the original index.
//
// Expanded IDs are derived from the placeholder ID, the slot index and the
// template node ID, so evaluating the same document twice yields the same IDs
// and per-node state such as fades carries across frames.
//
// A nil template, or a placeholder that is not a slot list, yields nil.
func ExpandSlotList(placeholder Node, tm *Template, data any) []Node {
	props, ok := placeholder.SlotList()
	if !ok || tm == nil {
		return nil
	}
	count := clampCount(props.Count)
	spacing := clampNonNegative(props.Spacing)
	slot := Vec2{clampNonNegative(tm.SlotSize.X), clampNonNegative(tm.SlotSize.Y)}
	scale := fitScale(placeholder.Size, naturalExtent(slot, count, props.Axis, spacing))
	step := props.Axis.along(slot) + spacing

	origin := placeholder.ID
	if placeholder.ExpandedFrom != "" {
		origin = placeholder.ExpandedFrom
	}

	out := make([]Node, 0, count*len(tm.Nodes))
	emitted := 0
	for i := 0; i < count; i++ {
		activePath := SlotPath(props.DataPrefix, props.Side, i, "active")
		if props.CompactInactive {
			if on, ok := ResolveBool(data, activePath); ok && !on {
				continue
			}
		}
		pos := i
		if props.CompactInactive {
			pos = emitted
		}
		offset := props.Axis.offset(float64(pos) * step)
		for _, n := range tm.instantiateAs(placeholder.ID, func(n Node) NodeID {
			return slotNodeID(placeholder.ID, i, n.ID)
		}) {
			n.Slot, n.Slotted, n.ExpandedFrom = i, true, origin
			n.Position = placeholder.Position.Add(offset.Add(n.Position).Scale(scale))
			n.Size = n.Size.Scale(scale)
			if n.DataPath != "" {
				n.DataPath = SlotPath(props.DataPrefix, props.Side, i, n.DataPath)
			}
			if n.VisibilityBinding != "" {
				n.VisibilityBinding = SlotPath(props.DataPrefix, props.Side, i, n.VisibilityBinding)
			} else if props.CompactInactive {
				n.VisibilityBinding = activePath
			}
			if inner, ok := n.SlotList(); ok {
				inner.DataPrefix = SlotPath(props.DataPrefix, props.Side, i, inner.DataPrefix)
				n.Props = inner
			}
			out = append(out, n)
		}
		emitted++
	}
	return out
}

// slotNodeID names the copy of template node id in slot i of placeholder.
func slotNodeID(placeholder NodeID, i int, id NodeID) NodeID {
	return placeholder + "/slot" + NodeID(strconv.Itoa(i)) + "/" + id
}

// maxExpandDepth bounds nested slot-list expansion.
const maxExpandDepth = 4

// maxExpandedNodes bounds the number of nodes ExpandAll adds per call.
const maxExpandedNodes = 1 << 16

// expansion is a node emitted by ExpandAll with the template IDs expanded on
// the way to it, outermost first.
type expansion struct {
	node  Node
	chain []string
}

// ExpandAll returns nodes followed by the expansion of every slot-list
// placeholder, including placeholders emitted by other expansions up to a
// fixed nesting depth. A placeholder whose template is already being expanded
// above it is left unexpanded, and expansion stops once maxExpandedNodes
// nodes have been added. Placeholders whose template cannot be found are
// reported in missing and expand to nothing.
func ExpandAll(nodes []Node, src TemplateSource, data any) (out []Node, missing []NodeID) {
	out = make([]Node, 0, len(nodes))
	out = append(out, nodes...)
	pending := make([]expansion, len(nodes))
	for i, n := range nodes {
		pending[i] = expansion{node: n}
	}
	budget := maxExpandedNodes
	for depth := 0; depth < maxExpandDepth && len(pending) > 0 && budget > 0; depth++ {
		var next []expansion
		for _, e := range pending {
			p, ok := e.node.SlotList()
			if !ok || slices.Contains(e.chain, p.TemplateID) {
				continue
			}
			var tm *Template
			if src != nil {
				if t, found := src.Template(p.TemplateID); found {
					tm = &t
				}
			}
			if tm == nil {
				missing = append(missing, e.node.ID)
				continue
			}
			chain := append(slices.Clip(e.chain), p.TemplateID)
			expanded := ExpandSlotList(e.node, tm, data)
			if len(expanded) > budget {
				expanded = expanded[:budget]
			}
			budget -= len(expanded)
			for _, n := range expanded {
				out = append(out, n)
				next = append(next, expansion{node: n, chain: chain})
			}
			if budget == 0 {
				break
			}
		}
		pending = next
	}
	return out, missing
}
