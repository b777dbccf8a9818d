package overlay

import "math"

const defaultDragDeadZone = 4.0 // pixels

// GestureState is the phase of a layer-panel drag gesture.
type GestureState uint8

const (
	GestureIdle GestureState = iota
	GestureDragging
	GestureHovering
	GestureCommitted
	GestureCancelled
)

// String returns the state name.
func (s GestureState) String() string {
	switch s {
	case GestureIdle:
		return "idle"
	case GestureDragging:
		return "dragging"
	case GestureHovering:
		return "hovering"
	case GestureCommitted:
		return "committed"
	case GestureCancelled:
		return "cancelled"
	}
	return "unknown"
}

// ZoneAt maps a pointer y coordinate inside a target row to a drop intent.
// The row occupies [top, top+height). The top quartile is before, the bottom
// quartile after, and the middle half into. When the target cannot hold
// children the row splits in halves between before and after.
func ZoneAt(y, top, height float64, container bool) DropIntent {
	if height <= 0 {
		return DropBefore
	}
	f := (y - top) / height
	if !container {
		if f < 0.5 {
			return DropBefore
		}
		return DropAfter
	}
	switch {
	case f < 0.25:
		return DropBefore
	case f >= 0.75:
		return DropAfter
	}
	return DropInto
}

// Gesture tracks one drag in the layer panel from pointer-down to drop.
// Between events the document is always fully consistent: nothing is applied
// until Drop commits a precomputed patch.
//
// Zero value is an idle gesture with the default dead zone.
type Gesture struct {
	state    GestureState
	source   NodeID
	target   NodeID
	intent   DropIntent
	rootZone bool

	pressed        bool
	startX, startY float64
	DeadZone       float64
}

// State returns the current phase.
func (g *Gesture) State() GestureState { return g.state }

// Source returns the dragged node, if any.
func (g *Gesture) Source() NodeID { return g.source }

// Target returns the hovered node and intent. ok is false when not hovering a
// node.
func (g *Gesture) Target() (id NodeID, intent DropIntent, ok bool) {
	if g.state != GestureHovering || g.rootZone {
		return "", 0, false
	}
	return g.target, g.intent, true
}

// Press records a pointer-down on a row. The gesture only becomes a drag once
// the pointer moves beyond the dead zone.
func (g *Gesture) Press(id NodeID, x, y float64) {
	*g = Gesture{DeadZone: g.DeadZone, pressed: true, source: id, startX: x, startY: y}
}

// Move reports pointer motion with the button held. It returns true when this
// move started the drag.
func (g *Gesture) Move(x, y float64) bool {
	if !g.pressed || g.state != GestureIdle {
		return false
	}
	dz := g.DeadZone
	if dz <= 0 {
		dz = defaultDragDeadZone
	}
	dx, dy := x-g.startX, y-g.startY
	if math.Sqrt(dx*dx+dy*dy) <= dz {
		return false
	}
	g.state = GestureDragging
	return true
}

// Start begins a drag of id immediately, skipping the dead zone.
func (g *Gesture) Start(id NodeID) {
	*g = Gesture{DeadZone: g.DeadZone, source: id, state: GestureDragging}
}

// Hover records the pointer over target with the given intent. Hovering the
// dragged node itself or one of its descendants is not a valid target and
// leaves the gesture in the dragging state.
func (g *Gesture) Hover(t *Tree, target NodeID, intent DropIntent) bool {
	if g.state != GestureDragging && g.state != GestureHovering {
		return false
	}
	if target == g.source || !t.Has(target) || t.IsDescendant(g.source, target) {
		g.Leave()
		return false
	}
	if n, _ := t.Node(target); intent == DropInto && !CanContain(n.Kind) {
		g.Leave()
		return false
	}
	g.state = GestureHovering
	g.target = target
	g.intent = intent
	g.rootZone = false
	return true
}

// HoverRoot records the pointer over the empty root-level area.
func (g *Gesture) HoverRoot() bool {
	if g.state != GestureDragging && g.state != GestureHovering {
		return false
	}
	g.state = GestureHovering
	g.target = ""
	g.rootZone = true
	return true
}

// Leave records the pointer leaving every valid target.
func (g *Gesture) Leave() {
	if g.state == GestureHovering {
		g.state = GestureDragging
	}
	g.target = ""
	g.rootZone = false
}

// Cancel ends the gesture without applying anything.
func (g *Gesture) Cancel() {
	if g.state == GestureCommitted {
		return
	}
	g.state = GestureCancelled
	g.pressed = false
}

// Plan computes the patch a drop would commit right now, without changing
// the gesture state.
func (g *Gesture) Plan(t *Tree) (Patch, error) {
	if g.state != GestureHovering {
		return nil, ErrNoTarget
	}
	if g.rootZone {
		return PlanRootDrop(t, g.source)
	}
	return PlanDrop(t, Drop{Source: g.source, Target: g.target, Intent: g.intent})
}

// Finish ends the gesture as committed or cancelled depending on err. It is
// the hook for a host that applied the planned patch itself.
func (g *Gesture) Finish(err error) {
	g.pressed = false
	if err != nil {
		g.state = GestureCancelled
		return
	}
	g.state = GestureCommitted
}
