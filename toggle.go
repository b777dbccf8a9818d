package overlay

// Overrides are the fields one state of a two-state node replaces on top of
// the base node. Nil fields keep the base value.
type Overrides struct {
	Position *Vec2
	Size     *Vec2
	Visible  *bool
	DataPath *string
	Props    Props `copier:"-"` // replaces the base payload when the kinds match
}

// Toggle turns a node into a two-state node. Active selects which override
// set applies (1 or 2). When Binding resolves to a strict boolean it wins over
// Active: true selects state 2.
type Toggle struct {
	State1  Overrides
	State2  Overrides
	Active  int
	Binding string
}

// ActiveState returns 1 or 2. Out-of-range Active values clamp to 1.
func (t Toggle) ActiveState(data any) int {
	if t.Binding != "" {
		if on, ok := ResolveBool(data, t.Binding); ok {
			if on {
				return 2
			}
			return 1
		}
	}
	if t.Active == 2 {
		return 2
	}
	return 1
}

// ResolveActive returns the view of n with its active toggle state applied.
// Nodes without a Toggle are returned unchanged. The result carries no Toggle.
func ResolveActive(n Node, data any) Node {
	if n.Toggle == nil {
		return n
	}
	o := n.Toggle.State1
	if n.Toggle.ActiveState(data) == 2 {
		o = n.Toggle.State2
	}
	v := n
	v.Toggle = nil
	if o.Position != nil {
		v.Position = *o.Position
	}
	if o.Size != nil {
		v.Size = *o.Size
	}
	if o.Visible != nil {
		v.Visible = *o.Visible
	}
	if o.DataPath != nil {
		v.DataPath = *o.DataPath
	}
	if o.Props != nil && o.Props.Kind() == n.Kind {
		v.Props = o.Props
	}
	return v
}

// Flip switches the active state between 1 and 2.
func (t *Toggle) Flip() {
	if t.Active == 2 {
		t.Active = 1
	} else {
		t.Active = 2
	}
}
