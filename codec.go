package overlay

import (
	"encoding/json"
	"fmt"
)

// LayoutVersion is the current layout document format.
const LayoutVersion = 1

// Layout is the on-disk form of a document.
type Layout struct {
	Version int    `json:"version"`
	Name    string `json:"name,omitempty"`
	Canvas  Vec2   `json:"canvas"`
	Nodes   []Node `json:"nodes"`
}

// MarshalLayout encodes l as indented JSON.
func MarshalLayout(l Layout) ([]byte, error) {
	if l.Version == 0 {
		l.Version = LayoutVersion
	}
	return json.MarshalIndent(l, "", "  ")
}

// UnmarshalLayout parses a layout document.
func UnmarshalLayout(data []byte) (Layout, error) {
	var l Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return Layout{}, fmt.Errorf("parse layout: %w", err)
	}
	if l.Version > LayoutVersion {
		return Layout{}, fmt.Errorf("parse layout: unsupported version %d", l.Version)
	}
	return l, nil
}

// MarshalText implements encoding.TextMarshaler.
func (a Axis) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Axis) UnmarshalText(b []byte) error {
	*a = ParseAxis(string(b))
	return nil
}

var alignNames = [...]string{AlignLeft: "left", AlignCenter: "center", AlignRight: "right"}

// MarshalText implements encoding.TextMarshaler.
func (a Align) MarshalText() ([]byte, error) {
	if int(a) < len(alignNames) {
		return []byte(alignNames[a]), nil
	}
	return []byte("left"), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. Unknown names map to
// AlignLeft.
func (a *Align) UnmarshalText(b []byte) error {
	*a = AlignLeft
	for i, name := range alignNames {
		if name == string(b) {
			*a = Align(i)
		}
	}
	return nil
}

type nodeJSON struct {
	ID                NodeID          `json:"id"`
	Name              string          `json:"name,omitempty"`
	Kind              string          `json:"kind"`
	ParentID          NodeID          `json:"parentId,omitempty"`
	Layer             int             `json:"layer"`
	Position          Vec2            `json:"position"`
	Size              Vec2            `json:"size"`
	Visible           *bool           `json:"visible,omitempty"`
	VisibilityBinding string          `json:"visibilityBinding,omitempty"`
	DataPath          string          `json:"dataPath,omitempty"`
	Slot              *int            `json:"slot,omitempty"`
	ExpandedFrom      NodeID          `json:"expandedFrom,omitempty"`
	Props             json.RawMessage `json:"props,omitempty"`
	Toggle            *toggleJSON     `json:"toggle,omitempty"`
}

type toggleJSON struct {
	State1  overridesJSON `json:"state1"`
	State2  overridesJSON `json:"state2"`
	Active  int           `json:"active"`
	Binding string        `json:"binding,omitempty"`
}

type overridesJSON struct {
	Position *Vec2          `json:"position,omitempty"`
	Size     *Vec2          `json:"size,omitempty"`
	Visible  *bool          `json:"visible,omitempty"`
	DataPath *string        `json:"dataPath,omitempty"`
	Props    json.RawMessage `json:"props,omitempty"`
}

// MarshalJSON encodes the node with its props under the kind's schema.
// Visible is omitted when true.
func (n Node) MarshalJSON() ([]byte, error) {
	j := nodeJSON{
		ID:                n.ID,
		Name:              n.Name,
		Kind:              n.Kind.String(),
		ParentID:          n.ParentID,
		Layer:             n.Layer,
		Position:          n.Position,
		Size:              n.Size,
		VisibilityBinding: n.VisibilityBinding,
		DataPath:          n.DataPath,
		ExpandedFrom:      n.ExpandedFrom,
	}
	if !n.Visible {
		f := false
		j.Visible = &f
	}
	if n.Slotted {
		s := n.Slot
		j.Slot = &s
	}
	var err error
	if j.Props, err = marshalProps(n.Kind, n.Props); err != nil {
		return nil, fmt.Errorf("node %s: %w", n.ID, err)
	}
	if n.Toggle != nil {
		t := &toggleJSON{Active: n.Toggle.Active, Binding: n.Toggle.Binding}
		if t.State1, err = marshalOverrides(n.Kind, n.Toggle.State1); err != nil {
			return nil, fmt.Errorf("node %s state1: %w", n.ID, err)
		}
		if t.State2, err = marshalOverrides(n.Kind, n.Toggle.State2); err != nil {
			return nil, fmt.Errorf("node %s state2: %w", n.ID, err)
		}
		j.Toggle = t
	}
	return json.Marshal(j)
}

// UnmarshalJSON decodes a node, selecting the props schema from "kind".
func (n *Node) UnmarshalJSON(data []byte) error {
	var j nodeJSON
	if err := json.Unmarshal(data, &j); err != nil {
		return err
	}
	k, ok := ParseKind(j.Kind)
	if !ok {
		return fmt.Errorf("node %s: unknown kind %q", j.ID, j.Kind)
	}
	props, err := unmarshalProps(k, j.Props)
	if err != nil {
		return fmt.Errorf("node %s: %w", j.ID, err)
	}
	*n = Node{
		ID:                j.ID,
		Name:              j.Name,
		Kind:              k,
		ParentID:          j.ParentID,
		Layer:             j.Layer,
		Position:          j.Position,
		Size:              j.Size,
		Visible:           j.Visible == nil || *j.Visible,
		VisibilityBinding: j.VisibilityBinding,
		DataPath:          j.DataPath,
		ExpandedFrom:      j.ExpandedFrom,
		Props:             props,
	}
	if j.Slot != nil {
		n.Slot, n.Slotted = *j.Slot, true
	}
	if j.Toggle != nil {
		t := &Toggle{Active: j.Toggle.Active, Binding: j.Toggle.Binding}
		if t.State1, err = unmarshalOverrides(k, j.Toggle.State1); err != nil {
			return fmt.Errorf("node %s state1: %w", j.ID, err)
		}
		if t.State2, err = unmarshalOverrides(k, j.Toggle.State2); err != nil {
			return fmt.Errorf("node %s state2: %w", j.ID, err)
		}
		n.Toggle = t
	}
	return nil
}

func marshalProps(k Kind, p Props) (json.RawMessage, error) {
	if p == nil {
		return nil, nil
	}
	if p.Kind() != k {
		return nil, fmt.Errorf("props of kind %s on %s node", p.Kind(), k)
	}
	if k == KindGroup {
		return nil, nil
	}
	return json.Marshal(p)
}

func unmarshalProps(k Kind, raw json.RawMessage) (Props, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return defaultProps(k), nil
	}
	var err error
	switch k {
	case KindText:
		p := defaultProps(k).(TextProps)
		err = json.Unmarshal(raw, &p)
		return p, err
	case KindBox:
		p := defaultProps(k).(BoxProps)
		err = json.Unmarshal(raw, &p)
		return p, err
	case KindIndicator:
		p := defaultProps(k).(IndicatorProps)
		err = json.Unmarshal(raw, &p)
		return p, err
	case KindLeaderboard:
		p := defaultProps(k).(LeaderboardProps)
		err = json.Unmarshal(raw, &p)
		return p, err
	case KindSlotList:
		p := defaultProps(k).(SlotListProps)
		err = json.Unmarshal(raw, &p)
		return p, err
	}
	return GroupProps{}, nil
}

func marshalOverrides(k Kind, o Overrides) (overridesJSON, error) {
	j := overridesJSON{Position: o.Position, Size: o.Size, Visible: o.Visible, DataPath: o.DataPath}
	var err error
	j.Props, err = marshalProps(k, o.Props)
	return j, err
}

func unmarshalOverrides(k Kind, j overridesJSON) (Overrides, error) {
	o := Overrides{Position: j.Position, Size: j.Size, Visible: j.Visible, DataPath: j.DataPath}
	if len(j.Props) > 0 && string(j.Props) != "null" {
		p, err := unmarshalProps(k, j.Props)
		if err != nil {
			return Overrides{}, err
		}
		o.Props = p
	}
	return o, nil
}
