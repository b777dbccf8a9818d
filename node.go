package overlay

import (
	"crypto/rand"
	"encoding/hex"

	"github.com/jinzhu/copier"
)

// NodeID is an opaque identifier, stable for the node's lifetime. The empty
// NodeID means "no node" and is used as the root-level parent reference.
type NodeID string

// NewID mints a fresh identifier for a node of the given kind.
func NewID(k Kind) NodeID {
	var b [6]byte
	_, _ = rand.Read(b[:])
	return NodeID(k.String() + "-" + hex.EncodeToString(b[:]))
}

// --- Props variants ---

// Props is the kind-specific payload of a Node. Each variant carries only
// the fields its renderer needs; binding fields live on Node itself.
type Props interface {
	Kind() Kind
}

// GroupProps is the payload of an organizational group. Groups have no
// visual fields.
type GroupProps struct{}

// Kind implements Props.
func (GroupProps) Kind() Kind { return KindGroup }

// Align selects horizontal text alignment inside a node's box.
type Align uint8

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

// TextProps displays the node's bound data field as text.
type TextProps struct {
	Format   string  `json:"format,omitempty"`   // "{}" is replaced with the resolved value; empty means the value alone
	Fallback string  `json:"fallback,omitempty"` // shown when the data path does not resolve
	FontSize float64 `json:"fontSize,omitempty"` // pixels
	Color    string  `json:"color,omitempty"`    // hex, "#rrggbb" or "#rrggbbaa"
	Align    Align   `json:"align"`
}

// Kind implements Props.
func (TextProps) Kind() Kind { return KindText }

// BoxProps is a solid rectangle.
type BoxProps struct {
	Color        string  `json:"color,omitempty"`
	CornerRadius float64 `json:"cornerRadius,omitempty"`
}

// Kind implements Props.
func (BoxProps) Kind() Kind { return KindBox }

// IndicatorProps renders Count pips of which the first N are "on", where N is
// the integer at the node's data path.
type IndicatorProps struct {
	Count         int     `json:"count"`
	ActiveColor   string  `json:"activeColor,omitempty"`
	InactiveColor string  `json:"inactiveColor,omitempty"`
	Axis          Axis    `json:"axis"`
	Gap           float64 `json:"gap,omitempty"`
}

// Kind implements Props.
func (IndicatorProps) Kind() Kind { return KindIndicator }

// LeaderboardProps renders up to Rows entries of the list at the node's data
// path. Columns name the fields of each entry shown left to right.
type LeaderboardProps struct {
	Rows      int      `json:"rows"`
	RowHeight float64  `json:"rowHeight,omitempty"`
	Columns   []string `json:"columns,omitempty"`
	Color     string   `json:"color,omitempty"`
}

// Kind implements Props.
func (LeaderboardProps) Kind() Kind { return KindLeaderboard }

// SlotListProps is the payload of a repeated-slot placeholder.
type SlotListProps struct {
	TemplateID      string  `json:"templateId"`
	Count           int     `json:"count"`
	Axis            Axis    `json:"axis"`
	Spacing         float64 `json:"spacing,omitempty"`
	DataPrefix      string  `json:"dataPrefix,omitempty"` // e.g. "roster"
	Side            string  `json:"side,omitempty"`       // e.g. "home" or "away"
	CompactInactive bool    `json:"compactInactive,omitempty"`
}

// Kind implements Props.
func (SlotListProps) Kind() Kind { return KindSlotList }

// defaultProps returns the zero payload for a kind.
func defaultProps(k Kind) Props {
	switch k {
	case KindText:
		return TextProps{FontSize: 24, Color: "#ffffff"}
	case KindBox:
		return BoxProps{Color: "#000000"}
	case KindIndicator:
		return IndicatorProps{Count: 3, ActiveColor: "#ffcc00", InactiveColor: "#444444", Axis: AxisRow, Gap: 4}
	case KindLeaderboard:
		return LeaderboardProps{Rows: 5, RowHeight: 32, Color: "#ffffff"}
	case KindSlotList:
		return SlotListProps{Count: 1}
	default:
		return GroupProps{}
	}
}

// --- Node ---

// Node is the fundamental scene element. A single flat struct is used for all
// kinds; the kind-specific fields live in Props.
type Node struct {
	// Identity
	ID   NodeID
	Name string
	Kind Kind

	// Hierarchy. Layer orders the node against siblings sharing ParentID;
	// higher paints later.
	ParentID NodeID
	Layer    int

	// Geometry in absolute device pixels.
	Position Vec2
	Size     Vec2

	// Visibility. Visible is a hard cutoff for the node and its subtree.
	// VisibilityBinding names an external boolean; on ancestors it hides,
	// on the node itself it drives opacity.
	Visible           bool
	VisibilityBinding string

	// DataPath is a dotted path into the external data object.
	DataPath string

	// Slot bookkeeping, set by slot-list expansion.
	Slot    int
	Slotted bool

	// ExpandedFrom is the document placeholder the node was expanded from.
	// Nested expansions keep the outermost placeholder.
	ExpandedFrom NodeID

	Props  Props `copier:"-"` // copied by cloneProps
	Toggle *Toggle
}

// NewNode creates a node of the given kind with a fresh ID and default props.
func NewNode(name string, k Kind) Node {
	return Node{
		ID:      NewID(k),
		Name:    name,
		Kind:    k,
		Visible: true,
		Props:   defaultProps(k),
	}
}

// NewGroup creates an organizational group node.
func NewGroup(name string) Node {
	return NewNode(name, KindGroup)
}

// NewText creates a text node bound to path.
func NewText(name, path string) Node {
	n := NewNode(name, KindText)
	n.DataPath = path
	return n
}

// NewBox creates a solid rectangle node.
func NewBox(name, color string) Node {
	n := NewNode(name, KindBox)
	n.Props = BoxProps{Color: color}
	return n
}

// NewSlotList creates a slot-list placeholder.
func NewSlotList(name string, p SlotListProps) Node {
	n := NewNode(name, KindSlotList)
	n.Props = p
	return n
}

// Bounds returns the node's rectangle.
func (n Node) Bounds() Rect {
	return Rect{X: n.Position.X, Y: n.Position.Y, Width: n.Size.X, Height: n.Size.Y}
}

// IsRoot reports whether the node has no parent reference.
func (n Node) IsRoot() bool {
	return n.ParentID == ""
}

// SlotList returns the slot-list payload, if the node is a placeholder.
func (n Node) SlotList() (SlotListProps, bool) {
	p, ok := n.Props.(SlotListProps)
	return p, ok
}

// Clone returns a copy of n that shares no mutable state with it.
func (n Node) Clone() Node {
	c := deepCopied(n)
	c.Props = cloneProps(n.Props)
	if n.Toggle != nil {
		c.Toggle.State1.Props = cloneProps(n.Toggle.State1.Props)
		c.Toggle.State2.Props = cloneProps(n.Toggle.State2.Props)
	}
	return c
}

// deepCopied returns a copy of v with pointers, slices and maps duplicated.
func deepCopied[T any](v T) T {
	var out T
	if err := copier.CopyWithOption(&out, &v, copier.Option{DeepCopy: true}); err != nil {
		// Same-type struct copies cannot fail.
		panic("overlay: deep copy: " + err.Error())
	}
	return out
}

// cloneProps deep-copies a payload through its concrete type.
func cloneProps(p Props) Props {
	switch p := p.(type) {
	case TextProps:
		return deepCopied(p)
	case BoxProps:
		return deepCopied(p)
	case IndicatorProps:
		return deepCopied(p)
	case LeaderboardProps:
		return deepCopied(p)
	case SlotListProps:
		return deepCopied(p)
	default:
		return p
	}
}

// cloneNodes returns a deep copy of nodes.
func cloneNodes(nodes []Node) []Node {
	out := make([]Node, len(nodes))
	for i := range nodes {
		out[i] = nodes[i].Clone()
	}
	return out
}
