package overlay

import "math"

// Vec2 is a 2D vector used for positions, offsets and sizes throughout the
// API. Units are device pixels.
type Vec2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Add returns v + o.
func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }

// Sub returns v - o.
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }

// Scale returns v multiplied by s on both axes.
func (v Vec2) Scale(s float64) Vec2 { return Vec2{v.X * s, v.Y * s} }

// Rect is an axis-aligned rectangle. The coordinate system has its origin at
// the top-left, with Y increasing downward.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// Intersects reports whether r and other overlap.
// Adjacent rectangles (sharing only an edge) are considered intersecting.
func (r Rect) Intersects(other Rect) bool {
	return r.X <= other.X+other.Width &&
		r.X+r.Width >= other.X &&
		r.Y <= other.Y+other.Height &&
		r.Y+r.Height >= other.Y
}

// Min returns the top-left corner.
func (r Rect) Min() Vec2 { return Vec2{r.X, r.Y} }

// Size returns the rectangle's extent.
func (r Rect) Size() Vec2 { return Vec2{r.Width, r.Height} }

// Union returns the smallest rectangle containing both r and other.
func (r Rect) Union(other Rect) Rect {
	x0 := math.Min(r.X, other.X)
	y0 := math.Min(r.Y, other.Y)
	x1 := math.Max(r.X+r.Width, other.X+other.Width)
	y1 := math.Max(r.Y+r.Height, other.Y+other.Height)
	return Rect{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}

// Axis selects the direction a repeated run of slots grows in.
type Axis uint8

const (
	AxisColumn Axis = iota // slots stacked vertically
	AxisRow                // slots laid out horizontally
)

// String returns the codec name of the axis.
func (a Axis) String() string {
	if a == AxisRow {
		return "row"
	}
	return "column"
}

// ParseAxis maps a codec name back to an Axis. Unknown names map to AxisColumn.
func ParseAxis(s string) Axis {
	if s == "row" || s == "horizontal" {
		return AxisRow
	}
	return AxisColumn
}

// along returns the component of v on the axis.
func (a Axis) along(v Vec2) float64 {
	if a == AxisRow {
		return v.X
	}
	return v.Y
}

// offset returns a vector of length d on the axis.
func (a Axis) offset(d float64) Vec2 {
	if a == AxisRow {
		return Vec2{X: d}
	}
	return Vec2{Y: d}
}

// Kind distinguishes rendering behavior for a Node.
type Kind uint8

const (
	KindGroup       Kind = iota // organizational node with no visual output
	KindText                    // renders a bound data field as text
	KindBox                     // solid rectangle
	KindIndicator               // row/column of N on/off pips (timeouts, fouls)
	KindLeaderboard             // ranked rows bound to a data list
	KindSlotList                // placeholder expanded from a template K times
)

var kindNames = [...]string{
	KindGroup:       "group",
	KindText:        "text",
	KindBox:         "box",
	KindIndicator:   "indicator",
	KindLeaderboard: "leaderboard",
	KindSlotList:    "slotList",
}

// String returns the codec name of the kind.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// ParseKind maps a codec name back to a Kind.
func ParseKind(s string) (Kind, bool) {
	for k, name := range kindNames {
		if name == s {
			return Kind(k), true
		}
	}
	return 0, false
}

// Renderable reports whether nodes of this kind produce output themselves.
// Groups and slot-list placeholders only scope their children.
func (k Kind) Renderable() bool {
	return k != KindGroup && k != KindSlotList
}

// clampCount clamps a repetition count to [0, maxSlotCount].
func clampCount(n int) int {
	if n < 0 {
		return 0
	}
	if n > maxSlotCount {
		return maxSlotCount
	}
	return n
}

// clampLayer clamps a node layer to [0, LayerBase-1]. Sibling editing order
// and paint keys both read layers through it.
func clampLayer(l int) int {
	if l < 0 {
		return 0
	}
	if l >= LayerBase {
		return LayerBase - 1
	}
	return l
}

// clampNonNegative clamps f to [0, +inf); NaN becomes 0.
func clampNonNegative(f float64) float64 {
	if f < 0 || math.IsNaN(f) {
		return 0
	}
	return f
}

// maxSlotCount bounds slot-list repetition.
const maxSlotCount = 256
