package overlay

import (
	"strings"
	"testing"
)

// box builds a box node with a fixed ID for tests.
func box(id, parent string, layer int) Node {
	n := NewNode(id, KindBox)
	n.ID = NodeID(id)
	n.ParentID = NodeID(parent)
	n.Layer = layer
	return n
}

// group builds a group node with a fixed ID for tests.
func group(id, parent string, layer int) Node {
	n := NewNode(id, KindGroup)
	n.ID = NodeID(id)
	n.ParentID = NodeID(parent)
	n.Layer = layer
	return n
}

func ids(list []NodeID) string {
	s := make([]string, len(list))
	for i, id := range list {
		s[i] = string(id)
	}
	return strings.Join(s, ",")
}

// --- Constructor defaults ---

func TestNewNodeDefaults(t *testing.T) {
	for _, k := range []Kind{KindGroup, KindText, KindBox, KindIndicator, KindLeaderboard, KindSlotList} {
		n := NewNode("n", k)
		if n.ID == "" {
			t.Errorf("%s: ID should be non-empty", k)
		}
		if !strings.HasPrefix(string(n.ID), k.String()+"-") {
			t.Errorf("%s: ID = %q, want kind prefix", k, n.ID)
		}
		if !n.Visible {
			t.Errorf("%s: Visible should be true", k)
		}
		if n.Props == nil || n.Props.Kind() != k {
			t.Errorf("%s: Props = %#v, want matching kind", k, n.Props)
		}
	}
}

func TestUniqueIDs(t *testing.T) {
	seen := make(map[NodeID]bool)
	for i := 0; i < 1000; i++ {
		id := NewID(KindText)
		if seen[id] {
			t.Fatalf("duplicate ID %q", id)
		}
		seen[id] = true
	}
}

func TestNewText(t *testing.T) {
	n := NewText("score", "home.points")
	if n.Kind != KindText || n.DataPath != "home.points" {
		t.Errorf("got kind %s path %q", n.Kind, n.DataPath)
	}
}

func TestKindRenderable(t *testing.T) {
	if KindGroup.Renderable() || KindSlotList.Renderable() {
		t.Error("groups and slot lists should not be renderable")
	}
	if !KindText.Renderable() || !KindBox.Renderable() {
		t.Error("text and box should be renderable")
	}
}

func TestParseKind(t *testing.T) {
	for _, k := range []Kind{KindGroup, KindText, KindBox, KindIndicator, KindLeaderboard, KindSlotList} {
		got, ok := ParseKind(k.String())
		if !ok || got != k {
			t.Errorf("ParseKind(%q) = %v, %v", k.String(), got, ok)
		}
	}
	if _, ok := ParseKind("sprite"); ok {
		t.Error("ParseKind should reject unknown names")
	}
}

// --- Clone ---

func TestCloneIsIndependent(t *testing.T) {
	n := NewNode("lb", KindLeaderboard)
	n.Props = LeaderboardProps{Rows: 3, Columns: []string{"name", "points"}}
	pos := Vec2{1, 2}
	n.Toggle = &Toggle{State2: Overrides{Position: &pos}, Active: 1}

	c := n.Clone()
	if c.ID != n.ID || c.Name != n.Name || c.Kind != n.Kind {
		t.Fatalf("clone lost identity: %+v", c)
	}

	c.Props.(LeaderboardProps).Columns[0] = "changed"
	if n.Props.(LeaderboardProps).Columns[0] != "name" {
		t.Error("clone shares Columns backing array")
	}
	*c.Toggle.State2.Position = Vec2{9, 9}
	c.Toggle.Active = 2
	if *n.Toggle.State2.Position != (Vec2{1, 2}) || n.Toggle.Active != 1 {
		t.Error("clone shares toggle state")
	}
}

func TestCloneToggleOverridePayload(t *testing.T) {
	n := NewNode("lb", KindLeaderboard)
	pos := Vec2{3, 4}
	n.Toggle = &Toggle{State1: Overrides{
		Position: &pos,
		Props:    LeaderboardProps{Rows: 2, Columns: []string{"team"}},
	}}

	c := n.Clone()
	c.Toggle.State1.Position.X = 99
	c.Toggle.State1.Props.(LeaderboardProps).Columns[0] = "changed"
	if n.Toggle.State1.Position.X != 3 {
		t.Error("clone shares State1.Position")
	}
	if got := n.Toggle.State1.Props.(LeaderboardProps).Columns[0]; got != "team" {
		t.Errorf("original override Columns[0] = %q, want team", got)
	}
}

func TestCloneNilToggleAndProps(t *testing.T) {
	n := Node{ID: "x", Kind: KindBox}
	c := n.Clone()
	if c.Toggle != nil || c.Props != nil {
		t.Errorf("clone = %+v, want nil toggle and props", c)
	}
}

// --- Geometry ---

func TestRectUnion(t *testing.T) {
	a := Rect{X: 0, Y: 0, Width: 10, Height: 10}
	b := Rect{X: 20, Y: -5, Width: 5, Height: 5}
	got := a.Union(b)
	want := Rect{X: 0, Y: -5, Width: 25, Height: 15}
	if got != want {
		t.Errorf("Union = %+v, want %+v", got, want)
	}
}

func TestRectContains(t *testing.T) {
	r := Rect{X: 10, Y: 10, Width: 10, Height: 10}
	if !r.Contains(10, 20) {
		t.Error("edge point should be inside")
	}
	if r.Contains(21, 15) {
		t.Error("outside point reported inside")
	}
}

func TestBounds(t *testing.T) {
	a := box("a", "", 0)
	a.Position, a.Size = Vec2{10, 20}, Vec2{30, 40}
	b := box("b", "", 0)
	b.Position, b.Size = Vec2{50, 10}, Vec2{10, 10}
	got := Bounds([]Node{a, b})
	want := Rect{X: 10, Y: 10, Width: 50, Height: 50}
	if got != want {
		t.Errorf("Bounds = %+v, want %+v", got, want)
	}
	if Bounds(nil) != (Rect{}) {
		t.Error("Bounds(nil) should be zero")
	}
}
