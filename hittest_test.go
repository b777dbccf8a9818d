package overlay

import "testing"

// --- Hit testing ---

func TestHitTestTopmostWins(t *testing.T) {
	back := box("back", "", 0)
	back.Size = Vec2{X: 100, Y: 100}
	front := box("front", "", 1)
	front.Position = Vec2{X: 50, Y: 50}
	front.Size = Vec2{X: 100, Y: 100}
	items := Evaluate([]Node{front, back}, nil)

	if id, ok := HitTest(items, 75, 75); !ok || id != "front" {
		t.Errorf("overlap: got %q %v, want front", id, ok)
	}
	if id, ok := HitTest(items, 10, 10); !ok || id != "back" {
		t.Errorf("back only: got %q %v, want back", id, ok)
	}
	if _, ok := HitTest(items, 500, 500); ok {
		t.Error("empty canvas should miss")
	}
}

func TestHitTestSkipsHiddenAndFaded(t *testing.T) {
	back := box("back", "", 0)
	back.Size = Vec2{X: 100, Y: 100}
	hidden := box("hidden", "", 2)
	hidden.Size = Vec2{X: 100, Y: 100}
	hidden.Visible = false
	faded := box("faded", "", 1)
	faded.Size = Vec2{X: 100, Y: 100}
	items := Evaluate([]Node{back, hidden, faded}, nil)
	for i := range items {
		if items[i].Node.ID == "faded" {
			items[i].Alpha = 0
		}
	}

	if id, _ := HitTest(items, 50, 50); id != "back" {
		t.Errorf("got %q, want back", id)
	}
}

func TestHitTestExpandedReportsPlaceholder(t *testing.T) {
	tm := oneNodeTemplate()
	ph := placeholder(SlotListProps{TemplateID: "card", Count: 2}, Vec2{X: 0, Y: 0}, Vec2{})
	nodes, _ := ExpandAll([]Node{ph}, TemplateMap{"card": tm}, nil)
	items := Evaluate(nodes, nil)

	if id, ok := HitTest(items, 10, 60); !ok || id != "ph" {
		t.Errorf("got %q %v, want ph", id, ok)
	}
}

func TestExpandNestedKeepsOutermostOrigin(t *testing.T) {
	inner := oneNodeTemplate()
	innerPH := NewSlotList("inner", SlotListProps{TemplateID: "card", Count: 1})
	innerPH.ID = "innerPH"
	outer := Template{ID: "outer", Nodes: []Node{innerPH}, SlotSize: Vec2{X: 100, Y: 50}}
	ph := placeholder(SlotListProps{TemplateID: "outer", Count: 1}, Vec2{}, Vec2{})

	nodes, _ := ExpandAll([]Node{ph}, TemplateMap{"card": inner, "outer": outer}, nil)
	leaves := 0
	for _, n := range nodes {
		if n.Kind == KindText {
			leaves++
			if n.ExpandedFrom != "ph" {
				t.Errorf("nested leaf ExpandedFrom = %q, want ph", n.ExpandedFrom)
			}
		}
	}
	if leaves != 1 {
		t.Fatalf("got %d leaves, want 1", leaves)
	}
}
