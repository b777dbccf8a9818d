package overlay

import (
	"errors"
	"fmt"
	"math/rand"
	"testing"
)

func byID(nodes []Node) map[NodeID]Node {
	m := make(map[NodeID]Node, len(nodes))
	for _, n := range nodes {
		m[n.ID] = n
	}
	return m
}

func threeRoots() []Node {
	return []Node{box("A", "", 2), box("B", "", 1), box("C", "", 0)}
}

// --- Before / after ---

func TestPlanDropBefore(t *testing.T) {
	nodes := threeRoots()
	p, err := PlanDrop(NewTree(nodes), Drop{Source: "C", Target: "A", Intent: DropBefore})
	if err != nil {
		t.Fatalf("PlanDrop: %v", err)
	}
	got := byID(p.Apply(nodes))
	if got["C"].Layer != 2 || got["A"].Layer != 1 || got["B"].Layer != 0 {
		t.Errorf("layers C=%d A=%d B=%d, want 2 1 0", got["C"].Layer, got["A"].Layer, got["B"].Layer)
	}
}

func TestPlanDropAfter(t *testing.T) {
	nodes := threeRoots()
	p, err := PlanDrop(NewTree(nodes), Drop{Source: "A", Target: "C", Intent: DropAfter})
	if err != nil {
		t.Fatalf("PlanDrop: %v", err)
	}
	if got := ids(NewTree(p.Apply(nodes)).Roots()); got != "B,C,A" {
		t.Errorf("roots = %s, want B,C,A", got)
	}
}

func TestPlanDropOutOfGroup(t *testing.T) {
	nodes := []Node{group("G", "", 3), box("x", "G", 1), box("y", "G", 0), box("A", "", 2)}
	p, err := PlanDrop(NewTree(nodes), Drop{Source: "x", Target: "A", Intent: DropBefore})
	if err != nil {
		t.Fatalf("PlanDrop: %v", err)
	}
	tr := NewTree(p.Apply(nodes))
	if got := ids(tr.Roots()); got != "G,x,A" {
		t.Errorf("roots = %s, want G,x,A", got)
	}
	if got := ids(tr.Children("G")); got != "y" {
		t.Errorf("children of G = %s, want y", got)
	}
}

func TestPlanDropBeforeDanglingParentTarget(t *testing.T) {
	nodes := []Node{box("a", "ghost", 0), box("b", "", 1)}
	p, err := PlanDrop(NewTree(nodes), Drop{Source: "b", Target: "a", Intent: DropAfter})
	if err != nil {
		t.Fatalf("PlanDrop: %v", err)
	}
	if c := p["b"]; c.ParentID != "" {
		t.Errorf("source parent = %q, want root", c.ParentID)
	}
}

// --- Into ---

func TestPlanDropInto(t *testing.T) {
	nodes := []Node{group("G", "", 3), box("x", "G", 1), box("y", "G", 0), box("A", "", 2)}
	p, err := PlanDrop(NewTree(nodes), Drop{Source: "A", Target: "G", Intent: DropInto})
	if err != nil {
		t.Fatalf("PlanDrop: %v", err)
	}
	got := byID(p.Apply(nodes))
	if got["A"].ParentID != "G" {
		t.Errorf("A.ParentID = %q, want G", got["A"].ParentID)
	}
	if got["A"].Layer != 2 || got["x"].Layer != 1 || got["y"].Layer != 0 {
		t.Errorf("layers A=%d x=%d y=%d, want 2 1 0", got["A"].Layer, got["x"].Layer, got["y"].Layer)
	}
	if _, touched := p["G"]; touched {
		t.Error("patch should not touch the target group itself")
	}
}

func TestPlanDropIntoNonContainer(t *testing.T) {
	_, err := PlanDrop(NewTree(threeRoots()), Drop{Source: "A", Target: "B", Intent: DropInto})
	if !errors.Is(err, ErrNotContainer) {
		t.Errorf("err = %v, want ErrNotContainer", err)
	}
}

// --- Rejections ---

func TestPlanDropRejects(t *testing.T) {
	nodes := []Node{group("outer", "", 0), group("inner", "outer", 0), box("leaf", "inner", 0)}
	tr := NewTree(nodes)
	cases := []struct {
		name string
		drop Drop
		want error
	}{
		{"into own descendant", Drop{"outer", "inner", DropInto}, ErrCycle},
		{"before own descendant", Drop{"outer", "leaf", DropBefore}, ErrCycle},
		{"onto itself", Drop{"inner", "inner", DropInto}, ErrSelfDrop},
		{"missing source", Drop{"nope", "inner", DropAfter}, ErrNoSource},
		{"missing target", Drop{"leaf", "nope", DropAfter}, ErrNoTarget},
	}
	for _, c := range cases {
		p, err := PlanDrop(tr, c.drop)
		if !errors.Is(err, c.want) {
			t.Errorf("%s: err = %v, want %v", c.name, err, c.want)
		}
		if p != nil {
			t.Errorf("%s: patch = %v, want nil", c.name, p)
		}
	}
}

func TestPatchApplyLeavesInputUntouched(t *testing.T) {
	nodes := threeRoots()
	p, _ := PlanDrop(NewTree(nodes), Drop{Source: "C", Target: "A", Intent: DropBefore})
	_ = p.Apply(nodes)
	if nodes[0].Layer != 2 || nodes[1].Layer != 1 || nodes[2].Layer != 0 {
		t.Errorf("input modified: %+v", nodes)
	}
}

// --- Root drop ---

func TestPlanRootDrop(t *testing.T) {
	nodes := []Node{box("A", "", 2), box("B", "", 5), group("G", "", 0), box("x", "G", 9)}
	p, err := PlanRootDrop(NewTree(nodes), "x")
	if err != nil {
		t.Fatalf("PlanRootDrop: %v", err)
	}
	if c := p["x"]; c.ParentID != "" || c.Layer != 6 {
		t.Errorf("x = %+v, want root layer 6", c)
	}
	if len(p) != 1 {
		t.Errorf("patch touches %d nodes, want 1", len(p))
	}
	if _, err := PlanRootDrop(NewTree(nodes), "nope"); !errors.Is(err, ErrNoSource) {
		t.Errorf("err = %v, want ErrNoSource", err)
	}
}

// --- Properties ---

func parentChainTerminates(nodes []Node) (NodeID, bool) {
	index := byID(nodes)
	for _, n := range nodes {
		seen := map[NodeID]bool{n.ID: true}
		cur := n
		for cur.ParentID != "" {
			p, ok := index[cur.ParentID]
			if !ok {
				break
			}
			if seen[p.ID] {
				return n.ID, false
			}
			seen[p.ID] = true
			cur = p
		}
	}
	return "", true
}

func TestRandomDropsStayAcyclicAndOrdered(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	var nodes []Node
	for i := 0; i < 12; i++ {
		id := fmt.Sprintf("n%d", i)
		if i%3 == 0 {
			nodes = append(nodes, group(id, "", i))
		} else {
			nodes = append(nodes, box(id, "", i))
		}
	}
	intents := []DropIntent{DropBefore, DropAfter, DropInto}

	for step := 0; step < 500; step++ {
		tr := NewTree(nodes)
		d := Drop{
			Source: nodes[rng.Intn(len(nodes))].ID,
			Target: nodes[rng.Intn(len(nodes))].ID,
			Intent: intents[rng.Intn(len(intents))],
		}
		p, err := PlanDrop(tr, d)
		if err != nil {
			continue
		}
		nodes = p.Apply(nodes)
		if id, ok := parentChainTerminates(nodes); !ok {
			t.Fatalf("step %d: %v created a cycle through %s", step, d, id)
		}

		after := NewTree(nodes)
		sibs := after.Siblings(d.Source)
		for i, id := range sibs {
			n, _ := after.Node(id)
			if n.Layer != len(sibs)-1-i {
				t.Fatalf("step %d: sibling %s layer %d, want %d", step, id, n.Layer, len(sibs)-1-i)
			}
		}
		at := indexOf(sibs, d.Source)
		switch d.Intent {
		case DropInto:
			if at != 0 {
				t.Fatalf("step %d: into-drop source at %d, want front", step, at)
			}
		case DropBefore:
			if at+1 >= len(sibs) || sibs[at+1] != d.Target {
				t.Fatalf("step %d: %s should sit right before %s in %v", step, d.Source, d.Target, sibs)
			}
		case DropAfter:
			if at == 0 || sibs[at-1] != d.Target {
				t.Fatalf("step %d: %s should sit right after %s in %v", step, d.Source, d.Target, sibs)
			}
		}
	}
}
