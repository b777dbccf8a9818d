package preview

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	overlay "github.com/canderson402/layout-builder-sub001"
)

func TestNewDefaults(t *testing.T) {
	g := New(overlay.NewDocument(nil), nil, nil, Options{})
	w, h := g.Layout(100, 100)
	assert.Equal(t, 1920, w)
	assert.Equal(t, 1080, h)
	assert.Equal(t, 60, g.opts.TPS)
}

func TestRefreshEvaluatesDocument(t *testing.T) {
	ph := overlay.NewSlotList("slots", overlay.SlotListProps{TemplateID: "gone", Count: 2})
	ph.Size = overlay.Vec2{X: 50, Y: 50}
	doc := overlay.NewDocument([]overlay.Node{overlay.NewBox("bg", "#000"), ph})
	g := New(doc, nil, overlay.TemplateMap{}, Options{Canvas: overlay.Vec2{X: 640, Y: 360}})

	g.refresh(0)
	f := g.Frame()
	assert.Len(t, f.Items, 1)
	assert.Equal(t, []overlay.NodeID{ph.ID}, f.Missing)
	require.Len(t, g.holes, 1)
	assert.Equal(t, 50.0, g.holes[0].Width)
}

func TestReloadSwapsState(t *testing.T) {
	doc := overlay.NewDocument(nil)
	g := New(doc, nil, nil, Options{})
	g.SetError(errors.New("bad json"))
	assert.Error(t, g.err)

	g.SetNodes([]overlay.Node{overlay.NewBox("a", "#fff"), overlay.NewBox("b", "#fff")})
	assert.NoError(t, g.err)
	g.refresh(0)
	assert.Len(t, g.Frame().Items, 2)

	g.SetData(map[string]any{"x": 1})
	assert.Equal(t, map[string]any{"x": 1}, g.data)
}

func TestFlipToggles(t *testing.T) {
	n := overlay.NewBox("t", "#fff")
	n.Toggle = &overlay.Toggle{Active: 1}
	doc := overlay.NewDocument([]overlay.Node{n})
	g := New(doc, nil, nil, Options{})
	g.flipToggles()
	got, _ := doc.Node(n.ID)
	assert.Equal(t, 2, got.Toggle.Active)
}

func TestSelectAt(t *testing.T) {
	back := overlay.NewBox("back", "#fff")
	back.Size = overlay.Vec2{X: 100, Y: 100}
	front := overlay.NewBox("front", "#f00")
	front.Position = overlay.Vec2{X: 50, Y: 50}
	front.Size = overlay.Vec2{X: 40, Y: 40}
	front.Layer = 1
	g := New(overlay.NewDocument([]overlay.Node{back, front}), nil, nil, Options{})
	g.refresh(0)

	g.selectAt(60, 60)
	id, ok := g.Selected()
	require.True(t, ok)
	assert.Equal(t, front.ID, id)
	assert.Equal(t, front.Bounds(), g.selectedBox)

	g.selectAt(10, 10)
	id, _ = g.Selected()
	assert.Equal(t, back.ID, id)

	g.selectAt(500, 500)
	_, ok = g.Selected()
	assert.False(t, ok)
}
