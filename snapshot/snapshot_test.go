package snapshot

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	overlay "github.com/canderson402/layout-builder-sub001"
)

func redBox(id overlay.NodeID, x, y float64, layer int) overlay.Node {
	n := overlay.NewBox("box", "#ff0000")
	n.ID = id
	n.Position = overlay.Vec2{X: x, Y: y}
	n.Size = overlay.Vec2{X: 20, Y: 20}
	n.Layer = layer
	return n
}

func TestRenderPaintsVisibleBoxes(t *testing.T) {
	hidden := redBox("hidden", 40, 40, 0)
	hidden.Visible = false
	items := overlay.Evaluate([]overlay.Node{redBox("shown", 10, 10, 0), hidden}, nil)

	img, err := Render(items, nil, 64, 64, "#000000")
	require.NoError(t, err)

	r, g, b, a := img.At(20, 20).RGBA()
	assert.Equal(t, [4]uint32{255, 0, 0, 255}, [4]uint32{r >> 8, g >> 8, b >> 8, a >> 8})
	r, g, b, _ = img.At(50, 50).RGBA()
	assert.Equal(t, [3]uint32{0, 0, 0}, [3]uint32{r >> 8, g >> 8, b >> 8}, "hidden node must not paint")
	r, g, b, _ = img.At(2, 2).RGBA()
	assert.Equal(t, [3]uint32{0, 0, 0}, [3]uint32{r >> 8, g >> 8, b >> 8})
}

func TestRenderPaintOrder(t *testing.T) {
	back := redBox("back", 10, 10, 0)
	front := overlay.NewBox("front", "#0000ff")
	front.ID = "front"
	front.Position = overlay.Vec2{X: 10, Y: 10}
	front.Size = overlay.Vec2{X: 20, Y: 20}
	front.Layer = 1
	items := overlay.Evaluate([]overlay.Node{front, back}, nil)

	img, err := Render(items, nil, 64, 64, "#000000")
	require.NoError(t, err)
	r, _, b, _ := img.At(20, 20).RGBA()
	assert.Equal(t, uint32(0), r>>8)
	assert.Equal(t, uint32(255), b>>8, "higher layer paints last")
}

func TestRenderFadedAlpha(t *testing.T) {
	n := redBox("faded", 0, 0, 0)
	items := overlay.Evaluate([]overlay.Node{n}, nil)
	items[0].Alpha = 0.5

	img, err := Render(items, nil, 32, 32, "#000000")
	require.NoError(t, err)
	r, _, _, _ := img.At(10, 10).RGBA()
	assert.InDelta(t, 128, int(r>>8), 2)
}

func TestEncodePNG(t *testing.T) {
	r := NewRenderer(16, 16, "#ffffff", "")
	require.NoError(t, r.Draw(nil, nil))
	var buf bytes.Buffer
	require.NoError(t, r.EncodePNG(&buf))
	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 16, img.Bounds().Dx())
}

func TestDrawBadFont(t *testing.T) {
	n := overlay.NewText("t", "")
	n.Props = overlay.TextProps{Format: "HOME", FontSize: 20}
	n.Size = overlay.Vec2{X: 50, Y: 20}
	r := NewRenderer(64, 64, "#000000", "/nonexistent/font.ttf")
	err := r.Draw(overlay.Evaluate([]overlay.Node{n}, nil), nil)
	assert.Error(t, err)
}
