// Package preview shows a live window of a layout against its data file. The
// window redraws every tick from the document, so edits made on disk appear
// as soon as the host reloads them.
package preview

import (
	"fmt"
	"image/color"
	"sync"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	overlay "github.com/canderson402/layout-builder-sub001"
)

// whitePixel is a 1x1 white image scaled and tinted for every rectangle.
var whitePixel *ebiten.Image

func init() {
	whitePixel = ebiten.NewImage(1, 1)
	whitePixel.Fill(color.White)
}

// Options configures the preview window.
type Options struct {
	Title       string
	Canvas      overlay.Vec2 // logical size in device pixels
	Background  string
	Scale       float64 // window size relative to Canvas
	TPS         int
	FadeSeconds float32
}

// Game is the ebiten.Game driving the preview. The Set* methods may be called
// from other goroutines, e.g. a file watcher.
type Game struct {
	mu    sync.Mutex
	doc   *overlay.Document
	data  any
	src   overlay.TemplateSource
	err   error
	frame overlay.Frame
	holes []overlay.Rect // bounds of slot lists whose template is missing
	fader *overlay.Fader
	opts  Options

	selected    overlay.NodeID
	selectedBox overlay.Rect

	showKeys bool
}

// New creates a preview over doc. src may be nil when the layout has no
// slot lists.
func New(doc *overlay.Document, data any, src overlay.TemplateSource, opts Options) *Game {
	if opts.Canvas.X <= 0 || opts.Canvas.Y <= 0 {
		opts.Canvas = overlay.Vec2{X: 1920, Y: 1080}
	}
	if opts.Scale <= 0 {
		opts.Scale = 0.5
	}
	if opts.TPS <= 0 {
		opts.TPS = 60
	}
	if opts.Title == "" {
		opts.Title = "overlay preview"
	}
	return &Game{doc: doc, data: data, src: src, opts: opts, fader: overlay.NewFader(opts.FadeSeconds, nil)}
}

// SetNodes replaces the document contents after a layout reload.
func (g *Game) SetNodes(nodes []overlay.Node) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.doc.Replace(nodes)
	g.err = nil
}

// SetData swaps the external data object.
func (g *Game) SetData(data any) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.data = data
	g.err = nil
}

// SetError shows a reload failure in the window until the next good reload.
func (g *Game) SetError(err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.err = err
}

// Frame returns the most recently evaluated frame.
func (g *Game) Frame() overlay.Frame {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.frame
}

// refresh evaluates the document and advances fades by dt seconds.
func (g *Game) refresh(dt float32) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.frame = g.doc.Evaluate(g.data, g.src)
	g.fader.Apply(g.frame.Items, dt)
	g.holes = g.holes[:0]
	for _, id := range g.frame.Missing {
		if n, ok := g.doc.Node(id); ok {
			g.holes = append(g.holes, n.Bounds())
		}
	}
}

// selectAt picks the topmost node under (x, y), or clears the selection
// when nothing is hit.
func (g *Game) selectAt(x, y float64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.selected = ""
	id, ok := overlay.HitTest(g.frame.Items, x, y)
	if !ok {
		return
	}
	if n, found := g.doc.Node(id); found {
		g.selected, g.selectedBox = id, n.Bounds()
	}
}

// Selected returns the node picked with the mouse, if any.
func (g *Game) Selected() (overlay.NodeID, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.selected, g.selected != ""
}

// flipToggles switches every two-state node, for checking both states.
func (g *Game) flipToggles() {
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, n := range g.doc.Nodes() {
		if n.Toggle != nil {
			g.doc.FlipToggle(n.ID)
		}
	}
}

// Update implements ebiten.Game.
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyK) {
		g.showKeys = !g.showKeys
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyT) {
		g.flipToggles()
	}
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		x, y := ebiten.CursorPosition()
		g.selectAt(float64(x), float64(y))
	}
	g.refresh(1 / float32(g.opts.TPS))
	return nil
}

// Draw implements ebiten.Game.
func (g *Game) Draw(screen *ebiten.Image) {
	g.mu.Lock()
	frame, data, err := g.frame, g.data, g.err
	holes := append([]overlay.Rect(nil), g.holes...)
	selected, selectedBox := g.selected, g.selectedBox
	g.mu.Unlock()

	screen.Fill(overlay.MustColor(g.opts.Background).RGBA())
	for _, it := range frame.Items {
		for _, s := range overlay.Shapes(it, data) {
			drawShape(screen, s)
		}
		if g.showKeys && it.Visible {
			ebitenutil.DebugPrintAt(screen, fmt.Sprintf("%d", it.Key), int(it.Node.Position.X), int(it.Node.Position.Y))
		}
	}
	for _, r := range holes {
		fillRect(screen, r, overlay.Color{R: 1, B: 1, A: 0.25})
		ebitenutil.DebugPrintAt(screen, "missing template", int(r.X)+4, int(r.Y)+4)
	}
	if selected != "" {
		strokeRect(screen, selectedBox, 2, overlay.Color{R: 0.3, G: 0.7, B: 1, A: 1})
		ebitenutil.DebugPrintAt(screen, string(selected), int(selectedBox.X), int(selectedBox.Y)-16)
	}
	if err != nil {
		ebitenutil.DebugPrint(screen, "reload failed: "+err.Error())
	}
}

// Layout implements ebiten.Game. The logical screen is the canvas; ebiten
// scales it to the window.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return int(g.opts.Canvas.X), int(g.opts.Canvas.Y)
}

// drawShape paints one primitive. Corner radii are not drawn and text uses
// the debug font at its fixed size.
func drawShape(dst *ebiten.Image, s overlay.Shape) {
	switch s.Kind {
	case overlay.ShapeRect:
		fillRect(dst, s.Bounds, s.Color)
	case overlay.ShapeText:
		x := s.Bounds.X
		switch s.Align {
		case overlay.AlignCenter:
			x += s.Bounds.Width/2 - float64(len(s.Text))*3
		case overlay.AlignRight:
			x += s.Bounds.Width - float64(len(s.Text))*6
		}
		ebitenutil.DebugPrintAt(dst, s.Text, int(x), int(s.Bounds.Y+s.Bounds.Height/2-8))
	}
}

func fillRect(dst *ebiten.Image, r overlay.Rect, c overlay.Color) {
	if r.Width <= 0 || r.Height <= 0 {
		return
	}
	var op ebiten.DrawImageOptions
	op.GeoM.Scale(r.Width, r.Height)
	op.GeoM.Translate(r.X, r.Y)
	a := float32(c.A)
	op.ColorScale.Scale(float32(c.R)*a, float32(c.G)*a, float32(c.B)*a, a)
	dst.DrawImage(whitePixel, &op)
}

// strokeRect outlines r with lines w pixels wide, drawn inside r.
func strokeRect(dst *ebiten.Image, r overlay.Rect, w float64, c overlay.Color) {
	fillRect(dst, overlay.Rect{X: r.X, Y: r.Y, Width: r.Width, Height: w}, c)
	fillRect(dst, overlay.Rect{X: r.X, Y: r.Y + r.Height - w, Width: r.Width, Height: w}, c)
	fillRect(dst, overlay.Rect{X: r.X, Y: r.Y, Width: w, Height: r.Height}, c)
	fillRect(dst, overlay.Rect{X: r.X + r.Width - w, Y: r.Y, Width: w, Height: r.Height}, c)
}

// Run opens the window and blocks until it is closed.
func Run(g *Game) error {
	ebiten.SetWindowTitle(g.opts.Title)
	ebiten.SetWindowSize(int(g.opts.Canvas.X*g.opts.Scale), int(g.opts.Canvas.Y*g.opts.Scale))
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(g.opts.TPS)
	return ebiten.RunGame(g)
}
