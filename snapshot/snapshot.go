// Package snapshot rasterizes a render list without a window, for CI checks
// of layouts and for thumbnails in the template library.
package snapshot

import (
	"fmt"
	"image"
	"io"

	"github.com/fogleman/gg"

	overlay "github.com/canderson402/layout-builder-sub001"
)

// Renderer paints render items onto an in-memory canvas.
type Renderer struct {
	context  *gg.Context
	fontPath string
}

// NewRenderer creates a canvas of the given size filled with background.
// fontPath names a TrueType font used for text; empty uses gg's built-in
// face, which ignores the requested font size.
func NewRenderer(width, height int, background, fontPath string) *Renderer {
	r := &Renderer{context: gg.NewContext(width, height), fontPath: fontPath}
	bg := overlay.MustColor(background)
	r.context.SetRGBA(bg.R, bg.G, bg.B, bg.A)
	r.context.Clear()
	return r
}

// Draw paints items in order. Items must already be in paint order, as
// returned by Evaluate or Frame.Items.
func (r *Renderer) Draw(items []overlay.RenderItem, data any) error {
	for _, it := range items {
		for _, s := range overlay.Shapes(it, data) {
			if err := r.drawShape(s); err != nil {
				return fmt.Errorf("snapshot: node %s: %w", it.Node.ID, err)
			}
		}
	}
	return nil
}

func (r *Renderer) drawShape(s overlay.Shape) error {
	dc := r.context
	dc.SetRGBA(s.Color.R, s.Color.G, s.Color.B, s.Color.A)
	b := s.Bounds
	switch s.Kind {
	case overlay.ShapeRect:
		if s.Radius > 0 {
			dc.DrawRoundedRectangle(b.X, b.Y, b.Width, b.Height, s.Radius)
		} else {
			dc.DrawRectangle(b.X, b.Y, b.Width, b.Height)
		}
		dc.Fill()
	case overlay.ShapeText:
		if s.Text == "" {
			return nil
		}
		if r.fontPath != "" && s.FontSize > 0 {
			if err := dc.LoadFontFace(r.fontPath, s.FontSize); err != nil {
				return err
			}
		}
		x, ax := b.X, 0.0
		switch s.Align {
		case overlay.AlignCenter:
			x, ax = b.X+b.Width/2, 0.5
		case overlay.AlignRight:
			x, ax = b.X+b.Width, 1
		}
		dc.DrawStringAnchored(s.Text, x, b.Y+b.Height/2, ax, 0.5)
	}
	return nil
}

// Image returns the canvas.
func (r *Renderer) Image() image.Image {
	return r.context.Image()
}

// EncodePNG writes the canvas as PNG.
func (r *Renderer) EncodePNG(w io.Writer) error {
	return r.context.EncodePNG(w)
}

// SavePNG writes the canvas to a PNG file.
func (r *Renderer) SavePNG(path string) error {
	return r.context.SavePNG(path)
}

// Render evaluates frame items onto a fresh canvas.
func Render(items []overlay.RenderItem, data any, width, height int, background string) (image.Image, error) {
	r := NewRenderer(width, height, background, "")
	if err := r.Draw(items, data); err != nil {
		return nil, err
	}
	return r.Image(), nil
}
