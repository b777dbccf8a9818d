package overlay

import (
	"strconv"
	"strings"
)

// ShapeKind selects how a rendering collaborator paints a Shape.
type ShapeKind uint8

const (
	ShapeRect ShapeKind = iota // filled, optionally rounded rectangle
	ShapeText                  // single line of text inside Bounds
)

// Shape is one backend-neutral paint primitive. Color already carries the
// item's current opacity.
type Shape struct {
	Kind     ShapeKind
	Bounds   Rect
	Color    Color
	Radius   float64
	Text     string
	FontSize float64
	Align    Align
}

// Shapes decomposes a render item into paint primitives against data. Hidden
// items and non-renderable kinds produce nothing.
func Shapes(it RenderItem, data any) []Shape {
	if !it.Visible || it.Alpha <= 0 {
		return nil
	}
	n := it.Node
	b := n.Bounds()
	switch p := n.Props.(type) {
	case BoxProps:
		return []Shape{{Kind: ShapeRect, Bounds: b, Color: MustColor(p.Color).WithAlpha(it.Alpha), Radius: p.CornerRadius}}
	case TextProps:
		s := p.Format
		if n.DataPath != "" {
			s = ResolveText(data, n.DataPath, p.Format, p.Fallback)
		} else if s == "" {
			s = p.Fallback
		}
		return []Shape{{
			Kind: ShapeText, Bounds: b, Color: MustColor(p.Color).WithAlpha(it.Alpha),
			Text: s, FontSize: p.FontSize, Align: p.Align,
		}}
	case IndicatorProps:
		return indicatorShapes(n, p, data, it.Alpha)
	case LeaderboardProps:
		return leaderboardShapes(n, p, data, it.Alpha)
	}
	return nil
}

func indicatorShapes(n Node, p IndicatorProps, data any, alpha float64) []Shape {
	count := clampCount(p.Count)
	if count == 0 {
		return nil
	}
	on := min(max(ResolveInt(data, n.DataPath, 0), 0), count)
	gap := clampNonNegative(p.Gap)
	pip := (p.Axis.along(n.Size) - gap*float64(count-1)) / float64(count)
	if pip <= 0 {
		return nil
	}
	active := MustColor(p.ActiveColor).WithAlpha(alpha)
	inactive := MustColor(p.InactiveColor).WithAlpha(alpha)
	out := make([]Shape, count)
	for i := range out {
		pos := n.Position.Add(p.Axis.offset(float64(i) * (pip + gap)))
		size := Vec2{pip, n.Size.Y}
		if p.Axis == AxisColumn {
			size = Vec2{n.Size.X, pip}
		}
		c := inactive
		if i < on {
			c = active
		}
		out[i] = Shape{Kind: ShapeRect, Bounds: Rect{X: pos.X, Y: pos.Y, Width: size.X, Height: size.Y}, Color: c, Radius: pip / 4}
	}
	return out
}

func leaderboardShapes(n Node, p LeaderboardProps, data any, alpha float64) []Shape {
	rows := clampCount(p.Rows)
	h := p.RowHeight
	if h <= 0 && rows > 0 {
		h = n.Size.Y / float64(rows)
	}
	c := MustColor(p.Color).WithAlpha(alpha)
	var out []Shape
	for i := 0; i < rows; i++ {
		row := JoinPath(n.DataPath, strconv.Itoa(i))
		if Resolve(data, row) == nil {
			break
		}
		var cells []string
		for _, col := range p.Columns {
			cells = append(cells, ResolveText(data, JoinPath(row, col), "", "-"))
		}
		if len(p.Columns) == 0 {
			cells = append(cells, ResolveText(data, row, "", ""))
		}
		out = append(out, Shape{
			Kind:     ShapeText,
			Bounds:   Rect{X: n.Position.X, Y: n.Position.Y + float64(i)*h, Width: n.Size.X, Height: h},
			Color:    c,
			Text:     strconv.Itoa(i+1) + ". " + strings.Join(cells, "  "),
			FontSize: h * 0.7,
		})
	}
	return out
}
