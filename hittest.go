package overlay

// --- Hit testing ---

// hittable reports whether an item can be picked with the pointer. Groups
// have no paint of their own and are never hit; hidden or fully faded items
// are skipped.
func hittable(it RenderItem) bool {
	if !it.Visible || it.Alpha <= 0 || !it.Node.Kind.Renderable() {
		return false
	}
	return it.Node.Size.X > 0 || it.Node.Size.Y > 0
}

// HitTest finds the topmost item at (x, y) in canvas coordinates. items must
// be in paint order, as returned by Evaluate. Nodes expanded from a slot list
// report the document placeholder they came from, since only that
// placeholder can be edited.
func HitTest(items []RenderItem, x, y float64) (NodeID, bool) {
	// Iterate backward (reverse paint order): topmost visual node first.
	for i := len(items) - 1; i >= 0; i-- {
		it := items[i]
		if !hittable(it) || !it.Node.Bounds().Contains(x, y) {
			continue
		}
		if it.Node.ExpandedFrom != "" {
			return it.Node.ExpandedFrom, true
		}
		return it.Node.ID, true
	}
	return "", false
}
