package overlay

// LayerBase is the radix of the effective layer key: each ancestor's layer is
// weighted by LayerBase^depth above the node. Layers are clamped to
// [0, LayerBase-1] so a sibling layer never spills into its parent's digit.
const LayerBase = 1000

// maxKeyDigits is how many layer digits fit in an int64 key. Paint order
// compares the full ancestor chain; only the reported Key is limited.
const maxKeyDigits = 6

// RenderItem is one entry of the paint-ordered render list handed to a
// rendering collaborator.
type RenderItem struct {
	Node Node

	// Key is the effective layer key. Lower paints first. For nodes more
	// than maxKeyDigits-1 levels deep it keeps the root-most digits only;
	// ordering itself always uses the whole chain.
	Key int64

	// Visible is the hard include decision from the node's own flag and the
	// ancestor chain.
	Visible bool

	// Shown is the node's own visibility binding. It is a fade signal, not a
	// cutoff: renderers animate opacity toward 1 when true and 0 when false.
	// Nodes without a binding are always Shown.
	Shown bool

	// Alpha is the current opacity. Evaluate sets it to 1 or 0 from Shown;
	// a Fader replaces it with an animated value.
	Alpha float64

	path      []int // clamped layers, root first, own layer last
	treeOrder int   // array position for a stable sort
}

// layerPath returns the clamped layers from the root-most reachable ancestor
// down to id itself. A dangling parent ends the walk as if the node were
// root-level from there up.
func (t *Tree) layerPath(id NodeID) []int {
	n, ok := t.Node(id)
	if !ok {
		return nil
	}
	anc := t.Ancestors(id)
	path := make([]int, len(anc)+1)
	for i, a := range anc {
		path[len(anc)-1-i] = clampLayer(a.Layer)
	}
	path[len(anc)] = clampLayer(n.Layer)
	return path
}

// pathKey folds a layer path into an int64, keeping the root-most digits
// when the path is too long to fit.
func pathKey(path []int) int64 {
	if len(path) > maxKeyDigits {
		path = path[:maxKeyDigits]
	}
	var key int64
	for _, l := range path {
		key = key*LayerBase + int64(l)
	}
	return key
}

// comparePaths orders two layer paths as the numbers they spell in base
// LayerBase, aligned at the node's own layer, without any length limit.
func comparePaths(a, b []int) int {
	n := max(len(a), len(b))
	for i := 0; i < n; i++ {
		da, db := digitAt(a, i, n), digitAt(b, i, n)
		if da != db {
			if da < db {
				return -1
			}
			return 1
		}
	}
	return 0
}

// digitAt returns digit i of p padded with leading zeros to width n.
func digitAt(p []int, i, n int) int {
	j := i - (n - len(p))
	if j < 0 {
		return 0
	}
	return p[j]
}

// EffectiveLayer returns the paint-order key of id. Starting from the node's
// own layer, each ancestor adds ancestorLayer*multiplier, where the multiplier
// starts at LayerBase and is multiplied by LayerBase per step up. A dangling
// parent ends the walk as if the node were root-level from there up. Past
// maxKeyDigits-1 ancestors only the root-most digits are kept.
func (t *Tree) EffectiveLayer(id NodeID) int64 {
	return pathKey(t.layerPath(id))
}

// hardVisible reports whether n renders at all: its own flag, every
// ancestor's flag and every ancestor's binding must allow it. A binding that
// does not resolve to a strict boolean is no constraint.
func (t *Tree) hardVisible(n Node, data any) bool {
	if !n.Visible {
		return false
	}
	for _, a := range t.Ancestors(n.ID) {
		if !a.Visible {
			return false
		}
		if a.VisibilityBinding != "" {
			if v, ok := ResolveBool(data, a.VisibilityBinding); ok && !v {
				return false
			}
		}
	}
	return true
}

// ownShown resolves the node's own visibility binding as a fade signal.
func ownShown(n Node, data any) bool {
	if n.VisibilityBinding == "" {
		return true
	}
	v, ok := ResolveBool(data, n.VisibilityBinding)
	return !ok || v
}

// Evaluate computes a RenderItem for every renderable node, sorted ascending
// by effective key with ties in array order. Groups and slot-list
// placeholders are omitted but still scope ordering and visibility for their
// descendants. Hidden nodes are included with Visible=false.
func Evaluate(nodes []Node, data any) []RenderItem {
	return NewTree(nodes).Evaluate(data)
}

// Evaluate is like the package-level Evaluate over an existing index.
func (t *Tree) Evaluate(data any) []RenderItem {
	items := make([]RenderItem, 0, len(t.nodes))
	for i, n := range t.nodes {
		if !n.Kind.Renderable() || t.index[n.ID] != i {
			continue
		}
		shown := ownShown(n, data)
		alpha := 0.0
		if shown {
			alpha = 1
		}
		path := t.layerPath(n.ID)
		items = append(items, RenderItem{
			Node:      n,
			Key:       pathKey(path),
			path:      path,
			Visible:   t.hardVisible(n, data),
			Shown:     shown,
			Alpha:     alpha,
			treeOrder: i,
		})
	}
	sortItems(items)
	return items
}

// RenderList is Evaluate with hidden nodes removed.
func RenderList(nodes []Node, data any) []RenderItem {
	return VisibleItems(Evaluate(nodes, data))
}

// VisibleItems filters items down to those with Visible set. The input order
// is preserved.
func VisibleItems(items []RenderItem) []RenderItem {
	out := items[:0:0]
	for _, it := range items {
		if it.Visible {
			out = append(out, it)
		}
	}
	return out
}

// --- Merge sort ---

// itemLessOrEqual returns true if a should sort before or at the same position
// as b. Using <= for treeOrder ensures stability.
func itemLessOrEqual(a, b RenderItem) bool {
	if c := comparePaths(a.path, b.path); c != 0 {
		return c < 0
	}
	return a.treeOrder <= b.treeOrder
}

// sortItems sorts items in place with a bottom-up merge sort.
func sortItems(items []RenderItem) {
	n := len(items)
	if n <= 1 {
		return
	}
	buf := make([]RenderItem, n)
	a, b := items, buf
	swapped := false
	for width := 1; width < n; width *= 2 {
		for i := 0; i < n; i += 2 * width {
			lo := i
			mid := min(lo+width, n)
			hi := min(lo+2*width, n)
			mergeRun(a, b, lo, mid, hi)
		}
		a, b = b, a
		swapped = !swapped
	}
	if swapped {
		copy(items, buf)
	}
}

// mergeRun merges two sorted runs [lo, mid) and [mid, hi) from src into dst.
func mergeRun(src, dst []RenderItem, lo, mid, hi int) {
	i, j, k := lo, mid, lo
	for i < mid && j < hi {
		if itemLessOrEqual(src[i], src[j]) {
			dst[k] = src[i]
			i++
		} else {
			dst[k] = src[j]
			j++
		}
		k++
	}
	for i < mid {
		dst[k] = src[i]
		i++
		k++
	}
	for j < hi {
		dst[k] = src[j]
		j++
		k++
	}
}
