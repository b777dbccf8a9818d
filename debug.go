package overlay

import (
	"fmt"
	"os"
)

// debugf prints a diagnostic line to stderr when debug mode is on.
func (d *Document) debugf(format string, args ...any) {
	if !d.debug {
		return
	}
	_, _ = fmt.Fprintf(os.Stderr, "[overlay] "+format+"\n", args...)
}

// debugMaxTreeDepth is the depth past which the reported Key no longer holds
// every ancestor digit.
const debugMaxTreeDepth = maxKeyDigits - 1

// debugMaxChildCount is the sibling count past which a warning is printed.
const debugMaxChildCount = 500

// debugCheckTree warns about dangling parents, deep nesting and very wide
// sibling groups.
func (d *Document) debugCheckTree() {
	t := NewTree(d.nodes)
	for _, n := range d.nodes {
		if n.ParentID != "" && !t.Has(n.ParentID) {
			d.debugf("warning: node %s references missing parent %s, treated as root", n.ID, n.ParentID)
		}
		if depth := t.Depth(n.ID); depth > debugMaxTreeDepth {
			d.debugf("warning: node %s depth %d exceeds %d, reported key is truncated",
				n.ID, depth, debugMaxTreeDepth)
		}
		if kids := len(t.Children(n.ID)); kids > debugMaxChildCount {
			d.debugf("warning: node %s has %d children (threshold %d)", n.ID, kids, debugMaxChildCount)
		}
	}
}
