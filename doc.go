// Package overlay is the scene model behind a broadcast overlay layout
// builder: scoreboards, leaderboards and penalty displays composed from
// positioned, layered components bound to live data fields.
//
// # Scene model
//
// A layout is a flat array of [Node] values. Each node optionally names a
// parent; [NewTree] indexes the array into sibling lists ordered by Layer,
// highest first, which is the order the layer panel shows them in.
//
//	doc := overlay.NewDocument(nil)
//	board := doc.Add(overlay.NewGroup("scoreboard"), "")
//	doc.Add(overlay.NewText("home score", "home.points"), board)
//
// # Paint order and visibility
//
// [Evaluate] turns the array into a render list. A node's effective key is
// its own layer plus each ancestor's layer weighted by powers of
// [LayerBase], so moving one ancestor moves its whole subtree. A node renders
// only if it and every ancestor are Visible and no ancestor's visibility
// binding resolves to false. A node's own binding is a fade signal; see
// [Fader]. Groups are never rendered themselves.
//
// # Reordering
//
// [PlanDrop] computes, as a pure function, the layer and parent changes of a
// drag-and-drop in the layer panel: before or after a sibling, or into a
// group. Siblings are renumbered so list position and stacking order always
// agree. Drops that would create a cycle are discarded. [Gesture] tracks the
// pointer events of one drag.
//
// # Templates
//
// [Capture] snapshots a selection into a position-normalized [Template].
// A slot-list node repeats a template K times along an axis;
// [ExpandSlotList] emits the concrete nodes with data paths rewritten to
// prefix.side.slot<i>.<relative> and the run scaled to fit the placeholder.
//
// [Document] ties these together as a copy-on-write, versioned node array
// with undo, and [Document.Evaluate] produces a [Frame] per render pass.
package overlay
