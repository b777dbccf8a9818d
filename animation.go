package overlay

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// DefaultFadeDuration is the fade time in seconds used by NewFader when
// duration is not positive.
const DefaultFadeDuration = 0.3

// fade is the per-node opacity animation state.
type fade struct {
	alpha  float64
	target float64
	tween  *gween.Tween
}

// Fader animates each node's opacity toward its Shown signal. Hard Visible
// switches stay instant; only a node's own visibility binding fades.
//
// There is no global animation manager; callers run Apply once per frame.
type Fader struct {
	Duration float32
	Ease     ease.TweenFunc

	states map[NodeID]*fade
}

// NewFader creates a fader with the given duration in seconds and easing.
// A nil easing uses ease.InOutQuad.
func NewFader(duration float32, fn ease.TweenFunc) *Fader {
	if duration <= 0 {
		duration = DefaultFadeDuration
	}
	if fn == nil {
		fn = ease.InOutQuad
	}
	return &Fader{Duration: duration, Ease: fn, states: make(map[NodeID]*fade)}
}

// Apply advances every fade by dt seconds and writes the current opacity into
// items[i].Alpha. A node seen for the first time starts at its target with no
// animation. State for nodes no longer in items is dropped.
func (f *Fader) Apply(items []RenderItem, dt float32) {
	if f.states == nil {
		f.states = make(map[NodeID]*fade)
	}
	live := make(map[NodeID]bool, len(items))
	for i := range items {
		it := &items[i]
		id := it.Node.ID
		live[id] = true
		target := 0.0
		if it.Shown {
			target = 1
		}
		st, ok := f.states[id]
		if !ok {
			st = &fade{alpha: target, target: target}
			f.states[id] = st
		} else if st.target != target {
			st.target = target
			st.tween = gween.New(float32(st.alpha), float32(target), f.Duration, f.Ease)
		}
		if st.tween != nil {
			val, finished := st.tween.Update(dt)
			st.alpha = float64(val)
			if finished {
				st.alpha = st.target
				st.tween = nil
			}
		}
		it.Alpha = st.alpha
	}
	for id := range f.states {
		if !live[id] {
			delete(f.states, id)
		}
	}
}

// Animating reports whether any fade is still in progress.
func (f *Fader) Animating() bool {
	for _, st := range f.states {
		if st.tween != nil {
			return true
		}
	}
	return false
}
