package view

import "github.com/matzehuels/infinicanvas/pkg/geom"

// Snapshot is the serialisable content of a Holder.
type Snapshot struct {
	State  State         `json:"state"`
	Ratio  float64       `json:"ratio"`
	Anchor geom.Anchor   `json:"anchor"`
	Drag   *PointerEvent `json:"drag,omitempty"` // last pointer position while dragging
}

// DefaultSnapshot is an unzoomed, unpanned view with default ratio and anchor.
func DefaultSnapshot() Snapshot {
	return Snapshot{State: NewState(0, 0), Ratio: DefaultRatio, Anchor: geom.DefaultAnchor}
}

// Normalized clamps every field into range and fills zero values with
// defaults.
func (s Snapshot) Normalized() Snapshot {
	s.State = s.State.Normalized()
	if s.Ratio == 0 {
		s.Ratio = DefaultRatio
	}
	s.Ratio = ClampRatio(s.Ratio)
	if !s.Anchor.Valid() {
		s.Anchor = geom.DefaultAnchor
	}
	return s
}

// Snapshot captures the holder's current content.
func (h *Holder) Snapshot() Snapshot {
	s := Snapshot{State: h.state, Ratio: h.ratio, Anchor: h.anchor}
	if h.dragging {
		last := h.last
		s.Drag = &last
	}
	return s
}

// Restore creates a holder from a snapshot. The snapshot's state also becomes
// the holder's reset target.
func Restore(s Snapshot) *Holder {
	return RestoreAt(s.State, s)
}

// RestoreAt creates a holder from a snapshot that resets to initial.
func RestoreAt(initial State, s Snapshot) *Holder {
	s = s.Normalized()
	h := NewHolder(initial)
	h.state = s.State
	h.ratio = s.Ratio
	h.anchor = s.Anchor
	if s.Drag != nil {
		h.dragging = true
		h.last = *s.Drag
	}
	return h
}
