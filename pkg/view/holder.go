package view

import (
	"math"

	"github.com/matzehuels/infinicanvas/pkg/geom"
)

// Display ratio bounds and slider step.
const (
	MinRatio     = 0.1
	MaxRatio     = 5.0
	RatioStep    = 0.1
	DefaultRatio = 1.0
)

// WheelEvent is a wheel notch at a screen position.
type WheelEvent struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	DeltaY float64 `json:"delta_y"`
}

// PointerEvent is a pointer position in screen pixels.
type PointerEvent struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// ClampRatio bounds r to [MinRatio, MaxRatio] and snaps it to RatioStep.
func ClampRatio(r float64) float64 {
	r = math.Min(math.Max(MinRatio, r), MaxRatio)
	return math.Round(r/RatioStep) * RatioStep
}

// Holder owns the mutable view of one mounted canvas.
type Holder struct {
	initial  State
	state    State
	ratio    float64
	anchor   geom.Anchor
	dragging bool
	last     PointerEvent
}

// NewHolder creates a holder starting at initial, with the default ratio
// and anchor and no active drag.
func NewHolder(initial State) *Holder {
	initial = initial.Normalized()
	return &Holder{
		initial: initial,
		state:   initial,
		ratio:   DefaultRatio,
		anchor:  geom.DefaultAnchor,
	}
}

// State returns the current view transform.
func (h *Holder) State() State { return h.state }

// Ratio returns the display ratio.
func (h *Holder) Ratio() float64 { return h.ratio }

// Anchor returns the selected anchor.
func (h *Holder) Anchor() geom.Anchor { return h.anchor }

// Dragging reports whether a pan drag is active.
func (h *Holder) Dragging() bool { return h.dragging }

// Zoom applies a wheel event and returns the new state.
func (h *Holder) Zoom(e WheelEvent) State {
	h.state = h.state.Zoomed(e.X, e.Y, e.DeltaY)
	return h.state
}

// PanStart begins a drag at e.
func (h *Holder) PanStart(e PointerEvent) {
	h.dragging = true
	h.last = e
}

// PanMove moves the view by the pointer delta since the last event. It
// reports whether the view changed; without an active drag it does nothing.
func (h *Holder) PanMove(e PointerEvent) bool {
	if !h.dragging {
		return false
	}
	dx, dy := e.X-h.last.X, e.Y-h.last.Y
	h.last = e
	if dx == 0 && dy == 0 {
		return false
	}
	h.state = h.state.Panned(dx, dy)
	return true
}

// PanEnd finishes the drag.
func (h *Holder) PanEnd() {
	h.dragging = false
}

// SetRatio sets the display ratio, clamped and snapped, and returns the value
// actually stored.
func (h *Holder) SetRatio(r float64) float64 {
	h.ratio = ClampRatio(r)
	return h.ratio
}

// StepRatio moves the ratio by n slider steps.
func (h *Holder) StepRatio(n int) float64 {
	return h.SetRatio(h.ratio + float64(n)*RatioStep)
}

// SetAnchor selects an anchor. Invalid anchors are ignored.
func (h *Holder) SetAnchor(a geom.Anchor) {
	if a.Valid() {
		h.anchor = a
	}
}

// Reset returns the view to its initial state and ends any drag. Ratio and
// anchor are kept.
func (h *Holder) Reset() {
	h.state = h.initial
	h.dragging = false
}
