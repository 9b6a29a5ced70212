// Package view holds the pan/zoom state of the canvas and the input handlers
// that mutate it.
//
// [State] is the view transform: a uniform scale clamped to [MinScale,
// MaxScale] and a pan offset in screen pixels. A world point p appears on
// screen at p*Scale + Offset.
//
// [Holder] owns a State plus the display ratio and anchor selection that the
// scene uses, and the dragging flag for panning. Hosts feed it events:
//
//	h := view.NewHolder(view.NewState(0, 0))
//	h.Zoom(view.WheelEvent{X: 400, Y: 300, DeltaY: -1}) // zoom in at cursor
//	h.PanStart(view.PointerEvent{X: 10, Y: 10})
//	h.PanMove(view.PointerEvent{X: 30, Y: 15})          // offset += (20, 5)
//	h.PanEnd()
//
// The holder never fails; out-of-range scale and ratio values are clamped.
// It is not safe for concurrent use.
package view
