// Package frame draws one frame of the canvas.
//
// A frame is, in order: clear, grid and scene under the view transform,
// rulers in screen space, and an optional overlay showing the zoom level,
// display ratio and anchor. The renderer holds no view state of its own; it
// reads a [view.Snapshot] on every call, so any host can re-render after an
// input event by calling [Renderer.Render] again.
package frame

import (
	"image/color"

	"github.com/matzehuels/infinicanvas/pkg/fonts"
	"github.com/matzehuels/infinicanvas/pkg/scene"
	"github.com/matzehuels/infinicanvas/pkg/surface"
	"github.com/matzehuels/infinicanvas/pkg/view"
)

// Options controls frame appearance. Zero values fall back to defaults,
// except Background: nil clears to transparent.
type Options struct {
	Background color.Color

	GridStep  float64
	GridColor color.Color

	RulerColor      color.Color
	RulerFontSize   float64
	RulerBaseStep   float64 // smallest label spacing in world units
	RulerMinSpacing float64 // minimum label spacing in screen pixels
	TickLength      float64
	LabelOffset     float64

	Overlay bool
}

// DefaultOptions returns the standard look: white background, 25-unit grid
// in #ddd, black rulers with 12px labels.
func DefaultOptions() Options {
	return Options{
		Background:      color.White,
		GridStep:        25,
		GridColor:       surface.MustParseColor("#ddd"),
		RulerColor:      color.Black,
		RulerFontSize:   fonts.DefaultSize,
		RulerBaseStep:   10,
		RulerMinSpacing: 50,
		TickLength:      10,
		LabelOffset:     20,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.GridStep <= 0 {
		o.GridStep = d.GridStep
	}
	if o.GridColor == nil {
		o.GridColor = d.GridColor
	}
	if o.RulerColor == nil {
		o.RulerColor = d.RulerColor
	}
	if o.RulerFontSize <= 0 {
		o.RulerFontSize = d.RulerFontSize
	}
	if o.RulerBaseStep <= 0 {
		o.RulerBaseStep = d.RulerBaseStep
	}
	if o.RulerMinSpacing <= 0 {
		o.RulerMinSpacing = d.RulerMinSpacing
	}
	if o.TickLength <= 0 {
		o.TickLength = d.TickLength
	}
	if o.LabelOffset <= 0 {
		o.LabelOffset = d.LabelOffset
	}
	return o
}

// Renderer draws frames of one scene.
type Renderer struct {
	scene *scene.Scene
	opts  Options
}

// New creates a renderer. A nil scene draws only the grid and rulers.
func New(sc *scene.Scene, opts Options) *Renderer {
	return &Renderer{scene: sc, opts: opts.withDefaults()}
}

// Options returns the effective options.
func (r *Renderer) Options() Options { return r.opts }

// Render draws one frame of snap onto sf. A nil surface draws nothing.
func (r *Renderer) Render(sf surface.Surface, snap view.Snapshot) {
	if sf == nil {
		return
	}
	snap = snap.Normalized()
	st := snap.State
	w, h := sf.Size()

	sf.Clear(r.opts.Background)

	sf.Save()
	m := st.Matrix()
	sf.SetTransform(m)
	r.drawGrid(sf, st, w, h)
	r.scene.Draw(sf, m, snap.Ratio, snap.Anchor)
	sf.Restore()

	r.drawRulers(sf, st, w, h)

	if r.opts.Overlay {
		r.drawOverlay(sf, snap, w, h)
	}
}
