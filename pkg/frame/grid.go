package frame

import (
	"math"

	"github.com/matzehuels/infinicanvas/pkg/surface"
	"github.com/matzehuels/infinicanvas/pkg/view"
)

// Bounds is the visible world-space grid range, extended by one step past
// the far edges so partially visible cells are covered.
type Bounds struct {
	StartX, StartY float64
	EndX, EndY     float64
	Step           float64
}

// maxSteps bounds the number of lines or ticks along one axis.
const maxSteps = 1 << 16

// GridBounds computes the grid range for a viewport of width x height pixels.
// Views so far out that the range is not representable yield an empty
// Bounds.
func GridBounds(st view.State, width, height int, step float64) Bounds {
	startX := math.Floor(-st.OffsetX/st.Scale/step) * step
	startY := math.Floor(-st.OffsetY/st.Scale/step) * step
	b := Bounds{
		StartX: startX,
		StartY: startY,
		EndX:   startX + float64(width)/st.Scale + step,
		EndY:   startY + float64(height)/st.Scale + step,
		Step:   step,
	}
	if !finite(b.StartX, b.StartY, b.EndX, b.EndY) {
		return Bounds{}
	}
	return b
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Xs returns the x positions of the vertical lines, start to end inclusive.
func (b Bounds) Xs() []float64 { return steps(b.StartX, b.EndX, b.Step) }

// Ys returns the y positions of the horizontal lines, start to end inclusive.
func (b Bounds) Ys() []float64 { return steps(b.StartY, b.EndY, b.Step) }

// steps returns start, start+step, ... up to end inclusive. Positions are
// computed from the index so rounding does not accumulate. Non-finite
// ranges and ranges of more than maxSteps positions yield nil.
func steps(start, end, step float64) []float64 {
	if step <= 0 || end < start || !finite(start, end, step) {
		return nil
	}
	count := math.Floor((end-start)/step + 1e-9)
	if !finite(count) || count > maxSteps {
		return nil
	}
	n := int(count)
	out := make([]float64, 0, n+1)
	for i := 0; i <= n; i++ {
		out = append(out, start+float64(i)*step)
	}
	return out
}

func (r *Renderer) drawGrid(sf surface.Surface, st view.State, w, h int) {
	b := GridBounds(st, w, h, r.opts.GridStep)

	sf.SetStrokeColor(r.opts.GridColor)
	sf.SetLineWidth(1 / st.Scale)

	for _, x := range b.Xs() {
		sf.BeginPath()
		sf.MoveTo(x, b.StartY)
		sf.LineTo(x, b.EndY)
		sf.Stroke()
	}
	for _, y := range b.Ys() {
		sf.BeginPath()
		sf.MoveTo(b.StartX, y)
		sf.LineTo(b.EndX, y)
		sf.Stroke()
	}
}
