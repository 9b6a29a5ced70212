package surface

import (
	"image/color"

	"github.com/matzehuels/infinicanvas/pkg/fonts"
	"github.com/matzehuels/infinicanvas/pkg/geom"
)

// penState is the part of the pen that Save and Restore cover.
type penState struct {
	matrix    geom.Matrix
	stroke    color.Color
	fill      color.Color
	lineWidth float64
	fontSize  float64
}

func defaultPenState() penState {
	return penState{
		matrix:    geom.Identity(),
		stroke:    color.Black,
		fill:      color.Black,
		lineWidth: 1,
		fontSize:  fonts.DefaultSize,
	}
}

// pen implements the state and path parts of Surface. Backends embed it and
// add Clear, Stroke, Fill, FillText and DrawImage.
type pen struct {
	width, height int
	penState
	stack []penState
	path  []Segment
}

func newPen(width, height int) pen {
	return pen{width: width, height: height, penState: defaultPenState()}
}

func (p *pen) Size() (int, int) { return p.width, p.height }

func (p *pen) Save() {
	p.stack = append(p.stack, p.penState)
}

// Restore pops the last saved state. An unbalanced Restore is ignored.
func (p *pen) Restore() {
	if len(p.stack) == 0 {
		return
	}
	p.penState = p.stack[len(p.stack)-1]
	p.stack = p.stack[:len(p.stack)-1]
}

func (p *pen) SetTransform(m geom.Matrix)   { p.matrix = m }
func (p *pen) Transform() geom.Matrix       { return p.matrix }
func (p *pen) SetStrokeColor(c color.Color) { p.stroke = c }
func (p *pen) SetFillColor(c color.Color)   { p.fill = c }
func (p *pen) SetLineWidth(w float64)       { p.lineWidth = w }
func (p *pen) SetFontSize(px float64)       { p.fontSize = px }
func (p *pen) BeginPath()                   { p.path = p.path[:0] }
func (p *pen) ClosePath()                   { p.path = append(p.path, Segment{Op: OpClose}) }
func (p *pen) MoveTo(x, y float64)          { p.add(OpMoveTo, x, y) }
func (p *pen) LineTo(x, y float64)          { p.add(OpLineTo, x, y) }

func (p *pen) add(op SegmentOp, x, y float64) {
	dx, dy := p.matrix.Apply(x, y)
	p.path = append(p.path, Segment{Op: op, X: dx, Y: dy})
}

// Rect adds a closed rectangle subpath.
func (p *pen) Rect(x, y, w, h float64) {
	p.MoveTo(x, y)
	p.LineTo(x+w, y)
	p.LineTo(x+w, y+h)
	p.LineTo(x, y+h)
	p.ClosePath()
}

// Circle adds a full circle subpath.
func (p *pen) Circle(cx, cy, r float64) {
	dx, dy := p.matrix.Apply(cx, cy)
	p.path = append(p.path, Segment{Op: OpCircle, X: dx, Y: dy, R: r * p.matrix.ScaleFactor()})
}

// deviceLineWidth is the current line width in device pixels.
func (p *pen) deviceLineWidth() float64 {
	return p.lineWidth * p.matrix.ScaleFactor()
}

// deviceFontSize is the current font size in device pixels.
func (p *pen) deviceFontSize() float64 {
	return p.fontSize * p.matrix.ScaleFactor()
}

// pathCopy returns a snapshot of the path that later edits cannot alias.
func (p *pen) pathCopy() []Segment {
	out := make([]Segment, len(p.path))
	copy(out, p.path)
	return out
}
