package surface

import (
	"image"
	"image/color"

	"github.com/matzehuels/infinicanvas/pkg/geom"
)

// Surface is a drawing target.
type Surface interface {
	// Size returns the device size in pixels.
	Size() (width, height int)
	// Clear fills the whole surface with bg, ignoring the transform.
	Clear(bg color.Color)

	Save()
	Restore()
	SetTransform(m geom.Matrix)
	Transform() geom.Matrix

	SetStrokeColor(c color.Color)
	SetFillColor(c color.Color)
	SetLineWidth(w float64)
	SetFontSize(px float64)

	BeginPath()
	MoveTo(x, y float64)
	LineTo(x, y float64)
	Rect(x, y, w, h float64)
	Circle(cx, cy, r float64)
	ClosePath()
	Stroke()
	Fill()

	// FillText draws s with its vertical middle at y, aligned horizontally
	// on x.
	FillText(s string, x, y float64, align Align)
	// DrawImage draws img stretched into the rectangle (x, y, w, h).
	DrawImage(img image.Image, x, y, w, h float64)
}

// Align is a horizontal text alignment.
type Align string

const (
	AlignLeft   Align = "left"
	AlignCenter Align = "center"
	AlignRight  Align = "right"
)

// anchorX returns the horizontal anchor fraction used by gg.
func (a Align) anchorX() float64 {
	switch a {
	case AlignCenter:
		return 0.5
	case AlignRight:
		return 1
	default:
		return 0
	}
}

// svgAnchor returns the SVG text-anchor value.
func (a Align) svgAnchor() string {
	switch a {
	case AlignCenter:
		return "middle"
	case AlignRight:
		return "end"
	default:
		return "start"
	}
}

// SegmentOp is the kind of a path segment.
type SegmentOp string

const (
	OpMoveTo SegmentOp = "M"
	OpLineTo SegmentOp = "L"
	OpClose  SegmentOp = "Z"
	OpCircle SegmentOp = "O"
)

// Segment is one device-space path element. R is set for circles only.
type Segment struct {
	Op SegmentOp `json:"op"`
	X  float64   `json:"x,omitempty"`
	Y  float64   `json:"y,omitempty"`
	R  float64   `json:"r,omitempty"`
}
