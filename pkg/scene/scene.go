// Package scene defines the drawable content of the canvas.
//
// A [Scene] is an ordered list of [Shape] values in world coordinates. Each
// shape is drawn under view · translate(position), and anchored shapes are
// additionally scaled by the display ratio around the selected anchor of
// their local bounds.
//
// Every shape, the badge and avatar included, lives in world space: panning
// and zooming move and scale the image and the circle together with the
// rectangle. Only the frame's grid, rulers and overlay are screen-space.
package scene

import (
	"image"
	"image/color"

	"github.com/matzehuels/infinicanvas/pkg/geom"
	"github.com/matzehuels/infinicanvas/pkg/surface"
)

// Kind is the type of a shape.
type Kind string

const (
	KindRect   Kind = "rect"
	KindCircle Kind = "circle"
	KindImage  Kind = "image"
)

// Shape is one drawable item.
type Shape struct {
	Name     string
	Kind     Kind
	Position geom.Point
	// Bounds is the local bounding box. Anchors are resolved against it and
	// images are stretched to fill it.
	Bounds      geom.Rect
	Fill        color.Color
	Stroke      color.Color
	StrokeWidth float64
	Radius      float64 // circles, centred in Bounds
	Image       image.Image
	Anchored    bool
}

// Transform returns the shape's full transform under the given view.
func (s *Shape) Transform(view geom.Matrix, ratio float64, a geom.Anchor) geom.Matrix {
	m := view.Multiply(geom.Translate(s.Position.X, s.Position.Y))
	if s.Anchored {
		m = m.Multiply(geom.UniformScale(s.Bounds, ratio, a))
	}
	return m
}

// Draw draws the shape with transform m. The surface state is restored
// afterwards.
func (s *Shape) Draw(sf surface.Surface, m geom.Matrix) {
	sf.Save()
	defer sf.Restore()
	sf.SetTransform(m)

	b := s.Bounds
	switch s.Kind {
	case KindRect:
		sf.BeginPath()
		sf.Rect(b.X, b.Y, b.W, b.H)
		s.paint(sf)
	case KindCircle:
		sf.BeginPath()
		sf.Circle(b.X+b.W/2, b.Y+b.H/2, s.Radius)
		s.paint(sf)
	case KindImage:
		sf.DrawImage(s.Image, b.X, b.Y, b.W, b.H)
	}
}

// paint fills, then strokes, the current path.
func (s *Shape) paint(sf surface.Surface) {
	if s.Fill != nil {
		sf.SetFillColor(s.Fill)
		sf.Fill()
	}
	if s.Stroke != nil && s.StrokeWidth > 0 {
		sf.SetStrokeColor(s.Stroke)
		sf.SetLineWidth(s.StrokeWidth)
		sf.Stroke()
	}
}

// Scene is an ordered list of shapes, drawn first to last.
type Scene struct {
	Shapes []Shape
}

// Draw draws every shape under view.
func (sc *Scene) Draw(sf surface.Surface, view geom.Matrix, ratio float64, a geom.Anchor) {
	if sc == nil || sf == nil {
		return
	}
	for i := range sc.Shapes {
		s := &sc.Shapes[i]
		s.Draw(sf, s.Transform(view, ratio, a))
	}
}

// Shape returns the shape with the given name.
func (sc *Scene) Shape(name string) (*Shape, bool) {
	for i := range sc.Shapes {
		if sc.Shapes[i].Name == name {
			return &sc.Shapes[i], true
		}
	}
	return nil, false
}
