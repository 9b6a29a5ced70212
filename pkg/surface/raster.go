package surface

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"io"

	"github.com/fogleman/gg"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"

	"github.com/matzehuels/infinicanvas/pkg/fonts"
	"github.com/matzehuels/infinicanvas/pkg/geom"
)

// Raster draws into an RGBA image.
//
// The gg context always keeps an identity matrix; points are transformed by
// the pen before they reach it.
type Raster struct {
	pen
	dc      *gg.Context
	faces   map[float64]font.Face
	newFace func(size float64) (font.Face, error)
	err     error
}

// NewRaster creates a transparent raster surface.
func NewRaster(width, height int) *Raster {
	return &Raster{
		pen:     newPen(width, height),
		dc:      gg.NewContext(width, height),
		faces:   make(map[float64]font.Face),
		newFace: fonts.NewFace,
	}
}

// Err returns the first error met while drawing, such as a font that failed
// to load. Drawing continues after an error, skipping the affected text.
func (r *Raster) Err() error {
	return r.err
}

// Clear fills the surface with bg.
func (r *Raster) Clear(bg color.Color) {
	if bg == nil {
		bg = color.Transparent
	}
	r.dc.SetColor(bg)
	r.dc.Clear()
}

// Stroke strokes the current path.
func (r *Raster) Stroke() {
	if len(r.path) == 0 || r.stroke == nil {
		return
	}
	r.replay()
	r.dc.SetColor(r.stroke)
	r.dc.SetLineWidth(r.deviceLineWidth())
	r.dc.Stroke()
}

// Fill fills the current path with the nonzero rule.
func (r *Raster) Fill() {
	if len(r.path) == 0 || r.fill == nil {
		return
	}
	r.replay()
	r.dc.SetColor(r.fill)
	r.dc.SetFillRule(gg.FillRuleWinding)
	r.dc.Fill()
}

// replay rebuilds the pen path on the gg context.
func (r *Raster) replay() {
	r.dc.ClearPath()
	for _, s := range r.path {
		switch s.Op {
		case OpMoveTo:
			r.dc.MoveTo(s.X, s.Y)
		case OpLineTo:
			r.dc.LineTo(s.X, s.Y)
		case OpClose:
			r.dc.ClosePath()
		case OpCircle:
			r.dc.DrawCircle(s.X, s.Y, s.R)
		}
	}
}

// FillText draws s in the fill colour.
func (r *Raster) FillText(s string, x, y float64, align Align) {
	if s == "" || r.fill == nil {
		return
	}
	face, err := r.face(r.deviceFontSize())
	if err != nil {
		if r.err == nil {
			r.err = fmt.Errorf("load font face: %w", err)
		}
		return
	}
	dx, dy := r.matrix.Apply(x, y)
	r.dc.SetFontFace(face)
	r.dc.SetColor(r.fill)
	r.dc.DrawStringAnchored(s, dx, dy, align.anchorX(), 0.5)
}

func (r *Raster) face(size float64) (font.Face, error) {
	if f, ok := r.faces[size]; ok {
		return f, nil
	}
	f, err := r.newFace(size)
	if err != nil {
		return nil, err
	}
	r.faces[size] = f
	return f, nil
}

// DrawImage draws img into (x, y, w, h) under the current transform with
// bilinear filtering.
func (r *Raster) DrawImage(img image.Image, x, y, w, h float64) {
	if img == nil || w == 0 || h == 0 {
		return
	}
	b := img.Bounds()
	if b.Empty() {
		return
	}
	dst, ok := r.dc.Image().(draw.Image)
	if !ok {
		return
	}
	m := geom.Mul(
		r.matrix,
		geom.Translate(x, y),
		geom.Scale(w/float64(b.Dx()), h/float64(b.Dy())),
		geom.Translate(-float64(b.Min.X), -float64(b.Min.Y)),
	)
	draw.BiLinear.Transform(dst, m.Aff3(), img, b, draw.Over, nil)
}

// Image returns the rendered image.
func (r *Raster) Image() image.Image {
	return r.dc.Image()
}

// EncodePNG writes the surface as PNG. It fails if drawing met an error.
func (r *Raster) EncodePNG(w io.Writer) error {
	if r.err != nil {
		return r.err
	}
	return r.dc.EncodePNG(w)
}

// PNG returns the surface encoded as PNG.
func (r *Raster) PNG() ([]byte, error) {
	var buf bytes.Buffer
	if err := r.EncodePNG(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
