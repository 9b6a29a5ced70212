package surface

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"html"
	"image"
	"image/color"
	"image/png"
	"io"
	"strings"

	"github.com/matzehuels/infinicanvas/pkg/fonts"
	"github.com/matzehuels/infinicanvas/pkg/geom"
)

// SVGOption configures an SVG surface.
type SVGOption func(*SVG)

// WithEmbeddedFont embeds the label font as a data URI so the document
// renders identically without the font installed.
func WithEmbeddedFont() SVGOption { return func(s *SVG) { s.embedFont = true } }

// SVG records drawing operations as SVG elements.
type SVG struct {
	pen
	embedFont bool
	body      bytes.Buffer
}

// NewSVG creates an empty SVG surface.
func NewSVG(width, height int, opts ...SVGOption) *SVG {
	s := &SVG{pen: newPen(width, height)}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Clear discards everything drawn so far and paints the background.
func (s *SVG) Clear(bg color.Color) {
	s.body.Reset()
	if bg == nil {
		return
	}
	rgb, op := rgbOpacity(bg)
	if op == 0 {
		return
	}
	fmt.Fprintf(&s.body, `  <rect x="0" y="0" width="%d" height="%d" fill="%s"%s/>`+"\n",
		s.width, s.height, rgb, opacityAttr("fill-opacity", op))
}

func (s *SVG) Stroke() {
	if len(s.path) == 0 || s.stroke == nil {
		return
	}
	rgb, op := rgbOpacity(s.stroke)
	fmt.Fprintf(&s.body, `  <path d="%s" fill="none" stroke="%s" stroke-width="%s"%s/>`+"\n",
		pathData(s.path), rgb, num(s.deviceLineWidth()), opacityAttr("stroke-opacity", op))
}

func (s *SVG) Fill() {
	if len(s.path) == 0 || s.fill == nil {
		return
	}
	rgb, op := rgbOpacity(s.fill)
	fmt.Fprintf(&s.body, `  <path d="%s" fill="%s"%s/>`+"\n",
		pathData(s.path), rgb, opacityAttr("fill-opacity", op))
}

func (s *SVG) FillText(text string, x, y float64, align Align) {
	if text == "" || s.fill == nil {
		return
	}
	dx, dy := s.matrix.Apply(x, y)
	rgb, op := rgbOpacity(s.fill)
	fmt.Fprintf(&s.body, `  <text x="%s" y="%s" text-anchor="%s" dominant-baseline="middle" font-family="%s" font-size="%s" fill="%s"%s>%s</text>`+"\n",
		num(dx), num(dy), align.svgAnchor(), html.EscapeString(fonts.FallbackFontFamily),
		num(s.deviceFontSize()), rgb, opacityAttr("fill-opacity", op), html.EscapeString(text))
}

// DrawImage embeds img as a PNG data URI.
func (s *SVG) DrawImage(img image.Image, x, y, w, h float64) {
	if img == nil || w == 0 || h == 0 || img.Bounds().Empty() {
		return
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return
	}
	m := s.matrix.Multiply(geom.Translate(x, y))
	fmt.Fprintf(&s.body, `  <image transform="%s" width="%s" height="%s" preserveAspectRatio="none" href="data:image/png;base64,%s"/>`+"\n",
		m.String(), num(w), num(h), base64.StdEncoding.EncodeToString(buf.Bytes()))
}

// WriteTo writes the complete SVG document.
func (s *SVG) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(s.Bytes())
	return int64(n), err
}

// Bytes returns the complete SVG document.
func (s *SVG) Bytes() []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %d %d" width="%d" height="%d">`+"\n",
		s.width, s.height, s.width, s.height)
	if s.embedFont {
		fmt.Fprintf(&buf, "  <style>@font-face { font-family: '%s'; src: url(data:font/ttf;base64,%s) format('truetype'); }</style>\n",
			fonts.FontFamily, fonts.RegularTTFBase64())
	}
	buf.Write(s.body.Bytes())
	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func pathData(path []Segment) string {
	var b strings.Builder
	for i, seg := range path {
		if i > 0 {
			b.WriteByte(' ')
		}
		switch seg.Op {
		case OpMoveTo, OpLineTo:
			fmt.Fprintf(&b, "%s%s %s", seg.Op, num(seg.X), num(seg.Y))
		case OpClose:
			b.WriteString("Z")
		case OpCircle:
			// Two half arcs; SVG cannot draw a full circle with one arc.
			fmt.Fprintf(&b, "M%s %s A%s %s 0 1 0 %s %s A%s %s 0 1 0 %s %s Z",
				num(seg.X-seg.R), num(seg.Y),
				num(seg.R), num(seg.R), num(seg.X+seg.R), num(seg.Y),
				num(seg.R), num(seg.R), num(seg.X-seg.R), num(seg.Y))
		}
	}
	return b.String()
}

func opacityAttr(name string, op float64) string {
	if op >= 1 {
		return ""
	}
	return fmt.Sprintf(` %s="%s"`, name, num(op))
}

// num formats v with at most two decimals and no trailing zeros.
func num(v float64) string {
	s := fmt.Sprintf("%.2f", v)
	s = strings.TrimRight(s, "0")
	s = strings.TrimSuffix(s, ".")
	if s == "-0" {
		return "0"
	}
	return s
}
