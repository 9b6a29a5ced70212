package surface

import (
	"encoding/json"
	"image"
	"image/color"

	"github.com/matzehuels/infinicanvas/pkg/geom"
)

// OpKind names a recorded operation.
type OpKind string

const (
	KindClear  OpKind = "clear"
	KindStroke OpKind = "stroke"
	KindFill   OpKind = "fill"
	KindText   OpKind = "text"
	KindImage  OpKind = "image"
)

// Op is one recorded drawing operation in device coordinates.
type Op struct {
	Kind      OpKind     `json:"op"`
	Color     string     `json:"color,omitempty"`
	LineWidth float64    `json:"line_width,omitempty"`
	Path      []Segment  `json:"path,omitempty"`
	Text      string     `json:"text,omitempty"`
	X         float64    `json:"x,omitempty"`
	Y         float64    `json:"y,omitempty"`
	Align     Align      `json:"align,omitempty"`
	FontSize  float64    `json:"font_size,omitempty"`
	Matrix    [6]float64 `json:"matrix,omitempty"` // image: full transform incl. destination rect
	Width     float64    `json:"width,omitempty"`  // image: destination size in user units
	Height    float64    `json:"height,omitempty"`
	Source    [2]int     `json:"source,omitempty"` // image: source pixel size
}

// Display is a serialisable display list.
type Display struct {
	Width  int  `json:"width"`
	Height int  `json:"height"`
	Ops    []Op `json:"ops"`
}

// Recorder keeps every operation as an Op.
type Recorder struct {
	pen
	ops []Op
}

// NewRecorder creates an empty recorder.
func NewRecorder(width, height int) *Recorder {
	return &Recorder{pen: newPen(width, height)}
}

func (r *Recorder) Clear(bg color.Color) {
	r.ops = append(r.ops[:0], Op{Kind: KindClear, Color: Hex(bg)})
}

func (r *Recorder) Stroke() {
	if len(r.path) == 0 || r.stroke == nil {
		return
	}
	r.ops = append(r.ops, Op{
		Kind:      KindStroke,
		Color:     Hex(r.stroke),
		LineWidth: r.deviceLineWidth(),
		Path:      r.pathCopy(),
	})
}

func (r *Recorder) Fill() {
	if len(r.path) == 0 || r.fill == nil {
		return
	}
	r.ops = append(r.ops, Op{Kind: KindFill, Color: Hex(r.fill), Path: r.pathCopy()})
}

func (r *Recorder) FillText(s string, x, y float64, align Align) {
	if s == "" || r.fill == nil {
		return
	}
	dx, dy := r.matrix.Apply(x, y)
	r.ops = append(r.ops, Op{
		Kind:     KindText,
		Color:    Hex(r.fill),
		Text:     s,
		X:        dx,
		Y:        dy,
		Align:    align,
		FontSize: r.deviceFontSize(),
	})
}

func (r *Recorder) DrawImage(img image.Image, x, y, w, h float64) {
	if img == nil || w == 0 || h == 0 {
		return
	}
	b := img.Bounds()
	m := r.matrix.Multiply(geom.Translate(x, y))
	dx, dy := m.Apply(0, 0)
	r.ops = append(r.ops, Op{
		Kind:   KindImage,
		X:      dx,
		Y:      dy,
		Matrix: m.Values(),
		Width:  w,
		Height: h,
		Source: [2]int{b.Dx(), b.Dy()},
	})
}

// Ops returns the recorded operations.
func (r *Recorder) Ops() []Op {
	return r.ops
}

// Filter returns the operations of one kind.
func (r *Recorder) Filter(kind OpKind) []Op {
	var out []Op
	for _, op := range r.ops {
		if op.Kind == kind {
			out = append(out, op)
		}
	}
	return out
}

// Display returns the display list.
func (r *Recorder) Display() Display {
	ops := r.ops
	if ops == nil {
		ops = []Op{}
	}
	return Display{Width: r.width, Height: r.height, Ops: ops}
}

// JSON returns the indented display list.
func (r *Recorder) JSON() ([]byte, error) {
	return json.MarshalIndent(r.Display(), "", "  ")
}
