package geom

import (
	"strings"

	"github.com/matzehuels/infinicanvas/pkg/errors"
)

// Anchor identifies one of the nine reference points of a bounding box.
type Anchor string

// The nine anchors: corners, edge midpoints and center.
const (
	AnchorLT Anchor = "LT" // top-left corner
	AnchorRT Anchor = "RT" // top-right corner
	AnchorRB Anchor = "RB" // bottom-right corner
	AnchorLB Anchor = "LB" // bottom-left corner
	AnchorTC Anchor = "TC" // top edge center
	AnchorBC Anchor = "BC" // bottom edge center
	AnchorLC Anchor = "LC" // left edge center
	AnchorRC Anchor = "RC" // right edge center
	AnchorCC Anchor = "CC" // center
)

// DefaultAnchor is the anchor selected when nothing else is configured.
const DefaultAnchor = AnchorCC

// Anchors lists every anchor in selector order.
var Anchors = []Anchor{
	AnchorLT, AnchorRT, AnchorRB, AnchorLB,
	AnchorTC, AnchorBC, AnchorLC, AnchorRC,
	AnchorCC,
}

type anchorInfo struct {
	rx, ry float64
	label  string
}

var anchorTable = map[Anchor]anchorInfo{
	AnchorLT: {0, 0, "top-left"},
	AnchorRT: {1, 0, "top-right"},
	AnchorRB: {1, 1, "bottom-right"},
	AnchorLB: {0, 1, "bottom-left"},
	AnchorTC: {0.5, 0, "top"},
	AnchorBC: {0.5, 1, "bottom"},
	AnchorLC: {0, 0.5, "left"},
	AnchorRC: {1, 0.5, "right"},
	AnchorCC: {0.5, 0.5, "center"},
}

// ParseAnchor parses an anchor key case-insensitively. Labels such as
// "top-left" are accepted as well.
func ParseAnchor(s string) (Anchor, error) {
	key := strings.ToUpper(strings.TrimSpace(s))
	if _, ok := anchorTable[Anchor(key)]; ok {
		return Anchor(key), nil
	}
	lower := strings.ToLower(strings.TrimSpace(s))
	for a, info := range anchorTable {
		if info.label == lower {
			return a, nil
		}
	}
	return "", errors.New(errors.ErrCodeInvalidAnchor,
		"invalid anchor: %q (must be one of LT, RT, RB, LB, TC, BC, LC, RC, CC)", s)
}

// Valid reports whether a is one of the nine anchors.
func (a Anchor) Valid() bool {
	_, ok := anchorTable[a]
	return ok
}

// Label returns a human-readable name such as "top-left".
func (a Anchor) Label() string {
	if info, ok := anchorTable[a]; ok {
		return info.label
	}
	return string(a)
}

// Relative returns the anchor position as fractions of a box's width and
// height. Unknown anchors resolve to the center.
func (a Anchor) Relative() (rx, ry float64) {
	info, ok := anchorTable[a]
	if !ok {
		info = anchorTable[AnchorCC]
	}
	return info.rx, info.ry
}

// Point returns the anchor's location within r.
func (a Anchor) Point(r Rect) Point {
	rx, ry := a.Relative()
	return Point{r.X + rx*r.W, r.Y + ry*r.H}
}

// Index returns the position of a in [Anchors], or -1.
func (a Anchor) Index() int {
	for i, b := range Anchors {
		if a == b {
			return i
		}
	}
	return -1
}

// Next returns the anchor after a in selector order, wrapping around.
func (a Anchor) Next() Anchor {
	return Anchors[(a.Index()+1)%len(Anchors)]
}

// Prev returns the anchor before a in selector order, wrapping around.
func (a Anchor) Prev() Anchor {
	i := a.Index()
	if i <= 0 {
		return Anchors[len(Anchors)-1]
	}
	return Anchors[i-1]
}

// UniformScale returns the matrix that scales by ratio in both axes while
// keeping anchor a of bounds fixed.
func UniformScale(bounds Rect, ratio float64, a Anchor) Matrix {
	p := a.Point(bounds)
	return Mul(
		Translate(p.X, p.Y),
		Scale(ratio, ratio),
		Translate(-p.X, -p.Y),
	)
}
