package frame

import (
	"fmt"
	"image/color"

	"github.com/matzehuels/infinicanvas/pkg/surface"
	"github.com/matzehuels/infinicanvas/pkg/view"
)

const (
	overlayMargin   = 10.0
	overlayPadding  = 8.0
	overlayFontSize = 13.0
	overlayLine     = 18.0
	// Rough advance of the label font, as a fraction of its size.
	overlayCharWidth = 0.6
)

var (
	overlayBackground = color.NRGBA{A: 0x80}
	overlayText       = color.White
)

// OverlayLines returns the text of the two overlay panels: the zoom badge
// and the ratio/anchor panel.
func OverlayLines(snap view.Snapshot) (zoom string, panel []string) {
	zoom = "Zoom: " + snap.State.ZoomIndicator()
	panel = []string{
		fmt.Sprintf("Ratio: %.1f", snap.Ratio),
		fmt.Sprintf("Anchor: %s (%s)", snap.Anchor.Label(), snap.Anchor),
	}
	return zoom, panel
}

func (r *Renderer) drawOverlay(sf surface.Surface, snap view.Snapshot, w, h int) {
	zoom, panel := OverlayLines(snap)

	// Zoom badge, top right.
	drawPanel(sf, []string{zoom}, float64(w)-overlayMargin, overlayMargin, false)
	// Ratio and anchor, bottom right.
	drawPanel(sf, panel, float64(w)-overlayMargin, float64(h)-overlayMargin, true)
}

// drawPanel draws lines in a box whose right edge is at right. The box hangs
// below y, or sits above it when bottom is set.
func drawPanel(sf surface.Surface, lines []string, right, y float64, bottom bool) {
	widest := 0
	for _, l := range lines {
		widest = max(widest, len(l))
	}
	bw := float64(widest)*overlayFontSize*overlayCharWidth + 2*overlayPadding
	bh := float64(len(lines))*overlayLine + 2*overlayPadding
	x := right - bw
	if bottom {
		y -= bh
	}

	sf.SetFillColor(overlayBackground)
	sf.BeginPath()
	sf.Rect(x, y, bw, bh)
	sf.Fill()

	sf.SetFillColor(overlayText)
	sf.SetFontSize(overlayFontSize)
	for i, l := range lines {
		ty := y + overlayPadding + overlayLine*(float64(i)+0.5)
		sf.FillText(l, x+overlayPadding, ty, surface.AlignLeft)
	}
}
