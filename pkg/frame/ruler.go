package frame

import (
	"math"
	"strconv"

	"github.com/matzehuels/infinicanvas/pkg/surface"
	"github.com/matzehuels/infinicanvas/pkg/view"
)

// RulerStep returns the smallest base*2^k whose on-screen spacing at scale
// is at least minSpacing pixels.
func RulerStep(scale, base, minSpacing float64) float64 {
	step := base
	for step*scale < minSpacing {
		step *= 2
	}
	return step
}

// Tick is one ruler mark.
type Tick struct {
	World  float64
	Screen float64
	Label  string
}

// RulerTicks returns the marks along one axis. offset and scale are the
// view's values for that axis and extent is the viewport size in pixels.
func RulerTicks(offset, scale float64, extent int, step float64) []Tick {
	start := math.Floor(-offset/scale/step) * step
	end := start + float64(extent)/scale + step

	ws := steps(start, end, step)
	ticks := make([]Tick, len(ws))
	for i, w := range ws {
		ticks[i] = Tick{
			World:  w,
			Screen: w*scale + offset,
			Label:  strconv.FormatInt(int64(math.Round(w)), 10),
		}
	}
	return ticks
}

func (r *Renderer) drawRulers(sf surface.Surface, st view.State, w, h int) {
	o := r.opts
	step := RulerStep(st.Scale, o.RulerBaseStep, o.RulerMinSpacing)

	sf.SetStrokeColor(o.RulerColor)
	sf.SetFillColor(o.RulerColor)
	sf.SetFontSize(o.RulerFontSize)

	for _, t := range RulerTicks(st.OffsetX, st.Scale, w, step) {
		sf.BeginPath()
		sf.MoveTo(t.Screen, 0)
		sf.LineTo(t.Screen, o.TickLength)
		sf.Stroke()
		sf.FillText(t.Label, t.Screen, o.LabelOffset, surface.AlignCenter)
	}
	for _, t := range RulerTicks(st.OffsetY, st.Scale, h, step) {
		sf.BeginPath()
		sf.MoveTo(0, t.Screen)
		sf.LineTo(o.TickLength, t.Screen)
		sf.Stroke()
		sf.FillText(t.Label, o.LabelOffset, t.Screen, surface.AlignCenter)
	}
}
