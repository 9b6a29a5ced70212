package view

import (
	"fmt"
	"math"

	"github.com/matzehuels/infinicanvas/pkg/geom"
)

// Scale bounds and zoom speed.
const (
	MinScale   = 0.1
	MaxScale   = 5.0
	ZoomFactor = 0.01
)

// State is the view transform of the canvas.
type State struct {
	Scale   float64 `json:"scale"`
	OffsetX float64 `json:"offset_x"`
	OffsetY float64 `json:"offset_y"`
}

// NewState returns an unzoomed view panned to (offsetX, offsetY).
func NewState(offsetX, offsetY float64) State {
	return State{Scale: 1, OffsetX: offsetX, OffsetY: offsetY}
}

// ClampScale bounds s to [MinScale, MaxScale].
func ClampScale(s float64) float64 {
	return math.Min(math.Max(MinScale, s), MaxScale)
}

// Normalized returns s with its scale clamped. A zero scale (the zero State)
// becomes 1.
func (s State) Normalized() State {
	if s.Scale == 0 {
		s.Scale = 1
	}
	s.Scale = ClampScale(s.Scale)
	return s
}

// Matrix returns the view transform [scale, 0, 0, scale, offsetX, offsetY].
func (s State) Matrix() geom.Matrix {
	return geom.NewMatrix(s.Scale, 0, 0, s.Scale, s.OffsetX, s.OffsetY)
}

// WorldToScreen maps a world point to screen pixels.
func (s State) WorldToScreen(x, y float64) (float64, float64) {
	return x*s.Scale + s.OffsetX, y*s.Scale + s.OffsetY
}

// ScreenToWorld maps a screen pixel to world coordinates.
func (s State) ScreenToWorld(x, y float64) (float64, float64) {
	return (x - s.OffsetX) / s.Scale, (y - s.OffsetY) / s.Scale
}

// Zoomed returns the state after one wheel notch at (cursorX, cursorY).
// Positive deltaY zooms out, negative zooms in, zero changes nothing. The
// world point under the cursor stays under the cursor.
func (s State) Zoomed(cursorX, cursorY, deltaY float64) State {
	if deltaY == 0 {
		return s
	}
	change := 1 + ZoomFactor
	if deltaY > 0 {
		change = 1 - ZoomFactor
	}
	newScale := ClampScale(s.Scale * change)

	sceneX, sceneY := s.ScreenToWorld(cursorX, cursorY)
	return State{
		Scale:   newScale,
		OffsetX: cursorX - sceneX*newScale,
		OffsetY: cursorY - sceneY*newScale,
	}
}

// Panned returns the state moved by a screen-space delta.
func (s State) Panned(dx, dy float64) State {
	s.OffsetX += dx
	s.OffsetY += dy
	return s
}

// ZoomIndicator formats the scale as a percentage, e.g. "100%".
func (s State) ZoomIndicator() string {
	return fmt.Sprintf("%d%%", int(math.Round(s.Scale*100)))
}
