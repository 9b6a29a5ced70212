package view

import (
	"math"
	"testing"
)

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestClampScale(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0.01, MinScale},
		{0.1, 0.1},
		{1, 1},
		{5, 5},
		{12, MaxScale},
	}
	for _, tt := range tests {
		if got := ClampScale(tt.in); got != tt.want {
			t.Errorf("ClampScale(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestZoomedDirection(t *testing.T) {
	s := NewState(0, 0)

	in := s.Zoomed(0, 0, -1)
	if !approx(in.Scale, 1.01) {
		t.Errorf("zoom in scale = %v, want 1.01", in.Scale)
	}
	out := s.Zoomed(0, 0, 1)
	if !approx(out.Scale, 0.99) {
		t.Errorf("zoom out scale = %v, want 0.99", out.Scale)
	}
	if got := s.Zoomed(10, 10, 0); got != s {
		t.Errorf("zero delta changed state: %+v", got)
	}
}

func TestZoomedKeepsCursorFixed(t *testing.T) {
	s := State{Scale: 1.7, OffsetX: -40, OffsetY: 25}
	cx, cy := 400.0, 300.0
	wx, wy := s.ScreenToWorld(cx, cy)

	for i := 0; i < 50; i++ {
		s = s.Zoomed(cx, cy, -3)
		gx, gy := s.WorldToScreen(wx, wy)
		if !approx(gx, cx) || !approx(gy, cy) {
			t.Fatalf("step %d: cursor world point moved to (%v,%v)", i, gx, gy)
		}
	}
}

func TestZoomedClampsAtBounds(t *testing.T) {
	s := State{Scale: MaxScale, OffsetX: 7, OffsetY: 9}
	got := s.Zoomed(100, 100, -1)
	if got.Scale != MaxScale {
		t.Errorf("scale = %v, want %v", got.Scale, MaxScale)
	}
	if !approx(got.OffsetX, 7) || !approx(got.OffsetY, 9) {
		t.Errorf("offset moved at max scale: (%v,%v)", got.OffsetX, got.OffsetY)
	}

	s = State{Scale: MinScale}
	for i := 0; i < 10; i++ {
		s = s.Zoomed(0, 0, 1)
	}
	if s.Scale != MinScale {
		t.Errorf("scale = %v, want %v", s.Scale, MinScale)
	}
}

func TestZoomedScaleStaysInRange(t *testing.T) {
	s := NewState(0, 0)
	for i := 0; i < 1000; i++ {
		d := 1.0
		if i%3 == 0 {
			d = -1
		}
		if i > 500 {
			d = -d
		}
		s = s.Zoomed(float64(i), float64(i/2), d)
		if s.Scale < MinScale || s.Scale > MaxScale {
			t.Fatalf("scale %v out of range after %d events", s.Scale, i)
		}
	}
}

func TestWorldScreenRoundTrip(t *testing.T) {
	s := State{Scale: 2.5, OffsetX: 13, OffsetY: -8}
	sx, sy := s.WorldToScreen(10, 20)
	if sx != 38 || sy != 42 {
		t.Errorf("WorldToScreen = (%v,%v), want (38,42)", sx, sy)
	}
	wx, wy := s.ScreenToWorld(sx, sy)
	if !approx(wx, 10) || !approx(wy, 20) {
		t.Errorf("ScreenToWorld = (%v,%v), want (10,20)", wx, wy)
	}

	m := s.Matrix()
	mx, my := m.Apply(10, 20)
	if mx != sx || my != sy {
		t.Errorf("Matrix().Apply = (%v,%v), want (%v,%v)", mx, my, sx, sy)
	}
}

func TestZoomIndicator(t *testing.T) {
	tests := []struct {
		scale float64
		want  string
	}{
		{1, "100%"},
		{0.1, "10%"},
		{1.01, "101%"},
		{0.99 * 0.99, "98%"},
		{5, "500%"},
	}
	for _, tt := range tests {
		if got := (State{Scale: tt.scale}).ZoomIndicator(); got != tt.want {
			t.Errorf("ZoomIndicator(%v) = %q, want %q", tt.scale, got, tt.want)
		}
	}
}

func TestNormalized(t *testing.T) {
	if got := (State{}).Normalized(); got.Scale != 1 {
		t.Errorf("zero state scale = %v, want 1", got.Scale)
	}
	if got := (State{Scale: 20}).Normalized(); got.Scale != MaxScale {
		t.Errorf("scale = %v, want %v", got.Scale, MaxScale)
	}
}
