package geom

import (
	"math"
	"testing"
)

const eps = 1e-9

func near(a, b float64) bool {
	return math.Abs(a-b) < eps
}

func nearPoint(p, q Point) bool {
	return near(p.X, q.X) && near(p.Y, q.Y)
}

func transform(m Matrix, p Point) Point {
	x, y := m.Apply(p.X, p.Y)
	return Pt(x, y)
}

func TestMultiplyOrder(t *testing.T) {
	// Translate after scale: the point is scaled first, then moved.
	m := Translate(10, 20).Multiply(Scale(2, 3))
	got := transform(m, Pt(1, 1))
	if want := Pt(12, 23); !nearPoint(got, want) {
		t.Errorf("T·S applied to (1,1) = %v, want %v", got, want)
	}

	// Scale after translate: the translation is scaled too.
	m = Scale(2, 3).Multiply(Translate(10, 20))
	got = transform(m, Pt(1, 1))
	if want := Pt(22, 63); !nearPoint(got, want) {
		t.Errorf("S·T applied to (1,1) = %v, want %v", got, want)
	}
}

func TestMulMatchesChainedMultiply(t *testing.T) {
	a := Translate(5, -3)
	b := Scale(2, 2)
	c := NewMatrix(0, 1, -1, 0, 4, 4)

	got := Mul(a, b, c)
	want := a.Multiply(b).Multiply(c)
	if got != want {
		t.Errorf("Mul(a,b,c) = %v, want %v", got, want)
	}
	if Mul() != Identity() {
		t.Error("Mul() should be the identity")
	}
}

func TestCanvasConvention(t *testing.T) {
	// setTransform(scale, 0, 0, scale, offsetX, offsetY)
	m := NewMatrix(2, 0, 0, 2, 100, 50)
	x, y := m.Apply(10, 10)
	if !near(x, 120) || !near(y, 70) {
		t.Errorf("Apply(10,10) = (%v,%v), want (120,70)", x, y)
	}
	if m != Translate(100, 50).Multiply(Scale(2, 2)) {
		t.Error("view matrix should equal translate·scale")
	}
}

func TestScaleFactor(t *testing.T) {
	if got := Scale(3, 3).ScaleFactor(); !near(got, 3) {
		t.Errorf("ScaleFactor() = %v, want 3", got)
	}
	if got := Translate(9, 9).ScaleFactor(); !near(got, 1) {
		t.Errorf("translation ScaleFactor() = %v, want 1", got)
	}
}

func TestAff3(t *testing.T) {
	m := NewMatrix(1, 2, 3, 4, 5, 6)
	a := m.Aff3()
	// x' = a[0]*x + a[1]*y + a[2]
	x := a[0]*7 + a[1]*11 + a[2]
	y := a[3]*7 + a[4]*11 + a[5]
	wx, wy := m.Apply(7, 11)
	if !near(x, wx) || !near(y, wy) {
		t.Errorf("Aff3 maps (7,11) to (%v,%v), want (%v,%v)", x, y, wx, wy)
	}
}
