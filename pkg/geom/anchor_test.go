package geom

import "testing"

func TestParseAnchor(t *testing.T) {
	tests := []struct {
		input   string
		want    Anchor
		wantErr bool
	}{
		{"LT", AnchorLT, false},
		{"cc", AnchorCC, false},
		{" rb ", AnchorRB, false},
		{"top-left", AnchorLT, false},
		{"Center", AnchorCC, false},

		{"", "", true},
		{"XX", "", true},
		{"middle", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseAnchor(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseAnchor(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseAnchor(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestAnchorPoints(t *testing.T) {
	r := Rect{X: 0, Y: 0, W: 100, H: 50}
	want := map[Anchor]Point{
		AnchorLT: {0, 0},
		AnchorRT: {100, 0},
		AnchorRB: {100, 50},
		AnchorLB: {0, 50},
		AnchorTC: {50, 0},
		AnchorBC: {50, 50},
		AnchorLC: {0, 25},
		AnchorRC: {100, 25},
		AnchorCC: {50, 25},
	}
	if len(want) != len(Anchors) {
		t.Fatalf("expected %d anchors, table has %d", len(Anchors), len(want))
	}
	for _, a := range Anchors {
		if got := a.Point(r); !nearPoint(got, want[a]) {
			t.Errorf("%s.Point() = %v, want %v", a, got, want[a])
		}
	}
}

func TestAnchorCycle(t *testing.T) {
	a := AnchorLT
	for range Anchors {
		a = a.Next()
	}
	if a != AnchorLT {
		t.Errorf("cycling Next() through all anchors ended at %s", a)
	}
	if AnchorLT.Prev() != AnchorCC {
		t.Errorf("AnchorLT.Prev() = %s, want CC", AnchorLT.Prev())
	}
	if AnchorCC.Next() != AnchorLT {
		t.Errorf("AnchorCC.Next() = %s, want LT", AnchorCC.Next())
	}
}

func TestUniformScaleKeepsAnchorFixed(t *testing.T) {
	unit := Rect{W: 1, H: 1}

	// Unit square anchored at LT with ratio 2: top-left stays, the opposite
	// corner moves to twice its offset.
	m := UniformScale(unit, 2, AnchorLT)
	if got := transform(m, Pt(0, 0)); !nearPoint(got, Pt(0, 0)) {
		t.Errorf("LT corner moved to %v", got)
	}
	if got := transform(m, Pt(1, 1)); !nearPoint(got, Pt(2, 2)) {
		t.Errorf("RB corner = %v, want (2,2)", got)
	}

	bounds := Rect{X: 10, Y: 20, W: 100, H: 60}
	for _, a := range Anchors {
		for _, ratio := range []float64{0.1, 0.5, 1, 2.5, 5} {
			m := UniformScale(bounds, ratio, a)
			p := a.Point(bounds)
			if got := transform(m, p); !nearPoint(got, p) {
				t.Errorf("%s ratio %v: anchor moved from %v to %v", a, ratio, p, got)
			}
			// Distances from the anchor scale by ratio.
			c := bounds.Corners()[2]
			got := transform(m, c).Sub(p)
			want := c.Sub(p).Mul(ratio)
			if !nearPoint(got, want) {
				t.Errorf("%s ratio %v: corner offset %v, want %v", a, ratio, got, want)
			}
		}
	}
}

func TestUniformScaleCenter(t *testing.T) {
	m := UniformScale(Rect{W: 100, H: 100}, 0.5, AnchorCC)
	if got := transform(m, Pt(0, 0)); !nearPoint(got, Pt(25, 25)) {
		t.Errorf("top-left under CC/0.5 = %v, want (25,25)", got)
	}
}
