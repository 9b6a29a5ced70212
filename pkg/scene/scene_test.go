package scene

import (
	"image"
	"image/color"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"

	"github.com/matzehuels/infinicanvas/pkg/errors"
	"github.com/matzehuels/infinicanvas/pkg/geom"
	"github.com/matzehuels/infinicanvas/pkg/surface"
)

func drawDefault(t *testing.T, view geom.Matrix, ratio float64, a geom.Anchor) *surface.Recorder {
	t.Helper()
	rec := surface.NewRecorder(800, 600)
	Default(nil).Draw(rec, view, ratio, a)
	return rec
}

func TestDefaultSceneOrder(t *testing.T) {
	sc := Default(nil)
	want := []string{NameRect, NameBadge, NameAvatar}
	if len(sc.Shapes) != len(want) {
		t.Fatalf("got %d shapes, want %d", len(sc.Shapes), len(want))
	}
	for i, name := range want {
		if sc.Shapes[i].Name != name {
			t.Errorf("shape %d = %s, want %s", i, sc.Shapes[i].Name, name)
		}
	}
	if s, _ := sc.Shape(NameAvatar); s.Image == nil {
		t.Error("avatar has no image")
	}
}

func TestDefaultSceneIdentity(t *testing.T) {
	rec := drawDefault(t, geom.Identity(), 1, geom.AnchorCC)

	fills := rec.Filter(surface.KindFill)
	if len(fills) != 2 {
		t.Fatalf("got %d fills, want 2", len(fills))
	}
	rect := fills[0].Path
	if rect[0].X != 100 || rect[0].Y != 100 || rect[2].X != 200 || rect[2].Y != 200 {
		t.Errorf("rect path = %+v", rect)
	}
	badge := fills[1].Path[0]
	if badge.Op != surface.OpCircle || badge.X != 150 || badge.Y != 150 || badge.R != 40 {
		t.Errorf("badge = %+v", badge)
	}

	strokes := rec.Filter(surface.KindStroke)
	if len(strokes) != 2 || strokes[1].LineWidth != 3 || strokes[1].Color != "#000000" {
		t.Errorf("strokes = %+v", strokes)
	}

	imgs := rec.Filter(surface.KindImage)
	if len(imgs) != 1 || imgs[0].X != 200 || imgs[0].Y != 100 || imgs[0].Width != 100 {
		t.Errorf("image ops = %+v", imgs)
	}
}

func TestAnchoredRectScales(t *testing.T) {
	tests := []struct {
		anchor         geom.Anchor
		x0, y0, x1, y1 float64
	}{
		{geom.AnchorLT, 100, 100, 300, 300},
		{geom.AnchorRB, 0, 0, 200, 200},
		{geom.AnchorCC, 50, 50, 250, 250},
		{geom.AnchorTC, 50, 100, 250, 300},
	}
	for _, tt := range tests {
		t.Run(string(tt.anchor), func(t *testing.T) {
			rec := drawDefault(t, geom.Identity(), 2, tt.anchor)
			p := rec.Filter(surface.KindFill)[0].Path
			if p[0].X != tt.x0 || p[0].Y != tt.y0 || p[2].X != tt.x1 || p[2].Y != tt.y1 {
				t.Errorf("rect = (%v,%v)-(%v,%v), want (%v,%v)-(%v,%v)",
					p[0].X, p[0].Y, p[2].X, p[2].Y, tt.x0, tt.y0, tt.x1, tt.y1)
			}
			// Only the anchored rect follows the ratio.
			if b := rec.Filter(surface.KindFill)[1].Path[0]; b.R != 40 {
				t.Errorf("badge radius = %v, want 40", b.R)
			}
		})
	}
}

func TestSceneUnderView(t *testing.T) {
	view := geom.NewMatrix(2, 0, 0, 2, 10, 20)
	rec := drawDefault(t, view, 1, geom.AnchorCC)
	rect := rec.Filter(surface.KindFill)[0].Path
	if rect[0].X != 210 || rect[0].Y != 220 {
		t.Errorf("rect origin = (%v,%v), want (210,220)", rect[0].X, rect[0].Y)
	}
	if lw := rec.Filter(surface.KindStroke)[1].LineWidth; lw != 6 {
		t.Errorf("badge stroke = %v, want 6", lw)
	}
	if b := rec.Filter(surface.KindFill)[1].Path[0]; b.X != 310 || b.Y != 320 || b.R != 80 {
		t.Errorf("badge = %+v, want centre (310,320) radius 80", b)
	}
	img := rec.Filter(surface.KindImage)[0]
	if img.X != 410 || img.Y != 220 || img.Matrix[0] != 2 || img.Matrix[3] != 2 {
		t.Errorf("avatar = %+v, want origin (410,220) at scale 2", img)
	}
	if rec.Transform() != geom.Identity() {
		t.Error("scene left a transform on the surface")
	}
}

func TestNilSurface(t *testing.T) {
	// Must not panic.
	Default(nil).Draw(nil, geom.Identity(), 1, geom.AnchorCC)
	var sc *Scene
	sc.Draw(surface.NewRecorder(1, 1), geom.Identity(), 1, geom.AnchorCC)
}

func TestLoadImage(t *testing.T) {
	dir := t.TempDir()

	small := filepath.Join(dir, "small.png")
	if err := imaging.Save(imaging.New(40, 20, color.White), small); err != nil {
		t.Fatal(err)
	}
	img, err := LoadImage(small)
	if err != nil {
		t.Fatalf("LoadImage() error: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 40 || b.Dy() != 20 {
		t.Errorf("bounds = %v", b)
	}

	big := filepath.Join(dir, "big.png")
	if err := imaging.Save(imaging.New(1024, 256, color.Black), big); err != nil {
		t.Fatal(err)
	}
	img, err = LoadImage(big)
	if err != nil {
		t.Fatalf("LoadImage() error: %v", err)
	}
	if b := img.Bounds(); b.Dx() != MaxImageSize || b.Dy() != 128 {
		t.Errorf("bounds = %v, want %dx128", b, MaxImageSize)
	}
}

func TestLoadImageErrors(t *testing.T) {
	dir := t.TempDir()
	_, err := LoadImage(filepath.Join(dir, "missing.png"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("missing file: got %v, want FILE_NOT_FOUND", err)
	}
}

func TestPlaceholder(t *testing.T) {
	p := Placeholder()
	if p.Bounds() != image.Rect(0, 0, 128, 128) {
		t.Errorf("bounds = %v", p.Bounds())
	}
	if Placeholder() != p {
		t.Error("Placeholder() not cached")
	}
}
