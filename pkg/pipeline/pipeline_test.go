package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"image/color"
	"image/png"
	"path/filepath"
	"strings"
	"testing"

	"github.com/disintegration/imaging"

	"github.com/matzehuels/infinicanvas/pkg/cache"
	"github.com/matzehuels/infinicanvas/pkg/errors"
	"github.com/matzehuels/infinicanvas/pkg/frame"
	"github.com/matzehuels/infinicanvas/pkg/geom"
	"github.com/matzehuels/infinicanvas/pkg/view"
)

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"svg", false},
		{"png", false},
		{"json", false},
		{"pdf", true},
		{"PNG", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
		if err != nil && !errors.Is(err, errors.ErrCodeInvalidFormat) {
			t.Errorf("ValidateFormat(%q) code = %s", tt.format, errors.GetCode(err))
		}
	}
}

func TestValidateFormats(t *testing.T) {
	if err := ValidateFormats([]string{"svg", "png"}); err != nil {
		t.Errorf("Valid formats should pass: %v", err)
	}
	if err := ValidateFormats([]string{"svg", "invalid"}); err == nil {
		t.Error("Invalid format should fail")
	}
	if err := ValidateFormats(nil); err != nil {
		t.Errorf("Empty formats should pass: %v", err)
	}
}

func TestValidateAndSetDefaults(t *testing.T) {
	var o Options
	if err := o.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("zero options: %v", err)
	}
	if o.Width != DefaultWidth || o.Height != DefaultHeight {
		t.Errorf("size = %dx%d", o.Width, o.Height)
	}
	if len(o.Formats) != 1 || o.Formats[0] != FormatPNG {
		t.Errorf("formats = %v", o.Formats)
	}
	if o.View.State.Scale != 1 || o.View.Ratio != 1 || o.View.Anchor != geom.AnchorCC {
		t.Errorf("view = %+v", o.View)
	}

	o = Options{Formats: []string{"png", "svg", "png"}, View: view.Snapshot{State: view.State{Scale: 50}, Ratio: 7}}
	if err := o.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	if len(o.Formats) != 2 {
		t.Errorf("formats not deduplicated: %v", o.Formats)
	}
	if o.View.State.Scale != view.MaxScale || o.View.Ratio != view.MaxRatio {
		t.Errorf("view not clamped: %+v", o.View)
	}
}

func TestValidateAndSetDefaultsErrors(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		code errors.Code
	}{
		{"negative width", Options{Width: -1, Height: 10}, errors.ErrCodeInvalidInput},
		{"huge", Options{Width: 100000, Height: 10}, errors.ErrCodeInvalidInput},
		{"format", Options{Formats: []string{"gif"}}, errors.ErrCodeInvalidFormat},
		{"anchor", Options{View: view.Snapshot{Anchor: "XX"}}, errors.ErrCodeInvalidAnchor},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			if !errors.Is(err, tt.code) {
				t.Errorf("error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestRenderFormats(t *testing.T) {
	opts := Options{Width: 120, Height: 90, Formats: []string{FormatPNG, FormatSVG, FormatJSON}, Overlay: true}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	artifacts, err := Render(opts, nil)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}

	img, err := png.Decode(bytes.NewReader(artifacts[FormatPNG]))
	if err != nil {
		t.Fatalf("decode png: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 120 || b.Dy() != 90 {
		t.Errorf("png bounds = %v", b)
	}

	if svg := string(artifacts[FormatSVG]); !strings.HasPrefix(svg, "<svg") || !strings.Contains(svg, "Zoom: 100%") {
		t.Errorf("svg = %.200s", svg)
	}

	var fj FrameJSON
	if err := json.Unmarshal(artifacts[FormatJSON], &fj); err != nil {
		t.Fatalf("decode json: %v", err)
	}
	if fj.Zoom != "100%" || fj.Display.Width != 120 || len(fj.Display.Ops) == 0 {
		t.Errorf("json = %+v", fj)
	}
}

func TestRunnerCaches(t *testing.T) {
	ctx := context.Background()
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	r := NewRunner(fc, nil, nil)
	defer r.Close()

	opts := Options{Width: 64, Height: 48, Formats: []string{FormatSVG}}
	first, err := r.RenderWithCacheInfo(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}
	if first.CacheInfo.RenderHit {
		t.Error("first render reported a cache hit")
	}

	second, err := r.RenderWithCacheInfo(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}
	if !second.CacheInfo.RenderHit {
		t.Error("second render missed the cache")
	}
	if !bytes.Equal(first.Artifacts[FormatSVG], second.Artifacts[FormatSVG]) {
		t.Error("cached artifact differs")
	}

	// A different view is a different frame.
	opts.View = view.Snapshot{State: view.State{Scale: 2}}
	third, err := r.RenderWithCacheInfo(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}
	if third.CacheInfo.RenderHit {
		t.Error("changed view hit the cache")
	}

	// Refresh skips reads.
	opts.Refresh = true
	fourth, _ := r.RenderWithCacheInfo(ctx, opts)
	if fourth.CacheInfo.RenderHit {
		t.Error("refresh hit the cache")
	}
}

func TestRunnerStyleInvalidatesCache(t *testing.T) {
	ctx := context.Background()
	fc, _ := cache.NewFileCache(t.TempDir())
	r := NewRunner(fc, nil, nil)

	opts := Options{Width: 32, Height: 32, Formats: []string{FormatJSON}}
	if _, err := r.Execute(ctx, opts); err != nil {
		t.Fatal(err)
	}
	fo := frame.DefaultOptions()
	fo.GridStep = 50
	opts.Frame = &fo
	res, err := r.RenderWithCacheInfo(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}
	if res.CacheInfo.RenderHit {
		t.Error("changed frame options hit the cache")
	}
}

func TestRunnerEmbedFontInvalidatesSVGCache(t *testing.T) {
	ctx := context.Background()
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	r := NewRunner(fc, nil, nil)
	defer r.Close()

	plain := Options{Width: 64, Height: 48, Formats: []string{FormatSVG, FormatPNG}}
	if _, err := r.Execute(ctx, plain); err != nil {
		t.Fatal(err)
	}

	embedded := Options{Width: 64, Height: 48, Formats: []string{FormatSVG}, EmbedFont: true}
	res, err := r.RenderWithCacheInfo(ctx, embedded)
	if err != nil {
		t.Fatal(err)
	}
	if res.CacheInfo.RenderHit {
		t.Error("embedded-font SVG was served from the plain SVG entry")
	}
	if !bytes.Contains(res.Artifacts[FormatSVG], []byte("@font-face")) {
		t.Error("embedded-font SVG has no @font-face")
	}

	// PNG output does not depend on font embedding.
	pngOnly := Options{Width: 64, Height: 48, Formats: []string{FormatPNG}, EmbedFont: true}
	res, err = r.RenderWithCacheInfo(ctx, pngOnly)
	if err != nil {
		t.Fatal(err)
	}
	if !res.CacheInfo.RenderHit {
		t.Error("PNG with embed-font missed the cache")
	}
}

func TestRunnerAvatar(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	path := filepath.Join(dir, "avatar.png")
	if err := imaging.Save(imaging.New(16, 16, color.NRGBA{G: 255, A: 255}), path); err != nil {
		t.Fatal(err)
	}

	r := NewRunner(nil, nil, nil)
	res, err := r.Execute(ctx, Options{Width: 400, Height: 300, Avatar: path})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(res.Artifacts[FormatPNG]))
	if err != nil {
		t.Fatal(err)
	}
	// The avatar covers (200,100)-(300,200) at the default view.
	c := color.NRGBAModel.Convert(img.At(250, 150)).(color.NRGBA)
	if c.G < 200 || c.R > 50 {
		t.Errorf("avatar pixel = %+v, want green", c)
	}

	_, err = r.Execute(ctx, Options{Avatar: filepath.Join(dir, "missing.png")})
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("missing avatar error = %v", err)
	}
}

func TestRenderImage(t *testing.T) {
	opts := Options{Width: 50, Height: 40}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	img := RenderImage(opts, nil)
	if b := img.Bounds(); b.Dx() != 50 || b.Dy() != 40 {
		t.Errorf("bounds = %v", b)
	}
}
