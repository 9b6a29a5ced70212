package pipeline

import (
	"encoding/json"
	"fmt"
	"image"

	"github.com/matzehuels/infinicanvas/pkg/frame"
	"github.com/matzehuels/infinicanvas/pkg/scene"
	"github.com/matzehuels/infinicanvas/pkg/surface"
	"github.com/matzehuels/infinicanvas/pkg/view"
)

// FrameJSON is the JSON artifact: the rendered view plus the frame's
// display list.
type FrameJSON struct {
	View    view.Snapshot   `json:"view"`
	Zoom    string          `json:"zoom"`
	Display surface.Display `json:"display"`
}

// Render draws the frame once per requested format. opts must already be
// validated. A nil avatar uses the placeholder image.
func Render(opts Options, avatar image.Image) (map[string][]byte, error) {
	r := frame.New(scene.Default(avatar), opts.frameOptions())
	artifacts := make(map[string][]byte, len(opts.Formats))

	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatPNG:
			sf := surface.NewRaster(opts.Width, opts.Height)
			r.Render(sf, opts.View)
			data, err = sf.PNG()
		case FormatSVG:
			var svgOpts []surface.SVGOption
			if opts.EmbedFont {
				svgOpts = append(svgOpts, surface.WithEmbeddedFont())
			}
			sf := surface.NewSVG(opts.Width, opts.Height, svgOpts...)
			r.Render(sf, opts.View)
			data = sf.Bytes()
		case FormatJSON:
			sf := surface.NewRecorder(opts.Width, opts.Height)
			r.Render(sf, opts.View)
			data, err = json.MarshalIndent(FrameJSON{
				View:    opts.View,
				Zoom:    opts.View.State.ZoomIndicator(),
				Display: sf.Display(),
			}, "", "  ")
		default:
			return nil, fmt.Errorf("unsupported format: %s", format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}

	return artifacts, nil
}

// RenderImage draws the frame into a raster and returns the image, for hosts
// that display pixels directly.
func RenderImage(opts Options, avatar image.Image) image.Image {
	sf := surface.NewRaster(opts.Width, opts.Height)
	frame.New(scene.Default(avatar), opts.frameOptions()).Render(sf, opts.View)
	return sf.Image()
}
