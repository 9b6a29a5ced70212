package scene

import (
	"image"
	"image/color"

	"github.com/matzehuels/infinicanvas/pkg/geom"
)

// Names of the default shapes.
const (
	NameRect   = "rect"
	NameBadge  = "badge"
	NameAvatar = "avatar"
)

var (
	rectFill   = color.NRGBA{R: 0x4a, G: 0x90, B: 0xe2, A: 0xff}
	rectStroke = color.NRGBA{R: 0x1f, G: 0x3a, B: 0x5f, A: 0xff}
	badgeFill  = color.NRGBA{R: 0xff, A: 0xff}
)

// Default builds the standard scene: an anchored 100x100 rectangle at
// (100,100), a red badge with a black outline in a 100x100 box at (100,100),
// and the avatar stretched to 100x100 at (200,100). A nil avatar uses
// Placeholder.
func Default(avatar image.Image) *Scene {
	if avatar == nil {
		avatar = Placeholder()
	}
	box := geom.Rect{W: 100, H: 100}
	return &Scene{Shapes: []Shape{
		{
			Name:        NameRect,
			Kind:        KindRect,
			Position:    geom.Pt(100, 100),
			Bounds:      box,
			Fill:        rectFill,
			Stroke:      rectStroke,
			StrokeWidth: 2,
			Anchored:    true,
		},
		{
			Name:        NameBadge,
			Kind:        KindCircle,
			Position:    geom.Pt(100, 100),
			Bounds:      box,
			Radius:      40,
			Fill:        badgeFill,
			Stroke:      color.Black,
			StrokeWidth: 3,
		},
		{
			Name:     NameAvatar,
			Kind:     KindImage,
			Position: geom.Pt(200, 100),
			Bounds:   box,
			Image:    avatar,
		},
	}}
}
