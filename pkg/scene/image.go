package scene

import (
	"image"
	"image/color"
	"os"
	"sync"

	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"

	"github.com/matzehuels/infinicanvas/pkg/errors"
)

// MaxImageSize bounds the larger side of loaded images.
const MaxImageSize = 512

// LoadImage decodes an image file, honouring EXIF orientation, and shrinks
// it to fit MaxImageSize.
func LoadImage(path string) (image.Image, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New(errors.ErrCodeFileNotFound, "image not found: %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "stat %s", path)
	}
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode %s", path)
	}
	b := img.Bounds()
	if b.Dx() > MaxImageSize || b.Dy() > MaxImageSize {
		img = imaging.Fit(img, MaxImageSize, MaxImageSize, imaging.Lanczos)
	}
	return img, nil
}

var (
	placeholder     image.Image
	placeholderOnce sync.Once
)

// Placeholder returns a generated avatar: a head and shoulders silhouette on
// a light blue tile.
func Placeholder() image.Image {
	placeholderOnce.Do(func() {
		const size = 128
		dc := gg.NewContext(size, size)
		dc.SetColor(color.NRGBA{R: 0xbb, G: 0xde, B: 0xfb, A: 0xff})
		dc.Clear()
		dc.SetColor(color.NRGBA{R: 0x42, G: 0x65, B: 0x8c, A: 0xff})
		dc.DrawCircle(size/2, size*0.4, size*0.2)
		dc.Fill()
		dc.DrawEllipse(size/2, size*1.02, size*0.38, size*0.36)
		dc.Fill()
		placeholder = dc.Image()
	})
	return placeholder
}
