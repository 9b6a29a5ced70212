// Package fonts provides the font used for ruler labels.
//
// The Go Regular typeface ships inside golang.org/x/image, so every backend
// renders the same glyphs without depending on system fonts.
package fonts

import (
	"encoding/base64"
	"sync"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
)

// FontFamily is the CSS font-family name used when the font is embedded in SVG.
const FontFamily = "Go"

// FallbackFontFamily lists fallbacks for SVG viewers that ignore @font-face.
const FallbackFontFamily = `'Go', 'Helvetica Neue', Arial, sans-serif`

// DefaultSize is the ruler label size in pixels.
const DefaultSize = 12

// RegularTTF returns the raw TrueType data.
func RegularTTF() []byte {
	return goregular.TTF
}

var (
	parsed     *truetype.Font
	parseErr   error
	parsedOnce sync.Once

	ttfBase64     string
	ttfBase64Once sync.Once

	facesMu sync.Mutex
	faces   = map[float64]font.Face{}
)

// Regular returns the parsed Go Regular font.
func Regular() (*truetype.Font, error) {
	parsedOnce.Do(func() {
		parsed, parseErr = truetype.Parse(goregular.TTF)
	})
	return parsed, parseErr
}

// Face returns a face of the given pixel size. Faces are cached per size and
// shared, so callers must not use one face from several goroutines at once.
func Face(size float64) (font.Face, error) {
	f, err := Regular()
	if err != nil {
		return nil, err
	}
	facesMu.Lock()
	defer facesMu.Unlock()
	if face, ok := faces[size]; ok {
		return face, nil
	}
	face := truetype.NewFace(f, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	faces[size] = face
	return face, nil
}

// NewFace returns an uncached face, for renderers running concurrently.
func NewFace(size float64) (font.Face, error) {
	f, err := Regular()
	if err != nil {
		return nil, err
	}
	return truetype.NewFace(f, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	}), nil
}

// RegularTTFBase64 returns the TTF data base64-encoded for data URIs.
// The result is cached after first computation.
func RegularTTFBase64() string {
	ttfBase64Once.Do(func() {
		ttfBase64 = base64.StdEncoding.EncodeToString(goregular.TTF)
	})
	return ttfBase64
}
