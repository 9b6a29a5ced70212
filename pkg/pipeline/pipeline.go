// Package pipeline turns frame options into encoded artifacts.
//
// It is the single path from "view snapshot + viewport" to PNG, SVG or JSON
// bytes, shared by the render command, the terminal export key and the HTTP
// frame endpoint, so every host produces identical output.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Width:   800,
//	    Height:  600,
//	    View:    holder.Snapshot(),
//	    Formats: []string{pipeline.FormatPNG},
//	})
//	png := result.Artifacts[pipeline.FormatPNG]
//
// Results are cached per format under a key derived from the options and the
// avatar file's size and modification time.
package pipeline

import (
	"encoding/json"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/infinicanvas/pkg/cache"
	"github.com/matzehuels/infinicanvas/pkg/errors"
	"github.com/matzehuels/infinicanvas/pkg/frame"
	"github.com/matzehuels/infinicanvas/pkg/view"
)

// Default frame size in pixels.
const (
	DefaultWidth  = 800
	DefaultHeight = 600
)

// Format constants for output formats.
const (
	FormatPNG  = "png"
	FormatSVG  = "svg"
	FormatJSON = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatPNG:  true,
	FormatSVG:  true,
	FormatJSON: true,
}

// Options describes one frame.
type Options struct {
	Width   int           `json:"width,omitempty"`
	Height  int           `json:"height,omitempty"`
	View    view.Snapshot `json:"view"`
	Formats []string      `json:"formats,omitempty"`
	Overlay bool          `json:"overlay,omitempty"`
	// Avatar is an image file drawn in place of the placeholder.
	Avatar string `json:"avatar,omitempty"`
	// EmbedFont embeds the label font in SVG output.
	EmbedFont bool `json:"embed_font,omitempty"`
	// Refresh bypasses cache reads; results are still written.
	Refresh bool `json:"refresh,omitempty"`

	// Frame overrides the frame appearance. Overlay above wins over
	// Frame.Overlay.
	Frame *frame.Options `json:"-"`

	Logger *log.Logger `json:"-"`

	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// View is the normalized snapshot that was rendered.
	View view.Snapshot

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains run timing.
type Stats struct {
	RenderTime time.Duration
}

// CacheInfo reports cache use.
type CacheInfo struct {
	RenderHit bool // every artifact came from the cache
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: png, svg, json)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateAndSetDefaults checks the options and fills defaults. It is
// idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if err := errors.ValidateDimensions(o.Width, o.Height); err != nil {
		return err
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatPNG}
	}
	o.Formats = dedupe(o.Formats)
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	st := o.View.State
	if err := errors.ValidateFinite("view", st.Scale, st.OffsetX, st.OffsetY, o.View.Ratio); err != nil {
		return err
	}
	if o.View.Anchor != "" && !o.View.Anchor.Valid() {
		return errors.New(errors.ErrCodeInvalidAnchor, "invalid anchor: %q", o.View.Anchor)
	}
	o.View = o.View.Normalized()
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// frameOptions returns the effective frame appearance.
func (o *Options) frameOptions() frame.Options {
	fo := frame.DefaultOptions()
	if o.Frame != nil {
		fo = *o.Frame
	}
	fo.Overlay = o.Overlay || fo.Overlay
	return fo
}

// styleFingerprint hashes the appearance settings that are not part of the
// view, so configuration changes invalidate cached frames.
func (o *Options) styleFingerprint() string {
	if o.Frame == nil {
		return ""
	}
	data, err := json.Marshal(o.Frame)
	if err != nil {
		return ""
	}
	return cache.Hash(data)
}

// FrameKeyOpts returns cache key options for one format.
func (o *Options) FrameKeyOpts(format, avatar string) cache.FrameKeyOpts {
	st := o.View.State
	return cache.FrameKeyOpts{
		Format:  format,
		Width:   o.Width,
		Height:  o.Height,
		Scale:   st.Scale,
		OffsetX: st.OffsetX,
		OffsetY: st.OffsetY,
		Ratio:   o.View.Ratio,
		Anchor:  string(o.View.Anchor),
		Overlay: o.frameOptions().Overlay,
		Avatar:  avatar,
		Style:   o.styleFingerprint(),
		// Only SVG output depends on font embedding.
		EmbedFont: o.EmbedFont && format == FormatSVG,
	}
}

func dedupe(formats []string) []string {
	seen := make(map[string]bool, len(formats))
	out := formats[:0:0]
	for _, f := range formats {
		if !seen[f] {
			seen[f] = true
			out = append(out, f)
		}
	}
	return out
}
