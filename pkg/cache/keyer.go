package cache

// FrameKeyOpts identifies one rendered artifact.
type FrameKeyOpts struct {
	Format  string  `json:"format"`
	Width   int     `json:"width"`
	Height  int     `json:"height"`
	Scale   float64 `json:"scale"`
	OffsetX float64 `json:"offset_x"`
	OffsetY float64 `json:"offset_y"`
	Ratio   float64 `json:"ratio"`
	Anchor  string  `json:"anchor"`
	Overlay bool    `json:"overlay"`
	// EmbedFont marks SVG documents that carry the label font.
	EmbedFont bool `json:"embed_font,omitempty"`
	// Avatar fingerprints the avatar image (path, size, mtime), empty for
	// the placeholder.
	Avatar string `json:"avatar,omitempty"`
	// Style fingerprints frame appearance settings from configuration.
	Style string `json:"style,omitempty"`
}

// Keyer builds cache keys.
type Keyer interface {
	// FrameKey returns the key of a rendered artifact.
	FrameKey(opts FrameKeyOpts) string
	// SessionKey returns the key of a view session.
	SessionKey(id string) string
}

// DefaultKeyer produces unscoped keys of the form "frame:<sha256>" and
// "session:<id>".
type DefaultKeyer struct{}

// NewDefaultKeyer creates the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

func (DefaultKeyer) FrameKey(opts FrameKeyOpts) string {
	return hashKey("frame", opts)
}

func (DefaultKeyer) SessionKey(id string) string {
	return "session:" + id
}
