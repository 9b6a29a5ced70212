package pipeline

import (
	"context"
	"fmt"
	"image"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/infinicanvas/pkg/cache"
	"github.com/matzehuels/infinicanvas/pkg/observability"
)

// Runner renders frames with caching.
//
// A Runner may be shared by goroutines: it keeps only the cache, the keyer,
// the logger and decoded avatars keyed by file fingerprint.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	mu      sync.Mutex
	avatars map[string]image.Image
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:   c,
		Keyer:   keyer,
		Logger:  logger,
		avatars: make(map[string]image.Image),
	}
}

// Execute renders every requested format, serving from the cache when all
// of them are present.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	result, err := r.RenderWithCacheInfo(ctx, opts)
	if err != nil {
		return nil, err
	}
	r.Logger.Debug("rendered frame",
		"formats", opts.Formats,
		"zoom", result.View.State.ZoomIndicator(),
		"cached", result.CacheInfo.RenderHit,
		"duration", result.Stats.RenderTime)
	return result, nil
}

// RenderWithCacheInfo renders the frame and reports whether the cache served
// it.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	fingerprint, err := avatarFingerprint(opts.Avatar)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	result := &Result{View: opts.View, Artifacts: make(map[string][]byte)}

	if !opts.Refresh {
		allCached := true
		for _, format := range opts.Formats {
			key := r.Keyer.FrameKey(opts.FrameKeyOpts(format, fingerprint))
			data, hit, err := r.Cache.Get(ctx, key)
			if err != nil {
				r.Logger.Warn("cache read failed", "err", err)
			}
			if err != nil || !hit {
				observability.Cache().OnCacheMiss(ctx, "frame")
				allCached = false
				break
			}
			observability.Cache().OnCacheHit(ctx, "frame")
			result.Artifacts[format] = data
		}
		if allCached {
			result.CacheInfo.RenderHit = true
			result.Stats.RenderTime = time.Since(start)
			return result, nil
		}
	}

	avatar, err := r.avatar(opts.Avatar, fingerprint)
	if err != nil {
		return nil, err
	}

	observability.Render().OnRenderStart(ctx, opts.Formats)
	artifacts, err := Render(opts, avatar)
	result.Stats.RenderTime = time.Since(start)
	observability.Render().OnRenderComplete(ctx, opts.Formats, result.Stats.RenderTime, err)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts

	for format, data := range artifacts {
		key := r.Keyer.FrameKey(opts.FrameKeyOpts(format, fingerprint))
		if err := r.Cache.Set(ctx, key, data, cache.TTLFrame); err != nil {
			r.Logger.Warn("cache write failed", "format", format, "err", err)
			continue
		}
		observability.Cache().OnCacheSet(ctx, "frame", len(data))
	}

	return result, nil
}

// Render is a convenience wrapper that discards the cache hit info.
func (r *Runner) Render(ctx context.Context, opts Options) (map[string][]byte, error) {
	result, err := r.RenderWithCacheInfo(ctx, opts)
	if err != nil {
		return nil, err
	}
	return result.Artifacts, nil
}

// avatar returns the decoded avatar for path, loading it at most once per
// fingerprint.
func (r *Runner) avatar(path, fingerprint string) (image.Image, error) {
	if path == "" {
		return nil, nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.avatars == nil {
		r.avatars = make(map[string]image.Image)
	}
	if img, ok := r.avatars[fingerprint]; ok {
		return img, nil
	}
	img, err := LoadAvatar(path)
	if err != nil {
		return nil, err
	}
	r.avatars[fingerprint] = img
	return img, nil
}

// Avatar loads the avatar for hosts that render without the cache, such as
// the terminal view.
func (r *Runner) Avatar(path string) (image.Image, error) {
	fingerprint, err := avatarFingerprint(path)
	if err != nil {
		return nil, err
	}
	return r.avatar(path, fingerprint)
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
