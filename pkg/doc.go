// Package pkg provides the libraries behind infinicanvas, a pannable and
// zoomable 2D canvas.
//
// # Overview
//
// The pkg directory is organized into four areas:
//
//  1. Model: [geom] (matrices, anchors, uniform scaling) and [view] (view
//     state and the holder that applies wheel, pointer, ratio and anchor
//     input)
//  2. Drawing: [surface] (raster, SVG and recording backends), [frame]
//     (grid, rulers and overlay) and [scene] (the anchored shapes)
//  3. Orchestration: [pipeline] (options to cached PNG, SVG or JSON
//     artifacts) and [io] (view snapshot files)
//  4. Hosting: [session], [server] and [client] (canvas sessions over HTTP),
//     backed by [cache], [config], [observability], [errors] and [httputil]
//
// # Architecture
//
// A frame flows through:
//
//	input events
//	     ↓
//	[view] Holder (state, ratio, anchor)
//	     ↓
//	[frame] Renderer + [scene]
//	     ↓
//	[surface] Raster / SVG / Recorder
//	     ↓
//	PNG / SVG / JSON
//
// # Quick Start
//
// Zoom in at a point and render the result:
//
//	h := view.NewHolder(view.NewState(0, 0))
//	h.Zoom(view.WheelEvent{X: 400, Y: 300, DeltaY: -1})
//	h.SetAnchor(geom.AnchorLT)
//	h.SetRatio(2)
//
//	runner := pipeline.NewRunner(nil, nil, nil)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    View:    h.Snapshot(),
//	    Formats: []string{pipeline.FormatPNG},
//	})
//
// # Sub-packages
//
//   - [geom]: affine matrices and the nine anchors
//   - [view]: view state, zoom and pan math, the input holder
//   - [surface]: drawing backends and colour parsing
//   - [frame]: one full frame: background, grid, scene, rulers, overlay
//   - [scene]: the default scene and its placeholder image
//   - [fonts]: the embedded label font
//   - [pipeline]: rendering with caching
//   - [io]: view snapshot import and export
//   - [cache]: file, Redis and null caches
//   - [session]: canvas sessions and their stores
//   - [server]: HTTP host for sessions
//   - [client]: HTTP client for the server
//   - [config]: TOML configuration
//   - [observability]: hooks for render, cache and server events
//   - [errors]: coded errors and input validation
//   - [httputil]: JSON responses and retries
//   - [buildinfo]: version information
//
// [geom]: https://pkg.go.dev/github.com/matzehuels/infinicanvas/pkg/geom
// [view]: https://pkg.go.dev/github.com/matzehuels/infinicanvas/pkg/view
// [surface]: https://pkg.go.dev/github.com/matzehuels/infinicanvas/pkg/surface
// [frame]: https://pkg.go.dev/github.com/matzehuels/infinicanvas/pkg/frame
// [scene]: https://pkg.go.dev/github.com/matzehuels/infinicanvas/pkg/scene
// [fonts]: https://pkg.go.dev/github.com/matzehuels/infinicanvas/pkg/fonts
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/infinicanvas/pkg/pipeline
// [io]: https://pkg.go.dev/github.com/matzehuels/infinicanvas/pkg/io
// [cache]: https://pkg.go.dev/github.com/matzehuels/infinicanvas/pkg/cache
// [session]: https://pkg.go.dev/github.com/matzehuels/infinicanvas/pkg/session
// [server]: https://pkg.go.dev/github.com/matzehuels/infinicanvas/pkg/server
// [client]: https://pkg.go.dev/github.com/matzehuels/infinicanvas/pkg/client
// [config]: https://pkg.go.dev/github.com/matzehuels/infinicanvas/pkg/config
// [observability]: https://pkg.go.dev/github.com/matzehuels/infinicanvas/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/infinicanvas/pkg/errors
// [httputil]: https://pkg.go.dev/github.com/matzehuels/infinicanvas/pkg/httputil
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/infinicanvas/pkg/buildinfo
package pkg
