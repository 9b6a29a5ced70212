// Package surface provides drawing surfaces with a 2D-canvas-like API.
//
// A [Surface] keeps a current transform, a save/restore stack and a path
// under construction, the way an HTML canvas context does. Path coordinates
// and line widths are user units: they pass through the current transform
// when they are added, so a line width of 1/scale under a view of scale s is
// one device pixel wide.
//
// Three implementations share that state machine:
//
//   - [Raster] draws into an RGBA image using fogleman/gg and encodes PNG.
//   - [SVG] writes a standalone SVG document.
//   - [Recorder] keeps a JSON display list of device-space operations.
//
// Circles assume similarity transforms (uniform scale and translation), which
// is all the canvas renderer produces.
package surface
