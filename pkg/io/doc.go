// Package io provides JSON import and export of canvas view snapshots.
//
// # Overview
//
// A snapshot file records where the user was looking: zoom, pan offset,
// display ratio and anchor. It lets the terminal view save its position
// (the "w" key), and the render command reproduce it (--state):
//
//	{
//	  "version": 1,
//	  "view": {"scale": 1.25, "offset_x": -40, "offset_y": 12},
//	  "ratio": 2,
//	  "anchor": "LT"
//	}
//
// # Fields
//
//   - version: format version, currently 1 (0 or missing is read as 1)
//   - view.scale: zoom factor, clamped to [0.1, 5] on import
//   - view.offset_x, view.offset_y: pan offset in screen pixels
//   - ratio: display ratio, clamped to [0.1, 5] and snapped to 0.1
//   - anchor: one of LT RT RB LB TC BC LC RC CC, case-insensitive, or a
//     label such as "top-left"
//
// A drag in progress is not exported; importing always yields an idle
// holder.
//
// # Import
//
// Use [ImportJSON] to read a snapshot from a file path, or [ReadJSON] to
// read from any io.Reader. Malformed JSON, non-finite numbers and unknown
// anchors are errors; out-of-range values are clamped silently.
//
// # Export
//
// Use [ExportJSON] to write a snapshot to a file, or [WriteJSON] to write to
// any io.Writer.
package io
