// Package geom provides the 2D affine geometry used to place things on the
// canvas.
//
// # Matrices
//
// [Matrix] follows the HTML canvas setTransform convention: the six values
// [a b c d e f] map a point as
//
//	x' = a*x + c*y + e
//	y' = b*x + d*y + f
//
// which is the 3×3 homogeneous matrix
//
//	| a  c  e |
//	| b  d  f |
//	| 0  0  1 |
//
// [Matrix.Multiply] composes in mathematical order: m.Multiply(n) applies n
// first, then m. The view transform of a frame is therefore
//
//	view := geom.Translate(offsetX, offsetY).Multiply(geom.Scale(scale, scale))
//
// # Anchors
//
// An [Anchor] names one of nine reference points of a bounding box (corners,
// edge midpoints, center). [UniformScale] builds the matrix that scales a
// shape uniformly while keeping its anchor point fixed:
//
//	translate(anchor) · scale(ratio) · translate(-anchor)
package geom
