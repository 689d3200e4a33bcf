// Package filter implements the post-processing chain applied to a copy of
// the canvas before it is encoded for export.
//
// A Chain holds four stages in a fixed order:
//
//	identity -> blur -> grayscale -> invert
//
// Identity always runs and copies the source into a working buffer, so the
// live canvas is never touched by an export. The remaining stages run only
// when enabled and are skipped entirely otherwise. The order is part of the
// contract: blur followed by invert does not produce the same bytes as
// invert followed by blur.
//
// All stages operate on straight-alpha RGBA pixmaps and preserve alpha,
// except blur, which averages alpha together with color.
package filter
