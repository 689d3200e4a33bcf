// Package canvas holds the live drawing surface and routes pointer input
// to the active tool.
//
// A Canvas owns the pixel buffer, the current drawing color and the current
// tool Mode. It is the restore target of a history engine and the source of
// an export pipeline.
//
// Pointer input goes through a Handler. Which Handler is used is decided by
// a single configuration value (see ParsePlatform):
//
//   - "standard" dispatches to the tool for the canvas mode and commits a
//     snapshot when a stroke or shape ends
//   - "legacy" ignores all input
//
// Stroke rasterization is not done here. Pen and eraser segments are handed
// to a Painter.
package canvas
