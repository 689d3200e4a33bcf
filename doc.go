// Package sketch provides the pixel model shared by the drawing surface:
// a straight-alpha RGBA pixmap, colors, tool modes and pointer positions.
//
// # Overview
//
// The surface is split into small packages that each own one piece of
// mutable state:
//
//   - [github.com/gogpu/sketch/history]: snapshot based undo/redo
//   - [github.com/gogpu/sketch/filter]: the post-processing chain run before a PNG export
//   - [github.com/gogpu/sketch/export]: format selection and encoding
//   - [github.com/gogpu/sketch/command]: uniform invocable units bound to the above
//   - [github.com/gogpu/sketch/canvas]: live canvas state and pointer handling
//   - [github.com/gogpu/sketch/app]: constructs one of each and wires them
//
// # Quick Start
//
//	a, err := app.New(config.Default())
//	if err != nil {
//	    return err
//	}
//	_ = a.Commands.Commit.Execute(ctx)
//	a.Filters.SetEnabled(filter.Grayscale, true)
//	res, err := a.Export.Run(ctx, export.NewRequest(export.PNG, a.Filters.Settings()))
//
// # Coordinate System
//
// Uses standard canvas coordinates:
//   - Origin (0,0) at top-left
//   - X increases right
//   - Y increases down
//
// # Logging
//
// The library is silent by default. Call [SetLogger] to route diagnostics
// to a [log/slog] handler.
package sketch
