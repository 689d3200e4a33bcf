package app

import (
	"bytes"
	"context"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/sketch"
	"github.com/gogpu/sketch/canvas"
	"github.com/gogpu/sketch/export"
	"github.com/gogpu/sketch/filter"
	"github.com/gogpu/sketch/history"
	"github.com/gogpu/sketch/internal/config"
)

type memorySink struct {
	results []*export.Result
}

func (s *memorySink) Save(_ context.Context, res *export.Result) error {
	s.results = append(s.results, res)
	return nil
}

// dotPainter marks the end point of every stroke.
var dotPainter = canvas.PainterFunc(func(pm *sketch.Pixmap, s canvas.Stroke) {
	x, y := s.To.Pixel()
	if s.Erase {
		pm.SetPixel(x, y, sketch.Transparent)
		return
	}
	pm.SetPixel(x, y, s.Color)
})

func smallConfig() *config.Config {
	cfg := config.Default()
	cfg.Canvas.Width, cfg.Canvas.Height = 16, 16
	return cfg
}

func newApp(t *testing.T, cfg *config.Config, opts ...Option) *App {
	t.Helper()
	a, err := New(cfg, opts...)
	require.NoError(t, err)
	t.Cleanup(a.Close)
	return a
}

func TestNewDefaults(t *testing.T) {
	a := newApp(t, nil)

	assert.Equal(t, 800, a.Canvas.Width())
	assert.Equal(t, 600, a.Canvas.Height())
	assert.Equal(t, sketch.White, a.Canvas.Pixmap().GetPixel(0, 0))
	assert.Equal(t, -1, a.History.Cursor())
	assert.Equal(t, filter.Set(0), a.Filters.Settings())
	assert.Equal(t, export.Idle, a.Export.State())
	assert.Equal(t, []export.Format{export.PNG, export.JPG, export.WebP}, a.Export.Registry().Formats())
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := smallConfig()
	cfg.Canvas.Platform = "chrome"
	_, err := New(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "canvas.platform")
}

func TestNewAppliesConfig(t *testing.T) {
	cfg := smallConfig()
	cfg.Filters.Enabled = []string{"grayscale"}
	cfg.History.Limit = 2
	cfg.Export.Basename = "drawing"

	sink := &memorySink{}
	a := newApp(t, cfg, WithSink(sink))
	ctx := context.Background()

	assert.True(t, a.Filters.Enabled(filter.Grayscale))

	for range 4 {
		require.NoError(t, a.Commands.Commit.Execute(ctx))
	}
	assert.Equal(t, 2, a.History.Len())
	assert.Equal(t, int64(4), a.Commands.CommitCount.Count())

	require.NoError(t, a.Save(export.PNG).Execute(ctx))
	require.Len(t, sink.results, 1)
	assert.Equal(t, "drawing.png", sink.results[0].Filename)
	assert.Equal(t, filter.NewSet(filter.Grayscale), sink.results[0].Filters)
}

func TestDrawUndoRedo(t *testing.T) {
	var statuses []history.Status
	a := newApp(t, smallConfig(),
		WithPainter(dotPainter),
		WithObserver(func(s history.Status) { statuses = append(statuses, s) }))
	ctx := context.Background()

	require.NoError(t, a.Start(ctx))
	blank := a.Canvas.Pixmap().Clone()

	require.NoError(t, a.SelectMode(sketch.ModePen).Execute(ctx))
	a.Canvas.SetColor(sketch.Red)
	require.NoError(t, a.Handler.PointerDown(ctx, sketch.Pt(2, 2)))
	require.NoError(t, a.Handler.PointerMove(ctx, sketch.Pt(3, 3)))
	require.NoError(t, a.Handler.PointerUp(ctx, sketch.Pt(3, 3)))

	assert.Equal(t, sketch.Red, a.Canvas.Pixmap().GetPixel(3, 3))
	assert.Equal(t, history.Status{Cursor: 1, Len: 2, CanUndo: true}, a.History.Status())

	require.NoError(t, a.Commands.Undo.Execute(ctx))
	assert.True(t, a.Canvas.Pixmap().Equal(blank))
	assert.Equal(t, history.Status{Cursor: 0, Len: 2, CanRedo: true}, a.History.Status())

	require.NoError(t, a.Commands.Redo.Execute(ctx))
	assert.Equal(t, sketch.Red, a.Canvas.Pixmap().GetPixel(3, 3))

	require.Len(t, statuses, 4)
	assert.Equal(t, 1, statuses[len(statuses)-1].Cursor)
	assert.Equal(t, int64(1), a.Commands.UndoCount.Count())
	assert.Equal(t, int64(1), a.Commands.RedoCount.Count())
}

func TestExportFilters(t *testing.T) {
	sink := &memorySink{}
	var completed int
	a := newApp(t, smallConfig(), WithSink(sink), WithExportCompletion(func(res *export.Result, err error) {
		completed++
	}))
	ctx := context.Background()

	require.NoError(t, a.ToggleFilter(filter.Invert, true).Execute(ctx))
	require.NoError(t, a.Save(export.PNG).Execute(ctx))
	require.NoError(t, a.Save(export.JPG).Execute(ctx))

	err := a.Save(export.GIF).Execute(ctx)
	assert.ErrorIs(t, err, export.ErrNotImplemented)

	require.Len(t, sink.results, 2)
	assert.Equal(t, 3, completed)

	// White canvas, invert enabled: PNG goes through the chain, JPG does not.
	img, err := png.Decode(bytes.NewReader(sink.results[0].Data))
	require.NoError(t, err)
	assert.Equal(t, sketch.Black, sketch.FromImage(img).GetPixel(0, 0))
	assert.True(t, sink.results[0].Filtered)
	assert.False(t, sink.results[1].Filtered)
	for _, res := range sink.results {
		assert.Equal(t, export.OctetStream, res.ContentType)
	}
}

func TestLegacyPlatform(t *testing.T) {
	cfg := smallConfig()
	cfg.Canvas.Platform = "legacy"
	a := newApp(t, cfg, WithPainter(dotPainter))
	ctx := context.Background()

	require.NoError(t, a.Start(ctx))
	require.NoError(t, a.Handler.PointerDown(ctx, sketch.Pt(1, 1)))
	require.NoError(t, a.Handler.PointerMove(ctx, sketch.Pt(2, 2)))
	require.NoError(t, a.Handler.PointerUp(ctx, sketch.Pt(2, 2)))

	assert.Equal(t, 0, a.History.Len())
	assert.Equal(t, sketch.White, a.Canvas.Pixmap().GetPixel(2, 2))
}

func TestRestore(t *testing.T) {
	src := newApp(t, smallConfig(), WithPainter(dotPainter))
	ctx := context.Background()
	require.NoError(t, src.Start(ctx))
	src.Canvas.Draw(func(pm *sketch.Pixmap) { pm.SetPixel(5, 5, sketch.Blue) })
	require.NoError(t, src.Commands.Commit.Execute(ctx))

	dst := newApp(t, smallConfig())
	require.NoError(t, dst.Restore(ctx, src.History.State()))

	assert.Equal(t, src.History.Status(), dst.History.Status())
	assert.True(t, dst.Canvas.Pixmap().Equal(src.Canvas.Pixmap()))
}

func TestInstancesAreIndependent(t *testing.T) {
	a := newApp(t, smallConfig())
	b := newApp(t, smallConfig())

	a.Filters.SetEnabled(filter.Blur, true)
	assert.False(t, b.Filters.Enabled(filter.Blur))
	assert.NotSame(t, a.History, b.History)
	assert.NotSame(t, a.Export.Registry(), b.Export.Registry())
}

func TestSerialWorkersMatchesPool(t *testing.T) {
	ctx := context.Background()
	render := func(workers int) []byte {
		cfg := smallConfig()
		cfg.Canvas.Width, cfg.Canvas.Height = 40, 80
		cfg.Filters.Enabled = []string{"blur", "grayscale"}
		cfg.Filters.Workers = workers
		sink := &memorySink{}
		a := newApp(t, cfg, WithSink(sink))
		a.Canvas.Draw(func(pm *sketch.Pixmap) {
			for y := range 80 {
				pm.SetPixel(y%40, y, sketch.Red)
			}
		})
		require.NoError(t, a.Save(export.PNG).Execute(ctx))
		require.Len(t, sink.results, 1)
		return sink.results[0].Data
	}

	assert.Equal(t, render(1), render(4))
}

func TestCloseIsIdempotent(t *testing.T) {
	a, err := New(smallConfig())
	require.NoError(t, err)
	a.Close()
	a.Close()

	sink := &memorySink{}
	a.sink = sink
	a.Filters.SetEnabled(filter.Invert, true)
	require.NoError(t, a.Save(export.PNG).Execute(context.Background()))
	assert.Len(t, sink.results, 1)
}
