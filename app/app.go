// Package app wires a canvas, its history, its filter chain and its export
// pipeline together from configuration.
//
// Every component is constructed exactly once by New and reached through
// the returned App; nothing is stored in package-level state.
package app

import (
	"context"
	"fmt"

	"github.com/gogpu/sketch"
	"github.com/gogpu/sketch/canvas"
	"github.com/gogpu/sketch/command"
	"github.com/gogpu/sketch/export"
	"github.com/gogpu/sketch/filter"
	"github.com/gogpu/sketch/history"
	"github.com/gogpu/sketch/internal/config"
	"github.com/gogpu/sketch/internal/parallel"
)

// Commands holds the decorated commands bound to an App's components.
type Commands struct {
	Commit command.Command
	Undo   command.Command
	Redo   command.Command

	// Counters observe the history commands above.
	CommitCount *command.CountingCommand
	UndoCount   *command.CountingCommand
	RedoCount   *command.CountingCommand
}

// App owns one set of components.
type App struct {
	Config   *config.Config
	Canvas   *canvas.Canvas
	History  *history.Engine
	Filters  *filter.Chain
	Export   *export.Pipeline
	Handler  canvas.Handler
	Commands Commands

	sink export.Sink
	pool *parallel.WorkerPool
}

// Option configures an App during creation.
type Option func(*options)

type options struct {
	observer   func(history.Status)
	onExport   func(*export.Result, error)
	painter    canvas.Painter
	sink       export.Sink
	registry   *export.Registry
	canvasOpts []canvas.Option
}

// WithObserver is called after every history change.
func WithObserver(fn func(history.Status)) Option {
	return func(o *options) {
		o.observer = fn
	}
}

// WithExportCompletion is called after every export.
func WithExportCompletion(fn func(*export.Result, error)) Option {
	return func(o *options) {
		o.onExport = fn
	}
}

// WithPainter sets the stroke renderer used by the pointer handler.
func WithPainter(p canvas.Painter) Option {
	return func(o *options) {
		o.painter = p
	}
}

// WithSink sets where Save delivers results. The default writes to the
// configured export directory.
func WithSink(s export.Sink) Option {
	return func(o *options) {
		o.sink = s
	}
}

// WithRegistry replaces the default encoder registry.
func WithRegistry(r *export.Registry) Option {
	return func(o *options) {
		o.registry = r
	}
}

// WithCanvasOptions passes extra options to canvas.New.
func WithCanvasOptions(opts ...canvas.Option) Option {
	return func(o *options) {
		o.canvasOpts = append(o.canvasOpts, opts...)
	}
}

// New builds an App from cfg. A nil cfg uses config.Default().
func New(cfg *config.Config, opts ...Option) (*App, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("app: invalid config: %w", err)
	}
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	level, err := cfg.History.CompressionLevel()
	if err != nil {
		return nil, err
	}
	enabled, err := cfg.Filters.Set()
	if err != nil {
		return nil, err
	}
	platform, err := canvas.ParsePlatform(cfg.Canvas.Platform)
	if err != nil {
		return nil, err
	}

	a := &App{Config: cfg}
	a.Canvas = canvas.New(cfg.Canvas.Width, cfg.Canvas.Height,
		append([]canvas.Option{canvas.WithBackground(cfg.Canvas.BackgroundColor())}, o.canvasOpts...)...)

	histOpts := []history.Option{
		history.WithLimit(cfg.History.Limit),
		history.WithCache(cfg.History.Cache),
		history.WithStore(history.NewStore(level)),
	}
	if o.observer != nil {
		histOpts = append(histOpts, history.WithObserver(o.observer))
	}
	a.History = history.NewEngine(a.Canvas, histOpts...)

	chainOpts := []filter.Option{
		filter.WithBlurRadius(cfg.Filters.BlurRadius),
		filter.WithEnabled(enabled),
	}
	if cfg.Filters.Workers != 1 {
		a.pool = parallel.NewWorkerPool(cfg.Filters.Workers)
		chainOpts = append(chainOpts, filter.WithPool(a.pool))
	}
	a.Filters = filter.NewChain(chainOpts...)

	registry := o.registry
	if registry == nil {
		registry = export.DefaultRegistry(cfg.Export.JPEGQuality)
	}
	pipeOpts := []export.Option{
		export.WithRegistry(registry),
		export.WithBasename(cfg.Export.Basename),
	}
	if o.onExport != nil {
		pipeOpts = append(pipeOpts, export.WithCompletion(o.onExport))
	}
	a.Export = export.NewPipeline(a.Canvas, a.Filters, pipeOpts...)

	a.sink = o.sink
	if a.sink == nil {
		a.sink = export.DirSink{Dir: cfg.Export.OutDir}
	}

	a.Commands.Commit, a.Commands.CommitCount = command.Decorate(command.Commit(a.History))
	a.Commands.Undo, a.Commands.UndoCount = command.Decorate(command.Undo(a.History))
	a.Commands.Redo, a.Commands.RedoCount = command.Decorate(command.Redo(a.History))

	handlerOpts := []canvas.HandlerOption{canvas.WithCommit(a.Commands.Commit)}
	if o.painter != nil {
		handlerOpts = append(handlerOpts, canvas.WithPainter(o.painter))
	}
	a.Handler, err = canvas.NewHandler(platform, a.Canvas, handlerOpts...)
	if err != nil {
		a.Close()
		return nil, err
	}

	sketch.Logger().Debug("app: ready",
		"width", cfg.Canvas.Width, "height", cfg.Canvas.Height,
		"platform", platform.String(), "limit", cfg.History.Limit,
		"filters", enabled.String())
	return a, nil
}

// Close stops the filter workers. Exports started afterwards still run,
// on the calling goroutine.
func (a *App) Close() {
	if a.pool != nil {
		a.pool.Close()
	}
}

// Save returns a command exporting the canvas in format f with the filter
// settings current at execution.
func (a *App) Save(f export.Format) command.Command {
	return command.Logging(command.Save(a.Export, a.Filters, f, a.sink))
}

// SelectMode returns a command switching the canvas tool.
func (a *App) SelectMode(m sketch.Mode) command.Command {
	return command.Logging(command.SelectMode(a.Canvas, m))
}

// ToggleFilter returns a command enabling or disabling one filter stage.
func (a *App) ToggleFilter(k filter.Kind, on bool) command.Command {
	return command.Logging(command.ToggleFilter(a.Filters, k, on))
}

// Start initializes the pointer handler.
func (a *App) Start(ctx context.Context) error {
	return a.Handler.Initialize(ctx)
}

// Restore loads a persisted history and shows its current snapshot.
func (a *App) Restore(ctx context.Context, st history.State) error {
	return a.History.Load(ctx, st)
}
