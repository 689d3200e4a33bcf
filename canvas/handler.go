package canvas

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gogpu/sketch"
	"github.com/gogpu/sketch/command"
)

// Platform selects the Handler implementation.
type Platform uint8

const (
	// PlatformStandard dispatches pointer input to tools.
	PlatformStandard Platform = iota
	// PlatformLegacy accepts and ignores all pointer input.
	PlatformLegacy
)

// String returns the configuration name of p.
func (p Platform) String() string {
	switch p {
	case PlatformStandard:
		return "standard"
	case PlatformLegacy:
		return "legacy"
	default:
		return fmt.Sprintf("Platform(%d)", p)
	}
}

// ErrUnknownPlatform is returned by ParsePlatform for unrecognized names.
var ErrUnknownPlatform = errors.New("canvas: unknown platform")

// ParsePlatform converts a configuration value to a Platform. The empty
// string selects PlatformStandard.
func ParsePlatform(s string) (Platform, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "standard":
		return PlatformStandard, nil
	case "legacy":
		return PlatformLegacy, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownPlatform, s)
	}
}

// Handler receives pointer input for a canvas.
type Handler interface {
	// Initialize prepares the handler before the first pointer event.
	Initialize(ctx context.Context) error
	PointerDown(ctx context.Context, p sketch.Point) error
	PointerMove(ctx context.Context, p sketch.Point) error
	// PointerUp ends the current gesture. Leaving the canvas is reported
	// as PointerUp too.
	PointerUp(ctx context.Context, p sketch.Point) error
}

// HandlerOption configures a Handler.
type HandlerOption func(*handlerConfig)

type handlerConfig struct {
	commit  command.Command
	painter Painter
}

// WithCommit sets the command run when a gesture finishes drawing.
func WithCommit(cmd command.Command) HandlerOption {
	return func(c *handlerConfig) {
		c.commit = cmd
	}
}

// WithPainter sets the stroke renderer used by pen and eraser.
// The default is SDFPainter.
func WithPainter(p Painter) HandlerOption {
	return func(c *handlerConfig) {
		c.painter = p
	}
}

// NewHandler returns the Handler for platform p.
func NewHandler(p Platform, c *Canvas, opts ...HandlerOption) (Handler, error) {
	var cfg handlerConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	switch p {
	case PlatformStandard:
		return newStandardHandler(c, cfg), nil
	case PlatformLegacy:
		return legacyHandler{}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownPlatform, p)
	}
}

// legacyHandler ignores all input.
type legacyHandler struct{}

func (legacyHandler) Initialize(context.Context) error                 { return nil }
func (legacyHandler) PointerDown(context.Context, sketch.Point) error { return nil }
func (legacyHandler) PointerMove(context.Context, sketch.Point) error { return nil }
func (legacyHandler) PointerUp(context.Context, sketch.Point) error   { return nil }

// standardHandler routes input to the tool of the canvas mode.
type standardHandler struct {
	canvas *Canvas
	commit command.Command
	tools  [sketch.ModeRectangle + 1]tool

	// active is set between a drawing PointerDown and its PointerUp.
	active bool
	last   sketch.Point
}

func newStandardHandler(c *Canvas, cfg handlerConfig) *standardHandler {
	h := &standardHandler{canvas: c, commit: cfg.commit}
	painter := cfg.painter
	if painter == nil {
		painter = SDFPainter{}
	}
	h.tools[sketch.ModePen] = penTool{painter: painter}
	h.tools[sketch.ModeEraser] = eraserTool{painter: painter}
	h.tools[sketch.ModePipette] = pipetteTool{}
	h.tools[sketch.ModeCircle] = shapeTool{}
	h.tools[sketch.ModeRectangle] = shapeTool{}
	return h
}

// Initialize records the starting canvas so that the first edit can be
// undone.
func (h *standardHandler) Initialize(ctx context.Context) error {
	h.active = false
	if h.commit == nil {
		return nil
	}
	return h.commit.Execute(ctx)
}

func (h *standardHandler) tool() tool {
	m := h.canvas.Mode()
	if !m.Valid() {
		return h.tools[sketch.ModePen]
	}
	return h.tools[m]
}

func (h *standardHandler) PointerDown(_ context.Context, p sketch.Point) error {
	h.active = h.tool().down(h.canvas, p)
	h.last = p
	return nil
}

func (h *standardHandler) PointerMove(_ context.Context, p sketch.Point) error {
	h.tool().move(h.canvas, h.last, p, h.active)
	h.last = p
	return nil
}

func (h *standardHandler) PointerUp(ctx context.Context, p sketch.Point) error {
	wasActive := h.active
	h.active = false
	h.tool().up(h.canvas, p)
	if !wasActive || h.commit == nil {
		return nil
	}
	return h.commit.Execute(ctx)
}
