package command

import (
	"context"

	"github.com/gogpu/sketch"
	"github.com/gogpu/sketch/export"
	"github.com/gogpu/sketch/filter"
)

// Command is a user action bound to its receiver.
type Command interface {
	// Name identifies the command in logs.
	Name() string
	// Execute performs the action. Receiver errors are returned unchanged.
	Execute(ctx context.Context) error
}

// Func adapts a function to the Command interface.
func Func(name string, fn func(ctx context.Context) error) Command {
	return funcCommand{name: name, fn: fn}
}

type funcCommand struct {
	name string
	fn   func(ctx context.Context) error
}

func (c funcCommand) Name() string                      { return c.name }
func (c funcCommand) Execute(ctx context.Context) error { return c.fn(ctx) }

// Historian is the part of a history engine the commands drive.
type Historian interface {
	Commit(ctx context.Context) error
	Undo(ctx context.Context) error
	Redo(ctx context.Context) error
}

// Commit captures the canvas into h.
func Commit(h Historian) Command {
	return Func("commit", h.Commit)
}

// Undo steps h back one snapshot.
func Undo(h Historian) Command {
	return Func("undo", h.Undo)
}

// Redo steps h forward one snapshot.
func Redo(h Historian) Command {
	return Func("redo", h.Redo)
}

// Exporter runs one export.
type Exporter interface {
	Run(ctx context.Context, req export.Request) (*export.Result, error)
}

// Save exports in format f with the filter settings chain holds when the
// command executes, then hands the result to sink.
func Save(p Exporter, chain *filter.Chain, f export.Format, sink export.Sink) Command {
	return &saveCommand{pipeline: p, chain: chain, format: f, sink: sink}
}

type saveCommand struct {
	pipeline Exporter
	chain    *filter.Chain
	format   export.Format
	sink     export.Sink
}

func (c *saveCommand) Name() string { return "save:" + c.format.String() }

func (c *saveCommand) Execute(ctx context.Context) error {
	var filters filter.Set
	if c.chain != nil {
		filters = c.chain.Settings()
	}
	res, err := c.pipeline.Run(ctx, export.NewRequest(c.format, filters))
	if err != nil {
		return err
	}
	if c.sink == nil {
		return nil
	}
	return c.sink.Save(ctx, res)
}

// ModeSetter receives tool mode changes.
type ModeSetter interface {
	SetMode(m sketch.Mode)
}

// SelectMode switches the canvas tool to m.
func SelectMode(c ModeSetter, m sketch.Mode) Command {
	return Func("mode:"+m.String(), func(ctx context.Context) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		c.SetMode(m)
		return nil
	})
}

// ToggleFilter enables or disables one stage of chain.
func ToggleFilter(chain *filter.Chain, k filter.Kind, on bool) Command {
	name := "filter:" + k.String() + ":off"
	if on {
		name = "filter:" + k.String() + ":on"
	}
	return Func(name, func(ctx context.Context) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		chain.SetEnabled(k, on)
		return nil
	})
}
