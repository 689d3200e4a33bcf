package command

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/gogpu/sketch"
)

// CountingCommand counts executions of the wrapped command.
type CountingCommand struct {
	next  Command
	count atomic.Int64
}

// Counting wraps next so that every Execute is counted.
func Counting(next Command) *CountingCommand {
	return &CountingCommand{next: next}
}

// Name returns the wrapped command's name.
func (c *CountingCommand) Name() string { return c.next.Name() }

// Execute counts the call and delegates to the wrapped command once.
func (c *CountingCommand) Execute(ctx context.Context) error {
	c.count.Add(1)
	return c.next.Execute(ctx)
}

// Count returns the number of Execute calls so far, failed ones included.
func (c *CountingCommand) Count() int64 {
	return c.count.Load()
}

// LoggingCommand logs each execution of the wrapped command.
type LoggingCommand struct {
	next Command
}

// Logging wraps next so that every Execute is logged through sketch.Logger.
func Logging(next Command) *LoggingCommand {
	return &LoggingCommand{next: next}
}

// Name returns the wrapped command's name.
func (c *LoggingCommand) Name() string { return c.next.Name() }

// Execute delegates once and logs the outcome.
func (c *LoggingCommand) Execute(ctx context.Context) error {
	start := time.Now()
	err := c.next.Execute(ctx)
	log := sketch.Logger()
	if err != nil {
		log.Warn("command: failed", "command", c.next.Name(), "elapsed", time.Since(start), "err", err)
		return err
	}
	log.Debug("command: executed", "command", c.next.Name(), "elapsed", time.Since(start))
	return nil
}

// Decorate applies Counting and then Logging to next. The returned counter
// observes the same calls as the returned command.
func Decorate(next Command) (Command, *CountingCommand) {
	counter := Counting(next)
	return Logging(counter), counter
}
