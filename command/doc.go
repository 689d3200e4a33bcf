// Package command binds user actions to their receivers.
//
// Each command holds a reference to the object it acts on (a history engine,
// a filter chain, an export pipeline) and performs one action when executed.
// Cross-cutting behavior is added by wrapping: Counting and Logging are
// decorators that delegate to the wrapped command exactly once per Execute.
//
//	undo := command.Logging(command.Counting(command.Undo(engine)))
//	if err := undo.Execute(ctx); err != nil {
//	    ...
//	}
package command
