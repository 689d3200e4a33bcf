// Package history implements snapshot based undo/redo for a canvas.
//
// An Engine owns an ordered sequence of immutable snapshots and a cursor
// pointing at the snapshot currently shown on the canvas. Committing after
// one or more undos discards every redo-able snapshot first: history is
// linear, never a tree.
//
//	e := history.NewEngine(canvas)
//	_ = e.Commit(ctx) // A
//	_ = e.Commit(ctx) // B
//	_ = e.Undo(ctx)   // canvas shows A, CanRedo() == true
//	_ = e.Commit(ctx) // C; B is gone, CanRedo() == false
//
// Undo at the oldest snapshot and redo at the newest are silent no-ops.
// A restore that fails leaves the cursor and the canvas at the last good
// state and returns a *RestoreError.
//
// Only one commit or restore may be in flight per Engine; a concurrent call
// returns ErrBusy instead of interleaving.
package history
