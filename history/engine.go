package history

import (
	"context"
	"fmt"
	"image/png"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/gogpu/sketch"
	"github.com/gogpu/sketch/internal/cache"
)

// Canvas is the surface an Engine captures from and restores onto.
type Canvas interface {
	// Pixmap returns the live pixel buffer. The engine only reads it.
	Pixmap() *sketch.Pixmap
	// Color returns the current drawing color.
	Color() sketch.RGBA
	// Mode returns the current tool mode.
	Mode() sketch.Mode
	// Replace shows pm on the canvas. pm is owned by the canvas afterwards.
	Replace(pm *sketch.Pixmap)
}

// Status is the read-only view of the history used to drive UI affordances.
type Status struct {
	Cursor  int
	Len     int
	CanUndo bool
	CanRedo bool
}

// State is a sequence/cursor pair used to persist and reload a history.
type State struct {
	Snapshots []*Snapshot
	Cursor    int
}

// Option configures an Engine during creation.
type Option func(*Engine)

// WithLimit bounds the number of retained snapshots. When a commit pushes
// the sequence past n, the oldest snapshots are dropped. n <= 0 means
// unbounded.
func WithLimit(n int) Option {
	return func(e *Engine) {
		e.limit = n
	}
}

// WithObserver registers fn to be called with the new Status after every
// accepted Commit, Undo, Redo or Load, including no-ops and failures.
func WithObserver(fn func(Status)) Option {
	return func(e *Engine) {
		e.observer = fn
	}
}

// WithStore sets the snapshot store. The default store uses
// png.DefaultCompression.
func WithStore(s *Store) Option {
	return func(e *Engine) {
		e.store = s
	}
}

// WithCache keeps up to n decoded snapshots in memory so that stepping back
// and forth over recent states skips decoding. n <= 0 disables the cache.
func WithCache(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.decoded = cache.New[uuid.UUID, *sketch.Pixmap](n)
		} else {
			e.decoded = nil
		}
	}
}

// WithClock overrides the time source used to stamp snapshots.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// Engine is a linear undo/redo history over canvas snapshots.
//
// Invariant: -1 <= cursor <= len(seq)-1, and cursor == -1 only while seq is
// empty. Every method that can change seq or cursor first claims the
// in-flight flag; the state is otherwise owned by the calling goroutine.
type Engine struct {
	canvas   Canvas
	store    *Store
	limit    int
	observer func(Status)
	now      func() time.Time
	decoded  *cache.Cache[uuid.UUID, *sketch.Pixmap]

	inflight atomic.Bool

	seq    []*Snapshot
	cursor int
}

// NewEngine creates an empty history for canvas.
func NewEngine(canvas Canvas, opts ...Option) *Engine {
	e := &Engine{
		canvas: canvas,
		cursor: -1,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.store == nil {
		e.store = NewStore(png.DefaultCompression)
	}
	return e
}

// Commit captures the canvas as a new snapshot. If the cursor is not at the
// newest snapshot, every snapshot after it is discarded first. The cursor
// moves to the new snapshot.
//
// If the canvas cannot be captured, the history is left unchanged and the
// error wraps ErrCapture.
func (e *Engine) Commit(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !e.inflight.CompareAndSwap(false, true) {
		return ErrBusy
	}
	defer e.inflight.Store(false)
	defer e.notify()

	pm := e.canvas.Pixmap()
	data, err := e.store.Capture(pm)
	if err != nil {
		sketch.Logger().Warn("history: capture failed", "err", err)
		return err
	}

	snap := &Snapshot{
		id:        uuid.New(),
		color:     e.canvas.Color(),
		mode:      e.canvas.Mode(),
		data:      data,
		createdAt: e.now(),
	}

	if e.decoded != nil {
		e.decoded.Set(snap.id, pm.Clone())
	}

	truncated := 0
	if e.cursor < len(e.seq)-1 {
		truncated = len(e.seq) - (e.cursor + 1)
		clear(e.seq[e.cursor+1:])
		e.seq = e.seq[:e.cursor+1]
	}
	e.seq = append(e.seq, snap)
	e.cursor = len(e.seq) - 1

	if e.limit > 0 && len(e.seq) > e.limit {
		drop := len(e.seq) - e.limit
		e.seq = append([]*Snapshot(nil), e.seq[drop:]...)
		e.cursor -= drop
	}

	sketch.Logger().Debug("history: commit",
		"id", snap.id, "bytes", len(data), "cursor", e.cursor,
		"len", len(e.seq), "truncated", truncated)
	return nil
}

// Undo moves back one snapshot and restores it onto the canvas.
// It is a no-op when there is no earlier snapshot.
func (e *Engine) Undo(ctx context.Context) error {
	return e.move(ctx, -1)
}

// Redo moves forward one snapshot and restores it onto the canvas.
// It is a no-op at the newest snapshot.
func (e *Engine) Redo(ctx context.Context) error {
	return e.move(ctx, +1)
}

func (e *Engine) move(ctx context.Context, delta int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !e.inflight.CompareAndSwap(false, true) {
		return ErrBusy
	}
	defer e.inflight.Store(false)
	defer e.notify()

	target := e.cursor + delta
	if e.cursor < 0 || target < 0 || target > len(e.seq)-1 {
		return nil
	}

	if err := e.restore(target); err != nil {
		return err
	}
	e.cursor = target

	sketch.Logger().Debug("history: restored", "cursor", e.cursor, "len", len(e.seq))
	return nil
}

// restore decodes seq[i] and shows it on the canvas. On failure the canvas
// is not touched.
func (e *Engine) restore(i int) error {
	return e.show(i, e.seq[i])
}

func (e *Engine) show(i int, snap *Snapshot) error {
	if e.decoded != nil {
		if pm, ok := e.decoded.Get(snap.id); ok {
			e.canvas.Replace(pm.Clone())
			return nil
		}
	}
	pm, err := e.store.Restore(snap.data)
	if err != nil {
		rerr := &RestoreError{Index: i, ID: snap.id, Err: err}
		sketch.Logger().Warn("history: restore failed", "err", rerr)
		return rerr
	}
	if e.decoded != nil {
		e.decoded.Set(snap.id, pm.Clone())
	}
	e.canvas.Replace(pm)
	return nil
}

// CanUndo reports whether Undo would move the cursor.
func (e *Engine) CanUndo() bool {
	return e.cursor > 0
}

// CanRedo reports whether Redo would move the cursor.
func (e *Engine) CanRedo() bool {
	return e.cursor < len(e.seq)-1
}

// Cursor returns the index of the snapshot shown on the canvas, or -1.
func (e *Engine) Cursor() int {
	return e.cursor
}

// Len returns the number of retained snapshots.
func (e *Engine) Len() int {
	return len(e.seq)
}

// Status returns the current cursor position and affordances.
func (e *Engine) Status() Status {
	return Status{
		Cursor:  e.cursor,
		Len:     len(e.seq),
		CanUndo: e.CanUndo(),
		CanRedo: e.CanRedo(),
	}
}

// Current returns the snapshot at the cursor, or nil for an empty history.
func (e *Engine) Current() *Snapshot {
	if e.cursor < 0 {
		return nil
	}
	return e.seq[e.cursor]
}

// Snapshot returns the snapshot at index i, or nil if i is out of range.
func (e *Engine) Snapshot(i int) *Snapshot {
	if i < 0 || i >= len(e.seq) {
		return nil
	}
	return e.seq[i]
}

// Snapshots returns a copy of the sequence.
func (e *Engine) Snapshots() []*Snapshot {
	return append([]*Snapshot(nil), e.seq...)
}

// State returns the sequence and cursor for persistence.
func (e *Engine) State() State {
	return State{Snapshots: e.Snapshots(), Cursor: e.cursor}
}

// Load replaces the history with st and restores st.Snapshots[st.Cursor]
// onto the canvas. The engine is unchanged if st is invalid or the restore
// fails.
func (e *Engine) Load(ctx context.Context, st State) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := validateState(st); err != nil {
		return err
	}
	if !e.inflight.CompareAndSwap(false, true) {
		return ErrBusy
	}
	defer e.inflight.Store(false)
	defer e.notify()

	seq := append([]*Snapshot(nil), st.Snapshots...)
	if st.Cursor >= 0 {
		if err := e.show(st.Cursor, seq[st.Cursor]); err != nil {
			return err
		}
	}
	// The limit is enforced by the next Commit.
	e.seq, e.cursor = seq, st.Cursor

	sketch.Logger().Debug("history: loaded", "cursor", e.cursor, "len", len(e.seq))
	return nil
}

func validateState(st State) error {
	n := len(st.Snapshots)
	if st.Cursor < -1 || st.Cursor > n-1 || (st.Cursor == -1 && n > 0) {
		return fmt.Errorf("%w: cursor %d with %d snapshots", ErrInvalidState, st.Cursor, n)
	}
	for i, s := range st.Snapshots {
		if s == nil {
			return fmt.Errorf("%w: nil snapshot at %d", ErrInvalidState, i)
		}
	}
	return nil
}

func (e *Engine) notify() {
	if e.observer != nil {
		e.observer(e.Status())
	}
}
