package export

import (
	"bytes"
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/gogpu/sketch"
	"github.com/gogpu/sketch/filter"
)

// OctetStream is the content type of every export result.
const OctetStream = "application/octet-stream"

// DefaultBasename is the filename stem used when none is configured.
const DefaultBasename = "image"

// State is a pipeline lifecycle state.
type State uint32

const (
	Idle State = iota
	Encoding
	Filtering
	Completed
	Failed
)

var stateNames = [...]string{
	Idle:      "idle",
	Encoding:  "encoding",
	Filtering: "filtering",
	Completed: "completed",
	Failed:    "failed",
}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("State(%d)", s)
}

// Source provides the live canvas.
type Source interface {
	Pixmap() *sketch.Pixmap
}

// Request is a single export. It is built per save action.
type Request struct {
	Format  Format
	Filters filter.Set
}

// NewRequest creates a request for format f with the given filter settings,
// typically a Chain's Settings at the time of the save action.
func NewRequest(f Format, filters filter.Set) Request {
	return Request{Format: f, Filters: filters}
}

// Result is a fully materialized export.
type Result struct {
	Format      Format
	Filename    string
	ContentType string
	Data        []byte
	// Filtered reports whether the filter chain ran.
	Filtered bool
	// Filters is the set applied when Filtered is true.
	Filters filter.Set
}

// Outcome is the value delivered by Start.
type Outcome struct {
	Result *Result
	Err    error
}

// Option configures a Pipeline during creation.
type Option func(*Pipeline)

// WithRegistry replaces the default encoder registry.
func WithRegistry(r *Registry) Option {
	return func(p *Pipeline) {
		p.registry = r
	}
}

// WithCompletion registers fn to be called once per export after the byte
// stream is materialized (res != nil) or the export failed (err != nil).
func WithCompletion(fn func(res *Result, err error)) Option {
	return func(p *Pipeline) {
		p.onComplete = fn
	}
}

// WithBasename sets the filename stem of results.
func WithBasename(name string) Option {
	return func(p *Pipeline) {
		p.basename = name
	}
}

// Pipeline encodes the canvas for download.
type Pipeline struct {
	source     Source
	chain      *filter.Chain
	registry   *Registry
	basename   string
	onComplete func(*Result, error)

	inflight atomic.Bool
	state    atomic.Uint32
}

// NewPipeline creates a pipeline reading from src and filtering with chain.
func NewPipeline(src Source, chain *filter.Chain, opts ...Option) *Pipeline {
	p := &Pipeline{
		source:   src,
		chain:    chain,
		basename: DefaultBasename,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.registry == nil {
		p.registry = DefaultRegistry(90)
	}
	if p.chain == nil {
		p.chain = filter.NewChain()
	}
	return p
}

// State returns the current lifecycle state.
func (p *Pipeline) State() State {
	return State(p.state.Load())
}

// Registry returns the pipeline's encoder registry.
func (p *Pipeline) Registry() *Registry {
	return p.registry
}

// Run exports the live canvas synchronously.
func (p *Pipeline) Run(ctx context.Context, req Request) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !p.inflight.CompareAndSwap(false, true) {
		return nil, ErrBusy
	}
	defer p.inflight.Store(false)

	return p.run(req, p.source.Pixmap())
}

// Start exports asynchronously. The canvas is copied before Start returns,
// so later edits do not affect the result. The channel receives exactly one
// Outcome. An export cannot be canceled once started.
func (p *Pipeline) Start(ctx context.Context, req Request) <-chan Outcome {
	ch := make(chan Outcome, 1)
	if err := ctx.Err(); err != nil {
		ch <- Outcome{Err: err}
		close(ch)
		return ch
	}
	if !p.inflight.CompareAndSwap(false, true) {
		ch <- Outcome{Err: ErrBusy}
		close(ch)
		return ch
	}

	pm := p.source.Pixmap().Clone()
	go func() {
		res, err := p.run(req, pm)
		p.inflight.Store(false)
		ch <- Outcome{Result: res, Err: err}
		close(ch)
	}()
	return ch
}

// run drives the state machine. The caller holds the in-flight flag.
func (p *Pipeline) run(req Request, pm *sketch.Pixmap) (*Result, error) {
	start := time.Now()
	p.state.Store(uint32(Encoding))

	enc, filtered, ok := p.registry.Lookup(req.Format)
	if !ok {
		return p.finish(nil, &NotImplementedError{Format: req.Format}, start)
	}

	img := pm
	if filtered {
		p.state.Store(uint32(Filtering))
		img = p.chain.ApplySet(pm, req.Filters)
		p.state.Store(uint32(Encoding))
	}

	var buf bytes.Buffer
	if err := enc.Encode(&buf, img.ToImage()); err != nil {
		return p.finish(nil, &EncodeError{Format: req.Format, Err: err}, start)
	}
	if buf.Len() == 0 {
		return p.finish(nil, &EncodeError{Format: req.Format, Err: errEmptyOutput}, start)
	}

	res := &Result{
		Format:      req.Format,
		Filename:    p.basename + req.Format.Ext(),
		ContentType: OctetStream,
		Data:        buf.Bytes(),
		Filtered:    filtered,
	}
	if filtered {
		res.Filters = req.Filters
	}
	return p.finish(res, nil, start)
}

func (p *Pipeline) finish(res *Result, err error, start time.Time) (*Result, error) {
	log := sketch.Logger()
	if err != nil {
		p.state.Store(uint32(Failed))
		log.Warn("export: failed", "err", err, "elapsed", time.Since(start))
	} else {
		p.state.Store(uint32(Completed))
		log.Info("export: completed",
			"format", res.Format.String(), "bytes", len(res.Data),
			"filters", res.Filters.String(), "elapsed", time.Since(start))
	}
	if p.onComplete != nil {
		p.onComplete(res, err)
	}
	return res, err
}
