package export

import (
	"image/png"
	"slices"
	"sync"
)

// registration is one encoder entry of a Registry.
type registration struct {
	enc      Encoder
	filtered bool
}

// Registry maps formats to encoders. Each Pipeline owns its own Registry;
// there is no package-level registry.
type Registry struct {
	mu       sync.RWMutex
	encoders map[Format]registration
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{encoders: make(map[Format]registration)}
}

// DefaultRegistry returns a registry with the built-in encoders: PNG
// (filtered), JPG and WebP (both unfiltered).
func DefaultRegistry(jpegQuality int) *Registry {
	r := NewRegistry()
	r.Register(PNG, PNGEncoder{Level: png.DefaultCompression}, true)
	r.Register(JPG, JPEGEncoder{Quality: jpegQuality}, false)
	r.Register(WebP, WebPEncoder{}, false)
	return r
}

// Register adds an encoder for f. If filtered is true, exports in f run the
// filter chain before encoding.
//
// Register panics if:
//   - enc is nil
//   - f is FormatUnknown
//   - an encoder for f is already registered
func (r *Registry) Register(f Format, enc Encoder, filtered bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if enc == nil {
		panic("export: Register encoder is nil")
	}
	if f == FormatUnknown {
		panic("export: Register called for unknown format")
	}
	if _, dup := r.encoders[f]; dup {
		panic("export: Register called twice for " + f.String())
	}
	r.encoders[f] = registration{enc: enc, filtered: filtered}
}

// Unregister removes the encoder for f. It is a no-op if none is registered.
func (r *Registry) Unregister(f Format) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.encoders, f)
}

// Lookup returns the encoder for f and whether f runs the filter chain.
func (r *Registry) Lookup(f Format) (enc Encoder, filtered, ok bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	reg, ok := r.encoders[f]
	return reg.enc, reg.filtered, ok
}

// IsRegistered reports whether f has an encoder.
func (r *Registry) IsRegistered(f Format) bool {
	_, _, ok := r.Lookup(f)
	return ok
}

// Formats returns the registered formats in ascending order.
func (r *Registry) Formats() []Format {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Format, 0, len(r.encoders))
	for f := range r.encoders {
		out = append(out, f)
	}
	slices.Sort(out)
	return out
}
