package filter

import (
	"sync"
	"testing"

	"github.com/gogpu/sketch"
	"github.com/gogpu/sketch/internal/parallel"
)

func TestChainNoStagesIsIdentity(t *testing.T) {
	src := gradientPixmap(10, 10)
	out := NewChain().Apply(src)

	if !out.Equal(src) {
		t.Error("chain with nothing enabled changed pixels")
	}
	if out == src {
		t.Error("chain returned the source buffer instead of a working copy")
	}
}

func TestChainDoesNotMutateSource(t *testing.T) {
	src := gradientPixmap(10, 10)
	orig := src.Clone()

	c := NewChain(WithEnabled(NewSet(Blur, Grayscale, Invert)))
	_ = c.Apply(src)

	if !src.Equal(orig) {
		t.Error("Apply mutated the source pixmap")
	}
}

func TestChainInvertTwiceRoundTrips(t *testing.T) {
	src := gradientPixmap(10, 10)
	c := NewChain(WithEnabled(NewSet(Invert)))

	once := c.Apply(src)
	twice := c.Apply(once)

	if once.Equal(src) {
		t.Fatal("invert stage had no effect")
	}
	if !twice.Equal(src) {
		t.Error("invert chain applied twice is not the identity")
	}
}

func TestChainOrderMatters(t *testing.T) {
	src := gradientPixmap(12, 12)
	c := NewChain()

	got := c.ApplySet(src, NewSet(Blur, Invert))

	// Manually run the reverse order.
	rev := src.Clone()
	NewInvertFilter().Apply(rev, rev)
	NewBlurFilter(DefaultBlurRadius).Apply(rev, rev)

	// And the contract order.
	fwd := src.Clone()
	NewBlurFilter(DefaultBlurRadius).Apply(fwd, fwd)
	NewInvertFilter().Apply(fwd, fwd)

	if !got.Equal(fwd) {
		t.Error("chain did not run blur before invert")
	}
	if got.Equal(rev) {
		t.Log("blur/invert happened to commute on this input")
	}
}

func TestChainBlurGrayscaleDiffers(t *testing.T) {
	src := gradientPixmap(12, 12)
	c := NewChain()

	plain := c.ApplySet(src, 0)
	filtered := c.ApplySet(src, NewSet(Blur, Grayscale))

	if plain.Equal(filtered) {
		t.Error("blur+grayscale produced the same pixels as no filters")
	}
}

func TestChainSetEnabled(t *testing.T) {
	c := NewChain()
	if c.Enabled(Blur) {
		t.Fatal("blur enabled by default")
	}
	if !c.Enabled(Identity) {
		t.Fatal("identity reported disabled")
	}

	c.SetEnabled(Blur, true)
	c.SetEnabled(Invert, true)
	if got := c.Settings(); got != NewSet(Blur, Invert) {
		t.Errorf("Settings() = %v, want blur,invert", got)
	}

	c.SetEnabled(Blur, false)
	c.SetEnabled(Identity, false)
	if c.Enabled(Blur) {
		t.Error("blur still enabled after disabling")
	}
	if !c.Enabled(Identity) {
		t.Error("identity can be disabled")
	}
}

func TestChainSettingsSnapshot(t *testing.T) {
	c := NewChain()
	c.SetEnabled(Grayscale, true)
	s := c.Settings()
	c.SetEnabled(Grayscale, false)

	if !s.Has(Grayscale) {
		t.Error("Settings() result changed after SetEnabled")
	}
}

func TestChainConcurrentToggle(t *testing.T) {
	c := NewChain()
	src := gradientPixmap(4, 4)

	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			c.SetEnabled(Kind(1+i%3), i%2 == 0)
		}()
		go func() {
			defer wg.Done()
			_ = c.Apply(src)
		}()
	}
	wg.Wait()
}

func TestChainWithBlurRadius(t *testing.T) {
	src := gradientPixmap(12, 12)
	small := NewChain(WithBlurRadius(0.5)).ApplySet(src, NewSet(Blur))
	large := NewChain(WithBlurRadius(3)).ApplySet(src, NewSet(Blur))

	if small.Equal(large) {
		t.Error("blur radius had no effect")
	}
}

func TestChainEmptyPixmap(t *testing.T) {
	out := NewChain(WithEnabled(NewSet(Blur, Grayscale, Invert))).Apply(sketch.NewPixmap(0, 0))
	if out.Width() != 0 || out.Height() != 0 {
		t.Errorf("size = %dx%d, want 0x0", out.Width(), out.Height())
	}
}

func TestChainWithPoolMatchesSerial(t *testing.T) {
	pool := parallel.NewWorkerPool(4)
	defer pool.Close()

	src := gradientPixmap(40, 97)
	all := NewSet(Blur, Grayscale, Invert)

	tests := []struct {
		name string
		set  Set
	}{
		{"blur", NewSet(Blur)},
		{"grayscale", NewSet(Grayscale)},
		{"invert", NewSet(Invert)},
		{"all", all},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			want := NewChain().ApplySet(src, tt.set)
			got := NewChain(WithPool(pool)).ApplySet(src, tt.set)
			if !got.Equal(want) {
				t.Error("banded result differs from serial result")
			}
		})
	}

	pool.Close()
	if got := NewChain(WithPool(pool)).ApplySet(src, all); !got.Equal(NewChain().ApplySet(src, all)) {
		t.Error("closed pool changed the result")
	}
}
