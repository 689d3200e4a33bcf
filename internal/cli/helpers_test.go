package cli

import (
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gogpu/sketch"
)

// writePNG writes a w x h image filled with c plus a marker pixel at (0,0).
func writePNG(t *testing.T, dir, name string, w, h int, c sketch.RGBA) string {
	t.Helper()
	pm := sketch.NewPixmap(w, h)
	pm.Clear(c)
	pm.SetPixel8(0, 0, 10, 20, 30, 255)
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, pm.ToImage()))
	return path
}

func readPNG(t *testing.T, path string) *sketch.Pixmap {
	t.Helper()
	pm, err := readImage(path)
	require.NoError(t, err)
	return pm
}
