package export

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Sink receives a finished export, e.g. by offering it as a download.
type Sink interface {
	Save(ctx context.Context, res *Result) error
}

// DirSink writes results into a directory under their Filename.
type DirSink struct {
	Dir string
}

// Path returns the file a result would be written to.
func (s DirSink) Path(res *Result) string {
	return filepath.Join(filepath.Clean(s.Dir), filepath.Base(res.Filename))
}

// Save writes res atomically: a temp file in Dir is renamed into place.
func (s DirSink) Save(ctx context.Context, res *Result) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if res == nil || len(res.Data) == 0 {
		return errors.New("export: nothing to save")
	}
	if err := os.MkdirAll(filepath.Clean(s.Dir), 0o755); err != nil {
		return fmt.Errorf("export: create dir: %w", err)
	}

	f, err := os.CreateTemp(filepath.Clean(s.Dir), ".export-*")
	if err != nil {
		return fmt.Errorf("export: create temp file: %w", err)
	}
	tmp := f.Name()
	if err := f.Chmod(0o644); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return fmt.Errorf("export: chmod: %w", err)
	}
	if _, err := f.Write(res.Data); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return fmt.Errorf("export: write: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("export: close: %w", err)
	}
	if err := os.Rename(tmp, s.Path(res)); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("export: rename: %w", err)
	}
	return nil
}
