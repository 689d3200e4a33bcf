package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gogpu/sketch/app"
	"github.com/gogpu/sketch/export"
	"github.com/gogpu/sketch/filter"
	"github.com/gogpu/sketch/internal/config"
)

// ExportOptions holds flags for the export command.
type ExportOptions struct {
	*RootOptions
	Input   string
	Format  string
	Filters string
	OutDir  string
}

// NewExportCommand creates the export command.
func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ExportOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export an image through the filter chain",
		Long: `Export an image file in another format.

PNG output runs the enabled filters (blur, grayscale, invert, in that order).
JPG and WebP output is encoded from the unfiltered image.

Example:
  sketch export --in photo.png --format png --filter blur,grayscale --out ./out`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Input, "in", "i", "", "input image (png, jpeg or webp)")
	cmd.Flags().StringVarP(&opts.Format, "format", "f", "png", "output format")
	cmd.Flags().StringVar(&opts.Filters, "filter", "", "comma separated filters; default from config")
	cmd.Flags().StringVarP(&opts.OutDir, "out", "o", "", "output directory; default from config")
	_ = cmd.MarkFlagRequired("in")

	return cmd
}

func runExport(cmd *cobra.Command, opts *ExportOptions) error {
	pm, err := readImage(opts.Input)
	if err != nil {
		return err
	}

	cfg := *opts.Config
	cfg.Canvas.Width, cfg.Canvas.Height = pm.Width(), pm.Height()
	if opts.Filters != "" {
		if _, err := filter.ParseSet(opts.Filters); err != nil {
			return err
		}
		cfg.Filters.Enabled = splitList(opts.Filters)
	}
	outDir := cfg.Export.OutDir
	if opts.OutDir != "" {
		outDir = opts.OutDir
	}

	return exportCanvas(cmd, &cfg, outDir, opts.Format, func(a *app.App) error {
		a.Canvas.Replace(pm)
		return nil
	})
}

// exportCanvas builds an App from cfg, lets prepare set up its canvas, and
// exports it in format to outDir.
func exportCanvas(cmd *cobra.Command, cfg *config.Config, outDir, format string, prepare func(*app.App) error) error {
	sink := export.DirSink{Dir: outDir}
	var written string
	a, err := app.New(cfg, app.WithSink(sink), app.WithExportCompletion(func(res *export.Result, err error) {
		if err == nil {
			written = sink.Path(res)
		}
	}))
	if err != nil {
		return err
	}
	defer a.Close()

	if err := prepare(a); err != nil {
		return err
	}

	f := export.ParseFormat(format)
	if err := a.Save(f).Execute(cmd.Context()); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s\n", written)
	return nil
}

// splitList splits a comma separated flag value, dropping empty items.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
