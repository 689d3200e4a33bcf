package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/gogpu/sketch"
	"github.com/gogpu/sketch/app"
	"github.com/gogpu/sketch/history"
	"github.com/gogpu/sketch/internal/archive"
)

// SessionOptions holds flags shared by the session subcommands.
type SessionOptions struct {
	*RootOptions
	DB      string
	Session string
}

// NewSessionCommand creates the session command and its subcommands.
func NewSessionCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SessionOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "session",
		Short: "Edit drawing sessions kept in an archive",
		Long: `Edit drawing sessions kept in a SQLite archive.

Each session is a canvas with its complete undo history. Commit records a
new canvas state; undo and redo move through the history and persist the
new position.

Example:
  sketch session commit --db sketch.db --session doodle --image step1.png
  sketch session undo --db sketch.db --session doodle`,
	}

	cmd.PersistentFlags().StringVar(&opts.DB, "db", "sketch.db", "session archive path")
	cmd.PersistentFlags().StringVarP(&opts.Session, "session", "s", "", "session name")

	cmd.AddCommand(newSessionCommitCommand(opts))
	cmd.AddCommand(newSessionMoveCommand(opts, "undo", "Step back one snapshot"))
	cmd.AddCommand(newSessionMoveCommand(opts, "redo", "Step forward one snapshot"))
	cmd.AddCommand(newSessionStatusCommand(opts))
	cmd.AddCommand(newSessionExportCommand(opts))
	cmd.AddCommand(newSessionListCommand(opts))
	cmd.AddCommand(newSessionDeleteCommand(opts))

	return cmd
}

// sessionRun is an open archive plus an App holding the session's history.
type sessionRun struct {
	store *archive.Store
	app   *app.App
	sess  archive.Session
}

// openSession loads the named session into a fresh App. If the session does
// not exist and create is non-nil, create supplies the canvas size of a new
// one.
func openSession(ctx context.Context, opts *SessionOptions, create func() (int, int, error)) (*sessionRun, error) {
	if opts.Session == "" {
		return nil, fmt.Errorf("--session is required")
	}
	store, err := archive.Open(opts.DB)
	if err != nil {
		return nil, err
	}

	sess, err := store.Load(ctx, opts.Session)
	switch {
	case err == nil:
	case errors.Is(err, archive.ErrSessionNotFound) && create != nil:
		w, h, cerr := create()
		if cerr != nil {
			_ = store.Close()
			return nil, cerr
		}
		sess = archive.Session{Name: opts.Session, Width: w, Height: h, State: history.State{Cursor: -1}}
	default:
		_ = store.Close()
		return nil, err
	}

	cfg := *opts.Config
	cfg.Canvas.Width, cfg.Canvas.Height = sess.Width, sess.Height
	a, err := app.New(&cfg)
	if err != nil {
		_ = store.Close()
		return nil, err
	}
	if err := a.Restore(ctx, sess.State); err != nil {
		a.Close()
		_ = store.Close()
		return nil, fmt.Errorf("restore session %q: %w", sess.Name, err)
	}
	return &sessionRun{store: store, app: a, sess: sess}, nil
}

func (r *sessionRun) save(ctx context.Context) error {
	r.sess.State = r.app.History.State()
	r.sess.Width, r.sess.Height = r.app.Canvas.Width(), r.app.Canvas.Height()
	r.sess.UpdatedAt = time.Time{}
	return r.store.Save(ctx, r.sess)
}

func (r *sessionRun) close() {
	r.app.Close()
	_ = r.store.Close()
}

func printStatus(w io.Writer, name string, st history.Status) {
	fmt.Fprintf(w, "session %s: %d/%d undo=%t redo=%t\n", name, st.Cursor+1, st.Len, st.CanUndo, st.CanRedo)
}

// SessionCommitOptions holds flags for session commit.
type SessionCommitOptions struct {
	*SessionOptions
	Image string
	Color string
	Mode  string
}

func newSessionCommitCommand(parent *SessionOptions) *cobra.Command {
	opts := &SessionCommitOptions{SessionOptions: parent}

	cmd := &cobra.Command{
		Use:          "commit",
		Short:        "Record an image as the next canvas state",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSessionCommit(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Image, "image", "", "canvas image (png, jpeg or webp)")
	cmd.Flags().StringVar(&opts.Color, "color", "", "drawing color recorded with the snapshot (hex)")
	cmd.Flags().StringVar(&opts.Mode, "mode", "", "tool mode recorded with the snapshot")
	_ = cmd.MarkFlagRequired("image")

	return cmd
}

func runSessionCommit(cmd *cobra.Command, opts *SessionCommitOptions) error {
	ctx := cmd.Context()
	pm, err := readImage(opts.Image)
	if err != nil {
		return err
	}
	var col *sketch.RGBA
	if opts.Color != "" {
		c, err := sketch.ParseHex(opts.Color)
		if err != nil {
			return fmt.Errorf("--color: %w", err)
		}
		col = &c
	}
	mode := sketch.Mode(0)
	if opts.Mode != "" {
		if mode, err = sketch.ParseMode(opts.Mode); err != nil {
			return fmt.Errorf("--mode: %w", err)
		}
	}

	run, err := openSession(ctx, opts.SessionOptions, func() (int, int, error) {
		return pm.Width(), pm.Height(), nil
	})
	if err != nil {
		return err
	}
	defer run.close()

	a := run.app
	if cur := a.History.Current(); cur != nil {
		a.Canvas.SetColor(cur.Color())
		a.Canvas.SetMode(cur.Mode())
	}
	if col != nil {
		a.Canvas.SetColor(*col)
	}
	if opts.Mode != "" {
		a.Canvas.SetMode(mode)
	}
	a.Canvas.Replace(pm)

	if err := a.Commands.Commit.Execute(ctx); err != nil {
		return err
	}
	if err := run.save(ctx); err != nil {
		return err
	}
	printStatus(cmd.OutOrStdout(), run.sess.Name, a.History.Status())
	return nil
}

func newSessionMoveCommand(opts *SessionOptions, name, short string) *cobra.Command {
	return &cobra.Command{
		Use:          name,
		Short:        short,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			run, err := openSession(ctx, opts, nil)
			if err != nil {
				return err
			}
			defer run.close()

			move := run.app.Commands.Undo
			if name == "redo" {
				move = run.app.Commands.Redo
			}
			before := run.app.History.Cursor()
			if err := move.Execute(ctx); err != nil {
				return err
			}
			if run.app.History.Cursor() != before {
				if err := run.save(ctx); err != nil {
					return err
				}
			}
			printStatus(cmd.OutOrStdout(), run.sess.Name, run.app.History.Status())
			return nil
		},
	}
}

func newSessionStatusCommand(opts *SessionOptions) *cobra.Command {
	return &cobra.Command{
		Use:          "status",
		Short:        "Show the history position of a session",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			run, err := openSession(cmd.Context(), opts, nil)
			if err != nil {
				return err
			}
			defer run.close()
			printStatus(cmd.OutOrStdout(), run.sess.Name, run.app.History.Status())
			return nil
		},
	}
}

// SessionExportOptions holds flags for session export.
type SessionExportOptions struct {
	*SessionOptions
	Format  string
	Filters string
	OutDir  string
}

func newSessionExportCommand(parent *SessionOptions) *cobra.Command {
	opts := &SessionExportOptions{SessionOptions: parent}

	cmd := &cobra.Command{
		Use:          "export",
		Short:        "Export the current canvas state of a session",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			run, err := openSession(ctx, opts.SessionOptions, nil)
			if err != nil {
				return err
			}
			defer run.close()

			cfg := *opts.Config
			cfg.Canvas.Width, cfg.Canvas.Height = run.sess.Width, run.sess.Height
			if opts.Filters != "" {
				cfg.Filters.Enabled = splitList(opts.Filters)
			}
			outDir := cfg.Export.OutDir
			if opts.OutDir != "" {
				outDir = opts.OutDir
			}
			if cfg.Export.Basename == "image" {
				cfg.Export.Basename = run.sess.Name
			}
			pm := run.app.Canvas.Pixmap()
			return exportCanvas(cmd, &cfg, outDir, opts.Format, func(a *app.App) error {
				a.Canvas.Replace(pm)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "format", "f", "png", "output format")
	cmd.Flags().StringVar(&opts.Filters, "filter", "", "comma separated filters; default from config")
	cmd.Flags().StringVarP(&opts.OutDir, "out", "o", "", "output directory; default from config")

	return cmd
}

func newSessionListCommand(opts *SessionOptions) *cobra.Command {
	return &cobra.Command{
		Use:          "list",
		Short:        "List archived sessions",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := archive.Open(opts.DB)
			if err != nil {
				return err
			}
			defer store.Close()

			infos, err := store.List(cmd.Context())
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tSIZE\tPOSITION\tUPDATED")
			for _, info := range infos {
				fmt.Fprintf(tw, "%s\t%dx%d\t%d/%d\t%s\n",
					info.Name, info.Width, info.Height, info.Cursor+1, info.Snapshots,
					info.UpdatedAt.Format(time.RFC3339))
			}
			return tw.Flush()
		},
	}
}

func newSessionDeleteCommand(opts *SessionOptions) *cobra.Command {
	return &cobra.Command{
		Use:          "delete",
		Short:        "Delete a session and its history",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.Session == "" {
				return fmt.Errorf("--session is required")
			}
			store, err := archive.Open(opts.DB)
			if err != nil {
				return err
			}
			defer store.Close()
			if err := store.Delete(cmd.Context(), opts.Session); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", opts.Session)
			return nil
		},
	}
}
