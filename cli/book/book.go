package book

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/VictoriaMetrics/metrics"
	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"

	ds "github.com/oaiiae/addressbook/datastores"
	"github.com/oaiiae/addressbook/handlers"
	"github.com/oaiiae/addressbook/router"
)

type Options struct {
	Dir       string `doc:"directory holding the address book files"             default:"."`
	StoreFile string `doc:"address book loaded at start and saved after changes" default:"auto_save.bin"`
	Autosave  bool   `doc:"save the address book after every change"             default:"true"`
	Prompt    string `doc:"console prompt"                                       default:"Enter a command: "`
}

// Filesystem returns the OS filesystem rooted at Dir, the working directory when empty.
func (o *Options) Filesystem() billy.Filesystem {
	dir := o.Dir
	if dir == "" {
		dir = "."
	}
	return osfs.New(dir)
}

// Run loads the address book and runs the console until exit or end of input.
func Run(ctx context.Context, options *Options, fsys billy.Filesystem, logger *slog.Logger, in io.Reader, out io.Writer) error {
	r, err := open(ctx, options, fsys, logger)
	if err != nil {
		return err
	}
	console := &Console{
		Router:       r,
		In:           in,
		Out:          out,
		Label:        options.Prompt,
		ErrorHandler: ctxlog{}.errorHandler(logger),
	}
	return console.Run(ctx)
}

// Exec loads the address book and runs a single command line.
func Exec(ctx context.Context, options *Options, fsys billy.Filesystem, logger *slog.Logger, out io.Writer, line string) error {
	r, err := open(ctx, options, fsys, logger)
	if err != nil {
		return err
	}
	err = r.Dispatch(ctx, line, nil, out)
	if errors.Is(err, router.ErrExit) {
		return nil
	}
	return err
}

func open(ctx context.Context, options *Options, fsys billy.Filesystem, logger *slog.Logger) (*router.Router, error) {
	store := ds.NewContactsInmem()
	snapshot := &ds.Snapshot{FS: fsys, Path: handlers.SnapshotPath(options.StoreFile)}
	found, err := snapshot.Load(ctx, store)
	switch {
	case err != nil:
		return nil, err
	case !found:
		logger.Info("no existing address book found", "file", snapshot.Path)
	default:
		logger.Info("address book loaded", "file", snapshot.Path, "records", store.Len())
	}

	if !options.Autosave {
		snapshot = nil
	}
	return NewRouter(store, fsys, snapshot, metrics.NewSet(), logger, nil), nil
}

// NewRouter assembles the command handlers. A nil autosave disables saving after changes,
// a nil now defaults to [time.Now].
func NewRouter(
	store ds.ContactsStore,
	fsys billy.Filesystem,
	autosave *ds.Snapshot,
	metriks *metrics.Set,
	logger *slog.Logger,
	now func() time.Time,
) *router.Router {
	return router.New(
		router.OptUseMiddleware(
			ctxlog{}.loggerMiddleware(logger),
			meterCommands(metriks),
			ctxlog{}.recoverMiddleware(logger),
		),
		router.OptRegister(
			&handlers.Greeting{},
			&handlers.Contacts{
				Store:        store,
				Snapshot:     autosave,
				ErrorHandler: ctxlog{}.errorHandler(logger),
			},
			&handlers.Birthdays{Store: store, Now: now},
			&handlers.Snapshots{Store: store, FS: fsys},
			&handlers.Stats{Metrics: metriks},
		),
	)
}

// ctxlog is a [context.Context] key and acts as a virtual package for operations related to it.
type ctxlog struct{}

// loggerMiddleware returns a middleware that sets a [slog.Logger] in
// the [context.Context] and logs the command after it has terminated.
func (key ctxlog) loggerMiddleware(parent *slog.Logger) router.Middleware {
	return func(ctx context.Context, req *router.Request, next router.Handler) error {
		logger := parent.With("command", req.Command)

		start := time.Now()
		err := next(context.WithValue(ctx, key, logger), req)

		logger.LogAttrs(ctx, slog.LevelDebug, "command handled",
			slog.Int("args", len(req.Args)),
			slog.Bool("ok", err == nil || errors.Is(err, router.ErrExit)),
			slog.Duration("dur", time.Since(start)),
		)
		return err
	}
}

// recoverMiddleware returns a middleware that recovers and logs the value from panic.
// The command then fails with an internal error.
func (key ctxlog) recoverMiddleware(fallback *slog.Logger) router.Middleware {
	return func(ctx context.Context, req *router.Request, next router.Handler) (err error) {
		defer func() {
			v := recover()
			if v != nil {
				logger, ok := ctx.Value(key).(*slog.Logger)
				if !ok {
					logger = fallback
				}
				logger.LogAttrs(ctx, slog.LevelError, "panic occurred", slog.Any("recovered", v))
				err = &handlers.Error{Msg: "internal error", Err: fmt.Errorf("panic: %v", v)}
			}
		}()
		return next(ctx, req)
	}
}

// errorHandler returns a function that gets the [slog.Logger] from [context.Context] and logs the error.
// User mistakes are logged as warnings, anything else as errors.
func (key ctxlog) errorHandler(fallback *slog.Logger) func(context.Context, error) {
	return func(ctx context.Context, err error) {
		level := slog.LevelError
		switch {
		case errors.Is(err, ds.ErrInvalidInput),
			errors.Is(err, ds.ErrObjectExists),
			errors.Is(err, ds.ErrObjectNotFound),
			errors.Is(err, router.ErrUsage),
			errors.Is(err, router.ErrUnknownCommand):
			level = slog.LevelWarn
		}

		logger, ok := ctx.Value(key).(*slog.Logger)
		if !ok {
			logger = fallback
		}
		logger.LogAttrs(ctx, level, "error occurred", slog.Any("err", err))
	}
}

// outcome labels the result of a command for metrics.
func outcome(err error) string {
	switch {
	case err == nil, errors.Is(err, router.ErrExit):
		return "ok"
	case errors.Is(err, ds.ErrInvalidInput):
		return "invalid"
	case errors.Is(err, ds.ErrObjectExists):
		return "exists"
	case errors.Is(err, ds.ErrObjectNotFound):
		return "not_found"
	case errors.Is(err, router.ErrUsage):
		return "usage"
	default:
		return "error"
	}
}

func meterCommands(set *metrics.Set) router.Middleware {
	type ref struct {
		*metrics.Counter
		*metrics.PrometheusHistogram
	}

	refs := sync.Map{}
	refsMu := sync.Mutex{}
	buckets := metrics.ExponentialBuckets(1e-5, 5, 6) //nolint: mnd // arbitrary

	return func(ctx context.Context, req *router.Request, next router.Handler) error {
		start := time.Now()
		err := next(ctx, req)

		result := outcome(err)
		uid := req.Command + "\x00" + result
		val, ok := refs.Load(uid)
		if !ok {
			refsMu.Lock()
			val, ok = refs.Load(uid)
			if !ok {
				labels := joinQuote("{command=", req.Command, ",outcome=", result, "}")
				val = ref{
					set.NewCounter("commands_total" + labels),
					set.NewPrometheusHistogramExt("command_duration_seconds"+labels, buckets),
				}
				refs.Store(uid, val)
			}
			refsMu.Unlock()
		}
		valref := val.(ref) //nolint: errcheck // always true
		valref.Counter.Inc()
		valref.PrometheusHistogram.UpdateDuration(start)
		return err
	}
}

// joinQuote is [strings.Join] with " as separator.
func joinQuote(elems ...string) string { return strings.Join(elems, `"`) }
