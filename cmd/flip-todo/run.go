package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	goredis "github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"github.com/zoobzio/flip"
	"github.com/zoobzio/flip/examples/todo"
	"github.com/zoobzio/flip/pkg/prometheus"
	"github.com/zoobzio/flip/pkg/redis"
	"github.com/zoobzio/flip/store"
	"github.com/zoobzio/flip/view"
	"github.com/zoobzio/pipz"
)

const errorHistorySize = 16

var (
	knownActionID = pipz.NewIdentity("flip-todo:known-action", "Rejects actions the todo reducer cannot apply")
	logActionID   = pipz.NewIdentity("flip-todo:log-action", "Logs every dispatched action")
)

var (
	// ErrUnknownAction is returned for action types the todo reducer ignores.
	ErrUnknownAction = errors.New("unknown action type")

	// ErrNotLineDelimited is returned when --watch is given a file that does
	// not hold one action per line.
	ErrNotLineDelimited = errors.New("watched files must be .jsonl or .ndjson")
)

// stdinArg names standard input among the run arguments.
const stdinArg = "-"

type runOptions struct {
	title        string
	watch        bool
	plain        bool
	redisAddr    string
	redisChannel string
	redisBacklog string
	metricsAddr  string
	rate         float64
}

func newRunCmd(a *app) *cobra.Command {
	opts := &runOptions{}

	cmd := &cobra.Command{
		Use:   "run [files...]",
		Short: "Dispatch actions and render the todo list",
		Long: `Dispatches every action in the given files, in order, and renders the list.

Files hold a single action or a list of actions as JSON or YAML (chosen by
extension). Files ending in .jsonl or .ndjson hold one action per line. The
argument "-" reads one JSON action per line from standard input.

With --watch the files, which must then be .jsonl or .ndjson, are tailed as
action logs: every line appended is dispatched and the list is rendered
again. With --redis-addr actions are also read from a Redis channel. Both run
until interrupted.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return a.run(ctx, cmd, opts, args)
		},
	}

	cmd.Flags().StringVar(&opts.title, "title", "Todo", "Heading of the rendered list")
	cmd.Flags().BoolVarP(&opts.watch, "watch", "w", false, "Tail the files and dispatch appended actions")
	cmd.Flags().BoolVar(&opts.plain, "plain", false, "Print raw Markdown instead of styled output")
	cmd.Flags().StringVar(&opts.redisAddr, "redis-addr", "", "Redis address to read actions from")
	cmd.Flags().StringVar(&opts.redisChannel, "redis-channel", "flip:todo:actions", "Redis channel carrying actions")
	cmd.Flags().StringVar(&opts.redisBacklog, "redis-backlog", "", "Redis list replayed before the channel")
	cmd.Flags().StringVar(&opts.metricsAddr, "metrics-addr", "", "Address to serve Prometheus metrics on")
	cmd.Flags().Float64Var(&opts.rate, "rate", 0, "Maximum actions dispatched per second (0 for no limit)")

	return cmd
}

func (a *app) run(ctx context.Context, cmd *cobra.Command, opts *runOptions, files []string) error {
	var paths []string
	readStdin := false
	for _, arg := range files {
		if arg == stdinArg {
			readStdin = true
			continue
		}
		if opts.watch && !isLineDelimited(arg) {
			return fmt.Errorf("%w: %s", ErrNotLineDelimited, arg)
		}
		paths = append(paths, arg)
	}

	p, err := newPrinter(cmd.OutOrStdout(), opts.plain)
	if err != nil {
		return err
	}

	st := store.New(todo.Reducer, store.WithMiddleware(a.middleware(opts)...)).
		Codec(sourceCodec(paths)).
		ErrorHistorySize(errorHistorySize)

	if opts.metricsAddr != "" {
		provider := prometheus.New("flip_todo")
		reg := prom.NewRegistry()
		if err := provider.Register(reg); err != nil {
			return fmt.Errorf("failed to register metrics: %w", err)
		}
		st.Metrics(provider)

		shutdown := a.serveMetrics(opts.metricsAddr, reg)
		defer shutdown()
	}

	binding := view.New[todo.State, todo.OwnProps, todo.ListProps, todo.ListActions](st)
	list := flip.Connect[todo.State, todo.OwnProps, todo.ListProps, todo.ListActions](binding, todo.MapState, todo.MapDispatch)(todo.Render)
	own := todo.OwnProps{Title: opts.title}

	if !opts.watch {
		for _, path := range paths {
			if err := dispatchFile(ctx, st, path); err != nil {
				return err
			}
		}
	}

	var watchers []store.Watcher
	if readStdin {
		watchers = append(watchers, store.NewLineWatcher(cmd.InOrStdin()))
	}
	if opts.watch {
		for _, path := range paths {
			watchers = append(watchers, store.NewFileWatcher(path))
		}
	}
	if opts.redisAddr != "" {
		client := goredis.NewClient(&goredis.Options{Addr: opts.redisAddr})
		defer client.Close()

		var ropts []redis.Option
		if opts.redisBacklog != "" {
			ropts = append(ropts, redis.WithBacklog(opts.redisBacklog))
		}
		watchers = append(watchers, redis.New(client, opts.redisChannel, ropts...))
	}

	if len(watchers) == 0 {
		return p.print(list(own))
	}

	// Standard input alone is a finite batch: render once when it ends.
	if !opts.watch && opts.redisAddr == "" {
		if err := a.watch(ctx, st, watchers); err != nil {
			return err
		}
		if err := st.LastError(); err != nil {
			return fmt.Errorf("stdin: %w", err)
		}
		return p.print(list(own))
	}

	unmount := view.Mount(st, list, own, func(md string) {
		if err := p.print(md); err != nil {
			a.logger.Error("failed to print list", "error", err)
		}
	})
	defer unmount()

	return a.watch(ctx, st, watchers)
}

// middleware builds the dispatch middleware: unknown actions and payloads
// their handler cannot accept are rejected, the rest are logged and
// optionally rate limited.
func (a *app) middleware(opts *runOptions) []pipz.Chainable[*store.Request[todo.State]] {
	known := store.UseApply[todo.State](knownActionID, func(_ context.Context, req *store.Request[todo.State]) (*store.Request[todo.State], error) {
		handle, ok := todo.ActionMap.Lookup(req.Action.Type)
		if !ok {
			return req, fmt.Errorf("%w: %q", ErrUnknownAction, req.Action.Type)
		}
		if _, err := handle(req.Action); err != nil {
			return req, err
		}
		return req, nil
	})
	logged := store.UseEffect[todo.State](logActionID, func(ctx context.Context, req *store.Request[todo.State]) error {
		a.logger.DebugContext(ctx, "dispatching", "type", req.Action.Type)
		return nil
	})

	if opts.rate > 0 {
		burst := int(opts.rate)
		if burst < 1 {
			burst = 1
		}
		logged = store.UseRateLimit(opts.rate, burst, logged)
	}
	return []pipz.Chainable[*store.Request[todo.State]]{known, logged}
}

// watch dispatches from every watcher until ctx ends or all sources close.
func (a *app) watch(ctx context.Context, st *store.Store[todo.State], watchers []store.Watcher) error {
	err := st.Watch(ctx, store.Merge(watchers...))
	for _, recorded := range st.ErrorHistory() {
		a.logger.Debug("recorded error", "error", recorded)
	}
	if err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}

func (a *app) serveMetrics(addr string, reg *prom.Registry) (shutdown func()) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		a.logger.Info("serving metrics", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Error("metrics server failed", "error", err)
		}
	}()

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}
}

// dispatchFile dispatches every action in the file at path.
func dispatchFile(ctx context.Context, st *store.Store[todo.State], path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	actions, err := decodeFile(path, raw)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	for _, action := range actions {
		if err := st.Dispatch(ctx, action); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
	}
	return nil
}

func decodeFile(path string, raw []byte) ([]flip.Action, error) {
	codec := codecFor(path)
	if !isLineDelimited(path) {
		return store.DecodeActions(codec, raw)
	}

	var actions []flip.Action
	for _, line := range bytes.Split(raw, []byte("\n")) {
		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			continue
		}
		decoded, err := store.DecodeActions(codec, line)
		if err != nil {
			return nil, err
		}
		actions = append(actions, decoded...)
	}
	return actions, nil
}

func codecFor(path string) store.Codec {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return store.YAMLCodec{}
	}
	return store.JSONCodec{}
}

func isLineDelimited(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jsonl", ".ndjson":
		return true
	}
	return false
}

// sourceCodec picks the codec for watched sources. YAML also accepts JSON
// documents, so it is used whenever any file is YAML.
func sourceCodec(files []string) store.Codec {
	for _, path := range files {
		if _, ok := codecFor(path).(store.YAMLCodec); ok {
			return store.YAMLCodec{}
		}
	}
	return store.JSONCodec{}
}
