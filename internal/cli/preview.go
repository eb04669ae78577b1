package cli

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"
	"github.com/yuin/goldmark"

	"github.com/doppelganger/archviz/pkg/config"
	"github.com/doppelganger/archviz/pkg/diagram/batch"
)

// watchDebounce coalesces bursts of filesystem events into one rebuild.
const watchDebounce = 500 * time.Millisecond

// previewOpts holds the command-line flags for the preview command.
type previewOpts struct {
	configPath string
	addr       string
	noCache    bool
}

// previewCommand creates the preview command: generate the diagrams, serve
// them over HTTP, and re-generate when topology or config files change.
func (c *CLI) previewCommand() *cobra.Command {
	var opts previewOpts

	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Serve the rendered diagrams with live re-generation",
		Long: `Serve the rendered diagrams over HTTP for documentation review.

The preview server renders the full batch on startup, serves the output
directory along with an index page, and watches the config file and
topology directories: any change triggers a re-render.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runPreview(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.configPath, "config", "", "config file (default archviz.toml if present)")
	cmd.Flags().StringVar(&opts.addr, "addr", "", "listen address (overrides config)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the render artifact cache")

	return cmd
}

// previewServer holds the state shared between the HTTP handlers and the
// rebuild loop.
type previewServer struct {
	cli        *CLI
	configPath string
	runner     *batch.Runner

	mu     sync.RWMutex
	cfg    config.Config
	report *batch.Report
}

func (c *CLI) runPreview(ctx context.Context, opts previewOpts) error {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	if opts.addr != "" {
		cfg.PreviewAddr = opts.addr
	}

	ps := &previewServer{
		cli:        c,
		configPath: opts.configPath,
		runner:     c.newRunner(opts.noCache),
		cfg:        cfg,
	}
	defer ps.runner.Close()

	if err := ps.regenerate(ctx); err != nil {
		// A broken initial state is still previewable; the index shows
		// the error and a file change can fix it.
		c.Logger.Error("initial generation failed", "error", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	for _, p := range cfg.WatchPaths(opts.configPath) {
		if err := watcher.Add(p); err != nil {
			c.Logger.Warn("cannot watch path", "path", p, "error", err)
		} else {
			c.Logger.Debug("watching", "path", p)
		}
	}

	go ps.watchLoop(ctx, watcher)

	srv := &http.Server{
		Addr:              cfg.PreviewAddr,
		Handler:           ps.handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		c.Logger.Info("preview server listening", "addr", cfg.PreviewAddr)
		printInfo("Preview at http://%s", cfg.PreviewAddr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		return ctx.Err()
	case err := <-errCh:
		return err
	}
}

// regenerate rebuilds the registry from the current config and re-runs the
// batch. The registry is rebuilt each time so new topology files are picked
// up without restarting the server.
func (ps *previewServer) regenerate(ctx context.Context) error {
	cfg, reg, err := ps.cli.resolve(ps.configPath, "", "")
	if err != nil {
		return err
	}

	report, err := ps.runner.Run(ctx, reg, batch.Options{
		OutputDir: cfg.OutputDir,
		Format:    cfg.Format,
	})
	if err != nil {
		return err
	}

	ps.mu.Lock()
	ps.cfg = cfg
	ps.report = report
	ps.mu.Unlock()
	return nil
}

// watchLoop re-generates after relevant filesystem events, debounced.
func (ps *previewServer) watchLoop(ctx context.Context, watcher *fsnotify.Watcher) {
	var timer *time.Timer
	trigger := make(chan struct{}, 1)

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-watcher.Events:
			if !ok {
				return
			}
			if !relevantEvent(ev) {
				continue
			}
			ps.cli.Logger.Debug("change detected", "path", ev.Name, "op", ev.Op)
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(watchDebounce, func() {
				select {
				case trigger <- struct{}{}:
				default:
				}
			})
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			ps.cli.Logger.Warn("watch error", "error", err)
		case <-trigger:
			ps.cli.Logger.Info("re-generating diagrams")
			if err := ps.regenerate(ctx); err != nil {
				ps.cli.Logger.Error("re-generation failed", "error", err)
			}
		}
	}
}

// relevantEvent filters watcher noise down to config/topology changes.
func relevantEvent(ev fsnotify.Event) bool {
	if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}
	switch strings.ToLower(filepath.Ext(ev.Name)) {
	case ".yaml", ".yml", ".toml":
		return true
	}
	return false
}

// handler builds the chi router: the index page plus the diagram files.
func (ps *previewServer) handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/", ps.handleIndex)
	r.Get("/diagrams/*", ps.handleDiagram)

	return r
}

// handleIndex renders the markdown index of diagrams as HTML.
func (ps *previewServer) handleIndex(w http.ResponseWriter, r *http.Request) {
	ps.mu.RLock()
	report := ps.report
	format := ps.cfg.Format
	ps.mu.RUnlock()

	md := indexMarkdown(report, format)

	var body bytes.Buffer
	if err := goldmark.Convert([]byte(md), &body); err != nil {
		http.Error(w, "render index: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprintf(w, indexShell, body.String())
}

// handleDiagram serves a rendered diagram file from the output directory.
func (ps *previewServer) handleDiagram(w http.ResponseWriter, r *http.Request) {
	ps.mu.RLock()
	dir := ps.cfg.OutputDir
	ps.mu.RUnlock()

	name := chi.URLParam(r, "*")
	// The output directory is flat; reject anything that walks out of it.
	if name == "" || name != filepath.Base(name) {
		http.NotFound(w, r)
		return
	}
	http.ServeFile(w, r, filepath.Join(dir, name))
}

// indexMarkdown builds the markdown source for the index page.
func indexMarkdown(report *batch.Report, format string) string {
	var b strings.Builder
	b.WriteString("# Architecture Diagrams\n\n")

	if report == nil {
		b.WriteString("No diagrams generated yet. Check the server log for errors.\n")
		return b.String()
	}

	fmt.Fprintf(&b, "_Run `%s` — %s._\n\n", report.RunID, report.Summary())

	for _, res := range report.Results {
		if res.Failed() {
			fmt.Fprintf(&b, "- ✗ **%s** — `%s`\n", res.Name, res.Err)
			continue
		}
		file := res.Stem + "." + format
		fmt.Fprintf(&b, "- ✓ [%s](/diagrams/%s)\n", res.Name, file)
	}
	return b.String()
}

// indexShell is the HTML wrapper around the goldmark-rendered index body.
const indexShell = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Architecture Diagrams</title>
<style>
body { font-family: sans-serif; max-width: 48rem; margin: 2rem auto; padding: 0 1rem; }
code { background: #f4f4f4; padding: 0.1rem 0.3rem; border-radius: 3px; }
li { margin: 0.4rem 0; }
</style>
</head>
<body>
%s
</body>
</html>
`
