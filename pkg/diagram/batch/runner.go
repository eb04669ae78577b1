// Package batch runs a set of diagram generators and writes their rendered
// images to an output directory.
//
// The batch contract follows the documentation tooling it serves: every
// generator is attempted, a failing generator is reported but never aborts
// the batch, and re-running with an unchanged generator list overwrites the
// output files with equivalent content.
package batch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/doppelganger/archviz/pkg/cache"
	"github.com/doppelganger/archviz/pkg/diagram"
	"github.com/doppelganger/archviz/pkg/errors"
)

// artifactTTL bounds how long cached render artifacts are kept.
const artifactTTL = 30 * 24 * time.Hour

// Options configures a batch run.
type Options struct {
	// OutputDir is created if absent. Required.
	OutputDir string

	// Format is the output image format (png, jpg, svg, dot).
	Format string
}

// Result is the outcome of a single generator within a batch.
type Result struct {
	Name     string        // diagram display name
	Stem     string        // output file stem
	Path     string        // intended output path (set even on failure)
	Err      error         // nil on success
	Cached   bool          // artifact came from the render cache
	Duration time.Duration // time spent generating and rendering
}

// Failed reports whether this diagram failed.
func (r Result) Failed() bool { return r.Err != nil }

// Report summarizes a batch run.
type Report struct {
	RunID    string // unique identifier for this batch run
	Results  []Result
	Duration time.Duration
}

// Failures returns the results for diagrams that failed.
func (rep *Report) Failures() []Result {
	var out []Result
	for _, r := range rep.Results {
		if r.Failed() {
			out = append(out, r)
		}
	}
	return out
}

// Succeeded returns the number of diagrams that rendered successfully.
func (rep *Report) Succeeded() int {
	return len(rep.Results) - len(rep.Failures())
}

// Runner executes diagram batches. It is stateless apart from the artifact
// cache and logger; generators run strictly sequentially.
type Runner struct {
	Cache  cache.Cache
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache.
// If c is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, logger *log.Logger) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Logger: logger}
}

// Close releases the runner's cache.
func (r *Runner) Close() error {
	return r.Cache.Close()
}

// Run renders every generator in the registry into opts.OutputDir.
//
// Each generator gets a fresh drawing context. Errors (and panics) raised
// while a generator declares its topology or while Graphviz renders it are
// captured in that generator's Result; subsequent generators still run.
// Run itself only fails for batch-level problems: invalid options or an
// output directory that cannot be created.
func (r *Runner) Run(ctx context.Context, reg *diagram.Registry, opts Options) (*Report, error) {
	if opts.OutputDir == "" {
		return nil, errors.New(errors.ErrCodeInvalidPath, "output directory is required")
	}
	if err := diagram.ValidateFormat(opts.Format); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "create output directory %s", opts.OutputDir)
	}

	report := &Report{RunID: uuid.NewString()}
	start := time.Now()

	r.Logger.Info("generating diagrams", "run", report.RunID, "count", reg.Len(), "dir", opts.OutputDir)

	for _, g := range reg.All() {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		report.Results = append(report.Results, r.runOne(ctx, g, opts))
	}

	report.Duration = time.Since(start)
	r.Logger.Info("batch complete",
		"run", report.RunID,
		"succeeded", report.Succeeded(),
		"failed", len(report.Failures()),
		"duration", report.Duration.Round(time.Millisecond))
	return report, nil
}

// runOne generates and renders a single diagram, capturing any failure.
func (r *Runner) runOne(ctx context.Context, g diagram.Generator, opts Options) Result {
	res := Result{
		Name: g.Name(),
		Stem: g.FileName(),
		Path: filepath.Join(opts.OutputDir, g.FileName()+"."+opts.Format),
	}
	start := time.Now()
	defer func() {
		res.Duration = time.Since(start)
	}()

	r.Logger.Debug("generating", "diagram", res.Name, "path", res.Path)

	dot, err := buildDOT(g)
	if err != nil {
		res.Err = err
		return res
	}

	data, cached, err := r.renderCached(ctx, dot, opts.Format)
	if err != nil {
		res.Err = errors.Wrap(errors.ErrCodeRenderFailed, err, "render %s", res.Name)
		return res
	}
	res.Cached = cached

	if err := os.WriteFile(res.Path, data, 0644); err != nil {
		res.Err = errors.Wrap(errors.ErrCodeInvalidPath, err, "write %s", res.Path)
	}
	return res
}

// buildDOT runs the generator into a fresh context and emits DOT.
// A panic inside Generate is recovered and reported as that diagram's
// failure so one broken declaration cannot take down the batch.
func buildDOT(g diagram.Generator) (dot string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = errors.New(errors.ErrCodeInternal, "panic in %s: %v", g.Name(), rec)
		}
	}()

	c := diagram.NewContext(g.Name())
	if genErr := g.Generate(c); genErr != nil {
		return "", errors.Wrap(errors.ErrCodeRenderFailed, genErr, "generate %s", g.Name())
	}
	return diagram.ToDOT(c), nil
}

// renderCached renders DOT to the requested format, consulting the artifact
// cache first. Cache failures degrade to a fresh render.
func (r *Runner) renderCached(ctx context.Context, dot, format string) ([]byte, bool, error) {
	key := cache.ArtifactKey(dot, format)

	if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
		return data, true, nil
	} else if err != nil {
		r.Logger.Debug("cache read failed", "error", err)
	}

	data, err := diagram.Render(ctx, dot, format)
	if err != nil {
		return nil, false, err
	}

	if err := r.Cache.Set(ctx, key, data, artifactTTL); err != nil {
		r.Logger.Debug("cache write failed", "error", err)
	}
	return data, false, nil
}

// Summary returns a one-line human-readable summary of the report.
func (rep *Report) Summary() string {
	failed := len(rep.Failures())
	if failed == 0 {
		return fmt.Sprintf("%d diagram(s) generated", rep.Succeeded())
	}
	return fmt.Sprintf("%d diagram(s) generated, %d failed", rep.Succeeded(), failed)
}
