package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/treeline/pkg/document"
	"github.com/matzehuels/treeline/pkg/observability"
	"github.com/matzehuels/treeline/pkg/source"
)

// Runner encapsulates pipeline execution over a filesystem.
//
// The Runner is stateless except for the filesystem and logger. It doesn't
// store build results, so multiple goroutines can safely use the same Runner
// with different options.
type Runner struct {
	Fs     afero.Fs
	Logger *log.Logger
}

// NewRunner creates a runner. If fsys is nil the OS filesystem is used.
func NewRunner(fsys afero.Fs, logger *log.Logger) *Runner {
	if fsys == nil {
		fsys = afero.NewOsFs()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Fs:     fsys,
		Logger: logger,
	}
}

// Execute runs the complete discover → render → write pipeline.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{}

	// Stage 1: Discover
	discoverStart := time.Now()
	site, err := r.Discover(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("discover: %w", err)
	}
	result.Site = site
	result.Stats.DiscoverTime = time.Since(discoverStart)
	result.Stats.Layouts = site.Layouts.Len()
	result.Stats.Pages = len(site.Pages)

	r.Logger.Info("discovered site",
		"layouts", result.Stats.Layouts,
		"pages", result.Stats.Pages,
		"duration", result.Stats.DiscoverTime)

	// Stages 2 and 3: Render and write each page
	renderStart := time.Now()
	pages, err := r.RenderAll(ctx, site.Pages, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Pages = pages
	result.Stats.RenderTime = time.Since(renderStart)
	for _, p := range pages {
		result.Stats.Bytes += p.Bytes
	}
	if !opts.DryRun {
		result.Stats.Written = len(pages)
	}

	r.Logger.Info("rendered pages",
		"pages", len(pages),
		"written", result.Stats.Written,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Discover loads the site described by opts.
func (r *Runner) Discover(ctx context.Context, opts Options) (*source.Site, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	hooks := observability.Build()
	hooks.OnDiscoverStart(ctx, opts.BuildDir)
	start := time.Now()

	site, err := source.Discover(ctx, r.Fs, opts.SourceOptions())

	layouts, pages := 0, 0
	if site != nil {
		layouts, pages = site.Layouts.Len(), len(site.Pages)
	}
	hooks.OnDiscoverComplete(ctx, opts.BuildDir, layouts, pages, time.Since(start), err)
	return site, err
}

// RenderAll renders every page concurrently and, unless opts.DryRun is set,
// writes each one. The first error stops the build.
func (r *Runner) RenderAll(ctx context.Context, pages []*document.Document, opts Options) ([]PageResult, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	results := make([]PageResult, len(pages))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Concurrency)

	for i, page := range pages {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := r.RenderPage(ctx, page, opts.DryRun)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// RenderPage merges a single page into its root layout and writes the result
// over the page's own file unless dryRun is set.
//
// In a chain of three or more documents the root layout is filled from the
// layout directly below it, not from the page. The merged markup is still
// written to the page's path, and a warning is logged.
func (r *Runner) RenderPage(ctx context.Context, page *document.Document, dryRun bool) (PageResult, error) {
	hooks := observability.Build()
	hooks.OnRenderStart(ctx, page.Label())
	start := time.Now()

	chain := page.Chain()
	root := chain[len(chain)-1]

	rendered, err := page.Render(nil)
	if err != nil {
		hooks.OnRenderComplete(ctx, page.Label(), root.Label(), 0, time.Since(start), err)
		return PageResult{}, err
	}
	out, _ := rendered.Output()
	hooks.OnRenderComplete(ctx, page.Label(), root.Label(), len(out), time.Since(start), nil)

	res := PageResult{
		Label:  page.Label(),
		Path:   page.Path(),
		Root:   root.Label(),
		Source: rendered.Label(),
		Bytes:  len(out),
	}
	if res.Indirect() {
		r.Logger.Warn("page fragments ignored; root layout filled from intermediate layout",
			"page", res.Label, "layout", res.Source, "root", res.Root)
	}
	r.Logger.Debug("rendered page", "page", res.Label, "root", res.Root, "bytes", res.Bytes)

	if dryRun {
		return res, nil
	}

	err = rendered.WriteFile(page.Path())
	hooks.OnWrite(ctx, page.Path(), len(out), err)
	if err != nil {
		return PageResult{}, err
	}
	return res, nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
