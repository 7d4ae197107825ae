// Package pipeline provides the build pipeline for treeline.
//
// This package implements the complete discover → render → write pipeline used
// by the CLI. By centralizing this logic, every entry point builds a site the
// same way.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Discover: Load every layout into a registry, then every page resolved
//     against it
//  2. Render: Merge each page into its root layout
//  3. Write: Store each merged page over its source file
//
// Discovery completes before any page is rendered. Pages render concurrently,
// bounded by [Options.Concurrency]. The first failure cancels the remaining
// pages and fails the whole build.
//
// # Usage
//
//	runner := pipeline.NewRunner(afero.NewOsFs(), logger)
//	result, err := runner.Execute(ctx, pipeline.Options{BuildDir: "build"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.Stats.Pages, "pages")
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/treeline/pkg/config"
	"github.com/matzehuels/treeline/pkg/errors"
	"github.com/matzehuels/treeline/pkg/source"
)

// Options contains all configuration for a build.
type Options struct {
	BuildDir    string
	TemplateDir string
	Extensions  []string
	Concurrency int
	DryRun      bool // Render every page but write nothing

	Logger *log.Logger

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// FromConfig returns options carrying the values of cfg.
func FromConfig(cfg config.Config) Options {
	return Options{
		BuildDir:    cfg.BuildDir,
		TemplateDir: cfg.TemplateDir,
		Extensions:  cfg.Extensions,
		Concurrency: cfg.Concurrency,
		DryRun:      cfg.DryRun,
	}
}

// ValidateAndSetDefaults checks required fields and applies defaults.
// This method is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.BuildDir == "" {
		o.BuildDir = config.DefaultBuildDir
	}
	if o.TemplateDir == "" {
		o.TemplateDir = config.DefaultTemplateDir
	}
	if len(o.Extensions) == 0 {
		o.Extensions = []string{config.DefaultExtension}
	}
	if o.Concurrency == 0 {
		o.Concurrency = config.DefaultConcurrency
	}
	if err := errors.ValidateConcurrency(o.Concurrency); err != nil {
		return err
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// SourceOptions returns the discovery options for this build.
func (o *Options) SourceOptions() source.Options {
	return source.Options{
		BuildDir:    o.BuildDir,
		TemplateDir: o.TemplateDir,
		Extensions:  o.Extensions,
		Logger:      o.Logger,
	}
}

// Result contains the outputs of a build.
type Result struct {
	// Site is what discovery found.
	Site *source.Site

	// Pages holds one entry per page, in discovery order.
	Pages []PageResult

	// Stats contains timing and size information.
	Stats Stats
}

// PageResult describes one rendered page.
type PageResult struct {
	Label  string // Page label, e.g. "index"
	Path   string // Where the page was (or would be) written
	Root   string // Label of the root layout, or the page itself when it has none
	Source string // Label of the document whose fragments filled the root layout
	Bytes  int    // Size of the merged output
}

// Indirect reports whether the root layout was filled from an intermediate
// layout instead of the page itself.
func (p PageResult) Indirect() bool {
	return p.Source != p.Label
}

// Stats contains build statistics.
type Stats struct {
	Layouts      int
	Pages        int
	Written      int
	Bytes        int
	DiscoverTime time.Duration
	RenderTime   time.Duration
}
