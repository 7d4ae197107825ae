// Package source discovers the layouts and pages of a build directory.
//
// Layouts are the files below the template directory. Pages are every other
// matching file below the build directory. Hidden files and directories are
// skipped, and only files whose extension is listed in [Options.Extensions]
// are loaded.
package source

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"

	"github.com/matzehuels/treeline/pkg/document"
	"github.com/matzehuels/treeline/pkg/errors"
	"github.com/matzehuels/treeline/pkg/registry"
)

// Defaults applied by [Options.ValidateAndSetDefaults].
const (
	DefaultTemplateDir = "_layouts"
	DefaultExtension   = "html"
)

// Options controls discovery.
type Options struct {
	BuildDir    string   // Root of the build output, e.g. "build"
	TemplateDir string   // Layout directory relative to BuildDir
	Extensions  []string // File extensions to load, with or without a leading dot

	Logger *log.Logger
}

// ValidateAndSetDefaults checks the options and fills in defaults.
func (o *Options) ValidateAndSetDefaults() error {
	if o.BuildDir == "" {
		o.BuildDir = "."
	}
	if o.TemplateDir == "" {
		o.TemplateDir = DefaultTemplateDir
	}
	if err := errors.ValidateDir(o.TemplateDir); err != nil {
		return err
	}
	if len(o.Extensions) == 0 {
		o.Extensions = []string{DefaultExtension}
	}
	for _, ext := range o.Extensions {
		if err := errors.ValidateExtension(ext); err != nil {
			return err
		}
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// Site is the result of discovery.
type Site struct {
	BuildDir    string
	TemplateDir string // BuildDir joined with the template directory
	Layouts     *registry.Registry
	Pages       []*document.Document
}

// Discover loads every layout into a registry and every page resolved
// against it. Layouts are fully registered before any page is resolved.
func Discover(ctx context.Context, fsys afero.Fs, opts Options) (*Site, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	logger := opts.Logger

	site := &Site{
		BuildDir:    filepath.Clean(opts.BuildDir),
		TemplateDir: filepath.Join(opts.BuildDir, opts.TemplateDir),
	}

	for _, dir := range []string{site.BuildDir, site.TemplateDir} {
		ok, err := afero.DirExists(fsys, dir)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeIO, err, "stat '%s'", dir)
		}
		if !ok {
			return nil, errors.New(errors.ErrCodeFileNotFound, "directory '%s' does not exist", dir)
		}
	}

	docOpts := []document.Option{document.WithLogger(logger)}

	var layouts []*document.Document
	err := walk(ctx, fsys, site.TemplateDir, "", opts.Extensions, func(dir, name string) error {
		d, err := document.Load(fsys, dir, name, docOpts...)
		if err != nil {
			return err
		}
		layouts = append(layouts, d)
		return nil
	})
	if err != nil {
		return nil, err
	}

	reg, err := registry.New(layouts)
	if err != nil {
		return nil, err
	}
	site.Layouts = reg
	logger.Debug("registered layouts", "dir", site.TemplateDir, "count", reg.Len())

	err = walk(ctx, fsys, site.BuildDir, site.TemplateDir, opts.Extensions, func(dir, name string) error {
		d, err := document.New(fsys, dir, name, reg, docOpts...)
		if err != nil {
			return err
		}
		site.Pages = append(site.Pages, d)
		return nil
	})
	if err != nil {
		return nil, err
	}
	logger.Debug("discovered pages", "dir", site.BuildDir, "count", len(site.Pages))

	return site, nil
}

// walk calls fn for every non-hidden file below root with a matching
// extension, in lexical order. The exclude subtree is skipped.
func walk(ctx context.Context, fsys afero.Fs, root, exclude string, exts []string, fn func(dir, name string) error) error {
	err := afero.Walk(fsys, root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		// skip hidden files and directories.
		name := info.Name()
		if strings.HasPrefix(name, ".") && path != root {
			if info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if info.IsDir() {
			if exclude != "" && filepath.Clean(path) == filepath.Clean(exclude) {
				return filepath.SkipDir
			}
			return nil
		}

		if !ValidExt(exts, filepath.Ext(name)) {
			return nil
		}
		return fn(filepath.Dir(path), name)
	})
	if err == nil {
		return nil
	}
	if errors.GetCode(err) != "" {
		return err
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return errors.Wrap(errors.ErrCodeIO, err, "walk '%s'", root)
}

// ValidExt reports whether ext is one of exts. Leading dots are ignored and
// the comparison is case-insensitive.
func ValidExt(exts []string, ext string) bool {
	if ext == "" {
		return false
	}
	for _, e := range exts {
		if strings.EqualFold(strings.TrimPrefix(e, "."), strings.TrimPrefix(ext, ".")) {
			return true
		}
	}
	return false
}
