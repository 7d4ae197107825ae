// Package config loads build settings from a treeline.toml file.
//
// Every key is optional. A missing file yields [Default]:
//
//	build_dir    = "build"
//	template_dir = "_layouts"
//	extensions   = ["html"]
//	concurrency  = 8
//	dry_run      = false
package config

import (
	stderrors "errors"
	"io/fs"

	"github.com/BurntSushi/toml"
	"github.com/spf13/afero"

	"github.com/matzehuels/treeline/pkg/errors"
)

// FileName is the config file looked up in the working directory.
const FileName = "treeline.toml"

// Default values.
const (
	DefaultBuildDir    = "build"
	DefaultTemplateDir = "_layouts"
	DefaultExtension   = "html"
	DefaultConcurrency = 8
)

// Config holds build settings.
type Config struct {
	BuildDir    string   `toml:"build_dir"`
	TemplateDir string   `toml:"template_dir"`
	Extensions  []string `toml:"extensions"`
	Concurrency int      `toml:"concurrency"`
	DryRun      bool     `toml:"dry_run"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		BuildDir:    DefaultBuildDir,
		TemplateDir: DefaultTemplateDir,
		Extensions:  []string{DefaultExtension},
		Concurrency: DefaultConcurrency,
	}
}

// Load reads path from fsys. A missing file is not an error and returns
// [Default]. Keys absent from the file keep their default values.
func Load(fsys afero.Fs, path string) (Config, error) {
	cfg := Default()

	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return cfg, errors.Wrap(errors.ErrCodeIO, err, "read config '%s'", path)
	}

	if err := Parse(data, &cfg); err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse config '%s'", path)
	}
	return cfg, cfg.Validate()
}

// Parse decodes TOML data over cfg, leaving unset keys untouched.
// Unknown keys are rejected.
func Parse(data []byte, cfg *Config) error {
	md, err := toml.Decode(string(data), cfg)
	if err != nil {
		return err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return errors.New(errors.ErrCodeInvalidInput, "unknown key %q", undecoded[0].String())
	}
	return nil
}

// Validate checks every field.
func (c Config) Validate() error {
	if c.BuildDir == "" {
		return errors.New(errors.ErrCodeInvalidPath, "build_dir cannot be empty")
	}
	if err := errors.ValidateDir(c.TemplateDir); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidPath, err, "template_dir")
	}
	if len(c.Extensions) == 0 {
		return errors.New(errors.ErrCodeInvalidInput, "extensions cannot be empty")
	}
	for _, ext := range c.Extensions {
		if err := errors.ValidateExtension(ext); err != nil {
			return err
		}
	}
	return errors.ValidateConcurrency(c.Concurrency)
}
