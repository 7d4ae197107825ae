// Package cli implements the treeline command-line interface.
package cli

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/matzehuels/treeline/pkg/buildinfo"
	"github.com/matzehuels/treeline/pkg/config"
	"github.com/matzehuels/treeline/pkg/pipeline"
)

// appName is the application name used for display.
const appName = "treeline"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Fs     afero.Fs

	configPath string
}

// New creates a new CLI instance working on the OS filesystem.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger:     newLogger(w, level),
		Fs:         afero.NewOsFs(),
		configPath: config.FileName,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           appName,
		Short:         "Treeline merges HTML pages into the layouts they extend",
		Long:          `Treeline is a build step for static sites. Pages name a layout with a <!--treeline:extends:NAME--> comment and supply named <template data-treeline-contents> fragments, which are spliced into the layout's <!--treeline:includes:NAME--> gaps.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVarP(&c.configPath, "config", "c", c.configPath, "config file")

	// Register all subcommands
	root.AddCommand(c.buildCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.graphCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Options Helpers
// =============================================================================

// siteFlags are the flags shared by every command that reads a build directory.
type siteFlags struct {
	templates   string
	extensions  []string
	concurrency int
	dryRun      bool
}

func (f *siteFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.templates, "templates", "", "layout directory, relative to the build directory (default \"_layouts\")")
	cmd.Flags().StringSliceVar(&f.extensions, "ext", nil, "file extensions to process (default html)")
}

// loadOptions reads the config file and applies args and changed flags on top.
func (c *CLI) loadOptions(cmd *cobra.Command, args []string, f *siteFlags) (pipeline.Options, error) {
	cfg, err := config.Load(c.Fs, c.configPath)
	if err != nil {
		return pipeline.Options{}, err
	}

	flags := cmd.Flags()
	if len(args) > 0 {
		cfg.BuildDir = args[0]
	}
	if flags.Changed("templates") {
		cfg.TemplateDir = f.templates
	}
	if flags.Changed("ext") {
		cfg.Extensions = f.extensions
	}
	if flags.Changed("concurrency") {
		cfg.Concurrency = f.concurrency
	}
	if flags.Changed("dry-run") {
		cfg.DryRun = f.dryRun
	}
	if err := cfg.Validate(); err != nil {
		return pipeline.Options{}, err
	}

	opts := pipeline.FromConfig(cfg)
	opts.Logger = loggerFromContext(cmd.Context())
	return opts, nil
}

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner() *pipeline.Runner {
	return pipeline.NewRunner(c.Fs, c.Logger)
}
