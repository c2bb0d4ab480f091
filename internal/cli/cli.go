// Package cli implements the warpack command-line interface.
package cli

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/warpack/pkg/buildinfo"
	"github.com/matzehuels/warpack/pkg/config"
	"github.com/matzehuels/warpack/pkg/deps"
	"github.com/matzehuels/warpack/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for display.
const appName = "warpack"

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

	configPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Warpack turns a web application into a self-executing archive",
		Long: `Warpack repackages a built web application together with a bootstrap
runtime and every library it needs into one archive runnable with "java -jar".`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $"+config.EnvVar+")")

	root.AddCommand(c.packageCommand())
	root.AddCommand(c.resolveCommand())
	root.AddCommand(c.treeCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner() *pipeline.Runner {
	return pipeline.NewRunner(c.Logger)
}

// loadConfig reads the config file named by --config or WARPACK_CONFIG.
func (c *CLI) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return nil, err
	}
	c.Logger.Debug("loaded config", "repository", cfg.Repository, "boot", cfg.Boot.Coordinate)
	return cfg, nil
}

// =============================================================================
// Resolution Flags
// =============================================================================

// resolveFlags are shared by every command that resolves dependencies.
// Explicitly set flags take precedence over the config file.
type resolveFlags struct {
	repository        string
	enforceExclusions bool
	revisitUpgrades   bool
}

func (f *resolveFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.repository, "repository", "", "local Maven repository (default ~/.m2/repository)")
	cmd.Flags().BoolVar(&f.enforceExclusions, "exclusions", false, "honor <exclusions> declared on dependencies")
	cmd.Flags().BoolVar(&f.revisitUpgrades, "revisit-upgrades", false, "walk a library again when a newer version is reached")
}

// apply overlays explicitly set flags onto cfg.
func (f *resolveFlags) apply(cmd *cobra.Command, cfg *config.Config) {
	if f.repository != "" {
		cfg.Repository = f.repository
	}
	if cmd.Flags().Changed("exclusions") {
		cfg.Resolve.EnforceExclusions = f.enforceExclusions
	}
	if cmd.Flags().Changed("revisit-upgrades") {
		cfg.Resolve.RevisitUpgrades = f.revisitUpgrades
	}
}

// resolveOptions converts resolution settings into deps.Options.
func resolveOptions(cfg *config.Config) deps.Options {
	return deps.Options{
		EnforceExclusions: cfg.Resolve.EnforceExclusions,
		RevisitUpgrades:   cfg.Resolve.RevisitUpgrades,
	}
}

// rootCoordinate returns the coordinate named on the command line, or the
// configured bootstrap runtime when none is given.
func rootCoordinate(args []string, cfg *config.Config) (deps.Coordinate, error) {
	if len(args) > 0 {
		return deps.ParseCoordinate(args[0])
	}
	return deps.ParseCoordinate(cfg.Boot.Coordinate)
}
