package cli

import (
	"context"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/matzehuels/warpack/pkg/config"
	"github.com/matzehuels/warpack/pkg/pipeline"
	"github.com/matzehuels/warpack/pkg/quickstart"
)

// packageOpts holds the command-line flags for the package command.
type packageOpts struct {
	pom       string // project file
	buildDir  string // overrides the declared build directory
	finalName string // overrides the declared final name
	packaging string // overrides the declared packaging
	boot      string // bootstrap runtime coordinate
	mainClass string // Main-Class written to the manifest
	output    string // output archive (default <build-dir>/<final-name>.jar)
	resolve   resolveFlags
}

// packageCommand creates the package command that builds the executable
// archive.
func (c *CLI) packageCommand() *cobra.Command {
	opts := packageOpts{pom: pipeline.DefaultPOM}

	cmd := &cobra.Command{
		Use:   "package",
		Short: "Package a built web application as an executable archive",
		Long: `Package a built web application as an executable archive.

The project must use war packaging and must already be built: the web archive
and its exploded directory are read from the build directory.

Examples:
  warpack package
  warpack package --pom app/pom.xml --output dist/app.jar
  warpack package --boot com.invirgance:convirgance-boot:0.3.0 --exclusions`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			return c.runPackage(cmd.Context(), c.packageOptions(cmd, cfg, &opts))
		},
	}

	cmd.Flags().StringVarP(&opts.pom, "pom", "p", opts.pom, "project file")
	cmd.Flags().StringVar(&opts.buildDir, "build-dir", "", "build directory (default from the project file)")
	cmd.Flags().StringVar(&opts.finalName, "final-name", "", "base name of the built web archive (default from the project file)")
	cmd.Flags().StringVar(&opts.packaging, "packaging", "", "project packaging (default from the project file)")
	cmd.Flags().StringVar(&opts.boot, "boot", "", "bootstrap runtime coordinate (default "+config.DefaultBootCoordinate+")")
	cmd.Flags().StringVar(&opts.mainClass, "main-class", "", "Main-Class of the archive")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output archive (default <build-dir>/<final-name>.jar)")
	opts.resolve.register(cmd)

	return cmd
}

// packageOptions merges flags over the config file into pipeline options.
func (c *CLI) packageOptions(cmd *cobra.Command, cfg *config.Config, opts *packageOpts) pipeline.Options {
	opts.resolve.apply(cmd, cfg)
	if opts.boot != "" {
		cfg.Boot.Coordinate = opts.boot
	}
	if opts.mainClass != "" {
		cfg.Boot.MainClass = opts.mainClass
	}

	var pre quickstart.Preconfigurer = quickstart.Existing{}
	if len(cfg.Quickstart.Command) > 0 {
		pre = &quickstart.Command{Args: cfg.Quickstart.Command, Dir: cfg.Quickstart.Dir}
	}

	return pipeline.Options{
		POM:               opts.pom,
		Packaging:         opts.packaging,
		BuildDir:          opts.buildDir,
		FinalName:         opts.finalName,
		Boot:              cfg.Boot.Coordinate,
		MainClass:         cfg.Boot.MainClass,
		SkipSuffix:        cfg.Boot.SkipSuffix,
		Repository:        cfg.Repository,
		EnforceExclusions: cfg.Resolve.EnforceExclusions,
		RevisitUpgrades:   cfg.Resolve.RevisitUpgrades,
		Output:            opts.output,
		Preconfigurer:     pre,
		Logger:            c.Logger,
	}
}

func (c *CLI) runPackage(ctx context.Context, opts pipeline.Options) error {
	prog := newProgress(loggerFromContext(ctx))

	result, err := c.newRunner().Execute(ctx, opts)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Packaged %s", result.Application.Project.Coordinate))

	printSuccess("Packaged %s", StyleHighlight.Render(result.Application.FinalName))
	printFile(result.Archive.Output)
	printStats(
		fmt.Sprintf("%d libraries", len(result.Libraries)),
		fmt.Sprintf("%d entries", len(result.Archive.Entries)),
		humanize.Bytes(uint64(result.Archive.Size)),
	)
	printKeyValue("Boot", result.Resolution.Root.String())
	printKeyValue("BLAKE3", result.Archive.Digest)
	printNextStep("Run", "java -jar "+result.Archive.Output)
	return nil
}
