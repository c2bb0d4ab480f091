package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/matzehuels/warpack/pkg/deps"
	"github.com/matzehuels/warpack/pkg/render/nodelink"
)

const (
	formatDOT = "dot"
	formatSVG = "svg"
)

// treeOpts holds the command-line flags for the tree command.
type treeOpts struct {
	format   string // dot or svg
	output   string // output file (stdout if empty)
	detailed bool   // show group ids and superseded versions
	resolve  resolveFlags
}

// treeCommand creates the tree command that draws the dependency graph.
func (c *CLI) treeCommand() *cobra.Command {
	opts := treeOpts{format: formatDOT}

	cmd := &cobra.Command{
		Use:   "tree [coordinate]",
		Short: "Draw the dependency graph of a coordinate",
		Long: `Draw the dependency graph of a coordinate as Graphviz DOT or SVG.
Every library appears once, at the version that would be bundled.

Examples:
  warpack tree | dot -Tpng > tree.png
  warpack tree org.eclipse.jetty:jetty-server:12.0.1 --format svg -o jetty.svg --detailed`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateFormat(opts.format, formatDOT, formatSVG); err != nil {
				return err
			}
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			opts.resolve.apply(cmd, cfg)
			root, err := rootCoordinate(args, cfg)
			if err != nil {
				return err
			}
			return c.runTree(cmd.Context(), cmd.OutOrStdout(), cfg.Repository, root, resolveOptions(cfg), &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: dot, svg")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show group ids and superseded versions")
	opts.resolve.register(cmd)

	return cmd
}

func (c *CLI) runTree(ctx context.Context, w io.Writer, repo string, root deps.Coordinate, dopts deps.Options, opts *treeOpts) error {
	prog := newProgress(loggerFromContext(ctx))

	res, err := c.newRunner().Resolve(ctx, repo, root, dopts)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Resolved %d libraries for %s", res.Artifacts.Len(), res.Root))

	dot := nodelink.ToDOT(res, nodelink.Options{Detailed: opts.detailed})
	if opts.format == formatDOT {
		return writeOutput(w, opts.output, []byte(dot))
	}

	spinner := newSpinner(ctx, "Rendering SVG...")
	spinner.Start()
	svg, err := nodelink.RenderSVG(ctx, dot)
	spinner.Stop()
	if err != nil {
		return err
	}
	return writeOutput(w, opts.output, svg)
}
