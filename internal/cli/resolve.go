package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/warpack/pkg/deps"
	"github.com/matzehuels/warpack/pkg/errors"
)

// Output formats of the resolve command.
const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

// resolveOpts holds the command-line flags for the resolve command.
type resolveOpts struct {
	format  string // text, json or yaml
	output  string // output file (stdout if empty)
	resolve resolveFlags
}

// resolveReport is the machine-readable form of a resolution.
type resolveReport struct {
	Root      string          `json:"root" yaml:"root"`
	Artifacts []artifactEntry `json:"artifacts" yaml:"artifacts"`
}

type artifactEntry struct {
	GroupID    string `json:"groupId" yaml:"groupId"`
	ArtifactID string `json:"artifactId" yaml:"artifactId"`
	Version    string `json:"version" yaml:"version"`
}

// resolveCommand creates the resolve command that lists the libraries a
// coordinate pulls in.
func (c *CLI) resolveCommand() *cobra.Command {
	opts := resolveOpts{format: formatText}

	cmd := &cobra.Command{
		Use:   "resolve [coordinate]",
		Short: "List the libraries a coordinate depends on",
		Long: `List the transitive runtime libraries of a coordinate, as they would be
bundled. Without a coordinate, the configured bootstrap runtime is resolved.

Examples:
  warpack resolve
  warpack resolve org.eclipse.jetty:jetty-server:12.0.1
  warpack resolve com.invirgance:convirgance-boot --format yaml`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateFormat(opts.format, formatText, formatJSON, formatYAML); err != nil {
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
			return c.runResolve(cmd.Context(), cmd.OutOrStdout(), cfg.Repository, root, resolveOptions(cfg), &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: text, json, yaml")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (stdout if empty)")
	opts.resolve.register(cmd)

	return cmd
}

func (c *CLI) runResolve(ctx context.Context, w io.Writer, repo string, root deps.Coordinate, dopts deps.Options, opts *resolveOpts) error {
	prog := newProgress(loggerFromContext(ctx))

	res, err := c.newRunner().Resolve(ctx, repo, root, dopts)
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Resolved %d libraries for %s", res.Artifacts.Len(), res.Root))

	data, err := formatResolution(res, opts.format)
	if err != nil {
		return err
	}
	return writeOutput(w, opts.output, data)
}

// formatResolution renders res in the given format.
func formatResolution(res *deps.Resolution, format string) ([]byte, error) {
	if format == formatText {
		var b strings.Builder
		for _, s := range res.Artifacts.Strings() {
			b.WriteString(s)
			b.WriteByte('\n')
		}
		return []byte(b.String()), nil
	}

	report := resolveReport{Root: res.Root.String(), Artifacts: []artifactEntry{}}
	for _, a := range res.Artifacts.Coordinates() {
		report.Artifacts = append(report.Artifacts, artifactEntry{
			GroupID:    a.Group,
			ArtifactID: a.Artifact,
			Version:    a.Version,
		})
	}

	switch format {
	case formatJSON:
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode json")
		}
		return append(data, '\n'), nil
	case formatYAML:
		data, err := yaml.Marshal(report)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode yaml")
		}
		return data, nil
	}
	return nil, errors.New(errors.ErrCodeInvalidInput, "unsupported format %q", format)
}

// validateFormat checks that format is one of valid.
func validateFormat(format string, valid ...string) error {
	for _, v := range valid {
		if format == v {
			return nil
		}
	}
	return errors.New(errors.ErrCodeInvalidInput, "invalid format: %q (must be one of: %s)", format, strings.Join(valid, ", "))
}

// writeOutput writes data to path, or to w when path is empty.
func writeOutput(w io.Writer, path string, data []byte) error {
	if path == "" {
		_, err := w.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "write %s", path)
	}
	printFile(path)
	return nil
}
