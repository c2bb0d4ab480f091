package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/warpack/pkg/deps"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed includes group ids in node labels and marks edges whose
	// declared version lost reconciliation. When false, nodes show only
	// artifact id and resolved version.
	Detailed bool
}

// ToDOT converts a resolution to Graphviz DOT format.
//
// Nodes are libraries identified by "groupId:artifactId" and labeled with the
// version that won reconciliation, so edges declared against different
// versions of one library meet at a single node. The root is drawn with a
// double outline. The result can be rendered with [RenderSVG].
func ToDOT(res *deps.Resolution, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	fmt.Fprintf(&buf, "  %q [label=%q, peripheries=2];\n", res.Root.Key(), fmtLabel(res.Root, opts.Detailed))
	for _, c := range res.Artifacts.Coordinates() {
		fmt.Fprintf(&buf, "  %q [label=%q];\n", c.Key(), fmtLabel(c, opts.Detailed))
	}

	buf.WriteString("\n")
	seen := make(map[string]bool)
	for _, e := range res.Edges {
		from, to := e.From.Key(), e.To.Key()
		if from == to || !res.Artifacts.Contains(to) {
			continue
		}
		id := from + "\x00" + to
		if seen[id] {
			continue
		}
		seen[id] = true

		attrs := edgeAttrs(res, e, opts.Detailed)
		if len(attrs) == 0 {
			fmt.Fprintf(&buf, "  %q -> %q;\n", from, to)
		} else {
			fmt.Fprintf(&buf, "  %q -> %q [%s];\n", from, to, strings.Join(attrs, ", "))
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(c deps.Coordinate, detailed bool) string {
	if detailed {
		return c.Group + "\n" + c.Artifact + "\n" + c.Version
	}
	return c.Artifact + "\n" + c.Version
}

func edgeAttrs(res *deps.Resolution, e deps.Edge, detailed bool) []string {
	if !detailed {
		return nil
	}
	won, ok := res.Artifacts.Get(e.To.Key())
	if !ok || won.Version == e.To.Version {
		return nil
	}
	return []string{"style=dashed", fmt.Sprintf("label=%q", e.To.Version), "fontcolor=grey40"}
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the root <svg> tag so the image scales from a
// zero origin with pixel dimensions matching its view box.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}
