// Package nodelink renders dependency resolutions as node-link diagrams.
//
// # Usage
//
// Convert a resolution to DOT, then optionally render it to SVG:
//
//	res, _ := walker.Tree(ctx, root)
//	dot := nodelink.ToDOT(res, nodelink.Options{Detailed: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// # DOT Format
//
// [ToDOT] produces Graphviz DOT source that can be piped to the dot tool,
// pasted into an online viewer, or rendered in-process by [RenderSVG], which
// embeds Graphviz and needs no external binaries.
//
// Each library appears once, at the version that won reconciliation. With
// [Options.Detailed], an edge whose declared version lost is drawn dashed and
// labeled with that declared version, which makes upgrades easy to spot.
package nodelink
