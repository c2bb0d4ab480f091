// Package render provides visual output for dependency resolutions.
//
// Rendering lives in subpackages; [nodelink] draws the resolved graph as a
// Graphviz node-link diagram.
//
// [nodelink]: github.com/matzehuels/warpack/pkg/render/nodelink
package render
