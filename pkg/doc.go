// Package pkg provides the libraries behind warpack.
//
// # Overview
//
// Warpack turns a built web application into one self-executing archive:
// the bootstrap runtime's classes, the web archive, its quickstart
// descriptor and every runtime library, runnable with "java -jar".
//
//  1. [deps] - Coordinates, version ordering and the transitive walk
//  2. [integrations/maven] - Local repository layout and POM decoding
//  3. [deps/java] - Project models built from POMs
//  4. [quickstart] - Producing the quickstart descriptor
//  5. [archive] - Writing the output archive
//  6. [pipeline] - Orchestration (resolve → preconfigure → assemble)
//
// # Architecture
//
//	bootstrap coordinate
//	         ↓
//	    [deps] Walker + [deps/java] Source (resolve libraries)
//	         ↓
//	    [quickstart] Preconfigurer (descriptor)
//	         ↓
//	    [archive] Assembler (executable archive)
//
// Supporting packages: [config] loads warpack.toml, [errors] defines coded
// errors, [observability] exposes hooks for every stage, and
// [render/nodelink] draws resolutions as Graphviz diagrams.
//
// [deps]: github.com/matzehuels/warpack/pkg/deps
// [integrations/maven]: github.com/matzehuels/warpack/pkg/integrations/maven
// [deps/java]: github.com/matzehuels/warpack/pkg/deps/java
// [quickstart]: github.com/matzehuels/warpack/pkg/quickstart
// [archive]: github.com/matzehuels/warpack/pkg/archive
// [pipeline]: github.com/matzehuels/warpack/pkg/pipeline
// [config]: github.com/matzehuels/warpack/pkg/config
// [errors]: github.com/matzehuels/warpack/pkg/errors
// [observability]: github.com/matzehuels/warpack/pkg/observability
// [render/nodelink]: github.com/matzehuels/warpack/pkg/render/nodelink
package pkg
