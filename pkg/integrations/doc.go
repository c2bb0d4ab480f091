// Package integrations holds adapters to external artifact stores.
//
// Each store has its own subpackage:
//
//   - [maven]: the local Maven repository (POM models and jar files)
//
// Adapters only read. They never download, so packaging works offline
// against whatever an earlier build installed.
//
// [maven]: github.com/matzehuels/warpack/pkg/integrations/maven
package integrations
