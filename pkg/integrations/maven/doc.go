// Package maven reads a local Maven repository.
//
// # Layout
//
// Artifacts live at
//
//	<repo>/<groupId with dots as slashes>/<artifactId>/<version>/<artifactId>-<version>.jar
//
// with the POM beside the jar. [Repository.ArtifactPath] and
// [Repository.POMPath] compute these paths without touching the disk.
//
// # Usage
//
//	repo, err := maven.NewRepository(dir)
//	if err != nil {
//	    return err
//	}
//	pom, err := repo.ReadPOM(ctx, deps.MustParseCoordinate("org.slf4j:slf4j-api:2.0.9"))
//
// # Version Probing
//
// [Repository.Latest] picks the highest locally installed version of an
// artifact, using [deps.IsUpgrade] for ordering. Only version directories
// that actually contain the jar count; a directory with just a POM or a
// failed download marker is skipped.
//
// Nothing here touches the network. Every coordinate the packager inspects
// must already be installed, typically by a prior build.
package maven
