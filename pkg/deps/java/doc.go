// Package java provides project metadata for Maven/Java artifacts.
//
// # Overview
//
// [Source] implements [deps.MetadataSource] on top of a local
// [maven.Repository]: it reads an artifact's POM, inherits <properties> from
// its parent chain, and converts the declared dependencies into
// [deps.Declaration] values for the walker.
//
//	repo, _ := maven.NewRepository(dir)
//	walker := deps.NewWalker(java.NewSource(repo, nil), repo, deps.Options{})
//
// # Applications
//
// [ReadApplication] reads the pom.xml of the web application being
// packaged and reports where its build output lives:
//
//	app, _ := java.ReadApplication("pom.xml")
//	fmt.Println(app.Packaging, app.WarPath())
//
// [maven.Repository]: github.com/matzehuels/warpack/pkg/integrations/maven
// [deps.MetadataSource]: github.com/matzehuels/warpack/pkg/deps.MetadataSource
package java
