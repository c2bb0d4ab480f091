// Package pipeline turns a built web application into a self-executing
// archive.
//
// # Architecture
//
// A run consists of three stages:
//
//  1. Resolve: collect the bootstrap runtime's transitive libraries from the
//     local Maven repository
//  2. Preconfigure: produce the application's quickstart descriptor
//  3. Assemble: stream the bootstrap classes, the web archive, the
//     descriptor and every library into one output archive
//
// Before any stage runs, the project must declare "war" packaging;
// anything else fails with UNSUPPORTED_PROJECT.
//
// # Usage
//
//	runner := pipeline.NewRunner(logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    POM:        "pom.xml",
//	    Repository: "/home/me/.m2/repository",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.Archive.Output)
//
// [Runner.Resolve] runs the resolution stage on its own for any root.
package pipeline

import (
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/warpack/pkg/archive"
	"github.com/matzehuels/warpack/pkg/config"
	"github.com/matzehuels/warpack/pkg/deps"
	"github.com/matzehuels/warpack/pkg/deps/java"
	"github.com/matzehuels/warpack/pkg/errors"
	"github.com/matzehuels/warpack/pkg/quickstart"
)

// Stage names reported to [observability.StageHooks].
const (
	StageResolve      = "resolve"
	StagePreconfigure = "preconfigure"
	StageAssemble     = "assemble"
)

// DefaultPOM is the project file read when Options.POM is empty.
const DefaultPOM = "pom.xml"

// Options configures one packaging run.
type Options struct {
	// Project
	POM       string // Project file; default DefaultPOM
	Packaging string // Overrides the declared packaging
	BuildDir  string // Overrides the declared build directory
	FinalName string // Overrides the declared final name

	// Bootstrap runtime
	Boot       string // Root coordinate; version may be omitted
	MainClass  string
	SkipSuffix string

	// Resolution
	Repository        string // Local Maven repository root
	EnforceExclusions bool
	RevisitUpgrades   bool

	// Output archive; default <buildDir>/<finalName>.jar
	Output string

	// Runtime options
	Preconfigurer quickstart.Preconfigurer // Default quickstart.Existing
	Logger        *log.Logger
	ModTime       time.Time // Entry timestamps; default now

	validated bool
}

// Result contains the outputs of a packaging run.
type Result struct {
	// Application is the project that was packaged.
	Application *java.Application

	// Resolution holds the bootstrap runtime and its libraries.
	Resolution *deps.Resolution

	// Libraries lists the library jars in archive order.
	Libraries []string

	// Descriptor is the quickstart descriptor that was embedded.
	Descriptor string

	// Archive describes the written archive.
	Archive *archive.Report

	// Stats contains timing information.
	Stats Stats
}

// Stats contains pipeline execution statistics.
type Stats struct {
	ResolveTime      time.Duration
	PreconfigureTime time.Duration
	AssembleTime     time.Duration
}

// ValidateAndSetDefaults checks the options and fills in defaults. It is
// idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.POM == "" {
		o.POM = DefaultPOM
	}
	if o.Boot == "" {
		o.Boot = config.DefaultBootCoordinate
	}
	if o.MainClass == "" {
		o.MainClass = config.DefaultMainClass
	}
	if o.SkipSuffix == "" {
		o.SkipSuffix = archive.DefaultSkipSuffix
	}
	if o.Preconfigurer == nil {
		o.Preconfigurer = quickstart.Existing{}
	}
	if o.Logger == nil {
		o.Logger = log.Default()
	}

	if _, err := deps.ParseCoordinate(o.Boot); err != nil {
		return err
	}
	if err := errors.ValidateClassName(o.MainClass); err != nil {
		return err
	}
	if o.FinalName != "" {
		if err := errors.ValidateEntryName(o.FinalName); err != nil {
			return err
		}
	}
	o.validated = true
	return nil
}

// ResolveOptions returns the resolution settings of o.
func (o *Options) ResolveOptions() deps.Options {
	return deps.Options{
		EnforceExclusions: o.EnforceExclusions,
		RevisitUpgrades:   o.RevisitUpgrades,
	}
}

// apply overrides the declared project settings with the explicit ones.
func (o *Options) apply(app *java.Application) {
	if o.Packaging != "" {
		app.Packaging = strings.ToLower(o.Packaging)
	}
	if o.BuildDir != "" {
		app.BuildDir = o.BuildDir
	}
	if o.FinalName != "" {
		app.FinalName = o.FinalName
	}
}
