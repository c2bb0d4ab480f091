package java

import (
	stderrors "errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/matzehuels/warpack/pkg/deps"
	"github.com/matzehuels/warpack/pkg/errors"
	"github.com/matzehuels/warpack/pkg/integrations/maven"
)

// PackagingWar is the only packaging type that can be repackaged.
const PackagingWar = "war"

// Application describes the web application being packaged, as declared by
// its pom.xml.
type Application struct {
	Project   *deps.Project
	Packaging string // Declared packaging, "jar" when absent
	BuildDir  string // Absolute build output directory
	FinalName string // Base name of the built archive, without extension
}

// ReadApplication reads the application POM at path. The build directory
// defaults to "target" beside the POM and the final name to
// "<artifactId>-<version>"; both may use ${...} placeholders.
func ReadApplication(path string) (*Application, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "resolve %s", path)
	}

	f, err := os.Open(abs)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, errors.New(errors.ErrCodeInvalidPath, "project file %s not found", abs)
		}
		return nil, errors.Wrap(errors.ErrCodeIO, err, "open %s", abs)
	}
	defer f.Close()

	pom, err := maven.DecodePOM(f)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse %s", abs)
	}

	p := FromPOM(pom)
	baseDir := filepath.Dir(abs)
	if p.Properties == nil {
		p.Properties = make(map[string]string)
	}
	for _, name := range []string{"project.basedir", "basedir"} {
		if _, ok := p.Properties[name]; !ok {
			p.Properties[name] = baseDir
		}
	}

	app := &Application{
		Project:   p,
		Packaging: strings.ToLower(p.Packaging),
		BuildDir:  Expand(p, pom.Build.Directory),
		FinalName: Expand(p, pom.Build.FinalName),
	}
	if app.Packaging == "" {
		app.Packaging = "jar"
	}
	if app.BuildDir == "" {
		app.BuildDir = filepath.Join(baseDir, "target")
	} else if !filepath.IsAbs(app.BuildDir) {
		app.BuildDir = filepath.Join(baseDir, app.BuildDir)
	}
	if app.FinalName == "" {
		app.FinalName = p.Artifact + "-" + p.ProjectVersion()
	}
	return app, nil
}

// IsWar reports whether the application is packaged as a web archive.
func (a *Application) IsWar() bool { return a.Packaging == PackagingWar }

// WarPath returns the path of the built web archive.
func (a *Application) WarPath() string {
	return filepath.Join(a.BuildDir, a.FinalName+"."+PackagingWar)
}

// ExplodedDir returns the directory the build unpacks the web archive into.
func (a *Application) ExplodedDir() string {
	return filepath.Join(a.BuildDir, a.FinalName)
}

// JarPath returns the default output path of the executable archive.
func (a *Application) JarPath() string {
	return filepath.Join(a.BuildDir, a.FinalName+".jar")
}
