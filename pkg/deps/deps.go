package deps

import (
	"context"
	"maps"
	"strings"
)

// Scopes that never ship in the bundle.
const (
	ScopeProvided = "provided"
	ScopeTest     = "test"
)

// Property placeholders with built-in meaning.
const (
	PropProjectVersion       = "project.version"
	PropProjectGroupID       = "project.groupId"
	PropProjectArtifactID    = "project.artifactId"
	PropProjectParentVersion = "project.parent.version"
)

// Options configures dependency resolution behavior.
type Options struct {
	EnforceExclusions bool                 // Drop coordinates excluded by an ancestor declaration
	RevisitUpgrades   bool                 // Walk a coordinate again when a different version is reached
	Logger            func(string, ...any) // Progress callback (optional)
}

// WithDefaults returns a copy of Options with zero values replaced by defaults.
func (o Options) WithDefaults() Options {
	opts := o
	if opts.Logger == nil {
		opts.Logger = func(string, ...any) {}
	}
	return opts
}

// Declaration is one <dependency> entry of a project model.
type Declaration struct {
	Coordinate
	Scope      string       // compile, runtime, provided, test, ... (empty means compile)
	Optional   bool         // Declared <optional>true</optional>
	Exclusions []Coordinate // Group/artifact patterns, "*" allowed
}

// Ships reports whether the declaration belongs in a runtime bundle:
// it is neither optional nor provided- or test-scoped.
func (d Declaration) Ships() bool {
	if d.Optional {
		return false
	}
	return d.Scope != ScopeProvided && d.Scope != ScopeTest
}

// Project is the declared model of one coordinate, as read from its
// metadata (a POM for Maven artifacts).
type Project struct {
	Coordinate
	Parent       *Coordinate       // Parent coordinate, if declared
	Packaging    string            // jar, war, pom, ... (empty means jar)
	Properties   map[string]string // <properties>, including inherited ones
	Dependencies []Declaration
}

// ProjectVersion returns the project's own version, falling back to the
// parent's when the project inherits it.
func (p *Project) ProjectVersion() string {
	if p.Version == "" && p.Parent != nil {
		return p.Parent.Version
	}
	return p.Version
}

// Property resolves a placeholder name (without "${" and "}").
// Built-in project.* names take precedence over declared properties.
func (p *Project) Property(name string) (string, bool) {
	switch name {
	case PropProjectVersion:
		v := p.ProjectVersion()
		return v, v != ""
	case PropProjectGroupID:
		g := p.Group
		if g == "" && p.Parent != nil {
			g = p.Parent.Group
		}
		return g, g != ""
	case PropProjectArtifactID:
		return p.Artifact, p.Artifact != ""
	case PropProjectParentVersion:
		if p.Parent == nil {
			return "", false
		}
		return p.Parent.Version, p.Parent.Version != ""
	}
	v, ok := p.Properties[name]
	return v, ok && v != ""
}

// WithProperties returns a shallow copy of p whose properties are inherited
// merged with p's own, p's values winning.
func (p *Project) WithProperties(inherited map[string]string) *Project {
	merged := maps.Clone(inherited)
	if merged == nil {
		merged = make(map[string]string, len(p.Properties))
	}
	maps.Copy(merged, p.Properties)
	cp := *p
	cp.Properties = merged
	return &cp
}

// Placeholder returns the property name referenced by a "${name}" value.
func Placeholder(v string) (string, bool) {
	if strings.HasPrefix(v, "${") && strings.HasSuffix(v, "}") && len(v) > 3 {
		return v[2 : len(v)-1], true
	}
	return "", false
}

// MetadataSource supplies the declared model of a coordinate.
type MetadataSource interface {
	// Project returns the model for c. It fails with a METADATA_NOT_FOUND
	// error when no metadata exists for c.
	Project(ctx context.Context, c Coordinate) (*Project, error)
}

// VersionProbe finds the highest locally available version of a partial
// coordinate.
type VersionProbe interface {
	// Latest returns the highest version of key ("groupId:artifactId") with
	// a concrete artifact present, or "" when there is none.
	Latest(ctx context.Context, c Coordinate) (string, error)
}

// Edge records that From declared a dependency on To during a walk.
type Edge struct {
	From Coordinate `json:"from" yaml:"from"`
	To   Coordinate `json:"to" yaml:"to"`
}

// Resolution is the outcome of walking one root coordinate.
type Resolution struct {
	Root      Coordinate
	Artifacts *Set   // Flat deduplicated artifacts, root excluded
	Edges     []Edge // Declared edges in walk order, with versions as resolved at the time
}
