package java

import (
	"regexp"

	"github.com/matzehuels/warpack/pkg/deps"
	"github.com/matzehuels/warpack/pkg/integrations/maven"
)

var placeholderRE = regexp.MustCompile(`\$\{([^}]+)\}`)

// FromPOM converts a parsed POM into a project model. A groupId or version
// the POM omits is taken from its parent, as Maven does.
func FromPOM(pom *maven.POM) *deps.Project {
	p := &deps.Project{
		Coordinate: deps.Coordinate{
			Group:    pom.GroupID,
			Artifact: pom.ArtifactID,
			Version:  pom.Version,
		},
		Packaging:  pom.Packaging,
		Properties: map[string]string(pom.Properties),
	}

	if pom.Parent != nil {
		p.Parent = &deps.Coordinate{
			Group:    pom.Parent.GroupID,
			Artifact: pom.Parent.ArtifactID,
			Version:  pom.Parent.Version,
		}
		if p.Group == "" {
			p.Group = p.Parent.Group
		}
		if p.Version == "" {
			p.Version = p.Parent.Version
		}
	}

	for _, d := range pom.Dependencies {
		decl := deps.Declaration{
			Coordinate: deps.Coordinate{Group: d.GroupID, Artifact: d.ArtifactID, Version: d.Version},
			Scope:      d.Scope,
			Optional:   d.IsOptional(),
		}
		for _, x := range d.Exclusions {
			decl.Exclusions = append(decl.Exclusions, deps.Coordinate{Group: x.GroupID, Artifact: x.ArtifactID})
		}
		p.Dependencies = append(p.Dependencies, decl)
	}

	return p
}

// Expand substitutes every "${name}" in s that p can resolve. Unknown
// placeholders are left in place.
func Expand(p *deps.Project, s string) string {
	return placeholderRE.ReplaceAllStringFunc(s, func(m string) string {
		name := m[2 : len(m)-1]
		if v, ok := p.Property(name); ok {
			return v
		}
		return m
	})
}

// expandNames resolves placeholders in dependency group and artifact ids,
// e.g. "${project.groupId}" for sibling modules. Versions are left to the
// walker, which falls back to probing when they cannot be resolved.
func expandNames(p *deps.Project) {
	for i := range p.Dependencies {
		d := &p.Dependencies[i]
		d.Group = Expand(p, d.Group)
		d.Artifact = Expand(p, d.Artifact)
	}
}
