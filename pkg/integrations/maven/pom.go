package maven

import (
	"encoding/xml"
	"io"
	"strings"
)

// POM is the subset of a Maven project object model that packaging needs.
//
// Field values are whitespace-trimmed by [DecodePOM]. Properties and
// placeholders are left unexpanded; resolving them is the caller's job.
type POM struct {
	XMLName      xml.Name     `xml:"project"`
	GroupID      string       `xml:"groupId"`
	ArtifactID   string       `xml:"artifactId"`
	Version      string       `xml:"version"`
	Packaging    string       `xml:"packaging"`
	Name         string       `xml:"name"`
	Parent       *Parent      `xml:"parent"`
	Properties   Properties   `xml:"properties"`
	Dependencies []Dependency `xml:"dependencies>dependency"`
	Build        Build        `xml:"build"`
}

// Parent is the <parent> reference of a POM.
type Parent struct {
	GroupID      string `xml:"groupId"`
	ArtifactID   string `xml:"artifactId"`
	Version      string `xml:"version"`
	RelativePath string `xml:"relativePath"`
}

// Dependency is one direct <dependency> of a POM. Entries under
// <dependencyManagement> are not included.
type Dependency struct {
	GroupID    string      `xml:"groupId"`
	ArtifactID string      `xml:"artifactId"`
	Version    string      `xml:"version"`
	Scope      string      `xml:"scope"`
	Type       string      `xml:"type"`
	Classifier string      `xml:"classifier"`
	Optional   string      `xml:"optional"`
	Exclusions []Exclusion `xml:"exclusions>exclusion"`
}

// IsOptional reports whether the dependency is declared optional.
func (d Dependency) IsOptional() bool {
	return strings.EqualFold(d.Optional, "true")
}

// Exclusion is a group/artifact pattern under <exclusions>.
type Exclusion struct {
	GroupID    string `xml:"groupId"`
	ArtifactID string `xml:"artifactId"`
}

// Build holds the <build> settings that locate the packaged application.
type Build struct {
	Directory string `xml:"directory"`
	FinalName string `xml:"finalName"`
}

// Properties maps <properties> child element names to their text.
type Properties map[string]string

// UnmarshalXML collects every child element of <properties> by local name.
func (p *Properties) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	props := make(Properties)
	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			var v string
			if err := d.DecodeElement(&v, &t); err != nil {
				return err
			}
			props[t.Name.Local] = strings.TrimSpace(v)
		case xml.EndElement:
			*p = props
			return nil
		}
	}
}

// DecodePOM parses a POM document.
func DecodePOM(r io.Reader) (*POM, error) {
	var pom POM
	if err := xml.NewDecoder(r).Decode(&pom); err != nil {
		return nil, err
	}
	pom.trim()
	return &pom, nil
}

func (p *POM) trim() {
	for _, s := range []*string{&p.GroupID, &p.ArtifactID, &p.Version, &p.Packaging, &p.Name,
		&p.Build.Directory, &p.Build.FinalName} {
		*s = strings.TrimSpace(*s)
	}
	if p.Parent != nil {
		p.Parent.GroupID = strings.TrimSpace(p.Parent.GroupID)
		p.Parent.ArtifactID = strings.TrimSpace(p.Parent.ArtifactID)
		p.Parent.Version = strings.TrimSpace(p.Parent.Version)
	}
	for i := range p.Dependencies {
		d := &p.Dependencies[i]
		for _, s := range []*string{&d.GroupID, &d.ArtifactID, &d.Version, &d.Scope, &d.Type, &d.Classifier, &d.Optional} {
			*s = strings.TrimSpace(*s)
		}
		for j := range d.Exclusions {
			d.Exclusions[j].GroupID = strings.TrimSpace(d.Exclusions[j].GroupID)
			d.Exclusions[j].ArtifactID = strings.TrimSpace(d.Exclusions[j].ArtifactID)
		}
	}
}
