package java

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/matzehuels/warpack/pkg/deps"
	"github.com/matzehuels/warpack/pkg/errors"
	"github.com/matzehuels/warpack/pkg/integrations/maven"
)

type fixture struct {
	t    *testing.T
	repo *maven.Repository
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	repo, err := maven.NewRepository(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	return &fixture{t: t, repo: repo}
}

// install writes coord's jar and a POM whose body is inserted verbatim
// after the coordinate elements.
func (f *fixture) install(coord, body string) {
	f.t.Helper()
	c := deps.MustParseCoordinate(coord)
	if err := os.MkdirAll(filepath.Dir(f.repo.POMPath(c)), 0o755); err != nil {
		f.t.Fatal(err)
	}
	pom := fmt.Sprintf(`<project>
  <groupId>%s</groupId>
  <artifactId>%s</artifactId>
  <version>%s</version>
  %s
</project>`, c.Group, c.Artifact, c.Version, body)
	if err := os.WriteFile(f.repo.POMPath(c), []byte(pom), 0o644); err != nil {
		f.t.Fatal(err)
	}
	if err := os.WriteFile(f.repo.ArtifactPath(c), []byte("PK"), 0o644); err != nil {
		f.t.Fatal(err)
	}
}

func dependency(g, a, v string, extra ...string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<dependency><groupId>%s</groupId><artifactId>%s</artifactId>", g, a)
	if v != "" {
		fmt.Fprintf(&b, "<version>%s</version>", v)
	}
	for _, e := range extra {
		b.WriteString(e)
	}
	b.WriteString("</dependency>")
	return b.String()
}

func dependencies(ds ...string) string {
	return "<dependencies>" + strings.Join(ds, "") + "</dependencies>"
}

func TestSourceProject(t *testing.T) {
	f := newFixture(t)
	f.install("com.example:lib:1.0", dependencies(
		dependency("org.slf4j", "slf4j-api", "2.0.9"),
		dependency("junit", "junit", "4.13", "<scope>test</scope>"),
		dependency("com.example", "extras", "1.0", "<optional>true</optional>"),
		dependency("com.example", "web", "1.0",
			"<exclusions><exclusion><groupId>commons-logging</groupId><artifactId>*</artifactId></exclusion></exclusions>"),
	))

	src := NewSource(f.repo, nil)
	p, err := src.Project(context.Background(), deps.MustParseCoordinate("com.example:lib:1.0"))
	if err != nil {
		t.Fatalf("Project() error: %v", err)
	}

	if len(p.Dependencies) != 4 {
		t.Fatalf("got %d declarations, want 4", len(p.Dependencies))
	}
	if p.Dependencies[1].Scope != deps.ScopeTest || p.Dependencies[1].Ships() {
		t.Errorf("junit declaration = %+v", p.Dependencies[1])
	}
	if !p.Dependencies[2].Optional {
		t.Error("extras should be optional")
	}
	want := []deps.Coordinate{{Group: "commons-logging", Artifact: "*"}}
	if !slices.Equal(p.Dependencies[3].Exclusions, want) {
		t.Errorf("exclusions = %v, want %v", p.Dependencies[3].Exclusions, want)
	}
}

func TestSourceMissingPOM(t *testing.T) {
	src := NewSource(newFixture(t).repo, nil)
	_, err := src.Project(context.Background(), deps.MustParseCoordinate("com.example:absent:1.0"))
	if !errors.Is(err, errors.ErrCodeMetadataNotFound) {
		t.Fatalf("error = %v, want METADATA_NOT_FOUND", err)
	}
}

func TestSourceInheritsParentProperties(t *testing.T) {
	f := newFixture(t)
	f.install("com.example:grandparent:1", `<properties><a>from-grandparent</a><b>from-grandparent</b><c>from-grandparent</c></properties>`)
	f.install("com.example:parent:1", `<parent><groupId>com.example</groupId><artifactId>grandparent</artifactId><version>1</version></parent>
  <properties><b>from-parent</b><c>from-parent</c></properties>`)
	f.install("com.example:child:1", `<parent><groupId>com.example</groupId><artifactId>parent</artifactId><version>1</version></parent>
  <properties><c>from-child</c></properties>`)

	var logged []string
	src := NewSource(f.repo, func(format string, args ...any) { logged = append(logged, fmt.Sprintf(format, args...)) })
	p, err := src.Project(context.Background(), deps.MustParseCoordinate("com.example:child:1"))
	if err != nil {
		t.Fatalf("Project() error: %v", err)
	}

	for name, want := range map[string]string{"a": "from-grandparent", "b": "from-parent", "c": "from-child"} {
		if got, _ := p.Property(name); got != want {
			t.Errorf("property %s = %q, want %q", name, got, want)
		}
	}
	if len(logged) != 0 {
		t.Errorf("unexpected log output: %v", logged)
	}
}

func TestSourceMissingParentIsNotFatal(t *testing.T) {
	f := newFixture(t)
	f.install("com.example:orphan:1", `<parent><groupId>com.example</groupId><artifactId>gone</artifactId><version>1</version></parent>
  <properties><x>1</x></properties>`)

	var logged []string
	src := NewSource(f.repo, func(format string, args ...any) { logged = append(logged, fmt.Sprintf(format, args...)) })
	p, err := src.Project(context.Background(), deps.MustParseCoordinate("com.example:orphan:1"))
	if err != nil {
		t.Fatalf("Project() error: %v", err)
	}
	if got, _ := p.Property("x"); got != "1" {
		t.Errorf("own property lost: x = %q", got)
	}
	if len(logged) != 1 {
		t.Errorf("expected one log line about the missing parent, got %v", logged)
	}
}

func TestSourceExpandsDependencyNames(t *testing.T) {
	f := newFixture(t)
	f.install("com.example:module:2.0", dependencies(
		dependency("${project.groupId}", "sibling", "${project.version}"),
	))

	p, err := NewSource(f.repo, nil).Project(context.Background(), deps.MustParseCoordinate("com.example:module:2.0"))
	if err != nil {
		t.Fatalf("Project() error: %v", err)
	}
	d := p.Dependencies[0]
	if d.Group != "com.example" {
		t.Errorf("group = %q, want com.example", d.Group)
	}
	if d.Version != "${project.version}" {
		t.Errorf("version = %q, want placeholder left for the walker", d.Version)
	}
}

func TestSourceWithWalker(t *testing.T) {
	f := newFixture(t)
	f.install("com.invirgance:convirgance-boot:0.2.0", `<properties><jetty.version>12.0.1</jetty.version></properties>`+dependencies(
		dependency("org.eclipse.jetty", "jetty-server", "${jetty.version}"),
		dependency("org.slf4j", "slf4j-api", ""),
		dependency("jakarta.servlet", "jakarta.servlet-api", "6.0.0", "<scope>provided</scope>"),
	))
	f.install("org.eclipse.jetty:jetty-server:12.0.1", dependencies(
		dependency("org.slf4j", "slf4j-api", "2.0.5"),
	))
	f.install("org.slf4j:slf4j-api:2.0.5", "")
	f.install("org.slf4j:slf4j-api:2.0.9", "")

	walker := deps.NewWalker(NewSource(f.repo, nil), f.repo, deps.Options{})
	set, err := walker.Resolve(context.Background(), deps.MustParseCoordinate("com.invirgance:convirgance-boot:0.2.0"))
	if err != nil {
		t.Fatalf("Resolve() error: %v", err)
	}

	want := []string{"org.eclipse.jetty:jetty-server:12.0.1", "org.slf4j:slf4j-api:2.0.9"}
	if got := set.Strings(); !slices.Equal(got, want) {
		t.Errorf("resolved = %v, want %v", got, want)
	}
}

func TestExpand(t *testing.T) {
	p := &deps.Project{
		Coordinate: deps.Coordinate{Group: "g", Artifact: "app", Version: "1.0"},
		Properties: map[string]string{"suffix": "final"},
	}
	tests := []struct{ in, want string }{
		{"${project.artifactId}-${project.version}", "app-1.0"},
		{"${project.artifactId}-${suffix}", "app-final"},
		{"${unknown}/x", "${unknown}/x"},
		{"plain", "plain"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := Expand(p, tt.in); got != tt.want {
			t.Errorf("Expand(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
