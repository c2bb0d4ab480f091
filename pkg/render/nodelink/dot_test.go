package nodelink

import (
	"strings"
	"testing"

	"github.com/matzehuels/warpack/pkg/deps"
)

func sampleResolution() *deps.Resolution {
	root := deps.MustParseCoordinate("com.example:boot:1.0")
	server := deps.MustParseCoordinate("org.eclipse.jetty:jetty-server:12.0.1")
	oldAPI := deps.MustParseCoordinate("org.slf4j:slf4j-api:2.0.5")
	newAPI := deps.MustParseCoordinate("org.slf4j:slf4j-api:2.0.9")

	set := deps.NewSet()
	set.Upsert(server)
	set.Upsert(newAPI)

	return &deps.Resolution{
		Root:      root,
		Artifacts: set,
		Edges: []deps.Edge{
			{From: root, To: server},
			{From: server, To: oldAPI},
			{From: root, To: newAPI},
			{From: root, To: server}, // duplicate declaration
			{From: newAPI, To: root}, // cycle back to the root
		},
	}
}

func TestToDOT_Basic(t *testing.T) {
	dot := ToDOT(sampleResolution(), Options{})

	if !strings.HasPrefix(dot, "digraph G {") {
		t.Error("ToDOT() output missing digraph declaration")
	}
	for _, want := range []string{
		`"com.example:boot" [label="boot\n1.0", peripheries=2];`,
		`"org.eclipse.jetty:jetty-server" [label="jetty-server\n12.0.1"];`,
		`"org.slf4j:slf4j-api" [label="slf4j-api\n2.0.9"];`,
		`"com.example:boot" -> "org.eclipse.jetty:jetty-server";`,
		`"org.eclipse.jetty:jetty-server" -> "org.slf4j:slf4j-api";`,
		`"com.example:boot" -> "org.slf4j:slf4j-api";`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("ToDOT() output missing %s\n%s", want, dot)
		}
	}
	if n := strings.Count(dot, `"com.example:boot" -> "org.eclipse.jetty:jetty-server"`); n != 1 {
		t.Errorf("duplicate edge rendered %d times", n)
	}
	if strings.Contains(dot, `-> "com.example:boot"`) {
		t.Error("edge into the root should be dropped")
	}
	if strings.Contains(dot, "dashed") {
		t.Error("plain output should not mark upgraded edges")
	}
}

func TestToDOT_Detailed(t *testing.T) {
	dot := ToDOT(sampleResolution(), Options{Detailed: true})

	if !strings.Contains(dot, `label="org.slf4j\nslf4j-api\n2.0.9"`) {
		t.Error("ToDOT() detailed output missing group id")
	}
	want := `"org.eclipse.jetty:jetty-server" -> "org.slf4j:slf4j-api" [style=dashed, label="2.0.5", fontcolor=grey40];`
	if !strings.Contains(dot, want) {
		t.Errorf("ToDOT() detailed output missing upgraded edge %s\n%s", want, dot)
	}
	if strings.Count(dot, "dashed") != 1 {
		t.Error("only the edge to a superseded version should be dashed")
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="100pt" height="50pt" viewBox="0.00 0.00 100.00 50.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	out := string(normalizeViewBox(in))

	if !strings.Contains(out, `viewBox="0 0 100.00 50.00" width="100" height="50"`) {
		t.Errorf("normalizeViewBox() = %s", out)
	}
	if !strings.HasSuffix(out, "<g/></svg>") {
		t.Error("normalizeViewBox() should keep the body")
	}

	plain := []byte("<svg><g/></svg>")
	if got := normalizeViewBox(plain); string(got) != string(plain) {
		t.Error("svg without viewBox should be returned unchanged")
	}
}
