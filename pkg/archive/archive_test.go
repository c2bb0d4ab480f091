package archive

import (
	"bytes"
	"context"
	"encoding/hex"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/klauspost/compress/zip"
	"github.com/zeebo/blake3"

	"github.com/matzehuels/warpack/pkg/errors"
)

const mainClass = "com.invirgance.convirgance.boot.ConvirganceBoot"

type fixture struct {
	dir  string
	spec Spec
}

func writeFile(t *testing.T, path, content string) string {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func writeJar(t *testing.T, path string, entries ...string) string {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, name := range entries {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		if !strings.HasSuffix(name, "/") {
			io.WriteString(w, "content of "+name)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	return writeFile(t, path, buf.String())
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	dir := t.TempDir()
	repo := filepath.Join(dir, "repo")
	boot := writeJar(t, filepath.Join(repo, "convirgance-boot-0.2.0.jar"),
		"META-INF/MANIFEST.MF",
		"META-INF/maven/com.invirgance/convirgance-boot/pom.xml",
		"com/",
		"com/invirgance/convirgance/boot/ConvirganceBoot.class",
		"com/invirgance/convirgance/boot/JettyStartup.class",
		"com/invirgance/convirgance/boot/Loader.class",
	)
	return &fixture{
		dir: dir,
		spec: Spec{
			Output:     filepath.Join(dir, "target", "shop-1.0.jar"),
			MainClass:  mainClass,
			Bootstrap:  boot,
			Payload:    writeFile(t, filepath.Join(dir, "target", "shop-1.0.war"), "war bytes"),
			Descriptor: writeFile(t, filepath.Join(dir, "target", "shop-1.0", "WEB-INF", "quickstart-web.xml"), "<web-app/>"),
			Libraries: []string{
				boot,
				writeFile(t, filepath.Join(repo, "jetty-server-12.0.1.jar"), "jetty"),
				writeFile(t, filepath.Join(repo, "slf4j-api-2.0.9.jar"), "slf4j"),
			},
			ModTime: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
		},
	}
}

func readEntries(t *testing.T, path string) (names []string, contents map[string]string) {
	t.Helper()
	r, err := zip.OpenReader(path)
	if err != nil {
		t.Fatalf("open %s: %v", path, err)
	}
	defer r.Close()

	contents = make(map[string]string)
	for _, f := range r.File {
		rc, err := f.Open()
		if err != nil {
			t.Fatal(err)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			t.Fatal(err)
		}
		names = append(names, f.Name)
		contents[f.Name] = string(data)
	}
	return names, contents
}

func TestAssemble(t *testing.T) {
	f := newFixture(t)

	report, err := NewAssembler().Assemble(context.Background(), f.spec)
	if err != nil {
		t.Fatalf("Assemble() error: %v", err)
	}

	names, contents := readEntries(t, f.spec.Output)
	want := []string{
		"META-INF/MANIFEST.MF",
		"com/invirgance/convirgance/boot/ConvirganceBoot.class",
		"com/invirgance/convirgance/boot/Loader.class",
		"root.war",
		"quickstart-web.xml",
		"lib/convirgance-boot-0.2.0.jar",
		"lib/jetty-server-12.0.1.jar",
		"lib/slf4j-api-2.0.9.jar",
		"libraries",
	}
	if !slices.Equal(names, want) {
		t.Errorf("entries = %v\nwant %v", names, want)
	}
	if !slices.Equal(report.Entries, want) {
		t.Errorf("report entries = %v", report.Entries)
	}

	wantManifest := "Manifest-Version: 1.0\r\nMain-Class: " + mainClass + "\r\n\r\n"
	if contents["META-INF/MANIFEST.MF"] != wantManifest {
		t.Errorf("manifest = %q", contents["META-INF/MANIFEST.MF"])
	}
	wantIndex := "/lib/convirgance-boot-0.2.0.jar\n/lib/jetty-server-12.0.1.jar\n/lib/slf4j-api-2.0.9.jar\n"
	if contents["libraries"] != wantIndex {
		t.Errorf("libraries = %q, want %q", contents["libraries"], wantIndex)
	}
	if contents["root.war"] != "war bytes" || contents["quickstart-web.xml"] != "<web-app/>" {
		t.Error("payload or descriptor content mismatch")
	}
	if contents["lib/jetty-server-12.0.1.jar"] != "jetty" {
		t.Error("library content mismatch")
	}

	data, err := os.ReadFile(f.spec.Output)
	if err != nil {
		t.Fatal(err)
	}
	sum := blake3.Sum256(data)
	if report.Digest != hex.EncodeToString(sum[:]) {
		t.Errorf("Digest = %s, want %x", report.Digest, sum)
	}
	if report.Size != int64(len(data)) {
		t.Errorf("Size = %d, want %d", report.Size, len(data))
	}
	assertNoTempFiles(t, filepath.Dir(f.spec.Output))
}

func TestAssembleIsDeterministic(t *testing.T) {
	f := newFixture(t)
	a := NewAssembler()

	first, err := a.Assemble(context.Background(), f.spec)
	if err != nil {
		t.Fatal(err)
	}
	second, err := a.Assemble(context.Background(), f.spec)
	if err != nil {
		t.Fatal(err)
	}
	if first.Digest != second.Digest {
		t.Errorf("digests differ for identical inputs: %s vs %s", first.Digest, second.Digest)
	}
}

func TestAssemblePayloadName(t *testing.T) {
	f := newFixture(t)
	f.spec.PayloadName = "app/root.war"
	f.spec.Descriptor = ""
	f.spec.Libraries = nil

	if _, err := NewAssembler().Assemble(context.Background(), f.spec); err != nil {
		t.Fatalf("Assemble() error: %v", err)
	}
	names, contents := readEntries(t, f.spec.Output)
	if !slices.Contains(names, "app/root.war") || slices.Contains(names, "quickstart-web.xml") {
		t.Errorf("entries = %v", names)
	}
	if contents["libraries"] != "" {
		t.Errorf("libraries = %q, want empty", contents["libraries"])
	}
}

func TestAssembleFailures(t *testing.T) {
	tests := []struct {
		name   string
		modify func(f *fixture)
		code   errors.Code
	}{
		{
			name: "duplicate library file name",
			modify: func(f *fixture) {
				other := writeFile(t, filepath.Join(f.dir, "other", "slf4j-api-2.0.9.jar"), "dup")
				f.spec.Libraries = append(f.spec.Libraries, other)
			},
			code: errors.ErrCodeIO,
		},
		{
			name: "missing library",
			modify: func(f *fixture) {
				f.spec.Libraries = append(f.spec.Libraries, filepath.Join(f.dir, "absent.jar"))
			},
			code: errors.ErrCodeArtifactNotFound,
		},
		{
			name:   "missing bootstrap",
			modify: func(f *fixture) { f.spec.Bootstrap = filepath.Join(f.dir, "absent.jar") },
			code:   errors.ErrCodeArtifactNotFound,
		},
		{
			name: "bootstrap is not a zip",
			modify: func(f *fixture) {
				f.spec.Bootstrap = writeFile(t, filepath.Join(f.dir, "broken.jar"), "not a zip")
			},
			code: errors.ErrCodeIO,
		},
		{
			name:   "invalid main class",
			modify: func(f *fixture) { f.spec.MainClass = "not a class" },
			code:   errors.ErrCodeInvalidInput,
		},
		{
			name:   "unsafe payload name",
			modify: func(f *fixture) { f.spec.PayloadName = "../root.war" },
			code:   errors.ErrCodeInvalidPath,
		},
		{
			name:   "no payload",
			modify: func(f *fixture) { f.spec.Payload = "" },
			code:   errors.ErrCodeInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			if err := os.WriteFile(f.spec.Output, []byte("previous"), 0o644); err != nil {
				t.Fatal(err)
			}
			tt.modify(f)

			_, err := NewAssembler().Assemble(context.Background(), f.spec)
			if !errors.Is(err, tt.code) {
				t.Fatalf("error = %v, want %s", err, tt.code)
			}

			data, err := os.ReadFile(f.spec.Output)
			if err != nil || string(data) != "previous" {
				t.Errorf("existing output was modified: %q, %v", data, err)
			}
			assertNoTempFiles(t, filepath.Dir(f.spec.Output))
		})
	}
}

func TestAssembleCanceled(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := NewAssembler().Assemble(ctx, f.spec); err == nil {
		t.Fatal("Assemble() on canceled context should fail")
	}
	if _, err := os.Stat(f.spec.Output); !os.IsNotExist(err) {
		t.Errorf("output should not exist, stat error = %v", err)
	}
	assertNoTempFiles(t, filepath.Dir(f.spec.Output))
}

func TestManifestWrapping(t *testing.T) {
	long := "com.example." + strings.Repeat("deeply.nested.", 8) + "Main"
	m := string(Manifest(long))

	lines := strings.Split(strings.TrimSuffix(m, "\r\n\r\n"), "\r\n")
	for _, l := range lines {
		if len(l) > 72 {
			t.Errorf("line exceeds 72 bytes: %q", l)
		}
	}

	var joined strings.Builder
	for i, l := range lines[1:] {
		if i > 0 {
			l = strings.TrimPrefix(l, " ")
		}
		joined.WriteString(l)
	}
	if got := joined.String(); got != "Main-Class: "+long {
		t.Errorf("unwrapped Main-Class = %q", got)
	}
}

func TestIndex(t *testing.T) {
	if got := string(Index(nil)); got != "" {
		t.Errorf("Index(nil) = %q", got)
	}
	if got := string(Index([]string{"lib/a.jar", "lib/b.jar"})); got != "/lib/a.jar\n/lib/b.jar\n" {
		t.Errorf("Index() = %q", got)
	}
}

func assertNoTempFiles(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".tmp") {
			t.Errorf("temporary file left behind: %s", e.Name())
		}
	}
}
