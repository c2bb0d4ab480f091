// Package archive assembles self-executing application archives.
//
// # Layout
//
// An assembled archive contains, in order:
//
//  1. META-INF/MANIFEST.MF naming the bootstrap main class
//  2. the bootstrap runtime's classes, unpacked at the top level
//  3. the web application as root.war
//  4. the quickstart descriptor as quickstart-web.xml
//  5. every library jar under lib/
//  6. a "libraries" index listing "/lib/<file>" one per line
//
// The bootstrap runtime reads "libraries" at launch to build its class path,
// then deploys root.war with the quickstart descriptor.
//
// # Atomicity
//
// [Assembler.Assemble] writes to a temporary file next to the output and
// renames it into place only after the archive is complete. On any failure
// the temporary file is removed and an existing output is left untouched.
package archive

import (
	"bytes"
	"context"
	"encoding/hex"
	stderrors "errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/klauspost/compress/zip"
	"github.com/zeebo/blake3"

	"github.com/matzehuels/warpack/pkg/errors"
	"github.com/matzehuels/warpack/pkg/observability"
)

// Entry names with fixed meaning inside the archive.
const (
	ManifestName   = "META-INF/MANIFEST.MF"
	DescriptorName = "quickstart-web.xml"
	LibrariesName  = "libraries"
	LibDir         = "lib/"
)

// DefaultSkipSuffix marks bootstrap classes that only make sense inside a
// container and are left out of the executable archive.
const DefaultSkipSuffix = "Startup.class"

// Spec describes one archive to assemble. Paths refer to the local file
// system.
type Spec struct {
	Output      string   // Destination archive
	MainClass   string   // Main-Class manifest attribute
	Bootstrap   string   // Bootstrap runtime jar whose classes are unpacked
	Payload     string   // Web application archive
	PayloadName string   // Entry name for Payload; default "root" plus its extension
	Descriptor  string   // Quickstart descriptor; skipped when empty
	Libraries   []string // Library jars, stored as lib/<file name> in order
	SkipSuffix  string   // Bootstrap entries with this suffix are skipped; default DefaultSkipSuffix
	ModTime     time.Time
}

// Report summarizes an assembled archive.
type Report struct {
	Output    string
	Entries   []string // Entry names in write order
	Libraries []string // Stored library paths, as listed in "libraries"
	Size      int64    // Archive size in bytes
	Digest    string   // Hex BLAKE3-256 of the archive bytes
}

// Assembler writes application archives.
type Assembler struct {
	// Logger receives one line per stage (optional).
	Logger func(string, ...any)
}

// NewAssembler creates an Assembler with a no-op logger.
func NewAssembler() *Assembler {
	return &Assembler{Logger: func(string, ...any) {}}
}

// Assemble writes the archive described by spec. It fails with
// ARTIFACT_NOT_FOUND when an input file is missing, INVALID_INPUT for an
// unusable spec, and IO_FAILURE for everything else, including two inputs
// that map to the same entry name.
func (a *Assembler) Assemble(ctx context.Context, spec Spec) (report *Report, err error) {
	if err := spec.validate(); err != nil {
		return nil, err
	}
	spec = spec.withDefaults()
	logf := a.Logger
	if logf == nil {
		logf = func(string, ...any) {}
	}

	hooks := observability.Assemble()
	start := time.Now()
	hooks.OnAssembleStart(ctx, spec.Output)
	defer func() {
		n := 0
		if report != nil {
			n = len(report.Entries)
		}
		hooks.OnAssembleComplete(ctx, spec.Output, n, time.Since(start), err)
	}()

	dir := filepath.Dir(spec.Output)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(spec.Output)+".*.tmp")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeIO, err, "create temporary file in %s", dir)
	}
	committed := false
	defer func() {
		if !committed {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	hasher := blake3.New()
	w := &writer{
		ctx:   ctx,
		zw:    zip.NewWriter(io.MultiWriter(tmp, hasher)),
		seen:  make(map[string]bool),
		mtime: spec.ModTime,
		hooks: hooks,
	}

	if err := w.writeBytes(ManifestName, Manifest(spec.MainClass)); err != nil {
		return nil, err
	}

	logf("unpacking bootstrap classes from %s", spec.Bootstrap)
	if err := w.unpack(spec.Bootstrap, spec.SkipSuffix); err != nil {
		return nil, err
	}

	if err := w.writeFile(spec.PayloadName, spec.Payload); err != nil {
		return nil, err
	}
	if spec.Descriptor != "" {
		if err := w.writeFile(DescriptorName, spec.Descriptor); err != nil {
			return nil, err
		}
	}

	logf("adding %d libraries", len(spec.Libraries))
	stored := make([]string, 0, len(spec.Libraries))
	for _, lib := range spec.Libraries {
		name := LibDir + filepath.Base(lib)
		if err := w.writeFile(name, lib); err != nil {
			return nil, err
		}
		stored = append(stored, name)
	}
	if err := w.writeBytes(LibrariesName, Index(stored)); err != nil {
		return nil, err
	}

	if err := w.zw.Close(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeIO, err, "finish archive")
	}
	if err := tmp.Sync(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeIO, err, "sync %s", tmp.Name())
	}
	info, err := tmp.Stat()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeIO, err, "stat %s", tmp.Name())
	}
	if err := tmp.Close(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeIO, err, "close %s", tmp.Name())
	}
	if err := os.Rename(tmp.Name(), spec.Output); err != nil {
		return nil, errors.Wrap(errors.ErrCodeIO, err, "move archive to %s", spec.Output)
	}
	committed = true

	return &Report{
		Output:    spec.Output,
		Entries:   w.names,
		Libraries: stored,
		Size:      info.Size(),
		Digest:    hex.EncodeToString(hasher.Sum(nil)),
	}, nil
}

func (s Spec) validate() error {
	switch {
	case s.Output == "":
		return errors.New(errors.ErrCodeInvalidInput, "no output path")
	case s.Bootstrap == "":
		return errors.New(errors.ErrCodeInvalidInput, "no bootstrap runtime")
	case s.Payload == "":
		return errors.New(errors.ErrCodeInvalidInput, "no application archive")
	}
	if err := errors.ValidateClassName(s.MainClass); err != nil {
		return err
	}
	if s.PayloadName != "" {
		return errors.ValidateEntryName(s.PayloadName)
	}
	return nil
}

func (s Spec) withDefaults() Spec {
	if s.PayloadName == "" {
		ext := filepath.Ext(s.Payload)
		if ext == "" {
			ext = ".war"
		}
		s.PayloadName = "root" + ext
	}
	if s.SkipSuffix == "" {
		s.SkipSuffix = DefaultSkipSuffix
	}
	if s.ModTime.IsZero() {
		s.ModTime = time.Now()
	}
	return s
}

// Manifest renders a jar manifest with the given main class. Lines are
// CRLF-terminated and wrapped at 72 bytes as the jar format requires.
func Manifest(mainClass string) []byte {
	var b bytes.Buffer
	writeManifestLine(&b, "Manifest-Version: 1.0")
	writeManifestLine(&b, "Main-Class: "+mainClass)
	b.WriteString("\r\n")
	return b.Bytes()
}

func writeManifestLine(b *bytes.Buffer, line string) {
	limit := 72
	for len(line) > limit {
		b.WriteString(line[:limit])
		b.WriteString("\r\n ")
		line = line[limit:]
		limit = 71
	}
	b.WriteString(line)
	b.WriteString("\r\n")
}

// Index renders the "libraries" entry for the stored library paths.
func Index(stored []string) []byte {
	var b strings.Builder
	for _, name := range stored {
		b.WriteString("/")
		b.WriteString(name)
		b.WriteString("\n")
	}
	return []byte(b.String())
}

// writer adds uniquely named entries to a zip stream.
type writer struct {
	ctx   context.Context
	zw    *zip.Writer
	seen  map[string]bool
	names []string
	mtime time.Time
	hooks observability.AssembleHooks
}

func (w *writer) create(name string, mtime time.Time) (io.Writer, error) {
	if err := w.ctx.Err(); err != nil {
		return nil, err
	}
	if err := errors.ValidateEntryName(name); err != nil {
		return nil, err
	}
	if w.seen[name] {
		return nil, errors.New(errors.ErrCodeIO, "duplicate archive entry %s", name)
	}
	w.seen[name] = true
	w.names = append(w.names, name)

	out, err := w.zw.CreateHeader(&zip.FileHeader{Name: name, Method: zip.Deflate, Modified: mtime})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeIO, err, "add entry %s", name)
	}
	return out, nil
}

func (w *writer) writeBytes(name string, data []byte) error {
	out, err := w.create(name, w.mtime)
	if err != nil {
		return err
	}
	if _, err := out.Write(data); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "write entry %s", name)
	}
	w.hooks.OnEntry(w.ctx, name, int64(len(data)))
	return nil
}

func (w *writer) writeFile(name, path string) error {
	f, err := openInput(path)
	if err != nil {
		return err
	}
	defer f.Close()

	mtime := w.mtime
	if info, err := f.Stat(); err == nil {
		if !info.Mode().IsRegular() {
			return errors.New(errors.ErrCodeIO, "%s is not a regular file", path)
		}
		mtime = info.ModTime()
	}
	return w.copy(name, f, mtime)
}

func (w *writer) copy(name string, r io.Reader, mtime time.Time) error {
	out, err := w.create(name, mtime)
	if err != nil {
		return err
	}
	n, err := io.Copy(out, r)
	if err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "write entry %s", name)
	}
	w.hooks.OnEntry(w.ctx, name, n)
	return nil
}

// unpack copies the non-directory entries of the jar at path, skipping
// metadata under META-INF and names ending in skipSuffix.
func (w *writer) unpack(path, skipSuffix string) error {
	f, err := openInput(path)
	if err != nil {
		return err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "stat %s", path)
	}
	r, err := zip.NewReader(f, info.Size())
	if err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "read bootstrap runtime %s", path)
	}

	for _, entry := range r.File {
		name := entry.Name
		if entry.FileInfo().IsDir() || strings.HasSuffix(name, "/") {
			continue
		}
		if strings.HasSuffix(name, skipSuffix) || strings.HasPrefix(name, "META-INF") {
			continue
		}

		mtime := entry.Modified
		if mtime.IsZero() {
			mtime = w.mtime
		}
		rc, err := entry.Open()
		if err != nil {
			return errors.Wrap(errors.ErrCodeIO, err, "read %s from %s", name, path)
		}
		err = w.copy(name, rc, mtime)
		rc.Close()
		if err != nil {
			return err
		}
	}
	return nil
}

func openInput(path string) (*os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, errors.New(errors.ErrCodeArtifactNotFound, "%s not found", path)
		}
		return nil, errors.Wrap(errors.ErrCodeIO, err, "open %s", path)
	}
	return f, nil
}
