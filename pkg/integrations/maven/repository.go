package maven

import (
	"context"
	stderrors "errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/matzehuels/warpack/pkg/deps"
	"github.com/matzehuels/warpack/pkg/errors"
)

// Repository is a local Maven repository laid out as
// <dir>/<group with dots as slashes>/<artifact>/<version>/<artifact>-<version>.<ext>.
//
// It only reads from disk and never downloads anything. A Repository is
// safe for concurrent use.
type Repository struct {
	dir string
}

// DefaultDir returns ~/.m2/repository.
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidPath, err, "locate home directory")
	}
	return filepath.Join(home, ".m2", "repository"), nil
}

// NewRepository opens the repository rooted at dir, which must be an
// existing directory.
func NewRepository(dir string) (*Repository, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "resolve repository path %s", dir)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidPath, err, "open repository %s", abs)
	}
	if !info.IsDir() {
		return nil, errors.New(errors.ErrCodeInvalidPath, "repository %s is not a directory", abs)
	}
	return &Repository{dir: abs}, nil
}

// Dir returns the absolute repository root.
func (r *Repository) Dir() string { return r.dir }

// ArtifactDir returns the directory holding all versions of c's artifact.
func (r *Repository) ArtifactDir(c deps.Coordinate) string {
	parts := append(strings.Split(c.Group, "."), c.Artifact)
	return filepath.Join(append([]string{r.dir}, parts...)...)
}

// ArtifactPath returns the path of c's jar file. The file may not exist.
func (r *Repository) ArtifactPath(c deps.Coordinate) string {
	return r.file(c, "jar")
}

// POMPath returns the path of c's POM file. The file may not exist.
func (r *Repository) POMPath(c deps.Coordinate) string {
	return r.file(c, "pom")
}

func (r *Repository) file(c deps.Coordinate, ext string) string {
	return filepath.Join(r.ArtifactDir(c), c.Version, c.Artifact+"-"+c.Version+"."+ext)
}

// Artifact returns the path of c's jar, failing with ARTIFACT_NOT_FOUND when
// it is not present locally.
func (r *Repository) Artifact(c deps.Coordinate) (string, error) {
	if err := c.Validate(); err != nil {
		return "", err
	}
	path := r.ArtifactPath(c)
	if !isFile(path) {
		return "", errors.New(errors.ErrCodeArtifactNotFound, "artifact %s not found at %s", c, path)
	}
	return path, nil
}

// ReadPOM reads and parses c's POM. A missing or unparsable file fails with
// METADATA_NOT_FOUND.
func (r *Repository) ReadPOM(ctx context.Context, c deps.Coordinate) (*POM, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if c.Version == "" {
		return nil, errors.New(errors.ErrCodeMetadataNotFound, "no version for %s", c)
	}

	path := r.POMPath(c)
	f, err := os.Open(path)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, errors.New(errors.ErrCodeMetadataNotFound, "metadata for %s not found at %s", c, path)
		}
		return nil, errors.Wrap(errors.ErrCodeIO, err, "open %s", path)
	}
	defer f.Close()

	pom, err := DecodePOM(f)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeMetadataNotFound, err, "parse metadata for %s", c)
	}
	return pom, nil
}

// Latest returns the highest version of c's group and artifact that has a
// jar present, ignoring c.Version. It returns "" when no version qualifies.
//
// The search starts at the directory c would live in and moves up to the
// nearest existing ancestor, stopping at the repository root.
func (r *Repository) Latest(ctx context.Context, c deps.Coordinate) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := c.WithVersion("").Validate(); err != nil {
		return "", err
	}

	dir := r.ArtifactDir(c)
	for !isDir(dir) {
		if dir == r.dir {
			return "", nil
		}
		dir = filepath.Dir(dir)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeIO, err, "list %s", dir)
	}

	var best string
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		v := e.Name()
		if !isFile(r.ArtifactPath(c.WithVersion(v))) {
			continue
		}
		if best == "" || deps.IsUpgrade(best, v) {
			best = v
		}
	}
	return best, nil
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
