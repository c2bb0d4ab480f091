package deps

import (
	"strings"

	"github.com/matzehuels/warpack/pkg/errors"
)

// Coordinate identifies a library as groupId, artifactId and version.
//
// Identity for deduplication is [Coordinate.Key] ("groupId:artifactId");
// the version is content that may be upgraded in place.
type Coordinate struct {
	Group    string `json:"group" yaml:"group"`
	Artifact string `json:"artifact" yaml:"artifact"`
	Version  string `json:"version,omitempty" yaml:"version,omitempty"`
}

// ParseCoordinate parses "groupId:artifactId" or "groupId:artifactId:version".
// A missing version yields a partial coordinate, suitable for version probing.
func ParseCoordinate(s string) (Coordinate, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return Coordinate{}, errors.New(errors.ErrCodeInvalidCoordinate,
			"invalid coordinate %q (expected groupId:artifactId[:version])", s)
	}

	c := Coordinate{Group: parts[0], Artifact: parts[1]}
	if len(parts) == 3 {
		c.Version = parts[2]
	}
	if err := c.Validate(); err != nil {
		return Coordinate{}, err
	}
	return c, nil
}

// MustParseCoordinate is like [ParseCoordinate] but panics on error.
// Intended for constants and tests.
func MustParseCoordinate(s string) Coordinate {
	c, err := ParseCoordinate(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Validate checks that every present component is safe to use in a
// repository path. The version may be empty.
func (c Coordinate) Validate() error {
	if err := errors.ValidateCoordinatePart("groupId", c.Group); err != nil {
		return err
	}
	if err := errors.ValidateCoordinatePart("artifactId", c.Artifact); err != nil {
		return err
	}
	if c.Version != "" {
		return errors.ValidateCoordinatePart("version", c.Version)
	}
	return nil
}

// Key returns the identity key "groupId:artifactId".
func (c Coordinate) Key() string {
	return c.Group + ":" + c.Artifact
}

// String returns "groupId:artifactId:version", or just the key when the
// version is empty.
func (c Coordinate) String() string {
	if c.Version == "" {
		return c.Key()
	}
	return c.Key() + ":" + c.Version
}

// WithVersion returns a copy of c with the version replaced.
func (c Coordinate) WithVersion(v string) Coordinate {
	c.Version = v
	return c
}

// Matches reports whether c is covered by pattern, comparing group and
// artifact only. A "*" in either pattern field matches anything, as in
// Maven exclusion declarations.
func (c Coordinate) Matches(pattern Coordinate) bool {
	return (pattern.Group == "*" || pattern.Group == c.Group) &&
		(pattern.Artifact == "*" || pattern.Artifact == c.Artifact)
}
