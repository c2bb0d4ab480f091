package java

import (
	"context"
	"sync"

	"github.com/matzehuels/warpack/pkg/deps"
	"github.com/matzehuels/warpack/pkg/errors"
	"github.com/matzehuels/warpack/pkg/integrations/maven"
)

// maxParentDepth bounds parent chains, which can be cyclic in broken POMs.
const maxParentDepth = 16

// Source reads project models from POM files in a local repository.
//
// Models are memoized per coordinate, so a shared parent is read once per
// Source. Source is safe for concurrent use.
type Source struct {
	repo   *maven.Repository
	logger func(string, ...any)

	mu      sync.Mutex
	models  map[string]*deps.Project
	parents map[string]map[string]string
}

// NewSource creates a Source over repo. logger receives non-fatal problems
// such as unreadable parent POMs and may be nil.
func NewSource(repo *maven.Repository, logger func(string, ...any)) *Source {
	if logger == nil {
		logger = func(string, ...any) {}
	}
	return &Source{
		repo:    repo,
		logger:  logger,
		models:  make(map[string]*deps.Project),
		parents: make(map[string]map[string]string),
	}
}

// Project implements [deps.MetadataSource]. The returned model carries the
// properties of its whole parent chain, nearer declarations winning.
func (s *Source) Project(ctx context.Context, c deps.Coordinate) (*deps.Project, error) {
	key := c.String()

	s.mu.Lock()
	cached, ok := s.models[key]
	s.mu.Unlock()
	if ok {
		return cached, nil
	}

	pom, err := s.repo.ReadPOM(ctx, c)
	if err != nil {
		return nil, err
	}

	p := FromPOM(pom)
	if p.Parent != nil {
		p = p.WithProperties(s.inherited(ctx, *p.Parent, 0))
	}
	expandNames(p)

	s.mu.Lock()
	s.models[key] = p
	s.mu.Unlock()
	return p, nil
}

// inherited returns the merged properties of parent and its ancestors.
// A missing parent only loses its properties; it does not fail the lookup.
func (s *Source) inherited(ctx context.Context, parent deps.Coordinate, depth int) map[string]string {
	key := parent.String()

	s.mu.Lock()
	props, ok := s.parents[key]
	s.mu.Unlock()
	if ok {
		return props
	}

	if depth >= maxParentDepth {
		s.logger("parent chain of %s too deep, ignoring further parents", parent)
		return nil
	}
	if err := parent.Validate(); err != nil || parent.Version == "" {
		s.logger("invalid parent %s: ignoring inherited properties", parent)
		return nil
	}

	pom, err := s.repo.ReadPOM(ctx, parent)
	if err != nil {
		s.logger("skip properties of parent %s: %s", parent, errors.UserMessage(err))
		return nil
	}

	p := FromPOM(pom)
	if p.Parent != nil {
		p = p.WithProperties(s.inherited(ctx, *p.Parent, depth+1))
	}

	s.mu.Lock()
	s.parents[key] = p.Properties
	s.mu.Unlock()
	return p.Properties
}
