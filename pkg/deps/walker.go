package deps

import (
	"context"
	"slices"
	"time"

	"github.com/matzehuels/warpack/pkg/errors"
	"github.com/matzehuels/warpack/pkg/observability"
)

// maxPlaceholderDepth bounds "${a}" -> "${b}" -> ... property chains.
const maxPlaceholderDepth = 8

// Walker resolves the flat runtime artifact set of a root coordinate by
// walking its declared dependency graph depth-first.
//
// A Walker holds no state between calls; every [Walker.Resolve] builds its
// own sets, so one Walker may be reused for any number of roots.
type Walker struct {
	source MetadataSource
	probe  VersionProbe
	opts   Options
}

// NewWalker creates a Walker reading models from source and falling back to
// probe for dependencies declared without a version. probe may be nil, in
// which case versionless dependencies fail resolution.
func NewWalker(source MetadataSource, probe VersionProbe, opts Options) *Walker {
	return &Walker{source: source, probe: probe, opts: opts.WithDefaults()}
}

// Resolve returns the deduplicated runtime artifacts reachable from root,
// root itself excluded. It fails with METADATA_NOT_FOUND when the model of
// root, or of any coordinate reached from it, cannot be read.
func (w *Walker) Resolve(ctx context.Context, root Coordinate) (*Set, error) {
	res, err := w.Tree(ctx, root)
	if err != nil {
		return nil, err
	}
	return res.Artifacts, nil
}

// Tree is like [Walker.Resolve] but also returns the edges seen on the way.
func (w *Walker) Tree(ctx context.Context, root Coordinate) (res *Resolution, err error) {
	hooks := observability.Resolve()
	start := time.Now()
	hooks.OnResolveStart(ctx, root.String())
	defer func() {
		count := 0
		if res != nil {
			count = res.Artifacts.Len()
		}
		hooks.OnResolveComplete(ctx, root.String(), count, time.Since(start), err)
	}()

	if root.Version == "" {
		v, err := w.latest(ctx, root, root)
		if err != nil {
			return nil, err
		}
		root.Version = v
	}

	r := &walk{
		ctx:     ctx,
		w:       w,
		hooks:   hooks,
		visited: map[string]bool{w.visitKey(root): true},
	}
	set, err := r.visit(root, nil)
	if err != nil {
		return nil, err
	}
	// A cycle back to the root collects it as its own dependency.
	if set.Contains(root.Key()) {
		set = set.Without(root.Key())
	}
	return &Resolution{Root: root, Artifacts: set, Edges: r.edges}, nil
}

func (w *Walker) visitKey(c Coordinate) string {
	if w.opts.RevisitUpgrades {
		return c.String()
	}
	return c.Key()
}

func (w *Walker) latest(ctx context.Context, c, from Coordinate) (string, error) {
	if w.probe == nil {
		return "", errors.New(errors.ErrCodeMetadataNotFound,
			"no version declared for %s (required by %s)", c.Key(), from)
	}
	v, err := w.probe.Latest(ctx, c)
	if err != nil {
		return "", err
	}
	if v == "" {
		return "", errors.New(errors.ErrCodeMetadataNotFound,
			"no version of %s in local repository (required by %s)", c.Key(), from)
	}
	w.opts.Logger("probed %s: using %s", c.Key(), v)
	return v, nil
}

// walk is the state of a single resolution. The visited guard spans the
// whole walk; the artifact sets are owned per subtree and merged upward.
type walk struct {
	ctx     context.Context
	w       *Walker
	hooks   observability.ResolveHooks
	visited map[string]bool
	edges   []Edge
}

func (r *walk) visit(c Coordinate, excluded []Coordinate) (*Set, error) {
	if err := r.ctx.Err(); err != nil {
		return nil, err
	}

	proj, err := r.w.source.Project(r.ctx, c)
	if err != nil {
		if errors.GetCode(err) != "" || r.ctx.Err() != nil {
			return nil, err
		}
		return nil, errors.Wrap(errors.ErrCodeMetadataNotFound, err, "read metadata for %s", c)
	}

	set := NewSet()
	set.OnUpgrade(r.upgraded)

	for _, d := range proj.Dependencies {
		if !d.Ships() {
			continue
		}
		if r.w.opts.EnforceExclusions && isExcluded(d.Coordinate, excluded) {
			r.w.opts.Logger("excluded %s (required by %s)", d.Key(), c)
			continue
		}

		v, err := r.version(proj, d)
		if err != nil {
			return nil, err
		}
		dep := d.WithVersion(v)
		r.edges = append(r.edges, Edge{From: c, To: dep})

		if !set.Upsert(dep) {
			if !r.w.opts.RevisitUpgrades {
				continue
			}
			if cur, _ := set.Get(dep.Key()); cur.Version != dep.Version {
				continue
			}
		}

		key := r.w.visitKey(dep)
		if r.visited[key] {
			continue
		}
		r.visited[key] = true

		childExcluded := excluded
		if r.w.opts.EnforceExclusions && len(d.Exclusions) > 0 {
			childExcluded = append(slices.Clip(excluded), d.Exclusions...)
		}

		sub, err := r.visit(dep, childExcluded)
		if err != nil {
			return nil, err
		}
		set.MergeAll(sub)
	}

	return set, nil
}

// version resolves the declared version of d within proj: placeholders are
// substituted from the project model, and a missing version falls back to
// the highest one available locally.
func (r *walk) version(proj *Project, d Declaration) (string, error) {
	v := d.Version
	for range maxPlaceholderDepth {
		name, ok := Placeholder(v)
		if !ok {
			break
		}
		resolved, found := proj.Property(name)
		if !found {
			r.w.opts.Logger("unresolved property ${%s} for %s in %s", name, d.Key(), proj.Coordinate)
			v = ""
			break
		}
		v = resolved
	}
	if _, ok := Placeholder(v); ok {
		v = ""
	}
	if v != "" {
		return v, nil
	}
	return r.w.latest(r.ctx, d.Coordinate, proj.Coordinate)
}

func (r *walk) upgraded(key, from, to string) {
	r.w.opts.Logger("upgraded %s: %s -> %s", key, from, to)
	r.hooks.OnUpgrade(r.ctx, key, from, to)
}

func isExcluded(c Coordinate, patterns []Coordinate) bool {
	for _, p := range patterns {
		if c.Matches(p) {
			return true
		}
	}
	return false
}
