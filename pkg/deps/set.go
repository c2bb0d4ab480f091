package deps

// Set is an ordered collection of coordinates, unique by [Coordinate.Key].
//
// Entries keep the order in which their key was first inserted; an upgrade
// replaces the version in place without moving the entry. The zero value is
// not usable, create sets with [NewSet].
//
// Set is not safe for concurrent use. Each resolution owns its sets and
// mutates them only through [Set.Upsert] and [Set.MergeAll].
type Set struct {
	items  []Coordinate
	index  map[string]int
	onBump func(key, from, to string)
}

// NewSet creates an empty set.
func NewSet() *Set {
	return &Set{index: make(map[string]int)}
}

// OnUpgrade registers fn to be called whenever an existing entry's version
// changes. Passing nil removes the observer.
func (s *Set) OnUpgrade(fn func(key, from, to string)) {
	s.onBump = fn
}

// Upsert inserts c, or upgrades the version of the existing entry with the
// same key when [IsUpgrade] says so.
//
// It returns true only when c's key was not present before; callers use this
// to decide whether the coordinate's own dependencies still need walking.
func (s *Set) Upsert(c Coordinate) bool {
	key := c.Key()
	if i, ok := s.index[key]; ok {
		cur := s.items[i].Version
		if IsUpgrade(cur, c.Version) {
			s.items[i].Version = c.Version
			if s.onBump != nil && cur != c.Version {
				s.onBump(key, cur, c.Version)
			}
		}
		return false
	}
	s.index[key] = len(s.items)
	s.items = append(s.items, c)
	return true
}

// MergeAll upserts every entry of other into s, discarding the insertion
// signals. Used to fold an already explored subtree into its parent.
func (s *Set) MergeAll(other *Set) {
	if other == nil {
		return
	}
	for _, c := range other.items {
		s.Upsert(c)
	}
}

// Without returns a copy of s lacking the entry for key, preserving order.
func (s *Set) Without(key string) *Set {
	out := NewSet()
	for _, c := range s.items {
		if c.Key() != key {
			out.Upsert(c)
		}
	}
	return out
}

// Get returns the entry for key ("groupId:artifactId").
func (s *Set) Get(key string) (Coordinate, bool) {
	if i, ok := s.index[key]; ok {
		return s.items[i], true
	}
	return Coordinate{}, false
}

// Contains reports whether an entry with the given key exists.
func (s *Set) Contains(key string) bool {
	_, ok := s.index[key]
	return ok
}

// Len returns the number of entries.
func (s *Set) Len() int { return len(s.items) }

// Coordinates returns a copy of the entries in discovery order.
func (s *Set) Coordinates() []Coordinate {
	out := make([]Coordinate, len(s.items))
	copy(out, s.items)
	return out
}

// Strings returns the entries formatted as "groupId:artifactId:version".
func (s *Set) Strings() []string {
	out := make([]string, len(s.items))
	for i, c := range s.items {
		out[i] = c.String()
	}
	return out
}
