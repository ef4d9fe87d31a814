package incremental

import (
	"maps"
	"slices"

	"git.home.luguber.info/inful/catpages/internal/util/sets"
)

// ChangeSet lists the sources that differ between two builds, keyed by
// source file path.
type ChangeSet struct {
	Added    []string
	Modified []string
	Deleted  []string
}

// Diff compares the fingerprints of the previous build with the current
// ones. All lists are sorted.
func Diff(previous, current map[string]string) ChangeSet {
	var cs ChangeSet
	for _, path := range slices.Sorted(maps.Keys(current)) {
		old, ok := previous[path]
		switch {
		case !ok:
			cs.Added = append(cs.Added, path)
		case old != current[path]:
			cs.Modified = append(cs.Modified, path)
		}
	}
	for _, path := range slices.Sorted(maps.Keys(previous)) {
		if _, ok := current[path]; !ok {
			cs.Deleted = append(cs.Deleted, path)
		}
	}
	return cs
}

// Empty reports whether nothing changed.
func (c ChangeSet) Empty() bool { return c.Len() == 0 }

func (c ChangeSet) Len() int { return len(c.Added) + len(c.Modified) + len(c.Deleted) }

// Sources returns every changed path.
func (c ChangeSet) Sources() sets.Set[string] {
	s := sets.New(c.Added...)
	s.Add(c.Modified...)
	s.Add(c.Deleted...)
	return s
}
