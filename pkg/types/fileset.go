package types

import "sort"

// Provenance records which bundle(s) claim a resolved path, and whether the
// path matched a free-form include pattern not tied to any bundle.
type Provenance struct {
	// Bundles are the bundle IDs whose patterns matched the path, sorted
	Bundles []BundleID

	// FreeInclude is true when a user-supplied include pattern matched
	FreeInclude bool
}

// ResolvedFileSet maps each project-relative path in the desired state to
// its provenance. It is a set: resolution is order-independent and a path
// matched by several patterns appears exactly once.
type ResolvedFileSet struct {
	files map[string]Provenance
}

// NewResolvedFileSet creates an empty ResolvedFileSet
func NewResolvedFileSet() *ResolvedFileSet {
	return &ResolvedFileSet{files: make(map[string]Provenance)}
}

// AddBundleMatch records that a bundle's pattern matched the path
func (s *ResolvedFileSet) AddBundleMatch(path string, bundle BundleID) {
	p := s.files[path]
	for _, id := range p.Bundles {
		if id == bundle {
			s.files[path] = p
			return
		}
	}
	p.Bundles = append(p.Bundles, bundle)
	sort.Slice(p.Bundles, func(i, j int) bool { return p.Bundles[i] < p.Bundles[j] })
	s.files[path] = p
}

// AddFreeInclude records that a free-form include pattern matched the path
func (s *ResolvedFileSet) AddFreeInclude(path string) {
	p := s.files[path]
	p.FreeInclude = true
	s.files[path] = p
}

// Remove drops a path from the set (exclude patterns win unconditionally)
func (s *ResolvedFileSet) Remove(path string) {
	delete(s.files, path)
}

// Contains reports whether the path is part of the desired state
func (s *ResolvedFileSet) Contains(path string) bool {
	_, ok := s.files[path]
	return ok
}

// Provenance returns the provenance for a path, if present
func (s *ResolvedFileSet) Provenance(path string) (Provenance, bool) {
	p, ok := s.files[path]
	return p, ok
}

// Paths returns all resolved paths in sorted order
func (s *ResolvedFileSet) Paths() []string {
	paths := make([]string, 0, len(s.files))
	for path := range s.files {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}

// Len returns the number of resolved paths
func (s *ResolvedFileSet) Len() int {
	return len(s.files)
}
