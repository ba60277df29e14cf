package outline

import "strings"

// ParseResult is the immutable aggregate returned by Parse: the strategy
// that produced the tree, the page count, the virtual root, and the flat
// pre-order section list downstream analyzers operate on.
type ParseResult struct {
	Strategy  string
	PageCount int
	Root      *Section
	Sections  []*Section
}

// Records returns the flat export records for all sections in pre-order.
func (r *ParseResult) Records() []Record {
	out := make([]Record, 0, len(r.Sections))
	for _, s := range r.Sections {
		out = append(out, s.Record())
	}
	return out
}

// SectionsUnder returns the section whose path equals path plus all of its
// descendants, in pre-order. An unknown path yields nil.
func (r *ParseResult) SectionsUnder(path string) []*Section {
	prefix := path + PathSeparator
	var out []*Section
	for _, s := range r.Sections {
		if s.Path == path || strings.HasPrefix(s.Path, prefix) {
			out = append(out, s)
		}
	}
	return out
}

// Section returns the section with the given id, or nil.
func (r *ParseResult) Section(id string) *Section {
	for _, s := range r.Sections {
		if s.ID == id {
			return s
		}
	}
	return nil
}

// MaxDepth returns the deepest section level in the tree, 0 for an empty
// tree.
func (r *ParseResult) MaxDepth() int {
	depth := 0
	for _, s := range r.Sections {
		if s.Level > depth {
			depth = s.Level
		}
	}
	return depth
}
