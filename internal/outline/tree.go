package outline

import (
	"fmt"
	"strings"
)

// PathSeparator joins ancestor titles into a section path.
const PathSeparator = " > "

// Section is one node of the reconstructed topic tree. The tree owns its
// nodes top-down; the parent link is a non-owning back-reference.
type Section struct {
	ID        string
	Title     string
	Level     int
	StartPage int
	EndPage   int
	Path      string
	Text      string
	Children  []*Section

	parent *Section
}

// Parent returns the enclosing section, or nil for top-level sections.
func (s *Section) Parent() *Section {
	if s.parent == nil || s.parent.Level == 0 {
		return nil
	}
	return s.parent
}

// Record is the flat export shape consumed by downstream analyzers. Field
// names and types are a stable contract across all strategies.
type Record struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Level     int    `json:"level"`
	StartPage int    `json:"start_page"`
	EndPage   int    `json:"end_page"`
	Path      string `json:"path"`
	Text      string `json:"text"`
}

// Record returns the section's flat export record.
func (s *Section) Record() Record {
	return Record{
		ID:        s.ID,
		Title:     s.Title,
		Level:     s.Level,
		StartPage: s.StartPage,
		EndPage:   s.EndPage,
		Path:      s.Path,
		Text:      s.Text,
	}
}

// buildTree assembles an ordered candidate sequence into a tree under a
// virtual root, then resolves page ranges, ids and paths. Returns the root
// and the pre-order flat section list (root excluded).
func buildTree(cands []Candidate, pageCount int) (*Section, []*Section) {
	root := &Section{Title: "Report", Level: 0, StartPage: 1, EndPage: pageCount}

	// A document whose first heading sits past page 1 gets a preamble
	// section, so every page belongs to some top-level range.
	if len(cands) > 0 && cands[0].Page > 1 {
		preface := Candidate{Title: "Preface", Level: 1, Page: 1, Source: cands[0].Source}
		cands = append([]Candidate{preface}, cands...)
	}

	stack := []*Section{root}
	for _, c := range cands {
		level := maxInt(c.Level, 1)
		page := maxInt(c.Page, 1)
		if page > pageCount {
			page = pageCount
		}
		node := &Section{Title: c.Title, Level: level, StartPage: page}

		for len(stack) > 1 && stack[len(stack)-1].Level >= level {
			stack = stack[:len(stack)-1]
		}
		parent := stack[len(stack)-1]
		node.parent = parent
		parent.Children = append(parent.Children, node)
		stack = append(stack, node)
	}

	assignEndPages(root)

	flat := flatten(root)
	for i, s := range flat {
		s.ID = fmt.Sprintf("s%04d", i+1)
		if p := s.Parent(); p != nil {
			s.Path = p.Path + PathSeparator + s.Title
		} else {
			s.Path = s.Title
		}
	}
	return root, flat
}

// assignEndPages gives each child a range ending just before its next
// sibling's start; the last child inherits its parent's end page. Two
// headings on the same page clamp to a single-page range rather than
// merging.
func assignEndPages(node *Section) {
	for i, child := range node.Children {
		if i+1 < len(node.Children) {
			child.EndPage = maxInt(child.StartPage, node.Children[i+1].StartPage-1)
		} else {
			child.EndPage = node.EndPage
		}
		assignEndPages(child)
	}
}

func flatten(root *Section) []*Section {
	var out []*Section
	var walk func(*Section)
	walk = func(n *Section) {
		for _, c := range n.Children {
			out = append(out, c)
			walk(c)
		}
	}
	walk(root)
	return out
}

// Markdown renders the subtree as an indented outline with page ranges.
func (s *Section) Markdown() string {
	var sb strings.Builder
	var rec func(n *Section, indent int)
	rec = func(n *Section, indent int) {
		for _, c := range n.Children {
			fmt.Fprintf(&sb, "%s- %s  *(pp. %d-%d)*\n", strings.Repeat("  ", indent), c.Title, c.StartPage, c.EndPage)
			rec(c, indent+1)
		}
	}
	rec(s, 0)
	return sb.String()
}
