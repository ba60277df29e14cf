// Package outline reconstructs a hierarchical section tree from an arbitrary,
// structurally inconsistent PDF. A cascade of strategies is tried in fixed
// priority order: the embedded bookmark outline, a detected table-of-contents
// page, body-text heading detection, and finally a single whole-document
// section so that parsing always yields a usable (if degenerate) result.
package outline

import (
	"github.com/dgallion1/sustainparse/internal/pdfdoc"
)

// Strategy identifiers recorded on the ParseResult.
const (
	StrategyOutline  = "outline"
	StrategyTOC      = "toc"
	StrategyHeadings = "heading_detection"
	StrategyFallback = "fallback"
)

// Document is the read-only view of an extracted PDF the parser consumes.
// *pdfdoc.Document satisfies it; tests supply an in-memory fake.
type Document interface {
	PageCount() int
	PageText(n int) string
	PageLines(n int) []pdfdoc.Line
	Outline() []pdfdoc.OutlineEntry
}

// Candidate is a scored guess that a line (or metadata entry) is a section
// heading with an inferred nesting level. Candidates only live between
// strategy selection and tree assembly.
type Candidate struct {
	Title  string
	Level  int
	Page   int
	Score  float64
	Source string
}

// strategy produces an ordered candidate sequence, or nil when the document
// gives it nothing to work with.
type strategy interface {
	Name() string
	Candidates(doc Document) []Candidate
}

// Config collects the heuristic knobs of the parser. The zero value is not
// usable; start from DefaultConfig.
type Config struct {
	// Strategy forces a single strategy ("outline", "toc",
	// "heading_detection"). Empty or "auto" tries all in priority order.
	Strategy string

	// MinCandidates is the fewest candidates a strategy may produce and
	// still be accepted.
	MinCandidates int

	// TOCMaxPages bounds the contents-page search to the first N pages.
	TOCMaxPages int

	// MaxLevel caps assigned heading levels.
	MaxLevel int

	// AcceptScore is the classifier score a body line needs to become a
	// heading candidate.
	AcceptScore float64

	// MinTitleLen and MaxTitleLen bound plausible heading lengths in
	// characters.
	MinTitleLen int
	MaxTitleLen int
}

// DefaultConfig returns the tuning used throughout the project.
func DefaultConfig() Config {
	return Config{
		Strategy:      "auto",
		MinCandidates: 2,
		TOCMaxPages:   10,
		MaxLevel:      4,
		AcceptScore:   2.5,
		MinTitleLen:   6,
		MaxTitleLen:   120,
	}
}
