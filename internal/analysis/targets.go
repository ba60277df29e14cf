package analysis

import (
	"regexp"
	"strings"

	"github.com/dgallion1/sustainparse/internal/outline"
)

// ScopeMention is one GHG scope reference with surrounding context.
type ScopeMention struct {
	SectionID string `json:"section_id"`
	Title     string `json:"title"`
	PageRange string `json:"page_range"`
	Scope     string `json:"scope"`
	Snippet   string `json:"snippet"`
}

// TargetMention is one climate target statement with the committed year.
type TargetMention struct {
	SectionID string `json:"section_id"`
	Title     string `json:"title"`
	PageRange string `json:"page_range"`
	Year      string `json:"year"`
	Match     string `json:"match"`
	Context   string `json:"context"`
}

// Patterns are case-insensitive and matched directly against the section
// text so that match offsets index the same string they slice. Lowercasing a
// copy first would shift offsets: some runes grow by a byte when lowered.
var scopeRe = regexp.MustCompile(`(?i)scope\s*[123]`)

// targetPatterns each capture the committed year in group 1.
var targetPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)net\s*zero\s*by\s*(20\d{2})`),
	regexp.MustCompile(`(?i)carbon\s*neutral\s*by\s*(20\d{2})`),
	regexp.MustCompile(`(?i)reduce(?:d)?\s+.*?\s+by\s+(20\d{2})`),
	regexp.MustCompile(`(?i)target(?:s)?\s+.*?\s+(20\d{2})`),
}

// ScopeSnippets finds every "scope 1/2/3" mention and returns it with a
// window of surrounding text, newlines flattened.
func ScopeSnippets(recs []outline.Record, window int) []ScopeMention {
	var out []ScopeMention
	for _, r := range recs {
		for _, loc := range scopeRe.FindAllStringIndex(r.Text, -1) {
			start := maxInt(0, loc[0]-window)
			end := minInt(len(r.Text), loc[1]+window)
			out = append(out, ScopeMention{
				SectionID: r.ID,
				Title:     r.Title,
				PageRange: pageRange(r),
				Scope:     strings.ToLower(r.Text[loc[0]:loc[1]]),
				Snippet:   flatten(r.Text[start:end]),
			})
		}
	}
	return out
}

// ExtractTargets finds committed-year target statements across all sections.
func ExtractTargets(recs []outline.Record) []TargetMention {
	var out []TargetMention
	for _, r := range recs {
		for _, pat := range targetPatterns {
			for _, m := range pat.FindAllStringSubmatchIndex(r.Text, -1) {
				start := maxInt(0, m[0]-120)
				end := minInt(len(r.Text), m[1]+180)
				out = append(out, TargetMention{
					SectionID: r.ID,
					Title:     r.Title,
					PageRange: pageRange(r),
					Year:      r.Text[m[2]:m[3]],
					Match:     strings.ToLower(r.Text[m[0]:m[1]]),
					Context:   flatten(r.Text[start:end]),
				})
			}
		}
	}
	return out
}

func flatten(s string) string {
	return strings.ReplaceAll(s, "\n", " ")
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
