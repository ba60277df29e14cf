package outline

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/dgallion1/sustainparse/internal/pdfdoc"
)

// outlineStrategy turns embedded bookmarks into candidates. Bookmarks are
// authoring-tool metadata, so candidates carry maximal confidence.
type outlineStrategy struct{ cfg Config }

func (outlineStrategy) Name() string { return StrategyOutline }

func (s outlineStrategy) Candidates(doc Document) []Candidate {
	entries := doc.Outline()
	if len(entries) < s.cfg.MinCandidates {
		return nil
	}
	cands := make([]Candidate, 0, len(entries))
	for _, e := range entries {
		title := collapseSpace(e.Title)
		if title == "" {
			continue
		}
		cands = append(cands, Candidate{
			Title:  title,
			Level:  clampLevel(e.Level, s.cfg.MaxLevel),
			Page:   maxInt(e.Page, 1),
			Score:  1.0,
			Source: StrategyOutline,
		})
	}
	if len(cands) < s.cfg.MinCandidates {
		return nil
	}
	return cands
}

var tocMarkers = []string{"table of contents", "contents"}

var (
	trailingPageRe = regexp.MustCompile(`\b(\d{1,4})\s*$`)
	gapPageRe      = regexp.MustCompile(`\s{3,}\d{1,4}\s*$`)
	leadNumRe      = regexp.MustCompile(`^(\d+(?:\.\d+){0,6}|[A-Z])[.)]?\s+\S+`)
	tocSplitRe     = regexp.MustCompile(`^(\d+(?:\.\d+){0,6}|[A-Z])[.)]?\s+(.*)$`)
	dotTrailRe     = regexp.MustCompile(`\.{2,}$`)
)

// tocStrategy locates a contents page near the front of the document and
// parses its "title ... page" entries.
type tocStrategy struct{ cfg Config }

func (tocStrategy) Name() string { return StrategyTOC }

func (s tocStrategy) Candidates(doc Document) []Candidate {
	limit := minInt(s.cfg.TOCMaxPages, doc.PageCount())
	var tocPages []int
	for p := 1; p <= limit; p++ {
		low := strings.ToLower(doc.PageText(p))
		for _, marker := range tocMarkers {
			if strings.Contains(low, marker) {
				tocPages = append(tocPages, p)
				break
			}
		}
	}
	if len(tocPages) == 0 {
		return nil
	}

	seen := map[string]bool{}
	var cands []Candidate
	for _, p := range tocPages {
		for _, raw := range strings.Split(doc.PageText(p), "\n") {
			line := strings.TrimSpace(raw)
			if !looksLikeTOCLine(line) {
				continue
			}
			loc := trailingPageRe.FindStringSubmatchIndex(line)
			if loc == nil {
				continue
			}
			page, err := strconv.Atoi(line[loc[2]:loc[3]])
			if err != nil || page < 1 || page > doc.PageCount() {
				continue
			}
			title := strings.TrimSpace(strings.TrimRight(line[:loc[0]], ". "))
			title = strings.TrimSpace(dotTrailRe.ReplaceAllString(title, ""))

			level := 1
			if m := tocSplitRe.FindStringSubmatch(title); m != nil {
				if m[1][0] >= '0' && m[1][0] <= '9' {
					level = strings.Count(m[1], ".") + 1
				}
				title = strings.TrimSpace(m[2])
			}
			if title == "" {
				continue
			}
			key := fmt.Sprintf("%d|%s|%d", level, strings.ToLower(title), page)
			if seen[key] {
				continue
			}
			seen[key] = true
			cands = append(cands, Candidate{
				Title:  title,
				Level:  clampLevel(level, s.cfg.MaxLevel),
				Page:   page,
				Score:  0.8,
				Source: StrategyTOC,
			})
		}
	}

	sort.SliceStable(cands, func(i, j int) bool {
		if cands[i].Page != cands[j].Page {
			return cands[i].Page < cands[j].Page
		}
		if cands[i].Level != cands[j].Level {
			return cands[i].Level < cands[j].Level
		}
		return cands[i].Title < cands[j].Title
	})
	if len(cands) < s.cfg.MinCandidates {
		return nil
	}
	return cands
}

// looksLikeTOCLine reports whether a line resembles "Section title ..... 12"
// or "2.3 Climate Risk 45".
func looksLikeTOCLine(s string) bool {
	if len(s) < 6 {
		return false
	}
	if !trailingPageRe.MatchString(s) {
		return false
	}
	if !hasLetter(s) {
		return false
	}
	if strings.Contains(s, "...") || gapPageRe.MatchString(s) {
		return true
	}
	return leadNumRe.MatchString(s)
}

// headingStrategy scans body lines through the classifier.
type headingStrategy struct{ cfg Config }

func (headingStrategy) Name() string { return StrategyHeadings }

func (s headingStrategy) Candidates(doc Document) []Candidate {
	cls := newClassifier(s.cfg, doc)
	seen := map[string]bool{}
	var cands []Candidate

	for p := 1; p <= doc.PageCount(); p++ {
		for _, line := range pageLinesOrText(doc, p) {
			score, level := cls.classify(line)
			if score < s.cfg.AcceptScore {
				continue
			}
			title := collapseSpace(line.Text)
			if len(title) > s.cfg.MaxTitleLen {
				continue
			}
			key := fmt.Sprintf("%d|%s|%d", level, strings.ToLower(title), p)
			if seen[key] {
				continue
			}
			seen[key] = true
			cands = append(cands, Candidate{
				Title:  title,
				Level:  level,
				Page:   p,
				Score:  score,
				Source: StrategyHeadings,
			})
		}
	}
	if len(cands) < s.cfg.MinCandidates {
		return nil
	}
	return cands
}

// pageLinesOrText prefers positioned line records and falls back to splitting
// the raw page text when the extractor recovered no font metrics.
func pageLinesOrText(doc Document, p int) []pdfdoc.Line {
	if lines := doc.PageLines(p); len(lines) > 0 {
		return lines
	}
	var lines []pdfdoc.Line
	for _, ln := range strings.Split(doc.PageText(p), "\n") {
		if strings.TrimSpace(ln) == "" {
			continue
		}
		lines = append(lines, pdfdoc.Line{Text: ln})
	}
	return lines
}

func clampLevel(level, maxLevel int) int {
	if level < 1 {
		return 1
	}
	return minInt(level, maxLevel)
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
