package outline

import (
	"math"
	"regexp"
	"sort"
	"strings"
	"unicode"

	"github.com/dgallion1/sustainparse/internal/pdfdoc"
)

var (
	// "1 Intro", "2.3 Climate Risk", "1.2.3) Detail"
	headingNumberRe = regexp.MustCompile(`^(\d+(?:\.\d+){0,5})[.)]?\s+(.+)$`)
	// "Section 2: Governance"
	sectionLabelRe = regexp.MustCompile(`(?i)^section\s+\d+\s*[:.]?\s+.+$`)
	captionRe      = regexp.MustCompile(`(?i)^(figure|table)\s+\d+`)
	spaceRe        = regexp.MustCompile(`\s+`)
)

// classifier scores candidate heading lines and assigns levels. Font sizes
// seen across the document are bucketed into ranked clusters (largest = rank
// 1); a line in a top cluster gets a positive signal proportional to rank.
type classifier struct {
	cfg Config
	// fontRanks maps a rounded font size to its cluster rank. Only sizes
	// above the body size appear.
	fontRanks map[int]int
}

func newClassifier(cfg Config, doc Document) *classifier {
	c := &classifier{cfg: cfg, fontRanks: map[int]int{}}

	counts := map[int]int{}
	for p := 1; p <= doc.PageCount(); p++ {
		for _, ln := range doc.PageLines(p) {
			if ln.FontSize > 0 {
				counts[roundSize(ln.FontSize)]++
			}
		}
	}
	if len(counts) == 0 {
		return c
	}

	// The most frequent size is body text; everything larger forms the
	// heading clusters.
	body, bodyCount := 0, 0
	for size, n := range counts {
		if n > bodyCount || (n == bodyCount && size < body) {
			body, bodyCount = size, n
		}
	}
	var larger []int
	for size := range counts {
		if size > body {
			larger = append(larger, size)
		}
	}
	sort.Sort(sort.Reverse(sort.IntSlice(larger)))
	for i, size := range larger {
		c.fontRanks[size] = i + 1
	}
	return c
}

// rank returns the font cluster rank of a size (1 = largest), or 0 when the
// size is unknown or body-sized.
func (c *classifier) rank(size float64) int {
	if size <= 0 {
		return 0
	}
	return c.fontRanks[roundSize(size)]
}

// classify scores a single line and assigns its heading level. Signals are
// additive; numbering depth always wins the level assignment over font rank.
func (c *classifier) classify(line pdfdoc.Line) (score float64, level int) {
	s := collapseSpace(line.Text)
	if len(s) < c.cfg.MinTitleLen || !hasLetter(s) {
		return 0, 0
	}

	depth, numbered := numberingDepth(s)
	if numbered {
		score += 3
	}
	if isMostlyUpper(s) && len(s) <= 60 {
		score += 1.5
	} else if titleCaseRatio(s) >= 0.6 {
		score += 1
	}
	if len(s) <= 60 {
		score += 1
	} else if len(s) > c.cfg.MaxTitleLen {
		score -= 2
	}
	rank := c.rank(line.FontSize)
	if rank >= 1 && rank <= c.cfg.MaxLevel {
		score += 0.5 * float64(c.cfg.MaxLevel-rank+1)
	}
	if strings.HasSuffix(s, ".") || strings.HasSuffix(s, ",") {
		score -= 2
	}
	if captionRe.MatchString(s) {
		score -= 2
	}
	if punctCount(s) > 2 {
		score -= 1
	}

	switch {
	case numbered:
		level = minInt(depth, c.cfg.MaxLevel)
	case rank >= 1:
		level = minInt(rank, c.cfg.MaxLevel)
	default:
		level = 1
	}
	return score, level
}

// numberingDepth reports the nesting depth implied by a leading numbering
// pattern: "1" is depth 1, "1.2" depth 2, "Section 2:" depth 1.
func numberingDepth(s string) (int, bool) {
	if m := headingNumberRe.FindStringSubmatch(s); m != nil {
		return strings.Count(m[1], ".") + 1, true
	}
	if sectionLabelRe.MatchString(s) {
		return 1, true
	}
	return 0, false
}

func roundSize(size float64) int {
	return int(math.Round(size * 2)) // half-point buckets
}

func collapseSpace(s string) string {
	return strings.TrimSpace(spaceRe.ReplaceAllString(s, " "))
}

func hasLetter(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}

func isMostlyUpper(s string) bool {
	hasUpper := false
	for _, r := range s {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsUpper(r) {
			hasUpper = true
		}
	}
	return hasUpper
}

// titleCaseRatio is the fraction of letter-initial words starting with an
// uppercase rune.
func titleCaseRatio(s string) float64 {
	words := strings.Fields(s)
	total, upper := 0, 0
	for _, w := range words {
		r := []rune(w)[0]
		if !unicode.IsLetter(r) {
			continue
		}
		total++
		if unicode.IsUpper(r) {
			upper++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(upper) / float64(total)
}

func punctCount(s string) int {
	n := 0
	for _, r := range s {
		if r == ',' || r == ';' || r == ':' {
			n++
		}
	}
	return n
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
