package analysis

import (
	"regexp"
	"strings"

	"github.com/dgallion1/sustainparse/internal/outline"
)

var (
	materialityRe = regexp.MustCompile(`(?i)\bmateriality\b`)
	assuranceRe   = regexp.MustCompile(`(?i)\bassurance\b`)
)

// MaterialitySections returns sections whose title mentions materiality or
// whose body discusses it, ordered by start page then level.
func MaterialitySections(recs []outline.Record) []SectionRef {
	var refs []SectionRef
	for _, r := range recs {
		if strings.Contains(strings.ToLower(r.Title), "material") || materialityRe.MatchString(r.Text) {
			refs = append(refs, ref(r))
		}
	}
	sortRefs(refs)
	return refs
}

// AssuranceSections returns sections covering external assurance, ordered by
// start page then level.
func AssuranceSections(recs []outline.Record) []SectionRef {
	var refs []SectionRef
	for _, r := range recs {
		if strings.Contains(strings.ToLower(r.Title), "assurance") || assuranceRe.MatchString(r.Text) {
			refs = append(refs, ref(r))
		}
	}
	sortRefs(refs)
	return refs
}
