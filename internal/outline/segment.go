package outline

import "strings"

// attachText slices the raw per-page text onto every section according to
// its page range. Pages are joined with a blank line. The heading's own line
// is left in place so the text stays close to raw extraction.
func attachText(flat []*Section, doc Document) {
	for _, s := range flat {
		s.Text = pageSpan(doc, s.StartPage, s.EndPage)
	}
}

func pageSpan(doc Document, start, end int) string {
	var parts []string
	for p := start; p <= end && p <= doc.PageCount(); p++ {
		parts = append(parts, doc.PageText(p))
	}
	return strings.TrimSpace(strings.Join(parts, "\n\n"))
}
