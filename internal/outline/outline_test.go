package outline

import (
	"strings"
	"testing"

	"github.com/dgallion1/sustainparse/internal/pdfdoc"
)

// fakeDoc is an in-memory Document for tests.
type fakeDoc struct {
	pages []fakePage
	toc   []pdfdoc.OutlineEntry
}

type fakePage struct {
	text  string
	lines []pdfdoc.Line
}

func (d *fakeDoc) PageCount() int { return len(d.pages) }

func (d *fakeDoc) PageText(n int) string {
	if n < 1 || n > len(d.pages) {
		return ""
	}
	return d.pages[n-1].text
}

func (d *fakeDoc) PageLines(n int) []pdfdoc.Line {
	if n < 1 || n > len(d.pages) {
		return nil
	}
	return d.pages[n-1].lines
}

func (d *fakeDoc) Outline() []pdfdoc.OutlineEntry { return d.toc }

// pageOf builds a fake page whose raw text mirrors its lines.
func pageOf(lines ...pdfdoc.Line) fakePage {
	var parts []string
	for _, ln := range lines {
		parts = append(parts, ln.Text)
	}
	return fakePage{text: strings.Join(parts, "\n"), lines: lines}
}

func textPage(text string) fakePage { return fakePage{text: text} }

// prosePage yields body-sized lines that should never classify as headings.
func prosePage(n int) fakePage {
	var lines []pdfdoc.Line
	for i := 0; i < n; i++ {
		lines = append(lines, pdfdoc.Line{
			Text:     "This is ordinary running prose that keeps going for a while and ends in a period.",
			FontSize: 10,
		})
	}
	return pageOf(lines...)
}

func TestParse_OutlineStrategy(t *testing.T) {
	// The concrete scenario: 10 pages, 3 outline entries.
	doc := &fakeDoc{
		toc: []pdfdoc.OutlineEntry{
			{Title: "1 Intro", Level: 1, Page: 1},
			{Title: "1.1 Background", Level: 2, Page: 2},
			{Title: "2 Climate", Level: 1, Page: 5},
		},
	}
	for i := 0; i < 10; i++ {
		doc.pages = append(doc.pages, prosePage(3))
	}

	res, err := Parse(doc, DefaultConfig())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if res.Strategy != StrategyOutline {
		t.Fatalf("expected outline strategy, got %q", res.Strategy)
	}
	if res.PageCount != 10 {
		t.Errorf("expected page count 10, got %d", res.PageCount)
	}
	if res.MaxDepth() != 2 {
		t.Errorf("expected max depth 2, got %d", res.MaxDepth())
	}

	top := res.Root.Children
	if len(top) != 2 {
		t.Fatalf("expected 2 top-level sections, got %d", len(top))
	}
	intro, climate := top[0], top[1]
	if intro.Title != "1 Intro" || climate.Title != "2 Climate" {
		t.Fatalf("unexpected top-level titles: %q, %q", intro.Title, climate.Title)
	}
	if len(intro.Children) != 1 || intro.Children[0].Title != "1.1 Background" {
		t.Fatalf("expected single child '1.1 Background', got %+v", intro.Children)
	}
	if intro.EndPage != 4 {
		t.Errorf("intro end page: expected 4, got %d", intro.EndPage)
	}
	if intro.Children[0].EndPage != 4 {
		t.Errorf("background end page: expected 4, got %d", intro.Children[0].EndPage)
	}
	if climate.StartPage != 5 || climate.EndPage != 10 {
		t.Errorf("climate range: expected 5-10, got %d-%d", climate.StartPage, climate.EndPage)
	}
}

func TestParse_PageRangeInvariants(t *testing.T) {
	doc := &fakeDoc{
		toc: []pdfdoc.OutlineEntry{
			{Title: "Overview", Level: 1, Page: 1},
			{Title: "Strategy", Level: 1, Page: 3},
			{Title: "Targets", Level: 2, Page: 4},
			{Title: "Appendix", Level: 1, Page: 7},
		},
	}
	for i := 0; i < 8; i++ {
		doc.pages = append(doc.pages, prosePage(2))
	}

	res, err := Parse(doc, DefaultConfig())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	for _, s := range res.Sections {
		if s.StartPage < 1 || s.StartPage > s.EndPage || s.EndPage > res.PageCount {
			t.Errorf("section %s: invalid range %d-%d", s.ID, s.StartPage, s.EndPage)
		}
		for _, c := range s.Children {
			if c.StartPage < s.StartPage || c.EndPage > s.EndPage {
				t.Errorf("child %s range %d-%d escapes parent %s range %d-%d",
					c.ID, c.StartPage, c.EndPage, s.ID, s.StartPage, s.EndPage)
			}
		}
	}

	// Top-level siblings cover 1..pageCount with no gaps or overlaps.
	top := res.Root.Children
	if top[0].StartPage != 1 {
		t.Errorf("first top-level section starts at %d, want 1", top[0].StartPage)
	}
	for i := 1; i < len(top); i++ {
		if top[i-1].EndPage+1 != top[i].StartPage {
			t.Errorf("gap or overlap between %q (end %d) and %q (start %d)",
				top[i-1].Title, top[i-1].EndPage, top[i].Title, top[i].StartPage)
		}
	}
	if top[len(top)-1].EndPage != res.PageCount {
		t.Errorf("last top-level section ends at %d, want %d", top[len(top)-1].EndPage, res.PageCount)
	}
}

func TestParse_PathReconstruction(t *testing.T) {
	doc := &fakeDoc{
		toc: []pdfdoc.OutlineEntry{
			{Title: "Report Overview", Level: 1, Page: 1},
			{Title: "Climate", Level: 2, Page: 2},
			{Title: "Targets", Level: 3, Page: 3},
		},
	}
	for i := 0; i < 4; i++ {
		doc.pages = append(doc.pages, prosePage(2))
	}

	res, err := Parse(doc, DefaultConfig())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	for _, s := range res.Sections {
		parts := strings.Split(s.Path, PathSeparator)
		if parts[len(parts)-1] != s.Title {
			t.Errorf("path %q should end in title %q", s.Path, s.Title)
		}
		if p := s.Parent(); p != nil && s.Path != p.Path+PathSeparator+s.Title {
			t.Errorf("path %q is not parent path %q plus title", s.Path, p.Path)
		}
	}

	deepest := res.Sections[len(res.Sections)-1]
	want := "Report Overview > Climate > Targets"
	if deepest.Path != want {
		t.Errorf("expected path %q, got %q", want, deepest.Path)
	}
}

func TestParse_Determinism(t *testing.T) {
	doc := &fakeDoc{
		toc: []pdfdoc.OutlineEntry{
			{Title: "One", Level: 1, Page: 1},
			{Title: "Two", Level: 1, Page: 2},
			{Title: "Deep", Level: 2, Page: 3},
		},
	}
	for i := 0; i < 5; i++ {
		doc.pages = append(doc.pages, prosePage(2))
	}

	first, err := Parse(doc, DefaultConfig())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	second, err := Parse(doc, DefaultConfig())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if len(first.Sections) != len(second.Sections) {
		t.Fatalf("section counts differ: %d vs %d", len(first.Sections), len(second.Sections))
	}
	for i := range first.Sections {
		a, b := first.Sections[i].Record(), second.Sections[i].Record()
		if a != b {
			t.Errorf("section %d differs across runs: %+v vs %+v", i, a, b)
		}
	}
}

func TestParse_Fallback(t *testing.T) {
	doc := &fakeDoc{}
	for i := 0; i < 3; i++ {
		doc.pages = append(doc.pages, prosePage(4))
	}

	res, err := Parse(doc, DefaultConfig())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if res.Strategy != StrategyFallback {
		t.Fatalf("expected fallback strategy, got %q", res.Strategy)
	}
	if len(res.Sections) != 1 {
		t.Fatalf("expected exactly one section, got %d", len(res.Sections))
	}
	s := res.Sections[0]
	if s.Title != "Full Document" || s.StartPage != 1 || s.EndPage != 3 || s.Level != 1 {
		t.Errorf("unexpected fallback section: %+v", s.Record())
	}
	if s.Text == "" {
		t.Error("fallback section should carry the whole document text")
	}
}

func TestParse_EmptyDocument(t *testing.T) {
	if _, err := Parse(&fakeDoc{}, DefaultConfig()); err == nil {
		t.Fatal("expected error for empty document")
	}
}

func TestParse_PrefaceCoversLeadingPages(t *testing.T) {
	doc := &fakeDoc{
		toc: []pdfdoc.OutlineEntry{
			{Title: "Introduction", Level: 1, Page: 3},
			{Title: "Climate", Level: 1, Page: 5},
		},
	}
	for i := 0; i < 6; i++ {
		doc.pages = append(doc.pages, prosePage(2))
	}

	res, err := Parse(doc, DefaultConfig())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	top := res.Root.Children
	if len(top) != 3 {
		t.Fatalf("expected preface plus 2 sections, got %d", len(top))
	}
	if top[0].Title != "Preface" || top[0].StartPage != 1 || top[0].EndPage != 2 {
		t.Errorf("unexpected preface section: %+v", top[0].Record())
	}
}

func TestParse_TextSegmentation(t *testing.T) {
	doc := &fakeDoc{
		pages: []fakePage{
			textPage("alpha page one"),
			textPage("bravo page two"),
			textPage("charlie page three"),
		},
		toc: []pdfdoc.OutlineEntry{
			{Title: "First", Level: 1, Page: 1},
			{Title: "Second", Level: 1, Page: 3},
		},
	}

	res, err := Parse(doc, DefaultConfig())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	first := res.Sections[0]
	if !strings.Contains(first.Text, "alpha page one") || !strings.Contains(first.Text, "bravo page two") {
		t.Errorf("first section text should span pages 1-2, got %q", first.Text)
	}
	if strings.Contains(first.Text, "charlie") {
		t.Errorf("first section text leaked into page 3: %q", first.Text)
	}
}

func TestSectionsUnder(t *testing.T) {
	doc := &fakeDoc{
		toc: []pdfdoc.OutlineEntry{
			{Title: "Climate", Level: 1, Page: 1},
			{Title: "Targets", Level: 2, Page: 2},
			{Title: "Progress", Level: 3, Page: 3},
			{Title: "Social", Level: 1, Page: 4},
		},
	}
	for i := 0; i < 5; i++ {
		doc.pages = append(doc.pages, prosePage(2))
	}

	res, err := Parse(doc, DefaultConfig())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	under := res.SectionsUnder("Climate")
	if len(under) != 3 {
		t.Fatalf("expected 3 sections under Climate, got %d", len(under))
	}
	for _, s := range under {
		if s.Title == "Social" {
			t.Error("Social should not appear under Climate")
		}
	}
	if got := res.SectionsUnder("Climate > Targets"); len(got) != 2 {
		t.Errorf("expected 2 sections under Climate > Targets, got %d", len(got))
	}
	if got := res.SectionsUnder("Nope"); got != nil {
		t.Errorf("expected nil for unknown path, got %d sections", len(got))
	}
}
