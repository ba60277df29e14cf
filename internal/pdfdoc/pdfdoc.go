// Package pdfdoc provides a read-only, fully-extracted view of a PDF file:
// page count, per-page text, per-page line records with font sizes, and the
// embedded outline (bookmarks) when present.
package pdfdoc

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"

	pdflib "github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
)

// ErrEmptyDocument reports a PDF with zero extractable pages.
var ErrEmptyDocument = errors.New("pdf has no extractable pages")

// Document is an immutable snapshot of a PDF's text content. All extraction
// happens at Open time; accessors never touch the file again, so the
// underlying handle is released before Open returns.
type Document struct {
	path    string
	pages   []Page
	outline []OutlineEntry
}

// Page holds the extracted content of a single page.
type Page struct {
	Number int // 1-based
	Text   string
	Lines  []Line
}

// Line is a single visual text line with its dominant font size.
// FontSize is 0 when the extractor could not recover font metrics.
type Line struct {
	Text     string
	FontSize float64
	Y        float64 // vertical position in page coordinates
}

// OutlineEntry is one embedded bookmark: title, nesting depth (1-based) and
// 1-based target page.
type OutlineEntry struct {
	Title string
	Level int
	Page  int
}

// Open reads and extracts the whole PDF. The file handle is closed on every
// exit path. Returns ErrEmptyDocument for a PDF without pages.
func Open(path string) (*Document, error) {
	f, reader, err := pdflib.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open pdf %s: %w", path, err)
	}
	defer f.Close()

	numPages := reader.NumPage()
	if numPages == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrEmptyDocument)
	}

	pages := make([]Page, 0, numPages)
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			pages = append(pages, Page{Number: i})
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			text = ""
		}
		pages = append(pages, Page{
			Number: i,
			Text:   normalizeText(text),
			Lines:  buildLines(page.Content().Text),
		})
	}

	return &Document{
		path:    path,
		pages:   pages,
		outline: readBookmarks(path),
	}, nil
}

// Path returns the file path the document was opened from.
func (d *Document) Path() string { return d.path }

// PageCount returns the number of pages.
func (d *Document) PageCount() int { return len(d.pages) }

// PageText returns the raw text of a 1-based page number, or "" when out of
// range.
func (d *Document) PageText(n int) string {
	if n < 1 || n > len(d.pages) {
		return ""
	}
	return d.pages[n-1].Text
}

// PageLines returns the line records of a 1-based page number.
func (d *Document) PageLines(n int) []Line {
	if n < 1 || n > len(d.pages) {
		return nil
	}
	return d.pages[n-1].Lines
}

// Outline returns the embedded bookmark entries in document order, or nil
// when the PDF carries none.
func (d *Document) Outline() []OutlineEntry { return d.outline }

var trailingBlank = regexp.MustCompile(`[ \t]+\n`)

func normalizeText(text string) string {
	text = strings.ReplaceAll(text, " ", " ")
	return trailingBlank.ReplaceAllString(text, "\n")
}

// rowTolerance groups character runs whose Y coordinates differ by no more
// than this many points into the same visual line.
const rowTolerance = 3.0

// buildLines reconstructs visual lines from positioned character runs.
// Runs are grouped into rows by Y coordinate, rows ordered top to bottom,
// runs within a row ordered left to right.
func buildLines(texts []pdflib.Text) []Line {
	var rows [][]pdflib.Text
	for _, t := range texts {
		if strings.TrimSpace(t.S) == "" && t.S != " " {
			continue
		}
		placed := false
		for i := range rows {
			if absFloat(rows[i][0].Y-t.Y) <= rowTolerance {
				rows[i] = append(rows[i], t)
				placed = true
				break
			}
		}
		if !placed {
			rows = append(rows, []pdflib.Text{t})
		}
	}

	// PDF coordinates grow upward: larger Y means closer to the top.
	sort.SliceStable(rows, func(i, j int) bool { return rows[i][0].Y > rows[j][0].Y })

	lines := make([]Line, 0, len(rows))
	for _, row := range rows {
		sort.SliceStable(row, func(i, j int) bool { return row[i].X < row[j].X })
		var sb strings.Builder
		var fontSize float64
		prevEnd := -1.0
		for _, t := range row {
			if t.FontSize > fontSize {
				fontSize = t.FontSize
			}
			gap := t.FontSize * 0.3
			if gap <= 0 {
				gap = 2.0
			}
			if prevEnd >= 0 && t.X-prevEnd > gap && !strings.HasPrefix(t.S, " ") {
				sb.WriteByte(' ')
			}
			sb.WriteString(t.S)
			prevEnd = t.X + t.W
		}
		text := strings.TrimSpace(sb.String())
		if text == "" {
			continue
		}
		lines = append(lines, Line{Text: text, FontSize: fontSize, Y: row[0].Y})
	}
	return lines
}

func absFloat(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}

// readBookmarks reads the embedded outline via pdfcpu. Failures degrade to
// "no outline" rather than failing the parse: a document without readable
// bookmarks still parses through the later strategies.
func readBookmarks(path string) []OutlineEntry {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()

	bms, err := api.Bookmarks(f, nil)
	if err != nil {
		return nil
	}

	var entries []OutlineEntry
	var walk func(bs []pdfcpu.Bookmark, level int)
	walk = func(bs []pdfcpu.Bookmark, level int) {
		for _, b := range bs {
			title := strings.TrimSpace(b.Title)
			if title != "" && b.PageFrom >= 1 {
				entries = append(entries, OutlineEntry{Title: title, Level: level, Page: b.PageFrom})
			}
			walk(b.Kids, level+1)
		}
	}
	walk(bms, 1)
	return entries
}
