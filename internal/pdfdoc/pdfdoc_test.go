package pdfdoc

import (
	"testing"

	pdflib "github.com/ledongthuc/pdf"
)

func TestBuildLines_GroupsRunsByRow(t *testing.T) {
	texts := []pdflib.Text{
		{S: "Climate", FontSize: 18, X: 72, Y: 700, W: 60},
		{S: "Strategy", FontSize: 18, X: 140, Y: 700.5, W: 64},
		{S: "Body text on the next line.", FontSize: 10, X: 72, Y: 680, W: 150},
	}

	lines := buildLines(texts)
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if lines[0].Text != "Climate Strategy" {
		t.Errorf("expected merged heading line, got %q", lines[0].Text)
	}
	if lines[0].FontSize != 18 {
		t.Errorf("expected font size 18, got %v", lines[0].FontSize)
	}
	if lines[1].Text != "Body text on the next line." {
		t.Errorf("expected body line second, got %q", lines[1].Text)
	}
}

func TestBuildLines_OrdersTopToBottom(t *testing.T) {
	// Runs arrive in stream order, not visual order.
	texts := []pdflib.Text{
		{S: "bottom", FontSize: 10, X: 72, Y: 100, W: 40},
		{S: "top", FontSize: 10, X: 72, Y: 720, W: 20},
		{S: "middle", FontSize: 10, X: 72, Y: 400, W: 40},
	}

	lines := buildLines(texts)
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	want := []string{"top", "middle", "bottom"}
	for i, w := range want {
		if lines[i].Text != w {
			t.Errorf("line %d: expected %q, got %q", i, w, lines[i].Text)
		}
	}
}

func TestBuildLines_SkipsWhitespaceOnlyRuns(t *testing.T) {
	texts := []pdflib.Text{
		{S: "\n", FontSize: 10, X: 0, Y: 500, W: 0},
		{S: "Targets", FontSize: 14, X: 72, Y: 300, W: 50},
	}
	lines := buildLines(texts)
	if len(lines) != 1 || lines[0].Text != "Targets" {
		t.Fatalf("expected single 'Targets' line, got %+v", lines)
	}
}

func TestNormalizeText(t *testing.T) {
	in := "Emissions data  \nnext"
	got := normalizeText(in)
	want := "Emissions data\nnext"
	if got != want {
		t.Errorf("normalizeText(%q) = %q, want %q", in, got, want)
	}
}

func TestDocumentAccessors_OutOfRange(t *testing.T) {
	d := &Document{pages: []Page{{Number: 1, Text: "one"}}}
	if d.PageText(0) != "" || d.PageText(2) != "" {
		t.Error("expected empty text for out-of-range pages")
	}
	if d.PageLines(0) != nil || d.PageLines(2) != nil {
		t.Error("expected nil lines for out-of-range pages")
	}
	if d.PageText(1) != "one" {
		t.Errorf("expected page 1 text, got %q", d.PageText(1))
	}
}
