package outline

import (
	"testing"

	"github.com/dgallion1/sustainparse/internal/pdfdoc"
)

// classifierDoc builds a document whose font histogram makes 10pt the body
// size, with 18pt and 14pt as heading clusters.
func classifierDoc() Document {
	body := pdfdoc.Line{Text: "running body text for the histogram", FontSize: 10}
	return &fakeDoc{pages: []fakePage{
		pageOf(
			pdfdoc.Line{Text: "Big Heading", FontSize: 18},
			body, body, body, body,
		),
		pageOf(
			pdfdoc.Line{Text: "Smaller Heading", FontSize: 14},
			body, body, body, body,
		),
	}}
}

func TestNumberingDepth(t *testing.T) {
	tests := []struct {
		in       string
		depth    int
		numbered bool
	}{
		{"1 Introduction", 1, true},
		{"2.3 Climate Risk", 2, true},
		{"1.2.3) Detail", 3, true},
		{"Section 2: Governance", 1, true},
		{"Introduction", 0, false},
		{"10,000 employees worldwide", 0, false},
	}
	for _, tt := range tests {
		depth, numbered := numberingDepth(tt.in)
		if depth != tt.depth || numbered != tt.numbered {
			t.Errorf("numberingDepth(%q) = %d, %v; want %d, %v",
				tt.in, depth, numbered, tt.depth, tt.numbered)
		}
	}
}

func TestClassify_NumberingBeatsFontRank(t *testing.T) {
	cls := newClassifier(DefaultConfig(), classifierDoc())

	// An 18pt line is font rank 1, but the "2.1" numbering pins it to level 2.
	score, level := cls.classify(pdfdoc.Line{Text: "2.1 Targets", FontSize: 18})
	if score < DefaultConfig().AcceptScore {
		t.Errorf("expected heading score, got %.2f", score)
	}
	if level != 2 {
		t.Errorf("expected level 2 from numbering depth, got %d", level)
	}
}

func TestClassify_FontRankAssignsLevel(t *testing.T) {
	cls := newClassifier(DefaultConfig(), classifierDoc())

	tests := []struct {
		line  pdfdoc.Line
		level int
	}{
		{pdfdoc.Line{Text: "Climate Strategy", FontSize: 18}, 1},
		{pdfdoc.Line{Text: "Emissions Reduction", FontSize: 14}, 2},
	}
	for _, tt := range tests {
		score, level := cls.classify(tt.line)
		if score < DefaultConfig().AcceptScore {
			t.Errorf("classify(%q) score %.2f below threshold", tt.line.Text, score)
		}
		if level != tt.level {
			t.Errorf("classify(%q) level = %d, want %d", tt.line.Text, level, tt.level)
		}
	}
}

func TestClassify_RejectsProseAndCaptions(t *testing.T) {
	cls := newClassifier(DefaultConfig(), classifierDoc())

	lines := []pdfdoc.Line{
		{Text: "We reduced scope 1 emissions by twelve percent compared to the prior year baseline.", FontSize: 10},
		{Text: "Figure 3 Emissions by region", FontSize: 14},
		{Text: "Table 12 Energy consumption, by source, by year", FontSize: 14},
		{Text: "see page 4,", FontSize: 10},
	}
	for _, line := range lines {
		if score, _ := cls.classify(line); score >= DefaultConfig().AcceptScore {
			t.Errorf("classify(%q) score %.2f should be below threshold", line.Text, score)
		}
	}
}

func TestClassify_UppercaseHeading(t *testing.T) {
	cls := newClassifier(DefaultConfig(), classifierDoc())

	score, level := cls.classify(pdfdoc.Line{Text: "GOVERNANCE AND OVERSIGHT", FontSize: 18})
	if score < DefaultConfig().AcceptScore {
		t.Errorf("expected uppercase heading accepted, score %.2f", score)
	}
	if level != 1 {
		t.Errorf("expected level 1 from font rank, got %d", level)
	}
}

func TestClassify_TooShort(t *testing.T) {
	cls := newClassifier(DefaultConfig(), classifierDoc())
	if score, _ := cls.classify(pdfdoc.Line{Text: "Intro", FontSize: 18}); score != 0 {
		t.Errorf("lines below the minimum title length should score 0, got %.2f", score)
	}
}

func TestFontRanks(t *testing.T) {
	cls := newClassifier(DefaultConfig(), classifierDoc())
	if got := cls.rank(18); got != 1 {
		t.Errorf("rank(18) = %d, want 1", got)
	}
	if got := cls.rank(14); got != 2 {
		t.Errorf("rank(14) = %d, want 2", got)
	}
	if got := cls.rank(10); got != 0 {
		t.Errorf("rank(10) = %d, want 0 for body size", got)
	}
}
