package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/dgallion1/sustainparse/internal/assets"
	"github.com/dgallion1/sustainparse/internal/export"
	"github.com/dgallion1/sustainparse/internal/outline"
	"github.com/dgallion1/sustainparse/internal/pdfdoc"
)

var (
	parseOutDir   string
	parseStrategy string
	parseMaxDepth int
	parseTOCPages int
	parseFigures  bool
)

var parseCmd = &cobra.Command{
	Use:   "parse <report.pdf>",
	Short: "Build the section tree for a PDF and write all exports",
	Args:  cobra.ExactArgs(1),
	RunE:  runParse,
}

func init() {
	parseCmd.Flags().StringVarP(&parseOutDir, "out", "o", "out", "output directory for exports")
	parseCmd.Flags().StringVar(&parseStrategy, "strategy", "auto", "parse strategy: auto, outline, toc, heading_detection")
	parseCmd.Flags().IntVar(&parseMaxDepth, "max-depth", 4, "deepest heading level to assign")
	parseCmd.Flags().IntVar(&parseTOCPages, "toc-pages", 10, "pages searched for a table of contents")
	parseCmd.Flags().BoolVar(&parseFigures, "figures", false, "also extract embedded images")
	rootCmd.AddCommand(parseCmd)
}

func runParse(cmd *cobra.Command, args []string) error {
	cfg, err := outlineConfig()
	if err != nil {
		return err
	}

	fmt.Println(dimStyle.Render("reading " + args[0]))
	doc, err := pdfdoc.Open(args[0])
	if err != nil {
		return fmt.Errorf("open pdf: %w", err)
	}

	res, err := outline.Parse(doc, cfg)
	if err != nil {
		return fmt.Errorf("parse: %w", err)
	}

	printPreview(res)

	pages := pageTexts(doc)
	if _, err := export.WriteAll(parseOutDir, res, pages); err != nil {
		return fmt.Errorf("write exports: %w", err)
	}

	if parseFigures {
		figs, err := assets.ExtractFigures(args[0], filepath.Join(parseOutDir, "figures"))
		if err != nil {
			fmt.Println(warnStyle.Render("figure extraction failed: " + err.Error()))
		} else {
			fmt.Printf("%s %d figure(s)\n", dimStyle.Render("extracted"), len(figs))
		}
	}

	fmt.Println(successStyle.Render("done. outputs written to " + parseOutDir))
	return nil
}

// outlineConfig maps the parse flags onto an outline.Config, rejecting
// unknown strategy names before any PDF work happens.
func outlineConfig() (outline.Config, error) {
	cfg := outline.DefaultConfig()
	switch parseStrategy {
	case "auto", outline.StrategyOutline, outline.StrategyTOC, outline.StrategyHeadings:
		cfg.Strategy = parseStrategy
	default:
		return cfg, fmt.Errorf("unknown strategy %q", parseStrategy)
	}
	if parseMaxDepth > 0 {
		cfg.MaxLevel = parseMaxDepth
	}
	if parseTOCPages > 0 {
		cfg.TOCMaxPages = parseTOCPages
	}
	return cfg, nil
}

func pageTexts(doc *pdfdoc.Document) []string {
	pages := make([]string, doc.PageCount())
	for i := range pages {
		pages[i] = doc.PageText(i + 1)
	}
	return pages
}

// printPreview renders the summary box and the first detected sections.
func printPreview(res *outline.ParseResult) {
	summary := fmt.Sprintf("strategy: %s\npages: %d\nsections: %d\ndepth: %d",
		res.Strategy, res.PageCount, len(res.Sections), res.MaxDepth())
	fmt.Println(boxStyle.Render(summary))

	if res.Strategy == outline.StrategyFallback {
		fmt.Println(warnStyle.Render("no usable structure found, whole document kept as one section"))
	}

	const previewMax = 12
	fmt.Println(titleStyle.Render("detected sections"))
	for i, s := range res.Sections {
		if i == previewMax {
			fmt.Println(dimStyle.Render(fmt.Sprintf("  (+%d more)", len(res.Sections)-previewMax)))
			break
		}
		indent := ""
		for j := 1; j < s.Level; j++ {
			indent += "  "
		}
		fmt.Printf("  %s%s %s\n", indent, s.Title, dimStyle.Render(fmt.Sprintf("p.%d", s.StartPage)))
	}
}
