package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/dgallion1/sustainparse/internal/analysis"
	"github.com/dgallion1/sustainparse/internal/outline"
)

var (
	analyzeOut      string
	analyzeClusters int
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <report.pdf>",
	Short: "Parse a PDF and report disclosure signals",
	Args:  cobra.ExactArgs(1),
	RunE:  runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeOut, "out", "o", "", "also write analysis.json under this directory")
	analyzeCmd.Flags().IntVar(&analyzeClusters, "clusters", 6, "topic cluster count")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	fmt.Println(dimStyle.Render("reading " + args[0]))
	res, err := outline.ParseFile(args[0], outline.DefaultConfig())
	if err != nil {
		return fmt.Errorf("parse: %w", err)
	}

	cfg := analysis.DefaultConfig()
	if analyzeClusters > 0 {
		cfg.Clusters = analyzeClusters
	}
	rep := analysis.Analyze(res.Records(), cfg)
	printReport(res, rep)

	if analyzeOut != "" {
		data, err := json.MarshalIndent(rep, "", "  ")
		if err != nil {
			return err
		}
		if err := os.MkdirAll(analyzeOut, 0o755); err != nil {
			return err
		}
		path := filepath.Join(analyzeOut, "analysis.json")
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return err
		}
		fmt.Println(successStyle.Render("analysis written to " + path))
	}
	return nil
}

func printReport(res *outline.ParseResult, rep *analysis.Report) {
	totals := map[string]int{}
	for _, s := range rep.Sections {
		for name, n := range s.Frameworks {
			totals[name] += n
		}
	}

	summary := fmt.Sprintf("sections: %d\nmateriality: %d\nassurance: %d\nscope mentions: %d\ntargets: %d",
		len(rep.Sections), len(rep.Materiality), len(rep.Assurance), len(rep.Scopes), len(rep.Targets))
	fmt.Println(boxStyle.Render(summary))

	fmt.Println(titleStyle.Render("framework mentions"))
	for _, name := range analysis.FrameworkNames() {
		fmt.Printf("  %-5s %d\n", name, totals[name])
	}

	if len(rep.Targets) > 0 {
		fmt.Println(titleStyle.Render("targets"))
		for _, t := range rep.Targets {
			fmt.Printf("  %s %s\n", t.Year, dimStyle.Render("pp. "+t.PageRange))
		}
	}
}
