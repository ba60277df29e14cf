// Package cli implements the sustainparse command line interface.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "sustainparse",
	Short: "Parse sustainability report PDFs into section trees",
	Long: `sustainparse reconstructs the topic hierarchy of sustainability report
PDFs from embedded bookmarks, printed tables of contents or typographic
heading detection, then segments the page text by section and derives
disclosure signals from it.`,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
