// Package assets extracts embedded figures from a PDF into an output
// directory and records where each one landed.
package assets

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// Figure is one extracted image.
type Figure struct {
	Page int    `json:"page"`
	File string `json:"file"`
	Ext  string `json:"ext"`
}

// Extracted image names carry the source page number, e.g.
// "report_page_12_Im0.png" or "report_12_Im0.png" depending on version.
var pageNumRe = regexp.MustCompile(`_(?:page_)?(\d+)_`)

// ExtractFigures pulls every embedded image out of the PDF into outDir and
// writes a figures.json manifest alongside them.
func ExtractFigures(pdfPath, outDir string) ([]Figure, error) {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("create asset dir: %w", err)
	}
	if err := api.ExtractImagesFile(pdfPath, outDir, nil, nil); err != nil {
		return nil, fmt.Errorf("extract images from %s: %w", filepath.Base(pdfPath), err)
	}

	entries, err := os.ReadDir(outDir)
	if err != nil {
		return nil, fmt.Errorf("list asset dir: %w", err)
	}
	var figs []Figure
	for _, e := range entries {
		if e.IsDir() || e.Name() == manifestFile {
			continue
		}
		figs = append(figs, Figure{
			Page: pageFromName(e.Name()),
			File: filepath.Join(outDir, e.Name()),
			Ext:  strings.TrimPrefix(filepath.Ext(e.Name()), "."),
		})
	}
	sort.Slice(figs, func(i, j int) bool {
		if figs[i].Page != figs[j].Page {
			return figs[i].Page < figs[j].Page
		}
		return figs[i].File < figs[j].File
	})

	if err := writeManifest(outDir, figs); err != nil {
		return nil, err
	}
	return figs, nil
}

const manifestFile = "figures.json"

func writeManifest(outDir string, figs []Figure) error {
	data, err := json.MarshalIndent(figs, "", "  ")
	if err != nil {
		return fmt.Errorf("encode figure manifest: %w", err)
	}
	if err := os.WriteFile(filepath.Join(outDir, manifestFile), append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write figure manifest: %w", err)
	}
	return nil
}

// pageFromName recovers the page number from an extracted image filename,
// or 0 when the name has no recognizable page component.
func pageFromName(name string) int {
	m := pageNumRe.FindStringSubmatch(name)
	if m == nil {
		return 0
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	return n
}
