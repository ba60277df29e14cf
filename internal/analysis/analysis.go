// Package analysis derives disclosure signals from a parsed section tree:
// reporting-framework mentions, numeric metric density, materiality and
// assurance coverage, emissions scope snippets, target-year extraction and
// topic clustering.
package analysis

import (
	"fmt"
	"sort"

	"github.com/dgallion1/sustainparse/internal/outline"
)

// Config tunes the analyzers.
type Config struct {
	// Clusters is the k for topic clustering. Clustering is skipped when the
	// document has fewer sections than clusters.
	Clusters int
	// VectorDims is the feature-hashed vector width used for clustering.
	VectorDims int
	// SnippetWindow is the context window, in characters, around a scope
	// mention.
	SnippetWindow int
}

// DefaultConfig returns the analyzer defaults.
func DefaultConfig() Config {
	return Config{
		Clusters:      6,
		VectorDims:    256,
		SnippetWindow: 450,
	}
}

// SectionStats is the per-section roll-up.
type SectionStats struct {
	ID            string         `json:"id"`
	Title         string         `json:"title"`
	Path          string         `json:"path"`
	StartPage     int            `json:"start_page"`
	EndPage       int            `json:"end_page"`
	Frameworks    map[string]int `json:"frameworks"`
	MetricDensity float64        `json:"metric_density"`
	// Cluster is the topic cluster label, or -1 when clustering was skipped.
	Cluster int `json:"cluster"`
}

// SectionRef points at a section that matched a flag query.
type SectionRef struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Path      string `json:"path"`
	StartPage int    `json:"start_page"`
	EndPage   int    `json:"end_page"`
	Level     int    `json:"level"`
}

// Report is the full analysis output for one document.
type Report struct {
	Sections    []SectionStats  `json:"sections"`
	Materiality []SectionRef    `json:"materiality"`
	Assurance   []SectionRef    `json:"assurance"`
	Scopes      []ScopeMention  `json:"scopes"`
	Targets     []TargetMention `json:"targets"`
}

// Analyze runs every analyzer over the section records.
func Analyze(recs []outline.Record, cfg Config) *Report {
	rep := &Report{
		Materiality: MaterialitySections(recs),
		Assurance:   AssuranceSections(recs),
		Scopes:      ScopeSnippets(recs, cfg.SnippetWindow),
		Targets:     ExtractTargets(recs),
	}

	labels := ClusterSections(recs, cfg.Clusters, cfg.VectorDims)
	for i, r := range recs {
		cluster := -1
		if labels != nil {
			cluster = labels[i]
		}
		rep.Sections = append(rep.Sections, SectionStats{
			ID:            r.ID,
			Title:         r.Title,
			Path:          r.Path,
			StartPage:     r.StartPage,
			EndPage:       r.EndPage,
			Frameworks:    FrameworkCounts(r.Text),
			MetricDensity: MetricDensity(r.Text),
			Cluster:       cluster,
		})
	}
	return rep
}

func ref(r outline.Record) SectionRef {
	return SectionRef{
		ID:        r.ID,
		Title:     r.Title,
		Path:      r.Path,
		StartPage: r.StartPage,
		EndPage:   r.EndPage,
		Level:     r.Level,
	}
}

func sortRefs(refs []SectionRef) {
	sort.SliceStable(refs, func(i, j int) bool {
		if refs[i].StartPage != refs[j].StartPage {
			return refs[i].StartPage < refs[j].StartPage
		}
		return refs[i].Level < refs[j].Level
	})
}

func pageRange(r outline.Record) string {
	return fmt.Sprintf("%d-%d", r.StartPage, r.EndPage)
}
