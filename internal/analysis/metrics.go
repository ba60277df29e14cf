package analysis

import "regexp"

var metricRe = regexp.MustCompile(`\b\d+(?:\.\d+)?%?\b`)

// MetricDensity counts numeric tokens per thousand characters of text. Dense
// sections are usually data tables or KPI summaries.
func MetricDensity(text string) float64 {
	if text == "" {
		return 0
	}
	nums := len(metricRe.FindAllString(text, -1))
	return float64(nums) / float64(len(text)) * 1000.0
}
