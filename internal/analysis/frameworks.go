package analysis

import "strings"

// frameworkKeywords maps a disclosure framework to the phrases that count as
// a mention of it.
var frameworkKeywords = map[string][]string{
	"GRI":  {"gri", "global reporting initiative"},
	"SASB": {"sasb"},
	"ISSB": {"issb", "ifrs s1", "ifrs s2"},
	"TCFD": {"tcfd", "task force on climate-related financial disclosures"},
	"ESRS": {"esrs", "csrd"},
}

// FrameworkNames lists the tracked frameworks in stable order.
func FrameworkNames() []string {
	return []string{"ESRS", "GRI", "ISSB", "SASB", "TCFD"}
}

// FrameworkCounts counts framework phrase occurrences in a section text.
// Every tracked framework appears in the result, zero-valued when unseen.
func FrameworkCounts(text string) map[string]int {
	low := strings.ToLower(text)
	counts := make(map[string]int, len(frameworkKeywords))
	for name, phrases := range frameworkKeywords {
		n := 0
		for _, p := range phrases {
			n += strings.Count(low, p)
		}
		counts[name] = n
	}
	return counts
}
