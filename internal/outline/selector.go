package outline

// Selector runs the strategy cascade: outline, TOC, heading detection, each
// gated on minimum candidate count and non-decreasing page order. When every
// strategy fails the whole document becomes one section, so a parse never
// fails for structural reasons.
type Selector struct {
	cfg        Config
	strategies []strategy
}

// NewSelector builds the fixed-priority strategy chain. A forced strategy in
// cfg narrows the chain to that single provider (fallback still applies).
func NewSelector(cfg Config) *Selector {
	all := []strategy{
		outlineStrategy{cfg: cfg},
		tocStrategy{cfg: cfg},
		headingStrategy{cfg: cfg},
	}
	if cfg.Strategy != "" && cfg.Strategy != "auto" {
		var narrowed []strategy
		for _, st := range all {
			if st.Name() == cfg.Strategy {
				narrowed = append(narrowed, st)
			}
		}
		all = narrowed
	}
	return &Selector{cfg: cfg, strategies: all}
}

// Select returns the accepted candidate sequence and the name of the
// strategy that produced it.
func (s *Selector) Select(doc Document) ([]Candidate, string) {
	for _, st := range s.strategies {
		cands := st.Candidates(doc)
		if s.accept(cands) {
			return cands, st.Name()
		}
	}
	return []Candidate{{
		Title:  "Full Document",
		Level:  1,
		Page:   1,
		Score:  1.0,
		Source: StrategyFallback,
	}}, StrategyFallback
}

// accept is the minimum-quality gate: enough candidates, every page valid,
// pages non-decreasing. Scattered out-of-order pages are a sign of false
// positives, so the whole run is rejected rather than partially trusted.
func (s *Selector) accept(cands []Candidate) bool {
	if len(cands) < s.cfg.MinCandidates {
		return false
	}
	prev := 0
	for _, c := range cands {
		if c.Page < 1 || c.Page < prev {
			return false
		}
		prev = c.Page
	}
	return true
}
