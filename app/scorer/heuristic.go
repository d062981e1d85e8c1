package scorer

import (
	"context"
	"strings"
)

const (
	heuristicBase       = 5.0
	heuristicBaseLegacy = 4.0
	heuristicBoost      = 1.5
	heuristicBoostSoft  = 1.2
	heuristicMaxHits    = 3

	credibilityMatched   = 8.0
	credibilityUnmatched = 5.0
)

// Heuristic is the local scoring strategy used when no remote rating engine
// is configured. It is deterministic and needs no network access.
type Heuristic struct{}

func NewHeuristic() *Heuristic {
	return &Heuristic{}
}

func (h *Heuristic) Name() string {
	return "heuristic"
}

// Score derives the seven factors from keyword occurrences in the combined
// lowercased title+content text. The language argument is unused by the
// heuristic; the keyword tables carry both English and Chinese entries.
func (h *Heuristic) Score(ctx context.Context, title, content, language string) (Factors, error) {
	combined := strings.ToLower(title + " " + content)

	f := Factors{
		Scale:       keywordFactor(combined, scaleKeywords, heuristicBase, heuristicBoost),
		Impact:      keywordFactor(combined, impactKeywords, heuristicBase, heuristicBoost),
		Novelty:     keywordFactor(combined, noveltyKeywords, heuristicBase, heuristicBoostSoft),
		Potential:   keywordFactor(combined, potentialKeywords, heuristicBase, heuristicBoostSoft),
		Legacy:      keywordFactor(combined, legacyKeywords, heuristicBaseLegacy, heuristicBoost),
		Positivity:  positivityFactor(combined),
		Credibility: credibilityFactor(combined),
	}
	f.Score = Composite(f)

	return f, nil
}

// keywordFactor starts from the factor base and adds a fixed increment for
// each matched keyword, counting at most three, capped at 10.
func keywordFactor(text string, keywords []string, base, boost float64) float64 {
	hits := countHits(text, keywords)
	if hits > heuristicMaxHits {
		hits = heuristicMaxHits
	}
	return clamp(base+float64(hits)*boost, 0, 10)
}

// positivityFactor maps the net positive-minus-negative keyword count onto
// the [0,10] range centered at 5.
func positivityFactor(text string) float64 {
	net := countHits(text, positiveKeywords) - countHits(text, negativeKeywords)
	return clamp(5.0+1.5*float64(net), 0, 10)
}

// credibilityFactor checks credible publisher strings against the combined
// article text. Matching against content rather than the source domain
// mirrors the original collector; matching on the record's source field is
// the probable intent and is tracked as an open design question.
func credibilityFactor(text string) float64 {
	for _, domain := range credibleDomains {
		if strings.Contains(text, domain) {
			return credibilityMatched
		}
	}
	return credibilityUnmatched
}

func countHits(text string, keywords []string) int {
	hits := 0
	for _, keyword := range keywords {
		if strings.Contains(text, keyword) {
			hits++
		}
	}
	return hits
}
