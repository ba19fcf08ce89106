package matcher

import (
	"fjacquet/ynab-autocat/internal/models"
)

// Match is a historical categorization candidate selected by the scorer.
type Match struct {
	CategoryID  string
	Category    models.Category
	Confidence  float64
	Occurrences int
	Total       int
	LastDate    string
	Reference   models.Transaction
	Specificity int
}

// SelectBest picks the single best historical category for a transaction's
// generated keys, or reports that no candidate survives. Every key is
// inspected: a later, less-specific key with higher confidence still beats an
// earlier key's lower-confidence winner — specificity only breaks confidence
// ties. Category eligibility is re-checked against the current snapshot,
// which may differ from the one history was built with.
func SelectBest(index Index, keys []string, categories models.CategoryMap, minConfidence float64) (Match, bool) {
	var best Match
	found := false

	for specificity, key := range keys {
		entry, ok := index[key]
		if !ok {
			continue
		}

		winner, ok := bestForEntry(entry, categories)
		if !ok {
			continue
		}
		winner.Specificity = specificity

		if winner.Confidence < minConfidence {
			continue
		}
		if !found || better(winner, best) {
			best = winner
			found = true
		}
	}

	return best, found
}

// bestForEntry selects the per-key winning category: higher occurrences win,
// ties go to the later last date. Iteration follows first-seen order so fully
// tied categories resolve deterministically to the earliest recorded one.
func bestForEntry(entry *Entry, categories models.CategoryMap) (Match, bool) {
	var best Match
	found := false

	for _, categoryID := range entry.CategoryIDs() {
		stat := entry.Categories[categoryID]
		if stat.Occurrences == 0 {
			continue
		}
		cat, ok := categories[categoryID]
		if !ok || !cat.Eligible() {
			continue
		}

		if !found ||
			stat.Occurrences > best.Occurrences ||
			(stat.Occurrences == best.Occurrences && stat.LastDate > best.LastDate) {
			best = Match{
				CategoryID:  categoryID,
				Category:    cat,
				Confidence:  float64(stat.Occurrences) / float64(entry.Total),
				Occurrences: stat.Occurrences,
				Total:       entry.Total,
				LastDate:    stat.LastDate,
				Reference:   stat.LastTransaction,
			}
			found = true
		}
	}

	return best, found
}

// better reports whether candidate a beats candidate b on the tie-break
// ladder: confidence, then more specific key (lower index), then occurrences,
// then later last date.
func better(a, b Match) bool {
	if a.Confidence != b.Confidence {
		return a.Confidence > b.Confidence
	}
	if a.Specificity != b.Specificity {
		return a.Specificity < b.Specificity
	}
	if a.Occurrences != b.Occurrences {
		return a.Occurrences > b.Occurrences
	}
	return a.LastDate > b.LastDate
}
