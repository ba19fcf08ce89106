package matcher

import (
	"fjacquet/ynab-autocat/internal/models"
)

// CategoryStat holds the per-category occurrence statistics for one lookup key.
type CategoryStat struct {
	Occurrences     int
	LastDate        string
	LastTransaction models.Transaction
}

// Entry aggregates the historical evidence recorded under one lookup key.
// The invariant sum(Occurrences) == Total holds after BuildIndex returns.
type Entry struct {
	Total      int
	Categories map[string]*CategoryStat

	// category ids in first-seen order; keeps digest truncation ties stable
	order []string
}

// CategoryIDs returns the entry's category identifiers in first-seen order.
func (e *Entry) CategoryIDs() []string {
	out := make([]string, len(e.order))
	copy(out, e.order)
	return out
}

// Index maps lookup keys to their aggregated history. It is built once per
// run, before any candidate transaction is evaluated, and is read-only
// afterwards; the scorer and the fallback adapter only ever read from it.
type Index map[string]*Entry

// BuildIndex aggregates fully-categorized historical transactions into an
// Index. A transaction is skipped when it is deleted, uncategorized, a
// transfer, a split, or when its category is missing or ineligible in the
// snapshot taken at build time. Each surviving transaction contributes one
// increment per generated key; a payee/account pairing and a bare payee both
// accrue evidence independently.
func BuildIndex(history []models.Transaction, categories models.CategoryMap) Index {
	index := make(Index)

	for _, t := range history {
		if t.Deleted || !t.IsCategorized() || t.IsTransfer() || t.IsSplit() {
			continue
		}
		cat, ok := categories[t.CategoryID]
		if !ok || !cat.Eligible() {
			continue
		}

		for _, key := range GenerateKeys(t) {
			entry, ok := index[key]
			if !ok {
				entry = &Entry{Categories: make(map[string]*CategoryStat)}
				index[key] = entry
			}
			entry.Total++

			stat, ok := entry.Categories[t.CategoryID]
			if !ok {
				stat = &CategoryStat{LastDate: t.Date, LastTransaction: t}
				entry.Categories[t.CategoryID] = stat
				entry.order = append(entry.order, t.CategoryID)
			} else if t.Date > stat.LastDate {
				// strictly greater only: equal dates keep the earliest-seen
				// transaction so same-date ties stay stable
				stat.LastDate = t.Date
				stat.LastTransaction = t
			}
			stat.Occurrences++
		}
	}

	return index
}
