// Package matcher implements the deterministic matching engine: lookup key
// generation, the per-run history index, and the historical scorer.
package matcher

import (
	"strings"

	"fjacquet/ynab-autocat/internal/models"
)

// GenerateKeys derives the ordered candidate lookup keys for a transaction.
// The slice index doubles as the specificity rank: index 0 is the most
// specific key. A payee-identifier match is strong ground truth while a bare
// display-name match is shared across many unrelated payees, so payee keys
// come first and each identity field emits its account-qualified variant
// before the bare one. Keys are deduplicated; the first occurrence keeps its
// position.
func GenerateKeys(t models.Transaction) []string {
	var keys []string
	seen := make(map[string]struct{})

	add := func(key string) {
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}
		keys = append(keys, key)
	}

	addGroup := func(prefix, value string) {
		if value == "" {
			return
		}
		if t.AccountID != "" {
			add(prefix + ":" + value + "|account:" + t.AccountID)
		}
		add(prefix + ":" + value)
	}

	if t.PayeeID != "" {
		addGroup("payee", t.PayeeID)
	}
	addGroup("import", Normalize(t.ImportPayeeName))
	addGroup("import-orig", Normalize(t.ImportPayeeNameOriginal))
	addGroup("name", Normalize(t.PayeeName))

	return keys
}

// Normalize canonicalizes free-text payee fields for use in lookup keys:
// lowercase, whitespace runs collapsed to a single space, everything outside
// [a-z0-9 ] stripped, then trimmed. An empty result means the field is absent.
func Normalize(s string) string {
	s = strings.ToLower(s)
	s = strings.Join(strings.Fields(s), " ")

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == ' ' {
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}
