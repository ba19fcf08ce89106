package fallback

import (
	"math"
	"sort"

	"fjacquet/ynab-autocat/internal/matcher"
	"fjacquet/ynab-autocat/internal/models"
)

// digestTopCategories caps how many categories are summarized per key.
const digestTopCategories = 5

// DigestCategory summarizes one category's evidence under a lookup key.
type DigestCategory struct {
	CategoryID   string  `json:"categoryId"`
	CategoryName string  `json:"categoryName"`
	GroupName    string  `json:"groupName"`
	Occurrences  int     `json:"occurrences"`
	Share        float64 `json:"share"`
	LastDate     string  `json:"lastDate"`
	LastAmount   string  `json:"lastAmount"`
}

// KeyDigest is the compact history summary for one lookup key, handed to the
// classifier as context.
type KeyDigest struct {
	Key           string           `json:"key"`
	Total         int              `json:"total"`
	TopCategories []DigestCategory `json:"topCategories"`
}

// BuildDigest summarizes the history under each of the transaction's keys:
// per key, the total count and the top categories by occurrence. The sort is
// stable over the entry's first-seen category order, so occurrence ties keep
// their original relative position when the list is truncated.
func BuildDigest(index matcher.Index, keys []string, categories models.CategoryMap) []KeyDigest {
	var digest []KeyDigest

	for _, key := range keys {
		entry, ok := index[key]
		if !ok {
			continue
		}

		ids := entry.CategoryIDs()
		sort.SliceStable(ids, func(i, j int) bool {
			return entry.Categories[ids[i]].Occurrences > entry.Categories[ids[j]].Occurrences
		})
		if len(ids) > digestTopCategories {
			ids = ids[:digestTopCategories]
		}

		top := make([]DigestCategory, 0, len(ids))
		for _, id := range ids {
			stat := entry.Categories[id]
			cat := categories[id]
			top = append(top, DigestCategory{
				CategoryID:   id,
				CategoryName: cat.Name,
				GroupName:    cat.GroupName,
				Occurrences:  stat.Occurrences,
				Share:        roundShare(float64(stat.Occurrences) / float64(entry.Total)),
				LastDate:     stat.LastDate,
				LastAmount:   models.FormatMilliunits(stat.LastTransaction.Amount),
			})
		}

		digest = append(digest, KeyDigest{
			Key:           key,
			Total:         entry.Total,
			TopCategories: top,
		})
	}

	return digest
}

func roundShare(share float64) float64 {
	return math.Round(share*1000) / 1000
}
