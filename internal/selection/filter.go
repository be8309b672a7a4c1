package selection

import (
	"sort"

	"github.com/Matheuslarroque/pesquisador-junior/internal/scraper"
)

// Criteria carries the business thresholds and the dedup context for one
// category's worth of candidates.
type Criteria struct {
	Category  string
	SoldMin   int
	RatingMin float64

	// UsedIDs and UsedKeys hold everything selected in previous runs.
	UsedIDs  map[string]bool
	UsedKeys map[string]bool

	// BatchKeys holds the similarity keys already accepted earlier in this
	// same run, so a later category cannot re-introduce a near-duplicate.
	BatchKeys map[string]bool
}

// Select filters raw candidates against the thresholds and both dedup layers,
// then ranks survivors by sold descending (ties keep discovery order) and
// enforces intra-batch diversity on the way out. The returned records carry
// their category and similarity key.
//
// Sold is mandatory evidence: absence fails the threshold. Rating is optional
// evidence: absence does not reject.
func Select(candidates []scraper.ProductRecord, crit Criteria) []scraper.ProductRecord {
	var survivors []scraper.ProductRecord
	for _, c := range candidates {
		if c.Sold == nil || *c.Sold < crit.SoldMin {
			continue
		}
		if c.Rating != nil && *c.Rating < crit.RatingMin {
			continue
		}
		if crit.UsedIDs[c.URL] {
			continue
		}
		key := scraper.SimilarityKey(crit.Category, c.Title)
		if crit.UsedKeys[key] {
			continue
		}
		c.Category = crit.Category
		c.SimilarityKey = key
		survivors = append(survivors, c)
	}

	// Master ranking rule: higher social proof wins. Stable, so equal sold
	// counts keep discovery order and re-runs are deterministic.
	sort.SliceStable(survivors, func(i, j int) bool {
		return *survivors[i].Sold > *survivors[j].Sold
	})

	seen := make(map[string]bool, len(survivors))
	accepted := survivors[:0]
	for _, c := range survivors {
		if crit.BatchKeys[c.SimilarityKey] || seen[c.SimilarityKey] {
			continue
		}
		seen[c.SimilarityKey] = true
		accepted = append(accepted, c)
	}

	return accepted
}
