package selection

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Matheuslarroque/pesquisador-junior/internal/scraper"
)

func intPtr(v int) *int { return &v }

func floatPtr(v float64) *float64 { return &v }

func candidate(title, url string, sold *int, rating *float64) scraper.ProductRecord {
	return scraper.ProductRecord{Title: title, URL: url, Sold: sold, Rating: rating}
}

func baseCriteria() Criteria {
	return Criteria{
		Category:  "Pets",
		SoldMin:   100,
		RatingMin: 4.5,
		UsedIDs:   map[string]bool{},
		UsedKeys:  map[string]bool{},
		BatchKeys: map[string]bool{},
	}
}

func TestSelectThresholds(t *testing.T) {
	candidates := []scraper.ProductRecord{
		candidate("Caminha para pets pequenos", "u1", intPtr(50), floatPtr(4.9)),
		candidate("Arranhador torre para gatos", "u2", intPtr(150), floatPtr(4.0)),
		candidate("Comedouro automático para cachorros", "u3", intPtr(300), floatPtr(4.8)),
		candidate("Brinquedo mordedor resistente", "u4", nil, floatPtr(5.0)),
	}

	picks := Select(candidates, baseCriteria())
	require.Len(t, picks, 1)
	assert.Equal(t, "u3", picks[0].URL)
	assert.Equal(t, "Pets", picks[0].Category)
	assert.NotEmpty(t, picks[0].SimilarityKey)
}

func TestSelectAbsentRatingAccepted(t *testing.T) {
	// Sold is mandatory evidence, rating is optional evidence
	candidates := []scraper.ProductRecord{
		candidate("Tapete higiênico descartável", "u1", intPtr(500), nil),
	}

	picks := Select(candidates, baseCriteria())
	require.Len(t, picks, 1)
	assert.Equal(t, "u1", picks[0].URL)
}

func TestSelectCrossRunDedup(t *testing.T) {
	crit := baseCriteria()
	crit.UsedIDs["u1"] = true
	crit.UsedKeys[scraper.SimilarityKey("Pets", "Arranhador torre para gatos sisal")] = true

	candidates := []scraper.ProductRecord{
		candidate("Caminha para pets pequenos", "u1", intPtr(900), floatPtr(4.9)),
		// Same leading keywords as the used key, different URL
		candidate("Arranhador torre para gatos sisal novo", "u2", intPtr(800), floatPtr(4.9)),
		candidate("Comedouro automático para cachorros", "u3", intPtr(700), floatPtr(4.8)),
	}

	picks := Select(candidates, crit)
	require.Len(t, picks, 1)
	assert.Equal(t, "u3", picks[0].URL)
}

func TestSelectRankingAndDeterminism(t *testing.T) {
	candidates := []scraper.ProductRecord{
		candidate("Caminha para pets pequenos", "u1", intPtr(200), floatPtr(4.9)),
		candidate("Arranhador torre para gatos", "u2", intPtr(900), floatPtr(4.8)),
		candidate("Comedouro automático para cachorros", "u3", intPtr(200), floatPtr(4.7)),
	}

	first := Select(candidates, baseCriteria())
	require.Len(t, first, 3)
	assert.Equal(t, []string{"u2", "u1", "u3"}, []string{first[0].URL, first[1].URL, first[2].URL})

	// Re-running on identical input yields the identical ordering
	second := Select(candidates, baseCriteria())
	assert.Equal(t, first, second)
}

func TestSelectIntraBatchDiversity(t *testing.T) {
	// Two candidates collapsing to the same similarity key: only the higher
	// ranked one survives
	candidates := []scraper.ProductRecord{
		candidate("Caminha pets lavável premium grande azul escuro", "u1", intPtr(300), floatPtr(4.9)),
		candidate("Caminha pets lavável premium grande azul claro", "u2", intPtr(800), floatPtr(4.8)),
	}

	picks := Select(candidates, baseCriteria())
	require.Len(t, picks, 1)
	assert.Equal(t, "u2", picks[0].URL)

	// A key accepted earlier in the run blocks the whole group
	crit := baseCriteria()
	crit.BatchKeys[scraper.SimilarityKey("Pets", "Caminha pets lavável premium grande azul")] = true
	picks = Select(candidates, crit)
	assert.Empty(t, picks)
}
