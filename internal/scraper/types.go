package scraper

// PriceUnknown is the explicit sentinel stored when no price could be
// detected on the product page. It is re-displayed as-is, never parsed.
const PriceUnknown = "R$ --"

// ProductRecord represents one scraped marketplace listing.
//
// Numeric fields are pointers: nil means "could not determine", which is
// different from zero. Downstream filtering and copy generation must treat
// nil as "omit", never as a real measurement.
type ProductRecord struct {
	Title         string   `json:"title"`
	URL           string   `json:"url"`
	Price         string   `json:"price,omitempty"`
	Sold          *int     `json:"sold,omitempty"`
	Rating        *float64 `json:"rating,omitempty"`
	Reviews       *int     `json:"reviews,omitempty"`
	Category      string   `json:"category,omitempty"`
	SimilarityKey string   `json:"similarity_key,omitempty"`
}

// Harvester is the contract for discovering candidate products from a
// marketplace search query.
type Harvester interface {
	// Search fetches a search-results page for the query and resolves up to
	// limit product URLs into records. Individual URL failures are dropped.
	Search(query string, limit int) ([]ProductRecord, error)
}
