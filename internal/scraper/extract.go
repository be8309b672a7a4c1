package scraper

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Field detectors scan the flattened lower-case page text with tolerant
// patterns. Every detector degrades to absence on failure; no field is ever
// guessed. The markup is not under our control and may silently drift, so one
// broken field must not break the others.
var (
	soldPattern    = regexp.MustCompile(`(\d+[.,]?\d*)\s*(mil|k)?\s*vendid`)
	ratingPattern  = regexp.MustCompile(`(\d\.\d)\s*de\s*5`)
	reviewsPattern = regexp.MustCompile(`(\d+[.,]?\d*)\s*(mil|k)?\s*avalia`)
	pricePattern   = regexp.MustCompile(`r\$\s*([\d.]+,\d{2})`)
	titleSuffix    = regexp.MustCompile(`\s*\|\s*Shopee.*$`)
)

// ParseIntLike parses localized quantity shorthand: thousands separators as
// dots, decimal comma, suffix "mil" or "k" meaning x1000 ("1,2k" -> 1200,
// "78,7 mil" -> 78700). Returns nil on any parse failure, never an error.
func ParseIntLike(s string) *int {
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, ".", "")
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, ",", ".")

	mult := 1.0
	if strings.Contains(s, "mil") {
		mult = 1000
		s = strings.ReplaceAll(s, "mil", "")
	}
	if strings.Contains(s, "k") {
		mult = 1000
		s = strings.ReplaceAll(s, "k", "")
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	n := int(f * mult)
	return &n
}

// DetectSold scans for a quantity immediately followed by a sold-indicator
// token and stops at the first successful parse.
func DetectSold(pageText string) *int {
	for _, m := range soldPattern.FindAllStringSubmatch(pageText, -1) {
		if v := ParseIntLike(m[1] + m[2]); v != nil && *v > 0 {
			return v
		}
	}
	return nil
}

// DetectRating scans for a "<digit>.<digit> de 5" pattern; first match wins.
func DetectRating(pageText string) *float64 {
	m := ratingPattern.FindStringSubmatch(pageText)
	if m == nil {
		return nil
	}
	f, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return nil
	}
	return &f
}

// DetectReviews scans for a quantity anchored to a review-indicator token.
func DetectReviews(pageText string) *int {
	for _, m := range reviewsPattern.FindAllStringSubmatch(pageText, -1) {
		if v := ParseIntLike(m[1] + m[2]); v != nil && *v > 0 {
			return v
		}
	}
	return nil
}

// DetectPrice scans for a currency-prefixed decimal with exactly two
// fractional digits. The result is a display string with thousands dots
// stripped and the decimal comma preserved; no arithmetic happens downstream.
// Returns the PriceUnknown sentinel when nothing matches.
func DetectPrice(pageText string) string {
	m := pricePattern.FindStringSubmatch(pageText)
	if m == nil {
		return PriceUnknown
	}
	return "R$ " + strings.ReplaceAll(m[1], ".", "")
}

// ExtractTitle returns the page title with the site-name suffix stripped, or
// a generic fallback when the page carries no usable title.
func ExtractTitle(doc *goquery.Document) string {
	title := strings.TrimSpace(doc.Find("title").First().Text())
	title = strings.TrimSpace(titleSuffix.ReplaceAllString(title, ""))
	if title == "" {
		return "Produto Shopee"
	}
	return title
}

// PageText flattens the document into lower-case whitespace-collapsed text
// for the pattern-based detectors.
func PageText(doc *goquery.Document) string {
	return strings.ToLower(strings.Join(strings.Fields(doc.Text()), " "))
}

// ExtractProduct recovers a best-effort ProductRecord from a product page.
// It never fails: every field independently degrades to absence.
func ExtractProduct(doc *goquery.Document, url string) ProductRecord {
	text := PageText(doc)
	return ProductRecord{
		Title:   ExtractTitle(doc),
		URL:     url,
		Price:   DetectPrice(text),
		Sold:    DetectSold(text),
		Rating:  DetectRating(text),
		Reviews: DetectReviews(text),
	}
}
