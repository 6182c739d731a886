package models

import "strings"

// Listing is one business parsed from a map-search results page.
// Absent data is always the empty string; ReviewCount keeps the
// parentheses the extractor wraps it in, e.g. "(12)".
type Listing struct {
	Title       string `json:"title"`
	Rating      string `json:"rating"`
	ReviewCount string `json:"reviewCount"`
	Phone       string `json:"phone"`
	Industry    string `json:"industry"`
	Address     string `json:"address"`
	CompanyURL  string `json:"companyUrl"`
	Href        string `json:"href"`
}

// Headers is the fixed header row of every exported table.
var Headers = []string{
	"Title", "Rating", "Reviews", "Phone", "Industry", "Address", "Website", "Google Maps Link",
}

var parenStripper = strings.NewReplacer("(", "", ")", "")

// Reviews returns the review count without its parentheses.
func (l Listing) Reviews() string {
	return parenStripper.Replace(l.ReviewCount)
}

// DisplayRow returns the listing as a table row aligned with Headers.
func (l Listing) DisplayRow() []string {
	return []string{
		l.Title,
		l.Rating,
		l.Reviews(),
		l.Phone,
		l.Industry,
		l.Address,
		l.CompanyURL,
		l.Href,
	}
}

// InsightReport holds summary figures computed over one extraction.
type InsightReport struct {
	TotalListings      int
	RatedListings      int
	AverageRating      float64
	TotalReviews       int
	MissingPhone       int
	MissingWebsite     int
	TopRated           []Listing
	ListingsByIndustry map[string]int
}
