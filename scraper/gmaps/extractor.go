// Package gmaps extracts business listings from a rendered Google Maps
// search results page.
//
// The page carries no stable schema: class names are obfuscated and most
// fields are only recoverable from the card's flattened text. Extraction is
// therefore best-effort. Every listing-detail link yields exactly one
// record, and any field whose markup or text assumption fails is left as
// the empty string instead of failing the batch.
package gmaps

import (
	"fmt"
	"io"
	"net/url"
	"strings"

	"gmaps-scraper/dom"
	"gmaps-scraper/models"
	"gmaps-scraper/utils"
)

// Extractor turns a results page into listings. It is safe for concurrent
// use; all state is read-only after construction.
type Extractor struct {
	rules  *compiledRules
	logger *utils.Logger

	isListingLink dom.Predicate
	isContainer   dom.Predicate
	isHeadline    dom.Predicate
	isRating      dom.Predicate
	isLink        dom.Predicate
}

// NewExtractor validates rules and returns a ready-to-use Extractor.
// A nil logger discards output.
func NewExtractor(rules Rules, logger *utils.Logger) (*Extractor, error) {
	c, err := rules.compile()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = utils.Discard()
	}
	return &Extractor{
		rules:         c,
		logger:        logger,
		isListingLink: dom.And(dom.Tag("a"), dom.AttrPrefix("href", c.ListingLinkPrefix)),
		isContainer:   dom.AttrContains(c.ContainerAttr, c.ContainerMarker),
		isHeadline:    dom.HasClass(c.HeadlineClass),
		isRating:      dom.AttrEquals("role", c.RatingRole),
		isLink:        dom.And(dom.Tag("a"), dom.HasAttr("href")),
	}, nil
}

// Rules returns the rules the extractor was built with.
func (e *Extractor) Rules() Rules {
	return e.rules.Rules
}

// ExtractHTML parses an HTML snapshot and extracts its listings.
// Only an unreadable input is an error.
func (e *Extractor) ExtractHTML(r io.Reader) ([]models.Listing, error) {
	root, err := dom.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("gmaps: %w", err)
	}
	return e.Extract(root), nil
}

// Extract returns one listing per listing-detail link under root, in
// document order. Duplicated links produce duplicated listings.
func (e *Extractor) Extract(root dom.Node) []models.Listing {
	listings := make([]models.Listing, 0)
	if root == nil {
		return listings
	}

	anchors := dom.All(root, e.isListingLink)
	for _, a := range anchors {
		listings = append(listings, e.extractListing(a))
	}

	e.logger.Debug("[gmaps] Extracted %d listings", len(listings))
	return listings
}

func (e *Extractor) extractListing(anchor dom.Node) models.Listing {
	href, _ := anchor.Attr("href")
	l := models.Listing{Href: e.resolve(href)}

	card := dom.Closest(anchor, e.isContainer)
	if card == nil {
		e.logger.Debug("[gmaps] No listing card around %s", l.Href)
		return l
	}

	if h := dom.First(card, e.isHeadline); h != nil {
		l.Title = h.Text()
	}

	if img := dom.First(card, e.isRating); img != nil {
		label, ok := img.Attr("aria-label")
		l.Rating, l.ReviewCount = parseRatingLabel(label, ok, e.rules.RatingKeyword)
	}

	fields := parseCardText(card.Text(), l.Rating+l.ReviewCount, e.rules)
	l.Address = fields.Address
	l.Industry = fields.Industry
	l.Phone = fields.Phone

	l.CompanyURL = e.companyURL(card)
	return l
}

// companyURL returns the first link in card that is not a listing-detail link.
func (e *Extractor) companyURL(card dom.Node) string {
	exclude := e.rules.WebsiteExcludePrefix
	for _, a := range dom.All(card, e.isLink) {
		raw, _ := a.Attr("href")
		target := e.resolve(raw)
		if target == "" {
			continue
		}
		if exclude != "" && strings.HasPrefix(target, exclude) {
			continue
		}
		return target
	}
	return ""
}

// resolve trims raw and, when a base URL is configured, returns it as an
// absolute, escaped URL the way a browser reports link targets.
func (e *Extractor) resolve(raw string) string {
	raw = strings.TrimSpace(raw)
	if e.rules.base == nil {
		return raw
	}
	ref, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	return e.rules.base.ResolveReference(ref).String()
}

// IsSearchPage reports whether pageURL looks like a search results page the
// rules were written for.
func (e *Extractor) IsSearchPage(pageURL string) bool {
	marker := e.rules.SearchPageMarker
	return marker != "" && strings.Contains(pageURL, marker)
}
