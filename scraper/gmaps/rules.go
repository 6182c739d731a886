package gmaps

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// Rules holds every markup- and text-level assumption the extractor makes
// about the results page. Retargeting to a markup variant means changing
// Rules, not code.
type Rules struct {
	// ListingLinkPrefix selects listing-detail anchors by their raw href.
	ListingLinkPrefix string `yaml:"listingLinkPrefix"`
	// WebsiteExcludePrefix filters listing-detail links out of the website candidates.
	WebsiteExcludePrefix string `yaml:"websiteExcludePrefix"`

	// The listing card is the nearest ancestor whose ContainerAttr contains ContainerMarker.
	ContainerAttr   string `yaml:"containerAttr"`
	ContainerMarker string `yaml:"containerMarker"`

	HeadlineClass string `yaml:"headlineClass"`
	RatingRole    string `yaml:"ratingRole"`
	RatingKeyword string `yaml:"ratingKeyword"`

	AddressPattern string `yaml:"addressPattern"`
	PhonePattern   string `yaml:"phonePattern"`
	HoursPattern   string `yaml:"hoursPattern"`
	// IndustryStrip is a set of characters removed from the industry text.
	IndustryStrip string `yaml:"industryStrip"`

	// SearchPageMarker is a substring identifying search result page URLs.
	SearchPageMarker string `yaml:"searchPageMarker"`
	// FeedSelector is waited for before a live snapshot is taken.
	FeedSelector string `yaml:"feedSelector"`

	// BaseURL resolves relative website links. Optional.
	BaseURL string `yaml:"baseURL"`
}

// space is the body of a character class matching what a browser regexp
// treats as \s. RE2's \s is ASCII only.
const space = `\s\v\p{Zs}\x{2028}\x{2029}\x{FEFF}`

// DefaultRules returns the rules for the Google Maps search results page.
func DefaultRules() Rules {
	return Rules{
		ListingLinkPrefix:    "https://www.google.com/maps/place",
		WebsiteExcludePrefix: "https://www.google.com/maps/place/",
		ContainerAttr:        "jsaction",
		ContainerMarker:      "mouseover:pane",
		HeadlineClass:        "fontHeadlineSmall",
		RatingRole:           "img",
		RatingKeyword:        "stars",
		AddressPattern:       `\d+ [\w` + space + `]+(?:#[` + space + `]*\d+|Suite[` + space + `]*\d+|Apt[` + space + `]*\d+)?`,
		PhonePattern:         `(\+\d{1,2}[` + space + `])?\(?\d{3}\)?[` + space + `.-]?\d{3}[` + space + `.-]?\d{4}`,
		HoursPattern:         `\b(Closed|Open 24 hours|24 hours|Open)\b`,
		IndustryStrip:        "Â·.,#!?",
		SearchPageMarker:     "://www.google.com/maps/search",
		FeedSelector:         `div[role="feed"]`,
	}
}

// compiledRules is the validated, read-only form of Rules.
type compiledRules struct {
	Rules
	address *regexp.Regexp
	phone   *regexp.Regexp
	hours   *regexp.Regexp
	base    *url.URL
}

// Validate reports every problem with r, or nil when the rules are usable.
func (r Rules) Validate() error {
	_, err := r.compile()
	return err
}

func (r Rules) compile() (*compiledRules, error) {
	var errs []error
	required := []struct{ name, val string }{
		{"listingLinkPrefix", r.ListingLinkPrefix},
		{"containerAttr", r.ContainerAttr},
		{"containerMarker", r.ContainerMarker},
		{"ratingRole", r.RatingRole},
		{"ratingKeyword", r.RatingKeyword},
	}
	for _, f := range required {
		if strings.TrimSpace(f.val) == "" {
			errs = append(errs, fmt.Errorf("%s must not be empty", f.name))
		}
	}

	c := &compiledRules{Rules: r}
	var err error
	if c.address, err = compilePattern("addressPattern", r.AddressPattern); err != nil {
		errs = append(errs, err)
	}
	if c.phone, err = compilePattern("phonePattern", r.PhonePattern); err != nil {
		errs = append(errs, err)
	}
	if c.hours, err = compilePattern("hoursPattern", r.HoursPattern); err != nil {
		errs = append(errs, err)
	}
	if r.BaseURL != "" {
		if c.base, err = url.Parse(r.BaseURL); err != nil {
			errs = append(errs, fmt.Errorf("baseURL: %w", err))
		}
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("gmaps: invalid rules: %w", errors.Join(errs...))
	}
	return c, nil
}

func compilePattern(name, expr string) (*regexp.Regexp, error) {
	if expr == "" {
		return nil, fmt.Errorf("%s must not be empty", name)
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return re, nil
}
