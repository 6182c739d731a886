package gmaps

import (
	"reflect"
	"strings"
	"testing"

	"gmaps-scraper/dom"
	"gmaps-scraper/models"
)

const resultsPage = `<!doctype html>
<html><head><title>coffee - Google Maps</title></head><body>
<div role="feed" aria-label="Results for coffee">
<div><div jsaction="mouseover:pane.wfvdle5;mouseout:pane.wfvdle5"><a class="hfpxzc" href="https://www.google.com/maps/place/Joe's+Coffee/data=1"></a><div class="fontHeadlineSmall">Joe's Coffee</div><span role="img" aria-label="4.5 stars 12 Reviews"><span>4.5</span><span>(12)</span></span><div>Coffee Shop</div><div>123 Main St Suite 4 Closed</div><div> · (555) 123-4567</div><a href="https://joescoffee.example.com/">Website</a><a class="hfpxzc" href="https://www.google.com/maps/place/Joe's+Coffee/data=1"></a></div></div>
<div><div jsaction="mouseover:pane.a1"><a class="hfpxzc" href="https://www.google.com/maps/place/Bean+There/data=2"></a><div class="fontHeadlineSmall">Bean There</div><span role="img" aria-label="4.1 stars 1,204 Reviews"><span>4.1</span><span>(1,204)</span></span><div>Cafe · 77 Elm Ave #5</div><div>Open 24 hours</div><a href="https://beanthere.example/">Website</a></div></div>
<div><div jsaction="mouseover:pane.b2"><a class="hfpxzc" href="https://www.google.com/maps/place/Tiny+Shop/data=3"></a><div class="fontHeadlineSmall">Tiny Shop</div><span role="img" aria-label="No reviews"></span><div>No reviews</div><div>Bakery · 9 Oak Rd</div></div></div>
<div><div jsaction="mouseover:pane.c3"><a class="hfpxzc" href="https://www.google.com/maps/place/Quiet+Place/data=4"></a><div class="fontHeadlineSmall">Quiet Place</div><div>Park · 5 River Rd</div></div></div>
</div>
<a href="https://www.google.com/maps/place/Orphan/data=5">orphan link</a>
</body></html>`

func newTestExtractor(t *testing.T, mutate func(*Rules)) *Extractor {
	t.Helper()
	rules := DefaultRules()
	if mutate != nil {
		mutate(&rules)
	}
	x, err := NewExtractor(rules, nil)
	if err != nil {
		t.Fatalf("NewExtractor: %v", err)
	}
	return x
}

func extractPage(t *testing.T, x *Extractor, page string) []models.Listing {
	t.Helper()
	listings, err := x.ExtractHTML(strings.NewReader(page))
	if err != nil {
		t.Fatalf("ExtractHTML: %v", err)
	}
	return listings
}

func TestExtractResultsPage(t *testing.T) {
	x := newTestExtractor(t, nil)
	got := extractPage(t, x, resultsPage)

	joe := models.Listing{
		Title:       "Joe's Coffee",
		Rating:      "4.5",
		ReviewCount: "(12)",
		Phone:       "(555) 123-4567",
		Industry:    "Coffee Shop",
		Address:     "123 Main St Suite 4",
		CompanyURL:  "https://joescoffee.example.com/",
		Href:        "https://www.google.com/maps/place/Joe's+Coffee/data=1",
	}
	want := []models.Listing{
		joe,
		joe,
		{
			Title:       "Bean There",
			Rating:      "4.1",
			ReviewCount: "(1,204)",
			Industry:    "Cafe",
			Address:     "77 Elm Ave #5",
			CompanyURL:  "https://beanthere.example/",
			Href:        "https://www.google.com/maps/place/Bean+There/data=2",
		},
		{
			Title:       "Tiny Shop",
			Rating:      "0",
			ReviewCount: "0",
			Address:     "9 Oak Rd",
			Href:        "https://www.google.com/maps/place/Tiny+Shop/data=3",
		},
		{
			Title:   "Quiet Place",
			Address: "5 River Rd",
			Href:    "https://www.google.com/maps/place/Quiet+Place/data=4",
		},
		{
			Href: "https://www.google.com/maps/place/Orphan/data=5",
		},
	}

	if len(got) != len(want) {
		t.Fatalf("listings: got %d, want %d: %+v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("listing %d:\n got  %+v\n want %+v", i, got[i], want[i])
		}
	}
}

func TestExtractNoAnchors(t *testing.T) {
	x := newTestExtractor(t, nil)
	got := extractPage(t, x, `<html><body><div jsaction="mouseover:pane">123 Main St</div></body></html>`)
	if got == nil || len(got) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", got)
	}
	if got := x.Extract(nil); got == nil || len(got) != 0 {
		t.Errorf("Extract(nil) = %#v; want empty slice", got)
	}
}

func TestExtractTypedNilRoot(t *testing.T) {
	x := newTestExtractor(t, nil)
	var root *dom.Element
	if got := x.Extract(root); got == nil || len(got) != 0 {
		t.Errorf("Extract(typed nil) = %#v; want empty slice", got)
	}
}

func TestExtractNormalizesHrefWithBase(t *testing.T) {
	x := newTestExtractor(t, func(r *Rules) {
		r.BaseURL = "https://www.google.com/maps/search/coffee"
	})
	page := `<html><body><div jsaction="mouseover:pane"><a href="https://www.google.com/maps/place/Joe Cafe/data=1"></a></div></body></html>`

	got := extractPage(t, x, page)
	if len(got) != 1 {
		t.Fatalf("listings: got %d, want 1", len(got))
	}
	if want := "https://www.google.com/maps/place/Joe%20Cafe/data=1"; got[0].Href != want {
		t.Errorf("Href = %q; want %q", got[0].Href, want)
	}
}

func TestExtractIsIdempotent(t *testing.T) {
	x := newTestExtractor(t, nil)
	root, err := dom.Parse(strings.NewReader(resultsPage))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	first := x.Extract(root)
	second := x.Extract(root)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("second extraction differs:\n%+v\n%+v", first, second)
	}
}

func TestExtractCountsAnchorsInOrder(t *testing.T) {
	x := newTestExtractor(t, nil)
	var b strings.Builder
	b.WriteString("<html><body>")
	hrefs := []string{"c", "a", "b", "a"}
	for _, h := range hrefs {
		b.WriteString(`<a href="https://www.google.com/maps/place/` + h + `">x</a>`)
		b.WriteString(`<a href="https://example.com/` + h + `">not a listing</a>`)
	}
	b.WriteString("</body></html>")

	got := extractPage(t, x, b.String())
	if len(got) != len(hrefs) {
		t.Fatalf("listings: got %d, want %d", len(got), len(hrefs))
	}
	for i, h := range hrefs {
		if want := "https://www.google.com/maps/place/" + h; got[i].Href != want {
			t.Errorf("listing %d href = %q; want %q", i, got[i].Href, want)
		}
	}
}

func TestExtractInMemoryTree(t *testing.T) {
	x := newTestExtractor(t, nil)
	card := dom.NewElement("div", map[string]string{"jsaction": "mouseover:pane.z"},
		dom.NewElement("a", map[string]string{"href": "https://www.google.com/maps/place/X"}),
		dom.NewText("4.5(12)Coffee Shop123 Main St Suite 4 Closed"),
		dom.NewElement("span", map[string]string{"role": "img", "aria-label": "4.5 stars 12 Reviews"}),
	)
	root := dom.NewElement("body", nil, card)

	got := x.Extract(root)
	if len(got) != 1 {
		t.Fatalf("listings: got %d, want 1", len(got))
	}
	if got[0].Address != "123 Main St Suite 4" {
		t.Errorf("Address = %q; want %q", got[0].Address, "123 Main St Suite 4")
	}
	if got[0].Industry != "Coffee Shop" {
		t.Errorf("Industry = %q; want %q", got[0].Industry, "Coffee Shop")
	}
	if got[0].Rating != "4.5" || got[0].ReviewCount != "(12)" {
		t.Errorf("rating = %q/%q; want 4.5/(12)", got[0].Rating, got[0].ReviewCount)
	}
}

func TestExtractResolvesRelativeWebsite(t *testing.T) {
	x := newTestExtractor(t, func(r *Rules) {
		r.BaseURL = "https://www.google.com/maps/search/coffee"
	})
	page := `<html><body><div jsaction="mouseover:pane"><a href="https://www.google.com/maps/place/Y"></a><a href="">empty</a><a href="/url?q=https://y.example">site</a></div></body></html>`

	got := extractPage(t, x, page)
	if len(got) != 1 {
		t.Fatalf("listings: got %d, want 1", len(got))
	}
	// An empty href resolves to the page itself, which is a search URL and not a place URL.
	if want := "https://www.google.com/maps/search/coffee"; got[0].CompanyURL != want {
		t.Errorf("CompanyURL = %q; want %q", got[0].CompanyURL, want)
	}
}

func TestExtractSkipsEmptyWebsiteWithoutBase(t *testing.T) {
	x := newTestExtractor(t, nil)
	page := `<html><body><div jsaction="mouseover:pane"><a href="https://www.google.com/maps/place/Y"></a><a href="  ">blank</a><a href="https://z.example">site</a></div></body></html>`

	got := extractPage(t, x, page)
	if len(got) != 1 || got[0].CompanyURL != "https://z.example" {
		t.Errorf("CompanyURL = %+v; want https://z.example", got)
	}
}

func TestRetargetedRules(t *testing.T) {
	x := newTestExtractor(t, func(r *Rules) {
		r.ListingLinkPrefix = "/biz/"
		r.WebsiteExcludePrefix = "/biz/"
		r.ContainerAttr = "data-card"
		r.ContainerMarker = "listing"
		r.HeadlineClass = "name"
		r.RatingKeyword = "rating"
	})
	page := `<html><body><section data-card="listing"><a href="/biz/1"></a><h2 class="name">Shop</h2><i role="img" aria-label="3.9 rating 40 votes"></i><a href="https://shop.example">w</a></section></body></html>`

	got := extractPage(t, x, page)
	if len(got) != 1 {
		t.Fatalf("listings: got %d, want 1", len(got))
	}
	l := got[0]
	if l.Title != "Shop" || l.Rating != "3.9" || l.ReviewCount != "(40)" || l.CompanyURL != "https://shop.example" {
		t.Errorf("unexpected listing %+v", l)
	}
}

func TestIsSearchPage(t *testing.T) {
	x := newTestExtractor(t, nil)
	tests := []struct {
		url  string
		want bool
	}{
		{"https://www.google.com/maps/search/coffee+near+me", true},
		{"https://www.google.com/maps/place/Joe's", false},
		{"https://example.com/", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := x.IsSearchPage(tt.url); got != tt.want {
			t.Errorf("IsSearchPage(%q) = %v; want %v", tt.url, got, tt.want)
		}
	}
}
