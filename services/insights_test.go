package services

import (
	"bytes"
	"strings"
	"testing"

	"gmaps-scraper/models"
	"gmaps-scraper/utils"
)

func sampleListings() []models.Listing {
	return []models.Listing{
		{Title: "Joe's Coffee", Rating: "4.5", ReviewCount: "(12)", Industry: "Coffee Shop", Phone: "(555) 123-4567", CompanyURL: "https://joe.example"},
		{Title: "Bean There", Rating: "4.9", ReviewCount: "(1,204)", Industry: "Cafe"},
		{Title: "Brew Bar", Rating: "4.5", ReviewCount: "(3)", Industry: "Coffee Shop"},
		{Title: "Tiny Shop", Rating: "0", ReviewCount: "0", Industry: "Bakery"},
		{Title: "Orphan"},
	}
}

func TestInsightCounts(t *testing.T) {
	svc := NewInsightService(utils.Discard())
	r := svc.Generate(sampleListings())
	if r.TotalListings != 5 {
		t.Errorf("TotalListings: got %d, want 5", r.TotalListings)
	}
	if r.RatedListings != 3 {
		t.Errorf("RatedListings: got %d, want 3", r.RatedListings)
	}
	if r.TotalReviews != 1219 {
		t.Errorf("TotalReviews: got %d, want 1219", r.TotalReviews)
	}
	if r.MissingPhone != 4 || r.MissingWebsite != 4 {
		t.Errorf("missing phone/website: got %d/%d, want 4/4", r.MissingPhone, r.MissingWebsite)
	}
}

func TestInsightAverageRating(t *testing.T) {
	svc := NewInsightService(utils.Discard())
	r := svc.Generate(sampleListings())
	if r.AverageRating != 4.63 {
		t.Errorf("AverageRating: got %.2f, want 4.63", r.AverageRating)
	}
}

func TestInsightTopRated(t *testing.T) {
	svc := NewInsightService(utils.Discard())
	r := svc.Generate(sampleListings())
	if len(r.TopRated) != 3 {
		t.Fatalf("TopRated len: got %d, want 3", len(r.TopRated))
	}
	want := []string{"Bean There", "Joe's Coffee", "Brew Bar"}
	for i, title := range want {
		if r.TopRated[i].Title != title {
			t.Errorf("TopRated[%d]: got %q, want %q", i, r.TopRated[i].Title, title)
		}
	}
}

func TestInsightIndustryGrouping(t *testing.T) {
	svc := NewInsightService(utils.Discard())
	r := svc.Generate(sampleListings())
	if r.ListingsByIndustry["Coffee Shop"] != 2 {
		t.Errorf("Coffee Shop count: got %d, want 2", r.ListingsByIndustry["Coffee Shop"])
	}
	if _, ok := r.ListingsByIndustry[""]; ok {
		t.Errorf("empty industry should not be grouped")
	}
}

func TestInsightEmptyInput(t *testing.T) {
	svc := NewInsightService(utils.Discard())
	r := svc.Generate(nil)
	if r.TotalListings != 0 {
		t.Errorf("expected 0 total listings for empty input")
	}
}

func TestInsightPrint(t *testing.T) {
	svc := NewInsightService(utils.Discard())
	var buf bytes.Buffer
	svc.Print(&buf, svc.Generate(sampleListings()))
	for _, want := range []string{"Bean There", "Coffee Shop", "Total listings"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("report missing %q", want)
		}
	}
}
