package services

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"gmaps-scraper/models"
	"gmaps-scraper/utils"
)

type InsightService struct {
	logger *utils.Logger
}

func NewInsightService(logger *utils.Logger) *InsightService {
	return &InsightService{logger: logger}
}

// Generate summarises one extraction. Ratings of "", "0" or anything that
// does not parse count as unrated.
func (s *InsightService) Generate(listings []models.Listing) *models.InsightReport {
	report := &models.InsightReport{
		ListingsByIndustry: make(map[string]int),
	}

	if len(listings) == 0 {
		return report
	}

	report.TotalListings = len(listings)

	type rated struct {
		listing models.Listing
		rating  float64
	}
	var ratedListings []rated
	var total float64

	for _, l := range listings {
		if l.Phone == "" {
			report.MissingPhone++
		}
		if l.CompanyURL == "" {
			report.MissingWebsite++
		}
		if l.Industry != "" {
			report.ListingsByIndustry[l.Industry]++
		}
		report.TotalReviews += parseReviews(l.Reviews())

		r, ok := parseRating(l.Rating)
		if !ok {
			continue
		}
		ratedListings = append(ratedListings, rated{listing: l, rating: r})
		total += r
	}

	report.RatedListings = len(ratedListings)
	if len(ratedListings) > 0 {
		report.AverageRating = round2(total / float64(len(ratedListings)))
	}

	// Top 5 by rating, ties keep page order
	sort.SliceStable(ratedListings, func(i, j int) bool {
		return ratedListings[i].rating > ratedListings[j].rating
	})
	for i := 0; i < len(ratedListings) && i < 5; i++ {
		report.TopRated = append(report.TopRated, ratedListings[i].listing)
	}

	s.logger.Debug("[insights] %d listings, %d rated", report.TotalListings, report.RatedListings)
	return report
}

func (s *InsightService) Print(w io.Writer, r *models.InsightReport) {
	sep := strings.Repeat("═", 54)
	thin := strings.Repeat("─", 54)

	fmt.Fprintf(w, "\n\033[1;35m%s\033[0m\n", sep)
	fmt.Fprintf(w, "\033[1;35m  📊 GOOGLE MAPS SCRAPE INSIGHTS\033[0m\n")
	fmt.Fprintf(w, "\033[1;35m%s\033[0m\n\n", sep)

	fmt.Fprintf(w, "\033[1;33m  Overview\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	fmt.Fprintf(w, "  Total listings   : \033[1m%d\033[0m\n", r.TotalListings)
	fmt.Fprintf(w, "  Rated listings   : \033[1m%d\033[0m\n", r.RatedListings)
	fmt.Fprintf(w, "  Total reviews    : \033[1m%d\033[0m\n", r.TotalReviews)
	fmt.Fprintf(w, "  Without phone    : \033[1m%d\033[0m\n", r.MissingPhone)
	fmt.Fprintf(w, "  Without website  : \033[1m%d\033[0m\n", r.MissingWebsite)
	if r.RatedListings > 0 {
		fmt.Fprintf(w, "  Average rating   : \033[1;32m%.2f ★\033[0m\n", r.AverageRating)
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "\033[1;33m  Top 5 Highest Rated\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	if len(r.TopRated) == 0 {
		fmt.Fprintf(w, "  No rated listings found\n")
	} else {
		for i, l := range r.TopRated {
			fmt.Fprintf(w, "  \033[1m%d.\033[0m %-40s \033[1;32m%s ★\033[0m (%s)\n",
				i+1, truncate(l.Title, 38), l.Rating, l.Reviews())
		}
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "\033[1;33m  Listings by Industry\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	if len(r.ListingsByIndustry) == 0 {
		fmt.Fprintf(w, "  No industry data\n")
	} else {
		type industryCount struct {
			name  string
			count int
		}
		var counts []industryCount
		for name, cnt := range r.ListingsByIndustry {
			counts = append(counts, industryCount{name, cnt})
		}
		sort.Slice(counts, func(i, j int) bool {
			if counts[i].count == counts[j].count {
				return counts[i].name < counts[j].name
			}
			return counts[i].count > counts[j].count
		})
		for _, ic := range counts {
			bar := strings.Repeat("█", ic.count)
			fmt.Fprintf(w, "  %-30s %s (%d)\n", truncate(ic.name, 28), bar, ic.count)
		}
	}

	fmt.Fprintf(w, "\n\033[1;35m%s\033[0m\n\n", sep)
}

func parseRating(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
	if err != nil || v <= 0 || v > 5 {
		return 0, false
	}
	return v, true
}

// parseReviews reads counts like "1,204"; anything else counts as zero.
func parseReviews(s string) int {
	n, err := strconv.Atoi(strings.ReplaceAll(s, ",", ""))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

func round2(f float64) float64 {
	return float64(int(f*100+0.5)) / 100
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
