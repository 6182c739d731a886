package services

import "gmaps-scraper/models"

// BuildGrid renders listings as the exported table: the fixed header row
// followed by one display row per listing, in order. Review counts lose
// their parentheses here.
func BuildGrid(listings []models.Listing) [][]string {
	grid := make([][]string, 0, len(listings)+1)
	grid = append(grid, append([]string(nil), models.Headers...))
	for _, l := range listings {
		grid = append(grid, l.DisplayRow())
	}
	return grid
}
