package storage

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// DefaultFilename is used when no export name is given.
const DefaultFilename = "google-maps-data.csv"

var lower = cases.Lower(language.Und)

// ExportFilename derives the CSV file name from user input. Blank input
// gives DefaultFilename; otherwise every character outside [A-Za-z0-9]
// becomes "_", the result is lower-cased and ".csv" is appended.
func ExportFilename(input string) string {
	input = strings.TrimSpace(input)
	if input == "" {
		return DefaultFilename
	}
	sanitized := strings.Map(func(r rune) rune {
		if r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' {
			return r
		}
		return '_'
	}, input)
	return lower.String(sanitized) + ".csv"
}

// WithExtension swaps the extension of an export file name, e.g. to write
// the spreadsheet next to the CSV.
func WithExtension(name, ext string) string {
	if i := strings.LastIndexByte(name, '.'); i > 0 {
		name = name[:i]
	}
	return name + ext
}
