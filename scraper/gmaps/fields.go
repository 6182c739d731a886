package gmaps

import (
	"regexp"
	"strings"
)

// span is a half-open byte range [start, end) inside the container text.
type span struct {
	start, end int
}

// textFields are the fields recovered from a listing card's flattened text.
type textFields struct {
	Address  string
	Industry string
	Phone    string
}

// parseCardText runs the text stages in order over one flattened value.
// marker is the rating and review text (e.g. "4.5(12)") that precedes the
// industry label on the card.
func parseCardText(text, marker string, r *compiledRules) textFields {
	var f textFields
	if addr, ok := findAddress(text, r.address); ok {
		f.Industry = industryBefore(text, addr.start, marker, r.IndustryStrip)
		f.Address = stripHours(text[addr.start:addr.end], r.hours)
	}
	f.Phone = r.phone.FindString(text)
	return f
}

// parseRatingLabel turns an accessibility label such as
// "4.5 stars 1,204 Reviews" into a rating and a parenthesised review count.
// A label without the keyword, or no label at all, yields "0" for both.
func parseRatingLabel(label string, ok bool, keyword string) (rating, reviews string) {
	if !ok || !strings.Contains(label, keyword) {
		return "0", "0"
	}
	tokens := strings.Fields(label)
	if len(tokens) == 0 {
		return "0", "0"
	}
	count := "0"
	if len(tokens) > 2 {
		count = tokens[2]
	}
	return tokens[0], "(" + count + ")"
}

func findAddress(text string, re *regexp.Regexp) (span, bool) {
	loc := re.FindStringIndex(text)
	if loc == nil {
		return span{}, false
	}
	return span{start: loc[0], end: loc[1]}, true
}

// industryBefore returns the label between the last rating marker before
// addrStart and the end of that line, with strip characters removed.
func industryBefore(text string, addrStart int, marker, strip string) string {
	if marker == "" {
		return ""
	}
	prefix := strings.TrimSpace(text[:addrStart])
	i := strings.LastIndex(prefix, marker)
	if i < 0 {
		return ""
	}
	rest := strings.TrimSpace(prefix[i+len(marker):])
	if nl := strings.IndexAny(rest, "\r\n"); nl >= 0 {
		rest = rest[:nl]
	}
	rest = strings.Map(func(r rune) rune {
		if strings.ContainsRune(strip, r) {
			return -1
		}
		return r
	}, rest)
	return strings.TrimSpace(rest)
}

// stripHours drops opening-hours words that run into the address match.
func stripHours(raw string, re *regexp.Regexp) string {
	return strings.TrimSpace(re.ReplaceAllString(raw, ""))
}
