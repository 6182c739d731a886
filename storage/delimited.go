package storage

import "strings"

// ToDelimitedText renders grid as comma-separated text. Every cell is
// quoted and embedded quotes are doubled; rows are joined with "\n" and
// there is no trailing newline. An empty grid yields "".
//
// encoding/csv is not used because it only quotes cells that need it.
func ToDelimitedText(grid [][]string) string {
	var b strings.Builder
	for i, row := range grid {
		if i > 0 {
			b.WriteByte('\n')
		}
		for j, cell := range row {
			if j > 0 {
				b.WriteByte(',')
			}
			b.WriteByte('"')
			b.WriteString(strings.ReplaceAll(cell, `"`, `""`))
			b.WriteByte('"')
		}
	}
	return b.String()
}
