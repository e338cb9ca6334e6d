package stats

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var headerStyle = lipgloss.NewStyle().Bold(true)

var tableHeader = []string{"NAME", "AVG", "VAR", "MIN", "MAX", "NABOVE", "NBELOW"}

// Table renders rows as a fixed-width aligned table with a header line.
// NAME is left-justified, every numeric column right-justified. Rows
// keep their input order and values are printed exactly as Record
// prints them; only padding is added.
func Table(rows []Row) string {
	cells := make([][]string, 0, len(rows)+1)
	cells = append(cells, tableHeader)
	for _, r := range rows {
		cells = append(cells, strings.Split(r.Record(), ";"))
	}

	widths := make([]int, len(tableHeader))
	for _, line := range cells {
		for i, c := range line {
			if len(c) > widths[i] {
				widths[i] = len(c)
			}
		}
	}

	var b strings.Builder
	for li, line := range cells {
		parts := make([]string, len(line))
		for i, c := range line {
			if i == 0 {
				parts[i] = c + strings.Repeat(" ", widths[i]-len(c))
			} else {
				parts[i] = strings.Repeat(" ", widths[i]-len(c)) + c
			}
		}
		out := strings.Join(parts, "  ")
		if li == 0 {
			out = headerStyle.Render(out)
		}
		b.WriteString(out)
		b.WriteByte('\n')
	}
	return b.String()
}
