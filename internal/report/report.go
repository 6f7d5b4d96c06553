// Package report renders a human-readable summary of a snapshot.
package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/kevinmichaelchen/repo-radar/internal/models"
	"github.com/mattn/go-runewidth"
)

// Summary writes a table with one row per category and one column per sort
// field, followed by a totals row.
func Summary(w io.Writer, s *models.Snapshot) error {
	header := []string{"Category"}
	for _, sp := range s.Sorts {
		header = append(header, sp.Field)
	}
	rows := [][]string{header}

	totals := make([]int, len(s.Sorts))
	for _, c := range s.Categories {
		row := []string{c.Name}
		for i, sp := range s.Sorts {
			n := len(s.Get(c.Name, sp.Field))
			totals[i] += n
			row = append(row, strconv.Itoa(n))
		}
		rows = append(rows, row)
	}

	last := []string{"Total"}
	for _, n := range totals {
		last = append(last, strconv.Itoa(n))
	}
	rows = append(rows, last)

	for _, line := range Table(rows) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "\n%d repositories, last updated %s\n",
		s.TotalRepositories, s.LastUpdated.Format("2006-01-02 15:04:05 UTC"))
	return err
}

// Table lays out rows as a Markdown table. The first row is the header.
// Cells are padded by display width so that wide runes stay aligned.
func Table(rows [][]string) []string {
	if len(rows) == 0 {
		return nil
	}

	colCount := 0
	for _, row := range rows {
		if len(row) > colCount {
			colCount = len(row)
		}
	}

	widths := make([]int, colCount)
	for _, row := range rows {
		for i, cell := range row {
			if w := runewidth.StringWidth(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}
	for i := range widths {
		if widths[i] < 3 {
			widths[i] = 3
		}
	}

	lines := make([]string, 0, len(rows)+1)
	for i, row := range rows {
		lines = append(lines, renderRow(row, widths))
		if i == 0 {
			sep := make([]string, colCount)
			for j := range sep {
				sep[j] = strings.Repeat("-", widths[j])
			}
			lines = append(lines, renderRow(sep, widths))
		}
	}
	return lines
}

func renderRow(row []string, widths []int) string {
	var sb strings.Builder
	sb.WriteString("|")
	for j, width := range widths {
		content := ""
		if j < len(row) {
			content = row[j]
		}
		sb.WriteString(" ")
		sb.WriteString(content)
		if pad := width - runewidth.StringWidth(content); pad > 0 {
			sb.WriteString(strings.Repeat(" ", pad))
		}
		sb.WriteString(" |")
	}
	return sb.String()
}
