package cmd

import (
	"fmt"
	"io"
	"strings"
)

// summaryTable collects rows and prints them as left aligned columns.
type summaryTable struct {
	columns []string
	rows    [][]string
}

// newSummaryTable creates a table with the given column titles.
func newSummaryTable(columns ...string) *summaryTable {
	return &summaryTable{columns: columns}
}

// addRow adds a data row. Missing or empty cells are shown as "-".
func (t *summaryTable) addRow(cells ...string) {
	row := make([]string, len(t.columns))
	for i := range row {
		row[i] = "-"
		if i < len(cells) && cells[i] != "" {
			row[i] = cells[i]
		}
	}
	t.rows = append(t.rows, row)
}

// widths returns the width of every column, including two spaces of
// padding.
func (t *summaryTable) widths() []int {
	widths := make([]int, len(t.columns))
	for i, c := range t.columns {
		widths[i] = len(c)
	}
	for _, row := range t.rows {
		for i, cell := range row {
			if len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}
	for i := range widths {
		widths[i] += 2
	}
	return widths
}

// print writes the header, a separator and all rows.
func (t *summaryTable) print(w io.Writer) {
	widths := t.widths()
	printRow(w, widths, t.columns)

	total := 0
	for _, n := range widths {
		total += n
	}
	fmt.Fprintln(w, strings.Repeat("-", total-2))

	for _, row := range t.rows {
		printRow(w, widths, row)
	}
}

func printRow(w io.Writer, widths []int, cells []string) {
	var b strings.Builder
	for i, cell := range cells {
		fmt.Fprintf(&b, "%-*s", widths[i], cell)
	}
	fmt.Fprintln(w, strings.TrimRight(b.String(), " "))
}
