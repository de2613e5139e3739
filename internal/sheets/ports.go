package sheets

import (
	"context"
	"strings"
)

// Table is a spreadsheet read as text: a header row and the data rows
// below it. Rows may be shorter than the header.
type Table struct {
	Header []string
	Rows   [][]string
	// Lines holds the 1-based source line of each row in Rows.
	Lines []int
}

// TableReader is implemented by every import source.
type TableReader interface {
	ReadTable(ctx context.Context) (Table, error)
}

// NewTable splits values into header and rows, trimming every cell and
// skipping rows that are entirely blank. values[i] is taken to come from
// line i+1 of the source.
func NewTable(values [][]string) Table {
	return NewTableAt(values, nil)
}

// NewTableAt is NewTable for sources whose records do not map one to one
// onto lines. lines[i] is the source line of values[i]; when lines is
// short the position is used.
func NewTableAt(values [][]string, lines []int) Table {
	var t Table
	for n, row := range values {
		cells := make([]string, len(row))
		blank := true
		for i, v := range row {
			cells[i] = strings.TrimSpace(v)
			if cells[i] != "" {
				blank = false
			}
		}
		if blank {
			continue
		}
		if t.Header == nil {
			t.Header = cells
			continue
		}
		line := n + 1
		if n < len(lines) {
			line = lines[n]
		}
		t.Rows = append(t.Rows, cells)
		t.Lines = append(t.Lines, line)
	}
	return t
}

// Line returns the source line of Rows[i]. Tables built without line
// information assume the header on line 1 and no gaps.
func (t Table) Line(i int) int {
	if i < len(t.Lines) {
		return t.Lines[i]
	}
	return i + 2
}

// Column returns the index of the header named name, compared trimmed and
// case-insensitively, or -1.
func (t Table) Column(name string) int {
	for i, v := range t.Header {
		if strings.EqualFold(strings.TrimSpace(v), strings.TrimSpace(name)) {
			return i
		}
	}
	return -1
}

// Cell returns row[idx], or "" when the row is too short.
func Cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}
