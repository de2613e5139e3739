// Package memory serves an import table held in memory.
package memory

import (
	"context"
	"sync"

	"fluxo/internal/sheets"
)

// Reader returns a copy of its table on every read.
type Reader struct {
	mu    sync.Mutex
	table sheets.Table
	reads int
}

var _ sheets.TableReader = (*Reader)(nil)

// New builds a reader from a header row followed by data rows.
func New(header []string, rows ...[]string) *Reader {
	return &Reader{table: sheets.NewTable(append([][]string{header}, rows...))}
}

func (r *Reader) ReadTable(ctx context.Context) (sheets.Table, error) {
	if err := ctx.Err(); err != nil {
		return sheets.Table{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reads++

	out := sheets.Table{
		Header: append([]string(nil), r.table.Header...),
		Lines:  append([]int(nil), r.table.Lines...),
	}
	for _, row := range r.table.Rows {
		out.Rows = append(out.Rows, append([]string(nil), row...))
	}
	return out, nil
}

// Reads reports how many times the table was read.
func (r *Reader) Reads() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.reads
}
