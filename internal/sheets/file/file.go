// Package file reads import tables from local .csv and .xlsx files.
package file

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"fluxo/internal/sheets"
)

var ErrUnsupportedFormat = errors.New("unsupported file format (use .csv or .xlsx)")

// Reader reads the first sheet of an .xlsx workbook or a whole .csv file.
type Reader struct {
	Path string
	// Sheet overrides the workbook sheet; empty means the first one.
	Sheet string
}

var _ sheets.TableReader = (*Reader)(nil)

func New(path string) *Reader {
	return &Reader{Path: path}
}

func (r *Reader) ReadTable(ctx context.Context) (sheets.Table, error) {
	if err := ctx.Err(); err != nil {
		return sheets.Table{}, err
	}

	switch strings.ToLower(filepath.Ext(r.Path)) {
	case ".csv":
		return r.readCSV()
	case ".xlsx", ".xlsm":
		return r.readXLSX()
	}
	return sheets.Table{}, fmt.Errorf("%s: %w", r.Path, ErrUnsupportedFormat)
}

func (r *Reader) readCSV() (sheets.Table, error) {
	f, err := os.Open(r.Path)
	if err != nil {
		return sheets.Table{}, fmt.Errorf("open %s: %w", r.Path, err)
	}
	defer f.Close()

	cr := csv.NewReader(f)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true

	// The csv reader skips empty lines, so each record keeps the line it
	// started on.
	var (
		records [][]string
		lines   []int
	)
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return sheets.Table{}, fmt.Errorf("read csv %s: %w", r.Path, err)
		}
		line, _ := cr.FieldPos(0)
		records = append(records, rec)
		lines = append(lines, line)
	}
	if len(records) > 0 && len(records[0]) > 0 {
		records[0][0] = strings.TrimPrefix(records[0][0], "\ufeff")
	}
	return sheets.NewTableAt(records, lines), nil
}

func (r *Reader) readXLSX() (sheets.Table, error) {
	f, err := excelize.OpenFile(r.Path)
	if err != nil {
		return sheets.Table{}, fmt.Errorf("open workbook %s: %w", r.Path, err)
	}
	defer f.Close()

	sheet := r.Sheet
	if sheet == "" {
		list := f.GetSheetList()
		if len(list) == 0 {
			return sheets.Table{}, fmt.Errorf("workbook %s has no sheets", r.Path)
		}
		sheet = list[0]
	}

	// Raw values keep dates as serial numbers and amounts unformatted.
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return sheets.Table{}, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	return sheets.NewTable(rows), nil
}
