// Package importer loads a spreadsheet of transactions into the ledger.
//
// An import is all-or-nothing: every row is validated before anything is
// written, and the rows are then stored in a single database transaction.
package importer

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"fluxo/internal/core"
	"fluxo/internal/log"
	"fluxo/internal/sheets"
)

// Required header names, matched trimmed and case-insensitively.
const (
	ColDate        = "Data"
	ColDescription = "Descrição"
	ColCategory    = "Categoria"
	ColAmount      = "Valor"
	ColKind        = "Tipo"
)

var RequiredColumns = []string{ColDate, ColDescription, ColCategory, ColAmount, ColKind}

const (
	successMessage = "Dados importados com sucesso!"
	failurePrefix  = "Erro ao importar dados: "
)

var (
	ErrMissingColumns   = errors.New("colunas obrigatórias faltando")
	ErrCategoryNotFound = errors.New("categoria não encontrada")
	ErrEmptyTable       = errors.New("nenhuma linha para importar")
)

// Store is what an import needs from the ledger.
type Store interface {
	GetCategoryByName(ctx context.Context, name string, kind core.Kind) (core.Category, error)
	CreateTransactions(ctx context.Context, ts []core.Transaction) ([]int64, error)
}

// Result is the user-facing outcome of an import.
type Result struct {
	Success  bool
	Imported int
	Message  string
}

// RowError locates a failure by its 1-based spreadsheet line, header included.
type RowError struct {
	Line int
	Err  error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("linha %d: %v", e.Line, e.Err)
}

func (e *RowError) Unwrap() error {
	return e.Err
}

type Importer struct {
	store  Store
	logger *log.Logger
	// Progress, when set, is called after each validated row.
	Progress func(done, total int)
}

func New(store Store, logger *log.Logger) *Importer {
	if logger == nil {
		cfg := log.DefaultConfig()
		cfg.Component = log.ComponentImporter
		logger = log.New(cfg)
	}
	return &Importer{store: store, logger: logger}
}

// Import reads src and stores every row, or none. The returned Result is
// always filled; err is non-nil exactly when Result.Success is false.
func (im *Importer) Import(ctx context.Context, src sheets.TableReader) (Result, error) {
	tbl, err := src.ReadTable(ctx)
	if err != nil {
		return im.fail(ctx, fmt.Errorf("read table: %w", err))
	}

	txs, err := im.Rows(ctx, tbl)
	if err != nil {
		return im.fail(ctx, err)
	}

	ids, err := im.store.CreateTransactions(ctx, txs)
	if err != nil {
		return im.fail(ctx, err)
	}

	im.logger.InfoContext(ctx, "Import completed",
		log.FieldOperation, log.OpImport,
		log.FieldRows, len(ids))
	return Result{Success: true, Imported: len(ids), Message: successMessage}, nil
}

// Rows validates tbl and converts it to transactions without storing them.
func (im *Importer) Rows(ctx context.Context, tbl sheets.Table) ([]core.Transaction, error) {
	cols, err := columns(tbl)
	if err != nil {
		return nil, err
	}
	if len(tbl.Rows) == 0 {
		return nil, ErrEmptyTable
	}

	type catKey struct {
		name string
		kind core.Kind
	}
	cats := map[catKey]int64{}

	out := make([]core.Transaction, 0, len(tbl.Rows))
	for i, row := range tbl.Rows {
		line := tbl.Line(i)

		t, catName, err := parseRow(row, cols)
		if err != nil {
			return nil, &RowError{Line: line, Err: err}
		}

		key := catKey{catName, t.Kind}
		id, ok := cats[key]
		if !ok {
			c, err := im.store.GetCategoryByName(ctx, catName, t.Kind)
			if errors.Is(err, core.ErrNotFound) {
				return nil, &RowError{Line: line, Err: fmt.Errorf("%w: %s", ErrCategoryNotFound, catName)}
			}
			if err != nil {
				return nil, fmt.Errorf("look up category: %w", err)
			}
			id = c.ID
			cats[key] = id
		}
		t.CategoryID = &id

		out = append(out, t)
		if im.Progress != nil {
			im.Progress(i+1, len(tbl.Rows))
		}
	}
	return out, nil
}

func (im *Importer) fail(ctx context.Context, err error) (Result, error) {
	im.logger.WarnContext(ctx, "Import rejected",
		log.FieldOperation, log.OpImport,
		log.FieldError, err)
	return Result{Message: failurePrefix + err.Error()}, err
}

type columnIndex struct {
	date, desc, cat, amount, kind int
}

func columns(tbl sheets.Table) (columnIndex, error) {
	idx := make([]int, len(RequiredColumns))
	var missing []string
	for i, name := range RequiredColumns {
		idx[i] = tbl.Column(name)
		if idx[i] < 0 {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return columnIndex{}, fmt.Errorf("%w: %s", ErrMissingColumns, strings.Join(missing, ", "))
	}
	return columnIndex{date: idx[0], desc: idx[1], cat: idx[2], amount: idx[3], kind: idx[4]}, nil
}

func parseRow(row []string, cols columnIndex) (core.Transaction, string, error) {
	date, err := ParseDate(sheets.Cell(row, cols.date))
	if err != nil {
		return core.Transaction{}, "", err
	}

	cents, err := core.ParseDecimalToCents(sheets.Cell(row, cols.amount))
	if err != nil {
		return core.Transaction{}, "", &core.FieldError{
			Field: "valor",
			Err:   fmt.Errorf("valor inválido %q: %w", sheets.Cell(row, cols.amount), err),
		}
	}

	kind := core.Kind(strings.ToLower(sheets.Cell(row, cols.kind)))
	if err := kind.Validate(); err != nil {
		return core.Transaction{}, "", &core.FieldError{
			Field: "tipo",
			Err:   fmt.Errorf("tipo deve ser 'entrada' ou 'saida', recebido %q: %w", sheets.Cell(row, cols.kind), err),
		}
	}

	t := core.Transaction{
		Date:        date,
		Description: sheets.Cell(row, cols.desc),
		Amount:      core.Money{Cents: cents},
		Kind:        kind,
	}
	if err := t.Validate(); err != nil {
		return core.Transaction{}, "", err
	}
	return t, sheets.Cell(row, cols.cat), nil
}

var dateLayouts = []string{
	core.DateLayout,
	"02/01/2006",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2/1/2006",
}

// ParseDate reads an ISO date, a dd/mm/yyyy date or a spreadsheet serial
// number.
func ParseDate(s string) (core.Date, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return core.NewDate(t.Year(), int(t.Month()), t.Day()), nil
		}
	}

	if serial, err := strconv.ParseFloat(s, 64); err == nil && serial >= 1 {
		t, err := excelize.ExcelDateToTime(serial, false)
		if err == nil {
			return core.NewDate(t.Year(), int(t.Month()), t.Day()), nil
		}
	}

	return core.Date{}, &core.FieldError{Field: "data", Err: fmt.Errorf("%w: %q", core.ErrInvalidDate, s)}
}
