package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"fluxo/internal/core"
)

const selectTransactions = `
	SELECT t.id, t.data, t.descricao, t.categoria_id, c.nome, t.valor, t.tipo
	FROM transacoes t
	LEFT JOIN categorias c ON c.id = t.categoria_id`

// ListTransactions returns the transactions matching every criterion set in
// f, newest first, each with its category name when it has one.
func (r *SQLiteRepository) ListTransactions(ctx context.Context, f core.TransactionFilter) ([]core.Transaction, error) {
	p := transactionPredicates("t.", f)

	var out []core.Transaction
	err := r.withConn(ctx, func(q querier) error {
		rows, err := q.QueryContext(ctx, selectTransactions+p.where()+` ORDER BY t.data DESC, t.id DESC`, p.args...)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			t, err := scanTransaction(rows)
			if err != nil {
				return err
			}
			out = append(out, t)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return out, nil
}

func (r *SQLiteRepository) GetTransaction(ctx context.Context, id int64) (core.Transaction, error) {
	var t core.Transaction
	err := r.withConn(ctx, func(q querier) error {
		var err error
		t, err = scanTransaction(q.QueryRowContext(ctx, selectTransactions+` WHERE t.id = ?`, id))
		return err
	})
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, fmt.Errorf("transaction %d: %w", id, core.ErrNotFound)
	}
	if err != nil {
		return core.Transaction{}, fmt.Errorf("get transaction: %w", err)
	}
	return t, nil
}

// CreateTransaction inserts t and returns its id. The caller validates t.
func (r *SQLiteRepository) CreateTransaction(ctx context.Context, t core.Transaction) (int64, error) {
	var id int64
	err := r.withConn(ctx, func(q querier) error {
		var err error
		id, err = insertTransaction(ctx, q, t)
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("create transaction: %w", err)
	}

	slog.InfoContext(ctx, "Transaction saved",
		"id", id,
		"date", t.Date.String(),
		"amount_cents", t.Amount.Cents,
		"kind", t.Kind)
	return id, nil
}

// CreateTransactions inserts all of ts in a single transaction: either every
// row is written or none is.
func (r *SQLiteRepository) CreateTransactions(ctx context.Context, ts []core.Transaction) ([]int64, error) {
	ids := make([]int64, 0, len(ts))
	err := r.withTx(ctx, func(q querier) error {
		for i, t := range ts {
			id, err := insertTransaction(ctx, q, t)
			if err != nil {
				return fmt.Errorf("row %d: %w", i+1, err)
			}
			ids = append(ids, id)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("create transactions: %w", err)
	}

	slog.InfoContext(ctx, "Transactions saved in batch", "count", len(ids))
	return ids, nil
}

// UpdateTransaction replaces every mutable field of the row t.ID.
func (r *SQLiteRepository) UpdateTransaction(ctx context.Context, t core.Transaction) error {
	err := r.withConn(ctx, func(q querier) error {
		res, err := q.ExecContext(ctx, `
			UPDATE transacoes
			SET data = ?, descricao = ?, categoria_id = ?, valor = ?, tipo = ?
			WHERE id = ?`,
			t.Date.String(), t.Description, nullableID(t.CategoryID), t.Amount.Cents, string(t.Kind), t.ID)
		if err != nil {
			return categoryRefError(err, t.CategoryID)
		}
		return affectedOrNotFound(res, "transaction", t.ID)
	})
	if err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}

	slog.InfoContext(ctx, "Transaction updated", "id", t.ID)
	return nil
}

func (r *SQLiteRepository) DeleteTransaction(ctx context.Context, id int64) error {
	err := r.withConn(ctx, func(q querier) error {
		res, err := q.ExecContext(ctx, `DELETE FROM transacoes WHERE id = ?`, id)
		if err != nil {
			return err
		}
		return affectedOrNotFound(res, "transaction", id)
	})
	if err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}

	slog.InfoContext(ctx, "Transaction deleted", "id", id)
	return nil
}

func insertTransaction(ctx context.Context, q querier, t core.Transaction) (int64, error) {
	res, err := q.ExecContext(ctx, `
		INSERT INTO transacoes (data, descricao, categoria_id, valor, tipo)
		VALUES (?, ?, ?, ?, ?)`,
		t.Date.String(), t.Description, nullableID(t.CategoryID), t.Amount.Cents, string(t.Kind))
	if err != nil {
		return 0, categoryRefError(err, t.CategoryID)
	}
	return res.LastInsertId()
}

// categoryRefError reports a dangling category reference as not found.
func categoryRefError(err error, categoryID *int64) error {
	if isForeignKeyViolation(err) && categoryID != nil {
		return fmt.Errorf("category %d: %w", *categoryID, core.ErrNotFound)
	}
	return err
}

func nullableID(id *int64) any {
	if id == nil {
		return nil
	}
	return *id
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(s rowScanner) (core.Transaction, error) {
	var (
		t       core.Transaction
		date    string
		catID   sql.NullInt64
		catName sql.NullString
		kind    string
	)
	if err := s.Scan(&t.ID, &date, &t.Description, &catID, &catName, &t.Amount.Cents, &kind); err != nil {
		return core.Transaction{}, err
	}
	d, err := time.Parse(core.DateLayout, date)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("transaction %d: stored date %q: %w", t.ID, date, err)
	}
	t.Date = core.Date{Time: d}
	if catID.Valid {
		id := catID.Int64
		t.CategoryID = &id
		t.CategoryName = catName.String
	}
	t.Kind = core.Kind(kind)
	return t, nil
}
