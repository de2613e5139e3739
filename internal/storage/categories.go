package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"fluxo/internal/core"
)

// ListCategories returns every category, or only those of kind when it is
// set, ordered by name.
func (r *SQLiteRepository) ListCategories(ctx context.Context, kind core.Kind) ([]core.Category, error) {
	p := &predicates{}
	p.kind("tipo", kind)

	var out []core.Category
	err := r.withConn(ctx, func(q querier) error {
		rows, err := q.QueryContext(ctx,
			`SELECT id, nome, tipo FROM categorias`+p.where()+` ORDER BY nome, tipo`, p.args...)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var c core.Category
			var kind string
			if err := rows.Scan(&c.ID, &c.Name, &kind); err != nil {
				return err
			}
			c.Kind = core.Kind(kind)
			out = append(out, c)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return out, nil
}

func (r *SQLiteRepository) GetCategory(ctx context.Context, id int64) (core.Category, error) {
	return r.getCategory(ctx, `SELECT id, nome, tipo FROM categorias WHERE id = ?`, id)
}

// GetCategoryByName looks a category up by exact name within one kind.
func (r *SQLiteRepository) GetCategoryByName(ctx context.Context, name string, kind core.Kind) (core.Category, error) {
	return r.getCategory(ctx, `SELECT id, nome, tipo FROM categorias WHERE nome = ? AND tipo = ?`, name, string(kind))
}

func (r *SQLiteRepository) getCategory(ctx context.Context, query string, args ...any) (core.Category, error) {
	var c core.Category
	err := r.withConn(ctx, func(q querier) error {
		var kind string
		if err := q.QueryRowContext(ctx, query, args...).Scan(&c.ID, &c.Name, &kind); err != nil {
			return err
		}
		c.Kind = core.Kind(kind)
		return nil
	})
	if errors.Is(err, sql.ErrNoRows) {
		return core.Category{}, fmt.Errorf("category %v: %w", args[0], core.ErrNotFound)
	}
	if err != nil {
		return core.Category{}, fmt.Errorf("get category: %w", err)
	}
	return c, nil
}

// CreateCategory inserts a category and returns its id.
func (r *SQLiteRepository) CreateCategory(ctx context.Context, name string, kind core.Kind) (int64, error) {
	var id int64
	err := r.withConn(ctx, func(q querier) error {
		res, err := q.ExecContext(ctx, `INSERT INTO categorias (nome, tipo) VALUES (?, ?)`, name, string(kind))
		if err != nil {
			return err
		}
		id, err = res.LastInsertId()
		return err
	})
	if isUniqueViolation(err) {
		return 0, fmt.Errorf("category %q (%s): %w", name, kind, core.ErrDuplicateCategory)
	}
	if err != nil {
		return 0, fmt.Errorf("create category: %w", err)
	}

	slog.InfoContext(ctx, "Category created", "id", id, "name", name, "kind", kind)
	return id, nil
}

// UpdateCategory renames a category; a non-empty kind replaces its kind too.
func (r *SQLiteRepository) UpdateCategory(ctx context.Context, id int64, name string, kind core.Kind) error {
	query := `UPDATE categorias SET nome = ? WHERE id = ?`
	args := []any{name, id}
	if kind != "" {
		query = `UPDATE categorias SET nome = ?, tipo = ? WHERE id = ?`
		args = []any{name, string(kind), id}
	}

	err := r.withConn(ctx, func(q querier) error {
		res, err := q.ExecContext(ctx, query, args...)
		if err != nil {
			return err
		}
		return affectedOrNotFound(res, "category", id)
	})
	if isUniqueViolation(err) {
		return fmt.Errorf("category %q: %w", name, core.ErrDuplicateCategory)
	}
	if err != nil {
		return fmt.Errorf("update category: %w", err)
	}

	slog.InfoContext(ctx, "Category updated", "id", id, "name", name)
	return nil
}

// DeleteCategory detaches the category from its transactions and removes
// it, in one transaction. It returns how many transactions became
// uncategorized; warning the user about them is the caller's business.
func (r *SQLiteRepository) DeleteCategory(ctx context.Context, id int64) (int64, error) {
	var detached int64
	err := r.withTx(ctx, func(q querier) error {
		res, err := q.ExecContext(ctx, `UPDATE transacoes SET categoria_id = NULL WHERE categoria_id = ?`, id)
		if err != nil {
			return err
		}
		if detached, err = res.RowsAffected(); err != nil {
			return err
		}
		res, err = q.ExecContext(ctx, `DELETE FROM categorias WHERE id = ?`, id)
		if err != nil {
			return err
		}
		return affectedOrNotFound(res, "category", id)
	})
	if err != nil {
		return 0, fmt.Errorf("delete category: %w", err)
	}

	slog.InfoContext(ctx, "Category deleted", "id", id, "detached_transactions", detached)
	return detached, nil
}

// CountCategoryTransactions returns how many transactions reference id.
func (r *SQLiteRepository) CountCategoryTransactions(ctx context.Context, id int64) (int64, error) {
	var n int64
	err := r.withConn(ctx, func(q querier) error {
		return q.QueryRowContext(ctx, `SELECT COUNT(*) FROM transacoes WHERE categoria_id = ?`, id).Scan(&n)
	})
	if err != nil {
		return 0, fmt.Errorf("count category transactions: %w", err)
	}
	return n, nil
}
