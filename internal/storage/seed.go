package storage

import (
	"context"
	"fmt"
	"log/slog"

	"fluxo/internal/core"
)

// SeedDefaultCategories inserts core.DefaultCategories when the category
// table is empty and returns how many rows were written. It is safe to call
// repeatedly: a non-empty table is left alone, and INSERT OR IGNORE keeps a
// concurrent first run from duplicating rows.
func (r *SQLiteRepository) SeedDefaultCategories(ctx context.Context) (int, error) {
	inserted := 0
	err := r.withTx(ctx, func(q querier) error {
		var count int64
		if err := q.QueryRowContext(ctx, `SELECT COUNT(*) FROM categorias`).Scan(&count); err != nil {
			return fmt.Errorf("count categories: %w", err)
		}
		if count > 0 {
			return nil
		}
		for _, c := range core.DefaultCategories {
			res, err := q.ExecContext(ctx,
				`INSERT OR IGNORE INTO categorias (nome, tipo) VALUES (?, ?)`,
				c.Name, string(c.Kind))
			if err != nil {
				return fmt.Errorf("seed category %q: %w", c.Name, err)
			}
			if n, err := res.RowsAffected(); err == nil {
				inserted += int(n)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	if inserted > 0 {
		slog.InfoContext(ctx, "Seeded default categories", "count", inserted)
	}
	return inserted, nil
}
