package storage

import (
	"context"
	"fmt"

	"fluxo/internal/core"
)

// MonthlyFlow sums income and expense per calendar year-month, optionally
// within one year (0 means every year). It returns at most
// core.MaxFlowPeriods rows, most recent first. A month with only one kind
// reports zero for the other.
func (r *SQLiteRepository) MonthlyFlow(ctx context.Context, year int) ([]core.MonthlyFlow, error) {
	p := &predicates{}
	p.period("data", core.Period{Year: year})
	args := append(p.args, core.MaxFlowPeriods)

	query := `
		SELECT strftime('%Y-%m', data) AS periodo,
		       COALESCE(SUM(CASE WHEN tipo = 'entrada' THEN valor ELSE 0 END), 0) AS entradas,
		       COALESCE(SUM(CASE WHEN tipo = 'saida' THEN valor ELSE 0 END), 0) AS saidas
		FROM transacoes` + p.where() + `
		GROUP BY periodo
		ORDER BY periodo DESC
		LIMIT ?`

	var out []core.MonthlyFlow
	err := r.withConn(ctx, func(q querier) error {
		rows, err := q.QueryContext(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var f core.MonthlyFlow
			if err := rows.Scan(&f.Period, &f.Income.Cents, &f.Expense.Cents); err != nil {
				return err
			}
			out = append(out, f)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("monthly flow: %w", err)
	}
	return out, nil
}

// ExpenseDistribution sums expenses per category name within period,
// largest first. Uncategorized expenses are not part of any group and are
// left out.
func (r *SQLiteRepository) ExpenseDistribution(ctx context.Context, period core.Period) ([]core.CategoryTotal, error) {
	p := &predicates{}
	p.kind("t.tipo", core.KindExpense)
	p.period("t.data", period)

	query := `
		SELECT c.nome, SUM(t.valor) AS total
		FROM transacoes t
		JOIN categorias c ON c.id = t.categoria_id` + p.where() + `
		GROUP BY c.nome
		ORDER BY total DESC, c.nome`

	var out []core.CategoryTotal
	err := r.withConn(ctx, func(q querier) error {
		rows, err := q.QueryContext(ctx, query, p.args...)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var ct core.CategoryTotal
			if err := rows.Scan(&ct.Name, &ct.Total.Cents); err != nil {
				return err
			}
			out = append(out, ct)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("expense distribution: %w", err)
	}
	return out, nil
}

// Balance totals income and expense under the same criteria as
// ListTransactions.
func (r *SQLiteRepository) Balance(ctx context.Context, f core.TransactionFilter) (core.Balance, error) {
	p := transactionPredicates("", f)

	query := `
		SELECT COALESCE(SUM(CASE WHEN tipo = 'entrada' THEN valor ELSE 0 END), 0),
		       COALESCE(SUM(CASE WHEN tipo = 'saida' THEN valor ELSE 0 END), 0)
		FROM transacoes` + p.where()

	var b core.Balance
	err := r.withConn(ctx, func(q querier) error {
		return q.QueryRowContext(ctx, query, p.args...).Scan(&b.Income.Cents, &b.Expense.Cents)
	})
	if err != nil {
		return core.Balance{}, fmt.Errorf("balance: %w", err)
	}
	return b, nil
}
