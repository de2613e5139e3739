package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fluxo/internal/core"
)

func TestAggregates_MarchScenario(t *testing.T) {
	ctx := context.Background()
	repo := createTestStorage(t)
	salary := mustCategory(t, repo, "Salário", core.KindIncome)
	food := mustCategory(t, repo, "Alimentação", core.KindExpense)

	_, err := repo.CreateTransaction(ctx, newTx(core.NewDate(2024, 3, 15), "Salário", &salary, 100000, core.KindIncome))
	require.NoError(t, err)
	_, err = repo.CreateTransaction(ctx, newTx(core.NewDate(2024, 3, 20), "Mercado", &food, 30000, core.KindExpense))
	require.NoError(t, err)

	flow, err := repo.MonthlyFlow(ctx, 2024)
	require.NoError(t, err)
	assert.Equal(t, []core.MonthlyFlow{{
		Period:  "2024-03",
		Income:  core.Money{Cents: 100000},
		Expense: core.Money{Cents: 30000},
	}}, flow)

	dist, err := repo.ExpenseDistribution(ctx, core.Period{Month: 3, Year: 2024})
	require.NoError(t, err)
	assert.Equal(t, []core.CategoryTotal{{Name: "Alimentação", Total: core.Money{Cents: 30000}}}, dist)

	// The expense becomes uncategorized and drops out of the distribution.
	_, err = repo.DeleteCategory(ctx, food.ID)
	require.NoError(t, err)

	dist, err = repo.ExpenseDistribution(ctx, core.Period{Month: 3, Year: 2024})
	require.NoError(t, err)
	assert.Empty(t, dist)

	// The monthly flow still counts it.
	flow, err = repo.MonthlyFlow(ctx, 2024)
	require.NoError(t, err)
	require.Len(t, flow, 1)
	assert.Equal(t, int64(30000), flow[0].Expense.Cents)
}

func TestMonthlyFlow_CapsAndOrders(t *testing.T) {
	ctx := context.Background()
	repo := createTestStorage(t)

	// 15 consecutive months from 2023-01 to 2024-03, one income each
	for i := 0; i < 15; i++ {
		year, month := 2023+i/12, i%12+1
		_, err := repo.CreateTransaction(ctx, newTx(core.NewDate(year, month, 1), "Renda", nil, int64(1000*(i+1)), core.KindIncome))
		require.NoError(t, err)
	}
	_, err := repo.CreateTransaction(ctx, newTx(core.NewDate(2024, 3, 5), "Conta", nil, 700, core.KindExpense))
	require.NoError(t, err)

	flow, err := repo.MonthlyFlow(ctx, 0)
	require.NoError(t, err)
	require.Len(t, flow, core.MaxFlowPeriods)
	assert.Equal(t, "2024-03", flow[0].Period)
	assert.Equal(t, "2023-04", flow[len(flow)-1].Period)
	assert.Equal(t, int64(15000), flow[0].Income.Cents)
	assert.Equal(t, int64(700), flow[0].Expense.Cents)
	// Months without expenses report zero, not absence
	assert.Equal(t, int64(0), flow[1].Expense.Cents)

	for i := 1; i < len(flow); i++ {
		assert.Greater(t, flow[i-1].Period, flow[i].Period)
	}

	flow2023, err := repo.MonthlyFlow(ctx, 2023)
	require.NoError(t, err)
	require.Len(t, flow2023, 12)
	for _, f := range flow2023 {
		assert.Contains(t, f.Period, "2023-")
	}
}

func TestMonthlyFlow_SumsPerPeriod(t *testing.T) {
	ctx := context.Background()
	repo := createTestStorage(t)

	amounts := []struct {
		date  core.Date
		cents int64
		kind  core.Kind
	}{
		{core.NewDate(2024, 1, 3), 1000, core.KindIncome},
		{core.NewDate(2024, 1, 28), 2500, core.KindIncome},
		{core.NewDate(2024, 1, 10), 400, core.KindExpense},
		{core.NewDate(2024, 1, 11), 600, core.KindExpense},
		{core.NewDate(2024, 2, 1), 999, core.KindExpense},
		{core.NewDate(2025, 1, 1), 123, core.KindIncome},
	}
	for _, a := range amounts {
		_, err := repo.CreateTransaction(ctx, newTx(a.date, "x", nil, a.cents, a.kind))
		require.NoError(t, err)
	}

	flow, err := repo.MonthlyFlow(ctx, 2024)
	require.NoError(t, err)
	assert.Equal(t, []core.MonthlyFlow{
		{Period: "2024-02", Income: core.Money{}, Expense: core.Money{Cents: 999}},
		{Period: "2024-01", Income: core.Money{Cents: 3500}, Expense: core.Money{Cents: 1000}},
	}, flow)

	empty, err := repo.MonthlyFlow(ctx, 2020)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestExpenseDistribution_ExpensesOnly(t *testing.T) {
	ctx := context.Background()
	repo := createTestStorage(t)
	food := mustCategory(t, repo, "Alimentação", core.KindExpense)
	home := mustCategory(t, repo, "Moradia", core.KindExpense)
	other := mustCategory(t, repo, "Outros", core.KindIncome)

	seed := []core.Transaction{
		newTx(core.NewDate(2024, 3, 1), "Aluguel", &home, 150000, core.KindExpense),
		newTx(core.NewDate(2024, 3, 2), "Mercado", &food, 30000, core.KindExpense),
		newTx(core.NewDate(2024, 3, 9), "Feira", &food, 10000, core.KindExpense),
		newTx(core.NewDate(2024, 4, 2), "Mercado abril", &food, 5000, core.KindExpense),
		newTx(core.NewDate(2023, 3, 2), "Mercado 2023", &food, 7000, core.KindExpense),
		// income booked under an expense category must not count
		newTx(core.NewDate(2024, 3, 3), "Reembolso", &food, 99999, core.KindIncome),
		newTx(core.NewDate(2024, 3, 4), "Venda", &other, 5000, core.KindIncome),
		newTx(core.NewDate(2024, 3, 5), "Sem categoria", nil, 8000, core.KindExpense),
	}
	for _, tx := range seed {
		_, err := repo.CreateTransaction(ctx, tx)
		require.NoError(t, err)
	}

	dist, err := repo.ExpenseDistribution(ctx, core.Period{Month: 3, Year: 2024})
	require.NoError(t, err)
	assert.Equal(t, []core.CategoryTotal{
		{Name: "Moradia", Total: core.Money{Cents: 150000}},
		{Name: "Alimentação", Total: core.Money{Cents: 40000}},
	}, dist)

	all, err := repo.ExpenseDistribution(ctx, core.Period{})
	require.NoError(t, err)
	assert.Equal(t, []core.CategoryTotal{
		{Name: "Moradia", Total: core.Money{Cents: 150000}},
		{Name: "Alimentação", Total: core.Money{Cents: 52000}},
	}, all)

	march, err := repo.ExpenseDistribution(ctx, core.Period{Month: 3})
	require.NoError(t, err)
	require.Len(t, march, 2)
	assert.Equal(t, int64(47000), march[1].Total.Cents)
}

func TestBalance(t *testing.T) {
	ctx := context.Background()
	repo := createTestStorage(t)

	b, err := repo.Balance(ctx, core.TransactionFilter{})
	require.NoError(t, err)
	assert.Equal(t, core.Balance{}, b)

	for _, tx := range []core.Transaction{
		newTx(core.NewDate(2024, 3, 15), "Salário", nil, 100000, core.KindIncome),
		newTx(core.NewDate(2024, 3, 20), "Mercado", nil, 30000, core.KindExpense),
		newTx(core.NewDate(2024, 4, 20), "Aluguel", nil, 150000, core.KindExpense),
	} {
		_, err := repo.CreateTransaction(ctx, tx)
		require.NoError(t, err)
	}

	b, err = repo.Balance(ctx, core.TransactionFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(100000), b.Income.Cents)
	assert.Equal(t, int64(180000), b.Expense.Cents)
	assert.Equal(t, int64(-80000), b.Net().Cents)

	b, err = repo.Balance(ctx, core.TransactionFilter{Period: core.Period{Month: 3, Year: 2024}})
	require.NoError(t, err)
	assert.Equal(t, int64(70000), b.Net().Cents)

	b, err = repo.Balance(ctx, core.TransactionFilter{Kind: core.KindExpense})
	require.NoError(t, err)
	assert.Zero(t, b.Income.Cents)
	assert.Equal(t, int64(180000), b.Expense.Cents)
}
