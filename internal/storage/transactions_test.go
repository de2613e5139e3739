package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fluxo/internal/core"
)

func newTx(date core.Date, desc string, cat *core.Category, cents int64, kind core.Kind) core.Transaction {
	t := core.Transaction{Date: date, Description: desc, Amount: core.Money{Cents: cents}, Kind: kind}
	if cat != nil {
		t.CategoryID = &cat.ID
	}
	return t
}

func TestCreateTransaction_RoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := createTestStorage(t)
	salary := mustCategory(t, repo, "Salário", core.KindIncome)

	in := newTx(core.NewDate(2024, 3, 15), "Salário março", &salary, 100000, core.KindIncome)
	id, err := repo.CreateTransaction(ctx, in)
	require.NoError(t, err)

	list, err := repo.ListTransactions(ctx, core.TransactionFilter{})
	require.NoError(t, err)
	require.Len(t, list, 1)

	got := list[0]
	assert.Equal(t, id, got.ID)
	assert.Equal(t, "2024-03-15", got.Date.String())
	assert.Equal(t, in.Description, got.Description)
	require.NotNil(t, got.CategoryID)
	assert.Equal(t, salary.ID, *got.CategoryID)
	assert.Equal(t, "Salário", got.CategoryName)
	assert.Equal(t, int64(100000), got.Amount.Cents)
	assert.Equal(t, core.KindIncome, got.Kind)
}

func TestCreateTransaction_Uncategorized(t *testing.T) {
	ctx := context.Background()
	repo := createTestStorage(t)

	id, err := repo.CreateTransaction(ctx, newTx(core.NewDate(2024, 1, 2), "Pix", nil, 500, core.KindIncome))
	require.NoError(t, err)

	got, err := repo.GetTransaction(ctx, id)
	require.NoError(t, err)
	assert.False(t, got.HasCategory())
}

func TestCreateTransaction_DanglingCategory(t *testing.T) {
	ctx := context.Background()
	repo := createTestStorage(t)
	missing := core.Category{ID: 4242}

	_, err := repo.CreateTransaction(ctx, newTx(core.NewDate(2024, 1, 2), "x", &missing, 500, core.KindExpense))
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestListTransactions_Filters(t *testing.T) {
	ctx := context.Background()
	repo := createTestStorage(t)
	salary := mustCategory(t, repo, "Salário", core.KindIncome)
	food := mustCategory(t, repo, "Alimentação", core.KindExpense)

	seed := []core.Transaction{
		newTx(core.NewDate(2023, 3, 10), "Mercado 2023", &food, 1000, core.KindExpense),
		newTx(core.NewDate(2024, 3, 15), "Salário", &salary, 100000, core.KindIncome),
		newTx(core.NewDate(2024, 3, 20), "Mercado", &food, 30000, core.KindExpense),
		newTx(core.NewDate(2024, 4, 1), "Feira", &food, 5000, core.KindExpense),
	}
	for _, tx := range seed {
		_, err := repo.CreateTransaction(ctx, tx)
		require.NoError(t, err)
	}

	descriptions := func(f core.TransactionFilter) []string {
		list, err := repo.ListTransactions(ctx, f)
		require.NoError(t, err)
		out := make([]string, len(list))
		for i, tx := range list {
			out[i] = tx.Description
		}
		return out
	}

	tests := []struct {
		name   string
		filter core.TransactionFilter
		want   []string
	}{
		{"no filter newest first", core.TransactionFilter{}, []string{"Feira", "Mercado", "Salário", "Mercado 2023"}},
		{"month across years", core.TransactionFilter{Period: core.Period{Month: 3}}, []string{"Mercado", "Salário", "Mercado 2023"}},
		{"year", core.TransactionFilter{Period: core.Period{Year: 2024}}, []string{"Feira", "Mercado", "Salário"}},
		{"month and year", core.TransactionFilter{Period: core.Period{Month: 3, Year: 2024}}, []string{"Mercado", "Salário"}},
		{"kind", core.TransactionFilter{Kind: core.KindIncome}, []string{"Salário"}},
		{"all criteria", core.TransactionFilter{Period: core.Period{Month: 3, Year: 2024}, Kind: core.KindExpense}, []string{"Mercado"}},
		{"no match", core.TransactionFilter{Period: core.Period{Year: 2022}}, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, descriptions(tt.filter))
		})
	}
}

func TestUpdateTransaction(t *testing.T) {
	ctx := context.Background()
	repo := createTestStorage(t)
	food := mustCategory(t, repo, "Alimentação", core.KindExpense)
	salary := mustCategory(t, repo, "Salário", core.KindIncome)

	id, err := repo.CreateTransaction(ctx, newTx(core.NewDate(2024, 3, 20), "Mercado", &food, 30000, core.KindExpense))
	require.NoError(t, err)

	t.Run("full replace", func(t *testing.T) {
		upd := newTx(core.NewDate(2024, 5, 1), "Bônus", &salary, 12345, core.KindIncome)
		upd.ID = id
		require.NoError(t, repo.UpdateTransaction(ctx, upd))

		got, err := repo.GetTransaction(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "2024-05-01", got.Date.String())
		assert.Equal(t, "Bônus", got.Description)
		assert.Equal(t, "Salário", got.CategoryName)
		assert.Equal(t, int64(12345), got.Amount.Cents)
		assert.Equal(t, core.KindIncome, got.Kind)
	})

	t.Run("clear category", func(t *testing.T) {
		upd := newTx(core.NewDate(2024, 5, 1), "Bônus", nil, 12345, core.KindIncome)
		upd.ID = id
		require.NoError(t, repo.UpdateTransaction(ctx, upd))

		got, err := repo.GetTransaction(ctx, id)
		require.NoError(t, err)
		assert.Nil(t, got.CategoryID)
	})

	t.Run("unknown id", func(t *testing.T) {
		upd := newTx(core.NewDate(2024, 5, 1), "x", nil, 1, core.KindIncome)
		upd.ID = 9999
		assert.ErrorIs(t, repo.UpdateTransaction(ctx, upd), core.ErrNotFound)
	})
}

func TestDeleteTransaction(t *testing.T) {
	ctx := context.Background()
	repo := createTestStorage(t)

	id, err := repo.CreateTransaction(ctx, newTx(core.NewDate(2024, 3, 20), "Mercado", nil, 30000, core.KindExpense))
	require.NoError(t, err)

	require.NoError(t, repo.DeleteTransaction(ctx, id))
	_, err = repo.GetTransaction(ctx, id)
	assert.ErrorIs(t, err, core.ErrNotFound)

	assert.ErrorIs(t, repo.DeleteTransaction(ctx, id), core.ErrNotFound)
}

func TestCreateTransactions_AllOrNothing(t *testing.T) {
	ctx := context.Background()
	repo := createTestStorage(t)
	food := mustCategory(t, repo, "Alimentação", core.KindExpense)
	missing := core.Category{ID: 4242}

	batch := []core.Transaction{
		newTx(core.NewDate(2024, 3, 1), "ok 1", &food, 100, core.KindExpense),
		newTx(core.NewDate(2024, 3, 2), "ok 2", &food, 200, core.KindExpense),
		newTx(core.NewDate(2024, 3, 3), "dangling", &missing, 300, core.KindExpense),
	}
	_, err := repo.CreateTransactions(ctx, batch)
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrNotFound)

	list, err := repo.ListTransactions(ctx, core.TransactionFilter{})
	require.NoError(t, err)
	assert.Empty(t, list, "failed batch must not leave rows behind")

	ids, err := repo.CreateTransactions(ctx, batch[:2])
	require.NoError(t, err)
	assert.Len(t, ids, 2)
}
