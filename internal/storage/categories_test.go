package storage

import (
	"context"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fluxo/internal/core"
)

func TestListCategories(t *testing.T) {
	ctx := context.Background()
	repo := createTestStorage(t)

	t.Run("by kind", func(t *testing.T) {
		income, err := repo.ListCategories(ctx, core.KindIncome)
		require.NoError(t, err)
		require.Len(t, income, 3)
		for _, c := range income {
			assert.Equal(t, core.KindIncome, c.Kind)
		}

		expense, err := repo.ListCategories(ctx, core.KindExpense)
		require.NoError(t, err)
		assert.Len(t, expense, 7)
	})

	t.Run("ordered by name", func(t *testing.T) {
		cats, err := repo.ListCategories(ctx, core.KindExpense)
		require.NoError(t, err)
		names := make([]string, len(cats))
		for i, c := range cats {
			names[i] = c.Name
		}
		assert.True(t, sort.StringsAreSorted(names), "got %v", names)
	})
}

func TestCreateCategory(t *testing.T) {
	ctx := context.Background()
	repo := createTestStorage(t)

	t.Run("new category", func(t *testing.T) {
		id, err := repo.CreateCategory(ctx, "Vendas", core.KindIncome)
		require.NoError(t, err)
		assert.NotZero(t, id)

		c, err := repo.GetCategory(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, "Vendas", c.Name)
		assert.Equal(t, core.KindIncome, c.Kind)
	})

	t.Run("duplicate name and kind", func(t *testing.T) {
		_, err := repo.CreateCategory(ctx, "Alimentação", core.KindExpense)
		assert.ErrorIs(t, err, core.ErrDuplicateCategory)
	})

	t.Run("same name different kind", func(t *testing.T) {
		_, err := repo.CreateCategory(ctx, "Alimentação", core.KindIncome)
		assert.NoError(t, err)
	})
}

func TestGetCategory_NotFound(t *testing.T) {
	ctx := context.Background()
	repo := createTestStorage(t)

	_, err := repo.GetCategory(ctx, 9999)
	assert.ErrorIs(t, err, core.ErrNotFound)

	_, err = repo.GetCategoryByName(ctx, "Salário", core.KindExpense)
	assert.ErrorIs(t, err, core.ErrNotFound)
}

func TestUpdateCategory(t *testing.T) {
	ctx := context.Background()
	repo := createTestStorage(t)
	lazer := mustCategory(t, repo, "Lazer", core.KindExpense)

	t.Run("rename keeps kind", func(t *testing.T) {
		require.NoError(t, repo.UpdateCategory(ctx, lazer.ID, "Diversão", ""))
		c, err := repo.GetCategory(ctx, lazer.ID)
		require.NoError(t, err)
		assert.Equal(t, "Diversão", c.Name)
		assert.Equal(t, core.KindExpense, c.Kind)
	})

	t.Run("rename and change kind", func(t *testing.T) {
		require.NoError(t, repo.UpdateCategory(ctx, lazer.ID, "Prêmios", core.KindIncome))
		c, err := repo.GetCategory(ctx, lazer.ID)
		require.NoError(t, err)
		assert.Equal(t, core.KindIncome, c.Kind)
	})

	t.Run("unknown id", func(t *testing.T) {
		err := repo.UpdateCategory(ctx, 9999, "X", "")
		assert.ErrorIs(t, err, core.ErrNotFound)
	})

	t.Run("collision", func(t *testing.T) {
		err := repo.UpdateCategory(ctx, lazer.ID, "Salário", core.KindIncome)
		assert.ErrorIs(t, err, core.ErrDuplicateCategory)
	})
}

func TestDeleteCategory_DetachesTransactions(t *testing.T) {
	ctx := context.Background()
	repo := createTestStorage(t)
	food := mustCategory(t, repo, "Alimentação", core.KindExpense)

	tx := core.Transaction{
		Date:        core.NewDate(2024, 3, 20),
		Description: "Mercado",
		CategoryID:  &food.ID,
		Amount:      core.Money{Cents: 30000},
		Kind:        core.KindExpense,
	}
	id, err := repo.CreateTransaction(ctx, tx)
	require.NoError(t, err)

	n, err := repo.CountCategoryTransactions(ctx, food.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	detached, err := repo.DeleteCategory(ctx, food.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), detached)

	got, err := repo.GetTransaction(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, got.CategoryID)
	assert.Empty(t, got.CategoryName)
	assert.Equal(t, tx.Description, got.Description)
	assert.Equal(t, tx.Amount, got.Amount)
	assert.Equal(t, tx.Kind, got.Kind)
	assert.Equal(t, tx.Date.String(), got.Date.String())

	_, err = repo.GetCategory(ctx, food.ID)
	assert.ErrorIs(t, err, core.ErrNotFound)

	_, err = repo.DeleteCategory(ctx, food.ID)
	assert.ErrorIs(t, err, core.ErrNotFound)
}
