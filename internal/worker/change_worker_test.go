package worker

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"fluxo/internal/amqp"
	"fluxo/internal/core"
)

type fakeReader struct {
	txs  map[int64]core.Transaction
	cats map[int64]core.Category
	err  error
}

func (f *fakeReader) Transaction(_ context.Context, id int64) (core.Transaction, error) {
	if f.err != nil {
		return core.Transaction{}, f.err
	}
	t, ok := f.txs[id]
	if !ok {
		return core.Transaction{}, fmt.Errorf("transaction %d: %w", id, core.ErrNotFound)
	}
	return t, nil
}

func (f *fakeReader) Category(_ context.Context, id int64) (core.Category, error) {
	c, ok := f.cats[id]
	if !ok {
		return core.Category{}, fmt.Errorf("category %d: %w", id, core.ErrNotFound)
	}
	return c, nil
}

func message(entity, action string, ids ...int64) *amqp.ChangeMessage {
	msg := amqp.NewChangeMessage(entity, action, ids...)
	msg.Timestamp = time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC)
	return msg
}

func TestHandleChange(t *testing.T) {
	catID := int64(4)
	reader := &fakeReader{
		txs: map[int64]core.Transaction{
			1: {ID: 1, Date: core.NewDate(2024, 3, 5), Description: "Feira", CategoryID: &catID, CategoryName: "Alimentação", Amount: core.Money{Cents: 15050}, Kind: core.KindExpense},
			2: {ID: 2, Date: core.NewDate(2024, 3, 6), Description: "Pix", Amount: core.Money{Cents: 1000}, Kind: core.KindIncome},
		},
		cats: map[int64]core.Category{4: {ID: 4, Name: "Alimentação", Kind: core.KindExpense}},
	}

	tests := []struct {
		name string
		msg  *amqp.ChangeMessage
		want []string
	}{
		{
			name: "imported transactions",
			msg:  message(amqp.EntityTransaction, amqp.ActionImported, 1, 2),
			want: []string{
				"2024-03-05 10:00:00  transaction.imported   #1 2024-03-05 Saída R$ 150,50 [Alimentação] Feira",
				"2024-03-05 10:00:00  transaction.imported   #2 2024-03-06 Entrada R$ 10,00 [sem categoria] Pix",
			},
		},
		{
			name: "transaction gone since publish",
			msg:  message(amqp.EntityTransaction, amqp.ActionUpdated, 9),
			want: []string{"2024-03-05 10:00:00  transaction.updated    #9 (já excluída)"},
		},
		{
			name: "deleted",
			msg:  message(amqp.EntityCategory, amqp.ActionDeleted, 4),
			want: []string{"2024-03-05 10:00:00  category.deleted       #4"},
		},
		{
			name: "category",
			msg:  message(amqp.EntityCategory, amqp.ActionCreated, 4),
			want: []string{"2024-03-05 10:00:00  category.created       #4 Alimentação (Saída)"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			w := NewChangeWorker(reader, &buf)

			if err := w.HandleChange(context.Background(), tt.msg); err != nil {
				t.Fatalf("HandleChange: %v", err)
			}
			got := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
			if len(got) != len(tt.want) {
				t.Fatalf("got %d lines, want %d:\n%s", len(got), len(tt.want), buf.String())
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("line %d:\n got %q\nwant %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestHandleChange_ReaderFailure(t *testing.T) {
	var buf bytes.Buffer
	w := NewChangeWorker(&fakeReader{err: errors.New("database is locked")}, &buf)

	err := w.HandleChange(context.Background(), message(amqp.EntityTransaction, amqp.ActionCreated, 1))
	if err == nil || !strings.Contains(err.Error(), "database is locked") {
		t.Fatalf("expected reader error, got %v", err)
	}
}
