package worker

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"fluxo/internal/amqp"
	"fluxo/internal/core"
)

// Reader resolves the ids carried by a change message to current rows.
type Reader interface {
	Transaction(ctx context.Context, id int64) (core.Transaction, error)
	Category(ctx context.Context, id int64) (core.Category, error)
}

// ChangeWorker describes each change message using the current state of
// the database. Rows deleted since the message was published are reported
// as gone rather than failing the message.
type ChangeWorker struct {
	reader Reader
	out    io.Writer
}

func NewChangeWorker(reader Reader, out io.Writer) *ChangeWorker {
	return &ChangeWorker{reader: reader, out: out}
}

// HandleChange writes one line per id in msg.
func (w *ChangeWorker) HandleChange(ctx context.Context, msg *amqp.ChangeMessage) error {
	slog.DebugContext(ctx, "Processing change message",
		"routing_key", msg.RoutingKey(),
		"ids", len(msg.IDs))

	stamp := msg.Timestamp.Format("2006-01-02 15:04:05")
	for _, id := range msg.IDs {
		line, err := w.describe(ctx, msg, id)
		if err != nil {
			return fmt.Errorf("describe %s %d: %w", msg.Entity, id, err)
		}
		if _, err := fmt.Fprintf(w.out, "%s  %-22s %s\n", stamp, msg.RoutingKey(), line); err != nil {
			return err
		}
	}
	return nil
}

func (w *ChangeWorker) describe(ctx context.Context, msg *amqp.ChangeMessage, id int64) (string, error) {
	if msg.Action == amqp.ActionDeleted {
		return fmt.Sprintf("#%d", id), nil
	}

	switch msg.Entity {
	case amqp.EntityTransaction:
		t, err := w.reader.Transaction(ctx, id)
		if errors.Is(err, core.ErrNotFound) {
			return fmt.Sprintf("#%d (já excluída)", id), nil
		}
		if err != nil {
			return "", err
		}
		cat := t.CategoryName
		if !t.HasCategory() {
			cat = "sem categoria"
		}
		return fmt.Sprintf("#%d %s %s %s [%s] %s", t.ID, t.Date, t.Kind.Label(), t.Amount, cat, t.Description), nil

	case amqp.EntityCategory:
		c, err := w.reader.Category(ctx, id)
		if errors.Is(err, core.ErrNotFound) {
			return fmt.Sprintf("#%d (já excluída)", id), nil
		}
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("#%d %s (%s)", c.ID, c.Name, c.Kind.Label()), nil
	}

	return fmt.Sprintf("#%d", id), nil
}
