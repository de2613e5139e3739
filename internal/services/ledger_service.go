package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"fluxo/internal/amqp"
	"fluxo/internal/core"
	"fluxo/internal/log"
)

// Store is the persistence the ledger needs. *storage.SQLiteRepository
// satisfies it.
type Store interface {
	ListCategories(ctx context.Context, kind core.Kind) ([]core.Category, error)
	GetCategory(ctx context.Context, id int64) (core.Category, error)
	GetCategoryByName(ctx context.Context, name string, kind core.Kind) (core.Category, error)
	CreateCategory(ctx context.Context, name string, kind core.Kind) (int64, error)
	UpdateCategory(ctx context.Context, id int64, name string, kind core.Kind) error
	DeleteCategory(ctx context.Context, id int64) (int64, error)
	CountCategoryTransactions(ctx context.Context, id int64) (int64, error)

	ListTransactions(ctx context.Context, f core.TransactionFilter) ([]core.Transaction, error)
	GetTransaction(ctx context.Context, id int64) (core.Transaction, error)
	CreateTransaction(ctx context.Context, t core.Transaction) (int64, error)
	CreateTransactions(ctx context.Context, ts []core.Transaction) ([]int64, error)
	UpdateTransaction(ctx context.Context, t core.Transaction) error
	DeleteTransaction(ctx context.Context, id int64) error

	MonthlyFlow(ctx context.Context, year int) ([]core.MonthlyFlow, error)
	ExpenseDistribution(ctx context.Context, period core.Period) ([]core.CategoryTotal, error)
	Balance(ctx context.Context, f core.TransactionFilter) (core.Balance, error)

	Close() error
}

// ChangePublisher announces ledger mutations. *amqp.Client satisfies it.
type ChangePublisher interface {
	PublishChange(ctx context.Context, msg *amqp.ChangeMessage) error
	Close() error
}

// LedgerService validates input at the edge, forwards it to the store and
// announces every successful mutation.
type LedgerService struct {
	store     Store
	publisher ChangePublisher
	logger    *log.Logger
}

// NewLedgerService wires the service. publisher may be nil; logger
// defaults to the ledger component logger.
func NewLedgerService(store Store, publisher ChangePublisher, logger *log.Logger) *LedgerService {
	if logger == nil {
		cfg := log.DefaultConfig()
		cfg.Component = log.ComponentLedger
		logger = log.New(cfg)
	}
	return &LedgerService{
		store:     store,
		publisher: publisher,
		logger:    logger,
	}
}

// Categories lists categories, optionally only those of kind.
func (s *LedgerService) Categories(ctx context.Context, kind core.Kind) ([]core.Category, error) {
	if kind != "" {
		if err := kind.Validate(); err != nil {
			return nil, &core.FieldError{Field: "tipo", Err: err}
		}
	}
	return s.store.ListCategories(ctx, kind)
}

func (s *LedgerService) Category(ctx context.Context, id int64) (core.Category, error) {
	return s.store.GetCategory(ctx, id)
}

// GetCategoryByName looks a category up by its exact name within kind.
func (s *LedgerService) GetCategoryByName(ctx context.Context, name string, kind core.Kind) (core.Category, error) {
	return s.store.GetCategoryByName(ctx, strings.TrimSpace(name), kind)
}

// AddCategory creates a category after trimming its name.
func (s *LedgerService) AddCategory(ctx context.Context, name string, kind core.Kind) (core.Category, error) {
	c := core.Category{Name: strings.TrimSpace(name), Kind: kind}
	if err := c.Validate(); err != nil {
		return core.Category{}, err
	}

	id, err := s.store.CreateCategory(ctx, c.Name, c.Kind)
	if err != nil {
		return core.Category{}, fmt.Errorf("create category: %w", err)
	}
	c.ID = id

	s.logger.InfoContext(ctx, "Category created",
		log.FieldOperation, log.OpCreate,
		log.FieldID, id,
		log.FieldKind, c.Kind)
	s.publish(ctx, amqp.EntityCategory, amqp.ActionCreated, id)
	return c, nil
}

// RenameCategory changes a category's name and, when kind is set, its kind.
func (s *LedgerService) RenameCategory(ctx context.Context, id int64, name string, kind core.Kind) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return &core.FieldError{Field: "nome", Err: core.ErrEmptyName}
	}
	if kind != "" {
		if err := kind.Validate(); err != nil {
			return &core.FieldError{Field: "tipo", Err: err}
		}
	}

	if err := s.store.UpdateCategory(ctx, id, name, kind); err != nil {
		return fmt.Errorf("update category: %w", err)
	}

	s.logger.InfoContext(ctx, "Category updated",
		log.FieldOperation, log.OpUpdate,
		log.FieldID, id)
	s.publish(ctx, amqp.EntityCategory, amqp.ActionUpdated, id)
	return nil
}

// CategoryUsage counts the transactions that reference category id.
func (s *LedgerService) CategoryUsage(ctx context.Context, id int64) (int64, error) {
	return s.store.CountCategoryTransactions(ctx, id)
}

// RemoveCategory deletes a category and returns how many transactions
// became uncategorized.
func (s *LedgerService) RemoveCategory(ctx context.Context, id int64) (int64, error) {
	detached, err := s.store.DeleteCategory(ctx, id)
	if err != nil {
		return 0, fmt.Errorf("delete category: %w", err)
	}

	s.logger.InfoContext(ctx, "Category deleted",
		log.FieldOperation, log.OpDelete,
		log.FieldID, id,
		"detached", detached)
	s.publish(ctx, amqp.EntityCategory, amqp.ActionDeleted, id)
	return detached, nil
}

// Transactions lists transactions matching f, newest first.
func (s *LedgerService) Transactions(ctx context.Context, f core.TransactionFilter) ([]core.Transaction, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	s.logFilter(ctx, "Listing transactions", f)
	return s.store.ListTransactions(ctx, f)
}

func (s *LedgerService) Transaction(ctx context.Context, id int64) (core.Transaction, error) {
	return s.store.GetTransaction(ctx, id)
}

// AddTransaction validates t, checks its category and stores it.
func (s *LedgerService) AddTransaction(ctx context.Context, t core.Transaction) (int64, error) {
	t.Description = strings.TrimSpace(t.Description)
	if err := s.checkTransaction(ctx, t); err != nil {
		return 0, err
	}

	id, err := s.store.CreateTransaction(ctx, t)
	if err != nil {
		return 0, fmt.Errorf("create transaction: %w", err)
	}

	s.logger.InfoContext(ctx, "Transaction created",
		log.FieldOperation, log.OpCreate,
		log.FieldID, id,
		log.FieldKind, t.Kind,
		log.FieldAmountCents, t.Amount.Cents)
	s.publish(ctx, amqp.EntityTransaction, amqp.ActionCreated, id)
	return id, nil
}

// EditTransaction replaces every field of the transaction t.ID.
func (s *LedgerService) EditTransaction(ctx context.Context, t core.Transaction) error {
	t.Description = strings.TrimSpace(t.Description)
	if err := s.checkTransaction(ctx, t); err != nil {
		return err
	}

	if err := s.store.UpdateTransaction(ctx, t); err != nil {
		return fmt.Errorf("update transaction: %w", err)
	}

	s.logger.InfoContext(ctx, "Transaction updated",
		log.FieldOperation, log.OpUpdate,
		log.FieldID, t.ID)
	s.publish(ctx, amqp.EntityTransaction, amqp.ActionUpdated, t.ID)
	return nil
}

func (s *LedgerService) RemoveTransaction(ctx context.Context, id int64) error {
	if err := s.store.DeleteTransaction(ctx, id); err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}

	s.logger.InfoContext(ctx, "Transaction deleted",
		log.FieldOperation, log.OpDelete,
		log.FieldID, id)
	s.publish(ctx, amqp.EntityTransaction, amqp.ActionDeleted, id)
	return nil
}

// CreateTransactions stores an already validated batch atomically. It is
// the importer's entry point.
func (s *LedgerService) CreateTransactions(ctx context.Context, ts []core.Transaction) ([]int64, error) {
	ids, err := s.store.CreateTransactions(ctx, ts)
	if err != nil {
		return nil, fmt.Errorf("create transactions: %w", err)
	}

	s.logger.InfoContext(ctx, "Transactions imported",
		log.FieldOperation, log.OpImport,
		log.FieldRows, len(ids))
	if len(ids) > 0 {
		s.publish(ctx, amqp.EntityTransaction, amqp.ActionImported, ids...)
	}
	return ids, nil
}

// MonthlyFlow returns up to core.MaxFlowPeriods months, newest first.
// year 0 means every year.
func (s *LedgerService) MonthlyFlow(ctx context.Context, year int) ([]core.MonthlyFlow, error) {
	if err := (core.Period{Year: year}).Validate(); err != nil {
		return nil, err
	}
	s.logger.DebugContext(ctx, "Computing monthly flow", log.FieldYear, year)
	return s.store.MonthlyFlow(ctx, year)
}

func (s *LedgerService) ExpenseDistribution(ctx context.Context, period core.Period) ([]core.CategoryTotal, error) {
	if err := period.Validate(); err != nil {
		return nil, err
	}
	s.logger.DebugContext(ctx, "Computing expense distribution",
		log.FieldMonth, period.Month,
		log.FieldYear, period.Year)
	return s.store.ExpenseDistribution(ctx, period)
}

func (s *LedgerService) Balance(ctx context.Context, f core.TransactionFilter) (core.Balance, error) {
	if err := f.Validate(); err != nil {
		return core.Balance{}, err
	}
	s.logFilter(ctx, "Computing balance", f)
	return s.store.Balance(ctx, f)
}

func (s *LedgerService) logFilter(ctx context.Context, msg string, f core.TransactionFilter) {
	if f.IsZero() {
		return
	}
	s.logger.DebugContext(ctx, msg,
		log.FieldMonth, f.Month,
		log.FieldYear, f.Year,
		log.FieldKind, f.Kind)
}

func (s *LedgerService) checkTransaction(ctx context.Context, t core.Transaction) error {
	if err := t.Validate(); err != nil {
		return err
	}
	if !t.HasCategory() {
		return nil
	}

	c, err := s.store.GetCategory(ctx, *t.CategoryID)
	if errors.Is(err, core.ErrNotFound) {
		return &core.FieldError{Field: "categoria", Err: fmt.Errorf("category %d: %w", *t.CategoryID, core.ErrNotFound)}
	}
	if err != nil {
		return fmt.Errorf("load category: %w", err)
	}
	if c.Kind != t.Kind {
		s.logger.WarnContext(ctx, "Transaction kind differs from its category",
			log.FieldCategoryID, c.ID,
			"category_kind", c.Kind,
			log.FieldKind, t.Kind)
	}
	return nil
}

func (s *LedgerService) publish(ctx context.Context, entity, action string, ids ...int64) {
	if s.publisher == nil {
		return
	}
	msg := amqp.NewChangeMessage(entity, action, ids...)
	if err := s.publisher.PublishChange(ctx, msg); err != nil {
		// The change is already committed locally.
		s.logger.ErrorContext(ctx, "Failed to publish change message",
			log.FieldOperation, log.OpPublish,
			"routing_key", msg.RoutingKey(),
			log.FieldError, err)
	}
}

// Close closes both storage and AMQP connections
func (s *LedgerService) Close() error {
	var errs []error

	if s.store != nil {
		if err := s.store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}

	if s.publisher != nil {
		if err := s.publisher.Close(); err != nil {
			errs = append(errs, fmt.Errorf("amqp: %w", err))
		}
	}

	return errors.Join(errs...)
}
