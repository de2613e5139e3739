package core

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	KindIncome  Kind = "entrada"
	KindExpense Kind = "saida"
)

// DateLayout is the storage and CLI representation of a Date.
const DateLayout = "2006-01-02"

type (
	// Kind tells income from expense. Categories and transactions carry
	// their own Kind; the two are expected to agree but are not bound.
	Kind string

	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	Category struct {
		ID   int64
		Name string
		Kind Kind
	}

	Transaction struct {
		ID          int64
		Date        Date
		Description string
		// CategoryID is nil when the transaction is uncategorized, either
		// because it never had one or because its category was deleted.
		CategoryID   *int64
		CategoryName string
		Amount       Money
		Kind         Kind
	}
)

var (
	ErrInvalidDate      = errors.New("invalid date")
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrInvalidKind      = errors.New("invalid kind: must be 'entrada' or 'saida'")
	ErrEmptyDescription = errors.New("empty description")
	ErrEmptyName        = errors.New("empty name")

	// ErrAmbiguousAmount is an ErrInvalidAmount for "1.500": a single dot
	// before exactly three digits reads as either 1,50 or 1.500,00.
	ErrAmbiguousAmount = fmt.Errorf("%w: ambiguous dot, write 1.500,00 or 1,50", ErrInvalidAmount)
)

// ParseKind accepts the stored values plus the English aliases used by the CLI.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "entrada", "income":
		return KindIncome, nil
	case "saida", "saída", "expense":
		return KindExpense, nil
	}
	return "", &FieldError{Field: "tipo", Err: ErrInvalidKind}
}

func (k Kind) Validate() error {
	if k != KindIncome && k != KindExpense {
		return ErrInvalidKind
	}
	return nil
}

func (k Kind) String() string {
	return string(k)
}

// Label returns the display label used in listings and charts.
func (k Kind) Label() string {
	switch k {
	case KindIncome:
		return "Entrada"
	case KindExpense:
		return "Saída"
	}
	return string(k)
}

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a YYYY-MM-DD string. time.Parse rejects impossible days
// such as 2024-02-30, which is what makes a date well-formed here.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, &FieldError{Field: "data", Err: fmt.Errorf("%w: %q, use YYYY-MM-DD", ErrInvalidDate, s)}
	}
	return Date{Time: t}, nil
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

func (d Date) String() string {
	return d.Format(DateLayout)
}

// Month returns the month
func (d Date) Month() int {
	return int(d.Time.Month())
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (c Category) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return &FieldError{Field: "nome", Err: ErrEmptyName}
	}
	if len(c.Name) > 100 {
		return &FieldError{Field: "nome", Err: errors.New("name too long (max 100 characters)")}
	}
	if err := c.Kind.Validate(); err != nil {
		return &FieldError{Field: "tipo", Err: err}
	}
	return nil
}

func (t Transaction) Validate() error {
	if err := t.Date.Validate(); err != nil {
		return &FieldError{Field: "data", Err: err}
	}
	if strings.TrimSpace(t.Description) == "" {
		return &FieldError{Field: "descricao", Err: ErrEmptyDescription}
	}
	if len(t.Description) > 200 {
		return &FieldError{Field: "descricao", Err: errors.New("description too long (max 200 characters)")}
	}
	if err := t.Amount.Validate(); err != nil {
		return &FieldError{Field: "valor", Err: err}
	}
	if err := t.Kind.Validate(); err != nil {
		return &FieldError{Field: "tipo", Err: err}
	}
	return nil
}

// HasCategory reports whether the transaction references a category.
func (t Transaction) HasCategory() bool {
	return t.CategoryID != nil
}
